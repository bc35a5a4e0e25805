package repositories

import (
	"fmt"

	"inkpress/app/models"

	"gorm.io/gorm"
)

// GormCategoryRepository implements CategoryRepository using GORM
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

func (r *GormCategoryRepository) Create(category *models.Category) error {
	if err := r.db.Create(category).Error; err != nil {
		return fmt.Errorf("failed to create category: %w", translateError(err))
	}
	return nil
}

func (r *GormCategoryRepository) GetByID(id uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.First(&category, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &category, nil
}

func (r *GormCategoryRepository) GetByName(name string) (*models.Category, error) {
	var category models.Category
	if err := r.db.Where("name = ?", name).First(&category).Error; err != nil {
		return nil, translateError(err)
	}
	return &category, nil
}

// List returns every category alphabetically
func (r *GormCategoryRepository) List() ([]*models.Category, error) {
	var categories []*models.Category
	if err := r.db.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *GormCategoryRepository) Count() (int64, error) {
	var n int64
	if err := r.db.Model(&models.Category{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// WithPostCounts annotates categories with their number of published posts
func (r *GormCategoryRepository) WithPostCounts(excludeID uint, limit int) ([]models.CategoryCount, error) {
	tx := r.db.Model(&models.Category{}).
		Select("categories.id, categories.name, categories.description, categories.created_at, COUNT(posts.id) AS post_count").
		Joins("JOIN posts ON posts.category_id = categories.id AND posts.published = ?", true).
		Group("categories.id, categories.name, categories.description, categories.created_at").
		Order("categories.name ASC")
	if excludeID != 0 {
		tx = tx.Where("categories.id <> ?", excludeID)
	}
	if limit > 0 {
		tx = tx.Limit(limit)
	}

	var counts []models.CategoryCount
	if err := tx.Scan(&counts).Error; err != nil {
		return nil, fmt.Errorf("failed to count category posts: %w", err)
	}
	return counts, nil
}

// Delete removes a category; its posts become uncategorised
func (r *GormCategoryRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.Post{}).
			Where("category_id = ?", id).
			Update("category_id", nil).Error
		if err != nil {
			return fmt.Errorf("failed to detach posts from category %d: %w", id, err)
		}
		res := tx.Delete(&models.Category{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
