package repositories

import (
	"fmt"

	"inkpress/app/models"

	"gorm.io/gorm"
)

// GormAuthorRepository implements AuthorRepository using GORM
type GormAuthorRepository struct {
	db *gorm.DB
}

// NewGormAuthorRepository creates a new GormAuthorRepository
func NewGormAuthorRepository(db *gorm.DB) *GormAuthorRepository {
	return &GormAuthorRepository{db: db}
}

func (r *GormAuthorRepository) Create(author *models.Author) error {
	if err := r.db.Create(author).Error; err != nil {
		return fmt.Errorf("failed to create author: %w", translateError(err))
	}
	return nil
}

func (r *GormAuthorRepository) GetByID(id uint) (*models.Author, error) {
	var author models.Author
	if err := r.db.First(&author, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &author, nil
}

func (r *GormAuthorRepository) GetByUsername(username string) (*models.Author, error) {
	var author models.Author
	if err := r.db.Where("username = ?", username).First(&author).Error; err != nil {
		return nil, translateError(err)
	}
	return &author, nil
}
