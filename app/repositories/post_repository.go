package repositories

import (
	"fmt"

	"inkpress/app/models"

	"gorm.io/gorm"
)

// GormPostRepository implements PostRepository using GORM
type GormPostRepository struct {
	db *gorm.DB
}

// NewGormPostRepository creates a new GormPostRepository
func NewGormPostRepository(db *gorm.DB) *GormPostRepository {
	return &GormPostRepository{db: db}
}

// Create creates a new post
func (r *GormPostRepository) Create(post *models.Post) error {
	if err := r.db.Omit("Author", "Category", "Comments").Create(post).Error; err != nil {
		return fmt.Errorf("failed to create post: %w", translateError(err))
	}
	return nil
}

// GetByID retrieves a post by ID with its author and category
func (r *GormPostRepository) GetByID(id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.Preload("Author").Preload("Category").First(&post, id).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &post, nil
}

// GetBySlug retrieves a post by slug with its author and category
func (r *GormPostRepository) GetBySlug(slug string) (*models.Post, error) {
	var post models.Post
	err := r.db.Preload("Author").Preload("Category").
		Where("slug = ?", slug).
		First(&post).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &post, nil
}

// SlugExists reports whether any post already uses slug
func (r *GormPostRepository) SlugExists(slug string) (bool, error) {
	var n int64
	if err := r.db.Model(&models.Post{}).Where("slug = ?", slug).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// Update saves an existing post. The slug is never rewritten.
func (r *GormPostRepository) Update(post *models.Post) error {
	post.FillExcerpt()
	res := r.db.Model(post).
		Select("*").
		Omit("ID", "Slug", "Author", "Category", "Comments").
		Updates(post)
	if res.Error != nil {
		return fmt.Errorf("failed to update post: %w", translateError(res.Error))
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete deletes a post and all its comments
func (r *GormPostRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return fmt.Errorf("failed to delete comments of post %d: %w", id, err)
		}
		res := tx.Delete(&models.Post{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// List retrieves a page of posts matching q
func (r *GormPostRepository) List(q PostQuery, limit, offset int) ([]*models.Post, error) {
	tx := r.filtered(q).
		Select("posts.*, "+activeCommentCount+" AS comment_count", true).
		Preload("Author").
		Preload("Category").
		Order(orderClause(q.Sort))
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	if offset > 0 {
		tx = tx.Offset(offset)
	}

	var posts []*models.Post
	if err := tx.Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

// Count counts posts matching q
func (r *GormPostRepository) Count(q PostQuery) (int64, error) {
	var n int64
	if err := r.filtered(q).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}
	return n, nil
}

// Titles returns titles of published posts containing term, newest first
func (r *GormPostRepository) Titles(term string, limit int) ([]string, error) {
	var titles []string
	err := r.db.Model(&models.Post{}).
		Where("posts.published = ?", true).
		Where(`LOWER(posts.title) LIKE LOWER(?) ESCAPE '\'`, containsPattern(term)).
		Order(orderClause(SortNewest)).
		Limit(limit).
		Pluck("posts.title", &titles).Error
	if err != nil {
		return nil, err
	}
	return titles, nil
}

// filtered builds the FROM and WHERE parts shared by List and Count.
func (r *GormPostRepository) filtered(q PostQuery) *gorm.DB {
	tx := r.db.Model(&models.Post{})

	if q.PublishedOnly {
		tx = tx.Where("posts.published = ?", true)
	}
	if q.Search != "" {
		p := containsPattern(q.Search)
		tx = tx.Joins("LEFT JOIN authors ON authors.id = posts.author_id").
			Where(`(LOWER(posts.title) LIKE LOWER(?) ESCAPE '\'`+
				` OR LOWER(posts.content) LIKE LOWER(?) ESCAPE '\'`+
				` OR LOWER(COALESCE(posts.excerpt, '')) LIKE LOWER(?) ESCAPE '\'`+
				` OR LOWER(authors.username) LIKE LOWER(?) ESCAPE '\')`, p, p, p, p)
	}
	if q.CategoryID != 0 {
		tx = tx.Where("posts.category_id = ?", q.CategoryID)
	}
	if q.AuthorID != 0 {
		tx = tx.Where("posts.author_id = ?", q.AuthorID)
	}
	if q.Featured != nil {
		tx = tx.Where("posts.featured = ?", *q.Featured)
	}
	if q.Year != 0 {
		start, end := monthRange(q.Year, q.Month)
		tx = tx.Where("posts.created_at >= ? AND posts.created_at < ?", start, end)
	}
	if !q.CreatedSince.IsZero() {
		tx = tx.Where("posts.created_at >= ?", q.CreatedSince.UTC())
	}
	if !q.CreatedBefore.IsZero() {
		tx = tx.Where("posts.created_at < ?", q.CreatedBefore.UTC())
	}
	if !q.CreatedAfter.IsZero() {
		tx = tx.Where("posts.created_at > ?", q.CreatedAfter.UTC())
	}
	if len(q.ExcludeIDs) > 0 {
		tx = tx.Where("posts.id NOT IN ?", q.ExcludeIDs)
	}
	if q.MinActiveComments > 0 {
		tx = tx.Where(activeCommentCount+" >= ?", true, q.MinActiveComments)
	}
	return tx
}
