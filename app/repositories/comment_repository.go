package repositories

import (
	"fmt"

	"inkpress/app/models"

	"gorm.io/gorm"
)

// GormCommentRepository implements CommentRepository using GORM
type GormCommentRepository struct {
	db *gorm.DB
}

// NewGormCommentRepository creates a new GormCommentRepository
func NewGormCommentRepository(db *gorm.DB) *GormCommentRepository {
	return &GormCommentRepository{db: db}
}

// Create creates a new comment
func (r *GormCommentRepository) Create(comment *models.Comment) error {
	if err := r.db.Omit("Post").Create(comment).Error; err != nil {
		return fmt.Errorf("failed to create comment: %w", translateError(err))
	}
	return nil
}

// GetByID retrieves a comment by ID with its post
func (r *GormCommentRepository) GetByID(id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.Preload("Post").First(&comment, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &comment, nil
}

// ListVisibleByPost retrieves the comments readers may see on a post
func (r *GormCommentRepository) ListVisibleByPost(postID uint) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.
		Joins("JOIN posts ON posts.id = comments.post_id").
		Where("comments.post_id = ? AND comments.active = ? AND posts.published = ?", postID, true, true).
		Order("comments.created_at DESC, comments.id DESC").
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// ListByPost retrieves all comments for a post, including hidden ones
func (r *GormCommentRepository) ListByPost(postID uint) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.Where("post_id = ?", postID).
		Order("created_at DESC, id DESC").
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// CountActive counts active comments on one post, or on all posts for 0
func (r *GormCommentRepository) CountActive(postID uint) (int64, error) {
	tx := r.db.Model(&models.Comment{}).Where("active = ?", true)
	if postID != 0 {
		tx = tx.Where("post_id = ?", postID)
	}
	var n int64
	if err := tx.Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// SetActive shows or hides a comment
func (r *GormCommentRepository) SetActive(id uint, active bool) error {
	res := r.db.Model(&models.Comment{}).Where("id = ?", id).Update("active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete deletes a comment by ID
func (r *GormCommentRepository) Delete(id uint) error {
	res := r.db.Delete(&models.Comment{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
