package repositories

import "inkpress/app/models"

// PostRepository defines the interface for post data access
type PostRepository interface {
	Create(post *models.Post) error
	GetByID(id uint) (*models.Post, error)
	GetBySlug(slug string) (*models.Post, error)
	SlugExists(slug string) (bool, error)
	Update(post *models.Post) error
	Delete(id uint) error
	// List returns posts matching q in q.Sort order, with author, category
	// and active comment count loaded.
	List(q PostQuery, limit, offset int) ([]*models.Post, error)
	Count(q PostQuery) (int64, error)
	// Titles returns up to limit titles of published posts containing term.
	Titles(term string, limit int) ([]string, error)
}

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	Create(comment *models.Comment) error
	GetByID(id uint) (*models.Comment, error)
	// ListVisibleByPost returns active comments of a published post, newest first.
	ListVisibleByPost(postID uint) ([]*models.Comment, error)
	ListByPost(postID uint) ([]*models.Comment, error)
	// CountActive counts active comments, over all posts when postID is 0.
	CountActive(postID uint) (int64, error)
	SetActive(id uint, active bool) error
	Delete(id uint) error
}

// CategoryRepository defines the interface for category data access
type CategoryRepository interface {
	Create(category *models.Category) error
	GetByID(id uint) (*models.Category, error)
	GetByName(name string) (*models.Category, error)
	List() ([]*models.Category, error)
	Count() (int64, error)
	// WithPostCounts lists categories having at least one published post,
	// alphabetically, skipping excludeID when non-zero. A limit <= 0 means
	// no limit.
	WithPostCounts(excludeID uint, limit int) ([]models.CategoryCount, error)
	// Delete removes the category and detaches its posts.
	Delete(id uint) error
}

// AuthorRepository looks up authors mirrored from the identity system.
type AuthorRepository interface {
	Create(author *models.Author) error
	GetByID(id uint) (*models.Author, error)
	GetByUsername(username string) (*models.Author, error)
}
