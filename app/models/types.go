package models

import "time"

// Author is a reference to a user owned by the external identity system.
type Author struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Username string `gorm:"size:150;uniqueIndex;not null" json:"username" validate:"required,max=150"`
	Email    string `gorm:"size:254" json:"email,omitempty" validate:"omitempty,email"`
}

// Category groups posts. Categories are listed alphabetically by name.
type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;uniqueIndex;not null" json:"name" validate:"required,max=100"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `gorm:"<-:create" json:"created_at"`
}

// Post represents a blog post. Posts are listed newest first.
type Post struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Title      string    `gorm:"size:200;not null" json:"title" validate:"required,max=200"`
	Slug       string    `gorm:"size:200;uniqueIndex;not null" json:"slug" validate:"required,max=200"`
	Content    string    `gorm:"type:text;not null" json:"content" validate:"required"`
	Excerpt    string    `gorm:"type:text" json:"excerpt" validate:"max=300"`
	AuthorID   uint      `gorm:"not null;index" json:"author_id" validate:"required"`
	Author     *Author   `gorm:"constraint:OnDelete:CASCADE;" json:"author,omitempty" validate:"-"`
	CategoryID *uint     `gorm:"index" json:"category_id"`
	Category   *Category `gorm:"constraint:OnDelete:SET NULL;" json:"category,omitempty" validate:"-"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Published  bool      `gorm:"not null;default:false;index" json:"published"`
	Featured   bool      `gorm:"not null;default:false" json:"featured"`
	Comments   []Comment `gorm:"constraint:OnDelete:CASCADE;" json:"-" validate:"-"`

	// Filled by listing queries; never persisted.
	CommentCount int64 `gorm:"->;-:migration" json:"comment_count"`
}

// Comment is a reader comment on a post. Comments are listed newest first.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;index" json:"post_id" validate:"required"`
	Post      *Post     `json:"-" validate:"-"`
	Name      string    `gorm:"size:100;not null" json:"name" validate:"required,max=100"`
	Email     string    `gorm:"size:254;not null" json:"email" validate:"required,email"`
	Content   string    `gorm:"type:text;not null" json:"content" validate:"required"`
	CreatedAt time.Time `gorm:"<-:create;index" json:"created_at"`
	Active    bool      `gorm:"not null;index" json:"active"`
}

// CategoryCount is a category annotated with its number of published posts.
type CategoryCount struct {
	Category
	PostCount int64 `json:"post_count"`
}

// SiteStats summarises the public state of the blog.
type SiteStats struct {
	TotalPosts      int64 `json:"total_posts"`
	TotalCategories int64 `json:"total_categories"`
	TotalComments   int64 `json:"total_comments"`
	LatestPost      *Post `json:"latest_post,omitempty"`
}
