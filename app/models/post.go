package models

import (
	"errors"
	"math"
	"strings"
	"time"

	"gorm.io/gorm"
)

const (
	// ExcerptLength is the number of content characters kept in a derived excerpt.
	ExcerptLength = 250
	// WordsPerMinute is the reading speed used for reading time estimates.
	WordsPerMinute = 200
)

// Validate checks if the post meets all validation requirements
func (p *Post) Validate() error {
	if err := validate.Struct(p); err != nil {
		return err
	}

	if p.CreatedAt.IsZero() {
		return errors.New("created_at cannot be zero")
	}

	return nil
}

// BeforeCreate fills the creation time unless the post is being backdated.
func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	return nil
}

// BeforeSave derives the excerpt when it was left blank and stores the
// creation time in UTC.
func (p *Post) BeforeSave(tx *gorm.DB) error {
	p.FillExcerpt()
	if !p.CreatedAt.IsZero() {
		p.CreatedAt = p.CreatedAt.UTC()
	}
	return nil
}

// FillExcerpt sets the excerpt to the first ExcerptLength characters of the
// content followed by "..." if no excerpt was supplied.
func (p *Post) FillExcerpt() {
	if p.Excerpt != "" {
		return
	}
	runes := []rune(p.Content)
	if len(runes) > ExcerptLength {
		runes = runes[:ExcerptLength]
	}
	p.Excerpt = string(runes) + "..."
}

// AbsoluteURL is the canonical public path of the post.
func (p *Post) AbsoluteURL() string {
	return "/post/" + p.Slug + "/"
}

// AddComment adds a comment to the post
func (p *Post) AddComment(comment *Comment) error {
	if comment == nil {
		return errors.New("comment cannot be nil")
	}

	comment.PostID = p.ID
	p.Comments = append(p.Comments, *comment)
	return nil
}

// VisibleComments returns the loaded comments a reader may see. Nothing is
// visible on an unpublished post.
func (p *Post) VisibleComments() []Comment {
	if !p.Published {
		return nil
	}
	var visible []Comment
	for _, c := range p.Comments {
		if c.Active {
			visible = append(visible, c)
		}
	}
	return visible
}

// WordCount counts whitespace separated words in the content.
func (p *Post) WordCount() int {
	return len(strings.Fields(p.Content))
}

// ReadingTime estimates minutes needed to read the post, never less than one.
func (p *Post) ReadingTime() int {
	minutes := int(math.RoundToEven(float64(p.WordCount()) / WordsPerMinute))
	if minutes < 1 {
		return 1
	}
	return minutes
}

// AuthorName returns the author's username, or "" when the author is not loaded.
func (p *Post) AuthorName() string {
	if p.Author == nil {
		return ""
	}
	return p.Author.Username
}

// CategoryName returns the category name, or nil for uncategorised posts.
func (p *Post) CategoryName() *string {
	if p.Category == nil {
		return nil
	}
	name := p.Category.Name
	return &name
}
