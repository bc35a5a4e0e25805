package repositories

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// Sort is a listing order.
type Sort string

const (
	SortNewest  Sort = "newest"
	SortOldest  Sort = "oldest"
	SortPopular Sort = "popular"
	SortTitle   Sort = "title"
)

// ParseSort maps a query parameter to a Sort, defaulting to SortNewest.
func ParseSort(s string) Sort {
	switch Sort(s) {
	case SortOldest, SortPopular, SortTitle:
		return Sort(s)
	default:
		return SortNewest
	}
}

// PostQuery describes a post listing. The zero value matches every post.
type PostQuery struct {
	PublishedOnly bool
	// Search matches title, content, excerpt or author username, ignoring case.
	Search     string
	CategoryID uint
	AuthorID   uint
	Featured   *bool
	// Year and Month restrict creation time to a calendar year or month (UTC).
	Year  int
	Month int
	// CreatedSince is inclusive; CreatedBefore and CreatedAfter are strict.
	CreatedSince  time.Time
	CreatedBefore time.Time
	CreatedAfter  time.Time
	ExcludeIDs    []uint
	// MinActiveComments keeps posts with at least this many active comments.
	MinActiveComments int
	Sort              Sort
}

// activeCommentCount is a correlated subquery counting a post's active comments.
const activeCommentCount = "(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id AND comments.active = ?)"

// orderClause returns the ORDER BY for a sort. Ties fall back to newest or
// to id so pages are stable.
func orderClause(s Sort) string {
	switch s {
	case SortOldest:
		return "posts.created_at ASC, posts.id ASC"
	case SortPopular:
		return "comment_count DESC, posts.created_at DESC, posts.id DESC"
	case SortTitle:
		return "posts.title ASC, posts.id ASC"
	default:
		return "posts.created_at DESC, posts.id DESC"
	}
}

// containsPattern builds a LIKE pattern matching term anywhere, with LIKE
// wildcards in term escaped. Case folding is left to the database LOWER on
// both sides of the comparison so column and term fold the same way. SQLite's
// LOWER folds ASCII letters only.
func containsPattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(term) + "%"
}

// monthRange returns the [start, end) UTC bounds of a year or a month.
func monthRange(year, month int) (time.Time, time.Time) {
	if month < 1 || month > 12 {
		start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(1, 0, 0)
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// translateError maps GORM errors onto repository sentinels.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}
