package services

import (
	"errors"
	"strconv"
	"strings"

	"inkpress/app/models"
)

// Page sizes of the public listings.
const (
	HomePageSize     = 6
	CategoryPageSize = 9
	ArchivePageSize  = 12
	AuthorPageSize   = 8
	LoadMorePageSize = 6
)

// ErrInvalidPage is returned by strict pagination for a page number that is
// not an integer or lies outside the listing.
var ErrInvalidPage = errors.New("invalid page")

// Page is one page of a post listing.
type Page struct {
	Number       int            `json:"number"`
	PerPage      int            `json:"per_page"`
	Total        int64          `json:"total"`
	NumPages     int            `json:"num_pages"`
	HasNext      bool           `json:"has_next"`
	HasPrevious  bool           `json:"has_previous"`
	NextPage     int            `json:"next_page,omitempty"`
	PreviousPage int            `json:"previous_page,omitempty"`
	Posts        []*models.Post `json:"posts"`
}

// NewPage positions a page over total items. A missing or non-integer
// requested page gives the first page; an integer out of range on either
// side gives the last page. An empty listing has a single empty page.
func NewPage(total int64, perPage int, requested string) Page {
	p := newPage(total, perPage)
	n, err := strconv.Atoi(strings.TrimSpace(requested))
	switch {
	case err != nil:
		n = 1
	case n < 1 || n > p.NumPages:
		n = p.NumPages
	}
	p.setNumber(n)
	return p
}

// StrictPage is like NewPage but rejects bad page numbers with
// ErrInvalidPage. A missing page means the first page.
func StrictPage(total int64, perPage int, requested string) (Page, error) {
	p := newPage(total, perPage)
	requested = strings.TrimSpace(requested)
	if requested == "" {
		requested = "1"
	}
	n, err := strconv.Atoi(requested)
	if err != nil || n < 1 || n > p.NumPages {
		return Page{}, ErrInvalidPage
	}
	p.setNumber(n)
	return p, nil
}

// Offset is the number of items before this page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.PerPage
}

// Range lists every page number, for pagination links.
func (p Page) Range() []int {
	pages := make([]int, p.NumPages)
	for i := range pages {
		pages[i] = i + 1
	}
	return pages
}

func newPage(total int64, perPage int) Page {
	if perPage < 1 {
		perPage = 1
	}
	numPages := int((total + int64(perPage) - 1) / int64(perPage))
	if numPages < 1 {
		numPages = 1
	}
	return Page{PerPage: perPage, Total: total, NumPages: numPages}
}

func (p *Page) setNumber(n int) {
	p.Number = n
	p.HasPrevious = n > 1
	p.HasNext = n < p.NumPages
	p.PreviousPage, p.NextPage = 0, 0
	if p.HasPrevious {
		p.PreviousPage = n - 1
	}
	if p.HasNext {
		p.NextPage = n + 1
	}
}
