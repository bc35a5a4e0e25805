package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"inkpress/app/cache"
	"inkpress/app/models"
	"inkpress/app/repositories"
)

// Cache keys and lifetimes of the memoized aggregates.
const (
	FeaturedKey   = "featured_posts"
	CategoriesKey = "categories_with_counts"
	TrendingKey   = "trending_posts"
	SiteStatsKey  = "site_stats"

	FeaturedTTL   = 15 * time.Minute
	CategoriesTTL = 30 * time.Minute
	TrendingTTL   = time.Hour
	SiteStatsTTL  = time.Hour
)

const (
	featuredLimit        = 3
	trendingLimit        = 5
	trendingWindow       = 7 * 24 * time.Hour
	recentLimit          = 5
	categoryRecentLimit  = 3
	otherCategoriesLimit = 6
	suggestionLimit      = 5
	suggestionMinLength  = 2
)

// ListingParams are the raw query parameters of a listing request.
type ListingParams struct {
	Search   string
	Category string
	Sort     string
	Page     string
}

// HomeContext is everything the home page shows.
type HomeContext struct {
	Page             Page                   `json:"page"`
	Featured         []*models.Post         `json:"featured_posts"`
	Trending         []*models.Post         `json:"trending_posts"`
	Recent           []*models.Post         `json:"recent_posts"`
	Categories       []models.CategoryCount `json:"categories"`
	SelectedCategory *models.Category       `json:"selected_category"`
	SearchQuery      string                 `json:"search_query"`
	SortBy           string                 `json:"sort_by"`
	TotalPosts       int64                  `json:"total_posts"`
	HasFilters       bool                   `json:"has_filters"`
}

// CategoryContext is a category page.
type CategoryContext struct {
	Category        *models.Category       `json:"category"`
	Page            Page                   `json:"page"`
	Recent          []*models.Post         `json:"recent_posts"`
	OtherCategories []models.CategoryCount `json:"other_categories"`
	TotalPosts      int64                  `json:"total_posts"`
	SortBy          string                 `json:"sort_by"`
}

// AuthorContext is an author page.
type AuthorContext struct {
	Author     *models.Author `json:"author"`
	Page       Page           `json:"page"`
	TotalPosts int64          `json:"total_posts"`
}

// ArchiveContext is a yearly or monthly archive page. Month is 0 for a
// yearly archive.
type ArchiveContext struct {
	Year  int  `json:"year"`
	Month int  `json:"month,omitempty"`
	Page  Page `json:"page"`
}

// ArchiveType is "year" or "month".
func (a *ArchiveContext) ArchiveType() string {
	if a.Month == 0 {
		return "year"
	}
	return "month"
}

// MonthName is the English name of the archived month.
func (a *ArchiveContext) MonthName() string {
	if a.Month < 1 || a.Month > 12 {
		return ""
	}
	return time.Month(a.Month).String()
}

// SiteInfo describes the blog on the about page.
type SiteInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Version     string `json:"version"`
}

// AboutContext is the about page.
type AboutContext struct {
	Stats    models.SiteStats `json:"stats"`
	SiteInfo SiteInfo         `json:"site_info"`
}

// PostSummary is a post as sent to infinite scroll clients.
type PostSummary struct {
	ID          uint    `json:"id"`
	Title       string  `json:"title"`
	Excerpt     string  `json:"excerpt"`
	Author      string  `json:"author"`
	CreatedDate string  `json:"created_date"`
	Category    *string `json:"category"`
	URL         string  `json:"url"`
}

// LoadMoreResult is one batch of infinite scroll posts.
type LoadMoreResult struct {
	Posts    []PostSummary `json:"posts"`
	HasNext  bool          `json:"has_next"`
	NextPage *int          `json:"next_page"`
}

// ListingService assembles the read-only listing pages.
type ListingService struct {
	posts      repositories.PostRepository
	categories repositories.CategoryRepository
	comments   repositories.CommentRepository
	authors    repositories.AuthorRepository
	cache      cache.Cache
	site       SiteInfo
	now        func() time.Time
}

// NewListingService creates a new ListingService
func NewListingService(
	posts repositories.PostRepository,
	categories repositories.CategoryRepository,
	comments repositories.CommentRepository,
	authors repositories.AuthorRepository,
	c cache.Cache,
	site SiteInfo,
) *ListingService {
	return &ListingService{
		posts:      posts,
		categories: categories,
		comments:   comments,
		authors:    authors,
		cache:      c,
		site:       site,
		now:        time.Now,
	}
}

// Home builds the home page: a filtered, sorted page of published posts
// plus the sidebar sections.
func (s *ListingService) Home(params ListingParams) (*HomeContext, error) {
	search := strings.TrimSpace(params.Search)
	sortBy := params.Sort
	if sortBy == "" {
		sortBy = string(repositories.SortNewest)
	}

	q := repositories.PostQuery{
		PublishedOnly: true,
		Search:        search,
		Sort:          repositories.ParseSort(params.Sort),
	}

	var selected *models.Category
	if id, ok := parseID(params.Category); ok {
		if id == 0 {
			return nil, fmt.Errorf("category 0: %w", repositories.ErrNotFound)
		}
		category, err := s.categories.GetByID(id)
		if err != nil {
			return nil, err
		}
		selected = category
		q.CategoryID = id
	}

	page, err := s.page(q, HomePageSize, params.Page)
	if err != nil {
		return nil, err
	}

	featured, err := s.Featured()
	if err != nil {
		return nil, err
	}
	trending, err := s.Trending()
	if err != nil {
		return nil, err
	}
	categories, err := s.CategoriesWithCounts()
	if err != nil {
		return nil, err
	}
	notFeatured := false
	recent, err := s.posts.List(repositories.PostQuery{
		PublishedOnly: true,
		Featured:      &notFeatured,
	}, recentLimit, 0)
	if err != nil {
		return nil, err
	}

	return &HomeContext{
		Page:             page,
		Featured:         featured,
		Trending:         trending,
		Recent:           recent,
		Categories:       categories,
		SelectedCategory: selected,
		SearchQuery:      search,
		SortBy:           sortBy,
		TotalPosts:       page.Total,
		HasFilters:       search != "" || params.Category != "",
	}, nil
}

// Category builds the page of one category. Unknown categories are
// repositories.ErrNotFound.
func (s *ListingService) Category(id uint, params ListingParams) (*CategoryContext, error) {
	if id == 0 {
		return nil, fmt.Errorf("category 0: %w", repositories.ErrNotFound)
	}
	category, err := s.categories.GetByID(id)
	if err != nil {
		return nil, err
	}

	sortBy := params.Sort
	if sortBy == "" {
		sortBy = string(repositories.SortNewest)
	}
	q := repositories.PostQuery{
		PublishedOnly: true,
		CategoryID:    id,
		Sort:          repositories.ParseSort(params.Sort),
	}
	page, err := s.page(q, CategoryPageSize, params.Page)
	if err != nil {
		return nil, err
	}

	q.Sort = repositories.SortNewest
	recent, err := s.posts.List(q, categoryRecentLimit, 0)
	if err != nil {
		return nil, err
	}
	others, err := s.categories.WithPostCounts(id, otherCategoriesLimit)
	if err != nil {
		return nil, err
	}

	return &CategoryContext{
		Category:        category,
		Page:            page,
		Recent:          recent,
		OtherCategories: others,
		TotalPosts:      page.Total,
		SortBy:          sortBy,
	}, nil
}

// Author builds the page of one author's published posts.
func (s *ListingService) Author(username, pageParam string) (*AuthorContext, error) {
	author, err := s.authors.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	page, err := s.page(repositories.PostQuery{
		PublishedOnly: true,
		AuthorID:      author.ID,
	}, AuthorPageSize, pageParam)
	if err != nil {
		return nil, err
	}
	return &AuthorContext{Author: author, Page: page, TotalPosts: page.Total}, nil
}

// Archive builds a yearly archive, or a monthly one when month is non-zero.
// A year below 1 or a month outside 1-12 is repositories.ErrNotFound.
func (s *ListingService) Archive(year, month int, pageParam string) (*ArchiveContext, error) {
	if year < 1 {
		return nil, fmt.Errorf("archive year %d: %w", year, repositories.ErrNotFound)
	}
	if month < 0 || month > 12 {
		return nil, fmt.Errorf("archive month %d: %w", month, repositories.ErrNotFound)
	}
	page, err := s.page(repositories.PostQuery{
		PublishedOnly: true,
		Year:          year,
		Month:         month,
	}, ArchivePageSize, pageParam)
	if err != nil {
		return nil, err
	}
	return &ArchiveContext{Year: year, Month: month, Page: page}, nil
}

// About builds the about page.
func (s *ListingService) About() (*AboutContext, error) {
	stats, err := s.SiteStats()
	if err != nil {
		return nil, err
	}
	return &AboutContext{Stats: stats, SiteInfo: s.site}, nil
}

// Suggestions returns up to five published titles containing term. Terms
// shorter than two characters give no suggestions.
func (s *ListingService) Suggestions(term string) ([]string, error) {
	term = strings.TrimSpace(term)
	if utf8.RuneCountInString(term) < suggestionMinLength {
		return []string{}, nil
	}
	titles, err := s.posts.Titles(term, suggestionLimit)
	if err != nil {
		return nil, err
	}
	if titles == nil {
		titles = []string{}
	}
	return titles, nil
}

// LoadMore returns a batch of published posts for infinite scroll. Bad page
// numbers are ErrInvalidPage. A non-numeric category is ignored.
func (s *ListingService) LoadMore(pageParam, categoryParam string) (*LoadMoreResult, error) {
	q := repositories.PostQuery{PublishedOnly: true}
	if id, ok := parseID(categoryParam); ok && id != 0 {
		q.CategoryID = id
	}

	total, err := s.posts.Count(q)
	if err != nil {
		return nil, err
	}
	page, err := StrictPage(total, LoadMorePageSize, pageParam)
	if err != nil {
		return nil, err
	}
	posts, err := s.posts.List(q, page.PerPage, page.Offset())
	if err != nil {
		return nil, err
	}

	result := &LoadMoreResult{Posts: make([]PostSummary, 0, len(posts)), HasNext: page.HasNext}
	if page.HasNext {
		next := page.NextPage
		result.NextPage = &next
	}
	for _, p := range posts {
		result.Posts = append(result.Posts, Summarize(p))
	}
	return result, nil
}

// Summarize flattens a post for JSON clients.
func Summarize(p *models.Post) PostSummary {
	return PostSummary{
		ID:          p.ID,
		Title:       p.Title,
		Excerpt:     p.Excerpt,
		Author:      p.AuthorName(),
		CreatedDate: p.CreatedAt.Format("January 02, 2006"),
		Category:    p.CategoryName(),
		URL:         p.AbsoluteURL(),
	}
}

// Featured returns the three newest featured posts.
func (s *ListingService) Featured() ([]*models.Post, error) {
	return cache.Remember(s.cache, FeaturedKey, FeaturedTTL, func() ([]*models.Post, error) {
		yes := true
		return s.posts.List(repositories.PostQuery{
			PublishedOnly: true,
			Featured:      &yes,
		}, featuredLimit, 0)
	})
}

// CategoriesWithCounts returns the categories that have published posts.
func (s *ListingService) CategoriesWithCounts() ([]models.CategoryCount, error) {
	return cache.Remember(s.cache, CategoriesKey, CategoriesTTL, func() ([]models.CategoryCount, error) {
		return s.categories.WithPostCounts(0, 0)
	})
}

// Trending returns the most commented posts of the last seven days.
func (s *ListingService) Trending() ([]*models.Post, error) {
	return cache.Remember(s.cache, TrendingKey, TrendingTTL, func() ([]*models.Post, error) {
		return s.posts.List(repositories.PostQuery{
			PublishedOnly:     true,
			CreatedSince:      s.now().Add(-trendingWindow),
			MinActiveComments: 1,
			Sort:              repositories.SortPopular,
		}, trendingLimit, 0)
	})
}

// SiteStats summarises the published blog.
func (s *ListingService) SiteStats() (models.SiteStats, error) {
	return cache.Remember(s.cache, SiteStatsKey, SiteStatsTTL, func() (models.SiteStats, error) {
		var stats models.SiteStats
		var err error
		published := repositories.PostQuery{PublishedOnly: true}
		if stats.TotalPosts, err = s.posts.Count(published); err != nil {
			return stats, err
		}
		if stats.TotalCategories, err = s.categories.Count(); err != nil {
			return stats, err
		}
		if stats.TotalComments, err = s.comments.CountActive(0); err != nil {
			return stats, err
		}
		latest, err := s.posts.List(published, 1, 0)
		if err != nil {
			return stats, err
		}
		if len(latest) > 0 {
			stats.LatestPost = latest[0]
		}
		return stats, nil
	})
}

// InvalidateAggregates drops every memoized aggregate so the next request
// recomputes it.
func (s *ListingService) InvalidateAggregates() error {
	for _, key := range []string{FeaturedKey, CategoriesKey, TrendingKey, SiteStatsKey} {
		if err := s.cache.Delete(key); err != nil {
			return err
		}
	}
	return nil
}

// page counts q, clamps the requested page and loads its posts.
func (s *ListingService) page(q repositories.PostQuery, perPage int, requested string) (Page, error) {
	total, err := s.posts.Count(q)
	if err != nil {
		return Page{}, err
	}
	page := NewPage(total, perPage, requested)
	page.Posts, err = s.posts.List(q, page.PerPage, page.Offset())
	if err != nil {
		return Page{}, err
	}
	return page, nil
}

// parseID accepts only a plain decimal id.
func parseID(s string) (uint, bool) {
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}
