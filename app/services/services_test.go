package services

import (
	"testing"
	"time"

	"inkpress/app/cache"
	"inkpress/app/database"
	"inkpress/app/models"
	"inkpress/app/repositories"

	"github.com/stretchr/testify/require"
)

type testEnv struct {
	cache      *cache.Store
	posts      *repositories.GormPostRepository
	comments   *repositories.GormCommentRepository
	categories *repositories.GormCategoryRepository
	authors    *repositories.GormAuthorRepository

	engagement *EngagementService
	listing    *ListingService
	postSvc    *PostService
	commentSvc *CommentService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.OpenInMemory(t.Name())
	require.NoError(t, err)
	store, err := cache.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() {
		store.Close()
		database.Close(db)
	})

	e := &testEnv{
		cache:      store,
		posts:      repositories.NewGormPostRepository(db),
		comments:   repositories.NewGormCommentRepository(db),
		categories: repositories.NewGormCategoryRepository(db),
		authors:    repositories.NewGormAuthorRepository(db),
	}
	e.engagement = NewEngagementService(store)
	e.listing = NewListingService(e.posts, e.categories, e.comments, e.authors, store,
		SiteInfo{Name: "Test Blog", Description: "Testing", Version: "1.0"})
	e.postSvc = NewPostService(e.posts, e.comments, e.engagement)
	e.commentSvc = NewCommentService(e.comments, e.engagement)
	return e
}

func (e *testEnv) author(t *testing.T, username string) *models.Author {
	t.Helper()
	a := &models.Author{Username: username}
	require.NoError(t, e.authors.Create(a))
	return a
}

func (e *testEnv) category(t *testing.T, name string) *models.Category {
	t.Helper()
	c := &models.Category{Name: name}
	require.NoError(t, e.categories.Create(c))
	return c
}

type postOpt func(*models.Post)

func draft(p *models.Post)    { p.Published = false }
func featured(p *models.Post) { p.Featured = true }

func inCategory(c *models.Category) postOpt {
	return func(p *models.Post) { p.CategoryID = &c.ID }
}

func createdAt(ts time.Time) postOpt {
	return func(p *models.Post) { p.CreatedAt = ts }
}

// post stores a published post; pass draft to keep it unpublished.
func (e *testEnv) post(t *testing.T, author *models.Author, title string, opts ...postOpt) *models.Post {
	t.Helper()
	p := &models.Post{
		Title:     title,
		Slug:      models.Slugify(title),
		Content:   "Body of " + title,
		AuthorID:  author.ID,
		Published: true,
	}
	for _, opt := range opts {
		opt(p)
	}
	require.NoError(t, e.posts.Create(p))
	return p
}

func (e *testEnv) comment(t *testing.T, post *models.Post, active bool) {
	t.Helper()
	require.NoError(t, e.comments.Create(&models.Comment{
		PostID:  post.ID,
		Name:    "Reader",
		Email:   "reader@example.com",
		Content: "Nice",
		Active:  active,
	}))
}

// series creates n published posts a day apart, oldest first.
func (e *testEnv) series(t *testing.T, author *models.Author, n int, opts ...postOpt) []*models.Post {
	t.Helper()
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	posts := make([]*models.Post, n)
	for i := range posts {
		o := append([]postOpt{createdAt(base.AddDate(0, 0, i))}, opts...)
		posts[i] = e.post(t, author, "Post "+string(rune('A'+i)), o...)
	}
	return posts
}

func postTitles(posts []*models.Post) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.Title
	}
	return out
}
