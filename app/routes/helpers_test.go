package routes

import (
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"inkpress/app/cache"
	"inkpress/app/controllers"
	"inkpress/app/database"
	"inkpress/app/models"
	"inkpress/app/repositories"
	"inkpress/app/services"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
)

type testApp struct {
	router     *mux.Router
	cache      *cache.Store
	posts      *repositories.GormPostRepository
	comments   *repositories.GormCommentRepository
	categories *repositories.GormCategoryRepository
	authors    *repositories.GormAuthorRepository
}

func setupTestApp(t *testing.T) *testApp {
	t.Helper()
	db, err := database.OpenInMemory(t.Name())
	require.NoError(t, err)
	store, err := cache.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() {
		store.Close()
		database.Close(db)
	})

	views, err := controllers.LoadTemplates("../views")
	require.NoError(t, err)

	a := &testApp{
		cache:      store,
		posts:      repositories.NewGormPostRepository(db),
		comments:   repositories.NewGormCommentRepository(db),
		categories: repositories.NewGormCategoryRepository(db),
		authors:    repositories.NewGormAuthorRepository(db),
	}
	site := services.SiteInfo{Name: "Test Blog", Description: "A test blog", Version: "1.0"}
	engagement := services.NewEngagementService(store)
	quiet := log.New(io.Discard, "", 0)

	a.router = SetupRoutes(Dependencies{
		Listing:   services.NewListingService(a.posts, a.categories, a.comments, a.authors, store, site),
		Posts:     services.NewPostService(a.posts, a.comments, engagement),
		Comments:  services.NewCommentService(a.comments, engagement),
		Views:     views,
		Site:      site,
		StaticDir: "../../static",
		InfoLog:   quiet,
		ErrorLog:  quiet,
	})
	return a
}

func (a *testApp) seedAuthor(t *testing.T, username string) *models.Author {
	t.Helper()
	author := &models.Author{Username: username}
	require.NoError(t, a.authors.Create(author))
	return author
}

func (a *testApp) seedCategory(t *testing.T, name string) *models.Category {
	t.Helper()
	c := &models.Category{Name: name, Description: name + " posts"}
	require.NoError(t, a.categories.Create(c))
	return c
}

func (a *testApp) seedPost(t *testing.T, author *models.Author, title string, category *models.Category, published bool, created time.Time) *models.Post {
	t.Helper()
	p := &models.Post{
		Title:     title,
		Slug:      models.Slugify(title),
		Content:   "Content of " + title,
		AuthorID:  author.ID,
		Published: published,
		CreatedAt: created,
	}
	if category != nil {
		p.CategoryID = &category.ID
	}
	require.NoError(t, a.posts.Create(p))
	return p
}

func (a *testApp) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) get(path string) *httptest.ResponseRecorder {
	return a.do(httptest.NewRequest("GET", path, nil))
}

func (a *testApp) ajax(method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	return a.do(req)
}

func commentRequest(path, client string, form url.Values) *http.Request {
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-Forwarded-For", client)
	return req
}
