package routes

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebRoutes(t *testing.T) {
	app := setupTestApp(t)
	alice := app.seedAuthor(t, "alice")
	tech := app.seedCategory(t, "Technology")
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	first := app.seedPost(t, alice, "First Steps", tech, true, base)
	app.seedPost(t, alice, "Second Thoughts", tech, true, base.AddDate(0, 1, 0))
	app.seedPost(t, alice, "Private Notes", nil, false, base.AddDate(0, 2, 0))

	t.Run("GET / returns home page", func(t *testing.T) {
		w := app.get("/")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
		body := w.Body.String()
		assert.Contains(t, body, "First Steps")
		assert.Contains(t, body, "Second Thoughts")
		assert.NotContains(t, body, "Private Notes")
		assert.Contains(t, body, "Test Blog")
	})

	t.Run("GET / with JSON accept header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/?search=second", nil)
		req.Header.Set("Accept", "application/json")
		w := app.do(req)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

		var res map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.Equal(t, float64(1), res["total_posts"])
		assert.Equal(t, true, res["has_filters"])
		assert.Equal(t, "second", res["search_query"])
	})

	t.Run("GET / with unknown category is 404", func(t *testing.T) {
		w := app.get("/?category=999")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "Page not found")
	})

	t.Run("GET /post/{slug}/ shows a post", func(t *testing.T) {
		w := app.get(first.AbsoluteURL())
		assert.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "First Steps")
		assert.Contains(t, body, "1 min read")
		assert.Contains(t, body, "1 views")
		assert.Contains(t, body, "Second Thoughts")
	})

	t.Run("drafts are not found", func(t *testing.T) {
		w := app.get("/post/private-notes/")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("GET /category/{id}/", func(t *testing.T) {
		w := app.get("/category/1/")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Technology")
		assert.Contains(t, w.Body.String(), "2 post(s)")

		w = app.get("/category/42/")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("GET /author/{username}/", func(t *testing.T) {
		w := app.get("/author/alice/")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Posts by alice")

		w = app.get("/author/nobody/")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("archives", func(t *testing.T) {
		w := app.get("/archive/2024/")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "First Steps")

		w = app.get("/archive/2024/6/")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "June 2024")
		assert.Contains(t, w.Body.String(), "Second Thoughts")
		assert.NotContains(t, w.Body.String(), "First Steps")

		w = app.get("/archive/2024/13/")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("GET /about/", func(t *testing.T) {
		w := app.get("/about/")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "2 posts")
		assert.Contains(t, w.Body.String(), "1 categories")
	})

	t.Run("missing trailing slash redirects", func(t *testing.T) {
		w := app.get("/about")
		assert.Equal(t, http.StatusMovedPermanently, w.Code)
		assert.Equal(t, "/about/", w.Header().Get("Location"))
	})

	t.Run("wrong method is 405", func(t *testing.T) {
		w := app.do(httptest.NewRequest("POST", "/about/", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
		assert.Contains(t, w.Body.String(), "Method Not Allowed")
	})

	t.Run("GET without trailing slash still redirects", func(t *testing.T) {
		w := app.get("/post/first-steps")
		assert.Equal(t, http.StatusMovedPermanently, w.Code)
		assert.Equal(t, "/post/first-steps/", w.Header().Get("Location"))
	})

	t.Run("unknown path is 404", func(t *testing.T) {
		w := app.get("/nothing/here/")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("static files", func(t *testing.T) {
		w := app.get("/static/css/main.css")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "font-family")
	})
}

func TestCommentRoutes(t *testing.T) {
	app := setupTestApp(t)
	alice := app.seedAuthor(t, "alice")
	post := app.seedPost(t, alice, "Talk To Me", nil, true, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	valid := url.Values{
		"name":    {"Reader"},
		"email":   {"reader@example.com"},
		"content": {"Lovely writing"},
	}

	t.Run("valid comment redirects with a flash", func(t *testing.T) {
		w := app.do(commentRequest(post.AbsoluteURL(), "203.0.113.1", valid))
		require.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, post.AbsoluteURL(), w.Header().Get("Location"))

		cookies := w.Result().Cookies()
		require.NotEmpty(t, cookies)

		req := httptest.NewRequest("GET", post.AbsoluteURL(), nil)
		for _, c := range cookies {
			req.AddCookie(c)
		}
		page := app.do(req)
		assert.Equal(t, http.StatusOK, page.Code)
		assert.Contains(t, page.Body.String(), "Your comment has been added successfully!")
		assert.Contains(t, page.Body.String(), "Lovely writing")
	})

	t.Run("invalid comment re-renders with errors", func(t *testing.T) {
		form := url.Values{"name": {"Reader"}, "email": {"nope"}, "content": {""}}
		w := app.do(commentRequest(post.AbsoluteURL(), "203.0.113.2", form))
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "Please correct the errors below.")
		assert.Contains(t, body, "Enter a valid email address.")
		assert.Contains(t, body, "This field is required.")
		assert.Contains(t, body, `value="Reader"`)
	})

	t.Run("fourth comment in the window is rejected", func(t *testing.T) {
		client := "203.0.113.3"
		for i := 0; i < 3; i++ {
			w := app.do(commentRequest(post.AbsoluteURL(), client, valid))
			require.Equal(t, http.StatusSeeOther, w.Code, "comment %d", i+1)
		}
		w := app.do(commentRequest(post.AbsoluteURL(), client, valid))
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Contains(t, w.Body.String(), "You have reached the comment limit.")

		n, err := app.comments.CountActive(post.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(4), n)
	})

	t.Run("comment on unknown post", func(t *testing.T) {
		w := app.do(commentRequest("/post/missing/", "203.0.113.4", valid))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("comment posted without the trailing slash is stored", func(t *testing.T) {
		before, err := app.comments.CountActive(post.ID)
		require.NoError(t, err)

		w := app.do(commentRequest("/post/talk-to-me", "203.0.113.5", valid))
		require.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, post.AbsoluteURL(), w.Header().Get("Location"))

		after, err := app.comments.CountActive(post.ID)
		require.NoError(t, err)
		assert.Equal(t, before+1, after)
	})
}

func TestAjaxRoutes(t *testing.T) {
	app := setupTestApp(t)
	alice := app.seedAuthor(t, "alice")
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	post := app.seedPost(t, alice, "Go Concurrency", nil, true, base)
	for i := 1; i <= 7; i++ {
		app.seedPost(t, alice, fmt.Sprintf("Go Tip %d", i), nil, true, base.AddDate(0, 0, i))
	}
	hidden := app.seedPost(t, alice, "Go Secret", nil, false, base)

	t.Run("like requires the AJAX marker", func(t *testing.T) {
		w := app.do(httptest.NewRequest("POST", "/ajax/like-post/1/", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("like and unlike", func(t *testing.T) {
		w := app.ajax("POST", likeURL(post.ID))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"success":true,"action":"liked","likes":1}`, w.Body.String())

		w = app.ajax("POST", likeURL(post.ID))
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":true,"action":"unliked","likes":0}`, w.Body.String())
	})

	t.Run("like on a draft is 404", func(t *testing.T) {
		w := app.ajax("POST", likeURL(hidden.ID))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("like needs POST", func(t *testing.T) {
		w := app.ajax("GET", "/ajax/like-post/1/")
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
		assert.JSONEq(t, `{"error":"Method Not Allowed"}`, w.Body.String())
	})

	t.Run("search suggestions", func(t *testing.T) {
		w := app.get("/ajax/search-suggestions/?q=go")
		assert.JSONEq(t, `{"suggestions":[]}`, w.Body.String())

		w = app.ajax("GET", "/ajax/search-suggestions/?q=g")
		assert.JSONEq(t, `{"suggestions":[]}`, w.Body.String())

		w = app.ajax("GET", "/ajax/search-suggestions/?q=concurrency")
		assert.JSONEq(t, `{"suggestions":["Go Concurrency"]}`, w.Body.String())

		var res struct {
			Suggestions []string `json:"suggestions"`
		}
		w = app.ajax("GET", "/ajax/search-suggestions/?q=go")
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.Len(t, res.Suggestions, 5)
		assert.NotContains(t, res.Suggestions, "Go Secret")
	})

	t.Run("load more", func(t *testing.T) {
		w := app.get("/ajax/load-more-posts/?page=1")
		assert.Equal(t, http.StatusNotFound, w.Code)

		var res struct {
			Success  bool                     `json:"success"`
			Posts    []map[string]interface{} `json:"posts"`
			HasNext  bool                     `json:"has_next"`
			NextPage *int                     `json:"next_page"`
		}
		w = app.ajax("GET", "/ajax/load-more-posts/?page=1")
		require.Equal(t, http.StatusOK, w.Code)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.True(t, res.Success)
		assert.Len(t, res.Posts, 6)
		assert.True(t, res.HasNext)
		require.NotNil(t, res.NextPage)
		assert.Equal(t, 2, *res.NextPage)
		assert.Equal(t, "Go Tip 7", res.Posts[0]["title"])
		assert.Equal(t, "alice", res.Posts[0]["author"])
		assert.Equal(t, "January 08, 2024", res.Posts[0]["created_date"])
		assert.Nil(t, res.Posts[0]["category"])

		w = app.ajax("GET", "/ajax/load-more-posts/?page=2")
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.Len(t, res.Posts, 2)
		assert.False(t, res.HasNext)

		w = app.ajax("GET", "/ajax/load-more-posts/?page=3")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":false,"message":"Invalid page"}`, w.Body.String())
	})
}

func likeURL(id uint) string {
	return fmt.Sprintf("/ajax/like-post/%d/", id)
}
