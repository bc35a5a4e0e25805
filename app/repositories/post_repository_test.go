package repositories

import (
	"testing"
	"time"

	"inkpress/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostRepository(t *testing.T) {
	f := newFixture(t)
	alice := f.author(t, "alice")
	tech := f.category(t, "Technology")

	t.Run("create and get post", func(t *testing.T) {
		post := f.post(t, alice, "Getting Started", published, inCategory(tech))
		assert.NotZero(t, post.ID)
		assert.False(t, post.CreatedAt.IsZero())

		got, err := f.posts.GetBySlug("getting-started")
		require.NoError(t, err)
		assert.Equal(t, post.ID, got.ID)
		assert.Equal(t, "alice", got.AuthorName())
		require.NotNil(t, got.CategoryName())
		assert.Equal(t, "Technology", *got.CategoryName())
		assert.Equal(t, "Body of Getting Started...", got.Excerpt)

		got, err = f.posts.GetByID(post.ID)
		require.NoError(t, err)
		assert.Equal(t, "Getting Started", got.Title)
	})

	t.Run("missing post", func(t *testing.T) {
		_, err := f.posts.GetBySlug("does-not-exist")
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = f.posts.GetByID(9999)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("duplicate slug", func(t *testing.T) {
		f.post(t, alice, "Same Title")
		err := f.posts.Create(&models.Post{
			Title:    "Same Title",
			Slug:     "same-title",
			Content:  "again",
			AuthorID: alice.ID,
		})
		assert.ErrorIs(t, err, ErrDuplicate)

		exists, err := f.posts.SlugExists("same-title")
		require.NoError(t, err)
		assert.True(t, exists)
		exists, err = f.posts.SlugExists("other-title")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("update keeps slug", func(t *testing.T) {
		post := f.post(t, alice, "Original Title")
		post.Title = "Updated Title"
		post.Slug = "updated-title"
		post.Published = true
		require.NoError(t, f.posts.Update(post))

		got, err := f.posts.GetByID(post.ID)
		require.NoError(t, err)
		assert.Equal(t, "Updated Title", got.Title)
		assert.Equal(t, "original-title", got.Slug)
		assert.True(t, got.Published)
	})

	t.Run("update can unpublish", func(t *testing.T) {
		post := f.post(t, alice, "Short Lived", published)
		post.Published = false
		require.NoError(t, f.posts.Update(post))

		got, err := f.posts.GetByID(post.ID)
		require.NoError(t, err)
		assert.False(t, got.Published)
	})

	t.Run("update missing post", func(t *testing.T) {
		err := f.posts.Update(&models.Post{ID: 9999, Title: "x", Content: "x", AuthorID: alice.ID})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("delete removes comments", func(t *testing.T) {
		post := f.post(t, alice, "Doomed", published)
		c := f.comment(t, post, true)

		require.NoError(t, f.posts.Delete(post.ID))
		_, err := f.posts.GetByID(post.ID)
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = f.comments.GetByID(c.ID)
		assert.ErrorIs(t, err, ErrNotFound)

		assert.ErrorIs(t, f.posts.Delete(post.ID), ErrNotFound)
	})
}

func TestPostRepositoryList(t *testing.T) {
	f := newFixture(t)
	alice := f.author(t, "alice")
	djangoFan := f.author(t, "django_fan")
	tech := f.category(t, "Technology")
	life := f.category(t, "Lifestyle")

	base := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	oldest := f.post(t, alice, "Alpha", published, inCategory(tech), createdAt(base))
	middle := f.post(t, djangoFan, "Charlie", published, inCategory(life), featured, createdAt(base.AddDate(0, 1, 0)))
	newest := f.post(t, alice, "Bravo", published, inCategory(tech), createdAt(base.AddDate(0, 2, 0)),
		withContent("Learning the Django ORM"))
	draft := f.post(t, alice, "Draft", inCategory(tech), createdAt(base.AddDate(0, 3, 0)))

	t.Run("published only newest first", func(t *testing.T) {
		posts, err := f.posts.List(PostQuery{PublishedOnly: true}, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, []string{"Bravo", "Charlie", "Alpha"}, titles(posts))

		n, err := f.posts.Count(PostQuery{PublishedOnly: true})
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)
	})

	t.Run("everything including drafts", func(t *testing.T) {
		n, err := f.posts.Count(PostQuery{})
		require.NoError(t, err)
		assert.Equal(t, int64(4), n)
	})

	t.Run("sorts", func(t *testing.T) {
		posts, err := f.posts.List(PostQuery{PublishedOnly: true, Sort: SortOldest}, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, []string{"Alpha", "Charlie", "Bravo"}, titles(posts))

		posts, err = f.posts.List(PostQuery{PublishedOnly: true, Sort: SortTitle}, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, []string{"Alpha", "Bravo", "Charlie"}, titles(posts))
	})

	t.Run("limit and offset", func(t *testing.T) {
		posts, err := f.posts.List(PostQuery{PublishedOnly: true}, 2, 1)
		require.NoError(t, err)
		assert.Equal(t, []string{"Charlie", "Alpha"}, titles(posts))
	})

	t.Run("search matches author username", func(t *testing.T) {
		posts, err := f.posts.List(PostQuery{PublishedOnly: true, Search: "DJANGO"}, 0, 0)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"Bravo", "Charlie"}, titles(posts))

		n, err := f.posts.Count(PostQuery{PublishedOnly: true, Search: "django"})
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
	})

	t.Run("search escapes wildcards", func(t *testing.T) {
		n, err := f.posts.Count(PostQuery{PublishedOnly: true, Search: "%"})
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("category and author filters", func(t *testing.T) {
		posts, err := f.posts.List(PostQuery{PublishedOnly: true, CategoryID: tech.ID}, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, []string{"Bravo", "Alpha"}, titles(posts))

		posts, err = f.posts.List(PostQuery{PublishedOnly: true, AuthorID: djangoFan.ID}, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, []string{"Charlie"}, titles(posts))
	})

	t.Run("featured filter", func(t *testing.T) {
		yes, no := true, false
		posts, err := f.posts.List(PostQuery{PublishedOnly: true, Featured: &yes}, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, []string{"Charlie"}, titles(posts))

		posts, err = f.posts.List(PostQuery{PublishedOnly: true, Featured: &no}, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, []string{"Bravo", "Alpha"}, titles(posts))
	})

	t.Run("archive by year and month", func(t *testing.T) {
		posts, err := f.posts.List(PostQuery{PublishedOnly: true, Year: 2024, Month: 4}, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, []string{"Charlie"}, titles(posts))

		n, err := f.posts.Count(PostQuery{PublishedOnly: true, Year: 2024})
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)

		n, err = f.posts.Count(PostQuery{PublishedOnly: true, Year: 2023})
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("neighbours by creation time", func(t *testing.T) {
		posts, err := f.posts.List(PostQuery{
			PublishedOnly: true,
			CreatedBefore: middle.CreatedAt,
		}, 1, 0)
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, oldest.ID, posts[0].ID)

		posts, err = f.posts.List(PostQuery{
			PublishedOnly: true,
			CreatedAfter:  middle.CreatedAt,
			Sort:          SortOldest,
		}, 1, 0)
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, newest.ID, posts[0].ID)
	})

	t.Run("exclude ids", func(t *testing.T) {
		posts, err := f.posts.List(PostQuery{ExcludeIDs: []uint{newest.ID, draft.ID}}, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, []string{"Charlie", "Alpha"}, titles(posts))
	})

	t.Run("titles", func(t *testing.T) {
		got, err := f.posts.Titles("a", 2)
		require.NoError(t, err)
		assert.Equal(t, []string{"Bravo", "Charlie"}, got)

		got, err = f.posts.Titles("draft", 5)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestPostRepositoryPopular(t *testing.T) {
	f := newFixture(t)
	alice := f.author(t, "alice")

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	quiet := f.post(t, alice, "Quiet", published, createdAt(base.Add(3*time.Hour)))
	busy := f.post(t, alice, "Busy", published, createdAt(base))
	hidden := f.post(t, alice, "Hidden Chatter", published, createdAt(base.Add(time.Hour)))

	f.comment(t, busy, true)
	f.comment(t, busy, true)
	f.comment(t, quiet, true)
	for i := 0; i < 5; i++ {
		f.comment(t, hidden, false)
	}

	posts, err := f.posts.List(PostQuery{PublishedOnly: true, Sort: SortPopular}, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Busy", "Quiet", "Hidden Chatter"}, titles(posts))
	assert.Equal(t, []int64{2, 1, 0}, []int64{posts[0].CommentCount, posts[1].CommentCount, posts[2].CommentCount})

	t.Run("minimum active comments", func(t *testing.T) {
		posts, err := f.posts.List(PostQuery{PublishedOnly: true, MinActiveComments: 1, Sort: SortPopular}, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, []string{"Busy", "Quiet"}, titles(posts))

		n, err := f.posts.Count(PostQuery{PublishedOnly: true, MinActiveComments: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})
}

func TestPostSearchCaseFolding(t *testing.T) {
	f := newFixture(t)
	emile := f.author(t, "Émile")
	f.post(t, emile, "Notes From Lyon", published)

	for _, term := range []string{"Émile", "ÉMILE", "Émi", "mile"} {
		posts, err := f.posts.List(PostQuery{PublishedOnly: true, Search: term}, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, []string{"Notes From Lyon"}, titles(posts), "term %q", term)
	}

	got, err := f.posts.Titles("LYON", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"Notes From Lyon"}, got)
}
