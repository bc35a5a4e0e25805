package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"inkpress/app/models"
	"inkpress/app/repositories"
)

const relatedLimit = 3

// maxSlugAttempts bounds the numbered suffixes tried for a new slug.
const maxSlugAttempts = 1000

// DetailContext is everything the post page shows.
type DetailContext struct {
	Post         *models.Post      `json:"post"`
	Comments     []*models.Comment `json:"comments"`
	Related      []*models.Post    `json:"related_posts"`
	Previous     *models.Post      `json:"previous_post"`
	Next         *models.Post      `json:"next_post"`
	ViewCount    int               `json:"view_count"`
	Likes        int               `json:"likes"`
	ReadingTime  int               `json:"reading_time"`
	WordCount    int               `json:"word_count"`
	CommentCount int               `json:"comment_count"`
}

// LikeResult is the outcome of a like toggle.
type LikeResult struct {
	Success bool   `json:"success"`
	Action  string `json:"action"`
	Likes   int    `json:"likes"`
}

// PostService handles business logic for blog posts
type PostService struct {
	postRepo    repositories.PostRepository
	commentRepo repositories.CommentRepository
	engagement  *EngagementService
	now         func() time.Time
}

// NewPostService creates a new PostService
func NewPostService(postRepo repositories.PostRepository, commentRepo repositories.CommentRepository, engagement *EngagementService) *PostService {
	return &PostService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		engagement:  engagement,
		now:         time.Now,
	}
}

// CreatePost validates and stores a new post. A blank slug is derived from
// the title and numbered until it is unique.
func (s *PostService) CreatePost(post *models.Post) error {
	post.Title = strings.TrimSpace(post.Title)
	if post.CreatedAt.IsZero() {
		post.CreatedAt = s.now().UTC()
	}
	if post.Slug == "" {
		slug, err := s.uniqueSlug(post.Title)
		if err != nil {
			return err
		}
		post.Slug = slug
	}
	post.FillExcerpt()

	if err := post.Validate(); err != nil {
		return fmt.Errorf("invalid post: %w", err)
	}
	return s.postRepo.Create(post)
}

// UpdatePost saves changes to an existing post. Slug and creation time are
// kept from the stored post.
func (s *PostService) UpdatePost(post *models.Post) error {
	existing, err := s.postRepo.GetByID(post.ID)
	if err != nil {
		return err
	}
	post.Slug = existing.Slug
	post.CreatedAt = existing.CreatedAt

	if err := post.Validate(); err != nil {
		return fmt.Errorf("invalid post: %w", err)
	}
	return s.postRepo.Update(post)
}

// DeletePost deletes a post and all its comments
func (s *PostService) DeletePost(id uint) error {
	return s.postRepo.Delete(id)
}

// PublishedBySlug returns a published post. Drafts are
// repositories.ErrNotFound.
func (s *PostService) PublishedBySlug(slug string) (*models.Post, error) {
	post, err := s.postRepo.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	if !post.Published {
		return nil, fmt.Errorf("post %q is not published: %w", slug, repositories.ErrNotFound)
	}
	return post, nil
}

// PublishedByID returns a published post. Drafts are
// repositories.ErrNotFound.
func (s *PostService) PublishedByID(id uint) (*models.Post, error) {
	if id == 0 {
		return nil, repositories.ErrNotFound
	}
	post, err := s.postRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !post.Published {
		return nil, fmt.Errorf("post %d is not published: %w", id, repositories.ErrNotFound)
	}
	return post, nil
}

// Detail counts a view of the published post under slug and assembles its
// page.
func (s *PostService) Detail(slug string) (*DetailContext, error) {
	post, err := s.PublishedBySlug(slug)
	if err != nil {
		return nil, err
	}
	return s.DetailFor(post)
}

// DetailFor counts a view of an already loaded published post and
// assembles its page.
func (s *PostService) DetailFor(post *models.Post) (*DetailContext, error) {
	views, err := s.engagement.RecordView(post.ID)
	if err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.ListVisibleByPost(post.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get comments: %w", err)
	}
	related, err := s.Related(post)
	if err != nil {
		return nil, err
	}
	previous, next, err := s.Neighbours(post)
	if err != nil {
		return nil, err
	}
	likes, err := s.engagement.Likes(post.ID)
	if err != nil {
		return nil, err
	}

	return &DetailContext{
		Post:         post,
		Comments:     comments,
		Related:      related,
		Previous:     previous,
		Next:         next,
		ViewCount:    views,
		Likes:        likes,
		ReadingTime:  post.ReadingTime(),
		WordCount:    post.WordCount(),
		CommentCount: len(comments),
	}, nil
}

// Related picks up to three published posts for post: the newest of its
// category first, then the newest from anywhere else.
func (s *PostService) Related(post *models.Post) ([]*models.Post, error) {
	exclude := []uint{post.ID}
	var related []*models.Post

	if post.CategoryID != nil {
		sameCategory, err := s.postRepo.List(repositories.PostQuery{
			PublishedOnly: true,
			CategoryID:    *post.CategoryID,
			ExcludeIDs:    exclude,
		}, relatedLimit, 0)
		if err != nil {
			return nil, fmt.Errorf("failed to get related posts: %w", err)
		}
		related = append(related, sameCategory...)
	}

	if len(related) < relatedLimit {
		for _, p := range related {
			exclude = append(exclude, p.ID)
		}
		more, err := s.postRepo.List(repositories.PostQuery{
			PublishedOnly: true,
			ExcludeIDs:    exclude,
		}, relatedLimit-len(related), 0)
		if err != nil {
			return nil, fmt.Errorf("failed to get recent posts: %w", err)
		}
		related = append(related, more...)
	}
	return related, nil
}

// Neighbours returns the published posts created just before and just after
// post. Either may be nil.
func (s *PostService) Neighbours(post *models.Post) (*models.Post, *models.Post, error) {
	previous, err := s.first(repositories.PostQuery{
		PublishedOnly: true,
		CreatedBefore: post.CreatedAt,
		Sort:          repositories.SortNewest,
	})
	if err != nil {
		return nil, nil, err
	}
	next, err := s.first(repositories.PostQuery{
		PublishedOnly: true,
		CreatedAfter:  post.CreatedAt,
		Sort:          repositories.SortOldest,
	})
	if err != nil {
		return nil, nil, err
	}
	return previous, next, nil
}

// ToggleLike likes or unlikes the published post id on behalf of client.
func (s *PostService) ToggleLike(id uint, client string) (*LikeResult, error) {
	post, err := s.PublishedByID(id)
	if err != nil {
		return nil, err
	}
	action, likes, err := s.engagement.ToggleLike(post.ID, client)
	if err != nil {
		return nil, err
	}
	return &LikeResult{Success: true, Action: action, Likes: likes}, nil
}

func (s *PostService) first(q repositories.PostQuery) (*models.Post, error) {
	posts, err := s.postRepo.List(q, 1, 0)
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, nil
	}
	return posts[0], nil
}

func (s *PostService) uniqueSlug(title string) (string, error) {
	base := models.Slugify(title)
	if base == "" {
		base = "post"
	}
	slug := base
	for n := 2; n <= maxSlugAttempts; n++ {
		taken, err := s.postRepo.SlugExists(slug)
		if err != nil {
			return "", err
		}
		if !taken {
			return slug, nil
		}
		suffix := fmt.Sprintf("-%d", n)
		if len(base)+len(suffix) > 200 {
			slug = strings.TrimRight(base[:200-len(suffix)], "-") + suffix
		} else {
			slug = base + suffix
		}
	}
	return "", errors.New("could not find a free slug for " + title)
}
