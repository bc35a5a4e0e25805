package services

import (
	"encoding/hex"
	"fmt"
	"time"

	"inkpress/app/cache"

	"golang.org/x/crypto/blake2b"
)

const (
	ViewTTL        = 24 * time.Hour
	LikeTTL        = 24 * time.Hour
	CommentWindow  = time.Hour
	MaxCommentsPer = 3
)

// Like actions reported to the client.
const (
	ActionLiked   = "liked"
	ActionUnliked = "unliked"
)

// EngagementService tracks views, likes and comment rate limits in the cache.
type EngagementService struct {
	cache cache.Cache
}

// NewEngagementService creates a new EngagementService
func NewEngagementService(c cache.Cache) *EngagementService {
	return &EngagementService{cache: c}
}

// RecordView counts one more view of a post and returns the new total.
func (s *EngagementService) RecordView(postID uint) (int, error) {
	return s.cache.Incr(viewsKey(postID), 1, ViewTTL)
}

// Views returns the current view count of a post.
func (s *EngagementService) Views(postID uint) (int, error) {
	return s.counter(viewsKey(postID))
}

// Likes returns the current like count of a post.
func (s *EngagementService) Likes(postID uint) (int, error) {
	return s.counter(likesKey(postID))
}

// ToggleLike likes the post for client, or takes the like back if the client
// already liked it. It returns the action taken and the new like count.
func (s *EngagementService) ToggleLike(postID uint, client string) (string, int, error) {
	flagKey := likeFlagKey(postID, client)
	var liked bool
	if _, err := s.cache.Get(flagKey, &liked); err != nil {
		return "", 0, err
	}

	action, delta := ActionLiked, 1
	if liked {
		if err := s.cache.Delete(flagKey); err != nil {
			return "", 0, err
		}
		action, delta = ActionUnliked, -1
	} else if err := s.cache.Set(flagKey, true, LikeTTL); err != nil {
		return "", 0, err
	}

	likes, err := s.cache.Incr(likesKey(postID), delta, LikeTTL)
	if err != nil {
		return "", 0, err
	}
	return action, likes, nil
}

// CommentsInWindow returns how many comments client posted in the current
// rate limit window.
func (s *EngagementService) CommentsInWindow(client string) (int, error) {
	return s.counter(commentsKey(client))
}

// CanComment reports whether client is still under the comment limit.
func (s *EngagementService) CanComment(client string) (bool, error) {
	n, err := s.CommentsInWindow(client)
	if err != nil {
		return false, err
	}
	return n < MaxCommentsPer, nil
}

// RecordComment counts an accepted comment against client and restarts the
// window.
func (s *EngagementService) RecordComment(client string) (int, error) {
	return s.cache.Incr(commentsKey(client), 1, CommentWindow)
}

func (s *EngagementService) counter(key string) (int, error) {
	var n int
	if _, err := s.cache.Get(key, &n); err != nil {
		return 0, err
	}
	return n, nil
}

func viewsKey(postID uint) string {
	return fmt.Sprintf("post_views_%d", postID)
}

func likesKey(postID uint) string {
	return fmt.Sprintf("post_likes_%d", postID)
}

func likeFlagKey(postID uint, client string) string {
	return fmt.Sprintf("post_like_%d_%s", postID, clientDigest(client))
}

func commentsKey(client string) string {
	return "comments_" + clientDigest(client)
}

// clientDigest keeps raw addresses out of cache keys.
func clientDigest(client string) string {
	sum := blake2b.Sum256([]byte(client))
	return hex.EncodeToString(sum[:16])
}
