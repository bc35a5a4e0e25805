package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"inkpress/app/models"
	"inkpress/app/repositories"
)

// ErrRateLimited rejects a comment from a client that used up its window.
var ErrRateLimited = errors.New("comment rate limit reached")

// Messages shown to the commenter.
const (
	CommentAddedMessage   = "Your comment has been added successfully!"
	CommentInvalidMessage = "Please correct the errors below."
	CommentLimitMessage   = "You have reached the comment limit. Please try again later."
)

// ValidationError carries per-field messages for a rejected form.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return "invalid comment: " + strings.Join(names, ", ")
}

// CommentForm is a comment as submitted by a reader.
type CommentForm struct {
	Name    string `form:"name" validate:"required,max=100"`
	Email   string `form:"email" validate:"required,email"`
	Content string `form:"content" validate:"required"`
}

// Clean trims surrounding whitespace from every field.
func (f *CommentForm) Clean() {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	f.Content = strings.TrimSpace(f.Content)
}

// SubmissionState is where a comment submission ended up.
type SubmissionState int

const (
	StateReceived SubmissionState = iota
	StateValidated
	StateRateChecked
	StatePersisted
	StateRejected
)

func (s SubmissionState) String() string {
	switch s {
	case StateReceived:
		return "received"
	case StateValidated:
		return "validated"
	case StateRateChecked:
		return "rate_checked"
	case StatePersisted:
		return "persisted"
	case StateRejected:
		return "rejected"
	default:
		return fmt.Sprintf("SubmissionState(%d)", int(s))
	}
}

// Submission records the progress of one comment submission.
type Submission struct {
	State   SubmissionState
	Form    CommentForm
	Comment *models.Comment
}

// CommentService handles business logic for comments
type CommentService struct {
	commentRepo repositories.CommentRepository
	engagement  *EngagementService
}

// NewCommentService creates a new CommentService
func NewCommentService(commentRepo repositories.CommentRepository, engagement *EngagementService) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		engagement:  engagement,
	}
}

// Submit runs a reader's comment on post through validation and the rate
// limit and stores it. A rejected submission returns a *ValidationError or
// ErrRateLimited and persists nothing.
func (s *CommentService) Submit(post *models.Post, form CommentForm, client string) (*Submission, error) {
	sub := &Submission{State: StateReceived, Form: form}
	sub.Form.Clean()

	if err := models.ValidateStruct(&sub.Form); err != nil {
		sub.State = StateRejected
		if fields := models.FieldErrors(err); fields != nil {
			return sub, &ValidationError{Fields: fields}
		}
		return sub, err
	}
	sub.State = StateValidated

	allowed, err := s.engagement.CanComment(client)
	if err != nil {
		return sub, err
	}
	if !allowed {
		sub.State = StateRejected
		return sub, ErrRateLimited
	}
	sub.State = StateRateChecked

	comment := &models.Comment{
		Name:    sub.Form.Name,
		Email:   sub.Form.Email,
		Content: sub.Form.Content,
		Active:  true,
	}
	if err := comment.SetPost(post); err != nil {
		return sub, err
	}
	if err := s.commentRepo.Create(comment); err != nil {
		return sub, err
	}
	sub.Comment = comment
	sub.State = StatePersisted

	if _, err := s.engagement.RecordComment(client); err != nil {
		return sub, err
	}
	return sub, nil
}

// GetComment retrieves a comment by ID
func (s *CommentService) GetComment(id uint) (*models.Comment, error) {
	return s.commentRepo.GetByID(id)
}

// ListPostComments retrieves every comment of a post, hidden ones included
func (s *CommentService) ListPostComments(postID uint) ([]*models.Comment, error) {
	return s.commentRepo.ListByPost(postID)
}

// Hide takes a comment off the public page.
func (s *CommentService) Hide(id uint) error {
	return s.commentRepo.SetActive(id, false)
}

// Show puts a hidden comment back on the public page.
func (s *CommentService) Show(id uint) error {
	return s.commentRepo.SetActive(id, true)
}

// DeleteComment deletes a comment
func (s *CommentService) DeleteComment(id uint) error {
	return s.commentRepo.Delete(id)
}
