package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"juicebox/internal/apperror"
	"juicebox/internal/models"
	"juicebox/internal/repositories"
	"juicebox/pkg/rabbitmq"
)

// EventPublisher publishes post lifecycle events.
type EventPublisher interface {
	PublishPostEvent(event rabbitmq.PostEvent) error
}

// CreatePostInput is the data needed to create a post.
type CreatePostInput struct {
	AuthorID uint   `validate:"required"`
	Title    string `validate:"required,max=255"`
	Content  string `validate:"required"`
	Tags     []string `validate:"dive,max=255"`
}

// PostService handles business logic related to posts.
type PostService struct {
	repo     repositories.PostRepository
	events   EventPublisher // nil disables publishing
	validate *validator.Validate
	logger   *zap.Logger
}

// NewPostService creates a new PostService. events may be nil.
func NewPostService(repo repositories.PostRepository, events EventPublisher, logger *zap.Logger) *PostService {
	return &PostService{
		repo:     repo,
		events:   events,
		validate: validator.New(),
		logger:   logger,
	}
}

// CreatePost validates the input, stores the post with its tags and returns
// the assembled view.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.PostView, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, invalidInput(err)
	}

	view, err := s.repo.Create(ctx, in.AuthorID, in.Title, in.Content, in.Tags)
	if err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	s.publish(rabbitmq.EventPostCreated, view)
	return view, nil
}

// UpdatePost applies a partial update. A present title or content must not
// be blank, and present tags are held to the same limits as on create.
func (s *PostService) UpdatePost(ctx context.Context, id uint, patch models.PostPatch) (*models.PostView, error) {
	if patch.Title != nil {
		if err := s.validate.Var(*patch.Title, "required,max=255"); err != nil {
			return nil, apperror.New(apperror.ErrInvalidInput, "title must be between 1 and 255 characters")
		}
	}
	if patch.Content != nil {
		if err := s.validate.Var(*patch.Content, "required"); err != nil {
			return nil, apperror.New(apperror.ErrInvalidInput, "content must not be empty")
		}
	}
	if patch.Tags != nil {
		if err := s.validate.Var(*patch.Tags, "dive,max=255"); err != nil {
			return nil, apperror.New(apperror.ErrInvalidInput, "tags must be at most 255 characters")
		}
	}

	view, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to update post %d: %w", id, err)
	}

	if !patch.IsEmpty() {
		s.publish(rabbitmq.EventPostUpdated, view)
	}
	return view, nil
}

// DeletePost soft-deletes a post by clearing its active flag.
func (s *PostService) DeletePost(ctx context.Context, id uint) (*models.PostView, error) {
	inactive := false
	view, err := s.repo.Update(ctx, id, models.PostPatch{Active: &inactive})
	if err != nil {
		return nil, fmt.Errorf("failed to delete post %d: %w", id, err)
	}

	s.publish(rabbitmq.EventPostDeleted, view)
	return view, nil
}

// GetPostByID retrieves a single post view.
func (s *PostService) GetPostByID(ctx context.Context, id uint) (*models.PostView, error) {
	return s.repo.GetByID(ctx, id)
}

// GetAllPosts retrieves every post.
func (s *PostService) GetAllPosts(ctx context.Context) ([]models.PostView, error) {
	return s.repo.GetAll(ctx)
}

// GetPostsByAuthor retrieves the posts of one author.
func (s *PostService) GetPostsByAuthor(ctx context.Context, authorID uint) ([]models.PostView, error) {
	return s.repo.GetByAuthor(ctx, authorID)
}

// GetPostsByTagName retrieves the posts carrying tagName.
func (s *PostService) GetPostsByTagName(ctx context.Context, tagName string) ([]models.PostView, error) {
	return s.repo.GetByTagName(ctx, tagName)
}

// publish never fails the write that triggered it.
func (s *PostService) publish(eventType string, view *models.PostView) {
	if s.events == nil {
		return
	}

	tags := make([]string, len(view.Tags))
	for i, t := range view.Tags {
		tags[i] = t.Name
	}
	event := rabbitmq.PostEvent{
		Type:       eventType,
		PostID:     view.ID,
		AuthorID:   view.Author.ID,
		Active:     view.Active,
		Tags:       tags,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.events.PublishPostEvent(event); err != nil {
		s.logger.Warn("failed to publish post event",
			zap.String("type", eventType),
			zap.Uint("post_id", view.ID),
			zap.Error(err),
		)
	}
}

// VisibleTo reports whether callerID may see view in a listing: active posts
// are public, inactive ones only to their author. callerID 0 is anonymous.
func VisibleTo(view models.PostView, callerID uint) bool {
	return view.Active || (callerID != 0 && view.Author.ID == callerID)
}

// FilterVisible keeps the posts callerID may see, preserving order.
func FilterVisible(posts []models.PostView, callerID uint) []models.PostView {
	out := make([]models.PostView, 0, len(posts))
	for _, p := range posts {
		if VisibleTo(p, callerID) {
			out = append(out, p)
		}
	}
	return out
}

// RequireOwner returns apperror.ErrForbidden unless callerID authored view.
func RequireOwner(view *models.PostView, callerID uint) error {
	if callerID == 0 || view.Author.ID != callerID {
		return apperror.New(apperror.ErrForbidden, "you cannot modify a post which is not yours")
	}
	return nil
}
