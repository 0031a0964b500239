package repositories

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"juicebox/internal/apperror"
	"juicebox/internal/models"
)

// GORMPostRepository is a GORM implementation of PostRepository.
type GORMPostRepository struct {
	db   *gorm.DB
	opts options
}

// NewGORMPostRepository creates a new instance of GORMPostRepository.
func NewGORMPostRepository(db *gorm.DB, opts ...Option) *GORMPostRepository {
	return &GORMPostRepository{
		db:   db,
		opts: newOptions(opts),
	}
}

// GetByID assembles the view of a single post. It returns an error matching
// apperror.ErrNotFound when the post does not exist.
func (r *GORMPostRepository) GetByID(ctx context.Context, id uint) (*models.PostView, error) {
	ctx, cancel := r.opts.bound(ctx)
	defer cancel()

	return r.assemble(ctx, id)
}

// assemble joins the post row, its tags and its author's public fields. The
// tag and author reads only depend on the post row, so they run concurrently.
func (r *GORMPostRepository) assemble(ctx context.Context, id uint) (*models.PostView, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Take(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Newf(apperror.ErrNotFound, "post with ID %d not found", id)
		}
		return nil, apperror.Infra(fmt.Sprintf("failed to get post %d", id), err)
	}

	view := &models.PostView{
		ID:      post.ID,
		Title:   post.Title,
		Content: post.Content,
		Active:  post.Active,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		tags, err := postTags(r.db.WithContext(gctx), post.ID)
		if err != nil {
			return err
		}
		view.Tags = tags
		return nil
	})
	g.Go(func() error {
		author, err := authorSummary(r.db.WithContext(gctx), post.AuthorID)
		if err != nil {
			return fmt.Errorf("post %d: %w", post.ID, err)
		}
		view.Author = *author
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return view, nil
}

// assembleAll assembles ids in parallel and returns the views in ids order.
func (r *GORMPostRepository) assembleAll(ctx context.Context, ids []uint) ([]models.PostView, error) {
	return assembleInOrder(ctx, ids, r.opts.concurrency, r.assemble)
}

// assembleInOrder runs at most limit calls of assemble at a time. Each result
// lands at the index of its id, whatever order the calls finish in. The first
// error cancels the calls still running.
func assembleInOrder(ctx context.Context, ids []uint, limit int, assemble func(context.Context, uint) (*models.PostView, error)) ([]models.PostView, error) {
	views := make([]models.PostView, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			view, err := assemble(gctx, id)
			if err != nil {
				return err
			}
			views[i] = *view
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return views, nil
}

func postTags(db *gorm.DB, postID uint) ([]models.Tag, error) {
	tags := []models.Tag{}
	err := db.Model(&models.Tag{}).
		Select("tags.id", "tags.name").
		Joins("JOIN post_tags ON post_tags.tag_id = tags.id").
		Where("post_tags.post_id = ?", postID).
		Order("tags.id").
		Find(&tags).Error
	if err != nil {
		return nil, apperror.Infra(fmt.Sprintf("failed to get tags for post %d", postID), err)
	}
	return tags, nil
}

// authorSummary reads only the public user columns; the password column is
// never selected.
func authorSummary(db *gorm.DB, userID uint) (*models.AuthorSummary, error) {
	var author models.AuthorSummary
	err := db.Model(&models.User{}).
		Select("id", "username", "name", "location").
		Where("id = ?", userID).
		Take(&author).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Newf(apperror.ErrNotFound, "author with ID %d not found", userID)
		}
		return nil, apperror.Infra(fmt.Sprintf("failed to get author %d", userID), err)
	}
	return &author, nil
}
