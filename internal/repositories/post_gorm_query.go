package repositories

import (
	"context"
	"fmt"

	"juicebox/internal/apperror"
	"juicebox/internal/models"
)

// GetAll retrieves every post, ordered by ID.
func (r *GORMPostRepository) GetAll(ctx context.Context) ([]models.PostView, error) {
	ctx, cancel := r.opts.bound(ctx)
	defer cancel()

	var ids []uint
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Order("id").Pluck("id", &ids).Error; err != nil {
		return nil, apperror.Infra("failed to get all post ids", err)
	}
	return r.assembleAll(ctx, ids)
}

// GetByAuthor retrieves the posts written by authorID, ordered by ID.
func (r *GORMPostRepository) GetByAuthor(ctx context.Context, authorID uint) ([]models.PostView, error) {
	ctx, cancel := r.opts.bound(ctx)
	defer cancel()

	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("author_id = ?", authorID).
		Order("id").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, apperror.Infra(fmt.Sprintf("failed to get post ids for author %d", authorID), err)
	}
	return r.assembleAll(ctx, ids)
}

// GetByTagName retrieves the posts carrying the named tag, ordered by ID. An
// unknown tag yields an empty list, not an error.
func (r *GORMPostRepository) GetByTagName(ctx context.Context, tagName string) ([]models.PostView, error) {
	ctx, cancel := r.opts.bound(ctx)
	defer cancel()

	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Post{}).
		Joins("JOIN post_tags ON post_tags.post_id = posts.id").
		Joins("JOIN tags ON tags.id = post_tags.tag_id").
		Where("tags.name = ?", tagName).
		Order("posts.id").
		Pluck("posts.id", &ids).Error
	if err != nil {
		return nil, apperror.Infra(fmt.Sprintf("failed to get post ids for tag %q", tagName), err)
	}
	return r.assembleAll(ctx, ids)
}
