package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"juicebox/internal/apperror"
	"juicebox/internal/models"
)

// Create inserts a post with its initial tags in one transaction and returns
// its view. The author must exist. The view is built from rows read inside
// the transaction, so an error always means nothing was written.
func (r *GORMPostRepository) Create(ctx context.Context, authorID uint, title, content string, tagNames []string) (*models.PostView, error) {
	ctx, cancel := r.opts.bound(ctx)
	defer cancel()

	var view *models.PostView
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		author, err := authorSummary(tx, authorID)
		if err != nil {
			return err
		}

		post := models.Post{
			AuthorID: authorID,
			Title:    title,
			Content:  content,
			Active:   true,
		}
		if err := tx.Create(&post).Error; err != nil {
			return fmt.Errorf("failed to insert post: %w", err)
		}

		tags, err := normalizeTags(tx, tagNames)
		if err != nil {
			return err
		}
		if err := addTagsToPost(tx, post.ID, tags); err != nil {
			return err
		}

		view = newPostView(post, *author, tags)
		return nil
	})
	if err != nil {
		return nil, writeError("failed to create post", err)
	}
	return view, nil
}

// Update applies patch to the post in one transaction. Only present fields
// are written. When patch.Tags is set, the post's associations are resynced
// to exactly that set: stale pairs are deleted, missing pairs inserted, and
// pairs in both sets are left alone.
func (r *GORMPostRepository) Update(ctx context.Context, id uint, patch models.PostPatch) (*models.PostView, error) {
	ctx, cancel := r.opts.bound(ctx)
	defer cancel()

	var view *models.PostView
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Take(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.Newf(apperror.ErrNotFound, "post with ID %d not found for update", id)
			}
			return fmt.Errorf("failed to get post %d: %w", id, err)
		}

		if cols := patch.Columns(); len(cols) > 0 {
			if err := tx.Model(&models.Post{}).Where("id = ?", id).Updates(cols).Error; err != nil {
				return fmt.Errorf("failed to update post %d: %w", id, err)
			}
			patch.ApplyTo(&post)
		}

		var tags []models.Tag
		var err error
		if patch.Tags == nil {
			tags, err = postTags(tx, id)
		} else {
			tags, err = normalizeTags(tx, *patch.Tags)
			if err == nil {
				err = resyncPostTags(tx, id, tags)
			}
		}
		if err != nil {
			return err
		}

		author, err := authorSummary(tx, post.AuthorID)
		if err != nil {
			return fmt.Errorf("post %d: %w", id, err)
		}

		view = newPostView(post, *author, tags)
		return nil
	})
	if err != nil {
		return nil, writeError("failed to update post", err)
	}
	return view, nil
}

func newPostView(post models.Post, author models.AuthorSummary, tags []models.Tag) *models.PostView {
	return &models.PostView{
		ID:      post.ID,
		Title:   post.Title,
		Content: post.Content,
		Active:  post.Active,
		Author:  author,
		Tags:    tags,
	}
}

// writeError classifies a failed write. Constraint violations are caused by
// the input and must not be reported as retryable.
func writeError(op string, err error) error {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperror.Wrap(apperror.New(apperror.ErrConflict, op), err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return apperror.Wrap(apperror.New(apperror.ErrNotFound, op), err)
	}
	return apperror.Infra(op, err)
}

// addTagsToPost links every tag to the post, skipping pairs that already exist.
func addTagsToPost(tx *gorm.DB, postID uint, tags []models.Tag) error {
	if len(tags) == 0 {
		return nil
	}

	links := make([]models.PostTag, len(tags))
	for i, t := range tags {
		links[i] = models.PostTag{PostID: postID, TagID: t.ID}
	}

	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "post_id"}, {Name: "tag_id"}},
		DoNothing: true,
	}).Create(&links).Error
	if err != nil {
		return fmt.Errorf("failed to add tags to post %d: %w", postID, err)
	}
	return nil
}

func resyncPostTags(tx *gorm.DB, postID uint, tags []models.Tag) error {
	stale := tx.Where("post_id = ?", postID)
	if len(tags) > 0 {
		stale = stale.Where("tag_id NOT IN ?", tagIDs(tags))
	}
	if err := stale.Delete(&models.PostTag{}).Error; err != nil {
		return fmt.Errorf("failed to remove stale tags from post %d: %w", postID, err)
	}

	return addTagsToPost(tx, postID, tags)
}
