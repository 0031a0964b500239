package services

import (
	"context"

	"juicebox/internal/models"
	"juicebox/internal/repositories"
)

// TagService handles business logic related to tags.
type TagService struct {
	tags  repositories.TagRepository
	posts repositories.PostRepository
}

// NewTagService creates a new TagService.
func NewTagService(tags repositories.TagRepository, posts repositories.PostRepository) *TagService {
	return &TagService{
		tags:  tags,
		posts: posts,
	}
}

// GetAllTags retrieves all tags.
func (s *TagService) GetAllTags(ctx context.Context) ([]models.Tag, error) {
	return s.tags.GetAll(ctx)
}

// GetPostsByTagName retrieves the posts carrying tagName. An unknown tag
// yields an empty list.
func (s *TagService) GetPostsByTagName(ctx context.Context, tagName string) ([]models.PostView, error) {
	return s.posts.GetByTagName(ctx, tagName)
}
