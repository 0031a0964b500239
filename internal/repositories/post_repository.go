package repositories

import (
	"context"

	"juicebox/internal/models"
)

// PostRepository defines the interface for post data access. Every method
// that returns posts returns fully assembled views.
type PostRepository interface {
	Create(ctx context.Context, authorID uint, title, content string, tagNames []string) (*models.PostView, error)
	Update(ctx context.Context, id uint, patch models.PostPatch) (*models.PostView, error)
	GetByID(ctx context.Context, id uint) (*models.PostView, error)
	GetAll(ctx context.Context) ([]models.PostView, error)
	GetByAuthor(ctx context.Context, authorID uint) ([]models.PostView, error)
	GetByTagName(ctx context.Context, tagName string) ([]models.PostView, error)
}
