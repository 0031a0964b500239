package repositories

import (
	"context"

	"juicebox/internal/models"
)

// TagRepository defines the interface for tag data access.
type TagRepository interface {
	// Normalize turns raw tag names into canonical Tag rows, creating only
	// the names that do not exist yet. Result order is unspecified.
	Normalize(ctx context.Context, names []string) ([]models.Tag, error)
	GetAll(ctx context.Context) ([]models.Tag, error)
}
