package repositories

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"juicebox/internal/apperror"
	"juicebox/internal/models"
)

// GORMTagRepository is a GORM implementation of TagRepository.
type GORMTagRepository struct {
	db   *gorm.DB
	opts options
}

// NewGORMTagRepository creates a new instance of GORMTagRepository.
func NewGORMTagRepository(db *gorm.DB, opts ...Option) *GORMTagRepository {
	return &GORMTagRepository{
		db:   db,
		opts: newOptions(opts),
	}
}

// Normalize inserts every missing name and returns the canonical rows for all
// of them. An empty name list issues no statements.
func (r *GORMTagRepository) Normalize(ctx context.Context, names []string) ([]models.Tag, error) {
	if len(distinctNames(names)) == 0 {
		return []models.Tag{}, nil
	}

	ctx, cancel := r.opts.bound(ctx)
	defer cancel()

	tags, err := normalizeTags(r.db.WithContext(ctx), names)
	if err != nil {
		return nil, writeError("failed to normalize tags", err)
	}
	return tags, nil
}

// GetAll retrieves all tags ordered by ID.
func (r *GORMTagRepository) GetAll(ctx context.Context) ([]models.Tag, error) {
	ctx, cancel := r.opts.bound(ctx)
	defer cancel()

	tags := []models.Tag{}
	if err := r.db.WithContext(ctx).Order("id").Find(&tags).Error; err != nil {
		return nil, apperror.Infra("failed to get all tags", err)
	}
	return tags, nil
}

// normalizeTags runs against db, which may be a transaction. Existing names
// are left as they are: the insert ignores conflicts on tags.name, so
// concurrent writers racing on the same name all end up with the same row.
// Names are inserted in sorted order so that transactions with overlapping
// names wait on each other's rows in the same order instead of deadlocking.
func normalizeTags(db *gorm.DB, names []string) ([]models.Tag, error) {
	distinct := distinctNames(names)
	if len(distinct) == 0 {
		return []models.Tag{}, nil
	}
	sort.Strings(distinct)

	rows := make([]models.Tag, len(distinct))
	for i, name := range distinct {
		rows[i] = models.Tag{Name: name}
	}

	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to insert tags: %w", err)
	}

	tags := []models.Tag{}
	if err := db.Where("name IN ?", distinct).Order("id").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("failed to select tags: %w", err)
	}
	return tags, nil
}

// distinctNames trims each name, drops blanks and removes duplicates while
// keeping first-seen order.
func distinctNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

func tagIDs(tags []models.Tag) []uint {
	ids := make([]uint, len(tags))
	for i, t := range tags {
		ids[i] = t.ID
	}
	return ids
}
