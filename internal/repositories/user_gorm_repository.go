package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"juicebox/internal/apperror"
	"juicebox/internal/models"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db   *gorm.DB
	opts options
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB, opts ...Option) *GORMUserRepository {
	return &GORMUserRepository{
		db:   db,
		opts: newOptions(opts),
	}
}

// Create creates a new user in the database. A taken username yields
// apperror.ErrConflict.
func (r *GORMUserRepository) Create(ctx context.Context, user *models.User) error {
	ctx, cancel := r.opts.bound(ctx)
	defer cancel()

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperror.Newf(apperror.ErrConflict, "username '%s' already taken", user.Username)
		}
		return apperror.Infra("failed to create user", err)
	}
	return nil
}

// GetByUsername retrieves a user by their username from the database.
func (r *GORMUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	ctx, cancel := r.opts.bound(ctx)
	defer cancel()

	var user models.User
	if err := r.db.WithContext(ctx).Take(&user, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Newf(apperror.ErrNotFound, "user with username %s not found", username)
		}
		return nil, apperror.Infra(fmt.Sprintf("failed to get user by username %s", username), err)
	}
	return &user, nil
}

// GetByID retrieves a user by their ID from the database.
func (r *GORMUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	ctx, cancel := r.opts.bound(ctx)
	defer cancel()

	var user models.User
	if err := r.db.WithContext(ctx).Take(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Newf(apperror.ErrNotFound, "user with ID %d not found", id)
		}
		return nil, apperror.Infra(fmt.Sprintf("failed to get user by ID %d", id), err)
	}
	return &user, nil
}

// GetAll retrieves all users ordered by ID.
func (r *GORMUserRepository) GetAll(ctx context.Context) ([]models.User, error) {
	ctx, cancel := r.opts.bound(ctx)
	defer cancel()

	users := []models.User{}
	if err := r.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, apperror.Infra("failed to get all users", err)
	}
	return users, nil
}

// Update writes the present fields of patch and returns the stored user.
// An empty patch issues no UPDATE.
func (r *GORMUserRepository) Update(ctx context.Context, id uint, patch models.UserPatch) (*models.User, error) {
	ctx, cancel := r.opts.bound(ctx)
	defer cancel()

	db := r.db.WithContext(ctx)
	if cols := patch.Columns(); len(cols) > 0 {
		res := db.Model(&models.User{}).Where("id = ?", id).Updates(cols)
		if res.Error != nil {
			return nil, apperror.Infra(fmt.Sprintf("failed to update user %d", id), res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, apperror.Newf(apperror.ErrNotFound, "user with ID %d not found for update", id)
		}
	}

	var user models.User
	if err := db.Take(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Newf(apperror.ErrNotFound, "user with ID %d not found", id)
		}
		return nil, apperror.Infra(fmt.Sprintf("failed to get user by ID %d", id), err)
	}
	return &user, nil
}
