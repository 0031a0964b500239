package services

import (
	"context"
	"fmt"

	"juicebox/internal/models"
	"juicebox/internal/repositories"
)

// UserService handles user profile reads and updates.
type UserService struct {
	users repositories.UserRepository
	posts repositories.PostRepository
}

// NewUserService creates a new UserService.
func NewUserService(users repositories.UserRepository, posts repositories.PostRepository) *UserService {
	return &UserService{
		users: users,
		posts: posts,
	}
}

// GetAllUsers retrieves all users.
func (s *UserService) GetAllUsers(ctx context.Context) ([]models.User, error) {
	return s.users.GetAll(ctx)
}

// GetUserProfile returns a user's public fields together with their posts.
func (s *UserService) GetUserProfile(ctx context.Context, id uint) (*models.UserProfile, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	posts, err := s.posts.GetByAuthor(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get posts for user %d: %w", id, err)
	}

	return &models.UserProfile{
		ID:       user.ID,
		Username: user.Username,
		Name:     user.Name,
		Location: user.Location,
		Active:   user.Active,
		Posts:    posts,
	}, nil
}

// UpdateUser applies a partial update to a user.
func (s *UserService) UpdateUser(ctx context.Context, id uint, patch models.UserPatch) (*models.User, error) {
	user, err := s.users.Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to update user %d: %w", id, err)
	}
	return user, nil
}
