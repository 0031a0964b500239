package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"juicebox/internal/apperror"
	"juicebox/internal/models"
	"juicebox/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	if args.Error(0) == nil {
		user.ID = 1
	}
	return args.Error(0)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetAll(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, id uint, patch models.UserPatch) (*models.User, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

const testJWTSecret = "test_jwt_secret"

func notFound(what string) error {
	return apperror.Newf(apperror.ErrNotFound, "%s not found", what)
}

func TestAuthService_RegisterUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret, zap.NewNop())
	ctx := context.Background()

	in := services.RegisterInput{
		Username: "albert",
		Password: "bertie99bertie",
		Name:     "Al Bert",
		Location: "Sidney, Australia",
	}

	// Successful registration
	mockRepo.On("GetByUsername", ctx, "albert").Return(nil, notFound("albert")).Once()
	mockRepo.On("Create", ctx, mock.AnythingOfType("*models.User")).Return(nil).Once()

	user, token, err := authService.RegisterUser(ctx, in)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, uint(1), user.ID)
	assert.NotEqual(t, in.Password, user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)))
	mockRepo.AssertExpectations(t)

	// Username already taken
	mockRepo.On("GetByUsername", ctx, "albert").Return(&models.User{ID: 1, Username: "albert"}, nil).Once()
	_, _, err = authService.RegisterUser(ctx, in)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrConflict))
	assert.Contains(t, err.Error(), "username 'albert' already taken")
	mockRepo.AssertExpectations(t)

	// Storage failure is propagated, not masked as a conflict
	mockRepo.On("GetByUsername", ctx, "albert").Return(nil, apperror.Infra("select", fmt.Errorf("connection refused"))).Once()
	_, _, err = authService.RegisterUser(ctx, in)
	require.Error(t, err)
	assert.True(t, apperror.Retryable(err))
	mockRepo.AssertExpectations(t)
}

func TestAuthService_RegisterUser_Validation(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret, zap.NewNop())

	_, _, err := authService.RegisterUser(context.Background(), services.RegisterInput{Username: "al", Password: "short"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrInvalidInput))
	assert.Contains(t, err.Error(), "Field 'Username' failed on the 'min' tag")
	assert.Contains(t, err.Error(), "Field 'Password' failed on the 'min' tag")
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthService_LoginUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret, zap.NewNop())
	ctx := context.Background()

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("2sandy4me"), bcrypt.DefaultCost)
	user := &models.User{
		ID:       7,
		Username: "sandra",
		Password: string(hashedPassword),
		Active:   true,
	}

	// Successful login
	mockRepo.On("GetByUsername", ctx, "sandra").Return(user, nil).Once()
	token, err := authService.LoginUser(ctx, "sandra", "2sandy4me")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := authService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "sandra", claims["username"])
	id, err := services.UserIDFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, uint(7), id)
	mockRepo.AssertExpectations(t)

	// Wrong password
	mockRepo.On("GetByUsername", ctx, "sandra").Return(user, nil).Once()
	_, err = authService.LoginUser(ctx, "sandra", "wrongpassword")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrUnauthorized))
	assert.Contains(t, err.Error(), "invalid credentials")

	// Unknown user gets the same generic message
	mockRepo.On("GetByUsername", ctx, "nobody").Return(nil, notFound("nobody")).Once()
	_, err = authService.LoginUser(ctx, "nobody", "2sandy4me")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid credentials")

	// Deactivated user
	inactive := *user
	inactive.Active = false
	mockRepo.On("GetByUsername", ctx, "sandra").Return(&inactive, nil).Once()
	_, err = authService.LoginUser(ctx, "sandra", "2sandy4me")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deactivated")
	mockRepo.AssertExpectations(t)
}

func TestAuthService_ValidateToken(t *testing.T) {
	authService := services.NewAuthService(new(MockUserRepository), testJWTSecret, zap.NewNop())

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  3,
		"username": "glamgal",
		"exp":      jwt.TimeFunc().Add(time.Hour).Unix(),
	})
	validTokenString, _ := token.SignedString([]byte(testJWTSecret))

	claims, err := authService.ValidateToken(validTokenString)
	require.NoError(t, err)
	assert.Equal(t, "glamgal", claims["username"])

	_, err = authService.ValidateToken("invalid.token.string")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrUnauthorized))
	assert.Contains(t, err.Error(), "invalid token")

	expiredToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  3,
		"username": "glamgal",
		"exp":      jwt.TimeFunc().Add(-time.Hour).Unix(),
	})
	expiredTokenString, _ := expiredToken.SignedString([]byte(testJWTSecret))
	_, err = authService.ValidateToken(expiredTokenString)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid token")
}

func TestUserIDFromClaims(t *testing.T) {
	_, err := services.UserIDFromClaims(jwt.MapClaims{"username": "x"})
	assert.Error(t, err)

	id, err := services.UserIDFromClaims(jwt.MapClaims{"user_id": float64(12)})
	require.NoError(t, err)
	assert.Equal(t, uint(12), id)
}
