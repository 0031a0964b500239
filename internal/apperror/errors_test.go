package apperror_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"juicebox/internal/apperror"

	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("get post 7: %w", apperror.New(apperror.ErrNotFound, "post 7 not found"))

	assert.True(t, errors.Is(err, apperror.ErrNotFound))
	assert.False(t, errors.Is(err, apperror.ErrConflict))
	assert.Equal(t, http.StatusNotFound, apperror.HTTPStatus(err))
	assert.Equal(t, "post 7 not found", apperror.SafeMessage(err))
}

func TestInfra(t *testing.T) {
	assert.NoError(t, apperror.Infra("select posts", nil))

	err := apperror.Infra("select posts", context.DeadlineExceeded)
	assert.True(t, errors.Is(err, apperror.ErrInfrastructure))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.True(t, apperror.Retryable(err))
	assert.Equal(t, http.StatusServiceUnavailable, apperror.HTTPStatus(err))
	assert.Equal(t, "an unexpected error occurred", apperror.SafeMessage(err))

	// Domain errors are not reclassified.
	notFound := apperror.Wrap(apperror.ErrNotFound, errors.New("no rows"))
	assert.Same(t, notFound, apperror.Infra("select posts", notFound))
	assert.False(t, apperror.Retryable(notFound))
}

func TestHTTPStatus_UnknownError(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, apperror.HTTPStatus(errors.New("boom")))
	assert.Equal(t, http.StatusForbidden, apperror.HTTPStatus(apperror.ErrForbidden))
	assert.Equal(t, http.StatusUnauthorized, apperror.HTTPStatus(apperror.ErrUnauthorized))
	assert.Equal(t, http.StatusBadRequest, apperror.HTTPStatus(apperror.ErrInvalidInput))
	assert.Equal(t, http.StatusConflict, apperror.HTTPStatus(apperror.ErrConflict))
}
