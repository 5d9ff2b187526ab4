package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCodes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err    *AppError
		status int
	}{
		{NewAuthError("nope", nil), http.StatusUnauthorized},
		{NewConflictError("exists", nil), http.StatusConflict},
		{NewValidationError("empty", nil), http.StatusBadRequest},
		{NewBadRequestError("bad", nil), http.StatusBadRequest},
		{NewNotFoundError("missing", nil), http.StatusNotFound},
		{NewDatabaseError("down", nil), http.StatusInternalServerError},
		{NewInternalError("boom", nil), http.StatusInternalServerError},
		{NewExternalServiceError("remote failed", nil), http.StatusBadGateway},
		{NewAppError(UnknownError, "?", nil), http.StatusInternalServerError},
	}
	for _, c := range cases {
		assert.Equal(t, c.status, c.err.StatusCode(), c.err.Message)
	}
}

func TestToResponse_HidesUnderlyingError(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection refused to 10.0.0.5:5432")
	appErr := NewDatabaseError("failed to create user", cause)

	// Logs carry the cause, the client response never does.
	assert.Contains(t, appErr.Error(), "connection refused")
	resp := appErr.ToResponse()
	assert.Equal(t, "failed to create user", resp.Detail)
	assert.NotContains(t, resp.Detail, "connection refused")
}

func TestFromError(t *testing.T) {
	t.Parallel()

	appErr := NewConflictError("username already exists", nil)

	got, ok := FromError(appErr)
	assert.True(t, ok)
	assert.Equal(t, appErr, got)

	// Wrapped AppErrors are still recognized.
	wrapped := fmt.Errorf("register: %w", appErr)
	got, ok = FromError(wrapped)
	assert.True(t, ok)
	assert.Equal(t, appErr, got)

	_, ok = FromError(errors.New("plain"))
	assert.False(t, ok)
	_, ok = FromError(nil)
	assert.False(t, ok)
}

func TestTypeCheckers(t *testing.T) {
	t.Parallel()

	assert.True(t, IsAuthError(NewAuthError("nope", nil)))
	assert.True(t, IsConflictError(NewConflictError("exists", nil)))
	assert.True(t, IsValidationError(NewValidationError("empty", nil)))
	assert.True(t, IsNotFound(NewNotFoundError("missing", nil)))
	assert.False(t, IsAuthError(NewConflictError("exists", nil)))
	assert.False(t, IsConflictError(errors.New("plain")))
}

func TestUnwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("root cause")
	appErr := NewInternalError("wrapper", cause)
	assert.ErrorIs(t, appErr, cause)
}
