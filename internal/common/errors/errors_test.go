package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	err := New(1000, "boom")
	assert.Equal(t, "[1000] boom", err.Error())

	wrapped := Wrap(1004, "db failed", fmt.Errorf("connection refused"))
	assert.Equal(t, "[1004] db failed: connection refused", wrapped.Error())
}

func TestAppError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("cause")
	err := ErrDatabaseError.WithError(cause)
	assert.True(t, stderrors.Is(err, cause))
}

func TestAppError_IsMatchesCode(t *testing.T) {
	err := ErrUserExists.WithMessage("custom")
	assert.True(t, stderrors.Is(err, ErrUserExists))
	assert.False(t, stderrors.Is(err, ErrUserNotFound))

	wrapped := fmt.Errorf("outer: %w", ErrBookingTransition)
	assert.True(t, stderrors.Is(wrapped, ErrBookingTransition))
}

func TestAppError_HTTPStatus(t *testing.T) {
	tests := []struct {
		err  *AppError
		want int
	}{
		{ErrInvalidParams, http.StatusBadRequest},
		{ErrTokenMissing, http.StatusUnauthorized},
		{ErrPermissionDenied, http.StatusForbidden},
		{ErrAccommodationNotFound, http.StatusNotFound},
		{ErrRateLimitExceed, http.StatusTooManyRequests},
		{ErrUserExists, http.StatusBadRequest},
		{ErrDatabaseError, http.StatusInternalServerError},
		{New(42, "x"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.err.HTTPStatus(), tt.err.Message)
	}
}

func TestWithMessage_KeepsStatus(t *testing.T) {
	err := ErrAccountInactive.WithMessage("User account is suspended.")
	assert.Equal(t, http.StatusForbidden, err.HTTPStatus())
	assert.Equal(t, "User account is suspended.", err.Message)
	assert.Equal(t, "User account is not active.", ErrAccountInactive.Message)
}

func TestGetAppError(t *testing.T) {
	appErr := GetAppError(fmt.Errorf("wrap: %w", ErrReviewTarget))
	assert.Equal(t, ErrReviewTarget.Code, appErr.Code)

	unknown := GetAppError(fmt.Errorf("plain"))
	assert.Equal(t, ErrUnknown.Code, unknown.Code)
	assert.Equal(t, http.StatusInternalServerError, unknown.HTTPStatus())

	assert.True(t, IsAppError(ErrNotFound))
	assert.False(t, IsAppError(fmt.Errorf("plain")))
}
