package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCode_HTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeNotFound, http.StatusNotFound},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{CodeValidation, http.StatusUnprocessableEntity},
		{CodeRateLimited, http.StatusTooManyRequests},
		{CodeInternal, http.StatusInternalServerError},
		{Code("SOMETHING_ELSE"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.HTTPStatus())
		})
	}
}

func TestError_IsMatchesByCode(t *testing.T) {
	err := NotFound("book not found")

	assert.True(t, Is(err, ErrNotFound))
	assert.False(t, Is(err, ErrForbidden))

	wrapped := fmt.Errorf("get book: %w", err)
	assert.True(t, Is(wrapped, ErrNotFound))
}

func TestError_WithCause(t *testing.T) {
	cause := fmt.Errorf("disk on fire")
	err := Internal("failed to save").WithCause(cause)

	assert.Equal(t, "failed to save: disk on fire", err.Error())
	assert.Equal(t, cause, Unwrap(err))
}

func TestFieldInvalid(t *testing.T) {
	err := FieldInvalid("isbn", "The isbn has already been taken.")

	assert.Equal(t, CodeValidation, err.Code)
	assert.Equal(t, http.StatusUnprocessableEntity, err.HTTPStatus())
	assert.Equal(t, map[string]string{"isbn": "The isbn has already been taken."}, err.Details)
}
