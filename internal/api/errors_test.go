package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/listenupapp/catalog-server/internal/errors"
	"github.com/listenupapp/catalog-server/internal/store"
)

func TestRegisterErrorHandler(t *testing.T) {
	RegisterErrorHandler(nil)

	tests := []struct {
		name        string
		status      int
		message     string
		errs        []error
		wantStatus  int
		wantCode    string
		wantMessage string
	}{
		{
			name:        "domain error keeps its status",
			status:      http.StatusInternalServerError,
			message:     "ignored",
			errs:        []error{domainerrors.Forbidden("This action is unauthorized.")},
			wantStatus:  http.StatusForbidden,
			wantCode:    string(domainerrors.CodeForbidden),
			wantMessage: "This action is unauthorized.",
		},
		{
			name:        "wrapped store not found",
			status:      http.StatusInternalServerError,
			errs:        []error{fmt.Errorf("get book: %w", store.ErrNotFound)},
			wantStatus:  http.StatusNotFound,
			wantCode:    string(domainerrors.CodeNotFound),
			wantMessage: "Not found.",
		},
		{
			name:        "server error is hidden",
			status:      http.StatusInternalServerError,
			message:     "sql: database is closed",
			errs:        []error{errors.New("boom")},
			wantStatus:  http.StatusInternalServerError,
			wantCode:    string(domainerrors.CodeInternal),
			wantMessage: "Server Error.",
		},
		{
			name:        "plain client error",
			status:      http.StatusBadRequest,
			message:     "bad input",
			wantStatus:  http.StatusBadRequest,
			wantCode:    string(domainerrors.CodeValidation),
			wantMessage: "bad input",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := huma.NewError(tt.status, tt.message, tt.errs...)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.wantStatus, apiErr.GetStatus())
			assert.Equal(t, tt.wantCode, apiErr.Code)
			assert.Equal(t, tt.wantMessage, apiErr.Message)
		})
	}
}

func TestRegisterErrorHandler_SchemaDetails(t *testing.T) {
	RegisterErrorHandler(nil)

	err := huma.NewError(http.StatusUnprocessableEntity, "validation failed",
		&huma.ErrorDetail{Location: "body.year", Message: "expected integer"},
		&huma.ErrorDetail{Location: "body.year", Message: "second message"},
	)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, map[string]string{"year": "expected integer"}, apiErr.Details)
	assert.Equal(t, "The year field is invalid: expected integer", apiErr.Message)
}

func TestTypeInvalidBody(t *testing.T) {
	ts := setupTestServer(t)
	member := ts.memberAuth(t)
	ts.createAuthor(t, member, "Frank Herbert")

	body := bookBody("Dune", "Frank Herbert", isbn(1), 1965)
	body["year"] = "nineteen sixty-five"

	resp := ts.api.Post("/books", member, body)
	require.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	assert.Contains(t, decodeError(t, resp.Body.Bytes()).Errors, "year")
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"Bearer abc", "abc"},
		{"bearer abc", "abc"},
		{"  Bearer   abc  ", "abc"},
		{"Basic abc", ""},
		{"Bearer", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.want, bearerToken(tt.header))
		})
	}
}

func TestClientIP(t *testing.T) {
	assert.Equal(t, "192.0.2.1", clientIP("192.0.2.1:1234"))
	assert.Equal(t, "::1", clientIP("[::1]:8080"))
	assert.Equal(t, "10.0.0.1", clientIP("10.0.0.1"))
}
