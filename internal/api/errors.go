package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/listenupapp/catalog-server/internal/errors"
	"github.com/listenupapp/catalog-server/internal/store"
	"github.com/listenupapp/catalog-server/internal/validation"
)

// APIError implements huma.StatusError with the catalog's error body:
// {"code": ..., "message": ..., "errors": {...}}.
type APIError struct { //nolint:revive // API prefix is intentional for clarity
	status  int
	Code    string `json:"code" doc:"Machine-readable error code"`
	Message string `json:"message" doc:"Human-readable error message"`
	Details any    `json:"errors,omitempty" doc:"Per-field validation messages"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// GetStatus implements huma.StatusError.
func (e *APIError) GetStatus() int {
	return e.status
}

// ContentType returns the content type for the error response.
func (e *APIError) ContentType(_ string) string {
	return "application/json"
}

// RegisterErrorHandler makes huma render every error as an APIError.
// Call this after creating the huma.API but before registering routes.
// Server errors are logged with their cause; clients only see a generic message.
func RegisterErrorHandler(logger *slog.Logger) {
	huma.NewError = func(status int, message string, errs ...error) huma.StatusError {
		for _, err := range errs {
			if apiErr := fromDomainError(err); apiErr != nil {
				if apiErr.status >= http.StatusInternalServerError && logger != nil {
					logger.Error("request failed", "error", err)
				}
				return apiErr
			}
		}

		if details := fieldDetails(errs); len(details) > 0 {
			return &APIError{
				status:  status,
				Code:    string(domainerrors.CodeValidation),
				Message: firstMessage(message, details),
				Details: details,
			}
		}

		if status >= http.StatusInternalServerError {
			if logger != nil {
				logger.Error("request failed", "status", status, "error", errors.Join(errs...))
			}
			message = "Server Error."
		}

		return &APIError{
			status:  status,
			Code:    statusToCode(status),
			Message: message,
		}
	}
}

// fromDomainError converts domain and store errors. Returns nil for anything else.
func fromDomainError(err error) *APIError {
	var domainErr *domainerrors.Error
	if errors.As(err, &domainErr) {
		return &APIError{
			status:  domainErr.HTTPStatus(),
			Code:    string(domainErr.Code),
			Message: domainErr.Message,
			Details: domainErr.Details,
		}
	}

	switch {
	case errors.Is(err, store.ErrNotFound):
		return fromDomainError(domainerrors.NotFound("Not found."))
	case errors.Is(err, store.ErrAlreadyExists):
		return fromDomainError(validation.Taken(store.FieldOf(err)))
	case errors.Is(err, store.ErrInvalidReference):
		return fromDomainError(validation.Missing(store.FieldOf(err)))
	}
	return nil
}

// fieldDetails collects huma's schema validation failures into a
// field -> message map. "body.year" is reported as "year".
func fieldDetails(errs []error) map[string]string {
	details := make(map[string]string)
	for _, err := range errs {
		var detail *huma.ErrorDetail
		if !errors.As(err, &detail) {
			continue
		}
		field := detail.Location
		if _, rest, ok := strings.Cut(field, "."); ok {
			field = rest
		}
		if field == "" {
			field = "body"
		}
		if _, seen := details[field]; !seen {
			details[field] = detail.Message
		}
	}
	return details
}

func firstMessage(fallback string, details map[string]string) string {
	if len(details) == 1 {
		for field, msg := range details {
			return "The " + strings.ReplaceAll(field, "_", " ") + " field is invalid: " + msg
		}
	}
	return fallback
}

// statusToCode maps HTTP status codes to our domain error codes.
func statusToCode(status int) string {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return string(domainerrors.CodeValidation)
	case http.StatusUnauthorized:
		return string(domainerrors.CodeUnauthorized)
	case http.StatusForbidden:
		return string(domainerrors.CodeForbidden)
	case http.StatusNotFound:
		return string(domainerrors.CodeNotFound)
	case http.StatusTooManyRequests:
		return string(domainerrors.CodeRateLimited)
	default:
		if status < http.StatusInternalServerError {
			return string(domainerrors.CodeValidation)
		}
		return string(domainerrors.CodeInternal)
	}
}
