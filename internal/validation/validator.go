// Package validation provides request validation utilities using the validator/v10 library.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	domainerrors "github.com/listenupapp/catalog-server/internal/errors"
)

// Validator wraps go-playground/validator with domain error conversion.
type Validator struct {
	v *validator.Validate
}

// New creates a validator configured for our domain.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Use JSON tag names in error messages.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		switch name {
		case "":
			return fld.Name
		case "-":
			return ""
		}
		return name
	})

	return &Validator{v: v}
}

// Validate validates a struct and returns a domain validation error whose
// details map each offending field to a message.
func (v *Validator) Validate(s any) error {
	if err := v.v.Struct(s); err != nil {
		return v.formatError(err)
	}
	return nil
}

// formatError converts validator errors to domain errors.
// The top-level message is the first field's message, with a count of the rest.
func (v *Validator) formatError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	fieldErrors := make(map[string]string, len(validationErrs))
	var first string
	for _, e := range validationErrs {
		if _, seen := fieldErrors[e.Field()]; seen {
			continue
		}
		msg := Message(e.Field(), e.Tag(), e.Param())
		fieldErrors[e.Field()] = msg
		if first == "" {
			first = msg
		}
	}

	summary := first
	if extra := len(fieldErrors) - 1; extra == 1 {
		summary += " (and 1 more error)"
	} else if extra > 1 {
		summary += fmt.Sprintf(" (and %d more errors)", extra)
	}

	return domainerrors.ValidationWithDetails(summary, fieldErrors)
}

// Message renders the human readable message for a failed rule on a field.
func Message(field, tag, param string) string {
	field = strings.ReplaceAll(field, "_", " ")
	switch tag {
	case "required":
		return fmt.Sprintf("The %s field is required.", field)
	case "email":
		return fmt.Sprintf("The %s field must be a valid email address.", field)
	case "min":
		return fmt.Sprintf("The %s field must be at least %s characters.", field, param)
	case "max":
		return fmt.Sprintf("The %s field must not be greater than %s characters.", field, param)
	case "gte":
		return fmt.Sprintf("The %s field must be greater than or equal to %s.", field, param)
	case "lte":
		return fmt.Sprintf("The %s field must be less than or equal to %s.", field, param)
	case "oneof":
		return fmt.Sprintf("The %s field must be one of: %s.", field, param)
	case "unique":
		return fmt.Sprintf("The %s has already been taken.", field)
	case "exists":
		return fmt.Sprintf("The selected %s is invalid.", field)
	default:
		return fmt.Sprintf("The %s field is invalid.", field)
	}
}

// Taken returns the domain error for a uniqueness violation on field.
func Taken(field string) *domainerrors.Error {
	return domainerrors.FieldInvalid(field, Message(field, "unique", ""))
}

// Missing returns the domain error for a reference to a row that does not exist.
func Missing(field string) *domainerrors.Error {
	return domainerrors.FieldInvalid(field, Message(field, "exists", ""))
}
