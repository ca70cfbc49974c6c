// Package service holds the catalog's business logic: authentication, the
// authorization policy checks, validation and CRUD over books and authors.
package service

import (
	"fmt"

	domainerrors "github.com/listenupapp/catalog-server/internal/errors"
	"github.com/listenupapp/catalog-server/internal/store"
	"github.com/listenupapp/catalog-server/internal/validation"
)

// storeError maps storage sentinels to domain errors.
// notFound is the message used when the row does not exist.
func storeError(err error, notFound, op string) error {
	switch {
	case err == nil:
		return nil
	case domainerrors.Is(err, store.ErrNotFound):
		return domainerrors.NotFound(notFound).WithCause(err)
	case domainerrors.Is(err, store.ErrAlreadyExists):
		return validation.Taken(store.FieldOf(err)).WithCause(err)
	case domainerrors.Is(err, store.ErrInvalidReference):
		return validation.Missing(store.FieldOf(err)).WithCause(err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

// mapString applies fn to an optional string, keeping nil as nil.
func mapString(p *string, fn func(string) string) *string {
	if p == nil {
		return nil
	}
	v := fn(*p)
	return &v
}
