// Package policy decides which users may perform which actions on catalog resources.
//
// Rules:
//
//	read                       anyone, including anonymous callers
//	create book, create author any authenticated user
//	update author              any authenticated user
//	update book                admin only
//	delete book, delete author admin only
package policy

import (
	"fmt"

	"github.com/listenupapp/catalog-server/internal/domain"
	domainerrors "github.com/listenupapp/catalog-server/internal/errors"
)

// Action is an operation on a resource.
type Action string

// Actions.
const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Kind is a resource type.
type Kind string

// Resource kinds.
const (
	KindBook   Kind = "book"
	KindAuthor Kind = "author"
)

// adminOnly lists the (action, kind) pairs that require the admin role.
var adminOnly = map[Action]map[Kind]bool{
	ActionUpdate: {KindBook: true},
	ActionDelete: {KindBook: true, KindAuthor: true},
}

// Can reports whether user may perform action on a resource of kind.
// user is nil for anonymous callers.
func Can(user *domain.User, action Action, kind Kind) bool {
	if action == ActionRead {
		return true
	}
	if user == nil {
		return false
	}
	if adminOnly[action][kind] {
		return user.IsAdmin()
	}
	return true
}

// Authorize returns nil when allowed, an unauthorized error for anonymous
// callers and a forbidden error for authenticated users who lack the role.
func Authorize(user *domain.User, action Action, kind Kind) error {
	if Can(user, action, kind) {
		return nil
	}
	if user == nil {
		return domainerrors.Unauthorized("Unauthenticated.")
	}
	return domainerrors.Forbidden("This action is unauthorized.").
		WithCause(fmt.Errorf("%s %s requires admin", action, kind))
}
