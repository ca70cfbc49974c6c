// Package id generates prefixed entity identifiers such as "book-4f9kq0z2m1xv7c3a".
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Prefix names the kind of entity an identifier belongs to.
type Prefix string

const (
	Book   Prefix = "book"
	Author Prefix = "author"
	User   Prefix = "user"
)

// Lowercase alphanumerics only, so an id survives case-insensitive
// handling and splits on its single "-".
const (
	alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	size     = 16
)

// New returns "<prefix>-<random>".
// It fails only when the system cannot supply secure randomness.
func New(prefix Prefix) (string, error) {
	suffix, err := gonanoid.Generate(alphabet, size)
	if err != nil {
		return "", fmt.Errorf("generate %s id: %w", prefix, err)
	}
	return string(prefix) + "-" + suffix, nil
}

// MustNew is New for callers that cannot continue without an id, like the seeder.
func MustNew(prefix Prefix) string {
	id, err := New(prefix)
	if err != nil {
		panic(err)
	}
	return id
}
