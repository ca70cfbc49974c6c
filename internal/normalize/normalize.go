// Package normalize cleans user supplied text and derives comparison keys
// for unique names and titles.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Text returns s with null bytes dropped, surrounding space trimmed and
// internal whitespace runs collapsed to a single space. It is the form stored
// for display.
func Text(s string) string {
	s = strings.Map(func(r rune) rune {
		if r == 0 {
			return -1
		}
		return r
	}, s)
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
}

// Key returns the uniqueness key of a name or title.
// "Dune", " dune " and the fullwidth "Ｄｕｎｅ" all share one key, so a
// UNIQUE index on the key rejects them as duplicates.
func Key(s string) string {
	return strings.ToLower(norm.NFKC.String(Text(s)))
}

// Email lowercases and trims an email address for lookup.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
