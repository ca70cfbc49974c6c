// Package genre derives canonical genre slugs so that spelling variants of a
// genre filter and facet together in search.
package genre

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Matches any run of non-alphanumeric characters.
var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// aliases maps common variations to a canonical slug. Keys are slugs.
var aliases = map[string]string{
	// Science fiction
	"sci-fi":         "science-fiction",
	"scifi":          "science-fiction",
	"sf":             "science-fiction",
	"sci-fi-fantasy": "science-fiction-fantasy",

	// Fantasy
	"high-fantasy":     "epic-fantasy",
	"s-s":              "sword-and-sorcery",
	"sword-sorcery":    "sword-and-sorcery",
	"romantic-fantasy": "romantasy",

	// Young adult
	"ya":   "young-adult",
	"teen": "young-adult",

	// Mystery and thriller
	"suspense":         "thriller",
	"crime":            "mystery",

	// Non-fiction
	"nonfiction":           "non-fiction",
	"selfhelp":             "self-help",
	"personal-development": "self-help",
	"biographies-memoirs":  "biography-memoir",
	"biography":            "biography-memoir",
	"memoir":               "biography-memoir",

	// LitRPG
	"lit-rpg": "litrpg",
	"gamelit": "litrpg",

	// Romance
	"modern-romance": "contemporary-romance",
	"pnr":            "paranormal-romance",

	// Historical
	"historical": "historical-fiction",

	// Classics
	"classic":            "classics",
	"literature-fiction": "fiction",
	"literature":         "fiction",
}

// Slugify converts a string to a URL-safe slug.
// "Science Fiction" -> "science-fiction".
// "Sci-Fi/Fantasy" -> "sci-fi-fantasy".
// Accented letters lose their marks; other non-ASCII runes are dropped.
func Slugify(s string) string {
	s = norm.NFKD.String(s)

	s = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, s)

	s = strings.ToLower(s)
	s = nonAlphanumeric.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Canonical returns the canonical slug for a raw genre name.
// Unknown genres keep their own slug.
func Canonical(raw string) string {
	slug := Slugify(raw)
	if canonical, ok := aliases[slug]; ok {
		return canonical
	}
	return slug
}
