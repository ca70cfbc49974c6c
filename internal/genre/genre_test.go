package genre

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Science Fiction", "science-fiction"},
		{"LitRPG", "litrpg"},
		{"Sci-Fi/Fantasy", "sci-fi-fantasy"},
		{"  Mystery &  Thriller ", "mystery-thriller"},
		{"Fantasía", "fantasia"},
		{"🐉 Dragons!", "dragons"},
		{"--", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.input))
		})
	}
}

func TestCanonical(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Sci-Fi", "science-fiction"},
		{"SF", "science-fiction"},
		{"science fiction", "science-fiction"},
		{"YA", "young-adult"},
		{"Suspense", "thriller"},
		{"Non Fiction", "non-fiction"},
		{"Nonfiction", "non-fiction"},
		{"Romance", "romance"},
		{"Space Opera", "space-opera"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, Canonical(tt.input))
		})
	}
}
