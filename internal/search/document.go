// Package search provides full-text search over the book catalog using Bleve.
package search

import (
	"github.com/listenupapp/catalog-server/internal/domain"
	"github.com/listenupapp/catalog-server/internal/genre"
)

// BookDocument is the indexed form of a book.
//
// The author name is denormalized into the document so a single query
// matches both titles and authors.
type BookDocument struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Author    string `json:"author,omitempty"`
	AuthorID  string `json:"author_id,omitempty"`
	Genre     string `json:"genre,omitempty"`
	Publisher string `json:"publisher,omitempty"`
	ISBN      string `json:"isbn,omitempty"`
	Year      int    `json:"year,omitempty"`

	CreatedAt int64 `json:"created_at"` // Unix millis
	UpdatedAt int64 `json:"updated_at"` // Unix millis
}

// ToMap converts the document to a map keyed by the mapping's field names.
// Bleve would otherwise use the capitalized Go field names.
func (d *BookDocument) ToMap() map[string]any {
	m := map[string]any{
		"id":         d.ID,
		"title":      d.Title,
		"created_at": d.CreatedAt,
		"updated_at": d.UpdatedAt,
	}

	if d.Author != "" {
		m["author"] = d.Author
	}
	if d.AuthorID != "" {
		m["author_id"] = d.AuthorID
	}
	if d.Genre != "" {
		m["genre"] = d.Genre
	}
	if d.Publisher != "" {
		m["publisher"] = d.Publisher
	}
	if d.ISBN != "" {
		m["isbn"] = d.ISBN
	}
	if d.Year > 0 {
		m["year"] = d.Year
	}

	return m
}

// NewBookDocument converts a book to its search document.
// The book's Author must be attached for the author name to be searchable.
func NewBookDocument(book *domain.Book) *BookDocument {
	doc := &BookDocument{
		ID:        book.ID,
		Title:     book.Title,
		Author:    book.AuthorName(),
		Genre:     genre.Canonical(book.Genre),
		Publisher: book.Publisher,
		ISBN:      book.ISBN,
		Year:      book.Year,
		CreatedAt: book.CreatedAt.UnixMilli(),
		UpdatedAt: book.UpdatedAt.UnixMilli(),
	}
	if book.AuthorID != nil {
		doc.AuthorID = *book.AuthorID
	}
	return doc
}
