// Package store defines the persistence interfaces for the catalog server.
package store

import (
	"context"
	"iter"
	"time"

	"github.com/listenupapp/catalog-server/internal/domain"
)

// UserStore persists user accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	// GetUserByEmail matches case-insensitively.
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	DeleteUser(ctx context.Context, id string) error
	CountUsers(ctx context.Context) (int, error)
}

// TokenStore persists issued bearer tokens.
type TokenStore interface {
	CreateToken(ctx context.Context, token *domain.AccessToken) error
	GetToken(ctx context.Context, id string) (*domain.AccessToken, error)
	// RevokeToken marks the token revoked at the given time.
	// It reports false when the token was already revoked.
	RevokeToken(ctx context.Context, id string, at time.Time) (bool, error)
}

// AuthorStore persists authors.
type AuthorStore interface {
	CreateAuthor(ctx context.Context, author *domain.Author) error
	GetAuthor(ctx context.Context, id string) (*domain.Author, error)
	// GetAuthorByName matches on the normalized name key.
	GetAuthorByName(ctx context.Context, name string) (*domain.Author, error)
	UpdateAuthor(ctx context.Context, author *domain.Author) error
	// DeleteAuthor removes the author; its books keep existing with no author.
	DeleteAuthor(ctx context.Context, id string) error
	ListAuthors(ctx context.Context, params PageParams) (*Page[domain.Author], error)
	CountAuthors(ctx context.Context) (int, error)
}

// BookFilter narrows a book listing. Zero fields are ignored.
type BookFilter struct {
	AuthorName string
	AuthorID   string
	Publisher  string
	Year       int
}

// BookStore persists books. Books are returned with their author attached.
type BookStore interface {
	CreateBook(ctx context.Context, book *domain.Book) error
	GetBook(ctx context.Context, id string) (*domain.Book, error)
	GetBooksByIDs(ctx context.Context, ids []string) ([]domain.Book, error)
	UpdateBook(ctx context.Context, book *domain.Book) error
	DeleteBook(ctx context.Context, id string) error
	ListBooks(ctx context.Context, filter BookFilter, params PageParams) (*Page[domain.Book], error)
	ListBooksByAuthor(ctx context.Context, authorID string) ([]domain.Book, error)
	// AllBooks streams every book in insertion order.
	AllBooks(ctx context.Context) iter.Seq2[*domain.Book, error]
	CountBooks(ctx context.Context) (int, error)
}

// Store is the full persistence surface.
type Store interface {
	UserStore
	TokenStore
	AuthorStore
	BookStore

	SetSearchIndexer(indexer SearchIndexer)
	Close() error
}

// SearchIndexer keeps the search index in step with book writes.
// The store calls it after each committed change; index failures are logged
// and never fail the write.
type SearchIndexer interface {
	IndexBook(ctx context.Context, book *domain.Book) error
	DeleteBook(ctx context.Context, bookID string) error
}

// NoopSearchIndexer is used when search is disabled.
type NoopSearchIndexer struct{}

// IndexBook is a no-op.
func (NoopSearchIndexer) IndexBook(context.Context, *domain.Book) error { return nil }

// DeleteBook is a no-op.
func (NoopSearchIndexer) DeleteBook(context.Context, string) error { return nil }

// NewNoopSearchIndexer creates a no-op search indexer.
func NewNoopSearchIndexer() SearchIndexer {
	return NoopSearchIndexer{}
}
