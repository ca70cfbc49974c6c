package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/listenupapp/catalog-server/internal/domain"
	"github.com/listenupapp/catalog-server/internal/normalize"
	"github.com/listenupapp/catalog-server/internal/store"
)

const authorColumns = `id, created_at, updated_at, name, email, bio`

func scanAuthor(row scanner) (*domain.Author, error) {
	var (
		a         domain.Author
		createdAt string
		updatedAt string
		bio       sql.NullString
	)

	err := row.Scan(&a.ID, &createdAt, &updatedAt, &a.Name, &a.Email, &bio)
	if err != nil {
		return nil, err
	}

	if a.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if a.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	a.Bio = stringPtr(bio)

	return &a, nil
}

// CreateAuthor inserts a new author.
// Returns store.ErrAlreadyExists with Field "name" if the name is taken.
func (s *Store) CreateAuthor(ctx context.Context, author *domain.Author) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO authors (id, created_at, updated_at, name, name_key, email, bio)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		author.ID,
		formatTime(author.CreatedAt),
		formatTime(author.UpdatedAt),
		author.Name,
		normalize.Key(author.Name),
		author.Email,
		nullableString(author.Bio),
	)
	return translateError(err, "")
}

// GetAuthor retrieves an author by ID, without books.
// Returns store.ErrNotFound if the author does not exist.
func (s *Store) GetAuthor(ctx context.Context, id string) (*domain.Author, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+authorColumns+` FROM authors WHERE id = ?`, id)

	a, err := scanAuthor(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return a, err
}

// GetAuthorByName retrieves an author by normalized name.
// Returns store.ErrNotFound if no author has that name.
func (s *Store) GetAuthorByName(ctx context.Context, name string) (*domain.Author, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+authorColumns+` FROM authors WHERE name_key = ?`, normalize.Key(name))

	a, err := scanAuthor(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return a, err
}

// UpdateAuthor rewrites an author's mutable fields and reindexes its books,
// whose search documents carry the author name.
func (s *Store) UpdateAuthor(ctx context.Context, author *domain.Author) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE authors SET updated_at = ?, name = ?, name_key = ?, email = ?, bio = ?
		WHERE id = ?`,
		formatTime(author.UpdatedAt),
		author.Name,
		normalize.Key(author.Name),
		author.Email,
		nullableString(author.Bio),
		author.ID,
	)
	if err != nil {
		return translateError(err, "")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}

	s.reindexAuthorBooks(ctx, author.ID)
	return nil
}

// DeleteAuthor removes an author. Its books remain with author_id set to NULL
// and are reindexed without an author.
func (s *Store) DeleteAuthor(ctx context.Context, id string) error {
	books, err := s.ListBooksByAuthor(ctx, id)
	if err != nil {
		return fmt.Errorf("list author books: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM authors WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}

	for i := range books {
		books[i].AuthorID = nil
		books[i].Author = nil
		s.indexBook(ctx, &books[i])
	}
	return nil
}

// ListAuthors returns one page of authors in insertion order.
func (s *Store) ListAuthors(ctx context.Context, params store.PageParams) (*store.Page[domain.Author], error) {
	params.Validate()

	total, err := s.CountAuthors(ctx)
	if err != nil {
		return nil, fmt.Errorf("count authors: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+authorColumns+` FROM authors ORDER BY rowid LIMIT ? OFFSET ?`,
		params.PerPage, params.Offset())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	authors := make([]domain.Author, 0, params.PerPage)
	for rows.Next() {
		a, err := scanAuthor(rows)
		if err != nil {
			return nil, err
		}
		authors = append(authors, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return store.NewPage(authors, params, total), nil
}

// CountAuthors returns the number of authors.
func (s *Store) CountAuthors(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM authors`)
}

func (s *Store) reindexAuthorBooks(ctx context.Context, authorID string) {
	books, err := s.ListBooksByAuthor(ctx, authorID)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to load author books for reindex", "author_id", authorID, "error", err)
		return
	}
	for i := range books {
		s.indexBook(ctx, &books[i])
	}
}
