package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/listenupapp/catalog-server/internal/domain"
	"github.com/listenupapp/catalog-server/internal/normalize"
	"github.com/listenupapp/catalog-server/internal/store"
)

// bookSelect loads books with their author attached in the same query.
// Must match the scan order in scanBook.
const bookSelect = `SELECT
	b.id, b.created_at, b.updated_at, b.title, b.author_id, b.isbn, b.genre, b.publisher, b.year,
	a.id, a.created_at, a.updated_at, a.name, a.email, a.bio
	FROM books b LEFT JOIN authors a ON a.id = b.author_id`

func scanBook(row scanner) (*domain.Book, error) {
	var (
		b         domain.Book
		createdAt string
		updatedAt string
		authorID  sql.NullString

		aID        sql.NullString
		aCreatedAt sql.NullString
		aUpdatedAt sql.NullString
		aName      sql.NullString
		aEmail     sql.NullString
		aBio       sql.NullString
	)

	err := row.Scan(
		&b.ID, &createdAt, &updatedAt, &b.Title, &authorID, &b.ISBN, &b.Genre, &b.Publisher, &b.Year,
		&aID, &aCreatedAt, &aUpdatedAt, &aName, &aEmail, &aBio,
	)
	if err != nil {
		return nil, err
	}

	if b.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if b.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	b.AuthorID = stringPtr(authorID)

	if aID.Valid {
		a := &domain.Author{Name: aName.String, Email: aEmail.String, Bio: stringPtr(aBio)}
		a.ID = aID.String
		if a.CreatedAt, err = parseTime(aCreatedAt.String); err != nil {
			return nil, err
		}
		if a.UpdatedAt, err = parseTime(aUpdatedAt.String); err != nil {
			return nil, err
		}
		b.Author = a
	}

	return &b, nil
}

func scanBooks(rows *sql.Rows) ([]domain.Book, error) {
	defer rows.Close()

	books := []domain.Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, *b)
	}
	return books, rows.Err()
}

// CreateBook inserts a new book and indexes it.
// Returns store.ErrAlreadyExists with Field "title" or "isbn" on duplicates and
// store.ErrInvalidReference with Field "author_id" for a missing author.
func (s *Store) CreateBook(ctx context.Context, book *domain.Book) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO books (id, created_at, updated_at, title, title_key, author_id, isbn, genre, publisher, year)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		book.ID,
		formatTime(book.CreatedAt),
		formatTime(book.UpdatedAt),
		book.Title,
		normalize.Key(book.Title),
		nullableString(book.AuthorID),
		book.ISBN,
		book.Genre,
		book.Publisher,
		book.Year,
	)
	if err != nil {
		return translateError(err, "author_id")
	}

	s.refreshIndex(ctx, book.ID)
	return nil
}

// GetBook retrieves a book with its author.
// Returns store.ErrNotFound if the book does not exist.
func (s *Store) GetBook(ctx context.Context, id string) (*domain.Book, error) {
	row := s.db.QueryRowContext(ctx, bookSelect+` WHERE b.id = ?`, id)

	b, err := scanBook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return b, err
}

// GetBooksByIDs retrieves books in the order of ids, skipping unknown ids.
func (s *Store) GetBooksByIDs(ctx context.Context, ids []string) ([]domain.Book, error) {
	if len(ids) == 0 {
		return []domain.Book{}, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx, bookSelect+` WHERE b.id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, err
	}
	found, err := scanBooks(rows)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]domain.Book, len(found))
	for _, b := range found {
		byID[b.ID] = b
	}
	ordered := make([]domain.Book, 0, len(found))
	for _, id := range ids {
		if b, ok := byID[id]; ok {
			ordered = append(ordered, b)
		}
	}
	return ordered, nil
}

// UpdateBook rewrites a book's mutable fields and reindexes it.
func (s *Store) UpdateBook(ctx context.Context, book *domain.Book) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE books SET updated_at = ?, title = ?, title_key = ?, author_id = ?,
			isbn = ?, genre = ?, publisher = ?, year = ?
		WHERE id = ?`,
		formatTime(book.UpdatedAt),
		book.Title,
		normalize.Key(book.Title),
		nullableString(book.AuthorID),
		book.ISBN,
		book.Genre,
		book.Publisher,
		book.Year,
		book.ID,
	)
	if err != nil {
		return translateError(err, "author_id")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}

	s.refreshIndex(ctx, book.ID)
	return nil
}

// DeleteBook removes a book and its search document.
func (s *Store) DeleteBook(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, id)
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

	if err := s.searchIndexer.DeleteBook(ctx, id); err != nil {
		s.logger.WarnContext(ctx, "failed to remove book from search index", "book_id", id, "error", err)
	}
	return nil
}

// bookWhere builds the WHERE clause for a filter.
func bookWhere(f store.BookFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.AuthorName != "" {
		conds = append(conds, "a.name_key = ?")
		args = append(args, normalize.Key(f.AuthorName))
	}
	if f.AuthorID != "" {
		conds = append(conds, "b.author_id = ?")
		args = append(args, f.AuthorID)
	}
	if f.Publisher != "" {
		conds = append(conds, "b.publisher = ?")
		args = append(args, f.Publisher)
	}
	if f.Year != 0 {
		conds = append(conds, "b.year = ?")
		args = append(args, f.Year)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// ListBooks returns one page of books matching the filter, in insertion order.
func (s *Store) ListBooks(ctx context.Context, filter store.BookFilter, params store.PageParams) (*store.Page[domain.Book], error) {
	params.Validate()
	where, args := bookWhere(filter)

	total, err := s.count(ctx,
		`SELECT COUNT(*) FROM books b LEFT JOIN authors a ON a.id = b.author_id`+where, args...)
	if err != nil {
		return nil, fmt.Errorf("count books: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		bookSelect+where+` ORDER BY b.rowid LIMIT ? OFFSET ?`,
		append(args, params.PerPage, params.Offset())...)
	if err != nil {
		return nil, err
	}
	books, err := scanBooks(rows)
	if err != nil {
		return nil, err
	}

	return store.NewPage(books, params, total), nil
}

// ListBooksByAuthor returns every book of an author in insertion order.
func (s *Store) ListBooksByAuthor(ctx context.Context, authorID string) ([]domain.Book, error) {
	rows, err := s.db.QueryContext(ctx, bookSelect+` WHERE b.author_id = ? ORDER BY b.rowid`, authorID)
	if err != nil {
		return nil, err
	}
	return scanBooks(rows)
}

// AllBooks returns an iterator over every book in insertion order.
func (s *Store) AllBooks(ctx context.Context) iter.Seq2[*domain.Book, error] {
	return func(yield func(*domain.Book, error) bool) {
		rows, err := s.db.QueryContext(ctx, bookSelect+` ORDER BY b.rowid`)
		if err != nil {
			yield(nil, err)
			return
		}
		defer rows.Close()

		for rows.Next() {
			if ctx.Err() != nil {
				yield(nil, ctx.Err())
				return
			}

			b, err := scanBook(rows)
			if !yield(b, err) {
				return
			}
		}

		if err := rows.Err(); err != nil {
			yield(nil, err)
		}
	}
}

// CountBooks returns the number of books.
func (s *Store) CountBooks(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM books`)
}

// refreshIndex reloads a book with its author and indexes it.
func (s *Store) refreshIndex(ctx context.Context, id string) {
	b, err := s.GetBook(ctx, id)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to load book for indexing", "book_id", id, "error", err)
		return
	}
	s.indexBook(ctx, b)
}

func (s *Store) indexBook(ctx context.Context, b *domain.Book) {
	if err := s.searchIndexer.IndexBook(ctx, b); err != nil {
		s.logger.WarnContext(ctx, "failed to index book", "book_id", b.ID, "error", err)
	}
}
