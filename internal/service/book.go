package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/listenupapp/catalog-server/internal/domain"
	domainerrors "github.com/listenupapp/catalog-server/internal/errors"
	"github.com/listenupapp/catalog-server/internal/id"
	"github.com/listenupapp/catalog-server/internal/normalize"
	"github.com/listenupapp/catalog-server/internal/policy"
	"github.com/listenupapp/catalog-server/internal/search"
	"github.com/listenupapp/catalog-server/internal/store"
	"github.com/listenupapp/catalog-server/internal/validation"
)

const bookNotFound = "Book not found."

// BookSearcher runs full-text queries over books. *search.SearchIndex implements it.
type BookSearcher interface {
	Search(ctx context.Context, params search.SearchParams) (*search.SearchResult, error)
}

// BookService orchestrates book operations.
type BookService struct {
	store     store.Store
	searcher  BookSearcher
	validator *validation.Validator
	logger    *slog.Logger
}

// NewBookService creates a new book service. searcher may be nil when search
// is disabled.
func NewBookService(store store.Store, searcher BookSearcher, validator *validation.Validator, logger *slog.Logger) *BookService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &BookService{
		store:     store,
		searcher:  searcher,
		validator: validator,
		logger:    logger,
	}
}

// ListBooksParams filters a book listing. Zero fields are ignored.
type ListBooksParams struct {
	Author    string // author name
	AuthorID  string
	Publisher string
	Year      int
	Page      int
}

// CreateBookRequest is the body for adding a book.
// Author names an existing author.
type CreateBookRequest struct {
	_         struct{} `json:"-" additionalProperties:"true"`
	Title     string   `json:"title,omitempty" validate:"required,max=255"`
	Author    string   `json:"author,omitempty" validate:"required,max=255"`
	ISBN      string   `json:"isbn,omitempty" validate:"required,min=20,max=255"`
	Genre     string   `json:"genre,omitempty" validate:"required,max=255"`
	Publisher string   `json:"publisher,omitempty" validate:"required,max=255"`
	Year      int      `json:"year,omitempty" validate:"required"`
}

// UpdateBookRequest is a partial update; only non-nil fields are validated
// and applied.
type UpdateBookRequest struct {
	_         struct{} `json:"-" additionalProperties:"true"`
	Title     *string  `json:"title,omitempty" validate:"omitnil,required,max=255"`
	ISBN      *string  `json:"isbn,omitempty" validate:"omitnil,required,min=20,max=255"`
	AuthorID  *string  `json:"author_id,omitempty" validate:"omitnil,required"`
	Genre     *string  `json:"genre,omitempty" validate:"omitnil,required,max=255"`
	Publisher *string  `json:"publisher,omitempty" validate:"omitnil,required,max=255"`
	Year      *int     `json:"year,omitempty" validate:"omitnil,required"`
}

// normalized returns the request as it will be stored, so validation sees
// trimmed values.
func (r CreateBookRequest) normalized() CreateBookRequest {
	r.Title = normalize.Text(r.Title)
	r.Author = normalize.Text(r.Author)
	r.ISBN = strings.TrimSpace(r.ISBN)
	r.Genre = normalize.Text(r.Genre)
	r.Publisher = normalize.Text(r.Publisher)
	return r
}

func (r UpdateBookRequest) normalized() UpdateBookRequest {
	r.Title = mapString(r.Title, normalize.Text)
	r.ISBN = mapString(r.ISBN, strings.TrimSpace)
	r.AuthorID = mapString(r.AuthorID, strings.TrimSpace)
	r.Genre = mapString(r.Genre, normalize.Text)
	r.Publisher = mapString(r.Publisher, normalize.Text)
	return r
}

// ListBooks returns one page of books in insertion order with authors attached.
func (s *BookService) ListBooks(ctx context.Context, params ListBooksParams) (*store.Page[domain.Book], error) {
	filter := store.BookFilter{
		AuthorName: strings.TrimSpace(params.Author),
		AuthorID:   strings.TrimSpace(params.AuthorID),
		Publisher:  normalize.Text(params.Publisher),
		Year:       params.Year,
	}

	result, err := s.store.ListBooks(ctx, filter, store.PageParams{Page: params.Page})
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return result, nil
}

// GetBook returns a book with its author.
func (s *BookService) GetBook(ctx context.Context, bookID string) (*domain.Book, error) {
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return nil, storeError(err, bookNotFound, "get book")
	}
	return book, nil
}

// SearchBooksParams is a full-text query with optional filters.
type SearchBooksParams struct {
	Query string
	Genre string // genre name or alias
	Year  int
	Page  int
}

// SearchBooks runs a full-text query and returns the matching books, best
// match first, paginated like ListBooks.
func (s *BookService) SearchBooks(ctx context.Context, req SearchBooksParams) (*store.Page[domain.Book], error) {
	if s.searcher == nil {
		return nil, domainerrors.NotFound("Search is disabled.")
	}

	params := store.PageParams{Page: req.Page}
	params.Validate()

	result, err := s.searcher.Search(ctx, search.SearchParams{
		Query:  normalize.Text(req.Query),
		Genre:  req.Genre,
		Year:   req.Year,
		Limit:  params.PerPage,
		Offset: params.Offset(),
	})
	if err != nil {
		return nil, fmt.Errorf("search books: %w", err)
	}

	// The index may briefly hold books that were just deleted; GetBooksByIDs skips them.
	books, err := s.store.GetBooksByIDs(ctx, result.IDs())
	if err != nil {
		return nil, fmt.Errorf("load search hits: %w", err)
	}

	return store.NewPage(books, params, int(result.Total)), nil
}

// CreateBook adds a book. Any authenticated user may create books.
func (s *BookService) CreateBook(ctx context.Context, actor *domain.User, req CreateBookRequest) (*domain.Book, error) {
	if err := policy.Authorize(actor, policy.ActionCreate, policy.KindBook); err != nil {
		return nil, err
	}
	req = req.normalized()
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	author, err := s.store.GetAuthorByName(ctx, req.Author)
	if errors.Is(err, store.ErrNotFound) {
		return nil, validation.Missing("author")
	}
	if err != nil {
		return nil, fmt.Errorf("get author: %w", err)
	}

	bookID, err := id.New(id.Book)
	if err != nil {
		return nil, fmt.Errorf("generate book ID: %w", err)
	}

	book := &domain.Book{
		Title:     req.Title,
		AuthorID:  &author.ID,
		ISBN:      req.ISBN,
		Genre:     req.Genre,
		Publisher: req.Publisher,
		Year:      req.Year,
	}
	book.ID = bookID
	book.InitTimestamps()

	if err := s.store.CreateBook(ctx, book); err != nil {
		return nil, storeError(err, bookNotFound, "create book")
	}
	book.Author = author

	s.logger.InfoContext(ctx, "book created", "book_id", book.ID, "author_id", author.ID, "user_id", actor.ID)
	return book, nil
}

// UpdateBook applies a partial update. Admin only.
func (s *BookService) UpdateBook(ctx context.Context, actor *domain.User, bookID string, req UpdateBookRequest) (*domain.Book, error) {
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return nil, storeError(err, bookNotFound, "get book")
	}
	if err := policy.Authorize(actor, policy.ActionUpdate, policy.KindBook); err != nil {
		return nil, err
	}
	req = req.normalized()
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if req.AuthorID != nil {
		if _, err := s.store.GetAuthor(ctx, *req.AuthorID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, validation.Missing("author_id")
			}
			return nil, fmt.Errorf("get author: %w", err)
		}
		book.AuthorID = req.AuthorID
	}
	if req.Title != nil {
		book.Title = *req.Title
	}
	if req.ISBN != nil {
		book.ISBN = *req.ISBN
	}
	if req.Genre != nil {
		book.Genre = *req.Genre
	}
	if req.Publisher != nil {
		book.Publisher = *req.Publisher
	}
	if req.Year != nil {
		book.Year = *req.Year
	}
	book.Touch()

	if err := s.store.UpdateBook(ctx, book); err != nil {
		return nil, storeError(err, bookNotFound, "update book")
	}

	// Reload so the response carries the current author.
	updated, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return nil, storeError(err, bookNotFound, "get book")
	}

	s.logger.InfoContext(ctx, "book updated", "book_id", bookID, "user_id", actor.ID)
	return updated, nil
}

// DeleteBook removes a book. Admin only.
func (s *BookService) DeleteBook(ctx context.Context, actor *domain.User, bookID string) error {
	if _, err := s.store.GetBook(ctx, bookID); err != nil {
		return storeError(err, bookNotFound, "get book")
	}
	if err := policy.Authorize(actor, policy.ActionDelete, policy.KindBook); err != nil {
		return err
	}

	if err := s.store.DeleteBook(ctx, bookID); err != nil {
		return storeError(err, bookNotFound, "delete book")
	}

	s.logger.InfoContext(ctx, "book deleted", "book_id", bookID, "user_id", actor.ID)
	return nil
}
