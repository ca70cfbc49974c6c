package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/listenupapp/catalog-server/internal/domain"
	"github.com/listenupapp/catalog-server/internal/service"
	"github.com/listenupapp/catalog-server/internal/store"
)

func (s *Server) registerBookRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listBooks",
		Method:      http.MethodGet,
		Path:        "/books",
		Summary:     "List books",
		Description: "Returns books in insertion order, 10 per page, optionally filtered",
		Tags:        []string{"Books"},
	}, s.handleListBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchBooks",
		Method:      http.MethodGet,
		Path:        "/books/search",
		Summary:     "Search books",
		Description: "Full-text search over title and author, best match first, optionally filtered by genre and year",
		Tags:        []string{"Books"},
	}, s.handleSearchBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBook",
		Method:      http.MethodGet,
		Path:        "/books/{id}",
		Summary:     "Get book",
		Description: "Returns a book with its author",
		Tags:        []string{"Books"},
	}, s.handleGetBook)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createBook",
		Method:        http.MethodPost,
		Path:          "/books",
		Summary:       "Create book",
		Description:   "Adds a book. The author is given by name and must exist.",
		Tags:          []string{"Books"},
		Security:      bearerSecurity,
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateBook)

	// PUT and PATCH share partial update semantics.
	for _, method := range []string{http.MethodPut, http.MethodPatch} {
		huma.Register(s.api, huma.Operation{
			OperationID: "updateBook" + method,
			Method:      method,
			Path:        "/books/{id}",
			Summary:     "Update book",
			Description: "Updates the fields present in the body. Admin only.",
			Tags:        []string{"Books"},
			Security:    bearerSecurity,
		}, s.handleUpdateBook)
	}

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteBook",
		Method:        http.MethodDelete,
		Path:          "/books/{id}",
		Summary:       "Delete book",
		Description:   "Deletes a book. Admin only.",
		Tags:          []string{"Books"},
		Security:      bearerSecurity,
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteBook)
}

// === DTOs ===

// ListBooksInput contains the listing filters.
type ListBooksInput struct {
	Author    string `query:"author" doc:"Author name"`
	AuthorID  string `query:"author_id" doc:"Author ID"`
	Publisher string `query:"publisher" doc:"Publisher, exact match"`
	Year      int    `query:"year" doc:"Publication year"`
	Page      int    `query:"page" doc:"Page number, starting at 1"`
}

// SearchBooksInput contains the search query.
type SearchBooksInput struct {
	Query string `query:"q" doc:"Search text"`
	Genre string `query:"genre" doc:"Genre name or alias, e.g. sci-fi"`
	Year  int    `query:"year" doc:"Publication year"`
	Page  int    `query:"page" doc:"Page number, starting at 1"`
}

// BookPageOutput wraps a page of books for Huma.
type BookPageOutput struct {
	Body *store.Page[domain.Book]
}

// BookIDInput identifies a book.
type BookIDInput struct {
	ID string `path:"id" doc:"Book ID"`
}

// BookOutput wraps a book for Huma.
type BookOutput struct {
	Body *domain.Book
}

// CreateBookInput wraps the create request for Huma.
type CreateBookInput struct {
	Body *service.CreateBookRequest
}

// UpdateBookInput wraps the update request for Huma.
type UpdateBookInput struct {
	ID   string `path:"id" doc:"Book ID"`
	Body *service.UpdateBookRequest
}

// === Handlers ===

func (s *Server) handleListBooks(ctx context.Context, input *ListBooksInput) (*BookPageOutput, error) {
	page, err := s.services.Book.ListBooks(ctx, service.ListBooksParams{
		Author:    input.Author,
		AuthorID:  input.AuthorID,
		Publisher: input.Publisher,
		Year:      input.Year,
		Page:      input.Page,
	})
	if err != nil {
		return nil, err
	}
	return &BookPageOutput{Body: page}, nil
}

func (s *Server) handleSearchBooks(ctx context.Context, input *SearchBooksInput) (*BookPageOutput, error) {
	page, err := s.services.Book.SearchBooks(ctx, service.SearchBooksParams{
		Query: input.Query,
		Genre: input.Genre,
		Year:  input.Year,
		Page:  input.Page,
	})
	if err != nil {
		return nil, err
	}
	return &BookPageOutput{Body: page}, nil
}

func (s *Server) handleGetBook(ctx context.Context, input *BookIDInput) (*BookOutput, error) {
	book, err := s.services.Book.GetBook(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &BookOutput{Body: book}, nil
}

func (s *Server) handleCreateBook(ctx context.Context, input *CreateBookInput) (*BookOutput, error) {
	book, err := s.services.Book.CreateBook(ctx, UserFromContext(ctx), valueOf(input.Body))
	if err != nil {
		return nil, err
	}
	return &BookOutput{Body: book}, nil
}

func (s *Server) handleUpdateBook(ctx context.Context, input *UpdateBookInput) (*BookOutput, error) {
	book, err := s.services.Book.UpdateBook(ctx, UserFromContext(ctx), input.ID, valueOf(input.Body))
	if err != nil {
		return nil, err
	}
	return &BookOutput{Body: book}, nil
}

func (s *Server) handleDeleteBook(ctx context.Context, input *BookIDInput) (*struct{}, error) {
	if err := s.services.Book.DeleteBook(ctx, UserFromContext(ctx), input.ID); err != nil {
		return nil, err
	}
	return nil, nil
}
