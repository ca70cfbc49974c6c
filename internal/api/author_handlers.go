package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/listenupapp/catalog-server/internal/domain"
	"github.com/listenupapp/catalog-server/internal/service"
	"github.com/listenupapp/catalog-server/internal/store"
)

func (s *Server) registerAuthorRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listAuthors",
		Method:      http.MethodGet,
		Path:        "/authors",
		Summary:     "List authors",
		Description: "Returns authors in insertion order, 10 per page",
		Tags:        []string{"Authors"},
	}, s.handleListAuthors)

	huma.Register(s.api, huma.Operation{
		OperationID: "getAuthor",
		Method:      http.MethodGet,
		Path:        "/authors/{id}",
		Summary:     "Get author",
		Description: "Returns an author with their books",
		Tags:        []string{"Authors"},
	}, s.handleGetAuthor)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createAuthor",
		Method:        http.MethodPost,
		Path:          "/authors",
		Summary:       "Create author",
		Tags:          []string{"Authors"},
		Security:      bearerSecurity,
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateAuthor)

	for _, method := range []string{http.MethodPut, http.MethodPatch} {
		huma.Register(s.api, huma.Operation{
			OperationID: "updateAuthor" + method,
			Method:      method,
			Path:        "/authors/{id}",
			Summary:     "Update author",
			Description: "Replaces the author's name, email and bio",
			Tags:        []string{"Authors"},
			Security:    bearerSecurity,
		}, s.handleUpdateAuthor)
	}

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteAuthor",
		Method:        http.MethodDelete,
		Path:          "/authors/{id}",
		Summary:       "Delete author",
		Description:   "Deletes an author; their books remain without an author. Admin only.",
		Tags:          []string{"Authors"},
		Security:      bearerSecurity,
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteAuthor)
}

// === DTOs ===

// ListAuthorsInput selects a page.
type ListAuthorsInput struct {
	Page int `query:"page" doc:"Page number, starting at 1"`
}

// AuthorPageOutput wraps a page of authors for Huma.
type AuthorPageOutput struct {
	Body *store.Page[domain.Author]
}

// AuthorIDInput identifies an author.
type AuthorIDInput struct {
	ID string `path:"id" doc:"Author ID"`
}

// AuthorOutput wraps an author for Huma.
type AuthorOutput struct {
	Body *domain.Author
}

// CreateAuthorInput wraps the create request for Huma.
type CreateAuthorInput struct {
	Body *service.AuthorRequest
}

// UpdateAuthorInput wraps the update request for Huma.
type UpdateAuthorInput struct {
	ID   string `path:"id" doc:"Author ID"`
	Body *service.AuthorRequest
}

// === Handlers ===

func (s *Server) handleListAuthors(ctx context.Context, input *ListAuthorsInput) (*AuthorPageOutput, error) {
	page, err := s.services.Author.ListAuthors(ctx, input.Page)
	if err != nil {
		return nil, err
	}
	return &AuthorPageOutput{Body: page}, nil
}

func (s *Server) handleGetAuthor(ctx context.Context, input *AuthorIDInput) (*AuthorOutput, error) {
	author, err := s.services.Author.GetAuthor(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &AuthorOutput{Body: author}, nil
}

func (s *Server) handleCreateAuthor(ctx context.Context, input *CreateAuthorInput) (*AuthorOutput, error) {
	author, err := s.services.Author.CreateAuthor(ctx, UserFromContext(ctx), valueOf(input.Body))
	if err != nil {
		return nil, err
	}
	return &AuthorOutput{Body: author}, nil
}

func (s *Server) handleUpdateAuthor(ctx context.Context, input *UpdateAuthorInput) (*AuthorOutput, error) {
	author, err := s.services.Author.UpdateAuthor(ctx, UserFromContext(ctx), input.ID, valueOf(input.Body))
	if err != nil {
		return nil, err
	}
	return &AuthorOutput{Body: author}, nil
}

func (s *Server) handleDeleteAuthor(ctx context.Context, input *AuthorIDInput) (*struct{}, error) {
	if err := s.services.Author.DeleteAuthor(ctx, UserFromContext(ctx), input.ID); err != nil {
		return nil, err
	}
	return nil, nil
}
