package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/listenupapp/catalog-server/internal/domain"
	"github.com/listenupapp/catalog-server/internal/id"
	"github.com/listenupapp/catalog-server/internal/normalize"
	"github.com/listenupapp/catalog-server/internal/policy"
	"github.com/listenupapp/catalog-server/internal/store"
	"github.com/listenupapp/catalog-server/internal/validation"
)

const authorNotFound = "Author not found."

// AuthorService orchestrates author operations.
type AuthorService struct {
	store     store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewAuthorService creates a new author service.
func NewAuthorService(store store.Store, validator *validation.Validator, logger *slog.Logger) *AuthorService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &AuthorService{
		store:     store,
		validator: validator,
		logger:    logger,
	}
}

// AuthorRequest is the body for creating or replacing an author.
type AuthorRequest struct {
	_     struct{} `json:"-" additionalProperties:"true"`
	Name  string   `json:"name,omitempty" validate:"required,max=255"`
	Email string   `json:"email,omitempty" validate:"required,email,max=255"`
	Bio   *string  `json:"bio,omitempty" validate:"omitnil,max=5000"`
}

// normalized returns the request as it will be stored, so validation sees
// trimmed values.
func (r AuthorRequest) normalized() AuthorRequest {
	r.Name = normalize.Text(r.Name)
	r.Email = normalize.Email(r.Email)
	r.Bio = mapString(r.Bio, strings.TrimSpace)
	return r
}

// ListAuthors returns one page of authors in insertion order.
func (s *AuthorService) ListAuthors(ctx context.Context, page int) (*store.Page[domain.Author], error) {
	result, err := s.store.ListAuthors(ctx, store.PageParams{Page: page})
	if err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}
	return result, nil
}

// GetAuthor returns an author with its books attached.
func (s *AuthorService) GetAuthor(ctx context.Context, authorID string) (*domain.Author, error) {
	author, err := s.store.GetAuthor(ctx, authorID)
	if err != nil {
		return nil, storeError(err, authorNotFound, "get author")
	}

	books, err := s.store.ListBooksByAuthor(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("list author books: %w", err)
	}
	// The author is already the parent; drop the back reference.
	for i := range books {
		books[i].Author = nil
	}
	author.Books = books

	return author, nil
}

// CreateAuthor adds an author. Any authenticated user may create authors.
func (s *AuthorService) CreateAuthor(ctx context.Context, actor *domain.User, req AuthorRequest) (*domain.Author, error) {
	if err := policy.Authorize(actor, policy.ActionCreate, policy.KindAuthor); err != nil {
		return nil, err
	}
	req = req.normalized()
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	authorID, err := id.New(id.Author)
	if err != nil {
		return nil, fmt.Errorf("generate author ID: %w", err)
	}

	author := &domain.Author{}
	author.ID = authorID
	author.InitTimestamps()
	applyAuthorRequest(author, req)

	if err := s.store.CreateAuthor(ctx, author); err != nil {
		return nil, storeError(err, authorNotFound, "create author")
	}

	s.logger.InfoContext(ctx, "author created", "author_id", author.ID, "user_id", actor.ID)
	return author, nil
}

// UpdateAuthor replaces an author's fields. The name stays unique, ignoring
// the author's own row.
func (s *AuthorService) UpdateAuthor(ctx context.Context, actor *domain.User, authorID string, req AuthorRequest) (*domain.Author, error) {
	author, err := s.store.GetAuthor(ctx, authorID)
	if err != nil {
		return nil, storeError(err, authorNotFound, "get author")
	}
	if err := policy.Authorize(actor, policy.ActionUpdate, policy.KindAuthor); err != nil {
		return nil, err
	}
	req = req.normalized()
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	applyAuthorRequest(author, req)
	author.Touch()

	if err := s.store.UpdateAuthor(ctx, author); err != nil {
		return nil, storeError(err, authorNotFound, "update author")
	}

	s.logger.InfoContext(ctx, "author updated", "author_id", author.ID, "user_id", actor.ID)
	return author, nil
}

// DeleteAuthor removes an author. Its books remain without an author.
func (s *AuthorService) DeleteAuthor(ctx context.Context, actor *domain.User, authorID string) error {
	if _, err := s.store.GetAuthor(ctx, authorID); err != nil {
		return storeError(err, authorNotFound, "get author")
	}
	if err := policy.Authorize(actor, policy.ActionDelete, policy.KindAuthor); err != nil {
		return err
	}

	if err := s.store.DeleteAuthor(ctx, authorID); err != nil {
		return storeError(err, authorNotFound, "delete author")
	}

	s.logger.InfoContext(ctx, "author deleted", "author_id", authorID, "user_id", actor.ID)
	return nil
}

// applyAuthorRequest copies a normalized request onto author.
func applyAuthorRequest(author *domain.Author, req AuthorRequest) {
	author.Name = req.Name
	author.Email = req.Email
	if req.Bio != nil {
		author.Bio = req.Bio
	}
}
