package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/catalog-server/internal/domain"
	"github.com/listenupapp/catalog-server/internal/store"
)

func TestCreateAuthor(t *testing.T) {
	ts := setupTestServer(t)
	member := ts.memberAuth(t)

	resp := ts.api.Post("/authors", member, map[string]any{
		"name":  "  Ursula   K. Le Guin ",
		"email": "Ursula@Example.com",
		"bio":   "Wrote Earthsea.",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var a domain.Author
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &a))
	assert.Equal(t, "Ursula K. Le Guin", a.Name)
	require.NotNil(t, a.Bio)
	assert.Equal(t, "Wrote Earthsea.", *a.Bio)
}

func TestCreateAuthor_Validation(t *testing.T) {
	ts := setupTestServer(t)
	member := ts.memberAuth(t)
	ts.createAuthor(t, member, "Frank Herbert")

	tests := []struct {
		name  string
		body  map[string]any
		field string
	}{
		{"missing name", map[string]any{"email": "a@example.com"}, "name"},
		{"blank name", map[string]any{"name": "   ", "email": "b@example.com"}, "name"},
		{"bad email", map[string]any{"name": "Someone", "email": "not-an-email"}, "email"},
		{"duplicate name", map[string]any{"name": "frank herbert", "email": "a@example.com"}, "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.api.Post("/authors", member, tt.body)
			require.Equal(t, http.StatusUnprocessableEntity, resp.Code, resp.Body.String())
			assert.Contains(t, decodeError(t, resp.Body.Bytes()).Errors, tt.field)
		})
	}

	assert.Equal(t, http.StatusUnauthorized,
		ts.api.Post("/authors", map[string]any{"name": "X", "email": "x@example.com"}).Code)
}

func TestCreateAuthor_EmptyBody(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/authors", ts.adminAuth(t))
	require.Equal(t, http.StatusUnprocessableEntity, resp.Code, resp.Body.String())

	body := decodeError(t, resp.Body.Bytes())
	assert.Equal(t, "VALIDATION", body.Code)
	assert.Equal(t, "The name field is required.", body.Errors["name"])
	assert.Equal(t, "The email field is required.", body.Errors["email"])
}

func TestUpdateAuthor_IgnoresUnknownFields(t *testing.T) {
	ts := setupTestServer(t)
	member := ts.memberAuth(t)
	author := ts.createAuthor(t, member, "Frank Herbert")

	// Clients commonly send back the whole resource they read.
	resp := ts.api.Put("/authors/"+author.ID, member, map[string]any{
		"id":         author.ID,
		"name":       "Frank Herbert",
		"email":      "frank@example.com",
		"created_at": author.CreatedAt,
		"books":      []any{},
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var a domain.Author
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &a))
	assert.Equal(t, "frank@example.com", a.Email)

	resp = ts.api.Put("/authors/"+author.ID, member)
	require.Equal(t, http.StatusUnprocessableEntity, resp.Code, resp.Body.String())
	assert.Equal(t, "The name field is required.", decodeError(t, resp.Body.Bytes()).Errors["name"])
}

func TestGetAuthor_IncludesBooks(t *testing.T) {
	ts := setupTestServer(t)
	member := ts.memberAuth(t)
	author := ts.createAuthor(t, member, "Frank Herbert")
	ts.createBook(t, member, bookBody("Dune", "Frank Herbert", isbn(1), 1965))

	resp := ts.api.Get("/authors/" + author.ID)
	require.Equal(t, http.StatusOK, resp.Code)

	var got domain.Author
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
	require.Len(t, got.Books, 1)
	assert.Equal(t, "Dune", got.Books[0].Title)

	resp = ts.api.Get("/authors/missing")
	require.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "Author not found.", decodeError(t, resp.Body.Bytes()).Message)
}

func TestListAuthors_Paginates(t *testing.T) {
	ts := setupTestServer(t)
	member := ts.memberAuth(t)
	for i := range 11 {
		ts.createAuthor(t, member, fmt.Sprintf("Author %02d", i))
	}

	var page store.Page[domain.Author]
	require.NoError(t, json.Unmarshal(ts.api.Get("/authors?page=2").Body.Bytes(), &page))
	assert.Equal(t, 11, page.Total)
	assert.Equal(t, 2, page.LastPage)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Author 10", page.Data[0].Name)
}

func TestUpdateAuthor(t *testing.T) {
	ts := setupTestServer(t)
	member := ts.memberAuth(t)
	author := ts.createAuthor(t, member, "Frank Herbert")
	ts.createAuthor(t, member, "Jane Austen")

	// Keeping its own name is not a conflict.
	resp := ts.api.Put("/authors/"+author.ID, member, map[string]any{
		"name":  "Frank Herbert",
		"email": "frank@example.com",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = ts.api.Patch("/authors/"+author.ID, member, map[string]any{
		"name":  "Jane Austen",
		"email": "frank@example.com",
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	assert.Equal(t, "The name has already been taken.", decodeError(t, resp.Body.Bytes()).Errors["name"])

	assert.Equal(t, http.StatusNotFound, ts.api.Put("/authors/missing", member, map[string]any{
		"name": "X", "email": "x@example.com",
	}).Code)
}

func TestDeleteAuthor_KeepsBooks(t *testing.T) {
	ts := setupTestServer(t)
	member := ts.memberAuth(t)
	admin := ts.adminAuth(t)
	author := ts.createAuthor(t, member, "Frank Herbert")
	book := ts.createBook(t, member, bookBody("Dune", "Frank Herbert", isbn(1), 1965))

	assert.Equal(t, http.StatusForbidden, ts.api.Delete("/authors/"+author.ID, member).Code)
	require.Equal(t, http.StatusNoContent, ts.api.Delete("/authors/"+author.ID, admin).Code)
	assert.Equal(t, http.StatusNotFound, ts.api.Get("/authors/"+author.ID).Code)

	resp := ts.api.Get("/books/" + book.ID)
	require.Equal(t, http.StatusOK, resp.Code)

	var got domain.Book
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
	assert.Nil(t, got.AuthorID)
	assert.Nil(t, got.Author)
}
