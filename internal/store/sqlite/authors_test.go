package sqlite

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/listenupapp/catalog-server/internal/store"
)

func TestCreateAndGetAuthor(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	bio := "Wrote Dune."
	a := makeTestAuthor("author-1", "Frank Herbert")
	a.Bio = &bio
	if err := s.CreateAuthor(ctx, a); err != nil {
		t.Fatalf("CreateAuthor: %v", err)
	}

	got, err := s.GetAuthor(ctx, "author-1")
	if err != nil {
		t.Fatalf("GetAuthor: %v", err)
	}
	if got.Name != "Frank Herbert" || got.Bio == nil || *got.Bio != bio {
		t.Errorf("unexpected author: %+v", got)
	}

	byName, err := s.GetAuthorByName(ctx, "frank  HERBERT")
	if err != nil {
		t.Fatalf("GetAuthorByName: %v", err)
	}
	if byName.ID != "author-1" {
		t.Errorf("GetAuthorByName returned %s", byName.ID)
	}
}

func TestCreateAuthor_DuplicateName(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateAuthor(ctx, makeTestAuthor("author-1", "Frank Herbert")); err != nil {
		t.Fatalf("CreateAuthor: %v", err)
	}

	err := s.CreateAuthor(ctx, makeTestAuthor("author-2", "FRANK HERBERT"))
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
	if field := store.FieldOf(err); field != "name" {
		t.Errorf("field = %q, want name", field)
	}

	if n, _ := s.CountAuthors(ctx); n != 1 {
		t.Errorf("expected 1 author, got %d", n)
	}
}

func TestUpdateAuthor_ReindexesBooks(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	idx := newRecordingIndexer()
	s.SetSearchIndexer(idx)

	a := makeTestAuthor("author-1", "Frank Herbert")
	if err := s.CreateAuthor(ctx, a); err != nil {
		t.Fatalf("CreateAuthor: %v", err)
	}
	if err := s.CreateBook(ctx, makeTestBook("book-1", "Dune", "author-1", 1965)); err != nil {
		t.Fatalf("CreateBook: %v", err)
	}

	a.Name = "F. Herbert"
	a.Touch()
	if err := s.UpdateAuthor(ctx, a); err != nil {
		t.Fatalf("UpdateAuthor: %v", err)
	}

	if got := idx.indexed["book-1"].AuthorName(); got != "F. Herbert" {
		t.Errorf("indexed author name = %q", got)
	}

	missing := makeTestAuthor("ghost", "Nobody")
	if err := s.UpdateAuthor(ctx, missing); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteAuthor_DetachesBooks(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	idx := newRecordingIndexer()
	s.SetSearchIndexer(idx)

	if err := s.CreateAuthor(ctx, makeTestAuthor("author-1", "Frank Herbert")); err != nil {
		t.Fatalf("CreateAuthor: %v", err)
	}
	if err := s.CreateBook(ctx, makeTestBook("book-1", "Dune", "author-1", 1965)); err != nil {
		t.Fatalf("CreateBook: %v", err)
	}

	if err := s.DeleteAuthor(ctx, "author-1"); err != nil {
		t.Fatalf("DeleteAuthor: %v", err)
	}

	b, err := s.GetBook(ctx, "book-1")
	if err != nil {
		t.Fatalf("GetBook: %v", err)
	}
	if b.AuthorID != nil || b.Author != nil {
		t.Errorf("book should have no author, got %+v", b)
	}
	if idx.indexed["book-1"].AuthorID != nil {
		t.Error("search document should be reindexed without author")
	}

	if err := s.DeleteAuthor(ctx, "author-1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListAuthors_Paginates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := range 12 {
		a := makeTestAuthor(fmt.Sprintf("author-%02d", i), fmt.Sprintf("Author %02d", i))
		if err := s.CreateAuthor(ctx, a); err != nil {
			t.Fatalf("CreateAuthor: %v", err)
		}
	}

	page, err := s.ListAuthors(ctx, store.PageParams{Page: 2})
	if err != nil {
		t.Fatalf("ListAuthors: %v", err)
	}
	if page.Total != 12 || page.LastPage != 2 || page.PerPage != 10 || page.CurrentPage != 2 {
		t.Errorf("unexpected page meta: %+v", page)
	}
	if len(page.Data) != 2 || page.Data[0].ID != "author-10" || page.Data[1].ID != "author-11" {
		t.Errorf("unexpected page data: %+v", page.Data)
	}
}
