package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/listenupapp/catalog-server/internal/domain"
	"github.com/listenupapp/catalog-server/internal/store"
)

func TestCreateAndGetUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := makeTestUser("user-1", "Reader@Example.com", domain.RoleAdmin)
	if err := s.CreateUser(ctx, u); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	got, err := s.GetUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.Email != "Reader@Example.com" || got.Role != domain.RoleAdmin || got.PasswordHash != u.PasswordHash {
		t.Errorf("unexpected user: %+v", got)
	}

	byEmail, err := s.GetUserByEmail(ctx, "  reader@EXAMPLE.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if byEmail.ID != "user-1" {
		t.Errorf("GetUserByEmail returned %s", byEmail.ID)
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateUser(ctx, makeTestUser("user-1", "a@example.com", domain.RoleMember)); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	err := s.CreateUser(ctx, makeTestUser("user-2", "A@example.com", domain.RoleMember))
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
	if field := store.FieldOf(err); field != "email" {
		t.Errorf("field = %q, want email", field)
	}
}

func TestGetUser_NotFound(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.GetUser(context.Background(), "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := s.DeleteUser(context.Background(), "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func makeTestToken(id, userID string) *domain.AccessToken {
	return &domain.AccessToken{
		ID:        id,
		UserID:    userID,
		Name:      "phone",
		TokenHash: "hash-" + id,
		CreatedAt: time.Now().UTC(),
	}
}

func TestTokens_CreateGetRevoke(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateUser(ctx, makeTestUser("user-1", "a@example.com", domain.RoleMember)); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	exp := time.Now().Add(time.Hour).UTC()
	tok := makeTestToken("tok-1", "user-1")
	tok.ExpiresAt = &exp
	if err := s.CreateToken(ctx, tok); err != nil {
		t.Fatalf("CreateToken: %v", err)
	}

	got, err := s.GetToken(ctx, "tok-1")
	if err != nil {
		t.Fatalf("GetToken: %v", err)
	}
	if got.TokenHash != "hash-tok-1" || got.Name != "phone" || got.IsRevoked() {
		t.Errorf("unexpected token: %+v", got)
	}
	if got.ExpiresAt == nil || !got.ExpiresAt.Equal(exp) {
		t.Errorf("expires_at = %v, want %v", got.ExpiresAt, exp)
	}

	revoked, err := s.RevokeToken(ctx, "tok-1", time.Now())
	if err != nil || !revoked {
		t.Fatalf("first RevokeToken = %v, %v", revoked, err)
	}

	revoked, err = s.RevokeToken(ctx, "tok-1", time.Now())
	if err != nil || revoked {
		t.Fatalf("second RevokeToken = %v, %v; want false, nil", revoked, err)
	}

	got, err = s.GetToken(ctx, "tok-1")
	if err != nil {
		t.Fatalf("GetToken: %v", err)
	}
	if !got.IsRevoked() {
		t.Error("token should be revoked")
	}

	if _, err := s.RevokeToken(ctx, "missing", time.Now()); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestTokens_RequireExistingUser(t *testing.T) {
	s := newTestStore(t)

	err := s.CreateToken(context.Background(), makeTestToken("tok-1", "ghost"))
	if !errors.Is(err, store.ErrInvalidReference) {
		t.Fatalf("expected ErrInvalidReference, got %v", err)
	}
}

func TestDeleteUser_CascadesTokens(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateUser(ctx, makeTestUser("user-1", "a@example.com", domain.RoleMember)); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	for _, id := range []string{"tok-1", "tok-2"} {
		if err := s.CreateToken(ctx, makeTestToken(id, "user-1")); err != nil {
			t.Fatalf("CreateToken: %v", err)
		}
	}

	if n, _ := s.CountTokens(ctx, "user-1"); n != 2 {
		t.Fatalf("expected 2 tokens, got %d", n)
	}

	if err := s.DeleteUser(ctx, "user-1"); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}

	if n, _ := s.CountTokens(ctx, "user-1"); n != 0 {
		t.Errorf("expected tokens to cascade, %d remain", n)
	}
	if _, err := s.GetToken(ctx, "tok-1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
