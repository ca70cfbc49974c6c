package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/listenupapp/catalog-server/internal/auth"
	"github.com/listenupapp/catalog-server/internal/domain"
	domainerrors "github.com/listenupapp/catalog-server/internal/errors"
	"github.com/listenupapp/catalog-server/internal/search"
	"github.com/listenupapp/catalog-server/internal/store/sqlite"
	"github.com/listenupapp/catalog-server/internal/validation"
)

const testPassword = "correct horse battery"

// testEnv wires the services against a temp-dir SQLite store.
type testEnv struct {
	store   *sqlite.Store
	index   *search.SearchIndex
	auth    *AuthService
	authors *AuthorService
	books   *BookService
	admin   *domain.User
	member  *domain.User
}

func setupServices(t *testing.T, tokenDuration time.Duration) *testEnv {
	t.Helper()
	dir := t.TempDir()

	s, err := sqlite.Open(filepath.Join(dir, "catalog.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	index, err := search.NewSearchIndex(search.Options{DataPath: filepath.Join(dir, "search")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })
	s.SetSearchIndexer(index)

	key, err := auth.LoadOrGenerateKey(filepath.Join(dir, "auth.key"))
	require.NoError(t, err)
	codec, err := auth.NewTokenCodec(key, tokenDuration)
	require.NoError(t, err)

	v := validation.New()
	env := &testEnv{
		store:   s,
		index:   index,
		auth:    NewAuthService(s, codec, v, nil),
		authors: NewAuthorService(s, v, nil),
		books:   NewBookService(s, index, v, nil),
	}

	ctx := context.Background()
	env.admin, err = env.auth.CreateUser(ctx, CreateUserRequest{
		Name: "Admin", Email: "admin@example.com", Password: testPassword, Admin: true,
	})
	require.NoError(t, err)
	env.member, err = env.auth.CreateUser(ctx, CreateUserRequest{
		Name: "Reader", Email: "reader@example.com", Password: testPassword,
	})
	require.NoError(t, err)

	return env
}

// fieldErrors returns the per-field messages of a validation error.
func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	var de *domainerrors.Error
	require.True(t, errors.As(err, &de), "expected domain error, got %v", err)
	require.Equal(t, domainerrors.CodeValidation, de.Code)
	details, ok := de.Details.(map[string]string)
	require.True(t, ok, "expected field details, got %#v", de.Details)
	return details
}

func (e *testEnv) createAuthor(t *testing.T, name string) *domain.Author {
	t.Helper()
	a, err := e.authors.CreateAuthor(context.Background(), e.member, AuthorRequest{
		Name:  name,
		Email: "contact@example.com",
	})
	require.NoError(t, err)
	return a
}

func validBook(title, author, isbn string) CreateBookRequest {
	return CreateBookRequest{
		Title:     title,
		Author:    author,
		ISBN:      isbn,
		Genre:     "Science Fiction",
		Publisher: "Chilton",
		Year:      1965,
	}
}
