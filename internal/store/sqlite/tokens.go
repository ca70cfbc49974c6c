package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/listenupapp/catalog-server/internal/domain"
	"github.com/listenupapp/catalog-server/internal/store"
)

const tokenColumns = `id, user_id, name, token_hash, created_at, expires_at, revoked_at`

func scanToken(row scanner) (*domain.AccessToken, error) {
	var (
		t         domain.AccessToken
		createdAt string
		expiresAt sql.NullString
		revokedAt sql.NullString
	)

	err := row.Scan(&t.ID, &t.UserID, &t.Name, &t.TokenHash, &createdAt, &expiresAt, &revokedAt)
	if err != nil {
		return nil, err
	}

	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if t.ExpiresAt, err = parseNullableTime(expiresAt); err != nil {
		return nil, err
	}
	if t.RevokedAt, err = parseNullableTime(revokedAt); err != nil {
		return nil, err
	}

	return &t, nil
}

// CreateToken inserts an issued token.
// Returns store.ErrInvalidReference if the owning user does not exist.
func (s *Store) CreateToken(ctx context.Context, token *domain.AccessToken) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO access_tokens (id, user_id, name, token_hash, created_at, expires_at, revoked_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		token.ID,
		token.UserID,
		token.Name,
		token.TokenHash,
		formatTime(token.CreatedAt),
		nullTimeString(token.ExpiresAt),
		nullTimeString(token.RevokedAt),
	)
	return translateError(err, "user_id")
}

// GetToken retrieves a token by ID.
// Returns store.ErrNotFound if the token does not exist.
func (s *Store) GetToken(ctx context.Context, id string) (*domain.AccessToken, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+tokenColumns+` FROM access_tokens WHERE id = ?`, id)

	t, err := scanToken(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return t, err
}

// RevokeToken sets revoked_at once. A second call leaves the row untouched
// and reports false.
func (s *Store) RevokeToken(ctx context.Context, id string, at time.Time) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE access_tokens SET revoked_at = ? WHERE id = ? AND revoked_at IS NULL`,
		formatTime(at), id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 1 {
		return true, nil
	}

	// Distinguish already revoked from missing.
	if _, err := s.GetToken(ctx, id); err != nil {
		return false, err
	}
	return false, nil
}

// CountTokens returns the number of tokens issued to a user, revoked or not.
func (s *Store) CountTokens(ctx context.Context, userID string) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM access_tokens WHERE user_id = ?`, userID)
}
