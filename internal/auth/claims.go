package auth

import "time"

// TokenClaims are the claims sealed inside a bearer token.
// The token is v4.local, so clients cannot read them.
type TokenClaims struct {
	// TokenID is the access_tokens row id (jti).
	TokenID string
	// UserID is the owning user (sub).
	UserID   string
	IssuedAt time.Time
	// ExpiresAt is nil for tokens that never expire.
	ExpiresAt *time.Time
}

// Expired reports whether the claims carry an expiry at or before now.
func (c TokenClaims) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && !now.Before(*c.ExpiresAt)
}
