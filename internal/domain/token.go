package domain

import "time"

// AccessToken is the persisted record of an issued bearer token.
// Only the SHA-256 digest of the token is stored.
type AccessToken struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	Name      string     `json:"name"` // device label supplied at login
	TokenHash string     `json:"-"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
}

// IsRevoked returns true once the token has been logged out.
func (t *AccessToken) IsRevoked() bool {
	return t.RevokedAt != nil
}

// IsExpired returns true if the token has an expiry at or before now.
func (t *AccessToken) IsExpired(now time.Time) bool {
	return t.ExpiresAt != nil && !now.Before(*t.ExpiresAt)
}

// IsUsable returns true if the token may still authenticate requests.
func (t *AccessToken) IsUsable(now time.Time) bool {
	return !t.IsRevoked() && !t.IsExpired(now)
}
