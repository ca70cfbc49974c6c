package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUser_IsAdmin(t *testing.T) {
	tests := []struct {
		name     string
		user     *User
		expected bool
	}{
		{"admin role", &User{Role: RoleAdmin}, true},
		{"member role", &User{Role: RoleMember}, false},
		{"empty role", &User{}, false},
		{"nil user", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.user.IsAdmin())
		})
	}
}

func TestAccessToken_IsUsable(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	tests := []struct {
		name   string
		token  AccessToken
		usable bool
	}{
		{"no expiry", AccessToken{}, true},
		{"future expiry", AccessToken{ExpiresAt: &future}, true},
		{"expired", AccessToken{ExpiresAt: &past}, false},
		{"expires exactly now", AccessToken{ExpiresAt: &now}, false},
		{"revoked", AccessToken{RevokedAt: &past}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.usable, tt.token.IsUsable(now))
		})
	}
}

func TestEntity_InitTimestamps(t *testing.T) {
	var e Entity
	e.InitTimestamps()

	assert.False(t, e.CreatedAt.IsZero())
	assert.Equal(t, e.CreatedAt, e.UpdatedAt)

	e.Touch()
	assert.False(t, e.UpdatedAt.Before(e.CreatedAt))
}

func TestBook_AuthorName(t *testing.T) {
	b := Book{}
	assert.Empty(t, b.AuthorName())

	b.Author = &Author{Name: "Frank Herbert"}
	assert.Equal(t, "Frank Herbert", b.AuthorName())
}
