package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"
	"github.com/google/uuid"
)

const (
	tokenIssuer   = "catalog-server"
	tokenAudience = "catalog-client"
)

// ErrInvalidToken is returned for any token that fails to decrypt or validate.
var ErrInvalidToken = errors.New("invalid token")

// TokenCodec seals and opens PASETO v4.local bearer tokens.
type TokenCodec struct {
	symmetricKey paseto.V4SymmetricKey
	duration     time.Duration
}

// NewTokenCodec creates a codec from a 32-byte key.
// duration is the token lifetime; zero issues tokens without expiry.
func NewTokenCodec(key []byte, duration time.Duration) (*TokenCodec, error) {
	if len(key) != keyLength {
		return nil, fmt.Errorf("PASETO v4 key must be exactly %d bytes, got %d", keyLength, len(key))
	}

	symmetricKey, err := paseto.V4SymmetricKeyFromBytes(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create PASETO symmetric key: %w", err)
	}

	return &TokenCodec{
		symmetricKey: symmetricKey,
		duration:     duration,
	}, nil
}

// NewClaims builds claims for a fresh token owned by userID.
// The token id is a time-ordered UUIDv7 so access_tokens rows sort by issue time.
func (c *TokenCodec) NewClaims(userID string, now time.Time) (TokenClaims, error) {
	tokenID, err := uuid.NewV7()
	if err != nil {
		return TokenClaims{}, fmt.Errorf("generate token ID: %w", err)
	}

	claims := TokenClaims{
		TokenID:  tokenID.String(),
		UserID:   userID,
		IssuedAt: now.UTC(),
	}
	if c.duration > 0 {
		exp := claims.IssuedAt.Add(c.duration)
		claims.ExpiresAt = &exp
	}
	return claims, nil
}

// Seal encrypts the claims into a token string.
// Each call uses a fresh nonce, so the same claims never produce the same token.
func (c *TokenCodec) Seal(claims TokenClaims) string {
	token := paseto.NewToken()

	token.SetIssuer(tokenIssuer)
	token.SetAudience(tokenAudience)
	token.SetSubject(claims.UserID)
	token.SetJti(claims.TokenID)
	token.SetIssuedAt(claims.IssuedAt)
	token.SetNotBefore(claims.IssuedAt)
	if claims.ExpiresAt != nil {
		token.SetExpiration(*claims.ExpiresAt)
	}

	return token.V4Encrypt(c.symmetricKey, nil)
}

// Open decrypts and validates a token, returning its claims.
// Every failure is reported as ErrInvalidToken wrapping the cause.
func (c *TokenCodec) Open(tokenString string) (*TokenClaims, error) {
	parser := paseto.NewParserWithoutExpiryCheck()
	if c.duration > 0 {
		parser.AddRule(paseto.NotExpired())
	}
	parser.AddRule(paseto.ForAudience(tokenAudience))
	parser.AddRule(paseto.IssuedBy(tokenIssuer))

	token, err := parser.ParseV4Local(c.symmetricKey, tokenString, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	jti, err := token.GetJti()
	if err != nil || jti == "" {
		return nil, fmt.Errorf("%w: missing jti", ErrInvalidToken)
	}
	sub, err := token.GetSubject()
	if err != nil || sub == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	claims := &TokenClaims{TokenID: jti, UserID: sub}
	if iat, err := token.GetIssuedAt(); err == nil {
		claims.IssuedAt = iat
	}
	if exp, err := token.GetExpiration(); err == nil {
		claims.ExpiresAt = &exp
	}
	return claims, nil
}

// HashToken returns the hex SHA-256 digest stored in place of the plaintext token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
