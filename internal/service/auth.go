package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/listenupapp/catalog-server/internal/auth"
	"github.com/listenupapp/catalog-server/internal/domain"
	domainerrors "github.com/listenupapp/catalog-server/internal/errors"
	"github.com/listenupapp/catalog-server/internal/id"
	"github.com/listenupapp/catalog-server/internal/normalize"
	"github.com/listenupapp/catalog-server/internal/store"
	"github.com/listenupapp/catalog-server/internal/validation"
)

// invalidCredentialsMessage is shared by unknown emails and wrong passwords.
const invalidCredentialsMessage = "The provided credentials are incorrect."

// AuthService issues, authenticates and revokes bearer tokens.
type AuthService struct {
	store     store.Store
	tokens    *auth.TokenCodec
	validator *validation.Validator
	logger    *slog.Logger
	now       func() time.Time
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	store store.Store,
	tokens *auth.TokenCodec,
	validator *validation.Validator,
	logger *slog.Logger,
) *AuthService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &AuthService{
		store:     store,
		tokens:    tokens,
		validator: validator,
		logger:    logger,
		now:       time.Now,
	}
}

// LoginRequest contains user credentials and a label for the device.
type LoginRequest struct {
	_          struct{} `json:"-" additionalProperties:"true"`
	Email      string   `json:"email,omitempty" validate:"required,email"`
	Password   string   `json:"password,omitempty" validate:"required"`
	DeviceName string   `json:"device_name,omitempty" validate:"required,max=255"`
}

// CreateUserRequest contains the data for a new account.
type CreateUserRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=1024"`
	Admin    bool   `json:"admin"`
}

// Login verifies credentials and issues a new token for the device.
// The returned secret is shown once; only its digest is stored.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (string, error) {
	if err := s.validator.Validate(req); err != nil {
		return "", err
	}

	user, err := s.store.GetUserByEmail(ctx, req.Email)
	if errors.Is(err, store.ErrNotFound) {
		// Burn the same time as a real check so timing does not reveal the email.
		auth.VerifyDummy(req.Password)
		s.logger.InfoContext(ctx, "login failed", "reason", "unknown email")
		return "", invalidCredentials()
	}
	if err != nil {
		return "", fmt.Errorf("get user: %w", err)
	}

	if !auth.VerifyPassword(user.PasswordHash, req.Password) {
		s.logger.InfoContext(ctx, "login failed", "reason", "wrong password", "user_id", user.ID)
		return "", invalidCredentials()
	}

	claims, err := s.tokens.NewClaims(user.ID, s.now())
	if err != nil {
		return "", err
	}
	secret := s.tokens.Seal(claims)

	token := &domain.AccessToken{
		ID:        claims.TokenID,
		UserID:    user.ID,
		Name:      normalize.Text(req.DeviceName),
		TokenHash: auth.HashToken(secret),
		CreatedAt: claims.IssuedAt,
		ExpiresAt: claims.ExpiresAt,
	}
	if err := s.store.CreateToken(ctx, token); err != nil {
		return "", fmt.Errorf("create token: %w", err)
	}

	s.logger.InfoContext(ctx, "user logged in",
		"user_id", user.ID,
		"token_id", token.ID,
		"device", token.Name,
	)

	return secret, nil
}

// Authenticate resolves a bearer token to its user.
// Every failure is the same unauthenticated error.
func (s *AuthService) Authenticate(ctx context.Context, secret string) (*domain.User, error) {
	token, err := s.resolve(ctx, secret)
	if err != nil {
		return nil, err
	}
	if !token.IsUsable(s.now()) {
		return nil, unauthenticated(errors.New("token revoked or expired"))
	}

	user, err := s.store.GetUser(ctx, token.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, unauthenticated(err)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	return user, nil
}

// Logout revokes the presented token.
// Revoking a token that is already revoked succeeds with alreadyRevoked set.
func (s *AuthService) Logout(ctx context.Context, secret string) (alreadyRevoked bool, err error) {
	token, err := s.resolve(ctx, secret)
	if err != nil {
		return false, err
	}

	revoked, err := s.store.RevokeToken(ctx, token.ID, s.now())
	if errors.Is(err, store.ErrNotFound) {
		return false, unauthenticated(err)
	}
	if err != nil {
		return false, fmt.Errorf("revoke token: %w", err)
	}

	if revoked {
		s.logger.InfoContext(ctx, "user logged out", "user_id", token.UserID, "token_id", token.ID)
	} else {
		s.logger.DebugContext(ctx, "token already revoked", "token_id", token.ID)
	}
	return !revoked, nil
}

// CreateUser registers an account. Used by seeding; there is no signup route.
func (s *AuthService) CreateUser(ctx context.Context, req CreateUserRequest) (*domain.User, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	userID, err := id.New(id.User)
	if err != nil {
		return nil, fmt.Errorf("generate user ID: %w", err)
	}

	user := &domain.User{
		Name:         normalize.Text(req.Name),
		Email:        normalize.Email(req.Email),
		PasswordHash: hash,
		Role:         domain.RoleMember,
	}
	if req.Admin {
		user.Role = domain.RoleAdmin
	}
	user.ID = userID
	user.InitTimestamps()

	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, storeError(err, "User not found.", "create user")
	}

	s.logger.InfoContext(ctx, "user created", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// resolve opens the token envelope and loads its row, checking the stored digest.
func (s *AuthService) resolve(ctx context.Context, secret string) (*domain.AccessToken, error) {
	if secret == "" {
		return nil, unauthenticated(errors.New("missing token"))
	}

	claims, err := s.tokens.Open(secret)
	if err != nil {
		return nil, unauthenticated(err)
	}

	token, err := s.store.GetToken(ctx, claims.TokenID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, unauthenticated(err)
	}
	if err != nil {
		return nil, fmt.Errorf("get token: %w", err)
	}

	digest := auth.HashToken(secret)
	if subtle.ConstantTimeCompare([]byte(digest), []byte(token.TokenHash)) != 1 || token.UserID != claims.UserID {
		return nil, unauthenticated(errors.New("token digest mismatch"))
	}

	return token, nil
}

func invalidCredentials() error {
	return domainerrors.FieldInvalid("email", invalidCredentialsMessage)
}

func unauthenticated(cause error) error {
	return domainerrors.Unauthorized("Unauthenticated.").WithCause(cause)
}
