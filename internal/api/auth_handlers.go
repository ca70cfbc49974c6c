package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/listenupapp/catalog-server/internal/errors"
	"github.com/listenupapp/catalog-server/internal/service"
)

func (s *Server) registerAuthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/login",
		Summary:     "Issue a token",
		Description: "Verifies credentials and returns a new bearer token as plain text. Rate limited per client IP.",
		Tags:        []string{"Authentication"},
		Middlewares: huma.Middlewares{s.loginRateLimit},
	}, s.handleLogin)

	huma.Register(s.api, huma.Operation{
		OperationID: "logout",
		Method:      http.MethodPost,
		Path:        "/logout",
		Summary:     "Revoke the current token",
		Description: "Revokes the presented bearer token. Revoking an already revoked token succeeds.",
		Tags:        []string{"Authentication"},
		Security:    bearerSecurity,
	}, s.handleLogout)
}

// === DTOs ===

// LoginInput wraps the login request for Huma.
type LoginInput struct {
	Body *service.LoginRequest
}

// LoginOutput is the raw token as text/plain.
type LoginOutput struct {
	ContentType string `header:"Content-Type"`
	Body        []byte
}

// LogoutInput carries the token being revoked.
type LogoutInput struct {
	Authorization string `header:"Authorization"`
}

// MessageResponse is a plain status message.
type MessageResponse struct {
	Message string `json:"message" doc:"Status message"`
}

// MessageOutput wraps a message for Huma.
type MessageOutput struct {
	Body MessageResponse
}

// === Handlers ===

func (s *Server) handleLogin(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	token, err := s.services.Auth.Login(ctx, valueOf(input.Body))
	if err != nil {
		return nil, err
	}

	return &LoginOutput{
		ContentType: "text/plain; charset=utf-8",
		Body:        []byte(token),
	}, nil
}

func (s *Server) handleLogout(ctx context.Context, input *LogoutInput) (*MessageOutput, error) {
	token := bearerToken(input.Authorization)
	if token == "" {
		return nil, domainerrors.Unauthorized("Unauthenticated.")
	}

	if _, err := s.services.Auth.Logout(ctx, token); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Logged out successfully"}}, nil
}
