package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/listenupapp/catalog-server/internal/domain"
)

func (s *Server) registerUserRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getCurrentUser",
		Method:      http.MethodGet,
		Path:        "/user",
		Summary:     "Get current user",
		Description: "Returns the user owning the bearer token",
		Tags:        []string{"Users"},
		Security:    bearerSecurity,
	}, s.handleGetCurrentUser)
}

// UserResponse is the public view of a user. The password hash is never serialized.
type UserResponse struct {
	ID        string      `json:"id" doc:"User ID"`
	Name      string      `json:"name" doc:"Display name"`
	Email     string      `json:"email" doc:"User email"`
	Role      domain.Role `json:"role" doc:"Permission level" enum:"admin,member"`
	IsAdmin   bool        `json:"is_admin" doc:"Whether the user may update and delete catalog entries"`
	CreatedAt time.Time   `json:"created_at" doc:"Creation timestamp"`
	UpdatedAt time.Time   `json:"updated_at" doc:"Last update timestamp"`
}

func newUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		IsAdmin:   u.IsAdmin(),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// UserOutput wraps a user for Huma.
type UserOutput struct {
	Body UserResponse
}

func (s *Server) handleGetCurrentUser(ctx context.Context, _ *struct{}) (*UserOutput, error) {
	user, err := RequireUser(ctx)
	if err != nil {
		return nil, err
	}
	return &UserOutput{Body: newUserResponse(user)}, nil
}
