package auth

import (
	"context"
	"time"
)

// LoginRequest is a dashboard login request.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the session token on success.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	TokenType   string `json:"token_type"`
	UserID      string `json:"user_id"`
	TenantID    string `json:"tenant_id"`
	Role        string `json:"role"`
}

// ValidateTokenRequest validates a session token.
type ValidateTokenRequest struct {
	Token string `json:"token"`
}

// ValidateTokenResponse carries the authenticated identity.
type ValidateTokenResponse struct {
	Valid    bool   `json:"valid"`
	UserID   string `json:"user_id,omitempty"`
	Username string `json:"username,omitempty"`
	TenantID string `json:"tenant_id,omitempty"`
	Role     string `json:"role,omitempty"`
	Error    string `json:"error,omitempty"`
}

// CreateUserRequest creates a dashboard account.
type CreateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	TenantID string `json:"tenant_id"`
	Role     string `json:"role,omitempty"`
}

// CreateUserResponse carries the created account.
type CreateUserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	TenantID  string    `json:"tenant_id"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Identity is the validated caller identity used by the API layer.
type Identity struct {
	UserID   string
	Username string
	TenantID string
	Role     string
}

// AuthPort is the contract the API layer uses for authentication.
type AuthPort interface {
	Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error)
	ValidateToken(ctx context.Context, token string) (*Identity, error)
	CreateUser(ctx context.Context, req *CreateUserRequest) (*CreateUserResponse, error)
}
