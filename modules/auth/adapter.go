package auth

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// authAdapter wraps ServiceContainer for type-safe cross-module calls.
type authAdapter struct {
	container mono.ServiceContainer
}

// NewAuthAdapter creates an adapter for auth services.
func NewAuthAdapter(container mono.ServiceContainer) AuthPort {
	if container == nil {
		panic("auth adapter requires non-nil ServiceContainer")
	}
	return &authAdapter{container: container}
}

// Login authenticates a user via the login service.
func (a *authAdapter) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	var resp LoginResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"login",
		json.Marshal,
		json.Unmarshal,
		req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("login service call failed: %w", err)
	}
	return &resp, nil
}

// ValidateToken validates a session token via the validate service.
func (a *authAdapter) ValidateToken(ctx context.Context, token string) (*Identity, error) {
	req := ValidateTokenRequest{Token: token}
	var resp ValidateTokenResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"validate",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("validate service call failed: %w", err)
	}
	if !resp.Valid {
		return nil, ErrInvalidToken
	}
	return &Identity{
		UserID:   resp.UserID,
		Username: resp.Username,
		TenantID: resp.TenantID,
		Role:     resp.Role,
	}, nil
}

// CreateUser creates a dashboard account via the create-user service.
func (a *authAdapter) CreateUser(ctx context.Context, req *CreateUserRequest) (*CreateUserResponse, error) {
	var resp CreateUserResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"create-user",
		json.Marshal,
		json.Unmarshal,
		req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("create-user service call failed: %w", err)
	}
	return &resp, nil
}
