package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/example/commerce-backend/store"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"gorm.io/gorm"
)

// AuthModule provides authentication services over the core store.
type AuthModule struct {
	router  *store.Router
	db      *gorm.DB
	service *AuthService
}

// Compile-time interface checks.
var _ mono.Module = (*AuthModule)(nil)
var _ mono.ServiceProviderModule = (*AuthModule)(nil)
var _ mono.HealthCheckableModule = (*AuthModule)(nil)

// NewModule creates a new AuthModule using the shared store router.
func NewModule(router *store.Router) *AuthModule {
	return &AuthModule{router: router}
}

// Name returns the module name.
func (m *AuthModule) Name() string {
	return "auth"
}

// RegisterServices registers request-reply services in the service container.
func (m *AuthModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "login", json.Unmarshal, json.Marshal, m.login,
	); err != nil {
		return fmt.Errorf("failed to register login service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "validate", json.Unmarshal, json.Marshal, m.validate,
	); err != nil {
		return fmt.Errorf("failed to register validate service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "create-user", json.Unmarshal, json.Marshal, m.createUser,
	); err != nil {
		return fmt.Errorf("failed to register create-user service: %w", err)
	}

	log.Printf("[auth] Registered services: services.auth.{login,validate,create-user}")
	return nil
}

// Start opens the core store and wires the auth service.
func (m *AuthModule) Start(_ context.Context) error {
	db, err := m.router.Default()
	if err != nil {
		return fmt.Errorf("failed to open core store: %w", err)
	}
	m.db = db

	repo := NewUserRepository(db)
	hasher := NewPasswordHasher()
	jwtManager := NewJWTManager(loadJWTConfig())
	m.service = NewAuthService(repo, hasher, jwtManager)

	log.Println("[auth] Module started")
	return nil
}

// Stop shuts down the module.
func (m *AuthModule) Stop(_ context.Context) error {
	log.Println("[auth] Module stopped")
	return nil
}

// Health reports on the core store connection.
func (m *AuthModule) Health(ctx context.Context) mono.HealthStatus {
	if m.db == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "core store not initialized",
		}
	}
	sqlDB, err := m.db.DB()
	if err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("failed to get sql.DB: %v", err),
		}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("core store ping failed: %v", err),
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
	}
}

// login handles the auth.login service request.
func (m *AuthModule) login(ctx context.Context, req LoginRequest, _ *mono.Msg) (LoginResponse, error) {
	if req.Username == "" || req.Password == "" {
		return LoginResponse{}, fmt.Errorf("username and password are required")
	}

	token, user, err := m.service.Login(ctx, req.Username, req.Password)
	if err != nil {
		return LoginResponse{}, err
	}
	return LoginResponse{
		AccessToken: token,
		ExpiresIn:   m.service.jwt.TokenDuration(),
		TokenType:   "Bearer",
		UserID:      user.ID,
		TenantID:    user.TenantID,
		Role:        user.Role,
	}, nil
}

// validate handles the auth.validate service request. Invalid tokens are
// reported in-band so the API middleware can distinguish them from
// transport failures.
func (m *AuthModule) validate(ctx context.Context, req ValidateTokenRequest, _ *mono.Msg) (ValidateTokenResponse, error) {
	claims, err := m.service.ValidateToken(ctx, req.Token)
	if err != nil {
		if errors.Is(err, ErrInvalidToken) || errors.Is(err, ErrExpiredToken) {
			return ValidateTokenResponse{Valid: false, Error: err.Error()}, nil
		}
		return ValidateTokenResponse{}, err
	}
	return ValidateTokenResponse{
		Valid:    true,
		UserID:   claims.UserID,
		Username: claims.Username,
		TenantID: claims.TenantID,
		Role:     claims.Role,
	}, nil
}

// createUser handles the auth.create-user service request.
func (m *AuthModule) createUser(ctx context.Context, req CreateUserRequest, _ *mono.Msg) (CreateUserResponse, error) {
	user, err := m.service.CreateUser(ctx, req.Username, req.Password, req.TenantID, req.Role)
	if err != nil {
		return CreateUserResponse{}, err
	}
	return CreateUserResponse{
		ID:        user.ID,
		Username:  user.Username,
		TenantID:  user.TenantID,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}, nil
}
