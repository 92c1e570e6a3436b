package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "github.com/example/commerce-backend/domain/user"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestService builds an AuthService on an in-memory store.
func setupTestService(t *testing.T) *AuthService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&domain.User{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	jwtManager := NewJWTManager(JWTConfig{
		SecretKey:           "test-secret",
		AccessTokenDuration: time.Hour,
		Issuer:              "test",
	})
	return NewAuthService(NewUserRepository(db), NewPasswordHasher(), jwtManager)
}

func TestCreateUser(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, "alice", "s3cret-pass", "t1", "")
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if user.Role != "operator" {
		t.Errorf("role = %q, want default operator", user.Role)
	}
	if user.PasswordHash == "s3cret-pass" || user.PasswordHash == "" {
		t.Error("password stored unhashed")
	}

	if _, err := svc.CreateUser(ctx, "alice", "another-pass", "t1", ""); !errors.Is(err, ErrUserExists) {
		t.Errorf("duplicate CreateUser() error = %v, want ErrUserExists", err)
	}
	if _, err := svc.CreateUser(ctx, "bob", "short", "t1", ""); !errors.Is(err, ErrWeakPassword) {
		t.Errorf("CreateUser(short password) error = %v, want ErrWeakPassword", err)
	}
}

func TestLogin(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	if _, err := svc.CreateUser(ctx, "alice", "s3cret-pass", "t1", "admin"); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	t.Run("valid credentials", func(t *testing.T) {
		token, user, err := svc.Login(ctx, "alice", "s3cret-pass")
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}
		if token == "" {
			t.Error("Login() returned empty token")
		}
		if user.TenantID != "t1" || user.Role != "admin" {
			t.Errorf("user = %s/%s, want t1/admin", user.TenantID, user.Role)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		if _, _, err := svc.Login(ctx, "alice", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Login() error = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		if _, _, err := svc.Login(ctx, "mallory", "whatever-pass"); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Login() error = %v, want ErrInvalidCredentials", err)
		}
	})
}

func TestValidateToken(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	if _, err := svc.CreateUser(ctx, "alice", "s3cret-pass", "t1", "operator"); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	token, _, err := svc.Login(ctx, "alice", "s3cret-pass")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	claims, err := svc.ValidateToken(ctx, token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.Username != "alice" || claims.TenantID != "t1" || claims.Role != "operator" {
		t.Errorf("claims = %+v, want alice/t1/operator", claims)
	}

	if _, err := svc.ValidateToken(ctx, "not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("ValidateToken(garbage) error = %v, want ErrInvalidToken", err)
	}
}

func TestValidateToken_Expired(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&domain.User{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	svc := NewAuthService(NewUserRepository(db), NewPasswordHasher(), NewJWTManager(JWTConfig{
		SecretKey:           "test-secret",
		AccessTokenDuration: -time.Minute, // already expired
		Issuer:              "test",
	}))
	ctx := context.Background()

	if _, err := svc.CreateUser(ctx, "alice", "s3cret-pass", "t1", ""); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	token, _, err := svc.Login(ctx, "alice", "s3cret-pass")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if _, err := svc.ValidateToken(ctx, token); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("ValidateToken(expired) error = %v, want ErrExpiredToken", err)
	}
}
