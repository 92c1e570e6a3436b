package tenant

import (
	"errors"
	"testing"

	domain "github.com/example/commerce-backend/domain/tenant"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&domain.Tenant{}, &domain.DomainAlias{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func seedTenant(t *testing.T, repo *Repository, name, primaryDomain string, aliases ...domain.DomainAlias) *domain.Tenant {
	t.Helper()

	tn := &domain.Tenant{
		ID:      uuid.New().String(),
		Name:    name,
		Domain:  primaryDomain,
		Active:  true,
		Aliases: aliases,
	}
	if err := repo.Create(tn); err != nil {
		t.Fatalf("failed to seed tenant: %v", err)
	}
	return tn
}

func TestRepository_FindByHost(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	shop := seedTenant(t, repo, "Shop", "mainshop.com",
		domain.DomainAlias{Domain: "shop.example.com", Active: true},
		domain.DomainAlias{Domain: "retired.example.com", Active: false},
	)
	seedTenant(t, repo, "Other", "othershop.com")

	t.Run("primary domain", func(t *testing.T) {
		got, err := repo.FindByHost("mainshop.com")
		if err != nil {
			t.Fatalf("FindByHost() error = %v", err)
		}
		if got.ID != shop.ID {
			t.Errorf("resolved tenant %s, want %s", got.ID, shop.ID)
		}
	})

	t.Run("www prefix on active alias", func(t *testing.T) {
		got, err := repo.FindByHost("www.shop.example.com")
		if err != nil {
			t.Fatalf("FindByHost() error = %v", err)
		}
		if got.ID != shop.ID {
			t.Errorf("resolved tenant %s, want %s", got.ID, shop.ID)
		}
	})

	t.Run("inactive alias misses", func(t *testing.T) {
		if _, err := repo.FindByHost("retired.example.com"); !errors.Is(err, ErrTenantNotFound) {
			t.Errorf("FindByHost() error = %v, want ErrTenantNotFound", err)
		}
	})

	t.Run("unknown host", func(t *testing.T) {
		if _, err := repo.FindByHost("nosuch.example.com"); !errors.Is(err, ErrTenantNotFound) {
			t.Errorf("FindByHost() error = %v, want ErrTenantNotFound", err)
		}
	})
}

func TestRepository_FindByHost_IgnoresDeactivated(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	tn := seedTenant(t, repo, "Shop", "mainshop.com")

	if err := repo.Deactivate(tn.ID); err != nil {
		t.Fatalf("Deactivate() error = %v", err)
	}

	if _, err := repo.FindByHost("mainshop.com"); !errors.Is(err, ErrTenantNotFound) {
		t.Errorf("FindByHost() error = %v after deactivation, want ErrTenantNotFound", err)
	}

	// Deactivation is soft; the record itself stays.
	got, err := repo.FindByID(tn.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if got.Active {
		t.Error("tenant still active after Deactivate()")
	}
}

func TestRepository_UpdateReplacesAliases(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	tn := seedTenant(t, repo, "Shop", "mainshop.com",
		domain.DomainAlias{Domain: "a.example.com", Active: true},
	)

	tn.Name = "Renamed Shop"
	tn.Aliases = []domain.DomainAlias{
		{Domain: "b.example.com", Active: true},
	}
	if err := repo.Update(tn); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := repo.FindByID(tn.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if got.Name != "Renamed Shop" {
		t.Errorf("name = %q, want %q", got.Name, "Renamed Shop")
	}
	if len(got.Aliases) != 1 || got.Aliases[0].Domain != "b.example.com" {
		t.Errorf("aliases = %+v, want exactly b.example.com", got.Aliases)
	}
}

func TestRepository_UpdateMissingTenant(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	err := repo.Update(&domain.Tenant{ID: "missing", Name: "x", Domain: "x.com"})
	if !errors.Is(err, ErrTenantNotFound) {
		t.Errorf("Update() error = %v, want ErrTenantNotFound", err)
	}
}
