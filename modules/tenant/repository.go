package tenant

import (
	"errors"
	"fmt"

	domain "github.com/example/commerce-backend/domain/tenant"
	"gorm.io/gorm"
)

var (
	// ErrTenantNotFound is returned when no tenant matches the lookup.
	ErrTenantNotFound = errors.New("tenant not found")
)

// Repository handles tenant persistence in the core store.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new tenant Repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create stores a new tenant with its aliases.
func (r *Repository) Create(t *domain.Tenant) error {
	if err := r.db.Create(t).Error; err != nil {
		return fmt.Errorf("failed to create tenant: %w", err)
	}
	return nil
}

// Update replaces a tenant's mutable fields and aliases.
func (r *Repository) Update(t *domain.Tenant) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&domain.Tenant{}).Where("id = ?", t.ID).
			Select("name", "domain", "store_dsn", "active",
				"settings_delivery_fee", "settings_return_fee",
				"settings_courier_api_key", "settings_courier_secret", "settings_courier_mode").
			Updates(t)
		if result.Error != nil {
			return fmt.Errorf("failed to update tenant: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrTenantNotFound
		}

		// Aliases are replaced wholesale on update.
		if err := tx.Where("tenant_id = ?", t.ID).Delete(&domain.DomainAlias{}).Error; err != nil {
			return fmt.Errorf("failed to clear aliases: %w", err)
		}
		for i := range t.Aliases {
			t.Aliases[i].ID = 0
			t.Aliases[i].TenantID = t.ID
			if err := tx.Create(&t.Aliases[i]).Error; err != nil {
				return fmt.Errorf("failed to store alias: %w", err)
			}
		}
		return nil
	})
}

// FindByID retrieves a tenant with its aliases.
func (r *Repository) FindByID(id string) (*domain.Tenant, error) {
	var t domain.Tenant
	if err := r.db.Preload("Aliases").First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTenantNotFound
		}
		return nil, fmt.Errorf("failed to find tenant: %w", err)
	}
	return &t, nil
}

// FindByHost resolves a tenant by request host against primary domains and
// active aliases, case-insensitive with "www." ignored on both sides.
func (r *Repository) FindByHost(host string) (*domain.Tenant, error) {
	if domain.NormalizeHost(host) == "" {
		return nil, ErrTenantNotFound
	}

	var tenants []domain.Tenant
	if err := r.db.Preload("Aliases").Where("active = ?", true).Find(&tenants).Error; err != nil {
		return nil, fmt.Errorf("failed to load tenants: %w", err)
	}
	for i := range tenants {
		if tenants[i].MatchesHost(host) {
			return &tenants[i], nil
		}
	}
	return nil, ErrTenantNotFound
}

// Deactivate soft-deactivates a tenant. The record stays in place because
// orders keep referencing it.
func (r *Repository) Deactivate(id string) error {
	result := r.db.Model(&domain.Tenant{}).Where("id = ?", id).Update("active", false)
	if result.Error != nil {
		return fmt.Errorf("failed to deactivate tenant: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTenantNotFound
	}
	return nil
}

// FindAll retrieves every tenant with aliases.
func (r *Repository) FindAll() ([]domain.Tenant, error) {
	var tenants []domain.Tenant
	if err := r.db.Preload("Aliases").Find(&tenants).Error; err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	return tenants, nil
}
