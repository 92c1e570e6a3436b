package inventory

import (
	"errors"
	"fmt"

	domain "github.com/example/commerce-backend/domain/product"
	"gorm.io/gorm"
)

// Repository provides tenant-scoped access to product storage. It is
// constructed per request around the tenant's store handle.
type Repository struct {
	db       *gorm.DB
	tenantID string
}

// NewRepository creates a product repository bound to one tenant.
func NewRepository(db *gorm.DB, tenantID string) *Repository {
	return &Repository{db: db, tenantID: tenantID}
}

// Create saves a new product.
func (r *Repository) Create(p *domain.Product) error {
	p.TenantID = r.tenantID
	if err := r.db.Create(p).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update updates a product's mutable fields. Batches are managed by the
// ledger, never through updates here.
func (r *Repository) Update(p *domain.Product) error {
	result := r.db.Model(&domain.Product{}).
		Where("id = ? AND tenant_id = ?", p.ID, r.tenantID).
		Select("sku", "name", "price").
		Updates(p)
	if result.Error != nil {
		return fmt.Errorf("failed to update product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// FindByID retrieves a product with its batches.
func (r *Repository) FindByID(id string) (*domain.Product, error) {
	var p domain.Product
	err := r.db.Preload("Batches").
		First(&p, "id = ? AND tenant_id = ?", id, r.tenantID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return &p, nil
}

// FindBySKU retrieves a product by its tenant-unique SKU.
func (r *Repository) FindBySKU(sku string) (*domain.Product, error) {
	var p domain.Product
	err := r.db.Preload("Batches").
		First(&p, "sku = ? AND tenant_id = ?", sku, r.tenantID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return &p, nil
}

// FindAll retrieves every product with batches for the tenant.
func (r *Repository) FindAll() ([]domain.Product, error) {
	var products []domain.Product
	err := r.db.Preload("Batches").
		Where("tenant_id = ?", r.tenantID).
		Order("created_at").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// Delete removes a product (soft delete). Its batches stay in place as
// audit history.
func (r *Repository) Delete(id string) error {
	result := r.db.Where("tenant_id = ?", r.tenantID).Delete(&domain.Product{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// SKUExists checks whether another product already uses the SKU.
func (r *Repository) SKUExists(sku, excludeID string) (bool, error) {
	var count int64
	q := r.db.Model(&domain.Product{}).
		Where("sku = ? AND tenant_id = ?", sku, r.tenantID)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
