package finance

import (
	"fmt"
	"time"

	domainorder "github.com/example/commerce-backend/domain/order"
	domainproduct "github.com/example/commerce-backend/domain/product"
	"gorm.io/gorm"
)

// Repository reads order and product data for report computation. It is
// constructed per request around the tenant's store handle and never
// writes.
type Repository struct {
	db       *gorm.DB
	tenantID string
}

// NewRepository creates a read-only repository scoped to one tenant.
func NewRepository(db *gorm.DB, tenantID string) *Repository {
	return &Repository{db: db, tenantID: tenantID}
}

// OrdersInWindow loads orders created within [from, to] inclusive, with
// line items. Nil bounds leave that side of the window open.
func (r *Repository) OrdersInWindow(from, to *time.Time) ([]domainorder.Order, error) {
	q := r.db.Preload("Items").Where("tenant_id = ?", r.tenantID)
	if from != nil {
		q = q.Where("created_at >= ?", *from)
	}
	if to != nil {
		q = q.Where("created_at <= ?", *to)
	}

	var orders []domainorder.Order
	if err := q.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to load orders for report: %w", err)
	}
	return orders, nil
}

// Products loads the tenant's full catalog with batches; batch history
// is needed for average unit cost.
func (r *Repository) Products() ([]domainproduct.Product, error) {
	var products []domainproduct.Product
	err := r.db.Preload("Batches").
		Where("tenant_id = ?", r.tenantID).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load products for report: %w", err)
	}
	return products, nil
}
