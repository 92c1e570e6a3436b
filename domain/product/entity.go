package product

import (
	"sort"
	"time"

	"gorm.io/gorm"
)

// Product represents a sellable item owned by a single tenant.
// Stock is tracked as an ordered collection of batches, consumed oldest-first.
type Product struct {
	ID        string         `gorm:"primarykey;size:36" json:"id"`
	TenantID  string         `gorm:"size:36;not null;uniqueIndex:idx_tenant_sku" json:"tenant_id"`
	SKU       string         `gorm:"size:64;not null;uniqueIndex:idx_tenant_sku" json:"sku"`
	Name      string         `gorm:"size:200;not null" json:"name"`
	Price     float64        `gorm:"not null" json:"price"`
	Batches   []StockBatch   `gorm:"foreignKey:ProductID" json:"batches"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// TableName returns the table name for Product model.
func (Product) TableName() string {
	return "products"
}

// StockBatch is a discrete stock receipt. Once created a batch is never
// deleted, even at zero quantity; it is permanent audit history. UnitCost
// is fixed at creation time.
type StockBatch struct {
	ID        string    `gorm:"primarykey;size:36" json:"id"`
	ProductID string    `gorm:"size:36;index;not null" json:"product_id"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	UnitCost  float64   `gorm:"not null" json:"unit_cost"`
	IsReturn  bool      `gorm:"not null;default:false" json:"is_return"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// TableName returns the table name for StockBatch model.
func (StockBatch) TableName() string {
	return "stock_batches"
}

// SortBatches orders the product's batches by creation time ascending.
// Timestamps are the source of truth for consumption order, not insertion
// index; batch ID breaks ties deterministically.
func (p *Product) SortBatches() {
	sort.SliceStable(p.Batches, func(i, j int) bool {
		bi, bj := p.Batches[i], p.Batches[j]
		if bi.CreatedAt.Equal(bj.CreatedAt) {
			return bi.ID < bj.ID
		}
		return bi.CreatedAt.Before(bj.CreatedAt)
	})
}

// LiveStock returns the total sellable quantity across all batches.
func (p *Product) LiveStock() int {
	total := 0
	for _, b := range p.Batches {
		total += b.Quantity
	}
	return total
}

// CostValue returns the acquisition value of the remaining stock.
func (p *Product) CostValue() float64 {
	total := 0.0
	for _, b := range p.Batches {
		total += float64(b.Quantity) * b.UnitCost
	}
	return total
}

// AverageUnitCost returns the simple mean unit cost across all batches.
// This is intentionally not quantity-weighted; the financial engine uses
// the same figure for cost-of-goods.
func (p *Product) AverageUnitCost() float64 {
	if len(p.Batches) == 0 {
		return 0
	}
	total := 0.0
	for _, b := range p.Batches {
		total += b.UnitCost
	}
	return total / float64(len(p.Batches))
}

// Consume deducts quantity from the product's batches oldest-first.
// It reports false and leaves every batch untouched when total stock
// cannot cover the request; deduction is all-or-nothing. Zeroed batches
// are kept in place.
func (p *Product) Consume(quantity int) bool {
	if quantity <= 0 {
		return quantity == 0
	}
	if p.LiveStock() < quantity {
		return false
	}

	p.SortBatches()
	remaining := quantity
	for i := range p.Batches {
		if remaining == 0 {
			break
		}
		b := &p.Batches[i]
		if b.Quantity >= remaining {
			b.Quantity -= remaining
			remaining = 0
		} else {
			remaining -= b.Quantity
			b.Quantity = 0
		}
	}
	return true
}
