package inventory

import (
	"errors"
	"fmt"
	"sort"
	"time"

	domain "github.com/example/commerce-backend/domain/product"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrProductNotFound is returned when a product lookup misses.
	ErrProductNotFound = errors.New("product not found")
	// ErrInsufficientStock is returned when FIFO deduction cannot satisfy
	// the requested quantity. Nothing is mutated in that case.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrInvalidQuantity is returned for non-positive batch quantities.
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")
)

// Deduct applies FIFO deduction for the given product quantities inside
// the caller's transaction. Availability of every product is checked
// before any batch is touched, so a failure leaves the ledger unmodified
// (all-or-nothing per order). The order module calls this within the same
// transaction that flips the order status.
func Deduct(tx *gorm.DB, tenantID string, quantities map[string]int) error {
	if len(quantities) == 0 {
		return nil
	}

	// Deterministic walk order.
	productIDs := make([]string, 0, len(quantities))
	for id := range quantities {
		productIDs = append(productIDs, id)
	}
	sort.Strings(productIDs)

	products := make([]*domain.Product, 0, len(productIDs))
	for _, id := range productIDs {
		p, err := loadProduct(tx, tenantID, id)
		if err != nil {
			return err
		}
		if p.LiveStock() < quantities[id] {
			return fmt.Errorf("%w: product %s has %d, requested %d",
				ErrInsufficientStock, p.SKU, p.LiveStock(), quantities[id])
		}
		products = append(products, p)
	}

	for _, p := range products {
		if !p.Consume(quantities[p.ID]) {
			// Pre-checked above; hitting this means a concurrent writer won.
			return fmt.Errorf("%w: product %s", ErrInsufficientStock, p.SKU)
		}
		for i := range p.Batches {
			b := p.Batches[i]
			if err := tx.Model(&domain.StockBatch{}).
				Where("id = ?", b.ID).
				Update("quantity", b.Quantity).Error; err != nil {
				return fmt.Errorf("failed to persist batch %s: %w", b.ID, err)
			}
		}
	}
	return nil
}

// AddBatch appends a new stock batch for a product. Quantity must be
// positive; unit cost is immutable after creation.
func AddBatch(tx *gorm.DB, tenantID, productID string, quantity int, unitCost float64, isReturn bool) (*domain.StockBatch, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if _, err := loadProduct(tx, tenantID, productID); err != nil {
		return nil, err
	}

	batch := &domain.StockBatch{
		ID:        uuid.New().String(),
		ProductID: productID,
		Quantity:  quantity,
		UnitCost:  unitCost,
		IsReturn:  isReturn,
		CreatedAt: time.Now(),
	}
	if err := tx.Create(batch).Error; err != nil {
		return nil, fmt.Errorf("failed to create batch: %w", err)
	}
	return batch, nil
}

// Restock puts returned stock back as a new return-flagged batch. The
// batch carries the product's current average unit cost; the original
// acquisition batches are history and are never resurrected.
func Restock(tx *gorm.DB, tenantID, productID string, quantity int) (*domain.StockBatch, error) {
	p, err := loadProduct(tx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	return AddBatch(tx, tenantID, productID, quantity, p.AverageUnitCost(), true)
}

// loadProduct fetches a tenant-scoped product with its batches.
func loadProduct(tx *gorm.DB, tenantID, productID string) (*domain.Product, error) {
	var p domain.Product
	err := tx.Preload("Batches").
		First(&p, "id = ? AND tenant_id = ?", productID, tenantID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrProductNotFound, productID)
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	return &p, nil
}
