package inventory

import (
	"errors"
	"testing"
	"time"

	domain "github.com/example/commerce-backend/domain/product"
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
	if err := db.AutoMigrate(&domain.Product{}, &domain.StockBatch{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, tenantID, sku string, batches ...domain.StockBatch) *domain.Product {
	t.Helper()

	p := &domain.Product{
		ID:       uuid.New().String(),
		TenantID: tenantID,
		SKU:      sku,
		Name:     "Product " + sku,
		Price:    1000,
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("failed to seed product: %v", err)
	}
	for i := range batches {
		batches[i].ID = uuid.New().String()
		batches[i].ProductID = p.ID
		if err := db.Create(&batches[i]).Error; err != nil {
			t.Fatalf("failed to seed batch: %v", err)
		}
	}
	return p
}

func batchQuantities(t *testing.T, db *gorm.DB, productID string) []int {
	t.Helper()

	var batches []domain.StockBatch
	if err := db.Order("created_at asc, id asc").Find(&batches, "product_id = ?", productID).Error; err != nil {
		t.Fatalf("failed to load batches: %v", err)
	}
	out := make([]int, len(batches))
	for i, b := range batches {
		out[i] = b.Quantity
	}
	return out
}

func TestDeduct_FIFO(t *testing.T) {
	db := setupTestDB(t)
	t0 := time.Now().Add(-2 * time.Hour)
	t1 := time.Now().Add(-1 * time.Hour)
	p := seedProduct(t, db, "t1", "SKU-1",
		domain.StockBatch{Quantity: 5, UnitCost: 100, CreatedAt: t0},
		domain.StockBatch{Quantity: 5, UnitCost: 120, CreatedAt: t1},
	)

	if err := Deduct(db, "t1", map[string]int{p.ID: 7}); err != nil {
		t.Fatalf("Deduct() error = %v", err)
	}

	got := batchQuantities(t, db, p.ID)
	if len(got) != 2 || got[0] != 0 || got[1] != 3 {
		t.Errorf("batch quantities = %v, want [0 3]", got)
	}
}

func TestDeduct_InsufficientStockLeavesLedgerUntouched(t *testing.T) {
	db := setupTestDB(t)
	p := seedProduct(t, db, "t1", "SKU-1",
		domain.StockBatch{Quantity: 5, UnitCost: 100, CreatedAt: time.Now().Add(-time.Hour)},
		domain.StockBatch{Quantity: 5, UnitCost: 120, CreatedAt: time.Now()},
	)

	err := Deduct(db, "t1", map[string]int{p.ID: 11})
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("Deduct() error = %v, want ErrInsufficientStock", err)
	}

	got := batchQuantities(t, db, p.ID)
	if got[0] != 5 || got[1] != 5 {
		t.Errorf("batch quantities = %v after failed deduct, want [5 5]", got)
	}
}

func TestDeduct_AllOrNothingAcrossProducts(t *testing.T) {
	db := setupTestDB(t)
	rich := seedProduct(t, db, "t1", "SKU-RICH",
		domain.StockBatch{Quantity: 10, UnitCost: 100, CreatedAt: time.Now()},
	)
	poor := seedProduct(t, db, "t1", "SKU-POOR",
		domain.StockBatch{Quantity: 1, UnitCost: 100, CreatedAt: time.Now()},
	)

	err := Deduct(db, "t1", map[string]int{rich.ID: 5, poor.ID: 2})
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("Deduct() error = %v, want ErrInsufficientStock", err)
	}

	// The satisfiable product must not have been touched either.
	if got := batchQuantities(t, db, rich.ID); got[0] != 10 {
		t.Errorf("rich product quantity = %v, want untouched 10", got[0])
	}
	if got := batchQuantities(t, db, poor.ID); got[0] != 1 {
		t.Errorf("poor product quantity = %v, want untouched 1", got[0])
	}
}

func TestDeduct_TenantScoped(t *testing.T) {
	db := setupTestDB(t)
	p := seedProduct(t, db, "t1", "SKU-1",
		domain.StockBatch{Quantity: 5, UnitCost: 100, CreatedAt: time.Now()},
	)

	err := Deduct(db, "t2", map[string]int{p.ID: 1})
	if !errors.Is(err, ErrProductNotFound) {
		t.Errorf("Deduct() across tenants error = %v, want ErrProductNotFound", err)
	}
}

func TestAddBatch(t *testing.T) {
	db := setupTestDB(t)
	p := seedProduct(t, db, "t1", "SKU-1")

	batch, err := AddBatch(db, "t1", p.ID, 10, 250, false)
	if err != nil {
		t.Fatalf("AddBatch() error = %v", err)
	}
	if batch.Quantity != 10 || batch.UnitCost != 250 || batch.IsReturn {
		t.Errorf("batch = %+v, want qty 10, cost 250, not return-flagged", batch)
	}

	if _, err := AddBatch(db, "t1", p.ID, 0, 250, false); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("AddBatch(qty=0) error = %v, want ErrInvalidQuantity", err)
	}
	if _, err := AddBatch(db, "t1", "missing", 5, 250, false); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("AddBatch(missing product) error = %v, want ErrProductNotFound", err)
	}
}

func TestRestock_UsesAverageUnitCost(t *testing.T) {
	db := setupTestDB(t)
	p := seedProduct(t, db, "t1", "SKU-1",
		domain.StockBatch{Quantity: 0, UnitCost: 100, CreatedAt: time.Now().Add(-time.Hour)},
		domain.StockBatch{Quantity: 5, UnitCost: 300, CreatedAt: time.Now()},
	)

	batch, err := Restock(db, "t1", p.ID, 2)
	if err != nil {
		t.Fatalf("Restock() error = %v", err)
	}
	if !batch.IsReturn {
		t.Error("restocked batch not return-flagged")
	}
	// Simple mean of 100 and 300, computed before the new batch lands.
	if batch.UnitCost != 200 {
		t.Errorf("restocked batch unit cost = %v, want 200", batch.UnitCost)
	}

	var count int64
	if err := db.Model(&domain.StockBatch{}).Where("product_id = ?", p.ID).Count(&count).Error; err != nil {
		t.Fatalf("failed to count batches: %v", err)
	}
	if count != 3 {
		t.Errorf("batch count = %d, want 3 (zeroed batch retained)", count)
	}
}
