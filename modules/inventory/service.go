package inventory

import (
	"context"
	"fmt"
	"time"

	domain "github.com/example/commerce-backend/domain/product"
	"github.com/example/commerce-backend/modules/tenant"
	"github.com/go-monolith/mono"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// tenantStore resolves the tenant and returns its store handle.
func (m *InventoryModule) tenantStore(ctx context.Context, tenantID string) (*gorm.DB, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("tenant_id is required")
	}
	tc, err := m.tenants.Resolve(ctx, &tenant.ResolveRequest{TenantID: tenantID})
	if err != nil {
		return nil, err
	}
	return m.router.Get(tc.StoreDSN)
}

// listProducts handles the inventory.list service request.
func (m *InventoryModule) listProducts(ctx context.Context, req ListProductsRequest, _ *mono.Msg) (ListProductsResponse, error) {
	db, err := m.tenantStore(ctx, req.TenantID)
	if err != nil {
		return ListProductsResponse{}, err
	}

	products, err := NewRepository(db, req.TenantID).FindAll()
	if err != nil {
		return ListProductsResponse{}, err
	}

	resp := ListProductsResponse{
		Products: make([]ProductResponse, 0, len(products)),
		Total:    len(products),
	}
	for i := range products {
		resp.Products = append(resp.Products, toProductResponse(&products[i]))
	}
	return resp, nil
}

// getProduct handles the inventory.get service request.
func (m *InventoryModule) getProduct(ctx context.Context, req GetProductRequest, _ *mono.Msg) (ProductResponse, error) {
	db, err := m.tenantStore(ctx, req.TenantID)
	if err != nil {
		return ProductResponse{}, err
	}

	p, err := NewRepository(db, req.TenantID).FindByID(req.ProductID)
	if err != nil {
		return ProductResponse{}, err
	}
	return toProductResponse(p), nil
}

// upsertProduct handles the inventory.upsert service request.
func (m *InventoryModule) upsertProduct(ctx context.Context, req UpsertProductRequest, _ *mono.Msg) (ProductResponse, error) {
	if req.SKU == "" {
		return ProductResponse{}, fmt.Errorf("sku is required")
	}
	if req.Name == "" {
		return ProductResponse{}, fmt.Errorf("name is required")
	}
	if req.Price < 0 {
		return ProductResponse{}, fmt.Errorf("price must be non-negative")
	}

	db, err := m.tenantStore(ctx, req.TenantID)
	if err != nil {
		return ProductResponse{}, err
	}
	repo := NewRepository(db, req.TenantID)

	taken, err := repo.SKUExists(req.SKU, req.ID)
	if err != nil {
		return ProductResponse{}, fmt.Errorf("failed to check sku: %w", err)
	}
	if taken {
		return ProductResponse{}, fmt.Errorf("sku already in use: %s", req.SKU)
	}

	p := &domain.Product{
		ID:    req.ID,
		SKU:   req.SKU,
		Name:  req.Name,
		Price: req.Price,
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
		p.CreatedAt = time.Now()
		if err := repo.Create(p); err != nil {
			return ProductResponse{}, err
		}
	} else {
		if err := repo.Update(p); err != nil {
			return ProductResponse{}, err
		}
	}

	stored, err := repo.FindByID(p.ID)
	if err != nil {
		return ProductResponse{}, err
	}
	return toProductResponse(stored), nil
}

// deleteProduct handles the inventory.delete service request.
func (m *InventoryModule) deleteProduct(ctx context.Context, req DeleteProductRequest, _ *mono.Msg) (DeleteProductResponse, error) {
	db, err := m.tenantStore(ctx, req.TenantID)
	if err != nil {
		return DeleteProductResponse{}, err
	}

	if err := NewRepository(db, req.TenantID).Delete(req.ProductID); err != nil {
		return DeleteProductResponse{Deleted: false, ID: req.ProductID}, err
	}
	return DeleteProductResponse{Deleted: true, ID: req.ProductID}, nil
}

// addBatch handles the inventory.add-batch service request.
func (m *InventoryModule) addBatch(ctx context.Context, req AddBatchRequest, _ *mono.Msg) (ProductResponse, error) {
	db, err := m.tenantStore(ctx, req.TenantID)
	if err != nil {
		return ProductResponse{}, err
	}

	if _, err := AddBatch(db, req.TenantID, req.ProductID, req.Quantity, req.UnitCost, false); err != nil {
		return ProductResponse{}, err
	}

	stored, err := NewRepository(db, req.TenantID).FindByID(req.ProductID)
	if err != nil {
		return ProductResponse{}, err
	}
	return toProductResponse(stored), nil
}

// toProductResponse converts a product to its wire form. Batches are
// reported in consumption order.
func toProductResponse(p *domain.Product) ProductResponse {
	p.SortBatches()
	resp := ProductResponse{
		ID:              p.ID,
		SKU:             p.SKU,
		Name:            p.Name,
		Price:           p.Price,
		LiveStock:       p.LiveStock(),
		CostValue:       p.CostValue(),
		AverageUnitCost: p.AverageUnitCost(),
		Batches:         make([]BatchResponse, 0, len(p.Batches)),
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
	for _, b := range p.Batches {
		resp.Batches = append(resp.Batches, BatchResponse{
			ID:        b.ID,
			Quantity:  b.Quantity,
			UnitCost:  b.UnitCost,
			IsReturn:  b.IsReturn,
			CreatedAt: b.CreatedAt,
		})
	}
	return resp
}
