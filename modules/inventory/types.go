package inventory

import (
	"context"
	"time"
)

// BatchResponse is the wire form of a stock batch.
type BatchResponse struct {
	ID        string    `json:"id"`
	Quantity  int       `json:"quantity"`
	UnitCost  float64   `json:"unit_cost"`
	IsReturn  bool      `json:"is_return"`
	CreatedAt time.Time `json:"created_at"`
}

// ProductResponse is the wire form of a product with derived stock figures.
type ProductResponse struct {
	ID              string          `json:"id"`
	SKU             string          `json:"sku"`
	Name            string          `json:"name"`
	Price           float64         `json:"price"`
	LiveStock       int             `json:"live_stock"`
	CostValue       float64         `json:"cost_value"`
	AverageUnitCost float64         `json:"average_unit_cost"`
	Batches         []BatchResponse `json:"batches"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ListProductsRequest lists a tenant's products.
type ListProductsRequest struct {
	TenantID string `json:"tenant_id"`
}

// ListProductsResponse carries all products for a tenant.
type ListProductsResponse struct {
	Products []ProductResponse `json:"products"`
	Total    int               `json:"total"`
}

// GetProductRequest fetches one product.
type GetProductRequest struct {
	TenantID  string `json:"tenant_id"`
	ProductID string `json:"product_id"`
}

// UpsertProductRequest creates or updates a product.
type UpsertProductRequest struct {
	TenantID string  `json:"tenant_id"`
	ID       string  `json:"id,omitempty"`
	SKU      string  `json:"sku"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
}

// DeleteProductRequest deletes a product.
type DeleteProductRequest struct {
	TenantID  string `json:"tenant_id"`
	ProductID string `json:"product_id"`
}

// DeleteProductResponse reports the deletion result.
type DeleteProductResponse struct {
	Deleted bool   `json:"deleted"`
	ID      string `json:"id"`
}

// AddBatchRequest appends a stock batch on purchase receipt.
type AddBatchRequest struct {
	TenantID  string  `json:"tenant_id"`
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	UnitCost  float64 `json:"unit_cost"`
}

// InventoryPort is the contract the API layer uses for product and
// stock operations.
type InventoryPort interface {
	ListProducts(ctx context.Context, tenantID string) (*ListProductsResponse, error)
	GetProduct(ctx context.Context, tenantID, productID string) (*ProductResponse, error)
	UpsertProduct(ctx context.Context, req *UpsertProductRequest) (*ProductResponse, error)
	DeleteProduct(ctx context.Context, tenantID, productID string) error
	AddBatch(ctx context.Context, req *AddBatchRequest) (*ProductResponse, error)
}
