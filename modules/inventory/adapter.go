package inventory

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// inventoryAdapter wraps ServiceContainer for type-safe cross-module calls.
type inventoryAdapter struct {
	container mono.ServiceContainer
}

// NewInventoryAdapter creates an adapter for inventory services.
func NewInventoryAdapter(container mono.ServiceContainer) InventoryPort {
	if container == nil {
		panic("inventory adapter requires non-nil ServiceContainer")
	}
	return &inventoryAdapter{container: container}
}

// ListProducts lists products via the list service.
func (a *inventoryAdapter) ListProducts(ctx context.Context, tenantID string) (*ListProductsResponse, error) {
	req := ListProductsRequest{TenantID: tenantID}
	var resp ListProductsResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"list",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("list service call failed: %w", err)
	}
	return &resp, nil
}

// GetProduct fetches one product via the get service.
func (a *inventoryAdapter) GetProduct(ctx context.Context, tenantID, productID string) (*ProductResponse, error) {
	req := GetProductRequest{TenantID: tenantID, ProductID: productID}
	var resp ProductResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"get",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("get service call failed: %w", err)
	}
	return &resp, nil
}

// UpsertProduct creates or updates a product via the upsert service.
func (a *inventoryAdapter) UpsertProduct(ctx context.Context, req *UpsertProductRequest) (*ProductResponse, error) {
	var resp ProductResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"upsert",
		json.Marshal,
		json.Unmarshal,
		req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("upsert service call failed: %w", err)
	}
	return &resp, nil
}

// DeleteProduct deletes a product via the delete service.
func (a *inventoryAdapter) DeleteProduct(ctx context.Context, tenantID, productID string) error {
	req := DeleteProductRequest{TenantID: tenantID, ProductID: productID}
	var resp DeleteProductResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"delete",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return fmt.Errorf("delete service call failed: %w", err)
	}
	if !resp.Deleted {
		return fmt.Errorf("product not deleted: %s", productID)
	}
	return nil
}

// AddBatch appends a stock batch via the add-batch service.
func (a *inventoryAdapter) AddBatch(ctx context.Context, req *AddBatchRequest) (*ProductResponse, error) {
	var resp ProductResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"add-batch",
		json.Marshal,
		json.Unmarshal,
		req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("add-batch service call failed: %w", err)
	}
	return &resp, nil
}
