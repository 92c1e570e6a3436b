package order

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// orderAdapter wraps ServiceContainer for type-safe cross-module calls.
type orderAdapter struct {
	container mono.ServiceContainer
}

// NewOrderAdapter creates an adapter for order services.
func NewOrderAdapter(container mono.ServiceContainer) OrderPort {
	if container == nil {
		panic("order adapter requires non-nil ServiceContainer")
	}
	return &orderAdapter{container: container}
}

func call[T any](ctx context.Context, container mono.ServiceContainer, name string, req any, resp *T) error {
	if err := helper.CallRequestReplyService(
		ctx,
		container,
		name,
		json.Marshal,
		json.Unmarshal,
		req,
		resp,
	); err != nil {
		return fmt.Errorf("%s service call failed: %w", name, err)
	}
	return nil
}

// List lists orders via the list service.
func (a *orderAdapter) List(ctx context.Context, req *ListOrdersRequest) (*ListOrdersResponse, error) {
	var resp ListOrdersResponse
	if err := call(ctx, a.container, "list", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Get fetches one order via the get service.
func (a *orderAdapter) Get(ctx context.Context, tenantID, orderID string) (*OrderResponse, error) {
	req := GetOrderRequest{TenantID: tenantID, OrderID: orderID}
	var resp OrderResponse
	if err := call(ctx, a.container, "get", &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Upsert creates or updates an order via the upsert service.
func (a *orderAdapter) Upsert(ctx context.Context, req *UpsertOrderRequest) (*OrderResponse, error) {
	var resp OrderResponse
	if err := call(ctx, a.container, "upsert", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// BulkUpsert applies order upserts per record via the bulk-upsert service.
func (a *orderAdapter) BulkUpsert(ctx context.Context, req *BulkUpsertRequest) (*BulkUpsertResponse, error) {
	var resp BulkUpsertResponse
	if err := call(ctx, a.container, "bulk-upsert", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Delete removes orders via the delete service.
func (a *orderAdapter) Delete(ctx context.Context, req *DeleteOrdersRequest) (*DeleteOrdersResponse, error) {
	var resp DeleteOrdersResponse
	if err := call(ctx, a.container, "delete", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Confirm confirms an order via the confirm service.
func (a *orderAdapter) Confirm(ctx context.Context, req *ActionRequest) (*OrderResponse, error) {
	var resp OrderResponse
	if err := call(ctx, a.container, "confirm", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Ship hands an order to the courier via the ship service.
func (a *orderAdapter) Ship(ctx context.Context, req *ActionRequest) (*OrderResponse, error) {
	var resp OrderResponse
	if err := call(ctx, a.container, "ship", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// MarkDelivered marks an order delivered via the deliver service.
func (a *orderAdapter) MarkDelivered(ctx context.Context, req *ActionRequest) (*OrderResponse, error) {
	var resp OrderResponse
	if err := call(ctx, a.container, "deliver", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Transition applies a manual status move via the transition service.
func (a *orderAdapter) Transition(ctx context.Context, req *TransitionRequest) (*OrderResponse, error) {
	var resp OrderResponse
	if err := call(ctx, a.container, "transition", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ScanReturn completes a return via the scan-return service.
func (a *orderAdapter) ScanReturn(ctx context.Context, req *ScanReturnRequest) (*ScanReturnResponse, error) {
	var resp ScanReturnResponse
	if err := call(ctx, a.container, "scan-return", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CustomerHistory fetches phone-keyed counts via the customer-history service.
func (a *orderAdapter) CustomerHistory(ctx context.Context, tenantID, phone string) (*CustomerHistoryResponse, error) {
	req := CustomerHistoryRequest{TenantID: tenantID, Phone: phone}
	var resp CustomerHistoryResponse
	if err := call(ctx, a.container, "customer-history", &req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
