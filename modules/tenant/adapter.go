package tenant

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// tenantAdapter wraps ServiceContainer for type-safe cross-module calls.
type tenantAdapter struct {
	container mono.ServiceContainer
}

// NewTenantAdapter creates an adapter for tenant services.
func NewTenantAdapter(container mono.ServiceContainer) TenantPort {
	if container == nil {
		panic("tenant adapter requires non-nil ServiceContainer")
	}
	return &tenantAdapter{container: container}
}

// Resolve resolves a tenant via the resolve service.
func (a *tenantAdapter) Resolve(ctx context.Context, req *ResolveRequest) (*Context, error) {
	var resp ResolveResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"resolve",
		json.Marshal,
		json.Unmarshal,
		req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("resolve service call failed: %w", err)
	}
	return &resp.Tenant, nil
}

// Upsert creates or updates a tenant via the upsert service.
func (a *tenantAdapter) Upsert(ctx context.Context, req *UpsertRequest) (*Context, error) {
	var resp UpsertResponse
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
	return &resp.Tenant, nil
}

// Deactivate soft-deactivates a tenant via the deactivate service.
func (a *tenantAdapter) Deactivate(ctx context.Context, tenantID string) error {
	req := DeactivateRequest{TenantID: tenantID}
	var resp DeactivateResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"deactivate",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return fmt.Errorf("deactivate service call failed: %w", err)
	}
	if !resp.Deactivated {
		return fmt.Errorf("tenant not deactivated: %s", tenantID)
	}
	return nil
}

// List lists all tenants via the list service.
func (a *tenantAdapter) List(ctx context.Context) (*ListResponse, error) {
	req := ListRequest{}
	var resp ListResponse
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
