package tenant

import (
	"context"
)

// Context is the resolved tenant identity handed to the rest of the system.
// Every data operation downstream is scoped by it.
type Context struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Domain   string   `json:"domain"`
	StoreDSN string   `json:"store_dsn"`
	Active   bool     `json:"active"`
	Settings Settings `json:"settings"`
}

// Settings is the wire form of tenant operational settings. Courier
// credentials cross module boundaries here, never in API responses.
type Settings struct {
	DeliveryFee   float64 `json:"delivery_fee"`
	ReturnFee     float64 `json:"return_fee"`
	CourierAPIKey string  `json:"courier_api_key"`
	CourierSecret string  `json:"courier_secret"`
	CourierMode   string  `json:"courier_mode"`
}

// ResolveRequest resolves a tenant by explicit id or, failing that, by
// request host. TenantID takes precedence when both are set.
type ResolveRequest struct {
	TenantID string `json:"tenant_id,omitempty"`
	Host     string `json:"host,omitempty"`
}

// ResolveResponse carries the resolved tenant context.
type ResolveResponse struct {
	Tenant Context `json:"tenant"`
}

// AliasInput describes one domain alias on create/update.
type AliasInput struct {
	Domain string `json:"domain"`
	Active bool   `json:"active"`
}

// UpsertRequest creates or updates a tenant record.
type UpsertRequest struct {
	ID       string       `json:"id,omitempty"`
	Name     string       `json:"name"`
	Domain   string       `json:"domain"`
	StoreDSN string       `json:"store_dsn,omitempty"`
	Aliases  []AliasInput `json:"aliases,omitempty"`
	Settings *Settings    `json:"settings,omitempty"`
}

// UpsertResponse carries the stored tenant.
type UpsertResponse struct {
	Tenant Context `json:"tenant"`
}

// DeactivateRequest soft-deactivates a tenant. Tenants are never hard
// deleted while orders reference them.
type DeactivateRequest struct {
	TenantID string `json:"tenant_id"`
}

// DeactivateResponse reports the deactivation result.
type DeactivateResponse struct {
	Deactivated bool `json:"deactivated"`
}

// ListRequest lists all tenants.
type ListRequest struct{}

// ListResponse carries all tenant contexts.
type ListResponse struct {
	Tenants []Context `json:"tenants"`
	Total   int       `json:"total"`
}

// TenantPort is the contract other modules use to resolve tenants.
type TenantPort interface {
	Resolve(ctx context.Context, req *ResolveRequest) (*Context, error)
	Upsert(ctx context.Context, req *UpsertRequest) (*Context, error)
	Deactivate(ctx context.Context, tenantID string) error
	List(ctx context.Context) (*ListResponse, error)
}
