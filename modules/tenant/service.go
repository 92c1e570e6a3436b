package tenant

import (
	"context"
	"fmt"
	"time"

	domain "github.com/example/commerce-backend/domain/tenant"
	"github.com/go-monolith/mono"
	"github.com/google/uuid"
)

// resolve handles the tenant.resolve service request. An explicit tenant id
// takes precedence; otherwise the request host is matched against primary
// domains and active aliases.
func (m *TenantModule) resolve(_ context.Context, req ResolveRequest, _ *mono.Msg) (ResolveResponse, error) {
	var (
		t   *domain.Tenant
		err error
	)
	switch {
	case req.TenantID != "":
		t, err = m.repo.FindByID(req.TenantID)
	case req.Host != "":
		t, err = m.repo.FindByHost(req.Host)
	default:
		return ResolveResponse{}, fmt.Errorf("tenant_id or host is required")
	}
	if err != nil {
		return ResolveResponse{}, err
	}

	return ResolveResponse{Tenant: toContext(t)}, nil
}

// upsert handles the tenant.upsert service request.
func (m *TenantModule) upsert(_ context.Context, req UpsertRequest, _ *mono.Msg) (UpsertResponse, error) {
	if req.Name == "" {
		return UpsertResponse{}, fmt.Errorf("name is required")
	}

	t := &domain.Tenant{
		ID:       req.ID,
		Name:     req.Name,
		Domain:   domain.NormalizeHost(req.Domain),
		StoreDSN: req.StoreDSN,
		Active:   true,
	}
	if req.Settings != nil {
		t.Settings = domain.Settings{
			DeliveryFee:   req.Settings.DeliveryFee,
			ReturnFee:     req.Settings.ReturnFee,
			CourierAPIKey: req.Settings.CourierAPIKey,
			CourierSecret: req.Settings.CourierSecret,
			CourierMode:   req.Settings.CourierMode,
		}
	}
	for _, a := range req.Aliases {
		t.Aliases = append(t.Aliases, domain.DomainAlias{
			Domain: domain.NormalizeHost(a.Domain),
			Active: a.Active,
		})
	}

	if t.ID == "" {
		t.ID = uuid.New().String()
		t.CreatedAt = time.Now()
		for i := range t.Aliases {
			t.Aliases[i].TenantID = t.ID
		}
		if err := m.repo.Create(t); err != nil {
			return UpsertResponse{}, err
		}
	} else {
		existing, err := m.repo.FindByID(t.ID)
		if err != nil {
			return UpsertResponse{}, err
		}
		// Deactivation happens via its own operation, keep current flag.
		t.Active = existing.Active
		if req.Settings == nil {
			t.Settings = existing.Settings
		}
		if err := m.repo.Update(t); err != nil {
			return UpsertResponse{}, err
		}
	}

	stored, err := m.repo.FindByID(t.ID)
	if err != nil {
		return UpsertResponse{}, err
	}
	return UpsertResponse{Tenant: toContext(stored)}, nil
}

// deactivate handles the tenant.deactivate service request.
func (m *TenantModule) deactivate(_ context.Context, req DeactivateRequest, _ *mono.Msg) (DeactivateResponse, error) {
	if req.TenantID == "" {
		return DeactivateResponse{}, fmt.Errorf("tenant_id is required")
	}
	if err := m.repo.Deactivate(req.TenantID); err != nil {
		return DeactivateResponse{Deactivated: false}, err
	}
	return DeactivateResponse{Deactivated: true}, nil
}

// list handles the tenant.list service request.
func (m *TenantModule) list(_ context.Context, _ ListRequest, _ *mono.Msg) (ListResponse, error) {
	tenants, err := m.repo.FindAll()
	if err != nil {
		return ListResponse{}, err
	}

	resp := ListResponse{
		Tenants: make([]Context, 0, len(tenants)),
		Total:   len(tenants),
	}
	for i := range tenants {
		resp.Tenants = append(resp.Tenants, toContext(&tenants[i]))
	}
	return resp, nil
}

// toContext converts a stored tenant to its wire context.
func toContext(t *domain.Tenant) Context {
	return Context{
		ID:       t.ID,
		Name:     t.Name,
		Domain:   t.Domain,
		StoreDSN: t.StoreDSN,
		Active:   t.Active,
		Settings: Settings{
			DeliveryFee:   t.Settings.DeliveryFee,
			ReturnFee:     t.Settings.ReturnFee,
			CourierAPIKey: t.Settings.CourierAPIKey,
			CourierSecret: t.Settings.CourierSecret,
			CourierMode:   t.Settings.CourierMode,
		},
	}
}
