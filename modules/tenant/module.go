package tenant

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/example/commerce-backend/store"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"gorm.io/gorm"
)

// TenantModule owns tenant records and request-to-store routing. It is the
// basis of data isolation: every downstream query runs against the handle
// returned for the resolved tenant.
type TenantModule struct {
	router *store.Router
	db     *gorm.DB
	repo   *Repository
}

// Compile-time interface checks.
var _ mono.Module = (*TenantModule)(nil)
var _ mono.ServiceProviderModule = (*TenantModule)(nil)
var _ mono.HealthCheckableModule = (*TenantModule)(nil)

// NewModule creates a new TenantModule using the shared store router.
func NewModule(router *store.Router) *TenantModule {
	return &TenantModule{router: router}
}

// Name returns the module name.
func (m *TenantModule) Name() string {
	return "tenant"
}

// RegisterServices registers request-reply services in the service container.
func (m *TenantModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "resolve", json.Unmarshal, json.Marshal, m.resolve,
	); err != nil {
		return fmt.Errorf("failed to register resolve service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "upsert", json.Unmarshal, json.Marshal, m.upsert,
	); err != nil {
		return fmt.Errorf("failed to register upsert service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "deactivate", json.Unmarshal, json.Marshal, m.deactivate,
	); err != nil {
		return fmt.Errorf("failed to register deactivate service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "list", json.Unmarshal, json.Marshal, m.list,
	); err != nil {
		return fmt.Errorf("failed to register list service: %w", err)
	}

	log.Printf("[tenant] Registered services: services.tenant.{resolve,upsert,deactivate,list}")
	return nil
}

// Start opens the core store and prepares the repository.
func (m *TenantModule) Start(_ context.Context) error {
	db, err := m.router.Default()
	if err != nil {
		return fmt.Errorf("failed to open core store: %w", err)
	}
	m.db = db
	m.repo = NewRepository(db)

	log.Println("[tenant] Module started")
	return nil
}

// Stop shuts down the module. Store handles are owned by the router and
// closed at application teardown.
func (m *TenantModule) Stop(_ context.Context) error {
	log.Println("[tenant] Module stopped")
	return nil
}

// Health reports on the core store connection.
func (m *TenantModule) Health(ctx context.Context) mono.HealthStatus {
	if m.db == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "core store not initialized",
		}
	}

	sqlDB, err := m.db.DB()
	if err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("failed to get sql.DB: %v", err),
		}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("core store ping failed: %v", err),
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"open_endpoints": m.router.Open(),
		},
	}
}
