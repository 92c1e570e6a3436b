package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/example/commerce-backend/modules/tenant"
	"github.com/example/commerce-backend/store"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// InventoryModule owns product records and the batch-based stock ledger.
type InventoryModule struct {
	router  *store.Router
	tenants tenant.TenantPort
}

// Compile-time interface checks.
var _ mono.Module = (*InventoryModule)(nil)
var _ mono.ServiceProviderModule = (*InventoryModule)(nil)
var _ mono.DependentModule = (*InventoryModule)(nil)

// NewModule creates a new InventoryModule using the shared store router.
func NewModule(router *store.Router) *InventoryModule {
	return &InventoryModule{router: router}
}

// Name returns the module name.
func (m *InventoryModule) Name() string {
	return "inventory"
}

// Dependencies returns the list of module dependencies.
func (m *InventoryModule) Dependencies() []string {
	return []string{"tenant"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *InventoryModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	if dependency == "tenant" {
		m.tenants = tenant.NewTenantAdapter(container)
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *InventoryModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "list", json.Unmarshal, json.Marshal, m.listProducts,
	); err != nil {
		return fmt.Errorf("failed to register list service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "get", json.Unmarshal, json.Marshal, m.getProduct,
	); err != nil {
		return fmt.Errorf("failed to register get service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "upsert", json.Unmarshal, json.Marshal, m.upsertProduct,
	); err != nil {
		return fmt.Errorf("failed to register upsert service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "delete", json.Unmarshal, json.Marshal, m.deleteProduct,
	); err != nil {
		return fmt.Errorf("failed to register delete service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "add-batch", json.Unmarshal, json.Marshal, m.addBatch,
	); err != nil {
		return fmt.Errorf("failed to register add-batch service: %w", err)
	}

	log.Printf("[inventory] Registered services: services.inventory.{list,get,upsert,delete,add-batch}")
	return nil
}

// Start verifies dependencies.
func (m *InventoryModule) Start(_ context.Context) error {
	if m.tenants == nil {
		return fmt.Errorf("tenant dependency not set")
	}
	log.Println("[inventory] Module started (depends on: tenant)")
	return nil
}

// Stop shuts down the module.
func (m *InventoryModule) Stop(_ context.Context) error {
	log.Println("[inventory] Module stopped")
	return nil
}
