package order

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/example/commerce-backend/events"
	"github.com/example/commerce-backend/modules/shipping"
	"github.com/example/commerce-backend/modules/tenant"
	"github.com/example/commerce-backend/store"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	gonanoid "github.com/jaevor/go-nanoid"
)

// orderNumberLen is the length of generated human-facing order numbers.
// Numbers are digits only so they can double as courier invoice refs.
const orderNumberLen = 10

// OrderModule owns the order lifecycle: creation, the status state
// machine, courier handoff and return scanning.
type OrderModule struct {
	router    *store.Router
	tenants   tenant.TenantPort
	shipper   shipping.ShipperPort
	eventBus  mono.EventBus
	newNumber func() string
}

// Compile-time interface checks.
var _ mono.Module = (*OrderModule)(nil)
var _ mono.ServiceProviderModule = (*OrderModule)(nil)
var _ mono.DependentModule = (*OrderModule)(nil)
var _ mono.EventEmitterModule = (*OrderModule)(nil)

// NewModule creates a new OrderModule using the shared store router.
func NewModule(router *store.Router) *OrderModule {
	return &OrderModule{router: router}
}

// Name returns the module name.
func (m *OrderModule) Name() string {
	return "order"
}

// Dependencies returns the list of module dependencies.
func (m *OrderModule) Dependencies() []string {
	return []string{"tenant", "shipping"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *OrderModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "tenant":
		m.tenants = tenant.NewTenantAdapter(container)
	case "shipping":
		m.shipper = shipping.NewShipperAdapter(container)
	}
}

// SetEventBus receives the application event bus.
func (m *OrderModule) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

// EmitEvents declares the events this module publishes.
func (m *OrderModule) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.OrderConfirmedV1.ToBase(),
		events.OrderShippedV1.ToBase(),
		events.OrderDeliveredV1.ToBase(),
		events.OrderReturnedV1.ToBase(),
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *OrderModule) RegisterServices(container mono.ServiceContainer) error {
	services := []struct {
		name     string
		register func() error
	}{
		{"list", func() error {
			return helper.RegisterTypedRequestReplyService(container, "list", json.Unmarshal, json.Marshal, m.list)
		}},
		{"get", func() error {
			return helper.RegisterTypedRequestReplyService(container, "get", json.Unmarshal, json.Marshal, m.get)
		}},
		{"upsert", func() error {
			return helper.RegisterTypedRequestReplyService(container, "upsert", json.Unmarshal, json.Marshal, m.upsert)
		}},
		{"bulk-upsert", func() error {
			return helper.RegisterTypedRequestReplyService(container, "bulk-upsert", json.Unmarshal, json.Marshal, m.bulkUpsert)
		}},
		{"delete", func() error {
			return helper.RegisterTypedRequestReplyService(container, "delete", json.Unmarshal, json.Marshal, m.deleteOrders)
		}},
		{"confirm", func() error {
			return helper.RegisterTypedRequestReplyService(container, "confirm", json.Unmarshal, json.Marshal, m.confirm)
		}},
		{"ship", func() error {
			return helper.RegisterTypedRequestReplyService(container, "ship", json.Unmarshal, json.Marshal, m.ship)
		}},
		{"deliver", func() error {
			return helper.RegisterTypedRequestReplyService(container, "deliver", json.Unmarshal, json.Marshal, m.markDelivered)
		}},
		{"transition", func() error {
			return helper.RegisterTypedRequestReplyService(container, "transition", json.Unmarshal, json.Marshal, m.transition)
		}},
		{"scan-return", func() error {
			return helper.RegisterTypedRequestReplyService(container, "scan-return", json.Unmarshal, json.Marshal, m.scanReturn)
		}},
		{"customer-history", func() error {
			return helper.RegisterTypedRequestReplyService(container, "customer-history", json.Unmarshal, json.Marshal, m.customerHistory)
		}},
	}

	for _, svc := range services {
		if err := svc.register(); err != nil {
			return fmt.Errorf("failed to register %s service: %w", svc.name, err)
		}
	}

	log.Printf("[order] Registered services: services.order.{list,get,upsert,bulk-upsert,delete,confirm,ship,deliver,transition,scan-return,customer-history}")
	return nil
}

// Start verifies dependencies and initializes the order number generator.
func (m *OrderModule) Start(_ context.Context) error {
	if m.tenants == nil {
		return fmt.Errorf("tenant dependency not set")
	}
	if m.shipper == nil {
		return fmt.Errorf("shipping dependency not set")
	}

	gen, err := gonanoid.CustomASCII("0123456789", orderNumberLen)
	if err != nil {
		return fmt.Errorf("failed to initialize order number generator: %w", err)
	}
	m.newNumber = gen

	log.Println("[order] Module started (depends on: tenant, shipping)")
	return nil
}

// Stop shuts down the module.
func (m *OrderModule) Stop(_ context.Context) error {
	log.Println("[order] Module stopped")
	return nil
}
