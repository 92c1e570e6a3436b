package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/example/commerce-backend/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// maxTrailEntries bounds the in-memory trail; oldest entries are
// dropped once the cap is reached.
const maxTrailEntries = 10000

// Entry is one recorded lifecycle event.
type Entry struct {
	OrderID   string    `json:"order_id"`
	TenantID  string    `json:"tenant_id"`
	Kind      string    `json:"kind"`
	Detail    string    `json:"detail"`
	Timestamp time.Time `json:"timestamp"`
}

// TrailRequest fetches recent audit entries, optionally scoped to a
// tenant.
type TrailRequest struct {
	TenantID string `json:"tenant_id,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

// TrailResponse carries audit entries, newest first.
type TrailResponse struct {
	Entries []Entry `json:"entries"`
	Total   int     `json:"total"`
}

// AuditPort is the contract the API layer uses to read the audit trail.
type AuditPort interface {
	Trail(ctx context.Context, req *TrailRequest) (*TrailResponse, error)
}

// AuditModule records order lifecycle events into an in-memory trail.
// It subscribes to the order events and never calls back into the
// order module.
type AuditModule struct {
	mu      sync.RWMutex
	entries []Entry
}

// Compile-time interface checks.
var _ mono.Module = (*AuditModule)(nil)
var _ mono.EventConsumerModule = (*AuditModule)(nil)
var _ mono.ServiceProviderModule = (*AuditModule)(nil)

// NewModule creates a new AuditModule.
func NewModule() *AuditModule {
	return &AuditModule{entries: make([]Entry, 0)}
}

// Name returns the module name.
func (m *AuditModule) Name() string {
	return "audit"
}

// RegisterEventConsumers subscribes to the order lifecycle events.
func (m *AuditModule) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(registry, events.OrderConfirmedV1, m.handleConfirmed, m); err != nil {
		return fmt.Errorf("failed to register OrderConfirmed consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.OrderShippedV1, m.handleShipped, m); err != nil {
		return fmt.Errorf("failed to register OrderShipped consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.OrderDeliveredV1, m.handleDelivered, m); err != nil {
		return fmt.Errorf("failed to register OrderDelivered consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.OrderReturnedV1, m.handleReturned, m); err != nil {
		return fmt.Errorf("failed to register OrderReturned consumer: %w", err)
	}

	log.Printf("[audit] Registered event consumers: OrderConfirmed, OrderShipped, OrderDelivered, OrderReturned")
	return nil
}

func (m *AuditModule) handleConfirmed(_ context.Context, event events.OrderConfirmedEvent, _ *mono.Msg) error {
	m.record(Entry{
		OrderID:   event.OrderID,
		TenantID:  event.TenantID,
		Kind:      "order_confirmed",
		Detail:    fmt.Sprintf("Order %s confirmed, total %.2f", event.Number, event.TotalAmount),
		Timestamp: event.ConfirmedAt,
	})
	return nil
}

func (m *AuditModule) handleShipped(_ context.Context, event events.OrderShippedEvent, _ *mono.Msg) error {
	m.record(Entry{
		OrderID:   event.OrderID,
		TenantID:  event.TenantID,
		Kind:      "order_shipped",
		Detail:    fmt.Sprintf("Shipment accepted, tracking %s", event.TrackingNumber),
		Timestamp: event.ShippedAt,
	})
	return nil
}

func (m *AuditModule) handleDelivered(_ context.Context, event events.OrderDeliveredEvent, _ *mono.Msg) error {
	m.record(Entry{
		OrderID:   event.OrderID,
		TenantID:  event.TenantID,
		Kind:      "order_delivered",
		Detail:    fmt.Sprintf("Delivered, total %.2f", event.TotalAmount),
		Timestamp: event.DeliveredAt,
	})
	return nil
}

func (m *AuditModule) handleReturned(_ context.Context, event events.OrderReturnedEvent, _ *mono.Msg) error {
	detail := "Return completed"
	if event.Restocked {
		detail = "Return completed, stock restored"
	}
	m.record(Entry{
		OrderID:   event.OrderID,
		TenantID:  event.TenantID,
		Kind:      "order_returned",
		Detail:    detail,
		Timestamp: event.ReturnedAt,
	})
	return nil
}

// record appends one entry, evicting the oldest past the cap.
func (m *AuditModule) record(e Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = append(m.entries, e)
	if len(m.entries) > maxTrailEntries {
		m.entries = m.entries[len(m.entries)-maxTrailEntries:]
	}
}

// RegisterServices registers the trail query service.
func (m *AuditModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "trail", json.Unmarshal, json.Marshal, m.trail,
	); err != nil {
		return fmt.Errorf("failed to register trail service: %w", err)
	}

	log.Printf("[audit] Registered services: services.audit.trail")
	return nil
}

// trail handles the audit.trail service request, newest entries first.
func (m *AuditModule) trail(_ context.Context, req TrailRequest, _ *mono.Msg) (TrailResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = 100
	}
	if limit > maxTrailEntries {
		limit = maxTrailEntries
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	resp := TrailResponse{Entries: make([]Entry, 0, limit)}
	for i := len(m.entries) - 1; i >= 0 && len(resp.Entries) < limit; i-- {
		e := m.entries[i]
		if req.TenantID != "" && e.TenantID != req.TenantID {
			continue
		}
		resp.Entries = append(resp.Entries, e)
	}
	resp.Total = len(resp.Entries)
	return resp, nil
}

// Start initializes the module.
func (m *AuditModule) Start(_ context.Context) error {
	log.Println("[audit] Module started - listening for order events")
	return nil
}

// Stop shuts down the module.
func (m *AuditModule) Stop(_ context.Context) error {
	log.Println("[audit] Module stopped")
	return nil
}
