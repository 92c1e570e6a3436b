package shipping

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// ShippingModule is the adapter to the external courier service.
type ShippingModule struct {
	client  *Client
	baseURL string
}

// Compile-time interface checks.
var _ mono.Module = (*ShippingModule)(nil)
var _ mono.ServiceProviderModule = (*ShippingModule)(nil)

// NewModule creates a new ShippingModule. The courier base URL comes from
// the environment unless overridden.
func NewModule() *ShippingModule {
	baseURL := os.Getenv("COURIER_BASE_URL")
	if baseURL == "" {
		baseURL = "https://courier.example.com"
	}
	return &ShippingModule{baseURL: baseURL}
}

// NewModuleWithBaseURL creates a ShippingModule against a specific courier
// endpoint. Used by tests.
func NewModuleWithBaseURL(baseURL string) *ShippingModule {
	return &ShippingModule{baseURL: baseURL}
}

// Name returns the module name.
func (m *ShippingModule) Name() string {
	return "shipping"
}

// RegisterServices registers request-reply services in the service container.
func (m *ShippingModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "create", json.Unmarshal, json.Marshal, m.createShipment,
	); err != nil {
		return fmt.Errorf("failed to register create service: %w", err)
	}

	log.Printf("[shipping] Registered services: services.shipping.create")
	return nil
}

// Start initializes the courier client.
func (m *ShippingModule) Start(_ context.Context) error {
	m.client = NewClient(m.baseURL)
	log.Printf("[shipping] Module started (courier: %s)", m.baseURL)
	return nil
}

// Stop shuts down the module.
func (m *ShippingModule) Stop(_ context.Context) error {
	log.Println("[shipping] Module stopped")
	return nil
}

// createShipment handles the shipping.create service request. Courier and
// transport failures are reported in-band; the caller decides whether and
// when to retry.
func (m *ShippingModule) createShipment(ctx context.Context, req CreateShipmentRequest, _ *mono.Msg) (CreateShipmentResponse, error) {
	if req.Settings.APIKey == "" || req.Settings.Secret == "" {
		return CreateShipmentResponse{
			OK:            false,
			FailureKind:   "courier",
			FailureCode:   401,
			FailureReason: ReasonFor(401),
		}, nil
	}

	tracking, err := m.client.CreateShipment(ctx, &req.Shipment, req.Settings)
	if err != nil {
		var courierErr *CourierError
		if errors.As(err, &courierErr) {
			return CreateShipmentResponse{
				OK:            false,
				FailureKind:   "courier",
				FailureCode:   courierErr.Code,
				FailureReason: courierErr.Reason,
			}, nil
		}
		var transportErr *TransportError
		if errors.As(err, &transportErr) {
			return CreateShipmentResponse{
				OK:            false,
				FailureKind:   "transport",
				FailureReason: transportErr.Error(),
			}, nil
		}
		return CreateShipmentResponse{}, err
	}

	return CreateShipmentResponse{OK: true, TrackingNumber: tracking}, nil
}
