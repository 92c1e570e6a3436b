package shipping

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// shipperAdapter wraps ServiceContainer for type-safe cross-module calls.
type shipperAdapter struct {
	container mono.ServiceContainer
}

// NewShipperAdapter creates an adapter for shipping services.
func NewShipperAdapter(container mono.ServiceContainer) ShipperPort {
	if container == nil {
		panic("shipper adapter requires non-nil ServiceContainer")
	}
	return &shipperAdapter{container: container}
}

// CreateShipment dispatches a shipment via the create service.
func (a *shipperAdapter) CreateShipment(ctx context.Context, req *CreateShipmentRequest) (*CreateShipmentResponse, error) {
	var resp CreateShipmentResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"create",
		json.Marshal,
		json.Unmarshal,
		req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("create service call failed: %w", err)
	}
	return &resp, nil
}
