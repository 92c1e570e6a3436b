package events

import (
	"time"

	"github.com/go-monolith/mono/pkg/helper"
)

// OrderConfirmedEvent is emitted after stock has been deducted and the
// order committed as CONFIRMED.
type OrderConfirmedEvent struct {
	OrderID     string    `json:"order_id"`
	TenantID    string    `json:"tenant_id"`
	Number      string    `json:"number"`
	TotalAmount float64   `json:"total_amount"`
	ConfirmedAt time.Time `json:"confirmed_at"`
}

// OrderConfirmedV1 is the typed event definition for order confirmation.
// Subject: events.order.v1.order-confirmed
var OrderConfirmedV1 = helper.EventDefinition[OrderConfirmedEvent](
	"order", "OrderConfirmed", "v1",
)

// OrderShippedEvent is emitted when the courier accepts a shipment.
type OrderShippedEvent struct {
	OrderID        string    `json:"order_id"`
	TenantID       string    `json:"tenant_id"`
	TrackingNumber string    `json:"tracking_number"`
	ShippedAt      time.Time `json:"shipped_at"`
}

// OrderShippedV1 is the typed event definition for order shipment.
// Subject: events.order.v1.order-shipped
var OrderShippedV1 = helper.EventDefinition[OrderShippedEvent](
	"order", "OrderShipped", "v1",
)

// OrderDeliveredEvent is emitted when an order reaches DELIVERED.
type OrderDeliveredEvent struct {
	OrderID     string    `json:"order_id"`
	TenantID    string    `json:"tenant_id"`
	TotalAmount float64   `json:"total_amount"`
	DeliveredAt time.Time `json:"delivered_at"`
}

// OrderDeliveredV1 is the typed event definition for order delivery.
// Subject: events.order.v1.order-delivered
var OrderDeliveredV1 = helper.EventDefinition[OrderDeliveredEvent](
	"order", "OrderDelivered", "v1",
)

// OrderReturnedEvent is emitted when an order reaches RETURN_COMPLETED and
// its stock has been restocked.
type OrderReturnedEvent struct {
	OrderID    string    `json:"order_id"`
	TenantID   string    `json:"tenant_id"`
	Restocked  bool      `json:"restocked"`
	ReturnedAt time.Time `json:"returned_at"`
}

// OrderReturnedV1 is the typed event definition for completed returns.
// Subject: events.order.v1.order-returned
var OrderReturnedV1 = helper.EventDefinition[OrderReturnedEvent](
	"order", "OrderReturned", "v1",
)
