package shipping

import (
	"context"
)

// CourierSettings selects the courier account and request mode for a
// shipment. It comes from the owning tenant's settings.
type CourierSettings struct {
	APIKey string `json:"api_key"`
	Secret string `json:"secret"`
	Mode   string `json:"mode"`
}

// ShipmentRequest describes one parcel to hand to the courier.
type ShipmentRequest struct {
	InvoiceRef       string  `json:"invoice_ref"`
	RecipientName    string  `json:"recipient_name"`
	RecipientPhone   string  `json:"recipient_phone"`
	RecipientAddress string  `json:"recipient_address"`
	Description      string  `json:"description"`
	CODAmount        float64 `json:"cod_amount"`
	WeightKG         float64 `json:"weight_kg"`
	WaybillNumber    string  `json:"waybill_number,omitempty"`
}

// CreateShipmentRequest is the service request wrapping a shipment with
// its courier settings.
type CreateShipmentRequest struct {
	Shipment ShipmentRequest `json:"shipment"`
	Settings CourierSettings `json:"settings"`
}

// CreateShipmentResponse reports the courier outcome in-band so callers
// can distinguish courier rejections from transport failures.
type CreateShipmentResponse struct {
	OK             bool   `json:"ok"`
	TrackingNumber string `json:"tracking_number,omitempty"`
	FailureKind    string `json:"failure_kind,omitempty"` // "courier" or "transport"
	FailureCode    int    `json:"failure_code,omitempty"`
	FailureReason  string `json:"failure_reason,omitempty"`
}

// ShipperPort is the contract the order module uses to dispatch shipments.
type ShipperPort interface {
	CreateShipment(ctx context.Context, req *CreateShipmentRequest) (*CreateShipmentResponse, error)
}
