package order

import (
	"context"
	"time"
)

// ItemInput is one order line on upsert.
type ItemInput struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// ItemResponse is the wire form of an order line.
type ItemResponse struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// LogResponse is the wire form of an order log entry.
type LogResponse struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Actor     string    `json:"actor"`
	CreatedAt time.Time `json:"created_at"`
}

// OrderResponse is the wire form of an order.
type OrderResponse struct {
	ID             string         `json:"id"`
	Number         string         `json:"number"`
	CustomerName   string         `json:"customer_name"`
	Phone          string         `json:"phone"`
	Address        string         `json:"address"`
	Items          []ItemResponse `json:"items"`
	Status         string         `json:"status"`
	TrackingNumber string         `json:"tracking_number,omitempty"`
	TotalAmount    float64        `json:"total_amount"`
	Logs           []LogResponse  `json:"logs"`
	CreatedAt      time.Time      `json:"created_at"`
	ConfirmedAt    *time.Time     `json:"confirmed_at,omitempty"`
	ShippedAt      *time.Time     `json:"shipped_at,omitempty"`
}

// ListOrdersRequest filters and paginates an order listing.
type ListOrdersRequest struct {
	TenantID  string     `json:"tenant_id"`
	Search    string     `json:"search,omitempty"`
	Status    string     `json:"status,omitempty"`
	ProductID string     `json:"product_id,omitempty"`
	From      *time.Time `json:"from,omitempty"`
	To        *time.Time `json:"to,omitempty"`
	Page      int        `json:"page,omitempty"`
	PageSize  int        `json:"page_size,omitempty"`
}

// ListOrdersResponse carries a page of orders.
type ListOrdersResponse struct {
	Orders   []OrderResponse `json:"orders"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}

// GetOrderRequest fetches one order.
type GetOrderRequest struct {
	TenantID string `json:"tenant_id"`
	OrderID  string `json:"order_id"`
}

// UpsertOrderRequest creates or updates an order.
type UpsertOrderRequest struct {
	TenantID     string      `json:"tenant_id"`
	ID           string      `json:"id,omitempty"`
	CustomerName string      `json:"customer_name"`
	Phone        string      `json:"phone"`
	Address      string      `json:"address"`
	Items        []ItemInput `json:"items"`
	TotalAmount  float64     `json:"total_amount,omitempty"`
}

// BulkUpsertRequest applies order upserts independently per record.
type BulkUpsertRequest struct {
	TenantID string              `json:"tenant_id"`
	Orders   []UpsertOrderRequest `json:"orders"`
}

// BulkUpsertResult is the per-record outcome of a bulk upsert.
type BulkUpsertResult struct {
	Index   int    `json:"index"`
	OrderID string `json:"order_id,omitempty"`
	Error   string `json:"error,omitempty"`
}

// BulkUpsertResponse carries per-record results; one record's failure
// does not abort the batch.
type BulkUpsertResponse struct {
	Results   []BulkUpsertResult `json:"results"`
	Succeeded int                `json:"succeeded"`
	Failed    int                `json:"failed"`
}

// DeleteOrdersRequest deletes the given orders.
type DeleteOrdersRequest struct {
	TenantID string   `json:"tenant_id"`
	OrderIDs []string `json:"order_ids"`
	All      bool     `json:"all,omitempty"`
}

// DeleteOrdersResponse reports how many orders were removed.
type DeleteOrdersResponse struct {
	Deleted int64 `json:"deleted"`
}

// ActionRequest drives confirm/ship/deliver on one order.
type ActionRequest struct {
	TenantID string `json:"tenant_id"`
	OrderID  string `json:"order_id"`
	Actor    string `json:"actor,omitempty"`
}

// TransitionRequest applies a manual status move.
type TransitionRequest struct {
	TenantID string `json:"tenant_id"`
	OrderID  string `json:"order_id"`
	To       string `json:"to"`
	Actor    string `json:"actor,omitempty"`
}

// ScanReturnRequest completes a return located by tracking reference or
// order id.
type ScanReturnRequest struct {
	TenantID string `json:"tenant_id"`
	Key      string `json:"key"`
	Actor    string `json:"actor,omitempty"`
}

// ScanReturnResponse carries the order and whether this scan restocked.
type ScanReturnResponse struct {
	Order     OrderResponse `json:"order"`
	Restocked bool          `json:"restocked"`
}

// CustomerHistoryRequest fetches order/return counts for a phone number.
type CustomerHistoryRequest struct {
	TenantID string `json:"tenant_id"`
	Phone    string `json:"phone"`
}

// CustomerHistoryResponse carries the counts.
type CustomerHistoryResponse struct {
	OrderCount  int `json:"order_count"`
	ReturnCount int `json:"return_count"`
}

// OrderPort is the contract the API layer uses for order operations.
type OrderPort interface {
	List(ctx context.Context, req *ListOrdersRequest) (*ListOrdersResponse, error)
	Get(ctx context.Context, tenantID, orderID string) (*OrderResponse, error)
	Upsert(ctx context.Context, req *UpsertOrderRequest) (*OrderResponse, error)
	BulkUpsert(ctx context.Context, req *BulkUpsertRequest) (*BulkUpsertResponse, error)
	Delete(ctx context.Context, req *DeleteOrdersRequest) (*DeleteOrdersResponse, error)
	Confirm(ctx context.Context, req *ActionRequest) (*OrderResponse, error)
	Ship(ctx context.Context, req *ActionRequest) (*OrderResponse, error)
	MarkDelivered(ctx context.Context, req *ActionRequest) (*OrderResponse, error)
	Transition(ctx context.Context, req *TransitionRequest) (*OrderResponse, error)
	ScanReturn(ctx context.Context, req *ScanReturnRequest) (*ScanReturnResponse, error)
	CustomerHistory(ctx context.Context, tenantID, phone string) (*CustomerHistoryResponse, error)
}
