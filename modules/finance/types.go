package finance

import (
	"context"
	"time"
)

// ReportRequest asks for a P&L report over [From, To] inclusive. Fee
// fields left nil fall back to the tenant's configured defaults.
type ReportRequest struct {
	TenantID         string     `json:"tenant_id"`
	From             *time.Time `json:"from,omitempty"`
	To               *time.Time `json:"to,omitempty"`
	DeliveryFee      *float64   `json:"delivery_fee,omitempty"`
	ReturnFee        *float64   `json:"return_fee,omitempty"`
	ManualExpenses   float64    `json:"manual_expenses,omitempty"`
	AdvertisingCosts float64    `json:"advertising_costs,omitempty"`
	WorkerCount      int        `json:"worker_count,omitempty"`
}

// ReportResponse carries the computed report and whether it was served
// from the snapshot cache.
type ReportResponse struct {
	Report Report     `json:"report"`
	Rates  RateConfig `json:"rates"`
	Cached bool       `json:"cached"`
}

// FinancePort is the contract the API layer uses for financial reports.
type FinancePort interface {
	ComputeReport(ctx context.Context, req *ReportRequest) (*ReportResponse, error)
}
