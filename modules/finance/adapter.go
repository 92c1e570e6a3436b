package finance

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// financeAdapter wraps ServiceContainer for type-safe cross-module calls.
type financeAdapter struct {
	container mono.ServiceContainer
}

// NewFinanceAdapter creates an adapter for finance services.
func NewFinanceAdapter(container mono.ServiceContainer) FinancePort {
	if container == nil {
		panic("finance adapter requires non-nil ServiceContainer")
	}
	return &financeAdapter{container: container}
}

// ComputeReport computes a P&L report via the report service.
func (a *financeAdapter) ComputeReport(ctx context.Context, req *ReportRequest) (*ReportResponse, error) {
	var resp ReportResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"report",
		json.Marshal,
		json.Unmarshal,
		req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("report service call failed: %w", err)
	}
	return &resp, nil
}
