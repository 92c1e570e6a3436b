package finance

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/example/commerce-backend/modules/tenant"
	"github.com/go-monolith/mono"
)

// computeReport handles the finance.report service request. The report
// is a read-only aggregation; a concurrently updating ledger may be
// observed mid-write and that is acceptable for an advisory figure.
func (m *FinanceModule) computeReport(ctx context.Context, req ReportRequest, _ *mono.Msg) (ReportResponse, error) {
	if req.TenantID == "" {
		return ReportResponse{}, fmt.Errorf("tenant_id is required")
	}

	tc, err := m.tenants.Resolve(ctx, &tenant.ResolveRequest{TenantID: req.TenantID})
	if err != nil {
		return ReportResponse{}, err
	}

	rates := RateConfig{
		DeliveryFee:      tc.Settings.DeliveryFee,
		ReturnFee:        tc.Settings.ReturnFee,
		ManualExpenses:   req.ManualExpenses,
		AdvertisingCosts: req.AdvertisingCosts,
		WorkerCount:      req.WorkerCount,
	}
	if req.DeliveryFee != nil {
		rates.DeliveryFee = *req.DeliveryFee
	}
	if req.ReturnFee != nil {
		rates.ReturnFee = *req.ReturnFee
	}

	var from, to time.Time
	if req.From != nil {
		from = *req.From
	}
	if req.To != nil {
		to = *req.To
	}
	key := m.cache.Key(req.TenantID, from, to, rates)

	if cached, hit, err := m.cache.Get(ctx, key); err != nil {
		log.Printf("[finance] Warning: report cache read failed: %v", err)
	} else if hit {
		return ReportResponse{Report: *cached, Rates: rates, Cached: true}, nil
	}

	db, err := m.router.Get(tc.StoreDSN)
	if err != nil {
		return ReportResponse{}, err
	}
	repo := NewRepository(db, req.TenantID)

	orders, err := repo.OrdersInWindow(req.From, req.To)
	if err != nil {
		return ReportResponse{}, err
	}
	products, err := repo.Products()
	if err != nil {
		return ReportResponse{}, err
	}

	report := Compute(orders, products, rates)

	if err := m.cache.Set(ctx, key, &report); err != nil {
		log.Printf("[finance] Warning: report cache write failed: %v", err)
	}
	return ReportResponse{Report: report, Rates: rates, Cached: false}, nil
}
