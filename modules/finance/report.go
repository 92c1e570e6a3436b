package finance

import (
	domainorder "github.com/example/commerce-backend/domain/order"
	domainproduct "github.com/example/commerce-backend/domain/product"
)

// RateConfig holds the per-report overhead rates and the profit split
// parameters.
type RateConfig struct {
	DeliveryFee      float64 `json:"delivery_fee"`
	ReturnFee        float64 `json:"return_fee"`
	ManualExpenses   float64 `json:"manual_expenses"`
	AdvertisingCosts float64 `json:"advertising_costs"`
	WorkerCount      int     `json:"worker_count"`
}

// Report is a profit-and-loss snapshot. All figures derive from the
// input order set and product cost data; the computation never mutates
// either.
type Report struct {
	GrossRevenue     float64 `json:"gross_revenue"`
	TotalCOGS        float64 `json:"total_cogs"`
	GrossProfit      float64 `json:"gross_profit"`
	DeliveryCharges  float64 `json:"delivery_charges"`
	ReturnCharges    float64 `json:"return_charges"`
	ManualExpenses   float64 `json:"manual_expenses"`
	AdvertisingCosts float64 `json:"advertising_costs"`
	NetProfit        float64 `json:"net_profit"`
	InvestorShare    float64 `json:"investor_share"`
	WorkerSharePool  float64 `json:"worker_share_pool"`
	PerWorkerProfit  float64 `json:"per_worker_profit"`
	DeliveredCount   int     `json:"delivered_count"`
	ReturnedCount    int     `json:"returned_count"`
	OrderCount       int     `json:"order_count"`
}

// Compute builds a P&L report from a window of orders and the product
// catalog. COGS uses the simple per-batch average unit cost, not a
// quantity-weighted one; items referencing an unknown or batchless
// product contribute zero cost.
func Compute(orders []domainorder.Order, products []domainproduct.Product, rates RateConfig) Report {
	costByProduct := make(map[string]float64, len(products))
	for i := range products {
		costByProduct[products[i].ID] = products[i].AverageUnitCost()
	}

	report := Report{
		ManualExpenses:   rates.ManualExpenses,
		AdvertisingCosts: rates.AdvertisingCosts,
		OrderCount:       len(orders),
	}

	for i := range orders {
		o := &orders[i]
		switch o.Status {
		case domainorder.StatusDelivered:
			report.DeliveredCount++
			report.GrossRevenue += o.TotalAmount
			for _, item := range o.Items {
				report.TotalCOGS += float64(item.Quantity) * costByProduct[item.ProductID]
			}
		case domainorder.StatusReturned, domainorder.StatusReturnCompleted:
			report.ReturnedCount++
		}
	}

	report.GrossProfit = report.GrossRevenue - report.TotalCOGS
	report.DeliveryCharges = float64(report.DeliveredCount) * rates.DeliveryFee
	report.ReturnCharges = float64(report.ReturnedCount) * rates.ReturnFee
	report.NetProfit = report.GrossProfit - report.DeliveryCharges - report.ReturnCharges -
		rates.ManualExpenses - rates.AdvertisingCosts

	half := report.NetProfit * 0.5
	if half < 0 {
		half = 0
	}
	report.InvestorShare = half
	report.WorkerSharePool = half

	workers := rates.WorkerCount
	if workers < 1 {
		workers = 1
	}
	report.PerWorkerProfit = report.WorkerSharePool / float64(workers)

	return report
}
