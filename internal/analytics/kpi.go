package analytics

import (
	"math"

	"github.com/andresuchdata/logistics-analytics/backend-go/internal/domain"
)

// Fixed planning assumptions applied to every reduction.
const (
	InTransitShare       = 0.4  // share of planned inventory assumed to be on the road
	CapacityBuffer       = 1.5  // warehouse capacity relative to planned inventory
	PlannedCostFactor    = 0.95 // planned cost relative to actual cost
	DeliveringPlanFactor = 0.9  // planned delivering stock relative to actual
	RemainingPlanShare   = 0.2  // planned remaining capacity relative to total capacity
)

// KPI card labels, in output order.
const (
	LabelStocksAvailable  = "Stocks Available"
	LabelDeliveringStocks = "Delivering Stocks"
	LabelRemainingStock   = "Remaining Stock"
	LabelLogisticsCost    = "Logistics Cost"
)

// StockTotals are the unrounded sums behind the KPI cards.
type StockTotals struct {
	Available   float64
	Planned     float64
	Delivering  float64
	Capacity    float64
	Remaining   float64
	Cost        float64
	PlannedCost float64
}

// SumStock reduces records to StockTotals. Remaining is never negative.
func SumStock(records []domain.SupplyChainRecord) StockTotals {
	var t StockTotals
	for _, r := range records {
		t.Available += r.InventoryLevel
		t.Planned += r.PlannedInventory
		t.Delivering += r.PlannedInventory * InTransitShare
		t.Cost += r.Cost
	}
	t.Capacity = t.Planned * CapacityBuffer
	t.Remaining = math.Max(0, t.Capacity-(t.Available+t.Delivering))
	t.PlannedCost = t.Cost * PlannedCostFactor
	return t
}

// ComputeKPIs returns the four summary cards for records. An empty collection
// yields an empty result rather than four zero-valued cards.
func ComputeKPIs(records []domain.SupplyChainRecord) []domain.KPIStat {
	if len(records) == 0 {
		return []domain.KPIStat{}
	}

	t := SumStock(records)

	availableTrend := domain.TrendDown
	if t.Available > t.Planned {
		availableTrend = domain.TrendUp
	}

	// Cost is inverted: spending above plan is unfavourable.
	costTrend := domain.TrendUp
	if t.Cost > t.PlannedCost {
		costTrend = domain.TrendDown
	}

	return []domain.KPIStat{
		{
			Label:   LabelStocksAvailable,
			Actual:  math.Round(t.Available),
			Planned: math.Round(t.Planned),
			Unit:    "Units",
			Trend:   availableTrend,
		},
		{
			Label:   LabelDeliveringStocks,
			Actual:  math.Round(t.Delivering),
			Planned: math.Round(t.Delivering * DeliveringPlanFactor),
			Unit:    "Units",
			Trend:   domain.TrendUp,
		},
		{
			Label:   LabelRemainingStock,
			Actual:  math.Round(t.Remaining),
			Planned: math.Round(t.Capacity * RemainingPlanShare),
			Unit:    "Capacity",
			Trend:   domain.TrendStable,
		},
		{
			Label:   LabelLogisticsCost,
			Actual:  math.Round(t.Cost),
			Planned: math.Round(t.PlannedCost),
			Unit:    "INR",
			Trend:   costTrend,
		},
	}
}
