package analytics

import "github.com/andresuchdata/logistics-analytics/backend-go/internal/domain"

// DefaultSmoothingWindow is the moving-average window used when none is given.
const DefaultSmoothingWindow = 7

// MovingAverage returns the trailing mean of values over window elements. The
// first window-1 outputs average the shorter prefix available so far; there is
// no look-ahead and no zero padding.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 0 {
		window = DefaultSmoothingWindow
	}

	// Every output sums its own window; values outside it never contribute.
	out := make([]float64, len(values))
	for i := range values {
		start := max(0, i-window+1)
		var sum float64
		for _, v := range values[start : i+1] {
			sum += v
		}
		out[i] = sum / float64(i-start+1)
	}
	return out
}

// TrendSeries pairs each record's inventory and demand with the smoothed demand.
func TrendSeries(records []domain.SupplyChainRecord, window int) []domain.TrendPoint {
	demand := make([]float64, len(records))
	for i, r := range records {
		demand[i] = r.Demand
	}
	smoothed := MovingAverage(demand, window)

	out := make([]domain.TrendPoint, len(records))
	for i, r := range records {
		out[i] = domain.TrendPoint{
			Date:           r.Timestamp,
			InventoryLevel: r.InventoryLevel,
			Demand:         r.Demand,
			DemandAverage:  smoothed[i],
		}
	}
	return out
}
