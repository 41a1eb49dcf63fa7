package analytics

import "github.com/andresuchdata/logistics-analytics/backend-go/internal/domain"

// DemandSeries maps records to an indexed demand series. X is the position in
// the input, starting at zero, and each point carries its record timestamp.
func DemandSeries(records []domain.SupplyChainRecord) []domain.SeriesPoint {
	out := make([]domain.SeriesPoint, len(records))
	for i, r := range records {
		ts := r.Timestamp
		out[i] = domain.SeriesPoint{X: float64(i), Y: r.Demand, Date: &ts}
	}
	return out
}

// ForecastProduct picks the product to forecast: the filtered product when one
// is selected, otherwise the requested product, otherwise the first catalog
// entry.
func ForecastProduct(product domain.Selector, requested string, catalog []string) string {
	if !product.IsAll() {
		return product.Value()
	}
	if requested != "" {
		return requested
	}
	if len(catalog) > 0 {
		return catalog[0]
	}
	return ""
}

// DemandForecast builds and fits the demand series for one product.
//
// The source window ignores the product selector: records are filtered by
// state, the trailing window is widened to cover every catalog category
// (window days × catalogSize), and only then narrowed to the forecast product.
func DemandForecast(records []domain.SupplyChainRecord, state domain.Selector, window domain.TimeRange, product string, catalogSize int) domain.ForecastSeries {
	if catalogSize < 1 {
		catalogSize = 1
	}

	byState := make([]domain.SupplyChainRecord, 0, len(records))
	for _, r := range records {
		if state.Matches(r.State) {
			byState = append(byState, r)
		}
	}
	byState = TrailingWindow(byState, window.Days()*catalogSize)

	productRecords := make([]domain.SupplyChainRecord, 0, len(byState))
	for _, r := range byState {
		if r.Product == product {
			productRecords = append(productRecords, r)
		}
	}

	series := DemandSeries(productRecords)
	fit := FitLine(series)
	return domain.ForecastSeries{
		Product:    product,
		Slope:      fit.Slope,
		Intercept:  fit.Intercept,
		Degenerate: fit.Degenerate,
		Points:     LabelForecast(applyFit(series, fit)),
	}
}
