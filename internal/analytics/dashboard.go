package analytics

import (
	"time"

	"github.com/andresuchdata/logistics-analytics/backend-go/internal/domain"
)

// BuildDashboard runs every overview stage for one filter. The filtered
// collection feeds the KPIs, breakdown, trend and ledger; the forecast reads
// its own wider window from the unfiltered records.
func BuildDashboard(data domain.Dataset, f domain.DashboardFilter, catalog domain.Catalog, now time.Time) domain.Dashboard {
	filtered := ApplyFilter(data.Records, f.RecordFilter)
	product := ForecastProduct(f.Product, f.ForecastProduct, catalog.Products)

	summary := f.Summary()
	summary.ForecastProduct = product

	return domain.Dashboard{
		Filter:    summary,
		KPIs:      ComputeKPIs(filtered),
		Breakdown: CategoryBreakdown(filtered, catalog.Products),
		Forecast:  DemandForecast(data.Records, f.State, f.Range, product, len(catalog.Products)),
		Trend:     TrendSeries(filtered, f.SmoothingWindow),
		Ledger:    Ledger(filtered, NewSupplierIndex(data.Suppliers), f.LedgerLimit, now),
		Records:   len(filtered),
	}
}
