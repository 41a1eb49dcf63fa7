package analytics

import (
	"testing"

	"github.com/andresuchdata/logistics-analytics/backend-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDashboard(t *testing.T) {
	records := alternatingProducts(40)
	data := domain.Dataset{
		Records:   records,
		Suppliers: []domain.SupplierRecord{{Name: "Blue Dart", Reliability: 75}},
	}
	catalog := domain.Catalog{Products: []string{"A", "B"}}
	f := domain.DashboardFilter{
		RecordFilter: domain.RecordFilter{
			State:   domain.AllOf(),
			Product: domain.Exactly("B"),
			Range:   domain.Range7d,
		},
	}

	got := BuildDashboard(data, f, catalog, baseTime.AddDate(1, 0, 0))

	assert.Equal(t, 7, got.Records)
	assert.Equal(t, domain.FilterSummary{
		State:           domain.AllStates,
		Product:         "B",
		TimeRange:       domain.Range7d,
		ForecastProduct: "B",
	}, got.Filter)

	require.Len(t, got.KPIs, 4)
	assert.Equal(t, float64(700), got.KPIs[0].Actual)

	require.Len(t, got.Breakdown, 2)
	assert.Zero(t, got.Breakdown[0].Available)
	assert.Equal(t, float64(700), got.Breakdown[1].Available)

	// forecast window is 7 * 2 records, half of them B
	assert.Equal(t, "B", got.Forecast.Product)
	assert.Len(t, got.Forecast.Points, 7)

	assert.Len(t, got.Trend, 7)
	require.Len(t, got.Ledger, 7)
	assert.Equal(t, "sc-39", got.Ledger[0].ID)
	assert.Equal(t, "75%", got.Ledger[0].ReliabilityLabel)
	assert.Equal(t, domain.StatusDelivered, got.Ledger[0].Status)
}

func TestBuildDashboard_NoMatches(t *testing.T) {
	data := domain.Dataset{Records: alternatingProducts(10)}
	f := domain.DashboardFilter{
		RecordFilter: domain.RecordFilter{
			State:   domain.Exactly("Kerala"),
			Product: domain.AllOf(),
			Range:   domain.Range30d,
		},
	}

	got := BuildDashboard(data, f, domain.DefaultCatalog(), baseTime)

	assert.Zero(t, got.Records)
	assert.Empty(t, got.KPIs)
	assert.Len(t, got.Breakdown, len(domain.Products))
	assert.Empty(t, got.Forecast.Points)
	assert.Equal(t, domain.Products[0], got.Forecast.Product)
	assert.Empty(t, got.Trend)
	assert.Empty(t, got.Ledger)
}
