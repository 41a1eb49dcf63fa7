package analytics

import (
	"testing"

	"github.com/andresuchdata/logistics-analytics/backend-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func alternatingProducts(n int) []domain.SupplyChainRecord {
	out := make([]domain.SupplyChainRecord, n)
	for i := range out {
		product := "A"
		if i%2 == 1 {
			product = "B"
		}
		out[i] = record(i, "Delhi", product)
	}
	return out
}

func TestDemandForecast_WindowThenProduct(t *testing.T) {
	records := alternatingProducts(10)

	got := DemandForecast(records, domain.AllOf(), domain.Range7d, "A", 1)

	// last seven records are 3..9, product A among them: 4, 6, 8
	require.Len(t, got.Points, 3)
	assert.Equal(t, "A", got.Product)
	assert.InDelta(t, 2, got.Slope, 1e-12)
	assert.InDelta(t, 4, got.Intercept, 1e-12)
	for i, p := range got.Points {
		assert.Equal(t, float64(i), p.X)
	}
	assert.Equal(t, domain.PhasePresent, got.Points[2].Phase)
	require.NotNil(t, got.Points[2].Date)
	assert.True(t, records[8].Timestamp.Equal(*got.Points[2].Date))
}

func TestDemandForecast_WindowScalesWithCatalog(t *testing.T) {
	records := alternatingProducts(10)

	got := DemandForecast(records, domain.AllOf(), domain.Range7d, "A", 2)

	require.Len(t, got.Points, 5)
	assert.InDelta(t, 2, got.Slope, 1e-12)
	assert.InDelta(t, 0, got.Intercept, 1e-12)
}

func TestDemandForecast_StateFilterAndEmpty(t *testing.T) {
	records := alternatingProducts(10)

	got := DemandForecast(records, domain.Exactly("Gujarat"), domain.Range30d, "A", 5)

	assert.Empty(t, got.Points)
	assert.True(t, got.Degenerate)
}

func TestForecastProduct(t *testing.T) {
	catalog := []string{"Electronics", "Textiles"}

	assert.Equal(t, "Textiles", ForecastProduct(domain.Exactly("Textiles"), "Electronics", catalog))
	assert.Equal(t, "Pharmaceuticals", ForecastProduct(domain.AllOf(), "Pharmaceuticals", catalog))
	assert.Equal(t, "Electronics", ForecastProduct(domain.AllOf(), "", catalog))
	assert.Equal(t, "", ForecastProduct(domain.AllOf(), "", nil))
}
