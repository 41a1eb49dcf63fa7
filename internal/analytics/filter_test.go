package analytics

import (
	"testing"

	"github.com/andresuchdata/logistics-analytics/backend-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyFilter_TrailingWindow(t *testing.T) {
	records := sequence(10, "Delhi", "Electronics")

	got := ApplyFilter(records, domain.RecordFilter{Range: domain.Range7d})

	assert.Equal(t, []string{"sc-3", "sc-4", "sc-5", "sc-6", "sc-7", "sc-8", "sc-9"}, ids(got))
}

func TestApplyFilter_ShorterThanWindowIsUnchanged(t *testing.T) {
	records := sequence(5, "Delhi", "Electronics")

	got := ApplyFilter(records, domain.RecordFilter{Range: domain.Range30d})

	assert.Equal(t, ids(records), ids(got))
}

func TestApplyFilter_CategoricalThenWindow(t *testing.T) {
	var records []domain.SupplyChainRecord
	for i := 0; i < 40; i++ {
		state := "Delhi"
		if i%2 == 1 {
			state = "Gujarat"
		}
		product := "Electronics"
		if i%4 >= 2 {
			product = "Textiles"
		}
		records = append(records, record(i, state, product))
	}

	got := ApplyFilter(records, domain.RecordFilter{
		State:   domain.Exactly("Delhi"),
		Product: domain.Exactly("Electronics"),
		Range:   domain.Range7d,
	})

	// Delhi+Electronics are i%4 == 0: ten records, window keeps the last seven.
	require.Len(t, got, 7)
	assert.Equal(t, "sc-12", got[0].ID)
	assert.Equal(t, "sc-36", got[6].ID)
	for _, r := range got {
		assert.Equal(t, "Delhi", r.State)
		assert.Equal(t, "Electronics", r.Product)
	}
}

func TestApplyFilter_NoMatchYieldsEmptyKPIs(t *testing.T) {
	records := sequence(10, "Delhi", "Electronics")

	filtered := ApplyFilter(records, domain.RecordFilter{
		State: domain.Exactly("Kerala"),
		Range: domain.Range90d,
	})
	require.Empty(t, filtered)

	stats := ComputeKPIs(filtered)
	assert.NotNil(t, stats)
	assert.Empty(t, stats)
}

func TestApplyFilter_DoesNotReorderOrMutate(t *testing.T) {
	records := []domain.SupplyChainRecord{
		record(3, "Delhi", "Electronics"),
		record(1, "Delhi", "Electronics"),
		record(2, "Delhi", "Electronics"),
	}
	before := ids(records)

	got := ApplyFilter(records, domain.RecordFilter{Range: domain.Range7d})

	assert.Equal(t, []string{"sc-3", "sc-1", "sc-2"}, ids(got))
	assert.Equal(t, before, ids(records))
}

func TestTrailingWindow_NonPositive(t *testing.T) {
	records := sequence(3, "Delhi", "Electronics")

	assert.Empty(t, TrailingWindow(records, 0))
	assert.Empty(t, TrailingWindow(records, -2))
}
