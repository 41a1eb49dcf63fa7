// Package analytics turns record collections into KPI summaries, category
// breakdowns, demand forecasts and supplier clusters.
//
// Every function here is pure: inputs are never mutated, nothing is cached
// between calls, and the same input in the same order yields the same output.
package analytics

import "github.com/andresuchdata/logistics-analytics/backend-go/internal/domain"

// ApplyFilter keeps the records matching both categorical selectors, then the
// trailing f.Range.Days() of those. Order is preserved and the caller is
// responsible for supplying records chronologically.
//
// The window is index based: it keeps the last N records, not the records of
// the last N days.
func ApplyFilter(records []domain.SupplyChainRecord, f domain.RecordFilter) []domain.SupplyChainRecord {
	matched := make([]domain.SupplyChainRecord, 0, len(records))
	for _, r := range records {
		if f.State.Matches(r.State) && f.Product.Matches(r.Product) {
			matched = append(matched, r)
		}
	}
	return TrailingWindow(matched, f.Range.Days())
}

// TrailingWindow returns the last n elements of records. Shorter input is
// returned unchanged.
func TrailingWindow(records []domain.SupplyChainRecord, n int) []domain.SupplyChainRecord {
	if n < 0 {
		n = 0
	}
	if len(records) <= n {
		return records
	}
	return records[len(records)-n:]
}
