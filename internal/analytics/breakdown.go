package analytics

import (
	"math"

	"github.com/andresuchdata/logistics-analytics/backend-go/internal/domain"
)

// CategoryBreakdown reduces records per product category. The result has one
// entry per catalog entry, in catalog order; categories without records are
// reported with zero values.
func CategoryBreakdown(records []domain.SupplyChainRecord, catalog []string) []domain.CategoryStock {
	type sums struct {
		available  float64
		delivering float64
		planned    float64
	}

	byProduct := make(map[string]*sums, len(catalog))
	for _, name := range catalog {
		byProduct[name] = &sums{}
	}
	for _, r := range records {
		s, ok := byProduct[r.Product]
		if !ok {
			continue
		}
		s.available += r.InventoryLevel
		s.delivering += r.PlannedInventory * InTransitShare
		s.planned += r.PlannedInventory
	}

	out := make([]domain.CategoryStock, 0, len(catalog))
	for _, name := range catalog {
		s := byProduct[name]
		available := math.Round(s.available)
		delivering := math.Round(s.delivering)
		capacity := s.planned * CapacityBuffer
		out = append(out, domain.CategoryStock{
			Name:       name,
			Available:  available,
			Delivering: delivering,
			Remaining:  math.Max(0, math.Round(capacity-(available+delivering))),
		})
	}
	return out
}
