package analytics

import (
	"fmt"
	"math"

	"github.com/andresuchdata/logistics-analytics/backend-go/internal/domain"
)

// UnknownLabel is rendered for statistics of suppliers missing from the index.
const UnknownLabel = "unknown"

// SupplierIndex maps supplier names to their profile. Build it once per call
// instead of scanning the supplier collection for every record.
type SupplierIndex map[string]domain.SupplierRecord

// NewSupplierIndex indexes suppliers by name. Later duplicates win.
func NewSupplierIndex(suppliers []domain.SupplierRecord) SupplierIndex {
	idx := make(SupplierIndex, len(suppliers))
	for _, s := range suppliers {
		idx[s.Name] = s
	}
	return idx
}

// Lookup returns the supplier profile for name. A miss is a normal outcome.
func (idx SupplierIndex) Lookup(name string) (domain.SupplierRecord, bool) {
	s, ok := idx[name]
	return s, ok
}

// ReliabilityLabel renders a supplier's reliability as a whole percentage, or
// UnknownLabel when the supplier is not indexed.
func (idx SupplierIndex) ReliabilityLabel(name string) string {
	s, ok := idx.Lookup(name)
	if !ok {
		return UnknownLabel
	}
	return fmt.Sprintf("%d%%", int64(math.Round(s.Reliability)))
}
