package analytics

import (
	"math"
	"time"

	"github.com/andresuchdata/logistics-analytics/backend-go/internal/domain"
)

// DefaultLedgerLimit is the number of rows shown in the operations history.
const DefaultLedgerLimit = 20

// Ledger returns the newest limit records, newest first, joined with their
// supplier profile. A record is Delivered once its delivery date is not after
// now.
func Ledger(records []domain.SupplyChainRecord, suppliers SupplierIndex, limit int, now time.Time) []domain.LedgerEntry {
	if limit <= 0 {
		limit = DefaultLedgerLimit
	}
	recent := TrailingWindow(records, limit)

	out := make([]domain.LedgerEntry, 0, len(recent))
	for i := len(recent) - 1; i >= 0; i-- {
		r := recent[i]
		entry := domain.LedgerEntry{
			ID:               r.ID,
			ETA:              r.DeliveryDate,
			Product:          r.Product,
			Destination:      r.Destination,
			Supplier:         r.Supplier,
			UnitsSent:        math.Round(r.Demand),
			ReliabilityLabel: suppliers.ReliabilityLabel(r.Supplier),
			Status:           domain.StatusInTransit,
		}
		if s, ok := suppliers.Lookup(r.Supplier); ok {
			reliability := s.Reliability
			entry.Reliability = &reliability
		}
		if !r.DeliveryDate.After(now) {
			entry.Status = domain.StatusDelivered
		}
		out = append(out, entry)
	}
	return out
}
