// Package sample produces a synthetic but plausible logistics dataset. It is
// served when the record store is empty and written out by the seed command.
package sample

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/andresuchdata/logistics-analytics/backend-go/internal/domain"
)

const (
	DefaultDays = 200
	DefaultSeed = 42

	day = 24 * time.Hour
)

// Options controls a generator run. Zero values pick the defaults; a zero Now
// uses the current time.
type Options struct {
	Days    int
	Seed    uint64
	Now     time.Time
	Catalog domain.Catalog
}

func (o Options) withDefaults() Options {
	if o.Days <= 0 {
		o.Days = DefaultDays
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Now.IsZero() {
		o.Now = time.Now().UTC()
	}
	o.Catalog = o.Catalog.Merge(domain.DefaultCatalog())
	return o
}

// Generate returns one record per day ending at Now, oldest first, plus a
// profile for every catalog supplier. The same options always produce the
// same dataset.
func Generate(opts Options) domain.Dataset {
	opts = opts.withDefaults()
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x5bd1e995))

	return domain.Dataset{
		Suppliers: suppliers(rng, opts.Catalog.Suppliers),
		Records:   records(rng, opts),
	}
}

func suppliers(rng *rand.Rand, names []string) []domain.SupplierRecord {
	out := make([]domain.SupplierRecord, len(names))
	for i, name := range names {
		out[i] = domain.SupplierRecord{
			Name:           name,
			Rating:         4 + rng.Float64(),
			Reliability:    85 + rng.Float64()*15,
			BaseLeadTime:   float64(5 + rng.IntN(5)),
			ContactEmail:   fmt.Sprintf("ops@%s.com", strings.ReplaceAll(strings.ToLower(name), " ", "")),
			ContractStatus: domain.ContractActive,
		}
	}
	return out
}

func records(rng *rand.Rand, opts Options) []domain.SupplyChainRecord {
	c := opts.Catalog
	out := make([]domain.SupplyChainRecord, opts.Days)

	// i counts back from Now; slot Days-1-i keeps the output chronological.
	for i := 0; i < opts.Days; i++ {
		ts := opts.Now.Add(-time.Duration(i) * day)
		baseInventory := 500 + math.Sin(float64(i)/10)*200

		r := domain.SupplyChainRecord{
			ID:               fmt.Sprintf("sc-%d", i),
			Timestamp:        ts,
			State:            pick(rng, c.States),
			Product:          pick(rng, c.Products),
			Supplier:         pick(rng, c.Suppliers),
			Destination:      pick(rng, c.Destinations),
			InventoryLevel:   math.Max(0, baseInventory+(rng.Float64()-0.5)*50),
			PlannedInventory: baseInventory * 1.1,
			LeadTime:         5 + rng.Float64()*10,
			PlannedLeadTime:  7,
			Cost:             (1000 + rng.Float64()*500) * 80,
			Demand:           50 + rng.Float64()*100,
		}
		r.DeliveryDate = ts.Add(time.Duration((3 + rng.Float64()*7) * float64(day)))

		out[opts.Days-1-i] = r
	}
	return out
}

func pick(rng *rand.Rand, values []string) string {
	return values[rng.IntN(len(values))]
}
