package analytics

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/andresuchdata/logistics-analytics/backend-go/internal/domain"
)

var baseTime = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func record(i int, state, product string) domain.SupplyChainRecord {
	return domain.SupplyChainRecord{
		ID:               fmt.Sprintf("sc-%d", i),
		Timestamp:        baseTime.AddDate(0, 0, i),
		State:            state,
		Product:          product,
		Supplier:         "Blue Dart",
		InventoryLevel:   100,
		PlannedInventory: 100,
		LeadTime:         5,
		PlannedLeadTime:  7,
		Cost:             1000,
		Demand:           float64(i),
		DeliveryDate:     baseTime.AddDate(0, 0, i+3),
		Destination:      "Mumbai Hub",
	}
}

func sequence(n int, state, product string) []domain.SupplyChainRecord {
	out := make([]domain.SupplyChainRecord, n)
	for i := range out {
		out[i] = record(i, state, product)
	}
	return out
}

func randomRecords(seed uint64, n int) []domain.SupplyChainRecord {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	out := make([]domain.SupplyChainRecord, n)
	for i := range out {
		r := record(i, domain.States[rng.IntN(len(domain.States))], domain.Products[rng.IntN(len(domain.Products))])
		r.Supplier = domain.Suppliers[rng.IntN(len(domain.Suppliers))]
		r.InventoryLevel = rng.Float64() * 1000
		r.PlannedInventory = rng.Float64() * 1000
		r.LeadTime = 5 + rng.Float64()*10
		r.Cost = (1000 + rng.Float64()*500) * 80
		r.Demand = 50 + rng.Float64()*100
		out[i] = r
	}
	return out
}

func ids(records []domain.SupplyChainRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}
