package postgres

import (
	"context"
	"fmt"

	"github.com/andresuchdata/logistics-analytics/backend-go/internal/domain"
)

const (
	recordsTable   = "supply_chain_records"
	suppliersTable = "suppliers"
)

// seq preserves insertion order; records are read back ordered by it.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS supply_chain_records (
		seq               BIGSERIAL PRIMARY KEY,
		id                TEXT NOT NULL,
		ts                TIMESTAMPTZ NOT NULL,
		state             TEXT NOT NULL,
		product           TEXT NOT NULL,
		supplier          TEXT NOT NULL,
		inventory_level   DOUBLE PRECISION NOT NULL DEFAULT 0,
		planned_inventory DOUBLE PRECISION NOT NULL DEFAULT 0,
		lead_time         DOUBLE PRECISION NOT NULL DEFAULT 0,
		planned_lead_time DOUBLE PRECISION NOT NULL DEFAULT 0,
		cost              DOUBLE PRECISION NOT NULL DEFAULT 0,
		demand            DOUBLE PRECISION NOT NULL DEFAULT 0,
		delivery_date     TIMESTAMPTZ NOT NULL,
		destination       TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_supply_chain_records_state_product
		ON supply_chain_records (state, product)`,
	`CREATE TABLE IF NOT EXISTS suppliers (
		name            TEXT PRIMARY KEY,
		rating          DOUBLE PRECISION NOT NULL DEFAULT 0,
		reliability     DOUBLE PRECISION NOT NULL DEFAULT 0,
		base_lead_time  DOUBLE PRECISION NOT NULL DEFAULT 0,
		contact_email   TEXT NOT NULL DEFAULT '',
		contract_status TEXT NOT NULL DEFAULT 'Active'
	)`,
}

// recordColumns lists the record columns in the order recordValues emits them.
var recordColumns = []string{
	"id", "ts", "state", "product", "supplier",
	"inventory_level", "planned_inventory", "lead_time", "planned_lead_time",
	"cost", "demand", "delivery_date", "destination",
}

func recordValues(r domain.SupplyChainRecord) []any {
	return []any{
		r.ID, r.Timestamp, r.State, r.Product, r.Supplier,
		r.InventoryLevel, r.PlannedInventory, r.LeadTime, r.PlannedLeadTime,
		r.Cost, r.Demand, r.DeliveryDate, r.Destination,
	}
}

// Migrate creates the tables the record store needs.
func (db *DB) Migrate(ctx context.Context) error {
	for i, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d failed: %w", i, err)
		}
	}
	return nil
}
