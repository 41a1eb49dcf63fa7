package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/andresuchdata/logistics-analytics/backend-go/internal/domain"
	"github.com/andresuchdata/logistics-analytics/backend-go/internal/repository"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

type recordRepository struct {
	db *DB
}

// NewRecordRepository returns a RecordRepository backed by postgres.
func NewRecordRepository(db *DB) repository.RecordRepository {
	return &recordRepository{db: db}
}

func (r *recordRepository) ListRecords(ctx context.Context) ([]domain.SupplyChainRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY seq`, strings.Join(recordColumns, ", "), recordsTable)

	var records []domain.SupplyChainRecord
	if err := r.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("error listing records: %w", err)
	}

	return records, nil
}

func (r *recordRepository) ListSuppliers(ctx context.Context) ([]domain.SupplierRecord, error) {
	query := `
		SELECT name, rating, reliability, base_lead_time, contact_email, contract_status
		FROM suppliers
		ORDER BY name
	`

	var suppliers []domain.SupplierRecord
	if err := r.db.SelectContext(ctx, &suppliers, query); err != nil {
		return nil, fmt.Errorf("error listing suppliers: %w", err)
	}

	return suppliers, nil
}

func (r *recordRepository) GetSupplier(ctx context.Context, name string) (domain.SupplierRecord, error) {
	query := `
		SELECT name, rating, reliability, base_lead_time, contact_email, contract_status
		FROM suppliers
		WHERE name = $1
	`

	var supplier domain.SupplierRecord
	err := r.db.GetContext(ctx, &supplier, query, name)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.SupplierRecord{}, fmt.Errorf("supplier %q: %w", name, repository.ErrNotFound)
	}
	if err != nil {
		return domain.SupplierRecord{}, fmt.Errorf("error getting supplier %q: %w", name, err)
	}

	return supplier, nil
}

// ReplaceRecords truncates the table and streams the new records in with
// COPY, keeping their order.
func (r *recordRepository) ReplaceRecords(ctx context.Context, records []domain.SupplyChainRecord) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := truncate(ctx, tx, recordsTable); err != nil {
			return err
		}

		err := copyRows(ctx, tx, recordsTable, recordColumns, len(records), func(i int) []any {
			return recordValues(records[i])
		})
		if err != nil {
			return err
		}

		log.Debug().Int("records", len(records)).Msg("postgres: records replaced")
		return nil
	})
}

// ReplaceSuppliers swaps the supplier table. Duplicate names are upserted, so
// the last profile for a name wins.
func (r *recordRepository) ReplaceSuppliers(ctx context.Context, suppliers []domain.SupplierRecord) error {
	query := `
		INSERT INTO suppliers (name, rating, reliability, base_lead_time, contact_email, contract_status)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (name)
		DO UPDATE SET
			rating = EXCLUDED.rating,
			reliability = EXCLUDED.reliability,
			base_lead_time = EXCLUDED.base_lead_time,
			contact_email = EXCLUDED.contact_email,
			contract_status = EXCLUDED.contract_status
	`

	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+suppliersTable); err != nil {
			return fmt.Errorf("clear suppliers: %w", err)
		}

		for _, s := range suppliers {
			_, err := tx.ExecContext(ctx, query,
				s.Name, s.Rating, s.Reliability, s.BaseLeadTime, s.ContactEmail, string(s.ContractStatus))
			if err != nil {
				return fmt.Errorf("upsert supplier %q: %w", s.Name, err)
			}
		}
		return nil
	})
}
