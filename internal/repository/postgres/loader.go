package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/andresuchdata/logistics-analytics/backend-go/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// Loader bulk loads record files over a dedicated pgx connection. It is used
// by the seed command.
type Loader struct {
	conn *pgx.Conn
}

// NewLoader connects to connString, a postgres:// URL or keyword DSN.
func NewLoader(ctx context.Context, connString string) (*Loader, error) {
	conn, err := pgx.Connect(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return &Loader{conn: conn}, nil
}

// LoadRecords replaces the record table with records. When appendOnly is set
// the existing rows are kept.
func (l *Loader) LoadRecords(ctx context.Context, records []domain.SupplyChainRecord, appendOnly bool) (int64, error) {
	tx, err := l.conn.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			log.Error().Err(rbErr).Msg("could not rollback transaction")
		}
	}()

	if !appendOnly {
		if _, err := tx.Exec(ctx, `TRUNCATE `+recordsTable+` RESTART IDENTITY`); err != nil {
			return 0, fmt.Errorf("truncate records: %w", err)
		}
	}

	copied, err := tx.CopyFrom(ctx,
		pgx.Identifier{recordsTable},
		recordColumns,
		pgx.CopyFromSlice(len(records), func(i int) ([]any, error) {
			return recordValues(records[i]), nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("copy records: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("could not commit transaction: %w", err)
	}

	return copied, nil
}

// LoadSuppliers upserts supplier profiles in one batch.
func (l *Loader) LoadSuppliers(ctx context.Context, suppliers []domain.SupplierRecord) error {
	batch := &pgx.Batch{}
	for _, s := range suppliers {
		batch.Queue(`
			INSERT INTO suppliers (name, rating, reliability, base_lead_time, contact_email, contract_status)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (name) DO UPDATE SET
				rating = EXCLUDED.rating,
				reliability = EXCLUDED.reliability,
				base_lead_time = EXCLUDED.base_lead_time,
				contact_email = EXCLUDED.contact_email,
				contract_status = EXCLUDED.contract_status`,
			s.Name, s.Rating, s.Reliability, s.BaseLeadTime, s.ContactEmail, string(s.ContractStatus))
	}

	if err := l.conn.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("upsert suppliers: %w", err)
	}
	return nil
}

func (l *Loader) Close(ctx context.Context) error {
	return l.conn.Close(ctx)
}
