package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/andresuchdata/logistics-analytics/backend-go/internal/config"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"
)

// DB is the record store's connection pool. Writes run through WithTx, which
// admits at most MaxWriters transactions at a time.
type DB struct {
	*sqlx.DB
	writers *semaphore.Weighted
}

type poolSettings struct {
	maxOpen  int
	maxIdle  int
	lifetime time.Duration
	writers  int64
}

// newPoolSettings fills unset pool options and keeps idle connections and
// writers within the open connection limit.
func newPoolSettings(cfg *config.DatabaseConfig) poolSettings {
	p := poolSettings{
		maxOpen:  cfg.MaxOpenConns,
		maxIdle:  cfg.MaxIdleConns,
		lifetime: cfg.ConnMaxLifetime,
		writers:  int64(cfg.MaxWriters),
	}
	if p.maxOpen <= 0 {
		p.maxOpen = 25
	}
	if p.maxIdle <= 0 {
		p.maxIdle = 5
	}
	p.maxIdle = min(p.maxIdle, p.maxOpen)
	if p.lifetime <= 0 {
		p.lifetime = 5 * time.Minute
	}
	if p.writers <= 0 {
		p.writers = 10
	}
	p.writers = min(p.writers, int64(p.maxOpen))
	return p
}

// NewDB opens a lib/pq pool and pings it.
func NewDB(ctx context.Context, cfg *config.DatabaseConfig) (*DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("connect to %s:%s/%s: %w", cfg.Host, cfg.Port, cfg.DBName, err)
	}

	pool := newPoolSettings(cfg)
	db.SetMaxOpenConns(pool.maxOpen)
	db.SetMaxIdleConns(pool.maxIdle)
	db.SetConnMaxLifetime(pool.lifetime)

	log.Debug().
		Str("host", cfg.Host).
		Str("database", cfg.DBName).
		Int("max_open", pool.maxOpen).
		Int64("writers", pool.writers).
		Msg("postgres: connected")

	return &DB{DB: db, writers: semaphore.NewWeighted(pool.writers)}, nil
}

// WithTx runs fn in a transaction, committing when it returns nil.
func (db *DB) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	if err := db.writers.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("wait for write slot: %w", err)
	}
	defer db.writers.Release(1)

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error().Err(rbErr).Msg("postgres: rollback failed")
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// truncate empties table and resets its sequences.
func truncate(ctx context.Context, tx *sqlx.Tx, table string) error {
	if _, err := tx.ExecContext(ctx, `TRUNCATE `+pq.QuoteIdentifier(table)+` RESTART IDENTITY`); err != nil {
		return fmt.Errorf("truncate %s: %w", table, err)
	}
	return nil
}

// copyRows streams n rows into table with COPY FROM STDIN. row(i) returns the
// values of row i in columns order.
func copyRows(ctx context.Context, tx *sqlx.Tx, table string, columns []string, n int, row func(i int) []any) error {
	stmt, err := tx.PrepareContext(ctx, pq.CopyIn(table, columns...))
	if err != nil {
		return fmt.Errorf("prepare copy into %s: %w", table, err)
	}
	defer stmt.Close()

	for i := 0; i < n; i++ {
		if _, err := stmt.ExecContext(ctx, row(i)...); err != nil {
			return fmt.Errorf("copy %s row %d: %w", table, i, err)
		}
	}

	if _, err := stmt.ExecContext(ctx); err != nil {
		return fmt.Errorf("flush copy into %s: %w", table, err)
	}
	return nil
}
