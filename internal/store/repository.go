package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/aistocks/internal/contracts"
)

// Repository implements contracts.RecordRepository on PostgreSQL
// ⭐ SSOT: stored snapshots are read and written only here
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new snapshot repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const schemaSQL = `
	CREATE SCHEMA IF NOT EXISTS data;
	CREATE TABLE IF NOT EXISTS data.stock_snapshots (
		trade_date     DATE             NOT NULL,
		instrument     TEXT             NOT NULL,
		price          DOUBLE PRECISION,
		percent_change DOUBLE PRECISION,
		updated_at     TIMESTAMPTZ      NOT NULL DEFAULT NOW(),
		PRIMARY KEY (trade_date, instrument)
	)`

// EnsureSchema creates the snapshot table if it does not exist
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// SaveRecords upserts every instrument value of every record.
// Returns the number of rows written.
func (r *Repository) SaveRecords(ctx context.Context, records []contracts.Record) (int, error) {
	rows := flatten(records)
	if len(rows) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO data.stock_snapshots (trade_date, instrument, price, percent_change)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (trade_date, instrument) DO UPDATE SET
			price = EXCLUDED.price,
			percent_change = EXCLUDED.percent_change,
			updated_at = NOW()`

	batch := &pgx.Batch{}
	for _, row := range rows {
		batch.Queue(query, row.Date, row.Instrument, row.Price, row.PercentChange)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	for i := range rows {
		if _, err := br.Exec(); err != nil {
			return i, fmt.Errorf("upsert %s %s: %w", rows[i].Instrument, rows[i].Date.Format("2006-01-02"), err)
		}
	}

	return len(rows), nil
}

// LoadRecords returns all stored snapshots as date-ascending records
func (r *Repository) LoadRecords(ctx context.Context) ([]contracts.Record, error) {
	query := `
		SELECT trade_date, instrument, price, percent_change
		FROM data.stock_snapshots
		ORDER BY trade_date ASC, instrument ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snapshots []snapshotRow
	for rows.Next() {
		var s snapshotRow
		if err := rows.Scan(&s.Date, &s.Instrument, &s.Price, &s.PercentChange); err != nil {
			return nil, err
		}
		snapshots = append(snapshots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return pivot(snapshots), nil
}

// LatestDate returns the most recent stored trade date, or nil when empty
func (r *Repository) LatestDate(ctx context.Context) (*time.Time, error) {
	var latest *time.Time
	err := r.pool.QueryRow(ctx, `SELECT MAX(trade_date) FROM data.stock_snapshots`).Scan(&latest)
	if err != nil {
		return nil, err
	}
	return latest, nil
}
