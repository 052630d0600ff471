package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"
)

// order_date is kept as text: upstream exports mix date-only and timestamp formats,
// and rows that fail to parse are reported during analysis rather than rejected on load.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS inventory (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		category TEXT,
		quantity INTEGER NOT NULL DEFAULT 0,
		price DOUBLE PRECISION NOT NULL DEFAULT 0,
		stock_alert_level INTEGER NOT NULL DEFAULT 0,
		warehouse_location TEXT,
		supplier_lead_time_days INTEGER,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id BIGSERIAL PRIMARY KEY,
		order_date TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'Fulfilled',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id BIGSERIAL PRIMARY KEY,
		order_id BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		product_name TEXT,
		quantity INTEGER
	)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_order_date ON orders (order_date)`,
	`CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items (order_id)`,
}

// Migrate creates the tables read by the forecasting endpoint.
func (db *DB) Migrate(ctx context.Context) error {
	return db.WithTx(ctx, func(tx *sql.Tx) error {
		for i, stmt := range schemaStatements {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("error applying schema statement %d: %w", i+1, err)
			}
		}
		log.Info().Int("statements", len(schemaStatements)).Msg("schema applied")
		return nil
	})
}
