package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Vedant817/flow-pilot/backend-go/internal/domain"
)

// Querier is satisfied by both *sql.DB and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type IngestRepository struct {
	db Querier
}

func NewIngestRepository(db Querier) *IngestRepository {
	return &IngestRepository{db: db}
}

func (r *IngestRepository) UpsertInventory(ctx context.Context, item *domain.InventoryRecord) (int64, error) {
	query := `
		INSERT INTO inventory (name, category, quantity, price, stock_alert_level, warehouse_location, supplier_lead_time_days, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (name)
		DO UPDATE SET
			category = EXCLUDED.category,
			quantity = EXCLUDED.quantity,
			price = EXCLUDED.price,
			stock_alert_level = EXCLUDED.stock_alert_level,
			warehouse_location = EXCLUDED.warehouse_location,
			supplier_lead_time_days = EXCLUDED.supplier_lead_time_days,
			updated_at = NOW()
		RETURNING id
	`
	var leadTime sql.NullInt64
	if item.LeadTimeDays > 0 {
		leadTime = sql.NullInt64{Int64: int64(item.LeadTimeDays), Valid: true}
	}

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		item.ProductName,
		item.Category,
		item.CurrentStock,
		item.UnitPrice,
		item.StockAlertLevel,
		item.WarehouseLocation,
		leadTime,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert inventory item %q: %w", item.ProductName, err)
	}
	return id, nil
}

// InsertOrder stores the order header and its line items and returns the new order id.
func (r *IngestRepository) InsertOrder(ctx context.Context, order *domain.OrderRecord) (int64, error) {
	status := order.Status
	if status == "" {
		status = "Fulfilled"
	}

	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO orders (order_date, status) VALUES ($1, $2) RETURNING id`,
		order.Date, status,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert order: %w", err)
	}

	for _, line := range order.LineItems {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO order_items (order_id, product_name, quantity) VALUES ($1, $2, $3)`,
			id, line.ProductName, line.Quantity,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert line item %q for order %d: %w", line.ProductName, id, err)
		}
	}
	return id, nil
}

// TruncateOrders removes all orders and their line items.
func (r *IngestRepository) TruncateOrders(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `TRUNCATE order_items, orders RESTART IDENTITY`); err != nil {
		return fmt.Errorf("failed to truncate orders: %w", err)
	}
	return nil
}
