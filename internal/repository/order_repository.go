// backend-go/internal/repository/order_repository.go
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Vedant817/flow-pilot/backend-go/internal/domain"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

type OrderRepository interface {
	// FetchOrders returns every order dated on or after since, with its line items.
	FetchOrders(ctx context.Context, since time.Time) ([]domain.OrderRecord, error)
}

type orderRepository struct {
	db *sqlx.DB
}

func NewOrderRepository(db *sqlx.DB) OrderRepository {
	return &orderRepository{db: db}
}

type orderLineRow struct {
	OrderID     int64          `db:"order_id"`
	OrderDate   sql.NullString `db:"order_date"`
	Status      sql.NullString `db:"status"`
	ItemID      sql.NullInt64  `db:"item_id"`
	ProductName sql.NullString `db:"product_name"`
	Quantity    sql.NullInt64  `db:"quantity"`
}

func (r *orderRepository) FetchOrders(ctx context.Context, since time.Time) ([]domain.OrderRecord, error) {
	// order_date is stored as text; ISO dates compare correctly as strings
	query := r.db.Rebind(`
        SELECT
            o.id AS order_id,
            o.order_date,
            o.status,
            oi.id AS item_id,
            oi.product_name,
            oi.quantity
        FROM orders o
        LEFT JOIN order_items oi ON oi.order_id = o.id
        WHERE o.order_date >= ?
        ORDER BY o.id, oi.id
    `)

	var rows []orderLineRow
	if err := r.db.SelectContext(ctx, &rows, query, since.Format("2006-01-02")); err != nil {
		return nil, fmt.Errorf("error fetching orders: %w", err)
	}

	return groupOrderLines(rows), nil
}

// groupOrderLines folds joined order/item rows, already sorted by order id, into orders.
func groupOrderLines(rows []orderLineRow) []domain.OrderRecord {
	orders := make([]domain.OrderRecord, 0)
	skipped := 0
	for _, row := range rows {
		if len(orders) == 0 || orders[len(orders)-1].ID != row.OrderID {
			orders = append(orders, domain.OrderRecord{
				ID:        row.OrderID,
				Date:      row.OrderDate.String,
				Status:    row.Status.String,
				LineItems: make([]domain.LineItem, 0, 1),
			})
		}
		if !row.ItemID.Valid {
			continue
		}
		if !row.Quantity.Valid {
			skipped++
			continue
		}
		current := &orders[len(orders)-1]
		current.LineItems = append(current.LineItems, domain.LineItem{
			ProductName: row.ProductName.String,
			Quantity:    int(row.Quantity.Int64),
		})
	}

	if skipped > 0 {
		log.Debug().Int("line_items", skipped).Msg("orders: skipped line items without quantity")
	}
	return orders
}
