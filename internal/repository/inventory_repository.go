package repository

import (
	"context"
	"fmt"

	"github.com/Vedant817/flow-pilot/backend-go/internal/domain"
	"github.com/jmoiron/sqlx"
)

type InventoryRepository interface {
	FetchInventory(ctx context.Context) ([]domain.InventoryRecord, error)
}

type inventoryRepository struct {
	db *sqlx.DB
}

func NewInventoryRepository(db *sqlx.DB) InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) FetchInventory(ctx context.Context) ([]domain.InventoryRecord, error) {
	query := `
        SELECT
            id,
            name,
            COALESCE(category, '') AS category,
            quantity,
            price,
            stock_alert_level,
            COALESCE(warehouse_location, '') AS warehouse_location,
            COALESCE(supplier_lead_time_days, 0) AS supplier_lead_time_days
        FROM inventory
        ORDER BY name, id
    `

	items := make([]domain.InventoryRecord, 0)
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("error fetching inventory: %w", err)
	}

	return items, nil
}
