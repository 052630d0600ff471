package ingest

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Vedant817/flow-pilot/backend-go/internal/cache"
	"github.com/Vedant817/flow-pilot/backend-go/internal/domain"
	"github.com/Vedant817/flow-pilot/backend-go/internal/repository"
	"github.com/rs/zerolog"
)

// TxRunner runs fn inside a database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error
}

// Result summarises one load.
type Result struct {
	Inventory   int
	Orders      int
	LineItems   int
	SkippedRows int
}

type Loader struct {
	db    TxRunner
	cache cache.ForecastCache
	log   zerolog.Logger
}

func NewLoader(db TxRunner, cacheImpl cache.ForecastCache, logger zerolog.Logger) *Loader {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopForecastCache()
	}
	return &Loader{db: db, cache: cacheImpl, log: logger}
}

// Load reads inventory and orders from src and replaces the stored orders in one transaction.
func (l *Loader) Load(ctx context.Context, src Source) (Result, error) {
	var res Result

	inventoryRows, err := readTable(ctx, src, "inventory")
	if err != nil {
		return res, fmt.Errorf("error reading inventory from %s: %w", src, err)
	}
	inventory, skippedInventory, err := ParseInventory(inventoryRows)
	if err != nil {
		return res, err
	}

	orderRows, err := readTable(ctx, src, "orders")
	if err != nil {
		return res, fmt.Errorf("error reading orders from %s: %w", src, err)
	}
	orders, skippedOrders, err := ParseOrders(orderRows)
	if err != nil {
		return res, err
	}

	for _, rowErr := range skippedInventory {
		l.log.Warn().Str("file", "inventory").Int("line", rowErr.Line).Str("reason", rowErr.Reason).Msg("skipping row")
	}
	for _, rowErr := range skippedOrders {
		l.log.Warn().Str("file", "orders").Int("line", rowErr.Line).Str("reason", rowErr.Reason).Msg("skipping row")
	}
	res.SkippedRows = len(skippedInventory) + len(skippedOrders)

	err = l.db.WithTx(ctx, func(tx *sql.Tx) error {
		return write(ctx, repository.NewIngestRepository(tx), inventory, orders, &res)
	})
	if err != nil {
		return Result{}, err
	}

	if err := l.cache.InvalidateAll(ctx); err != nil {
		l.log.Warn().Err(err).Msg("forecast cache invalidation failed")
	}

	l.log.Info().
		Str("source", src.String()).
		Int("inventory", res.Inventory).
		Int("orders", res.Orders).
		Int("line_items", res.LineItems).
		Int("skipped_rows", res.SkippedRows).
		Msg("seed data loaded")
	return res, nil
}

func write(ctx context.Context, repo *repository.IngestRepository, inventory []domain.InventoryRecord, orders []domain.OrderRecord, res *Result) error {
	for i := range inventory {
		if _, err := repo.UpsertInventory(ctx, &inventory[i]); err != nil {
			return err
		}
		res.Inventory++
	}

	if err := repo.TruncateOrders(ctx); err != nil {
		return err
	}
	for i := range orders {
		if _, err := repo.InsertOrder(ctx, &orders[i]); err != nil {
			return err
		}
		res.Orders++
		res.LineItems += len(orders[i].LineItems)
	}
	return nil
}
