package ingest

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Vedant817/flow-pilot/backend-go/internal/domain"
)

// RowError records a skipped input row; Line is 1-based and counts the header.
type RowError struct {
	Line   int
	Reason string
}

func (e RowError) Error() string { return fmt.Sprintf("line %d: %s", e.Line, e.Reason) }

var (
	orderColumns     = []string{"order_id", "date", "product", "quantity"}
	inventoryColumns = []string{"name", "quantity"}
)

// columnIndex maps normalised header names to their position.
func columnIndex(header []string, required []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, col := range header {
		col = strings.TrimPrefix(col, "\ufeff")
		cols[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, col := range required {
		if _, ok := cols[col]; !ok {
			return nil, fmt.Errorf("missing required column: %s", col)
		}
	}
	return cols, nil
}

func field(record []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// ParseOrders groups order line rows by order_id, keeping first-seen order.
func ParseOrders(rows [][]string) ([]domain.OrderRecord, []RowError, error) {
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("orders: empty file")
	}
	cols, err := columnIndex(rows[0], orderColumns)
	if err != nil {
		return nil, nil, fmt.Errorf("orders: %w", err)
	}

	var (
		orders  []domain.OrderRecord
		skipped []RowError
		byID    = make(map[string]int)
	)
	for i, record := range rows[1:] {
		line := i + 2
		if isBlank(record) {
			continue
		}

		id := field(record, cols, "order_id")
		if id == "" {
			skipped = append(skipped, RowError{Line: line, Reason: "missing order_id"})
			continue
		}
		product := field(record, cols, "product")
		if product == "" {
			skipped = append(skipped, RowError{Line: line, Reason: "missing product"})
			continue
		}
		qty, err := strconv.Atoi(field(record, cols, "quantity"))
		if err != nil || qty < 0 {
			skipped = append(skipped, RowError{Line: line, Reason: fmt.Sprintf("invalid quantity %q", field(record, cols, "quantity"))})
			continue
		}

		idx, ok := byID[id]
		if !ok {
			idx = len(orders)
			byID[id] = idx
			orders = append(orders, domain.OrderRecord{
				Date:   field(record, cols, "date"),
				Status: field(record, cols, "status"),
			})
		}
		orders[idx].LineItems = append(orders[idx].LineItems, domain.LineItem{ProductName: product, Quantity: qty})
	}

	return orders, skipped, nil
}

// ParseInventory reads one inventory record per row; later duplicates of a name win.
func ParseInventory(rows [][]string) ([]domain.InventoryRecord, []RowError, error) {
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("inventory: empty file")
	}
	cols, err := columnIndex(rows[0], inventoryColumns)
	if err != nil {
		return nil, nil, fmt.Errorf("inventory: %w", err)
	}

	var (
		items   []domain.InventoryRecord
		skipped []RowError
		byName  = make(map[string]int)
	)
	for i, record := range rows[1:] {
		line := i + 2
		if isBlank(record) {
			continue
		}

		name := field(record, cols, "name")
		if name == "" {
			skipped = append(skipped, RowError{Line: line, Reason: "missing name"})
			continue
		}

		item := domain.InventoryRecord{
			ProductName:       name,
			Category:          field(record, cols, "category"),
			WarehouseLocation: field(record, cols, "warehouse_location"),
		}

		var bad string
		if item.CurrentStock, bad = parseCount(record, cols, "quantity"); bad != "" {
			skipped = append(skipped, RowError{Line: line, Reason: bad})
			continue
		}
		if item.StockAlertLevel, bad = parseCount(record, cols, "stock_alert_level"); bad != "" {
			skipped = append(skipped, RowError{Line: line, Reason: bad})
			continue
		}
		if item.LeadTimeDays, bad = parseCount(record, cols, "lead_time_days"); bad != "" {
			skipped = append(skipped, RowError{Line: line, Reason: bad})
			continue
		}
		if raw := field(record, cols, "price"); raw != "" {
			price, err := strconv.ParseFloat(raw, 64)
			if err != nil || price < 0 {
				skipped = append(skipped, RowError{Line: line, Reason: fmt.Sprintf("invalid price %q", raw)})
				continue
			}
			item.UnitPrice = price
		}

		// keyed like the inventory upsert, ON CONFLICT (name)
		if idx, ok := byName[name]; ok {
			items[idx] = item
			continue
		}
		byName[name] = len(items)
		items = append(items, item)
	}

	return items, skipped, nil
}

// parseCount reads an optional non-negative integer column; blank means zero.
func parseCount(record []string, cols map[string]int, name string) (int, string) {
	raw := field(record, cols, name)
	if raw == "" {
		return 0, ""
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Sprintf("invalid %s %q", name, raw)
	}
	return v, ""
}
