// backend-go/internal/domain/models.go
package domain

// LineItem is a single product line of an order.
type LineItem struct {
	ProductName string `json:"name" db:"product_name"`
	Quantity    int    `json:"quantity" db:"quantity"`
}

// OrderRecord is a historical order as read from the order store. Date is kept
// as the raw stored string; parsing happens at the aggregation boundary so a
// malformed value only drops that order.
type OrderRecord struct {
	ID        int64      `json:"id"`
	Date      string     `json:"date"`
	Status    string     `json:"status,omitempty"`
	LineItems []LineItem `json:"products"`
}

// InventoryRecord represents the current stock position of a product
type InventoryRecord struct {
	ID                int64   `json:"id" db:"id"`
	ProductName       string  `json:"name" db:"name"`
	Category          string  `json:"category" db:"category"`
	CurrentStock      int     `json:"quantity" db:"quantity"`
	UnitPrice         float64 `json:"price" db:"price"`
	StockAlertLevel   int     `json:"stock_alert_level" db:"stock_alert_level"`
	WarehouseLocation string  `json:"warehouse_location" db:"warehouse_location"`
	// LeadTimeDays is the supplier lead time; zero means the configured default.
	LeadTimeDays int `json:"supplier_lead_time_days,omitempty" db:"supplier_lead_time_days"`
}
