package repository

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func str(s string) sql.NullString { return sql.NullString{String: s, Valid: true} }
func num(n int64) sql.NullInt64   { return sql.NullInt64{Int64: n, Valid: true} }

func TestGroupOrderLines(t *testing.T) {
	rows := []orderLineRow{
		{OrderID: 1, OrderDate: str("2025-06-01"), Status: str("Fulfilled"), ItemID: num(10), ProductName: str("Widget"), Quantity: num(2)},
		{OrderID: 1, OrderDate: str("2025-06-01"), Status: str("Fulfilled"), ItemID: num(11), ProductName: str("Gadget"), Quantity: num(1)},
		{OrderID: 2, OrderDate: str("2025-06-02")},
		{OrderID: 3, OrderDate: str("2025-06-03"), ItemID: num(12), ProductName: str("Widget")},
		{OrderID: 4, OrderDate: str("2025-06-04"), ItemID: num(13), Quantity: num(4)},
	}

	orders := groupOrderLines(rows)

	require.Len(t, orders, 4)
	assert.Equal(t, int64(1), orders[0].ID)
	assert.Equal(t, "Fulfilled", orders[0].Status)
	require.Len(t, orders[0].LineItems, 2)
	assert.Equal(t, "Gadget", orders[0].LineItems[1].ProductName)

	assert.Empty(t, orders[1].LineItems, "order without items")
	assert.Empty(t, orders[2].LineItems, "null quantity is dropped")

	require.Len(t, orders[3].LineItems, 1)
	assert.Equal(t, "", orders[3].LineItems[0].ProductName, "null product passes through for the aggregator to reject")
}

func TestGroupOrderLines_Empty(t *testing.T) {
	orders := groupOrderLines(nil)

	assert.NotNil(t, orders)
	assert.Empty(t, orders)
}
