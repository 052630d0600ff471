package forecast

import (
	"testing"
	"time"

	"github.com/Vedant817/flow-pilot/backend-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 30, 15, 4, 5, 0, time.UTC)

func day(offset int) string {
	return testNow.AddDate(0, 0, -offset).Format("2006-01-02")
}

func order(date string, items ...domain.LineItem) domain.OrderRecord {
	return domain.OrderRecord{Date: date, LineItems: items}
}

func line(name string, qty int) domain.LineItem {
	return domain.LineItem{ProductName: name, Quantity: qty}
}

func TestNewWindow(t *testing.T) {
	w := NewWindow(testNow, 30)

	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC), w.End)
	assert.Equal(t, 30, w.Days())
}

func TestAggregate_ZeroFilledContiguousSeries(t *testing.T) {
	window := NewWindow(testNow, 10)
	inventory := []domain.InventoryRecord{{ProductName: "Widget"}, {ProductName: "Gadget"}}
	orders := []domain.OrderRecord{
		order(day(0), line("Widget", 2)),
		order(day(9), line("Widget", 3)),
	}

	series, dq := Aggregate(orders, inventory, window)

	require.Len(t, series, 2)
	assert.True(t, dq.Clean())
	for _, s := range series {
		require.Len(t, s.Days, 10)
		for i := 1; i < len(s.Days); i++ {
			assert.Equal(t, s.Days[i-1].Date.AddDate(0, 0, 1), s.Days[i].Date)
		}
	}

	widget := series[0].Quantities()
	assert.Equal(t, 3.0, widget[0])
	assert.Equal(t, 2.0, widget[9])
	assert.Equal(t, make([]float64, 10), series[1].Quantities())
}

func TestAggregate_SumsDuplicatesWithinDay(t *testing.T) {
	window := NewWindow(testNow, 3)
	inventory := []domain.InventoryRecord{{ProductName: "Widget"}}
	orders := []domain.OrderRecord{
		order(day(1), line("Widget", 2), line("Widget", 4)),
		order(day(1)+"T10:30:00Z", line("Widget", 1)),
	}

	series, _ := Aggregate(orders, inventory, window)

	assert.Equal(t, []float64{0, 7, 0}, series[0].Quantities())
}

func TestAggregate_NormalizesProductKey(t *testing.T) {
	window := NewWindow(testNow, 1)
	inventory := []domain.InventoryRecord{{ProductName: "Blue Mug"}}
	orders := []domain.OrderRecord{
		order(day(0), line("  blue mug ", 2), line("BLUE MUG", 1)),
	}

	series, dq := Aggregate(orders, inventory, window)

	assert.Equal(t, []float64{3}, series[0].Quantities())
	assert.Empty(t, dq.UnmatchedProducts)
}

func TestAggregate_CaseVariantNamesCountedOnce(t *testing.T) {
	window := NewWindow(testNow, 2)
	inventory := []domain.InventoryRecord{
		{ProductName: "Widget"},
		{ProductName: "widget"},
		{ProductName: "Gadget"},
	}
	orders := []domain.OrderRecord{
		order(day(0), line("Widget", 30)),
		order(day(0), line("widget ", 4)),
		order(day(1), line("WIDGET", 2)),
		order(day(1), line("gadget", 1)),
	}

	series, dq := Aggregate(orders, inventory, window)

	require.Len(t, series, 3)
	// exact matches go to their own record; "WIDGET" has none and goes to the first
	assert.Equal(t, []float64{2, 30}, series[0].Quantities())
	assert.Equal(t, []float64{0, 4}, series[1].Quantities())
	assert.Equal(t, []float64{1, 0}, series[2].Quantities())

	var total float64
	for _, s := range series[:2] {
		for _, q := range s.Quantities() {
			total += q
		}
	}
	assert.Equal(t, 36.0, total, "each unit sold is attributed once")
	assert.Equal(t, []string{"widget"}, dq.NameCollisions)
	assert.Empty(t, dq.UnmatchedProducts)
	assert.False(t, dq.Clean())
}

func TestAggregate_SkipsMalformedRecords(t *testing.T) {
	window := NewWindow(testNow, 5)
	inventory := []domain.InventoryRecord{{ProductName: "Widget"}}
	orders := []domain.OrderRecord{
		order("", line("Widget", 5)),
		order("not-a-date", line("Widget", 5)),
		order(day(0)),
		order(day(1), line("", 4), line("Widget", -2), line("Widget", 1)),
		order(day(40), line("Widget", 9)),
		order(day(2), line("Sprocket", 3)),
	}

	series, dq := Aggregate(orders, inventory, window)

	assert.Equal(t, []float64{0, 0, 0, 1, 0}, series[0].Quantities())
	assert.Equal(t, 2, dq.MalformedOrders)
	assert.Equal(t, 1, dq.EmptyOrders)
	assert.Equal(t, 2, dq.SkippedLineItems)
	assert.Equal(t, 1, dq.OutOfWindowOrders)
	assert.Equal(t, []string{"sprocket"}, dq.UnmatchedProducts)
	assert.False(t, dq.Clean())
}

func TestAggregate_EmptyInputs(t *testing.T) {
	series, dq := Aggregate(nil, nil, NewWindow(testNow, 30))

	assert.Empty(t, series)
	assert.True(t, dq.Clean())
}
