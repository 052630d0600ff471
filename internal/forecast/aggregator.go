package forecast

import (
	"sort"
	"strings"
	"time"

	"github.com/Vedant817/flow-pilot/backend-go/internal/domain"
)

var orderDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Window is the closed range of calendar days (UTC) covered by an analysis.
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow returns the window of the given number of days ending on the day of now.
func NewWindow(now time.Time, days int) Window {
	if days < 1 {
		days = 1
	}
	end := truncateDay(now)
	return Window{Start: end.AddDate(0, 0, -(days - 1)), End: end}
}

// Days returns the number of calendar days in the window.
func (w Window) Days() int {
	return int(w.End.Sub(w.Start)/(24*time.Hour)) + 1
}

func (w Window) index(day time.Time) (int, bool) {
	if day.Before(w.Start) || day.After(w.End) {
		return 0, false
	}
	return int(day.Sub(w.Start) / (24 * time.Hour)), true
}

// ProductKey normalises a product name into the join key shared by orders and
// inventory: surrounding whitespace is trimmed and case is folded.
func ProductKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func parseOrderDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range orderDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return truncateDay(t), true
		}
	}
	return time.Time{}, false
}

// Aggregate buckets order line items by product and day and returns one
// zero-filled series per inventory product, in inventory order. Orders with a
// malformed date or no line items are skipped and counted, never fatal.
//
// Inventory names that differ only in case or surrounding space share a join
// key. Their sales are attributed once: to the record whose trimmed name
// matches the ordered name exactly, otherwise to the first such record.
func Aggregate(orders []domain.OrderRecord, inventory []domain.InventoryRecord, window Window) ([]DailySalesSeries, DataQuality) {
	var dq DataQuality
	days := window.Days()

	// join key -> exact trimmed name -> daily counts
	buckets := make(map[string]map[string][]int)
	for _, order := range orders {
		date, ok := parseOrderDate(order.Date)
		if !ok {
			dq.MalformedOrders++
			continue
		}
		if len(order.LineItems) == 0 {
			dq.EmptyOrders++
			continue
		}
		idx, ok := window.index(date)
		if !ok {
			dq.OutOfWindowOrders++
			continue
		}

		for _, item := range order.LineItems {
			key := ProductKey(item.ProductName)
			if key == "" || item.Quantity < 0 {
				dq.SkippedLineItems++
				continue
			}
			byName, ok := buckets[key]
			if !ok {
				byName = make(map[string][]int)
				buckets[key] = byName
			}
			name := strings.TrimSpace(item.ProductName)
			counts, ok := byName[name]
			if !ok {
				counts = make([]int, days)
				byName[name] = counts
			}
			counts[idx] += item.Quantity
		}
	}

	groups := make(map[string][]int, len(inventory))
	for i, item := range inventory {
		key := ProductKey(item.ProductName)
		groups[key] = append(groups[key], i)
	}

	attributed := make([][]int, len(inventory))
	for key, members := range groups {
		if len(members) > 1 {
			dq.NameCollisions = append(dq.NameCollisions, key)
		}

		owners := make(map[string]int, len(members))
		for _, i := range members {
			name := strings.TrimSpace(inventory[i].ProductName)
			if _, taken := owners[name]; !taken {
				owners[name] = i
			}
		}

		for name, counts := range buckets[key] {
			owner, ok := owners[name]
			if !ok {
				owner = members[0]
			}
			if attributed[owner] == nil {
				attributed[owner] = make([]int, days)
			}
			for d, q := range counts {
				attributed[owner][d] += q
			}
		}
	}
	sort.Strings(dq.NameCollisions)

	series := make([]DailySalesSeries, 0, len(inventory))
	for i, item := range inventory {
		s := DailySalesSeries{
			ProductName: item.ProductName,
			Days:        make([]DailySales, days),
		}
		for d := range s.Days {
			s.Days[d].Date = window.Start.AddDate(0, 0, d)
			if attributed[i] != nil {
				s.Days[d].Quantity = attributed[i][d]
			}
		}
		series = append(series, s)
	}

	for key := range buckets {
		if _, ok := groups[key]; !ok {
			dq.UnmatchedProducts = append(dq.UnmatchedProducts, key)
		}
	}
	sort.Strings(dq.UnmatchedProducts)

	return series, dq
}
