package forecast

import (
	"time"

	"github.com/Vedant817/flow-pilot/backend-go/internal/domain"
)

// DailySales is the quantity of a product sold on one calendar day.
type DailySales struct {
	Date     time.Time
	Quantity int
}

// DailySalesSeries is the zero-filled, day-by-day sales of one product over
// the analysis window. Days are contiguous and ascending.
type DailySalesSeries struct {
	ProductName string
	Days        []DailySales
}

// Quantities returns the series as float64 values for the estimator.
func (s DailySalesSeries) Quantities() []float64 {
	values := make([]float64, len(s.Days))
	for i, d := range s.Days {
		values[i] = float64(d.Quantity)
	}
	return values
}

// DemandStatistics is the statistical demand signal of one product.
type DemandStatistics struct {
	ProductName        string
	DailyMean          float64
	DailyStdDev        float64 // population standard deviation, always >= 0
	TrendSlope         float64 // units/day change per day
	TrendDirection     domain.TrendDirection
	SeasonalityFactor  float64 // >= 1
	DemandVariability  float64 // coefficient of variation of daily demand
	ForecastConfidence float64 // in [0.5, 1]
}

// ReplenishmentPlan holds calculated replenishment metrics for one product.
type ReplenishmentPlan struct {
	ProductName           string
	LeadTimeDays          int
	SafetyStock           float64 // z × σ × √LT
	ReorderPoint          float64 // lead-time demand + safety stock
	EconomicOrderQuantity float64 // 0 when demand or holding cost is non-positive
	DaysUntilStockout     int     // NoDemandSentinel when there is no measurable demand
	RecommendedStock      int     // never below current stock
}

// Candidate bundles everything the ranker needs about one product.
type Candidate struct {
	Item  domain.InventoryRecord
	Stats DemandStatistics
	Plan  ReplenishmentPlan
}

// DataQuality counts input records the aggregator had to skip.
type DataQuality struct {
	MalformedOrders   int      // missing or unparseable date
	EmptyOrders       int      // no line items
	OutOfWindowOrders int      // dated outside the analysis window
	SkippedLineItems  int      // missing product name or negative quantity
	UnmatchedProducts []string // ordered products with no inventory record, sorted
	NameCollisions    []string // join keys shared by several inventory records, sorted
}

// Clean reports whether nothing was skipped.
func (dq DataQuality) Clean() bool {
	return dq.MalformedOrders == 0 && dq.EmptyOrders == 0 &&
		dq.SkippedLineItems == 0 && len(dq.UnmatchedProducts) == 0 &&
		len(dq.NameCollisions) == 0
}
