package forecast

import (
	"math"

	"github.com/Vedant817/flow-pilot/backend-go/internal/domain"
)

const (
	daysPerYear        = 365
	targetDaysCover    = 30
	alertLevelMultiple = 2
)

// Calculator turns demand statistics into replenishment metrics
type Calculator struct {
	params Params
	zScore float64
}

// NewCalculator creates a calculator for the given assumptions
func NewCalculator(params Params) *Calculator {
	return &Calculator{
		params: params,
		zScore: params.ZScore(),
	}
}

// Plan computes the replenishment metrics for one inventory item
func (c *Calculator) Plan(stats DemandStatistics, item domain.InventoryRecord) ReplenishmentPlan {
	plan := ReplenishmentPlan{
		ProductName:  item.ProductName,
		LeadTimeDays: c.params.LeadTimeDays,
	}
	if item.LeadTimeDays > 0 {
		plan.LeadTimeDays = item.LeadTimeDays
	}
	leadTime := float64(plan.LeadTimeDays)

	// 1. Safety stock = z × σ(daily) × √(lead time)
	plan.SafetyStock = math.Max(0, c.zScore*stats.DailyStdDev*math.Sqrt(leadTime))

	// 2. Reorder point = (daily demand × lead time) + safety stock
	plan.ReorderPoint = math.Max(0, stats.DailyMean*leadTime+plan.SafetyStock)

	// 3. Economic order quantity
	plan.EconomicOrderQuantity = economicOrderQuantity(
		stats.DailyMean*daysPerYear,
		c.params.OrderCost,
		item.UnitPrice*c.params.HoldingCostRate,
	)

	// 4. Days until stockout
	plan.DaysUntilStockout = daysUntilStockout(item.CurrentStock, stats.DailyMean)

	// 5. Recommended stock: the largest of the statistical, alert-level and
	// one-month-of-demand floors, never below what is already on hand
	recommended := math.Max(
		plan.ReorderPoint+plan.EconomicOrderQuantity,
		math.Max(float64(item.StockAlertLevel*alertLevelMultiple), stats.DailyMean*targetDaysCover),
	)
	plan.RecommendedStock = max(int(math.Ceil(recommended)), item.CurrentStock)

	return plan
}

func economicOrderQuantity(annualDemand, orderCost, holdingCost float64) float64 {
	if annualDemand <= 0 || orderCost <= 0 || holdingCost <= 0 {
		return 0
	}
	return math.Sqrt((2 * annualDemand * orderCost) / holdingCost)
}

func daysUntilStockout(stock int, dailyMean float64) int {
	if dailyMean <= 0 {
		return NoDemandSentinel
	}
	days := math.Floor(float64(stock) / dailyMean)
	return int(clamp(days, 0, NoDemandSentinel))
}
