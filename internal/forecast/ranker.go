package forecast

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/Vedant817/flow-pilot/backend-go/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	criticalDays = 3
	highDays     = 7

	seasonalityAlert = 1.2
	volatileDemand   = 0.5
	erraticDemand    = 0.75
)

// needsAttention reports whether a product belongs in the restocking report.
func needsAttention(c Candidate, horizonDays int) bool {
	stock := float64(c.Item.CurrentStock)
	return stock <= c.Plan.ReorderPoint ||
		c.Item.CurrentStock <= c.Item.StockAlertLevel ||
		c.Plan.DaysUntilStockout <= horizonDays
}

// classifyUrgency maps days until stockout to an urgency tier; first match wins.
func classifyUrgency(days, horizonDays int) domain.UrgencyLevel {
	switch {
	case days <= criticalDays:
		return domain.UrgencyCritical
	case days <= highDays:
		return domain.UrgencyHigh
	case days <= horizonDays:
		return domain.UrgencyMedium
	default:
		return domain.UrgencyLow
	}
}

// Rank selects the products needing attention and returns them ordered by
// urgency, then by days until stockout. Ties keep the input order.
func Rank(candidates []Candidate, horizonDays int, now time.Time) []domain.Recommendation {
	recs := make([]domain.Recommendation, 0)
	for _, c := range candidates {
		if !needsAttention(c, horizonDays) {
			continue
		}
		recs = append(recs, buildRecommendation(c, horizonDays, now))
	}

	sort.SliceStable(recs, func(i, j int) bool {
		ri, rj := recs[i].UrgencyLevel.Rank(), recs[j].UrgencyLevel.Rank()
		if ri != rj {
			return ri < rj
		}
		return recs[i].DaysUntilStockout < recs[j].DaysUntilStockout
	})

	return recs
}

func buildRecommendation(c Candidate, horizonDays int, now time.Time) domain.Recommendation {
	item, stats, plan := c.Item, c.Stats, c.Plan

	rec := domain.Recommendation{
		Product:               item.ProductName,
		Category:              item.Category,
		CurrentStock:          item.CurrentStock,
		RecommendedStock:      plan.RecommendedStock,
		UrgencyLevel:          classifyUrgency(plan.DaysUntilStockout, horizonDays),
		DaysUntilStockout:     plan.DaysUntilStockout,
		ExpectedDailyDemand:   roundFloat(stats.DailyMean, 2),
		ReorderPoint:          int(math.Round(plan.ReorderPoint)),
		EconomicOrderQuantity: int(math.Round(plan.EconomicOrderQuantity)),
		CostImpact:            costImpact(plan.RecommendedStock-item.CurrentStock, item.UnitPrice).InexactFloat64(),
		ConfidenceScore:       roundFloat(stats.ForecastConfidence, 2),
		TrendDirection:        stats.TrendDirection,
		SeasonalityFactor:     roundFloat(stats.SeasonalityFactor, 2),
	}
	if plan.DaysUntilStockout != NoDemandSentinel {
		rec.ProjectedStockoutDate = truncateDay(now).AddDate(0, 0, plan.DaysUntilStockout).Format("2006-01-02")
	}

	rec.Reasons = reasons(c)
	rec.Recommendations = advice(c)
	return rec
}

func costImpact(units int, unitPrice float64) decimal.Decimal {
	return decimal.NewFromInt(int64(units)).Mul(decimal.NewFromFloat(unitPrice)).Round(2)
}

func reasons(c Candidate) []string {
	item, stats, plan := c.Item, c.Stats, c.Plan
	out := make([]string, 0, 4)

	if item.CurrentStock <= item.StockAlertLevel {
		out = append(out, fmt.Sprintf("Stock (%d) is at or below the alert level (%d)", item.CurrentStock, item.StockAlertLevel))
	}
	if float64(item.CurrentStock) <= plan.ReorderPoint && plan.ReorderPoint > 0 {
		out = append(out, fmt.Sprintf("Stock (%d) is below the reorder point (%d)", item.CurrentStock, int(math.Round(plan.ReorderPoint))))
	}
	if plan.DaysUntilStockout <= highDays {
		out = append(out, fmt.Sprintf("Projected to stock out in %d days", plan.DaysUntilStockout))
	}
	if stats.TrendDirection == domain.TrendIncreasing {
		out = append(out, "Demand trend is increasing")
	}
	if stats.SeasonalityFactor > seasonalityAlert {
		out = append(out, fmt.Sprintf("Weekly demand swings detected (seasonality factor %.2f)", stats.SeasonalityFactor))
	}
	if stats.DemandVariability > volatileDemand {
		out = append(out, "High demand volatility detected")
	}
	return out
}

func advice(c Candidate) []string {
	item, stats, plan := c.Item, c.Stats, c.Plan
	out := make([]string, 0, 4)

	if gap := plan.RecommendedStock - item.CurrentStock; gap > 0 {
		out = append(out, fmt.Sprintf("Order at least %d units to reach the recommended stock level of %d", gap, plan.RecommendedStock))
	}
	if plan.EconomicOrderQuantity > 0 {
		out = append(out, fmt.Sprintf("Optimal order quantity is ~%d units to balance ordering and holding costs", int(math.Round(plan.EconomicOrderQuantity))))
	}
	if plan.DaysUntilStockout <= criticalDays {
		out = append(out, fmt.Sprintf("Expedite the order: supplier lead time is %d days", plan.LeadTimeDays))
	}
	if stats.TrendDirection == domain.TrendIncreasing {
		out = append(out, "Consider adjusting the baseline forecast upwards")
	}
	if stats.SeasonalityFactor > seasonalityAlert {
		out = append(out, "Hold extra buffer ahead of weekly demand peaks")
	}
	if stats.DemandVariability > erraticDemand {
		out = append(out, "Demand is highly erratic; review safety stock levels")
	}
	return out
}

// Summarize aggregates a ranked recommendation list.
func Summarize(recs []domain.Recommendation, productsAnalyzed int) domain.ForecastSummary {
	summary := domain.ForecastSummary{TotalProductsAnalyzed: productsAnalyzed}

	totalCost := decimal.Zero
	totalConfidence := decimal.Zero
	for _, rec := range recs {
		switch rec.UrgencyLevel {
		case domain.UrgencyCritical:
			summary.CriticalItems++
		case domain.UrgencyHigh:
			summary.HighPriorityItems++
		case domain.UrgencyMedium:
			summary.MediumPriorityItems++
		default:
			summary.LowPriorityItems++
		}
		totalCost = totalCost.Add(decimal.NewFromFloat(rec.CostImpact))
		totalConfidence = totalConfidence.Add(decimal.NewFromFloat(rec.ConfidenceScore))
	}

	summary.TotalEstimatedCost = totalCost.Round(2).InexactFloat64()
	if len(recs) > 0 {
		summary.ConfidenceScore = totalConfidence.Div(decimal.NewFromInt(int64(len(recs)))).Round(2).InexactFloat64()
	}
	return summary
}
