package domain

import "time"

// UrgencyLevel classifies how soon a product needs restocking.
type UrgencyLevel string

const (
	UrgencyCritical UrgencyLevel = "CRITICAL"
	UrgencyHigh     UrgencyLevel = "HIGH"
	UrgencyMedium   UrgencyLevel = "MEDIUM"
	UrgencyLow      UrgencyLevel = "LOW"
)

var urgencyRanks = map[UrgencyLevel]int{
	UrgencyCritical: 0,
	UrgencyHigh:     1,
	UrgencyMedium:   2,
	UrgencyLow:      3,
}

// Rank orders urgency levels from most to least urgent. Unknown levels sort last.
func (u UrgencyLevel) Rank() int {
	if rank, ok := urgencyRanks[u]; ok {
		return rank
	}
	return len(urgencyRanks)
}

// TrendDirection is the sign of the demand trend.
type TrendDirection string

const (
	TrendIncreasing TrendDirection = "INCREASING"
	TrendStable     TrendDirection = "STABLE"
	TrendDecreasing TrendDirection = "DECREASING"
)

// Recommendation is one product in the restocking report.
type Recommendation struct {
	Product               string         `json:"product"`
	Category              string         `json:"category,omitempty"`
	CurrentStock          int            `json:"current_stock"`
	RecommendedStock      int            `json:"recommended_stock"`
	UrgencyLevel          UrgencyLevel   `json:"urgency_level"`
	DaysUntilStockout     int            `json:"days_until_stockout"`
	ProjectedStockoutDate string         `json:"projected_stockout_date,omitempty"`
	ExpectedDailyDemand   float64        `json:"expected_daily_demand"`
	ReorderPoint          int            `json:"reorder_point"`
	EconomicOrderQuantity int            `json:"economic_order_quantity"`
	CostImpact            float64        `json:"cost_impact"`
	ConfidenceScore       float64        `json:"confidence_score"`
	TrendDirection        TrendDirection `json:"trend_direction"`
	SeasonalityFactor     float64        `json:"seasonality_factor"`
	Reasons               []string       `json:"reasons"`
	Recommendations       []string       `json:"recommendations"`
}

// ForecastSummary aggregates the recommendations of a report.
type ForecastSummary struct {
	TotalProductsAnalyzed int     `json:"total_products_analyzed"`
	CriticalItems         int     `json:"critical_items"`
	HighPriorityItems     int     `json:"high_priority_items"`
	MediumPriorityItems   int     `json:"medium_priority_items"`
	LowPriorityItems      int     `json:"low_priority_items"`
	TotalEstimatedCost    float64 `json:"total_estimated_cost"`
	ConfidenceScore       float64 `json:"confidence_score"`
}

// ForecastReport is the restocking analysis returned to callers.
type ForecastReport struct {
	UrgentRestocking        []Recommendation `json:"urgent_restocking"`
	Summary                 ForecastSummary  `json:"summary"`
	GeneratedAt             time.Time        `json:"generated_at"`
	NextAnalysisRecommended time.Time        `json:"next_analysis_recommended"`
}
