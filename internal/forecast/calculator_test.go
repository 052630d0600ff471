package forecast

import (
	"math"
	"testing"

	"github.com/Vedant817/flow-pilot/backend-go/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestParams_ZScore(t *testing.T) {
	p := DefaultParams()
	assert.Equal(t, 1.645, p.ZScore())

	p.ServiceLevel = 0.5
	assert.Equal(t, 0.0, p.ZScore())
}

func TestParams_Validate(t *testing.T) {
	assert.NoError(t, DefaultParams().Validate())

	tests := []struct {
		name   string
		mutate func(*Params)
	}{
		{name: "zero_window", mutate: func(p *Params) { p.WindowDays = 0 }},
		{name: "window_too_long", mutate: func(p *Params) { p.WindowDays = 366 }},
		{name: "zero_lead_time", mutate: func(p *Params) { p.LeadTimeDays = 0 }},
		{name: "service_level_one", mutate: func(p *Params) { p.ServiceLevel = 1 }},
		{name: "service_level_low", mutate: func(p *Params) { p.ServiceLevel = 0.3 }},
		{name: "negative_order_cost", mutate: func(p *Params) { p.OrderCost = -1 }},
		{name: "negative_holding_rate", mutate: func(p *Params) { p.HoldingCostRate = -0.1 }},
		{name: "negative_horizon", mutate: func(p *Params) { p.StockoutHorizonDays = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)
			assert.ErrorIs(t, p.Validate(), ErrInvalidParams)
		})
	}
}

func TestCalculator_Plan(t *testing.T) {
	params := DefaultParams()
	params.LeadTimeDays = 4
	calc := NewCalculator(params)

	stats := DemandStatistics{ProductName: "Widget", DailyMean: 2, DailyStdDev: 1}
	item := domain.InventoryRecord{ProductName: "Widget", CurrentStock: 10, UnitPrice: 10, StockAlertLevel: 5}

	plan := calc.Plan(stats, item)

	wantSafety := 1.645 * 1 * 2.0
	wantROP := 2*4 + wantSafety
	wantEOQ := math.Sqrt(2 * 730 * 50 / 2.5)

	assert.Equal(t, 4, plan.LeadTimeDays)
	assert.InDelta(t, wantSafety, plan.SafetyStock, 1e-9)
	assert.InDelta(t, wantROP, plan.ReorderPoint, 1e-9)
	assert.InDelta(t, wantEOQ, plan.EconomicOrderQuantity, 1e-9)
	assert.Equal(t, 5, plan.DaysUntilStockout)
	assert.Equal(t, int(math.Ceil(wantROP+wantEOQ)), plan.RecommendedStock)
}

func TestCalculator_PlanUsesSupplierLeadTime(t *testing.T) {
	calc := NewCalculator(DefaultParams())
	stats := DemandStatistics{DailyMean: 1}

	plan := calc.Plan(stats, domain.InventoryRecord{LeadTimeDays: 21, UnitPrice: 4})

	assert.Equal(t, 21, plan.LeadTimeDays)
	assert.InDelta(t, 21.0, plan.ReorderPoint, 1e-9)
}

func TestCalculator_ZeroDemand(t *testing.T) {
	calc := NewCalculator(DefaultParams())

	plan := calc.Plan(DemandStatistics{}, domain.InventoryRecord{CurrentStock: 3, StockAlertLevel: 10, UnitPrice: 20})

	assert.Equal(t, NoDemandSentinel, plan.DaysUntilStockout)
	assert.Zero(t, plan.EconomicOrderQuantity)
	assert.Zero(t, plan.SafetyStock)
	assert.Zero(t, plan.ReorderPoint)
	// alert-level floor: 2 × 10
	assert.Equal(t, 20, plan.RecommendedStock)
}

func TestCalculator_MissingPriceGivesZeroEOQ(t *testing.T) {
	calc := NewCalculator(DefaultParams())

	plan := calc.Plan(DemandStatistics{DailyMean: 3, DailyStdDev: 1}, domain.InventoryRecord{CurrentStock: 50})

	assert.Zero(t, plan.EconomicOrderQuantity)
	// one-month-of-demand floor dominates: 3 × 30
	assert.Equal(t, 90, plan.RecommendedStock)
}

func TestCalculator_RecommendedStockNeverBelowCurrent(t *testing.T) {
	calc := NewCalculator(DefaultParams())

	plan := calc.Plan(DemandStatistics{DailyMean: 0.1}, domain.InventoryRecord{CurrentStock: 1000, UnitPrice: 5})

	assert.Equal(t, 1000, plan.RecommendedStock)
	assert.Equal(t, NoDemandSentinel, plan.DaysUntilStockout)
}

func TestDaysUntilStockout(t *testing.T) {
	assert.Equal(t, NoDemandSentinel, daysUntilStockout(10, 0))
	assert.Equal(t, 0, daysUntilStockout(0, 2))
	assert.Equal(t, 0, daysUntilStockout(-5, 2))
	assert.Equal(t, 3, daysUntilStockout(7, 2))
	assert.Equal(t, NoDemandSentinel, daysUntilStockout(100000, 1))
}
