package forecast

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/stat/distuv"
)

const (
	DefaultWindowDays          = 30
	DefaultLeadTimeDays        = 7
	DefaultServiceLevel        = 0.95
	DefaultOrderCost           = 50.0
	DefaultHoldingCostRate     = 0.25
	DefaultStockoutHorizonDays = 14

	// NoDemandSentinel is reported as days until stockout when a product has
	// no measurable demand.
	NoDemandSentinel = 999

	maxWindowDays   = 365
	maxLeadTimeDays = 365
)

// ErrInvalidParams is returned when forecast parameters are out of range.
var ErrInvalidParams = errors.New("invalid forecast parameters")

// Params are the replenishment assumptions for one analysis.
type Params struct {
	WindowDays          int     // trailing days of order history analysed
	LeadTimeDays        int     // default supplier lead time
	ServiceLevel        float64 // probability of not stocking out during lead time
	OrderCost           float64 // fixed cost per replenishment order
	HoldingCostRate     float64 // annual carrying cost as a fraction of unit price
	StockoutHorizonDays int     // products running out within this many days are reported
}

// DefaultParams returns the stock assumptions used when nothing is configured.
func DefaultParams() Params {
	return Params{
		WindowDays:          DefaultWindowDays,
		LeadTimeDays:        DefaultLeadTimeDays,
		ServiceLevel:        DefaultServiceLevel,
		OrderCost:           DefaultOrderCost,
		HoldingCostRate:     DefaultHoldingCostRate,
		StockoutHorizonDays: DefaultStockoutHorizonDays,
	}
}

// Validate checks every parameter is usable.
func (p Params) Validate() error {
	switch {
	case p.WindowDays < 1 || p.WindowDays > maxWindowDays:
		return fmt.Errorf("%w: window days must be between 1 and %d, got %d", ErrInvalidParams, maxWindowDays, p.WindowDays)
	case p.LeadTimeDays < 1 || p.LeadTimeDays > maxLeadTimeDays:
		return fmt.Errorf("%w: lead time days must be between 1 and %d, got %d", ErrInvalidParams, maxLeadTimeDays, p.LeadTimeDays)
	case p.ServiceLevel < 0.5 || p.ServiceLevel >= 1:
		return fmt.Errorf("%w: service level must be in [0.5, 1), got %g", ErrInvalidParams, p.ServiceLevel)
	case p.OrderCost < 0:
		return fmt.Errorf("%w: order cost must not be negative, got %g", ErrInvalidParams, p.OrderCost)
	case p.HoldingCostRate < 0:
		return fmt.Errorf("%w: holding cost rate must not be negative, got %g", ErrInvalidParams, p.HoldingCostRate)
	case p.StockoutHorizonDays < 0:
		return fmt.Errorf("%w: stockout horizon must not be negative, got %d", ErrInvalidParams, p.StockoutHorizonDays)
	}
	return nil
}

// ZScore converts the service level into the standard normal multiplier
// applied to demand variability, rounded to three decimals (0.95 -> 1.645).
func (p Params) ZScore() float64 {
	return roundFloat(distuv.UnitNormal.Quantile(p.ServiceLevel), 3)
}
