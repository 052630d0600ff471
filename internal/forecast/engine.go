package forecast

import (
	"time"

	"github.com/Vedant817/flow-pilot/backend-go/internal/domain"
	"github.com/rs/zerolog"
)

// NextAnalysisAfter is how long after generation a report suggests rerunning.
const NextAnalysisAfter = 24 * time.Hour

// Engine runs the restocking analysis: aggregate -> estimate -> plan -> rank.
// It holds no state between calls and is safe for concurrent use.
type Engine struct {
	log zerolog.Logger
}

// NewEngine creates an engine that reports data-quality notes to logger.
func NewEngine(logger zerolog.Logger) *Engine {
	return &Engine{log: logger}
}

// Analyze produces the restocking report for the given orders and inventory as
// of now. The only error it returns is ErrInvalidParams.
func (e *Engine) Analyze(orders []domain.OrderRecord, inventory []domain.InventoryRecord, params Params, now time.Time) (*domain.ForecastReport, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	window := NewWindow(now, params.WindowDays)
	series, dq := Aggregate(orders, inventory, window)
	e.logDataQuality(dq)

	calculator := NewCalculator(params)
	candidates := make([]Candidate, len(inventory))
	for i, item := range inventory {
		stats := Estimate(series[i])
		candidates[i] = Candidate{
			Item:  item,
			Stats: stats,
			Plan:  calculator.Plan(stats, item),
		}
	}

	recs := Rank(candidates, params.StockoutHorizonDays, now)
	generatedAt := now.UTC()

	e.log.Debug().
		Int("orders", len(orders)).
		Int("products", len(inventory)).
		Int("recommendations", len(recs)).
		Time("window_start", window.Start).
		Time("window_end", window.End).
		Msg("forecast analysis completed")

	return &domain.ForecastReport{
		UrgentRestocking:        recs,
		Summary:                 Summarize(recs, len(inventory)),
		GeneratedAt:             generatedAt,
		NextAnalysisRecommended: generatedAt.Add(NextAnalysisAfter),
	}, nil
}

func (e *Engine) logDataQuality(dq DataQuality) {
	if dq.Clean() {
		return
	}
	e.log.Warn().
		Int("malformed_orders", dq.MalformedOrders).
		Int("empty_orders", dq.EmptyOrders).
		Int("skipped_line_items", dq.SkippedLineItems).
		Int("unmatched_products", len(dq.UnmatchedProducts)).
		Strs("name_collisions", dq.NameCollisions).
		Msg("forecast: skipped records while aggregating sales history")
	if len(dq.UnmatchedProducts) > 0 {
		e.log.Debug().Strs("products", dq.UnmatchedProducts).Msg("forecast: ordered products missing from inventory")
	}
}
