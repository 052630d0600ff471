package forecast

import (
	"math"

	"github.com/Vedant817/flow-pilot/backend-go/internal/domain"
	"gonum.org/v1/gonum/stat"
)

const (
	trendThreshold = 0.1
	seasonalPeriod = 7
	minConfidence  = 0.5
	maxConfidence  = 1.0

	slopePenalty       = 0.1
	variabilityPenalty = 0.2
)

// Estimate derives the demand statistics of a sales series. It never fails:
// sparse or all-zero history yields a flat trend, a seasonality factor of 1
// and the minimum confidence.
func Estimate(series DailySalesSeries) DemandStatistics {
	values := series.Quantities()
	stats := DemandStatistics{
		ProductName:        series.ProductName,
		TrendDirection:     domain.TrendStable,
		SeasonalityFactor:  1,
		ForecastConfidence: minConfidence,
	}

	switch len(values) {
	case 0:
		return stats
	case 1:
		stats.DailyMean = values[0]
		return stats
	}

	stats.DailyMean, stats.DailyStdDev = stat.PopMeanStdDev(values, nil)
	stats.TrendSlope = trendSlope(values)
	stats.TrendDirection = classifyTrend(stats.TrendSlope)
	stats.SeasonalityFactor = seasonalityFactor(values)

	if stats.DailyMean > 0 {
		stats.DemandVariability = stats.DailyStdDev / stats.DailyMean
		confidence := 1 - math.Abs(stats.TrendSlope)*slopePenalty - stats.DemandVariability*variabilityPenalty
		stats.ForecastConfidence = clamp(confidence, minConfidence, maxConfidence)
	}

	return stats
}

// trendSlope fits quantity against day index (0..n-1) by ordinary least squares.
func trendSlope(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	xs := make([]float64, len(values))
	for i := range xs {
		xs[i] = float64(i)
	}
	_, beta := stat.LinearRegression(xs, values, nil, false)
	if math.IsNaN(beta) || math.IsInf(beta, 0) {
		return 0
	}
	return beta
}

func classifyTrend(slope float64) domain.TrendDirection {
	switch {
	case slope > trendThreshold:
		return domain.TrendIncreasing
	case slope < -trendThreshold:
		return domain.TrendDecreasing
	default:
		return domain.TrendStable
	}
}

// seasonalityFactor is 1 + the coefficient of variation of the weekly bucket
// averages. Buckets start at the beginning of the series; a trailing partial
// bucket is averaged over its own length.
func seasonalityFactor(values []float64) float64 {
	if len(values) < seasonalPeriod {
		return 1
	}

	averages := make([]float64, 0, (len(values)+seasonalPeriod-1)/seasonalPeriod)
	for start := 0; start < len(values); start += seasonalPeriod {
		end := min(start+seasonalPeriod, len(values))
		averages = append(averages, stat.Mean(values[start:end], nil))
	}

	mean, std := stat.PopMeanStdDev(averages, nil)
	if mean <= 0 {
		return 1
	}
	return math.Max(1, 1+std/mean)
}
