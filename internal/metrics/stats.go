package metrics

import (
	"math"
	"time"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"
)

const (
	// TradingDaysPerYear annualizes daily standard deviations.
	TradingDaysPerYear = 252
	// DaysPerYear converts calendar days to years for CAGR.
	DaysPerYear = 365.25
)

// SimpleReturns returns closes[i]/closes[i-1] - 1 for i >= 1.
func SimpleReturns(closes []float64) []float64 {
	if len(closes) < 2 {
		return []float64{}
	}
	out := make([]float64, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		out[i-1] = closes[i]/closes[i-1] - 1
	}
	return out
}

// CumulativeReturns compounds returns in order: prod(1+r[0..i]) - 1.
func CumulativeReturns(returns []float64) []float64 {
	growth := make([]float64, len(returns))
	for i, r := range returns {
		growth[i] = 1 + r
	}
	floats.CumProd(growth, growth)
	for i := range growth {
		growth[i]--
	}
	return growth
}

// Downside clips every return at zero from above.
func Downside(returns []float64) []float64 {
	out := make([]float64, len(returns))
	for i, r := range returns {
		out[i] = math.Min(r, 0)
	}
	return out
}

// YearsBetween is the calendar distance from t0 to t1 in 365.25-day years.
func YearsBetween(t0, t1 time.Time) float64 {
	days := t1.Sub(t0).Hours() / 24
	return days / DaysPerYear
}

// CAGR is the constant annual growth rate taking first to last over years.
// It is NaN when years is not positive.
func CAGR(first, last, years float64) float64 {
	if years <= 0 || math.IsNaN(years) {
		return math.NaN()
	}
	return math.Pow(last/first, 1/years) - 1
}

// AnnualizedStdDev is the sample standard deviation of daily values scaled by
// sqrt(252). Fewer than two observations carry no dispersion and yield 0.
func AnnualizedStdDev(daily []float64) float64 {
	if len(daily) < 2 {
		return 0
	}
	sd, err := stats.StandardDeviationSample(daily)
	if err != nil {
		return 0
	}
	return sd * math.Sqrt(TradingDaysPerYear)
}

// Ratio divides excess return by a risk measure, NaN when the measure is zero.
func Ratio(excess, risk float64) float64 {
	if risk == 0 || math.IsNaN(risk) {
		return math.NaN()
	}
	return excess / risk
}
