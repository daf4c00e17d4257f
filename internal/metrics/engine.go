package metrics

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/guttosm/investhelper/internal/domain/models"
	"github.com/guttosm/investhelper/internal/logger"
	"github.com/guttosm/investhelper/internal/provider"
)

var (
	// ErrDataUnavailable means the provider returned no usable adjusted-close history.
	ErrDataUnavailable = errors.New("no price data or adjusted close for ticker")
	// ErrEmptyWindow means the date bounds excluded every available bar.
	ErrEmptyWindow = errors.New("no trading data in the requested period")
)

// Result bundles everything derived from one query.
type Result struct {
	Ticker  string
	Prices  models.PriceHistory // truncated window
	Series  models.ReturnSeries
	Summary models.SummaryMetrics
}

// Engine fetches a daily history and derives returns and risk metrics from it.
// It keeps no state between calls and is safe for concurrent use.
type Engine struct {
	provider     provider.HistoryProvider
	riskFreeRate float64
}

// NewEngine builds an Engine over p. riskFreeRate is an annual decimal rate
// (0.02 = 2%) subtracted from CAGR in Sharpe and Sortino.
func NewEngine(p provider.HistoryProvider, riskFreeRate float64) *Engine {
	return &Engine{provider: p, riskFreeRate: riskFreeRate}
}

// RiskFreeRate returns the configured annual risk-free rate.
func (e *Engine) RiskFreeRate() float64 { return e.riskFreeRate }

// Compute runs the full pipeline for ticker restricted to [start, end].
// Nil bounds are open. Any failure aborts the computation.
//
// Errors:
//   - ErrDataUnavailable: provider failed, returned nothing, or returned a
//     non-positive adjusted close.
//   - ErrEmptyWindow: bounds excluded every bar.
func (e *Engine) Compute(ctx context.Context, ticker string, start, end *time.Time) (*Result, error) {
	history, err := e.provider.FetchDailyHistory(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDataUnavailable, ticker, err)
	}
	if len(history) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrDataUnavailable, ticker)
	}
	for _, b := range history {
		if !(b.AdjClose > 0) || math.IsInf(b.AdjClose, 0) {
			return nil, fmt.Errorf("%w: %s: invalid adjusted close %v on %s",
				ErrDataUnavailable, ticker, b.AdjClose, b.Date.Format(time.DateOnly))
		}
	}

	window := Window(history, start, end)
	if len(window) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyWindow, ticker)
	}

	series := BuildSeries(window)
	summary := Summarize(window, series, e.riskFreeRate)

	lg := logger.With("metrics")
	lg.Debug().
		Str("ticker", ticker).
		Int("bars", len(window)).
		Float64("years", summary.YearsElapsed).
		Msg("metrics computed")

	return &Result{Ticker: ticker, Prices: window, Series: series, Summary: summary}, nil
}

// Window keeps bars whose date is on or after start and on or before end.
// Bounds are compared by calendar date.
func Window(history models.PriceHistory, start, end *time.Time) models.PriceHistory {
	var from, to time.Time
	if start != nil {
		from = dateOnly(*start)
	}
	if end != nil {
		to = dateOnly(*end)
	}
	out := make(models.PriceHistory, 0, len(history))
	for _, b := range history {
		d := dateOnly(b.Date)
		if start != nil && d.Before(from) {
			continue
		}
		if end != nil && d.After(to) {
			continue
		}
		out = append(out, b)
	}
	return out
}

// BuildSeries derives the N-1 point return series of an N-bar window.
func BuildSeries(window models.PriceHistory) models.ReturnSeries {
	returns := SimpleReturns(window.Closes())
	cumulative := CumulativeReturns(returns)
	downside := Downside(returns)

	series := make(models.ReturnSeries, len(returns))
	for i := range returns {
		bar := window[i+1]
		series[i] = models.ReturnPoint{
			Date:             bar.Date,
			Open:             bar.Open,
			High:             bar.High,
			Low:              bar.Low,
			Close:            bar.Close,
			AdjClose:         bar.AdjClose,
			Volume:           bar.Volume,
			SimpleReturn:     returns[i],
			CumulativeReturn: cumulative[i],
			Downside:         downside[i],
		}
	}
	return series
}

// Summarize computes period statistics. CAGR uses the first and last price of
// the window, not the compounded series.
func Summarize(window models.PriceHistory, series models.ReturnSeries, riskFreeRate float64) models.SummaryMetrics {
	first, last := window[0], window[len(window)-1]
	years := YearsBetween(dateOnly(first.Date), dateOnly(last.Date))
	cagr := CAGR(first.AdjClose, last.AdjClose, years)

	returns := make([]float64, len(series))
	downside := make([]float64, len(series))
	for i, p := range series {
		returns[i] = p.SimpleReturn
		downside[i] = p.Downside
	}
	stdDev := AnnualizedStdDev(returns)
	downsideStdDev := AnnualizedStdDev(downside)

	cumulative := 0.0
	if len(series) > 0 {
		cumulative = series[len(series)-1].CumulativeReturn
	}

	return models.SummaryMetrics{
		PeriodStart:         dateOnly(first.Date),
		PeriodEnd:           dateOnly(last.Date),
		YearsElapsed:        years,
		CumulativeReturnPct: cumulative * 100,
		AnnualizedReturnPct: cagr * 100,
		AnnualizedStdDevPct: stdDev * 100,
		SharpeRatio:         Ratio(cagr-riskFreeRate, stdDev),
		SortinoRatio:        Ratio(cagr-riskFreeRate, downsideStdDev),
	}
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
