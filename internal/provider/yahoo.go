package provider

import (
	"context"
	"fmt"
	"time"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"golang.org/x/time/rate"

	"github.com/guttosm/investhelper/internal/domain/models"
	"github.com/guttosm/investhelper/internal/logger"
)

// barIterator is the subset of *chart.Iter used here.
type barIterator interface {
	Next() bool
	Bar() *finance.ChartBar
	Err() error
}

// chartGetter is an indirection for unit testing; defaults to chart.Get.
var chartGetter = func(p *chart.Params) barIterator {
	return chart.Get(p)
}

// DefaultYahooRate is the number of chart requests per second a Yahoo
// provider sends unless configured otherwise.
const DefaultYahooRate = 2

// Yahoo fetches daily bars from Yahoo Finance's chart API. Requests share one
// limiter, so concurrent callers such as the cache warm-up are throttled.
type Yahoo struct {
	from    time.Time
	now     func() time.Time
	limiter *rate.Limiter
}

// YahooOption configures a Yahoo provider.
type YahooOption func(*Yahoo)

// WithYahooRateLimit caps chart requests per second. Zero or less removes
// the cap.
func WithYahooRateLimit(perSecond int) YahooOption {
	return func(y *Yahoo) {
		if perSecond <= 0 {
			y.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		y.limiter = rate.NewLimiter(rate.Limit(perSecond), perSecond)
	}
}

// NewYahoo returns a provider that requests the full history, from the Unix
// epoch until now.
func NewYahoo(opts ...YahooOption) *Yahoo {
	y := &Yahoo{
		from:    time.Unix(0, 0).UTC(),
		now:     time.Now,
		limiter: rate.NewLimiter(rate.Limit(DefaultYahooRate), DefaultYahooRate),
	}
	for _, opt := range opts {
		opt(y)
	}
	return y
}

// FetchDailyHistory downloads every daily bar for ticker and keeps the
// adjusted close. The chart client does not take a context, so ctx is only
// checked between bars.
func (y *Yahoo) FetchDailyHistory(ctx context.Context, ticker string) (models.PriceHistory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := y.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("yahoo rate limit wait: %w", err)
	}

	start := y.from
	end := y.now().UTC()
	params := &chart.Params{
		Symbol:   ticker,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: datetime.OneDay,
	}

	began := time.Now()
	iter := chartGetter(params)

	var raw models.PriceHistory
	for iter.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		bar := iter.Bar()
		if bar == nil {
			continue
		}
		raw = append(raw, models.PriceBar{
			Date:     time.Unix(int64(bar.Timestamp), 0).UTC(),
			Open:     bar.Open.InexactFloat64(),
			High:     bar.High.InexactFloat64(),
			Low:      bar.Low.InexactFloat64(),
			Close:    bar.Close.InexactFloat64(),
			AdjClose: bar.AdjClose.InexactFloat64(),
			Volume:   int64(bar.Volume),
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("yahoo chart %s: %w", ticker, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("yahoo chart %s: %w", ticker, ErrNoHistory)
	}

	history, dropped := Clean(raw)
	if len(history) == 0 {
		return nil, fmt.Errorf("yahoo chart %s: %w", ticker, ErrNoAdjustedClose)
	}

	lg := logger.With("provider.yahoo")
	lg.Debug().
		Str("ticker", ticker).
		Int("bars", len(history)).
		Int("dropped", dropped).
		Dur("elapsed", time.Since(began)).
		Msg("history fetched")

	return history, nil
}
