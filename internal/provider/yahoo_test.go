package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

type fakeIter struct {
	bars []*finance.ChartBar
	err  error
	pos  int
}

func (f *fakeIter) Next() bool {
	if f.pos >= len(f.bars) {
		return false
	}
	f.pos++
	return true
}

func (f *fakeIter) Bar() *finance.ChartBar { return f.bars[f.pos-1] }
func (f *fakeIter) Err() error             { return f.err }

func bar(ts time.Time, adj float64) *finance.ChartBar {
	return &finance.ChartBar{
		Timestamp: int(ts.Unix()),
		Open:      decimal.NewFromFloat(adj - 1),
		High:      decimal.NewFromFloat(adj + 2),
		Low:       decimal.NewFromFloat(adj - 2),
		AdjClose:  decimal.NewFromFloat(adj),
		Close:     decimal.NewFromFloat(adj),
		Volume:    1000,
	}
}

func withChart(t *testing.T, it *fakeIter, seen **chart.Params) {
	t.Helper()
	old := chartGetter
	chartGetter = func(p *chart.Params) barIterator {
		if seen != nil {
			*seen = p
		}
		return it
	}
	t.Cleanup(func() { chartGetter = old })
}

func TestYahoo_FetchDailyHistory(t *testing.T) {
	open := func(d int) time.Time { return time.Date(2024, 1, d, 14, 30, 0, 0, time.UTC) }
	it := &fakeIter{bars: []*finance.ChartBar{
		bar(open(2), 185.5),
		bar(open(3), 0), // null adjclose decodes as zero
		bar(open(4), 181.25),
	}}
	var params *chart.Params
	withChart(t, it, &params)

	y := NewYahoo()
	y.now = func() time.Time { return time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC) }

	h, err := y.FetchDailyHistory(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(h) != 2 {
		t.Fatalf("len=%d, want 2", len(h))
	}
	if !h[0].Date.Equal(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)) || h[0].AdjClose != 185.5 {
		t.Fatalf("unexpected bar %+v", h[0])
	}
	if h[0].Open != 184.5 || h[0].High != 187.5 || h[0].Low != 183.5 || h[0].Close != 185.5 || h[0].Volume != 1000 {
		t.Fatalf("session values not copied: %+v", h[0])
	}
	if params == nil || params.Symbol != "AAPL" || params.Interval != datetime.OneDay {
		t.Fatalf("unexpected params %+v", params)
	}
}

func TestYahoo_Errors(t *testing.T) {
	cases := []struct {
		name string
		it   *fakeIter
		want error
	}{
		{name: "no bars", it: &fakeIter{}, want: ErrNoHistory},
		{name: "no adjusted close", it: &fakeIter{bars: []*finance.ChartBar{bar(time.Now(), 0)}}, want: ErrNoAdjustedClose},
		{name: "iterator error", it: &fakeIter{err: errors.New("404 not found")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			withChart(t, tc.it, nil)
			_, err := NewYahoo().FetchDailyHistory(context.Background(), "NOPE")
			if err == nil {
				t.Fatalf("expected error")
			}
			if tc.want != nil && !errors.Is(err, tc.want) {
				t.Fatalf("err=%v, want %v", err, tc.want)
			}
		})
	}
}

func TestYahoo_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewYahoo().FetchDailyHistory(ctx, "AAPL"); !errors.Is(err, context.Canceled) {
		t.Fatalf("err=%v, want context.Canceled", err)
	}
}

func countingChart(t *testing.T, calls *int) {
	t.Helper()
	old := chartGetter
	chartGetter = func(*chart.Params) barIterator {
		*calls++
		return &fakeIter{bars: []*finance.ChartBar{bar(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), 10)}}
	}
	t.Cleanup(func() { chartGetter = old })
}

func TestYahoo_RateLimit(t *testing.T) {
	var calls int
	countingChart(t, &calls)
	y := NewYahoo(WithYahooRateLimit(1))
	y.limiter.SetLimit(rate.Every(time.Hour))

	if _, err := y.FetchDailyHistory(context.Background(), "AAPL"); err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := y.FetchDailyHistory(ctx, "MSFT"); err == nil {
		t.Fatalf("second fetch must wait past the deadline")
	}
	if calls != 1 {
		t.Fatalf("chart called %d times, want 1", calls)
	}
}

func TestYahoo_RateLimitDisabled(t *testing.T) {
	var calls int
	countingChart(t, &calls)
	y := NewYahoo(WithYahooRateLimit(0))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	for i := 0; i < 20; i++ {
		if _, err := y.FetchDailyHistory(ctx, "AAPL"); err != nil {
			t.Fatalf("fetch %d: %v", i, err)
		}
	}
	if calls != 20 {
		t.Fatalf("chart called %d times, want 20", calls)
	}
}
