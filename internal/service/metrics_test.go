package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/guttosm/investhelper/internal/domain/models"
	"github.com/guttosm/investhelper/internal/metrics"
	"github.com/guttosm/investhelper/internal/retirement"
	"github.com/guttosm/investhelper/internal/ticker"
)

type stubEngine struct {
	res       *metrics.Result
	err       error
	gotTicker string
	gotStart  *time.Time
	gotEnd    *time.Time
	calls     int
}

func (s *stubEngine) Compute(_ context.Context, t string, start, end *time.Time) (*metrics.Result, error) {
	s.calls++
	s.gotTicker, s.gotStart, s.gotEnd = t, start, end
	if s.err != nil {
		return nil, s.err
	}
	out := *s.res
	out.Ticker = t
	return &out, nil
}

func resultWithCAGR(pct float64) *metrics.Result {
	return &metrics.Result{Summary: models.SummaryMetrics{AnnualizedReturnPct: pct}}
}

func TestMetricsService_GetMetrics(t *testing.T) {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		name       string
		q          MetricsQuery
		engine     *stubEngine
		wantTicker string
		wantErr    error
	}{
		{
			name:       "us ticker",
			q:          MetricsQuery{Ticker: " aapl ", Market: ticker.MarketUS, Start: &start},
			engine:     &stubEngine{res: resultWithCAGR(10)},
			wantTicker: "AAPL",
		},
		{
			name:       "taiwan suffix",
			q:          MetricsQuery{Ticker: "2330", Market: ticker.MarketTW},
			engine:     &stubEngine{res: resultWithCAGR(10)},
			wantTicker: "2330.TW",
		},
		{
			name:    "blank ticker",
			q:       MetricsQuery{Ticker: "   ", Market: ticker.MarketJP},
			engine:  &stubEngine{res: resultWithCAGR(10)},
			wantErr: ErrEmptyTicker,
		},
		{
			name:    "engine error passes through",
			q:       MetricsQuery{Ticker: "ZZZZ"},
			engine:  &stubEngine{err: metrics.ErrDataUnavailable},
			wantErr: metrics.ErrDataUnavailable,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewMetricsService(tc.engine)
			out, err := svc.GetMetrics(context.Background(), tc.q)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) || out != nil {
					t.Fatalf("expected %v, got out=%+v err=%v", tc.wantErr, out, err)
				}
				if tc.wantErr == ErrEmptyTicker && tc.engine.calls != 0 {
					t.Fatalf("engine must not be called for a blank ticker")
				}
				return
			}
			if err != nil || out == nil {
				t.Fatalf("unexpected: out=%+v err=%v", out, err)
			}
			if tc.engine.gotTicker != tc.wantTicker {
				t.Fatalf("ticker = %q, want %q", tc.engine.gotTicker, tc.wantTicker)
			}
			if tc.engine.gotStart != tc.q.Start || tc.engine.gotEnd != tc.q.End {
				t.Fatalf("bounds not forwarded")
			}
		})
	}
}

func TestMetricsService_GetRetirement(t *testing.T) {
	cases := []struct {
		name           string
		cagr           float64
		q              RetirementQuery
		wantSufficient bool
		wantErr        error
	}{
		{
			name:           "sufficient",
			cagr:           8,
			q:              RetirementQuery{MetricsQuery: MetricsQuery{Ticker: "AAPL"}, AnnualExpense: 500000, InflationPct: 2},
			wantSufficient: true,
		},
		{
			name: "returns below inflation is not an error",
			cagr: 1,
			q:    RetirementQuery{MetricsQuery: MetricsQuery{Ticker: "AAPL"}, AnnualExpense: 500000, InflationPct: 2},
		},
		{
			name:    "negative expense",
			cagr:    8,
			q:       RetirementQuery{MetricsQuery: MetricsQuery{Ticker: "AAPL"}, AnnualExpense: -1, InflationPct: 2},
			wantErr: retirement.ErrInvalidInput,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewMetricsService(&stubEngine{res: resultWithCAGR(tc.cagr)})
			out, err := svc.GetRetirement(context.Background(), tc.q)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out.Plan.Sufficient != tc.wantSufficient {
				t.Fatalf("sufficient = %v, want %v", out.Plan.Sufficient, tc.wantSufficient)
			}
			if out.Metrics.Ticker != "AAPL" {
				t.Fatalf("metrics not attached: %+v", out.Metrics)
			}
		})
	}
}

func TestMetricsService_GetRetirement_EngineError(t *testing.T) {
	svc := NewMetricsService(&stubEngine{err: metrics.ErrEmptyWindow})
	_, err := svc.GetRetirement(context.Background(), RetirementQuery{MetricsQuery: MetricsQuery{Ticker: "AAPL"}, AnnualExpense: 1})
	if !errors.Is(err, metrics.ErrEmptyWindow) {
		t.Fatalf("expected ErrEmptyWindow, got %v", err)
	}
}
