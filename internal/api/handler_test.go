package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/investhelper/internal/domain/dto"
	"github.com/guttosm/investhelper/internal/domain/models"
	"github.com/guttosm/investhelper/internal/metrics"
	"github.com/guttosm/investhelper/internal/retirement"
	"github.com/guttosm/investhelper/internal/service"
	"github.com/guttosm/investhelper/internal/ticker"
)

type mockMetricsService struct {
	res  *metrics.Result
	plan models.RetirementPlan
	err  error

	gotQuery      service.MetricsQuery
	gotRetirement service.RetirementQuery
}

func (m *mockMetricsService) GetMetrics(_ context.Context, q service.MetricsQuery) (*metrics.Result, error) {
	m.gotQuery = q
	return m.res, m.err
}

func (m *mockMetricsService) GetRetirement(_ context.Context, q service.RetirementQuery) (*service.RetirementResult, error) {
	m.gotRetirement = q
	if m.err != nil {
		return nil, m.err
	}
	return &service.RetirementResult{Metrics: m.res, Plan: m.plan}, nil
}

var _ service.MetricsService = (*mockMetricsService)(nil)

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func sampleResult() *metrics.Result {
	return &metrics.Result{
		Ticker: "AAPL",
		Prices: models.PriceHistory{
			{Date: day(2024, 1, 2), AdjClose: 100},
			{Date: day(2024, 1, 3), AdjClose: 110},
			{Date: day(2024, 1, 4), AdjClose: 99},
		},
		Series: models.ReturnSeries{
			{Date: day(2024, 1, 3), AdjClose: 110, SimpleReturn: 0.1, CumulativeReturn: 0.1},
			{Date: day(2024, 1, 4), AdjClose: 99, SimpleReturn: -0.1, CumulativeReturn: -0.01, Downside: -0.1},
		},
		Summary: models.SummaryMetrics{
			PeriodStart:         day(2024, 1, 2),
			PeriodEnd:           day(2024, 1, 4),
			YearsElapsed:        2 / 365.25,
			CumulativeReturnPct: -1,
			AnnualizedReturnPct: -84,
			AnnualizedStdDevPct: 224,
			SharpeRatio:         -0.37,
			SortinoRatio:        math.NaN(),
		},
	}
}

func setupRouterWithMock(s service.MetricsService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, nil)
	r := gin.New()
	v1 := r.Group("/api/v1")
	v1.GET("/metrics", h.GetMetrics)
	v1.GET("/metrics/export", h.ExportCSV)
	v1.GET("/metrics/chart", h.GetChart)
	v1.GET("/retirement", h.GetRetirement)
	return r
}

func TestGetMetrics_TableDriven(t *testing.T) {
	cases := []struct {
		name   string
		svc    *mockMetricsService
		query  string
		status int
		assert func(t *testing.T, m *mockMetricsService, body []byte)
	}{
		{
			name:   "missing ticker",
			svc:    &mockMetricsService{},
			query:  "/api/v1/metrics",
			status: http.StatusBadRequest,
		},
		{
			name:   "invalid start date",
			svc:    &mockMetricsService{},
			query:  "/api/v1/metrics?ticker=AAPL&start=2024/01/01",
			status: http.StatusBadRequest,
		},
		{
			name:   "invalid end date",
			svc:    &mockMetricsService{},
			query:  "/api/v1/metrics?ticker=AAPL&end=yesterday",
			status: http.StatusBadRequest,
		},
		{
			name:   "data unavailable",
			svc:    &mockMetricsService{err: fmt.Errorf("%w: ZZZZ", metrics.ErrDataUnavailable)},
			query:  "/api/v1/metrics?ticker=ZZZZ",
			status: http.StatusNotFound,
		},
		{
			name:   "empty window",
			svc:    &mockMetricsService{err: metrics.ErrEmptyWindow},
			query:  "/api/v1/metrics?ticker=AAPL&start=2030-01-01",
			status: http.StatusUnprocessableEntity,
		},
		{
			name:   "provider timeout",
			svc:    &mockMetricsService{err: fmt.Errorf("%w: AAPL: %w", metrics.ErrDataUnavailable, context.DeadlineExceeded)},
			query:  "/api/v1/metrics?ticker=AAPL",
			status: http.StatusGatewayTimeout,
		},
		{
			name:   "internal error",
			svc:    &mockMetricsService{err: errors.New("boom")},
			query:  "/api/v1/metrics?ticker=AAPL",
			status: http.StatusInternalServerError,
		},
		{
			name:   "success",
			svc:    &mockMetricsService{res: sampleResult()},
			query:  "/api/v1/metrics?ticker=aapl&market=tw&start=2024-01-01&end=2024-12-31",
			status: http.StatusOK,
			assert: func(t *testing.T, m *mockMetricsService, body []byte) {
				if m.gotQuery.Ticker != "aapl" || m.gotQuery.Market != ticker.MarketTW {
					t.Fatalf("unexpected query %+v", m.gotQuery)
				}
				if m.gotQuery.Start == nil || !m.gotQuery.Start.Equal(day(2024, 1, 1)) ||
					m.gotQuery.End == nil || !m.gotQuery.End.Equal(day(2024, 12, 31)) {
					t.Fatalf("bounds not parsed: %+v", m.gotQuery)
				}
				var out dto.MetricsResponse
				if err := json.Unmarshal(body, &out); err != nil {
					t.Fatalf("invalid json: %v", err)
				}
				if out.Ticker != "AAPL" || len(out.Series) != 2 || out.Summary.PeriodStart != "2024-01-02" {
					t.Fatalf("unexpected body: %+v", out)
				}
				if out.Summary.SortinoRatio != nil {
					t.Fatalf("NaN sortino must encode as null")
				}
				if out.SummaryText == "" {
					t.Fatalf("summary text missing")
				}
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := setupRouterWithMock(tc.svc)
			req := httptest.NewRequest(http.MethodGet, tc.query, nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tc.status {
				t.Fatalf("expected %d, got %d (%s)", tc.status, w.Code, w.Body.String())
			}
			if tc.status != http.StatusOK {
				var e dto.ErrorResponse
				if err := json.Unmarshal(w.Body.Bytes(), &e); err != nil || e.Message == "" {
					t.Fatalf("error body not an ErrorResponse: %s", w.Body.String())
				}
			}
			if tc.assert != nil {
				tc.assert(t, tc.svc, w.Body.Bytes())
			}
		})
	}
}

func TestExportCSV(t *testing.T) {
	r := setupRouterWithMock(&mockMetricsService{res: sampleResult()})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/metrics/export?ticker=AAPL", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	if got := w.Header().Get("Content-Disposition"); got != `attachment; filename="AAPL_data.csv"` {
		t.Fatalf("Content-Disposition=%q", got)
	}
	want := "\ufeffDate,Open,High,Low,Close,Adj Close,Volume,Return,CumReturn,Downside\n"
	if body := w.Body.String(); len(body) < len(want) || body[:len(want)] != want {
		t.Fatalf("unexpected csv head %q", body)
	}
}

func TestGetChart(t *testing.T) {
	cases := []struct {
		name   string
		svc    *mockMetricsService
		query  string
		status int
	}{
		{name: "cumulative", svc: &mockMetricsService{res: sampleResult()}, query: "/api/v1/metrics/chart?ticker=AAPL", status: http.StatusOK},
		{name: "price", svc: &mockMetricsService{res: sampleResult()}, query: "/api/v1/metrics/chart?ticker=AAPL&kind=price", status: http.StatusOK},
		{name: "bad kind", svc: &mockMetricsService{res: sampleResult()}, query: "/api/v1/metrics/chart?ticker=AAPL&kind=pie", status: http.StatusBadRequest},
		{
			name: "too few points",
			svc: &mockMetricsService{res: &metrics.Result{
				Ticker: "AAPL",
				Prices: models.PriceHistory{{Date: day(2024, 1, 2), AdjClose: 1}},
			}},
			query:  "/api/v1/metrics/chart?ticker=AAPL",
			status: http.StatusUnprocessableEntity,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := setupRouterWithMock(tc.svc)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.query, nil))
			if w.Code != tc.status {
				t.Fatalf("expected %d, got %d (%s)", tc.status, w.Code, w.Body.String())
			}
			if tc.status == http.StatusOK && w.Header().Get("Content-Type") != "image/png" {
				t.Fatalf("content type %q", w.Header().Get("Content-Type"))
			}
		})
	}
}

func TestGetRetirement(t *testing.T) {
	capital := 8333333.33
	cases := []struct {
		name   string
		svc    *mockMetricsService
		query  string
		status int
		assert func(t *testing.T, m *mockMetricsService, out dto.RetirementResponse)
	}{
		{
			name: "defaults",
			svc: &mockMetricsService{res: sampleResult(), plan: models.RetirementPlan{
				AnnualizedReturnPct: 8, InflationPct: 2, RealWithdrawalRate: 0.06, AnnualExpense: 500000,
				RequiredCapital: &capital, Sufficient: true,
			}},
			query:  "/api/v1/retirement?ticker=AAPL",
			status: http.StatusOK,
			assert: func(t *testing.T, m *mockMetricsService, out dto.RetirementResponse) {
				if m.gotRetirement.AnnualExpense != DefaultAnnualExpense || m.gotRetirement.InflationPct != DefaultInflationPct {
					t.Fatalf("defaults not applied: %+v", m.gotRetirement)
				}
				if !out.Sufficient || out.RequiredCapital == nil || out.Warning != "" {
					t.Fatalf("unexpected body %+v", out)
				}
			},
		},
		{
			name: "insufficient is still 200",
			svc: &mockMetricsService{res: sampleResult(), plan: models.RetirementPlan{
				AnnualizedReturnPct: 1, InflationPct: 2, RealWithdrawalRate: -0.01, AnnualExpense: 100,
			}},
			query:  "/api/v1/retirement?ticker=AAPL&expense=100&inflation=2",
			status: http.StatusOK,
			assert: func(t *testing.T, m *mockMetricsService, out dto.RetirementResponse) {
				if m.gotRetirement.AnnualExpense != 100 {
					t.Fatalf("expense not parsed: %+v", m.gotRetirement)
				}
				if out.Sufficient || out.RequiredCapital != nil || out.Warning != dto.InsufficientReturnWarning {
					t.Fatalf("unexpected body %+v", out)
				}
			},
		},
		{name: "bad expense", svc: &mockMetricsService{}, query: "/api/v1/retirement?ticker=AAPL&expense=lots", status: http.StatusBadRequest},
		{name: "bad inflation", svc: &mockMetricsService{}, query: "/api/v1/retirement?ticker=AAPL&inflation=x", status: http.StatusBadRequest},
		{
			name:   "negative expense rejected by service",
			svc:    &mockMetricsService{err: fmt.Errorf("wrap: %w", retirement.ErrInvalidInput)},
			query:  "/api/v1/retirement?ticker=AAPL&expense=-5",
			status: http.StatusBadRequest,
		},
		{
			name:   "no data",
			svc:    &mockMetricsService{err: metrics.ErrDataUnavailable},
			query:  "/api/v1/retirement?ticker=ZZZZ",
			status: http.StatusNotFound,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := setupRouterWithMock(tc.svc)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.query, nil))
			if w.Code != tc.status {
				t.Fatalf("expected %d, got %d (%s)", tc.status, w.Code, w.Body.String())
			}
			if tc.assert == nil {
				return
			}
			var out dto.RetirementResponse
			if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			tc.assert(t, tc.svc, out)
		})
	}
}
