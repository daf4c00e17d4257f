package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/investhelper/internal/domain/dto"
	"github.com/guttosm/investhelper/internal/metrics"
	"github.com/guttosm/investhelper/internal/middleware"
	"github.com/guttosm/investhelper/internal/render"
	"github.com/guttosm/investhelper/internal/retirement"
	"github.com/guttosm/investhelper/internal/service"
	"github.com/guttosm/investhelper/internal/ticker"
)

const (
	dateLayout = "2006-01-02"

	// Defaults of the retirement form.
	DefaultAnnualExpense = 500000.0
	DefaultInflationPct  = 2.0
)

// errBadQuery marks query parameters that could not be parsed.
var errBadQuery = errors.New("invalid query parameter")

// Handler serves the metrics, export, chart and retirement endpoints.
type Handler struct {
	svc    service.MetricsService
	charts *render.ChartRenderer
}

// NewHandler wires the service and a chart renderer. A nil renderer gets
// one with the default TTL.
func NewHandler(svc service.MetricsService, charts *render.ChartRenderer) *Handler {
	if charts == nil {
		charts = render.NewChartRenderer(render.DefaultChartTTL)
	}
	return &Handler{svc: svc, charts: charts}
}

// GetMetrics godoc
// @Summary      Return metrics for a ticker
// @Description  Cumulative return, CAGR, annualized volatility, Sharpe and Sortino over an optional inclusive date window. Undefined ratios are null.
// @Tags         metrics
// @Produce      json
// @Param        ticker  query     string  true   "Raw symbol" example(AAPL)
// @Param        market  query     string  false  "US, TW, JP or UK (default US)" example(US)
// @Param        start   query     string  false  "First date, YYYY-MM-DD" example(2020-01-01)
// @Param        end     query     string  false  "Last date, YYYY-MM-DD" example(2024-12-31)
// @Success      200     {object}  dto.MetricsResponse
// @Failure      400     {object}  dto.ErrorResponse  "Bad Request"
// @Failure      404     {object}  dto.ErrorResponse  "No price data"
// @Failure      422     {object}  dto.ErrorResponse  "No data in window"
// @Failure      500     {object}  dto.ErrorResponse  "Internal Error"
// @Router       /api/v1/metrics [get]
func (h *Handler) GetMetrics(c *gin.Context) {
	res, ok := h.compute(c)
	if !ok {
		return
	}
	text := render.SummaryText(res.Ticker, res.Summary)
	c.JSON(http.StatusOK, dto.NewMetricsResponse(res.Ticker, res.Series, res.Summary, text))
}

// ExportCSV godoc
// @Summary      Download the return table
// @Description  UTF-8 CSV with BOM and columns Date,Open,High,Low,Close,Adj Close,Volume,Return,CumReturn,Downside.
// @Tags         metrics
// @Produce      text/csv
// @Param        ticker  query     string  true   "Raw symbol" example(AAPL)
// @Param        market  query     string  false  "US, TW, JP or UK (default US)"
// @Param        start   query     string  false  "First date, YYYY-MM-DD"
// @Param        end     query     string  false  "Last date, YYYY-MM-DD"
// @Success      200     {file}    file
// @Failure      400     {object}  dto.ErrorResponse  "Bad Request"
// @Failure      404     {object}  dto.ErrorResponse  "No price data"
// @Failure      422     {object}  dto.ErrorResponse  "No data in window"
// @Router       /api/v1/metrics/export [get]
func (h *Handler) ExportCSV(c *gin.Context) {
	res, ok := h.compute(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := render.WriteCSV(&buf, res.Series); err != nil {
		middleware.AbortWithError(c, http.StatusInternalServerError, "failed to build csv", err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", render.CSVFilename(res.Ticker)))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// GetChart godoc
// @Summary      Line chart of the query window
// @Description  PNG of the cumulative return in percent (kind=cumulative) or the adjusted close (kind=price).
// @Tags         metrics
// @Produce      png
// @Param        ticker  query     string  true   "Raw symbol" example(AAPL)
// @Param        market  query     string  false  "US, TW, JP or UK (default US)"
// @Param        start   query     string  false  "First date, YYYY-MM-DD"
// @Param        end     query     string  false  "Last date, YYYY-MM-DD"
// @Param        kind    query     string  false  "cumulative or price" Enums(cumulative, price)
// @Success      200     {file}    file
// @Failure      400     {object}  dto.ErrorResponse  "Bad Request"
// @Failure      404     {object}  dto.ErrorResponse  "No price data"
// @Failure      422     {object}  dto.ErrorResponse  "Not enough data to chart"
// @Router       /api/v1/metrics/chart [get]
func (h *Handler) GetChart(c *gin.Context) {
	kind, err := render.ParseChartKind(c.Query("kind"))
	if err != nil {
		h.fail(c, err)
		return
	}
	res, ok := h.compute(c)
	if !ok {
		return
	}
	img, err := h.charts.Render(res.Ticker, res.Prices, res.Series, kind)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", img)
}

// GetRetirement godoc
// @Summary      Capital needed to retire on a ticker's historical return
// @Description  Required capital = expense / (CAGR - inflation). When returns do not cover inflation the plan is returned with sufficient=false and a warning.
// @Tags         retirement
// @Produce      json
// @Param        ticker     query     string  true   "Raw symbol" example(AAPL)
// @Param        market     query     string  false  "US, TW, JP or UK (default US)"
// @Param        start      query     string  false  "First date, YYYY-MM-DD"
// @Param        end        query     string  false  "Last date, YYYY-MM-DD"
// @Param        expense    query     number  false  "Annual expense (default 500000)" example(500000)
// @Param        inflation  query     number  false  "Expected inflation in percent (default 2.0)" example(2.0)
// @Success      200        {object}  dto.RetirementResponse
// @Failure      400        {object}  dto.ErrorResponse  "Bad Request"
// @Failure      404        {object}  dto.ErrorResponse  "No price data"
// @Failure      422        {object}  dto.ErrorResponse  "No data in window"
// @Failure      500        {object}  dto.ErrorResponse  "Internal Error"
// @Router       /api/v1/retirement [get]
func (h *Handler) GetRetirement(c *gin.Context) {
	q, err := parseMetricsQuery(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	expense, err := floatParam(c, "expense", DefaultAnnualExpense)
	if err != nil {
		h.fail(c, err)
		return
	}
	inflation, err := floatParam(c, "inflation", DefaultInflationPct)
	if err != nil {
		h.fail(c, err)
		return
	}

	out, err := h.svc.GetRetirement(c.Request.Context(), service.RetirementQuery{
		MetricsQuery:  q,
		AnnualExpense: expense,
		InflationPct:  inflation,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	res := out.Metrics
	text := render.RetirementText(res.Ticker, res.Summary, out.Plan)
	c.JSON(http.StatusOK, dto.NewRetirementResponse(res.Ticker, res.Summary, out.Plan, text))
}

func (h *Handler) compute(c *gin.Context) (*metrics.Result, bool) {
	q, err := parseMetricsQuery(c)
	if err != nil {
		h.fail(c, err)
		return nil, false
	}
	res, err := h.svc.GetMetrics(c.Request.Context(), q)
	if err != nil {
		h.fail(c, err)
		return nil, false
	}
	return res, true
}

// fail maps domain errors to HTTP statuses.
func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errBadQuery),
		errors.Is(err, service.ErrEmptyTicker),
		errors.Is(err, retirement.ErrInvalidInput),
		errors.Is(err, render.ErrUnknownChartKind):
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid query parameters", err)
	case errors.Is(err, context.DeadlineExceeded):
		middleware.AbortWithError(c, http.StatusGatewayTimeout, "price provider timed out", err)
	case errors.Is(err, metrics.ErrDataUnavailable):
		middleware.AbortWithError(c, http.StatusNotFound, "no price data for ticker", err)
	case errors.Is(err, metrics.ErrEmptyWindow),
		errors.Is(err, render.ErrNotEnoughPoints):
		middleware.AbortWithError(c, http.StatusUnprocessableEntity, "no trading data in the requested period", err)
	default:
		middleware.AbortWithError(c, http.StatusInternalServerError, "failed to compute metrics", err)
	}
}

func parseMetricsQuery(c *gin.Context) (service.MetricsQuery, error) {
	q := service.MetricsQuery{
		Ticker: strings.TrimSpace(c.Query("ticker")),
		Market: ticker.ParseMarket(c.Query("market")),
	}
	if q.Ticker == "" {
		return q, service.ErrEmptyTicker
	}
	var err error
	if q.Start, err = dateParam(c, "start"); err != nil {
		return q, err
	}
	if q.End, err = dateParam(c, "end"); err != nil {
		return q, err
	}
	return q, nil
}

// dateParam parses an optional YYYY-MM-DD value; empty means unbounded.
func dateParam(c *gin.Context, name string) (*time.Time, error) {
	s := strings.TrimSpace(c.Query(name))
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be YYYY-MM-DD: %w", errBadQuery, name, err)
	}
	return &t, nil
}

func floatParam(c *gin.Context, name string, def float64) (float64, error) {
	s := strings.TrimSpace(c.Query(name))
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number: %w", errBadQuery, name, err)
	}
	return v, nil
}
