package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/guttosm/investhelper/internal/domain/models"
	"github.com/guttosm/investhelper/internal/metrics"
	"github.com/guttosm/investhelper/internal/retirement"
	"github.com/guttosm/investhelper/internal/ticker"
)

// ErrEmptyTicker is returned when the raw symbol is blank.
var ErrEmptyTicker = errors.New("ticker is required")

// MetricsQuery identifies a ticker and an optional inclusive date window.
type MetricsQuery struct {
	Ticker string
	Market ticker.Market
	Start  *time.Time
	End    *time.Time
}

// RetirementQuery extends MetricsQuery with the projection inputs.
type RetirementQuery struct {
	MetricsQuery
	AnnualExpense float64
	InflationPct  float64
}

// RetirementResult pairs the metrics a plan was derived from with the plan.
type RetirementResult struct {
	Metrics *metrics.Result
	Plan    models.RetirementPlan
}

// Engine is the part of *metrics.Engine the service needs.
type Engine interface {
	Compute(ctx context.Context, ticker string, start, end *time.Time) (*metrics.Result, error)
}

// MetricsService normalizes user input and runs the metrics pipeline.
type MetricsService interface {
	GetMetrics(ctx context.Context, q MetricsQuery) (*metrics.Result, error)
	GetRetirement(ctx context.Context, q RetirementQuery) (*RetirementResult, error)
}

type metricsService struct {
	engine Engine
}

func NewMetricsService(engine Engine) MetricsService {
	return &metricsService{engine: engine}
}

func (s *metricsService) GetMetrics(ctx context.Context, q MetricsQuery) (*metrics.Result, error) {
	if strings.TrimSpace(q.Ticker) == "" {
		return nil, ErrEmptyTicker
	}
	return s.engine.Compute(ctx, ticker.Normalize(q.Ticker, q.Market), q.Start, q.End)
}

// GetRetirement computes metrics and projects the required capital from
// their annualized return. A non-positive real withdrawal rate is not an
// error here: the plan comes back with Sufficient=false.
func (s *metricsService) GetRetirement(ctx context.Context, q RetirementQuery) (*RetirementResult, error) {
	res, err := s.GetMetrics(ctx, q.MetricsQuery)
	if err != nil {
		return nil, err
	}
	plan, err := retirement.Project(res.Summary.AnnualizedReturnPct, q.InflationPct, q.AnnualExpense)
	if err != nil && !errors.Is(err, retirement.ErrNonPositiveWithdrawalRate) {
		return nil, fmt.Errorf("project retirement for %s: %w", res.Ticker, err)
	}
	return &RetirementResult{Metrics: res, Plan: plan}, nil
}
