package dto

import (
	"math"

	"github.com/guttosm/investhelper/internal/domain/models"
)

const dateLayout = "2006-01-02"

// SummaryResponse is the JSON form of models.SummaryMetrics.
// Undefined values (NaN or infinite) are encoded as null.
type SummaryResponse struct {
	PeriodStart         string   `json:"period_start" example:"2020-01-02"`
	PeriodEnd           string   `json:"period_end" example:"2024-01-02"`
	YearsElapsed        *float64 `json:"years_elapsed" example:"4.0"`
	CumulativeReturnPct *float64 `json:"cumulative_return_pct" example:"46.41"`
	AnnualizedReturnPct *float64 `json:"annualized_return_pct" example:"10.0"`
	AnnualizedStdDevPct *float64 `json:"annualized_std_dev_pct" example:"18.3"`
	SharpeRatio         *float64 `json:"sharpe_ratio" example:"0.55"`
	SortinoRatio        *float64 `json:"sortino_ratio" example:"0.81"`
}

// ReturnPointResponse is one row of the return table.
type ReturnPointResponse struct {
	Date      string  `json:"date" example:"2024-01-03"`
	AdjClose  float64 `json:"adj_close" example:"184.25"`
	Return    float64 `json:"return" example:"-0.0075"`
	CumReturn float64 `json:"cum_return" example:"0.0123"`
	Downside  float64 `json:"downside" example:"-0.0075"`
}

// MetricsResponse is returned by GET /api/v1/metrics.
type MetricsResponse struct {
	Ticker      string                `json:"ticker" example:"AAPL"`
	Summary     SummaryResponse       `json:"summary"`
	SummaryText string                `json:"summary_text"`
	Series      []ReturnPointResponse `json:"series"`
}

func NewSummaryResponse(s models.SummaryMetrics) SummaryResponse {
	return SummaryResponse{
		PeriodStart:         s.PeriodStart.Format(dateLayout),
		PeriodEnd:           s.PeriodEnd.Format(dateLayout),
		YearsElapsed:        Nullable(s.YearsElapsed),
		CumulativeReturnPct: Nullable(s.CumulativeReturnPct),
		AnnualizedReturnPct: Nullable(s.AnnualizedReturnPct),
		AnnualizedStdDevPct: Nullable(s.AnnualizedStdDevPct),
		SharpeRatio:         Nullable(s.SharpeRatio),
		SortinoRatio:        Nullable(s.SortinoRatio),
	}
}

func NewMetricsResponse(ticker string, series models.ReturnSeries, s models.SummaryMetrics, text string) MetricsResponse {
	points := make([]ReturnPointResponse, 0, len(series))
	for _, p := range series {
		points = append(points, ReturnPointResponse{
			Date:      p.Date.Format(dateLayout),
			AdjClose:  p.AdjClose,
			Return:    p.SimpleReturn,
			CumReturn: p.CumulativeReturn,
			Downside:  p.Downside,
		})
	}
	return MetricsResponse{
		Ticker:      ticker,
		Summary:     NewSummaryResponse(s),
		SummaryText: text,
		Series:      points,
	}
}

// Nullable maps NaN and ±Inf to nil so encoding/json can marshal the value.
func Nullable(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
