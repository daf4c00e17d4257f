package models

import "time"

// ReturnPoint is one row of a return series. It is aligned to the price
// history from the second bar onward and copies that bar's session values,
// so exports can show them next to the derived columns.
//
// Fields:
//   - SimpleReturn: AdjClose / previous AdjClose - 1.
//   - CumulativeReturn: running product of (1 + SimpleReturn) minus one.
//   - Downside: SimpleReturn clipped at zero from above.
type ReturnPoint struct {
	Date             time.Time `json:"date"`
	Open             float64   `json:"open,omitempty"`
	High             float64   `json:"high,omitempty"`
	Low              float64   `json:"low,omitempty"`
	Close            float64   `json:"close,omitempty"`
	AdjClose         float64   `json:"adj_close"`
	Volume           int64     `json:"volume,omitempty"`
	SimpleReturn     float64   `json:"return"`
	CumulativeReturn float64   `json:"cum_return"`
	Downside         float64   `json:"downside"`
}

// ReturnSeries holds N-1 points for an N-bar price window.
type ReturnSeries []ReturnPoint

// SummaryMetrics is the scalar summary of one query window.
// Ratio fields may be NaN when their denominator is zero.
type SummaryMetrics struct {
	PeriodStart         time.Time
	PeriodEnd           time.Time
	YearsElapsed        float64
	CumulativeReturnPct float64
	AnnualizedReturnPct float64
	AnnualizedStdDevPct float64
	SharpeRatio         float64
	SortinoRatio        float64
}
