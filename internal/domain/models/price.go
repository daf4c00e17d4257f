package models

import "time"

// PriceBar is one daily record of a price history.
//
// Fields:
//   - Date: calendar date of the bar (UTC midnight).
//   - Open, High, Low, Close, Volume: raw session values; zero when the
//     source only carries the adjusted close.
//   - AdjClose: closing price adjusted for dividends and splits. Every
//     metric is computed from this column.
type PriceBar struct {
	Date     time.Time `json:"date" example:"2024-01-02T00:00:00Z"`
	Open     float64   `json:"open,omitempty" example:"187.15"`
	High     float64   `json:"high,omitempty" example:"188.44"`
	Low      float64   `json:"low,omitempty" example:"183.89"`
	Close    float64   `json:"close,omitempty" example:"185.64"`
	AdjClose float64   `json:"adj_close" example:"185.64"`
	Volume   int64     `json:"volume,omitempty" example:"82488700"`
}

// PriceHistory is a date-ascending sequence of daily bars with no duplicate dates.
type PriceHistory []PriceBar

// Dates returns the bar dates in order.
func (h PriceHistory) Dates() []time.Time {
	out := make([]time.Time, len(h))
	for i, b := range h {
		out[i] = b.Date
	}
	return out
}

// Closes returns the adjusted closes in order.
func (h PriceHistory) Closes() []float64 {
	out := make([]float64, len(h))
	for i, b := range h {
		out[i] = b.AdjClose
	}
	return out
}
