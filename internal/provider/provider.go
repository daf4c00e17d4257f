package provider

import (
	"context"
	"errors"
	"math"
	"sort"
	"time"

	"github.com/guttosm/investhelper/internal/domain/models"
)

var (
	// ErrNoHistory means the source has nothing for the ticker.
	ErrNoHistory = errors.New("no price history")
	// ErrNoAdjustedClose means rows exist but none carry a usable adjusted close.
	ErrNoAdjustedClose = errors.New("missing adjusted close")
)

// HistoryProvider returns the full daily adjusted-close history of a ticker.
//
// Implementations return a date-ascending history without duplicate dates
// and with positive prices only (see Clean).
type HistoryProvider interface {
	FetchDailyHistory(ctx context.Context, ticker string) (models.PriceHistory, error)
}

// Clean sorts bars by date, keeps the last bar seen for each calendar date and
// drops bars whose adjusted close is not a positive finite number. Dates are
// truncated to UTC midnight. It returns the cleaned history and the number
// of bars removed.
func Clean(bars models.PriceHistory) (models.PriceHistory, int) {
	byDate := make(map[time.Time]models.PriceBar, len(bars))
	for _, b := range bars {
		if !(b.AdjClose > 0) || math.IsInf(b.AdjClose, 0) {
			continue
		}
		b.Date = DateOf(b.Date)
		byDate[b.Date] = b
	}
	out := make(models.PriceHistory, 0, len(byDate))
	for _, b := range byDate {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, len(bars) - len(out)
}

// DateOf truncates t to its UTC calendar date.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
