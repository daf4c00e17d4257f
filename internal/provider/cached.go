package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/guttosm/investhelper/internal/domain/models"
	"github.com/guttosm/investhelper/internal/logger"
)

// Store persists daily bars per ticker. storage.PriceRepository satisfies it.
type Store interface {
	GetHistory(ctx context.Context, ticker string) (models.PriceHistory, error)
	LastFetched(ctx context.Context, ticker string) (time.Time, bool, error)
	ReplaceHistory(ctx context.Context, ticker string, history models.PriceHistory) error
}

// Cached serves histories from a Store while they are younger than ttl and
// falls back to the upstream provider otherwise.
//
// Store failures are logged and treated as a cache miss; they never hide a
// successful upstream fetch.
type Cached struct {
	upstream HistoryProvider
	store    Store
	ttl      time.Duration
	now      func() time.Time
}

// NewCached wraps upstream with store.
func NewCached(upstream HistoryProvider, store Store, ttl time.Duration) *Cached {
	return &Cached{upstream: upstream, store: store, ttl: ttl, now: time.Now}
}

// FetchDailyHistory returns the stored copy when fresh, otherwise refreshes it.
func (c *Cached) FetchDailyHistory(ctx context.Context, ticker string) (models.PriceHistory, error) {
	lg := logger.With("provider.cache")
	fresh, err := c.Fresh(ctx, ticker)
	if err != nil {
		lg.Warn().Str("ticker", ticker).Err(err).Msg("cache lookup failed")
	}
	if fresh {
		history, err := c.store.GetHistory(ctx, ticker)
		if err == nil && len(history) > 0 {
			lg.Debug().Str("ticker", ticker).Int("bars", len(history)).Msg("cache hit")
			return history, nil
		}
		if err != nil {
			lg.Warn().Str("ticker", ticker).Err(err).Msg("cache read failed")
		}
	}
	return c.Refresh(ctx, ticker)
}

// Fresh reports whether ticker was fetched less than ttl ago.
func (c *Cached) Fresh(ctx context.Context, ticker string) (bool, error) {
	at, ok, err := c.store.LastFetched(ctx, ticker)
	if err != nil {
		return false, fmt.Errorf("last fetched %s: %w", ticker, err)
	}
	return ok && c.now().Sub(at) < c.ttl, nil
}

// Refresh fetches ticker upstream and replaces the stored copy.
func (c *Cached) Refresh(ctx context.Context, ticker string) (models.PriceHistory, error) {
	history, err := c.upstream.FetchDailyHistory(ctx, ticker)
	if err != nil {
		return nil, err
	}
	if err := c.store.ReplaceHistory(ctx, ticker, history); err != nil {
		lg := logger.With("provider.cache")
		lg.Warn().Str("ticker", ticker).Err(err).Msg("cache write failed")
	}
	return history, nil
}
