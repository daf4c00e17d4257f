package ingestion

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/guttosm/investhelper/internal/domain/models"
	"github.com/guttosm/investhelper/internal/logger"
)

// MaxParallel caps concurrent upstream fetches during a warm-up.
const MaxParallel = 8

// ErrNoTickers is returned when WarmTickers is given nothing to do.
var ErrNoTickers = errors.New("no tickers to warm")

// Refresher is the cache side of a price provider, implemented by *provider.Cached.
type Refresher interface {
	Fresh(ctx context.Context, ticker string) (bool, error)
	Refresh(ctx context.Context, ticker string) (models.PriceHistory, error)
}

// Report summarizes one warm-up run. Slices are sorted.
type Report struct {
	Refreshed []string
	Skipped   []string
	Bars      int
	Elapsed   time.Duration
}

// WarmTickers prefetches the daily history of every ticker into the cache.
//
// Behavior:
//   - Blank and duplicate tickers are dropped.
//   - parallel is clamped to 1..MaxParallel; 0 means min(MaxParallel, NumCPU).
//   - Tickers fetched within the cache TTL are skipped unless force is set.
//   - The first failure cancels the remaining fetches and is returned along
//     with whatever was completed so far.
func WarmTickers(ctx context.Context, r Refresher, tickers []string, parallel int, force bool) (Report, error) {
	start := time.Now()
	list := uniqueTickers(tickers)
	if len(list) == 0 {
		return Report{}, ErrNoTickers
	}
	workers := clampParallel(parallel)

	lg := logger.With("warmup")
	lg.Info().Int("tickers", len(list)).Int("max_parallel", workers).Bool("force", force).Msg("warm-up start")

	var (
		mu  sync.Mutex
		rep Report
	)

	g, gctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, workers)

loop:
	for i, t := range list {
		idx, ticker := i, t
		select {
		case sem <- struct{}{}:
		case <-gctx.Done():
			break loop
		}

		g.Go(func() error {
			defer func() { <-sem }()
			began := time.Now()

			if !force {
				fresh, err := r.Fresh(gctx, ticker)
				if err != nil {
					lg.Warn().Str("ticker", ticker).Err(err).Msg("freshness check failed, refreshing")
				}
				if fresh {
					mu.Lock()
					rep.Skipped = append(rep.Skipped, ticker)
					mu.Unlock()
					lg.Info().Int("idx", idx+1).Int("total", len(list)).Str("ticker", ticker).Bool("skipped", true).Msg("cache fresh")
					return nil
				}
			}

			history, err := r.Refresh(gctx, ticker)
			if err != nil {
				lg.Error().Str("ticker", ticker).Dur("elapsed", time.Since(began)).Err(err).Msg("refresh failed")
				return fmt.Errorf("ticker %s: %w", ticker, err)
			}

			mu.Lock()
			rep.Refreshed = append(rep.Refreshed, ticker)
			rep.Bars += len(history)
			mu.Unlock()
			lg.Info().Int("idx", idx+1).Int("total", len(list)).Str("ticker", ticker).
				Int("bars", len(history)).Dur("elapsed", time.Since(began)).Msg("ticker refreshed")
			return nil
		})
	}

	err := g.Wait()
	sort.Strings(rep.Refreshed)
	sort.Strings(rep.Skipped)
	rep.Elapsed = time.Since(start)

	ev := lg.Info()
	if err != nil {
		ev = lg.Error().Err(err)
	}
	ev.Int("refreshed", len(rep.Refreshed)).Int("skipped", len(rep.Skipped)).
		Int("bars", rep.Bars).Dur("elapsed", rep.Elapsed).Msg("warm-up done")
	return rep, err
}

func clampParallel(parallel int) int {
	if parallel <= 0 {
		parallel = runtime.NumCPU()
	}
	if parallel > MaxParallel {
		parallel = MaxParallel
	}
	if parallel < 1 {
		parallel = 1
	}
	return parallel
}

func uniqueTickers(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, t := range in {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// ParseTickerList splits a comma or whitespace separated list.
func ParseTickerList(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == ';'
	})
}
