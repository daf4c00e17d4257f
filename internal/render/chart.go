package render

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/vicanso/go-charts/v2"

	"github.com/guttosm/investhelper/internal/domain/models"
)

// ChartKind selects which column is plotted.
type ChartKind string

const (
	ChartCumulative ChartKind = "cumulative"
	ChartPrice      ChartKind = "price"
)

// DefaultChartTTL is how long a rendered PNG is reused.
const DefaultChartTTL = 60 * time.Second

var (
	ErrUnknownChartKind = errors.New("unknown chart kind")
	ErrNotEnoughPoints  = errors.New("not enough data points to chart")
)

// ParseChartKind accepts "cumulative" (also the empty string) and "price".
func ParseChartKind(s string) (ChartKind, error) {
	switch ChartKind(strings.ToLower(strings.TrimSpace(s))) {
	case "", ChartCumulative:
		return ChartCumulative, nil
	case ChartPrice:
		return ChartPrice, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownChartKind, s)
}

type chartEntry struct {
	createdAt time.Time
	image     []byte
}

// ChartRenderer draws PNG line charts and keeps recent images in memory.
type ChartRenderer struct {
	ttl time.Duration
	now func() time.Time

	mu    sync.Mutex
	cache map[string]chartEntry
}

func NewChartRenderer(ttl time.Duration) *ChartRenderer {
	if ttl <= 0 {
		ttl = DefaultChartTTL
	}
	return &ChartRenderer{ttl: ttl, now: time.Now, cache: map[string]chartEntry{}}
}

// Render plots the cumulative return in percent (from series) or the
// adjusted close (from prices) for ticker.
func (r *ChartRenderer) Render(ticker string, prices models.PriceHistory, series models.ReturnSeries, kind ChartKind) ([]byte, error) {
	var (
		labels []string
		values []float64
		title  string
	)
	switch kind {
	case ChartCumulative:
		title = ticker + " Cumulative Return (%)"
		for _, p := range series {
			labels = append(labels, p.Date.Format(dateLayout))
			values = append(values, p.CumulativeReturn*100)
		}
	case ChartPrice:
		title = ticker + " Adjusted Close Price"
		for _, b := range prices {
			labels = append(labels, b.Date.Format(dateLayout))
			values = append(values, b.AdjClose)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownChartKind, kind)
	}
	if len(values) < 2 {
		return nil, ErrNotEnoughPoints
	}

	key := strings.Join([]string{ticker, string(kind), labels[0], labels[len(labels)-1], fmt.Sprint(len(values))}, "|")
	if img, ok := r.get(key); ok {
		return img, nil
	}

	yMin, yMax := values[0], values[0]
	for _, v := range values[1:] {
		if v < yMin {
			yMin = v
		}
		if v > yMax {
			yMax = v
		}
	}
	pad := (yMax - yMin) * 0.05
	if pad == 0 {
		pad = 1
	}
	yMin -= pad
	yMax += pad
	if kind == ChartPrice && yMin < 0 {
		yMin = 0
	}

	painter, err := charts.LineRender([][]float64{values},
		charts.TitleTextOptionFunc(title),
		charts.XAxisOptionFunc(charts.XAxisOption{Data: labels, BoundaryGap: charts.FalseFlag(), SplitNumber: 6}),
		charts.YAxisOptionFunc(charts.YAxisOption{Min: &yMin, Max: &yMax, DivideCount: 5}),
		charts.ThemeOptionFunc(charts.ThemeLight),
	)
	if err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	img, err := painter.Bytes()
	if err != nil {
		return nil, fmt.Errorf("encode chart: %w", err)
	}
	r.set(key, img)
	return img, nil
}

func (r *ChartRenderer) get(key string) ([]byte, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.cache[key]
	if !ok {
		return nil, false
	}
	if !r.now().Before(e.createdAt.Add(r.ttl)) {
		delete(r.cache, key)
		return nil, false
	}
	img := make([]byte, len(e.image))
	copy(img, e.image)
	return img, true
}

func (r *ChartRenderer) set(key string, img []byte) {
	r.mu.Lock()
	r.cache[key] = chartEntry{createdAt: r.now(), image: img}
	r.mu.Unlock()
}
