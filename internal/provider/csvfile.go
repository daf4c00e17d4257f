package provider

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/guttosm/investhelper/internal/domain/models"
)

const (
	dateColumn     = "Date"
	adjCloseColumn = "Adj Close"
)

// csvBar mirrors one row of a Yahoo-style daily CSV. Values are read as text
// so blank and "null" cells can be skipped instead of failing the file.
// Only Date and Adj Close are required.
type csvBar struct {
	Date     string `csv:"Date"`
	Open     string `csv:"Open"`
	High     string `csv:"High"`
	Low      string `csv:"Low"`
	Close    string `csv:"Close"`
	AdjClose string `csv:"Adj Close"`
	Volume   string `csv:"Volume"`
}

// CSVDir serves histories from <dir>/<TICKER>.csv files with at least the
// columns Date (YYYY-MM-DD) and Adj Close. Open, High, Low, Close and Volume
// are carried when present; unparsable session cells read as zero.
type CSVDir struct {
	dir string
}

// NewCSVDir returns a provider reading from dir.
func NewCSVDir(dir string) *CSVDir {
	return &CSVDir{dir: dir}
}

// FetchDailyHistory reads and cleans the ticker's file.
//
// Errors:
//   - ErrNoHistory: the file does not exist or has no data rows.
//   - ErrNoAdjustedClose: the header lacks Adj Close or no row has a usable value.
func (p *CSVDir) FetchDailyHistory(ctx context.Context, ticker string) (models.PriceHistory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(p.dir, filepath.Base(ticker)+".csv")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("csv %s: %w", ticker, ErrNoHistory)
		}
		return nil, fmt.Errorf("csv %s: read: %w", ticker, err)
	}
	data = bytes.TrimPrefix(data, []byte("\ufeff"))

	if err := checkHeader(data); err != nil {
		return nil, fmt.Errorf("csv %s: %w", ticker, err)
	}

	var rows []csvBar
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		return nil, fmt.Errorf("csv %s: parse: %w", ticker, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("csv %s: %w", ticker, ErrNoHistory)
	}

	raw := make(models.PriceHistory, 0, len(rows))
	for i, r := range rows {
		d, err := time.Parse(time.DateOnly, strings.TrimSpace(r.Date))
		if err != nil {
			return nil, fmt.Errorf("csv %s: line %d: invalid date %q", ticker, i+2, r.Date)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(r.AdjClose), 64)
		if err != nil {
			continue
		}
		raw = append(raw, models.PriceBar{
			Date:     d,
			Open:     cellFloat(r.Open),
			High:     cellFloat(r.High),
			Low:      cellFloat(r.Low),
			Close:    cellFloat(r.Close),
			AdjClose: v,
			Volume:   int64(cellFloat(r.Volume)),
		})
	}

	history, _ := Clean(raw)
	if len(history) == 0 {
		return nil, fmt.Errorf("csv %s: %w", ticker, ErrNoAdjustedClose)
	}
	return history, nil
}

// checkHeader requires the Date and Adj Close columns.
func checkHeader(data []byte) error {
	header, err := csv.NewReader(bytes.NewReader(data)).Read()
	if err != nil {
		return fmt.Errorf("read header: %w", ErrNoHistory)
	}
	var hasDate, hasAdj bool
	for _, h := range header {
		switch strings.TrimSpace(h) {
		case dateColumn:
			hasDate = true
		case adjCloseColumn:
			hasAdj = true
		}
	}
	if !hasDate {
		return fmt.Errorf("missing %q column: %w", dateColumn, ErrNoHistory)
	}
	if !hasAdj {
		return ErrNoAdjustedClose
	}
	return nil
}

func cellFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
