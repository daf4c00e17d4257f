package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	pq "github.com/lib/pq"

	"github.com/guttosm/investhelper/internal/domain/models"
)

//go:embed schema.sql
var schemaSQL string

// PriceRepository stores cached daily bars and the time each ticker was last fetched.
type PriceRepository interface {
	EnsureSchema(ctx context.Context) error
	ReplaceHistory(ctx context.Context, ticker string, history models.PriceHistory) error
	GetHistory(ctx context.Context, ticker string) (models.PriceHistory, error)
	LastFetched(ctx context.Context, ticker string) (time.Time, bool, error)
}

type priceRepository struct {
	db *sql.DB
}

func NewPriceRepository(db *sql.DB) PriceRepository {
	return &priceRepository{db: db}
}

// EnsureSchema creates the cache tables when they are missing and adds
// columns introduced since.
func (r *priceRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// ReplaceHistory swaps every stored bar of ticker for history and stamps the
// fetch log, all in one transaction. Bars are bulk loaded with COPY.
func (r *priceRepository) ReplaceHistory(ctx context.Context, ticker string, history models.PriceHistory) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	// Cache rows can always be re-fetched.
	if _, err := tx.ExecContext(ctx, `SET LOCAL synchronous_commit = OFF`); err != nil {
		_ = tx.Rollback()
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM price_bars WHERE ticker = $1`, ticker); err != nil {
		_ = tx.Rollback()
		return err
	}

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("price_bars",
		"ticker", "bar_date", "open", "high", "low", "close", "adj_close", "volume"))
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	for _, b := range history {
		if _, err := stmt.ExecContext(ctx, ticker, b.Date, b.Open, b.High, b.Low, b.Close, b.AdjClose, b.Volume); err != nil {
			_ = stmt.Close()
			_ = tx.Rollback()
			return err
		}
	}

	if _, err := stmt.ExecContext(ctx); err != nil {
		_ = stmt.Close()
		_ = tx.Rollback()
		return err
	}
	if err := stmt.Close(); err != nil {
		_ = tx.Rollback()
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO fetch_log (ticker, fetched_at, row_count)
		VALUES ($1, NOW(), $2)
		ON CONFLICT (ticker)
		DO UPDATE SET fetched_at = EXCLUDED.fetched_at,
		              row_count = EXCLUDED.row_count
	`, ticker, len(history)); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

// GetHistory returns the stored bars of ticker in date order.
func (r *priceRepository) GetHistory(ctx context.Context, ticker string) (models.PriceHistory, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT bar_date, open, high, low, close, adj_close, volume
		   FROM price_bars WHERE ticker = $1 ORDER BY bar_date`, ticker)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out models.PriceHistory
	for rows.Next() {
		var b models.PriceBar
		if err := rows.Scan(&b.Date, &b.Open, &b.High, &b.Low, &b.Close, &b.AdjClose, &b.Volume); err != nil {
			return nil, err
		}
		y, m, d := b.Date.Date()
		b.Date = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		out = append(out, b)
	}
	return out, rows.Err()
}

// LastFetched returns when ticker was last written; ok is false if never.
func (r *priceRepository) LastFetched(ctx context.Context, ticker string) (time.Time, bool, error) {
	var at time.Time
	err := r.db.QueryRowContext(ctx, `SELECT fetched_at FROM fetch_log WHERE ticker = $1`, ticker).Scan(&at)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	return at, true, nil
}
