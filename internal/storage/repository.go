package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/guttosm/retvol/internal/domain/models"
	pq "github.com/lib/pq"
)

// PricesRepository defines contract for DB operations.
type PricesRepository interface {
	ReplacePrices(ctx context.Context, recs []models.PriceRecord) error
	ReplaceMonthlyStats(ctx context.Context, tickers []string, stats []models.MonthlyStat) error
	GetMonthlyByTicker(ctx context.Context, ticker string, from, to string) ([]models.MonthlyStat, error)
	ListMonthlyStats(ctx context.Context) ([]models.MonthlyStat, error)
	HasIngestionForSource(ctx context.Context, source string) (bool, error)
	UpsertIngestionLog(ctx context.Context, source, origin string, rowCount int) error
}

type pricesRepository struct {
	db *sql.DB
}

func NewPricesRepository(db *sql.DB) PricesRepository {
	return &pricesRepository{db: db}
}

// ReplacePrices deletes every stored row of the tickers present in recs and
// bulk-loads recs in a single transaction.
func (r *pricesRepository) ReplacePrices(ctx context.Context, recs []models.PriceRecord) error {
	tickers := make([]string, 0)
	seen := make(map[string]bool)
	for _, rec := range recs {
		t := strings.ToUpper(rec.Ticker)
		if !seen[t] {
			seen[t] = true
			tickers = append(tickers, t)
		}
	}

	return r.copyIn(ctx,
		`DELETE FROM daily_prices WHERE ticker = ANY($1)`, pq.Array(tickers),
		pq.CopyIn("daily_prices", "ticker", "trade_date", "price", "origin"),
		len(recs),
		func(i int) []interface{} {
			rec := recs[i]
			return []interface{}{strings.ToUpper(rec.Ticker), rec.Date, rec.Price, rec.Origin.String()}
		},
	)
}

// ReplaceMonthlyStats swaps the stored statistics of tickers, plus any ticker
// present in stats. A ticker listed in tickers but absent from stats ends up
// with no rows. Missing mret/mvol values are stored as NULL.
func (r *pricesRepository) ReplaceMonthlyStats(ctx context.Context, tickers []string, stats []models.MonthlyStat) error {
	keys := make([]string, 0, len(tickers))
	seen := make(map[string]bool)
	add := func(t string) {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t != "" && !seen[t] {
			seen[t] = true
			keys = append(keys, t)
		}
	}
	for _, t := range tickers {
		add(t)
	}
	for _, s := range stats {
		add(s.Ticker)
	}

	return r.copyIn(ctx,
		`DELETE FROM monthly_stats WHERE ticker = ANY($1)`, pq.Array(keys),
		pq.CopyIn("monthly_stats", "ticker", "mdate", "mret", "mvol"),
		len(stats),
		func(i int) []interface{} {
			s := stats[i]
			return []interface{}{s.Ticker, s.MDate, s.MRet, s.MVol}
		},
	)
}

// copyIn runs deleteSQL and then streams n rows through a COPY statement.
func (r *pricesRepository) copyIn(ctx context.Context, deleteSQL string, deleteArg interface{}, copySQL string, n int, row func(int) []interface{}) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	// Small optimization for bulk load
	if _, err := tx.ExecContext(ctx, `SET LOCAL synchronous_commit = OFF`); err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err := tx.ExecContext(ctx, deleteSQL, deleteArg); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("delete previous rows: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, copySQL)
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	for i := 0; i < n; i++ {
		if _, err := stmt.ExecContext(ctx, row(i)...); err != nil {
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

	return tx.Commit()
}

// HasIngestionForSource checks if a source file was already recorded.
func (r *pricesRepository) HasIngestionForSource(ctx context.Context, source string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM ingestion_log WHERE source = $1)`, source).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// UpsertIngestionLog records (or updates) an ingestion entry for a source file.
func (r *pricesRepository) UpsertIngestionLog(ctx context.Context, source, origin string, rowCount int) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO ingestion_log (source, origin, row_count)
		VALUES ($1, $2, $3)
		ON CONFLICT (source)
		DO UPDATE SET origin = EXCLUDED.origin,
					  row_count = EXCLUDED.row_count,
					  ingested_at = NOW()
	`, source, origin, rowCount)
	return err
}

// GetMonthlyByTicker returns a ticker's statistics ordered by month.
// from and to are inclusive "YYYY-MM" bounds; empty means unbounded.
func (r *pricesRepository) GetMonthlyByTicker(ctx context.Context, ticker string, from, to string) ([]models.MonthlyStat, error) {
	// $1 is always ticker. Subsequent placeholders depend on provided bounds.
	conditions := "ticker = $1"
	args := []interface{}{strings.ToUpper(ticker)}
	if from != "" {
		args = append(args, from)
		conditions += fmt.Sprintf(" AND mdate >= $%d", len(args))
	}
	if to != "" {
		args = append(args, to)
		conditions += fmt.Sprintf(" AND mdate <= $%d", len(args))
	}

	query := fmt.Sprintf(`SELECT ticker, mdate, mret, mvol FROM monthly_stats WHERE %s ORDER BY mdate`, conditions)
	return r.queryStats(ctx, query, args...)
}

// ListMonthlyStats returns every stored statistic, ticker-major and month-minor.
func (r *pricesRepository) ListMonthlyStats(ctx context.Context) ([]models.MonthlyStat, error) {
	return r.queryStats(ctx, `SELECT ticker, mdate, mret, mvol FROM monthly_stats ORDER BY ticker, mdate`)
}

func (r *pricesRepository) queryStats(ctx context.Context, query string, args ...interface{}) ([]models.MonthlyStat, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.MonthlyStat
	for rows.Next() {
		var s models.MonthlyStat
		if err := rows.Scan(&s.Ticker, &s.MDate, &s.MRet, &s.MVol); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
