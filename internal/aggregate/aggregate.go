// Package aggregate turns a merged daily panel into monthly return and
// volatility statistics.
package aggregate

import (
	"context"
	"runtime"
	"time"

	"github.com/guregu/null/v6"
	"golang.org/x/sync/errgroup"

	"github.com/guttosm/retvol/internal/domain/models"
	"github.com/guttosm/retvol/internal/logger"
	"github.com/guttosm/retvol/internal/metrics"
)

// Aggregate computes monthly statistics for every ticker in the panel.
// Output is ticker-major (ascending) and month-minor (ascending).
func Aggregate(panel models.DailyPanel) []models.MonthlyStat {
	start := time.Now()
	defer metrics.ObserveStage("aggregate", start)

	parts := panel.ByTicker()
	var out []models.MonthlyStat
	for _, t := range panel.Tickers() {
		out = append(out, Series(t, parts[t]).Stats()...)
	}

	metrics.RecordMonthly(len(out))
	logger.L().Info().Int("tickers", len(parts)).Int("records", len(out)).Dur("elapsed", time.Since(start)).Msg("aggregate done")
	return out
}

// AggregateParallel is Aggregate with tickers computed concurrently by at
// most workers goroutines (0 means NumCPU). Ordering matches Aggregate.
func AggregateParallel(ctx context.Context, panel models.DailyPanel, workers int) ([]models.MonthlyStat, error) {
	start := time.Now()
	defer metrics.ObserveStage("aggregate", start)

	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	parts := panel.ByTicker()
	tickers := panel.Tickers()
	results := make([][]models.MonthlyStat, len(tickers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, t := range tickers {
		idx, ticker := i, t
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[idx] = Series(ticker, parts[ticker]).Stats()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []models.MonthlyStat
	for _, r := range results {
		out = append(out, r...)
	}

	metrics.RecordMonthly(len(out))
	logger.L().Info().Int("tickers", len(tickers)).Int("workers", workers).Int("records", len(out)).Dur("elapsed", time.Since(start)).Msg("aggregate done")
	return out, nil
}

// Volatilities returns every ticker's monthly volatility keyed by ticker and
// then by month ("YYYY-MM"), including months that emit no MonthlyStat.
func Volatilities(panel models.DailyPanel) map[string]map[string]null.Float {
	parts := panel.ByTicker()
	out := make(map[string]map[string]null.Float, len(parts))
	for t, recs := range parts {
		out[t] = Series(t, recs).Volatilities()
	}
	return out
}
