package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/guttosm/retvol/internal/aggregate"
	"github.com/guttosm/retvol/internal/domain/models"
	"github.com/guttosm/retvol/internal/ingestion"
	"github.com/guttosm/retvol/internal/logger"
	"github.com/guttosm/retvol/internal/regression"
	"github.com/guttosm/retvol/internal/storage"
)

// Merger is the ingestion step of an analysis run.
type Merger interface {
	Merge(ctx context.Context, src ingestion.Sources) (models.DailyPanel, ingestion.Stats, error)
}

// Request describes one analysis run.
//
//   - Sources:  files to merge.
//   - Lag:      regress on the previous month's volatility.
//   - Persist:  store the panel, the monthly table and the ingestion log.
//   - Parallel: per-ticker aggregation workers (0 means NumCPU).
type Request struct {
	Sources  ingestion.Sources
	Lag      bool
	Persist  bool
	Parallel int
}

// Report is the outcome of a run. Regression is nil when the monthly table
// could not support a fit; RegressionErr then says why.
type Report struct {
	RunID         string
	Stats         ingestion.Stats
	Panel         models.DailyPanel
	Monthly       []models.MonthlyStat
	Regression    *regression.Result
	RegressionErr error
}

// AnalysisService runs the merge, aggregate and regression pipeline.
type AnalysisService interface {
	Run(ctx context.Context, req Request) (*Report, error)
}

type analysisService struct {
	merger Merger
	repo   storage.PricesRepository
}

// NewAnalysisService builds the pipeline. repo may be nil when nothing is persisted.
func NewAnalysisService(merger Merger, repo storage.PricesRepository) AnalysisService {
	return &analysisService{merger: merger, repo: repo}
}

// ErrNoRepository is returned when persistence is requested without a database.
var ErrNoRepository = errors.New("persistence requested without a repository")

func (s *analysisService) Run(ctx context.Context, req Request) (*Report, error) {
	if req.Persist && s.repo == nil {
		return nil, ErrNoRepository
	}

	start := time.Now()
	rep := &Report{RunID: uuid.New().String()}
	log := logger.L().With().Str("run_id", rep.RunID).Logger()

	panel, st, err := s.merger.Merge(ctx, req.Sources)
	if err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}
	rep.Panel, rep.Stats = panel, st

	monthly, err := aggregate.AggregateParallel(ctx, panel, req.Parallel)
	if err != nil {
		return nil, fmt.Errorf("aggregate: %w", err)
	}
	rep.Monthly = monthly

	opts := regression.Options{Lag: req.Lag}
	if req.Lag {
		opts.PriorVol = aggregate.Volatilities(panel)
	}
	res, err := regression.Fit(monthly, opts)
	switch {
	case err == nil:
		rep.Regression = &res
	case errors.Is(err, regression.ErrInsufficientData):
		rep.RegressionErr = err
		log.Warn().Err(err).Int("monthly", len(monthly)).Msg("regression skipped")
	default:
		return nil, fmt.Errorf("regression: %w", err)
	}

	if req.Persist {
		if err := s.persist(ctx, rep); err != nil {
			return nil, fmt.Errorf("persist: %w", err)
		}
	}

	log.Info().Object("stats", st).Int("monthly", len(monthly)).Bool("persisted", req.Persist).
		Dur("elapsed", time.Since(start)).Msg("analysis done")
	return rep, nil
}

func (s *analysisService) persist(ctx context.Context, rep *Report) error {
	if err := s.repo.ReplacePrices(ctx, rep.Panel.Records); err != nil {
		return fmt.Errorf("daily prices: %w", err)
	}
	if err := s.repo.ReplaceMonthlyStats(ctx, rep.Panel.Tickers(), rep.Monthly); err != nil {
		return fmt.Errorf("monthly stats: %w", err)
	}
	for _, src := range rep.Stats.Sources {
		seen, err := s.repo.HasIngestionForSource(ctx, src.Name)
		if err != nil {
			return fmt.Errorf("ingestion log: %w", err)
		}
		if seen {
			logger.L().Info().Str("source", src.Name).Msg("source previously ingested, replacing")
		}
		if err := s.repo.UpsertIngestionLog(ctx, src.Name, src.Origin, src.Records); err != nil {
			return fmt.Errorf("ingestion log: %w", err)
		}
	}
	return nil
}
