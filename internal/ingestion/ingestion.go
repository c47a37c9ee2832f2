package ingestion

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/guttosm/retvol/internal/domain/models"
	"github.com/guttosm/retvol/internal/logger"
	"github.com/guttosm/retvol/internal/metrics"
)

const maxParallelFiles = 8

// ErrNoSources is returned when a merge is requested without any source.
var ErrNoSources = errors.New("no csv or legacy sources given")

// Sources lists what to merge.
//
//   - CSV:         ticker identifiers resolved to <dir>/<ticker>_prc.csv.
//   - Legacy:      file identifiers resolved to <dir>/<name>.dat.
//   - PriceColumn: which price column becomes "price" (default adj_close).
type Sources struct {
	CSV         []string
	Legacy      []string
	PriceColumn string
}

// Merger loads price sources and merges them into one daily panel.
type Merger struct {
	resolver Resolver
	parallel int
}

// NewMerger builds a Merger. parallel bounds concurrent file reads;
// 0 means min(8, NumCPU).
func NewMerger(resolver Resolver, parallel int) *Merger {
	return &Merger{resolver: resolver, parallel: parallel}
}

type sourceJob struct {
	origin models.Origin
	id     string
	path   string
}

type sourceResult struct {
	records []models.PriceRecord
	stats   Stats
}

// Merge reads every source, concatenates CSV records before legacy ones and
// deduplicates on (ticker, date) with CSV-origin priority.
//
// Any missing or unreadable file aborts the merge; there is no fallback from a
// CSV source to a legacy one. Malformed rows are skipped and counted.
func (m *Merger) Merge(ctx context.Context, src Sources) (models.DailyPanel, Stats, error) {
	start := time.Now()
	defer metrics.ObserveStage("merge", start)

	var st Stats
	if len(src.CSV) == 0 && len(src.Legacy) == 0 {
		return models.DailyPanel{}, st, ErrNoSources
	}
	priceKey := src.PriceColumn
	if priceKey == "" {
		priceKey = DefaultPriceKey
	}

	jobs := make([]sourceJob, 0, len(src.CSV)+len(src.Legacy))
	for _, id := range src.CSV {
		jobs = append(jobs, sourceJob{origin: models.OriginCSV, id: CSVTicker(id), path: m.resolver.CSVPath(id)})
	}
	for _, id := range src.Legacy {
		jobs = append(jobs, sourceJob{origin: models.OriginLegacy, id: LegacyName(id), path: m.resolver.LegacyPath(id)})
	}

	maxParallel := maxParallelFiles
	if m.parallel > 0 {
		if m.parallel < maxParallel {
			maxParallel = m.parallel
		}
	} else if c := runtime.NumCPU(); c < maxParallel {
		maxParallel = c
	}

	logger.L().Info().Int("files", len(jobs)).Str("dir", m.resolver.DataDir).Int("max_parallel", maxParallel).Str("price_column", priceKey).Msg("merge start")

	results := make([]sourceResult, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)

	for i, job := range jobs {
		idx, j := i, job
		g.Go(func() error {
			fileStart := time.Now()
			base := filepath.Base(j.path)

			var (
				recs []models.PriceRecord
				fst  Stats
				err  error
			)
			switch j.origin {
			case models.OriginCSV:
				recs, fst, err = ReadCSVFile(gctx, j.path, j.id, priceKey)
			default:
				recs, fst, err = ReadLegacyFile(gctx, j.path, priceKey)
			}
			metrics.RecordFile(j.origin.String(), err == nil)
			if err != nil {
				logger.L().Error().Str("file", base).Str("origin", j.origin.String()).Err(err).Msg("source failed")
				return fmt.Errorf("%s source %q (%s): %w", j.origin, j.id, j.path, err)
			}

			metrics.RecordRows(j.origin.String(), metrics.OutcomeMalformed, fst.Malformed)
			metrics.RecordRows(j.origin.String(), metrics.OutcomeInvalid, fst.Invalid)
			fst.Sources = []SourceStat{{Name: base, Origin: j.origin.String(), Records: len(recs)}}
			results[idx] = sourceResult{records: recs, stats: fst}

			logger.L().Info().Int("idx", idx+1).Int("total", len(jobs)).Str("file", base).
				Int("records", len(recs)).Int("skipped", fst.Skipped()).Dur("elapsed", time.Since(fileStart)).Msg("source done")
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return models.DailyPanel{}, st, err
	}

	var all []models.PriceRecord
	for _, r := range results {
		all = append(all, r.records...)
		st.Add(r.stats)
	}

	merged, dups := MergeRecords(all)
	st.Duplicates = dups
	st.Kept = len(merged)

	for _, r := range merged {
		metrics.RecordRows(r.Origin.String(), metrics.OutcomeAccepted, 1)
	}
	metrics.RecordRows("all", metrics.OutcomeDuplicate, dups)

	logger.L().Info().Object("stats", st).Dur("elapsed", time.Since(start)).Msg("merge done")
	return models.NewDailyPanel(merged), st, nil
}

// MergeRecords deduplicates records on (ticker, date).
//
// When a key has CSV-origin records, only the first CSV record survives, no
// matter where legacy records for the same key appear. Otherwise the first
// record wins. Surviving records keep their input order. It returns the kept
// records and how many were dropped.
func MergeRecords(recs []models.PriceRecord) ([]models.PriceRecord, int) {
	hasCSV := make(map[string]bool)
	for _, r := range recs {
		if r.Origin == models.OriginCSV {
			hasCSV[r.Key()] = true
		}
	}

	seen := make(map[string]bool, len(recs))
	out := make([]models.PriceRecord, 0, len(recs))
	for _, r := range recs {
		k := r.Key()
		if hasCSV[k] && r.Origin != models.OriginCSV {
			continue
		}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, r)
	}
	return out, len(recs) - len(out)
}
