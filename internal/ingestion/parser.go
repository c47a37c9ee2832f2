package ingestion

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/guttosm/retvol/internal/domain/models"
	"github.com/guttosm/retvol/internal/logger"
)

// Legacy files drifted between two layouts: the older one has no header and
// 7 columns, the newer one has a header line and adds "low".
var (
	legacyColumns7 = []string{"ticker", "volume", "date", "adj_close", "close", "open", "high"}
	legacyColumns8 = []string{"ticker", "volume", "date", "adj_close", "close", "open", "high", "low"}
)

// LegacyFormat describes how the rows of one legacy file are laid out.
type LegacyFormat struct {
	Fields  int      // 7 or 8
	Columns []string // canonical column names in file order
	Header  bool     // first non-blank line was a header
}

// DetectLegacyFormat inspects the first non-blank line of a legacy file.
// A line whose tokens name both "ticker" and "date" is a header and supplies
// the column order; otherwise the default order for its field count applies.
func DetectLegacyFormat(line string) (LegacyFormat, bool) {
	for _, n := range []int{len(legacyColumns8), len(legacyColumns7)} {
		fields, ok := ParseLegacyLine(line, n)
		if !ok {
			continue
		}
		cols := make([]string, len(fields))
		for i, f := range fields {
			cols[i] = NormalizeColumnName(f)
		}
		if contains(cols, "ticker") && contains(cols, "date") {
			return LegacyFormat{Fields: n, Columns: cols, Header: true}, true
		}
		def := legacyColumns7
		if n == len(legacyColumns8) {
			def = legacyColumns8
		}
		return LegacyFormat{Fields: n, Columns: def}, true
	}
	return LegacyFormat{}, false
}

// ReadLegacyFile parses one legacy .dat file into canonical records.
//
// It fails only on I/O errors and context cancellation. Blank lines are
// ignored; rows that do not split cleanly, or whose price/date cannot be
// coerced, are dropped and counted in the returned Stats.
func ReadLegacyFile(ctx context.Context, path, priceKey string) ([]models.PriceRecord, Stats, error) {
	var st Stats

	f, err := os.Open(path)
	if err != nil {
		return nil, st, fmt.Errorf("open: %w", err)
	}
	defer func() { _ = f.Close() }()
	st.Files = 1

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		format *LegacyFormat
		out    []models.PriceRecord
		line   int
	)
	for sc.Scan() {
		select {
		case <-ctx.Done():
			return nil, st, ctx.Err()
		default:
		}
		line++

		text := sc.Text()
		if line == 1 {
			text = strings.TrimPrefix(text, byteOrderMark)
		}
		if strings.TrimSpace(text) == "" {
			continue
		}

		if format == nil {
			lf, ok := DetectLegacyFormat(text)
			if !ok {
				st.Rows++
				st.Malformed++
				continue
			}
			format = &lf
			if lf.Header {
				continue
			}
		}
		st.Rows++

		fields, ok := ParseLegacyLine(text, format.Fields)
		if !ok {
			st.Malformed++
			continue
		}

		rec, err := Normalize(models.NewLegacyRow(format.Columns, fields), priceKey, models.OriginLegacy)
		if err != nil {
			st.Invalid++
			logger.L().Debug().Str("file", path).Int("line", line).Err(err).Msg("row skipped")
			continue
		}
		out = append(out, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, st, fmt.Errorf("read line after %d: %w", line, err)
	}

	return out, st, nil
}

func contains(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}
