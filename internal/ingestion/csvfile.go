package ingestion

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/guttosm/retvol/internal/domain/models"
	"github.com/guttosm/retvol/internal/logger"
)

// ErrMissingColumn is returned when a CSV header lacks the date or price column.
var ErrMissingColumn = errors.New("missing required column")

// ReadCSVFile parses a "<ticker>_prc.csv" file into canonical records.
//
// The header is normalized with NormalizeColumns, so priceKey may be given in
// any case/spacing ("Adj Close", "adj-close"). The file must carry a date
// column and the price column; other columns are discarded. Every record is
// tagged with ticker, whether or not the file has a ticker column.
func ReadCSVFile(ctx context.Context, path, ticker, priceKey string) ([]models.PriceRecord, Stats, error) {
	var st Stats

	f, err := os.Open(path)
	if err != nil {
		return nil, st, fmt.Errorf("open: %w", err)
	}
	defer func() { _ = f.Close() }()
	st.Files = 1

	r := csv.NewReader(f)
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1 // checked per row

	header, err := r.Read()
	if err != nil {
		return nil, st, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], byteOrderMark)
	}
	cols := NormalizeColumns(header, priceKey)
	for _, want := range []string{"date", PriceColumn} {
		if !contains(cols, want) {
			return nil, st, fmt.Errorf("%w %q (price column %q)", ErrMissingColumn, want, priceKey)
		}
	}

	var out []models.PriceRecord
	lineNumber := 1

	for {
		select {
		case <-ctx.Done():
			return nil, st, ctx.Err()
		default:
		}

		rec, err := r.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				lineNumber++
				st.Rows++
				st.Malformed++
				continue
			}
			return nil, st, fmt.Errorf("read line after %d: %w", lineNumber, err)
		}
		lineNumber++
		st.Rows++

		if len(rec) != len(cols) {
			st.Malformed++
			continue
		}

		row := WithTicker(models.TabularRow{Header: cols, Values: rec}, ticker)
		pr, err := Normalize(row, priceKey, models.OriginCSV)
		if err != nil {
			st.Invalid++
			logger.L().Debug().Str("file", path).Int("line", lineNumber).Err(err).Msg("row skipped")
			continue
		}
		out = append(out, pr)
	}

	return out, st, nil
}
