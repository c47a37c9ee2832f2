package ingestion

import (
	"errors"
	"fmt"
	"strings"

	"github.com/guregu/null/v6"

	"github.com/guttosm/retvol/internal/domain/models"
)

// PriceColumn is the canonical name the configured price column is renamed to.
const PriceColumn = "price"

// DefaultPriceKey is used when no price column is configured.
const DefaultPriceKey = "adj_close"

// Reasons a row is dropped during normalization. Callers count and skip them.
var (
	ErrMissingTicker = errors.New("missing ticker")
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidPrice  = errors.New("invalid price")
)

// NormalizeColumnName maps a raw column name into the canonical key space:
// lower-case, surrounding whitespace removed, hyphens and spaces replaced by
// underscores. " Adj-Close " becomes "adj_close".
func NormalizeColumnName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", "_")
	return strings.ReplaceAll(s, " ", "_")
}

// NormalizeColumns normalizes every column name and renames the column
// matching priceKey to "price". Applying it to {ticker, date, price} is a no-op.
func NormalizeColumns(cols []string, priceKey string) []string {
	key := NormalizeColumnName(priceKey)
	if key == "" {
		key = DefaultPriceKey
	}
	out := make([]string, len(cols))
	for i, c := range cols {
		n := NormalizeColumnName(c)
		if n == key {
			n = PriceColumn
		}
		out[i] = n
	}
	return out
}

// numericRow is implemented by rows that already coerced their numeric columns.
type numericRow interface {
	Number(key string) (null.Float, bool)
}

// Normalize projects a parsed row onto a canonical {ticker, date, price} record.
//
// The price is read from the "price" column when the row's header was renamed
// by NormalizeColumns, otherwise from the column named by priceKey. A row with
// a non-numeric price, an unparseable date or an empty ticker returns one of
// the sentinel errors.
func Normalize(row models.Row, priceKey string, origin models.Origin) (models.PriceRecord, error) {
	var rec models.PriceRecord
	rec.Origin = origin

	ticker, _ := row.Field("ticker")
	rec.Ticker = strings.Trim(ticker, tokenCutset)
	if rec.Ticker == "" {
		return rec, ErrMissingTicker
	}

	price, raw := lookupPrice(row, priceKey)
	if !price.Valid {
		return rec, fmt.Errorf("%w: %q", ErrInvalidPrice, raw)
	}
	rec.Price = price.Float64

	ds, _ := row.Field("date")
	d, err := ParseDate(ds)
	if err != nil {
		return rec, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}
	rec.Date = d

	return rec, nil
}

func lookupPrice(row models.Row, priceKey string) (null.Float, string) {
	if raw, ok := row.Field(PriceColumn); ok {
		return models.ParseNumber(raw), raw
	}
	key := NormalizeColumnName(priceKey)
	if key == "" {
		key = DefaultPriceKey
	}
	raw, _ := row.Field(key)
	if nr, ok := row.(numericRow); ok {
		if v, ok := nr.Number(key); ok {
			return v, raw
		}
	}
	return models.ParseNumber(raw), raw
}

// tickerRow overrides the ticker column of a row.
type tickerRow struct {
	models.Row
	ticker string
}

func (r tickerRow) Field(key string) (string, bool) {
	if key == "ticker" {
		return r.ticker, true
	}
	return r.Row.Field(key)
}

// WithTicker returns row with its ticker field replaced by ticker.
func WithTicker(row models.Row, ticker string) models.Row {
	return tickerRow{Row: row, ticker: ticker}
}
