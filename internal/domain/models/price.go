package models

import (
	"sort"
	"strings"
	"time"
)

// Origin identifies which kind of source file produced a PriceRecord.
// It decides which record survives when two sources cover the same ticker/date.
type Origin int

const (
	OriginLegacy Origin = iota // delimited .dat file
	OriginCSV                  // <ticker>_prc.csv file
)

// String returns the label used in logs and metrics.
func (o Origin) String() string {
	switch o {
	case OriginCSV:
		return "csv"
	case OriginLegacy:
		return "legacy"
	default:
		return "unknown"
	}
}

// PriceRecord is the canonical daily observation produced by both ingestion paths.
//
// Fields:
//   - Ticker: ticker as provided by the source (upper-cased only at aggregation time).
//   - Date:   calendar date at UTC midnight (no time component).
//   - Price:  the value of the configured price column (e.g. adj_close).
//   - Origin: source kind, used for merge priority.
type PriceRecord struct {
	Ticker string
	Date   time.Time
	Price  float64
	Origin Origin
}

// Key returns the (ticker, date) identity used for deduplication.
// Tickers compare case-insensitively so "tsla" from a CSV file name
// collides with "TSLA" from a legacy file.
func (r PriceRecord) Key() string {
	return strings.ToUpper(r.Ticker) + "|" + r.Date.Format("2006-01-02")
}

// DailyPanel is the merged, date-ordered set of daily records for all tickers.
type DailyPanel struct {
	Records []PriceRecord
}

// NewDailyPanel copies recs and orders them by date ascending.
// Records sharing a date keep their merge order.
func NewDailyPanel(recs []PriceRecord) DailyPanel {
	out := make([]PriceRecord, len(recs))
	copy(out, recs)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return DailyPanel{Records: out}
}

// Len returns the number of daily records.
func (p DailyPanel) Len() int { return len(p.Records) }

// ByTicker partitions the panel by upper-cased ticker. Each partition keeps date order.
func (p DailyPanel) ByTicker() map[string][]PriceRecord {
	out := make(map[string][]PriceRecord)
	for _, r := range p.Records {
		k := strings.ToUpper(strings.TrimSpace(r.Ticker))
		out[k] = append(out[k], r)
	}
	return out
}

// Tickers returns the distinct upper-cased tickers in ascending order.
func (p DailyPanel) Tickers() []string {
	parts := p.ByTicker()
	out := make([]string, 0, len(parts))
	for k := range parts {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
