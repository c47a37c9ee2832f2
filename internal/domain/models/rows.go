package models

import "github.com/guregu/null/v6"

// Row is a parsed source line that can be looked up by canonical column key
// (e.g. "ticker", "date", "adj_close").
type Row interface {
	Field(key string) (string, bool)
}

// LegacyRow is one accepted line of a legacy .dat file, populated positionally.
//
// Older files carry 7 columns (ticker, volume, date, adj_close, close, open, high);
// newer files add low. Numeric fields stay invalid when the token is not a number.
type LegacyRow struct {
	Ticker   string
	Date     string
	Volume   null.Float
	AdjClose null.Float
	Close    null.Float
	Open     null.Float
	High     null.Float
	Low      null.Float

	raw map[string]string
}

// NewLegacyRow builds a LegacyRow from canonical column names and the matching tokens.
// Columns without a fixed field (unknown header names) stay reachable through Field.
func NewLegacyRow(columns, values []string) LegacyRow {
	r := LegacyRow{raw: make(map[string]string, len(columns))}
	for i, c := range columns {
		if i >= len(values) {
			break
		}
		v := values[i]
		r.raw[c] = v
		switch c {
		case "ticker":
			r.Ticker = v
		case "date":
			r.Date = v
		case "volume":
			r.Volume = ParseNumber(v)
		case "adj_close":
			r.AdjClose = ParseNumber(v)
		case "close":
			r.Close = ParseNumber(v)
		case "open":
			r.Open = ParseNumber(v)
		case "high":
			r.High = ParseNumber(v)
		case "low":
			r.Low = ParseNumber(v)
		}
	}
	return r
}

// Field returns the raw token stored under the canonical column key.
func (r LegacyRow) Field(key string) (string, bool) {
	v, ok := r.raw[key]
	return v, ok
}

// Number returns the coerced numeric field for key, if key is a numeric column.
func (r LegacyRow) Number(key string) (null.Float, bool) {
	switch key {
	case "volume":
		return r.Volume, true
	case "adj_close":
		return r.AdjClose, true
	case "close":
		return r.Close, true
	case "open":
		return r.Open, true
	case "high":
		return r.High, true
	case "low":
		return r.Low, true
	}
	return null.Float{}, false
}

// TabularRow is one CSV data row with its normalized header.
type TabularRow struct {
	Header []string
	Values []string
}

// Field returns the value in the column named key.
func (r TabularRow) Field(key string) (string, bool) {
	for i, h := range r.Header {
		if h == key && i < len(r.Values) {
			return r.Values[i], true
		}
	}
	return "", false
}
