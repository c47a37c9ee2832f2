package ingestion

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// dateLayouts are tried before the generic parser. Month-first forms come
// before day-first ones, matching the "MM-DD-YYYY" legacy files.
var dateLayouts = []string{
	"01-02-2006",
	"2006-01-02",
	"01/02/2006",
	"2006/01/02",
	"1/2/2006",
	"1-2-2006",
	"20060102",
	"02-Jan-2006",
	"2-Jan-2006",
	"Jan 2, 2006",
	"2006-01-02 15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
}

// ParseDate turns a date token into a calendar date at UTC midnight.
// Explicit layouts are tried first; anything else goes through dateparse.
func ParseDate(s string) (time.Time, error) {
	s = strings.Trim(s, tokenCutset)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return truncateToDate(t), nil
		}
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return truncateToDate(t), nil
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
