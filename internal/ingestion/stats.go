package ingestion

import "github.com/rs/zerolog"

// Stats counts what ingestion saw and dropped. Skipped rows never raise errors,
// so these counters are the only trace they leave.
type Stats struct {
	Files      int // source files read
	Rows       int // non-blank data rows seen (headers excluded)
	Malformed  int // rows that did not split into the expected field count
	Invalid    int // rows dropped for a bad ticker, price or date
	Duplicates int // records dropped by the merge
	Kept       int // records in the merged panel

	Sources []SourceStat // one entry per file, in merge order
}

// SourceStat describes what a single file contributed before deduplication.
type SourceStat struct {
	Name    string // file base name, e.g. "data1.dat"
	Origin  string
	Records int
}

// Skipped is the total number of rows that never became a record.
func (s Stats) Skipped() int { return s.Malformed + s.Invalid }

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.Files += o.Files
	s.Rows += o.Rows
	s.Malformed += o.Malformed
	s.Invalid += o.Invalid
	s.Duplicates += o.Duplicates
	s.Kept += o.Kept
	s.Sources = append(s.Sources, o.Sources...)
}

// MarshalZerologObject lets Stats be logged with Object("stats", s).
func (s Stats) MarshalZerologObject(e *zerolog.Event) {
	e.Int("files", s.Files).
		Int("rows", s.Rows).
		Int("malformed", s.Malformed).
		Int("invalid", s.Invalid).
		Int("duplicates", s.Duplicates).
		Int("kept", s.Kept)
}
