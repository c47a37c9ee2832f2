package ingestion

import (
	"path/filepath"
	"strings"
)

const (
	csvSuffix    = "_prc.csv"
	legacySuffix = ".dat"
)

// Resolver maps source identifiers to paths under one data directory.
// The directory is passed in explicitly; nothing here reads global config.
type Resolver struct {
	DataDir string
}

// NewResolver returns a Resolver rooted at dir.
func NewResolver(dir string) Resolver {
	return Resolver{DataDir: dir}
}

// CSVTicker normalizes a CSV identifier ("TSLA", "tsla_prc.csv") to its ticker ("tsla").
func CSVTicker(id string) string {
	id = strings.ToLower(strings.TrimSpace(id))
	return strings.TrimSuffix(id, csvSuffix)
}

// LegacyName normalizes a legacy identifier ("Data1", "data1.dat") to its base name ("data1").
func LegacyName(id string) string {
	id = strings.ToLower(strings.TrimSpace(id))
	return strings.TrimSuffix(id, legacySuffix)
}

// CSVPath returns <dir>/<ticker>_prc.csv for a CSV identifier.
func (r Resolver) CSVPath(id string) string {
	return filepath.Join(r.DataDir, CSVTicker(id)+csvSuffix)
}

// LegacyPath returns <dir>/<name>.dat for a legacy identifier.
func (r Resolver) LegacyPath(id string) string {
	return filepath.Join(r.DataDir, LegacyName(id)+legacySuffix)
}
