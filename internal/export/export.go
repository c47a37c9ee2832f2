// Package export writes the monthly statistics table to CSV or XLSX.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/guregu/null/v6"
	"github.com/xuri/excelize/v2"

	"github.com/guttosm/retvol/internal/domain/models"
)

// SheetName is the worksheet holding the table in XLSX output.
const SheetName = "monthly"

// Header is the column order of every export.
var Header = []string{"mdate", "ticker", "mret", "mvol"}

// ErrUnsupportedFormat is returned for an output path that is neither .csv nor .xlsx.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// WriteFile writes stats to path, choosing the format from its extension.
func WriteFile(path string, stats []models.MonthlyStat) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		if err := WriteCSV(f, stats); err != nil {
			_ = f.Close()
			return err
		}
		return f.Close()
	case ".xlsx":
		return WriteXLSX(path, stats)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
	}
}

// WriteCSV writes a header row and one row per statistic. Missing values are empty cells.
func WriteCSV(w io.Writer, stats []models.MonthlyStat) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, s := range stats {
		if err := cw.Write([]string{s.MDate, s.Ticker, formatFloat(s.MRet), formatFloat(s.MVol)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX saves stats as a single-sheet workbook.
func WriteXLSX(path string, stats []models.MonthlyStat) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return err
	}

	header := make([]interface{}, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return err
	}

	for i, s := range stats {
		row := []interface{}{s.MDate, s.Ticker, cellValue(s.MRet), cellValue(s.MVol)}
		for j, v := range row {
			if v == nil {
				continue // missing values stay blank cells
			}
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(SheetName, cell, v); err != nil {
				return err
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func formatFloat(v null.Float) string {
	if !v.Valid {
		return ""
	}
	return strconv.FormatFloat(v.Float64, 'f', -1, 64)
}

func cellValue(v null.Float) interface{} {
	if !v.Valid {
		return nil
	}
	return v.Float64
}
