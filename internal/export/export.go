// Package export writes tables and comparison summaries in the formats
// behind the dashboard's download buttons.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/flowviz-labs/flowviz/internal/compare"
	"github.com/flowviz-labs/flowviz/internal/dataset"
)

// WriteTableCSV writes the table, header row first.
func WriteTableCSV(w io.Writer, t *dataset.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Headers); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range t.Rows {
		if err := cw.Write(pad(row, t.NumCols())); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTableXLSX writes the table as a single-sheet workbook.
func WriteTableXLSX(w io.Writer, t *dataset.Table) error {
	return writeSheet(w, "Data", t.Headers, func(add func(cells []interface{}) error) error {
		for _, row := range t.Rows {
			cells := make([]interface{}, t.NumCols())
			for i, v := range pad(row, t.NumCols()) {
				// Numbers are written as numbers so spreadsheet formulas
				// work on the export.
				if f, err := strconv.ParseFloat(v, 64); err == nil && v != "" {
					cells[i] = f
				} else {
					cells[i] = v
				}
			}
			if err := add(cells); err != nil {
				return err
			}
		}
		return nil
	})
}

var summaryHeader = []string{"Metric", "Previous Period", "Current Period", "Change (%)"}

// WriteSummaryCSV writes the comparison summary. Undefined percent changes
// are emitted as N/A.
func WriteSummaryCSV(w io.Writer, rows []compare.SummaryRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(summaryHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range rows {
		rec := []string{
			r.Metric,
			strconv.FormatFloat(r.Previous, 'f', -1, 64),
			strconv.FormatFloat(r.Current, 'f', -1, 64),
			formatPct(r.PctChange),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSummaryXLSX writes the comparison summary as a workbook.
func WriteSummaryXLSX(w io.Writer, rows []compare.SummaryRow) error {
	return writeSheet(w, "Comparison", summaryHeader, func(add func(cells []interface{}) error) error {
		for _, r := range rows {
			var pct interface{}
			if math.IsNaN(r.PctChange) {
				pct = "N/A"
			} else {
				pct = r.PctChange
			}
			if err := add([]interface{}{r.Metric, r.Previous, r.Current, pct}); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeSheet(w io.Writer, sheet string, header []string, fill func(add func(cells []interface{}) error) error) error {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}
	hdr := make([]interface{}, len(header))
	for i, h := range header {
		hdr[i] = h
	}
	rowNum := 1
	add := func(cells []interface{}) error {
		cell, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return fmt.Errorf("write row %d: %w", rowNum, err)
		}
		rowNum++
		return nil
	}
	if err := add(hdr); err != nil {
		return err
	}
	if err := fill(add); err != nil {
		return err
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func formatPct(v float64) string {
	if math.IsNaN(v) {
		return "N/A"
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func pad(row []string, n int) []string {
	if len(row) >= n {
		return row[:n]
	}
	out := make([]string, n)
	copy(out, row)
	return out
}
