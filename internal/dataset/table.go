package dataset

import (
	"errors"
	"strings"
)

// Table is one uploaded dataset held fully in memory: a header row plus
// data rows, all values kept as raw strings until a consumer parses them.
// A Table is immutable for the lifetime of one analysis.
type Table struct {
	Name    string
	Headers []string
	Rows    [][]string
}

// ErrUnsupportedFormat indicates the filename matched no registered loader.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// NumRows returns the number of data rows (header excluded).
func (t *Table) NumRows() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// NumCols returns the number of columns.
func (t *Table) NumCols() int {
	if t == nil {
		return 0
	}
	return len(t.Headers)
}

// IsEmpty reports whether the table has no data rows or no columns.
func (t *Table) IsEmpty() bool {
	return t.NumRows() == 0 || t.NumCols() == 0
}

// ColumnIndex returns the index of the named column, or -1.
// Matching is case-sensitive on the trimmed header.
func (t *Table) ColumnIndex(name string) int {
	if t == nil {
		return -1
	}
	for i, h := range t.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

// Column returns the values of column i, padding ragged rows with "".
func (t *Table) Column(i int) []string {
	out := make([]string, t.NumRows())
	for r, row := range t.Rows {
		if i < len(row) {
			out[r] = strings.TrimSpace(row[i])
		}
	}
	return out
}

// ColumnByName is Column keyed by header name; ok is false if absent.
func (t *Table) ColumnByName(name string) ([]string, bool) {
	i := t.ColumnIndex(name)
	if i < 0 {
		return nil, false
	}
	return t.Column(i), true
}
