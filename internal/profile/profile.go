// Package profile classifies the columns of an uploaded table as datetime,
// numeric, or categorical, and computes the basic dataset counts shown on
// the dashboard.
package profile

import (
	"strconv"
	"strings"
	"time"

	"github.com/flowviz-labs/flowviz/internal/dataset"
)

// Kind is the inferred type of one column.
type Kind int

const (
	KindCategorical Kind = iota
	KindNumeric
	KindDatetime
)

func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindDatetime:
		return "datetime"
	default:
		return "categorical"
	}
}

// ColumnProfile is the classification of one column. TimeFormat is only
// set for datetime columns and holds the Go layout that matched, so
// downstream parsing never has to re-guess. Distinct is only counted for
// categorical columns.
type ColumnProfile struct {
	Name       string `json:"name"`
	Kind       Kind   `json:"-"`
	KindName   string `json:"kind"`
	TimeFormat string `json:"time_format,omitempty"`
	Distinct   int    `json:"distinct,omitempty"`
}

// Stats are the dataset counts shown alongside the profile.
type Stats struct {
	TotalRows          int `json:"total_rows"`
	TotalColumns       int `json:"total_columns"`
	NumericColumns     int `json:"numeric_columns"`
	CategoricalColumns int `json:"categorical_columns"`
	DatetimeColumns    int `json:"datetime_columns"`
}

// Options carries the classification thresholds. A column is numeric or
// datetime when at least the threshold fraction of its non-blank values
// parses as such.
type Options struct {
	NumericThreshold  float64
	DatetimeThreshold float64
}

// DefaultOptions returns the thresholds used when none are configured.
func DefaultOptions() Options {
	return Options{NumericThreshold: 0.8, DatetimeThreshold: 0.8}
}

// timeLayouts are tried in order; the first layout that parses enough of
// the sample wins. Day-first layouts come before month-first, and
// date-only layouts before ones with a time component, so an unambiguous
// match is preferred.
var timeLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"02-01-2006",
	"02/01/2006",
	"01-02-2006",
	"01/02/2006",
	"2006-01-02 15:04:05",
	"2006/01/02 15:04:05",
	"02-01-2006 15:04:05",
	"02/01/2006 15:04:05",
	time.RFC3339,
}

const formatSample = 50

// DetectTimeFormat tries each candidate layout against up to the first 50
// non-blank values and returns the first layout that parses at least the
// threshold fraction of them, or "" when none does.
func DetectTimeFormat(values []string, threshold float64) string {
	sample := make([]string, 0, formatSample)
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		sample = append(sample, v)
		if len(sample) == formatSample {
			break
		}
	}
	if len(sample) == 0 {
		return ""
	}
	for _, layout := range timeLayouts {
		ok := 0
		for _, v := range sample {
			if _, err := time.Parse(layout, v); err == nil {
				ok++
			}
		}
		if float64(ok)/float64(len(sample)) >= threshold {
			return layout
		}
	}
	return ""
}

// ParseNumber parses one cell as a float. Blank cells are not numbers.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// NumericValues parses a column, keeping only the cells that are numbers.
func NumericValues(col []string) []float64 {
	out := make([]float64, 0, len(col))
	for _, v := range col {
		if f, ok := ParseNumber(v); ok {
			out = append(out, f)
		}
	}
	return out
}

// Profile classifies every column of the table and computes the dataset
// counts. An empty table yields an empty profile list and zero counts.
func Profile(t *dataset.Table, opt Options) ([]ColumnProfile, Stats) {
	stats := Stats{TotalRows: t.NumRows(), TotalColumns: t.NumCols()}
	if t.IsEmpty() {
		return nil, stats
	}

	profiles := make([]ColumnProfile, 0, t.NumCols())
	for i, name := range t.Headers {
		col := t.Column(i)
		kind, layout := classify(col, opt)
		p := ColumnProfile{Name: name, Kind: kind, KindName: kind.String(), TimeFormat: layout}
		switch kind {
		case KindNumeric:
			stats.NumericColumns++
		case KindDatetime:
			stats.DatetimeColumns++
		default:
			p.Distinct = distinct(col)
			stats.CategoricalColumns++
		}
		profiles = append(profiles, p)
	}
	return profiles, stats
}

func classify(col []string, opt Options) (Kind, string) {
	nonBlank, numeric := 0, 0
	for _, v := range col {
		if strings.TrimSpace(v) == "" {
			continue
		}
		nonBlank++
		if _, ok := ParseNumber(v); ok {
			numeric++
		}
	}
	if nonBlank == 0 {
		return KindCategorical, ""
	}
	if float64(numeric)/float64(nonBlank) >= opt.NumericThreshold {
		return KindNumeric, ""
	}
	if layout := DetectTimeFormat(col, opt.DatetimeThreshold); layout != "" {
		return KindDatetime, layout
	}
	return KindCategorical, ""
}

func distinct(col []string) int {
	seen := make(map[string]struct{}, len(col))
	for _, v := range col {
		if v == "" {
			continue
		}
		seen[v] = struct{}{}
	}
	return len(seen)
}
