// Package recommend turns a column profile into an ordered list of chart
// specifications. The rules are a fixed decision table: the same table and
// profile always produce the same specs, in the same priority order.
package recommend

import (
	"fmt"
	"sort"

	"github.com/flowviz-labs/flowviz/internal/dataset"
	"github.com/flowviz-labs/flowviz/internal/profile"
)

// ChartKind is the closed set of chart types the renderer understands.
type ChartKind int

const (
	TimeSeries ChartKind = iota
	Heatmap
	Distribution
	CategoryAnalysis
	TopN
	// Comparison is the two-bar previous-vs-current chart. It is produced
	// by the comparator, never by the recommender rules.
	Comparison
	// The remaining kinds are only built from user requests (BuildCustom);
	// the recommender rules never emit them.
	Scatter
	Pie
	Box
	Area
)

func (k ChartKind) String() string {
	switch k {
	case TimeSeries:
		return "time_series"
	case Heatmap:
		return "heatmap"
	case Distribution:
		return "distribution"
	case CategoryAnalysis:
		return "category_analysis"
	case TopN:
		return "top_n"
	case Comparison:
		return "comparison"
	case Scatter:
		return "scatter"
	case Pie:
		return "pie"
	case Box:
		return "box"
	case Area:
		return "area"
	}
	return "unknown"
}

// ChartSpec describes one chart to render. Only the fields relevant to its
// kind are populated:
//
//	TimeSeries:       X (datetime column), Y (numeric columns), TimeFormat
//	Heatmap:          Columns (numeric columns to correlate)
//	Distribution:     Columns (numeric columns, one histogram each)
//	CategoryAnalysis: Category, Value (mean of Value grouped by Category)
//	TopN:             Category, Value, Limit (descending by Value)
//	Scatter:          X (numeric column), Y (one numeric column)
//	Pie:              Category, Value (sum of Value grouped by Category)
//	Box:              Category, Value (one box per category)
//	Area:             X (datetime column), Y (numeric columns), TimeFormat
//
// A spec never references a column absent from the table it was built for.
type ChartSpec struct {
	Kind       ChartKind `json:"-"`
	KindName   string    `json:"kind"`
	Title      string    `json:"title"`
	X          string    `json:"x,omitempty"`
	Y          []string  `json:"y,omitempty"`
	Columns    []string  `json:"columns,omitempty"`
	Category   string    `json:"category,omitempty"`
	Value      string    `json:"value,omitempty"`
	TimeFormat string    `json:"time_format,omitempty"`
	Limit      int       `json:"limit,omitempty"`
}

// Options caps how many columns a single chart pulls in.
type Options struct {
	// MaxSeries caps the y columns of a time series chart.
	MaxSeries int
	// MaxHeatmap caps the columns of a correlation heatmap.
	MaxHeatmap int
	// MaxHistograms caps the panels of a distribution chart.
	MaxHistograms int
	// TopN is the row limit of a top-N chart.
	TopN int
}

// DefaultOptions matches the dashboard defaults.
func DefaultOptions() Options {
	return Options{MaxSeries: 5, MaxHeatmap: 10, MaxHistograms: 3, TopN: 10}
}

// Recommend applies the decision rules to a profiled table. Each rule fires
// independently; a table satisfying none yields an empty list, which the
// caller shows as "no recommendations" rather than an error.
func Recommend(t *dataset.Table, profiles []profile.ColumnProfile, opt Options) []ChartSpec {
	var numeric, datetime []profile.ColumnProfile
	var categorical []profile.ColumnProfile
	for _, p := range profiles {
		switch p.Kind {
		case profile.KindNumeric:
			numeric = append(numeric, p)
		case profile.KindDatetime:
			datetime = append(datetime, p)
		default:
			categorical = append(categorical, p)
		}
	}

	var specs []ChartSpec

	if len(datetime) > 0 && len(numeric) > 0 {
		y := names(numeric)
		if len(y) > opt.MaxSeries {
			y = y[:opt.MaxSeries]
		}
		specs = append(specs, ChartSpec{
			Kind:       TimeSeries,
			Title:      "Time Series Analysis",
			X:          datetime[0].Name,
			Y:          y,
			TimeFormat: datetime[0].TimeFormat,
		})
	}

	if len(numeric) >= 2 {
		cols := names(numeric)
		if len(cols) > opt.MaxHeatmap {
			cols = cols[:opt.MaxHeatmap]
		}
		specs = append(specs, ChartSpec{
			Kind:    Heatmap,
			Title:   "Correlation Heatmap",
			Columns: cols,
		})
	}

	if len(numeric) > 0 {
		specs = append(specs, ChartSpec{
			Kind:    Distribution,
			Title:   "Distribution Analysis",
			Columns: topByVariance(t, numeric, opt.MaxHistograms),
		})
	}

	if len(categorical) > 0 && len(numeric) > 0 {
		if cat, ok := groupableCategory(categorical); ok {
			specs = append(specs, ChartSpec{
				Kind:     CategoryAnalysis,
				Title:    fmt.Sprintf("Analysis by %s", cat),
				Category: cat,
				Value:    numeric[0].Name,
			})
		}
	}

	if len(categorical) > 0 && len(numeric) > 0 {
		specs = append(specs, ChartSpec{
			Kind:     TopN,
			Title:    fmt.Sprintf("Top %d by %s", opt.TopN, numeric[0].Name),
			Category: categorical[0].Name,
			Value:    numeric[0].Name,
			Limit:    opt.TopN,
		})
	}

	for i := range specs {
		specs[i].KindName = specs[i].Kind.String()
	}
	return specs
}

func names(ps []profile.ColumnProfile) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Name
	}
	return out
}

// groupableCategory picks the lowest-cardinality categorical column that is
// still worth grouping by: between 2 and 20 distinct values. Columns of
// free text (high cardinality) or a single constant are skipped.
func groupableCategory(categorical []profile.ColumnProfile) (string, bool) {
	best, bestDistinct := "", 0
	for _, p := range categorical {
		if p.Distinct < 2 || p.Distinct > 20 {
			continue
		}
		if best == "" || p.Distinct < bestDistinct {
			best, bestDistinct = p.Name, p.Distinct
		}
	}
	return best, best != ""
}

// topByVariance ranks numeric columns by sample variance, highest first,
// and keeps up to limit of them. Ties keep profile order.
func topByVariance(t *dataset.Table, numeric []profile.ColumnProfile, limit int) []string {
	type ranked struct {
		name string
		v    float64
	}
	rs := make([]ranked, 0, len(numeric))
	for _, p := range numeric {
		col, _ := t.ColumnByName(p.Name)
		rs = append(rs, ranked{p.Name, variance(profile.NumericValues(col))})
	}
	sort.SliceStable(rs, func(i, j int) bool { return rs[i].v > rs[j].v })
	if limit > 0 && len(rs) > limit {
		rs = rs[:limit]
	}
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.name
	}
	return out
}

func variance(vals []float64) float64 {
	if len(vals) < 2 {
		return 0
	}
	mean := 0.0
	for _, v := range vals {
		mean += v
	}
	mean /= float64(len(vals))
	ss := 0.0
	for _, v := range vals {
		d := v - mean
		ss += d * d
	}
	return ss / float64(len(vals)-1)
}
