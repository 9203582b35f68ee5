// Package compare computes period-over-period deltas between two uploaded
// tables, typically the current and previous month of the same report.
package compare

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/flowviz-labs/flowviz/internal/dataset"
	"github.com/flowviz-labs/flowviz/internal/profile"
	"github.com/flowviz-labs/flowviz/internal/recommend"
)

// Aggregation is the per-column roll-up applied before percent change is
// computed. The choice materially changes reported percentages, so it is
// explicit configuration rather than an inferred default.
type Aggregation int

const (
	AggSum Aggregation = iota
	AggMean
)

// ParseAggregation maps a config string to an Aggregation.
func ParseAggregation(s string) (Aggregation, error) {
	switch s {
	case "", "sum":
		return AggSum, nil
	case "mean", "avg", "average":
		return AggMean, nil
	}
	return AggSum, fmt.Errorf("unknown aggregation %q (use sum|mean)", s)
}

func (a Aggregation) String() string {
	if a == AggMean {
		return "mean"
	}
	return "sum"
}

// Options controls the comparison. Profile thresholds decide which columns
// count as numeric; Aggregation decides the roll-up.
type Options struct {
	Aggregation Aggregation
	Profile     profile.Options
}

// DefaultOptions sums columns, matching the dashboard default.
func DefaultOptions() Options {
	return Options{Aggregation: AggSum, Profile: profile.DefaultOptions()}
}

// SummaryRow is one metric of the comparison summary. PctChange is NaN
// when the previous value is zero; it serializes as JSON null.
type SummaryRow struct {
	Metric    string
	Previous  float64
	Current   float64
	PctChange float64
}

// MarshalJSON emits null for an undefined percent change, since NaN has no
// JSON encoding.
func (r SummaryRow) MarshalJSON() ([]byte, error) {
	type row struct {
		Metric    string   `json:"metric"`
		Previous  float64  `json:"previous"`
		Current   float64  `json:"current"`
		PctChange *float64 `json:"pct_change"`
	}
	out := row{Metric: r.Metric, Previous: r.Previous, Current: r.Current}
	if !math.IsNaN(r.PctChange) {
		out.PctChange = &r.PctChange
	}
	return json.Marshal(out)
}

// CommonColumns returns the column names that are present, and numeric, in
// both tables, in the current table's column order.
func CommonColumns(current, previous *dataset.Table, opt Options) []string {
	prevNumeric := numericSet(previous, opt.Profile)
	var common []string
	for _, p := range numericProfiles(current, opt.Profile) {
		if _, ok := prevNumeric[p.Name]; ok {
			common = append(common, p.Name)
		}
	}
	return common
}

// Summarize computes the per-column comparison between two tables. Columns
// that are not numeric in both tables are excluded, never coerced. Zero
// common columns yields an empty summary, not an error.
func Summarize(current, previous *dataset.Table, opt Options) ([]string, []SummaryRow) {
	common := CommonColumns(current, previous, opt)
	rows := make([]SummaryRow, 0, len(common))
	for _, name := range common {
		prev := aggregate(previous, name, opt.Aggregation)
		cur := aggregate(current, name, opt.Aggregation)
		rows = append(rows, SummaryRow{
			Metric:    name,
			Previous:  prev,
			Current:   cur,
			PctChange: pctChange(cur, prev),
		})
	}
	return common, rows
}

// OverallChange is the percent change of the summed roll-ups across all
// common columns. Summing totals first avoids the distortion an average of
// per-column percentages picks up from columns with small bases. NaN when
// there are no common columns or the previous grand total is zero.
func OverallChange(current, previous *dataset.Table, common []string, opt Options) float64 {
	if len(common) == 0 {
		return math.NaN()
	}
	var curTotal, prevTotal float64
	for _, name := range common {
		curTotal += aggregate(current, name, opt.Aggregation)
		prevTotal += aggregate(previous, name, opt.Aggregation)
	}
	return pctChange(curTotal, prevTotal)
}

// AverageDifference is the mean of per-column mean differences, a plain
// level shift that complements the percent figures. NaN when there are no
// common columns.
func AverageDifference(current, previous *dataset.Table, common []string) float64 {
	if len(common) == 0 {
		return math.NaN()
	}
	var total float64
	for _, name := range common {
		total += aggregate(current, name, AggMean) - aggregate(previous, name, AggMean)
	}
	return total / float64(len(common))
}

// Totals returns the previous and current roll-ups for one column, as
// plotted by the comparison chart.
func Totals(current, previous *dataset.Table, column string, opt Options) (prev, cur float64) {
	return aggregate(previous, column, opt.Aggregation), aggregate(current, column, opt.Aggregation)
}

// MetricChange is the percent change of a single column's roll-up. NaN when
// the previous roll-up is zero.
func MetricChange(current, previous *dataset.Table, column string, opt Options) float64 {
	return pctChange(aggregate(current, column, opt.Aggregation), aggregate(previous, column, opt.Aggregation))
}

// ComparisonChart builds the two-bar previous-vs-current spec for one
// column.
func ComparisonChart(column string) recommend.ChartSpec {
	return recommend.ChartSpec{
		Kind:     recommend.Comparison,
		KindName: recommend.Comparison.String(),
		Title:    fmt.Sprintf("%s - Period over Period", column),
		Value:    column,
	}
}

func pctChange(cur, prev float64) float64 {
	if prev == 0 {
		return math.NaN()
	}
	return (cur - prev) / prev * 100
}

func aggregate(t *dataset.Table, column string, agg Aggregation) float64 {
	col, ok := t.ColumnByName(column)
	if !ok {
		return 0
	}
	vals := profile.NumericValues(col)
	if len(vals) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	if agg == AggMean {
		return sum / float64(len(vals))
	}
	return sum
}

func numericProfiles(t *dataset.Table, opt profile.Options) []profile.ColumnProfile {
	profiles, _ := profile.Profile(t, opt)
	out := profiles[:0]
	for _, p := range profiles {
		if p.Kind == profile.KindNumeric {
			out = append(out, p)
		}
	}
	return out
}

func numericSet(t *dataset.Table, opt profile.Options) map[string]struct{} {
	set := make(map[string]struct{})
	for _, p := range numericProfiles(t, opt) {
		set[p.Name] = struct{}{}
	}
	return set
}
