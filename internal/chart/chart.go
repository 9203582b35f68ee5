// Package chart turns a chart spec plus its source table into a plotly
// figure payload and wraps it as a self-contained interactive HTML page.
// There is no decision logic here, only dispatch on the spec kind.
package chart

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/flowviz-labs/flowviz/internal/dataset"
	"github.com/flowviz-labs/flowviz/internal/profile"
	"github.com/flowviz-labs/flowviz/internal/recommend"
)

// Trace is one plotly data trace. Axis payloads are kept loosely typed
// because plotly accepts strings (dates, categories) and numbers alike.
type Trace struct {
	Type        string      `json:"type"`
	Name        string      `json:"name,omitempty"`
	Mode        string      `json:"mode,omitempty"`
	Orientation string      `json:"orientation,omitempty"`
	Opacity     float64     `json:"opacity,omitempty"`
	X           interface{} `json:"x,omitempty"`
	Y           interface{} `json:"y,omitempty"`
	Z           interface{} `json:"z,omitempty"`
	Labels      interface{} `json:"labels,omitempty"`
	Values      interface{} `json:"values,omitempty"`
	Hole        float64     `json:"hole,omitempty"`
	TextInfo    string      `json:"textinfo,omitempty"`
	Fill        string      `json:"fill,omitempty"`
	StackGroup  string      `json:"stackgroup,omitempty"`
	Colorscale  string      `json:"colorscale,omitempty"`
}

// Axis labels one plot axis.
type Axis struct {
	Title string `json:"title,omitempty"`
}

// Layout is the subset of plotly layout the dashboard uses.
type Layout struct {
	Title    string `json:"title"`
	Barmode  string `json:"barmode,omitempty"`
	XAxis    *Axis  `json:"xaxis,omitempty"`
	YAxis    *Axis  `json:"yaxis,omitempty"`
	Template string `json:"template,omitempty"`
}

// Figure is a renderable chart: plotly traces plus layout.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Render maps a spec to a figure. The switch is exhaustive over the chart
// kinds; Comparison specs need both tables and go through
// RenderComparison instead.
func Render(t *dataset.Table, spec recommend.ChartSpec) (*Figure, error) {
	switch spec.Kind {
	case recommend.TimeSeries:
		return renderTimeSeries(t, spec)
	case recommend.Heatmap:
		return renderHeatmap(t, spec)
	case recommend.Distribution:
		return renderDistribution(t, spec)
	case recommend.CategoryAnalysis:
		return renderCategoryAnalysis(t, spec)
	case recommend.TopN:
		return renderTopN(t, spec)
	case recommend.Scatter:
		return renderScatter(t, spec)
	case recommend.Pie:
		return renderPie(t, spec)
	case recommend.Box:
		return renderBox(t, spec)
	case recommend.Area:
		return renderArea(t, spec)
	case recommend.Comparison:
		return nil, fmt.Errorf("comparison charts need two tables; use RenderComparison")
	}
	return nil, fmt.Errorf("unknown chart kind %d", spec.Kind)
}

// RenderComparison renders the two-bar previous-vs-current chart for the
// column named by the spec. Totals are computed with the given roll-up.
func RenderComparison(spec recommend.ChartSpec, previous, current float64) *Figure {
	return &Figure{
		Data: []Trace{{
			Type: "bar",
			Name: spec.Value,
			X:    []string{"Previous Period", "Current Period"},
			Y:    []float64{previous, current},
		}},
		Layout: Layout{
			Title:    spec.Title,
			YAxis:    &Axis{Title: spec.Value},
			Template: "plotly_white",
		},
	}
}

func renderTimeSeries(t *dataset.Table, spec recommend.ChartSpec) (*Figure, error) {
	xs, ok := t.ColumnByName(spec.X)
	if !ok {
		return nil, fmt.Errorf("column %q not in table", spec.X)
	}
	points := timePoints(xs, spec.TimeFormat)
	dates := make([]string, len(points))
	for i, p := range points {
		dates[i] = p.when.Format("2006-01-02 15:04:05")
	}

	fig := &Figure{Layout: Layout{
		Title:    spec.Title,
		XAxis:    &Axis{Title: spec.X},
		YAxis:    &Axis{Title: "Values"},
		Template: "plotly_white",
	}}
	for _, name := range spec.Y {
		col, ok := t.ColumnByName(name)
		if !ok {
			continue
		}
		ys := make([]*float64, len(points))
		for i, p := range points {
			if f, ok := profile.ParseNumber(col[p.row]); ok {
				v := f
				ys[i] = &v
			}
		}
		fig.Data = append(fig.Data, Trace{
			Type: "scatter",
			Mode: "lines+markers",
			Name: name,
			X:    dates,
			Y:    ys,
		})
	}
	return fig, nil
}

func renderHeatmap(t *dataset.Table, spec recommend.ChartSpec) (*Figure, error) {
	cols := make([][]float64, len(spec.Columns))
	for i, name := range spec.Columns {
		raw, ok := t.ColumnByName(name)
		if !ok {
			return nil, fmt.Errorf("column %q not in table", name)
		}
		// Aligned by row index; NaN marks non-numeric cells so pairwise
		// correlation can skip them.
		vals := make([]float64, len(raw))
		for r, v := range raw {
			if f, ok := profile.ParseNumber(v); ok {
				vals[r] = f
			} else {
				vals[r] = math.NaN()
			}
		}
		cols[i] = vals
	}

	n := len(cols)
	z := make([][]float64, n)
	for i := range z {
		z[i] = make([]float64, n)
		for j := range z[i] {
			if i == j {
				z[i][j] = 1
			} else {
				z[i][j] = pearson(cols[i], cols[j])
			}
		}
	}
	return &Figure{
		Data: []Trace{{
			Type:       "heatmap",
			X:          spec.Columns,
			Y:          spec.Columns,
			Z:          z,
			Colorscale: "RdBu",
		}},
		Layout: Layout{Title: spec.Title, Template: "plotly_white"},
	}, nil
}

func renderDistribution(t *dataset.Table, spec recommend.ChartSpec) (*Figure, error) {
	fig := &Figure{Layout: Layout{
		Title:    spec.Title,
		Barmode:  "overlay",
		XAxis:    &Axis{Title: "Value"},
		YAxis:    &Axis{Title: "Frequency"},
		Template: "plotly_white",
	}}
	for _, name := range spec.Columns {
		raw, ok := t.ColumnByName(name)
		if !ok {
			return nil, fmt.Errorf("column %q not in table", name)
		}
		fig.Data = append(fig.Data, Trace{
			Type:    "histogram",
			Name:    name,
			Opacity: 0.7,
			X:       profile.NumericValues(raw),
		})
	}
	return fig, nil
}

func renderCategoryAnalysis(t *dataset.Table, spec recommend.ChartSpec) (*Figure, error) {
	cats, ok := t.ColumnByName(spec.Category)
	if !ok {
		return nil, fmt.Errorf("column %q not in table", spec.Category)
	}
	vals, ok := t.ColumnByName(spec.Value)
	if !ok {
		return nil, fmt.Errorf("column %q not in table", spec.Value)
	}

	sums := map[string]float64{}
	counts := map[string]int{}
	var order []string
	for i, c := range cats {
		if c == "" || i >= len(vals) {
			continue
		}
		f, ok := profile.ParseNumber(vals[i])
		if !ok {
			continue
		}
		if _, seen := counts[c]; !seen {
			order = append(order, c)
		}
		sums[c] += f
		counts[c]++
	}
	sort.Strings(order)

	means := make([]float64, len(order))
	for i, c := range order {
		means[i] = sums[c] / float64(counts[c])
	}
	return &Figure{
		Data: []Trace{{Type: "bar", Name: spec.Value, X: order, Y: means}},
		Layout: Layout{
			Title:    spec.Title,
			XAxis:    &Axis{Title: spec.Category},
			YAxis:    &Axis{Title: "Average Value"},
			Template: "plotly_white",
		},
	}, nil
}

func renderTopN(t *dataset.Table, spec recommend.ChartSpec) (*Figure, error) {
	cats, ok := t.ColumnByName(spec.Category)
	if !ok {
		return nil, fmt.Errorf("column %q not in table", spec.Category)
	}
	vals, ok := t.ColumnByName(spec.Value)
	if !ok {
		return nil, fmt.Errorf("column %q not in table", spec.Value)
	}

	type row struct {
		label string
		value float64
	}
	var rows []row
	for i, c := range cats {
		if i >= len(vals) {
			break
		}
		if f, ok := profile.ParseNumber(vals[i]); ok {
			rows = append(rows, row{c, f})
		}
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].value > rows[j].value })
	limit := spec.Limit
	if limit <= 0 {
		limit = 10
	}
	if len(rows) > limit {
		rows = rows[:limit]
	}

	// Horizontal bars read top-down, so the largest value goes last.
	labels := make([]string, len(rows))
	values := make([]float64, len(rows))
	for i, r := range rows {
		labels[len(rows)-1-i] = r.label
		values[len(rows)-1-i] = r.value
	}
	return &Figure{
		Data: []Trace{{
			Type:        "bar",
			Orientation: "h",
			X:           values,
			Y:           labels,
		}},
		Layout: Layout{
			Title:    spec.Title,
			XAxis:    &Axis{Title: spec.Value},
			YAxis:    &Axis{Title: spec.Category},
			Template: "plotly_white",
		},
	}, nil
}

type timePoint struct {
	when time.Time
	row  int
}

// timePoints parses the x column with the detected format so the points
// sort chronologically; rows whose date does not parse are dropped.
func timePoints(xs []string, layout string) []timePoint {
	var points []timePoint
	for i, v := range xs {
		when, err := parseWhen(v, layout)
		if err != nil {
			continue
		}
		points = append(points, timePoint{when, i})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].when.Before(points[j].when) })
	return points
}

func parseWhen(v, layout string) (time.Time, error) {
	if layout != "" {
		return time.Parse(layout, v)
	}
	// No detected format: fall back to the common layouts.
	for _, l := range []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05", "02/01/2006", "01/02/2006"} {
		if when, err := time.Parse(l, v); err == nil {
			return when, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", v)
}

// pearson computes the correlation over rows where both columns are
// numeric. Zero when fewer than two shared points exist or either column
// is constant.
func pearson(xs, ys []float64) float64 {
	var n, sumX, sumY, sumXX, sumYY, sumXY float64
	for i := range xs {
		if i >= len(ys) || math.IsNaN(xs[i]) || math.IsNaN(ys[i]) {
			continue
		}
		x, y := xs[i], ys[i]
		n++
		sumX += x
		sumY += y
		sumXX += x * x
		sumYY += y * y
		sumXY += x * y
	}
	if n < 2 {
		return 0
	}
	denom := math.Sqrt((n*sumXX - sumX*sumX) * (n*sumYY - sumY*sumY))
	if denom == 0 {
		return 0
	}
	r := (n*sumXY - sumX*sumY) / denom
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return r
}
