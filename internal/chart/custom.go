package chart

import (
	"fmt"
	"sort"

	"github.com/flowviz-labs/flowviz/internal/dataset"
	"github.com/flowviz-labs/flowviz/internal/profile"
	"github.com/flowviz-labs/flowviz/internal/recommend"
)

// Renderers for the user-built chart kinds. The specs arrive already
// validated by recommend.BuildCustom, so missing columns are still checked
// but role mismatches are not re-diagnosed here.

func renderScatter(t *dataset.Table, spec recommend.ChartSpec) (*Figure, error) {
	if len(spec.Y) != 1 {
		return nil, fmt.Errorf("scatter spec needs exactly one y column")
	}
	xs, ok := t.ColumnByName(spec.X)
	if !ok {
		return nil, fmt.Errorf("column %q not in table", spec.X)
	}
	ys, ok := t.ColumnByName(spec.Y[0])
	if !ok {
		return nil, fmt.Errorf("column %q not in table", spec.Y[0])
	}

	// Only rows where both cells are numeric become points.
	var px, py []float64
	for i, v := range xs {
		if i >= len(ys) {
			break
		}
		fx, okX := profile.ParseNumber(v)
		fy, okY := profile.ParseNumber(ys[i])
		if okX && okY {
			px = append(px, fx)
			py = append(py, fy)
		}
	}
	return &Figure{
		Data: []Trace{{
			Type: "scatter",
			Mode: "markers",
			Name: spec.Y[0],
			X:    px,
			Y:    py,
		}},
		Layout: Layout{
			Title:    spec.Title,
			XAxis:    &Axis{Title: spec.X},
			YAxis:    &Axis{Title: spec.Y[0]},
			Template: "plotly_white",
		},
	}, nil
}

func renderPie(t *dataset.Table, spec recommend.ChartSpec) (*Figure, error) {
	labels, sums, err := groupSums(t, spec.Category, spec.Value)
	if err != nil {
		return nil, err
	}
	return &Figure{
		Data: []Trace{{
			Type:     "pie",
			Labels:   labels,
			Values:   sums,
			Hole:     0.3,
			TextInfo: "label+percent",
		}},
		Layout: Layout{Title: spec.Title, Template: "plotly_white"},
	}, nil
}

func renderBox(t *dataset.Table, spec recommend.ChartSpec) (*Figure, error) {
	cats, ok := t.ColumnByName(spec.Category)
	if !ok {
		return nil, fmt.Errorf("column %q not in table", spec.Category)
	}
	vals, ok := t.ColumnByName(spec.Value)
	if !ok {
		return nil, fmt.Errorf("column %q not in table", spec.Value)
	}

	groups := map[string][]float64{}
	var order []string
	for i, c := range cats {
		if c == "" || i >= len(vals) {
			continue
		}
		f, ok := profile.ParseNumber(vals[i])
		if !ok {
			continue
		}
		if _, seen := groups[c]; !seen {
			order = append(order, c)
		}
		groups[c] = append(groups[c], f)
	}
	sort.Strings(order)

	fig := &Figure{Layout: Layout{
		Title:    spec.Title,
		XAxis:    &Axis{Title: spec.Category},
		YAxis:    &Axis{Title: spec.Value},
		Template: "plotly_white",
	}}
	for _, c := range order {
		fig.Data = append(fig.Data, Trace{Type: "box", Name: c, Y: groups[c]})
	}
	return fig, nil
}

func renderArea(t *dataset.Table, spec recommend.ChartSpec) (*Figure, error) {
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
		fill := "tonexty"
		if len(fig.Data) == 0 {
			fill = "tozeroy"
		}
		fig.Data = append(fig.Data, Trace{
			Type:       "scatter",
			Mode:       "lines",
			Name:       name,
			X:          dates,
			Y:          ys,
			Fill:       fill,
			StackGroup: "one",
		})
	}
	return fig, nil
}

// groupSums sums the value column per category, categories sorted.
func groupSums(t *dataset.Table, category, value string) ([]string, []float64, error) {
	cats, ok := t.ColumnByName(category)
	if !ok {
		return nil, nil, fmt.Errorf("column %q not in table", category)
	}
	vals, ok := t.ColumnByName(value)
	if !ok {
		return nil, nil, fmt.Errorf("column %q not in table", value)
	}

	sums := map[string]float64{}
	var order []string
	for i, c := range cats {
		if c == "" || i >= len(vals) {
			continue
		}
		f, ok := profile.ParseNumber(vals[i])
		if !ok {
			continue
		}
		if _, seen := sums[c]; !seen {
			order = append(order, c)
		}
		sums[c] += f
	}
	sort.Strings(order)

	out := make([]float64, len(order))
	for i, c := range order {
		out[i] = sums[c]
	}
	return order, out, nil
}
