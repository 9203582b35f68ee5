package recommend

import (
	"fmt"
	"strings"

	"github.com/flowviz-labs/flowviz/internal/profile"
)

// CustomRequest is a user-assembled chart: the dashboard's chart builder
// sends a kind name and the column selections it needs, and gets back a
// validated spec.
type CustomRequest struct {
	Kind     string   `json:"kind"`
	Title    string   `json:"title,omitempty"`
	X        string   `json:"x,omitempty"`
	Y        []string `json:"y,omitempty"`
	Columns  []string `json:"columns,omitempty"`
	Category string   `json:"category,omitempty"`
	Value    string   `json:"value,omitempty"`
	Limit    int      `json:"limit,omitempty"`
}

// ParseChartKind maps a user-facing kind name to a ChartKind. Comparison
// is excluded: it needs two tables and is only built by the comparator.
func ParseChartKind(s string) (ChartKind, error) {
	switch s {
	case "time_series", "line":
		return TimeSeries, nil
	case "heatmap":
		return Heatmap, nil
	case "distribution", "histogram":
		return Distribution, nil
	case "category_analysis", "bar":
		return CategoryAnalysis, nil
	case "top_n":
		return TopN, nil
	case "scatter":
		return Scatter, nil
	case "pie":
		return Pie, nil
	case "box":
		return Box, nil
	case "area":
		return Area, nil
	}
	return 0, fmt.Errorf("unknown chart kind %q", s)
}

// BuildCustom validates a user request against the column profiles and
// returns a renderable spec. Column roles are checked, never coerced: a
// pie over a numeric category or a scatter over text columns is an error.
func BuildCustom(profiles []profile.ColumnProfile, req CustomRequest) (ChartSpec, error) {
	kind, err := ParseChartKind(req.Kind)
	if err != nil {
		return ChartSpec{}, err
	}
	byName := make(map[string]profile.ColumnProfile, len(profiles))
	for _, p := range profiles {
		byName[p.Name] = p
	}

	spec := ChartSpec{Kind: kind, KindName: kind.String(), Title: req.Title}
	switch kind {
	case TimeSeries, Area:
		x, err := column(byName, req.X, profile.KindDatetime)
		if err != nil {
			return ChartSpec{}, err
		}
		if len(req.Y) == 0 {
			return ChartSpec{}, fmt.Errorf("%s chart needs at least one y column", kind)
		}
		for _, name := range req.Y {
			if _, err := column(byName, name, profile.KindNumeric); err != nil {
				return ChartSpec{}, err
			}
		}
		spec.X, spec.Y, spec.TimeFormat = x.Name, req.Y, x.TimeFormat
		if spec.Title == "" {
			spec.Title = fmt.Sprintf("%s over %s", strings.Join(req.Y, ", "), x.Name)
		}
	case Scatter:
		if _, err := column(byName, req.X, profile.KindNumeric); err != nil {
			return ChartSpec{}, err
		}
		if len(req.Y) != 1 {
			return ChartSpec{}, fmt.Errorf("scatter chart needs exactly one y column")
		}
		if _, err := column(byName, req.Y[0], profile.KindNumeric); err != nil {
			return ChartSpec{}, err
		}
		spec.X, spec.Y = req.X, req.Y
		if spec.Title == "" {
			spec.Title = fmt.Sprintf("%s vs %s", req.Y[0], req.X)
		}
	case Heatmap, Distribution:
		min := 1
		if kind == Heatmap {
			min = 2
		}
		if len(req.Columns) < min {
			return ChartSpec{}, fmt.Errorf("%s chart needs at least %d numeric columns", kind, min)
		}
		for _, name := range req.Columns {
			if _, err := column(byName, name, profile.KindNumeric); err != nil {
				return ChartSpec{}, err
			}
		}
		spec.Columns = req.Columns
		if spec.Title == "" {
			if kind == Heatmap {
				spec.Title = "Correlation Heatmap"
			} else {
				spec.Title = fmt.Sprintf("Distribution of %s", strings.Join(req.Columns, ", "))
			}
		}
	case CategoryAnalysis, Pie, Box, TopN:
		if _, err := column(byName, req.Category, profile.KindCategorical); err != nil {
			return ChartSpec{}, err
		}
		if _, err := column(byName, req.Value, profile.KindNumeric); err != nil {
			return ChartSpec{}, err
		}
		spec.Category, spec.Value = req.Category, req.Value
		switch kind {
		case TopN:
			spec.Limit = req.Limit
			if spec.Limit <= 0 {
				spec.Limit = 10
			}
			if spec.Title == "" {
				spec.Title = fmt.Sprintf("Top %d by %s", spec.Limit, req.Value)
			}
		case Pie:
			if spec.Title == "" {
				spec.Title = fmt.Sprintf("%s by %s", req.Value, req.Category)
			}
		case Box:
			if spec.Title == "" {
				spec.Title = fmt.Sprintf("%s distribution by %s", req.Value, req.Category)
			}
		default:
			if spec.Title == "" {
				spec.Title = fmt.Sprintf("Analysis by %s", req.Category)
			}
		}
	}
	return spec, nil
}

func column(byName map[string]profile.ColumnProfile, name string, want profile.Kind) (profile.ColumnProfile, error) {
	if name == "" {
		return profile.ColumnProfile{}, fmt.Errorf("missing %s column selection", want)
	}
	p, ok := byName[name]
	if !ok {
		return profile.ColumnProfile{}, fmt.Errorf("column %q not in table", name)
	}
	if p.Kind != want {
		return profile.ColumnProfile{}, fmt.Errorf("column %q is %s, need %s", name, p.Kind, want)
	}
	return p, nil
}
