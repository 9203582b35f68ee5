package recommend

import (
	"testing"

	"github.com/flowviz-labs/flowviz/internal/profile"
)

var builderProfiles = []profile.ColumnProfile{
	{Name: "Date", Kind: profile.KindDatetime, TimeFormat: "2006-01-02"},
	{Name: "Sales", Kind: profile.KindNumeric},
	{Name: "Cost", Kind: profile.KindNumeric},
	{Name: "Region", Kind: profile.KindCategorical, Distinct: 4},
}

func TestParseChartKind(t *testing.T) {
	want := map[string]ChartKind{
		"line":        TimeSeries,
		"time_series": TimeSeries,
		"bar":         CategoryAnalysis,
		"histogram":   Distribution,
		"scatter":     Scatter,
		"pie":         Pie,
		"box":         Box,
		"area":        Area,
		"top_n":       TopN,
	}
	for name, k := range want {
		got, err := ParseChartKind(name)
		if err != nil || got != k {
			t.Errorf("ParseChartKind(%q) = %v, %v; want %v", name, got, err, k)
		}
	}
	if _, err := ParseChartKind("comparison"); err == nil {
		t.Error("comparison should not be user-buildable")
	}
	if _, err := ParseChartKind("sunburst"); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestBuildCustomScatter(t *testing.T) {
	spec, err := BuildCustom(builderProfiles, CustomRequest{Kind: "scatter", X: "Sales", Y: []string{"Cost"}})
	if err != nil {
		t.Fatalf("BuildCustom: %v", err)
	}
	if spec.Kind != Scatter || spec.X != "Sales" || spec.Y[0] != "Cost" {
		t.Fatalf("spec = %+v", spec)
	}
	if spec.Title != "Cost vs Sales" {
		t.Errorf("title = %q", spec.Title)
	}

	if _, err := BuildCustom(builderProfiles, CustomRequest{Kind: "scatter", X: "Region", Y: []string{"Cost"}}); err == nil {
		t.Error("categorical x accepted for scatter")
	}
	if _, err := BuildCustom(builderProfiles, CustomRequest{Kind: "scatter", X: "Sales", Y: []string{"Cost", "Sales"}}); err == nil {
		t.Error("scatter accepted two y columns")
	}
}

func TestBuildCustomLineRequiresDatetimeX(t *testing.T) {
	spec, err := BuildCustom(builderProfiles, CustomRequest{Kind: "line", X: "Date", Y: []string{"Sales", "Cost"}})
	if err != nil {
		t.Fatalf("BuildCustom: %v", err)
	}
	if spec.Kind != TimeSeries || spec.TimeFormat != "2006-01-02" {
		t.Fatalf("spec = %+v", spec)
	}

	if _, err := BuildCustom(builderProfiles, CustomRequest{Kind: "line", X: "Sales", Y: []string{"Cost"}}); err == nil {
		t.Error("numeric x accepted for line chart")
	}
	if _, err := BuildCustom(builderProfiles, CustomRequest{Kind: "line", X: "Date"}); err == nil {
		t.Error("line chart without y columns accepted")
	}
}

func TestBuildCustomPieAndBox(t *testing.T) {
	spec, err := BuildCustom(builderProfiles, CustomRequest{Kind: "pie", Category: "Region", Value: "Sales"})
	if err != nil {
		t.Fatalf("BuildCustom pie: %v", err)
	}
	if spec.Kind != Pie || spec.Category != "Region" || spec.Value != "Sales" {
		t.Fatalf("pie spec = %+v", spec)
	}
	if spec.Title != "Sales by Region" {
		t.Errorf("pie title = %q", spec.Title)
	}

	if _, err := BuildCustom(builderProfiles, CustomRequest{Kind: "pie", Category: "Sales", Value: "Cost"}); err == nil {
		t.Error("numeric category accepted for pie")
	}

	box, err := BuildCustom(builderProfiles, CustomRequest{Kind: "box", Category: "Region", Value: "Cost"})
	if err != nil {
		t.Fatalf("BuildCustom box: %v", err)
	}
	if box.Kind != Box || box.Title != "Cost distribution by Region" {
		t.Fatalf("box spec = %+v", box)
	}
}

func TestBuildCustomHeatmapNeedsTwoColumns(t *testing.T) {
	if _, err := BuildCustom(builderProfiles, CustomRequest{Kind: "heatmap", Columns: []string{"Sales"}}); err == nil {
		t.Error("single-column heatmap accepted")
	}
	spec, err := BuildCustom(builderProfiles, CustomRequest{Kind: "heatmap", Columns: []string{"Sales", "Cost"}})
	if err != nil {
		t.Fatalf("BuildCustom: %v", err)
	}
	if spec.Kind != Heatmap || len(spec.Columns) != 2 {
		t.Fatalf("spec = %+v", spec)
	}
}

func TestBuildCustomTopNDefaultLimit(t *testing.T) {
	spec, err := BuildCustom(builderProfiles, CustomRequest{Kind: "top_n", Category: "Region", Value: "Sales"})
	if err != nil {
		t.Fatalf("BuildCustom: %v", err)
	}
	if spec.Limit != 10 {
		t.Fatalf("limit = %d, want default 10", spec.Limit)
	}
}

func TestBuildCustomMissingColumn(t *testing.T) {
	if _, err := BuildCustom(builderProfiles, CustomRequest{Kind: "scatter", X: "Ghost", Y: []string{"Cost"}}); err == nil {
		t.Error("missing column accepted")
	}
	if _, err := BuildCustom(builderProfiles, CustomRequest{Kind: "pie", Value: "Sales"}); err == nil {
		t.Error("empty category selection accepted")
	}
}
