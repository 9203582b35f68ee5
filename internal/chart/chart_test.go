package chart

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/flowviz-labs/flowviz/internal/dataset"
	"github.com/flowviz-labs/flowviz/internal/recommend"
)

func tableOf(headers []string, rows ...[]string) *dataset.Table {
	return &dataset.Table{Name: "test", Headers: headers, Rows: rows}
}

func TestRenderTimeSeriesSortsByDate(t *testing.T) {
	tbl := tableOf([]string{"Date", "Sales"},
		[]string{"2025-01-03", "300"},
		[]string{"2025-01-01", "100"},
		[]string{"2025-01-02", "200"},
	)
	fig, err := Render(tbl, recommend.ChartSpec{
		Kind:       recommend.TimeSeries,
		Title:      "ts",
		X:          "Date",
		Y:          []string{"Sales"},
		TimeFormat: "2006-01-02",
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(fig.Data) != 1 {
		t.Fatalf("traces = %d, want 1", len(fig.Data))
	}
	dates := fig.Data[0].X.([]string)
	if !strings.HasPrefix(dates[0], "2025-01-01") || !strings.HasPrefix(dates[2], "2025-01-03") {
		t.Fatalf("dates not sorted: %v", dates)
	}
	ys := fig.Data[0].Y.([]*float64)
	if *ys[0] != 100 || *ys[2] != 300 {
		t.Fatalf("y values follow sort: got %v %v", *ys[0], *ys[2])
	}
}

func TestRenderTimeSeriesDropsBadDates(t *testing.T) {
	tbl := tableOf([]string{"Date", "Sales"},
		[]string{"2025-01-01", "100"},
		[]string{"garbage", "200"},
	)
	fig, err := Render(tbl, recommend.ChartSpec{
		Kind: recommend.TimeSeries, X: "Date", Y: []string{"Sales"}, TimeFormat: "2006-01-02",
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if n := len(fig.Data[0].X.([]string)); n != 1 {
		t.Fatalf("points = %d, want 1 (bad date dropped)", n)
	}
}

func TestRenderHeatmapCorrelation(t *testing.T) {
	tbl := tableOf([]string{"a", "b", "c"},
		[]string{"1", "2", "3"},
		[]string{"2", "4", "1"},
		[]string{"3", "6", "2"},
	)
	fig, err := Render(tbl, recommend.ChartSpec{
		Kind: recommend.Heatmap, Title: "corr", Columns: []string{"a", "b", "c"},
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	z := fig.Data[0].Z.([][]float64)
	if z[0][0] != 1 || z[1][1] != 1 {
		t.Fatalf("diagonal != 1: %v", z)
	}
	// b = 2a exactly
	if math.Abs(z[0][1]-1) > 1e-9 {
		t.Fatalf("corr(a,b) = %v, want 1", z[0][1])
	}
	if z[0][1] != z[1][0] {
		t.Fatalf("matrix not symmetric: %v vs %v", z[0][1], z[1][0])
	}
}

func TestRenderDistribution(t *testing.T) {
	tbl := tableOf([]string{"v", "w"},
		[]string{"1", "10"},
		[]string{"2", "x"},
	)
	fig, err := Render(tbl, recommend.ChartSpec{
		Kind: recommend.Distribution, Title: "dist", Columns: []string{"v", "w"},
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(fig.Data) != 2 {
		t.Fatalf("traces = %d, want 2", len(fig.Data))
	}
	if got := fig.Data[1].X.([]float64); len(got) != 1 || got[0] != 10 {
		t.Fatalf("non-numeric cells should be dropped: %v", got)
	}
	if fig.Layout.Barmode != "overlay" {
		t.Fatalf("barmode = %q, want overlay", fig.Layout.Barmode)
	}
}

func TestRenderCategoryAnalysisMeans(t *testing.T) {
	tbl := tableOf([]string{"Region", "Sales"},
		[]string{"North", "100"},
		[]string{"South", "50"},
		[]string{"North", "300"},
	)
	fig, err := Render(tbl, recommend.ChartSpec{
		Kind: recommend.CategoryAnalysis, Title: "cat", Category: "Region", Value: "Sales",
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	cats := fig.Data[0].X.([]string)
	means := fig.Data[0].Y.([]float64)
	if len(cats) != 2 || cats[0] != "North" || cats[1] != "South" {
		t.Fatalf("categories = %v", cats)
	}
	if means[0] != 200 || means[1] != 50 {
		t.Fatalf("means = %v, want [200 50]", means)
	}
}

func TestRenderTopN(t *testing.T) {
	tbl := tableOf([]string{"Product", "Sales"},
		[]string{"p1", "10"},
		[]string{"p2", "30"},
		[]string{"p3", "20"},
	)
	fig, err := Render(tbl, recommend.ChartSpec{
		Kind: recommend.TopN, Title: "top", Category: "Product", Value: "Sales", Limit: 2,
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	values := fig.Data[0].X.([]float64)
	labels := fig.Data[0].Y.([]string)
	// Largest last so horizontal bars read top-down.
	if len(values) != 2 || values[1] != 30 || labels[1] != "p2" {
		t.Fatalf("top rows = %v %v", labels, values)
	}
	if values[0] != 20 || labels[0] != "p3" {
		t.Fatalf("second row = %v %v", labels[0], values[0])
	}
}

func TestRenderMissingColumn(t *testing.T) {
	tbl := tableOf([]string{"a"}, []string{"1"})
	_, err := Render(tbl, recommend.ChartSpec{Kind: recommend.Heatmap, Columns: []string{"a", "gone"}})
	if err == nil {
		t.Fatal("expected error for missing column")
	}
}

func TestRenderComparisonFigure(t *testing.T) {
	spec := recommend.ChartSpec{Kind: recommend.Comparison, Title: "sales", Value: "sales"}
	fig := RenderComparison(spec, 200, 300)
	ys := fig.Data[0].Y.([]float64)
	if ys[0] != 200 || ys[1] != 300 {
		t.Fatalf("bars = %v, want [200 300]", ys)
	}
}

func TestWriteHTML(t *testing.T) {
	fig := RenderComparison(recommend.ChartSpec{Kind: recommend.Comparison, Title: "t", Value: "v"}, 1, 2)
	var buf bytes.Buffer
	if err := fig.WriteHTML(&buf); err != nil {
		t.Fatalf("WriteHTML: %v", err)
	}
	html := buf.String()
	for _, want := range []string{"<!doctype html", "Plotly.newPlot", `"type":"bar"`} {
		if !strings.Contains(html, want) {
			t.Fatalf("html missing %q:\n%s", want, html)
		}
	}
}

func TestPearsonHandlesGaps(t *testing.T) {
	xs := []float64{1, math.NaN(), 3, 4}
	ys := []float64{2, 5, 6, 8}
	if r := pearson(xs, ys); math.IsNaN(r) || r <= 0 {
		t.Fatalf("pearson = %v, want positive", r)
	}
	if r := pearson([]float64{1, 1}, []float64{2, 3}); r != 0 {
		t.Fatalf("constant column corr = %v, want 0", r)
	}
}
