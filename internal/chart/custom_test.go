package chart

import (
	"testing"

	"github.com/flowviz-labs/flowviz/internal/recommend"
)

func TestRenderScatterPairsNumericRows(t *testing.T) {
	tbl := tableOf([]string{"x", "y"},
		[]string{"1", "10"},
		[]string{"2", "n/a"},
		[]string{"3", "30"},
	)
	fig, err := Render(tbl, recommend.ChartSpec{
		Kind: recommend.Scatter, Title: "s", X: "x", Y: []string{"y"},
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	xs := fig.Data[0].X.([]float64)
	ys := fig.Data[0].Y.([]float64)
	if len(xs) != 2 || len(ys) != 2 {
		t.Fatalf("points = %d/%d, want 2 (non-numeric row dropped)", len(xs), len(ys))
	}
	if xs[1] != 3 || ys[1] != 30 {
		t.Fatalf("second point = (%v,%v), want (3,30)", xs[1], ys[1])
	}
	if fig.Data[0].Mode != "markers" {
		t.Fatalf("mode = %q, want markers", fig.Data[0].Mode)
	}
}

func TestRenderPieSumsByCategory(t *testing.T) {
	tbl := tableOf([]string{"Region", "Sales"},
		[]string{"North", "100"},
		[]string{"South", "50"},
		[]string{"North", "300"},
	)
	fig, err := Render(tbl, recommend.ChartSpec{
		Kind: recommend.Pie, Title: "p", Category: "Region", Value: "Sales",
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	labels := fig.Data[0].Labels.([]string)
	values := fig.Data[0].Values.([]float64)
	if len(labels) != 2 || labels[0] != "North" || labels[1] != "South" {
		t.Fatalf("labels = %v", labels)
	}
	if values[0] != 400 || values[1] != 50 {
		t.Fatalf("values = %v, want sums [400 50]", values)
	}
	if fig.Data[0].Type != "pie" || fig.Data[0].Hole != 0.3 {
		t.Fatalf("trace = %+v", fig.Data[0])
	}
}

func TestRenderBoxTracePerCategory(t *testing.T) {
	tbl := tableOf([]string{"Tier", "Score"},
		[]string{"A", "1"},
		[]string{"B", "2"},
		[]string{"A", "3"},
		[]string{"B", "junk"},
	)
	fig, err := Render(tbl, recommend.ChartSpec{
		Kind: recommend.Box, Title: "b", Category: "Tier", Value: "Score",
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(fig.Data) != 2 {
		t.Fatalf("traces = %d, want one box per category", len(fig.Data))
	}
	if fig.Data[0].Name != "A" || len(fig.Data[0].Y.([]float64)) != 2 {
		t.Fatalf("first box = %+v", fig.Data[0])
	}
	if len(fig.Data[1].Y.([]float64)) != 1 {
		t.Fatalf("non-numeric cell not dropped: %+v", fig.Data[1])
	}
}

func TestRenderAreaStacksSeries(t *testing.T) {
	tbl := tableOf([]string{"Date", "a", "b"},
		[]string{"2025-01-02", "2", "20"},
		[]string{"2025-01-01", "1", "10"},
	)
	fig, err := Render(tbl, recommend.ChartSpec{
		Kind: recommend.Area, Title: "area", X: "Date", Y: []string{"a", "b"}, TimeFormat: "2006-01-02",
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(fig.Data) != 2 {
		t.Fatalf("traces = %d, want 2", len(fig.Data))
	}
	if fig.Data[0].Fill != "tozeroy" || fig.Data[1].Fill != "tonexty" {
		t.Fatalf("fills = %q/%q", fig.Data[0].Fill, fig.Data[1].Fill)
	}
	if fig.Data[0].StackGroup != "one" {
		t.Fatalf("stackgroup = %q", fig.Data[0].StackGroup)
	}
	dates := fig.Data[0].X.([]string)
	if !(len(dates) == 2 && dates[0] < dates[1]) {
		t.Fatalf("dates not sorted: %v", dates)
	}
}
