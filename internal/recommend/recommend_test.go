package recommend

import (
	"testing"

	"github.com/flowviz-labs/flowviz/internal/dataset"
	"github.com/flowviz-labs/flowviz/internal/profile"
)

func analyzed(t *testing.T, headers []string, rows ...[]string) (*dataset.Table, []profile.ColumnProfile) {
	t.Helper()
	tbl := &dataset.Table{Name: "test", Headers: headers, Rows: rows}
	profiles, _ := profile.Profile(tbl, profile.DefaultOptions())
	return tbl, profiles
}

func kinds(specs []ChartSpec) []ChartKind {
	out := make([]ChartKind, len(specs))
	for i, s := range specs {
		out[i] = s.Kind
	}
	return out
}

func hasKind(specs []ChartSpec, k ChartKind) bool {
	for _, s := range specs {
		if s.Kind == k {
			return true
		}
	}
	return false
}

func TestRecommendEmptyTable(t *testing.T) {
	tbl, profiles := analyzed(t, nil)
	if specs := Recommend(tbl, profiles, DefaultOptions()); len(specs) != 0 {
		t.Fatalf("specs = %v, want empty", kinds(specs))
	}
}

func TestRecommendTimeSeries(t *testing.T) {
	tbl, profiles := analyzed(t,
		[]string{"Date", "Sales"},
		[]string{"2025-01-01", "100"},
		[]string{"2025-01-02", "200"},
	)
	specs := Recommend(tbl, profiles, DefaultOptions())

	var ts []ChartSpec
	for _, s := range specs {
		if s.Kind == TimeSeries {
			ts = append(ts, s)
		}
	}
	if len(ts) != 1 {
		t.Fatalf("time_series specs = %d, want exactly 1", len(ts))
	}
	if ts[0].X != "Date" || len(ts[0].Y) != 1 || ts[0].Y[0] != "Sales" {
		t.Fatalf("time series spec = %+v", ts[0])
	}
	if ts[0].TimeFormat != "2006-01-02" {
		t.Errorf("TimeFormat = %q, want 2006-01-02", ts[0].TimeFormat)
	}
}

func TestRecommendNumericOnly(t *testing.T) {
	tbl, profiles := analyzed(t,
		[]string{"a", "b", "c"},
		[]string{"1", "10", "100"},
		[]string{"2", "20", "200"},
		[]string{"3", "30", "300"},
	)
	specs := Recommend(tbl, profiles, DefaultOptions())

	if !hasKind(specs, Heatmap) || !hasKind(specs, Distribution) {
		t.Fatalf("want heatmap and distribution, got %v", kinds(specs))
	}
	if hasKind(specs, CategoryAnalysis) || hasKind(specs, TopN) || hasKind(specs, TimeSeries) {
		t.Fatalf("unexpected categorical/time specs in %v", kinds(specs))
	}
}

func TestRecommendPriorityOrder(t *testing.T) {
	tbl, profiles := analyzed(t,
		[]string{"Date", "Sales", "Cost", "Region"},
		[]string{"2025-01-01", "100", "50", "North"},
		[]string{"2025-01-02", "200", "70", "South"},
		[]string{"2025-01-03", "300", "90", "North"},
	)
	specs := Recommend(tbl, profiles, DefaultOptions())
	want := []ChartKind{TimeSeries, Heatmap, Distribution, CategoryAnalysis, TopN}
	if len(specs) != len(want) {
		t.Fatalf("specs = %v, want %v", kinds(specs), want)
	}
	for i, k := range want {
		if specs[i].Kind != k {
			t.Fatalf("specs[%d] = %s, want %s", i, specs[i].Kind, k)
		}
	}
}

func TestRecommendSeriesCap(t *testing.T) {
	tbl, profiles := analyzed(t,
		[]string{"Date", "a", "b", "c", "d", "e", "f", "g"},
		[]string{"2025-01-01", "1", "2", "3", "4", "5", "6", "7"},
		[]string{"2025-01-02", "2", "3", "4", "5", "6", "7", "8"},
	)
	specs := Recommend(tbl, profiles, DefaultOptions())
	if specs[0].Kind != TimeSeries {
		t.Fatalf("first spec = %s, want time_series", specs[0].Kind)
	}
	if len(specs[0].Y) != 5 {
		t.Fatalf("y columns = %d, want capped at 5", len(specs[0].Y))
	}
}

func TestRecommendLowestCardinalityCategory(t *testing.T) {
	tbl, profiles := analyzed(t,
		[]string{"City", "Tier", "Sales"},
		[]string{"Lyon", "A", "10"},
		[]string{"Oslo", "B", "20"},
		[]string{"Kyiv", "A", "30"},
		[]string{"Lima", "B", "40"},
	)
	specs := Recommend(tbl, profiles, DefaultOptions())
	for _, s := range specs {
		if s.Kind == CategoryAnalysis {
			if s.Category != "Tier" {
				t.Fatalf("category = %q, want lowest-cardinality Tier", s.Category)
			}
			if s.Value != "Sales" {
				t.Fatalf("value = %q, want Sales", s.Value)
			}
			return
		}
	}
	t.Fatal("no category_analysis spec emitted")
}

func TestRecommendDistributionVarianceOrder(t *testing.T) {
	tbl, profiles := analyzed(t,
		[]string{"flat", "wild", "mid", "tiny"},
		[]string{"1", "0", "10", "5"},
		[]string{"1", "1000", "30", "5"},
		[]string{"1", "-500", "20", "6"},
	)
	specs := Recommend(tbl, profiles, DefaultOptions())
	for _, s := range specs {
		if s.Kind == Distribution {
			if len(s.Columns) != 3 {
				t.Fatalf("columns = %v, want top 3", s.Columns)
			}
			if s.Columns[0] != "wild" {
				t.Fatalf("columns[0] = %q, want highest-variance wild", s.Columns[0])
			}
			return
		}
	}
	t.Fatal("no distribution spec emitted")
}

func TestChartKindNames(t *testing.T) {
	want := map[ChartKind]string{
		TimeSeries:       "time_series",
		Heatmap:          "heatmap",
		Distribution:     "distribution",
		CategoryAnalysis: "category_analysis",
		TopN:             "top_n",
		Comparison:       "comparison",
		Scatter:          "scatter",
		Pie:              "pie",
		Box:              "box",
		Area:             "area",
	}
	for k, name := range want {
		if k.String() != name {
			t.Errorf("%d.String() = %q, want %q", k, k.String(), name)
		}
	}
}
