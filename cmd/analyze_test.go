package cmd

import (
	"strings"
	"testing"

	"github.com/flowviz-labs/flowviz/internal/profile"
	"github.com/flowviz-labs/flowviz/internal/recommend"
)

func TestRenderAnalysis(t *testing.T) {
	profiles := []profile.ColumnProfile{
		{Name: "Date", Kind: profile.KindDatetime, KindName: "datetime", TimeFormat: "2006-01-02"},
		{Name: "Sales", Kind: profile.KindNumeric, KindName: "numeric"},
		{Name: "Region", Kind: profile.KindCategorical, KindName: "categorical", Distinct: 4},
	}
	stats := profile.Stats{TotalRows: 10, TotalColumns: 3, NumericColumns: 1, CategoricalColumns: 1, DatetimeColumns: 1}
	specs := []recommend.ChartSpec{
		{Kind: recommend.TimeSeries, Title: "Time Series Analysis", X: "Date", Y: []string{"Sales"}},
	}

	out := renderAnalysis("sales.csv", profiles, stats, specs)
	for _, want := range []string{
		"File: sales.csv",
		"Rows: 10",
		"- Date: datetime (format 2006-01-02)",
		"- Region: categorical (unique=4)",
		"1. time_series: Time Series Analysis (x=Date, y=Sales)",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderAnalysisNoRecommendations(t *testing.T) {
	out := renderAnalysis("empty.csv", nil, profile.Stats{}, nil)
	if !strings.Contains(out, "(none: no numeric columns found)") {
		t.Fatalf("output = %q", out)
	}
}
