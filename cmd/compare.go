package cmd

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/flowviz-labs/flowviz/internal/chart"
	"github.com/flowviz-labs/flowviz/internal/compare"
	"github.com/flowviz-labs/flowviz/internal/dataset"
	"github.com/flowviz-labs/flowviz/internal/utils"
)

var (
	cmpAgg      string
	cmpJSON     bool
	cmpHTMLPath string
)

var compareCmd = &cobra.Command{
	Use:   "compare <current> <previous>",
	Short: "Compare two datasets period over period",
	Long: `Compare computes per-column and overall percentage change between the
current and previous period files. Only columns numeric in both files are
compared; a zero previous total reports N/A rather than failing.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cur, err := loadTable(args[0])
		if err != nil {
			return err
		}
		prev, err := loadTable(args[1])
		if err != nil {
			return err
		}

		opt := compare.DefaultOptions()
		opt.Profile = profileOptions()
		opt.Aggregation, err = compare.ParseAggregation(cmpAgg)
		if err != nil {
			return err
		}

		common, rows := compare.Summarize(cur, prev, opt)
		overall := compare.OverallChange(cur, prev, common, opt)
		avgDiff := compare.AverageDifference(cur, prev, common)

		if cmpJSON {
			out, err := utils.PrettyJSON(map[string]interface{}{
				"common_columns":     common,
				"summary":            rows,
				"overall_change":     nanToNil(overall),
				"average_difference": nanToNil(avgDiff),
				"aggregation":        opt.Aggregation.String(),
			})
			if err != nil {
				return err
			}
			fmt.Println(string(out))
		} else {
			fmt.Print(renderComparison(rows, overall, avgDiff, opt.Aggregation))
		}

		if cmpHTMLPath != "" {
			if err := writeComparisonReport(cmpHTMLPath, cur, prev, common, opt); err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "✓ Wrote comparison charts to %s\n", cmpHTMLPath)
		}
		return nil
	},
}

func loadTable(path string) (*dataset.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()
	return dataset.Load(f, path)
}

func renderComparison(rows []compare.SummaryRow, overall, avgDiff float64, agg compare.Aggregation) string {
	var b strings.Builder
	b.WriteString("[COMPARISON SUMMARY]\n")
	if len(rows) == 0 {
		b.WriteString("No comparable metrics: the files share no numeric columns.\n")
		return b.String()
	}
	fmt.Fprintf(&b, "Aggregation: %s\n\n", agg)
	fmt.Fprintf(&b, "%-24s %16s %16s %12s\n", "Metric", "Previous", "Current", "Change (%)")
	for _, r := range rows {
		fmt.Fprintf(&b, "%-24s %16.2f %16.2f %12s\n", r.Metric, r.Previous, r.Current, fmtPct(r.PctChange))
	}
	fmt.Fprintf(&b, "\nOverall change:     %s\n", fmtPct(overall))
	if !math.IsNaN(avgDiff) {
		fmt.Fprintf(&b, "Average difference: %.2f\n", avgDiff)
	}
	return b.String()
}

func writeComparisonReport(path string, cur, prev *dataset.Table, common []string, opt compare.Options) error {
	if len(common) == 0 {
		return fmt.Errorf("no common numeric columns to chart")
	}
	figs := make([]*chart.Figure, 0, len(common))
	for _, col := range common {
		prevTotal, curTotal := compare.Totals(cur, prev, col, opt)
		figs = append(figs, chart.RenderComparison(compare.ComparisonChart(col), prevTotal, curTotal))
	}
	var buf bytes.Buffer
	if err := chart.WritePage(&buf, "Period Comparison", figs...); err != nil {
		return err
	}
	return utils.SafeWriteFile(path, buf.Bytes())
}

func fmtPct(v float64) string {
	if math.IsNaN(v) {
		return "N/A"
	}
	return fmt.Sprintf("%+.2f%%", v)
}

func nanToNil(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

func init() {
	rootCmd.AddCommand(compareCmd)
	compareCmd.Flags().StringVar(&cmpAgg, "agg", "sum", "per-column roll-up before percent change: sum|mean")
	compareCmd.Flags().BoolVar(&cmpJSON, "json", false, "emit JSON instead of text")
	compareCmd.Flags().StringVar(&cmpHTMLPath, "html", "", "write per-column comparison charts to this HTML file")
}
