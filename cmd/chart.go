package cmd

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flowviz-labs/flowviz/internal/chart"
	"github.com/flowviz-labs/flowviz/internal/profile"
	"github.com/flowviz-labs/flowviz/internal/recommend"
	"github.com/flowviz-labs/flowviz/internal/utils"
)

var (
	chartReq        recommend.CustomRequest
	chartOutputPath string
)

var chartCmd = &cobra.Command{
	Use:   "chart <file>",
	Short: "Render a custom chart from a CSV/Excel file",
	Long: `Chart builds one user-specified chart instead of the recommended set.
Pick a kind (line, area, scatter, bar, pie, box, histogram, heatmap, top_n)
and the columns it needs; column roles are validated against the profiled
table before rendering.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTable(args[0])
		if err != nil {
			return err
		}
		profiles, _ := profile.Profile(t, profileOptions())
		spec, err := recommend.BuildCustom(profiles, chartReq)
		if err != nil {
			return err
		}
		fig, err := chart.Render(t, spec)
		if err != nil {
			return err
		}

		var buf bytes.Buffer
		if err := fig.WriteHTML(&buf); err != nil {
			return err
		}
		if err := utils.SafeWriteFile(chartOutputPath, buf.Bytes()); err != nil {
			return fmt.Errorf("write chart: %w", err)
		}
		fmt.Printf("✓ Wrote %s chart to %s\n", spec.Kind, chartOutputPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(chartCmd)
	chartCmd.Flags().StringVar(&chartReq.Kind, "kind", "", "chart kind (required)")
	chartCmd.Flags().StringVar(&chartReq.Title, "title", "", "chart title (defaults per kind)")
	chartCmd.Flags().StringVar(&chartReq.X, "x", "", "x column (line/area/scatter)")
	chartCmd.Flags().StringSliceVar(&chartReq.Y, "y", nil, "y column(s) (line/area/scatter)")
	chartCmd.Flags().StringSliceVar(&chartReq.Columns, "columns", nil, "numeric columns (heatmap/histogram)")
	chartCmd.Flags().StringVar(&chartReq.Category, "category", "", "category column (bar/pie/box/top_n)")
	chartCmd.Flags().StringVar(&chartReq.Value, "value", "", "value column (bar/pie/box/top_n)")
	chartCmd.Flags().IntVar(&chartReq.Limit, "limit", 0, "row limit for top_n")
	chartCmd.Flags().StringVarP(&chartOutputPath, "output", "o", "chart.html", "path for the HTML chart")
	_ = chartCmd.MarkFlagRequired("kind")
}
