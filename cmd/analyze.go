package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/flowviz-labs/flowviz/internal/dataset"
	"github.com/flowviz-labs/flowviz/internal/profile"
	"github.com/flowviz-labs/flowviz/internal/recommend"
	"github.com/flowviz-labs/flowviz/internal/utils"
)

var (
	anaOutputPath string
	anaJSON       bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Profile a CSV/Excel file and print chart recommendations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open file: %w", err)
		}
		defer f.Close()

		t, err := dataset.Load(f, path)
		if err != nil {
			return err
		}
		profiles, stats := profile.Profile(t, profileOptions())
		specs := recommend.Recommend(t, profiles, recommendOptions())

		var out []byte
		if anaJSON {
			out, err = utils.PrettyJSON(map[string]interface{}{
				"file_name":       t.Name,
				"stats":           stats,
				"profiles":        profiles,
				"recommendations": specs,
			})
			if err != nil {
				return err
			}
		} else {
			out = []byte(renderAnalysis(t.Name, profiles, stats, specs))
		}

		if anaOutputPath != "" {
			if err := utils.SafeWriteFile(anaOutputPath, out); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Printf("✓ Wrote analysis to %s\n", anaOutputPath)
			return nil
		}
		fmt.Println(string(out))
		return nil
	},
}

func renderAnalysis(name string, profiles []profile.ColumnProfile, stats profile.Stats, specs []recommend.ChartSpec) string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	fmt.Fprintf(&b, "File: %s\n", name)
	fmt.Fprintf(&b, "Rows: %d\n", stats.TotalRows)
	fmt.Fprintf(&b, "Columns: %d (%d numeric, %d categorical, %d datetime)\n\n",
		stats.TotalColumns, stats.NumericColumns, stats.CategoricalColumns, stats.DatetimeColumns)

	b.WriteString("[SCHEMA]\n")
	for _, p := range profiles {
		fmt.Fprintf(&b, "- %s: %s", p.Name, p.Kind)
		if p.TimeFormat != "" {
			fmt.Fprintf(&b, " (format %s)", p.TimeFormat)
		}
		if p.Distinct > 0 {
			fmt.Fprintf(&b, " (unique=%d)", p.Distinct)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n[RECOMMENDED CHARTS]\n")
	if len(specs) == 0 {
		b.WriteString("(none: no numeric columns found)\n")
		return b.String()
	}
	for i, s := range specs {
		fmt.Fprintf(&b, "%d. %s: %s", i+1, s.Kind, s.Title)
		switch {
		case s.X != "":
			fmt.Fprintf(&b, " (x=%s, y=%s)", s.X, strings.Join(s.Y, ", "))
		case len(s.Columns) > 0:
			fmt.Fprintf(&b, " (columns: %s)", strings.Join(s.Columns, ", "))
		case s.Category != "":
			fmt.Fprintf(&b, " (category=%s, value=%s)", s.Category, s.Value)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "optional path to write the analysis")
	analyzeCmd.Flags().BoolVar(&anaJSON, "json", false, "emit JSON instead of text")
}
