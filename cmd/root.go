package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cfgpkg "github.com/flowviz-labs/flowviz/internal/config"
	"github.com/flowviz-labs/flowviz/internal/profile"
	"github.com/flowviz-labs/flowviz/internal/recommend"
)

var (
	// Global flags
	cfgFile string

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "flowviz",
	Short: "FlowViz: profile tabular business data, recommend charts, compare periods",
	Long: `FlowViz analyzes CSV/Excel business data: it classifies columns,
recommends chart types with deterministic rules, renders interactive HTML
charts, and computes period-over-period comparisons. Run the dashboard
API with 'flowviz serve' or analyze files directly from the CLI.`,
}

// Execute is the entry point called by main.main()
func Execute() {
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.flowviz/config.yaml)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to the built-in defaults, which cannot fail.
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = cfgpkg.Defaults()
	}
	cfg = c
}

func profileOptions() profile.Options {
	return profile.Options{
		NumericThreshold:  cfg.NumericThreshold,
		DatetimeThreshold: cfg.DatetimeThreshold,
	}
}

func recommendOptions() recommend.Options {
	return recommend.Options{
		MaxSeries:     cfg.MaxSeries,
		MaxHeatmap:    cfg.MaxHeatmapColumns,
		MaxHistograms: cfg.MaxHistograms,
		TopN:          cfg.TopN,
	}
}
