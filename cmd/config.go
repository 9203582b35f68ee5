package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/flowviz-labs/flowviz/internal/compare"
	cfgpkg "github.com/flowviz-labs/flowviz/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set FlowViz configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Println("No config loaded")
			return nil
		}
		fmt.Printf("listen_addr: %s\n", cfg.ListenAddr)
		fmt.Printf("allowed_origins: %s\n", strings.Join(cfg.AllowedOrigins, ", "))
		fmt.Printf("max_upload_mb: %d\n", cfg.MaxUploadMB)
		fmt.Printf("session_ttl_min: %d\n", cfg.SessionTTLMin)
		fmt.Printf("numeric_threshold: %.2f\n", cfg.NumericThreshold)
		fmt.Printf("datetime_threshold: %.2f\n", cfg.DatetimeThreshold)
		fmt.Printf("max_series: %d\n", cfg.MaxSeries)
		fmt.Printf("max_heatmap_columns: %d\n", cfg.MaxHeatmapColumns)
		fmt.Printf("max_histograms: %d\n", cfg.MaxHistograms)
		fmt.Printf("top_n: %d\n", cfg.TopN)
		fmt.Printf("aggregation: %s\n", cfg.Aggregation)
		fmt.Printf("users: %d configured\n", len(cfg.Users))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "listen_addr":
			cfg.ListenAddr = val
		case "max_upload_mb":
			n, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", key, err)
			}
			cfg.MaxUploadMB = n
		case "session_ttl_min":
			n, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", key, err)
			}
			cfg.SessionTTLMin = n
		case "numeric_threshold", "datetime_threshold":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f <= 0 || f > 1 {
				return fmt.Errorf("invalid %s: must be a fraction in (0,1]", key)
			}
			if key == "numeric_threshold" {
				cfg.NumericThreshold = f
			} else {
				cfg.DatetimeThreshold = f
			}
		case "max_series", "max_heatmap_columns", "max_histograms", "top_n":
			n, err := strconv.Atoi(val)
			if err != nil || n < 1 {
				return fmt.Errorf("invalid %s: must be a positive integer", key)
			}
			switch key {
			case "max_series":
				cfg.MaxSeries = n
			case "max_heatmap_columns":
				cfg.MaxHeatmapColumns = n
			case "max_histograms":
				cfg.MaxHistograms = n
			case "top_n":
				cfg.TopN = n
			}
		case "aggregation":
			if _, err := compare.ParseAggregation(val); err != nil {
				return err
			}
			cfg.Aggregation = val
		default:
			return fmt.Errorf("unknown config key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Printf("✓ Saved %s\n", key)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
