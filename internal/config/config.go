package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Server
	ListenAddr     string   `mapstructure:"listen_addr" yaml:"listen_addr"`
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
	MaxUploadMB    int      `mapstructure:"max_upload_mb" yaml:"max_upload_mb"`
	SessionTTLMin  int      `mapstructure:"session_ttl_min" yaml:"session_ttl_min"`

	// Analysis
	NumericThreshold  float64 `mapstructure:"numeric_threshold" yaml:"numeric_threshold"`
	DatetimeThreshold float64 `mapstructure:"datetime_threshold" yaml:"datetime_threshold"`
	MaxSeries         int     `mapstructure:"max_series" yaml:"max_series"`
	MaxHeatmapColumns int     `mapstructure:"max_heatmap_columns" yaml:"max_heatmap_columns"`
	MaxHistograms     int     `mapstructure:"max_histograms" yaml:"max_histograms"`
	TopN              int     `mapstructure:"top_n" yaml:"top_n"`

	// Comparison roll-up policy: "sum" or "mean".
	Aggregation string `mapstructure:"aggregation" yaml:"aggregation"`

	// Credentials: username -> bcrypt hash. Empty disables login.
	Users map[string]string `mapstructure:"users" yaml:"users"`
}

// Defaults returns the built-in configuration. It cannot fail, so callers
// can fall back to it when Load does.
func Defaults() *Global {
	return &Global{
		ListenAddr:        ":8080",
		AllowedOrigins:    []string{"http://localhost:3000"},
		MaxUploadMB:       200,
		SessionTTLMin:     60,
		NumericThreshold:  0.8,
		DatetimeThreshold: 0.8,
		MaxSeries:         5,
		MaxHeatmapColumns: 10,
		MaxHistograms:     3,
		TopN:              10,
		Aggregation:       "sum",
	}
}

// Save writes the given configuration to the cfgFile path. If cfgFile is
// empty, it writes to ~/.flowviz/config.yaml, creating the directory if
// necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".flowviz")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("FLOWVIZ")
	v.AutomaticEnv()

	// Defaults
	d := Defaults()
	v.SetDefault("listen_addr", d.ListenAddr)
	v.SetDefault("allowed_origins", d.AllowedOrigins)
	v.SetDefault("max_upload_mb", d.MaxUploadMB)
	v.SetDefault("session_ttl_min", d.SessionTTLMin)
	v.SetDefault("numeric_threshold", d.NumericThreshold)
	v.SetDefault("datetime_threshold", d.DatetimeThreshold)
	v.SetDefault("max_series", d.MaxSeries)
	v.SetDefault("max_heatmap_columns", d.MaxHeatmapColumns)
	v.SetDefault("max_histograms", d.MaxHistograms)
	v.SetDefault("top_n", d.TopN)
	v.SetDefault("aggregation", d.Aggregation)

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".flowviz")
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}
