package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/tidyset/internal/cleaner"
)

// Global configuration structure.
type Global struct {
	Strategy         string  `mapstructure:"strategy" yaml:"strategy"`
	OutlierThreshold float64 `mapstructure:"outlier_threshold" yaml:"outlier_threshold"`
	// OutputDir is where cleaned files go; empty means next to the input.
	OutputDir    string `mapstructure:"output_dir" yaml:"output_dir"`
	ReportFormat string `mapstructure:"report_format" yaml:"report_format"`
	PreviewRows  int    `mapstructure:"preview_rows" yaml:"preview_rows"`
	// NAValues overrides the tokens read as missing; empty keeps the defaults.
	NAValues []string `mapstructure:"na_values" yaml:"na_values"`
	Jobs     int      `mapstructure:"jobs" yaml:"jobs"`

	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`
}

// Defaults returns the built-in configuration used when no file or env sets a key.
func Defaults() *Global {
	return &Global{
		Strategy:         string(cleaner.StrategyMean),
		OutlierThreshold: cleaner.DefaultOutlierThreshold,
		ReportFormat:     "markdown",
		PreviewRows:      10,
		NAValues:         []string{},
		Jobs:             4,
		LogLevel:         "info",
		LogFormat:        "text",
	}
}

// CleanerConfig converts the strategy/threshold pair for cleaner.New.
func (g *Global) CleanerConfig() (cleaner.Config, error) {
	s, err := cleaner.ParseStrategy(g.Strategy)
	if err != nil {
		return cleaner.Config{}, err
	}
	cfg := cleaner.Config{Strategy: s, OutlierThreshold: g.OutlierThreshold}
	return cfg, cfg.Validate()
}

// DefaultPath is ~/.tidyset/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".tidyset", "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.tidyset/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
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
// Precedence: env > config file > defaults. CLI flags are applied by the caller.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("TIDYSET")
	v.AutomaticEnv()

	d := Defaults()
	v.SetDefault("strategy", d.Strategy)
	v.SetDefault("outlier_threshold", d.OutlierThreshold)
	v.SetDefault("output_dir", d.OutputDir)
	v.SetDefault("report_format", d.ReportFormat)
	v.SetDefault("preview_rows", d.PreviewRows)
	v.SetDefault("na_values", d.NAValues)
	v.SetDefault("jobs", d.Jobs)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(filepath.Dir(p))
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
