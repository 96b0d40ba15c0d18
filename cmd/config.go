package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/tidyset/internal/audit"
	"github.com/KaramelBytes/tidyset/internal/cleaner"
	cfgpkg "github.com/KaramelBytes/tidyset/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set tidyset configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "No config loaded")
			return nil
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "strategy: %s\n", cfg.Strategy)
		fmt.Fprintf(out, "outlier_threshold: %g\n", cfg.OutlierThreshold)
		if cfg.OutputDir != "" {
			fmt.Fprintf(out, "output_dir: %s\n", cfg.OutputDir)
		}
		fmt.Fprintf(out, "report_format: %s\n", cfg.ReportFormat)
		fmt.Fprintf(out, "preview_rows: %d\n", cfg.PreviewRows)
		if len(cfg.NAValues) > 0 {
			fmt.Fprintf(out, "na_values: %s\n", strings.Join(cfg.NAValues, ","))
		}
		fmt.Fprintf(out, "jobs: %d\n", cfg.Jobs)
		fmt.Fprintf(out, "log_level: %s\n", cfg.LogLevel)
		fmt.Fprintf(out, "log_format: %s\n", cfg.LogFormat)
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
		if err := applySetting(cfg, key, val); err != nil {
			return err
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func applySetting(c *cfgpkg.Global, key, val string) error {
	switch key {
	case "strategy":
		s, err := cleaner.ParseStrategy(val)
		if err != nil {
			return err
		}
		c.Strategy = string(s)
	case "outlier_threshold":
		f, err := cast.ToFloat64E(val)
		if err != nil || f <= 0 {
			return fmt.Errorf("invalid float for outlier_threshold: %v (must be > 0)", val)
		}
		c.OutlierThreshold = f
	case "output_dir":
		c.OutputDir = val
	case "report_format":
		f, err := audit.ParseFormat(val)
		if err != nil {
			return err
		}
		c.ReportFormat = string(f)
	case "preview_rows":
		i, err := cast.ToIntE(val)
		if err != nil || i < 0 {
			return fmt.Errorf("invalid int for preview_rows: %v", val)
		}
		c.PreviewRows = i
	case "na_values":
		c.NAValues = nil
		for _, tok := range strings.Split(val, ",") {
			if tok = strings.TrimSpace(tok); tok != "" {
				c.NAValues = append(c.NAValues, tok)
			}
		}
	case "jobs":
		i, err := cast.ToIntE(val)
		if err != nil || i < 1 {
			return fmt.Errorf("invalid int for jobs: %v (must be >= 1)", val)
		}
		c.Jobs = i
	case "log_level":
		switch v := strings.ToLower(val); v {
		case "debug", "info", "warn", "error":
			c.LogLevel = v
		default:
			return fmt.Errorf("invalid log_level: %s (use debug|info|warn|error)", val)
		}
	case "log_format":
		switch v := strings.ToLower(val); v {
		case "text", "json":
			c.LogFormat = v
		default:
			return fmt.Errorf("invalid log_format: %s (use text|json)", val)
		}
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
