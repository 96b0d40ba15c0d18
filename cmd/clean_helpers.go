package cmd

import (
	"bytes"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/tidyset/internal/audit"
	"github.com/KaramelBytes/tidyset/internal/cleaner"
	cfgpkg "github.com/KaramelBytes/tidyset/internal/config"
	"github.com/KaramelBytes/tidyset/internal/dataset"
	"github.com/KaramelBytes/tidyset/internal/table"
	"github.com/KaramelBytes/tidyset/internal/utils"
)

const cleanedSuffix = ".cleaned.csv"

// cleanFlags are shared by clean and clean-batch.
type cleanFlags struct {
	strategy   string
	threshold  float64
	delimiter  string
	sheetName  string
	sheetIndex int
	quiet      bool
}

func (f *cleanFlags) bind(c *cobra.Command) {
	c.Flags().StringVar(&f.strategy, "strategy", "", "imputation strategy for numeric columns: mean|median|mode (overrides config)")
	c.Flags().Float64Var(&f.threshold, "outlier-threshold", 0, "z-score cutoff for outlier counts (overrides config)")
	c.Flags().StringVar(&f.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | '|' | 'tab' (default: by extension)")
	c.Flags().StringVar(&f.sheetName, "sheet-name", "", "XLSX: sheet name to clean")
	c.Flags().IntVar(&f.sheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
	c.Flags().BoolVar(&f.quiet, "quiet", false, "suppress progress and non-essential output")
}

func effectiveConfig() *cfgpkg.Global {
	if cfg == nil {
		return cfgpkg.Defaults()
	}
	return cfg
}

// cleanerConfig merges config-file values with any flags the user set.
func (f *cleanFlags) cleanerConfig(c *cobra.Command) (cleaner.Config, error) {
	g := *effectiveConfig()
	if c.Flags().Changed("strategy") {
		g.Strategy = f.strategy
	}
	if c.Flags().Changed("outlier-threshold") {
		g.OutlierThreshold = f.threshold
	}
	return g.CleanerConfig()
}

func (f *cleanFlags) readOptions() (dataset.ReadOptions, error) {
	opt := dataset.DefaultReadOptions()
	if na := effectiveConfig().NAValues; len(na) > 0 {
		opt.NAValues = na
	}
	d, err := parseDelimiter(f.delimiter)
	if err != nil {
		return opt, err
	}
	opt.Delimiter = d
	opt.SheetName = f.sheetName
	if f.sheetIndex > 0 {
		opt.SheetIndex = f.sheetIndex
	}
	return opt, nil
}

func parseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case ",":
		return ',', nil
	case ";":
		return ';', nil
	case "|":
		return '|', nil
	case "\t", "tab":
		return '\t', nil
	default:
		return 0, fmt.Errorf("unsupported --delimiter: %s", s)
	}
}

// cleanResult is one file's trip through the cleaner.
type cleanResult struct {
	in      *table.Table
	out     *table.Table
	report  cleaner.Report
	config  cleaner.Config
	input   string
	written string
}

func (r *cleanResult) inputShape() cleaner.Shape {
	rows, cols := r.in.Shape()
	return cleaner.Shape{rows, cols}
}

// record builds the audit trail for a finished run.
func (r *cleanResult) record() *audit.Record {
	return audit.New(r.input, r.written, r.config, r.inputShape(), r.report)
}

// cleanFile reads path, cleans it and writes the cleaned CSV to output.
func cleanFile(cfg cleaner.Config, opt dataset.ReadOptions, path, output string) (*cleanResult, error) {
	log := slog.Default().With("file", filepath.Base(path))
	c, err := cleaner.New(cfg, cleaner.WithLogger(log))
	if err != nil {
		return nil, err
	}
	in, err := dataset.ReadFile(path, opt)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	out, rep, err := c.Clean(in)
	if err != nil {
		return nil, fmt.Errorf("clean %s: %w", path, err)
	}
	if err := writeCleaned(output, out); err != nil {
		return nil, err
	}
	log.Info("cleaned", "output", output, "rows", out.Rows(), "duplicates_removed", rep.DuplicatesRemoved)
	return &cleanResult{in: in, out: out, report: rep, config: c.Config(), input: path, written: output}, nil
}

func writeCleaned(path string, t *table.Table) error {
	var buf bytes.Buffer
	if err := dataset.WriteCSV(&buf, t); err != nil {
		return err
	}
	if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("ensure output dir: %w", err)
	}
	if err := utils.SafeWriteFile(path, buf.Bytes()); err != nil {
		return fmt.Errorf("write cleaned data: %w", err)
	}
	return nil
}

// renderReport formats a report for stdout.
func renderReport(rep cleaner.Report, format string) (string, error) {
	f, err := audit.ParseFormat(format)
	if err != nil {
		return "", err
	}
	switch f {
	case audit.FormatJSON:
		b, err := utils.PrettyJSON(rep)
		if err != nil {
			return "", err
		}
		return string(b) + "\n", nil
	case audit.FormatYAML:
		b, err := yaml.Marshal(rep)
		if err != nil {
			return "", fmt.Errorf("marshal yaml: %w", err)
		}
		return string(b), nil
	default:
		return rep.Markdown(), nil
	}
}

// reportPathFor puts the JSON report next to the cleaned file, sharing its
// collision suffix.
func reportPathFor(cleaned string) string {
	return strings.TrimSuffix(cleaned, cleanedSuffix) + ".report.json"
}
