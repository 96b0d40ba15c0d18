// Package cleaner runs a fixed sequence of data-quality passes over a table
// and records what each pass changed.
//
// The pipeline is, in order: column name standardization, missing value
// imputation, duplicate row removal, text to numeric coercion, z-score
// outlier counting, and finalization. Each stage sees the output of the
// previous one, so the outlier counts describe the imputed, de-duplicated
// data. Messy data never produces an error; only a malformed table does.
package cleaner

import (
	"fmt"
	"log/slog"

	"github.com/KaramelBytes/tidyset/internal/table"
)

// stage is one pass of the pipeline.
type stage struct {
	name string
	run  func(c *Cleaner, t *table.Table, b ReportBuilder) (*table.Table, ReportBuilder)
}

var pipeline = []stage{
	{StageColumnStandardization, func(_ *Cleaner, t *table.Table, b ReportBuilder) (*table.Table, ReportBuilder) {
		return StandardizeColumns(t, b)
	}},
	{StageMissingValues, func(c *Cleaner, t *table.Table, b ReportBuilder) (*table.Table, ReportBuilder) {
		return ImputeMissing(t, b, c.cfg.Strategy)
	}},
	{StageDuplicatesRemoved, func(_ *Cleaner, t *table.Table, b ReportBuilder) (*table.Table, ReportBuilder) {
		return RemoveDuplicates(t, b)
	}},
	{StageTypeConversions, func(_ *Cleaner, t *table.Table, b ReportBuilder) (*table.Table, ReportBuilder) {
		return CoerceTypes(t, b)
	}},
	{StageOutliersDetected, func(c *Cleaner, t *table.Table, b ReportBuilder) (*table.Table, ReportBuilder) {
		return DetectOutliers(t, b, c.cfg.OutlierThreshold)
	}},
	{StageSummary, func(_ *Cleaner, t *table.Table, b ReportBuilder) (*table.Table, ReportBuilder) {
		return Finalize(t, b)
	}},
}

// Cleaner holds an immutable configuration and is safe for concurrent use.
type Cleaner struct {
	cfg    Config
	logger *slog.Logger
}

// Option customizes a Cleaner.
type Option func(*Cleaner)

// WithLogger routes stage debug logs to l.
func WithLogger(l *slog.Logger) Option {
	return func(c *Cleaner) {
		if l != nil {
			c.logger = l
		}
	}
}

// New validates cfg and returns a Cleaner.
func New(cfg Config, opts ...Option) (*Cleaner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Cleaner{cfg: cfg}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Config returns the configuration the Cleaner was built with.
func (c *Cleaner) Config() Config { return c.cfg }

func (c *Cleaner) log() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return slog.Default()
}

// Clean runs the pipeline over a copy of in. The input table is never
// modified.
func (c *Cleaner) Clean(in *table.Table) (*table.Table, Report, error) {
	if in == nil {
		return nil, Report{}, fmt.Errorf("clean: nil table: %w", table.ErrInvalidTable)
	}
	if err := in.Validate(); err != nil {
		return nil, Report{}, fmt.Errorf("clean: %w", err)
	}
	rows, cols := in.Shape()
	log := c.log().With("strategy", string(c.cfg.Strategy), "outlier_threshold", c.cfg.OutlierThreshold)
	log.Debug("clean started", "rows", rows, "cols", cols)

	t := in.Clone()
	// column tags may have been set by hand after construction
	t.Retype()
	b := NewReportBuilder()
	for _, s := range pipeline {
		t, b = s.run(c, t, b)
		r, k := t.Shape()
		log.Debug("stage done", "stage", s.name, "rows", r, "cols", k)
	}
	rep := b.Report()
	log.Debug("clean finished",
		"duplicates_removed", rep.DuplicatesRemoved,
		"type_conversions", len(rep.TypeConversions),
		"outliers", rep.OutliersDetected.Total())
	return t, rep, nil
}
