package cleaner

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Stage names, in pipeline order. They double as report keys.
const (
	StageColumnStandardization = "column_standardization"
	StageMissingValues         = "missing_values"
	StageDuplicatesRemoved     = "duplicates_removed"
	StageTypeConversions       = "type_conversions"
	StageOutliersDetected      = "outliers_detected"
	StageFinalShape            = "final_shape"
	StageSummary               = "summary"
)

// StageOrder lists every report key in the order the pipeline fills them.
var StageOrder = []string{
	StageColumnStandardization,
	StageMissingValues,
	StageDuplicatesRemoved,
	StageTypeConversions,
	StageOutliersDetected,
	StageFinalShape,
	StageSummary,
}

const (
	standardizationNote = "Column names standardized to lowercase with underscores."
	summaryNote         = "Data cleaned successfully."
)

// ColumnCount pairs a column name with a count.
type ColumnCount struct {
	Column string `json:"column" yaml:"column"`
	Count  int    `json:"count" yaml:"count"`
}

// ColumnCounts is an ordered column -> count mapping. It encodes as a JSON
// object / YAML mapping whose keys keep table column order.
type ColumnCounts []ColumnCount

// Get returns the count for a column.
func (cc ColumnCounts) Get(column string) (int, bool) {
	for _, c := range cc {
		if c.Column == column {
			return c.Count, true
		}
	}
	return 0, false
}

// Total sums all counts.
func (cc ColumnCounts) Total() int {
	n := 0
	for _, c := range cc {
		n += c.Count
	}
	return n
}

func (cc ColumnCounts) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range cc {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(c.Column)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		fmt.Fprintf(&buf, "%d", c.Count)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (cc *ColumnCounts) UnmarshalJSON(b []byte) error {
	if string(bytes.TrimSpace(b)) == "null" {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("column counts: expected object, got %v", tok)
	}
	out := ColumnCounts{}
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return err
		}
		var n int
		if err := dec.Decode(&n); err != nil {
			return fmt.Errorf("column counts %v: %w", kt, err)
		}
		out = append(out, ColumnCount{Column: kt.(string), Count: n})
	}
	*cc = out
	return nil
}

func (cc ColumnCounts) MarshalYAML() (any, error) {
	n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, c := range cc {
		n.Content = append(n.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: c.Column},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: fmt.Sprintf("%d", c.Count)},
		)
	}
	return n, nil
}

func (cc *ColumnCounts) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("column counts: expected mapping at line %d", n.Line)
	}
	out := make(ColumnCounts, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		var cnt int
		if err := n.Content[i+1].Decode(&cnt); err != nil {
			return err
		}
		out = append(out, ColumnCount{Column: n.Content[i].Value, Count: cnt})
	}
	*cc = out
	return nil
}

// Shape is a (rows, columns) pair; it encodes as a two element array.
type Shape [2]int

func (s Shape) Rows() int { return s[0] }
func (s Shape) Cols() int { return s[1] }

// Report is the audit trail of one Clean call. Field order is the stage
// order and is kept by every encoding.
type Report struct {
	ColumnStandardization string       `json:"column_standardization" yaml:"column_standardization"`
	MissingValues         ColumnCounts `json:"missing_values" yaml:"missing_values"`
	DuplicatesRemoved     int          `json:"duplicates_removed" yaml:"duplicates_removed"`
	TypeConversions       []string     `json:"type_conversions" yaml:"type_conversions"`
	OutliersDetected      ColumnCounts `json:"outliers_detected" yaml:"outliers_detected"`
	FinalShape            Shape        `json:"final_shape" yaml:"final_shape,flow"`
	Summary               string       `json:"summary" yaml:"summary"`
}

// ReportBuilder accumulates a Report stage by stage. It is a value: every
// method returns an updated copy and leaves the receiver untouched, so each
// stage can be run and inspected on its own.
type ReportBuilder struct {
	r    Report
	done []string
}

// NewReportBuilder starts an empty report.
func NewReportBuilder() ReportBuilder {
	return ReportBuilder{}
}

func (b ReportBuilder) mark(stage string) ReportBuilder {
	done := make([]string, len(b.done), len(b.done)+1)
	copy(done, b.done)
	b.done = append(done, stage)
	return b
}

// Stages lists the stages recorded so far, in the order they were recorded.
func (b ReportBuilder) Stages() []string {
	out := make([]string, len(b.done))
	copy(out, b.done)
	return out
}

func (b ReportBuilder) ColumnStandardization(note string) ReportBuilder {
	b.r.ColumnStandardization = note
	return b.mark(StageColumnStandardization)
}

func (b ReportBuilder) MissingValues(counts ColumnCounts) ReportBuilder {
	b.r.MissingValues = append(ColumnCounts{}, counts...)
	return b.mark(StageMissingValues)
}

func (b ReportBuilder) DuplicatesRemoved(n int) ReportBuilder {
	b.r.DuplicatesRemoved = n
	return b.mark(StageDuplicatesRemoved)
}

func (b ReportBuilder) TypeConversions(cols []string) ReportBuilder {
	b.r.TypeConversions = append([]string{}, cols...)
	return b.mark(StageTypeConversions)
}

func (b ReportBuilder) OutliersDetected(counts ColumnCounts) ReportBuilder {
	b.r.OutliersDetected = append(ColumnCounts{}, counts...)
	return b.mark(StageOutliersDetected)
}

func (b ReportBuilder) FinalShape(rows, cols int) ReportBuilder {
	b.r.FinalShape = Shape{rows, cols}
	return b.mark(StageFinalShape)
}

func (b ReportBuilder) Summary(note string) ReportBuilder {
	b.r.Summary = note
	return b.mark(StageSummary)
}

// Report returns a copy of the accumulated report.
func (b ReportBuilder) Report() Report {
	r := b.r
	r.MissingValues = append(ColumnCounts{}, b.r.MissingValues...)
	r.TypeConversions = append([]string{}, b.r.TypeConversions...)
	r.OutliersDetected = append(ColumnCounts{}, b.r.OutliersDetected...)
	return r
}
