package cleaner

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/KaramelBytes/tidyset/internal/table"
)

// Every stage takes ownership of t: it may modify t in place or return a new
// table. Clean hands the first stage a private clone.

var whitespaceRun = regexp.MustCompile(`\s+`)

// StandardizeName trims, lowercases, and turns whitespace runs into "_".
func StandardizeName(name string) string {
	s := strings.TrimSpace(name)
	s = cases.Lower(language.Und).String(s)
	return whitespaceRun.ReplaceAllString(s, "_")
}

// StandardizeColumns rewrites every column name. When two names collapse
// to the same standardized form, later ones get a "__2", "__3"... suffix.
func StandardizeColumns(t *table.Table, b ReportBuilder) (*table.Table, ReportBuilder) {
	seen := make(map[string]bool, t.NumCols())
	for i, c := range t.Columns() {
		base := StandardizeName(c.Name)
		name := base
		for n := 2; seen[name]; n++ {
			name = base + "__" + strconv.Itoa(n)
		}
		seen[name] = true
		t.Rename(i, name)
	}
	return t, b.ColumnStandardization(standardizationNote)
}

// ImputeMissing snapshots per-column missing counts, then fills gaps.
// Numeric columns use strategy; text columns always use the mode. A column
// with nothing to derive a fill value from is left alone.
func ImputeMissing(t *table.Table, b ReportBuilder, strategy Strategy) (*table.Table, ReportBuilder) {
	counts := make(ColumnCounts, 0, t.NumCols())
	for _, c := range t.Columns() {
		counts = append(counts, ColumnCount{Column: c.Name, Count: c.MissingCount()})
	}
	for i, c := range t.Columns() {
		if counts[i].Count == 0 {
			continue
		}
		fill, ok := fillValue(c, strategy)
		if !ok {
			continue
		}
		vals := make([]table.Value, len(c.Values))
		for k, v := range c.Values {
			if v.IsMissing() {
				v = fill
			}
			vals[k] = v
		}
		t.SetColumn(i, table.Column{Name: c.Name, Type: c.Type, Values: vals})
	}
	return t, b.MissingValues(counts)
}

func fillValue(c table.Column, strategy Strategy) (table.Value, bool) {
	if c.Type != table.Numeric || strategy == StrategyMode {
		return mode(c.Values)
	}
	xs := numbers(c.Values)
	var (
		f  float64
		ok bool
	)
	switch strategy {
	case StrategyMedian:
		f, ok = median(xs)
	default:
		f, ok = mean(xs)
	}
	if !ok {
		return table.Missing(), false
	}
	return table.Number(f), true
}

// RemoveDuplicates drops rows equal across all columns to an earlier row,
// keeping the first occurrence and the original order.
func RemoveDuplicates(t *table.Table, b ReportBuilder) (*table.Table, ReportBuilder) {
	seen := make(map[string]struct{}, t.Rows())
	keep := make([]int, 0, t.Rows())
	var sb strings.Builder
	for i := 0; i < t.Rows(); i++ {
		sb.Reset()
		for _, c := range t.Columns() {
			writeKey(&sb, c.Values[i])
		}
		k := sb.String()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		keep = append(keep, i)
	}
	removed := t.Rows() - len(keep)
	if removed > 0 {
		t = t.KeepRows(keep)
	}
	return t, b.DuplicatesRemoved(removed)
}

// writeKey appends an unambiguous encoding of v: kind, length, payload.
func writeKey(sb *strings.Builder, v table.Value) {
	v = v.Key()
	var payload string
	switch v.Kind() {
	case table.KindNumber:
		payload = strconv.FormatFloat(v.Float(), 'g', -1, 64)
		sb.WriteByte('n')
	case table.KindText:
		payload = v.TextValue()
		sb.WriteByte('t')
	default:
		sb.WriteByte('m')
	}
	sb.WriteString(strconv.Itoa(len(payload)))
	sb.WriteByte(':')
	sb.WriteString(payload)
}

// CoerceTypes converts text columns whose every non-missing cell parses as a
// finite number. A single failure leaves the whole column as text.
func CoerceTypes(t *table.Table, b ReportBuilder) (*table.Table, ReportBuilder) {
	converted := []string{}
	for i, c := range t.Columns() {
		if c.Type != table.TextType {
			continue
		}
		vals, ok := parseColumn(c.Values)
		if !ok {
			continue
		}
		t.SetColumn(i, table.Column{Name: c.Name, Type: table.Numeric, Values: vals})
		converted = append(converted, c.Name)
	}
	return t, b.TypeConversions(converted)
}

func parseColumn(in []table.Value) ([]table.Value, bool) {
	out := make([]table.Value, len(in))
	for i, v := range in {
		switch {
		case v.IsMissing(), v.IsNumber():
			out[i] = v
		default:
			f, ok := ParseNumber(v.TextValue())
			if !ok {
				return nil, false
			}
			out[i] = table.Number(f)
		}
	}
	return out, true
}

// ParseNumber parses an integer or real after trimming spaces. NaN and
// infinities are rejected so a coerced column never gains missing cells.
func ParseNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// DetectOutliers counts, per numeric column, cells whose population z-score
// exceeds threshold in absolute value. Constant or empty columns report 0.
func DetectOutliers(t *table.Table, b ReportBuilder, threshold float64) (*table.Table, ReportBuilder) {
	counts := ColumnCounts{}
	for _, c := range t.Columns() {
		if c.Type != table.Numeric {
			continue
		}
		counts = append(counts, ColumnCount{Column: c.Name, Count: countOutliers(numbers(c.Values), threshold)})
	}
	return t, b.OutliersDetected(counts)
}

func countOutliers(xs []float64, threshold float64) int {
	m, sd, ok := meanStd(xs)
	if !ok || sd == 0 || math.IsNaN(sd) || math.IsInf(sd, 0) {
		return 0
	}
	n := 0
	for _, x := range xs {
		if math.Abs((x-m)/sd) > threshold {
			n++
		}
	}
	return n
}

// Finalize records the final shape and the summary note.
func Finalize(t *table.Table, b ReportBuilder) (*table.Table, ReportBuilder) {
	rows, cols := t.Shape()
	return t, b.FinalShape(rows, cols).Summary(summaryNote)
}
