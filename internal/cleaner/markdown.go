package cleaner

import (
	"fmt"
	"strings"
)

// Markdown renders the report as compact bracketed sections.
func (r Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[CLEANING SUMMARY]\n")
	b.WriteString(fmt.Sprintf("Final shape: %d rows x %d columns\n", r.FinalShape.Rows(), r.FinalShape.Cols()))
	if r.Summary != "" {
		b.WriteString(r.Summary)
		b.WriteString("\n")
	}

	b.WriteString("\n[COLUMN STANDARDIZATION]\n")
	b.WriteString(r.ColumnStandardization)
	b.WriteString("\n")

	b.WriteString("\n[MISSING VALUES]\n")
	if r.MissingValues.Total() == 0 {
		b.WriteString("(none)\n")
	} else {
		for _, c := range r.MissingValues {
			if c.Count == 0 {
				continue
			}
			b.WriteString(fmt.Sprintf("- %s: %d\n", safeName(c.Column), c.Count))
		}
	}

	b.WriteString("\n[DUPLICATES]\n")
	b.WriteString(fmt.Sprintf("Removed %d duplicate row(s)\n", r.DuplicatesRemoved))

	b.WriteString("\n[TYPE CONVERSIONS]\n")
	if len(r.TypeConversions) == 0 {
		b.WriteString("(none)\n")
	} else {
		for _, c := range r.TypeConversions {
			b.WriteString(fmt.Sprintf("- %s: text -> numeric\n", safeName(c)))
		}
	}

	b.WriteString("\n[OUTLIERS]\n")
	if len(r.OutliersDetected) == 0 {
		b.WriteString("(no numeric columns)\n")
	} else {
		for _, c := range r.OutliersDetected {
			b.WriteString(fmt.Sprintf("- %s: %d\n", safeName(c.Column), c.Count))
		}
	}
	return b.String()
}

func safeName(s string) string {
	if s == "" {
		return "(unnamed)"
	}
	return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/")
}
