package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/KaramelBytes/tidyset/internal/table"
)

// WriteCSV encodes the header and rows. Missing cells are written empty.
func WriteCSV(w io.Writer, t *table.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Names()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	rec := make([]string, t.NumCols())
	for i := 0; i < t.Rows(); i++ {
		for j, c := range t.Columns() {
			rec[j] = c.Values[i].String()
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

const maxCellRunes = 80

// Preview renders the shape plus the first n rows as a Markdown table.
func Preview(t *table.Table, n int) string {
	var b strings.Builder
	rows, cols := t.Shape()
	b.WriteString(fmt.Sprintf("Shape: (%d, %d)\n", rows, cols))
	if cols == 0 || n <= 0 {
		return b.String()
	}
	b.WriteString("| ")
	for i, c := range t.Columns() {
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString(safeCell(c.Name))
	}
	b.WriteString(" |\n| ")
	for i := 0; i < cols; i++ {
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString("---")
	}
	b.WriteString(" |\n")
	if n > rows {
		n = rows
	}
	for i := 0; i < n; i++ {
		b.WriteString("| ")
		for j, c := range t.Columns() {
			if j > 0 {
				b.WriteString(" | ")
			}
			v := c.Values[i]
			s := v.String()
			if v.IsMissing() {
				s = "NaN"
			}
			b.WriteString(safeCell(truncateCell(s)))
		}
		b.WriteString(" |\n")
	}
	return b.String()
}

// truncateCell caps a cell at maxCellRunes runes, cutting on a rune boundary.
func truncateCell(s string) string {
	r := []rune(s)
	if len(r) <= maxCellRunes {
		return s
	}
	return string(r[:maxCellRunes-3]) + "..."
}

func safeCell(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/")
}
