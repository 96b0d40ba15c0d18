// Package dataset moves tables in and out of files: CSV/TSV/XLSX decoding,
// CSV encoding, and Markdown previews. The cleaner itself never touches it.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/KaramelBytes/tidyset/internal/cleaner"
	"github.com/KaramelBytes/tidyset/internal/table"
)

// DefaultNAValues mirrors the tokens pandas.read_csv treats as missing.
var DefaultNAValues = []string{
	"", "#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None", "n/a",
	"nan", "null",
}

// ReadOptions controls decoding.
type ReadOptions struct {
	// Delimiter for CSV. If 0, picked from the file extension (tab for .tsv).
	Delimiter rune
	// NAValues are cell contents read as missing; nil means DefaultNAValues.
	NAValues []string
	// SheetName / SheetIndex select an XLSX sheet. SheetIndex is 1-based.
	SheetName  string
	SheetIndex int
}

// DefaultReadOptions returns comma-or-extension delimiter and pandas NA tokens.
func DefaultReadOptions() ReadOptions {
	return ReadOptions{SheetIndex: 1}
}

func (o ReadOptions) naSet() map[string]struct{} {
	vals := o.NAValues
	if vals == nil {
		vals = DefaultNAValues
	}
	set := make(map[string]struct{}, len(vals))
	for _, v := range vals {
		set[v] = struct{}{}
	}
	return set
}

// ReadFile decodes a .csv, .tsv or .xlsx file into a table.
func ReadFile(path string, opt ReadOptions) (*table.Table, error) {
	if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		return ReadXLSX(path, opt)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	if opt.Delimiter == 0 {
		opt.Delimiter = sniffDelimiter(path)
	}
	return ReadCSV(f, opt)
}

func sniffDelimiter(path string) rune {
	name := strings.ToLower(path)
	if strings.HasSuffix(name, ".tsv") {
		return '\t'
	}
	return ','
}

// ReadCSV decodes a header row plus data rows. Short rows are padded with
// missing cells; rows longer than the header make the table invalid.
func ReadCSV(r io.Reader, opt ReadOptions) (*table.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	if opt.Delimiter != 0 {
		cr.Comma = opt.Delimiter
	}
	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return table.New(nil)
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	header = trimBOM(header)
	var rows [][]string
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", len(rows)+1, err)
		}
		rows = append(rows, rec)
	}
	return FromStrings(header, rows, opt)
}

func trimBOM(header []string) []string {
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	return header
}

// FromStrings builds a table from raw string cells the way a CSV loader
// would: NA tokens become missing, and a column whose remaining cells are
// all finite numbers is stored as numeric. Anything else stays text.
func FromStrings(header []string, rows [][]string, opt ReadOptions) (*table.Table, error) {
	na := opt.naSet()
	ncol := len(header)
	raw := make([][]string, ncol)
	for j := range raw {
		raw[j] = make([]string, len(rows))
	}
	missing := make([][]bool, ncol)
	for j := range missing {
		missing[j] = make([]bool, len(rows))
	}
	for i, rec := range rows {
		if len(rec) > ncol {
			return nil, fmt.Errorf("row %d has %d fields, header has %d: %w", i+1, len(rec), ncol, table.ErrInvalidTable)
		}
		for j := 0; j < ncol; j++ {
			if j >= len(rec) {
				missing[j][i] = true
				continue
			}
			if _, isNA := na[strings.TrimSpace(rec[j])]; isNA {
				missing[j][i] = true
				continue
			}
			raw[j][i] = rec[j]
		}
	}
	cols := make([]table.Column, ncol)
	for j, name := range header {
		cols[j] = buildColumn(name, raw[j], missing[j])
	}
	return table.New(cols)
}

func buildColumn(name string, raw []string, missing []bool) table.Column {
	nums := make([]table.Value, len(raw))
	numeric := true
	for i, s := range raw {
		if missing[i] {
			continue
		}
		f, ok := cleaner.ParseNumber(s)
		if !ok {
			numeric = false
			break
		}
		nums[i] = table.Number(f)
	}
	if numeric {
		return table.Column{Name: name, Type: table.Numeric, Values: nums}
	}
	vals := make([]table.Value, len(raw))
	for i, s := range raw {
		if !missing[i] {
			vals[i] = table.Text(s)
		}
	}
	return table.Column{Name: name, Type: table.TextType, Values: vals}
}
