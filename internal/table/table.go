// Package table holds the in-memory tabular model the cleaner operates on.
package table

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/spf13/cast"
)

// ErrInvalidTable reports a table that is not well formed (ragged columns,
// duplicate names, unsupported cell types).
var ErrInvalidTable = errors.New("invalid table")

// Kind tags the content of a single cell.
type Kind uint8

const (
	KindMissing Kind = iota
	KindNumber
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	default:
		return "missing"
	}
}

// Value is one cell: a number, a text, or the missing marker.
// The zero Value is Missing.
type Value struct {
	kind Kind
	num  float64
	text string
}

// Missing returns the missing marker.
func Missing() Value { return Value{} }

// Number wraps a float. NaN becomes Missing.
func Number(f float64) Value {
	if math.IsNaN(f) {
		return Value{}
	}
	return Value{kind: KindNumber, num: f}
}

// Text wraps a string. The empty string is a valid text value, not Missing.
func Text(s string) Value { return Value{kind: KindText, text: s} }

func (v Value) Kind() Kind        { return v.kind }
func (v Value) IsMissing() bool   { return v.kind == KindMissing }
func (v Value) IsNumber() bool    { return v.kind == KindNumber }
func (v Value) IsText() bool      { return v.kind == KindText }
func (v Value) Float() float64    { return v.num }
func (v Value) TextValue() string { return v.text }

// String renders the cell the way it is written back to CSV.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindText:
		return v.text
	default:
		return ""
	}
}

// Key is a comparable identity used for grouping and duplicate detection.
// Numbers and texts never collide because the kind is part of the key.
func (v Value) Key() Value {
	if v.kind == KindNumber && v.num == 0 {
		// fold -0 into 0
		return Value{kind: KindNumber}
	}
	return v
}

// ColumnType is the stored classification of a column.
type ColumnType uint8

const (
	Numeric ColumnType = iota
	TextType
)

func (t ColumnType) String() string {
	if t == Numeric {
		return "numeric"
	}
	return "text"
}

// InferType classifies cells: Numeric when every non-missing cell is a
// number (so an all-missing column is Numeric), Text otherwise.
func InferType(vals []Value) ColumnType {
	for _, v := range vals {
		if v.kind == KindText {
			return TextType
		}
	}
	return Numeric
}

// Column is a named, typed sequence of cells.
type Column struct {
	Name   string
	Type   ColumnType
	Values []Value
}

// NewColumn builds a column and infers its type.
func NewColumn(name string, vals []Value) Column {
	return Column{Name: name, Type: InferType(vals), Values: vals}
}

// MissingCount returns how many cells are missing.
func (c Column) MissingCount() int {
	n := 0
	for _, v := range c.Values {
		if v.IsMissing() {
			n++
		}
	}
	return n
}

// Table is an ordered set of equally long columns with unique names.
type Table struct {
	cols []Column
	rows int
}

// New validates and assembles columns into a table. Each column's Type is
// re-derived from its cells, whatever the caller set. The columns are used
// as given; call Clone first if the caller keeps mutating them.
func New(cols []Column) (*Table, error) {
	t := &Table{cols: cols}
	if len(cols) > 0 {
		t.rows = len(cols[0].Values)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	t.Retype()
	return t, nil
}

// Retype sets every column's Type from its cells with InferType.
func (t *Table) Retype() {
	for i := range t.cols {
		t.cols[i].Type = InferType(t.cols[i].Values)
	}
}

// FromRecords builds a table from row-oriented Go values. nil and NaN are
// missing, strings are text, bools are text ("true"/"false"), and anything
// spf13/cast can turn into a float64 is a number.
func FromRecords(header []string, rows [][]any) (*Table, error) {
	vals := make([][]Value, len(header))
	for j := range vals {
		vals[j] = make([]Value, len(rows))
	}
	for i, row := range rows {
		if len(row) != len(header) {
			return nil, fmt.Errorf("row %d has %d cells, header has %d: %w", i+1, len(row), len(header), ErrInvalidTable)
		}
		for j, cell := range row {
			v, err := toValue(cell)
			if err != nil {
				return nil, fmt.Errorf("row %d column %q: %v: %w", i+1, header[j], err, ErrInvalidTable)
			}
			vals[j][i] = v
		}
	}
	cols := make([]Column, len(header))
	for j, name := range header {
		cols[j] = NewColumn(name, vals[j])
	}
	return New(cols)
}

func toValue(cell any) (Value, error) {
	switch c := cell.(type) {
	case nil:
		return Missing(), nil
	case Value:
		return c, nil
	case string:
		return Text(c), nil
	case bool:
		return Text(strconv.FormatBool(c)), nil
	}
	f, err := cast.ToFloat64E(cell)
	if err != nil {
		return Value{}, err
	}
	return Number(f), nil
}

// Validate checks the well-formed table precondition.
func (t *Table) Validate() error {
	if t == nil {
		return fmt.Errorf("nil table: %w", ErrInvalidTable)
	}
	seen := make(map[string]struct{}, len(t.cols))
	for _, c := range t.cols {
		if len(c.Values) != t.rows {
			return fmt.Errorf("column %q has %d rows, want %d: %w", c.Name, len(c.Values), t.rows, ErrInvalidTable)
		}
		if _, dup := seen[c.Name]; dup {
			return fmt.Errorf("duplicate column name %q: %w", c.Name, ErrInvalidTable)
		}
		seen[c.Name] = struct{}{}
	}
	return nil
}

// Rows returns the row count.
func (t *Table) Rows() int { return t.rows }

// NumCols returns the column count.
func (t *Table) NumCols() int { return len(t.cols) }

// Shape returns (rows, columns).
func (t *Table) Shape() (int, int) { return t.rows, len(t.cols) }

// Columns exposes the columns. Callers must not mutate them; use Clone.
func (t *Table) Columns() []Column { return t.cols }

// Column returns the i-th column.
func (t *Table) Column(i int) Column { return t.cols[i] }

// Names returns column names in order.
func (t *Table) Names() []string {
	out := make([]string, len(t.cols))
	for i, c := range t.cols {
		out[i] = c.Name
	}
	return out
}

// Lookup finds a column by exact name.
func (t *Table) Lookup(name string) (Column, bool) {
	for _, c := range t.cols {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Row returns a copy of the i-th row.
func (t *Table) Row(i int) []Value {
	out := make([]Value, len(t.cols))
	for j, c := range t.cols {
		out[j] = c.Values[i]
	}
	return out
}

// Clone returns a deep copy that shares no cell slices with t.
func (t *Table) Clone() *Table {
	cols := make([]Column, len(t.cols))
	for i, c := range t.cols {
		vals := make([]Value, len(c.Values))
		copy(vals, c.Values)
		cols[i] = Column{Name: c.Name, Type: c.Type, Values: vals}
	}
	return &Table{cols: cols, rows: t.rows}
}

// SetColumn replaces the i-th column in place. The new column must keep the
// row count.
func (t *Table) SetColumn(i int, c Column) {
	t.cols[i] = c
}

// Rename changes the i-th column name in place.
func (t *Table) Rename(i int, name string) {
	t.cols[i].Name = name
}

// KeepRows returns a new table holding only the rows at the given indices,
// in the given order.
func (t *Table) KeepRows(idx []int) *Table {
	cols := make([]Column, len(t.cols))
	for j, c := range t.cols {
		vals := make([]Value, len(idx))
		for k, i := range idx {
			vals[k] = c.Values[i]
		}
		cols[j] = Column{Name: c.Name, Type: c.Type, Values: vals}
	}
	return &Table{cols: cols, rows: len(idx)}
}
