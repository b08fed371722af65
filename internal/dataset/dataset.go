// Package dataset holds the in-memory table model shared by the loader, the
// cleaner and the reporters. A Dataset is an ordered set of named columns whose
// cells are aligned by row index; each cell is either present or missing.
//
// Datasets and columns are immutable once built. Transformations return new
// values and may share untouched columns with their input.
package dataset

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrDuplicateColumn is returned when two columns share a name.
var ErrDuplicateColumn = errors.New("duplicate column name")

// DefaultNAValues are the cell texts treated as missing when no explicit set is given.
var DefaultNAValues = []string{"", "NA", "N/A", "NaN", "nan", "null", "NULL", "None", "#N/A"}

// NASet is a lookup of cell texts that mean "missing".
type NASet map[string]struct{}

// NewNASet builds an NASet from tokens. Tokens are matched after trimming.
func NewNASet(tokens ...string) NASet {
	s := make(NASet, len(tokens))
	for _, t := range tokens {
		s[strings.TrimSpace(t)] = struct{}{}
	}
	return s
}

var defaultNA = NewNASet(DefaultNAValues...)

// IsNA reports whether raw denotes a missing cell. A nil set uses DefaultNAValues.
// Blank text is always missing.
func (s NASet) IsNA(raw string) bool {
	v := strings.TrimSpace(raw)
	if v == "" {
		return true
	}
	if s == nil {
		s = defaultNA
	}
	_, ok := s[v]
	return ok
}

// NumberFormat describes how numeric cells are written.
type NumberFormat struct {
	// Decimal separator; 0 means '.'.
	Decimal rune
	// Thousands separator stripped before parsing; 0 disables stripping.
	Thousands rune
}

// ParseNumber parses a finite number written in format f.
func (f NumberFormat) ParseNumber(s string) (float64, bool) {
	raw := strings.TrimSpace(strings.ReplaceAll(s, "\u00A0", " "))
	dec := f.Decimal
	if dec == 0 {
		dec = '.'
	}
	if f.Thousands != 0 && f.Thousands != dec {
		raw = strings.ReplaceAll(raw, string(f.Thousands), "")
	}
	if dec != '.' {
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	x, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, false
	}
	return x, true
}

// Column is a named sequence of cells.
type Column struct {
	Name   string
	values []string
	valid  []bool
}

// NewColumn copies values into a column. valid marks present cells; a nil
// valid slice means every cell is present. It panics when the lengths differ.
func NewColumn(name string, values []string, valid []bool) *Column {
	if valid != nil && len(valid) != len(values) {
		panic(fmt.Sprintf("dataset: column %q has %d values and %d validity flags", name, len(values), len(valid)))
	}
	c := &Column{Name: name, values: make([]string, len(values)), valid: make([]bool, len(values))}
	copy(c.values, values)
	for i := range c.valid {
		c.valid[i] = valid == nil || valid[i]
	}
	return c
}

// ParseColumn builds a column from raw cell texts, marking cells found in na as
// missing. A nil na uses DefaultNAValues.
func ParseColumn(name string, raw []string, na NASet) *Column {
	c := &Column{Name: name, values: make([]string, len(raw)), valid: make([]bool, len(raw))}
	for i, v := range raw {
		if na.IsNA(v) {
			continue
		}
		c.values[i] = strings.TrimSpace(v)
		c.valid[i] = true
	}
	return c
}

// Len returns the number of cells.
func (c *Column) Len() int { return len(c.values) }

// Value returns the text of cell i and whether it is present.
func (c *Column) Value(i int) (string, bool) {
	if !c.valid[i] {
		return "", false
	}
	return c.values[i], true
}

// IsMissing reports whether cell i is missing.
func (c *Column) IsMissing(i int) bool { return !c.valid[i] }

// MissingCount returns the number of missing cells.
func (c *Column) MissingCount() int {
	n := 0
	for _, ok := range c.valid {
		if !ok {
			n++
		}
	}
	return n
}

// Floats returns the present cells parsed as numbers. ok is false when the
// column has no present cell or any present cell is not numeric.
func (c *Column) Floats(f NumberFormat) (vals []float64, ok bool) {
	vals = make([]float64, 0, len(c.values))
	for i, v := range c.values {
		if !c.valid[i] {
			continue
		}
		x, isNum := f.ParseNumber(v)
		if !isNum {
			return nil, false
		}
		vals = append(vals, x)
	}
	return vals, len(vals) > 0
}

func (c *Column) subset(idx []int) *Column {
	out := &Column{Name: c.Name, values: make([]string, len(idx)), valid: make([]bool, len(idx))}
	for k, i := range idx {
		out.values[k] = c.values[i]
		out.valid[k] = c.valid[i]
	}
	return out
}

// Dataset is an immutable table of row-aligned columns.
type Dataset struct {
	name   string
	rows   int
	cols   []*Column
	format NumberFormat
	notes  []string
}

// New builds a dataset from columns of equal length.
func New(name string, cols ...*Column) (*Dataset, error) {
	ds := &Dataset{name: name, cols: make([]*Column, 0, len(cols))}
	seen := make(map[string]struct{}, len(cols))
	for i, c := range cols {
		if i == 0 {
			ds.rows = c.Len()
		} else if c.Len() != ds.rows {
			return nil, fmt.Errorf("column %q has %d rows, want %d", c.Name, c.Len(), ds.rows)
		}
		if _, dup := seen[c.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, c.Name)
		}
		seen[c.Name] = struct{}{}
		ds.cols = append(ds.cols, c)
	}
	return ds, nil
}

func (d *Dataset) derive(rows int, cols []*Column) *Dataset {
	return &Dataset{name: d.name, rows: rows, cols: cols, format: d.format, notes: d.notes}
}

// Name returns the dataset's source name.
func (d *Dataset) Name() string { return d.name }

// Rows returns the row count. It is kept even when no column remains.
func (d *Dataset) Rows() int { return d.rows }

// Width returns the column count.
func (d *Dataset) Width() int { return len(d.cols) }

// Shape returns (rows, columns).
func (d *Dataset) Shape() (int, int) { return d.rows, len(d.cols) }

// Format returns the number format used to interpret numeric cells.
func (d *Dataset) Format() NumberFormat { return d.format }

// Notes returns loader remarks (truncation, ragged rows).
func (d *Dataset) Notes() []string {
	out := make([]string, len(d.notes))
	copy(out, d.notes)
	return out
}

// WithFormat returns a copy using number format f.
func (d *Dataset) WithFormat(f NumberFormat) *Dataset {
	out := d.derive(d.rows, d.cols)
	out.format = f
	return out
}

// WithNote returns a copy carrying an extra note.
func (d *Dataset) WithNote(note string) *Dataset {
	out := d.derive(d.rows, d.cols)
	out.notes = append(append([]string{}, d.notes...), note)
	return out
}

// Columns returns the columns in order.
func (d *Dataset) Columns() []*Column {
	out := make([]*Column, len(d.cols))
	copy(out, d.cols)
	return out
}

// Names returns the column names in order.
func (d *Dataset) Names() []string {
	out := make([]string, len(d.cols))
	for i, c := range d.cols {
		out[i] = c.Name
	}
	return out
}

// Column looks up a column by exact name.
func (d *Dataset) Column(name string) (*Column, bool) {
	for _, c := range d.cols {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// NumericColumns returns the names of columns whose present cells are all numeric.
func (d *Dataset) NumericColumns() []string {
	var out []string
	for _, c := range d.cols {
		if _, ok := c.Floats(d.format); ok {
			out = append(out, c.Name)
		}
	}
	return out
}

// DropColumns returns a dataset without the named columns. Unknown names are ignored.
func (d *Dataset) DropColumns(names ...string) *Dataset {
	drop := make(map[string]struct{}, len(names))
	for _, n := range names {
		drop[n] = struct{}{}
	}
	kept := make([]*Column, 0, len(d.cols))
	for _, c := range d.cols {
		if _, ok := drop[c.Name]; !ok {
			kept = append(kept, c)
		}
	}
	return d.derive(d.rows, kept)
}

// FilterRows returns a dataset with the rows for which keep returns true, in order.
func (d *Dataset) FilterRows(keep func(row int) bool) *Dataset {
	idx := make([]int, 0, d.rows)
	for i := 0; i < d.rows; i++ {
		if keep(i) {
			idx = append(idx, i)
		}
	}
	return d.subset(idx)
}

// Head returns the first n rows.
func (d *Dataset) Head(n int) *Dataset {
	if n < 0 {
		n = 0
	}
	if n > d.rows {
		n = d.rows
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return d.subset(idx)
}

func (d *Dataset) subset(idx []int) *Dataset {
	cols := make([]*Column, len(d.cols))
	for i, c := range d.cols {
		cols[i] = c.subset(idx)
	}
	return d.derive(len(idx), cols)
}

// Record returns row i as raw texts; missing cells are empty strings.
func (d *Dataset) Record(i int) []string {
	rec := make([]string, len(d.cols))
	for j, c := range d.cols {
		rec[j], _ = c.Value(i)
	}
	return rec
}
