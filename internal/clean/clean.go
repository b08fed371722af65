// Package clean drops sparse columns and rows that lack a required field.
//
// All operations are pure: they return a new dataset and leave their input
// untouched. The only side effect is the human-readable report written to the
// caller-supplied writer.
package clean

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/KaramelBytes/tabsift/internal/dataset"
)

var (
	// ErrFieldNotFound is returned when the required field is not a column of the dataset.
	ErrFieldNotFound = errors.New("field not found")
	// ErrInvalidThreshold is returned for thresholds outside [0,1].
	ErrInvalidThreshold = errors.New("threshold must be within [0,1]")
)

// MissingFraction returns the share of missing cells in c. An empty column
// counts as 0% missing.
func MissingFraction(c *dataset.Column) float64 {
	if c.Len() == 0 {
		return 0
	}
	return float64(c.MissingCount()) / float64(c.Len())
}

// DropSparseColumns removes every column whose missing fraction is strictly
// greater than threshold, keeping column order and all rows. The threshold
// and the dropped names are reported to w (nil discards the report).
func DropSparseColumns(ds *dataset.Dataset, threshold float64, w io.Writer) (*dataset.Dataset, []string, error) {
	if math.IsNaN(threshold) || threshold < 0 || threshold > 1 {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidThreshold, threshold)
	}
	var dropped []string
	for _, c := range ds.Columns() {
		if MissingFraction(c) > threshold {
			dropped = append(dropped, c.Name)
		}
	}
	if w != nil {
		fmt.Fprintf(w, "Dropping columns with more than %.1f%% missing values:\n", threshold*100)
		if len(dropped) == 0 {
			fmt.Fprintln(w, "- (none)")
		}
		for _, name := range dropped {
			fmt.Fprintf(w, "- %s\n", name)
		}
	}
	return ds.DropColumns(dropped...), dropped, nil
}

// DropRowsMissingField removes the rows whose cell in field is missing and
// returns the number of rows removed. Present zeros are kept.
func DropRowsMissingField(ds *dataset.Dataset, field string) (*dataset.Dataset, int, error) {
	col, ok := ds.Column(field)
	if !ok {
		return nil, 0, fmt.Errorf("%w: %q", ErrFieldNotFound, field)
	}
	out := ds.FilterRows(func(i int) bool { return !col.IsMissing(i) })
	return out, ds.Rows() - out.Rows(), nil
}

// Options configure Clean.
type Options struct {
	// Threshold is the maximum tolerated missing fraction per column.
	Threshold float64
	// RequiredField, when set, must be present for a row to be kept.
	RequiredField string
	// Report receives the human-readable cleaning log; nil discards it.
	Report io.Writer
}

// Result describes one cleaning pass.
type Result struct {
	Dataset        *dataset.Dataset
	Threshold      float64
	RequiredField  string
	DroppedColumns []string
	RowsRemoved    int
	RowsBefore     int
	ColumnsBefore  int
}

// Clean drops sparse columns, then, when opt.RequiredField is set, the rows
// missing that field. The field is looked up after the column drop.
func Clean(ds *dataset.Dataset, opt Options) (*Result, error) {
	out, dropped, err := DropSparseColumns(ds, opt.Threshold, opt.Report)
	if err != nil {
		return nil, err
	}
	res := &Result{
		Threshold:      opt.Threshold,
		RequiredField:  opt.RequiredField,
		DroppedColumns: dropped,
		RowsBefore:     ds.Rows(),
		ColumnsBefore:  ds.Width(),
	}
	if opt.RequiredField != "" {
		out, res.RowsRemoved, err = DropRowsMissingField(out, opt.RequiredField)
		if err != nil {
			return nil, err
		}
		if opt.Report != nil {
			fmt.Fprintf(opt.Report, "Dropping rows missing %q: %d\n", opt.RequiredField, res.RowsRemoved)
		}
	}
	res.Dataset = out
	return res, nil
}
