package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Write stores ds at path, choosing the format by extension (.xlsx or delimited text).
func Write(ds *Dataset, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		return WriteXLSX(ds, path, "cleaned")
	}
	return WriteCSV(ds, path)
}

// WriteCSV writes a header and one record per row; missing cells are empty.
// A .tsv path is written tab-separated.
func WriteCSV(ds *Dataset, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close csv: %w", cerr)
		}
	}()
	w := csv.NewWriter(f)
	w.Comma = delimiterFor(path, 0)
	if err := w.Write(ds.Names()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := 0; i < ds.Rows(); i++ {
		if err := w.Write(ds.Record(i)); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// WriteXLSX writes ds to a single-sheet workbook. Numeric columns are stored as numbers.
func WriteXLSX(ds *Dataset, path, sheet string) error {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	cols := ds.Columns()
	numeric := make([]bool, len(cols))
	for j, c := range cols {
		_, numeric[j] = c.Floats(ds.Format())
	}
	header := make([]interface{}, len(cols))
	for j, c := range cols {
		header[j] = c.Name
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	row := make([]interface{}, len(cols))
	for i := 0; i < ds.Rows(); i++ {
		for j, c := range cols {
			v, ok := c.Value(i)
			switch {
			case !ok:
				row[j] = ""
			case numeric[j]:
				x, _ := ds.Format().ParseNumber(v)
				row[j] = x
			default:
				row[j] = v
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save xlsx: %w", err)
	}
	return nil
}
