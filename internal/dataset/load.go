package dataset

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnsupported indicates no loader accepts the file.
var ErrUnsupported = errors.New("unsupported dataset format")

// LoadOptions control how a file is read into a Dataset.
type LoadOptions struct {
	// Delimiter for delimited text. If 0, '\t' for .tsv files and ',' otherwise.
	Delimiter rune
	// Encoding of delimited text: utf-8 (default), latin1, windows-1252, gbk.
	Encoding string
	// NAValues are the cell texts read as missing. Nil uses DefaultNAValues.
	NAValues []string
	// Format interprets numeric cells.
	Format NumberFormat
	// MaxRows limits data rows read; 0 means unlimited.
	MaxRows int
	// XLSX sheet selection. SheetName wins over SheetIndex (1-based).
	SheetName  string
	SheetIndex int
}

// DefaultLoadOptions returns options for a plain UTF-8 CSV export.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{
		Encoding:   "utf-8",
		SheetIndex: 1,
	}
}

// Loader reads one family of file formats.
type Loader interface {
	CanLoad(path string) bool
	Load(path string, opt LoadOptions) (*Dataset, error)
}

var registry []Loader

// Register adds a loader implementation to the registry.
func Register(l Loader) {
	registry = append(registry, l)
}

// Load selects a loader based on the file name and reads the dataset.
func Load(path string, opt LoadOptions) (*Dataset, error) {
	for _, l := range registry {
		if l.CanLoad(path) {
			return l.Load(path, opt)
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Base(path))
}

// Supported reports whether some registered loader accepts path.
func Supported(path string) bool {
	for _, l := range registry {
		if l.CanLoad(path) {
			return true
		}
	}
	return false
}

func init() {
	Register(xlsxLoader{})
	Register(csvLoader{})
}

// tableBuilder accumulates raw records column-wise and turns them into a Dataset.
type tableBuilder struct {
	name    string
	header  []string
	raw     [][]string
	ragged  int
	opt     LoadOptions
	limited bool
}

func newTableBuilder(name string, header []string, opt LoadOptions) *tableBuilder {
	return &tableBuilder{
		name:   name,
		header: uniqueHeader(header),
		raw:    make([][]string, len(header)),
		opt:    opt,
	}
}

// add appends one record. It reports false once MaxRows has been reached.
func (b *tableBuilder) add(rec []string) bool {
	if b.opt.MaxRows > 0 && b.rows() >= b.opt.MaxRows {
		b.limited = true
		return false
	}
	if len(rec) != len(b.header) {
		b.ragged++
	}
	for j := range b.raw {
		v := ""
		if j < len(rec) {
			v = rec[j]
		}
		b.raw[j] = append(b.raw[j], v)
	}
	return true
}

func (b *tableBuilder) rows() int {
	if len(b.raw) == 0 {
		return 0
	}
	return len(b.raw[0])
}

func (b *tableBuilder) build() (*Dataset, error) {
	var na NASet
	if b.opt.NAValues != nil {
		na = NewNASet(b.opt.NAValues...)
	}
	cols := make([]*Column, len(b.header))
	for j, name := range b.header {
		cols[j] = ParseColumn(name, b.raw[j], na)
	}
	ds, err := New(b.name, cols...)
	if err != nil {
		return nil, err
	}
	ds = ds.WithFormat(b.opt.Format)
	if b.ragged > 0 {
		ds = ds.WithNote(fmt.Sprintf("%d rows had a field count different from the header (padded or truncated)", b.ragged))
	}
	if b.limited {
		ds = ds.WithNote(fmt.Sprintf("read only the first %d rows due to MaxRows", b.opt.MaxRows))
	}
	return ds, nil
}

// uniqueHeader trims names, fills blanks and suffixes duplicates with _2, _3, ...
func uniqueHeader(header []string) []string {
	out := make([]string, len(header))
	used := make(map[string]bool, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("unnamed_%d", i+1)
		}
		cand := name
		for n := 2; used[cand]; n++ {
			cand = fmt.Sprintf("%s_%d", name, n)
		}
		used[cand] = true
		out[i] = cand
	}
	return out
}
