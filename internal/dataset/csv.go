package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pierrec/lz4/v4"
)

type csvLoader struct{}

func (csvLoader) CanLoad(path string) bool {
	name := strings.TrimSuffix(strings.ToLower(path), ".lz4")
	return strings.HasSuffix(name, ".csv") || strings.HasSuffix(name, ".tsv") || strings.HasSuffix(name, ".txt")
}

func (csvLoader) Load(path string, opt LoadOptions) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	var src io.Reader = f
	if strings.HasSuffix(strings.ToLower(path), ".lz4") {
		src = lz4.NewReader(f)
	}
	return ReadDelimited(src, filepath.Base(path), delimiterFor(path, opt.Delimiter), opt)
}

// ReadDelimited reads a delimited text stream whose first record is the header.
func ReadDelimited(src io.Reader, name string, delim rune, opt LoadOptions) (*Dataset, error) {
	dec, err := decodeReader(src, opt.Encoding)
	if err != nil {
		return nil, err
	}
	r := csv.NewReader(dec)
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return New(name)
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	b := newTableBuilder(name, header, opt)
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", b.rows()+1, err)
		}
		if !b.add(rec) {
			break
		}
	}
	return b.build()
}

func delimiterFor(path string, delim rune) rune {
	if delim != 0 {
		return delim
	}
	name := strings.TrimSuffix(strings.ToLower(path), ".lz4")
	if strings.HasSuffix(name, ".tsv") {
		return '\t'
	}
	return ','
}
