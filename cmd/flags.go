package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/pflag"

	"github.com/KaramelBytes/tabsift/internal/dataset"
	"github.com/KaramelBytes/tabsift/internal/pipeline"
)

// tableFlags are the loading and cleaning flags shared by explore and clean.
type tableFlags struct {
	threshold  float64
	require    string
	delimiter  string
	encoding   string
	na         []string
	decimal    string
	thousands  string
	sheetName  string
	sheetIndex int
	maxRows    int
}

func (f *tableFlags) register(fs *pflag.FlagSet) {
	fs.Float64Var(&f.threshold, "threshold", 0.9, "drop columns whose missing fraction exceeds this value (0-1)")
	fs.StringVar(&f.require, "require", "", "drop rows where this column is missing")
	fs.StringVar(&f.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | '|' | 'tab' (default by extension)")
	fs.StringVar(&f.encoding, "encoding", "", "input text encoding: utf-8 | latin1 | windows-1252 | gbk")
	fs.StringSliceVar(&f.na, "na", nil, "extra cell values treated as missing (added to the defaults)")
	fs.StringVar(&f.decimal, "decimal", "", "decimal separator for numbers: '.'|'comma'")
	fs.StringVar(&f.thousands, "thousands", "", "thousands separator for numbers: ','|'.'|'space'")
	fs.StringVar(&f.sheetName, "sheet-name", "", "XLSX: sheet name to load")
	fs.IntVar(&f.sheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
	fs.IntVar(&f.maxRows, "max-rows", 0, "maximum rows to load (0 = unlimited)")
}

// baseOptions returns the pipeline defaults overlaid with the loaded config.
func baseOptions() (pipeline.Options, error) {
	opt := pipeline.DefaultOptions()
	if cfg == nil {
		return opt, nil
	}
	opt.Threshold = cfg.Threshold
	opt.RequiredField = cfg.RequiredField
	if cfg.Encoding != "" {
		opt.Load.Encoding = cfg.Encoding
	}
	if len(cfg.NAValues) > 0 {
		opt.Load.NAValues = withDefaultNA(cfg.NAValues)
	}
	d, err := parseDelimiter(cfg.Delimiter)
	if err != nil {
		return opt, err
	}
	opt.Load.Delimiter = d
	if opt.Load.Format.Decimal, err = parseDecimal(cfg.Decimal); err != nil {
		return opt, err
	}
	opt.Load.MaxRows = cfg.MaxRows
	opt.Analysis.HeadRows = cfg.HeadRows
	if len(cfg.ChartKinds) > 0 {
		opt.Charts.Kinds = cfg.ChartKinds
	}
	if cfg.Bins > 0 {
		opt.Charts.Bins = cfg.Bins
	}
	if cfg.GridCols > 0 {
		opt.Charts.GridCols = cfg.GridCols
	}
	if cfg.ChartWidthIn > 0 {
		opt.Charts.Width = cfg.ChartWidthIn
	}
	if cfg.ChartHeightIn > 0 {
		opt.Charts.Height = cfg.ChartHeightIn
	}
	opt.ExportDSN = cfg.ExportDSN
	opt.ExportTable = cfg.ExportTable
	return opt, nil
}

// apply overrides opt with the flags the user set explicitly.
func (f *tableFlags) apply(fs *pflag.FlagSet, opt *pipeline.Options) error {
	if fs.Changed("threshold") {
		opt.Threshold = f.threshold
	}
	if fs.Changed("require") {
		opt.RequiredField = strings.TrimSpace(f.require)
	}
	if fs.Changed("delimiter") {
		d, err := parseDelimiter(f.delimiter)
		if err != nil {
			return err
		}
		opt.Load.Delimiter = d
	}
	if fs.Changed("encoding") {
		opt.Load.Encoding = strings.ToLower(strings.TrimSpace(f.encoding))
	}
	if len(f.na) > 0 {
		opt.Load.NAValues = withDefaultNA(append(opt.Load.NAValues, f.na...))
	}
	if fs.Changed("decimal") {
		d, err := parseDecimal(f.decimal)
		if err != nil {
			return err
		}
		opt.Load.Format.Decimal = d
	}
	switch strings.ToLower(strings.TrimSpace(f.thousands)) {
	case ",":
		opt.Load.Format.Thousands = ','
	case ".":
		opt.Load.Format.Thousands = '.'
	case "space", " ":
		opt.Load.Format.Thousands = ' '
	case "":
	default:
		return fmt.Errorf("unsupported --thousands: %s (use ','|'.'|'space')", f.thousands)
	}
	if f.sheetName != "" {
		opt.Load.SheetName = f.sheetName
	}
	if fs.Changed("sheet-index") {
		if f.sheetIndex < 1 {
			return fmt.Errorf("--sheet-index must be >= 1")
		}
		opt.Load.SheetIndex = f.sheetIndex
	}
	if fs.Changed("max-rows") {
		if f.maxRows < 0 {
			return fmt.Errorf("--max-rows must not be negative")
		}
		opt.Load.MaxRows = f.maxRows
	}
	return nil
}

func withDefaultNA(extra []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, v := range append(append([]string{}, dataset.DefaultNAValues...), extra...) {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

func parseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case ",", ";", "|":
		return rune(s[0]), nil
	case "\t", `\t`, "tab", "TAB":
		return '\t', nil
	default:
		return 0, fmt.Errorf("unsupported delimiter: %q (use ','|';'|'|'|'tab')", s)
	}
}

func parseDecimal(s string) (rune, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case ",", "comma":
		return ',', nil
	case ".", "dot", "":
		return '.', nil
	default:
		return 0, fmt.Errorf("unsupported decimal separator: %s (use '.'|'comma')", s)
	}
}

// expandInputs resolves globs, drops duplicates and sorts the result.
func expandInputs(args []string) ([]string, error) {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			// treat as literal path if exists
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no input files matched")
	}
	sort.Strings(files)
	return files, nil
}
