// Package pipeline runs the load, clean, report, plot and persist steps over one input file.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/KaramelBytes/tabsift/internal/analysis"
	"github.com/KaramelBytes/tabsift/internal/chart"
	"github.com/KaramelBytes/tabsift/internal/clean"
	"github.com/KaramelBytes/tabsift/internal/dataset"
	"github.com/KaramelBytes/tabsift/internal/store"
	"github.com/KaramelBytes/tabsift/internal/utils"
)

// Options configures a pipeline run. Zero-valued optional steps are skipped.
type Options struct {
	Load          dataset.LoadOptions
	Threshold     float64
	RequiredField string
	Analysis      analysis.Options

	// ReportPath receives the cleaning log and the summary; empty means the stdout writer.
	ReportPath string
	// SkipSummary limits the report to the cleaning log.
	SkipSummary bool

	// Charts are rendered when Charts.Dir is set.
	Charts chart.Options

	// OutputPath, when set, receives the cleaned table (.csv, .tsv or .xlsx).
	OutputPath string

	// ExportDSN, when set, receives the cleaned table as ExportTable
	// (default: the sanitized input base name).
	ExportDSN   string
	ExportTable string
}

// DefaultOptions returns the settings of the exploration scripts: 90% threshold,
// five head rows, both chart kinds once a directory is given.
func DefaultOptions() Options {
	return Options{
		Load:      dataset.DefaultLoadOptions(),
		Threshold: 0.9,
		Analysis:  analysis.DefaultOptions(),
		Charts:    chart.DefaultOptions(),
	}
}

// Outcome is what a run produced.
type Outcome struct {
	Source      string
	Cleaning    *clean.Result
	Summary     *analysis.Summary
	ReportPath  string
	Charts      []string
	OutputPath  string
	ExportTable string
}

// Run loads path and applies every configured step in order. Report text goes
// to opt.ReportPath or, when that is empty, to stdout.
func Run(ctx context.Context, path string, opt Options, stdout io.Writer) (*Outcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ds, err := dataset.Load(path, opt.Load)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	rows, cols := ds.Shape()
	slog.Debug("loaded dataset", "path", path, "rows", rows, "columns", cols)

	out := &Outcome{Source: path, ReportPath: opt.ReportPath}
	err = WithSink(opt.ReportPath, stdout, func(w io.Writer) error {
		res, err := clean.Clean(ds, clean.Options{
			Threshold:     opt.Threshold,
			RequiredField: opt.RequiredField,
			Report:        w,
		})
		if err != nil {
			return err
		}
		out.Cleaning = res
		if opt.SkipSummary {
			return nil
		}
		out.Summary = analysis.Summarize(res.Dataset, res, opt.Analysis)
		_, err = io.WriteString(w, "\n"+out.Summary.Markdown())
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("clean %s: %w", path, err)
	}
	cleaned := out.Cleaning.Dataset

	if opt.Charts.Dir != "" {
		paths, err := chart.Render(ctx, cleaned, opt.Charts)
		if err != nil {
			return nil, fmt.Errorf("charts for %s: %w", path, err)
		}
		out.Charts = paths
	}

	if opt.OutputPath != "" {
		if err := dataset.Write(cleaned, opt.OutputPath); err != nil {
			return nil, fmt.Errorf("write cleaned table: %w", err)
		}
		out.OutputPath = opt.OutputPath
	}

	if opt.ExportDSN != "" {
		table := opt.ExportTable
		if table == "" {
			table = TableName(path)
		}
		if err := export(ctx, opt.ExportDSN, table, cleaned); err != nil {
			return nil, fmt.Errorf("export %s: %w", table, err)
		}
		out.ExportTable = table
	}
	return out, nil
}

// export writes ds to table in the database at dsn and closes the connection.
func export(ctx context.Context, dsn, table string, ds *dataset.Dataset) (err error) {
	db, err := store.Open(dsn)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := store.Close(db); cerr != nil && err == nil {
			err = fmt.Errorf("close database: %w", cerr)
		}
	}()
	return store.Export(ctx, db, table, ds)
}

// TableName derives an SQL table name from an input path ("data/GTD 1970.csv" -> "gtd_1970").
func TableName(path string) string {
	return strings.ReplaceAll(utils.SafeName(utils.BaseName(path), "dataset"), "-", "_")
}
