package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/tabsift/internal/logging"
	"github.com/KaramelBytes/tabsift/internal/pipeline"
	"github.com/KaramelBytes/tabsift/internal/study"
	"github.com/KaramelBytes/tabsift/internal/utils"
)

var (
	exTable    tableFlags
	exOutput   string
	exCharts   string
	exNoCharts bool
	exKinds    []string
	exBins     int
	exGridCols int
	exColumns  []string
	exHead     int
	exStudy    string
	exWatch    bool
	exQuiet    bool
)

var exploreCmd = &cobra.Command{
	Use:   "explore <files...>",
	Short: "Clean, summarize and plot one or more CSV/TSV/XLSX files",
	Long: `explore drops columns whose missing fraction exceeds --threshold, optionally
drops rows missing --require, prints a summary (shape, schema, describe
statistics, head) and renders a histogram per numeric column and a box-plot grid.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := expandInputs(args)
		if err != nil {
			return err
		}
		if exOutput != "" && len(files) > 1 {
			return fmt.Errorf("--output can only be used with a single input file")
		}
		if exWatch && len(files) != 1 {
			return fmt.Errorf("--watch requires exactly one input file")
		}

		opt, err := baseOptions()
		if err != nil {
			return err
		}
		if err := exTable.apply(cmd.Flags(), &opt); err != nil {
			return err
		}
		f := cmd.Flags()
		if f.Changed("head") {
			opt.Analysis.HeadRows = exHead
		}
		if f.Changed("kinds") {
			opt.Charts.Kinds = exKinds
		}
		if f.Changed("bins") {
			opt.Charts.Bins = exBins
		}
		if f.Changed("grid-cols") {
			opt.Charts.GridCols = exGridCols
		}
		opt.Charts.Columns = exColumns
		chartRoot := exCharts
		if chartRoot == "" && cfg != nil {
			chartRoot = cfg.ChartDir
		}
		if chartRoot == "" {
			chartRoot = "charts"
		}

		var st *study.Study
		if exStudy != "" {
			dir, err := resolveStudyDir(exStudy)
			if err != nil {
				return err
			}
			if st, err = study.Load(dir); err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		var reports io.Writer = out
		if exQuiet {
			reports = io.Discard
		}
		// configure returns the options for one input file
		configure := func(path string) pipeline.Options {
			o := opt
			base := utils.SafeName(utils.BaseName(path), "dataset")
			switch {
			case st != nil:
				o.ReportPath = filepath.Join(st.ReportsDir(), base+".txt")
				o.Charts.Dir = st.ChartsDir(path)
			case len(files) > 1:
				o.Charts.Dir = filepath.Join(chartRoot, base)
			default:
				o.ReportPath = exOutput
				o.Charts.Dir = chartRoot
			}
			if exNoCharts {
				o.Charts.Dir = ""
			}
			return o
		}
		done := func(o *pipeline.Outcome) error {
			if !exQuiet {
				if o.ReportPath != "" {
					logging.Success(out, "Wrote report to %s", o.ReportPath)
				}
				if len(o.Charts) > 0 {
					logging.Success(out, "Wrote %d charts to %s", len(o.Charts), filepath.Dir(o.Charts[0]))
				}
				if o.ExportTable != "" {
					logging.Success(out, "Exported %d rows to table %s", o.Cleaning.Dataset.Rows(), o.ExportTable)
				}
			}
			if st == nil {
				return nil
			}
			return recordRun(st, o)
		}

		if exWatch {
			ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt)
			defer stop()
			path := files[0]
			if !exQuiet {
				fmt.Fprintf(out, "Watching %s (Ctrl+C to stop)\n", path)
			}
			return pipeline.Watch(ctx, path, configure(path), reports, func(o *pipeline.Outcome, err error) {
				if err == nil {
					err = done(o)
				}
				if err != nil {
					logging.Warn(cmd.ErrOrStderr(), "%v", err)
				}
			})
		}

		total := len(files)
		for i, path := range files {
			if !exQuiet && total > 1 {
				fmt.Fprintf(out, "[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			o, err := pipeline.Run(commandContext(cmd), path, configure(path), reports)
			if err != nil {
				return err
			}
			if err := done(o); err != nil {
				return err
			}
		}
		return nil
	},
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// recordRun appends the outcome of one run to st and saves it.
func recordRun(st *study.Study, o *pipeline.Outcome) error {
	res := o.Cleaning
	st.AddRun(&study.Run{
		Source:        o.Source,
		Threshold:     res.Threshold,
		RequiredField: res.RequiredField,
		RowsBefore:    res.RowsBefore,
		ColumnsBefore: res.ColumnsBefore,
		RowsAfter:     res.Dataset.Rows(),
		ColumnsAfter:  res.Dataset.Width(),
		Dropped:       res.DroppedColumns,
		RowsRemoved:   res.RowsRemoved,
		ReportPath:    o.ReportPath,
		Charts:        o.Charts,
	})
	return st.Save()
}

func init() {
	rootCmd.AddCommand(exploreCmd)
	f := exploreCmd.Flags()
	exTable.register(f)
	f.StringVarP(&exOutput, "output", "o", "", "write the report to this file instead of stdout (single input)")
	f.StringVar(&exCharts, "charts", "", "directory for chart images (default from config: charts)")
	f.BoolVar(&exNoCharts, "no-charts", false, "skip chart rendering")
	f.StringSliceVar(&exKinds, "kinds", nil, "chart kinds to render: hist,box")
	f.IntVar(&exBins, "bins", 20, "histogram bins")
	f.IntVar(&exGridCols, "grid-cols", 4, "box plots per row in the grid image")
	f.StringSliceVar(&exColumns, "columns", nil, "numeric columns to plot (default: all)")
	f.IntVar(&exHead, "head", 5, "number of head rows in the report (0 disables)")
	f.StringVarP(&exStudy, "study", "s", "", "record the run in this study and write artifacts under it")
	f.BoolVar(&exWatch, "watch", false, "re-run whenever the input file changes")
	f.BoolVar(&exQuiet, "quiet", false, "suppress the report on stdout and progress output")
}

// describeOutcome is a one-line summary used by the clean command.
func describeOutcome(o *pipeline.Outcome) string {
	r := o.Cleaning
	var b strings.Builder
	fmt.Fprintf(&b, "(%d, %d) -> (%d, %d)", r.RowsBefore, r.ColumnsBefore, r.Dataset.Rows(), r.Dataset.Width())
	if len(r.DroppedColumns) > 0 {
		fmt.Fprintf(&b, ", dropped %d columns", len(r.DroppedColumns))
	}
	if r.RequiredField != "" {
		fmt.Fprintf(&b, ", removed %d rows missing %s", r.RowsRemoved, r.RequiredField)
	}
	return b.String()
}
