package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/tabsift/internal/logging"
	"github.com/KaramelBytes/tabsift/internal/pipeline"
)

var (
	clTable tableFlags
	clOut   string
	clDSN   string
	clName  string
	clQuiet bool
)

var cleanCmd = &cobra.Command{
	Use:   "clean <file>",
	Short: "Clean a table and save it as CSV/XLSX or export it to SQL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opt, err := baseOptions()
		if err != nil {
			return err
		}
		if err := clTable.apply(cmd.Flags(), &opt); err != nil {
			return err
		}
		opt.SkipSummary = true
		opt.OutputPath = clOut
		if cmd.Flags().Changed("dsn") {
			opt.ExportDSN = clDSN
		}
		if cmd.Flags().Changed("table") {
			opt.ExportTable = clName
		}
		if opt.OutputPath == "" && opt.ExportDSN == "" {
			return fmt.Errorf("nothing to write: use --out and/or --dsn")
		}

		out := cmd.OutOrStdout()
		var log io.Writer = out
		if clQuiet {
			log = io.Discard
		}
		o, err := pipeline.Run(commandContext(cmd), args[0], opt, log)
		if err != nil {
			return err
		}
		if o.OutputPath != "" {
			logging.Success(out, "Wrote cleaned table to %s %s", o.OutputPath, describeOutcome(o))
		}
		if o.ExportTable != "" {
			logging.Success(out, "Exported %d rows to table %s", o.Cleaning.Dataset.Rows(), o.ExportTable)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	f := cleanCmd.Flags()
	clTable.register(f)
	f.StringVar(&clOut, "out", "", "path of the cleaned table (.csv, .tsv or .xlsx)")
	f.StringVar(&clDSN, "dsn", "", "export to this database: postgres://..., sqlite://path or *.db")
	f.StringVar(&clName, "table", "", "SQL table name (default: input base name)")
	f.BoolVar(&clQuiet, "quiet", false, "suppress the cleaning log")
}
