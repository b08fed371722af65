package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/tabsift/internal/config"
	"github.com/KaramelBytes/tabsift/internal/logging"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set tabsift configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if cfg == nil {
			fmt.Fprintln(out, "No config loaded")
			return nil
		}
		fmt.Fprintf(out, "threshold: %g\n", cfg.Threshold)
		if cfg.RequiredField != "" {
			fmt.Fprintf(out, "required_field: %s\n", cfg.RequiredField)
		}
		if cfg.Delimiter != "" {
			fmt.Fprintf(out, "delimiter: %q\n", cfg.Delimiter)
		}
		fmt.Fprintf(out, "encoding: %s\n", cfg.Encoding)
		if len(cfg.NAValues) > 0 {
			fmt.Fprintf(out, "na_values: %s\n", strings.Join(cfg.NAValues, ", "))
		}
		fmt.Fprintf(out, "decimal: %s\n", cfg.Decimal)
		fmt.Fprintf(out, "head_rows: %d\n", cfg.HeadRows)
		fmt.Fprintf(out, "max_rows: %d\n", cfg.MaxRows)
		fmt.Fprintf(out, "chart_dir: %s\n", cfg.ChartDir)
		fmt.Fprintf(out, "chart_kinds: %s\n", strings.Join(cfg.ChartKinds, ", "))
		fmt.Fprintf(out, "bins: %d\n", cfg.Bins)
		fmt.Fprintf(out, "grid_cols: %d\n", cfg.GridCols)
		fmt.Fprintf(out, "chart_size_in: %gx%g\n", cfg.ChartWidthIn, cfg.ChartHeightIn)
		fmt.Fprintf(out, "studies_dir: %s\n", cfg.StudiesDir)
		if cfg.ExportDSN != "" {
			fmt.Fprintf(out, "export_dsn: %s\n", maskDSN(cfg.ExportDSN))
		}
		if cfg.ExportTable != "" {
			fmt.Fprintf(out, "export_table: %s\n", cfg.ExportTable)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		if err := cfg.Set(key, val); err != nil {
			return err
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		logging.Success(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

// maskDSN hides the password of a URL-style DSN.
func maskDSN(dsn string) string {
	at := strings.LastIndex(dsn, "@")
	scheme := strings.Index(dsn, "://")
	if at < 0 || scheme < 0 || at < scheme {
		return dsn
	}
	creds := dsn[scheme+3 : at]
	if i := strings.Index(creds, ":"); i >= 0 {
		return dsn[:scheme+3] + creds[:i] + ":****" + dsn[at:]
	}
	return dsn
}
