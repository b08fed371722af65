package cmd

import (
	"os"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/tabsift/internal/config"
	"github.com/KaramelBytes/tabsift/internal/logging"
)

var (
	// Global flags
	cfgFile string
	debug   bool

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "tabsift",
	Short: "tabsift: clean and explore tabular incident data",
	Long: `tabsift loads CSV/TSV/XLSX tables, drops sparse columns and rows missing a
required field, writes a summary report and renders histograms and box plots.
Cleaned tables can be saved as CSV/XLSX or exported to SQLite/PostgreSQL.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logging.Fail(os.Stderr, "%v", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.tabsift/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
}

func loadConfig() {
	logging.Setup(os.Stderr, debug)
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands fall back to built-in defaults
		logging.Warn(os.Stderr, "failed to load config: %v", err)
		cfg = nil
		return
	}
	cfg = c
}
