package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	dataFile    string
	catalogFile string
	verbose     bool
	noColor     bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "AI stocks dashboard - time-series selection engine",
	Long: `AI Stocks Dashboard CLI

Loads a daily record file of AI-related stock prices and percent changes,
then filters, sorts and windows it for display.

Usage:
  go run ./cmd/dashboard [command]

Examples:
  go run ./cmd/dashboard api
  go run ./cmd/dashboard view --window 3M --mode price
  go run ./cmd/dashboard import --file stock_data.json
  go run ./cmd/dashboard catalog validate catalog.yaml`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&dataFile, "file", "", "record file (overrides DATA_FILE and forces the file source)")
	rootCmd.PersistentFlags().StringVar(&catalogFile, "catalog", "", "catalog YAML (overrides CATALOG_FILE)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}
