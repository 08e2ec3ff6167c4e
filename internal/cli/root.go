package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pgetl",
	Short: "Load patient admission CSV files into PostgreSQL",
	Long: `pgetl reads patient admission records from CSV files, cleans and
normalizes them, and writes them to a PostgreSQL table.

Each source file is recorded with a checksum, so loading the same file twice
is a no-op unless --reload is given.

Commands:
  run        Ingest, transform and load sources into PostgreSQL
  transform  Dry run: ingest and transform only, optionally export Parquet
  show       Read loaded rows back from the target table

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration or parameters
  11 - Database connection failed
  12 - User denied truncate approval
  13 - Source file could not be read
  14 - Schema or type error during transformation
  15 - Writing or reading records failed`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo()
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().Bool("help", false, "Help for pgetl")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}
