package cli

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

// Build-time variables set via ldflags
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		printVersionInfo()
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func printVersionInfo() {
	writeVersionInfo(os.Stdout, os.Stderr)
}

// writeVersionInfo writes the machine-parseable version line to out and
// decoration to decor.
func writeVersionInfo(out, decor io.Writer) {
	fmt.Fprintf(out, "pgetl %s (%s, %s) %s/%s\n", version, commit, date, runtime.GOOS, runtime.GOARCH)
	fmt.Fprintln(decor, "Patient admission CSV loader for PostgreSQL")
	fmt.Fprintln(decor)
	fmt.Fprintln(decor, "Repository: https://github.com/vvka-141/pgetl")
}
