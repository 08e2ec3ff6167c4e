package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vvka-141/pgetl/internal/db"
	"github.com/vvka-141/pgetl/internal/ingest"
	"github.com/vvka-141/pgetl/internal/services"
	"github.com/vvka-141/pgetl/internal/tui"
	"github.com/vvka-141/pgetl/internal/ui"
	"github.com/vvka-141/pgetl/pkg/pgetl"
)

var transformCmd = &cobra.Command{
	Use:   "transform <source_path>",
	Short: "Ingest and transform sources without a database",
	Long: `Transform runs the ingest and transform stages on every source and prints
what each stage kept, followed by the first transformed rows. Nothing is
written to PostgreSQL.

Use --parquet to write the transformed rows of all sources to one file.

Examples:
  pgetl transform ./data/patients.csv
  pgetl transform ./data --parquet patients.parquet`,
	Args:              RequireSourcePath,
	ValidArgsFunction: completeSourcePaths,
	RunE:              runTransform,
}

type transformFlagValues struct {
	parquet string
	sample  bool
}

var transformFlags transformFlagValues

func init() {
	rootCmd.AddCommand(transformCmd)

	transformCmd.Flags().StringVar(&transformFlags.parquet, "parquet", "",
		"Write the transformed rows to this Parquet file (Snappy compressed)")
	_ = transformCmd.RegisterFlagCompletionFunc("parquet", completeParquetPaths)
	transformCmd.Flags().BoolVar(&transformFlags.sample, "sample", true,
		"Print the first transformed rows of each source")
}

func runTransform(cmd *cobra.Command, args []string) error {
	sourcePath := args[0]
	verbose := getVerboseFlag(cmd)

	cfg := pgetl.InspectConfig{
		SourcePath:  sourcePath,
		ParquetPath: transformFlags.parquet,
		Verbose:     verbose,
	}

	ctx, cancel := signalContext("transform")
	defer cancel()

	var summary *services.RunSummary
	err := tui.RunTask(ctx, "Transforming "+sourcePath, verbose, func(ctx context.Context, logger pgetl.Logger) (string, error) {
		svc := services.NewPipelineService(
			func(c *pgetl.ConnectionConfig) (pgetl.Connector, error) { return db.NewConnector(c, db.WithLogger(logger)) },
			ui.NewApprover(false, verbose),
			logger,
			ingest.NewLoader(logger),
			services.StoreSinkFactory(),
		)
		var err error
		summary, err = svc.Inspect(ctx, cfg)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Transformed %d source(s)", len(summary.Sources)), nil
	})

	out := cmd.OutOrStdout()
	if summary != nil {
		renderSummary(out, summary)
		if transformFlags.sample {
			for _, src := range summary.Sources {
				renderSample(out, src.Path, src.Sample)
			}
		}
	}
	if err != nil {
		return fmt.Errorf("transform failed: %w", err)
	}
	return nil
}
