package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vvka-141/pgetl/internal/config"
	"github.com/vvka-141/pgetl/internal/ingest"
	"github.com/vvka-141/pgetl/internal/services"
	"github.com/vvka-141/pgetl/internal/tui"
	"github.com/vvka-141/pgetl/internal/ui"
	"github.com/vvka-141/pgetl/pkg/pgetl"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show rows loaded into the target table",
	Long: `Show reads the first rows of the target table back, ordered by id, and
prints them with the table's total row count.

Examples:
  pgetl show -d hospital
  pgetl show --connection "$DATABASE_URL" --table staging.patients --limit 20`,
	Args: cobra.NoArgs,
	RunE: runShow,
}

type showFlagValues struct {
	conn  connFlagValues
	table string
	limit int
}

var showFlags showFlagValues

func init() {
	rootCmd.AddCommand(showCmd)

	addConnectionFlags(showCmd, &showFlags.conn, time.Minute)

	showCmd.Flags().StringVar(&showFlags.table, "table", pgetl.DefaultTable,
		"Table to read, optionally schema-qualified\n"+
			"Precedence: --table > pgetl.yaml pipeline.table > patients")
	showCmd.Flags().IntVar(&showFlags.limit, "limit", pgetl.DefaultPreviewLimit,
		"Number of rows to show")
}

func buildPreviewConfig(cmd *cobra.Command, verbose bool) (pgetl.PreviewConfig, *config.ProjectConfig, error) {
	_ = godotenv.Load()

	projectCfg, err := loadProjectConfig(showFlags.conn.configPath, "")
	if err != nil {
		return pgetl.PreviewConfig{}, nil, err
	}

	connStr, auth, err := resolveConnection(&showFlags.conn, projectCfg, verbose)
	if err != nil {
		return pgetl.PreviewConfig{}, nil, err
	}

	timeout, err := resolveTimeout(cmd, &showFlags.conn, projectCfg)
	if err != nil {
		return pgetl.PreviewConfig{}, nil, err
	}

	table := showFlags.table
	if projectCfg != nil && projectCfg.Pipeline.Table != "" && !cmd.Flags().Changed("table") {
		table = projectCfg.Pipeline.Table
	}

	return pgetl.PreviewConfig{
		ConnectionString: connStr,
		Table:            table,
		Limit:            showFlags.limit,
		Timeout:          timeout,
		Verbose:          verbose,
		Auth:             auth,
	}, projectCfg, nil
}

func runShow(cmd *cobra.Command, args []string) error {
	verbose := getVerboseFlag(cmd)

	cfg, projectCfg, err := buildPreviewConfig(cmd, verbose)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	policy, err := retryPolicy(projectCfg)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext("show")
	defer cancel()

	var result *services.PreviewResult
	err = tui.RunTask(ctx, "Reading "+cfg.Table, verbose, func(ctx context.Context, logger pgetl.Logger) (string, error) {
		svc := services.NewPipelineService(
			connectorFactory(logger, policy, pgetl.DefaultMaxConns),
			ui.NewApprover(false, verbose),
			logger,
			ingest.NewLoader(logger),
			services.StoreSinkFactory(),
		)
		var err error
		result, err = svc.Preview(ctx, cfg)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Read %d row(s) from %s", len(result.Rows), result.Table), nil
	})
	if err != nil {
		return fmt.Errorf("show failed: %w", err)
	}

	renderPreview(cmd.OutOrStdout(), result)
	return nil
}
