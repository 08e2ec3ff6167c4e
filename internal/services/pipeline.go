package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/vvka-141/pgetl/internal/dataset"
	"github.com/vvka-141/pgetl/internal/db"
	"github.com/vvka-141/pgetl/internal/export"
	"github.com/vvka-141/pgetl/internal/ingest"
	"github.com/vvka-141/pgetl/internal/store"
	"github.com/vvka-141/pgetl/internal/transform"
	"github.com/vvka-141/pgetl/pkg/pgetl"
)

// appName is reported to the server as application_name.
const appName = "pgetl"

// sampleRows is how many transformed rows Inspect keeps per source.
const sampleRows = 5

// SourceLoader discovers source files and reads them into datasets.
type SourceLoader interface {
	Discover(path string) ([]string, error)
	Load(ctx context.Context, path string) (*ingest.Source, error)
}

// Sink is the storage side of a run, bound to one target table.
type Sink interface {
	EnsureSchema(ctx context.Context) error
	Truncate(ctx context.Context) error
	HasChecksum(ctx context.Context, normalized string) (bool, error)
	Write(ctx context.Context, records []store.Record, loadRunID pgtype.UUID) (int64, error)
	RecordRun(ctx context.Context, run store.LoadRun) error
	Head(ctx context.Context, limit int) ([]store.Patient, error)
	Count(ctx context.Context) (int64, error)
}

// SinkFactory opens a Sink for table on conn.
type SinkFactory func(conn pgetl.DBConnection, table store.Table, opts ...store.Option) Sink

// StoreSinkFactory returns a SinkFactory backed by store.New. base options
// are applied before the ones the service passes.
func StoreSinkFactory(base ...store.Option) SinkFactory {
	return func(conn pgetl.DBConnection, table store.Table, opts ...store.Option) Sink {
		return store.New(conn, table, append(append([]store.Option{}, base...), opts...)...)
	}
}

type connectFunc func(ctx context.Context, connString string, auth pgetl.AuthConfig) (pgetl.DBConnection, func(), error)

// SourceSummary reports what happened to one source file.
type SourceSummary struct {
	Path               string
	ChecksumNormalized string

	// Skipped is set when the file had already been loaded.
	Skipped bool

	// Failed is set when processing stopped at this source.
	Failed bool

	Report      *transform.Report
	RowsWritten int64
	LoadRunID   string

	// Sample holds the first transformed rows; only Inspect fills it.
	Sample *dataset.Dataset
}

// RunSummary reports a whole run.
type RunSummary struct {
	Table    string
	Sources  []SourceSummary
	Duration time.Duration
}

// RowsRead sums the input rows of every processed source.
func (s *RunSummary) RowsRead() int {
	total := 0
	for _, src := range s.Sources {
		if src.Report != nil {
			total += src.Report.InputRows
		}
	}
	return total
}

func (s *RunSummary) RowsWritten() int64 {
	var total int64
	for _, src := range s.Sources {
		total += src.RowsWritten
	}
	return total
}

// SkippedCount returns how many sources were skipped as already loaded.
func (s *RunSummary) SkippedCount() int {
	n := 0
	for _, src := range s.Sources {
		if src.Skipped {
			n++
		}
	}
	return n
}

// PreviewResult holds rows read back from the target table.
type PreviewResult struct {
	Table string
	Rows  []store.Patient
	Total int64
}

// PipelineService runs the ingest, transform and load workflow.
// Thread-Safety: NOT safe for concurrent Run() calls on the same instance.
type PipelineService struct {
	connectorFactory func(*pgetl.ConnectionConfig) (pgetl.Connector, error)
	approver         pgetl.Approver
	logger           pgetl.Logger
	loader           SourceLoader
	sinkFactory      SinkFactory
	connect          connectFunc
}

// NewPipelineService creates a PipelineService with all dependencies
// injected. It panics on nil dependencies.
func NewPipelineService(
	connectorFactory func(*pgetl.ConnectionConfig) (pgetl.Connector, error),
	approver pgetl.Approver,
	logger pgetl.Logger,
	loader SourceLoader,
	sinkFactory SinkFactory,
) *PipelineService {
	if connectorFactory == nil {
		panic("connectorFactory cannot be nil")
	}
	if approver == nil {
		panic("approver cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	if loader == nil {
		panic("loader cannot be nil")
	}
	if sinkFactory == nil {
		panic("sinkFactory cannot be nil")
	}

	svc := &PipelineService{
		connectorFactory: connectorFactory,
		approver:         approver,
		logger:           logger,
		loader:           loader,
		sinkFactory:      sinkFactory,
	}
	svc.connect = svc.defaultConnect
	return svc
}

func (s *PipelineService) defaultConnect(ctx context.Context, connString string, auth pgetl.AuthConfig) (pgetl.DBConnection, func(), error) {
	connConfig, err := db.ParseConnectionString(connString)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse connection string: %w", err)
	}
	if connConfig.AppName == "" {
		connConfig.AppName = appName
	}
	if auth.Method != pgetl.AuthMethodStandard {
		connConfig.ApplyAuth(auth)
	}

	s.logger.Verbose("Connecting to %s", db.Redact(connConfig))
	connector, err := s.connectorFactory(connConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create connector: %w", err)
	}

	pool, err := connector.Connect(ctx)
	if err != nil {
		return nil, nil, err
	}
	return db.NewPoolAdapter(pool), pool.Close, nil
}

// Run loads every source under config.SourcePath into the target table.
// It stops at the first failing source; sources loaded before it stay
// loaded and recorded, and the returned summary lists them.
func (s *PipelineService) Run(ctx context.Context, config pgetl.RunConfig) (*RunSummary, error) {
	started := time.Now()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	table, err := store.ParseTable(config.Table)
	if err != nil {
		return nil, err
	}

	paths, err := s.loader.Discover(config.SourcePath)
	if err != nil {
		return nil, err
	}
	s.logger.Verbose("Found %d source file(s) under %s", len(paths), config.SourcePath)

	if config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, config.Timeout)
		defer cancel()
	}

	conn, closeConn, err := s.connect(ctx, config.ConnectionString, config.Auth)
	if err != nil {
		return nil, err
	}
	defer closeConn()

	sink := s.sinkFactory(conn, table,
		store.WithBatchSize(config.BatchSize),
		store.WithWorkers(config.Workers),
		store.WithLogger(s.logger),
	)
	if err := sink.EnsureSchema(ctx); err != nil {
		return nil, err
	}

	if config.Replace {
		if err := s.replace(ctx, sink, table); err != nil {
			return nil, err
		}
	}

	summary := &RunSummary{Table: table.String()}
	for _, path := range paths {
		src, err := s.loadSource(ctx, sink, path, config.Reload || config.Replace)
		if src != nil {
			src.Failed = err != nil
			summary.Sources = append(summary.Sources, *src)
		}
		if err != nil {
			summary.Duration = time.Since(started)
			return summary, err
		}
	}
	summary.Duration = time.Since(started)

	s.logger.Info("✓ Loaded %d row(s) from %d source(s) into %s (%d skipped)",
		summary.RowsWritten(), len(summary.Sources), table, summary.SkippedCount())
	return summary, nil
}

// replace asks for approval and empties the target table.
func (s *PipelineService) replace(ctx context.Context, sink Sink, table store.Table) error {
	approved, err := s.approver.RequestApproval(ctx, table.String())
	if err != nil {
		return fmt.Errorf("approval failed: %w", err)
	}
	if !approved {
		return fmt.Errorf("truncate of %s was not approved: %w", table, pgetl.ErrApprovalDenied)
	}

	s.logger.Verbose("Truncating %s", table)
	return sink.Truncate(ctx)
}

// loadSource runs one file through ingest, transform and store. The
// returned summary is non-nil once the file has been read.
func (s *PipelineService) loadSource(ctx context.Context, sink Sink, path string, reload bool) (*SourceSummary, error) {
	src, err := s.loader.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	summary := &SourceSummary{Path: src.Path, ChecksumNormalized: src.ChecksumNormalized}

	if !reload {
		loaded, err := sink.HasChecksum(ctx, src.ChecksumNormalized)
		if err != nil {
			return summary, err
		}
		if loaded {
			s.logger.Info("Skipping %s: already loaded (use --reload to load it again)", src.Path)
			summary.Skipped = true
			return summary, nil
		}
	}

	out, report, err := s.transform(src)
	summary.Report = report
	if err != nil {
		return summary, err
	}

	records, err := store.RecordsFromDataset(out)
	if err != nil {
		return summary, err
	}

	run := store.NewLoadRun(src.Path, src.Checksum, src.ChecksumNormalized)
	run.RowsRead = report.InputRows
	summary.LoadRunID = run.ID.String()

	n, err := sink.Write(ctx, records, run.PgID())
	summary.RowsWritten = n
	if err != nil {
		return summary, fmt.Errorf("load %s: %w", src.Path, err)
	}

	run.RowsWritten = int(n)
	if err := sink.RecordRun(ctx, run); err != nil {
		return summary, err
	}

	s.logger.Info("%s: wrote %d of %d row(s)", src.Path, n, report.InputRows)
	return summary, nil
}

// transform runs the transformation on src and logs its report.
func (s *PipelineService) transform(src *ingest.Source) (*dataset.Dataset, *transform.Report, error) {
	out, report, err := transform.Run(src.Dataset)
	if err != nil {
		return nil, report, fmt.Errorf("transform %s: %w", src.Path, err)
	}

	s.logger.Verbose("%s: %d input, %d cleaned, %d in age range, %d complete, %d unparsed date(s), %d output",
		src.Path, report.InputRows, report.CleanRows, report.InRangeRows, report.CompleteRows, report.UnparsedDates, report.OutputRows)
	for _, w := range report.Warnings {
		s.logger.Info("Warning: %s: %v", src.Path, w)
	}
	return out, report, nil
}

// Inspect loads and transforms every source without touching a database.
// When config.ParquetPath is set, the transformed rows of all sources are
// written to that file. The file is removed again if any source fails.
func (s *PipelineService) Inspect(ctx context.Context, config pgetl.InspectConfig) (summary *RunSummary, err error) {
	started := time.Now()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	paths, err := s.loader.Discover(config.SourcePath)
	if err != nil {
		return nil, err
	}

	var pf *export.File
	if config.ParquetPath != "" {
		if pf, err = export.CreateFile(config.ParquetPath); err != nil {
			return nil, err
		}
		defer func() {
			if err == nil {
				err = pf.Close()
			}
			if err != nil {
				if aerr := pf.Abort(); aerr != nil {
					s.logger.Error("%v", aerr)
				}
				return
			}
			s.logger.Info("✓ Wrote %d row(s) to %s", pf.Count(), pf.Path())
		}()
	}

	summary = &RunSummary{}
	for _, path := range paths {
		src, err := s.loader.Load(ctx, path)
		if err != nil {
			return summary, err
		}

		out, report, err := s.transform(src)
		summary.Sources = append(summary.Sources, SourceSummary{
			Path:               src.Path,
			ChecksumNormalized: src.ChecksumNormalized,
			Report:             report,
			Failed:             err != nil,
		})
		if err != nil {
			return summary, err
		}
		last := &summary.Sources[len(summary.Sources)-1]
		last.Sample = out.Head(sampleRows)

		if pf != nil {
			n, err := pf.Write(out)
			if err != nil {
				last.Failed = true
				return summary, fmt.Errorf("export %s: %w", src.Path, err)
			}
			last.RowsWritten = int64(n)
		}
	}
	summary.Duration = time.Since(started)
	return summary, nil
}

// Preview reads the first config.Limit rows of the target table back.
func (s *PipelineService) Preview(ctx context.Context, config pgetl.PreviewConfig) (*PreviewResult, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	table, err := store.ParseTable(config.Table)
	if err != nil {
		return nil, err
	}

	if config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, config.Timeout)
		defer cancel()
	}

	conn, closeConn, err := s.connect(ctx, config.ConnectionString, config.Auth)
	if err != nil {
		return nil, err
	}
	defer closeConn()

	sink := s.sinkFactory(conn, table, store.WithLogger(s.logger))
	rows, err := sink.Head(ctx, config.Limit)
	if err != nil {
		return nil, previewError(table, err)
	}
	total, err := sink.Count(ctx)
	if err != nil {
		return nil, previewError(table, err)
	}
	return &PreviewResult{Table: table.String(), Rows: rows, Total: total}, nil
}

// previewError adds a hint when the table has never been loaded.
func previewError(table store.Table, err error) error {
	var pgErr interface{ SQLState() string }
	if errors.As(err, &pgErr) && pgErr.SQLState() == "42P01" {
		return fmt.Errorf("%w\n\nHint: table %s does not exist yet; run 'pgetl run' first", err, table)
	}
	return err
}
