package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/vvka-141/pgetl/internal/checksum"
	"github.com/vvka-141/pgetl/internal/dataset"
	"github.com/vvka-141/pgetl/internal/files/filesystem"
	"github.com/vvka-141/pgetl/internal/retry"
	"github.com/vvka-141/pgetl/internal/transform"
	"github.com/vvka-141/pgetl/pkg/pgetl"
)

// Source is one ingested file.
type Source struct {
	Path string
	Size int64

	// Checksum is the SHA-256 of the raw bytes
	Checksum string

	// ChecksumNormalized ignores BOM, line endings and trailing whitespace,
	// and is what duplicate-load detection compares.
	ChecksumNormalized string

	Dataset *dataset.Dataset
}

// Loader discovers and reads source files.
// Loader is safe for concurrent use as long as its filesystem provider is.
type Loader struct {
	fsProvider filesystem.FileSystemProvider
	calculator checksum.Calculator
	logger     pgetl.Logger
	policy     retry.Policy
	options    Options
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithPolicy overrides the read retry policy.
func WithPolicy(p retry.Policy) LoaderOption {
	return func(l *Loader) { l.policy = p }
}

// WithTypes overrides the pinned column kinds.
func WithTypes(types map[string]dataset.Kind) LoaderOption {
	return func(l *Loader) { l.options.Types = types }
}

// NewLoader creates a loader reading from the OS filesystem.
func NewLoader(logger pgetl.Logger, opts ...LoaderOption) *Loader {
	return NewLoaderWithFS(filesystem.NewOSFileSystem(), checksum.New(), logger, opts...)
}

// NewLoaderWithFS creates a loader over a custom filesystem provider.
// Panics if any dependency is nil.
func NewLoaderWithFS(fsProvider filesystem.FileSystemProvider, calculator checksum.Calculator, logger pgetl.Logger, opts ...LoaderOption) *Loader {
	if fsProvider == nil {
		panic("fsProvider cannot be nil")
	}
	if calculator == nil {
		panic("calculator cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	l := &Loader{
		fsProvider: fsProvider,
		calculator: calculator,
		logger:     logger,
		policy:     retry.IngestPolicy(),
		options:    Options{Types: transform.IngestionSchema()},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Discover resolves sourcePath into the files to load. A file yields
// itself; a directory yields every *.csv file beneath it in lexical order.
func (l *Loader) Discover(sourcePath string) ([]string, error) {
	info, err := l.fsProvider.Stat(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot access %s: %w", pgetl.ErrIngestionFailed, sourcePath, err)
	}
	if !info.IsDir() {
		return []string{sourcePath}, nil
	}

	dir, err := l.fsProvider.Open(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open directory: %w", pgetl.ErrIngestionFailed, err)
	}

	var paths []string
	err = dir.Walk(func(file filesystem.File, err error) error {
		if err != nil {
			return fmt.Errorf("error walking path: %w", err)
		}
		if file.Info().IsDir() {
			return nil
		}
		if strings.EqualFold(path.Ext(file.RelativePath()), ".csv") {
			paths = append(paths, file.Path())
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", pgetl.ErrIngestionFailed, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: no .csv files found under %s", pgetl.ErrIngestionFailed, sourcePath)
	}

	l.logger.Verbose("Discovered %d source file(s) under %s", len(paths), sourcePath)
	return paths, nil
}

// Load reads and parses one file, retrying transient read failures.
func (l *Loader) Load(ctx context.Context, filePath string) (*Source, error) {
	executor := l.policy.Executor(retry.NewFileErrorClassifier()).WithLogger(l.logger, "read of "+filePath)

	src, err := retry.Do(ctx, executor, func(ctx context.Context) (*Source, error) {
		return l.read(filePath)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", pgetl.ErrIngestionFailed, filePath, err)
	}

	l.logger.Verbose("Loaded %s: %d rows, %d columns, sha256 %s", filePath, src.Dataset.Height(), src.Dataset.Width(), shortSum(src.Checksum))
	return src, nil
}

func (l *Loader) read(filePath string) (*Source, error) {
	data, err := l.fsProvider.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	ds, err := ReadCSV(bytes.NewReader(data), l.options)
	if err != nil {
		var me *MalformedError
		if errors.As(err, &me) {
			me.Path = filePath
		}
		return nil, err
	}

	return &Source{
		Path:               filePath,
		Size:               int64(len(data)),
		Checksum:           l.calculator.CalculateRaw(data),
		ChecksumNormalized: l.calculator.CalculateNormalized(data),
		Dataset:            ds,
	}, nil
}

func shortSum(sum string) string {
	if len(sum) > 12 {
		return sum[:12]
	}
	return sum
}
