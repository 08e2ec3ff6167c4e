package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/pgetl/internal/dataset"
	"github.com/vvka-141/pgetl/internal/ingest"
	"github.com/vvka-141/pgetl/internal/store"
	"github.com/vvka-141/pgetl/pkg/pgetl"
)

type mockConnector struct {
	pool *pgxpool.Pool
	err  error
}

func (m *mockConnector) Connect(_ context.Context) (*pgxpool.Pool, error) {
	return m.pool, m.err
}

type mockApprover struct {
	approved bool
	err      error
	calls    []string
}

func (m *mockApprover) RequestApproval(_ context.Context, target string) (bool, error) {
	m.calls = append(m.calls, target)
	return m.approved, m.err
}

// mockLoader serves datasets by path. Paths listed in loadErr fail.
type mockLoader struct {
	paths       []string
	discoverErr error
	sources     map[string]*dataset.Dataset
	loadErr     map[string]error
	loaded      []string
}

func (m *mockLoader) Discover(string) ([]string, error) {
	return m.paths, m.discoverErr
}

func (m *mockLoader) Load(_ context.Context, path string) (*ingest.Source, error) {
	m.loaded = append(m.loaded, path)
	if err := m.loadErr[path]; err != nil {
		return nil, err
	}
	ds, ok := m.sources[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s: no such file", pgetl.ErrIngestionFailed, path)
	}
	return &ingest.Source{
		Path:               path,
		Checksum:           "raw-" + path,
		ChecksumNormalized: "norm-" + path,
		Dataset:            ds,
	}, nil
}

// mockSink keeps written records and recorded runs in memory.
type mockSink struct {
	mu sync.Mutex

	table     store.Table
	opts      int
	ensured   bool
	truncated bool
	loaded    map[string]bool
	written   []store.Record
	runs      []store.LoadRun
	patients  []store.Patient

	ensureErr error
	writeErr  error
	headErr   error
}

func newMockSink() *mockSink {
	return &mockSink{loaded: map[string]bool{}}
}

func (m *mockSink) factory() SinkFactory {
	return func(_ pgetl.DBConnection, table store.Table, opts ...store.Option) Sink {
		m.table = table
		m.opts = len(opts)
		return m
	}
}

func (m *mockSink) EnsureSchema(context.Context) error {
	m.ensured = true
	return m.ensureErr
}

func (m *mockSink) Truncate(context.Context) error {
	m.truncated = true
	m.written = nil
	m.loaded = map[string]bool{}
	return nil
}

func (m *mockSink) HasChecksum(_ context.Context, normalized string) (bool, error) {
	return m.loaded[normalized], nil
}

func (m *mockSink) Write(_ context.Context, records []store.Record, _ pgtype.UUID) (int64, error) {
	if m.writeErr != nil {
		return 0, m.writeErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.written = append(m.written, records...)
	return int64(len(records)), nil
}

func (m *mockSink) RecordRun(_ context.Context, run store.LoadRun) error {
	m.runs = append(m.runs, run)
	m.loaded[run.ChecksumNormalized] = true
	return nil
}

func (m *mockSink) Head(_ context.Context, limit int) ([]store.Patient, error) {
	if m.headErr != nil {
		return nil, m.headErr
	}
	return m.patients[:min(limit, len(m.patients))], nil
}

func (m *mockSink) Count(context.Context) (int64, error) {
	return int64(len(m.patients)), nil
}

// stubConnect replaces the database connection with nothing; the mock sink
// never touches it.
func stubConnect(err error) connectFunc {
	return func(context.Context, string, pgetl.AuthConfig) (pgetl.DBConnection, func(), error) {
		if err != nil {
			return nil, nil, err
		}
		return nil, func() {}, nil
	}
}
