// Package testinfra starts disposable PostgreSQL servers for integration tests.
package testinfra

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	PostgresImage    = "postgres:17-alpine"
	PostgresUser     = "pgetl"
	PostgresPassword = "pgetl"
	PostgresDB       = "hospital"
)

type PostgresContainer struct {
	*postgres.PostgresContainer
	ConnString string
}

type settings struct {
	image       string
	initScripts []string
}

// Option customizes the container.
type Option func(*settings)

// WithImage overrides the PostgreSQL image.
func WithImage(image string) Option {
	return func(s *settings) { s.image = image }
}

// WithInitScripts runs SQL or shell scripts when the database is first created.
func WithInitScripts(paths ...string) Option {
	return func(s *settings) { s.initScripts = append(s.initScripts, paths...) }
}

// StartPostgres starts a PostgreSQL container without TLS and waits until
// it accepts connections.
func StartPostgres(ctx context.Context, opts ...Option) (*PostgresContainer, error) {
	s := settings{image: PostgresImage}
	for _, opt := range opts {
		opt(&s)
	}

	customizers := []testcontainers.ContainerCustomizer{
		postgres.WithUsername(PostgresUser),
		postgres.WithPassword(PostgresPassword),
		postgres.WithDatabase(PostgresDB),
		// The server restarts once after initdb, so the ready line appears twice.
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		),
	}
	if len(s.initScripts) > 0 {
		customizers = append(customizers, postgres.WithInitScripts(s.initScripts...))
	}

	ctr, err := postgres.Run(ctx, s.image, customizers...)
	if err != nil {
		return nil, fmt.Errorf("start postgres: %w", err)
	}

	connStr, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		ctr.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get connection string: %w", err)
	}

	return &PostgresContainer{PostgresContainer: ctr, ConnString: connStr}, nil
}

// RunWithPostgres is a TestMain helper: it starts one container for the
// whole package, hands it to setup, runs the tests and terminates the
// container. It returns the exit code for os.Exit.
func RunWithPostgres(m *testing.M, setup func(*PostgresContainer), opts ...Option) int {
	ctx := context.Background()

	ctr, err := StartPostgres(ctx, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "testinfra: %v\n", err)
		return 1
	}
	defer ctr.Terminate(ctx) //nolint:errcheck

	setup(ctr)
	return m.Run()
}
