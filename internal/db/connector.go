package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/pgetl/internal/logging"
	"github.com/vvka-141/pgetl/internal/retry"
	"github.com/vvka-141/pgetl/pkg/pgetl"
)

const (
	// DefaultMinConns maintains at least one connection in the pool.
	DefaultMinConns = 1

	// DefaultMaxConnIdleTime keeps connections warm between source files.
	DefaultMaxConnIdleTime = 30 * time.Minute
)

// Option configures a connector.
type Option func(*options)

type options struct {
	logger   pgetl.Logger
	policy   retry.Policy
	maxConns int32
}

func defaultOptions() options {
	return options{
		logger:   logging.NewNullLogger(),
		policy:   retry.DefaultPolicy(),
		maxConns: pgetl.DefaultMaxConns,
	}
}

// WithLogger routes retry messages and server notices to logger.
func WithLogger(logger pgetl.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithPolicy overrides the connection retry policy.
func WithPolicy(p retry.Policy) Option {
	return func(o *options) { o.policy = p }
}

// WithMaxConns sets the pool size. The batch writer never has more than
// this many batches in flight.
func WithMaxConns(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxConns = int32(n)
		}
	}
}

func (o options) executor(what string) *retry.Executor {
	return o.policy.Executor(retry.NewPostgreSQLErrorClassifier()).WithLogger(o.logger, what)
}

func (o options) configurePool(poolConfig *pgxpool.Config) {
	poolConfig.MaxConns = o.maxConns
	poolConfig.MinConns = DefaultMinConns
	poolConfig.MaxConnIdleTime = DefaultMaxConnIdleTime
	logger := o.logger
	poolConfig.ConnConfig.OnNotice = func(_ *pgconn.PgConn, notice *pgconn.Notice) {
		logger.Verbose("server %s: %s", strings.ToLower(notice.Severity), notice.Message)
	}
}

// StandardConnector implements the Connector interface for standard
// username/password authentication with automatic retry on transient failures.
type StandardConnector struct {
	config *pgetl.ConnectionConfig
	opts   options
}

// NewStandardConnector creates a new StandardConnector with the given configuration.
// Retry behavior defaults to retry.DefaultPolicy.
func NewStandardConnector(config *pgetl.ConnectionConfig, opts ...Option) *StandardConnector {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &StandardConnector{config: config, opts: o}
}

// Connect establishes a connection pool using standard authentication with automatic retry.
func (c *StandardConnector) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	connStr := BuildConnectionString(c.config)
	executor := c.opts.executor(fmt.Sprintf("connection to %s:%d", c.config.Host, c.config.Port))

	return retry.Do(ctx, executor, func(ctx context.Context) (*pgxpool.Pool, error) {
		return openPool(ctx, connStr, c.config, c.opts)
	})
}

// openPool parses connStr, opens a pool and pings it.
func openPool(ctx context.Context, connStr string, config *pgetl.ConnectionConfig, o options) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection config: %w", err)
	}
	o.configurePool(poolConfig)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, wrapConnectionError(err, config.Host, config.Port, config.Database)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, wrapConnectionError(err, config.Host, config.Port, config.Database)
	}
	return pool, nil
}

// NewConnector is a factory function that creates the appropriate Connector
// based on the ConnectionConfig's AuthMethod.
func NewConnector(config *pgetl.ConnectionConfig, opts ...Option) (pgetl.Connector, error) {
	switch config.AuthMethod {
	case pgetl.AuthMethodStandard:
		return NewStandardConnector(config, opts...), nil
	case pgetl.AuthMethodAWSIAM:
		return newAWSConnector(config, opts...)
	case pgetl.AuthMethodGoogleIAM:
		return newGoogleConnector(config, opts...)
	case pgetl.AuthMethodAzureEntraID:
		return newAzureConnector(config, opts...)
	default:
		return nil, fmt.Errorf("unsupported auth method %v: %w", config.AuthMethod, pgetl.ErrUnsupportedAuthMethod)
	}
}

// wrapConnectionError wraps raw pgx connection errors with actionable guidance.
// The result always wraps both err and pgetl.ErrConnectionFailed, so the
// retry classifier still sees the driver error.
func wrapConnectionError(err error, host string, port int, database string) error {
	errStr := strings.ToLower(err.Error())
	addr := fmt.Sprintf("%s:%d", host, port)

	var hint string
	switch {
	case strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "actively refused"):
		hint = fmt.Sprintf(`connection refused to %s

Possible causes:
  - PostgreSQL is not running (check: pg_isready -h %s -p %d)
  - Wrong host or port
  - Firewall blocking the connection`, addr, host, port)

	case strings.Contains(errStr, "no such host") || strings.Contains(errStr, "no host"):
		hint = fmt.Sprintf(`cannot resolve host "%s"

Possible causes:
  - Hostname is misspelled
  - DNS is not configured or reachable`, host)

	case strings.Contains(errStr, "password authentication failed"):
		hint = fmt.Sprintf(`password authentication failed for database "%s"

Possible causes:
  - Wrong password (check $PGPASSWORD or the connection string)
  - Wrong username
  - User does not have access to the database`, database)

	case strings.Contains(errStr, "does not exist"):
		hint = fmt.Sprintf(`database "%s" does not exist

To create it:
  createdb %s`, database, database)

	case strings.Contains(errStr, "timeout") || strings.Contains(errStr, "timed out"):
		hint = fmt.Sprintf(`connection timed out to %s

Possible causes:
  - Server is overloaded or unresponsive
  - Firewall silently dropping packets
  - Wrong host/port (server not listening)`, addr)

	case strings.Contains(errStr, "ssl") || strings.Contains(errStr, "tls"):
		hint = `SSL/TLS connection error

Possible causes:
  - Server requires SSL but --sslmode is wrong
  - Certificate verification failed (try --sslmode=require)`

	case strings.Contains(errStr, "too many connections"):
		hint = fmt.Sprintf(`too many connections to database "%s"

Possible causes:
  - max_connections limit reached in postgresql.conf
  - --workers is larger than the server can serve`, database)

	default:
		return fmt.Errorf("%w: %w", pgetl.ErrConnectionFailed, err)
	}
	return fmt.Errorf("%w: %s\n\nOriginal error: %w", pgetl.ErrConnectionFailed, hint, err)
}

// newAWSConnector creates a token-based connector with the AWS IAM token provider.
func newAWSConnector(config *pgetl.ConnectionConfig, opts ...Option) (pgetl.Connector, error) {
	endpoint := fmt.Sprintf("%s:%d", config.Host, config.Port)

	tokenProvider, err := NewAWSIAMTokenProvider(endpoint, config.AWSRegion, config.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS IAM token provider: %w", err)
	}

	return NewTokenBasedConnector(config, tokenProvider, "AWS IAM", opts...), nil
}

// newGoogleConnector creates a GoogleCloudSQLConnector for Google Cloud SQL IAM authentication.
func newGoogleConnector(config *pgetl.ConnectionConfig, opts ...Option) (pgetl.Connector, error) {
	if config.GoogleInstance == "" {
		return nil, fmt.Errorf("Google Cloud SQL IAM auth requires --google-instance (project:region:instance): %w", pgetl.ErrInvalidConfig)
	}
	if config.Username == "" {
		return nil, fmt.Errorf("Google Cloud SQL IAM auth requires username (-U): %w", pgetl.ErrInvalidConfig)
	}

	return NewGoogleCloudSQLConnector(config, config.GoogleInstance, opts...), nil
}

// newAzureConnector creates a token-based connector with the Azure Entra ID token provider.
// If explicit credentials (tenant, client, secret) are provided, uses Service Principal auth.
// Otherwise, falls back to DefaultAzureCredential chain.
func newAzureConnector(config *pgetl.ConnectionConfig, opts ...Option) (pgetl.Connector, error) {
	var tokenProvider TokenProvider
	var err error

	if config.AzureTenantID != "" && config.AzureClientID != "" && config.AzureClientSecret != "" {
		tokenProvider, err = NewAzureServicePrincipalProvider(
			config.AzureTenantID,
			config.AzureClientID,
			config.AzureClientSecret,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create Azure Service Principal provider: %w", err)
		}
	} else {
		tokenProvider, err = NewAzureDefaultCredentialProvider()
		if err != nil {
			return nil, fmt.Errorf("failed to create Azure Default Credential provider: %w", err)
		}
	}

	return NewTokenBasedConnector(config, tokenProvider, "Azure", opts...), nil
}
