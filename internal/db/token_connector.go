package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/pgetl/internal/retry"
	"github.com/vvka-141/pgetl/pkg/pgetl"
)

// tokenExpiryWarning is how close to expiry a freshly acquired token has to
// be before a warning is logged. A load that outlives its token keeps the
// connections it already opened but cannot open new ones.
const tokenExpiryWarning = 5 * time.Minute

// TokenBasedConnector implements the Connector interface for cloud providers
// that authenticate via short-lived tokens (AWS IAM, Azure Entra ID).
// The token is acquired from a TokenProvider and used as the PostgreSQL password.
type TokenBasedConnector struct {
	config        *pgetl.ConnectionConfig
	tokenProvider TokenProvider
	providerName  string
	opts          options
}

// NewTokenBasedConnector creates a connector that uses a TokenProvider for authentication.
// providerName is used in error/warning messages (e.g., "AWS IAM", "Azure").
func NewTokenBasedConnector(config *pgetl.ConnectionConfig, tokenProvider TokenProvider, providerName string, opts ...Option) *TokenBasedConnector {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &TokenBasedConnector{
		config:        config,
		tokenProvider: tokenProvider,
		providerName:  providerName,
		opts:          o,
	}
}

func (c *TokenBasedConnector) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	executor := c.opts.executor(fmt.Sprintf("%s connection to %s:%d", c.providerName, c.config.Host, c.config.Port))

	return retry.Do(ctx, executor, func(ctx context.Context) (*pgxpool.Pool, error) {
		connStr, err := c.connectionString(ctx)
		if err != nil {
			return nil, err
		}
		return openPool(ctx, connStr, c.config, c.opts)
	})
}

// connectionString acquires a fresh token and builds a connection string
// using it as the password.
func (c *TokenBasedConnector) connectionString(ctx context.Context) (string, error) {
	token, expiresOn, err := c.tokenProvider.GetToken(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to acquire %s token from %s: %w: %w", c.providerName, c.tokenProvider, pgetl.ErrConnectionFailed, err)
	}

	if remaining := time.Until(expiresOn); remaining < tokenExpiryWarning {
		c.opts.logger.Info("Warning: %s token expires in %v", c.providerName, remaining.Round(time.Second))
	}

	configWithToken := *c.config
	configWithToken.Password = token
	return BuildConnectionString(&configWithToken), nil
}
