package db

import (
	"fmt"
	"os"
	"strconv"

	"github.com/vvka-141/pgetl/internal/config"
	"github.com/vvka-141/pgetl/pkg/pgetl"
)

// GranularConnFlags represents connection parameters from CLI flags.
// These follow PostgreSQL standard flag conventions (-h, -p, -U, -d).
//
// Password is not a flag. Use $PGPASSWORD or a connection string instead.
type GranularConnFlags struct {
	Host     string
	Port     int
	Username string
	Database string
	SSLMode  string
}

// IsEmpty returns true if no connection-related granular flags were provided by the user.
// Database is excluded because -d may override the database of a connection string.
func (g *GranularConnFlags) IsEmpty() bool {
	return g.Host == "" && g.Port == 0 && g.Username == "" && g.SSLMode == ""
}

// CloudFlags selects a cloud authentication method. At most one provider
// may be enabled.
type CloudFlags struct {
	Azure         bool
	AzureTenantID string // Overrides AZURE_TENANT_ID
	AzureClientID string // Overrides AZURE_CLIENT_ID

	AWS       bool
	AWSRegion string // Overrides AWS_REGION

	Google         bool
	GoogleInstance string
}

func (c *CloudFlags) enabledCount() int {
	n := 0
	for _, on := range []bool{c.Azure, c.AWS, c.Google} {
		if on {
			n++
		}
	}
	return n
}

// EnvVars represents PostgreSQL standard environment variables plus the
// pgetl and cloud SDK variables that affect connection resolution.
// See: https://www.postgresql.org/docs/current/libpq-envars.html
type EnvVars struct {
	PGHOST     string
	PGPORT     string
	PGUSER     string
	PGPASSWORD string
	PGDATABASE string
	PGSSLMODE  string

	PGETL_CONNECTION_STRING string
	DATABASE_URL            string // Heroku/Rails convention

	AZURE_TENANT_ID     string
	AZURE_CLIENT_ID     string
	AZURE_CLIENT_SECRET string // Service Principal secret, never a flag

	AWS_REGION string
}

// LoadFromEnvironment reads the variables EnvVars describes.
func LoadFromEnvironment() *EnvVars {
	return &EnvVars{
		PGHOST:                  os.Getenv("PGHOST"),
		PGPORT:                  os.Getenv("PGPORT"),
		PGUSER:                  os.Getenv("PGUSER"),
		PGPASSWORD:              os.Getenv("PGPASSWORD"),
		PGDATABASE:              os.Getenv("PGDATABASE"),
		PGSSLMODE:               os.Getenv("PGSSLMODE"),
		PGETL_CONNECTION_STRING: os.Getenv("PGETL_CONNECTION_STRING"),
		DATABASE_URL:            os.Getenv("DATABASE_URL"),
		AZURE_TENANT_ID:         os.Getenv("AZURE_TENANT_ID"),
		AZURE_CLIENT_ID:         os.Getenv("AZURE_CLIENT_ID"),
		AZURE_CLIENT_SECRET:     os.Getenv("AZURE_CLIENT_SECRET"),
		AWS_REGION:              os.Getenv("AWS_REGION"),
	}
}

// connectionString returns the environment connection string, preferring
// PGETL_CONNECTION_STRING over DATABASE_URL.
func (e *EnvVars) connectionString() string {
	if e.PGETL_CONNECTION_STRING != "" {
		return e.PGETL_CONNECTION_STRING
	}
	return e.DATABASE_URL
}

// ResolveConnectionParams resolves connection parameters using PostgreSQL-standard precedence:
//
//  1. --connection flag
//  2. Granular flags (-h, -p, -U) and, when none are given,
//     $PGETL_CONNECTION_STRING or $DATABASE_URL
//  3. Per-parameter: flag > PG* environment variable > pgetl.yaml > default
//
// The -d flag overrides the database of any connection string.
// Cloud authentication is applied last: flags first, then pgetl.yaml's
// auth_method, then Azure environment credentials.
//
// Returns an error if both --connection and granular flags are given, or if
// more than one cloud provider is selected.
func ResolveConnectionParams(
	connStringFlag string,
	granularFlags *GranularConnFlags,
	cloudFlags *CloudFlags,
	envVars *EnvVars,
	projectConfig *config.ProjectConfig,
) (*pgetl.ConnectionConfig, error) {
	if granularFlags == nil {
		granularFlags = &GranularConnFlags{}
	}
	if cloudFlags == nil {
		cloudFlags = &CloudFlags{}
	}
	if envVars == nil {
		envVars = &EnvVars{}
	}
	var pc config.ConnectionConfig
	if projectConfig != nil {
		pc = projectConfig.Connection
	}

	if connStringFlag != "" && !granularFlags.IsEmpty() {
		return nil, fmt.Errorf(
			"cannot specify both --connection and granular flags (-h, -p, -U): %w\n"+
				"Choose one approach:\n"+
				"  1. Connection string: --connection \"postgresql://user@localhost:5432/hospital\"\n"+
				"  2. Granular flags: -h localhost -p 5432 -U myuser -d hospital\n"+
				"  3. Environment variables: export PGHOST=localhost PGPORT=5432 PGUSER=myuser",
			pgetl.ErrInvalidConfig,
		)
	}
	if cloudFlags.enabledCount() > 1 {
		return nil, fmt.Errorf("--azure, --aws and --google are mutually exclusive: %w", pgetl.ErrInvalidConfig)
	}

	var cfg *pgetl.ConnectionConfig
	var err error
	connStr := connStringFlag
	if connStr == "" && granularFlags.IsEmpty() {
		connStr = envVars.connectionString()
	}
	if connStr != "" {
		cfg, err = resolveFromConnectionString(connStr, envVars)
	} else {
		cfg, err = resolveFromGranularParams(granularFlags, envVars, pc)
	}
	if err != nil {
		return nil, err
	}

	if granularFlags.Database != "" {
		cfg.Database = granularFlags.Database
	}

	if err := applyCloudAuth(cfg, cloudFlags, envVars, pc); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolveFromConnectionString parses a connection string and applies
// environment fallbacks the way libpq does for missing parameters.
func resolveFromConnectionString(connStr string, envVars *EnvVars) (*pgetl.ConnectionConfig, error) {
	cfg, err := ParseConnectionString(connStr)
	if err != nil {
		return nil, fmt.Errorf("invalid connection string: %w: %w", pgetl.ErrInvalidConfig, err)
	}

	if cfg.Password == "" {
		cfg.Password = envVars.PGPASSWORD
	}
	if cfg.SSLMode == "" {
		cfg.SSLMode = firstNonEmpty(envVars.PGSSLMODE, "prefer")
	}
	return cfg, nil
}

// resolveFromGranularParams builds a ConnectionConfig with
// flag > environment > pgetl.yaml > default precedence per parameter.
func resolveFromGranularParams(flags *GranularConnFlags, envVars *EnvVars, pc config.ConnectionConfig) (*pgetl.ConnectionConfig, error) {
	cfg := &pgetl.ConnectionConfig{
		AuthMethod:       pgetl.AuthMethodStandard,
		AdditionalParams: make(map[string]string),
	}

	cfg.Host = firstNonEmpty(flags.Host, envVars.PGHOST, pc.Host, "localhost")

	switch {
	case flags.Port != 0:
		cfg.Port = flags.Port
	case envVars.PGPORT != "":
		port, err := strconv.Atoi(envVars.PGPORT)
		if err != nil || port <= 0 || port > 65535 {
			return nil, fmt.Errorf("invalid $PGPORT value '%s': must be an integer between 1 and 65535: %w", envVars.PGPORT, pgetl.ErrInvalidConfig)
		}
		cfg.Port = port
	case pc.Port != 0:
		cfg.Port = pc.Port
	default:
		cfg.Port = 5432
	}

	cfg.Username = firstNonEmpty(flags.Username, envVars.PGUSER, pc.Username, os.Getenv("USER"), os.Getenv("USERNAME"))
	cfg.Password = envVars.PGPASSWORD

	// libpq defaults the database name to the user name.
	cfg.Database = firstNonEmpty(flags.Database, envVars.PGDATABASE, pc.Database, cfg.Username)
	cfg.SSLMode = firstNonEmpty(flags.SSLMode, envVars.PGSSLMODE, pc.SSLMode, "prefer")

	return cfg, nil
}

// applyCloudAuth selects the authentication method and copies the provider
// settings onto cfg.
func applyCloudAuth(cfg *pgetl.ConnectionConfig, flags *CloudFlags, env *EnvVars, pc config.ConnectionConfig) error {
	method := pgetl.AuthMethodStandard
	switch {
	case flags.Azure:
		method = pgetl.AuthMethodAzureEntraID
	case flags.AWS:
		method = pgetl.AuthMethodAWSIAM
	case flags.Google:
		method = pgetl.AuthMethodGoogleIAM
	case pc.AuthMethod != "":
		parsed, err := pgetl.ParseAuthMethod(pc.AuthMethod)
		if err != nil {
			return fmt.Errorf("invalid auth_method in %s: %w", config.ConfigFileName, err)
		}
		method = parsed
	case flags.AzureTenantID != "" || flags.AzureClientID != "" || env.AZURE_TENANT_ID != "" || env.AZURE_CLIENT_ID != "":
		method = pgetl.AuthMethodAzureEntraID
	}

	auth := pgetl.AuthConfig{Method: method}
	switch method {
	case pgetl.AuthMethodAzureEntraID:
		auth.AzureTenantID = firstNonEmpty(flags.AzureTenantID, env.AZURE_TENANT_ID, pc.AzureTenantID)
		auth.AzureClientID = firstNonEmpty(flags.AzureClientID, env.AZURE_CLIENT_ID, pc.AzureClientID)
		auth.AzureClientSecret = env.AZURE_CLIENT_SECRET
	case pgetl.AuthMethodAWSIAM:
		auth.AWSRegion = firstNonEmpty(flags.AWSRegion, env.AWS_REGION, pc.AWSRegion)
	case pgetl.AuthMethodGoogleIAM:
		auth.GoogleInstance = firstNonEmpty(flags.GoogleInstance, pc.GoogleInstance)
	}
	cfg.ApplyAuth(auth)
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
