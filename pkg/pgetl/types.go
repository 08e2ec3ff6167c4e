package pgetl

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// RunConfig contains all parameters needed for a load run.
type RunConfig struct {
	// SourcePath is a CSV file or a directory searched recursively for *.csv files
	SourcePath string

	// ConnectionString is the PostgreSQL connection string (URI or ADO.NET format)
	ConnectionString string

	// Table is the target table for patient records
	Table string

	// BatchSize is the number of rows per insert batch
	BatchSize int

	// Workers bounds the number of batches written concurrently
	Workers int

	// Replace truncates the target table before loading
	Replace bool

	// Force bypasses interactive approval when used with Replace
	Force bool

	// Reload loads sources even if their checksum was already recorded
	Reload bool

	// Timeout is the global timeout for the entire run
	Timeout time.Duration

	// Verbose enables detailed logging
	Verbose bool

	Auth AuthConfig
}

// Validate checks if the RunConfig has all required fields and valid values.
// It returns a multi-error if multiple validation failures occur.
func (c *RunConfig) Validate() error {
	var errs []error

	if c.SourcePath == "" {
		errs = append(errs, fmt.Errorf("SourcePath is required: %w", ErrInvalidConfig))
	}

	if c.ConnectionString == "" {
		errs = append(errs, fmt.Errorf("ConnectionString is required: %w", ErrInvalidConfig))
	}

	if err := ValidateTableName(c.Table); err != nil {
		errs = append(errs, err)
	}

	if c.BatchSize <= 0 {
		errs = append(errs, fmt.Errorf("batch size must be positive, got %d: %w", c.BatchSize, ErrInvalidConfig))
	}

	if c.Workers <= 0 {
		errs = append(errs, fmt.Errorf("workers must be positive, got %d: %w", c.Workers, ErrInvalidConfig))
	}

	// Force requires Replace to be set
	if c.Force && !c.Replace {
		errs = append(errs, fmt.Errorf("force flag requires replace to be enabled: %w", ErrInvalidConfig))
	}

	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout cannot be negative: %w", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// InspectConfig contains the parameters for a dry run that transforms
// sources without touching a database.
type InspectConfig struct {
	SourcePath string

	// ParquetPath, when set, receives the transformed rows of every source
	ParquetPath string

	Verbose bool
}

// Validate checks if the InspectConfig has all required fields.
func (c *InspectConfig) Validate() error {
	if c.SourcePath == "" {
		return fmt.Errorf("SourcePath is required: %w", ErrInvalidConfig)
	}
	return nil
}

// PreviewConfig contains the parameters for reading stored rows back.
type PreviewConfig struct {
	ConnectionString string
	Table            string
	Limit            int
	Timeout          time.Duration
	Verbose          bool
	Auth             AuthConfig
}

// Validate checks if the PreviewConfig has all required fields and valid values.
func (c *PreviewConfig) Validate() error {
	var errs []error

	if c.ConnectionString == "" {
		errs = append(errs, fmt.Errorf("ConnectionString is required: %w", ErrInvalidConfig))
	}

	if err := ValidateTableName(c.Table); err != nil {
		errs = append(errs, err)
	}

	if c.Limit <= 0 {
		errs = append(errs, fmt.Errorf("limit must be positive, got %d: %w", c.Limit, ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// ValidateTableName accepts an optionally schema-qualified lowercase
// identifier such as "patients" or "staging.patients".
func ValidateTableName(name string) error {
	if name == "" {
		return fmt.Errorf("table name is required: %w", ErrInvalidConfig)
	}
	schemaSeen := false
	start := true
	for i, r := range name {
		switch {
		case r == '.':
			if start || schemaSeen || i == len(name)-1 {
				return fmt.Errorf("invalid table name %q: %w", name, ErrInvalidConfig)
			}
			schemaSeen = true
			start = true
			continue
		case r == '_' || (r >= 'a' && r <= 'z'):
		case r >= '0' && r <= '9':
			if start {
				return fmt.Errorf("invalid table name %q: %w", name, ErrInvalidConfig)
			}
		default:
			return fmt.Errorf("invalid table name %q: %w", name, ErrInvalidConfig)
		}
		start = false
	}
	return nil
}

// AuthConfig carries cloud authentication settings that cannot be expressed
// in a connection string.
type AuthConfig struct {
	// Method indicates the authentication mechanism to use
	Method AuthMethod

	AzureTenantID     string
	AzureClientID     string
	AzureClientSecret string

	AWSRegion      string
	GoogleInstance string
}

// ConnectionConfig represents parsed connection parameters.
type ConnectionConfig struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
	SSLMode  string

	// AuthMethod indicates the authentication mechanism to use
	AuthMethod AuthMethod

	// Additional connection parameters
	AppName          string
	ConnectTimeout   time.Duration
	AdditionalParams map[string]string

	// Azure Entra ID authentication parameters (used when AuthMethod is AuthMethodAzureEntraID)
	// If all three are provided, Service Principal authentication is used.
	// If none are provided, DefaultAzureCredential chain is used (env vars, managed identity, CLI, etc.)
	AzureTenantID     string
	AzureClientID     string
	AzureClientSecret string

	// AWSRegion is required for AWS IAM token generation
	AWSRegion string

	// GoogleInstance is the Cloud SQL instance connection name (project:region:instance)
	GoogleInstance string
}

// ApplyAuth copies cloud authentication settings onto the connection config.
func (c *ConnectionConfig) ApplyAuth(a AuthConfig) {
	c.AuthMethod = a.Method
	c.AzureTenantID = a.AzureTenantID
	c.AzureClientID = a.AzureClientID
	c.AzureClientSecret = a.AzureClientSecret
	c.AWSRegion = a.AWSRegion
	c.GoogleInstance = a.GoogleInstance
}

// AuthMethod represents the type of authentication to use.
type AuthMethod int

const (
	AuthMethodStandard     AuthMethod = iota // Username/Password
	AuthMethodAWSIAM                         // AWS IAM Database Authentication
	AuthMethodGoogleIAM                      // Google Cloud SQL IAM
	AuthMethodAzureEntraID                   // Azure Active Directory (Entra ID)
)

// String returns a human-readable string representation of the AuthMethod.
func (a AuthMethod) String() string {
	switch a {
	case AuthMethodStandard:
		return "Standard"
	case AuthMethodAWSIAM:
		return "AWS IAM"
	case AuthMethodGoogleIAM:
		return "Google IAM"
	case AuthMethodAzureEntraID:
		return "Azure Entra ID"
	default:
		return fmt.Sprintf("Unknown(%d)", a)
	}
}

// ParseAuthMethod accepts the names used in pgetl.yaml: standard, aws,
// google and azure (case-insensitive).
func ParseAuthMethod(name string) (AuthMethod, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "standard", "password":
		return AuthMethodStandard, nil
	case "aws", "aws-iam", "aws_iam":
		return AuthMethodAWSIAM, nil
	case "google", "google-iam", "google_iam", "gcp":
		return AuthMethodGoogleIAM, nil
	case "azure", "azure-entra-id", "entra":
		return AuthMethodAzureEntraID, nil
	}
	return AuthMethodStandard, fmt.Errorf("unknown auth method %q: %w", name, ErrUnsupportedAuthMethod)
}

// IsValid returns true if the AuthMethod is a valid, defined value.
func (a AuthMethod) IsValid() bool {
	return a >= AuthMethodStandard && a <= AuthMethodAzureEntraID
}
