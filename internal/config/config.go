package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vvka-141/pgetl/internal/retry"
	"github.com/vvka-141/pgetl/pkg/pgetl"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

type ConnectionConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	Username       string `yaml:"username"`
	Database       string `yaml:"database"`
	SSLMode        string `yaml:"sslmode"`
	AuthMethod     string `yaml:"auth_method,omitempty"`
	AzureTenantID  string `yaml:"azure_tenant_id,omitempty"`
	AzureClientID  string `yaml:"azure_client_id,omitempty"`
	AWSRegion      string `yaml:"aws_region,omitempty"`
	GoogleInstance string `yaml:"google_instance,omitempty"`
}

// PipelineConfig holds storage defaults. Zero values mean "not set".
type PipelineConfig struct {
	Table     string `yaml:"table"`
	BatchSize int    `yaml:"batch_size"`
	Workers   int    `yaml:"workers"`
}

type RetryConfig struct {
	// MaxAttempts is a pointer so that an explicit 0 disables retries.
	MaxAttempts  *int   `yaml:"max_attempts"`
	InitialDelay string `yaml:"initial_delay"`
	MaxDelay     string `yaml:"max_delay"`
}

type ProjectConfig struct {
	Connection ConnectionConfig `yaml:"connection"`
	Pipeline   PipelineConfig   `yaml:"pipeline"`
	Retry      RetryConfig      `yaml:"retry"`
	Timeout    string           `yaml:"timeout"`
}

const ConfigFileName = "pgetl.yaml"

// Load reads pgetl.yaml from dir.
func Load(dir string) (*ProjectConfig, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads a config file at an explicit path.
func LoadFile(configPath string) (*ProjectConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", configPath, pgetl.ErrInvalidConfig, err)
	}
	return &cfg, nil
}

// Locate finds the config for a source path: pgetl.yaml next to the source
// file (or inside the source directory), then in the working directory.
func Locate(sourcePath string) (*ProjectConfig, error) {
	dir := sourcePath
	if info, err := os.Stat(sourcePath); err == nil && !info.IsDir() {
		dir = filepath.Dir(sourcePath)
	}
	cfg, err := Load(dir)
	if !errors.Is(err, ErrConfigNotFound) {
		return cfg, err
	}
	return Load(".")
}

// TimeoutDuration parses the timeout. ok is false when no timeout is set.
func (c *ProjectConfig) TimeoutDuration() (d time.Duration, ok bool, err error) {
	if c == nil || c.Timeout == "" {
		return 0, false, nil
	}
	d, err = time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, false, fmt.Errorf("invalid timeout in %s: %w: %w", ConfigFileName, pgetl.ErrInvalidConfig, err)
	}
	return d, true, nil
}

// RetryPolicy overlays the retry section onto base.
func (c *ProjectConfig) RetryPolicy(base retry.Policy) (retry.Policy, error) {
	if c == nil {
		return base, nil
	}
	p := base
	if c.Retry.MaxAttempts != nil {
		p.MaxAttempts = *c.Retry.MaxAttempts
	}
	var err error
	if p.InitialDelay, err = overlayDuration(p.InitialDelay, c.Retry.InitialDelay, "retry.initial_delay"); err != nil {
		return base, err
	}
	if p.MaxDelay, err = overlayDuration(p.MaxDelay, c.Retry.MaxDelay, "retry.max_delay"); err != nil {
		return base, err
	}
	if err := p.Validate(); err != nil {
		return base, err
	}
	return p, nil
}

func overlayDuration(current time.Duration, raw, key string) (time.Duration, error) {
	if raw == "" {
		return current, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return current, fmt.Errorf("invalid %s in %s: %w: %w", key, ConfigFileName, pgetl.ErrInvalidConfig, err)
	}
	return d, nil
}
