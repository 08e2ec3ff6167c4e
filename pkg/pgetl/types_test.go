package pgetl_test

import (
	"errors"
	"testing"
	"time"

	"github.com/vvka-141/pgetl/pkg/pgetl"
)

func validRunConfig() pgetl.RunConfig {
	return pgetl.RunConfig{
		SourcePath:       "./data/patients.csv",
		ConnectionString: "postgresql://localhost:5432/hospital",
		Table:            pgetl.DefaultTable,
		BatchSize:        pgetl.DefaultBatchSize,
		Workers:          pgetl.DefaultWorkers,
	}
}

func TestRunConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *pgetl.RunConfig)
		wantError bool
	}{
		{name: "valid config", mutate: func(c *pgetl.RunConfig) {}},
		{name: "valid config with replace and force", mutate: func(c *pgetl.RunConfig) {
			c.Replace = true
			c.Force = true
		}},
		{name: "missing source path", mutate: func(c *pgetl.RunConfig) { c.SourcePath = "" }, wantError: true},
		{name: "missing connection string", mutate: func(c *pgetl.RunConfig) { c.ConnectionString = "" }, wantError: true},
		{name: "invalid table", mutate: func(c *pgetl.RunConfig) { c.Table = "patients; drop" }, wantError: true},
		{name: "zero batch size", mutate: func(c *pgetl.RunConfig) { c.BatchSize = 0 }, wantError: true},
		{name: "zero workers", mutate: func(c *pgetl.RunConfig) { c.Workers = 0 }, wantError: true},
		{name: "force without replace", mutate: func(c *pgetl.RunConfig) { c.Force = true }, wantError: true},
		{name: "negative timeout", mutate: func(c *pgetl.RunConfig) { c.Timeout = -1 * time.Second }, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validRunConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()

			if tt.wantError {
				if err == nil {
					t.Fatalf("Validate() expected error, got nil")
				}
				if !errors.Is(err, pgetl.ErrInvalidConfig) {
					t.Errorf("Validate() error = %v, want ErrInvalidConfig", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}

func TestRunConfig_ValidateReportsEveryProblem(t *testing.T) {
	cfg := pgetl.RunConfig{Force: true, Timeout: -time.Second}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}

	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		t.Fatalf("expected joined error, got %T", err)
	}
	// source, connection, table, batch size, workers, force, timeout
	if got := len(joined.Unwrap()); got != 7 {
		t.Errorf("got %d errors, want 7: %v", got, err)
	}
}

func TestPreviewConfig_Validate(t *testing.T) {
	ok := pgetl.PreviewConfig{ConnectionString: "postgresql://localhost/db", Table: "patients", Limit: 5}
	if err := ok.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	bad := pgetl.PreviewConfig{Table: "patients", Limit: 0}
	if err := bad.Validate(); !errors.Is(err, pgetl.ErrInvalidConfig) {
		t.Errorf("Validate() error = %v, want ErrInvalidConfig", err)
	}
}

func TestInspectConfig_Validate(t *testing.T) {
	if err := (&pgetl.InspectConfig{}).Validate(); !errors.Is(err, pgetl.ErrInvalidConfig) {
		t.Errorf("Validate() error = %v, want ErrInvalidConfig", err)
	}
	if err := (&pgetl.InspectConfig{SourcePath: "x.csv"}).Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateTableName(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"patients", false},
		{"staging.patients", false},
		{"_tmp_2024", false},
		{"", true},
		{"Patients", true},
		{"2024_patients", true},
		{"a.b.c", true},
		{".patients", true},
		{"patients.", true},
		{"patients;drop", true},
		{"pat ients", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := pgetl.ValidateTableName(tt.name)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTableName(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
		})
	}
}

func TestAuthMethod_String(t *testing.T) {
	tests := []struct {
		method pgetl.AuthMethod
		want   string
	}{
		{pgetl.AuthMethodStandard, "Standard"},
		{pgetl.AuthMethodAWSIAM, "AWS IAM"},
		{pgetl.AuthMethodGoogleIAM, "Google IAM"},
		{pgetl.AuthMethodAzureEntraID, "Azure Entra ID"},
		{pgetl.AuthMethod(99), "Unknown(99)"},
	}

	for _, tt := range tests {
		if got := tt.method.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestAuthMethod_IsValid(t *testing.T) {
	if !pgetl.AuthMethodAzureEntraID.IsValid() {
		t.Error("AuthMethodAzureEntraID should be valid")
	}
	if pgetl.AuthMethod(-1).IsValid() || pgetl.AuthMethod(10).IsValid() {
		t.Error("out of range methods should be invalid")
	}
}

func TestParseAuthMethod(t *testing.T) {
	tests := []struct {
		name string
		want pgetl.AuthMethod
	}{
		{"", pgetl.AuthMethodStandard},
		{"standard", pgetl.AuthMethodStandard},
		{"AWS", pgetl.AuthMethodAWSIAM},
		{"google", pgetl.AuthMethodGoogleIAM},
		{" azure ", pgetl.AuthMethodAzureEntraID},
	}
	for _, tt := range tests {
		got, err := pgetl.ParseAuthMethod(tt.name)
		if err != nil {
			t.Fatalf("ParseAuthMethod(%q) error: %v", tt.name, err)
		}
		if got != tt.want {
			t.Errorf("ParseAuthMethod(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}

	if _, err := pgetl.ParseAuthMethod("kerberos"); !errors.Is(err, pgetl.ErrUnsupportedAuthMethod) {
		t.Errorf("expected ErrUnsupportedAuthMethod, got %v", err)
	}
}

func TestConnectionConfig_ApplyAuth(t *testing.T) {
	cfg := &pgetl.ConnectionConfig{Host: "db"}
	cfg.ApplyAuth(pgetl.AuthConfig{Method: pgetl.AuthMethodAWSIAM, AWSRegion: "eu-west-1"})

	if cfg.AuthMethod != pgetl.AuthMethodAWSIAM || cfg.AWSRegion != "eu-west-1" {
		t.Errorf("ApplyAuth did not copy settings: %+v", cfg)
	}
	if cfg.Host != "db" {
		t.Errorf("ApplyAuth changed Host to %q", cfg.Host)
	}
}
