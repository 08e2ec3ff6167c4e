package testinfra

import (
	"context"
	"os"
	"sync"
	"testing"
)

// TestConnEnv points integration tests at an existing server instead of a
// container.
const TestConnEnv = "PGETL_TEST_CONN"

var (
	sharedOnce sync.Once
	sharedConn string
	sharedErr  error
)

func sharedContainer() (string, error) {
	sharedOnce.Do(func() {
		ctr, err := StartPostgres(context.Background())
		if err != nil {
			sharedErr = err
			return
		}
		sharedConn = ctr.ConnString
	})
	return sharedConn, sharedErr
}

// GetTestConnectionString returns the test database connection string.
// Priority: PGETL_TEST_CONN env var > auto-started testcontainer > skip test.
// The container lives until the test binary exits.
func GetTestConnectionString(t *testing.T) string {
	t.Helper()

	if connString := os.Getenv(TestConnEnv); connString != "" {
		return connString
	}

	connString, err := sharedContainer()
	if err != nil {
		t.Skipf("%s not set and Docker unavailable: %v", TestConnEnv, err)
	}
	return connString
}

// RequireDatabase skips the test in -short mode and otherwise returns a
// connection string.
func RequireDatabase(t *testing.T) string {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	return GetTestConnectionString(t)
}
