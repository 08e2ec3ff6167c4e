package db

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vvka-141/pgetl/pkg/pgetl"
)

func TestWrapConnectionError(t *testing.T) {
	tests := []struct {
		name         string
		errMsg       string
		host         string
		database     string
		wantContains string
	}{
		{"connection refused", "dial tcp 127.0.0.1:5432: connection refused", "127.0.0.1", "hospital", "connection refused to 127.0.0.1:5432"},
		{"actively refused (Windows)", "connectex: No connection could be made because the target machine actively refused it", "127.0.0.1", "hospital", "connection refused to 127.0.0.1:5432"},
		{"no such host", "dial tcp: lookup badhost.example.com: no such host", "badhost.example.com", "hospital", `cannot resolve host "badhost.example.com"`},
		{"password auth failed", `password authentication failed for user "etl"`, "localhost", "hospital", `password authentication failed for database "hospital"`},
		{"database missing", `database "hospital" does not exist`, "localhost", "hospital", "createdb hospital"},
		{"timeout", "dial tcp 10.0.0.1:5432: i/o timeout", "10.0.0.1", "hospital", "connection timed out to 10.0.0.1:5432"},
		{"tls", "tls: failed to verify certificate", "db", "hospital", "SSL/TLS connection error"},
		{"too many connections", "sorry, too many connections for role", "db", "hospital", "--workers is larger than the server can serve"},
		{"unknown", "something odd happened", "db", "hospital", "something odd happened"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := errors.New(tt.errMsg)
			err := wrapConnectionError(original, tt.host, 5432, tt.database)

			assert.Contains(t, err.Error(), tt.wantContains)
			assert.ErrorIs(t, err, pgetl.ErrConnectionFailed)
			assert.ErrorIs(t, err, original)
		})
	}
}
