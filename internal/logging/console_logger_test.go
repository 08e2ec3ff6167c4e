package logging

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsoleLogger_Verbose(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		want    string
	}{
		{"enabled", true, "[VERBOSE] loaded 3 rows\n"},
		{"disabled", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewWriterLogger(&buf, tt.verbose).Verbose("loaded %d rows", 3)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestConsoleLogger_InfoAndError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger(&buf, false)

	logger.Info("wrote %d rows to %s", 10, "patients")
	logger.Error("batch %d failed", 2)

	assert.Equal(t, "wrote 10 rows to patients\n[ERROR] batch 2 failed\n", buf.String())
}

func TestConsoleLogger_NoArgsKeepsPercentLiteral(t *testing.T) {
	var buf bytes.Buffer
	NewWriterLogger(&buf, true).Info("100% complete")
	assert.Equal(t, "100% complete\n", buf.String())
}

func TestConsoleLogger_IsVerbose(t *testing.T) {
	assert.True(t, NewConsoleLogger(true).IsVerbose())
	assert.False(t, NewConsoleLogger(false).IsVerbose())
}

func TestConsoleLogger_ConcurrentWritesDoNotInterleave(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger(&buf, true)

	const goroutines = 20
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			logger.Info("batch %d done", id)
			logger.Verbose("batch %d detail", id)
		}(i)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Len(t, lines, goroutines*2)
	for i := 0; i < goroutines; i++ {
		assert.Contains(t, lines, fmt.Sprintf("batch %d done", i))
		assert.Contains(t, lines, fmt.Sprintf("[VERBOSE] batch %d detail", i))
	}
}

func TestNullLogger_DiscardsEverything(t *testing.T) {
	logger := NewNullLogger()
	assert.NotPanics(t, func() {
		logger.Verbose("x %d", 1)
		logger.Info("y")
		logger.Error("z %s", "err")
	})
}
