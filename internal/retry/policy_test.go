package retry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vvka-141/pgetl/pkg/pgetl"
)

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	assert.Equal(t, pgetl.DefaultRetryMaxAttempts, p.MaxAttempts)
	assert.NoError(t, p.Validate())
}

func TestIngestPolicy_ConstantOneSecond(t *testing.T) {
	b := IngestPolicy().Backoff(WithJitter(0))
	for attempt := 0; attempt < 3; attempt++ {
		assert.Equal(t, time.Second, b.NextDelay(attempt))
	}
	assert.Equal(t, 3, b.MaxAttempts())
}

func TestPolicy_Validate(t *testing.T) {
	tests := []struct {
		name    string
		policy  Policy
		wantErr bool
	}{
		{"ok", Policy{MaxAttempts: 2, InitialDelay: time.Second, MaxDelay: time.Minute}, false},
		{"zero max delay", Policy{MaxAttempts: 2, InitialDelay: time.Second}, false},
		{"negative initial", Policy{InitialDelay: -time.Second}, true},
		{"negative max", Policy{MaxDelay: -time.Second}, true},
		{"max below initial", Policy{InitialDelay: time.Minute, MaxDelay: time.Second}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.policy.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, pgetl.ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPolicy_OptionsOverridePolicy(t *testing.T) {
	b := Policy{MaxAttempts: 1, InitialDelay: time.Second, MaxDelay: time.Minute}.
		Backoff(WithInitialDelay(time.Millisecond))
	assert.Equal(t, time.Millisecond, b.InitialDelay())
	assert.Equal(t, time.Minute, b.MaxDelay())
}
