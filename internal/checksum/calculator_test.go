package checksum

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSHA256_CalculateRaw(t *testing.T) {
	calc := New()

	assert.Equal(t,
		"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		calc.CalculateRaw(nil),
	)

	a := calc.CalculateRaw([]byte("Name,Age\nAlice,25\n"))
	assert.Len(t, a, 64)
	assert.Equal(t, a, calc.CalculateRaw([]byte("Name,Age\nAlice,25\n")))
	assert.NotEqual(t, a, calc.CalculateRaw([]byte("Name,Age\r\nAlice,25\r\n")))
}

func TestSHA256_CalculateNormalized(t *testing.T) {
	calc := New()
	base := calc.CalculateNormalized([]byte("Name,Age\nAlice,25\n"))

	same := []struct {
		name    string
		content string
	}{
		{"no trailing newline", "Name,Age\nAlice,25"},
		{"crlf", "Name,Age\r\nAlice,25\r\n"},
		{"lone cr", "Name,Age\rAlice,25\r"},
		{"bom", "\xEF\xBB\xBFName,Age\nAlice,25\n"},
		{"trailing whitespace", "Name,Age  \nAlice,25\t\n"},
		{"blank lines", "\nName,Age\n\n\nAlice,25\n\n"},
	}
	for _, tt := range same {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, base, calc.CalculateNormalized([]byte(tt.content)))
		})
	}

	different := []struct {
		name    string
		content string
	}{
		{"case change", "Name,Age\nALICE,25\n"},
		{"value change", "Name,Age\nAlice,26\n"},
		{"leading whitespace", "Name,Age\n Alice,25\n"},
		{"row order", "Alice,25\nName,Age\n"},
	}
	for _, tt := range different {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEqual(t, base, calc.CalculateNormalized([]byte(tt.content)))
		})
	}
}

func TestSHA256_Normalize(t *testing.T) {
	got := New().normalize([]byte("\xEF\xBB\xBFa,b \r\n\r\nc,d\r"))
	assert.Equal(t, "a,b\nc,d\n", string(got))
}
