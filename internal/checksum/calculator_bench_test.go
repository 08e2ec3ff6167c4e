package checksum

import (
	"strings"
	"testing"
)

func BenchmarkCalculateRaw(b *testing.B) {
	calculator := New()
	content := []byte(strings.Repeat("Alice,25,Female,A+,Diabetes,2023-01-01,2000.0,Insulin,Normal,Elective\n", 1000))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		calculator.CalculateRaw(content)
	}
}

func BenchmarkCalculateNormalized(b *testing.B) {
	calculator := New()
	content := []byte(strings.Repeat("Alice,25,Female,A+,Diabetes,2023-01-01,2000.0,Insulin,Normal,Elective \r\n", 1000))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		calculator.CalculateNormalized(content)
	}
}
