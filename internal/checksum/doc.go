// Package checksum provides file content hashing with normalization support.
//
// Every ingested file gets two checksums:
//
//   - Raw checksum: hash of the exact bytes (detects any change)
//   - Normalized checksum: hash after removing byte order marks, line ending
//     differences, trailing whitespace and blank lines
//
// The normalized checksum identifies a load: re-exporting the same records
// from a spreadsheet on another platform yields the same value, so a file is
// not loaded twice.
//
// # Example Usage
//
//	calculator := checksum.New()
//	raw := calculator.CalculateRaw(content)
//	normalized := calculator.CalculateNormalized(content)
//
// # Thread Safety
//
// SHA256 is safe for concurrent use by multiple goroutines.
package checksum
