package checksum

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
)

// Calculator is an interface for computing file checksums.
type Calculator interface {
	// CalculateRaw computes a checksum of the raw, unmodified content.
	CalculateRaw(content []byte) string

	// CalculateNormalized computes a checksum of normalized content.
	// Normalization makes checksums resilient to encoding noise that does
	// not change the records in a file.
	CalculateNormalized(content []byte) string
}

// SHA256 implements checksum calculation using SHA-256.
// Normalization of delimited text:
//  1. Strip a leading UTF-8 byte order mark
//  2. Convert CRLF and lone CR line endings to LF
//  3. Trim trailing spaces and tabs from every line
//  4. Drop blank lines
//
// SHA256 is a zero-size type and is safe for concurrent use by multiple goroutines.
type SHA256 struct{}

// New creates a new SHA-256 based calculator.
func New() SHA256 {
	return SHA256{}
}

// CalculateRaw computes SHA-256 of raw content.
func (c SHA256) CalculateRaw(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// CalculateNormalized computes SHA-256 of normalized content.
func (c SHA256) CalculateNormalized(content []byte) string {
	hash := sha256.Sum256(c.normalize(content))
	return hex.EncodeToString(hash[:])
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func (c SHA256) normalize(content []byte) []byte {
	content = bytes.TrimPrefix(content, utf8BOM)

	var b bytes.Buffer
	b.Grow(len(content))

	for len(content) > 0 {
		var line []byte
		i := bytes.IndexAny(content, "\r\n")
		if i < 0 {
			line, content = content, nil
		} else {
			line = content[:i]
			if content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n' {
				i++
			}
			content = content[i+1:]
		}

		line = bytes.TrimRight(line, " \t")
		if len(line) == 0 {
			continue
		}
		b.Write(line)
		b.WriteByte('\n')
	}

	return b.Bytes()
}
