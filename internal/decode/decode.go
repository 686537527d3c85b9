// Package decode turns arbitrary bytes into displayable text.
package decode

import (
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// Lossy converts b to valid UTF-8, replacing each invalid byte with U+FFFD.
func Lossy(b []byte) string {
	out, err := unicode.UTF8.NewDecoder().Bytes(b)
	if err != nil {
		return strings.ToValidUTF8(string(b), "\uFFFD")
	}
	return string(out)
}

// Context returns the lossy decoding of data[off-radius, off+radius)
// clamped to the buffer, with line breaks flattened and surrounding space
// trimmed.
func Context(data []byte, off, radius int) string {
	start := max(off-radius, 0)
	end := min(off+radius, len(data))
	if start >= end {
		return ""
	}
	s := Lossy(data[start:end])
	s = strings.NewReplacer("\n", " ", "\r", " ").Replace(s)
	return strings.TrimSpace(s)
}
