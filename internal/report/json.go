package report

import (
	"encoding/json"
	"io"
)

// WriteJSON encodes v with two-space indentation. Non-ASCII text is written
// as is.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
