package report

import (
	"encoding/hex"
	"io"
	"strings"

	"github.com/ledgerprobe/ledgerprobe/internal/patterns"
	"github.com/ledgerprobe/ledgerprobe/internal/signatures"
)

// PrintSignatures lists a signature catalogue as a table.
func PrintSignatures(w io.Writer, cat signatures.Catalogue) {
	rows := make([][]string, 0, len(cat))
	for _, s := range cat {
		rows = append(rows, []string{s.Label, strings.ToUpper(hex.EncodeToString(s.Marker)), printableMarker(s.Marker)})
	}
	renderTable(w, []string{"LABEL", "HEX", "ASCII"}, rows)
}

// PrintPatterns lists a pattern catalogue as a table.
func PrintPatterns(w io.Writer, cat patterns.Catalogue) {
	rows := make([][]string, 0, len(cat))
	for _, p := range cat {
		expr := p.Expr
		if expr == "" {
			expr = "(matcher)"
		}
		check := ""
		if p.Verify != nil {
			check = "yes"
		}
		rows = append(rows, []string{p.Name, expr, check})
	}
	renderTable(w, []string{"CATEGORY", "EXPRESSION", "CHECKSUM"}, rows)
}

func printableMarker(b []byte) string {
	var sb strings.Builder
	for _, c := range b {
		if c >= 32 && c <= 126 {
			sb.WriteByte(c)
		} else {
			sb.WriteByte('.')
		}
	}
	return sb.String()
}
