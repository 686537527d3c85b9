package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/ledgerprobe/ledgerprobe/internal/types"
)

// DefaultSamples is how many matches per category the text report shows.
const DefaultSamples = 3

const rule = "================================================================================"

type PrintOptions struct {
	Samples int // 0 = DefaultSamples
}

// PrintText renders one report in fixed section order: file, metadata,
// signature analysis, patterns, financial data, summary.
func PrintText(w io.Writer, r types.AnalysisReport, opts PrintOptions) {
	samples := opts.Samples
	if samples <= 0 {
		samples = DefaultSamples
	}

	section(w, "LEDGERPROBE ANALYSIS REPORT")
	fmt.Fprintf(w, "Date:               %s\n", r.FileInfo.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "File:               %s\n", r.FileInfo.Path)
	fmt.Fprintf(w, "Size:               %s bytes\n", thousands(r.FileInfo.Size))
	if r.Error != "" {
		fmt.Fprintf(w, "Error:              %s\n", r.Error)
		fmt.Fprintln(w, rule)
		return
	}

	section(w, "METADATA")
	fmt.Fprintf(w, "SHA-256:            %s\n", r.Metadata.SHA256)
	fmt.Fprintf(w, "MD5:                %s\n", r.Metadata.MD5)
	fmt.Fprintf(w, "BLAKE2b-256:        %s\n", r.Metadata.BLAKE2b256)
	fmt.Fprintf(w, "xxHash64:           %s\n", r.Metadata.XXHash64)
	fmt.Fprintf(w, "Entropy:            %.2f bits/byte\n", r.Metadata.Entropy)
	fmt.Fprintf(w, "Unique bytes:       %d\n", r.Metadata.UniqueBytes)
	fmt.Fprintf(w, "Null bytes:         %s\n", thousands(r.Metadata.NullBytes))
	fmt.Fprintf(w, "Printable ratio:    %.2f%%\n", r.Metadata.PrintableRatio*100)

	section(w, "SIGNATURE ANALYSIS")
	fmt.Fprintf(w, "Header (hex):       %s\n", r.Signature.HeaderHex)
	fmt.Fprintf(w, "Encrypted:          %s\n", yesNo(r.Signature.IsEncrypted))
	fmt.Fprintf(w, "Compressed:         %s\n", yesNo(r.Signature.IsCompressed))
	fmt.Fprintf(w, "Signatures found:   %d\n", len(r.Signature.Signatures))
	if len(r.Signature.Signatures) > 0 {
		rows := make([][]string, 0, len(r.Signature.Signatures))
		for _, s := range r.Signature.Signatures {
			rows = append(rows, []string{s.Label, strconv.Itoa(s.Offset), s.Marker, yesNo(s.Header)})
		}
		renderTable(w, []string{"LABEL", "OFFSET", "MARKER", "HEADER"}, rows)
	}

	section(w, "DETECTED PATTERNS")
	for _, g := range r.Patterns {
		fmt.Fprintf(w, "\n%s: %d occurrences\n", strings.ToUpper(g.Category), len(g.Matches))
		for i, m := range g.Matches {
			if i == samples {
				break
			}
			fmt.Fprintf(w, "  - %s\n", m.Decoded)
		}
	}

	section(w, "EXTRACTED FINANCIAL DATA")
	fmt.Fprintf(w, "Accounts:           %d\n", len(r.Financial.Accounts))
	fmt.Fprintf(w, "Amounts:            %d\n", len(r.Financial.Amounts))
	fmt.Fprintf(w, "Transactions:       %d\n", len(r.Financial.Transactions))
	fmt.Fprintf(w, "Banks:              %d\n", len(r.Financial.Banks))
	fmt.Fprintf(w, "Currencies:         %s\n", strings.Join(r.Financial.Currencies, ", "))

	section(w, "DECOMPILATION SUMMARY")
	fmt.Fprintf(w, "Total patterns:     %d\n", r.Summary.TotalPatterns)
	fmt.Fprintf(w, "Fields detected:    %d\n", r.Summary.TotalFields)
	fmt.Fprintf(w, "Confidence level:   %.1f%%\n", r.Summary.Confidence)
	fmt.Fprintln(w, "\nRECOMMENDATIONS:")
	for _, rec := range r.Summary.Recommendations {
		fmt.Fprintf(w, "  %s\n", rec)
	}
	fmt.Fprintf(w, "\n%s\n", rule)
}

// BatchStats is the footer shown after a multi-file run.
type BatchStats struct {
	Analyzed  int
	Failed    int
	Skipped   int
	Unchanged int
	Duration  time.Duration
}

func PrintBatchFooter(w io.Writer, s BatchStats) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Files analyzed: %d (failed: %d, skipped: %d, unchanged: %d)\n", s.Analyzed, s.Failed, s.Skipped, s.Unchanged)
	if s.Duration > 0 {
		fmt.Fprintf(w, "Duration: %.2fs\n", s.Duration.Seconds())
	}
}

func section(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n%s\n%s\n", rule, title, rule)
}

func renderTable(w io.Writer, header []string, rows [][]string) {
	table := tablewriter.NewWriter(w)
	cols := make([]any, len(header))
	for i, h := range header {
		cols[i] = h
	}
	table.Header(cols...)
	_ = table.Bulk(rows)
	_ = table.Render()
}

func yesNo(b bool) string {
	if b {
		return "YES"
	}
	return "NO"
}

// thousands formats n with comma separators.
func thousands(n int) string {
	s := strconv.Itoa(n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
