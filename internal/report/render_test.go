package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/ledgerprobe/ledgerprobe/internal/types"
)

func sampleReport() types.AnalysisReport {
	yes := true
	return types.AnalysisReport{
		FileInfo: types.FileInfo{Path: "ledger.bin", Size: 1234567, Timestamp: time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)},
		Metadata: types.Metadata{Size: 1234567, SHA256: strings.Repeat("a", 64), MD5: strings.Repeat("b", 32), Entropy: 4.5, PrintableRatio: 0.5},
		Signature: types.SignatureAnalysis{
			HeaderHex:  "44544342",
			Signatures: []types.SignatureMatch{{Label: "DTCB_BINARY", Offset: 0, Marker: "44544342", Header: true}},
		},
		Patterns: types.PatternSet{
			{Category: "iban", Matches: []types.PatternMatch{{Category: "iban", Offset: 12, Length: 22, Decoded: "GB29NWBK60161331926819", Verified: &yes}}},
			{Category: "usd_amount", Matches: []types.PatternMatch{
				{Category: "usd_amount", Decoded: "$1.00"}, {Category: "usd_amount", Decoded: "$2.00"},
				{Category: "usd_amount", Decoded: "$3.00"}, {Category: "usd_amount", Decoded: "$4.00"},
			}},
		},
		Financial: types.FinancialExtract{Accounts: []string{"GB29NWBK60161331926819"}, Currencies: []string{"EUR", "USD"}},
		Summary:   types.Summary{TotalPatterns: 5, TotalFields: 3, Confidence: 42.5, Recommendations: []string{"check it"}},
	}
}

func TestPrintText_SectionsInOrder(t *testing.T) {
	var buf bytes.Buffer
	PrintText(&buf, sampleReport(), PrintOptions{})
	out := buf.String()

	order := []string{"File:", "METADATA", "SIGNATURE ANALYSIS", "DETECTED PATTERNS", "EXTRACTED FINANCIAL DATA", "DECOMPILATION SUMMARY"}
	last := -1
	for _, s := range order {
		i := strings.Index(out, s)
		if i < 0 {
			t.Fatalf("missing %q in output: %q", s, out)
		}
		if i < last {
			t.Fatalf("%q out of order", s)
		}
		last = i
	}
	for _, want := range []string{"1,234,567 bytes", "IBAN: 1 occurrences", "USD_AMOUNT: 4 occurrences", "Currencies:         EUR, USD", "Confidence level:   42.5%", "DTCB_BINARY", "  check it"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output: %q", want, out)
		}
	}
	if strings.Contains(out, "$4.00") {
		t.Fatalf("expected at most three samples per category: %q", out)
	}
	if !strings.Contains(out, "$3.00") {
		t.Fatalf("expected third sample: %q", out)
	}
}

func TestPrintText_ErrorReport(t *testing.T) {
	var buf bytes.Buffer
	PrintText(&buf, types.AnalysisReport{FileInfo: types.FileInfo{Path: "gone.bin"}, Error: "no such file"}, PrintOptions{})
	out := buf.String()
	if !strings.Contains(out, "Error:              no such file") {
		t.Fatalf("expected error line; got: %q", out)
	}
	if strings.Contains(out, "METADATA") {
		t.Fatalf("error report should stop after the file block; got: %q", out)
	}
}

func TestPrintBatchFooter(t *testing.T) {
	var buf bytes.Buffer
	PrintBatchFooter(&buf, BatchStats{Analyzed: 10, Failed: 1, Skipped: 2, Duration: 1200 * time.Millisecond})
	out := buf.String()
	if !strings.Contains(out, "Files analyzed: 10 (failed: 1, skipped: 2, unchanged: 0)") {
		t.Fatalf("unexpected footer: %q", out)
	}
	if !strings.Contains(out, "Duration: 1.20s") {
		t.Fatalf("expected duration: %q", out)
	}
}

func TestThousands(t *testing.T) {
	cases := map[int]string{0: "0", 999: "999", 1000: "1,000", 1234567: "1,234,567", -4500: "-4,500"}
	for in, want := range cases {
		if got := thousands(in); got != want {
			t.Fatalf("thousands(%d) = %q, want %q", in, got, want)
		}
	}
}
