package engine

import (
	"context"
	"encoding/binary"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/ledgerprobe/ledgerprobe/internal/confidence"
	"github.com/ledgerprobe/ledgerprobe/internal/ingest"
	"github.com/ledgerprobe/ledgerprobe/internal/patterns"
	"github.com/ledgerprobe/ledgerprobe/internal/types"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func testEngine(t *testing.T) *Engine {
	t.Helper()
	cfg := DefaultConfig()
	cfg.MaxFields = -1
	cfg.Now = func() time.Time { return fixedNow }
	e, err := New(cfg)
	require.NoError(t, err)
	return e
}

// ledgerRecord builds a small DTCB container with an account, an amount
// and a bank reference.
func ledgerRecord() []byte {
	var b []byte
	b = append(b, "DTCB"...)
	b = binary.LittleEndian.AppendUint32(b, 12345)
	b = append(b, "ACCN"...)
	b = append(b, "GB29NWBK60161331926819"...)
	b = append(b, make([]byte, 10)...)
	b = append(b, "USD "...)
	b = binary.LittleEndian.AppendUint64(b, math.Float64bits(1500000.50))
	b = append(b, "BANK HSBC HOLDINGS"...)
	b = append(b, "TRN:ABC123XYZ789"...)
	return b
}

func TestAnalyze_LedgerRecord(t *testing.T) {
	data := ledgerRecord()
	require.Len(t, data, 90)

	rep, err := testEngine(t).Analyze(context.Background(), "ledger.bin", data)
	require.NoError(t, err)

	assert.Equal(t, 90, rep.FileInfo.Size)
	assert.Equal(t, 90, rep.Metadata.Size)
	assert.Len(t, rep.Metadata.SHA256, 64)
	assert.Len(t, rep.Metadata.MD5, 32)
	assert.Len(t, rep.Metadata.XXHash64, 16)
	assert.True(t, strings.HasPrefix(rep.Signature.HeaderHex, "44544342"))

	var header *types.SignatureMatch
	for i, s := range rep.Signature.Signatures {
		if s.Header {
			header = &rep.Signature.Signatures[i]
		}
	}
	require.NotNil(t, header)
	assert.Equal(t, "DTCB_BINARY", header.Label)
	assert.Equal(t, 0, header.Offset)

	ibans := rep.Patterns.Get(patterns.IBAN)
	require.NotEmpty(t, ibans)
	assert.Equal(t, "GB29NWBK60161331926819", ibans[0].Decoded)
	assert.Equal(t, 12, ibans[0].Offset)
	require.NotNil(t, ibans[0].Verified)
	assert.True(t, *ibans[0].Verified)

	assert.True(t, anyContains(rep.Financial.Banks, "HSBC"), "banks: %v", rep.Financial.Banks)
	assert.True(t, anyContains(rep.Financial.Transactions, "ABC123XYZ789"), "transactions: %v", rep.Financial.Transactions)
	assert.Contains(t, rep.Financial.Accounts, "GB29NWBK60161331926819")

	found := false
	for _, c := range rep.Fields.Candidates {
		if c.Offset == 48 && c.Kind == types.KindFloat64 && math.Abs(c.Value-1500000.50) < 0.01 {
			found = true
		}
	}
	assert.True(t, found, "expected float64 amount at offset 48")
	assert.Equal(t, rep.Fields.Total, rep.Summary.TotalFields)

	assert.Greater(t, rep.Summary.Confidence, 0.0)
	assert.LessOrEqual(t, rep.Summary.Confidence, 100.0)
	assert.Contains(t, rep.Summary.Recommendations, confidence.RecIBAN)
	assert.Equal(t, rep.Patterns.Total(), rep.Summary.TotalPatterns)
	assert.Empty(t, rep.Error)
}

func anyContains(list []string, sub string) bool {
	for _, s := range list {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func TestAnalyze_Idempotent(t *testing.T) {
	e := testEngine(t)
	data := ledgerRecord()
	a, err := e.Analyze(context.Background(), "x", data)
	require.NoError(t, err)
	b, err := e.Analyze(context.Background(), "x", data)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestAnalyze_DoesNotModifyInput(t *testing.T) {
	data := ledgerRecord()
	orig := append([]byte(nil), data...)
	_, err := testEngine(t).Analyze(context.Background(), "x", data)
	require.NoError(t, err)
	assert.Equal(t, orig, data)
}

func TestAnalyze_Empty(t *testing.T) {
	rep, err := testEngine(t).Analyze(context.Background(), "empty", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, rep.Metadata.Size)
	assert.Equal(t, "", rep.Signature.HeaderHex)
	assert.Empty(t, rep.Signature.Signatures)
	assert.NotNil(t, rep.Signature.Signatures)
	assert.Empty(t, rep.Patterns)
	assert.NotNil(t, rep.Patterns)
	assert.Empty(t, rep.Structures)
	assert.Equal(t, 0.0, rep.Summary.Confidence)
	assert.Equal(t, []string{confidence.RecNoSignal}, rep.Summary.Recommendations)
}

func TestAnalyze_ZeroBuffer(t *testing.T) {
	rep, err := testEngine(t).Analyze(context.Background(), "zeros", make([]byte, 4096))
	require.NoError(t, err)
	assert.Equal(t, 0.0, rep.Entropy.Entropy)
	assert.Equal(t, 4096, rep.Metadata.NullBytes)
	assert.Equal(t, 0, rep.Fields.Total)
	assert.NotEmpty(t, rep.Structures)
	assert.Equal(t, 0.0, rep.Summary.Confidence)
	assert.Equal(t, []string{confidence.RecPadding, confidence.RecNoSignal}, rep.Summary.Recommendations)
}

func TestAnalyze_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := testEngine(t).Analyze(ctx, "x", ledgerRecord())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAnalyzeSource_ReadError(t *testing.T) {
	missing := t.TempDir() + "/nope.bin"
	rep, err := testEngine(t).AnalyzeSource(context.Background(), ingest.File(missing))
	require.Error(t, err)
	assert.Equal(t, missing, rep.FileInfo.Path)
	assert.NotEmpty(t, rep.Error)
	assert.Equal(t, fixedNow, rep.FileInfo.Timestamp)
	assert.Empty(t, rep.Metadata.SHA256)
}

func TestAnalyzeSource_Bytes(t *testing.T) {
	rep, err := testEngine(t).AnalyzeSource(context.Background(), ingest.Bytes("mem", ledgerRecord()))
	require.NoError(t, err)
	assert.Equal(t, "mem", rep.FileInfo.Path)
	assert.True(t, rep.Patterns.Has(patterns.IBAN))
}

func TestNew_InvalidPattern(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PatternOptions.Extra = map[string]string{"broken": "("}
	_, err := New(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pattern catalogue")
}

func TestStage_RecoversPanic(t *testing.T) {
	e := testEngine(t)
	var g errgroup.Group
	ran := false
	e.stage(&g, "boom", func() { panic(errors.New("bad analyzer")) })
	e.stage(&g, "ok", func() { ran = true })
	assert.NoError(t, g.Wait())
	assert.True(t, ran)
}

func TestDigest(t *testing.T) {
	d := digest([]byte("abc"))
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", d.sha256)
	assert.Equal(t, "900150983cd24fb0d6963f7d28e17f72", d.md5)
	assert.Len(t, d.blake2b, 64)
	assert.Len(t, fastHash(nil), 16)
	assert.NotEqual(t, fastHash([]byte("a")), fastHash([]byte("b")))
}

func BenchmarkAnalyze(b *testing.B) {
	e, err := New(DefaultConfig())
	if err != nil {
		b.Fatal(err)
	}
	data := make([]byte, 0, 64<<10)
	for len(data) < 64<<10 {
		data = append(data, ledgerRecord()...)
	}
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := e.Analyze(context.Background(), "bench", data); err != nil {
			b.Fatal(err)
		}
	}
}
