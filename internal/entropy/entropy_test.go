package entropy

import (
	"bytes"
	"compress/zlib"
	"math/rand"
	"testing"

	"github.com/klauspost/compress/flate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyze_Empty(t *testing.T) {
	m := New(Options{}).Analyze(nil)
	assert.Equal(t, 0.0, m.Entropy)
	assert.False(t, m.HighEntropy)
	assert.False(t, m.Decompressible)
	assert.Equal(t, 0.0, m.PrintableRatio)
	assert.Equal(t, 0, m.UniqueBytes)
	assert.Empty(t, m.Codecs)
}

func TestAnalyze_AllZero(t *testing.T) {
	for _, n := range []int{1, 7, 256, 4096} {
		m := New(Options{}).Analyze(make([]byte, n))
		assert.Equal(t, 0.0, m.Entropy, "n=%d", n)
		assert.False(t, m.HighEntropy, "n=%d", n)
		assert.Equal(t, 0.0, m.PrintableRatio, "n=%d", n)
		assert.Equal(t, n, m.NullBytes, "n=%d", n)
		assert.Equal(t, 1, m.UniqueBytes, "n=%d", n)
	}
}

func TestAnalyze_RandomApproachesEight(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	buf := make([]byte, 1<<16)
	rng.Read(buf)
	m := New(Options{}).Analyze(buf)
	assert.Greater(t, m.Entropy, 7.0)
	assert.LessOrEqual(t, m.Entropy, 8.0)
	assert.True(t, m.HighEntropy)
	assert.Equal(t, 256, m.UniqueBytes)
	assert.Greater(t, m.BlockProfile.Mean, 6.5)
}

func TestAnalyze_Random4096(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	buf := make([]byte, 4096)
	rng.Read(buf)
	assert.Greater(t, Shannon(buf), 7.0)
}

func TestAnalyze_PrintableRatio(t *testing.T) {
	m := New(Options{}).Analyze([]byte("ab\x00\x01"))
	assert.InDelta(t, 0.5, m.PrintableRatio, 1e-9)
	assert.Equal(t, 1, m.NullBytes)
}

func TestAnalyze_ZlibStreamIsDecompressible(t *testing.T) {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	_, err := zw.Write(bytes.Repeat([]byte("balance record "), 64))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	m := New(Options{}).Analyze(buf.Bytes())
	assert.True(t, m.Decompressible)
	assert.Contains(t, m.Codecs, CodecZlib)
}

func TestAnalyze_RawDeflateIsDecompressible(t *testing.T) {
	var buf bytes.Buffer
	fw, err := flate.NewWriter(&buf, flate.BestCompression)
	require.NoError(t, err)
	_, err = fw.Write(bytes.Repeat([]byte("transfer "), 100))
	require.NoError(t, err)
	require.NoError(t, fw.Close())

	assert.True(t, Decompressible(buf.Bytes(), 0))
	assert.True(t, New(Options{}).Analyze(buf.Bytes()).Decompressible)
}

func TestAnalyze_PlainTextNotDecompressible(t *testing.T) {
	// 'F' selects the reserved deflate block type and an invalid zlib method.
	assert.False(t, Decompressible([]byte("FX ordinary ledger text"), 0))
}

func TestAnalyze_InflateBoundCountsAsDecompressible(t *testing.T) {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	_, err := zw.Write(make([]byte, 1<<16))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	assert.True(t, Decompressible(buf.Bytes(), 1024))
}

func TestChiSquare_UniformIsZero(t *testing.T) {
	buf := make([]byte, 512)
	for i := range buf {
		buf[i] = byte(i)
	}
	m := New(Options{}).Analyze(buf)
	assert.InDelta(t, 0.0, m.ChiSquare, 1e-9)
	assert.InDelta(t, 8.0, m.Entropy, 1e-9)
}

func TestBlockProfile(t *testing.T) {
	buf := append(make([]byte, 256), make([]byte, 100)...)
	p := New(Options{BlockSize: 256}).Analyze(buf).BlockProfile
	assert.Equal(t, 256, p.BlockSize)
	assert.Equal(t, 2, p.Blocks)
	assert.Equal(t, 0.0, p.Max)
}
