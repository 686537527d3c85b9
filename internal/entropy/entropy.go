// Package entropy measures byte-distribution statistics of a buffer and
// probes whether it is a compressed stream.
package entropy

import (
	"math"

	"github.com/montanaflynn/stats"

	"github.com/ledgerprobe/ledgerprobe/internal/types"
)

// Options tunes the analyzer. Zero values fall back to defaults.
type Options struct {
	HighThreshold   float64 // bits/byte above which data looks encrypted
	BlockSize       int     // block size for the per-block entropy profile
	MaxInflateBytes int64   // decompression probe bound
}

// DefaultOptions returns the stock thresholds.
func DefaultOptions() Options {
	return Options{
		HighThreshold:   7.5,
		BlockSize:       256,
		MaxInflateBytes: 64 << 20,
	}
}

// Analyzer computes EntropyMetrics. It holds no state across calls.
type Analyzer struct {
	opts Options
}

// New builds an Analyzer, filling unset options from DefaultOptions.
func New(opts Options) *Analyzer {
	def := DefaultOptions()
	if opts.HighThreshold <= 0 {
		opts.HighThreshold = def.HighThreshold
	}
	if opts.BlockSize <= 0 {
		opts.BlockSize = def.BlockSize
	}
	if opts.MaxInflateBytes <= 0 {
		opts.MaxInflateBytes = def.MaxInflateBytes
	}
	return &Analyzer{opts: opts}
}

// Analyze never fails; an empty buffer yields zero metrics.
func (a *Analyzer) Analyze(data []byte) types.EntropyMetrics {
	var hist [256]int
	printable := 0
	for _, b := range data {
		hist[b]++
		if b >= 32 && b <= 126 {
			printable++
		}
	}
	m := types.EntropyMetrics{
		Entropy:   shannon(hist[:], len(data)),
		NullBytes: hist[0],
		ChiSquare: chiSquare(hist[:], len(data)),
	}
	for _, c := range hist {
		if c > 0 {
			m.UniqueBytes++
		}
	}
	if len(data) > 0 {
		m.PrintableRatio = float64(printable) / float64(len(data))
	}
	m.HighEntropy = m.Entropy > a.opts.HighThreshold
	m.Codecs = probeCodecs(data, a.opts.MaxInflateBytes)
	for _, c := range m.Codecs {
		if c == CodecZlib || c == CodecDeflate {
			m.Decompressible = true
		}
	}
	m.BlockProfile = a.blockProfile(data)
	return m
}

// Shannon returns the entropy of data in bits per byte.
func Shannon(data []byte) float64 {
	var hist [256]int
	for _, b := range data {
		hist[b]++
	}
	return shannon(hist[:], len(data))
}

func shannon(hist []int, n int) float64 {
	if n == 0 {
		return 0
	}
	H := 0.0
	total := float64(n)
	for _, c := range hist {
		if c == 0 {
			continue
		}
		p := float64(c) / total
		H -= p * math.Log2(p)
	}
	return H
}

// chiSquare is Pearson's statistic against a uniform byte distribution.
func chiSquare(hist []int, n int) float64 {
	if n == 0 {
		return 0
	}
	expected := float64(n) / 256
	sum := 0.0
	for _, c := range hist {
		d := float64(c) - expected
		sum += d * d / expected
	}
	return sum
}

func (a *Analyzer) blockProfile(data []byte) types.BlockProfile {
	p := types.BlockProfile{BlockSize: a.opts.BlockSize}
	if len(data) == 0 {
		return p
	}
	var values stats.Float64Data
	for off := 0; off < len(data); off += a.opts.BlockSize {
		end := off + a.opts.BlockSize
		if end > len(data) {
			end = len(data)
		}
		values = append(values, Shannon(data[off:end]))
	}
	p.Blocks = len(values)
	// stats only errors on empty input, which is excluded above.
	p.Mean, _ = stats.Mean(values)
	p.StdDev, _ = stats.StandardDeviation(values)
	p.Min, _ = stats.Min(values)
	p.Max, _ = stats.Max(values)
	return p
}
