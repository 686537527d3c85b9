// Package fields brute-forces fixed-width numeric interpretations at every
// offset of a scan window and keeps the ones in a plausible monetary range.
package fields

import (
	"context"
	"encoding/binary"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/ledgerprobe/ledgerprobe/internal/types"
)

// Labels attached to candidates of each kind.
const (
	LabelAmount        = "possible amount"
	LabelDecimalAmount = "possible decimal amount"
	LabelPreciseAmount = "possible precise amount"
)

// Window is an open numeric interval (Min, Max).
type Window struct {
	Min float64
	Max float64
}

func (w Window) contains(v float64) bool {
	return !math.IsNaN(v) && v > w.Min && v < w.Max
}

// Options configures a Scanner.
type Options struct {
	Start   int // first offset scanned
	Count   int // number of offsets scanned
	Workers int // 0 = GOMAXPROCS
	// MinChunk is the smallest offset range handed to one worker.
	MinChunk int
	Uint     Window
	Float    Window
}

// DefaultOptions mirrors the stock plausibility windows.
func DefaultOptions() Options {
	return Options{
		Count:    500,
		MinChunk: 256,
		Uint:     Window{Min: 1000, Max: 999999999},
		Float:    Window{Min: 1000.0, Max: 999999999.0},
	}
}

// Scanner is safe for concurrent use.
type Scanner struct {
	opts Options
}

// New fills unset options from DefaultOptions.
func New(opts Options) *Scanner {
	def := DefaultOptions()
	if opts.Count <= 0 {
		opts.Count = def.Count
	}
	if opts.Start < 0 {
		opts.Start = 0
	}
	if opts.MinChunk <= 0 {
		opts.MinChunk = def.MinChunk
	}
	if opts.Uint == (Window{}) {
		opts.Uint = def.Uint
	}
	if opts.Float == (Window{}) {
		opts.Float = def.Float
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	return &Scanner{opts: opts}
}

// Scan returns candidates ordered by offset, then uint32, float32, float64.
// The result is identical regardless of how many workers run.
func (s *Scanner) Scan(ctx context.Context, data []byte) []types.FieldCandidate {
	lo, hi := s.window(len(data))
	if lo >= hi {
		return nil
	}
	chunks := partition(lo, hi, s.opts.Workers, s.opts.MinChunk)
	if len(chunks) == 1 {
		return s.scanRange(data, lo, hi)
	}

	parts := make([][]types.FieldCandidate, len(chunks))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)
	for i, c := range chunks {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			parts[i] = s.scanRange(data, c[0], c[1])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil
	}
	var out []types.FieldCandidate
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// window clamps [Start, Start+Count) to the buffer.
func (s *Scanner) window(n int) (int, int) {
	lo := s.opts.Start
	hi := lo + s.opts.Count
	if hi > n {
		hi = n
	}
	return lo, hi
}

func (s *Scanner) scanRange(data []byte, lo, hi int) []types.FieldCandidate {
	var out []types.FieldCandidate
	for pos := lo; pos < hi; pos++ {
		if pos+4 <= len(data) {
			u := binary.LittleEndian.Uint32(data[pos:])
			if s.opts.Uint.contains(float64(u)) {
				out = append(out, types.FieldCandidate{Offset: pos, Kind: types.KindUint32, Value: float64(u), Label: LabelAmount})
			}
			f := float64(math.Float32frombits(u))
			if s.opts.Float.contains(f) {
				out = append(out, types.FieldCandidate{Offset: pos, Kind: types.KindFloat32, Value: round2(f), Label: LabelDecimalAmount})
			}
		}
		if pos+8 <= len(data) {
			d := math.Float64frombits(binary.LittleEndian.Uint64(data[pos:]))
			if s.opts.Float.contains(d) {
				out = append(out, types.FieldCandidate{Offset: pos, Kind: types.KindFloat64, Value: round2(d), Label: LabelPreciseAmount})
			}
		}
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// partition splits [lo, hi) into at most workers contiguous ranges of at
// least minChunk offsets each.
func partition(lo, hi, workers, minChunk int) [][2]int {
	n := hi - lo
	parts := workers
	if limit := n / minChunk; parts > limit {
		parts = limit
	}
	if parts < 1 {
		parts = 1
	}
	size := (n + parts - 1) / parts
	out := make([][2]int, 0, parts)
	for start := lo; start < hi; start += size {
		end := start + size
		if end > hi {
			end = hi
		}
		out = append(out, [2]int{start, end})
	}
	return out
}

// Summarize groups candidates by kind, selects the first highLimit with a
// value above highValue, and caps the listed candidates at maxListed.
func Summarize(cands []types.FieldCandidate, highValue float64, highLimit, maxListed int) types.FieldSummary {
	sum := types.FieldSummary{
		Total:  len(cands),
		ByKind: map[types.FieldKind][]float64{},
	}
	for _, c := range cands {
		sum.ByKind[c.Kind] = append(sum.ByKind[c.Kind], c.Value)
		if c.Value > highValue && len(sum.HighValue) < highLimit {
			sum.HighValue = append(sum.HighValue, c)
		}
	}
	if maxListed >= 0 && len(cands) > maxListed {
		cands = cands[:maxListed]
	}
	sum.Candidates = cands
	return sum
}
