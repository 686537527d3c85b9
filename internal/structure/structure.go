// Package structure guesses record layout from buffer length and byte
// repetition.
package structure

import (
	"bytes"

	"github.com/ledgerprobe/ledgerprobe/internal/types"
)

// Options holds the heuristic parameters. Zero values fall back to
// DefaultOptions.
type Options struct {
	BlockSizes       []int
	AlignedConf      float64
	Strides          []int
	StrideConf       float64
	StrideMatchRatio float64 // ratio must exceed this
	CompareBytes     int     // bytes compared per stride step, capped at the stride
}

func DefaultOptions() Options {
	return Options{
		BlockSizes:       []int{16, 32, 64, 128, 256},
		AlignedConf:      0.7,
		Strides:          []int{4, 8, 16, 32},
		StrideConf:       0.8,
		StrideMatchRatio: 0.3,
		CompareBytes:     4,
	}
}

type Engine struct {
	opts Options
}

func New(opts Options) *Engine {
	def := DefaultOptions()
	if len(opts.BlockSizes) == 0 {
		opts.BlockSizes = def.BlockSizes
	}
	if len(opts.Strides) == 0 {
		opts.Strides = def.Strides
	}
	if opts.AlignedConf == 0 {
		opts.AlignedConf = def.AlignedConf
	}
	if opts.StrideConf == 0 {
		opts.StrideConf = def.StrideConf
	}
	if opts.StrideMatchRatio == 0 {
		opts.StrideMatchRatio = def.StrideMatchRatio
	}
	if opts.CompareBytes <= 0 {
		opts.CompareBytes = def.CompareBytes
	}
	opts.BlockSizes = positive(opts.BlockSizes)
	opts.Strides = positive(opts.Strides)
	return &Engine{opts: opts}
}

func positive(in []int) []int {
	out := make([]int, 0, len(in))
	for _, v := range in {
		if v > 0 {
			out = append(out, v)
		}
	}
	return out
}

// Detect returns aligned-block hypotheses followed by repeating-stride
// hypotheses, each in configured order.
func (e *Engine) Detect(data []byte) []types.StructureHypothesis {
	var out []types.StructureHypothesis
	n := len(data)
	if n == 0 {
		return out
	}
	for _, size := range e.opts.BlockSizes {
		if n%size == 0 {
			out = append(out, types.StructureHypothesis{
				Kind:       types.AlignedBlocks,
				Parameter:  size,
				Confidence: e.opts.AlignedConf,
				BlockCount: n / size,
			})
		}
	}
	for _, stride := range e.opts.Strides {
		ratio, ok := e.strideRatio(data, stride)
		if ok && ratio > e.opts.StrideMatchRatio {
			out = append(out, types.StructureHypothesis{
				Kind:       types.RepeatingStride,
				Parameter:  stride,
				Confidence: e.opts.StrideConf,
				MatchRatio: ratio,
			})
		}
	}
	return out
}

// strideRatio compares the leading bytes of each stride-sized step with the
// next step. ok is false when the buffer is too short to judge.
func (e *Engine) strideRatio(data []byte, stride int) (ratio float64, ok bool) {
	n := len(data)
	if n < 3*stride {
		return 0, false
	}
	k := min(e.opts.CompareBytes, stride)
	matches, comparisons := 0, 0
	for i := 0; i < n-2*stride; i += stride {
		comparisons++
		if bytes.Equal(data[i:i+k], data[i+stride:i+stride+k]) {
			matches++
		}
	}
	if comparisons == 0 {
		return 0, false
	}
	return float64(matches) / float64(comparisons), true
}
