package confidence

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ledgerprobe/ledgerprobe/internal/patterns"
	"github.com/ledgerprobe/ledgerprobe/internal/types"
)

func set(cats ...string) types.PatternSet {
	var ps types.PatternSet
	for _, c := range cats {
		ps = append(ps, types.PatternGroup{Category: c, Matches: []types.PatternMatch{{Category: c}}})
	}
	return ps
}

func TestScore(t *testing.T) {
	s := New(DefaultOptions())
	cases := []struct {
		name string
		in   Input
		want float64
	}{
		{"nothing", Input{}, 0},
		{"fields only", Input{FieldCount: 55}, 5.5},
		{"field cap", Input{FieldCount: 1000}, 30},
		{"two plain categories", Input{Patterns: set(patterns.DateISO, patterns.MD5)}, 20},
		{"key bonus", Input{Patterns: set(patterns.IBAN, patterns.SWIFT)}, 30},
		{"category cap", Input{Patterns: set("a", "b", "c", "d", "e", "f", "g")}, 50},
		{"clamped", Input{Patterns: set(patterns.IBAN, patterns.SWIFT, patterns.AccountNumber, patterns.USDAmount, "e", "f"), FieldCount: 900}, 100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, s.Score(tc.in), 1e-9)
		})
	}
}

func TestRecommend_Order(t *testing.T) {
	s := New(DefaultOptions())
	got := s.Recommend(Input{
		Patterns:  set(patterns.SWIFT, patterns.IBAN),
		Entropy:   7.9,
		NullBytes: 40,
		Size:      100,
	})
	assert.Equal(t, []string{RecDecrypt, RecPadding, RecIBAN, RecSWIFT}, got)
}

func TestRecommend_NoPatterns(t *testing.T) {
	s := New(DefaultOptions())
	assert.Equal(t, []string{RecNoSignal}, s.Recommend(Input{Size: 10}))
}

func TestRecommend_ThresholdsAreStrict(t *testing.T) {
	s := New(DefaultOptions())
	got := s.Recommend(Input{Patterns: set("x"), Entropy: 7.5, NullBytes: 30, Size: 100})
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestSummarize(t *testing.T) {
	s := New(DefaultOptions())
	sum := s.Summarize(Input{Patterns: set(patterns.IBAN), FieldCount: 20})
	assert.Equal(t, 1, sum.TotalPatterns)
	assert.Equal(t, 20, sum.TotalFields)
	assert.InDelta(t, 17.0, sum.Confidence, 1e-9)
	assert.Equal(t, []string{RecIBAN}, sum.Recommendations)
}
