// Package confidence turns analyzer output into a score and a list of
// follow-up recommendations.
package confidence

import (
	"github.com/ledgerprobe/ledgerprobe/internal/patterns"
	"github.com/ledgerprobe/ledgerprobe/internal/types"
)

// Recommendation texts, emitted in this order when their rule fires.
const (
	RecDecrypt  = "High entropy detected: the data is likely encrypted. Consider decrypting it first."
	RecPadding  = "High proportion of null bytes: likely a padded or fixed-width record format."
	RecIBAN     = "IBANs detected: the file contains international banking data."
	RecSWIFT    = "SWIFT codes detected: interbank transactions are present."
	RecNoSignal = "Few patterns detected: consider manual analysis or specialized tooling."
)

// Options holds the scoring weights and recommendation thresholds.
type Options struct {
	PerCategory      float64
	CategoryCap      float64
	FieldDivisor     float64
	FieldCap         float64
	KeyBonus         float64
	KeyCategories    []string
	EntropyThreshold float64
	NullRatio        float64
}

func DefaultOptions() Options {
	return Options{
		PerCategory:      10,
		CategoryCap:      50,
		FieldDivisor:     10,
		FieldCap:         30,
		KeyBonus:         5,
		KeyCategories:    []string{patterns.IBAN, patterns.SWIFT, patterns.AccountNumber, patterns.USDAmount},
		EntropyThreshold: 7.5,
		NullRatio:        0.3,
	}
}

// Input is what the synthesizer looks at.
type Input struct {
	Patterns   types.PatternSet
	FieldCount int
	Entropy    float64
	NullBytes  int
	Size       int
}

type Synthesizer struct {
	opts Options
}

// New uses opts as given; start from DefaultOptions to override a subset.
func New(opts Options) *Synthesizer {
	if opts.FieldDivisor <= 0 {
		opts.FieldDivisor = DefaultOptions().FieldDivisor
	}
	return &Synthesizer{opts: opts}
}

// Score is clamped to [0, 100].
func (s *Synthesizer) Score(in Input) float64 {
	o := s.opts
	score := min(o.PerCategory*float64(len(in.Patterns)), o.CategoryCap)
	score += min(float64(in.FieldCount)/o.FieldDivisor, o.FieldCap)
	for _, cat := range o.KeyCategories {
		if in.Patterns.Has(cat) {
			score += o.KeyBonus
		}
	}
	return max(0, min(score, 100))
}

// Recommend returns the recommendations whose rules fire, in rule order.
func (s *Synthesizer) Recommend(in Input) []string {
	out := []string{}
	if in.Entropy > s.opts.EntropyThreshold {
		out = append(out, RecDecrypt)
	}
	if float64(in.NullBytes) > float64(in.Size)*s.opts.NullRatio {
		out = append(out, RecPadding)
	}
	if in.Patterns.Has(patterns.IBAN) {
		out = append(out, RecIBAN)
	}
	if in.Patterns.Has(patterns.SWIFT) {
		out = append(out, RecSWIFT)
	}
	if len(in.Patterns) == 0 {
		out = append(out, RecNoSignal)
	}
	return out
}

// Summarize builds the report summary.
func (s *Synthesizer) Summarize(in Input) types.Summary {
	return types.Summary{
		TotalPatterns:   in.Patterns.Total(),
		TotalFields:     in.FieldCount,
		Confidence:      s.Score(in),
		Recommendations: s.Recommend(in),
	}
}
