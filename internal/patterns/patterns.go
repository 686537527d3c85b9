// Package patterns extracts named textual patterns (banking identifiers,
// amounts, dates, references, hashes) and keyword counts from raw buffers.
// Matching runs over the raw bytes, so offsets are byte offsets.
package patterns

import (
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"sort"

	"github.com/ledgerprobe/ledgerprobe/internal/decode"
	"github.com/ledgerprobe/ledgerprobe/internal/types"
)

// DefaultContextRadius is the number of bytes taken on each side of a match.
const DefaultContextRadius = 50

// Options configures an Extractor.
type Options struct {
	ContextRadius int
	// Extra patterns appended after the catalogue, keyed by category name.
	Extra map[string]string
	// Disable drops categories by name.
	Disable  []string
	Keywords []KeywordSet
}

type compiled struct {
	src    Pattern
	name   string
	find   func([]byte) [][]int
	verify func(string) bool
}

// Extractor is immutable after New and safe for concurrent use.
type Extractor struct {
	pats     []compiled
	radius   int
	keywords []KeywordSet
}

// New compiles cat plus opts.Extra. Any invalid expression, empty name or
// duplicate name is reported here so analysis itself never fails.
func New(cat Catalogue, opts Options) (*Extractor, error) {
	if opts.ContextRadius <= 0 {
		opts.ContextRadius = DefaultContextRadius
	}
	if opts.Keywords == nil {
		opts.Keywords = DefaultKeywords()
	}
	disabled := map[string]bool{}
	for _, d := range opts.Disable {
		disabled[d] = true
	}

	all := append(Catalogue(nil), cat...)
	names := make([]string, 0, len(opts.Extra))
	for name := range opts.Extra {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		all = append(all, Pattern{Name: name, Expr: opts.Extra[name]})
	}

	e := &Extractor{radius: opts.ContextRadius, keywords: opts.Keywords}
	seen := map[string]bool{}
	for _, p := range all {
		if p.Name == "" {
			return nil, errors.New("pattern with empty name")
		}
		if seen[p.Name] {
			return nil, fmt.Errorf("duplicate pattern %q", p.Name)
		}
		seen[p.Name] = true
		if disabled[p.Name] {
			continue
		}
		c := compiled{src: p, name: p.Name, find: p.Find, verify: p.Verify}
		if c.find == nil {
			if p.Expr == "" {
				return nil, fmt.Errorf("pattern %q: no expression", p.Name)
			}
			re, err := regexp.Compile(p.Expr)
			if err != nil {
				return nil, fmt.Errorf("pattern %q: %w", p.Name, err)
			}
			c.find = func(b []byte) [][]int { return re.FindAllIndex(b, -1) }
		}
		e.pats = append(e.pats, c)
	}
	return e, nil
}

// Categories returns the active category names in extraction order.
func (e *Extractor) Categories() []string {
	out := make([]string, len(e.pats))
	for i, p := range e.pats {
		out[i] = p.name
	}
	return out
}

// Catalogue returns the active patterns, extras included, in extraction order.
func (e *Extractor) Catalogue() Catalogue {
	out := make(Catalogue, len(e.pats))
	for i, p := range e.pats {
		out[i] = p.src
	}
	return out
}

// Extract runs every active pattern over data. Each category's matches are
// non-overlapping and ordered by offset; the same bytes may match several
// categories.
func (e *Extractor) Extract(data []byte) types.PatternSet {
	set := types.PatternSet{}
	for _, p := range e.pats {
		spans := p.find(data)
		if len(spans) == 0 {
			continue
		}
		matches := make([]types.PatternMatch, 0, len(spans))
		for _, sp := range spans {
			raw := data[sp[0]:sp[1]]
			m := types.PatternMatch{
				Category: p.name,
				Offset:   sp[0],
				Length:   len(raw),
				Decoded:  decode.Lossy(raw),
				Hex:      hex.EncodeToString(raw),
				Context:  decode.Context(data, sp[0], e.radius),
			}
			if p.verify != nil {
				ok := p.verify(m.Decoded)
				m.Verified = &ok
			}
			matches = append(matches, m)
		}
		set = append(set, types.PatternGroup{Category: p.name, Matches: matches})
	}
	return set
}

// Semantic counts keyword occurrences per category over the lossy decoding
// of data.
func (e *Extractor) Semantic(data []byte) map[string]int {
	return countKeywords(decode.Lossy(data), e.keywords)
}
