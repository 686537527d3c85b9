package types

import "time"

// SignatureMatch records a known marker found in the buffer. Header is true
// only for the match at offset 0.
type SignatureMatch struct {
	Label  string `json:"label"`
	Offset int    `json:"offset"`
	Marker string `json:"marker"` // hex of the marker bytes
	Header bool   `json:"header,omitempty"`
}

// SignatureAnalysis is the signature scanner's view of one buffer.
type SignatureAnalysis struct {
	HeaderHex    string           `json:"header_hex"`
	Signatures   []SignatureMatch `json:"signatures"`
	IsEncrypted  bool             `json:"is_encrypted"`
	IsCompressed bool             `json:"is_compressed"`
}

// BlockProfile summarizes entropy measured over fixed-size blocks.
type BlockProfile struct {
	BlockSize int     `json:"block_size"`
	Blocks    int     `json:"blocks"`
	Mean      float64 `json:"mean"`
	StdDev    float64 `json:"stddev"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
}

// EntropyMetrics holds byte-distribution statistics for a buffer.
type EntropyMetrics struct {
	Entropy        float64      `json:"entropy"`
	HighEntropy    bool         `json:"high_entropy"`
	Decompressible bool         `json:"decompressible"`
	UniqueBytes    int          `json:"unique_bytes"`
	NullBytes      int          `json:"null_bytes"`
	PrintableRatio float64      `json:"printable_ratio"`
	Codecs         []string     `json:"codecs,omitempty"`
	ChiSquare      float64      `json:"chi_square"`
	BlockProfile   BlockProfile `json:"block_profile"`
}

// FieldKind is the fixed-width encoding a field candidate was decoded with.
type FieldKind string

const (
	KindUint32  FieldKind = "uint32-le"
	KindFloat32 FieldKind = "float32-le"
	KindFloat64 FieldKind = "float64-le"
)

// FieldCandidate is one plausible numeric interpretation of the bytes at
// Offset. The same bytes may produce several candidates.
type FieldCandidate struct {
	Offset int       `json:"offset"`
	Kind   FieldKind `json:"kind"`
	Value  float64   `json:"value"`
	Label  string    `json:"label"`
}

// FieldSummary is the report view over all field candidates.
type FieldSummary struct {
	Total      int                     `json:"total"`
	ByKind     map[FieldKind][]float64 `json:"by_kind"`
	HighValue  []FieldCandidate        `json:"high_value"`
	Candidates []FieldCandidate        `json:"candidates"`
}

// PatternMatch is a single regex hit within the buffer.
type PatternMatch struct {
	Category string `json:"category"`
	Offset   int    `json:"offset"`
	Length   int    `json:"length"`
	Decoded  string `json:"decoded"`
	Hex      string `json:"hex"`
	Context  string `json:"context"`
	// Verified is set only for categories that carry a checksum validator.
	Verified *bool `json:"verified,omitempty"`
}

// PatternGroup holds all matches of one category.
type PatternGroup struct {
	Category string         `json:"category"`
	Matches  []PatternMatch `json:"matches"`
}

// PatternSet is the extractor output in catalogue order. Categories without
// matches are absent.
type PatternSet []PatternGroup

// Get returns the matches recorded for category, or nil.
func (ps PatternSet) Get(category string) []PatternMatch {
	for _, g := range ps {
		if g.Category == category {
			return g.Matches
		}
	}
	return nil
}

// Has reports whether category has at least one match.
func (ps PatternSet) Has(category string) bool {
	return len(ps.Get(category)) > 0
}

// Total counts matches across all categories.
func (ps PatternSet) Total() int {
	n := 0
	for _, g := range ps {
		n += len(g.Matches)
	}
	return n
}

// HypothesisKind names a structure heuristic.
type HypothesisKind string

const (
	AlignedBlocks   HypothesisKind = "aligned-blocks"
	RepeatingStride HypothesisKind = "repeating-stride"
)

// StructureHypothesis is a non-exclusive guess about record layout.
type StructureHypothesis struct {
	Kind       HypothesisKind `json:"kind"`
	Parameter  int            `json:"parameter"`
	Confidence float64        `json:"confidence"`
	BlockCount int            `json:"block_count,omitempty"`
	MatchRatio float64        `json:"match_ratio,omitempty"`
}

// DecodeStatus tags a DecodedField as parsed or unparsed.
type DecodeStatus string

const (
	StatusParsed   DecodeStatus = "parsed"
	StatusUnparsed DecodeStatus = "unparsed"
)

// DecodedField is one field of a layout record. Value is only meaningful
// when Status is StatusParsed; Reason only when it is StatusUnparsed. Raw is
// the little-endian hex of the field bytes and is exact for every type.
type DecodedField struct {
	Name   string       `json:"name"`
	Offset int          `json:"offset"`
	Size   int          `json:"size"`
	Type   string       `json:"type"`
	Status DecodeStatus `json:"status"`
	Value  any          `json:"value,omitempty"`
	Raw    string       `json:"raw"`
	Reason string       `json:"reason,omitempty"`
}

// LayoutRecord is a buffer slice decoded with a known record layout.
type LayoutRecord struct {
	Layout string         `json:"layout"`
	Index  int            `json:"index"`
	Offset int            `json:"offset"`
	Fields []DecodedField `json:"fields"`
}

// Amount is a monetary string with its location.
type Amount struct {
	Raw     string `json:"raw"`
	Offset  int    `json:"offset"`
	Context string `json:"context"`
}

// FinancialExtract groups pattern matches into banking concepts.
type FinancialExtract struct {
	Accounts     []string `json:"accounts"`
	Amounts      []Amount `json:"amounts"`
	Banks        []string `json:"banks"`
	Transactions []string `json:"transactions"`
	Currencies   []string `json:"currencies"`
}

// FileInfo describes the analyzed source. Timestamp is informational and
// is not part of the semantic result.
type FileInfo struct {
	Path      string    `json:"path"`
	Size      int       `json:"size"`
	Timestamp time.Time `json:"timestamp"`
}

// Metadata carries content hashes and headline byte statistics.
type Metadata struct {
	Size           int     `json:"file_size"`
	SHA256         string  `json:"sha256"`
	MD5            string  `json:"md5"`
	BLAKE2b256     string  `json:"blake2b_256"`
	XXHash64       string  `json:"xxhash64"`
	Entropy        float64 `json:"entropy"`
	UniqueBytes    int     `json:"unique_bytes"`
	NullBytes      int     `json:"null_bytes"`
	PrintableRatio float64 `json:"printable_ratio"`
}

// Summary is the synthesized verdict.
type Summary struct {
	TotalPatterns   int      `json:"total_patterns"`
	TotalFields     int      `json:"total_fields"`
	Confidence      float64  `json:"confidence_level"`
	Recommendations []string `json:"recommended_actions"`
}

// AnalysisReport is the aggregate result of one analysis. When Error is set
// the source could not be read and every other section is empty.
type AnalysisReport struct {
	FileInfo   FileInfo              `json:"file_info"`
	Metadata   Metadata              `json:"metadata"`
	Signature  SignatureAnalysis     `json:"signature_analysis"`
	Entropy    EntropyMetrics        `json:"entropy"`
	Patterns   PatternSet            `json:"patterns"`
	Semantic   map[string]int        `json:"semantic_patterns"`
	Fields     FieldSummary          `json:"structured_fields"`
	Structures []StructureHypothesis `json:"structure_detection"`
	Layouts    []LayoutRecord        `json:"layouts"`
	Financial  FinancialExtract      `json:"financial_data"`
	Summary    Summary               `json:"decompilation_summary"`
	Error      string                `json:"error,omitempty"`
}
