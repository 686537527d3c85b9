package engine

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ledgerprobe/ledgerprobe/internal/confidence"
	"github.com/ledgerprobe/ledgerprobe/internal/entropy"
	"github.com/ledgerprobe/ledgerprobe/internal/fields"
	"github.com/ledgerprobe/ledgerprobe/internal/financial"
	"github.com/ledgerprobe/ledgerprobe/internal/ingest"
	"github.com/ledgerprobe/ledgerprobe/internal/layout"
	"github.com/ledgerprobe/ledgerprobe/internal/logging"
	"github.com/ledgerprobe/ledgerprobe/internal/patterns"
	"github.com/ledgerprobe/ledgerprobe/internal/signatures"
	"github.com/ledgerprobe/ledgerprobe/internal/structure"
	"github.com/ledgerprobe/ledgerprobe/internal/types"
)

// Config controls every analyzer plus batch selection. Treat it as immutable
// once handed to New. Nil catalogues mean "none", so start from DefaultConfig.
type Config struct {
	Threads int

	Signatures       signatures.Catalogue
	Entropy          entropy.Options
	Fields           fields.Options
	Structure        structure.Options
	Patterns         patterns.Catalogue
	PatternOptions   patterns.Options
	Layouts          []layout.Layout
	MaxLayoutRecords int
	Financial        financial.Limits
	Confidence       confidence.Options

	// Field summary
	HighValueThreshold float64
	HighValueLimit     int
	MaxFields          int // listed candidates; negative lists all, 0 none

	// Batch selection (AnalyzePaths)
	IncludeGlobs    string
	ExcludeGlobs    string
	MaxBytes        int64 // 0 = unlimited
	DefaultExcludes bool
	Incremental     bool

	Logger *slog.Logger
	Now    func() time.Time
}

// DefaultConfig returns the stock catalogues and thresholds.
func DefaultConfig() Config {
	return Config{
		Threads:            runtime.GOMAXPROCS(0),
		Signatures:         signatures.DefaultCatalogue(),
		Entropy:            entropy.DefaultOptions(),
		Fields:             fields.DefaultOptions(),
		Structure:          structure.DefaultOptions(),
		Patterns:           patterns.DefaultCatalogue(),
		PatternOptions:     patterns.Options{ContextRadius: patterns.DefaultContextRadius},
		Layouts:            layout.DefaultLayouts(),
		MaxLayoutRecords:   layout.DefaultMaxRecords,
		Financial:          financial.DefaultLimits(),
		Confidence:         confidence.DefaultOptions(),
		HighValueThreshold: 10000,
		HighValueLimit:     20,
		MaxFields:          100,
		DefaultExcludes:    true,
	}
}

// Engine runs all analyzers over a buffer. It is safe for concurrent use.
type Engine struct {
	cfg       Config
	log       *slog.Logger
	now       func() time.Time
	sigs      *signatures.Scanner
	entropy   *entropy.Analyzer
	fields    *fields.Scanner
	structure *structure.Engine
	patterns  *patterns.Extractor
	layouts   *layout.Interpreter
	conf      *confidence.Synthesizer
}

// New builds every analyzer from cfg. Invalid catalogues are reported here.
func New(cfg Config) (*Engine, error) {
	if cfg.Threads <= 0 {
		cfg.Threads = runtime.GOMAXPROCS(0)
	}
	if cfg.Fields.Workers <= 0 {
		cfg.Fields.Workers = cfg.Threads
	}
	if cfg.Confidence.CategoryCap == 0 && cfg.Confidence.FieldCap == 0 {
		cfg.Confidence = confidence.DefaultOptions()
	}
	e := &Engine{cfg: cfg, log: cfg.Logger, now: cfg.Now}
	if e.log == nil {
		e.log = logging.Discard()
	}
	if e.now == nil {
		e.now = time.Now
	}

	var err error
	e.patterns, err = patterns.New(cfg.Patterns, cfg.PatternOptions)
	if err != nil {
		return nil, fmt.Errorf("pattern catalogue: %w", err)
	}
	e.layouts, err = layout.New(cfg.Layouts, cfg.MaxLayoutRecords)
	if err != nil {
		return nil, fmt.Errorf("layouts: %w", err)
	}
	e.sigs = signatures.New(cfg.Signatures)
	e.entropy = entropy.New(cfg.Entropy)
	e.fields = fields.New(cfg.Fields)
	e.structure = structure.New(cfg.Structure)
	e.conf = confidence.New(cfg.Confidence)
	return e, nil
}

// Config returns the configuration the engine was built with.
func (e *Engine) Config() Config { return e.cfg }

// Patterns exposes the compiled extractor, mainly for listing categories.
func (e *Engine) Patterns() *patterns.Extractor { return e.patterns }

// AnalyzeSource reads src and analyzes the buffer. A read failure yields a
// report carrying only the path and the error, plus the error itself.
func (e *Engine) AnalyzeSource(ctx context.Context, src ingest.Source) (types.AnalysisReport, error) {
	data, err := src.Read()
	if err != nil {
		return e.failed(src.Name(), err), err
	}
	return e.Analyze(ctx, src.Name(), data)
}

// Analyze runs every analyzer over data concurrently and assembles the
// report. data is never modified. The only error is ctx's.
func (e *Engine) Analyze(ctx context.Context, name string, data []byte) (types.AnalysisReport, error) {
	started := time.Now()
	rep := types.AnalysisReport{
		FileInfo: types.FileInfo{Path: name, Size: len(data), Timestamp: e.now()},
	}

	var (
		ent    types.EntropyMetrics
		header string
		sigs   []types.SignatureMatch
		cands  []types.FieldCandidate
		hyps   []types.StructureHypothesis
		pats   types.PatternSet
		sem    map[string]int
		recs   []types.LayoutRecord
		sums   digests
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Threads)
	e.stage(g, "entropy", func() { ent = e.entropy.Analyze(data) })
	e.stage(g, "signatures", func() { header, sigs = e.sigs.Scan(data) })
	e.stage(g, "fields", func() { cands = e.fields.Scan(gctx, data) })
	e.stage(g, "structure", func() { hyps = e.structure.Detect(data) })
	e.stage(g, "patterns", func() { pats = e.patterns.Extract(data) })
	e.stage(g, "semantic", func() { sem = e.patterns.Semantic(data) })
	e.stage(g, "layouts", func() { recs = e.layouts.Interpret(data) })
	e.stage(g, "hashes", func() { sums = digest(data) })
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return rep, err
	}

	rep.Metadata = types.Metadata{
		Size:           len(data),
		SHA256:         sums.sha256,
		MD5:            sums.md5,
		BLAKE2b256:     sums.blake2b,
		XXHash64:       sums.xxhash,
		Entropy:        ent.Entropy,
		UniqueBytes:    ent.UniqueBytes,
		NullBytes:      ent.NullBytes,
		PrintableRatio: ent.PrintableRatio,
	}
	rep.Signature = types.SignatureAnalysis{
		HeaderHex:    header,
		Signatures:   sigs,
		IsEncrypted:  ent.HighEntropy,
		IsCompressed: ent.Decompressible,
	}
	rep.Entropy = ent
	rep.Patterns = pats
	rep.Semantic = sem
	rep.Fields = fields.Summarize(cands, e.cfg.HighValueThreshold, e.cfg.HighValueLimit, e.cfg.MaxFields)
	rep.Structures = hyps
	rep.Layouts = recs
	rep.Financial = financial.Aggregate(pats, e.cfg.Financial)
	rep.Summary = e.conf.Summarize(confidence.Input{
		Patterns:   pats,
		FieldCount: len(cands),
		Entropy:    ent.Entropy,
		NullBytes:  ent.NullBytes,
		Size:       len(data),
	})
	normalize(&rep)

	e.log.Debug("analysis finished", "path", name, "bytes", len(data), "elapsed", time.Since(started))
	return rep, nil
}

// stage runs fn on g. A panic inside fn is logged and leaves that analyzer's
// result at its zero value.
func (e *Engine) stage(g *errgroup.Group, name string, fn func()) {
	g.Go(func() error {
		defer func() {
			if r := recover(); r != nil {
				e.log.Warn("analyzer panicked", "analyzer", name, "panic", fmt.Sprint(r))
			}
		}()
		start := time.Now()
		fn()
		e.log.Debug("analyzer finished", "analyzer", name, "elapsed", time.Since(start))
		return nil
	})
}

// normalize replaces nil collections so JSON output always carries arrays
// and objects.
func normalize(r *types.AnalysisReport) {
	if r.Signature.Signatures == nil {
		r.Signature.Signatures = []types.SignatureMatch{}
	}
	if r.Patterns == nil {
		r.Patterns = types.PatternSet{}
	}
	if r.Semantic == nil {
		r.Semantic = map[string]int{}
	}
	if r.Fields.ByKind == nil {
		r.Fields.ByKind = map[types.FieldKind][]float64{}
	}
	if r.Fields.HighValue == nil {
		r.Fields.HighValue = []types.FieldCandidate{}
	}
	if r.Fields.Candidates == nil {
		r.Fields.Candidates = []types.FieldCandidate{}
	}
	if r.Structures == nil {
		r.Structures = []types.StructureHypothesis{}
	}
	if r.Layouts == nil {
		r.Layouts = []types.LayoutRecord{}
	}
	if r.Summary.Recommendations == nil {
		r.Summary.Recommendations = []string{}
	}
	if r.Financial.Accounts == nil {
		r.Financial = financial.Aggregate(nil, financial.Limits{})
	}
}
