package core

import (
	"context"

	"github.com/ledgerprobe/ledgerprobe/internal/engine"
	"github.com/ledgerprobe/ledgerprobe/internal/ingest"
	"github.com/ledgerprobe/ledgerprobe/internal/types"
)

// Re-export selected internal types as a stable public API surface.
// These are type aliases so external consumers can depend on a stable path.
type Config = engine.Config
type Report = types.AnalysisReport
type BatchResult = engine.BatchResult

// DefaultConfig returns the stock catalogues and thresholds.
func DefaultConfig() Config { return engine.DefaultConfig() }

// Analyze is the stable entrypoint for in-memory buffers.
func Analyze(ctx context.Context, cfg Config, name string, data []byte) (Report, error) {
	e, err := engine.New(cfg)
	if err != nil {
		return Report{}, err
	}
	return e.Analyze(ctx, name, data)
}

// AnalyzeFile reads path and analyzes it. A read failure returns a report
// carrying the error as well as the error itself.
func AnalyzeFile(ctx context.Context, cfg Config, path string) (Report, error) {
	e, err := engine.New(cfg)
	if err != nil {
		return Report{}, err
	}
	return e.AnalyzeSource(ctx, ingest.File(path))
}

// AnalyzePaths analyzes files and directory trees on a worker pool.
func AnalyzePaths(ctx context.Context, cfg Config, roots ...string) (BatchResult, error) {
	e, err := engine.New(cfg)
	if err != nil {
		return BatchResult{}, err
	}
	return e.AnalyzePaths(ctx, roots)
}
