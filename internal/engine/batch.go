package engine

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ledgerprobe/ledgerprobe/internal/cache"
	"github.com/ledgerprobe/ledgerprobe/internal/ignore"
	"github.com/ledgerprobe/ledgerprobe/internal/ingest"
	"github.com/ledgerprobe/ledgerprobe/internal/types"
)

// Target is one file selected for batch analysis.
type Target struct {
	Path string // path as opened
	Root string // walked directory it came from; empty for explicit files
	Rel  string // Path relative to Root
}

// BatchResult contains per-file reports and basic batch statistics.
type BatchResult struct {
	Reports   []types.AnalysisReport
	Analyzed  int
	Failed    int // reports carrying a read error
	Skipped   int // over MaxBytes
	Unchanged int // skipped by the incremental cache
	Duration  time.Duration
}

// Targets expands roots into files. Directories are walked applying default
// excludes, the root's .ledgerprobeignore, include/exclude globs and
// MaxBytes; explicit files only face MaxBytes. A root that cannot be
// stat'ed is kept so its error is reported.
func (e *Engine) Targets(ctx context.Context, roots []string) ([]Target, int, error) {
	var out []Target
	skipped := 0
	for _, root := range roots {
		st, err := os.Stat(root)
		if err != nil || !st.IsDir() {
			if err == nil && e.overLimit(st.Size()) {
				e.log.Warn("skipping file over max bytes", "path", root, "size", st.Size())
				skipped++
				continue
			}
			out = append(out, Target{Path: root})
			continue
		}
		ig, _ := ignore.Load(filepath.Join(root, ignore.FileName))
		err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if cerr := ctx.Err(); cerr != nil {
				return cerr
			}
			rel, _ := filepath.Rel(root, p)
			if d.IsDir() {
				if p != root && ((e.cfg.DefaultExcludes && isDefaultDirExcluded(d.Name())) || ig.Match(rel)) {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() {
				return nil
			}
			if ig.Match(rel) || !allowedByGlobs(rel, e.cfg) {
				return nil
			}
			if e.cfg.DefaultExcludes && isDefaultFileExcluded(rel) {
				return nil
			}
			if info, _ := d.Info(); info != nil && e.overLimit(info.Size()) {
				e.log.Warn("skipping file over max bytes", "path", p, "size", info.Size())
				skipped++
				return nil
			}
			out = append(out, Target{Path: p, Root: root, Rel: rel})
			return nil
		})
		if err != nil {
			return nil, skipped, err
		}
	}
	return out, skipped, nil
}

func (e *Engine) overLimit(size int64) bool {
	return e.cfg.MaxBytes > 0 && size > e.cfg.MaxBytes
}

// AnalyzePaths analyzes every target on a bounded worker pool. Reports keep
// target order. Unreadable files become error reports rather than failing
// the batch; only cancellation aborts it.
func (e *Engine) AnalyzePaths(ctx context.Context, roots []string) (BatchResult, error) {
	var res BatchResult
	started := time.Now()
	targets, skipped, err := e.Targets(ctx, roots)
	res.Skipped = skipped
	if err != nil {
		return res, err
	}

	dbs := map[string]cache.DB{}
	if e.cfg.Incremental {
		for _, t := range targets {
			if t.Root == "" {
				continue
			}
			if _, ok := dbs[t.Root]; ok {
				continue
			}
			db, err := cache.Load(t.Root)
			if err != nil && !errors.Is(err, fs.ErrNotExist) {
				e.log.Warn("ignoring unreadable cache", "root", t.Root, "err", err)
			}
			dbs[t.Root] = db
		}
	}

	reports := make([]*types.AnalysisReport, len(targets))
	sums := make([]string, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Threads)
	for i, t := range targets {
		g.Go(func() error {
			data, err := ingest.File(t.Path).Read()
			if err != nil {
				e.log.Warn("cannot read file", "path", t.Path, "err", err)
				rep := e.failed(t.Path, err)
				reports[i] = &rep
				return nil
			}
			if db, ok := dbs[t.Root]; ok {
				sums[i] = fastHash(data)
				if db.Unchanged(t.Rel, sums[i]) {
					return nil
				}
			}
			rep, err := e.Analyze(gctx, t.Path, data)
			if err != nil {
				return err
			}
			reports[i] = &rep
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return res, err
	}

	for i, r := range reports {
		switch {
		case r == nil:
			res.Unchanged++
			continue
		case r.Error != "":
			res.Failed++
		default:
			res.Analyzed++
			if sums[i] != "" {
				dbs[targets[i].Root].Entries[targets[i].Rel] = sums[i]
			}
		}
		res.Reports = append(res.Reports, *r)
	}
	for root, db := range dbs {
		if err := cache.Save(root, db); err != nil {
			e.log.Warn("cannot save cache", "root", root, "err", err)
		}
	}
	res.Duration = time.Since(started)
	return res, nil
}

func (e *Engine) failed(path string, err error) types.AnalysisReport {
	rep := types.AnalysisReport{
		FileInfo: types.FileInfo{Path: path, Timestamp: e.now()},
		Error:    err.Error(),
	}
	normalize(&rep)
	return rep
}
