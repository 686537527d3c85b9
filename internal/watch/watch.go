// Package watch re-analyzes files as they are written.
package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	xxhash "github.com/cespare/xxhash/v2"
	"github.com/fsnotify/fsnotify"

	"github.com/ledgerprobe/ledgerprobe/internal/ingest"
	"github.com/ledgerprobe/ledgerprobe/internal/logging"
	"github.com/ledgerprobe/ledgerprobe/internal/types"
)

// Analyzer is the subset of the engine the watcher needs.
type Analyzer interface {
	Analyze(ctx context.Context, name string, data []byte) (types.AnalysisReport, error)
}

type Options struct {
	// Debounce is how long a file must stay quiet before it is analyzed.
	Debounce time.Duration
	// Filter, when set, decides whether a changed path is analyzed.
	Filter func(path string) bool
	Logger *slog.Logger
}

// DefaultDebounce waits out editors that write in several steps.
const DefaultDebounce = 500 * time.Millisecond

// Watcher is not safe for concurrent Run calls.
type Watcher struct {
	fs     *fsnotify.Watcher
	an     Analyzer
	opts   Options
	log    *slog.Logger
	dirs   map[string]bool
	files  map[string]bool
	seen   map[string]uint64 // path -> xxhash of the last analyzed content
	queued map[string]time.Time
}

func New(an Analyzer, opts Options) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}
	return &Watcher{
		fs:     fsw,
		an:     an,
		opts:   opts,
		log:    log,
		dirs:   map[string]bool{},
		files:  map[string]bool{},
		seen:   map[string]uint64{},
		queued: map[string]time.Time{},
	}, nil
}

// Add watches directories (non-recursively) and single files. A single
// file is watched through its parent directory.
func (w *Watcher) Add(paths ...string) error {
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		info, err := os.Stat(abs)
		if err != nil {
			return err
		}
		dir := abs
		if info.IsDir() {
			w.dirs[abs] = true
		} else {
			w.files[abs] = true
			dir = filepath.Dir(abs)
		}
		if err := w.fs.Add(dir); err != nil {
			return err
		}
	}
	return nil
}

// Run delivers a report to fn for every watched file whose content changed,
// until ctx is done. Files whose bytes match the last analysis are skipped.
func (w *Watcher) Run(ctx context.Context, fn func(types.AnalysisReport)) error {
	tick := time.NewTicker(max(w.opts.Debounce/2, 10*time.Millisecond))
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 || !w.watched(ev.Name) {
				continue
			}
			w.queued[ev.Name] = time.Now()
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", "err", err)
		case now := <-tick.C:
			if err := w.flush(ctx, now, fn); err != nil {
				return err
			}
		}
	}
}

func (w *Watcher) watched(path string) bool {
	if !w.files[path] && !w.dirs[filepath.Dir(path)] {
		return false
	}
	return w.opts.Filter == nil || w.opts.Filter(path)
}

func (w *Watcher) flush(ctx context.Context, now time.Time, fn func(types.AnalysisReport)) error {
	var ready []string
	for p, at := range w.queued {
		if now.Sub(at) >= w.opts.Debounce {
			ready = append(ready, p)
		}
	}
	sort.Strings(ready)
	for _, p := range ready {
		delete(w.queued, p)
		data, err := ingest.File(p).Read()
		if err != nil {
			// directories, removed files and the like
			w.log.Debug("skipping changed path", "path", p, "err", err)
			continue
		}
		sum := xxhash.Sum64(data)
		if prev, ok := w.seen[p]; ok && prev == sum {
			continue
		}
		rep, err := w.an.Analyze(ctx, p, data)
		if err != nil {
			return err
		}
		w.seen[p] = sum
		fn(rep)
	}
	return nil
}

func (w *Watcher) Close() error {
	return w.fs.Close()
}
