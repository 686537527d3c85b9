// Package audit appends one JSON line per analyzed file so a run can be
// traced back to the exact bytes it looked at.
package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ledgerprobe/ledgerprobe/internal/types"
)

// FileName is the default audit log name inside the analyzed root.
const FileName = ".ledgerprobe_audit.jsonl"

// Record is the provenance of one analysis. Matched values are never
// stored, only per-category counts.
type Record struct {
	Timestamp     time.Time      `json:"timestamp"`
	RunID         string         `json:"run_id"`
	Path          string         `json:"path"`
	Size          int            `json:"size"`
	SHA256        string         `json:"sha256,omitempty"`
	Confidence    float64        `json:"confidence"`
	TotalPatterns int            `json:"total_patterns"`
	TotalFields   int            `json:"total_fields"`
	Categories    map[string]int `json:"categories,omitempty"`
	Error         string         `json:"error,omitempty"`
}

type Log struct {
	path string
}

// New returns a log writing to path.
func New(path string) *Log {
	return &Log{path: path}
}

// DefaultPath places the log in root.
func DefaultPath(root string) string {
	return filepath.Join(root, FileName)
}

func (l *Log) Path() string { return l.path }

// NewRecord summarizes a report.
func NewRecord(runID string, r types.AnalysisReport) Record {
	rec := Record{
		Timestamp:     r.FileInfo.Timestamp,
		RunID:         runID,
		Path:          r.FileInfo.Path,
		Size:          r.FileInfo.Size,
		SHA256:        r.Metadata.SHA256,
		Confidence:    r.Summary.Confidence,
		TotalPatterns: r.Summary.TotalPatterns,
		TotalFields:   r.Summary.TotalFields,
		Error:         r.Error,
	}
	if len(r.Patterns) > 0 {
		rec.Categories = make(map[string]int, len(r.Patterns))
		for _, g := range r.Patterns {
			rec.Categories[g.Category] = len(g.Matches)
		}
	}
	return rec
}

// Append writes records as JSON lines. A missing RunID is filled from the
// current time.
func (l *Log) Append(records ...Record) error {
	// owner-only: paths and hashes of analyzed files
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	fallback := fmt.Sprintf("run_%d", time.Now().Unix())
	for _, rec := range records {
		if rec.RunID == "" {
			rec.RunID = fallback
		}
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("failed to write audit record: %w", err)
		}
	}
	return nil
}

// History returns all records, newest first. Malformed lines are skipped.
func (l *Log) History() ([]Record, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	var records []Record
	decoder := json.NewDecoder(f)
	for decoder.More() {
		var rec Record
		if err := decoder.Decode(&rec); err != nil {
			break
		}
		records = append(records, rec)
	}

	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}
