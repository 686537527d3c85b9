// Package ingest loads whole buffers for analysis. Analyzers only ever see
// the returned bytes, so alternative sources plug in here.
package ingest

import (
	"errors"
	"fmt"
	"io"
	"os"
)

var (
	ErrEmptyPath  = errors.New("empty path")
	ErrNotRegular = errors.New("not a regular file")
)

// Source yields one buffer. Name identifies it in reports.
type Source interface {
	Name() string
	Read() ([]byte, error)
}

// FileSource reads a regular file from disk.
type FileSource struct {
	Path string
}

func File(path string) FileSource { return FileSource{Path: path} }

func (f FileSource) Name() string { return f.Path }

func (f FileSource) Read() ([]byte, error) {
	if f.Path == "" {
		return nil, ErrEmptyPath
	}
	st, err := os.Stat(f.Path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", f.Path, err)
	}
	if !st.Mode().IsRegular() {
		return nil, fmt.Errorf("%s: %w", f.Path, ErrNotRegular)
	}
	b, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.Path, err)
	}
	return b, nil
}

// BytesSource wraps an in-memory buffer. The buffer is not copied.
type BytesSource struct {
	Label string
	Data  []byte
}

func Bytes(label string, data []byte) BytesSource { return BytesSource{Label: label, Data: data} }

func (b BytesSource) Name() string { return b.Label }

func (b BytesSource) Read() ([]byte, error) { return b.Data, nil }

// ReaderSource drains a reader, for example stdin.
type ReaderSource struct {
	Label string
	R     io.Reader
}

func Reader(label string, r io.Reader) ReaderSource { return ReaderSource{Label: label, R: r} }

func (r ReaderSource) Name() string { return r.Label }

func (r ReaderSource) Read() ([]byte, error) {
	if r.R == nil {
		return nil, fmt.Errorf("%s: nil reader", r.Label)
	}
	b, err := io.ReadAll(r.R)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", r.Label, err)
	}
	return b, nil
}
