package entropy

import (
	"bytes"
	"errors"
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// Codec names reported in EntropyMetrics.Codecs.
const (
	CodecZlib    = "zlib"
	CodecDeflate = "deflate"
	CodecGzip    = "gzip"
	CodecZstd    = "zstd"
	CodecXZ      = "xz"
)

var errInflateBound = errors.New("inflate bound reached")

type opener func(r io.Reader) (io.Reader, func(), error)

var codecs = []struct {
	name string
	open opener
}{
	{CodecZlib, func(r io.Reader) (io.Reader, func(), error) {
		zr, err := zlib.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return zr, func() { _ = zr.Close() }, nil
	}},
	{CodecDeflate, func(r io.Reader) (io.Reader, func(), error) {
		fr := flate.NewReader(r)
		return fr, func() { _ = fr.Close() }, nil
	}},
	{CodecGzip, func(r io.Reader) (io.Reader, func(), error) {
		gr, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return gr, func() { _ = gr.Close() }, nil
	}},
	{CodecZstd, func(r io.Reader) (io.Reader, func(), error) {
		d, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, nil, err
		}
		return d, d.Close, nil
	}},
	{CodecXZ, func(r io.Reader) (io.Reader, func(), error) {
		xr, err := xz.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return xr, func() {}, nil
	}},
}

// probeCodecs lists the decoders that consume data without error. Probe
// failures are the common case and are not reported.
func probeCodecs(data []byte, limit int64) []string {
	if len(data) == 0 {
		return nil
	}
	var out []string
	for _, c := range codecs {
		if decodes(data, c.open, limit) {
			out = append(out, c.name)
		}
	}
	return out
}

func decodes(data []byte, open opener, limit int64) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	r, closeFn, err := open(bytes.NewReader(data))
	if err != nil {
		return false
	}
	defer closeFn()
	err = drain(r, limit)
	return err == nil || errors.Is(err, errInflateBound)
}

func drain(r io.Reader, limit int64) error {
	n, err := io.Copy(io.Discard, io.LimitReader(r, limit))
	if err != nil {
		return err
	}
	if n >= limit {
		return errInflateBound
	}
	return nil
}

// Decompressible reports whether data inflates fully as a zlib stream or as
// a raw deflate stream.
func Decompressible(data []byte, limit int64) bool {
	if len(data) == 0 {
		return false
	}
	if limit <= 0 {
		limit = DefaultOptions().MaxInflateBytes
	}
	return decodes(data, codecs[0].open, limit) || decodes(data, codecs[1].open, limit)
}
