// Package layout decodes buffers against known fixed-size record layouts.
package layout

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"strings"

	"github.com/ledgerprobe/ledgerprobe/internal/decode"
	"github.com/ledgerprobe/ledgerprobe/internal/types"
)

// FieldType is the on-disk encoding of a layout field. All integers are
// little-endian.
type FieldType string

const (
	Uint8  FieldType = "uint8"
	Uint32 FieldType = "uint32"
	Uint64 FieldType = "uint64"
	Double FieldType = "double"
	String FieldType = "string"
)

var widths = map[FieldType]int{Uint8: 1, Uint32: 4, Uint64: 8, Double: 8}

// Field places a typed value inside a record.
type Field struct {
	Name   string
	Offset int
	Size   int
	Type   FieldType
}

// Layout is a named fixed-size record.
type Layout struct {
	Name   string
	Size   int
	Fields []Field
}

// DefaultMaxRecords bounds how many consecutive records are decoded per layout.
const DefaultMaxRecords = 4

// DefaultLayouts returns the ledger entry and balance record layouts.
func DefaultLayouts() []Layout {
	return []Layout{
		{
			Name: "ledger_entry",
			Size: 64,
			Fields: []Field{
				{Name: "timestamp", Offset: 0, Size: 8, Type: Uint64},
				{Name: "account_id", Offset: 8, Size: 8, Type: Uint64},
				{Name: "amount", Offset: 16, Size: 8, Type: Double},
				{Name: "currency", Offset: 24, Size: 3, Type: String},
				{Name: "transaction_type", Offset: 27, Size: 1, Type: Uint8},
				{Name: "reference", Offset: 28, Size: 32, Type: String},
			},
		},
		{
			Name: "balance_record",
			Size: 32,
			Fields: []Field{
				{Name: "account_id", Offset: 0, Size: 8, Type: Uint64},
				{Name: "balance", Offset: 8, Size: 8, Type: Double},
				{Name: "currency", Offset: 16, Size: 3, Type: String},
				{Name: "last_updated", Offset: 19, Size: 8, Type: Uint64},
			},
		},
	}
}

// Interpreter decodes a fixed set of layouts.
type Interpreter struct {
	layouts    []Layout
	maxRecords int
}

// New checks every layout up front. Fields must have a known type, a width
// matching that type and a non-negative offset; fields reaching past the
// record end are allowed and decode as unparsed.
func New(layouts []Layout, maxRecords int) (*Interpreter, error) {
	if maxRecords <= 0 {
		maxRecords = DefaultMaxRecords
	}
	for _, l := range layouts {
		if l.Name == "" || l.Size <= 0 {
			return nil, fmt.Errorf("layout %q: invalid size %d", l.Name, l.Size)
		}
		for _, f := range l.Fields {
			if f.Offset < 0 || f.Size <= 0 {
				return nil, fmt.Errorf("layout %s field %s: invalid placement", l.Name, f.Name)
			}
			if f.Type == String {
				continue
			}
			w, ok := widths[f.Type]
			if !ok {
				return nil, fmt.Errorf("layout %s field %s: unknown type %q", l.Name, f.Name, f.Type)
			}
			if w != f.Size {
				return nil, fmt.Errorf("layout %s field %s: %s needs %d bytes, got %d", l.Name, f.Name, f.Type, w, f.Size)
			}
		}
	}
	return &Interpreter{layouts: append([]Layout(nil), layouts...), maxRecords: maxRecords}, nil
}

// Interpret decodes every layout at offsets 0, size, 2*size and so on, while a
// whole record fits and up to the configured record limit.
func (in *Interpreter) Interpret(data []byte) []types.LayoutRecord {
	var out []types.LayoutRecord
	for _, l := range in.layouts {
		for i := 0; i < in.maxRecords; i++ {
			off := i * l.Size
			if off+l.Size > len(data) {
				break
			}
			out = append(out, decodeRecord(l, i, off, data[off:off+l.Size]))
		}
	}
	return out
}

func decodeRecord(l Layout, index, off int, rec []byte) types.LayoutRecord {
	r := types.LayoutRecord{Layout: l.Name, Index: index, Offset: off, Fields: make([]types.DecodedField, 0, len(l.Fields))}
	for _, f := range l.Fields {
		r.Fields = append(r.Fields, decodeField(f, off, rec))
	}
	return r
}

func decodeField(f Field, base int, rec []byte) types.DecodedField {
	df := types.DecodedField{Name: f.Name, Offset: base + f.Offset, Size: f.Size, Type: string(f.Type)}
	if f.Offset+f.Size > len(rec) {
		df.Status = types.StatusUnparsed
		df.Reason = fmt.Sprintf("field ends at %d past record size %d", f.Offset+f.Size, len(rec))
		return df
	}
	b := rec[f.Offset : f.Offset+f.Size]
	df.Raw = hex.EncodeToString(b)
	df.Status = types.StatusParsed

	switch f.Type {
	case Uint8:
		df.Value = uint64(b[0])
	case Uint32:
		df.Value = uint64(binary.LittleEndian.Uint32(b))
	case Uint64:
		df.Value = binary.LittleEndian.Uint64(b)
	case Double:
		v := math.Float64frombits(binary.LittleEndian.Uint64(b))
		if math.IsNaN(v) || math.IsInf(v, 0) {
			df.Status = types.StatusUnparsed
			df.Reason = "not a finite number"
			return df
		}
		df.Value = v
	case String:
		df.Value = strings.TrimRight(decode.Lossy(b), "\x00")
	}
	return df
}
