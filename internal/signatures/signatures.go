// Package signatures locates known magic markers in a buffer.
package signatures

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ledgerprobe/ledgerprobe/internal/types"
)

// HeaderLen is the number of leading bytes rendered as the header fingerprint.
const HeaderLen = 16

// Signature maps a marker to a label.
type Signature struct {
	Marker []byte
	Label  string
}

// Catalogue is an immutable list of signatures.
type Catalogue []Signature

// DefaultCatalogue returns the built-in markers for financial record
// containers and common file formats.
func DefaultCatalogue() Catalogue {
	return Catalogue{
		{Marker: []byte("DTCB"), Label: "DTCB_BINARY"},
		{Marker: []byte("BANK"), Label: "BANKING_STRUCTURE"},
		{Marker: []byte("ACCN"), Label: "ACCOUNT_RECORD"},
		{Marker: []byte("TRNS"), Label: "TRANSACTION_RECORD"},
		{Marker: []byte("BLNC"), Label: "BALANCE_RECORD"},
		{Marker: []byte("\x89PNG"), Label: "PNG_IMAGE"},
		{Marker: []byte("%PDF"), Label: "PDF_DOCUMENT"},
		{Marker: []byte("PK\x03\x04"), Label: "ZIP_ARCHIVE"},
		{Marker: []byte("\x1f\x8b"), Label: "GZIP_COMPRESSED"},
	}
}

// ParseSignature builds a Signature from a hex-encoded marker.
func ParseSignature(label, hexMarker string) (Signature, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return Signature{}, errors.New("signature label is empty")
	}
	m, err := hex.DecodeString(strings.TrimSpace(hexMarker))
	if err != nil {
		return Signature{}, fmt.Errorf("signature %s: %w", label, err)
	}
	if len(m) == 0 {
		return Signature{}, fmt.Errorf("signature %s: empty marker", label)
	}
	return Signature{Marker: m, Label: label}, nil
}

// Scanner matches a catalogue against buffers.
type Scanner struct {
	cat Catalogue
}

// New copies cat so later mutation by the caller has no effect.
func New(cat Catalogue) *Scanner {
	cp := make(Catalogue, 0, len(cat))
	for _, s := range cat {
		if len(s.Marker) == 0 {
			continue
		}
		cp = append(cp, Signature{Marker: append([]byte(nil), s.Marker...), Label: s.Label})
	}
	return &Scanner{cat: cp}
}

// Catalogue returns a copy of the scanner's signatures.
func (s *Scanner) Catalogue() Catalogue {
	out := make(Catalogue, len(s.cat))
	copy(out, s.cat)
	return out
}

// Scan reports header and interior matches ordered by (label, offset),
// plus the hex fingerprint of the first HeaderLen bytes.
func (s *Scanner) Scan(data []byte) (headerHex string, matches []types.SignatureMatch) {
	n := HeaderLen
	if len(data) < n {
		n = len(data)
	}
	headerHex = strings.ToUpper(hex.EncodeToString(data[:n]))

	for _, sig := range s.cat {
		marker := hex.EncodeToString(sig.Marker)
		if bytes.HasPrefix(data, sig.Marker) {
			matches = append(matches, types.SignatureMatch{Label: sig.Label, Offset: 0, Marker: marker, Header: true})
		}
		// every later position, overlapping occurrences included
		for from := 1; from < len(data); {
			i := bytes.Index(data[from:], sig.Marker)
			if i < 0 {
				break
			}
			off := from + i
			matches = append(matches, types.SignatureMatch{Label: sig.Label, Offset: off, Marker: marker})
			from = off + 1
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Label == matches[j].Label {
			return matches[i].Offset < matches[j].Offset
		}
		return matches[i].Label < matches[j].Label
	})
	return headerHex, matches
}
