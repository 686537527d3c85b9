package core

import (
	"encoding/json"
	"io"

	"github.com/ledgerprobe/ledgerprobe/internal/report"
)

// MarshalReport pretty-prints a report as JSON for humans or pipelines.
func MarshalReport(w io.Writer, r Report) error {
	return report.WriteJSON(w, r)
}

// UnmarshalReport decodes report JSON, useful for ingestion tests. Layout
// field values come back as json.Number so 64-bit integers keep every digit.
func UnmarshalReport(rd io.Reader) (Report, error) {
	var r Report
	dec := json.NewDecoder(rd)
	dec.UseNumber()
	if err := dec.Decode(&r); err != nil {
		return Report{}, err
	}
	return r, nil
}
