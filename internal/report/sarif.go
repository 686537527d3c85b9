package report

import (
	"encoding/json"
	"io"

	"github.com/ledgerprobe/ledgerprobe/internal/patterns"
	"github.com/ledgerprobe/ledgerprobe/internal/types"
)

type sarif struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version"`
	Rules   []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string       `json:"id"`
	ShortDescription sarifMessage `json:"shortDescription"`
}

type sarifResult struct {
	RuleID     string         `json:"ruleId"`
	RuleIndex  int            `json:"ruleIndex"`
	Level      string         `json:"level"`
	Message    sarifMessage   `json:"message"`
	Locations  []sarifLoc     `json:"locations"`
	Properties map[string]any `json:"properties,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLoc struct {
	PhysicalLocation sarifPhys `json:"physicalLocation"`
}

type sarifPhys struct {
	ArtifactLocation sarifArt    `json:"artifactLocation"`
	Region           sarifRegion `json:"region"`
}

type sarifArt struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	ByteOffset int          `json:"byteOffset"`
	ByteLength int          `json:"byteLength"`
	Snippet    sarifMessage `json:"snippet"`
}

// banking identifiers are reported as warnings, everything else as notes
var warningCategories = map[string]bool{
	patterns.IBAN:          true,
	patterns.SWIFT:         true,
	patterns.RoutingNumber: true,
	patterns.AccountNumber: true,
}

func level(m types.PatternMatch) string {
	if m.Verified != nil && !*m.Verified {
		return "note"
	}
	if warningCategories[m.Category] {
		return "warning"
	}
	return "note"
}

// WriteSARIF writes every pattern match of the reports as SARIF 2.1.0
// results located by byte offset. Reports carrying an error are skipped.
func WriteSARIF(w io.Writer, reports []types.AnalysisReport, version string) error {
	run := sarifRun{
		Tool:    sarifTool{Driver: sarifDriver{Name: "ledgerprobe", Version: version, Rules: []sarifRule{}}},
		Results: []sarifResult{},
	}
	ruleIndex := map[string]int{}
	for _, r := range reports {
		if r.Error != "" {
			continue
		}
		for _, g := range r.Patterns {
			idx, ok := ruleIndex[g.Category]
			if !ok {
				idx = len(run.Tool.Driver.Rules)
				ruleIndex[g.Category] = idx
				run.Tool.Driver.Rules = append(run.Tool.Driver.Rules, sarifRule{
					ID:               g.Category,
					ShortDescription: sarifMessage{Text: g.Category + " pattern"},
				})
			}
			for _, m := range g.Matches {
				res := sarifResult{
					RuleID:    g.Category,
					RuleIndex: idx,
					Level:     level(m),
					Message:   sarifMessage{Text: g.Category + " detected"},
					Locations: []sarifLoc{{
						PhysicalLocation: sarifPhys{
							ArtifactLocation: sarifArt{URI: r.FileInfo.Path},
							Region:           sarifRegion{ByteOffset: m.Offset, ByteLength: m.Length, Snippet: sarifMessage{Text: m.Decoded}},
						},
					}},
				}
				if m.Verified != nil {
					res.Properties = map[string]any{"verified": *m.Verified}
				}
				run.Results = append(run.Results, res)
			}
		}
	}
	doc := sarif{
		Schema:  "https://json.schemastore.org/sarif-2.1.0.json",
		Version: "2.1.0",
		Runs:    []sarifRun{run},
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
