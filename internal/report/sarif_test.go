package report

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/ledgerprobe/ledgerprobe/internal/types"
)

func TestWriteSARIF_ByteRegions(t *testing.T) {
	reports := []types.AnalysisReport{sampleReport(), {FileInfo: types.FileInfo{Path: "bad"}, Error: "boom"}}
	var buf bytes.Buffer
	if err := WriteSARIF(&buf, reports, "1.2.3"); err != nil {
		t.Fatal(err)
	}
	var doc struct {
		Version string `json:"version"`
		Runs    []struct {
			Tool struct {
				Driver struct {
					Version string `json:"version"`
					Rules   []struct {
						ID string `json:"id"`
					} `json:"rules"`
				} `json:"driver"`
			} `json:"tool"`
			Results []struct {
				RuleID    string `json:"ruleId"`
				RuleIndex int    `json:"ruleIndex"`
				Level     string `json:"level"`
				Locations []struct {
					PhysicalLocation struct {
						ArtifactLocation struct {
							URI string `json:"uri"`
						} `json:"artifactLocation"`
						Region struct {
							ByteOffset int `json:"byteOffset"`
							ByteLength int `json:"byteLength"`
							Snippet    struct {
								Text string `json:"text"`
							} `json:"snippet"`
						} `json:"region"`
					} `json:"physicalLocation"`
				} `json:"locations"`
			} `json:"results"`
		} `json:"runs"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("unmarshal: %v; body=%s", err, buf.String())
	}
	if doc.Version != "2.1.0" || len(doc.Runs) != 1 {
		t.Fatalf("unexpected document: %s", buf.String())
	}
	run := doc.Runs[0]
	if run.Tool.Driver.Version != "1.2.3" || len(run.Tool.Driver.Rules) != 2 {
		t.Fatalf("unexpected driver: %+v", run.Tool.Driver)
	}
	if len(run.Results) != 5 {
		t.Fatalf("expected 5 results, got %d", len(run.Results))
	}
	first := run.Results[0]
	if first.RuleID != "iban" || first.RuleIndex != 0 || first.Level != "warning" {
		t.Fatalf("unexpected first result: %+v", first)
	}
	region := first.Locations[0].PhysicalLocation.Region
	if region.ByteOffset != 12 || region.ByteLength != 22 || region.Snippet.Text != "GB29NWBK60161331926819" {
		t.Fatalf("unexpected region: %+v", region)
	}
	if first.Locations[0].PhysicalLocation.ArtifactLocation.URI != "ledger.bin" {
		t.Fatalf("unexpected uri")
	}
	if run.Results[1].RuleIndex != 1 || run.Results[1].Level != "note" {
		t.Fatalf("unexpected amount result: %+v", run.Results[1])
	}
}

func TestWriteSARIF_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSARIF(&buf, nil, "dev"); err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"results": []`)) {
		t.Fatalf("expected empty results array: %s", buf.String())
	}
}
