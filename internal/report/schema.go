package report

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "report.schema.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

// Schema returns the JSON Schema every analysis report conforms to.
func Schema() []byte {
	return append([]byte(nil), schemaJSON...)
}

func compiled() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		schema, schemaErr = c.Compile(schemaURL)
	})
	return schema, schemaErr
}

// ValidateJSON checks one encoded report, or an array of reports, against
// the embedded schema.
func ValidateJSON(b []byte) error {
	sch, err := compiled()
	if err != nil {
		return err
	}
	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return fmt.Errorf("decode report: %w", err)
	}
	if list, ok := doc.([]any); ok {
		for i, item := range list {
			if err := sch.Validate(item); err != nil {
				return fmt.Errorf("report %d: %w", i, err)
			}
		}
		return nil
	}
	return sch.Validate(doc)
}
