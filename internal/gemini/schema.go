package gemini

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// BuildExtractionSchema returns the JSON Schema the repaired response must
// satisfy before decoding: the four sections with their expected shapes.
// Field types inside the sections are left open so a stray non-string value
// is reported by the decoder with the raw text, not rejected wholesale here.
func BuildExtractionSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"Policy & Vehicle Details": map[string]any{"type": "object"},
			"Vehicle Information":      map[string]any{"type": "object"},
			"Insurance Coverage": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "object"},
			},
			"Policy & Proposer": map[string]any{"type": "object"},
		},
	}
}

// ValidateJSONAgainstSchema validates data against schemaMap.
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
