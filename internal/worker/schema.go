package worker

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// BuildAnalysisJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map describing the worker's process-mode output. We validate the
// worker's JSON against it before anything reaches the record assembler.
//
// Top-level additional properties are allowed: the worker is the source of
// truth for derived fields and may grow new ones ahead of us.
func BuildAnalysisJSONSchema() map[string]any {
	stringList := map[string]any{
		"type":  "array",
		"items": map[string]any{"type": "string"},
	}

	entities := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"persons":   stringList,
			"locations": stringList,
			"dates":     stringList,
			"weapons":   stringList,
			"actions":   stringList,
			"victims":   stringList,
			"suspects":  stringList,
			"officers":  stringList,
			"ages": map[string]any{
				"type":                 "object",
				"additionalProperties": map[string]any{"type": "string"},
			},
		},
	}

	props := map[string]any{
		"summary":        map[string]any{"type": "string"},
		"headline":       map[string]any{"type": "string"},
		"classification": map[string]any{"type": "string", "minLength": 1},
		"severityScore":  map[string]any{"type": "number", "minimum": 0.0, "maximum": 10.0},
		"confidence":     map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0},
		"entities":       entities,

		"primaryVictim":   map[string]any{"type": "string"},
		"primarySuspect":  map[string]any{"type": "string"},
		"assignedOfficer": map[string]any{"type": "string"},
		"weapon":          map[string]any{"type": "string"},
		"location":        map[string]any{"type": "string"},
		"date":            map[string]any{"type": "string"},
	}
	required := []string{"summary", "classification", "severityScore", "entities"}

	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
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
