package yaml

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// SchemaGenerator builds JSON schemas from Go types.
// Uses [github.com/invopop/jsonschema].
type SchemaGenerator struct {
	reflector *jsonschema.Reflector
}

// NewSchemaGenerator creates a new [SchemaGenerator]. Definitions are inlined
// and additional properties are allowed, since unknown keys are ignored when
// documents are loaded.
func NewSchemaGenerator() *SchemaGenerator {
	return &SchemaGenerator{
		reflector: &jsonschema.Reflector{
			DoNotReference:            true,
			ExpandedStruct:            true,
			AllowAdditionalProperties: true,
		},
	}
}

// Reflect returns the schema of v's type, without the top-level "$schema".
func (g *SchemaGenerator) Reflect(v any) *jsonschema.Schema {
	s := g.reflector.Reflect(v)
	s.Version = ""

	return s
}

// ArrayOf returns a root schema describing an array whose items match items.
func ArrayOf(id, title string, items *jsonschema.Schema) *jsonschema.Schema {
	return &jsonschema.Schema{
		Version: jsonschema.Version,
		ID:      jsonschema.ID(id),
		Title:   title,
		Type:    "array",
		Items:   items,
	}
}

// Marshal serializes a schema to indented JSON.
func Marshal(s *jsonschema.Schema) ([]byte, error) {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}

	return b, nil
}
