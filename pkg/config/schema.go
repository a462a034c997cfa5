package config

import (
	"fmt"

	"github.com/invopop/jsonschema"

	"github.com/macropower/i3-event-handler/pkg/rule"
	"github.com/macropower/i3-event-handler/pkg/yaml"
)

// SchemaID identifies the rule document schema.
const SchemaID = "https://raw.githubusercontent.com/macropower/i3-event-handler/refs/heads/main/pkg/config/rules.json"

// RuleDocument describes a single rule as written in a configuration file.
// It only exists to generate the JSON schema; documents are converted by
// [FromValue].
type RuleDocument struct {
	// Matches lists [kind, pattern] pairs that must all match the window.
	Matches []CriterionDocument `json:"_matches" jsonschema:"title=Matches,minItems=1"`
	// Mark is an exclusive label given to the matching window.
	Mark string `json:"mark,omitempty" jsonschema:"title=Mark,minLength=1"`
	// OnNew lists commands sent to the matching window, in order.
	OnNew []string `json:"on_new,omitempty" jsonschema:"title=On New"`
}

// JSONSchemaExtend requires non-empty action strings.
func (RuleDocument) JSONSchemaExtend(s *jsonschema.Schema) {
	onNew, ok := s.Properties.Get(keyOnNew)
	if !ok || onNew.Items == nil {
		return
	}

	onNew.Items.MinLength = uintPtr(1)
}

// CriterionDocument is a [kind, pattern] pair.
type CriterionDocument [2]string

// JSONSchema implements the custom schema interface of
// [github.com/invopop/jsonschema].
func (CriterionDocument) JSONSchema() *jsonschema.Schema {
	kinds := make([]any, 0, len(rule.AllKinds))
	for _, k := range rule.AllKinds {
		kinds = append(kinds, k)
	}

	return &jsonschema.Schema{
		Type:  "array",
		Title: "Criterion",
		PrefixItems: []*jsonschema.Schema{
			{Type: "string", Title: "Kind", Enum: kinds},
			{Type: "string", Title: "Pattern", MinLength: uintPtr(1)},
		},
		MinItems: uintPtr(2),
		MaxItems: uintPtr(2),
	}
}

// Schema returns the JSON schema of a configuration document.
func Schema() *jsonschema.Schema {
	items := yaml.NewSchemaGenerator().Reflect(RuleDocument{})

	return yaml.ArrayOf(SchemaID, "Window Rules", items)
}

// SchemaJSON returns the JSON schema of a configuration document, serialized.
func SchemaJSON() ([]byte, error) {
	return yaml.Marshal(Schema())
}

// NewSchemaValidator returns a [Validator] for the configuration schema.
func NewSchemaValidator() (*yaml.Validator, error) {
	data, err := SchemaJSON()
	if err != nil {
		return nil, err
	}

	v, err := yaml.NewValidator(SchemaID, data)
	if err != nil {
		return nil, fmt.Errorf("schema validator: %w", err)
	}

	return v, nil
}

func uintPtr(v uint64) *uint64 {
	return &v
}
