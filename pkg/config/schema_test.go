package config_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/i3-event-handler/pkg/config"
)

func TestSchemaJSON(t *testing.T) {
	t.Parallel()

	data, err := config.SchemaJSON()
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))

	assert.Equal(t, config.SchemaID, got["$id"])
	assert.Equal(t, "array", got["type"])

	items, ok := got["items"].(map[string]any)
	require.True(t, ok)

	props, ok := items["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "_matches")
	assert.Contains(t, props, "mark")
	assert.Contains(t, props, "on_new")
	assert.Equal(t, []any{"_matches"}, items["required"])
}

func TestNewSchemaValidator(t *testing.T) {
	t.Parallel()

	v, err := config.NewSchemaValidator()
	require.NoError(t, err)

	tcs := map[string]struct {
		input   any
		wantErr bool
	}{
		"empty": {
			input: []any{},
		},
		"full rule": {
			input: []any{map[string]any{
				"_matches": []any{[]any{"class", "^Firefox$"}, []any{"title", "x"}},
				"mark":     "browser",
				"on_new":   []any{"floating enable"},
			}},
		},
		"object": {
			input:   map[string]any{},
			wantErr: true,
		},
		"criterion too long": {
			input: []any{map[string]any{
				"_matches": []any{[]any{"class", "a", "b"}},
			}},
			wantErr: true,
		},
		"empty mark": {
			input: []any{map[string]any{
				"_matches": []any{[]any{"class", "a"}},
				"mark":     "",
			}},
			wantErr: true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := v.Validate(tc.input)
			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
