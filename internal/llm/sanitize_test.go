package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sanitized(t *testing.T, raw string) map[string]any {
	t.Helper()
	out, _, err := SanitizeInference([]byte(raw), nil)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(out, &m))
	return m
}

func TestSanitizeInference_PassThrough(t *testing.T) {
	out, dropped, err := SanitizeInference([]byte(`{"value":"Hybrid","confidence":0.9}`), nil)
	require.NoError(t, err)
	assert.Empty(t, dropped)
	require.NoError(t, ValidateJSONAgainstSchema(BuildInferenceJSONSchema(), out))
}

func TestSanitizeInference_RenamesSynonyms(t *testing.T) {
	for _, key := range []string{"answer", "result", "field_value"} {
		m := sanitized(t, `{"`+key+`":"Online"}`)
		assert.Equal(t, "Online", m["value"], "synonym %q", key)
	}
}

func TestSanitizeInference_CoercesValueTypes(t *testing.T) {
	assert.Equal(t, "42", sanitized(t, `{"value":42}`)["value"])
	assert.Equal(t, "Yes", sanitized(t, `{"value":true}`)["value"])
	assert.Equal(t, "No", sanitized(t, `{"value":false}`)["value"])
	assert.Equal(t, "unknown", sanitized(t, `{"value":null}`)["value"])
	assert.Equal(t, "unknown", sanitized(t, `{"value":"   "}`)["value"])
	assert.Equal(t, "Hybrid", sanitized(t, `{"value":"  Hybrid "}`)["value"])
}

func TestSanitizeInference_DropsUnknownKeys(t *testing.T) {
	out, dropped, err := SanitizeInference([]byte(`{"value":"Online","reasoning":"because","model":"x"}`), nil)
	require.NoError(t, err)
	assert.Contains(t, dropped, "reasoning(unknown)")
	assert.Contains(t, dropped, "model(unknown)")

	var m map[string]any
	require.NoError(t, json.Unmarshal(out, &m))
	assert.Equal(t, map[string]any{"value": "Online"}, m)
	require.NoError(t, ValidateJSONAgainstSchema(BuildInferenceJSONSchema(), out))
}

func TestSanitizeInference_ExistingValueWins(t *testing.T) {
	m := sanitized(t, `{"value":"Hybrid","answer":"Online"}`)
	assert.Equal(t, "Hybrid", m["value"])
}

func TestSanitizeInference_InvalidJSON(t *testing.T) {
	_, _, err := SanitizeInference([]byte(`not json`), nil)
	assert.Error(t, err)
}

func TestValidateJSONAgainstSchema(t *testing.T) {
	schema := BuildInferenceJSONSchema()

	assert.NoError(t, ValidateJSONAgainstSchema(schema, []byte(`{"value":"GBA5621"}`)))
	assert.Error(t, ValidateJSONAgainstSchema(schema, []byte(`{}`)), "value is required")
	assert.Error(t, ValidateJSONAgainstSchema(schema, []byte(`{"value":""}`)), "value must be non-empty")
	assert.Error(t, ValidateJSONAgainstSchema(schema, []byte(`{"value":"x","confidence":1.5}`)), "confidence above range")
	assert.Error(t, ValidateJSONAgainstSchema(schema, []byte(`{"value":"x","extra":1}`)), "additional properties rejected")
}
