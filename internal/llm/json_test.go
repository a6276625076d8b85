package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON_FencedBlock(t *testing.T) {
	raw := "Here is the result:\n```json\n{\"a\": 1}\n```\nHope that helps!"

	candidate, err := ExtractJSON(raw)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a": 1}`, candidate)
}

func TestExtractJSON_EmbeddedInProse(t *testing.T) {
	raw := `Sure! The object you asked for is {"a": 1} as requested.`

	candidate, err := ExtractJSON(raw)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a": 1}`, candidate)
}

func TestExtractJSON_FencedAndProseAgree(t *testing.T) {
	// Both wrapping styles must yield the identical parsed mapping.
	fenced := "```json\n{\"a\": 1}\n```"
	prose := `The answer is {"a": 1}.`

	var fromFenced, fromProse map[string]any
	require.NoError(t, DecodeJSON(fenced, &fromFenced))
	require.NoError(t, DecodeJSON(prose, &fromProse))
	assert.Equal(t, fromFenced, fromProse)
	assert.Equal(t, map[string]any{"a": float64(1)}, fromFenced)
}

func TestExtractJSON_MultilineFenced(t *testing.T) {
	raw := "```json\n{\n  \"queries\": [\n    \"golang jobs remote\"\n  ]\n}\n```"

	candidate, err := ExtractJSON(raw)
	require.NoError(t, err)

	var decoded struct {
		Queries []string `json:"queries"`
	}
	require.NoError(t, json.Unmarshal([]byte(candidate), &decoded))
	assert.Equal(t, []string{"golang jobs remote"}, decoded.Queries)
}

func TestExtractJSON_NoJSON(t *testing.T) {
	_, err := ExtractJSON("there is no object here")
	require.Error(t, err)

	var malformed *MalformedResponseError
	assert.ErrorAs(t, err, &malformed)
}

func TestExtractJSON_UnbalancedBraces(t *testing.T) {
	_, err := ExtractJSON(`prefix } then { suffix`)
	require.Error(t, err)

	var malformed *MalformedResponseError
	assert.ErrorAs(t, err, &malformed)
}

func TestDecodeJSON_InvalidTarget(t *testing.T) {
	var target struct {
		Count int `json:"count"`
	}
	err := DecodeJSON(`{"count": "not-a-number"}`, &target)
	require.Error(t, err)

	var malformed *MalformedResponseError
	assert.ErrorAs(t, err, &malformed)
}
