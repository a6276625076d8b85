package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// fencedJSON matches a markdown code fence labeled json that wraps a single
// object. (?s) lets the object span lines; the body match is non-greedy so a
// trailing fence is not swallowed.
var fencedJSON = regexp.MustCompile("(?s)```json\\s*(\\{.*?\\})\\s*```")

// MalformedResponseError indicates that no parseable JSON object could be
// found in a model response.
type MalformedResponseError struct {
	Message string
	Cause   error
}

func (e *MalformedResponseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("malformed model response: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("malformed model response: %s", e.Message)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Cause
}

// ExtractJSON locates the first well-formed JSON object embedded in raw model
// output. Models wrap JSON in prose or markdown fences inconsistently, so two
// strategies are tried in order: a ```json fenced block, then the substring
// from the first '{' to the last '}'. The extracted candidate must itself
// parse as a JSON object.
func ExtractJSON(raw string) (string, error) {
	var candidate string
	if m := fencedJSON.FindStringSubmatch(raw); m != nil {
		candidate = m[1]
	} else {
		start := strings.Index(raw, "{")
		end := strings.LastIndex(raw, "}")
		if start == -1 || end == -1 || end < start {
			return "", &MalformedResponseError{Message: "no JSON object found"}
		}
		candidate = raw[start : end+1]
	}

	if !json.Valid([]byte(candidate)) {
		return "", &MalformedResponseError{Message: "extracted candidate is not valid JSON"}
	}
	return candidate, nil
}

// DecodeJSON extracts the embedded JSON object from raw and unmarshals it
// into v.
func DecodeJSON(raw string, v any) error {
	candidate, err := ExtractJSON(raw)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(candidate), v); err != nil {
		return &MalformedResponseError{Message: "failed to unmarshal JSON object", Cause: err}
	}
	return nil
}
