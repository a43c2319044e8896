package llm

import (
	"encoding/json"
	"fmt"
)

// envelopeKey holds an array payload for providers whose structured output
// mode requires an object at the root.
const envelopeKey = "items"

// objectRooted returns the schema a strict provider should be sent and
// whether the caller's schema was wrapped.
func objectRooted(s *Schema) (*Schema, bool) {
	if s == nil || s.Definition["type"] != "array" {
		return s, false
	}
	return &Schema{
		Name:        s.Name + "-envelope",
		Description: s.Description,
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				envelopeKey: s.Definition,
			},
			"required":             []string{envelopeKey},
			"additionalProperties": false,
		},
	}, true
}

// unwrapEnvelope extracts the array payload from an enveloped response.
// Bare arrays are passed through so a model that ignores the envelope is
// still validated against the caller's schema.
func unwrapEnvelope(text string) (string, error) {
	payload, err := UnwrapFence(text)
	if err != nil {
		return "", &ErrInvalidResponse{Stage: StageEnvelope, Content: json.RawMessage(text), Err: err}
	}

	var env map[string]json.RawMessage
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		return payload, nil
	}
	inner, ok := env[envelopeKey]
	if !ok {
		return "", &ErrInvalidResponse{
			Stage:   StageEnvelope,
			Content: json.RawMessage(payload),
			Err:     fmt.Errorf("missing %q in enveloped response", envelopeKey),
		}
	}
	return string(inner), nil
}
