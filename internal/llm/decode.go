package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// compiledSchemas is keyed by Schema.Name. Two schemas must not share a
// name with different definitions.
var compiledSchemas sync.Map

// decodeResponse turns model text into a JSON document: strip an optional
// code fence, parse, then validate against schema when one is given.
// Every failure is an *ErrInvalidResponse tagged with the stage that
// rejected it.
func decodeResponse(schema *Schema, text string) (json.RawMessage, error) {
	reject := func(stage string, content string, err error) error {
		return &ErrInvalidResponse{Stage: stage, Content: json.RawMessage(content), Err: err}
	}

	payload, err := UnwrapFence(text)
	if err != nil {
		return nil, reject(StageEnvelope, text, err)
	}

	var doc any
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		return nil, reject(StageJSON, payload, fmt.Errorf("invalid JSON: %w", err))
	}
	if schema == nil {
		return json.RawMessage(payload), nil
	}

	validator, err := compileSchema(schema)
	if err != nil {
		return nil, reject(StageSchema, payload, err)
	}
	if err := validator.Validate(doc); err != nil {
		return nil, reject(StageSchema, payload, fmt.Errorf("schema validation failed: %w", err))
	}
	return json.RawMessage(payload), nil
}

func compileSchema(schema *Schema) (*jsonschema.Schema, error) {
	if v, ok := compiledSchemas.Load(schema.Name); ok {
		return v.(*jsonschema.Schema), nil
	}

	// Definitions are Go literals ([]string, int). The compiler wants the
	// shapes encoding/json produces, so go through bytes.
	raw, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, fmt.Errorf("schema %q: %w", schema.Name, err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("schema %q: %w", schema.Name, err)
	}

	url := "mem://schemas/" + schema.Name + ".json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("schema %q: %w", schema.Name, err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema %q: %w", schema.Name, err)
	}

	actual, _ := compiledSchemas.LoadOrStore(schema.Name, compiled)
	return actual.(*jsonschema.Schema), nil
}
