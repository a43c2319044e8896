package llm

import (
	"errors"
	"testing"
)

func testSchema() *Schema {
	return &Schema{
		Name:        "test-object",
		Description: "A test object",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"name":  map[string]any{"type": "string"},
				"age":   map[string]any{"type": "integer", "minimum": 0},
				"grade": map[string]any{"type": "string", "enum": []string{"A", "B", "C"}},
			},
			"required": []string{"name", "age"},
		},
	}
}

func listSchema() *Schema {
	return &Schema{
		Name: "test-list",
		Definition: map[string]any{
			"type":     "array",
			"minItems": 2,
			"maxItems": 2,
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"heading": map[string]any{"type": "string"},
				},
				"required":             []string{"heading"},
				"additionalProperties": false,
			},
		},
	}
}

func TestDecodeResponse_Valid(t *testing.T) {
	got, err := decodeResponse(testSchema(), `{"name":"Alice","age":10,"grade":"A"}`)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if string(got) != `{"name":"Alice","age":10,"grade":"A"}` {
		t.Fatalf("unexpected content: %s", got)
	}
}

func TestDecodeResponse_StripsFence(t *testing.T) {
	got, err := decodeResponse(testSchema(), "```json\n{\"name\":\"Bob\",\"age\":8}\n```")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if string(got) != `{"name":"Bob","age":8}` {
		t.Fatalf("unexpected content: %s", got)
	}
}

func TestDecodeResponse_Failures(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		stage string
	}{
		{"missing required", `{"name":"Charlie"}`, StageSchema},
		{"wrong type", `{"name":"Dave","age":"ten"}`, StageSchema},
		{"bad enum", `{"name":"Eve","age":9,"grade":"Z"}`, StageSchema},
		{"not JSON", `not json at all`, StageJSON},
		{"unterminated fence", "```json\n{\"name\":\"F\",\"age\":1}", StageEnvelope},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeResponse(testSchema(), tt.text)
			var inv *ErrInvalidResponse
			if !errors.As(err, &inv) {
				t.Fatalf("expected ErrInvalidResponse, got: %T (%v)", err, err)
			}
			if inv.Stage != tt.stage {
				t.Errorf("stage = %q, want %q", inv.Stage, tt.stage)
			}
		})
	}
}

func TestDecodeResponse_ArrayBounds(t *testing.T) {
	if _, err := decodeResponse(listSchema(), `[{"heading":"a"},{"heading":"b"}]`); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if _, err := decodeResponse(listSchema(), `[{"heading":"a"}]`); err == nil {
		t.Fatal("expected error for too few items")
	}
	if _, err := decodeResponse(listSchema(), `[{"heading":"a","extra":1},{"heading":"b"}]`); err == nil {
		t.Fatal("expected error for additional property")
	}
}

func TestDecodeResponse_NilSchemaStillRequiresJSON(t *testing.T) {
	if _, err := decodeResponse(nil, `{"free":"form"}`); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if _, err := decodeResponse(nil, `free form`); err == nil {
		t.Fatal("expected error for non-JSON text")
	}
}

func TestSchemaCaching(t *testing.T) {
	s := testSchema()
	s.Name = "cache-test"
	if _, err := decodeResponse(s, `{"name":"A","age":1}`); err != nil {
		t.Fatalf("first: %v", err)
	}
	if _, ok := compiledSchemas.Load("cache-test"); !ok {
		t.Fatal("expected schema to be cached")
	}
	if _, err := decodeResponse(s, `{"name":"B","age":2}`); err != nil {
		t.Fatalf("second: %v", err)
	}
}
