package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func testSchema() *Schema {
	return &Schema{
		Name:        "test-puzzle",
		Description: "A single puzzle",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"question": map[string]any{"type": "string"},
				"id":       map[string]any{"type": "integer", "minimum": 1},
				"kind":     map[string]any{"type": "string", "enum": []any{"pattern", "spatial", "logic"}},
				"options": map[string]any{
					"type":     "array",
					"items":    map[string]any{"type": "string"},
					"minItems": 2,
				},
			},
			"required": []any{"question", "id"},
		},
	}
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `{"question":"Which comes next?","id":1,"kind":"pattern","options":["A","B"]}`, false},
		{"without optional", `{"question":"Odd one out?","id":2}`, false},
		{"missing required", `{"question":"Odd one out?"}`, true},
		{"wrong type", `{"question":"q","id":"one"}`, true},
		{"below minimum", `{"question":"q","id":0}`, true},
		{"bad enum", `{"question":"q","id":3,"kind":"verbal"}`, true},
		{"too few options", `{"question":"q","id":3,"options":["A"]}`, true},
		{"malformed", `{not json}`, true},
		{"empty", ``, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(testSchema(), json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("validateResponse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var invErr *ErrInvalidResponse
				if !errors.As(err, &invErr) {
					t.Fatalf("expected ErrInvalidResponse, got: %T", err)
				}
			}
		})
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	if err := validateResponse(nil, json.RawMessage(`anything`)); err != nil {
		t.Fatalf("expected no error with nil schema, got: %v", err)
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name       string
		in         string
		structured bool
		want       string
	}{
		{"plain", `  {"a":1}  `, true, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", true, `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", true, `{"a":1}`},
		{"single line fence", "```json{\"a\":1}```", true, `{"a":1}`},
		{"unstructured keeps fence", "```\nhi\n```", false, "```\nhi\n```"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(extractJSON(tt.in, tt.structured)); got != tt.want {
				t.Fatalf("extractJSON(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
