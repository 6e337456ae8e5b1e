package llm

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

type testAdjustment struct {
	Sentiment     string `json:"sentiment" jsonschema:"enum=confident,enum=confused,enum=neutral"`
	NewDifficulty int    `json:"new_difficulty" jsonschema:"minimum=1,maximum=10"`
	Motivation    string `json:"motivation"`
}

func adjustSchema(t *testing.T) *Schema {
	t.Helper()
	s, err := SchemaFor[testAdjustment]("test-adjustment", "difficulty adjustment")
	if err != nil {
		t.Fatalf("SchemaFor: %v", err)
	}
	return s
}

func TestSchemaFor_IsStrict(t *testing.T) {
	s := adjustSchema(t)

	if s.Definition["type"] != "object" {
		t.Fatalf("type = %v, want object", s.Definition["type"])
	}
	if s.Definition["additionalProperties"] != false {
		t.Fatalf("additionalProperties = %v, want false", s.Definition["additionalProperties"])
	}
	want := []any{"motivation", "new_difficulty", "sentiment"}
	if !reflect.DeepEqual(s.Definition["required"], want) {
		t.Fatalf("required = %v, want %v", s.Definition["required"], want)
	}
	if _, ok := s.Definition["$schema"]; ok {
		t.Fatal("$schema should be stripped")
	}
}

func TestValidateResponse(t *testing.T) {
	s := adjustSchema(t)

	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `{"sentiment":"confident","new_difficulty":3,"motivation":"Go!"}`, false},
		{"missing field", `{"sentiment":"confident","new_difficulty":3}`, true},
		{"out of range", `{"sentiment":"confident","new_difficulty":11,"motivation":"Go!"}`, true},
		{"bad enum", `{"sentiment":"sleepy","new_difficulty":3,"motivation":"Go!"}`, true},
		{"wrong type", `{"sentiment":"confident","new_difficulty":"three","motivation":"Go!"}`, true},
		{"extra field", `{"sentiment":"confident","new_difficulty":3,"motivation":"Go!","x":1}`, true},
		{"malformed", `{not json}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(s, json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("validateResponse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var inv *ErrInvalidResponse
				if !errors.As(err, &inv) {
					t.Fatalf("expected ErrInvalidResponse, got %T", err)
				}
			}
		})
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	if err := validateResponse(nil, json.RawMessage(`anything`)); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"bare", `{"a":1}`, `{"a":1}`, false},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`, false},
		{"prose", `Sure! Here it is: {"a":1} Hope that helps.`, `{"a":1}`, false},
		{"empty", "  ", "", true},
		{"no object", "I cannot do that", "", true},
		{"truncated", `{"a":`, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractJSONObject(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && string(got) != tt.want {
				t.Fatalf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestFinishContent(t *testing.T) {
	text, err := finishContent(nil, "  Keep going, Ava!  \n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(text) != "Keep going, Ava!" {
		t.Fatalf("free text = %q", text)
	}

	s := adjustSchema(t)
	raw, err := finishContent(s, "```json\n"+`{"sentiment":"neutral","new_difficulty":2,"motivation":"ok"}`+"\n```")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var out testAdjustment
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.NewDifficulty != 2 {
		t.Fatalf("new_difficulty = %d", out.NewDifficulty)
	}

	if _, err := finishContent(s, "no json here"); err == nil {
		t.Fatal("expected error")
	}
}
