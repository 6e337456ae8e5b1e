package llm

import (
	"testing"
)

func TestBuildGeminiSchema_FromReflectedSchema(t *testing.T) {
	s := MustSchemaFor[testAdjustment]("gemini-adjust", "")
	schema := buildGeminiSchema(s.Definition)

	if schema.Type != "OBJECT" {
		t.Fatalf("expected OBJECT type, got %s", schema.Type)
	}
	if len(schema.Properties) != 3 {
		t.Fatalf("expected 3 properties, got %d", len(schema.Properties))
	}
	sentiment := schema.Properties["sentiment"]
	if sentiment.Type != "STRING" || len(sentiment.Enum) != 3 {
		t.Fatalf("sentiment = %+v", sentiment)
	}
	level := schema.Properties["new_difficulty"]
	if level.Type != "INTEGER" {
		t.Fatalf("expected INTEGER for new_difficulty, got %s", level.Type)
	}
	if level.Minimum == nil || *level.Minimum != 1 || level.Maximum == nil || *level.Maximum != 10 {
		t.Fatalf("new_difficulty bounds = %v..%v", level.Minimum, level.Maximum)
	}
	if len(schema.Required) != 3 {
		t.Fatalf("expected 3 required fields, got %d", len(schema.Required))
	}
}

func TestBuildGeminiSchema_Arrays(t *testing.T) {
	schema := buildGeminiSchema(map[string]any{
		"type":  "array",
		"items": map[string]any{"type": "number"},
	})
	if schema.Type != "ARRAY" || schema.Items == nil || schema.Items.Type != "NUMBER" {
		t.Fatalf("unexpected schema: %+v", schema)
	}
}
