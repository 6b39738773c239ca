package filter

import (
	"encoding/json"
	"reflect"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/siftlab/sift/internal/schema"
)

func sampleConditions() []Condition {
	return []Condition{
		{ID: "a", Field: "name", Operator: schema.OpContains, Value: "jo"},
		{ID: "b", Field: "salary", Operator: schema.OpBetween, Value: NumberRange{Min: 50000, Max: 100000}},
		{ID: "c", Field: "hireDate", Operator: schema.OpBetween, Value: DateRange{Start: "2023-01-01", End: "2023-12-31"}},
		{ID: "d", Field: "skills", Operator: schema.OpIn, Value: []string{"Go", "Rust"}},
		{ID: "e", Field: "active", Operator: schema.OpIs, Value: true},
		{ID: "f", Field: "headcount", Operator: schema.OpEquals, Value: float64(12)},
	}
}

func TestConditionJSONRoundTrip(t *testing.T) {
	original := sampleConditions()

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded []Condition
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if !reflect.DeepEqual(original, decoded) {
		t.Errorf("round trip changed conditions:\n before: %#v\n after:  %#v", original, decoded)
	}
}

func TestConditionYAMLRoundTrip(t *testing.T) {
	original := sampleConditions()

	data, err := yaml.Marshal(original)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded []Condition
	if err := yaml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if !reflect.DeepEqual(original, decoded) {
		t.Errorf("round trip changed conditions:\n before: %#v\n after:  %#v", original, decoded)
	}
}

func TestNewConditionDefaults(t *testing.T) {
	cases := []struct {
		def    schema.FieldDefinition
		wantOp schema.Operator
		want   any
	}{
		{schema.FieldDefinition{Key: "name", Type: schema.FieldText}, schema.OpEquals, ""},
		{schema.FieldDefinition{Key: "active", Type: schema.FieldBoolean}, schema.OpIs, false},
		{schema.FieldDefinition{Key: "salary", Type: schema.FieldNumber}, schema.OpEquals, float64(0)},
		{schema.FieldDefinition{Key: "hireDate", Type: schema.FieldDate}, schema.OpBetween, DateRange{}},
	}

	for _, tc := range cases {
		cond := NewCondition(tc.def)
		if cond.ID == "" {
			t.Errorf("%s: expected non-empty ID", tc.def.Key)
		}
		if cond.Field != tc.def.Key {
			t.Errorf("%s: field mismatch: %s", tc.def.Key, cond.Field)
		}
		if cond.Operator != tc.wantOp {
			t.Errorf("%s: expected default operator %s, got %s", tc.def.Key, tc.wantOp, cond.Operator)
		}
		if cond.Value != tc.want {
			t.Errorf("%s: expected default value %v, got %v", tc.def.Key, tc.want, cond.Value)
		}
	}

	// IDs are unique across conditions.
	a := NewCondition(cases[0].def)
	b := NewCondition(cases[0].def)
	if a.ID == b.ID {
		t.Error("expected distinct IDs for distinct conditions")
	}
}

func TestNormalizeValueShapes(t *testing.T) {
	// The shapes encoding/json produces for the union members.
	got := normalizeValue(map[string]any{"min": 1.0, "max": 2.0})
	if got != (NumberRange{Min: 1, Max: 2}) {
		t.Errorf("expected NumberRange, got %#v", got)
	}

	got = normalizeValue(map[string]any{"start": "2024-01-01", "end": "2024-02-01"})
	if got != (DateRange{Start: "2024-01-01", End: "2024-02-01"}) {
		t.Errorf("expected DateRange, got %#v", got)
	}

	got = normalizeValue([]any{"Go", "Rust"})
	if s, ok := got.([]string); !ok || len(s) != 2 || s[0] != "Go" {
		t.Errorf("expected []string, got %#v", got)
	}

	// YAML decodes whole numbers as int.
	got = normalizeValue(map[string]any{"min": 0, "max": 10})
	if got != (NumberRange{Min: 0, Max: 10}) {
		t.Errorf("expected int-valued range to normalize, got %#v", got)
	}

	// A map that is not a known range shape passes through untouched.
	other := map[string]any{"min": 1.0, "weird": true}
	if got := normalizeValue(other); !reflect.DeepEqual(got, other) {
		t.Errorf("expected passthrough, got %#v", got)
	}
}
