package filter

import (
	"testing"

	"github.com/siftlab/sift/internal/schema"
)

func TestValidateValueRequired(t *testing.T) {
	textField := schema.FieldDefinition{Key: "name", Type: schema.FieldText}

	cond := Condition{ID: "c", Field: "name", Operator: schema.OpEquals, Value: nil}
	if msg := Validate(cond, textField); msg != "Value is required" {
		t.Errorf("nil value: expected required error, got %q", msg)
	}

	cond.Value = ""
	if msg := Validate(cond, textField); msg != "Value is required" {
		t.Errorf("empty string: expected required error, got %q", msg)
	}

	// false is a valid boolean value, not an absent one.
	boolField := schema.FieldDefinition{Key: "active", Type: schema.FieldBoolean}
	cond = Condition{ID: "c", Field: "active", Operator: schema.OpIs, Value: false}
	if msg := Validate(cond, boolField); msg != "" {
		t.Errorf("false boolean: expected valid, got %q", msg)
	}
}

func TestValidateNumberRange(t *testing.T) {
	field := schema.FieldDefinition{Key: "salary", Type: schema.FieldNumber}

	cond := Condition{ID: "c", Field: "salary", Operator: schema.OpBetween, Value: "oops"}
	if msg := Validate(cond, field); msg != "Both min and max values are required" {
		t.Errorf("malformed range: got %q", msg)
	}

	cond.Value = NumberRange{Min: 100, Max: 50}
	if msg := Validate(cond, field); msg != "Min value cannot be greater than max value" {
		t.Errorf("min > max: got %q", msg)
	}

	cond.Value = NumberRange{Min: 50, Max: 50}
	if msg := Validate(cond, field); msg != "" {
		t.Errorf("equal bounds: expected valid, got %q", msg)
	}

	// amount behaves identically to number
	amount := schema.FieldDefinition{Key: "bonus", Type: schema.FieldAmount}
	cond.Value = NumberRange{Min: 100, Max: 50}
	if msg := Validate(cond, amount); msg != "Min value cannot be greater than max value" {
		t.Errorf("amount min > max: got %q", msg)
	}
}

func TestValidateDateRange(t *testing.T) {
	field := schema.FieldDefinition{Key: "hireDate", Type: schema.FieldDate}

	cond := Condition{ID: "c", Field: "hireDate", Operator: schema.OpBetween, Value: DateRange{}}
	if msg := Validate(cond, field); msg != "Both start and end dates are required" {
		t.Errorf("empty range: got %q", msg)
	}

	cond.Value = DateRange{Start: "2024-01-01", End: ""}
	if msg := Validate(cond, field); msg != "Both start and end dates are required" {
		t.Errorf("missing end: got %q", msg)
	}

	cond.Value = DateRange{Start: "2024-06-01", End: "2024-01-01"}
	if msg := Validate(cond, field); msg != "Start date cannot be after end date" {
		t.Errorf("inverted range: got %q", msg)
	}

	cond.Value = DateRange{Start: "2024-01-01", End: "2024-01-01"}
	if msg := Validate(cond, field); msg != "" {
		t.Errorf("equal dates: expected valid, got %q", msg)
	}
}

func TestValidateMultiSelect(t *testing.T) {
	field := schema.FieldDefinition{
		Key: "skills", Type: schema.FieldMultiSelect,
		Options: []string{"React", "Go"},
	}

	cond := Condition{ID: "c", Field: "skills", Operator: schema.OpIn, Value: []string{}}
	if msg := Validate(cond, field); msg != "At least one option must be selected" {
		t.Errorf("empty selection: got %q", msg)
	}

	cond.Value = []string{"Go"}
	if msg := Validate(cond, field); msg != "" {
		t.Errorf("non-empty selection: expected valid, got %q", msg)
	}

	cond.Operator = schema.OpNotIn
	cond.Value = []string{}
	if msg := Validate(cond, field); msg != "At least one option must be selected" {
		t.Errorf("notIn empty selection: got %q", msg)
	}
}

func TestValidateAllKeysByConditionID(t *testing.T) {
	s := &schema.Schema{Fields: []schema.FieldDefinition{
		{Key: "name", Type: schema.FieldText},
		{Key: "salary", Type: schema.FieldNumber},
	}}

	conds := []Condition{
		{ID: "ok", Field: "name", Operator: schema.OpContains, Value: "jo"},
		{ID: "bad", Field: "salary", Operator: schema.OpBetween, Value: NumberRange{Min: 2, Max: 1}},
	}

	errs := ValidateAll(conds, s)
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d", len(errs))
	}
	if errs["bad"] != "Min value cannot be greater than max value" {
		t.Errorf("unexpected message: %q", errs["bad"])
	}
}

func TestDefaultValues(t *testing.T) {
	cases := []struct {
		fieldType schema.FieldType
		op        schema.Operator
		want      any
	}{
		{schema.FieldBoolean, schema.OpIs, false},
		{schema.FieldNumber, schema.OpEquals, float64(0)},
		{schema.FieldAmount, schema.OpGreaterThan, float64(0)},
		{schema.FieldNumber, schema.OpBetween, NumberRange{}},
		{schema.FieldAmount, schema.OpBetween, NumberRange{}},
		{schema.FieldDate, schema.OpBetween, DateRange{}},
		{schema.FieldText, schema.OpEquals, ""},
		{schema.FieldSingleSelect, schema.OpIs, ""},
	}

	for _, tc := range cases {
		got := DefaultValue(tc.fieldType, tc.op)
		switch want := tc.want.(type) {
		case []string:
			s, ok := got.([]string)
			if !ok || len(s) != len(want) {
				t.Errorf("%s/%s: expected %v, got %v", tc.fieldType, tc.op, want, got)
			}
		default:
			if got != tc.want {
				t.Errorf("%s/%s: expected %v (%T), got %v (%T)",
					tc.fieldType, tc.op, tc.want, tc.want, got, got)
			}
		}
	}

	// multi-select default is an empty, non-nil selection
	got, ok := DefaultValue(schema.FieldMultiSelect, schema.OpIn).([]string)
	if !ok || got == nil || len(got) != 0 {
		t.Errorf("multi-select default: expected empty []string, got %v", got)
	}
}
