package filter

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/siftlab/sift/internal/schema"
)

// NumberRange is the value shape for between on number and amount fields.
// Both bounds are inclusive.
type NumberRange struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// DateRange is the value shape for between on date fields. Bounds are ISO
// date strings ("2006-01-02" or RFC3339), inclusive.
type DateRange struct {
	Start string `json:"start" yaml:"start"`
	End   string `json:"end" yaml:"end"`
}

// Condition is a single filter row: one (field, operator, value) triple.
// Conditions are owned by the caller; the engine only reads them.
//
// Value holds one of: string, float64, bool, []string, NumberRange,
// DateRange, or nil. The shape is determined jointly by the field type and
// operator; custom unmarshaling renormalizes it after deserialization so
// condition sets round-trip losslessly through JSON and YAML.
type Condition struct {
	ID       string          `json:"id" yaml:"id"`
	Field    string          `json:"field" yaml:"field"`
	Operator schema.Operator `json:"operator" yaml:"operator"`
	Value    any             `json:"value" yaml:"value"`
}

// NewCondition creates a condition for a field with its first catalog
// operator and the default value for that type/operator pair.
func NewCondition(def schema.FieldDefinition) Condition {
	ops := schema.OperatorsFor(def.Type)
	op := ops[0].Value
	return Condition{
		ID:       uuid.NewString(),
		Field:    def.Key,
		Operator: op,
		Value:    DefaultValue(def.Type, op),
	}
}

// DefaultValue returns the value a freshly created condition row starts
// with, or resets to when its field or operator changes.
func DefaultValue(t schema.FieldType, op schema.Operator) any {
	if op == schema.OpBetween {
		switch t {
		case schema.FieldDate:
			return DateRange{}
		case schema.FieldNumber, schema.FieldAmount:
			return NumberRange{}
		}
	}
	switch t {
	case schema.FieldBoolean:
		return false
	case schema.FieldMultiSelect:
		return []string{}
	case schema.FieldNumber, schema.FieldAmount:
		return float64(0)
	default:
		return ""
	}
}

func (c *Condition) UnmarshalJSON(data []byte) error {
	type alias Condition
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	a.Value = normalizeValue(a.Value)
	*c = Condition(a)
	return nil
}

func (c *Condition) UnmarshalYAML(node *yaml.Node) error {
	type alias Condition
	var a alias
	if err := node.Decode(&a); err != nil {
		return err
	}
	a.Value = normalizeValue(a.Value)
	*c = Condition(a)
	return nil
}

// normalizeValue maps the generic shapes produced by JSON/YAML decoding back
// onto the value union: {min,max} objects become NumberRange, {start,end}
// objects become DateRange, generic sequences become []string, and integer
// numbers become float64.
func normalizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		if min, okMin := toFloat(t["min"]); okMin {
			if max, okMax := toFloat(t["max"]); okMax && len(t) == 2 {
				return NumberRange{Min: min, Max: max}
			}
		}
		start, okStart := t["start"].(string)
		end, okEnd := t["end"].(string)
		if okStart && okEnd && len(t) == 2 {
			return DateRange{Start: start, End: end}
		}
		return v
	case []any:
		return toStringSlice(t)
	case int:
		return float64(t)
	case int64:
		return float64(t)
	default:
		return v
	}
}

// toFloat coerces a value to float64 the way the evaluator needs it: real
// numeric types pass through, numeric strings parse (condition values are
// typed into a text input), everything else fails.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// toStringSlice flattens sequence values to strings for multi-select
// comparison. Non-sequence values yield nil.
func toStringSlice(v any) []string {
	switch s := v.(type) {
	case []string:
		return s
	case []any:
		out := make([]string, 0, len(s))
		for _, item := range s {
			if str, ok := item.(string); ok {
				out = append(out, str)
			}
		}
		return out
	default:
		return nil
	}
}

func toNumberRange(v any) (NumberRange, bool) {
	switch r := v.(type) {
	case NumberRange:
		return r, true
	case map[string]any:
		min, okMin := toFloat(r["min"])
		max, okMax := toFloat(r["max"])
		if okMin && okMax {
			return NumberRange{Min: min, Max: max}, true
		}
	}
	return NumberRange{}, false
}

func toDateRange(v any) (DateRange, bool) {
	switch r := v.(type) {
	case DateRange:
		return r, true
	case map[string]any:
		start, okStart := r["start"].(string)
		end, okEnd := r["end"].(string)
		if okStart && okEnd {
			return DateRange{Start: start, End: end}, true
		}
	}
	return DateRange{}, false
}

var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// parseDate accepts the ISO date representations that appear in datasets and
// condition values.
func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
