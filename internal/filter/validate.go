package filter

import "github.com/siftlab/sift/internal/schema"

// Validation error messages, surfaced per condition ID for display.
const (
	errValueRequired  = "Value is required"
	errMinMaxRequired = "Both min and max values are required"
	errMinOverMax     = "Min value cannot be greater than max value"
	errDatesRequired  = "Both start and end dates are required"
	errStartAfterEnd  = "Start date cannot be after end date"
	errNoOptions      = "At least one option must be selected"
)

// Validate checks that a condition's value is well-formed for its field
// type and operator. It returns an empty string when the condition is valid,
// otherwise a human-readable message. Rules apply in order, first failure
// wins.
//
// Known limitation, kept deliberately: an absent value or empty string is
// always rejected, so an empty-string text match cannot be expressed, while
// false is a perfectly valid boolean value.
func Validate(cond Condition, def schema.FieldDefinition) string {
	if cond.Value == nil {
		return errValueRequired
	}
	if s, ok := cond.Value.(string); ok && s == "" {
		return errValueRequired
	}

	if cond.Operator == schema.OpBetween {
		switch def.Type {
		case schema.FieldNumber, schema.FieldAmount:
			r, ok := toNumberRange(cond.Value)
			if !ok {
				return errMinMaxRequired
			}
			if r.Min > r.Max {
				return errMinOverMax
			}
			return ""
		case schema.FieldDate:
			r, ok := toDateRange(cond.Value)
			if !ok || r.Start == "" || r.End == "" {
				return errDatesRequired
			}
			// Unparseable boundaries collapse to the zero time and so never
			// order after anything; they pass here and fail to match at
			// evaluation time instead.
			start, _ := parseDate(r.Start)
			end, _ := parseDate(r.End)
			if start.After(end) {
				return errStartAfterEnd
			}
			return ""
		}
	}

	if cond.Operator == schema.OpIn || cond.Operator == schema.OpNotIn {
		if len(toStringSlice(cond.Value)) == 0 {
			return errNoOptions
		}
	}

	return ""
}

// ValidateAll validates every condition against the schema and returns
// messages keyed by condition ID. An empty map means the whole set is ready
// to apply. Conditions referencing unknown fields validate against a zero
// field definition, which only rule 1 can reject.
func ValidateAll(conds []Condition, s *schema.Schema) map[string]string {
	errs := map[string]string{}
	for _, c := range conds {
		def, _ := s.Field(c.Field)
		if msg := Validate(c, def); msg != "" {
			errs[c.ID] = msg
		}
	}
	return errs
}
