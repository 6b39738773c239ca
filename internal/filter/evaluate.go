package filter

import (
	"regexp"
	"strings"

	"github.com/siftlab/sift/internal/record"
	"github.com/siftlab/sift/internal/schema"
)

// Evaluate decides whether a single record satisfies a single condition.
//
// Dispatch is on the runtime type of the resolved field value, not the
// declared schema type: schema and data may disagree, and the declared type
// is only used for defaults and validation. The evaluator is total — it
// always returns a boolean. Combinations outside the catalog fall through to
// true ("not filtering"), except that an absent field value matches nothing.
func (e *Engine) Evaluate(rec record.Record, cond Condition) bool {
	val, ok := record.Resolve(rec, cond.Field)
	if !ok {
		return false
	}

	switch fv := val.(type) {
	case bool:
		// Equality regardless of the declared operator. A non-boolean
		// condition value compares strictly unequal.
		b, isBool := cond.Value.(bool)
		return isBool && fv == b

	case string:
		return e.evalString(fv, cond)

	case float64, float32, int, int32, int64, uint64:
		n, _ := toFloat(fv)
		return evalNumber(n, cond)

	case []any:
		return evalSequence(toStringSlice(fv), cond)
	case []string:
		return evalSequence(fv, cond)

	default:
		switch cond.Operator {
		case schema.OpIs:
			return fv == cond.Value
		case schema.OpIsNot:
			return fv != cond.Value
		}
		return true
	}
}

func (e *Engine) evalString(fv string, cond Condition) bool {
	cv, _ := cond.Value.(string)

	switch cond.Operator {
	case schema.OpEquals:
		return strings.EqualFold(fv, cv)
	case schema.OpContains:
		return strings.Contains(strings.ToLower(fv), strings.ToLower(cv))
	case schema.OpNotContains:
		return !strings.Contains(strings.ToLower(fv), strings.ToLower(cv))
	case schema.OpStartsWith:
		return strings.HasPrefix(strings.ToLower(fv), strings.ToLower(cv))
	case schema.OpEndsWith:
		return strings.HasSuffix(strings.ToLower(fv), strings.ToLower(cv))

	case schema.OpRegex:
		// Case-insensitive pattern tested against the original-case value.
		// A pattern that fails to compile contributes "no match" and must
		// never abort the filtering pass.
		re, err := regexp.Compile("(?i)" + cv)
		if err != nil {
			e.log.WithField("pattern", cv).WithError(err).
				Warn("invalid regex pattern in filter condition")
			return false
		}
		return re.MatchString(fv)

	case schema.OpBetween:
		// Date values arrive as date-format strings, ambiguous with plain
		// text. The field key name disambiguates: any date-valued key must
		// contain "Date" or "Review", or between falls through.
		if fieldKeyLooksDated(cond.Field) {
			return evalDateBetween(fv, cond.Value)
		}
		return true

	case schema.OpIs:
		return equalRaw(fv, cond.Value)
	case schema.OpIsNot:
		return !equalRaw(fv, cond.Value)

	default:
		return true
	}
}

func evalNumber(n float64, cond Condition) bool {
	switch cond.Operator {
	case schema.OpBetween:
		r, ok := toNumberRange(cond.Value)
		if !ok {
			return false
		}
		return n >= r.Min && n <= r.Max
	case schema.OpEquals:
		cv, ok := toFloat(cond.Value)
		return ok && n == cv
	case schema.OpGreaterThan:
		cv, ok := toFloat(cond.Value)
		return ok && n > cv
	case schema.OpLessThan:
		cv, ok := toFloat(cond.Value)
		return ok && n < cv
	case schema.OpGreaterThanOrEqual:
		cv, ok := toFloat(cond.Value)
		return ok && n >= cv
	case schema.OpLessThanOrEqual:
		cv, ok := toFloat(cond.Value)
		return ok && n <= cv
	case schema.OpIs:
		cv, ok := toFloat(cond.Value)
		return ok && n == cv
	case schema.OpIsNot:
		cv, ok := toFloat(cond.Value)
		return !ok || n != cv
	default:
		return true
	}
}

func evalSequence(fieldVals []string, cond Condition) bool {
	filterVals := toStringSlice(cond.Value)
	if len(filterVals) == 0 {
		// An empty filter selection constrains nothing.
		return true
	}

	switch cond.Operator {
	case schema.OpIn:
		return intersects(fieldVals, filterVals)
	case schema.OpNotIn:
		return !intersects(fieldVals, filterVals)
	default:
		return true
	}
}

func intersects(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

func evalDateBetween(fv string, value any) bool {
	r, ok := toDateRange(value)
	if !ok {
		return false
	}
	t, ok := parseDate(fv)
	if !ok {
		return false
	}
	start, okStart := parseDate(r.Start)
	end, okEnd := parseDate(r.End)
	if !okStart || !okEnd {
		return false
	}
	return !t.Before(start) && !t.After(end)
}

func fieldKeyLooksDated(key string) bool {
	return strings.Contains(key, "Date") || strings.Contains(key, "Review")
}

// equalRaw mirrors strict equality for the is/isNot fallback: values are
// equal only when both type and value match.
func equalRaw(a, b any) bool {
	return a == b
}
