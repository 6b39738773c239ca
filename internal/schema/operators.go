package schema

// Operator is a filter comparison operator.
type Operator string

const (
	OpEquals             Operator = "equals"
	OpContains           Operator = "contains"
	OpStartsWith         Operator = "startsWith"
	OpEndsWith           Operator = "endsWith"
	OpNotContains        Operator = "notContains"
	OpRegex              Operator = "regex"
	OpGreaterThan        Operator = "greaterThan"
	OpLessThan           Operator = "lessThan"
	OpGreaterThanOrEqual Operator = "greaterThanOrEqual"
	OpLessThanOrEqual    Operator = "lessThanOrEqual"
	OpBetween            Operator = "between"
	OpIs                 Operator = "is"
	OpIsNot              Operator = "isNot"
	OpIn                 Operator = "in"
	OpNotIn              Operator = "notIn"
)

// OperatorDefinition pairs an operator with its display label. The label is
// presentation-only and never consulted during evaluation.
type OperatorDefinition struct {
	Value Operator
	Label string
}

var numericOperators = []OperatorDefinition{
	{OpEquals, "Equals"},
	{OpGreaterThan, "Greater than"},
	{OpLessThan, "Less than"},
	{OpGreaterThanOrEqual, "Greater than or equal"},
	{OpLessThanOrEqual, "Less than or equal"},
	{OpBetween, "Between"},
}

// OperatorsFor returns the legal operator set for a field type. It is never
// empty for any of the seven field types; unknown types fall back to the
// text operators so the UI always has something to offer.
func OperatorsFor(t FieldType) []OperatorDefinition {
	switch t {
	case FieldNumber, FieldAmount:
		return numericOperators
	case FieldDate:
		return []OperatorDefinition{
			{OpBetween, "Between"},
		}
	case FieldSingleSelect:
		return []OperatorDefinition{
			{OpIs, "Is"},
			{OpIsNot, "Is not"},
		}
	case FieldMultiSelect:
		return []OperatorDefinition{
			{OpIn, "Includes any of"},
			{OpNotIn, "Excludes all of"},
		}
	case FieldBoolean:
		return []OperatorDefinition{
			{OpIs, "Is"},
		}
	default:
		return []OperatorDefinition{
			{OpEquals, "Equals"},
			{OpContains, "Contains"},
			{OpStartsWith, "Starts with"},
			{OpEndsWith, "Ends with"},
			{OpNotContains, "Does not contain"},
			{OpRegex, "Matches regex"},
		}
	}
}
