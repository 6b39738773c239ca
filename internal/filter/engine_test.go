package filter

import (
	"reflect"
	"testing"

	"github.com/siftlab/sift/internal/record"
	"github.com/siftlab/sift/internal/schema"
)

func employeeRecords() []record.Record {
	return []record.Record{
		{"name": "Sarah Johnson", "salary": 95000.0},
		{"name": "John Lee", "salary": 60000.0},
		{"name": "Amy Chen", "salary": 110000.0},
	}
}

func TestApplyEmptyConditionSetIsIdentity(t *testing.T) {
	e := NewEngine(nil)
	records := employeeRecords()

	out := e.Apply(records, nil)
	if len(out) != len(records) {
		t.Fatalf("expected %d records, got %d", len(records), len(out))
	}
	for i := range records {
		if !reflect.DeepEqual(out[i], records[i]) {
			t.Errorf("record %d changed: %v", i, out[i])
		}
	}
}

func TestApplyEndToEnd(t *testing.T) {
	e := NewEngine(nil)
	records := employeeRecords()

	conds := []Condition{
		{ID: "1", Field: "name", Operator: schema.OpContains, Value: "jo"},
		{ID: "2", Field: "salary", Operator: schema.OpBetween, Value: NumberRange{Min: 50000, Max: 100000}},
	}

	out := e.Apply(records, conds)
	if len(out) != 2 {
		t.Fatalf("expected 2 records, got %d", len(out))
	}
	// Order preserved from input.
	if out[0]["name"] != "Sarah Johnson" || out[1]["name"] != "John Lee" {
		t.Errorf("unexpected result order: %v, %v", out[0]["name"], out[1]["name"])
	}
}

func TestApplyIdempotent(t *testing.T) {
	e := NewEngine(nil)
	records := employeeRecords()
	conds := []Condition{
		{ID: "1", Field: "salary", Operator: schema.OpGreaterThan, Value: 70000.0},
	}

	once := e.Apply(records, conds)
	twice := e.Apply(once, conds)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("applying twice changed the result: %v vs %v", once, twice)
	}
}

func TestApplyMonotonic(t *testing.T) {
	e := NewEngine(nil)
	records := employeeRecords()

	conds := []Condition{
		{ID: "1", Field: "name", Operator: schema.OpContains, Value: "o"},
	}
	base := e.Apply(records, conds)

	narrowed := append(conds, Condition{
		ID: "2", Field: "salary", Operator: schema.OpLessThan, Value: 90000.0,
	})
	out := e.Apply(records, narrowed)

	if len(out) > len(base) {
		t.Errorf("adding a condition grew the result: %d > %d", len(out), len(base))
	}
}

func TestApplyDoesNotMutateInputs(t *testing.T) {
	e := NewEngine(nil)
	records := employeeRecords()
	snapshot := employeeRecords()

	conds := []Condition{
		{ID: "1", Field: "salary", Operator: schema.OpBetween, Value: NumberRange{Min: 0, Max: 70000}},
	}
	condSnapshot := make([]Condition, len(conds))
	copy(condSnapshot, conds)

	e.Apply(records, conds)

	if !reflect.DeepEqual(records, snapshot) {
		t.Error("Apply mutated the record set")
	}
	if !reflect.DeepEqual(conds, condSnapshot) {
		t.Error("Apply mutated the condition set")
	}
}

func TestApplyShortCircuitsOnAbsentField(t *testing.T) {
	e := NewEngine(nil)
	records := []record.Record{
		{"name": "Sarah"},
		{"name": "John", "salary": 60000.0},
	}

	conds := []Condition{
		{ID: "1", Field: "salary", Operator: schema.OpGreaterThan, Value: 1.0},
	}

	out := e.Apply(records, conds)
	if len(out) != 1 || out[0]["name"] != "John" {
		t.Errorf("expected only John to survive, got %v", out)
	}
}
