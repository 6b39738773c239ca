package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/siftlab/sift/internal/filter"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStoreAddAndGetRecent(t *testing.T) {
	store := newTestStore(t)

	conds := []filter.Condition{
		{ID: "c1", Field: "status", Operator: "is", Value: "Active"},
		{ID: "c2", Field: "salary", Operator: "between", Value: filter.NumberRange{Min: 50000, Max: 90000}},
	}
	err := store.Add(Entry{
		Dataset:    "employees.json",
		Conditions: conds,
		Matched:    2,
		Total:      10,
		Duration:   3 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	entries, err := store.GetRecent(10)
	if err != nil {
		t.Fatalf("GetRecent() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("GetRecent() returned %d entries, want 1", len(entries))
	}

	got := entries[0]
	if got.Dataset != "employees.json" || got.Matched != 2 || got.Total != 10 {
		t.Errorf("entry = %+v", got)
	}
	if got.Duration != 3*time.Millisecond {
		t.Errorf("Duration = %v, want 3ms", got.Duration)
	}
	if len(got.Conditions) != 2 {
		t.Fatalf("Conditions length = %d, want 2", len(got.Conditions))
	}
	if got.Conditions[0].Field != "status" || got.Conditions[0].Value != "Active" {
		t.Errorf("first condition = %+v", got.Conditions[0])
	}
	r, ok := got.Conditions[1].Value.(filter.NumberRange)
	if !ok {
		t.Fatalf("second condition value = %T, want NumberRange", got.Conditions[1].Value)
	}
	if r.Min != 50000 || r.Max != 90000 {
		t.Errorf("range = %+v", r)
	}
}

func TestStoreGetRecentLimit(t *testing.T) {
	store := newTestStore(t)

	for i := 0; i < 5; i++ {
		if err := store.Add(Entry{Dataset: "d", Total: i}); err != nil {
			t.Fatalf("Add() error = %v", err)
		}
	}

	entries, err := store.GetRecent(3)
	if err != nil {
		t.Fatalf("GetRecent() error = %v", err)
	}
	if len(entries) != 3 {
		t.Errorf("GetRecent(3) returned %d entries", len(entries))
	}
	if entries[0].Total != 4 {
		t.Errorf("newest entry Total = %d, want 4", entries[0].Total)
	}
}

func TestStorePrune(t *testing.T) {
	store := newTestStore(t)

	for i := 0; i < 5; i++ {
		if err := store.Add(Entry{Dataset: "d", Total: i}); err != nil {
			t.Fatalf("Add() error = %v", err)
		}
	}

	if err := store.Prune(2); err != nil {
		t.Fatalf("Prune() error = %v", err)
	}

	entries, err := store.GetRecent(10)
	if err != nil {
		t.Fatalf("GetRecent() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("after Prune(2) got %d entries", len(entries))
	}
	if entries[0].Total != 4 || entries[1].Total != 3 {
		t.Errorf("kept entries = %d, %d; want newest two", entries[0].Total, entries[1].Total)
	}
}

func TestStorePruneNonPositive(t *testing.T) {
	store := newTestStore(t)
	if err := store.Add(Entry{Dataset: "d"}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := store.Prune(0); err != nil {
		t.Fatalf("Prune(0) error = %v", err)
	}
	entries, _ := store.GetRecent(10)
	if len(entries) != 1 {
		t.Errorf("Prune(0) should be a no-op, got %d entries", len(entries))
	}
}
