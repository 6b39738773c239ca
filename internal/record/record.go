package record

import "strings"

// Record is one row of the dataset: an arbitrary mapping, possibly with
// nested objects and array-valued fields. The core never validates records
// against the schema; a missing value at any path segment is simply absent.
type Record map[string]any

// Resolve walks a dot-separated path through nested maps and returns the
// value at the end of it. If any intermediate segment is absent or not an
// object, the whole resolution yields (nil, false). This is the single
// path-access primitive shared by the validator, the evaluator and the
// presentation layer.
func Resolve(rec Record, path string) (any, bool) {
	var current any = map[string]any(rec)

	for _, part := range strings.Split(path, ".") {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		val, ok := obj[part]
		if !ok {
			return nil, false
		}
		current = val
	}

	if current == nil {
		return nil, false
	}
	return current, true
}

// Set stores a value at a dot-separated path, creating intermediate maps as
// needed. Used by loaders that see flattened keys (CSV headers like
// "address.city") so that Resolve works uniformly afterwards.
func Set(rec Record, path string, value any) {
	parts := strings.Split(path, ".")
	current := map[string]any(rec)

	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = map[string]any{}
			current[part] = next
		}
		current = next
	}

	current[parts[len(parts)-1]] = value
}
