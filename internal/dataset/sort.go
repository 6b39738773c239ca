package dataset

import (
	"fmt"
	"sort"
	"strings"

	"github.com/siftlab/sift/internal/record"
)

// Sort returns a new slice of records stably ordered by the given field.
// Numbers compare numerically, everything else by case-insensitive string
// representation; records where the field is absent always sort last. The
// input is not mutated — sorting is presentation, downstream of filtering.
func Sort(records []record.Record, field string, desc bool) []record.Record {
	out := make([]record.Record, len(records))
	copy(out, records)

	sort.SliceStable(out, func(i, j int) bool {
		av, aok := record.Resolve(out[i], field)
		bv, bok := record.Resolve(out[j], field)
		switch {
		case !aok && !bok:
			return false
		case !aok:
			return false
		case !bok:
			return true
		}

		c := compareValues(av, bv)
		if desc {
			return c > 0
		}
		return c < 0
	})
	return out
}

func compareValues(a, b any) int {
	an, aIsNum := numeric(a)
	bn, bIsNum := numeric(b)
	if aIsNum && bIsNum {
		switch {
		case an < bn:
			return -1
		case an > bn:
			return 1
		default:
			return 0
		}
	}

	return strings.Compare(
		strings.ToLower(fmt.Sprintf("%v", a)),
		strings.ToLower(fmt.Sprintf("%v", b)),
	)
}

func numeric(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
