package filter

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/siftlab/sift/internal/record"
)

// Engine evaluates condition sets over datasets. It is the session-scoped
// context object for a filtering surface: construct one per dataset view and
// pass it around, never hold one in a package variable.
//
// The engine is side-effect-free apart from diagnostic logging on malformed
// regex patterns, which never propagates to the caller.
type Engine struct {
	log *logrus.Logger
}

// NewEngine creates an engine logging diagnostics to the given logger. A nil
// logger discards diagnostics.
func NewEngine(log *logrus.Logger) *Engine {
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	return &Engine{log: log}
}

// Apply filters records through the ordered condition set with AND
// semantics: a record is kept iff every condition evaluates true for it,
// short-circuiting on the first failure. Input order is preserved and
// neither records nor conditions are mutated. An empty condition set is the
// identity.
func (e *Engine) Apply(records []record.Record, conds []Condition) []record.Record {
	if len(conds) == 0 {
		return records
	}

	out := make([]record.Record, 0, len(records))
	for _, rec := range records {
		if e.matches(rec, conds) {
			out = append(out, rec)
		}
	}
	return out
}

func (e *Engine) matches(rec record.Record, conds []Condition) bool {
	for _, cond := range conds {
		if !e.Evaluate(rec, cond) {
			return false
		}
	}
	return true
}
