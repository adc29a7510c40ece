// Package filter decides which complaint records feed the aggregator.
// A State is a conjunction of independently toggleable predicates; all
// active predicates must pass, and within one multi-select set
// membership is an OR.
package filter

import (
	"time"

	"complaint-insights-go/internal/aggregate"
	"complaint-insights-go/internal/types"
)

// DateRange is an inclusive [Start, End] window, used by the grid view.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// ParseRange builds a DateRange from "2006-01-02" strings, widening End
// to the end of that day so same-day records are included.
func ParseRange(start, end string) (*DateRange, error) {
	s, err := time.Parse("2006-01-02", start)
	if err != nil {
		return nil, err
	}
	e, err := time.Parse("2006-01-02", end)
	if err != nil {
		return nil, err
	}
	return &DateRange{Start: s, End: e.AddDate(0, 0, 1).Add(-time.Nanosecond)}, nil
}

// State is the current filter configuration. The zero value matches
// every record.
type State struct {
	// Year restricts records to [year-01-01, year-12-31]. Records
	// without a parseable date are excluded while it is set.
	Year string
	// Range is the explicit grid-view date window, mutually exclusive
	// with Year in the dashboard view.
	Range *DateRange
	// Columns holds multi-select dropdown filters: column name to the
	// set of allowed (normalized) values. Empty sets are inactive.
	Columns map[string][]string
	// Selections holds single-select chart drill-downs: at most one
	// active value per dimension. A synthetic long-tail bucket name
	// selects by frequency class instead of literal equality.
	Selections map[types.Dimension]string
}

// IsSynthetic reports whether sel names a long-tail frequency class for
// dim rather than a literal category.
func IsSynthetic(dim types.Dimension, sel string) bool {
	_, ok := syntheticTarget(dim, sel)
	return ok
}

// syntheticTarget maps a synthetic bucket selection to the occurrence
// count that defines its frequency class.
func syntheticTarget(dim types.Dimension, sel string) (int, bool) {
	switch {
	case dim == types.DimNature && sel == aggregate.SingleComplaints:
		return 1, true
	case dim == types.DimCustomer && sel == aggregate.SingleCustomers:
		return 1, true
	case dim == types.DimCustomer && sel == aggregate.DoubleCustomers:
		return 2, true
	}
	return 0, false
}

// Apply returns the records included by the state. Pure: the input is
// never mutated, and applying the same state twice is a no-op on the
// second pass.
func (s State) Apply(records []types.Record) []types.Record {
	classes := s.frequencyClasses(records)
	out := make([]types.Record, 0, len(records))
	for _, r := range records {
		if s.match(r, classes) {
			out = append(out, r)
		}
	}
	return out
}

// frequencyClasses runs the first aggregation pass for each synthetic
// drill-down: classify every distinct category by its occurrence count
// over the record set filtered by the state minus that dimension, then
// keep the categories whose count matches the selected class.
func (s State) frequencyClasses(records []types.Record) map[types.Dimension]map[string]bool {
	var classes map[types.Dimension]map[string]bool
	for dim, sel := range s.Selections {
		want, ok := syntheticTarget(dim, sel)
		if !ok {
			continue
		}
		rest := s.without(dim)
		counts := make(map[string]int)
		for _, r := range records {
			if rest.match(r, nil) {
				counts[dim.Key(r)]++
			}
		}
		allowed := make(map[string]bool)
		for k, c := range counts {
			if c == want {
				allowed[k] = true
			}
		}
		if classes == nil {
			classes = make(map[types.Dimension]map[string]bool)
		}
		classes[dim] = allowed
	}
	return classes
}

// match evaluates the predicate conjunction with short-circuiting.
// classes carries the precomputed frequency classes; a nil classes map
// marks the classification pass itself, during which other synthetic
// selections are skipped.
func (s State) match(r types.Record, classes map[types.Dimension]map[string]bool) bool {
	if s.Year != "" {
		t, ok := r.Date()
		if !ok || t.Format("2006") != s.Year {
			return false
		}
	}
	if s.Range != nil {
		t, ok := r.Date()
		if !ok || t.Before(s.Range.Start) || t.After(s.Range.End) {
			return false
		}
	}
	for col, allowed := range s.Columns {
		if len(allowed) == 0 {
			continue
		}
		v := r.Field(col)
		found := false
		for _, a := range allowed {
			if a == v {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	for dim, sel := range s.Selections {
		if sel == "" {
			continue
		}
		if _, synthetic := syntheticTarget(dim, sel); synthetic {
			if classes == nil {
				continue
			}
			if !classes[dim][dim.Key(r)] {
				return false
			}
			continue
		}
		if dim.Key(r) != sel {
			return false
		}
	}
	return true
}

// without copies the state with one dimension's selection removed.
func (s State) without(dim types.Dimension) State {
	rest := s
	rest.Selections = make(map[types.Dimension]string, len(s.Selections))
	for d, v := range s.Selections {
		if d != dim {
			rest.Selections[d] = v
		}
	}
	return rest
}
