package types

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Unknown is the normalized category for missing, null or empty values.
const Unknown = "Unknown"

// DateField is the raw date column on complaint records.
const DateField = "query_received_date"

// Record is one complaint row as returned by the complaints API.
// The backend sends loosely-typed JSON, so every field is optional and
// may arrive as a string, number, bool or null.
type Record map[string]any

// Field returns the record's value for name coerced to a string.
// Missing, null, empty and non-scalar values normalize to Unknown.
func (r Record) Field(name string) string {
	return ScalarString(r[name])
}

// ScalarString coerces a decoded JSON scalar to its normalized string
// form. Nil, empty and non-scalar values normalize to Unknown.
func ScalarString(v any) string {
	if v == nil {
		return Unknown
	}
	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return Unknown
		}
		return s
	case float64:
		// JSON numbers decode as float64; render integral values without
		// a trailing ".0" so they match dropdown and filter strings.
		if t == math.Trunc(t) && math.Abs(t) < 1e15 {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return Unknown
	}
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"02-01-2006",
	"02/01/2006",
}

// Date parses the record's query_received_date. The second return is
// false when the field is absent or not parseable by any known layout.
func (r Record) Date() (time.Time, bool) {
	raw := r.Field(DateField)
	if raw == Unknown {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Bucket is one named count produced by grouping. Ratio and Display are
// only set in per-100 mode; Members lists the literal category names
// collapsed into a synthetic long-tail bucket.
type Bucket struct {
	Name    string   `json:"name"`
	Count   int      `json:"count"`
	Ratio   float64  `json:"ratio,omitempty"`
	Display string   `json:"display,omitempty"`
	Members []string `json:"members,omitempty"`
}

// GroupedResult is the ordered bucket sequence for one dimension.
type GroupedResult []Bucket

// Total sums the bucket counts.
func (g GroupedResult) Total() int {
	n := 0
	for _, b := range g {
		n += b.Count
	}
	return n
}

// DispatchStats carries the per-dimension dispatch volume denominators
// used by per-100 mode. Supplied by the dispatch-stats endpoint, never
// computed here.
type DispatchStats struct {
	Stats map[string]map[string]float64 `json:"stats"`
	Total float64                       `json:"total"`
}

// Baseline returns the denominator for one category of a dimension,
// falling back to the grand total when no per-category figure exists.
func (s DispatchStats) Baseline(dim, category string) float64 {
	if m, ok := s.Stats[dim]; ok {
		if v, ok := m[category]; ok {
			return v
		}
	}
	return s.Total
}
