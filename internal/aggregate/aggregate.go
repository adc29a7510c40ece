// Package aggregate reduces complaint records into named count buckets
// per grouping dimension, with the long-tail bucketing and per-100
// normalization the dashboard charts rely on.
package aggregate

import (
	"sort"

	"complaint-insights-go/internal/types"
)

// Synthetic long-tail bucket names. Selecting one of these as a
// drill-down filter means "records in that frequency class", not a
// literal field value.
const (
	SingleComplaints = "Single Complaints"
	SingleCustomers  = "Single Customers"
	DoubleCustomers  = "Double Customers"
)

// Options tunes one grouping pass.
type Options struct {
	// Ratio enables per-100 mode against the given dispatch baseline.
	Ratio *types.DispatchStats
	// TopN caps the result after bucketing. Zero means no cap.
	TopN int
	// NoBucket suppresses long-tail bucketing for nature/customer.
	// Set while the user is drilled into one of the synthetic buckets
	// so the individual categories of that class stay visible.
	NoBucket bool
}

// Counts tallies records per category for one dimension. The returned
// order slice holds category keys in first-seen order, which later
// serves as the stable tie-break.
func Counts(records []types.Record, dim types.Dimension) (map[string]int, []string) {
	counts := make(map[string]int, 16)
	var order []string
	for _, r := range records {
		k := dim.Key(r)
		if counts[k] == 0 {
			order = append(order, k)
		}
		counts[k]++
	}
	return counts, order
}

// Group aggregates records into an ordered bucket sequence for dim.
// It never fails: malformed values degrade to the Unknown bucket and an
// empty input yields an empty result.
func Group(records []types.Record, dim types.Dimension, opts Options) types.GroupedResult {
	counts, order := Counts(records, dim)

	var out types.GroupedResult
	switch dim {
	case types.DimMonth:
		out = monthBuckets(counts)
	case types.DimYear:
		out = yearBuckets(counts)
	case types.DimNature:
		out = countDescBuckets(counts, order)
		if !opts.NoBucket {
			out = collapseTail(out, tailRule{threshold: 1, names: []string{SingleComplaints}})
		}
	case types.DimCustomer:
		out = countDescBuckets(counts, order)
		if !opts.NoBucket {
			out = collapseTail(out, tailRule{threshold: 2, names: []string{DoubleCustomers, SingleCustomers}})
		}
	default:
		out = countDescBuckets(counts, order)
	}

	if opts.Ratio != nil {
		applyRatio(out, dim, *opts.Ratio)
		switch dim {
		case types.DimUnit, types.DimMarket, types.DimNature, types.DimCustomer:
			sort.SliceStable(out, func(i, j int) bool { return out[i].Ratio > out[j].Ratio })
		}
	}

	if opts.TopN > 0 && len(out) > opts.TopN {
		out = out[:opts.TopN]
	}
	return out
}

// countDescBuckets converts a count map to buckets sorted descending by
// count, ties broken by first-seen order.
func countDescBuckets(counts map[string]int, order []string) types.GroupedResult {
	out := make(types.GroupedResult, 0, len(order))
	for _, k := range order {
		out = append(out, types.Bucket{Name: k, Count: counts[k]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

var monthNames = []string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// monthBuckets keeps fixed calendar order regardless of counts. Records
// without a parseable date trail in an Unknown bucket.
func monthBuckets(counts map[string]int) types.GroupedResult {
	var out types.GroupedResult
	for _, m := range monthNames {
		if c := counts[m]; c > 0 {
			out = append(out, types.Bucket{Name: m, Count: c})
		}
	}
	if c := counts[types.Unknown]; c > 0 {
		out = append(out, types.Bucket{Name: types.Unknown, Count: c})
	}
	return out
}

// yearBuckets sorts ascending lexicographically, which is chronological
// for 4-digit years and leaves Unknown last.
func yearBuckets(counts map[string]int) types.GroupedResult {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make(types.GroupedResult, 0, len(keys))
	for _, k := range keys {
		out = append(out, types.Bucket{Name: k, Count: counts[k]})
	}
	return out
}

type tailRule struct {
	// Categories with count <= threshold collapse; names holds the
	// synthetic bucket per count, highest first (names[0] takes
	// count==threshold, names[1] takes count==threshold-1, ...).
	threshold int
	names     []string
}

// collapseTail partitions a desc-sorted result into individual buckets
// and synthetic low-frequency buckets appended after them. A synthetic
// bucket's count is the number of records it absorbs, so grouping still
// accounts for every record; the collapsed category names are kept as
// Members for the drill-down detail view.
func collapseTail(sorted types.GroupedResult, rule tailRule) types.GroupedResult {
	out := make(types.GroupedResult, 0, len(sorted))
	tails := make([]types.Bucket, len(rule.names))
	for i, name := range rule.names {
		tails[i] = types.Bucket{Name: name}
	}
	for _, b := range sorted {
		if b.Count > rule.threshold {
			out = append(out, b)
			continue
		}
		i := rule.threshold - b.Count
		tails[i].Count += b.Count
		tails[i].Members = append(tails[i].Members, b.Name)
	}
	for _, t := range tails {
		if t.Count > 0 {
			out = append(out, t)
		}
	}
	return out
}

// applyRatio rescales counts into per-100 values against the dispatch
// baseline. A zero or missing baseline clamps to 0 rather than
// producing Inf/NaN.
func applyRatio(g types.GroupedResult, dim types.Dimension, stats types.DispatchStats) {
	for i := range g {
		base := stats.Baseline(string(dim), g[i].Name)
		if base > 0 {
			g[i].Ratio = float64(g[i].Count) / base * 100
		} else {
			g[i].Ratio = 0
		}
		g[i].Display = FormatRatio(g[i].Ratio)
	}
}
