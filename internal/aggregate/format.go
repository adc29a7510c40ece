package aggregate

import "strconv"

// FormatRatio renders a per-100 value with precision scaled to its
// magnitude, so small-but-real ratios never display as "0.00".
func FormatRatio(v float64) string {
	switch {
	case v == 0:
		return "0"
	case v < 0.001:
		return strconv.FormatFloat(v, 'f', 6, 64)
	case v < 0.01:
		return strconv.FormatFloat(v, 'f', 5, 64)
	case v < 1:
		return strconv.FormatFloat(v, 'f', 4, 64)
	default:
		return strconv.FormatFloat(v, 'f', 2, 64)
	}
}
