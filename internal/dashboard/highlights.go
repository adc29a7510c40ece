package dashboard

import (
	"fmt"

	"complaint-insights-go/internal/aggregate"
	"complaint-insights-go/internal/types"
)

// Highlight is one rule-driven callout rendered above the charts.
type Highlight struct {
	Insight string `json:"insight"`
	Action  string `json:"action"`
	Impact  string `json:"impact"`
}

// Highlights derives callouts from the aggregated charts. Rules are
// deliberately coarse; the cards point at where to look, not at root
// causes.
func Highlights(charts map[string]types.GroupedResult, total int) []Highlight {
	if total == 0 {
		return nil
	}
	var out []Highlight

	if units := charts[string(types.DimUnit)]; len(units) > 1 {
		top := units[0]
		share := float64(top.Count) / float64(total)
		if share >= 0.35 && top.Name != types.Unknown {
			out = append(out, Highlight{
				Insight: fmt.Sprintf("%s accounts for %.0f%% of complaints", top.Name, share*100),
				Action:  "Review process controls and recent lot quality for this unit",
				Impact:  "Largest single lever on overall complaint volume",
			})
		}
	}

	if natures := charts[string(types.DimNature)]; len(natures) > 0 {
		top := natures[0]
		if top.Name != types.Unknown && top.Name != aggregate.SingleComplaints {
			out = append(out, Highlight{
				Insight: fmt.Sprintf("%q is the leading complaint nature (%d cases)", top.Name, top.Count),
				Action:  "Assign the owning department a root-cause review",
				Impact:  "Addresses the most frequent failure mode",
			})
		}
		for _, b := range natures {
			if b.Name == aggregate.SingleComplaints && float64(b.Count)/float64(total) >= 0.25 {
				out = append(out, Highlight{
					Insight: fmt.Sprintf("%d complaints are one-off natures (long tail)", b.Count),
					Action:  "Audit categorization quality; many one-offs suggest free-text drift",
					Impact:  "Cleaner categories sharpen every other chart",
				})
				break
			}
		}
	}

	return out
}
