// Package chart renders aggregation results as static chart images for
// the batch report.
package chart

import (
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"complaint-insights-go/internal/types"
)

var barBlue = color.RGBA{R: 31, G: 119, B: 180, A: 255}

// SaveBar writes a bar chart of the grouped result to path. Ratio-mode
// results (Display set) plot the per-100 value, otherwise the raw
// count.
func SaveBar(path, title string, g types.GroupedResult) error {
	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = "Complaints"

	values := make(plotter.Values, len(g))
	names := make([]string, len(g))
	for i, b := range g {
		if b.Display != "" {
			values[i] = b.Ratio
		} else {
			values[i] = float64(b.Count)
		}
		names[i] = b.Name
	}
	if len(g) > 0 && g[0].Display != "" {
		p.Y.Label.Text = "Complaints per 100"
	}

	bars, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return err
	}
	bars.LineStyle.Width = vg.Length(0)
	bars.Color = barBlue
	p.Add(bars)
	p.NominalX(names...)
	p.X.Tick.Label.Rotation = -0.6
	p.X.Tick.Label.XAlign = -0.2
	p.X.Tick.Label.YAlign = 0

	return p.Save(10*vg.Inch, 4*vg.Inch, path)
}
