package viz

import (
	"github.com/guptarohit/asciigraph"
)

// Chart renders one curve as an asciigraph line chart for CLI output.
func Chart(xs []float64, caption string, width, height int) string {
	if len(xs) == 0 {
		return ""
	}
	return asciigraph.Plot(xs,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// CompareChart overlays several curves in one chart, colored per series.
func CompareChart(series [][]float64, captions []string, width, height int) string {
	if len(series) == 0 {
		return ""
	}
	colors := []asciigraph.AnsiColor{
		asciigraph.Aqua,
		asciigraph.Fuchsia,
		asciigraph.Yellow,
		asciigraph.Green,
		asciigraph.Red,
		asciigraph.Blue,
	}
	used := make([]asciigraph.AnsiColor, len(series))
	for i := range series {
		used[i] = colors[i%len(colors)]
	}
	caption := ""
	if len(captions) > 0 {
		caption = captions[0]
	}
	return asciigraph.PlotMany(series,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(used...),
	)
}
