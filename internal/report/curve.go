package report

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"
)

var seriesColors = []asciigraph.AnsiColor{
	asciigraph.Green,
	asciigraph.Red,
	asciigraph.Yellow,
	asciigraph.Blue,
	asciigraph.Magenta,
	asciigraph.Cyan,
	asciigraph.White,
}

// Series is one named line of a plot.
type Series struct {
	Name string
	Data []float64
}

// Curve plots a single series.
func Curve(data []float64, caption string) string {
	if len(data) == 0 {
		return ""
	}
	return asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(caption),
	)
}

// Curves overlays several series on one plot and appends a legend.
func Curves(series []Series, caption string) string {
	data := make([][]float64, 0, len(series))
	var legend strings.Builder
	for _, s := range series {
		if len(s.Data) == 0 {
			continue
		}
		c := seriesColors[len(data)%len(seriesColors)]
		data = append(data, s.Data)
		fmt.Fprintf(&legend, "  %s■%s %s", c, asciigraph.Default, s.Name)
	}
	if len(data) == 0 {
		return ""
	}

	colors := make([]asciigraph.AnsiColor, len(data))
	for i := range colors {
		colors[i] = seriesColors[i%len(seriesColors)]
	}

	graph := asciigraph.PlotMany(data,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(colors...),
	)
	return graph + "\n" + legend.String()
}

// Bars draws a histogram as horizontal bars scaled to width.
func Bars(labels []string, counts []int, width int) string {
	peak := 0
	for _, c := range counts {
		peak = max(peak, c)
	}
	pad := 0
	for _, l := range labels {
		pad = max(pad, len(l))
	}

	var b strings.Builder
	for i, c := range counts {
		n := 0
		if peak > 0 {
			n = c * width / peak
		}
		fmt.Fprintf(&b, "%-*s %s %d\n", pad, labels[i], strings.Repeat("█", n), c)
	}
	return b.String()
}
