package export

import (
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/san-kum/fibersim/internal/analysis"
	"github.com/san-kum/fibersim/internal/window"
)

const (
	chartWidth  = 1024
	chartHeight = 512
)

var palette = []drawing.Color{
	chart.ColorGreen,
	chart.ColorRed,
	{R: 255, G: 165, B: 0, A: 255},
	{R: 30, G: 120, B: 220, A: 255},
	{R: 160, G: 60, B: 200, A: 255},
	{R: 0, G: 180, B: 180, A: 255},
	{R: 120, G: 120, B: 120, A: 255},
}

func color(i int) drawing.Color { return palette[i%len(palette)] }

func percentAxis(name string) chart.YAxis {
	return chart.YAxis{
		Name:  name,
		Style: chart.Style{FontSize: 10.0},
		Range: &chart.ContinuousRange{Min: 0, Max: 100},
	}
}

// SurvivalChart draws one survival curve per K.
func SurvivalChart(w io.Writer, curves []Curve) error {
	series := make([]chart.Series, 0, len(curves))
	for i, c := range curves {
		if len(c.Points) < 2 {
			return fmt.Errorf("survival chart: K=%d needs at least one step", c.K)
		}
		xs := make([]float64, len(c.Points))
		for s := range xs {
			xs[s] = float64(s)
		}
		series = append(series, chart.ContinuousSeries{
			Name:    fmt.Sprintf("K=%d", c.K),
			XValues: xs,
			YValues: c.Points,
			Style:   chart.Style{StrokeColor: color(i), StrokeWidth: 3.0},
		})
	}
	if len(series) == 0 {
		return fmt.Errorf("survival chart: no curves")
	}

	graph := chart.Chart{
		Title:  "Survival by step",
		Width:  chartWidth,
		Height: chartHeight,
		XAxis: chart.XAxis{
			Name:  "step",
			Style: chart.Style{FontSize: 10.0},
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%d", int(v.(float64)))
			},
		},
		YAxis:  percentAxis("alive (%)"),
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	return graph.Render(chart.PNG, w)
}

// RetentionBar is the return map retention of one K.
type RetentionBar struct {
	K    int64
	Rate float64
}

func RetentionChart(w io.Writer, bars []RetentionBar) error {
	if len(bars) == 0 {
		return fmt.Errorf("retention chart: no bars")
	}
	values := make([]chart.Value, len(bars))
	for i, b := range bars {
		values[i] = chart.Value{
			Label: fmt.Sprintf("K=%d", b.K),
			Value: b.Rate,
			Style: chart.Style{FillColor: color(i), StrokeColor: color(i)},
		}
	}

	graph := chart.BarChart{
		Title:    "Return map retention",
		Width:    chartWidth,
		Height:   chartHeight,
		BarWidth: 60,
		YAxis:    percentAxis("retained (%)"),
		Bars:     values,
	}
	return graph.Render(chart.PNG, w)
}

// WindowChart plots the safe window size floor((p-1)/K) for K in [1, kMax].
func WindowChart(w io.Writer, p int64, kMax int) error {
	if kMax < 2 {
		return fmt.Errorf("window chart: kMax must be at least 2, got %d", kMax)
	}
	var xs, ys []float64
	for k := 1; k <= kMax; k++ {
		limit, err := window.Limit(int64(k), p)
		if err != nil {
			break
		}
		xs = append(xs, float64(k))
		ys = append(ys, float64(limit))
	}
	if len(xs) < 2 {
		return fmt.Errorf("window chart: p=%d leaves fewer than two non-empty windows", p)
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("Safe window size, p=%d", p),
		Width:  chartWidth,
		Height: chartHeight,
		XAxis:  chart.XAxis{Name: "K", Style: chart.Style{FontSize: 10.0}},
		YAxis:  chart.YAxis{Name: "window size", Style: chart.Style{FontSize: 10.0}},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "floor((p-1)/K)",
				XValues: xs,
				YValues: ys,
				Style:   chart.Style{StrokeColor: color(3), StrokeWidth: 2.0, DotWidth: 3.0, DotColor: color(3)},
			},
		},
	}
	return graph.Render(chart.PNG, w)
}

// ReturnScatter plots n against R_K(n). The y axis spans all of Z_p.
func ReturnScatter(w io.Writer, k int64, p uint64, pairs []analysis.Pair) error {
	if len(pairs) == 0 {
		return fmt.Errorf("return scatter: no pairs")
	}
	xs := make([]float64, len(pairs))
	ys := make([]float64, len(pairs))
	maxIn := 1.0
	for i, pr := range pairs {
		xs[i] = float64(pr.In)
		ys[i] = float64(pr.Out)
		maxIn = max(maxIn, xs[i])
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("Return map, K=%d", k),
		Width:  chartWidth,
		Height: chartWidth,
		XAxis: chart.XAxis{
			Name:  "n",
			Style: chart.Style{FontSize: 10.0},
			Range: &chart.ContinuousRange{Min: 0, Max: maxIn},
		},
		YAxis: chart.YAxis{
			Name:  "R(n)",
			Style: chart.Style{FontSize: 10.0},
			Range: &chart.ContinuousRange{Min: 0, Max: float64(p)},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    fmt.Sprintf("K=%d", k),
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeWidth: chart.Disabled,
					DotWidth:    2,
					DotColor:    color(int(k)),
				},
			},
		},
	}
	return graph.Render(chart.PNG, w)
}
