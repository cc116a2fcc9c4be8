package render

import (
	"io"
	"math"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/sartorproj/perfdash/dashboard"
)

// GoChartRenderer draws charts with go-chart.
type GoChartRenderer struct {
	format Format
	Width  int
	Height int
	// TimeFormat labels time-axis ticks.
	TimeFormat string
}

// NewGoChartRenderer returns a go-chart renderer with the default size.
func NewGoChartRenderer(format Format) *GoChartRenderer {
	return &GoChartRenderer{
		format:     format,
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		TimeFormat: "02 Jan",
	}
}

// Format returns the output image format.
func (r *GoChartRenderer) Format() Format {
	return r.format
}

func seriesStyle(c drawing.Color) chart.Style {
	return chart.Style{
		StrokeColor: c,
		StrokeWidth: 2,
		DotColor:    c,
		DotWidth:    3,
	}
}

// Render draws each series as a line. go-chart cannot leave gaps inside a
// series, so absent points are dropped and the line joins their neighbours.
func (r *GoChartRenderer) Render(w io.Writer, c *dashboard.Chart) error {
	if c.Empty() {
		return ErrEmptyChart
	}

	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	var series []chart.Series
	for _, s := range c.Series {
		col, err := ParseColor(s.Color)
		if err != nil {
			return err
		}
		style := seriesStyle(drawing.Color{R: col.R, G: col.G, B: col.B, A: col.A})

		var xs, ys []float64
		for _, p := range s.Points {
			if p.Absent {
				continue
			}
			xs = append(xs, p.X)
			ys = append(ys, p.Y)
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
			minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
		}
		if len(xs) == 0 {
			continue
		}

		if c.Axis == dashboard.AxisTime {
			times := make([]time.Time, len(xs))
			for i, x := range xs {
				times[i] = time.Unix(int64(x), 0).UTC()
			}
			series = append(series, chart.TimeSeries{Name: s.Label, XValues: times, YValues: ys, Style: style})
		} else {
			series = append(series, chart.ContinuousSeries{Name: s.Label, XValues: xs, YValues: ys, Style: style})
		}
	}

	if maxY <= minY {
		minY, maxY = minY-1, maxY+1
	}
	ch := chart.Chart{
		Title:      c.Title,
		Width:      r.Width,
		Height:     r.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		YAxis: chart.YAxis{
			Name:  c.YLabel,
			Range: &chart.ContinuousRange{Min: minY, Max: maxY},
		},
		Series: series,
	}

	if c.Axis == dashboard.AxisTime {
		// TimeSeries x values are Unix nanoseconds.
		lo := chart.TimeToFloat64(time.Unix(int64(minX), 0))
		hi := chart.TimeToFloat64(time.Unix(int64(maxX), 0))
		if hi <= lo {
			day := float64(24 * time.Hour)
			lo, hi = lo-day, hi+day
		}
		ch.XAxis = chart.XAxis{
			Name:           c.XLabel,
			ValueFormatter: chart.TimeValueFormatterWithFormat(r.TimeFormat),
			Range:          &chart.ContinuousRange{Min: lo, Max: hi},
		}
	} else {
		ticks := make([]chart.Tick, len(c.Ticks))
		for i, label := range c.Ticks {
			ticks[i] = chart.Tick{Value: float64(i), Label: label}
		}
		hi := float64(len(c.Ticks)) - 0.5
		if hi <= maxX {
			hi = maxX + 0.5
		}
		ch.XAxis = chart.XAxis{
			Name:  c.XLabel,
			Ticks: ticks,
			Range: &chart.ContinuousRange{Min: math.Min(-0.5, minX-0.5), Max: hi},
		}
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	provider := chart.PNG
	if r.format == FormatSVG {
		provider = chart.SVG
	}
	return ch.Render(provider, w)
}
