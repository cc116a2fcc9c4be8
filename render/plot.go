package render

import (
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/sartorproj/perfdash/dashboard"
)

// PlotRenderer draws charts with gonum/plot.
type PlotRenderer struct {
	format Format
	Width  vg.Length
	Height vg.Length
	// TimeFormat labels time-axis ticks.
	TimeFormat string
}

// NewPlotRenderer returns a gonum/plot renderer with the default size.
func NewPlotRenderer(format Format) *PlotRenderer {
	return &PlotRenderer{
		format:     format,
		Width:      vg.Length(DefaultWidth) * vg.Inch / 96,
		Height:     vg.Length(DefaultHeight) * vg.Inch / 96,
		TimeFormat: "02 Jan",
	}
}

// Format returns the output image format.
func (r *PlotRenderer) Format() Format {
	return r.format
}

// Render draws each series as a line with square markers. Absent points
// split the line.
func (r *PlotRenderer) Render(w io.Writer, c *dashboard.Chart) error {
	if c.Empty() {
		return ErrEmptyChart
	}

	p := plot.New()
	p.Title.Text = c.Title
	p.X.Label.Text = c.XLabel
	p.Y.Label.Text = c.YLabel
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	for _, s := range c.Series {
		col, err := ParseColor(s.Color)
		if err != nil {
			return err
		}
		inLegend := false
		for _, seg := range segments(s.Points) {
			xys := make(plotter.XYs, len(seg))
			for i, pt := range seg {
				xys[i].X = pt.X
				xys[i].Y = pt.Y
			}
			line, points, err := plotter.NewLinePoints(xys)
			if err != nil {
				return err
			}
			line.Color = col
			line.Width = vg.Points(1.5)
			points.Color = col
			points.Shape = draw.SquareGlyph{}
			points.Radius = vg.Points(2.5)
			p.Add(line, points)
			if !inLegend {
				p.Legend.Add(s.Label, line, points)
				inLegend = true
			}
		}
	}

	switch {
	case c.Axis == dashboard.AxisCategory && len(c.Ticks) > 0:
		ticks := make([]plot.Tick, len(c.Ticks))
		for i, label := range c.Ticks {
			ticks[i] = plot.Tick{Value: float64(i), Label: label}
		}
		p.X.Min = -0.5
		p.X.Max = float64(len(c.Ticks)) - 0.5
		p.X.Tick.Marker = plot.ConstantTicks(ticks)
	case c.Axis == dashboard.AxisTime:
		p.X.Tick.Marker = plot.TimeTicks{Format: r.TimeFormat}
	}

	wt, err := p.WriterTo(r.Width, r.Height, string(r.format))
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}
