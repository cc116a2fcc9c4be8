package dashboard

import (
	"github.com/sartorproj/perfdash/benchmark"
	"github.com/sartorproj/perfdash/timeseries"
)

// AxisKind is the kind of a chart's x axis.
type AxisKind int

const (
	// AxisCategory places points at indices 0..n-1 labelled by Ticks.
	AxisCategory AxisKind = iota
	// AxisTime places points at Unix seconds.
	AxisTime
)

func (a AxisKind) String() string {
	if a == AxisTime {
		return "time"
	}
	return "category"
}

// Point is one chart point. Absent points are drawn as gaps.
type Point struct {
	X      float64
	Y      float64
	Absent bool
}

// SeriesData is one labelled line of a chart.
type SeriesData struct {
	Label  string
	Color  string
	Points []Point
}

// Present returns the number of points with a value.
func (s SeriesData) Present() int {
	n := 0
	for _, p := range s.Points {
		if !p.Absent {
			n++
		}
	}
	return n
}

// Chart is a renderer-independent chart.
type Chart struct {
	ID     string
	Title  string
	XLabel string
	YLabel string
	Kind   Kind
	Axis   AxisKind
	Ticks  []string // Category labels, AxisCategory only
	Series []SeriesData
}

// Empty reports whether no series has a present point.
func (c *Chart) Empty() bool {
	for _, s := range c.Series {
		if s.Present() > 0 {
			return false
		}
	}
	return true
}

// BuildChart assembles a chart from its spec and series data.
func BuildChart(spec ChartSpec, axis AxisKind, ticks []string, series []SeriesData) *Chart {
	title := spec.Title
	if title == "" {
		title = spec.ID
	}
	return &Chart{
		ID:     spec.ID,
		Title:  title,
		XLabel: spec.XLabel,
		YLabel: spec.YLabel,
		Kind:   spec.Kind,
		Axis:   axis,
		Ticks:  ticks,
		Series: series,
	}
}

// TimePoints converts dated points to time-axis chart points.
func TimePoints(points []timeseries.Point) []Point {
	out := make([]Point, len(points))
	for i, p := range points {
		out[i] = Point{
			X:      float64(p.Date.Unix()),
			Y:      p.Value,
			Absent: p.Absent,
		}
	}
	return out
}

// SweepPoints converts sweep steps to category-axis chart points,
// multiplying present values by scale.
func SweepPoints(points []benchmark.SweepPoint, scale float64) []Point {
	out := make([]Point, len(points))
	for i, p := range points {
		out[i] = Point{X: float64(i), Absent: p.Absent}
		if !p.Absent {
			out[i].Y = p.Value * scale
		}
	}
	return out
}
