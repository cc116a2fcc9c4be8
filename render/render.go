package render

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sartorproj/perfdash/dashboard"
)

var (
	// ErrUnknownBackend is returned by New for an unsupported backend name.
	ErrUnknownBackend = errors.New("render: unknown backend")
	// ErrUnknownFormat is returned for image formats other than png and svg.
	ErrUnknownFormat = errors.New("render: unknown format")
	// ErrEmptyChart is returned when a chart has no present point to draw.
	ErrEmptyChart = errors.New("render: chart has no data")
)

// Backend names.
const (
	BackendPlot    = "gonum"
	BackendGoChart = "gochart"
)

// Format is an output image format.
type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

// ParseFormat parses an image format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatPNG, FormatSVG:
		return Format(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Default image size in pixels.
const (
	DefaultWidth  = 800
	DefaultHeight = 450
)

// Renderer draws a chart as an image.
type Renderer interface {
	Render(w io.Writer, c *dashboard.Chart) error
	Format() Format
}

// New returns the renderer for a backend and format.
func New(backend, format string) (Renderer, error) {
	f, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}
	switch backend {
	case BackendPlot:
		return NewPlotRenderer(f), nil
	case BackendGoChart:
		return NewGoChartRenderer(f), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
}

// WriteFile renders c into dir as <chart id>.<format> and returns the path.
func WriteFile(r Renderer, dir string, c *dashboard.Chart) (path string, err error) {
	name := filepath.Join(dir, c.ID+"."+string(r.Format()))
	f, err := os.Create(name)
	if err != nil {
		return "", err
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
		if err != nil {
			os.Remove(name)
			path = ""
		}
	}()

	if err := r.Render(f, c); err != nil {
		return "", fmt.Errorf("chart %s: %w", c.ID, err)
	}
	return name, nil
}

// segments splits points at absent entries into runs of present points.
func segments(points []dashboard.Point) [][]dashboard.Point {
	var out [][]dashboard.Point
	var cur []dashboard.Point
	for _, p := range points {
		if p.Absent {
			if len(cur) > 0 {
				out = append(out, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, p)
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}
