package benchmark

import (
	"errors"
	"fmt"
	"strconv"
)

// Axis is the parameter a sweep walks.
type Axis string

const (
	// AxisConnections walks the connection count at fixed QPS.
	AxisConnections Axis = "connections"
	// AxisQPS walks the request rate at a fixed connection count.
	AxisQPS Axis = "qps"
)

// Default sweep steps and fixed parameters of the nightly benchmark matrix.
var (
	DefaultConnections = []float64{2, 4, 8, 16, 32, 64}
	DefaultQPS         = []float64{10, 100, 500, 1000, 2000, 3000}
)

const (
	DefaultFixedQPS     = 1000
	DefaultFixedThreads = 16
)

// ErrUnknownAxis is returned for an axis other than connections or qps.
var ErrUnknownAxis = errors.New("benchmark: unknown sweep axis")

// ParseAxis parses a sweep axis name.
func ParseAxis(s string) (Axis, error) {
	switch Axis(s) {
	case AxisConnections, AxisQPS:
		return Axis(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAxis, s)
}

// Sweep describes one parameter sweep.
type Sweep struct {
	Axis  Axis
	Steps []float64
	// Fixed is the QPS for a connections sweep or the connection count for a QPS sweep.
	Fixed float64
}

// LatencySweep walks connections at 1000 QPS.
func LatencySweep() Sweep {
	return Sweep{Axis: AxisConnections, Steps: DefaultConnections, Fixed: DefaultFixedQPS}
}

// ResourceSweep walks QPS at 16 connections.
func ResourceSweep() Sweep {
	return Sweep{Axis: AxisQPS, Steps: DefaultQPS, Fixed: DefaultFixedThreads}
}

// Validate checks the axis and that connection counts are whole numbers.
func (s Sweep) Validate() error {
	if _, err := ParseAxis(string(s.Axis)); err != nil {
		return err
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("benchmark: %s sweep has no steps", s.Axis)
	}
	threads := s.Steps
	if s.Axis == AxisQPS {
		threads = []float64{s.Fixed}
	}
	for _, n := range threads {
		if n != float64(int(n)) || n <= 0 {
			return fmt.Errorf("benchmark: connection count %v is not a positive integer", n)
		}
	}
	return nil
}

// Labels returns the category tick labels of the sweep steps.
func (s Sweep) Labels() []string {
	out := make([]string, len(s.Steps))
	for i, v := range s.Steps {
		out[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return out
}

// Query returns the row query for step i.
func (s Sweep) Query(i int, suffix, column string) Query {
	q := Query{LabelSuffix: suffix, Column: column}
	if s.Axis == AxisQPS {
		q.QPS, q.Threads = s.Steps[i], int(s.Fixed)
	} else {
		q.QPS, q.Threads = s.Fixed, int(s.Steps[i])
	}
	return q
}

// SweepPoint is one step of a sweep.
type SweepPoint struct {
	Step   float64
	Value  float64
	Absent bool
}

// Sweep extracts column for the rows labelled with suffix at every step of s.
// Steps without a matching row are absent.
func (t *Table) Sweep(suffix, column string, s Sweep) ([]SweepPoint, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	points := make([]SweepPoint, len(s.Steps))
	for i, step := range s.Steps {
		points[i].Step = step
		v, ok, err := t.Value(s.Query(i, suffix, column))
		if err != nil {
			return nil, err
		}
		if !ok {
			points[i].Absent = true
			continue
		}
		points[i].Value = v
	}
	return points, nil
}
