package timeseries

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"
)

// DateFormat is the compact date layout carried in sample metadata.
const DateFormat = "20060102"

// Sample is one dated measurement of a series.
type Sample struct {
	Year    int
	Month   int // 1-12
	Day     int // 1-31
	Value   float64
	Missing bool     // Set when the source value was the "null" sentinel
	Meta    []string // Optional metadata, e.g. run date and release name
}

// NewSample creates a present sample for the calendar date of t.
func NewSample(t time.Time, value float64, meta ...string) Sample {
	return Sample{
		Year:  t.Year(),
		Month: int(t.Month()),
		Day:   t.Day(),
		Value: value,
		Meta:  meta,
	}
}

// NewMissingSample creates a sample whose value is absent.
func NewMissingSample(t time.Time, meta ...string) Sample {
	s := NewSample(t, 0, meta...)
	s.Missing = true
	return s
}

// Date returns the sample's calendar date at UTC midnight.
func (s Sample) Date() (time.Time, error) {
	t := time.Date(s.Year, time.Month(s.Month), s.Day, 0, 0, 0, 0, time.UTC)
	if t.Year() != s.Year || int(t.Month()) != s.Month || t.Day() != s.Day {
		return time.Time{}, fmt.Errorf("%w: %04d-%02d-%02d", ErrInvalidDate, s.Year, s.Month, s.Day)
	}
	return t, nil
}

// Series represents an ordered sequence of dated samples.
type Series struct {
	Name    string
	Samples []Sample
}

// New creates a new series from samples.
func New(name string, samples []Sample) *Series {
	return &Series{
		Name:    name,
		Samples: samples,
	}
}

// NewFromValues creates a series of consecutive daily samples starting at start.
func NewFromValues(name string, start time.Time, values []float64) *Series {
	samples := make([]Sample, len(values))
	for i, v := range values {
		samples[i] = NewSample(start.AddDate(0, 0, i), v)
	}
	return New(name, samples)
}

// Append adds a sample to the end of the series.
func (s *Series) Append(sample Sample) {
	s.Samples = append(s.Samples, sample)
}

// Len returns the length of the series, missing samples included.
func (s *Series) Len() int {
	return len(s.Samples)
}

// Present returns the number of samples that carry a value.
func (s *Series) Present() int {
	n := 0
	for _, sm := range s.Samples {
		if !sm.Missing {
			n++
		}
	}
	return n
}

// Values returns the present values in order.
func (s *Series) Values() []float64 {
	values := make([]float64, 0, len(s.Samples))
	for _, sm := range s.Samples {
		if !sm.Missing {
			values = append(values, sm.Value)
		}
	}
	return values
}

// Mean calculates the arithmetic mean of the present values.
func (s *Series) Mean() float64 {
	values := s.Values()
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Min returns the minimum present value.
func (s *Series) Min() float64 {
	values := s.Values()
	if len(values) == 0 {
		return math.NaN()
	}
	min := values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
	}
	return min
}

// Max returns the maximum present value.
func (s *Series) Max() float64 {
	values := s.Values()
	if len(values) == 0 {
		return math.NaN()
	}
	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

// Median returns the median present value.
func (s *Series) Median() float64 {
	sorted := s.Values()
	if len(sorted) == 0 {
		return math.NaN()
	}
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// Validate checks every sample for a real calendar date and a finite value.
func (s *Series) Validate() error {
	var errs []error
	for i, sm := range s.Samples {
		if _, err := sm.Date(); err != nil {
			errs = append(errs, fmt.Errorf("sample %d: %w", i, err))
			continue
		}
		if !sm.Missing && (math.IsNaN(sm.Value) || math.IsInf(sm.Value, 0)) {
			errs = append(errs, fmt.Errorf("sample %d: %w: %v", i, ErrInvalidValue, sm.Value))
		}
	}
	return errors.Join(errs...)
}
