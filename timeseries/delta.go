package timeseries

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	// ErrBaselineTooShort is returned when the baseline has fewer samples than the series.
	ErrBaselineTooShort = errors.New("timeseries: baseline shorter than series")
	// ErrMissingBaseline is returned when a present value has no baseline value to subtract.
	ErrMissingBaseline = errors.New("timeseries: baseline value missing")
	// ErrInvalidDate is returned for impossible calendar dates.
	ErrInvalidDate = errors.New("timeseries: invalid calendar date")
	// ErrInvalidValue is returned for non-numeric or non-finite values.
	ErrInvalidValue = errors.New("timeseries: value is not numeric")
)

// Point is one chart point. Absent points have no value and are drawn as gaps.
type Point struct {
	Date   time.Time
	Value  float64
	Absent bool
}

// DeltaOptions holds options for the delta transform.
type DeltaOptions struct {
	// ClampNegative emits an absent point for deltas below zero. Regression
	// charts treat an improvement over the baseline as no signal.
	ClampNegative bool
	// TolerateMissingBaseline emits an absent point instead of failing when
	// the baseline sample at the same index is missing.
	TolerateMissingBaseline bool
}

// Delta pairs each sample of series with the baseline sample at the same
// index and returns (date, value-baseline) points. Missing samples become
// absent points.
func Delta(series, baseline *Series) ([]Point, error) {
	return DeltaWithOptions(series, baseline, nil)
}

// RegressionDelta is Delta with negative deltas clamped to absent.
func RegressionDelta(series, baseline *Series) ([]Point, error) {
	return DeltaWithOptions(series, baseline, &DeltaOptions{ClampNegative: true})
}

// DeltaWithOptions is the parameterized form of Delta.
//
// Samples are matched by position, not by date. The baseline may be longer
// than the series; the output always has len(series.Samples) points.
func DeltaWithOptions(series, baseline *Series, opts *DeltaOptions) ([]Point, error) {
	if opts == nil {
		opts = &DeltaOptions{}
	}
	if baseline.Len() < series.Len() {
		return nil, fmt.Errorf("%w: %d < %d", ErrBaselineTooShort, baseline.Len(), series.Len())
	}

	points := make([]Point, series.Len())
	for i, sm := range series.Samples {
		date, err := sm.Date()
		if err != nil {
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}
		points[i].Date = date

		if sm.Missing {
			points[i].Absent = true
			continue
		}
		if !finite(sm.Value) {
			return nil, fmt.Errorf("sample %d: %w: %v", i, ErrInvalidValue, sm.Value)
		}

		base := baseline.Samples[i]
		if base.Missing {
			if opts.TolerateMissingBaseline {
				points[i].Absent = true
				continue
			}
			return nil, fmt.Errorf("sample %d: %w", i, ErrMissingBaseline)
		}
		if !finite(base.Value) {
			return nil, fmt.Errorf("baseline sample %d: %w: %v", i, ErrInvalidValue, base.Value)
		}

		delta := sm.Value - base.Value
		if opts.ClampNegative && delta < 0 {
			points[i].Absent = true
			continue
		}
		points[i].Value = delta
	}
	return points, nil
}

// Trend returns the raw samples of series as chart points.
func Trend(series *Series) ([]Point, error) {
	points := make([]Point, series.Len())
	for i, sm := range series.Samples {
		date, err := sm.Date()
		if err != nil {
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}
		points[i].Date = date
		if sm.Missing {
			points[i].Absent = true
			continue
		}
		if !finite(sm.Value) {
			return nil, fmt.Errorf("sample %d: %w: %v", i, ErrInvalidValue, sm.Value)
		}
		points[i].Value = sm.Value
	}
	return points, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
