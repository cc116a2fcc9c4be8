package stats

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/sartorproj/perfdash/timeseries"
)

// Fence multipliers of the interquartile range.
const (
	InnerFence = 1.5
	OuterFence = 3.0
)

// MinOutlierSamples is the smallest number of present values that can
// produce outliers.
const MinOutlierSamples = 4

// Severity classifies how far a value lies outside the fences.
type Severity int

const (
	// None is a value inside the inner fences.
	None Severity = iota
	// Mild is a value beyond an inner fence but not beyond the outer fence.
	Mild
	// Extreme is a value beyond an outer fence.
	Extreme
)

func (s Severity) String() string {
	switch s {
	case Mild:
		return "mild"
	case Extreme:
		return "extreme"
	default:
		return "none"
	}
}

// QuartileResult holds the first and third quartiles of a sample.
type QuartileResult struct {
	Q1  float64
	Q3  float64
	IQR float64
}

// Quartiles returns the empirical first and third quartiles of values.
// values is not modified. An empty input yields zero quartiles.
func Quartiles(values []float64) QuartileResult {
	if len(values) == 0 {
		return QuartileResult{}
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	q1 := stat.Quantile(0.25, stat.Empirical, sorted, nil)
	q3 := stat.Quantile(0.75, stat.Empirical, sorted, nil)
	return QuartileResult{Q1: q1, Q3: q3, IQR: q3 - q1}
}

// FenceSet holds the inner and outer fences.
type FenceSet struct {
	LowerInner float64
	UpperInner float64
	LowerOuter float64
	UpperOuter float64
}

// Fences computes the fences for the quartiles q1 and q3.
func Fences(q1, q3 float64) FenceSet {
	iqr := q3 - q1
	return FenceSet{
		LowerInner: q1 - InnerFence*iqr,
		UpperInner: q3 + InnerFence*iqr,
		LowerOuter: q1 - OuterFence*iqr,
		UpperOuter: q3 + OuterFence*iqr,
	}
}

// Classify returns the severity of v. Fences are exclusive: a value on an
// inner fence is None and a value on an outer fence is Mild.
func (f FenceSet) Classify(v float64) Severity {
	switch {
	case v > f.UpperOuter || v < f.LowerOuter:
		return Extreme
	case v > f.UpperInner || v < f.LowerInner:
		return Mild
	default:
		return None
	}
}

// Outlier is one outlying sample of a series.
type Outlier struct {
	Index    int // Position in the series
	Value    float64
	Date     string // yyyymmdd
	Release  string
	Severity Severity
}

// FindOutliers returns the outliers among the present samples of series,
// mild outliers first and then extreme ones, each ascending by value.
//
// Sample metadata is read as [date, release]; without it the date comes
// from the sample itself.
func FindOutliers(series *timeseries.Series) []Outlier {
	values := series.Values()
	if len(values) < MinOutlierSamples {
		return nil
	}
	q := Quartiles(values)
	fences := Fences(q.Q1, q.Q3)

	var mild, extreme []Outlier
	for i, sm := range series.Samples {
		if sm.Missing {
			continue
		}
		sev := fences.Classify(sm.Value)
		if sev == None {
			continue
		}
		o := Outlier{Index: i, Value: sm.Value, Severity: sev}
		if len(sm.Meta) > 0 {
			o.Date = sm.Meta[0]
		} else if d, err := sm.Date(); err == nil {
			o.Date = d.Format(timeseries.DateFormat)
		}
		if len(sm.Meta) > 1 {
			o.Release = sm.Meta[1]
		}
		if sev == Mild {
			mild = append(mild, o)
		} else {
			extreme = append(extreme, o)
		}
	}

	byValue := func(out []Outlier) {
		sort.SliceStable(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	}
	byValue(mild)
	byValue(extreme)
	return append(mild, extreme...)
}
