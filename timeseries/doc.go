// Package timeseries provides dated benchmark series and the baseline
// delta transform used by trend and regression charts.
//
// # Creating a Series
//
// A series is an ordered list of samples, each a calendar date with a
// value or the "null" missing marker:
//
//	s := timeseries.New("none_mtls_both", []timeseries.Sample{
//	    {Year: 2020, Month: 1, Day: 1, Value: 5.0},
//	    {Year: 2020, Month: 1, Day: 2, Missing: true},
//	})
//
// # Loading from CSV
//
// Series files carry year,month,day,value rows after a header; any extra
// columns are kept as sample metadata:
//
//	series, err := timeseries.LoadCSV("none_mtls_both_p90.csv", nil)
//
// # Deltas against a baseline
//
// Samples are paired with the baseline by index:
//
//	points, err := timeseries.Delta(series, baseline)
//
//	// Regression charts drop improvements over the baseline
//	points, err := timeseries.RegressionDelta(series, baseline)
//
//	// Both, with a gap instead of an error for missing baseline days
//	points, err := timeseries.DeltaWithOptions(series, baseline, &timeseries.DeltaOptions{
//	    ClampNegative:           true,
//	    TolerateMissingBaseline: true,
//	})
//
// A baseline shorter than the series is rejected with ErrBaselineTooShort.
//
// # Basic Statistics
//
// Statistics skip missing samples:
//
//	mean := series.Mean()
//	median := series.Median()
//	min, max := series.Min(), series.Max()
package timeseries
