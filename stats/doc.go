// Package stats detects outliers in benchmark trend series.
//
// # Interquartile Range Fences
//
// Fences are placed at 1.5 and 3 interquartile ranges beyond the first
// and third quartiles:
//
//	q := stats.Quartiles(series.Values())
//	fences := stats.Fences(q.Q1, q.Q3)
//	severity := fences.Classify(12.5)
//
// # Outliers
//
// FindOutliers ignores missing samples and reports each outlying sample with
// its run date and release name:
//
//	for _, o := range stats.FindOutliers(series) {
//	    fmt.Printf("%s %s %.3f (%s)\n", o.Date, o.Release, o.Value, o.Severity)
//	}
//
// Values between an inner and an outer fence are mild outliers; values
// beyond an outer fence are extreme. Fewer than four present values never
// produce outliers.
package stats
