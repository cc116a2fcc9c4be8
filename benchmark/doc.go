// Package benchmark reads fortio benchmark result tables and extracts
// parameter sweeps from them.
//
// A benchmark CSV has one row per load-test run, keyed by the header row:
//
//	table, err := benchmark.LoadFile("20200525_fortio_master_1.7-alpha.d0e07f6_benchmark.csv")
//
// Rows are selected by QPS, connection count and the telemetry mode suffix
// of the Labels column:
//
//	v, ok, err := table.Value(benchmark.Query{
//	    QPS:         1000,
//	    Threads:     16,
//	    LabelSuffix: "_none_mtls_both",
//	    Column:      benchmark.ColumnP90,
//	})
//
// A sweep walks one parameter and keeps the other fixed:
//
//	points, err := table.Sweep("_none_mtls_both", benchmark.ColumnP90, benchmark.LatencySweep())
package benchmark
