// Package release discovers nightly benchmark runs in a local data
// directory and turns them into per-mode trend series.
//
// Runs are stored as <id>_benchmark.csv, where the ID is
// <yyyymmdd>_<loadgen>_<branch>_<release>, for example
//
//	20200525_fortio_master_1.7-alpha.d0e07f6e430fd99554ccc3aee3be8a730cd8a226
//
// Scan keeps the runs of the last N days that belong to the current
// release or to master:
//
//	runs, err := release.Scan("perf_data", &release.ScanOptions{
//	    CurrentRelease: "release-1.7",
//	    Window:         release.Window(time.Now(), 60),
//	})
//
// A Dataset loads each run's benchmark table once and answers trend and
// sweep queries for the dashboard.
package release
