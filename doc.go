// Package perfdash builds the nightly benchmark performance dashboard.
//
// Every night a load generator drives the service mesh at a sweep of
// connection counts and request rates, once per telemetry mode, and
// writes one benchmark CSV per run. perfdash scans those files, turns
// them into charts and flags nights whose latency falls outside the
// usual range.
//
// # Packages
//
//   - record: header-keyed and fixed-schema CSV records
//   - timeseries: dated series with missing samples, deltas against a baseline
//   - benchmark: benchmark tables, row queries and parameter sweeps
//   - release: run IDs, run discovery, data pruning and the run dataset
//   - stats: quartiles and outlier fences
//   - alert: outliers mapped back to commits
//   - dashboard: YAML chart definitions and chart building
//   - render: PNG and SVG output through gonum/plot or go-chart
//   - config: environment configuration
//
// # Quick Start
//
// Render every chart of a dashboard:
//
//	runs, _ := release.Scan("perf_data", &release.ScanOptions{
//		CurrentRelease: "release-1.7",
//		Window:         release.Window(time.Now(), 60),
//	})
//	cfg, _ := dashboard.LoadConfig("dashboard.yaml")
//	charts := dashboard.NewBuilder(release.NewDataset(runs, log), log).BuildAll(cfg)
//	r, _ := render.New(render.BackendPlot, "png")
//	for _, c := range charts {
//		render.WriteFile(r, "charts", c)
//	}
//
// List latency outliers on master:
//
//	alerts, _ := builder.Alerts(cfg, release.EnvMaster, "p90")
//	alert.WriteTable(os.Stdout, alerts)
//
// The perfdash command in cmd/perfdash wraps these steps.
package perfdash
