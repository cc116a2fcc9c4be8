// Package main demonstrates the dashboard pipeline on synthetic nightly
// benchmark runs: scan, chart, render with both backends, and detect outliers.
package main

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sartorproj/perfdash/alert"
	"github.com/sartorproj/perfdash/benchmark"
	"github.com/sartorproj/perfdash/dashboard"
	"github.com/sartorproj/perfdash/release"
	"github.com/sartorproj/perfdash/render"
)

const (
	days           = 30
	currentRelease = "release-1.7"
	regressionDay  = 24 // Day index on which the master build gets slower
)

// Mode describes one synthetic telemetry mode.
type Mode struct {
	Suffix string  // Labels suffix
	P90    float64 // p90 latency at 16 connections in microseconds
	CPU    float64 // Proxy millicores at 1000 QPS
}

var modes = []Mode{
	{Suffix: "_none_mtls_baseline", P90: 1200, CPU: 50},
	{Suffix: "_none_mtls_both", P90: 4400, CPU: 620},
	{Suffix: "_v2-stats-nullvm_both", P90: 5100, CPU: 710},
	{Suffix: "_v2-stats-wasm_both", P90: 6300, CPU: 880},
}

// ChartResult summarizes one rendered chart for JSON export.
type ChartResult struct {
	ID      string            `json:"id"`
	Kind    dashboard.Kind    `json:"kind"`
	Series  int               `json:"series"`
	Present map[string]int    `json:"present"`
	Files   map[string]string `json:"files"`
}

// OutputData holds all results of the demo run.
type OutputData struct {
	Runs   int           `json:"runs"`
	Charts []ChartResult `json:"charts"`
	Alerts []alert.Alert `json:"alerts"`
}

func main() {
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println("perfdash demonstration - synthetic nightly benchmark runs")
	fmt.Println(strings.Repeat("=", 80))

	log := logrus.New()
	log.SetLevel(logrus.WarnLevel)

	dataDir, err := os.MkdirTemp("", "perfdash-demo-")
	if err != nil {
		fmt.Printf("   Error creating data directory: %v\n", err)
		os.Exit(1)
	}
	defer os.RemoveAll(dataDir)

	now := time.Now().UTC()
	if err := generate(dataDir, now, rand.New(rand.NewSource(7))); err != nil {
		fmt.Printf("   Error generating runs: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\nData directory: %s\n", dataDir)

	runs, err := release.Scan(dataDir, &release.ScanOptions{
		CurrentRelease: currentRelease,
		Window:         release.Window(now, days),
	})
	if err != nil {
		fmt.Printf("   Error scanning runs: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("   Scanned %d release and %d master runs\n", len(runs.Release), len(runs.Master))

	cfg := demoConfig()
	builder := dashboard.NewBuilder(release.NewDataset(runs, log), log)
	charts := builder.BuildAll(cfg)

	output := OutputData{Runs: runs.Len()}
	outDir := "demo_charts"
	for i, c := range charts {
		fmt.Printf("\n%s\n[%d/%d] %s\n%s\n", strings.Repeat("=", 80), i+1, len(charts), c.Title, strings.Repeat("=", 80))
		output.Charts = append(output.Charts, renderChart(outDir, c))
	}

	fmt.Printf("\n%s\nOUTLIERS (master)\n%s\n", strings.Repeat("=", 80), strings.Repeat("=", 80))
	alerts, err := builder.Alerts(cfg, release.EnvMaster, "")
	if err != nil {
		fmt.Printf("   Error detecting outliers: %v\n", err)
	}
	alert.WriteTable(os.Stdout, alerts)
	output.Alerts = alerts

	if data, err := json.MarshalIndent(output, "", "  "); err == nil {
		os.WriteFile(filepath.Join(outDir, "results.json"), data, 0644)
		fmt.Printf("\nExported %d charts to %s\n", len(output.Charts), outDir)
	}
	fmt.Println(strings.Repeat("=", 80))
}

// generate writes one master and one release run per day. Every fifth
// release night is skipped and the master build regresses on regressionDay.
func generate(dir string, now time.Time, rng *rand.Rand) error {
	start := now.AddDate(0, 0, -(days - 1))
	for d := 0; d < days; d++ {
		date := start.AddDate(0, 0, d).Format("20060102")
		sha := fmt.Sprintf("%07x", rng.Int63n(1<<28))

		slow := 1.0
		if d == regressionDay {
			slow = 1.6
		}
		if err := writeRun(dir, date+"_fortio_master_1.7-alpha."+sha, slow, rng); err != nil {
			return err
		}
		if d%5 == 4 {
			continue
		}
		if err := writeRun(dir, date+"_fortio_release-1.7_1.7.0."+sha, 1.0, rng); err != nil {
			return err
		}
	}
	return nil
}

func writeRun(dir, id string, slow float64, rng *rand.Rand) error {
	var b strings.Builder
	b.WriteString(strings.Join([]string{
		benchmark.ColumnLabels, benchmark.ColumnNumThreads, benchmark.ColumnActualQPS,
		benchmark.ColumnP50, benchmark.ColumnP90, benchmark.ColumnP99, benchmark.ColumnServerProxyCPU,
	}, ","))
	b.WriteByte('\n')

	row := func(m Mode, threads, qps float64) {
		// Latency grows with the square root of the connection count.
		load := math.Sqrt(threads / benchmark.DefaultFixedThreads)
		jitter := 1 + 0.03*rng.NormFloat64()
		base := m.P90 * load * jitter
		if !strings.HasSuffix(m.Suffix, "_baseline") {
			base *= slow
		}
		fmt.Fprintf(&b, "%s%s,%d,%d,%.0f,%.0f,%.0f,%.1f\n",
			id, m.Suffix, int(threads), int(qps),
			base*0.7, base, base*1.5, m.CPU*qps/benchmark.DefaultFixedQPS*jitter)
	}
	for _, m := range modes {
		for _, c := range benchmark.DefaultConnections {
			row(m, c, benchmark.DefaultFixedQPS)
		}
		for _, q := range benchmark.DefaultQPS {
			if q != benchmark.DefaultFixedQPS {
				row(m, benchmark.DefaultFixedThreads, q)
			}
		}
	}
	return os.WriteFile(filepath.Join(dir, id+release.BenchmarkSuffix), []byte(b.String()), 0644)
}

func demoConfig() *dashboard.Config {
	series := func(suffixes ...string) []dashboard.SeriesSpec {
		out := make([]dashboard.SeriesSpec, len(suffixes))
		for i, s := range suffixes {
			out[i] = dashboard.SeriesSpec{Mode: s}
		}
		return out
	}
	all := series(modes[0].Suffix, modes[1].Suffix, modes[2].Suffix, modes[3].Suffix)
	noBase := series(modes[1].Suffix, modes[2].Suffix, modes[3].Suffix)

	yaml := fmt.Sprintf(`charts:
  - {id: demo-latency-p90-release, kind: sweep, percentile: p90, environment: release, series: %[1]s}
  - {id: demo-cpu-release, kind: sweep, metric: cpu, environment: release, series: %[1]s}
  - {id: demo-trend-p90-release, kind: trend, percentile: p90, environment: release, series: %[2]s}
  - {id: demo-pattern-p90-master, kind: pattern, percentile: p90, environment: master, baseline: %[3]s, series: %[2]s}
  - {id: demo-regression-p90-master, kind: regression, percentile: p90, environment: master, baseline: %[3]s, series: %[2]s}
`, flow(all), flow(noBase), modes[0].Suffix)

	cfg, err := dashboard.ParseConfig(strings.NewReader(yaml))
	if err != nil {
		panic(err)
	}
	return cfg
}

// flow formats series specs as a YAML flow sequence.
func flow(specs []dashboard.SeriesSpec) string {
	parts := make([]string, len(specs))
	for i, s := range specs {
		parts[i] = fmt.Sprintf("{mode: %q}", s.Mode)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// renderChart draws a chart with every backend.
func renderChart(outDir string, c *dashboard.Chart) ChartResult {
	res := ChartResult{
		ID:      c.ID,
		Kind:    c.Kind,
		Series:  len(c.Series),
		Present: make(map[string]int, len(c.Series)),
		Files:   make(map[string]string),
	}
	for _, s := range c.Series {
		res.Present[s.Label] = s.Present()
		fmt.Printf("   %-28s %d/%d points\n", s.Label, s.Present(), len(s.Points))
	}

	for _, backend := range []string{render.BackendPlot, render.BackendGoChart} {
		dir := filepath.Join(outDir, backend)
		if err := os.MkdirAll(dir, 0755); err != nil {
			fmt.Printf("   Error: %v\n", err)
			continue
		}
		r, err := render.New(backend, string(render.FormatPNG))
		if err != nil {
			fmt.Printf("   Error: %v\n", err)
			continue
		}
		path, err := render.WriteFile(r, dir, c)
		if err != nil {
			fmt.Printf("   %-8s failed: %v\n", backend, err)
			continue
		}
		res.Files[backend] = path
		fmt.Printf("   %-8s -> %s\n", backend, path)
	}
	return res
}
