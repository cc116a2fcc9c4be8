package release

import (
	"errors"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/sartorproj/perfdash/benchmark"
	"github.com/sartorproj/perfdash/timeseries"
)

// ErrNoRuns is returned when an environment has no runs to answer a query.
var ErrNoRuns = errors.New("release: no benchmark runs")

// TrendQuery selects the benchmark row that feeds a trend sample.
type TrendQuery struct {
	QPS     float64
	Threads int
	// Scale multiplies every value; latencies are recorded in microseconds
	// and charted in milliseconds.
	Scale float64
}

// DefaultTrendQuery returns the nightly trend point: 1000 QPS, 16
// connections, microseconds to milliseconds.
func DefaultTrendQuery() TrendQuery {
	return TrendQuery{
		QPS:     benchmark.DefaultFixedQPS,
		Threads: benchmark.DefaultFixedThreads,
		Scale:   1.0 / 1000,
	}
}

// Dataset answers trend and sweep queries over scanned runs. Each run's
// benchmark table is read at most once.
type Dataset struct {
	runs   Runs
	log    logrus.FieldLogger
	tables map[string]*benchmark.Table
	load   func(path string) (*benchmark.Table, error)
}

// NewDataset creates a dataset over runs.
func NewDataset(runs Runs, log logrus.FieldLogger) *Dataset {
	return &Dataset{
		runs:   runs,
		log:    log.WithField("component", "dataset"),
		tables: make(map[string]*benchmark.Table),
		load:   benchmark.LoadFile,
	}
}

// Runs returns the runs of an environment.
func (d *Dataset) Runs(env Environment) []Run {
	return d.runs.Get(env)
}

// Latest returns the most recent run of an environment.
func (d *Dataset) Latest(env Environment) (Run, error) {
	runs := d.runs.Get(env)
	if len(runs) == 0 {
		return Run{}, fmt.Errorf("%w: %s", ErrNoRuns, env)
	}
	return runs[len(runs)-1], nil
}

// Table returns the benchmark table of a run.
func (d *Dataset) Table(run Run) (*benchmark.Table, error) {
	if t, ok := d.tables[run.Path]; ok {
		return t, nil
	}
	t, err := d.load(run.Path)
	if err != nil {
		return nil, err
	}
	d.tables[run.Path] = t
	return t, nil
}

// TrendSeries returns one sample per run of env: column of the row labelled
// with mode at the query's QPS and connection count. Samples carry the run
// date and release name as metadata. A run whose table cannot be read, or
// that has no matching row, contributes a missing sample.
func (d *Dataset) TrendSeries(env Environment, mode, column string, q TrendQuery) (*timeseries.Series, error) {
	if q.Scale == 0 {
		q.Scale = 1
	}
	runs := d.runs.Get(env)
	series := &timeseries.Series{
		Name:    mode,
		Samples: make([]timeseries.Sample, 0, len(runs)),
	}

	for _, run := range runs {
		meta := []string{run.DateString(), run.Release}

		table, err := d.Table(run)
		if err != nil {
			d.log.WithFields(logrus.Fields{
				"run":   run.ID,
				"file":  run.Path,
				"error": err,
			}).Warn("Failed to read benchmark table")
			series.Append(timeseries.NewMissingSample(run.Date, meta...))
			continue
		}

		v, ok, err := table.Value(benchmark.Query{
			QPS:         q.QPS,
			Threads:     q.Threads,
			LabelSuffix: mode,
			Column:      column,
		})
		if err != nil {
			return nil, fmt.Errorf("run %s: %w", run.ID, err)
		}
		if !ok {
			series.Append(timeseries.NewMissingSample(run.Date, meta...))
			continue
		}
		series.Append(timeseries.NewSample(run.Date, roundScaled(v*q.Scale), meta...))
	}

	d.log.WithFields(logrus.Fields{
		"environment": env,
		"mode":        mode,
		"column":      column,
		"samples":     series.Len(),
		"present":     series.Present(),
	}).Debug("Built trend series")
	return series, nil
}

// Sweep returns a parameter sweep from the latest run of env.
func (d *Dataset) Sweep(env Environment, mode, column string, s benchmark.Sweep) ([]benchmark.SweepPoint, error) {
	run, err := d.Latest(env)
	if err != nil {
		return nil, err
	}
	table, err := d.Table(run)
	if err != nil {
		return nil, err
	}
	return table.Sweep(mode, column, s)
}

// roundScaled drops float noise introduced by scaling, e.g. 4478*0.001.
func roundScaled(v float64) float64 {
	const p = 1e9
	return math.Round(v*p) / p
}
