package release

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/perfdash/benchmark"
	"github.com/sartorproj/perfdash/timeseries"
)

const header = "Labels,NumThreads,ActualQPS,p90,p99\n"

func writeRun(t *testing.T, dir, id, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, id+BenchmarkSuffix), []byte(body), 0o644))
}

func newTestDataset(t *testing.T) (*Dataset, *logtest.Hook) {
	t.Helper()
	dir := t.TempDir()
	writeRun(t, dir, "20200523_fortio_master_1.7-alpha.aaa", header+
		"x_none_mtls_both,16,1000,4478,7100\n"+
		"x_none_mtls_baseline,16,1000,1200,2100\n")
	writeRun(t, dir, "20200524_fortio_master_1.7-alpha.bbb", header+
		"x_none_mtls_baseline,16,1000,1250,2150\n")
	writeRun(t, dir, "20200525_fortio_master_1.7-alpha.ccc", "Labels,p90\n"+
		"x_none_mtls_both,1\n")
	writeRun(t, dir, "20200525_fortio_release-1.7_1.7.0.ddd", header+
		"x_none_mtls_both,2,1000,2300,3400\n"+
		"x_none_mtls_both,16,1000,4100,6900\n")

	runs, err := Scan(dir, &ScanOptions{CurrentRelease: "release-1.7"})
	require.NoError(t, err)

	logger, hook := logtest.NewNullLogger()
	return NewDataset(runs, logger), hook
}

func TestTrendSeries(t *testing.T) {
	ds, hook := newTestDataset(t)

	series, err := ds.TrendSeries(EnvMaster, "_none_mtls_both", benchmark.ColumnP90, DefaultTrendQuery())
	require.NoError(t, err)

	require.Equal(t, 3, series.Len())
	assert.Equal(t, "_none_mtls_both", series.Name)

	assert.Equal(t, 4.478, series.Samples[0].Value)
	assert.False(t, series.Samples[0].Missing)
	assert.Equal(t, []string{"20200523", "1.7-alpha.aaa"}, series.Samples[0].Meta)

	assert.True(t, series.Samples[1].Missing, "no matching row")
	assert.True(t, series.Samples[2].Missing, "unreadable table")
	assert.Equal(t, 25, series.Samples[2].Day)

	require.NotEmpty(t, hook.AllEntries())
	var warned bool
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			warned = true
			assert.Equal(t, "20200525_fortio_master_1.7-alpha.ccc", e.Data["run"])
		}
	}
	assert.True(t, warned)
}

func TestTrendSeriesScale(t *testing.T) {
	ds, _ := newTestDataset(t)

	series, err := ds.TrendSeries(EnvRelease, "_none_mtls_both", benchmark.ColumnP99, TrendQuery{QPS: 1000, Threads: 16})
	require.NoError(t, err)
	require.Equal(t, 1, series.Len())
	assert.Equal(t, 6900.0, series.Samples[0].Value)
}

func TestDatasetSweep(t *testing.T) {
	ds, _ := newTestDataset(t)

	points, err := ds.Sweep(EnvRelease, "_none_mtls_both", benchmark.ColumnP90, benchmark.LatencySweep())
	require.NoError(t, err)
	require.Len(t, points, 6)
	assert.Equal(t, 2300.0, points[0].Value)
	assert.Equal(t, 4100.0, points[3].Value)
	assert.True(t, points[5].Absent)

	latest, err := ds.Latest(EnvMaster)
	require.NoError(t, err)
	assert.Equal(t, "20200525_fortio_master_1.7-alpha.ccc", latest.ID)

	_, err = ds.Sweep(EnvMaster, "_none_mtls_both", benchmark.ColumnP90, benchmark.LatencySweep())
	assert.ErrorIs(t, err, benchmark.ErrMissingColumn)
}

func TestDatasetNoRuns(t *testing.T) {
	ds := NewDataset(Runs{}, logrus.New())

	_, err := ds.Latest(EnvRelease)
	assert.ErrorIs(t, err, ErrNoRuns)

	_, err = ds.Sweep(EnvRelease, "_none_mtls_both", benchmark.ColumnP90, benchmark.LatencySweep())
	assert.ErrorIs(t, err, ErrNoRuns)

	series, err := ds.TrendSeries(EnvRelease, "_none_mtls_both", benchmark.ColumnP90, DefaultTrendQuery())
	require.NoError(t, err)
	assert.Equal(t, 0, series.Len())
}

func TestDatasetCachesTables(t *testing.T) {
	ds, _ := newTestDataset(t)

	loads := 0
	next := ds.load
	ds.load = func(path string) (*benchmark.Table, error) {
		loads++
		return next(path)
	}

	for i := 0; i < 3; i++ {
		_, err := ds.TrendSeries(EnvRelease, "_none_mtls_both", benchmark.ColumnP90, DefaultTrendQuery())
		require.NoError(t, err)
	}
	assert.Equal(t, 1, loads)
}

func TestTrendSeriesNonFiniteCell(t *testing.T) {
	dir := t.TempDir()
	writeRun(t, dir, "20200524_fortio_master_1.7-alpha.aaa", header+
		"x_none_mtls_both,16,1000,NaN,7100\n"+
		"x_none_mtls_baseline,16,1000,1200,2100\n")
	writeRun(t, dir, "20200525_fortio_master_1.7-alpha.bbb", header+
		"x_none_mtls_both,16,1000,4500,7200\n"+
		"x_none_mtls_baseline,16,1000,1250,2150\n")

	runs, err := Scan(dir, &ScanOptions{CurrentRelease: "release-1.7"})
	require.NoError(t, err)
	logger, _ := logtest.NewNullLogger()
	ds := NewDataset(runs, logger)

	series, err := ds.TrendSeries(EnvMaster, "_none_mtls_both", benchmark.ColumnP90, DefaultTrendQuery())
	require.NoError(t, err)
	require.Equal(t, 2, series.Len())
	assert.True(t, series.Samples[0].Missing)
	assert.Equal(t, 4.5, series.Samples[1].Value)

	baseline, err := ds.TrendSeries(EnvMaster, "_none_mtls_baseline", benchmark.ColumnP90, DefaultTrendQuery())
	require.NoError(t, err)

	points, err := timeseries.Delta(series, baseline)
	require.NoError(t, err)
	assert.True(t, points[0].Absent)
	assert.Equal(t, 3.25, points[1].Value)
}
