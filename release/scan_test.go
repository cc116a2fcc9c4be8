package release

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("Labels,ActualQPS,NumThreads\n"), 0o644))
	}
}

func runIDs(runs []Run) []string {
	ids := make([]string, len(runs))
	for i, r := range runs {
		ids[i] = r.ID
	}
	return ids
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir,
		"20200525_fortio_master_1.7-alpha.bbb_benchmark.csv",
		"20200524_fortio_master_1.7-alpha.aaa_benchmark.csv",
		"20200525_fortio_master_1.7-alpha.aaa_benchmark.csv",
		"20200525_fortio_release-1.6_1.6.1.ccc_benchmark.csv",
		"20200524_fortio_release-1.7_1.7.0.ddd_benchmark.csv",
		"20200524_nighthawk_master_1.7-alpha.eee_benchmark.csv",
		"20200401_fortio_master_1.7-alpha.fff_benchmark.csv",
		"master_temp.csv",
		"notes.txt",
		"garbage_benchmark.csv",
	)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "20200525_fortio_master_dir_benchmark.csv"), 0o755))

	runs, err := Scan(dir, &ScanOptions{
		CurrentRelease: "release-1.7",
		Window:         Window(time.Date(2020, 5, 25, 8, 0, 0, 0, time.UTC), 7),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"20200524_fortio_master_1.7-alpha.aaa",
		"20200525_fortio_master_1.7-alpha.aaa",
	}, runIDs(runs.Master))
	assert.Equal(t, []string{
		"20200524_fortio_release-1.7_1.7.0.ddd",
	}, runIDs(runs.Release))
	assert.Equal(t, 3, runs.Len())
	assert.Equal(t, filepath.Join(dir, "20200524_fortio_release-1.7_1.7.0.ddd_benchmark.csv"), runs.Release[0].Path)
	assert.Equal(t, runs.Master, runs.Get(EnvMaster))
}

func TestScanVersionBoundary(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir,
		"20200520_fortio_release-1.1_1.1.3.aaa_benchmark.csv",
		"20200521_fortio_release-1.10_1.10.0.bbb_benchmark.csv",
		"20200522_fortio_release-1.11_1.11.2.ccc_benchmark.csv",
		"20200523_fortio_nightly_1.1-beta.ddd_benchmark.csv",
		"20200524_fortio_nightly_1.12-beta.eee_benchmark.csv",
		"20200525_fortio_nightly_release-1.1.4_benchmark.csv",
	)

	runs, err := Scan(dir, &ScanOptions{CurrentRelease: "release-1.1"})
	require.NoError(t, err)
	assert.Empty(t, runs.Master)
	assert.Equal(t, []string{
		"20200520_fortio_release-1.1_1.1.3.aaa",
		"20200523_fortio_nightly_1.1-beta.ddd",
		"20200525_fortio_nightly_release-1.1.4",
	}, runIDs(runs.Release))
}

func TestScanOptions(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir,
		"20200524_nighthawk_master_1.7-alpha.eee_benchmark.csv",
		"20190101_nighthawk_release-1.7_1.7.0_benchmark.csv",
	)

	runs, err := Scan(dir, &ScanOptions{CurrentRelease: "release-1.7", LoadGen: "nighthawk"})
	require.NoError(t, err)
	assert.Len(t, runs.Master, 1)
	assert.Len(t, runs.Release, 1)

	_, err = Scan(dir, nil)
	assert.ErrorIs(t, err, ErrNoRelease)

	_, err = Scan(filepath.Join(dir, "absent"), &ScanOptions{CurrentRelease: "release-1.7"})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestPrune(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir,
		"20200525_fortio_master_1.7-alpha.aaa_benchmark.csv",
		"20200401_fortio_master_1.7-alpha.fff_benchmark.csv",
		"20200402_fortio_release-1.7_1.7.0_benchmark.csv",
		"master_temp.csv",
		"cur_temp.csv",
	)

	removed, err := Prune(dir, Window(time.Date(2020, 5, 25, 0, 0, 0, 0, time.UTC), 30))
	require.NoError(t, err)
	sort.Strings(removed)
	assert.Equal(t, []string{
		"20200401_fortio_master_1.7-alpha.fff_benchmark.csv",
		"20200402_fortio_release-1.7_1.7.0_benchmark.csv",
	}, removed)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var left []string
	for _, e := range entries {
		left = append(left, e.Name())
	}
	assert.ElementsMatch(t, []string{
		"20200525_fortio_master_1.7-alpha.aaa_benchmark.csv",
		"master_temp.csv",
		"cur_temp.csv",
	}, left)
}
