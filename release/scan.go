package release

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultLoadGen is the load generator of the nightly benchmarks.
const DefaultLoadGen = "fortio"

// KeepFiles are never removed by Prune.
var KeepFiles = []string{"master_temp.csv", "cur_temp.csv"}

// ErrNoRelease is returned by Scan without a current release name.
var ErrNoRelease = errors.New("release: current release not set")

// ScanOptions holds options for Scan.
type ScanOptions struct {
	CurrentRelease string          // Current release branch, e.g. "release-1.7"
	LoadGen        string          // Load generator (default: fortio)
	Window         map[string]bool // Accepted yyyymmdd dates; nil accepts every date
}

// Runs holds the scanned runs per environment, sorted by date then ID.
type Runs struct {
	Release []Run
	Master  []Run
}

// Get returns the runs of one environment.
func (r Runs) Get(env Environment) []Run {
	if env == EnvMaster {
		return r.Master
	}
	return r.Release
}

// Len returns the total number of runs.
func (r Runs) Len() int {
	return len(r.Release) + len(r.Master)
}

// Scan lists the benchmark runs stored in dir. A run is kept when its load
// generator matches, its date is inside the window, and its branch or
// release name carries the current release version or its ID contains
// "master". Master-branch runs go to Master, everything else to Release.
// Only the first run of a date is kept per environment. Files whose names
// do not parse as run IDs are ignored.
func Scan(dir string, opts *ScanOptions) (Runs, error) {
	if opts == nil || opts.CurrentRelease == "" {
		return Runs{}, ErrNoRelease
	}
	loadGen := opts.LoadGen
	if loadGen == "" {
		loadGen = DefaultLoadGen
	}
	version := Version(opts.CurrentRelease)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return Runs{}, err
	}

	var runs []Run
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), BenchmarkSuffix) {
			continue
		}
		run, err := ParseRunID(strings.TrimSuffix(e.Name(), BenchmarkSuffix))
		if err != nil {
			continue
		}
		if run.LoadGen != loadGen {
			continue
		}
		if opts.Window != nil && !opts.Window[run.DateString()] {
			continue
		}
		if !run.matchesVersion(version) && !strings.Contains(run.ID, "master") {
			continue
		}
		run.Path = filepath.Join(dir, e.Name())
		runs = append(runs, run)
	}

	sort.Slice(runs, func(i, j int) bool {
		if !runs[i].Date.Equal(runs[j].Date) {
			return runs[i].Date.Before(runs[j].Date)
		}
		return runs[i].ID < runs[j].ID
	})

	var out Runs
	seen := map[Environment]map[string]bool{
		EnvRelease: {},
		EnvMaster:  {},
	}
	for _, run := range runs {
		env := EnvRelease
		if run.IsMaster() {
			env = EnvMaster
		}
		if seen[env][run.DateString()] {
			continue
		}
		seen[env][run.DateString()] = true
		if env == EnvMaster {
			out.Master = append(out.Master, run)
		} else {
			out.Release = append(out.Release, run)
		}
	}
	return out, nil
}

// matchesVersion reports whether the run's branch or release name is
// version, possibly followed by a patch or suffix. "1.1" matches "1.1.3"
// and "release-1.1" but not "1.10.0".
func (r Run) matchesVersion(version string) bool {
	for _, name := range []string{r.Branch, r.Release} {
		name = strings.TrimPrefix(name, "release-")
		rest, ok := strings.CutPrefix(name, version)
		if ok && (rest == "" || rest[0] < '0' || rest[0] > '9') {
			return true
		}
	}
	return false
}

// Prune removes the files in dir whose date prefix is outside the window
// and returns the removed names. KeepFiles and directories are left alone.
func Prune(dir string, window map[string]bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	keep := make(map[string]bool, len(KeepFiles))
	for _, f := range KeepFiles {
		keep[f] = true
	}

	var removed []string
	var errs []error
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || keep[name] {
			continue
		}
		prefix, _, _ := strings.Cut(name, "_")
		if window[prefix] {
			continue
		}
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			errs = append(errs, fmt.Errorf("prune %s: %w", name, err))
			continue
		}
		removed = append(removed, name)
	}
	return removed, errors.Join(errs...)
}
