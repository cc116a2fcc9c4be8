package release

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sartorproj/perfdash/timeseries"
)

// BenchmarkSuffix is appended to a run ID to form its data file name.
const BenchmarkSuffix = "_benchmark.csv"

// ErrInvalidRunID is returned for IDs that are not <date>_<loadgen>_<branch>_<release>.
var ErrInvalidRunID = errors.New("release: invalid benchmark run ID")

// Run is one nightly benchmark run.
type Run struct {
	ID      string
	Date    time.Time
	LoadGen string
	Branch  string
	Release string
	Path    string // Local benchmark CSV, set by Scan
}

// ParseRunID parses a benchmark run ID. The release part may itself
// contain underscores.
func ParseRunID(id string) (Run, error) {
	parts := strings.SplitN(id, "_", 4)
	if len(parts) < 4 || parts[1] == "" || parts[2] == "" || parts[3] == "" {
		return Run{}, fmt.Errorf("%w: %q", ErrInvalidRunID, id)
	}
	date, err := time.Parse(timeseries.DateFormat, parts[0])
	if err != nil {
		return Run{}, fmt.Errorf("%w: %q: %v", ErrInvalidRunID, id, err)
	}
	return Run{
		ID:      id,
		Date:    date,
		LoadGen: parts[1],
		Branch:  parts[2],
		Release: parts[3],
	}, nil
}

// String formats the run back into its ID.
func (r Run) String() string {
	return strings.Join([]string{r.DateString(), r.LoadGen, r.Branch, r.Release}, "_")
}

// DateString returns the run date as yyyymmdd.
func (r Run) DateString() string {
	return r.Date.Format(timeseries.DateFormat)
}

// FileName returns the name of the run's benchmark CSV.
func (r Run) FileName() string {
	return r.ID + BenchmarkSuffix
}

// IsMaster reports whether the run was built from the master branch.
func (r Run) IsMaster() bool {
	return r.Branch == "master"
}

// Environment is the branch family a run belongs to.
type Environment string

const (
	EnvRelease Environment = "release"
	EnvMaster  Environment = "master"
)

// ErrUnknownEnvironment is returned for environments other than release and master.
var ErrUnknownEnvironment = errors.New("release: unknown environment")

// ParseEnvironment parses an environment name.
func ParseEnvironment(s string) (Environment, error) {
	switch Environment(s) {
	case EnvRelease, EnvMaster:
		return Environment(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownEnvironment, s)
}

// Version returns the version part of a release branch name:
// "release-1.7" yields "1.7". A name without "-" is returned as is.
func Version(currentRelease string) string {
	if _, v, ok := strings.Cut(currentRelease, "-"); ok {
		return v
	}
	return currentRelease
}

// Window returns the yyyymmdd dates of the last days days, today included.
func Window(now time.Time, days int) map[string]bool {
	dates := make(map[string]bool, days)
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	for i := 0; i < days; i++ {
		dates[today.AddDate(0, 0, -i).Format(timeseries.DateFormat)] = true
	}
	return dates
}
