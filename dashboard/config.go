package dashboard

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sartorproj/perfdash/alert"
	"github.com/sartorproj/perfdash/benchmark"
	"github.com/sartorproj/perfdash/release"
)

// Kind is the type of a chart.
type Kind string

const (
	// KindSweep plots one benchmark column against connections or QPS.
	KindSweep Kind = "sweep"
	// KindPattern plots each mode's trend minus the baseline mode's trend.
	KindPattern Kind = "pattern"
	// KindRegression is KindPattern with improvements over the baseline hidden.
	KindRegression Kind = "regression"
	// KindTrend plots raw trend series.
	KindTrend Kind = "trend"
)

// Metric is the measured quantity of a chart.
type Metric string

const (
	MetricLatency Metric = "latency"
	MetricCPU     Metric = "cpu"
	MetricMemory  Metric = "memory"
)

var (
	// ErrInvalidConfig is wrapped by every validation error.
	ErrInvalidConfig = errors.New("dashboard: invalid config")
	// ErrUnknownChart is returned by Config.Chart for an unknown ID.
	ErrUnknownChart = errors.New("dashboard: unknown chart")
)

// DefaultPalette holds the series colors assigned in order when a series
// has none.
var DefaultPalette = []string{
	"rgba(236, 66, 53, 1)",
	"rgba(259, 188, 5, 1)",
	"rgba(66, 133, 246, 1)",
	"rgba(52, 168, 85, 1)",
	"rgba(0, 0, 0, 1)",
	"rgba(168, 50, 168, 1)",
	"rgba(252, 123, 3, 1)",
	"rgba(52, 235, 219, 1)",
	"rgba(242, 245, 66, 1)",
}

// Key identifies a group of charts.
type Key struct {
	Kind        Kind
	Metric      Metric
	Percentile  string
	Environment release.Environment
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%s/%s/%s", k.Kind, k.Metric, k.Percentile, k.Environment)
}

// SeriesSpec is one line of a chart.
type SeriesSpec struct {
	Label string `yaml:"label"`
	Mode  string `yaml:"mode"`  // Labels suffix, e.g. "_none_mtls_both"
	Color string `yaml:"color"` // rgba(...), rgb(...) or #rrggbb
}

// ChartSpec configures one chart.
type ChartSpec struct {
	ID          string              `yaml:"id"`
	Kind        Kind                `yaml:"kind"`
	Metric      Metric              `yaml:"metric"`
	Percentile  string              `yaml:"percentile"`
	Environment release.Environment `yaml:"environment"`
	Title       string              `yaml:"title"`
	XLabel      string              `yaml:"xLabel"`
	YLabel      string              `yaml:"yLabel"`
	Column      string              `yaml:"column"`
	Scale       float64             `yaml:"scale"`
	Axis        benchmark.Axis      `yaml:"axis"`
	Steps       []float64           `yaml:"steps"`
	Baseline    string              `yaml:"baseline"`
	// TolerateMissingBaseline draws a gap where the baseline run has no value.
	TolerateMissingBaseline bool         `yaml:"tolerateMissingBaseline"`
	Series                  []SeriesSpec `yaml:"series"`
}

// Key returns the chart's lookup key.
func (s *ChartSpec) Key() Key {
	return Key{Kind: s.Kind, Metric: s.Metric, Percentile: s.Percentile, Environment: s.Environment}
}

// Config is a dashboard definition.
type Config struct {
	CommitBase string      `yaml:"commitBase"`
	Charts     []ChartSpec `yaml:"charts"`
}

// LoadConfig reads and validates a YAML dashboard file.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	cfg, err := ParseConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return cfg, nil
}

// ParseConfig decodes and validates a YAML dashboard definition. Unknown
// fields are rejected and defaults are filled in.
func ParseConfig(r io.Reader) (*Config, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.CommitBase == "" {
		c.CommitBase = alert.DefaultCommitBase
	}
	for i := range c.Charts {
		s := &c.Charts[i]
		if s.Environment == "" {
			s.Environment = release.EnvRelease
		}
		if s.Metric == "" {
			s.Metric = MetricLatency
		}
		if s.Metric == MetricLatency && s.Percentile == "" {
			s.Percentile = benchmark.ColumnP90
		}
		if s.Column == "" {
			s.Column = defaultColumn(s.Metric, s.Percentile)
		}
		if s.Scale == 0 {
			s.Scale = defaultScale(s.Metric)
		}
		if s.Kind == KindSweep {
			if s.Axis == "" {
				s.Axis = defaultAxis(s.Metric)
			}
			if len(s.Steps) == 0 {
				s.Steps = defaultSteps(s.Axis)
			}
		}
		if s.XLabel == "" {
			s.XLabel = defaultXLabel(s)
		}
		if s.YLabel == "" {
			s.YLabel = defaultYLabel(s)
		}
		for j := range s.Series {
			if s.Series[j].Color == "" {
				s.Series[j].Color = DefaultPalette[j%len(DefaultPalette)]
			}
			if s.Series[j].Label == "" {
				s.Series[j].Label = s.Series[j].Mode
			}
		}
	}
}

// Validate checks chart IDs, kinds, metrics, environments, baselines and
// series lists. All problems are reported together.
func (c *Config) Validate() error {
	var errs []error
	seen := make(map[string]bool, len(c.Charts))
	for i, s := range c.Charts {
		name := s.ID
		if name == "" {
			name = fmt.Sprintf("#%d", i)
			errs = append(errs, fmt.Errorf("%w: chart %s: missing id", ErrInvalidConfig, name))
		} else if seen[s.ID] {
			errs = append(errs, fmt.Errorf("%w: chart %s: duplicate id", ErrInvalidConfig, name))
		}
		seen[s.ID] = true

		switch s.Kind {
		case KindSweep, KindPattern, KindRegression, KindTrend:
		default:
			errs = append(errs, fmt.Errorf("%w: chart %s: unknown kind %q", ErrInvalidConfig, name, s.Kind))
		}
		switch s.Metric {
		case MetricLatency, MetricCPU, MetricMemory:
		default:
			errs = append(errs, fmt.Errorf("%w: chart %s: unknown metric %q", ErrInvalidConfig, name, s.Metric))
		}
		if _, err := release.ParseEnvironment(string(s.Environment)); err != nil {
			errs = append(errs, fmt.Errorf("%w: chart %s: %v", ErrInvalidConfig, name, err))
		}
		if s.Kind == KindSweep {
			sweep := benchmark.Sweep{Axis: s.Axis, Steps: s.Steps, Fixed: fixedFor(s.Axis)}
			if err := sweep.Validate(); err != nil {
				errs = append(errs, fmt.Errorf("%w: chart %s: %v", ErrInvalidConfig, name, err))
			}
		}
		if (s.Kind == KindPattern || s.Kind == KindRegression) && s.Baseline == "" {
			errs = append(errs, fmt.Errorf("%w: chart %s: %s chart needs a baseline mode", ErrInvalidConfig, name, s.Kind))
		}
		if len(s.Series) == 0 {
			errs = append(errs, fmt.Errorf("%w: chart %s: no series", ErrInvalidConfig, name))
		}
		for j, ser := range s.Series {
			if ser.Mode == "" {
				errs = append(errs, fmt.Errorf("%w: chart %s: series %d has no mode", ErrInvalidConfig, name, j))
			}
		}
	}
	return errors.Join(errs...)
}

// Lookup returns the charts configured for key, in file order.
func (c *Config) Lookup(key Key) []ChartSpec {
	var out []ChartSpec
	for _, s := range c.Charts {
		if s.Key() == key {
			out = append(out, s)
		}
	}
	return out
}

// Chart returns the chart with the given ID.
func (c *Config) Chart(id string) (ChartSpec, error) {
	for _, s := range c.Charts {
		if s.ID == id {
			return s, nil
		}
	}
	return ChartSpec{}, fmt.Errorf("%w: %q", ErrUnknownChart, id)
}

func defaultColumn(m Metric, percentile string) string {
	switch m {
	case MetricCPU:
		return benchmark.ColumnServerProxyCPU
	case MetricMemory:
		return benchmark.ColumnServerProxyMem
	default:
		return percentile
	}
}

func defaultScale(m Metric) float64 {
	if m == MetricLatency {
		return 1.0 / 1000
	}
	return 1
}

func defaultAxis(m Metric) benchmark.Axis {
	if m == MetricLatency {
		return benchmark.AxisConnections
	}
	return benchmark.AxisQPS
}

func defaultSteps(a benchmark.Axis) []float64 {
	if a == benchmark.AxisQPS {
		return append([]float64(nil), benchmark.DefaultQPS...)
	}
	return append([]float64(nil), benchmark.DefaultConnections...)
}

func fixedFor(a benchmark.Axis) float64 {
	if a == benchmark.AxisQPS {
		return benchmark.DefaultFixedThreads
	}
	return benchmark.DefaultFixedQPS
}

func defaultXLabel(s *ChartSpec) string {
	switch {
	case s.Kind != KindSweep:
		return "Date"
	case s.Axis == benchmark.AxisQPS:
		return "QPS"
	default:
		return "Connections"
	}
}

func defaultYLabel(s *ChartSpec) string {
	switch s.Metric {
	case MetricCPU:
		return "max CPUs, server proxy (millicores)"
	case MetricMemory:
		return "max memory usage, server proxy (MB)"
	}
	switch s.Kind {
	case KindPattern:
		return s.Percentile + " Latency Pattern in milliseconds"
	case KindRegression:
		return "Latency trending in milliseconds"
	case KindTrend:
		return s.Percentile + " Latency in milliseconds"
	default:
		return "Latency in milliseconds"
	}
}
