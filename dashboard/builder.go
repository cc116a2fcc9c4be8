package dashboard

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/sartorproj/perfdash/alert"
	"github.com/sartorproj/perfdash/benchmark"
	"github.com/sartorproj/perfdash/release"
	"github.com/sartorproj/perfdash/stats"
	"github.com/sartorproj/perfdash/timeseries"
)

// Source supplies benchmark data to a Builder. *release.Dataset implements it.
type Source interface {
	Sweep(env release.Environment, mode, column string, s benchmark.Sweep) ([]benchmark.SweepPoint, error)
	TrendSeries(env release.Environment, mode, column string, q release.TrendQuery) (*timeseries.Series, error)
}

// Builder turns chart specs into charts.
type Builder struct {
	source Source
	log    logrus.FieldLogger
	// Query selects the benchmark row of trend samples. Scale is taken
	// from each chart spec.
	Query release.TrendQuery
}

// NewBuilder creates a builder reading from source.
func NewBuilder(source Source, log logrus.FieldLogger) *Builder {
	return &Builder{
		source: source,
		log:    log.WithField("component", "dashboard"),
		Query:  release.DefaultTrendQuery(),
	}
}

// Build builds one chart.
func (b *Builder) Build(spec ChartSpec) (*Chart, error) {
	switch spec.Kind {
	case KindSweep:
		return b.buildSweep(spec)
	case KindPattern, KindRegression:
		return b.buildDelta(spec)
	case KindTrend:
		return b.buildTrend(spec)
	default:
		return nil, fmt.Errorf("%w: chart %s: unknown kind %q", ErrInvalidConfig, spec.ID, spec.Kind)
	}
}

// BuildAll builds every chart of cfg. A chart that fails is logged and
// skipped; the others are still built.
func (b *Builder) BuildAll(cfg *Config) []*Chart {
	charts := make([]*Chart, 0, len(cfg.Charts))
	for _, spec := range cfg.Charts {
		c, err := b.Build(spec)
		if err != nil {
			b.log.WithFields(logrus.Fields{
				"chart": spec.ID,
				"key":   spec.Key().String(),
				"error": err,
			}).Error("Failed to build chart")
			continue
		}
		charts = append(charts, c)
	}
	b.log.WithFields(logrus.Fields{
		"configured": len(cfg.Charts),
		"built":      len(charts),
	}).Info("Built dashboard charts")
	return charts
}

func (b *Builder) buildSweep(spec ChartSpec) (*Chart, error) {
	sweep := benchmark.Sweep{Axis: spec.Axis, Steps: spec.Steps, Fixed: fixedFor(spec.Axis)}
	series := make([]SeriesData, 0, len(spec.Series))
	for _, ser := range spec.Series {
		points, err := b.source.Sweep(spec.Environment, ser.Mode, spec.Column, sweep)
		if err != nil {
			return nil, fmt.Errorf("chart %s: series %s: %w", spec.ID, ser.Label, err)
		}
		series = append(series, SeriesData{
			Label:  ser.Label,
			Color:  ser.Color,
			Points: SweepPoints(points, spec.Scale),
		})
	}
	return BuildChart(spec, AxisCategory, sweep.Labels(), series), nil
}

func (b *Builder) buildDelta(spec ChartSpec) (*Chart, error) {
	baseline, err := b.trendSeries(spec, spec.Baseline)
	if err != nil {
		return nil, fmt.Errorf("chart %s: baseline %s: %w", spec.ID, spec.Baseline, err)
	}
	opts := &timeseries.DeltaOptions{
		ClampNegative:           spec.Kind == KindRegression,
		TolerateMissingBaseline: spec.TolerateMissingBaseline,
	}

	series := make([]SeriesData, 0, len(spec.Series))
	for _, ser := range spec.Series {
		s, err := b.trendSeries(spec, ser.Mode)
		if err != nil {
			return nil, fmt.Errorf("chart %s: series %s: %w", spec.ID, ser.Label, err)
		}
		points, err := timeseries.DeltaWithOptions(s, baseline, opts)
		if err != nil {
			return nil, fmt.Errorf("chart %s: series %s: %w", spec.ID, ser.Label, err)
		}
		series = append(series, SeriesData{
			Label:  ser.Label + " - baseline",
			Color:  ser.Color,
			Points: TimePoints(points),
		})
	}
	return BuildChart(spec, AxisTime, nil, series), nil
}

func (b *Builder) buildTrend(spec ChartSpec) (*Chart, error) {
	series := make([]SeriesData, 0, len(spec.Series))
	for _, ser := range spec.Series {
		s, err := b.trendSeries(spec, ser.Mode)
		if err != nil {
			return nil, fmt.Errorf("chart %s: series %s: %w", spec.ID, ser.Label, err)
		}
		points, err := timeseries.Trend(s)
		if err != nil {
			return nil, fmt.Errorf("chart %s: series %s: %w", spec.ID, ser.Label, err)
		}
		series = append(series, SeriesData{
			Label:  ser.Label,
			Color:  ser.Color,
			Points: TimePoints(points),
		})
	}
	return BuildChart(spec, AxisTime, nil, series), nil
}

func (b *Builder) trendSeries(spec ChartSpec, mode string) (*timeseries.Series, error) {
	q := b.Query
	q.Scale = spec.Scale
	return b.source.TrendSeries(spec.Environment, mode, spec.Column, q)
}

// Alerts runs outlier detection over the series of every trend, pattern and
// regression chart for env. An empty percentile matches every chart. Baseline
// modes are skipped and each mode and column is checked once.
func (b *Builder) Alerts(cfg *Config, env release.Environment, percentile string) ([]alert.Alert, error) {
	type modeColumn struct{ mode, column string }
	seen := make(map[modeColumn]bool)

	var alerts []alert.Alert
	for _, spec := range cfg.Charts {
		if spec.Kind == KindSweep || spec.Environment != env {
			continue
		}
		if percentile != "" && spec.Percentile != percentile {
			continue
		}
		for _, ser := range spec.Series {
			key := modeColumn{ser.Mode, spec.Column}
			if ser.Mode == spec.Baseline || seen[key] {
				continue
			}
			seen[key] = true

			s, err := b.trendSeries(spec, ser.Mode)
			if err != nil {
				return nil, fmt.Errorf("chart %s: series %s: %w", spec.ID, ser.Label, err)
			}
			outliers := stats.FindOutliers(s)
			if len(outliers) > 0 {
				b.log.WithFields(logrus.Fields{
					"environment": env,
					"mode":        ser.Mode,
					"column":      spec.Column,
					"outliers":    len(outliers),
				}).Warn("Found benchmark outliers")
			}
			alerts = append(alerts, alert.FromOutliers(ser.Mode, spec.Column, outliers, cfg.CommitBase)...)
		}
	}
	return alerts, nil
}
