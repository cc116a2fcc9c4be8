// Command perfdash renders the nightly benchmark dashboard and reports
// latency outliers.
package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/sartorproj/perfdash/alert"
	"github.com/sartorproj/perfdash/config"
	"github.com/sartorproj/perfdash/dashboard"
	"github.com/sartorproj/perfdash/release"
	"github.com/sartorproj/perfdash/render"
	"github.com/sartorproj/perfdash/stats"
	"github.com/sartorproj/perfdash/timeseries"
)

type app struct {
	cfg config.Config
	log *logrus.Logger
	now func() time.Time
	out io.Writer
}

func main() {
	a := &app{
		log: logrus.New(),
		now: time.Now,
		out: os.Stdout,
	}
	if err := a.command().Run(context.Background(), os.Args); err != nil {
		a.log.WithError(err).Fatal("perfdash failed")
	}
}

func (a *app) command() *cli.Command {
	return &cli.Command{
		Name:  "perfdash",
		Usage: "benchmark performance dashboard",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "release", Aliases: []string{"r"}, Usage: "current release branch, e.g. release-1.7 (CUR_RELEASE)"},
			&cli.StringFlag{Name: "data", Aliases: []string{"d"}, Usage: "directory holding benchmark CSVs (PERF_DATA_PATH)"},
			&cli.IntFlag{Name: "days", Usage: "number of days of runs to keep (DOWNLOAD_DATASET_DAYS)"},
			&cli.StringFlag{Name: "loadgen", Usage: "load generator of the runs (LOAD_GEN_TYPE)"},
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "dashboard chart config (DASHBOARD_CONFIG)"},
			&cli.StringFlag{Name: "log-level", Usage: "log level (LOG_LEVEL)"},
		},
		Before: a.before,
		Commands: []*cli.Command{
			{
				Name:  "render",
				Usage: "render every dashboard chart",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output directory (OUTPUT_DIR)"},
					&cli.StringFlag{Name: "backend", Usage: "gonum or gochart (RENDER_BACKEND)"},
					&cli.StringFlag{Name: "format", Usage: "png or svg (RENDER_FORMAT)"},
				},
				Action: a.render,
			},
			{
				Name:  "alerts",
				Usage: "list latency outliers",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "env", Value: string(release.EnvMaster), Usage: "release or master"},
					&cli.StringFlag{Name: "percentile", Usage: "restrict to one percentile, e.g. p90"},
				},
				Action: a.alerts,
			},
			{
				Name:  "export",
				Usage: "write the trend series of every dated chart as CSV",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "env", Value: string(release.EnvMaster), Usage: "release or master"},
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: "series", Usage: "output directory"},
				},
				Action: a.export,
			},
			{
				Name:      "check",
				Usage:     "list outliers of series CSV files",
				ArgsUsage: "FILE...",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "percentile", Usage: "percentile label of the series"},
				},
				Action: a.check,
			},
			{
				Name:   "runs",
				Usage:  "list the runs inside the window",
				Action: a.runs,
			},
			{
				Name:   "prune",
				Usage:  "delete data files outside the window",
				Action: a.prune,
			},
		},
	}
}

// before loads the environment config and applies flag overrides.
func (a *app) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	cfg, err := config.GetConfigFromEnvironment()
	if err != nil {
		return ctx, err
	}
	if cmd.IsSet("release") {
		cfg.CurrentRelease = cmd.String("release")
	}
	if cmd.IsSet("data") {
		cfg.DataPath = cmd.String("data")
	}
	if cmd.IsSet("days") {
		cfg.Days = cmd.Int("days")
	}
	if cmd.IsSet("loadgen") {
		cfg.LoadGen = cmd.String("loadgen")
	}
	if cmd.IsSet("config") {
		cfg.DashboardFile = cmd.String("config")
	}
	if cmd.IsSet("log-level") {
		cfg.LogLevel = cmd.String("log-level")
	}
	a.cfg = cfg

	a.log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	a.log.SetLevel(cfg.Level())
	return ctx, nil
}

func (a *app) validate() error {
	return a.cfg.Validate()
}

func (a *app) dataset() (*release.Dataset, error) {
	runs, err := release.Scan(a.cfg.DataPath, a.cfg.ScanOptions(a.now()))
	if err != nil {
		return nil, err
	}
	a.log.WithFields(logrus.Fields{
		"dir":     a.cfg.DataPath,
		"release": len(runs.Release),
		"master":  len(runs.Master),
	}).Info("Scanned benchmark runs")
	return release.NewDataset(runs, a.log), nil
}

func (a *app) render(ctx context.Context, cmd *cli.Command) error {
	if cmd.IsSet("out") {
		a.cfg.OutputDir = cmd.String("out")
	}
	if cmd.IsSet("backend") {
		a.cfg.Backend = cmd.String("backend")
	}
	if cmd.IsSet("format") {
		a.cfg.Format = cmd.String("format")
	}
	if err := a.validate(); err != nil {
		return err
	}

	dash, err := dashboard.LoadConfig(a.cfg.DashboardFile)
	if err != nil {
		return err
	}
	r, err := render.New(a.cfg.Backend, a.cfg.Format)
	if err != nil {
		return err
	}
	ds, err := a.dataset()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(a.cfg.OutputDir, 0o755); err != nil {
		return err
	}

	charts := dashboard.NewBuilder(ds, a.log).BuildAll(dash)
	failed := 0
	for _, c := range charts {
		if err := ctx.Err(); err != nil {
			return err
		}
		path, err := render.WriteFile(r, a.cfg.OutputDir, c)
		if err != nil {
			failed++
			a.log.WithFields(logrus.Fields{
				"chart": c.ID,
				"error": err,
			}).Warn("Failed to render chart")
			continue
		}
		a.log.WithField("path", path).Debug("Rendered chart")
	}
	a.log.WithFields(logrus.Fields{
		"rendered": len(charts) - failed,
		"failed":   failed,
		"backend":  a.cfg.Backend,
		"out":      a.cfg.OutputDir,
	}).Info("Rendered dashboard")
	return nil
}

func (a *app) alerts(ctx context.Context, cmd *cli.Command) error {
	if err := a.validate(); err != nil {
		return err
	}
	env, err := release.ParseEnvironment(cmd.String("env"))
	if err != nil {
		return err
	}
	dash, err := dashboard.LoadConfig(a.cfg.DashboardFile)
	if err != nil {
		return err
	}
	ds, err := a.dataset()
	if err != nil {
		return err
	}
	alerts, err := dashboard.NewBuilder(ds, a.log).Alerts(dash, env, cmd.String("percentile"))
	if err != nil {
		return err
	}
	alert.WriteTable(a.out, alerts)
	return nil
}

func (a *app) export(ctx context.Context, cmd *cli.Command) error {
	if err := a.validate(); err != nil {
		return err
	}
	env, err := release.ParseEnvironment(cmd.String("env"))
	if err != nil {
		return err
	}
	dash, err := dashboard.LoadConfig(a.cfg.DashboardFile)
	if err != nil {
		return err
	}
	ds, err := a.dataset()
	if err != nil {
		return err
	}
	out := cmd.String("out")
	if err := os.MkdirAll(out, 0o755); err != nil {
		return err
	}

	table := newTable(a.out, "mode", "column", "present", "mean", "median", "min", "max", "file")
	type modeColumn struct{ mode, column string }
	seen := make(map[modeColumn]bool)
	for _, spec := range dash.Charts {
		if spec.Kind == dashboard.KindSweep || spec.Environment != env {
			continue
		}
		for _, ser := range spec.Series {
			key := modeColumn{ser.Mode, spec.Column}
			if seen[key] {
				continue
			}
			seen[key] = true

			q := release.DefaultTrendQuery()
			q.Scale = spec.Scale
			s, err := ds.TrendSeries(env, ser.Mode, spec.Column, q)
			if err != nil {
				return fmt.Errorf("chart %s: %w", spec.ID, err)
			}
			name := filepath.Join(out, strings.TrimPrefix(ser.Mode, "_")+"_"+spec.Column+".csv")
			if err := timeseries.SaveCSV(s, name); err != nil {
				return err
			}
			table.Append([]string{
				ser.Mode,
				spec.Column,
				fmt.Sprintf("%d/%d", s.Present(), s.Len()),
				formatValue(s.Mean()),
				formatValue(s.Median()),
				formatValue(s.Min()),
				formatValue(s.Max()),
				name,
			})
		}
	}
	table.SetCaption(true, strconv.Itoa(len(seen))+" series")
	table.Render()
	return nil
}

func (a *app) check(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() == 0 {
		return fmt.Errorf("check: no series files given")
	}
	var alerts []alert.Alert
	for _, name := range cmd.Args().Slice() {
		s, err := timeseries.LoadCSV(name, nil)
		if err != nil {
			return err
		}
		outliers := stats.FindOutliers(s)
		a.log.WithFields(logrus.Fields{
			"file":     name,
			"samples":  s.Len(),
			"outliers": len(outliers),
		}).Debug("Checked series")
		alerts = append(alerts, alert.FromOutliers(s.Name, cmd.String("percentile"), outliers, alert.DefaultCommitBase)...)
	}
	alert.WriteTable(a.out, alerts)
	return nil
}

func (a *app) runs(ctx context.Context, cmd *cli.Command) error {
	if err := a.validate(); err != nil {
		return err
	}
	ds, err := a.dataset()
	if err != nil {
		return err
	}

	table := newTable(a.out, "env", "date", "branch", "release", "file")
	n := 0
	for _, env := range []release.Environment{release.EnvRelease, release.EnvMaster} {
		for _, run := range ds.Runs(env) {
			table.Append([]string{string(env), run.DateString(), run.Branch, run.Release, run.FileName()})
			n++
		}
	}
	table.SetCaption(true, strconv.Itoa(n)+" runs")
	table.Render()
	return nil
}

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	table.SetNoWhiteSpace(true)
	return table
}

func formatValue(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return strconv.FormatFloat(v, 'f', 3, 64)
}

func (a *app) prune(ctx context.Context, cmd *cli.Command) error {
	if a.cfg.Days <= 0 {
		return fmt.Errorf("days must be positive, got %d", a.cfg.Days)
	}
	removed, err := release.Prune(a.cfg.DataPath, a.cfg.Window(a.now()))
	for _, name := range removed {
		a.log.WithField("file", name).Debug("Removed stale data file")
	}
	a.log.WithFields(logrus.Fields{
		"dir":     a.cfg.DataPath,
		"removed": len(removed),
	}).Info("Pruned data directory")
	return err
}
