// Package config reads perfdash settings from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"

	"github.com/sartorproj/perfdash/release"
	"github.com/sartorproj/perfdash/render"
)

// Config holds the settings shared by every command.
type Config struct {
	CurrentRelease string `envconfig:"CUR_RELEASE"`
	DataPath       string `envconfig:"PERF_DATA_PATH"`
	Days           int    `envconfig:"DOWNLOAD_DATASET_DAYS"`
	LoadGen        string `envconfig:"LOAD_GEN_TYPE"`
	DashboardFile  string `envconfig:"DASHBOARD_CONFIG"`
	OutputDir      string `envconfig:"OUTPUT_DIR"`
	Backend        string `envconfig:"RENDER_BACKEND"`
	Format         string `envconfig:"RENDER_FORMAT"`
	LogLevel       string `envconfig:"LOG_LEVEL"`
}

// ErrNoRelease is returned by Validate when CUR_RELEASE is not set.
var ErrNoRelease = errors.New("config: CUR_RELEASE is not set")

func NewConfigWithDefaults() Config {
	return Config{
		DataPath:      "perf_data",
		Days:          60,
		LoadGen:       release.DefaultLoadGen,
		DashboardFile: "dashboard.yaml",
		OutputDir:     "charts",
		Backend:       render.BackendPlot,
		Format:        string(render.FormatPNG),
		LogLevel:      "info",
	}
}

func GetConfigFromEnvironment() (Config, error) {
	c := NewConfigWithDefaults()
	err := envconfig.Process("", &c)
	return c, err
}

// Validate checks the settings. All problems are reported together.
func (c Config) Validate() error {
	var errs []error
	if c.CurrentRelease == "" {
		errs = append(errs, ErrNoRelease)
	}
	if c.Days <= 0 {
		errs = append(errs, fmt.Errorf("config: DOWNLOAD_DATASET_DAYS must be positive, got %d", c.Days))
	}
	if _, err := render.New(c.Backend, c.Format); err != nil {
		errs = append(errs, err)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("config: %w", err))
	}
	return errors.Join(errs...)
}

// Level returns the configured log level, info when unparsable.
func (c Config) Level() logrus.Level {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

// Window returns the accepted run dates ending at now.
func (c Config) Window(now time.Time) map[string]bool {
	return release.Window(now, c.Days)
}

// ScanOptions returns the run discovery options ending at now.
func (c Config) ScanOptions(now time.Time) *release.ScanOptions {
	return &release.ScanOptions{
		CurrentRelease: c.CurrentRelease,
		LoadGen:        c.LoadGen,
		Window:         c.Window(now),
	}
}
