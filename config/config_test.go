package config

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/perfdash/render"
)

func TestNewConfigWithDefaults(t *testing.T) {
	c := NewConfigWithDefaults()

	assert.Equal(t, "perf_data", c.DataPath)
	assert.Equal(t, 60, c.Days)
	assert.Equal(t, "fortio", c.LoadGen)
	assert.Equal(t, render.BackendPlot, c.Backend)
	assert.Equal(t, "png", c.Format)
	assert.ErrorIs(t, c.Validate(), ErrNoRelease)
}

func TestGetConfigFromEnvironment(t *testing.T) {
	t.Setenv("CUR_RELEASE", "release-1.7")
	t.Setenv("PERF_DATA_PATH", "/data/perf")
	t.Setenv("DOWNLOAD_DATASET_DAYS", "14")
	t.Setenv("RENDER_BACKEND", render.BackendGoChart)
	t.Setenv("RENDER_FORMAT", "svg")
	t.Setenv("LOG_LEVEL", "debug")

	c, err := GetConfigFromEnvironment()
	require.NoError(t, err)

	assert.Equal(t, "release-1.7", c.CurrentRelease)
	assert.Equal(t, "/data/perf", c.DataPath)
	assert.Equal(t, 14, c.Days)
	assert.Equal(t, render.BackendGoChart, c.Backend)
	assert.Equal(t, "svg", c.Format)
	assert.Equal(t, "dashboard.yaml", c.DashboardFile)
	assert.Equal(t, logrus.DebugLevel, c.Level())
	assert.NoError(t, c.Validate())
}

func TestGetConfigFromEnvironmentInvalid(t *testing.T) {
	t.Setenv("DOWNLOAD_DATASET_DAYS", "two weeks")

	_, err := GetConfigFromEnvironment()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	c := NewConfigWithDefaults()
	c.CurrentRelease = "release-1.7"
	c.Days = 0
	c.Backend = "canvasjs"
	c.LogLevel = "loud"

	err := c.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, render.ErrUnknownBackend)
	assert.Contains(t, err.Error(), "DOWNLOAD_DATASET_DAYS")
	assert.Contains(t, err.Error(), "loud")
	assert.Equal(t, logrus.InfoLevel, c.Level())
}

func TestScanOptions(t *testing.T) {
	c := NewConfigWithDefaults()
	c.CurrentRelease = "release-1.7"
	c.Days = 2

	opts := c.ScanOptions(time.Date(2020, 5, 25, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, "release-1.7", opts.CurrentRelease)
	assert.Equal(t, "fortio", opts.LoadGen)
	assert.Equal(t, map[string]bool{"20200525": true, "20200524": true}, opts.Window)
}
