package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/tsalign/align"
	"github.com/katalvlaran/tsalign/cache"
	"github.com/katalvlaran/tsalign/downsample"
	"github.com/katalvlaran/tsalign/dtw"
	"github.com/katalvlaran/tsalign/internal/config"
	"github.com/katalvlaran/tsalign/resample"
	"github.com/katalvlaran/tsalign/series"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tsalign.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	c, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), c)

	ac, err := c.AlignConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, align.MethodCommonGrid, ac.Method)
	assert.Equal(t, resample.MethodLinear, ac.InterpMethod)

	p, err := c.DownsampleParams()
	require.NoError(t, err)
	assert.Equal(t, downsample.LTTB, p.Method)

	assert.Equal(t, dtw.Unlimited, c.DTWOptions().Window)
}

func TestLoad_YAMLOverlay(t *testing.T) {
	path := writeConfig(t, `
sync:
  method: kalman_align
  interp_method: cubic
  dt: 0.5
  process_noise: 0.2
downsample:
  method: peak_aware
  points: 50
  peak_threshold_percentile: 90
  peak_on_value: true
distance:
  window: 3
  slope_penalty: 1.5
cache:
  enabled: true
  codec: snappy
  ttl: 10m
workers: 4
`)
	c, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "kalman_align", c.Sync.Method)
	assert.Equal(t, 0.5, c.Sync.Step)
	assert.Equal(t, "median", c.Sync.GridMethod, "keys absent from the file keep defaults")
	assert.Equal(t, 50, c.Downsample.Points)
	assert.Equal(t, 10*time.Minute, c.Cache.TTL)
	assert.Equal(t, 4, c.Workers)

	ac, err := c.AlignConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, align.MethodKalman, ac.Method)
	assert.Equal(t, 0.2, ac.ProcessNoise)

	p, err := c.DownsampleParams()
	require.NoError(t, err)
	assert.Equal(t, downsample.PeakAware, p.Method)
	assert.True(t, p.PeakOnValue)
	assert.Equal(t, 90.0, p.PeakPercentile)

	o := c.DTWOptions()
	assert.Equal(t, 3, o.Window)
	assert.Equal(t, 1.5, o.SlopePenalty)

	codec, err := c.NewCodec()
	require.NoError(t, err)
	assert.Equal(t, cache.CodecSnappy, codec.Name())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "downsample:\n  method: minmax\n  points: 20\n")
	t.Setenv("TSALIGN_DOWNSAMPLE_METHOD", "uniform")
	t.Setenv("TSALIGN_POINTS", "30")
	t.Setenv("TSALIGN_CACHE_ENABLED", "1")
	t.Setenv("TSALIGN_CACHE_TTL", "90s")

	c, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "uniform", c.Downsample.Method)
	assert.Equal(t, 30, c.Downsample.Points)
	assert.True(t, c.Cache.Enabled)
	assert.Equal(t, 90*time.Second, c.Cache.TTL)
}

func TestLoad_Errors(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = config.Load(writeConfig(t, "sync:\n  methd: kalman_align\n"))
	assert.Error(t, err, "unknown keys are rejected")

	_, err = config.Load(writeConfig(t, "sync:\n  method: spline_magic\n"))
	assert.ErrorIs(t, err, series.ErrUnsupportedMethod)

	_, err = config.Load(writeConfig(t, "sync:\n  measurement_noise: 0\n"))
	assert.ErrorIs(t, err, series.ErrInvalidParameter)

	_, err = config.Load(writeConfig(t, "downsample:\n  points: 0\n"))
	assert.ErrorIs(t, err, series.ErrInvalidTarget)

	_, err = config.Load(writeConfig(t, "cache:\n  codec: lz4\n"))
	assert.ErrorIs(t, err, series.ErrUnsupportedMethod)

	_, err = config.Load(writeConfig(t, "distance:\n  window: -2\n"))
	assert.ErrorIs(t, err, series.ErrInvalidParameter)

	t.Setenv("TSALIGN_WORKERS", "many")
	_, err = config.Load("")
	assert.ErrorIs(t, err, series.ErrInvalidParameter)
}

func TestLoad_EmptyFile(t *testing.T) {
	c, err := config.Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), c)
}

func TestOpenStore(t *testing.T) {
	c := config.Default()
	s, err := c.OpenStore()
	require.NoError(t, err)
	_, isMemory := s.(*cache.Memory)
	assert.True(t, isMemory)
	require.NoError(t, s.Close())

	c.Cache.Dir = t.TempDir()
	s, err = c.OpenStore()
	require.NoError(t, err)
	_, isBadger := s.(*cache.Badger)
	assert.True(t, isBadger)
	require.NoError(t, s.Close())
}
