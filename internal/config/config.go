// Package config loads the tsalign command configuration: defaults, an
// optional YAML file and TSALIGN_* environment overrides, in that order.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/tsalign/align"
	"github.com/katalvlaran/tsalign/cache"
	"github.com/katalvlaran/tsalign/downsample"
	"github.com/katalvlaran/tsalign/dtw"
	"github.com/katalvlaran/tsalign/grid"
	"github.com/katalvlaran/tsalign/kalman"
	"github.com/katalvlaran/tsalign/resample"
	"github.com/katalvlaran/tsalign/series"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "TSALIGN_"

// Config holds the application configuration.
type Config struct {
	Sync       SyncConfig       `yaml:"sync"`
	Downsample DownsampleConfig `yaml:"downsample"`
	Distance   DistanceConfig   `yaml:"distance"`
	Cache      CacheConfig      `yaml:"cache"`
	Workers    int              `yaml:"workers"` // 0 uses GOMAXPROCS
}

// SyncConfig configures the sync command.
type SyncConfig struct {
	Method           string  `yaml:"method"`
	GridMethod       string  `yaml:"grid_method"`
	InterpMethod     string  `yaml:"interp_method"`
	Step             float64 `yaml:"dt"`
	ProcessNoise     float64 `yaml:"process_noise"`
	MeasurementNoise float64 `yaml:"measurement_noise"`
	MaxGridPoints    int     `yaml:"max_grid_points"`
}

// DownsampleConfig configures the downsample command.
type DownsampleConfig struct {
	Method            string  `yaml:"method"`
	Points            int     `yaml:"points"`
	VarianceThreshold float64 `yaml:"variance_threshold"`
	Window            int     `yaml:"window"`
	Representative    string  `yaml:"representative"`
	PeakPercentile    float64 `yaml:"peak_threshold_percentile"`
	PeakOnValue       bool    `yaml:"peak_on_value"`
}

// DistanceConfig configures the distance command.
type DistanceConfig struct {
	Window       int     `yaml:"window"` // -1 unlimited
	SlopePenalty float64 `yaml:"slope_penalty"`
}

// CacheConfig configures the result cache.
type CacheConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Dir      string        `yaml:"dir"`      // empty keeps the cache in memory
	Capacity int           `yaml:"capacity"` // memory store entries
	TTL      time.Duration `yaml:"ttl"`
	Codec    string        `yaml:"codec"`
	Level    int           `yaml:"level"` // zstd 1..4
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Sync: SyncConfig{
			Method:           string(align.DefaultMethod),
			GridMethod:       string(grid.DefaultMethod),
			InterpMethod:     string(resample.DefaultMethod),
			ProcessNoise:     kalman.DefaultProcessNoise,
			MeasurementNoise: kalman.DefaultMeasurementNoise,
			MaxGridPoints:    grid.DefaultMaxPoints,
		},
		Downsample: DownsampleConfig{
			Method:            string(downsample.DefaultMethod),
			Points:            1000,
			VarianceThreshold: downsample.DefaultVarianceThreshold,
			Representative:    string(downsample.DefaultRepresentative),
			PeakPercentile:    downsample.DefaultPeakPercentile,
		},
		Distance: DistanceConfig{Window: dtw.Unlimited},
		Cache: CacheConfig{
			Capacity: 256,
			TTL:      time.Hour,
			Codec:    cache.CodecZstd,
			Level:    2,
		},
	}
}

// Load returns Default overlaid with the YAML file at path (skipped when
// path is empty) and then with the environment. The result is validated.
func Load(path string) (*Config, error) {
	c := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := c.decode(raw); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := c.applyEnv(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// decode overlays a YAML document; unknown keys are rejected.
func (c *Config) decode(raw []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	return nil
}

func (c *Config) applyEnv() error {
	c.Sync.Method = getEnv("SYNC_METHOD", c.Sync.Method)
	c.Sync.GridMethod = getEnv("GRID_METHOD", c.Sync.GridMethod)
	c.Sync.InterpMethod = getEnv("INTERP_METHOD", c.Sync.InterpMethod)
	c.Downsample.Method = getEnv("DOWNSAMPLE_METHOD", c.Downsample.Method)
	c.Cache.Dir = getEnv("CACHE_DIR", c.Cache.Dir)
	c.Cache.Codec = getEnv("CACHE_CODEC", c.Cache.Codec)
	c.Cache.Enabled = getEnvBool("CACHE_ENABLED", c.Cache.Enabled)

	var err error
	if c.Sync.Step, err = getEnvFloat("DT", c.Sync.Step); err != nil {
		return err
	}
	if c.Sync.ProcessNoise, err = getEnvFloat("PROCESS_NOISE", c.Sync.ProcessNoise); err != nil {
		return err
	}
	if c.Sync.MeasurementNoise, err = getEnvFloat("MEASUREMENT_NOISE", c.Sync.MeasurementNoise); err != nil {
		return err
	}
	if c.Downsample.Points, err = getEnvInt("POINTS", c.Downsample.Points); err != nil {
		return err
	}
	if c.Workers, err = getEnvInt("WORKERS", c.Workers); err != nil {
		return err
	}
	if c.Cache.Level, err = getEnvInt("CACHE_LEVEL", c.Cache.Level); err != nil {
		return err
	}
	if c.Cache.TTL, err = getEnvDuration("CACHE_TTL", c.Cache.TTL); err != nil {
		return err
	}

	return nil
}

// Validate checks the configuration by building every derived value once.
func (c *Config) Validate() error {
	if _, err := c.AlignConfig(nil); err != nil {
		return fmt.Errorf("sync: %w", err)
	}
	if _, err := c.DownsampleParams(); err != nil {
		return fmt.Errorf("downsample: %w", err)
	}
	if c.Downsample.Points <= 0 {
		return fmt.Errorf("downsample: points %d: %w", c.Downsample.Points, series.ErrInvalidTarget)
	}
	if c.Distance.Window < dtw.Unlimited {
		return fmt.Errorf("distance: window %d: %w", c.Distance.Window, series.ErrInvalidParameter)
	}
	if !series.IsFinite(c.Distance.SlopePenalty) || c.Distance.SlopePenalty < 0 {
		return fmt.Errorf("distance: slope penalty %v: %w", c.Distance.SlopePenalty, series.ErrInvalidParameter)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers %d: %w", c.Workers, series.ErrInvalidParameter)
	}
	switch c.Cache.Codec {
	case cache.CodecIdentity, cache.CodecSnappy, cache.CodecZstd:
	default:
		return fmt.Errorf("cache: codec %q: %w", c.Cache.Codec, series.ErrUnsupportedMethod)
	}
	if c.Cache.Level < 0 || c.Cache.Level > 4 {
		return fmt.Errorf("cache: level %d not in 0..4: %w", c.Cache.Level, series.ErrInvalidParameter)
	}
	if c.Cache.Capacity < 1 || c.Cache.TTL < 0 {
		return fmt.Errorf("cache: capacity %d ttl %s: %w", c.Cache.Capacity, c.Cache.TTL, series.ErrInvalidParameter)
	}

	return nil
}

// AlignConfig converts the sync section to align.Config.
func (c *Config) AlignConfig(logger *slog.Logger) (align.Config, error) {
	method, err := align.ParseMethod(c.Sync.Method)
	if err != nil {
		return align.Config{}, err
	}

	return align.NewConfig(method,
		align.WithGridMethod(grid.Method(c.Sync.GridMethod)),
		align.WithInterpMethod(resample.Method(c.Sync.InterpMethod)),
		align.WithStep(c.Sync.Step),
		align.WithProcessNoise(c.Sync.ProcessNoise),
		align.WithMeasurementNoise(c.Sync.MeasurementNoise),
		align.WithMaxGridPoints(c.Sync.MaxGridPoints),
		align.WithLogger(logger),
	)
}

// DownsampleParams converts the downsample section to downsample.Params.
func (c *Config) DownsampleParams() (downsample.Params, error) {
	method, err := downsample.ParseMethod(c.Downsample.Method)
	if err != nil {
		return downsample.Params{}, err
	}
	opts := []downsample.Option{
		downsample.WithVarianceThreshold(c.Downsample.VarianceThreshold),
		downsample.WithWindow(c.Downsample.Window),
		downsample.WithRepresentative(downsample.Representative(c.Downsample.Representative)),
		downsample.WithPeakPercentile(c.Downsample.PeakPercentile),
	}
	if c.Downsample.PeakOnValue {
		opts = append(opts, downsample.WithPeakOnValue())
	}

	return downsample.NewParams(method, opts...)
}

// DTWOptions converts the distance section to dtw.Options.
func (c *Config) DTWOptions() *dtw.Options {
	o := dtw.DefaultOptions()
	o.Window = c.Distance.Window
	o.SlopePenalty = c.Distance.SlopePenalty

	return &o
}

// OpenStore opens the configured cache tier: badger under Dir, otherwise an
// in-process LRU.
func (c *Config) OpenStore() (cache.Store, error) {
	if c.Cache.Dir == "" {
		return cache.NewMemory(c.Cache.Capacity, c.Cache.TTL), nil
	}

	return cache.OpenBadger(cache.BadgerOptions{Dir: c.Cache.Dir, TTL: c.Cache.TTL})
}

// NewCodec builds the configured payload codec.
func (c *Config) NewCodec() (cache.Codec, error) {
	return cache.NewCodec(c.Cache.Codec, c.Cache.Level)
}

// Helper functions for environment variables.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(EnvPrefix + key); value != "" {
		return value
	}

	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(EnvPrefix + key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("env %s%s=%q: %w", EnvPrefix, key, value, series.ErrInvalidParameter)
	}

	return n, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(EnvPrefix + key)
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("env %s%s=%q: %w", EnvPrefix, key, value, series.ErrInvalidParameter)
	}

	return f, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(EnvPrefix + key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("env %s%s=%q: %w", EnvPrefix, key, value, series.ErrInvalidParameter)
	}

	return d, nil
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(EnvPrefix + key); value != "" {
		return value == "true" || value == "1"
	}

	return defaultValue
}
