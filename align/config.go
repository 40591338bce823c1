package align

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/katalvlaran/tsalign/grid"
	"github.com/katalvlaran/tsalign/kalman"
	"github.com/katalvlaran/tsalign/resample"
	"github.com/katalvlaran/tsalign/series"
)

// Method selects the synchronization strategy.
type Method string

const (
	// MethodCommonGrid resamples every series onto the common grid.
	MethodCommonGrid Method = "common_grid_interpolate"

	// MethodKalman resamples onto the common grid, then Kalman/RTS-smooths each series.
	MethodKalman Method = "kalman_align"
)

// DefaultMethod is used by ParseMethod for an empty name.
const DefaultMethod = MethodCommonGrid

// ParseMethod maps a user-facing name to a Method.
func ParseMethod(name string) (Method, error) {
	switch m := Method(name); m {
	case MethodCommonGrid, MethodKalman:
		return m, nil
	case "":
		return DefaultMethod, nil
	default:
		return "", fmt.Errorf("sync method %q: %w", name, series.ErrUnsupportedMethod)
	}
}

// Config is the validated, immutable configuration of Synchronize.
// Build it with NewConfig; the zero value is not valid.
type Config struct {
	Method           Method
	GridMethod       grid.Method
	InterpMethod     resample.Method
	Step             float64 // 0 derives the step from the data
	ProcessNoise     float64 // kalman_align only
	MeasurementNoise float64 // kalman_align only
	MaxGridPoints    int
	Logger           *slog.Logger
}

// Option mutates a Config under construction.
type Option func(*Config)

// WithGridMethod sets the reducer used to derive the grid step.
func WithGridMethod(m grid.Method) Option { return func(c *Config) { c.GridMethod = m } }

// WithInterpMethod sets the resampling strategy.
func WithInterpMethod(m resample.Method) Option { return func(c *Config) { c.InterpMethod = m } }

// WithStep forces an explicit grid step.
func WithStep(dt float64) Option { return func(c *Config) { c.Step = dt } }

// WithProcessNoise sets the Kalman process noise q.
func WithProcessNoise(q float64) Option { return func(c *Config) { c.ProcessNoise = q } }

// WithMeasurementNoise sets the Kalman measurement noise r.
func WithMeasurementNoise(r float64) Option { return func(c *Config) { c.MeasurementNoise = r } }

// WithMaxGridPoints caps the common grid size (0 disables the cap).
func WithMaxGridPoints(n int) Option { return func(c *Config) { c.MaxGridPoints = n } }

// WithLogger routes diagnostics to l.
func WithLogger(l *slog.Logger) Option { return func(c *Config) { c.Logger = l } }

// NewConfig applies opts over the defaults and validates the result once.
func NewConfig(method Method, opts ...Option) (Config, error) {
	c := Config{
		Method:           method,
		GridMethod:       grid.DefaultMethod,
		InterpMethod:     resample.DefaultMethod,
		ProcessNoise:     kalman.DefaultProcessNoise,
		MeasurementNoise: kalman.DefaultMeasurementNoise,
		MaxGridPoints:    grid.DefaultMaxPoints,
	}
	for _, opt := range opts {
		opt(&c)
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}

	return c, nil
}

// Validate checks every field against its domain.
//
// Errors:
//   - series.ErrUnsupportedMethod for an unknown method, grid method or interp method.
//   - series.ErrInvalidStep for a negative or non-finite step.
//   - series.ErrInvalidParameter for bad noise or a negative grid cap.
func (c Config) Validate() error {
	if _, err := ParseMethod(string(c.Method)); err != nil || c.Method == "" {
		return fmt.Errorf("sync method %q: %w", c.Method, series.ErrUnsupportedMethod)
	}
	if _, err := grid.ParseMethod(string(c.GridMethod)); err != nil {
		return err
	}
	if _, err := resample.For(c.InterpMethod); err != nil {
		return err
	}
	if !series.IsFinite(c.Step) || c.Step < 0 {
		return fmt.Errorf("step %v: %w", c.Step, series.ErrInvalidStep)
	}
	if c.MaxGridPoints < 0 {
		return fmt.Errorf("max grid points %d: %w", c.MaxGridPoints, series.ErrInvalidParameter)
	}
	if err := c.kalmanOptions().Validate(); err != nil {
		return err
	}

	return nil
}

func (c Config) gridOptions() []grid.Option {
	return []grid.Option{
		grid.WithMethod(c.GridMethod),
		grid.WithStep(c.Step),
		grid.WithMaxPoints(c.MaxGridPoints),
	}
}

func (c Config) kalmanOptions() kalman.Options {
	return kalman.Options{
		ProcessNoise:      c.ProcessNoise,
		MeasurementNoise:  c.MeasurementNoise,
		InitialCovariance: kalman.DefaultInitialCovariance,
		Logger:            c.Logger,
	}
}

// Parameters returns the effective configuration as a flat map for metadata.
func (c Config) Parameters() map[string]any {
	p := map[string]any{
		"method":        string(c.Method),
		"grid_method":   string(c.GridMethod),
		"interp_method": string(c.InterpMethod),
	}
	if c.Step > 0 {
		p["dt"] = c.Step
	}
	if c.Method == MethodKalman {
		p["process_noise"] = c.ProcessNoise
		p["measurement_noise"] = c.MeasurementNoise
	}

	return p
}
