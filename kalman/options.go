package kalman

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/katalvlaran/tsalign/series"
)

// Defaults (single source of truth for zero-value behaviour).
const (
	// DefaultProcessNoise is the white-noise acceleration intensity q.
	DefaultProcessNoise = 0.01

	// DefaultMeasurementNoise is the position measurement variance r.
	DefaultMeasurementNoise = 0.1

	// DefaultInitialCovariance scales the identity used as P0.
	DefaultInitialCovariance = 1.0

	// MinStep replaces every non-positive (or NaN) time delta before predict.
	MinStep = 1e-6

	// singularRelTol is the pivot tolerance of the RTS inverse, relative to
	// the trace of the predicted covariance.
	singularRelTol = 1e-12

	// checkEvery is how many steps run between two context checks.
	checkEvery = 1024
)

// ErrInvalidNoise reports a noise setting outside q >= 0, r > 0, P0 > 0 (all finite).
// It also matches series.ErrInvalidParameter.
var ErrInvalidNoise = fmt.Errorf("kalman: noise must be finite with q >= 0, r > 0, p0 > 0: %w", series.ErrInvalidParameter)

// Option mutates Options.
type Option func(*Options)

// Options is the effective filter configuration.
type Options struct {
	ProcessNoise      float64
	MeasurementNoise  float64
	InitialCovariance float64
	Logger            *slog.Logger
}

// WithProcessNoise sets q.
func WithProcessNoise(q float64) Option { return func(o *Options) { o.ProcessNoise = q } }

// WithMeasurementNoise sets r.
func WithMeasurementNoise(r float64) Option { return func(o *Options) { o.MeasurementNoise = r } }

// WithInitialCovariance sets the P0 scale.
func WithInitialCovariance(p0 float64) Option {
	return func(o *Options) { o.InitialCovariance = p0 }
}

// WithLogger routes fallback diagnostics to l (debug level).
func WithLogger(l *slog.Logger) Option { return func(o *Options) { o.Logger = l } }

func gatherOptions(opts ...Option) Options {
	o := Options{
		ProcessNoise:      DefaultProcessNoise,
		MeasurementNoise:  DefaultMeasurementNoise,
		InitialCovariance: DefaultInitialCovariance,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return o
}

// Validate checks the noise settings.
func (o Options) Validate() error {
	switch {
	case !series.IsFinite(o.ProcessNoise) || o.ProcessNoise < 0,
		!series.IsFinite(o.MeasurementNoise) || o.MeasurementNoise <= 0,
		!series.IsFinite(o.InitialCovariance) || o.InitialCovariance <= 0:
		return fmt.Errorf("q=%v r=%v p0=%v: %w", o.ProcessNoise, o.MeasurementNoise, o.InitialCovariance, ErrInvalidNoise)
	}

	return nil
}
