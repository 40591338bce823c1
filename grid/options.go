package grid

import (
	"fmt"

	"github.com/katalvlaran/tsalign/series"
)

// Method selects how the pooled positive time deltas are reduced to a single step.
type Method string

const (
	Median Method = "median"
	Min    Method = "min"
	Max    Method = "max"
	Mean   Method = "mean"
)

// Defaults (single source of truth for zero-value behaviour).
const (
	// DefaultMethod is the delta reducer used when none is configured.
	DefaultMethod = Median

	// DefaultMaxPoints bounds the grid size so a tiny step cannot exhaust memory.
	DefaultMaxPoints = 1_000_000
)

// ParseMethod maps a user-facing name to a Method.
func ParseMethod(name string) (Method, error) {
	switch m := Method(name); m {
	case Median, Min, Max, Mean:
		return m, nil
	case "":
		return DefaultMethod, nil
	default:
		return "", fmt.Errorf("grid method %q: %w", name, series.ErrUnsupportedMethod)
	}
}

// Option mutates Options. Setters never fail; Build validates the result.
type Option func(*Options)

// Options is the effective grid configuration.
type Options struct {
	Method    Method
	Step      float64 // 0 means derive from the data
	MaxPoints int
}

// WithMethod sets the delta reducer.
func WithMethod(m Method) Option { return func(o *Options) { o.Method = m } }

// WithStep forces an explicit step instead of deriving one from the data.
func WithStep(dt float64) Option { return func(o *Options) { o.Step = dt } }

// WithMaxPoints overrides DefaultMaxPoints.
func WithMaxPoints(n int) Option { return func(o *Options) { o.MaxPoints = n } }

func gatherOptions(opts ...Option) Options {
	o := Options{Method: DefaultMethod, MaxPoints: DefaultMaxPoints}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}
