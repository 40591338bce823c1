package downsample

import (
	"fmt"

	"github.com/katalvlaran/tsalign/series"
)

// Method names a decimation algorithm.
type Method string

const (
	LTTB      Method = "lttb"
	MinMax    Method = "minmax"
	Adaptive  Method = "adaptive"
	Uniform   Method = "uniform"
	PeakAware Method = "peak_aware"
)

// Representative selects the point an adaptive bucket keeps.
type Representative string

const (
	// ClosestToMean keeps the point whose value is closest to the bucket mean.
	ClosestToMean Representative = "closest_to_mean"

	// FirstIndex keeps the first point of the bucket.
	FirstIndex Representative = "first_index"
)

// Defaults (single source of truth for zero-value behaviour).
const (
	// DefaultMethod is used by ParseMethod for an empty name.
	DefaultMethod = LTTB

	// DefaultVarianceThreshold marks a point as high-variance when its
	// normalised local variance exceeds it.
	DefaultVarianceThreshold = 0.1

	// DefaultPeakPercentile is the score percentile above which a point is a peak.
	DefaultPeakPercentile = 95.0

	// DefaultRepresentative is the adaptive bucket policy.
	DefaultRepresentative = ClosestToMean

	// DensityBoost is the bucket weight of a high-variance point (others weigh 1).
	DensityBoost = 4.0
)

// ParseMethod maps a user-facing name to a Method.
func ParseMethod(name string) (Method, error) {
	switch m := Method(name); m {
	case LTTB, MinMax, Adaptive, Uniform, PeakAware:
		return m, nil
	case "":
		return DefaultMethod, nil
	default:
		return "", fmt.Errorf("downsample method %q: %w", name, series.ErrUnsupportedMethod)
	}
}

// Params is the validated configuration of Downsample. Build it with NewParams.
type Params struct {
	Method            Method
	VarianceThreshold float64        // adaptive, in (0, 1]
	Window            int            // adaptive rolling window; 0 derives it from the budget
	Representative    Representative // adaptive
	PeakPercentile    float64        // peak_aware, in (0, 100)
	PeakOnValue       bool           // peak_aware scores the raw value instead of |value|
}

// Option mutates Params under construction.
type Option func(*Params)

// WithVarianceThreshold sets the adaptive high-variance threshold.
func WithVarianceThreshold(th float64) Option {
	return func(p *Params) { p.VarianceThreshold = th }
}

// WithWindow sets the adaptive rolling-variance window (points).
func WithWindow(w int) Option { return func(p *Params) { p.Window = w } }

// WithRepresentative sets the adaptive per-bucket policy.
func WithRepresentative(r Representative) Option {
	return func(p *Params) { p.Representative = r }
}

// WithPeakPercentile sets the peak threshold percentile.
func WithPeakPercentile(pct float64) Option { return func(p *Params) { p.PeakPercentile = pct } }

// WithPeakOnValue scores peaks on the signed value.
func WithPeakOnValue() Option { return func(p *Params) { p.PeakOnValue = true } }

// NewParams applies opts over the defaults and validates the result once.
func NewParams(method Method, opts ...Option) (Params, error) {
	p := Params{
		Method:            method,
		VarianceThreshold: DefaultVarianceThreshold,
		Representative:    DefaultRepresentative,
		PeakPercentile:    DefaultPeakPercentile,
	}
	for _, opt := range opts {
		opt(&p)
	}
	if err := p.Validate(); err != nil {
		return Params{}, err
	}

	return p, nil
}

// Validate checks every field against its domain.
func (p Params) Validate() error {
	switch p.Method {
	case LTTB, MinMax, Adaptive, Uniform, PeakAware:
	default:
		return fmt.Errorf("downsample method %q: %w", p.Method, series.ErrUnsupportedMethod)
	}
	if !(p.VarianceThreshold > 0 && p.VarianceThreshold <= 1) {
		return fmt.Errorf("variance threshold %v not in (0, 1]: %w", p.VarianceThreshold, series.ErrInvalidParameter)
	}
	if !(p.PeakPercentile > 0 && p.PeakPercentile < 100) {
		return fmt.Errorf("peak percentile %v not in (0, 100): %w", p.PeakPercentile, series.ErrInvalidParameter)
	}
	if p.Window < 0 {
		return fmt.Errorf("window %d: %w", p.Window, series.ErrInvalidParameter)
	}
	switch p.Representative {
	case ClosestToMean, FirstIndex:
	default:
		return fmt.Errorf("representative %q: %w", p.Representative, series.ErrUnsupportedMethod)
	}

	return nil
}

// Parameters returns the effective configuration as a flat map for metadata.
func (p Params) Parameters() map[string]any {
	m := map[string]any{"method": string(p.Method)}
	switch p.Method {
	case Adaptive:
		m["variance_threshold"] = p.VarianceThreshold
		m["representative"] = string(p.Representative)
		if p.Window > 0 {
			m["window"] = p.Window
		}
	case PeakAware:
		m["peak_threshold_percentile"] = p.PeakPercentile
		m["peak_on_value"] = p.PeakOnValue
	}

	return m
}
