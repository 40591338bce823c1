package resample

import (
	"fmt"
	"math"
	"sort"

	"github.com/katalvlaran/tsalign/series"
)

// Method names an interpolation strategy.
type Method string

const (
	MethodLinear  Method = "linear"
	MethodCubic   Method = "cubic"
	MethodNearest Method = "nearest"
)

// DefaultMethod is used when no interpolation method is configured.
const DefaultMethod = MethodLinear

// Interpolator evaluates knots (xs strictly increasing, len(xs) == len(ys) >= 1)
// at arbitrary targets. The result always has len(targets) entries.
type Interpolator interface {
	Interpolate(xs, ys, targets []float64) []float64
	Method() Method
}

// Compile-time checks.
var (
	_ Interpolator = Linear{}
	_ Interpolator = Cubic{}
	_ Interpolator = Nearest{}
)

// ParseMethod maps a user-facing name to a Method; "" yields DefaultMethod.
func ParseMethod(name string) (Method, error) {
	switch m := Method(name); m {
	case MethodLinear, MethodCubic, MethodNearest:
		return m, nil
	case "":
		return DefaultMethod, nil
	default:
		return "", fmt.Errorf("interp method %q: %w", name, series.ErrUnsupportedMethod)
	}
}

// For returns the strategy for m.
func For(m Method) (Interpolator, error) {
	switch m {
	case MethodLinear, "":
		return Linear{}, nil
	case MethodCubic:
		return Cubic{}, nil
	case MethodNearest:
		return Nearest{}, nil
	default:
		return nil, fmt.Errorf("interp method %q: %w", m, series.ErrUnsupportedMethod)
	}
}

// Linear interpolates piecewise linearly and holds the edge values outside
// the knot range. A NaN knot only affects targets in its two adjacent segments.
type Linear struct{}

// Method implements Interpolator.
func (Linear) Method() Method { return MethodLinear }

// Interpolate implements Interpolator.
func (Linear) Interpolate(xs, ys, targets []float64) []float64 {
	out := make([]float64, len(targets))
	for k, x := range targets {
		out[k] = linearAt(xs, ys, x)
	}

	return out
}

func linearAt(xs, ys []float64, x float64) float64 {
	if math.IsNaN(x) {
		return math.NaN()
	}
	n := len(xs)
	i := sort.SearchFloat64s(xs, x)
	switch {
	case i == 0:
		return ys[0]
	case i == n:
		return ys[n-1]
	case xs[i] == x:
		return ys[i]
	}
	w := (x - xs[i-1]) / (xs[i] - xs[i-1])

	return ys[i-1] + w*(ys[i]-ys[i-1])
}

// Nearest picks the closest knot; a target exactly halfway resolves to the
// left knot. Targets outside the knot range take the edge knot.
type Nearest struct{}

// Method implements Interpolator.
func (Nearest) Method() Method { return MethodNearest }

// Interpolate implements Interpolator.
func (Nearest) Interpolate(xs, ys, targets []float64) []float64 {
	out := make([]float64, len(targets))
	n := len(xs)
	for k, x := range targets {
		if math.IsNaN(x) {
			out[k] = math.NaN()
			continue
		}
		i := sort.SearchFloat64s(xs, x)
		switch {
		case i == 0:
			out[k] = ys[0]
		case i == n:
			out[k] = ys[n-1]
		case x-xs[i-1] <= xs[i]-x:
			out[k] = ys[i-1]
		default:
			out[k] = ys[i]
		}
	}

	return out
}

// Cubic fits a natural cubic spline through the knots and evaluates it inside
// [xs[0], xs[n-1]] only. Targets outside that support fall back to Linear, so
// no unstable extrapolated values appear at grid boundaries.
//
// With fewer than three knots, or when any knot value is not finite, the whole
// series is evaluated with Linear: a spline solve would spread a single NaN
// into every segment.
type Cubic struct{}

// Method implements Interpolator.
func (Cubic) Method() Method { return MethodCubic }

// Interpolate implements Interpolator.
func (Cubic) Interpolate(xs, ys, targets []float64) []float64 {
	if len(xs) < 3 || series.CountFinite(ys) != len(ys) {
		return Linear{}.Interpolate(xs, ys, targets)
	}

	m := naturalSecondDerivatives(xs, ys)
	n := len(xs)
	out := make([]float64, len(targets))
	for k, x := range targets {
		if math.IsNaN(x) || x < xs[0] || x > xs[n-1] {
			out[k] = linearAt(xs, ys, x)
			continue
		}
		i := sort.SearchFloat64s(xs, x)
		if xs[i] == x {
			out[k] = ys[i]
			continue
		}
		// x lies in (xs[i-1], xs[i])
		lo := i - 1
		h := xs[i] - xs[lo]
		a := xs[i] - x
		b := x - xs[lo]
		out[k] = m[lo]*a*a*a/(6*h) + m[i]*b*b*b/(6*h) +
			(ys[lo]/h-m[lo]*h/6)*a + (ys[i]/h-m[i]*h/6)*b
	}

	return out
}

// naturalSecondDerivatives solves the tridiagonal system of a natural spline
// (M[0] = M[n-1] = 0) with the Thomas algorithm. Requires n >= 3.
func naturalSecondDerivatives(xs, ys []float64) []float64 {
	n := len(xs)
	m := make([]float64, n)
	inner := n - 2

	diag := make([]float64, inner)
	upper := make([]float64, inner)
	rhs := make([]float64, inner)
	for j := 0; j < inner; j++ {
		i := j + 1
		h0 := xs[i] - xs[i-1]
		h1 := xs[i+1] - xs[i]
		diag[j] = 2 * (h0 + h1)
		upper[j] = h1
		rhs[j] = 6 * ((ys[i+1]-ys[i])/h1 - (ys[i]-ys[i-1])/h0)
	}

	// forward sweep; lower[j] = h0 of row j = xs[j+1]-xs[j]
	for j := 1; j < inner; j++ {
		lower := xs[j+1] - xs[j]
		w := lower / diag[j-1]
		diag[j] -= w * upper[j-1]
		rhs[j] -= w * rhs[j-1]
	}
	// back substitution
	m[inner] = rhs[inner-1] / diag[inner-1]
	for j := inner - 2; j >= 0; j-- {
		m[j+1] = (rhs[j] - upper[j]*m[j+2]) / diag[j]
	}

	return m
}
