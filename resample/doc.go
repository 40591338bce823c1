// Package resample interpolates a single irregular series onto an arbitrary
// target time axis.
//
// Raw samples first go through Prepare (drop non-finite timestamps, sort,
// average duplicated timestamps); the resulting knots are then evaluated by
// one of three strategies chosen up front:
//
//	Linear:  piecewise linear, edge values held outside the knot range
//	Cubic:   natural cubic spline inside the knot range, Linear outside it
//	Nearest: closest knot, ties to the left, edge knots outside the range
//
// Usage:
//
//	out, err := resample.Resample(t, v, grid.Points, resample.MethodCubic)
//
// No strategy introduces a NaN that is not adjacent to a NaN input value.
package resample
