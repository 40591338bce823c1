package grid

import (
	"fmt"
	"math"
	"sort"

	"github.com/katalvlaran/tsalign/series"
)

const opBuild = "grid.Build"

// Grid is the shared, evenly spaced time axis of several series.
//
// Points are start + k*Step for k = 0..len(Points)-1, all strictly below End
// (half-open window [Start, End)), so Points is strictly increasing.
type Grid struct {
	Points []float64
	Start  float64
	End    float64
	Step   float64
	Method Method // reducer used for Step; empty when Step was explicit
}

// Len returns the number of grid points.
func (g Grid) Len() int { return len(g.Points) }

// Build computes the common grid of the given timestamp arrays.
//
// Implementation:
//   - Stage 1: per series, take the finite min/max; start = max(mins), end = min(maxes).
//   - Stage 2: step = explicit override, or the configured reduction of every
//     positive delta of every sorted series.
//   - Stage 3: lay out start + k*step while the point stays below end.
//
// Errors:
//   - series.ErrEmptyInput       no series, or a series without a finite timestamp.
//   - series.ErrNoOverlap        start >= end.
//   - series.ErrInvalidStep      explicit step not finite or not > 0.
//   - series.ErrInsufficientData no positive delta to derive a step from.
//   - series.ErrUnsupportedMethod unknown reducer.
//   - series.ErrGridTooLarge     more than MaxPoints points.
//
// Complexity: O(N log N) over the total sample count N, plus O(len(grid)).
func Build(times [][]float64, opts ...Option) (Grid, error) {
	o := gatherOptions(opts...)
	if len(times) == 0 {
		return Grid{}, fmt.Errorf("%s: %w", opBuild, series.ErrEmptyInput)
	}

	start, end, err := Overlap(times)
	if err != nil {
		return Grid{}, fmt.Errorf("%s: %w", opBuild, err)
	}

	step, method := o.Step, Method("")
	switch {
	case step == 0:
		method = o.Method
		if step, err = DeriveStep(times, method); err != nil {
			return Grid{}, fmt.Errorf("%s: %w", opBuild, err)
		}
	case !series.IsFinite(step) || step < 0:
		return Grid{}, fmt.Errorf("%s: step %v: %w", opBuild, step, series.ErrInvalidStep)
	}

	points, err := arange(start, end, step, o.MaxPoints)
	if err != nil {
		return Grid{}, fmt.Errorf("%s: %w", opBuild, err)
	}

	return Grid{Points: points, Start: start, End: end, Step: step, Method: method}, nil
}

// Overlap returns the common window [max(starts), min(ends)] of all series.
func Overlap(times [][]float64) (start, end float64, err error) {
	start, end = math.Inf(-1), math.Inf(1)
	for i, t := range times {
		lo, hi, ok := series.Bounds(t)
		if !ok {
			return 0, 0, fmt.Errorf("series #%d has no finite timestamp: %w", i, series.ErrEmptyInput)
		}
		start = math.Max(start, lo)
		end = math.Min(end, hi)
	}
	if start >= end {
		return 0, 0, fmt.Errorf("window [%v, %v]: %w", start, end, series.ErrNoOverlap)
	}

	return start, end, nil
}

// DeriveStep pools the positive deltas of every sorted series and reduces them by m.
func DeriveStep(times [][]float64, m Method) (float64, error) {
	var deltas []float64
	for _, t := range times {
		deltas = append(deltas, positiveDeltas(t)...)
	}
	if len(deltas) == 0 {
		return 0, fmt.Errorf("no positive time delta: %w", series.ErrInsufficientData)
	}

	return Reduce(deltas, m)
}

// Reduce applies m to xs. xs must be non-empty; it is not modified.
func Reduce(xs []float64, m Method) (float64, error) {
	if len(xs) == 0 {
		return 0, series.ErrInsufficientData
	}
	switch m {
	case Median, "":
		return median(xs), nil
	case Min:
		out := xs[0]
		for _, x := range xs[1:] {
			out = math.Min(out, x)
		}
		return out, nil
	case Max:
		out := xs[0]
		for _, x := range xs[1:] {
			out = math.Max(out, x)
		}
		return out, nil
	case Mean:
		sum := 0.0
		for _, x := range xs {
			sum += x
		}
		return sum / float64(len(xs)), nil
	default:
		return 0, fmt.Errorf("grid method %q: %w", m, series.ErrUnsupportedMethod)
	}
}

// positiveDeltas returns the strictly positive consecutive differences of the
// finite, sorted timestamps of t.
func positiveDeltas(t []float64) []float64 {
	finite := make([]float64, 0, len(t))
	for _, x := range t {
		if series.IsFinite(x) {
			finite = append(finite, x)
		}
	}
	sort.Float64s(finite)

	out := make([]float64, 0, len(finite))
	for i := 1; i < len(finite); i++ {
		if d := finite[i] - finite[i-1]; d > 0 {
			out = append(out, d)
		}
	}

	return out
}

func median(xs []float64) float64 {
	s := append([]float64(nil), xs...)
	sort.Float64s(s)
	mid := len(s) / 2
	if len(s)%2 == 1 {
		return s[mid]
	}

	return (s[mid-1] + s[mid]) / 2
}

// arange lays out start + k*step for every k keeping the point strictly below end.
func arange(start, end, step float64, maxPoints int) ([]float64, error) {
	span := (end - start) / step
	if maxPoints > 0 && span > float64(maxPoints) {
		return nil, fmt.Errorf("%.0f points > %d: %w", math.Ceil(span), maxPoints, series.ErrGridTooLarge)
	}

	n := int(math.Ceil(span))
	for n > 1 && start+float64(n-1)*step >= end {
		n--
	}
	if n < 1 {
		n = 1
	}

	points := make([]float64, n)
	for k := range points {
		points[k] = start + float64(k)*step
	}

	return points, nil
}
