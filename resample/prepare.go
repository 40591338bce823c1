package resample

import (
	"fmt"
	"math"
	"sort"

	"github.com/katalvlaran/tsalign/series"
)

// Prepare turns a raw series into interpolation knots.
//
// Implementation:
//   - Stage 1: drop samples whose timestamp is not finite.
//   - Stage 2: stable sort by time.
//   - Stage 3: collapse runs of equal timestamps into one knot whose value is
//     the mean of the run's finite values (NaN when none is finite). Values of
//     a run are summed in ascending order, so the result does not depend on
//     the order the duplicates arrived in.
//
// The returned xs are strictly increasing. Inputs are not modified.
//
// Errors:
//   - series.ErrLengthMismatch   len(t) != len(v).
//   - series.ErrEmptyInput       both arrays empty.
//   - series.ErrInsufficientData no finite timestamp.
func Prepare(t, v []float64) (xs, ys []float64, err error) {
	if len(t) != len(v) {
		return nil, nil, fmt.Errorf("%d times vs %d values: %w", len(t), len(v), series.ErrLengthMismatch)
	}
	if len(t) == 0 {
		return nil, nil, series.ErrEmptyInput
	}

	idx := make([]int, 0, len(t))
	for i, x := range t {
		if series.IsFinite(x) {
			idx = append(idx, i)
		}
	}
	if len(idx) == 0 {
		return nil, nil, fmt.Errorf("no finite timestamp: %w", series.ErrInsufficientData)
	}
	sort.SliceStable(idx, func(a, b int) bool { return t[idx[a]] < t[idx[b]] })

	xs = make([]float64, 0, len(idx))
	ys = make([]float64, 0, len(idx))
	run := make([]float64, 0, 4)
	for lo := 0; lo < len(idx); {
		hi := lo
		for hi < len(idx) && t[idx[hi]] == t[idx[lo]] {
			hi++
		}
		run = run[:0]
		for _, k := range idx[lo:hi] {
			if series.IsFinite(v[k]) {
				run = append(run, v[k])
			}
		}
		xs = append(xs, t[idx[lo]])
		ys = append(ys, meanOf(run))
		lo = hi
	}

	return xs, ys, nil
}

func meanOf(run []float64) float64 {
	switch len(run) {
	case 0:
		return math.NaN()
	case 1:
		return run[0]
	}
	sort.Float64s(run)
	sum := 0.0
	for _, x := range run {
		sum += x
	}

	return sum / float64(len(run))
}
