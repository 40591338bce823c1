package resample

import (
	"fmt"
)

const opResample = "resample.Resample"

// Resample interpolates one series onto targets with method m.
// The output has exactly len(targets) entries.
func Resample(t, v, targets []float64, m Method) ([]float64, error) {
	interp, err := For(m)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opResample, err)
	}

	return With(interp, t, v, targets)
}

// With is Resample for an already selected strategy.
func With(interp Interpolator, t, v, targets []float64) ([]float64, error) {
	xs, ys, err := Prepare(t, v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opResample, err)
	}

	return interp.Interpolate(xs, ys, targets), nil
}
