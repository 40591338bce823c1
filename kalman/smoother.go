package kalman

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/tsalign/matrix"
	"github.com/katalvlaran/tsalign/series"
)

const opSmooth = "kalman.Smooth"

// Stats reports the deterministic fallbacks taken during one Smooth call.
type Stats struct {
	Steps             int // grid points processed
	ClampedSteps      int // time deltas replaced by MinStep
	SkippedUpdates    int // non-finite measurements (predict only)
	SingularFallbacks int // RTS steps that used a zero smoother gain
}

// Smooth runs the constant-velocity Kalman filter forward over (t, z) and the
// Rauch–Tung–Striebel smoother backward, returning one smoothed position per
// input point.
//
// Implementation:
//   - Stage 1: x0 = [first finite z, 0], P0 = p0·I. Step 0 is updated directly.
//   - Stage 2 (forward): for k ≥ 1, dt = t[k]−t[k−1] (clamped to MinStep when
//     ≤ 0), predict with F(dt), Q(dt), update when z[k] is finite. Priors and
//     posteriors are stored for every k.
//   - Stage 3 (backward): C = Pf[k]·F[k+1]ᵀ·Pp[k+1]⁻¹,
//     xs[k] = xf[k] + C·(xs[k+1] − xp[k+1]),
//     Ps[k] = Pf[k] + C·(Ps[k+1] − Pp[k+1])·Cᵀ.
//     When Pp[k+1] is singular (or its inverse is not finite) C = 0, i.e. the
//     smoothed state falls back to the filtered one; this is counted, never raised.
//
// The context is polled every few thousand steps so a caller deadline bounds
// the pass; cancellation returns ctx.Err() wrapped.
//
// Errors:
//   - series.ErrLengthMismatch, series.ErrEmptyInput, ErrInvalidNoise, context errors.
//
// Complexity:
//   - Time O(n), Space O(n).
func Smooth(ctx context.Context, t, z []float64, opts ...Option) ([]float64, Stats, error) {
	o := gatherOptions(opts...)
	var stats Stats
	if err := o.Validate(); err != nil {
		return nil, stats, fmt.Errorf("%s: %w", opSmooth, err)
	}
	if len(t) != len(z) {
		return nil, stats, fmt.Errorf("%s: %d times vs %d values: %w", opSmooth, len(t), len(z), series.ErrLengthMismatch)
	}
	n := len(z)
	if n == 0 {
		return nil, stats, fmt.Errorf("%s: %w", opSmooth, series.ErrEmptyInput)
	}
	stats.Steps = n

	out := make([]float64, n)
	first := firstFinite(z)
	if first < 0 {
		for i := range out {
			out[i] = math.NaN()
		}
		stats.SkippedUpdates = n

		return out, stats, nil
	}

	steps, err := forward(ctx, t, z, first, o, &stats)
	if err != nil {
		return nil, stats, fmt.Errorf("%s: %w", opSmooth, err)
	}
	xs, err := backward(ctx, steps, o, &stats)
	if err != nil {
		return nil, stats, fmt.Errorf("%s: %w", opSmooth, err)
	}
	for k, x := range xs {
		out[k], _ = x.At(0, 0)
	}

	return out, stats, nil
}

func forward(ctx context.Context, t, z []float64, first int, o Options, stats *Stats) ([]step, error) {
	m := newModel(o)
	n := len(z)
	steps := make([]step, n)

	x0, _ := matrix.NewFromRows([][]float64{{z[first]}, {0}})
	P0, _ := matrix.NewIdentity(2)
	P0, _ = matrix.Scale(P0, o.InitialCovariance)
	F0, _ := matrix.NewIdentity(2)

	xp, Pp := x0, P0
	var err error
	for k := 0; k < n; k++ {
		if k%checkEvery == 0 {
			if err = ctx.Err(); err != nil {
				return nil, err
			}
		}

		F := F0
		if k > 0 {
			dt, clamped := clampStep(t[k] - t[k-1])
			if clamped {
				stats.ClampedSteps++
			}
			F = transition(dt)
			xp, Pp, err = m.predict(F, processNoise(dt, m.q), steps[k-1].xFilt, steps[k-1].PFilt)
			if err != nil {
				return nil, fmt.Errorf("predict step %d: %w", k, err)
			}
		}

		xf, Pf := xp, Pp
		if series.IsFinite(z[k]) {
			if xf, Pf, err = m.update(xp, Pp, z[k]); err != nil {
				return nil, fmt.Errorf("update step %d: %w", k, err)
			}
		} else {
			stats.SkippedUpdates++
		}
		steps[k] = step{F: F, xPred: xp, PPred: Pp, xFilt: xf, PFilt: Pf}
	}

	return steps, nil
}

func backward(ctx context.Context, steps []step, o Options, stats *Stats) ([]*matrix.Dense, error) {
	n := len(steps)
	xs := make([]*matrix.Dense, n)
	Ps := make([]*matrix.Dense, n)
	xs[n-1], Ps[n-1] = steps[n-1].xFilt, steps[n-1].PFilt

	for k := n - 2; k >= 0; k-- {
		if k%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		cur, next := steps[k], steps[k+1]

		C, singular, err := smootherGain(cur.PFilt, next.F, next.PPred)
		if err != nil {
			return nil, fmt.Errorf("gain step %d: %w", k, err)
		}
		if singular {
			stats.SingularFallbacks++
			o.Logger.Debug("rts zero-gain fallback", "step", k)
			xs[k], Ps[k] = cur.xFilt, cur.PFilt
			continue
		}

		if xs[k], Ps[k], err = smoothStep(C, cur, next, xs[k+1], Ps[k+1]); err != nil {
			return nil, fmt.Errorf("smooth step %d: %w", k, err)
		}
	}

	return xs, nil
}

// smootherGain computes C = Pf·Fᵀ·Pp⁻¹. singular is true (and C nil) when Pp
// cannot be inverted within tolerance or the inverse is not finite.
func smootherGain(Pf, F, Pp *matrix.Dense) (C *matrix.Dense, singular bool, err error) {
	p00, _ := Pp.At(0, 0)
	p11, _ := Pp.At(1, 1)
	tol := singularRelTol * (math.Abs(p00) + math.Abs(p11))

	inv, err := matrix.InverseTol(Pp, tol)
	if err != nil {
		if errors.Is(err, matrix.ErrSingular) {
			return nil, true, nil
		}
		return nil, false, err
	}
	if !inv.IsFinite() {
		return nil, true, nil
	}

	Ft, err := matrix.Transpose(F)
	if err != nil {
		return nil, false, err
	}
	C, err = matrix.MulChain(Pf, Ft, inv)
	if err != nil {
		return nil, false, err
	}

	return C, false, nil
}

// smoothStep applies one RTS correction with gain C.
func smoothStep(C *matrix.Dense, cur, next step, xsNext, PsNext *matrix.Dense) (*matrix.Dense, *matrix.Dense, error) {
	dx, err := matrix.Sub(xsNext, next.xPred)
	if err != nil {
		return nil, nil, err
	}
	Cdx, err := matrix.Mul(C, dx)
	if err != nil {
		return nil, nil, err
	}
	x, err := matrix.Add(cur.xFilt, Cdx)
	if err != nil {
		return nil, nil, err
	}

	dP, err := matrix.Sub(PsNext, next.PPred)
	if err != nil {
		return nil, nil, err
	}
	Ct, err := matrix.Transpose(C)
	if err != nil {
		return nil, nil, err
	}
	CdPCt, err := matrix.MulChain(C, dP, Ct)
	if err != nil {
		return nil, nil, err
	}
	P, err := matrix.Add(cur.PFilt, CdPCt)
	if err != nil {
		return nil, nil, err
	}

	return x, P, nil
}
