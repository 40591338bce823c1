package kalman

import (
	"github.com/katalvlaran/tsalign/matrix"
	"github.com/katalvlaran/tsalign/series"
)

// step holds everything the forward pass records for one grid point.
// xPred/PPred are the prior (after predict), xFilt/PFilt the posterior
// (after update). F is the transition that produced the prior.
type step struct {
	F            *matrix.Dense
	xPred, xFilt *matrix.Dense // 2×1
	PPred, PFilt *matrix.Dense // 2×2
}

// model bundles the constant parts of the constant-velocity model.
type model struct {
	q, r float64
	H    *matrix.Dense // 1×2 observation [1 0]
	I    *matrix.Dense // 2×2 identity
}

func newModel(o Options) model {
	H, _ := matrix.NewFromRows([][]float64{{1, 0}})
	I, _ := matrix.NewIdentity(2)

	return model{q: o.ProcessNoise, r: o.MeasurementNoise, H: H, I: I}
}

// transition returns F(dt) = [[1, dt], [0, 1]].
func transition(dt float64) *matrix.Dense {
	F, _ := matrix.NewFromRows([][]float64{{1, dt}, {0, 1}})

	return F
}

// processNoise returns the discretized white-noise acceleration covariance
// q·[[dt⁴/4, dt³/2], [dt³/2, dt²]].
func processNoise(dt, q float64) *matrix.Dense {
	dt2 := dt * dt
	dt3 := dt2 * dt
	dt4 := dt3 * dt
	Q, _ := matrix.NewFromRows([][]float64{
		{q * dt4 / 4, q * dt3 / 2},
		{q * dt3 / 2, q * dt2},
	})

	return Q
}

// clampStep maps non-positive or NaN deltas to MinStep.
func clampStep(dt float64) (float64, bool) {
	if !(dt > 0) || !series.IsFinite(dt) {
		return MinStep, true
	}

	return dt, false
}

// predict advances (x, P) through F with process noise Q.
func (m model) predict(F, Q, x, P *matrix.Dense) (*matrix.Dense, *matrix.Dense, error) {
	xp, err := matrix.Mul(F, x)
	if err != nil {
		return nil, nil, err
	}
	Ft, err := matrix.Transpose(F)
	if err != nil {
		return nil, nil, err
	}
	FPFt, err := matrix.MulChain(F, P, Ft)
	if err != nil {
		return nil, nil, err
	}
	Pp, err := matrix.Add(FPFt, Q)
	if err != nil {
		return nil, nil, err
	}

	return xp, Pp, nil
}

// update corrects the prior against the scalar position measurement z.
//
//	S = H·P·Hᵀ + r = P[0,0] + r
//	K = P·Hᵀ / S
//	x = x + K·(z − H·x)
//	P = (I − K·H)·P
func (m model) update(x, P *matrix.Dense, z float64) (*matrix.Dense, *matrix.Dense, error) {
	p00, _ := P.At(0, 0)
	p10, _ := P.At(1, 0)
	s := p00 + m.r
	K, err := matrix.NewFromRows([][]float64{{p00 / s}, {p10 / s}})
	if err != nil {
		return nil, nil, err
	}

	pos, _ := x.At(0, 0)
	correction, err := matrix.Scale(K, z-pos)
	if err != nil {
		return nil, nil, err
	}
	xf, err := matrix.Add(x, correction)
	if err != nil {
		return nil, nil, err
	}

	KH, err := matrix.Mul(K, m.H)
	if err != nil {
		return nil, nil, err
	}
	IKH, err := matrix.Sub(m.I, KH)
	if err != nil {
		return nil, nil, err
	}
	Pf, err := matrix.Mul(IKH, P)
	if err != nil {
		return nil, nil, err
	}

	return xf, Pf, nil
}

// firstFinite returns the index of the first finite entry of z, or -1.
func firstFinite(z []float64) int {
	for i, v := range z {
		if series.IsFinite(v) {
			return i
		}
	}

	return -1
}
