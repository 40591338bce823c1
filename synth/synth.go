// SPDX-License-Identifier: MIT

package synth

import (
	"math"

	"github.com/katalvlaran/tsalign/series"
)

const tau = 2 * math.Pi

// Pulse returns a length-n rectangular (or triangular) pulse train.
//
// Shape:
//   - Rectangular: A while frac(i·f) < duty, 0 otherwise.
//   - Triangular:  A·(1 − |2·frac(i·f) − 1|).
//
// Trend and noise are added after the shape. n < 1 yields nil.
//
// Complexity:
//   - Time O(n), Space O(n).
func Pulse(n int, seed int64, opts ...Option) []float64 {
	if n < 1 {
		return nil
	}
	c := newConfig(opts...)
	rng := c.rngFrom(seed)

	out := make([]float64, n)
	for i := range out {
		frac := math.Mod(float64(i)*c.frequency, 1)
		var y float64
		switch {
		case c.triangular:
			y = c.amplitude * (1 - math.Abs(2*frac-1))
		case frac < c.duty:
			y = c.amplitude
		}
		out[i] = c.finish(y, i, rng.NormFloat64)
	}

	return out
}

// Chirp returns a length-n linear sweep from the base frequency to the
// chirp end frequency:
//
//	f_i = f0 + (f1 − f0)·i/(n−1),  θ_{i+1} = θ_i + 2π·f_i,  y_i = A·sin(θ_i)
//
// n < 1 yields nil.
func Chirp(n int, seed int64, opts ...Option) []float64 {
	if n < 1 {
		return nil
	}
	c := newConfig(opts...)
	rng := c.rngFrom(seed)

	out := make([]float64, n)
	theta := 0.0
	for i := range out {
		pos := 0.0
		if n > 1 {
			pos = float64(i) / float64(n-1)
		}
		theta += tau * (c.frequency + (c.chirpEnd-c.frequency)*pos)
		out[i] = c.finish(c.amplitude*math.Sin(theta), i, rng.NormFloat64)
	}

	return out
}

// Walk returns a length-n geometric random walk starting at DefaultWalkStart
// with per-sample volatility DefaultWalkVol (zero drift):
//
//	S_{i+1} = S_i · exp(−σ²/2 + σ·Z),  Z ~ N(0,1)
//
// Every value is strictly positive before trend and noise. n < 1 yields nil.
func Walk(n int, seed int64, opts ...Option) []float64 {
	if n < 1 {
		return nil
	}
	c := newConfig(opts...)
	rng := c.rngFrom(seed)

	out := make([]float64, n)
	s := DefaultWalkStart
	drift := -0.5 * DefaultWalkVol * DefaultWalkVol
	for i := range out {
		out[i] = c.finish(s, i, rng.NormFloat64)
		s *= math.Exp(drift + DefaultWalkVol*rng.NormFloat64())
	}

	return out
}

// finish adds trend and, when enabled, noise drawn from norm.
func (c config) finish(y float64, i int, norm func() float64) float64 {
	y += c.trend * float64(i)
	if c.noise > 0 {
		y += c.noise * norm()
	}

	return y
}

// Sample places values on timestamps start + i·step, moved by the configured
// jitter, with dropped samples set to NaN and, under WithShuffle, the
// samples permuted. Timestamps stay strictly increasing in nominal order.
//
// Complexity:
//   - Time O(n), Space O(n).
func Sample(id string, values []float64, seed int64, opts ...Option) series.Series {
	c := newConfig(opts...)
	rng := c.rngFrom(seed)

	n := len(values)
	t := make([]float64, n)
	v := make([]float64, n)
	for i, x := range values {
		t[i] = c.start + float64(i)*c.step
		if c.jitter > 0 {
			t[i] += (2*rng.Float64() - 1) * c.jitter * c.step
		}
		v[i] = x
		if c.dropout > 0 && rng.Float64() < c.dropout {
			v[i] = math.NaN()
		}
	}
	if c.shuffle {
		rng.Shuffle(n, func(a, b int) {
			t[a], t[b] = t[b], t[a]
			v[a], v[b] = v[b], v[a]
		})
	}

	return series.Series{ID: id, Time: t, Values: v}
}
