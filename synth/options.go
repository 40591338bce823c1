// SPDX-License-Identifier: MIT

package synth

import (
	"fmt"
	"math/rand"
)

// Defaults (single source of truth for zero-value behaviour).
const (
	DefaultAmplitude = 1.0
	DefaultFrequency = 0.125 // cycles per sample
	DefaultStep      = 1.0   // seconds between nominal samples
	DefaultDuty      = 0.5
	DefaultChirpEnd  = 0.25 // end frequency of Chirp, cycles per sample
	DefaultWalkStart = 100.0
	DefaultWalkVol   = 0.02
)

// Option customizes a generator.
type Option func(*config)

type config struct {
	rng        *rand.Rand
	amplitude  float64
	frequency  float64
	chirpEnd   float64
	duty       float64
	triangular bool
	trend      float64 // added per sample
	noise      float64 // Gaussian sigma
	start      float64 // first nominal timestamp
	step       float64
	jitter     float64 // uniform ± fraction of step
	dropout    float64 // probability a sample becomes NaN
	shuffle    bool
}

func newConfig(opts ...Option) config {
	c := config{
		amplitude: DefaultAmplitude,
		frequency: DefaultFrequency,
		chirpEnd:  DefaultChirpEnd,
		duty:      DefaultDuty,
		step:      DefaultStep,
	}
	for _, opt := range opts {
		opt(&c)
	}

	return c
}

// rngFrom returns the shared stream when one was supplied, else a local
// source seeded with seed.
func (c config) rngFrom(seed int64) *rand.Rand {
	if c.rng != nil {
		return c.rng
	}

	return rand.New(rand.NewSource(seed))
}

// WithRand shares r across calls. Panics on nil.
func WithRand(r *rand.Rand) Option {
	if r == nil {
		panic("synth: WithRand(nil)")
	}
	return func(c *config) { c.rng = r }
}

// WithAmplitude sets the peak amplitude of Pulse and Chirp. Panics unless a > 0.
func WithAmplitude(a float64) Option {
	if !(a > 0) {
		panic(fmt.Sprintf("synth: WithAmplitude(%v)", a))
	}
	return func(c *config) { c.amplitude = a }
}

// WithFrequency sets the base (Pulse) or start (Chirp) frequency in cycles
// per sample. Panics unless f > 0.
func WithFrequency(f float64) Option {
	if !(f > 0) {
		panic(fmt.Sprintf("synth: WithFrequency(%v)", f))
	}
	return func(c *config) { c.frequency = f }
}

// WithChirpEnd sets the frequency Chirp sweeps to. Panics unless f > 0.
func WithChirpEnd(f float64) Option {
	if !(f > 0) {
		panic(fmt.Sprintf("synth: WithChirpEnd(%v)", f))
	}
	return func(c *config) { c.chirpEnd = f }
}

// WithDuty sets the rectangular pulse duty cycle. Panics outside [0,1].
func WithDuty(d float64) Option {
	if d < 0 || d > 1 {
		panic(fmt.Sprintf("synth: WithDuty(%v)", d))
	}
	return func(c *config) { c.duty = d }
}

// WithTriangular switches Pulse to a triangular shape.
func WithTriangular() Option { return func(c *config) { c.triangular = true } }

// WithTrend adds k·i to sample i.
func WithTrend(k float64) Option { return func(c *config) { c.trend = k } }

// WithNoise adds Gaussian noise with standard deviation sigma. Panics if sigma < 0.
func WithNoise(sigma float64) Option {
	if sigma < 0 {
		panic(fmt.Sprintf("synth: WithNoise(%v)", sigma))
	}
	return func(c *config) { c.noise = sigma }
}

// WithStart sets the first nominal timestamp of Sample.
func WithStart(t0 float64) Option { return func(c *config) { c.start = t0 } }

// WithStep sets the nominal spacing of Sample. Panics unless dt > 0.
func WithStep(dt float64) Option {
	if !(dt > 0) {
		panic(fmt.Sprintf("synth: WithStep(%v)", dt))
	}
	return func(c *config) { c.step = dt }
}

// WithJitter moves every timestamp by a uniform offset in ±frac·step.
// Panics outside [0, 0.5) so the nominal order is preserved.
func WithJitter(frac float64) Option {
	if frac < 0 || frac >= 0.5 {
		panic(fmt.Sprintf("synth: WithJitter(%v)", frac))
	}
	return func(c *config) { c.jitter = frac }
}

// WithDropout replaces each value by NaN with probability p. Panics outside [0,1].
func WithDropout(p float64) Option {
	if p < 0 || p > 1 {
		panic(fmt.Sprintf("synth: WithDropout(%v)", p))
	}
	return func(c *config) { c.dropout = p }
}

// WithShuffle returns Sample's samples in random order.
func WithShuffle() Option { return func(c *config) { c.shuffle = true } }
