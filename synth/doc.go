// SPDX-License-Identifier: MIT
// Package synth generates deterministic time series fixtures for tests,
// benchmarks and demos.
//
// Purpose:
//   - Pulse, Chirp and Walk produce value sequences of length n.
//   - Sample places a value sequence on irregular timestamps (jitter,
//     dropped samples, shuffled order) and returns a series.Series.
//
// Determinism:
//   - Every generator is a pure function of (n, seed, options). WithRand lets
//     several calls share one stream; otherwise each call seeds its own.
//
// Options:
//   - Option constructors panic on meaningless inputs (negative noise,
//     probabilities outside [0,1], ...). Generators never panic.
package synth
