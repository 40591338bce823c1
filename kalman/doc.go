// SPDX-License-Identifier: MIT
// Package kalman smooths one grid-resampled series with a constant-velocity
// Kalman filter followed by a Rauch–Tung–Striebel backward pass.
//
// Model:
//
//	state       x = [position, velocity]ᵀ
//	transition  F(dt) = [[1, dt], [0, 1]]
//	process     Q(dt) = q·[[dt⁴/4, dt³/2], [dt³/2, dt²]]
//	observation H = [1 0], variance r
//
// Numerical degeneracies are recovered in place and reported through Stats:
// a non-positive time delta is replaced by MinStep, a non-finite measurement
// skips the update, and a singular predicted covariance turns the smoother
// gain into zero for that step. None of these abort the call.
//
// Usage:
//
//	smoothed, stats, err := kalman.Smooth(ctx, g.Points, resampled,
//		kalman.WithProcessNoise(0.05), kalman.WithMeasurementNoise(0.2))
package kalman
