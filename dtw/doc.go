// Package dtw computes the Dynamic Time Warping distance between two value
// sequences, optionally with the optimal warping path.
//
// DTW aligns sequences that share a shape but not a pace by warping the index
// axis so the summed absolute difference is minimal. It backs the pairwise
// distance matrix of the batch workflow, where series are compared on their
// finite values regardless of sampling.
//
// Features:
//   - Sakoe–Chiba window (|i-j| <= Window) or Unlimited.
//   - SlopePenalty on insertion and deletion steps.
//   - FullMatrix (path recovery), TwoRows or NoMemory (distance only) storage.
//
// Usage:
//
//	opts := dtw.DefaultOptions()
//	opts.Window = 10
//	dist, _, err := dtw.DTW(a, b, &opts)
package dtw
