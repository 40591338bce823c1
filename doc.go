// Package tsalign synchronizes and downsamples irregularly sampled time
// series.
//
// What is tsalign?
//
//	A small set of deterministic, stateless transforms:
//		• Common grid: derive one time grid from the overlap of many series
//		• Resampling: linear, natural cubic spline and nearest interpolation
//		• Kalman alignment: constant-velocity filter + RTS smoother on the grid
//		• Downsampling: LTTB, min/max buckets, adaptive variance, uniform stride, peak-aware
//		• Comparison: Dynamic Time Warping with window, slope penalty and memory modes
//
// Every transform returns its output together with a result.Metadata
// envelope (run id, parameters, duration, quality metrics).
//
// Subpackages:
//
//	series/     : raw input type, error taxonomy, ordering and finiteness helpers
//	grid/       : overlap window and step estimation
//	resample/   : interpolation onto arbitrary targets
//	matrix/     : dense linear algebra for the Kalman pass
//	kalman/     : forward filter and RTS smoother
//	align/      : Synchronize, the multi-series coordinator
//	downsample/ : Downsample and its five algorithms
//	dtw/        : Dynamic Time Warping
//	result/     : metadata envelope, RMSE/MAE, NaN-safe JSON
//	batch/      : bounded worker pool over many series or pairs
//	cache/      : content-hashed result cache (memory LRU or badger), zstd/snappy payloads
//
// Quick example:
//
//	out, err := align.Synchronize(ctx,
//		map[string][]float64{"a": {0, 1, 2, 3}, "b": {0, 1, 2}},
//		map[string][]float64{"a": {0, 1, 2, 3}, "b": {0.5, 1.5, 2.5}},
//		cfg)
//	// out.TCommon == [0.5 1 1.5 2], out.Combined == [0.25 0.75 1.25 1.75]
//
// The tsalign command (cmd/tsalign) exposes sync, downsample and distance
// over a JSON document.
package tsalign
