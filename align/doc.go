// Package align synchronizes several irregular series onto one shared time grid.
//
// Two strategies are available:
//
//	common_grid_interpolate  resample every series onto the common grid
//	kalman_align             the same, followed by a Kalman/RTS smoothing pass per series
//
// The result carries the synced series, their elementwise mean, an alignment
// error (mean per-series RMSE of the synced series read back at the original
// timestamps inside the grid window) and a confidence score in [0, 1].
//
// Usage:
//
//	cfg, err := align.NewConfig(align.MethodCommonGrid, align.WithStep(0.5))
//	if err != nil { ... }
//	out, err := align.Synchronize(ctx, values, times, cfg)
package align
