// Package downsample reduces one series to a point budget while keeping its
// visual shape.
//
// Five algorithms are available:
//
//	lttb        Largest-Triangle-Three-Buckets
//	minmax      per-bucket minimum and maximum
//	adaptive    variance-weighted buckets, one representative each
//	uniform     even index stride
//	peak_aware  percentile peaks plus an even baseline
//
// Input may be unsorted; it is stably sorted by time first and every result
// reports both the indices into the sorted series and the positions in the
// caller's arrays. A series that already fits the budget is returned as is
// with a compression ratio of 1.
//
// Usage:
//
//	p, _ := downsample.NewParams(downsample.PeakAware, downsample.WithPeakPercentile(99))
//	out, err := downsample.Downsample(values, times, 500, p)
package downsample
