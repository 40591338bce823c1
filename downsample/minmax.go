package downsample

import (
	"slices"

	"github.com/katalvlaran/tsalign/series"
)

// selectMinMax keeps the minimum and the maximum of every bucket.
//
// The interior 1..N-2 is split into (n-2)/2 contiguous buckets; each
// contributes the index of its smallest and its largest finite value (first
// occurrence on ties, once when they coincide, nothing when the bucket holds
// no finite value). The endpoints are always kept, so the result never exceeds
// max(n, 2) points.
func selectMinMax(t, v []float64, n int, _ Params) []int {
	total := len(t)
	buckets := (n - 2) / 2
	if buckets < 1 {
		return endpoints(total)
	}

	interior := total - 2
	out := make([]int, 0, 2*buckets+2)
	out = append(out, 0)
	for b := 0; b < buckets; b++ {
		lo := 1 + b*interior/buckets
		hi := 1 + (b+1)*interior/buckets
		iMin, iMax := -1, -1
		for k := lo; k < hi; k++ {
			if !series.IsFinite(v[k]) {
				continue
			}
			if iMin < 0 || v[k] < v[iMin] {
				iMin = k
			}
			if iMax < 0 || v[k] > v[iMax] {
				iMax = k
			}
		}
		if iMin < 0 {
			continue
		}
		out = append(out, min(iMin, iMax))
		if iMin != iMax {
			out = append(out, max(iMin, iMax))
		}
	}
	out = append(out, total-1)

	return slices.Compact(out)
}
