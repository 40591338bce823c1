package downsample

import (
	"math"

	"github.com/katalvlaran/tsalign/series"
)

// selectLTTB implements Largest-Triangle-Three-Buckets.
//
// The interior 1..N-2 is split into n-2 buckets of (N-2)/(n-2) points. Walking
// left to right, each bucket keeps the point forming the largest triangle with
// the previously kept point and the centroid of the next bucket (the last
// point for the final bucket). Non-finite areas never win; a bucket without a
// finite area keeps its first point.
//
// Complexity: O(N).
func selectLTTB(t, v []float64, n int, _ Params) []int {
	total := len(t)
	if n < 3 {
		return endpoints(total)
	}

	every := float64(total-2) / float64(n-2)
	out := make([]int, 0, n)
	out = append(out, 0)
	a := 0
	for i := 0; i < n-2; i++ {
		lo := int(math.Floor(float64(i)*every)) + 1
		hi := min(int(math.Floor(float64(i+1)*every))+1, total-1)

		nextLo := hi
		nextHi := min(int(math.Floor(float64(i+2)*every))+1, total)
		ct, cv := centroid(t, v, nextLo, nextHi)

		best, bestArea := lo, math.Inf(-1)
		for k := lo; k < hi; k++ {
			area := math.Abs((t[a]-ct)*(v[k]-v[a])-(t[a]-t[k])*(cv-v[a])) / 2
			if series.IsFinite(area) && area > bestArea {
				best, bestArea = k, area
			}
		}
		out = append(out, best)
		a = best
	}

	return append(out, total-1)
}

// centroid averages the finite points of [lo, hi). With none, it falls back
// to the last point of the range.
func centroid(t, v []float64, lo, hi int) (float64, float64) {
	var st, sv float64
	cnt := 0
	for k := lo; k < hi; k++ {
		if series.IsFinite(t[k]) && series.IsFinite(v[k]) {
			st += t[k]
			sv += v[k]
			cnt++
		}
	}
	if cnt == 0 {
		return t[hi-1], v[hi-1]
	}

	return st / float64(cnt), sv / float64(cnt)
}
