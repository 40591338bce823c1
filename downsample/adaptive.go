package downsample

import (
	"math"

	"github.com/katalvlaran/tsalign/series"
)

// selectAdaptive spends more of the budget where the series moves.
//
// Implementation:
//   - Stage 1: rolling variance of the finite values in a centred window,
//     normalised by the largest local variance.
//   - Stage 2: points above VarianceThreshold weigh DensityBoost, others 1.
//   - Stage 3: the interior is cut into n-2 contiguous buckets of equal
//     cumulative weight, so high-variance stretches get narrower buckets.
//   - Stage 4: each non-empty bucket keeps one representative.
//
// The endpoints are always kept.
//
// Complexity: O(N).
func selectAdaptive(t, v []float64, n int, p Params) []int {
	total := len(t)
	if n < 3 {
		return endpoints(total)
	}

	half := p.Window / 2
	if p.Window <= 0 {
		half = max(1, total/(2*n))
	}
	norm := normalisedVariance(v, half)

	interior := total - 2
	weights := make([]float64, interior)
	var sum float64
	for i := range weights {
		w := 1.0
		if norm[i+1] > p.VarianceThreshold {
			w = DensityBoost
		}
		weights[i] = w
		sum += w
	}

	k := n - 2
	out := make([]int, 0, n)
	out = append(out, 0)
	lo, cum := 0, 0.0
	for b := 0; b < k && lo < interior; b++ {
		limit := sum * float64(b+1) / float64(k)
		hi := lo
		for hi < interior && (cum+weights[hi] <= limit || hi == lo) {
			cum += weights[hi]
			hi++
		}
		if b == k-1 {
			hi = interior
		}
		out = append(out, 1+representative(v[1+lo:1+hi], p.Representative)+lo)
		lo = hi
	}

	return append(out, total-1)
}

// normalisedVariance returns the population variance of the finite values in
// [i-half, i+half] for every i, divided by the largest such variance
// (all zeros when the series is locally flat everywhere).
func normalisedVariance(v []float64, half int) []float64 {
	n := len(v)
	cnt := make([]int, n+1)
	s1 := make([]float64, n+1)
	s2 := make([]float64, n+1)
	for i, x := range v {
		cnt[i+1], s1[i+1], s2[i+1] = cnt[i], s1[i], s2[i]
		if series.IsFinite(x) {
			cnt[i+1]++
			s1[i+1] += x
			s2[i+1] += x * x
		}
	}

	out := make([]float64, n)
	peak := 0.0
	for i := range out {
		lo, hi := max(0, i-half), min(n, i+half+1)
		c := cnt[hi] - cnt[lo]
		if c < 2 {
			continue
		}
		mean := (s1[hi] - s1[lo]) / float64(c)
		variance := math.Max(0, (s2[hi]-s2[lo])/float64(c)-mean*mean)
		out[i] = variance
		peak = math.Max(peak, variance)
	}
	if peak > 0 && series.IsFinite(peak) {
		for i := range out {
			out[i] /= peak
		}
	}

	return out
}

// representative returns the offset of the kept point within bucket.
func representative(bucket []float64, policy Representative) int {
	if policy == FirstIndex {
		return 0
	}
	var sum float64
	cnt := 0
	for _, x := range bucket {
		if series.IsFinite(x) {
			sum += x
			cnt++
		}
	}
	if cnt == 0 {
		return 0
	}
	mean := sum / float64(cnt)
	best, bestDist := 0, math.Inf(1)
	for i, x := range bucket {
		if d := math.Abs(x - mean); series.IsFinite(d) && d < bestDist {
			best, bestDist = i, d
		}
	}

	return best
}
