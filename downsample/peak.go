package downsample

import (
	"math"
	"sort"

	"github.com/katalvlaran/tsalign/series"
)

// selectPeakAware keeps every peak plus an even baseline.
//
// Implementation:
//   - Stage 1: score each point by |value| (or value with PeakOnValue) and
//     take the PeakPercentile of the finite scores, linearly interpolated.
//   - Stage 2: interior points scoring strictly above it are peaks; when more
//     than n-2 qualify the highest scores win (lower index on ties).
//   - Stage 3: the rest of the budget is spread evenly over the non-peak
//     interior.
//   - Stage 4: endpoints, peaks and baseline are merged in index order.
func selectPeakAware(t, v []float64, n int, p Params) []int {
	total := len(t)
	if n < 3 {
		return endpoints(total)
	}

	score := make([]float64, total)
	finite := make([]float64, 0, total)
	for i, x := range v {
		score[i] = x
		if !p.PeakOnValue {
			score[i] = math.Abs(x)
		}
		if series.IsFinite(score[i]) {
			finite = append(finite, score[i])
		}
	}
	threshold := percentile(finite, p.PeakPercentile)

	var peaks []int
	for i := 1; i < total-1; i++ {
		if series.IsFinite(score[i]) && score[i] > threshold {
			peaks = append(peaks, i)
		}
	}
	budget := n - 2
	if len(peaks) > budget {
		sort.SliceStable(peaks, func(a, b int) bool { return score[peaks[a]] > score[peaks[b]] })
		peaks = peaks[:budget]
		sort.Ints(peaks)
	}

	isPeak := make(map[int]bool, len(peaks))
	for _, i := range peaks {
		isPeak[i] = true
	}
	rest := make([]int, 0, total-2-len(peaks))
	for i := 1; i < total-1; i++ {
		if !isPeak[i] {
			rest = append(rest, i)
		}
	}

	keep := make([]bool, total)
	keep[0], keep[total-1] = true, true
	for _, i := range peaks {
		keep[i] = true
	}
	if r := budget - len(peaks); r > 0 {
		for _, pos := range spread(len(rest), r) {
			keep[rest[pos]] = true
		}
	}

	out := make([]int, 0, n)
	for i, k := range keep {
		if k {
			out = append(out, i)
		}
	}

	return out
}

// percentile returns the pct-th percentile of xs with linear interpolation
// between closest ranks; NaN for an empty slice.
func percentile(xs []float64, pct float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	s := append([]float64(nil), xs...)
	sort.Float64s(s)
	pos := pct / 100 * float64(len(s)-1)
	lo := int(math.Floor(pos))
	if lo >= len(s)-1 {
		return s[len(s)-1]
	}
	frac := pos - float64(lo)

	return s[lo] + frac*(s[lo+1]-s[lo])
}
