package align

import (
	"math"

	"github.com/katalvlaran/tsalign/grid"
	"github.com/katalvlaran/tsalign/resample"
	"github.com/katalvlaran/tsalign/result"
	"github.com/katalvlaran/tsalign/series"
)

// alignmentError re-interpolates each synced series (linearly) at its own
// finite original timestamps inside [grid[0], grid[last]] and compares with
// the finite original values. Samples in (grid[last], End] have no synced
// value on either side and are not scored. It returns the mean per-series RMSE and MAE
// over the series that had at least one comparison, or NaN for both when
// none had.
func alignmentError(ids []string, values, times, synced map[string][]float64, g grid.Grid) (rmse, mae float64) {
	if g.Len() == 0 {
		return math.NaN(), math.NaN()
	}
	lo, hi := g.Points[0], g.Points[g.Len()-1]

	var sumR, sumA float64
	n := 0
	for _, id := range ids {
		t, v := times[id], values[id]
		ts := make([]float64, 0, len(t))
		want := make([]float64, 0, len(t))
		for i, x := range t {
			if series.IsFinite(x) && series.IsFinite(v[i]) && x >= lo && x <= hi {
				ts = append(ts, x)
				want = append(want, v[i])
			}
		}
		got := resample.Linear{}.Interpolate(g.Points, synced[id], ts)
		r := result.RMSE(want, got)
		if math.IsNaN(r) {
			continue
		}
		sumR += r
		sumA += result.MAE(want, got)
		n++
	}
	if n == 0 {
		return math.NaN(), math.NaN()
	}

	return sumR / float64(n), sumA / float64(n)
}

// confidence is 1/(1+err) scaled by the finite fraction of the synced values,
// clamped to [0, 1]. An undefined error yields 0.
func confidence(err float64, c result.Counts) float64 {
	if math.IsNaN(err) {
		return 0
	}
	total := c.NValid + c.NNaN
	if total == 0 {
		return 0
	}
	nonFinite := float64(c.NNaN) / float64(total)
	conf := 1 / (1 + err) * (1 - nonFinite)

	return math.Max(0, math.Min(1, conf))
}

// combine averages the finite synced values at every grid index (NaN when none is finite).
func combine(ids []string, synced map[string][]float64, n int) []float64 {
	out := make([]float64, n)
	for k := 0; k < n; k++ {
		sum, cnt := 0.0, 0
		for _, id := range ids {
			if x := synced[id][k]; series.IsFinite(x) {
				sum += x
				cnt++
			}
		}
		if cnt == 0 {
			out[k] = math.NaN()
			continue
		}
		out[k] = sum / float64(cnt)
	}

	return out
}
