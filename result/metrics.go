package result

import (
	"math"

	"github.com/katalvlaran/tsalign/series"
)

// RMSE returns the root-mean-square difference of want and got over the
// index pairs where both are finite. Pairs past the shorter slice are
// ignored. NaN when no pair qualifies.
func RMSE(want, got []float64) float64 {
	sum, n := pairwise(want, got, func(d float64) float64 { return d * d })
	if n == 0 {
		return math.NaN()
	}

	return math.Sqrt(sum / float64(n))
}

// MAE is the mean absolute difference with the same pairing rules as RMSE.
func MAE(want, got []float64) float64 {
	sum, n := pairwise(want, got, math.Abs)
	if n == 0 {
		return math.NaN()
	}

	return sum / float64(n)
}

func pairwise(a, b []float64, f func(float64) float64) (sum float64, n int) {
	m := min(len(a), len(b))
	for i := 0; i < m; i++ {
		if !series.IsFinite(a[i]) || !series.IsFinite(b[i]) {
			continue
		}
		sum += f(a[i] - b[i])
		n++
	}

	return sum, n
}

// CountFinite tallies finite and non-finite entries across all arrays.
func CountFinite(arrays ...[]float64) Counts {
	var c Counts
	for _, xs := range arrays {
		valid := series.CountFinite(xs)
		c.NValid += valid
		c.NNaN += len(xs) - valid
	}

	return c
}
