package downsample

// selectUniform picks n evenly strided indices floor(i*(N-1)/(n-1)),
// always including both ends; n == 1 keeps index 0.
func selectUniform(t, _ []float64, n int, _ Params) []int {
	total := len(t)
	if n == 1 {
		return []int{0}
	}
	out := make([]int, n)
	for i := range out {
		out[i] = i * (total - 1) / (n - 1)
	}

	return out
}

// spread picks k of m positions as bucket midpoints floor((2i+1)*m/(2k)).
// The result is strictly increasing for k <= m.
func spread(m, k int) []int {
	if k >= m {
		return identity(m)
	}
	out := make([]int, k)
	for i := range out {
		out[i] = (2*i + 1) * m / (2 * k)
	}

	return out
}
