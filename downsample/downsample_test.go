package downsample_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/tsalign/downsample"
	"github.com/katalvlaran/tsalign/series"
	"github.com/katalvlaran/tsalign/synth"
)

var allMethods = []downsample.Method{
	downsample.LTTB, downsample.MinMax, downsample.Adaptive, downsample.Uniform, downsample.PeakAware,
}

func mustParams(t testing.TB, m downsample.Method, opts ...downsample.Option) downsample.Params {
	t.Helper()
	p, err := downsample.NewParams(m, opts...)
	require.NoError(t, err)

	return p
}

func sine(n int) (tm, v []float64) {
	tm = make([]float64, n)
	v = make([]float64, n)
	for i := range tm {
		tm[i] = float64(i)
		v[i] = math.Sin(float64(i) / 10)
	}

	return tm, v
}

func TestDownsample_ScenarioA(t *testing.T) {
	tm, v := sine(100)
	out, err := downsample.Downsample(v, tm, 20, mustParams(t, downsample.LTTB))
	require.NoError(t, err)

	assert.Len(t, out.Values, 20)
	assert.Contains(t, out.SelectedIndices, 0)
	assert.Contains(t, out.SelectedIndices, 99)
	for _, x := range out.Values {
		assert.GreaterOrEqual(t, x, -1.05)
		assert.LessOrEqual(t, x, 1.05)
	}
	assert.InDelta(t, 5.0, out.Metadata.Quality.CompressionRatio, 1e-12)
	assert.Equal(t, downsample.Operation, out.Metadata.Operation)
}

func TestDownsample_ScenarioD_Passthrough(t *testing.T) {
	tm := []float64{0, 1, 2}
	v := []float64{3, 1, 2}
	for _, m := range allMethods {
		t.Run(string(m), func(t *testing.T) {
			out, err := downsample.Downsample(v, tm, 5, mustParams(t, m))
			require.NoError(t, err)
			assert.Equal(t, v, out.Values)
			assert.Equal(t, tm, out.TSeconds)
			assert.Equal(t, []int{0, 1, 2}, out.SelectedIndices)
			assert.Equal(t, 1.0, out.Metadata.Quality.CompressionRatio)
			assert.Equal(t, true, out.Metadata.Parameters["passthrough"])
			assert.Equal(t, 0.0, out.Metadata.Quality.Errors.RMSE)
		})
	}
}

func TestDownsample_BudgetEndpointsAndRatio(t *testing.T) {
	tm, v := sine(500)
	v[123] = 7 // spike
	for _, m := range allMethods {
		for _, n := range []int{1, 2, 3, 4, 10, 37, 100} {
			t.Run(fmt.Sprintf("%s/n=%d", m, n), func(t *testing.T) {
				out, err := downsample.Downsample(v, tm, n, mustParams(t, m))
				require.NoError(t, err)

				size := len(out.Values)
				assert.LessOrEqual(t, size, max(n, 2))
				assert.Len(t, out.TSeconds, size)
				assert.Len(t, out.SelectedIndices, size)
				assert.InDelta(t, 500.0/float64(size), out.Metadata.Quality.CompressionRatio, 1e-9)
				for i := 1; i < size; i++ {
					assert.Less(t, out.SelectedIndices[i-1], out.SelectedIndices[i])
				}
				assert.Equal(t, 0, out.SelectedIndices[0])
				if m == downsample.LTTB || m == downsample.MinMax || m == downsample.PeakAware {
					assert.Equal(t, 499, out.SelectedIndices[size-1])
				}
				if m == downsample.Uniform || (m == downsample.LTTB && n >= 3) {
					assert.Equal(t, n, size)
				}
			})
		}
	}
}

func TestDownsample_UnsortedInputRemapped(t *testing.T) {
	tm, v := sine(300)
	// reverse, then swap neighbours so the input is thoroughly unsorted
	rt := make([]float64, len(tm))
	rv := make([]float64, len(v))
	for i := range tm {
		rt[i], rv[i] = tm[len(tm)-1-i], v[len(v)-1-i]
	}
	for i := 0; i+1 < len(rt); i += 2 {
		rt[i], rt[i+1] = rt[i+1], rt[i]
		rv[i], rv[i+1] = rv[i+1], rv[i]
	}

	for _, m := range allMethods {
		t.Run(string(m), func(t *testing.T) {
			out, err := downsample.Downsample(rv, rt, 30, mustParams(t, m))
			require.NoError(t, err)
			for i := 1; i < len(out.TSeconds); i++ {
				assert.LessOrEqual(t, out.TSeconds[i-1], out.TSeconds[i])
			}
			for i, src := range out.SourceIndices {
				assert.Equal(t, rt[src], out.TSeconds[i])
				assert.Equal(t, rv[src], out.Values[i])
			}

			sorted, err := downsample.Downsample(v, tm, 30, mustParams(t, m))
			require.NoError(t, err)
			assert.Equal(t, sorted.SelectedIndices, out.SelectedIndices)
			assert.Equal(t, sorted.Values, out.Values)
		})
	}
}

func TestDownsample_Idempotent(t *testing.T) {
	tm, v := sine(150)
	for _, m := range allMethods {
		p := mustParams(t, m)
		once, err := downsample.Downsample(v, tm, 200, p)
		require.NoError(t, err)
		twice, err := downsample.Downsample(once.Values, once.TSeconds, 200, p)
		require.NoError(t, err)
		assert.Equal(t, once.Values, twice.Values, m)
		assert.Equal(t, once.TSeconds, twice.TSeconds, m)
		assert.Equal(t, once.SelectedIndices, twice.SelectedIndices, m)
	}
}

func TestDownsample_SinglePointBudgetKeepsEndpoints(t *testing.T) {
	tm, v := sine(10)
	for _, m := range []downsample.Method{downsample.LTTB, downsample.MinMax, downsample.PeakAware} {
		out, err := downsample.Downsample(v, tm, 1, mustParams(t, m))
		require.NoError(t, err)
		assert.Equal(t, []int{0, 9}, out.SelectedIndices, m)
		assert.InDelta(t, 5.0, out.Metadata.Quality.CompressionRatio, 1e-12, m)
	}
}

func TestUniform_Stride(t *testing.T) {
	tm, v := sine(10)
	out, err := downsample.Downsample(v, tm, 4, mustParams(t, downsample.Uniform))
	require.NoError(t, err)
	assert.Equal(t, []int{0, 3, 6, 9}, out.SelectedIndices)

	out, err = downsample.Downsample(v, tm, 1, mustParams(t, downsample.Uniform))
	require.NoError(t, err)
	assert.Equal(t, []int{0}, out.SelectedIndices)
}

func TestMinMax_KeepsBucketExtremes(t *testing.T) {
	tm := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	v := []float64{0, 5, 1, 9, 2, 8, -3, 4, 7, 6}
	out, err := downsample.Downsample(v, tm, 6, mustParams(t, downsample.MinMax))
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2, 3, 5, 6, 9}, out.SelectedIndices)
	assert.Equal(t, []float64{0, 1, 9, 8, -3, 6}, out.Values)
}

func TestPeakAware_KeepsSpikes(t *testing.T) {
	tm := make([]float64, 100)
	v := make([]float64, 100)
	for i := range tm {
		tm[i] = float64(i)
	}
	v[30], v[60] = 10, -12

	out, err := downsample.Downsample(v, tm, 10, mustParams(t, downsample.PeakAware))
	require.NoError(t, err)
	assert.Len(t, out.SelectedIndices, 10)
	assert.Contains(t, out.SelectedIndices, 30)
	assert.Contains(t, out.SelectedIndices, 60)

	out, err = downsample.Downsample(v, tm, 10, mustParams(t, downsample.PeakAware, downsample.WithPeakOnValue()))
	require.NoError(t, err)
	assert.Contains(t, out.SelectedIndices, 30)
	assert.NotContains(t, out.SelectedIndices, 60)
	assert.Equal(t, true, out.Metadata.Parameters["peak_on_value"])
}

func TestAdaptive_DenserWhereVariable(t *testing.T) {
	const n = 200
	tm := make([]float64, n)
	v := make([]float64, n)
	for i := range tm {
		tm[i] = float64(i)
		if i >= n/2 {
			v[i] = 1
			if i%2 == 1 {
				v[i] = -1
			}
		}
	}

	for _, rep := range []downsample.Representative{downsample.ClosestToMean, downsample.FirstIndex} {
		t.Run(string(rep), func(t *testing.T) {
			out, err := downsample.Downsample(v, tm, 22, mustParams(t, downsample.Adaptive, downsample.WithRepresentative(rep)))
			require.NoError(t, err)
			assert.LessOrEqual(t, len(out.SelectedIndices), 22)

			var quiet, busy int
			for _, i := range out.SelectedIndices {
				if i < n/2 {
					quiet++
				} else {
					busy++
				}
			}
			assert.Greater(t, busy, quiet)
		})
	}
}

func TestDownsample_NonFiniteValues(t *testing.T) {
	tm, v := sine(200)
	for i := 40; i < 60; i++ {
		v[i] = math.NaN()
	}
	v[100] = math.Inf(1)
	for _, m := range allMethods {
		out, err := downsample.Downsample(v, tm, 25, mustParams(t, m))
		require.NoError(t, err, m)
		assert.LessOrEqual(t, len(out.Values), 25, m)
		c := out.Metadata.Quality.Counts
		assert.Equal(t, len(out.Values), c.NValid+c.NNaN, m)
	}
}

func TestDownsample_Errors(t *testing.T) {
	p := mustParams(t, downsample.LTTB)

	_, err := downsample.Downsample([]float64{1, 2}, []float64{0}, 5, p)
	assert.ErrorIs(t, err, series.ErrLengthMismatch)

	_, err = downsample.Downsample([]float64{1, 2}, []float64{0, 1}, 0, p)
	assert.ErrorIs(t, err, series.ErrInvalidTarget)

	_, err = downsample.Downsample([]float64{1}, []float64{0}, 5, p)
	assert.ErrorIs(t, err, series.ErrInsufficientData)

	_, err = downsample.Downsample(nil, nil, 5, p)
	assert.ErrorIs(t, err, series.ErrInsufficientData)

	_, err = downsample.Downsample([]float64{1, 2}, []float64{0, 1}, 5, downsample.Params{Method: "m4"})
	assert.ErrorIs(t, err, series.ErrUnsupportedMethod)
}

func TestNewParams_Validation(t *testing.T) {
	_, err := downsample.NewParams("m4")
	assert.ErrorIs(t, err, series.ErrUnsupportedMethod)

	for name, opt := range map[string]downsample.Option{
		"threshold zero":  downsample.WithVarianceThreshold(0),
		"threshold > 1":   downsample.WithVarianceThreshold(1.5),
		"percentile 100":  downsample.WithPeakPercentile(100),
		"percentile NaN":  downsample.WithPeakPercentile(math.NaN()),
		"negative window": downsample.WithWindow(-1),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := downsample.NewParams(downsample.Adaptive, opt)
			assert.ErrorIs(t, err, series.ErrInvalidParameter)
		})
	}

	_, err = downsample.NewParams(downsample.Adaptive, downsample.WithRepresentative("median"))
	assert.ErrorIs(t, err, series.ErrUnsupportedMethod)

	m, err := downsample.ParseMethod("")
	require.NoError(t, err)
	assert.Equal(t, downsample.LTTB, m)
}

func ExampleDownsample() {
	tm := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	v := []float64{0, 5, 1, 9, 2, 8, -3, 4, 7, 6}
	p, _ := downsample.NewParams(downsample.MinMax)
	out, _ := downsample.Downsample(v, tm, 6, p)
	fmt.Println(out.SelectedIndices)
	fmt.Println(out.Values)
	fmt.Println(out.Metadata.Quality.CompressionRatio)
	// Output:
	// [0 2 3 5 6 9]
	// [0 1 9 8 -3 6]
	// 1.6666666666666667
}

func BenchmarkDownsample(b *testing.B) {
	s := synth.Sample("chirp", synth.Chirp(100_000, 1, synth.WithNoise(0.05)), 1, synth.WithJitter(0.3))
	for _, m := range allMethods {
		p := mustParams(b, m)
		b.Run(string(m), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				_, _ = downsample.Downsample(s.Values, s.Time, 1000, p)
			}
		})
	}
}

func BenchmarkDownsample_Unsorted(b *testing.B) {
	s := synth.Sample("walk", synth.Walk(100_000, 2), 2, synth.WithShuffle())
	p := mustParams(b, downsample.LTTB)
	for i := 0; i < b.N; i++ {
		_, _ = downsample.Downsample(s.Values, s.Time, 1000, p)
	}
}
