package align_test

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/tsalign/align"
	"github.com/katalvlaran/tsalign/resample"
	"github.com/katalvlaran/tsalign/series"
	"github.com/katalvlaran/tsalign/synth"
)

func mustConfig(t *testing.T, m align.Method, opts ...align.Option) align.Config {
	t.Helper()
	cfg, err := align.NewConfig(m, opts...)
	require.NoError(t, err)

	return cfg
}

func scenarioB() (values, times map[string][]float64) {
	values = map[string][]float64{
		"a": {0, 1, 2, 3},
		"b": {0, 1, 2},
	}
	times = map[string][]float64{
		"a": {0, 1, 2, 3},
		"b": {0.5, 1.5, 2.5},
	}

	return values, times
}

func TestSynchronize_ScenarioB(t *testing.T) {
	values, times := scenarioB()
	out, err := align.Synchronize(context.Background(), values, times,
		mustConfig(t, align.MethodCommonGrid, align.WithStep(0.5)))
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, out.IDs)
	require.Len(t, out.TCommon, 4)
	assert.InDeltaSlice(t, []float64{0.5, 1, 1.5, 2}, out.TCommon, 1e-12)
	assert.InDeltaSlice(t, []float64{0.5, 1, 1.5, 2}, out.Synced["a"], 1e-12)
	assert.InDeltaSlice(t, []float64{0, 0.5, 1, 1.5}, out.Synced["b"], 1e-12)
	assert.InDeltaSlice(t, []float64{0.25, 0.75, 1.25, 1.75}, out.Combined, 1e-12)
	for id, v := range out.Synced {
		assert.Len(t, v, len(out.TCommon), id)
		assert.Equal(t, len(v), series.CountFinite(v), "no NaN in %s", id)
	}

	assert.InDelta(t, 0.0, out.AlignmentError, 1e-12)
	assert.InDelta(t, 1.0, out.Confidence, 1e-12)

	md := out.Metadata
	assert.Equal(t, align.Operation, md.Operation)
	assert.NotEmpty(t, md.RunID)
	assert.Equal(t, "common_grid_interpolate", md.Parameters["method"])
	assert.Equal(t, 0.5, md.Parameters["dt"])
	require.NotNil(t, md.Quality.Counts)
	assert.Equal(t, 8, md.Quality.Counts.NValid)
	assert.Equal(t, 8, md.Quality.Counts.NInterpolated)
	assert.Zero(t, md.Quality.Counts.NNaN)
}

// Identical series score zero error only when their samples sit on the grid;
// jittered clocks leave a resampling residual even for identical inputs.
func TestSynchronize_IdenticalRegularlySampledSeries(t *testing.T) {
	for _, m := range []resample.Method{resample.MethodLinear, resample.MethodCubic, resample.MethodNearest} {
		t.Run(string(m), func(t *testing.T) {
			tm := make([]float64, 50)
			v := make([]float64, 50)
			for i := range tm {
				tm[i] = float64(i)
				v[i] = math.Sin(float64(i) / 7)
			}
			values := map[string][]float64{"x": v, "y": append([]float64(nil), v...)}
			times := map[string][]float64{"x": tm, "y": append([]float64(nil), tm...)}

			out, err := align.Synchronize(context.Background(), values, times,
				mustConfig(t, align.MethodCommonGrid, align.WithInterpMethod(m)))
			require.NoError(t, err)
			assert.InDelta(t, 0.0, out.AlignmentError, 1e-9)
			assert.InDelta(t, 1.0, out.Confidence, 1e-9)
			assert.Equal(t, out.Synced["x"], out.Synced["y"])
		})
	}
}

func TestSynchronize_IdenticalJitteredSeriesShareSyncedValues(t *testing.T) {
	s := synth.Sample("x", synth.Chirp(200, 0, synth.WithFrequency(0.02), synth.WithChirpEnd(0.02)), 3,
		synth.WithJitter(0.4))
	values := map[string][]float64{"x": s.Values, "y": append([]float64(nil), s.Values...)}
	times := map[string][]float64{"x": s.Time, "y": append([]float64(nil), s.Time...)}

	out, err := align.Synchronize(context.Background(), values, times, mustConfig(t, align.MethodCommonGrid))
	require.NoError(t, err)
	assert.Equal(t, out.Synced["x"], out.Synced["y"])
	assert.Greater(t, out.AlignmentError, 0.0)
	assert.Greater(t, out.Confidence, 0.0)
	assert.LessOrEqual(t, out.Confidence, 1.0)
}

func TestSynchronize_NoOverlap(t *testing.T) {
	_, err := align.Synchronize(context.Background(),
		map[string][]float64{"a": {1, 2}, "b": {3, 4}},
		map[string][]float64{"a": {0, 1}, "b": {2, 3}},
		mustConfig(t, align.MethodCommonGrid))
	assert.ErrorIs(t, err, series.ErrNoOverlap)
	assert.True(t, series.IsInputError(err))
}

func TestSynchronize_InputErrors(t *testing.T) {
	cfg := mustConfig(t, align.MethodCommonGrid)
	ctx := context.Background()

	// Scenario C.
	_, err := align.Synchronize(ctx,
		map[string][]float64{"a": {1, 2}, "b": {1, 2}},
		map[string][]float64{"a": {0, 1}, "c": {0, 1}}, cfg)
	assert.ErrorIs(t, err, series.ErrKeyMismatch)

	_, err = align.Synchronize(ctx,
		map[string][]float64{"a": {1, 2}},
		map[string][]float64{"a": {0, 1}, "b": {0, 1}}, cfg)
	assert.ErrorIs(t, err, series.ErrKeyMismatch)

	_, err = align.Synchronize(ctx, map[string][]float64{}, map[string][]float64{"a": {0, 1}}, cfg)
	assert.ErrorIs(t, err, series.ErrKeyMismatch, "key sets are compared before emptiness")

	_, err = align.Synchronize(ctx, map[string][]float64{}, map[string][]float64{}, cfg)
	assert.ErrorIs(t, err, series.ErrEmptyInput)

	_, err = align.Synchronize(ctx,
		map[string][]float64{"a": {1, 2, 3}},
		map[string][]float64{"a": {0, 1}}, cfg)
	assert.ErrorIs(t, err, series.ErrLengthMismatch)

	values, times := scenarioB()
	_, err = align.Synchronize(ctx, values, times,
		mustConfig(t, align.MethodCommonGrid, align.WithStep(0.5), align.WithMaxGridPoints(2)))
	assert.ErrorIs(t, err, series.ErrGridTooLarge)
}

func TestSynchronize_UnsupportedMethod(t *testing.T) {
	values, times := scenarioB()
	_, err := align.Synchronize(context.Background(), values, times, align.Config{Method: "dtw_align"})
	assert.ErrorIs(t, err, series.ErrUnsupportedMethod)
	assert.True(t, series.IsConfigurationError(err))

	_, err = align.Synchronize(context.Background(), values, times, align.Config{})
	assert.ErrorIs(t, err, series.ErrUnsupportedMethod)
}

func TestNewConfig_Validation(t *testing.T) {
	_, err := align.NewConfig("bogus")
	assert.ErrorIs(t, err, series.ErrUnsupportedMethod)

	_, err = align.NewConfig(align.MethodCommonGrid, align.WithInterpMethod("spline"))
	assert.ErrorIs(t, err, series.ErrUnsupportedMethod)

	_, err = align.NewConfig(align.MethodCommonGrid, align.WithGridMethod("mode"))
	assert.ErrorIs(t, err, series.ErrUnsupportedMethod)

	_, err = align.NewConfig(align.MethodCommonGrid, align.WithStep(math.NaN()))
	assert.ErrorIs(t, err, series.ErrInvalidStep)

	_, err = align.NewConfig(align.MethodKalman, align.WithMeasurementNoise(0))
	assert.ErrorIs(t, err, series.ErrInvalidParameter)

	_, err = align.NewConfig(align.MethodKalman, align.WithMaxGridPoints(-1))
	assert.ErrorIs(t, err, series.ErrInvalidParameter)

	m, err := align.ParseMethod("")
	require.NoError(t, err)
	assert.Equal(t, align.MethodCommonGrid, m)
}

func TestSynchronize_Kalman(t *testing.T) {
	values, times := scenarioB()
	out, err := align.Synchronize(context.Background(), values, times,
		mustConfig(t, align.MethodKalman, align.WithStep(0.5),
			align.WithProcessNoise(0.05), align.WithMeasurementNoise(0.2)))
	require.NoError(t, err)

	require.Len(t, out.TCommon, 4)
	for id, v := range out.Synced {
		require.Len(t, v, 4, id)
		assert.Equal(t, 4, series.CountFinite(v), id)
	}
	assert.GreaterOrEqual(t, out.Confidence, 0.0)
	assert.LessOrEqual(t, out.Confidence, 1.0)
	assert.Equal(t, 0.05, out.Metadata.Parameters["process_noise"])
	assert.Equal(t, 0.2, out.Metadata.Parameters["measurement_noise"])
}

func TestSynchronize_KalmanCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	values, times := scenarioB()
	_, err := align.Synchronize(ctx, values, times, mustConfig(t, align.MethodKalman))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSynchronize_NonFinitePenalizesConfidence(t *testing.T) {
	nan := math.NaN()
	out, err := align.Synchronize(context.Background(),
		map[string][]float64{"a": {0, 1, 2, 3}, "b": {nan, nan, nan, nan}},
		map[string][]float64{"a": {0, 1, 2, 3}, "b": {0, 1, 2, 3}},
		mustConfig(t, align.MethodCommonGrid))
	require.NoError(t, err)

	assert.InDeltaSlice(t, []float64{0, 1, 2}, out.Combined, 1e-12)
	assert.InDelta(t, 0.0, out.AlignmentError, 1e-12)
	assert.InDelta(t, 0.5, out.Confidence, 1e-12)
	assert.Equal(t, 3, out.Metadata.Quality.Counts.NNaN)
}

func TestSynchronize_NoComparableSamples(t *testing.T) {
	nan := math.NaN()
	out, err := align.Synchronize(context.Background(),
		map[string][]float64{"a": {nan, nan}},
		map[string][]float64{"a": {0, 1}},
		mustConfig(t, align.MethodCommonGrid))
	require.NoError(t, err)
	assert.True(t, math.IsNaN(out.AlignmentError))
	assert.Zero(t, out.Confidence)
}

// jitteredProbes samples one slow sine twice on independently jittered clocks.
func jitteredProbes(n int) (values, times map[string][]float64) {
	sine := synth.Chirp(n, 0, synth.WithFrequency(0.01), synth.WithChirpEnd(0.01))
	a := synth.Sample("a", sine, 1, synth.WithJitter(0.3))
	b := synth.Sample("b", sine, 2, synth.WithJitter(0.3), synth.WithStart(0.25))

	return map[string][]float64{"a": a.Values, "b": b.Values},
		map[string][]float64{"a": a.Time, "b": b.Time}
}

func TestSynchronize_JitteredProbesAgree(t *testing.T) {
	values, times := jitteredProbes(400)
	for _, m := range []align.Method{align.MethodCommonGrid, align.MethodKalman} {
		t.Run(string(m), func(t *testing.T) {
			out, err := align.Synchronize(context.Background(), values, times, mustConfig(t, m))
			require.NoError(t, err)
			assert.Greater(t, len(out.TCommon), 300)
			assert.Greater(t, out.Confidence, 0.8)
			for k := range out.TCommon {
				assert.InDelta(t, out.Synced["a"][k], out.Synced["b"][k], 0.2)
			}
		})
	}
}

func BenchmarkSynchronize(b *testing.B) {
	values, times := jitteredProbes(20_000)
	for _, m := range []align.Method{align.MethodCommonGrid, align.MethodKalman} {
		cfg, err := align.NewConfig(m)
		require.NoError(b, err)
		b.Run(string(m), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				_, _ = align.Synchronize(context.Background(), values, times, cfg)
			}
		})
	}
}

func ExampleSynchronize() {
	cfg, _ := align.NewConfig(align.MethodCommonGrid, align.WithStep(0.5))
	out, _ := align.Synchronize(context.Background(),
		map[string][]float64{"a": {0, 1, 2, 3}, "b": {0, 1, 2}},
		map[string][]float64{"a": {0, 1, 2, 3}, "b": {0.5, 1.5, 2.5}},
		cfg)
	fmt.Println(out.TCommon)
	fmt.Println(out.Combined)
	// Output:
	// [0.5 1 1.5 2]
	// [0.25 0.75 1.25 1.75]
}
