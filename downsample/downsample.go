package downsample

import (
	"fmt"
	"math"
	"time"

	"github.com/katalvlaran/tsalign/resample"
	"github.com/katalvlaran/tsalign/result"
	"github.com/katalvlaran/tsalign/series"
)

const (
	opDownsample = "downsample.Downsample"

	// Operation is the metadata operation name of Downsample.
	Operation = "downsample"
)

// Output is a decimated series.
//
// SelectedIndices are strictly increasing positions in the time-sorted input;
// SourceIndices[i] is the position of the same point in the caller's arrays.
type Output struct {
	Values          []float64
	TSeconds        []float64
	SelectedIndices []int
	SourceIndices   []int
	Metadata        result.Metadata
}

// selector picks indices into the sorted arrays. It is only called with
// len(t) > n >= 1 and returns a strictly increasing slice of at most
// max(n, 2) indices.
type selector func(t, v []float64, n int, p Params) []int

var selectors = map[Method]selector{
	LTTB:      selectLTTB,
	MinMax:    selectMinMax,
	Adaptive:  selectAdaptive,
	Uniform:   selectUniform,
	PeakAware: selectPeakAware,
}

// Downsample reduces (values, times) to at most n points with p.Method.
//
// Implementation:
//   - Stage 1: validate p, then the inputs.
//   - Stage 2: stable sort by time when times is not already sorted.
//   - Stage 3: when len <= n return the sorted input unchanged
//     (compression ratio 1); otherwise dispatch to the algorithm.
//   - Stage 4: gather values/times, remap to caller positions and score the
//     linear reconstruction of the result against the sorted input.
//
// LTTB, MinMax and PeakAware always keep the first and last sorted points, so
// a budget below 3 (below 4 for MinMax) yields exactly those two.
//
// Errors:
//   - series.ErrUnsupportedMethod, series.ErrInvalidParameter (p).
//   - series.ErrLengthMismatch, series.ErrInvalidTarget (n <= 0),
//     series.ErrInsufficientData (fewer than 2 points).
func Downsample(values, times []float64, n int, p Params) (*Output, error) {
	started := time.Now()
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", opDownsample, err)
	}
	if len(values) != len(times) {
		return nil, fmt.Errorf("%s: %d values vs %d times: %w", opDownsample, len(values), len(times), series.ErrLengthMismatch)
	}
	if n <= 0 {
		return nil, fmt.Errorf("%s: n=%d: %w", opDownsample, n, series.ErrInvalidTarget)
	}
	total := len(values)
	if total < 2 {
		return nil, fmt.Errorf("%s: %d points: %w", opDownsample, total, series.ErrInsufficientData)
	}

	order := identity(total)
	if !series.IsSorted(times) {
		order = series.SortOrder(times)
	}
	t := series.Permute(times, order)
	v := series.Permute(values, order)

	var idx []int
	passthrough := total <= n
	if passthrough {
		idx = identity(total)
	} else {
		idx = selectors[p.Method](t, v, n, p)
	}

	out := &Output{
		Values:          make([]float64, len(idx)),
		TSeconds:        make([]float64, len(idx)),
		SelectedIndices: idx,
		SourceIndices:   make([]int, len(idx)),
	}
	for i, k := range idx {
		out.Values[i] = v[k]
		out.TSeconds[i] = t[k]
		out.SourceIndices[i] = order[k]
	}

	params := p.Parameters()
	params["n_points"] = n
	params["original_n"] = total
	params["passthrough"] = passthrough

	counts := result.CountFinite(out.Values)
	rmse, mae := reconstructionError(out.TSeconds, out.Values, t, v)
	out.Metadata = result.NewMetadata(Operation, params, started, result.Quality{
		Counts:           &counts,
		Errors:           &result.Errors{RMSE: rmse, MAE: mae},
		CompressionRatio: float64(total) / float64(len(idx)),
	})

	return out, nil
}

// reconstructionError linearly interpolates the kept points back onto the
// sorted timestamps and compares with the sorted values.
func reconstructionError(keptT, keptV, t, v []float64) (rmse, mae float64) {
	xs, ys, err := resample.Prepare(keptT, keptV)
	if err != nil {
		return math.NaN(), math.NaN()
	}
	got := resample.Linear{}.Interpolate(xs, ys, t)

	return result.RMSE(v, got), result.MAE(v, got)
}

func identity(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}

	return out
}

// endpoints keeps the first and last index, whatever the budget.
func endpoints(total int) []int { return []int{0, total - 1} }
