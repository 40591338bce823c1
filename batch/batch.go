package batch

import (
	"context"
	"fmt"

	"github.com/katalvlaran/tsalign/align"
	"github.com/katalvlaran/tsalign/downsample"
	"github.com/katalvlaran/tsalign/dtw"
	"github.com/katalvlaran/tsalign/series"
)

// DownsampleAll downsamples every series with the same budget and params.
// Results are in input order.
func DownsampleAll(ctx context.Context, in []series.Series, n int, p downsample.Params, workers int) ([]*downsample.Output, error) {
	return Map(ctx, in, workers, func(_ context.Context, _ int, s series.Series) (*downsample.Output, error) {
		out, err := downsample.Downsample(s.Values, s.Time, n, p)
		if err != nil {
			return nil, fmt.Errorf("series %q: %w", s.ID, err)
		}

		return out, nil
	})
}

// Pair is the synchronization of two series, A < B in input order.
type Pair struct {
	A, B   string
	Output *align.Output
}

// SynchronizePairs synchronizes every unordered pair (i < j) of in.
// Pairs are returned in row-major (i, j) order. Series ids must be unique.
func SynchronizePairs(ctx context.Context, in []series.Series, cfg align.Config, workers int) ([]Pair, error) {
	if err := uniqueIDs(in); err != nil {
		return nil, err
	}
	pairs := upperPairs(len(in))

	return Map(ctx, pairs, workers, func(ctx context.Context, _ int, ij [2]int) (Pair, error) {
		a, b := in[ij[0]], in[ij[1]]
		out, err := align.Synchronize(ctx,
			map[string][]float64{a.ID: a.Values, b.ID: b.Values},
			map[string][]float64{a.ID: a.Time, b.ID: b.Time},
			cfg)
		if err != nil {
			return Pair{}, fmt.Errorf("pair (%q, %q): %w", a.ID, b.ID, err)
		}

		return Pair{A: a.ID, B: b.ID, Output: out}, nil
	})
}

// DistanceMatrix returns the symmetric DTW distance matrix of in, compared on
// each series' finite values in time order. The diagonal is zero.
// ReturnPath in opts is ignored.
func DistanceMatrix(ctx context.Context, in []series.Series, opts dtw.Options, workers int) ([][]float64, error) {
	opts.ReturnPath = false
	if opts.MemoryMode == dtw.FullMatrix {
		opts.MemoryMode = dtw.TwoRows
	}

	seqs := make([][]float64, len(in))
	for i, s := range in {
		if err := s.Validate(); err != nil {
			return nil, err
		}
		seqs[i] = finiteInTimeOrder(s)
		if len(seqs[i]) == 0 {
			return nil, fmt.Errorf("series %q has no finite sample: %w", s.ID, series.ErrInsufficientData)
		}
	}

	pairs := upperPairs(len(in))
	dists, err := Map(ctx, pairs, workers, func(_ context.Context, _ int, ij [2]int) (float64, error) {
		d, _, err := dtw.DTW(seqs[ij[0]], seqs[ij[1]], &opts)
		if err != nil {
			return 0, fmt.Errorf("pair (%q, %q): %w", in[ij[0]].ID, in[ij[1]].ID, err)
		}

		return d, nil
	})
	if err != nil {
		return nil, err
	}

	m := make([][]float64, len(in))
	for i := range m {
		m[i] = make([]float64, len(in))
	}
	for k, ij := range pairs {
		m[ij[0]][ij[1]] = dists[k]
		m[ij[1]][ij[0]] = dists[k]
	}

	return m, nil
}

func upperPairs(n int) [][2]int {
	pairs := make([][2]int, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			pairs = append(pairs, [2]int{i, j})
		}
	}

	return pairs
}

func uniqueIDs(in []series.Series) error {
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		if _, dup := seen[s.ID]; dup {
			return fmt.Errorf("duplicate series id %q: %w", s.ID, series.ErrKeyMismatch)
		}
		seen[s.ID] = struct{}{}
	}

	return nil
}

// finiteInTimeOrder returns the values whose time and value are both finite,
// stably sorted by time.
func finiteInTimeOrder(s series.Series) []float64 {
	order := series.SortOrder(s.Time)
	out := make([]float64, 0, len(order))
	for _, k := range order {
		if series.IsFinite(s.Time[k]) && series.IsFinite(s.Values[k]) {
			out = append(out, s.Values[k])
		}
	}

	return out
}
