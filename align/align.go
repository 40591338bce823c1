package align

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/katalvlaran/tsalign/grid"
	"github.com/katalvlaran/tsalign/kalman"
	"github.com/katalvlaran/tsalign/resample"
	"github.com/katalvlaran/tsalign/result"
	"github.com/katalvlaran/tsalign/series"
)

const (
	opSynchronize = "align.Synchronize"

	// Operation is the metadata operation name of Synchronize.
	Operation = "synchronize"
)

// Output is the synchronized view of several series.
// Every Synced[id] has len(TCommon) entries; IDs lists the keys in ascending order.
type Output struct {
	Combined       []float64
	Synced         map[string][]float64
	IDs            []string
	TCommon        []float64
	AlignmentError float64
	Confidence     float64
	Metadata       result.Metadata
}

// Synchronize places every series of values/times on one shared time grid.
//
// Implementation:
//   - Stage 1: validate cfg, then the inputs (equal key sets, non-empty,
//     per-series equal lengths).
//   - Stage 2: build the common grid once from all timestamp arrays.
//   - Stage 3: resample each series onto the grid with cfg.InterpMethod; for
//     MethodKalman, smooth each resampled series with kalman.Smooth.
//   - Stage 4: score the result (alignment error, confidence) and average
//     the synced series into Combined.
//
// Series are processed in ascending id order so the output is deterministic.
//
// Errors:
//   - series.ErrUnsupportedMethod, series.ErrInvalidStep, series.ErrInvalidParameter (cfg).
//   - series.ErrKeyMismatch, series.ErrEmptyInput, series.ErrLengthMismatch (inputs).
//   - series.ErrNoOverlap, series.ErrInsufficientData, series.ErrGridTooLarge (grid).
//   - context errors from the Kalman pass.
func Synchronize(ctx context.Context, values, times map[string][]float64, cfg Config) (*Output, error) {
	started := time.Now()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", opSynchronize, err)
	}
	ids, err := validateInputs(values, times)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opSynchronize, err)
	}
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
		cfg.Logger = log
	}

	timeList := make([][]float64, len(ids))
	for i, id := range ids {
		timeList[i] = times[id]
	}
	g, err := grid.Build(timeList, cfg.gridOptions()...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opSynchronize, err)
	}
	log.Debug("common grid built", "series", len(ids), "points", g.Len(), "step", g.Step, "start", g.Start, "end", g.End)

	interp, err := resample.For(cfg.InterpMethod)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opSynchronize, err)
	}

	synced := make(map[string][]float64, len(ids))
	for _, id := range ids {
		if err = ctx.Err(); err != nil {
			return nil, fmt.Errorf("%s: %w", opSynchronize, err)
		}
		out, err := resample.With(interp, times[id], values[id], g.Points)
		if err != nil {
			return nil, fmt.Errorf("%s: series %q: %w", opSynchronize, id, err)
		}
		if cfg.Method == MethodKalman {
			if out, err = smooth(ctx, g.Points, out, id, cfg); err != nil {
				return nil, fmt.Errorf("%s: series %q: %w", opSynchronize, id, err)
			}
		}
		synced[id] = out
	}

	rmse, mae := alignmentError(ids, values, times, synced, g)
	counts := result.CountFinite(syncedList(ids, synced)...)
	counts.NInterpolated = g.Len() * len(ids)
	conf := confidence(rmse, counts)

	params := cfg.Parameters()
	params["dt"] = g.Step
	params["n_series"] = len(ids)
	params["grid_points"] = g.Len()

	log.Debug("synchronized", "method", cfg.Method, "alignment_error", rmse, "confidence", conf)

	return &Output{
		Combined:       combine(ids, synced, g.Len()),
		Synced:         synced,
		IDs:            ids,
		TCommon:        g.Points,
		AlignmentError: rmse,
		Confidence:     conf,
		Metadata: result.NewMetadata(Operation, params, started, result.Quality{
			Counts: &counts,
			Errors: &result.Errors{RMSE: rmse, MAE: mae},
		}),
	}, nil
}

// validateInputs returns the sorted ids once values and times agree on keys,
// hold at least one series and agree on per-series lengths. Key sets are
// compared first.
func validateInputs(values, times map[string][]float64) ([]string, error) {
	if len(times) != len(values) {
		return nil, fmt.Errorf("%d series vs %d time arrays: %w", len(values), len(times), series.ErrKeyMismatch)
	}
	ids := series.SortedIDs(values)
	for _, id := range ids {
		if _, ok := times[id]; !ok {
			return nil, fmt.Errorf("series %q has no time array: %w", id, series.ErrKeyMismatch)
		}
	}
	if len(ids) == 0 {
		return nil, series.ErrEmptyInput
	}
	for _, id := range ids {
		if err := (series.Series{ID: id, Time: times[id], Values: values[id]}).Validate(); err != nil {
			return nil, err
		}
	}

	return ids, nil
}

func smooth(ctx context.Context, t, z []float64, id string, cfg Config) ([]float64, error) {
	out, stats, err := kalman.Smooth(ctx, t, z,
		kalman.WithProcessNoise(cfg.ProcessNoise),
		kalman.WithMeasurementNoise(cfg.MeasurementNoise),
		kalman.WithLogger(cfg.Logger),
	)
	if err != nil {
		return nil, err
	}
	if stats.ClampedSteps > 0 || stats.SingularFallbacks > 0 {
		cfg.Logger.Debug("kalman fallbacks", "series", id,
			"clamped_steps", stats.ClampedSteps, "singular_fallbacks", stats.SingularFallbacks)
	}

	return out, nil
}

func syncedList(ids []string, synced map[string][]float64) [][]float64 {
	out := make([][]float64, len(ids))
	for i, id := range ids {
		out[i] = synced[id]
	}

	return out
}
