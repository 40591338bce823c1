package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/tsalign/batch"
	"github.com/katalvlaran/tsalign/downsample"
	"github.com/katalvlaran/tsalign/result"
	"github.com/katalvlaran/tsalign/series"
)

// DownsampleOptions holds the downsample flags; empty or zero values keep the config.
type DownsampleOptions struct {
	Method string
	Points int
}

// NewDownsampleCommand creates the downsample command.
func NewDownsampleCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DownsampleOptions{}

	cmd := &cobra.Command{
		Use:   "downsample",
		Short: "Reduce every input series to a point budget",
		Long: `Decimate each series of the input document independently to at most
--points samples with the chosen algorithm, keeping original samples only.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDownsample(cmd, rootOpts, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Method, "method", "m", "", "lttb | minmax | adaptive | uniform | peak_aware")
	cmd.Flags().IntVarP(&opts.Points, "points", "n", 0, "target point count per series")

	return cmd
}

type downsampleView struct {
	Series []downsampleSeriesView `json:"series"`
}

type downsampleSeriesView struct {
	ID              string          `json:"id"`
	TSeconds        result.Floats   `json:"t_seconds"`
	Values          result.Floats   `json:"values"`
	SelectedIndices []int           `json:"selected_indices"`
	SourceIndices   []int           `json:"source_indices"`
	Metadata        result.Metadata `json:"metadata"`
}

func (v downsampleView) writeText(w io.Writer) error {
	for _, s := range v.Series {
		if _, err := fmt.Fprintf(w, "%s: %d of %v points, ratio %s\n",
			s.ID, len(s.Values), s.Metadata.Parameters["original_n"], num(s.Metadata.Quality.CompressionRatio)); err != nil {
			return err
		}
		if err := row(w, "index", "t", "value"); err != nil {
			return err
		}
		for i := range s.Values {
			if err := row(w, fmt.Sprint(s.SourceIndices[i]), num(s.TSeconds[i]), num(s.Values[i])); err != nil {
				return err
			}
		}
	}

	return nil
}

func runDownsample(cmd *cobra.Command, rootOpts *RootOptions, opts *DownsampleOptions) error {
	cfg := rootOpts.cfg
	if opts.Method != "" {
		cfg.Downsample.Method = opts.Method
	}
	if opts.Points != 0 {
		cfg.Downsample.Points = opts.Points
	}
	params, err := cfg.DownsampleParams()
	if err != nil {
		return WrapExitError(ExitCommandError, "downsample config", err)
	}
	if cfg.Downsample.Points <= 0 {
		return WrapExitError(ExitCommandError, "downsample config",
			fmt.Errorf("points %d: %w", cfg.Downsample.Points, series.ErrInvalidTarget))
	}

	in, err := readInput(cmd, rootOpts.Input)
	if err != nil {
		return err
	}

	keyParams := params.Parameters()
	keyParams["n_points"] = cfg.Downsample.Points
	view, err := cached(rootOpts, downsample.Operation, keyParams, in, func() (downsampleView, error) {
		outs, err := batch.DownsampleAll(commandContext(cmd), in, cfg.Downsample.Points, params, cfg.Workers)
		if err != nil {
			return downsampleView{}, transformError("downsample", err)
		}
		view := downsampleView{Series: make([]downsampleSeriesView, len(outs))}
		for i, out := range outs {
			view.Series[i] = downsampleSeriesView{
				ID:              in[i].ID,
				TSeconds:        out.TSeconds,
				Values:          out.Values,
				SelectedIndices: out.SelectedIndices,
				SourceIndices:   out.SourceIndices,
				Metadata:        out.Metadata,
			}
		}
		return view, nil
	})
	if err != nil {
		return err
	}

	return rootOpts.formatter(cmd).Success(view)
}
