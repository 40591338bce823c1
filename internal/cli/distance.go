package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/tsalign/batch"
	"github.com/katalvlaran/tsalign/result"
)

// DistanceOptions holds the distance flags.
type DistanceOptions struct {
	Window       int
	SlopePenalty float64
}

// NewDistanceCommand creates the distance command.
func NewDistanceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DistanceOptions{}

	cmd := &cobra.Command{
		Use:   "distance",
		Short: "Pairwise DTW distance matrix of the input series",
		Long: `Compare every pair of input series with dynamic time warping over their
finite values in time order. +Inf means no warping path fits the window.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDistance(cmd, rootOpts, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.Window, "window", "w", -1, "Sakoe-Chiba band radius (-1 unlimited)")
	cmd.Flags().Float64Var(&opts.SlopePenalty, "slope-penalty", 0, "extra cost of a non-diagonal step")

	return cmd
}

type distanceView struct {
	IDs    []string        `json:"ids"`
	Matrix []result.Floats `json:"matrix"`
}

func (v distanceView) writeText(w io.Writer) error {
	if err := row(w, append([]string{""}, v.IDs...)...); err != nil {
		return err
	}
	for i, id := range v.IDs {
		cells := []string{id}
		for _, d := range v.Matrix[i] {
			cells = append(cells, num(d))
		}
		if err := row(w, cells...); err != nil {
			return err
		}
	}

	return nil
}

func runDistance(cmd *cobra.Command, rootOpts *RootOptions, opts *DistanceOptions) error {
	cfg := rootOpts.cfg
	if cmd.Flags().Changed("window") {
		cfg.Distance.Window = opts.Window
	}
	if cmd.Flags().Changed("slope-penalty") {
		cfg.Distance.SlopePenalty = opts.SlopePenalty
	}
	if err := cfg.Validate(); err != nil {
		return WrapExitError(ExitCommandError, "distance config", err)
	}
	dtwOpts := cfg.DTWOptions()

	in, err := readInput(cmd, rootOpts.Input)
	if err != nil {
		return err
	}

	params := map[string]any{"window": dtwOpts.Window, "slope_penalty": dtwOpts.SlopePenalty}
	view, err := cached(rootOpts, "distance", params, in, func() (distanceView, error) {
		m, err := batch.DistanceMatrix(commandContext(cmd), in, *dtwOpts, cfg.Workers)
		if err != nil {
			return distanceView{}, transformError("distance", err)
		}
		view := distanceView{IDs: make([]string, len(in)), Matrix: make([]result.Floats, len(m))}
		for i, s := range in {
			view.IDs[i] = s.ID
			view.Matrix[i] = m[i]
		}
		return view, nil
	})
	if err != nil {
		return err
	}

	return rootOpts.formatter(cmd).Success(view)
}
