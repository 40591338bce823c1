package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/tsalign/align"
	"github.com/katalvlaran/tsalign/result"
)

// SyncOptions holds the sync flags; empty or zero values keep the config.
type SyncOptions struct {
	Method       string
	GridMethod   string
	InterpMethod string
	Step         float64
}

// NewSyncCommand creates the sync command.
func NewSyncCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SyncOptions{}

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Place every input series on one common time grid",
		Long: `Resample every series of the input document onto a shared grid spanning
the window where all of them have data, optionally Kalman/RTS-smoothed, and
report the per-series values, their average and an alignment score.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd, rootOpts, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Method, "method", "m", "", "common_grid_interpolate | kalman_align")
	cmd.Flags().StringVar(&opts.GridMethod, "grid-method", "", "step reducer: median | min | max | mean")
	cmd.Flags().StringVar(&opts.InterpMethod, "interp", "", "linear | cubic | nearest")
	cmd.Flags().Float64Var(&opts.Step, "dt", 0, "explicit grid step in seconds")

	return cmd
}

// syncView is the printable form of align.Output.
type syncView struct {
	IDs            []string                 `json:"ids"`
	TCommon        result.Floats            `json:"t_common"`
	Combined       result.Floats            `json:"combined"`
	Synced         map[string]result.Floats `json:"synced"`
	AlignmentError *float64                 `json:"alignment_error"`
	Confidence     float64                  `json:"confidence"`
	Metadata       result.Metadata          `json:"metadata"`
}

func newSyncView(out *align.Output) syncView {
	synced := make(map[string]result.Floats, len(out.Synced))
	for id, v := range out.Synced {
		synced[id] = v
	}

	return syncView{
		IDs:            out.IDs,
		TCommon:        out.TCommon,
		Combined:       out.Combined,
		Synced:         synced,
		AlignmentError: nullable(out.AlignmentError),
		Confidence:     out.Confidence,
		Metadata:       out.Metadata,
	}
}

func (v syncView) writeText(w io.Writer) error {
	alignErr := "NaN"
	if v.AlignmentError != nil {
		alignErr = num(*v.AlignmentError)
	}
	if _, err := fmt.Fprintf(w, "synchronize: %d series, %d grid points\nalignment_error: %s\nconfidence: %s\n",
		len(v.IDs), len(v.TCommon), alignErr, num(v.Confidence)); err != nil {
		return err
	}

	header := append([]string{"t", "combined"}, v.IDs...)
	if err := row(w, header...); err != nil {
		return err
	}
	for k, t := range v.TCommon {
		cells := []string{num(t), num(v.Combined[k])}
		for _, id := range v.IDs {
			cells = append(cells, num(v.Synced[id][k]))
		}
		if err := row(w, cells...); err != nil {
			return err
		}
	}

	return nil
}

func runSync(cmd *cobra.Command, rootOpts *RootOptions, opts *SyncOptions) error {
	cfg := rootOpts.cfg
	if opts.Method != "" {
		cfg.Sync.Method = opts.Method
	}
	if opts.GridMethod != "" {
		cfg.Sync.GridMethod = opts.GridMethod
	}
	if opts.InterpMethod != "" {
		cfg.Sync.InterpMethod = opts.InterpMethod
	}
	if cmd.Flags().Changed("dt") {
		cfg.Sync.Step = opts.Step
	}
	alignCfg, err := cfg.AlignConfig(rootOpts.logger)
	if err != nil {
		return WrapExitError(ExitCommandError, "sync config", err)
	}

	in, err := readInput(cmd, rootOpts.Input)
	if err != nil {
		return err
	}
	values := make(map[string][]float64, len(in))
	times := make(map[string][]float64, len(in))
	for _, s := range in {
		values[s.ID], times[s.ID] = s.Values, s.Time
	}

	view, err := cached(rootOpts, align.Operation, alignCfg.Parameters(), in, func() (syncView, error) {
		out, err := align.Synchronize(commandContext(cmd), values, times, alignCfg)
		if err != nil {
			return syncView{}, transformError("synchronize", err)
		}
		return newSyncView(out), nil
	})
	if err != nil {
		return err
	}

	return rootOpts.formatter(cmd).Success(view)
}
