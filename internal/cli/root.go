// Package cli wires the tsalign transforms to a cobra command tree.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/tsalign/internal/config"
)

// RootOptions holds global flags for all commands, plus the state the root
// pre-run derives from them.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string
	CacheDir   string
	Input      string // "" or "-" reads stdin

	cfg    *config.Config
	logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command of the tsalign CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "tsalign",
		Short:         "Synchronize and downsample irregular time series",
		Long:          "tsalign aligns irregularly sampled series onto a common grid, decimates them for display and compares them with dynamic time warping.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}

			cfg, err := config.Load(opts.ConfigPath)
			if err != nil {
				return WrapExitError(ExitCommandError, "load config", err)
			}
			if opts.CacheDir != "" {
				cfg.Cache.Dir = opts.CacheDir
				cfg.Cache.Enabled = true
			}
			opts.cfg = cfg
			opts.logger = newLogger(cmd.ErrOrStderr(), opts)

			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "YAML configuration file")
	cmd.PersistentFlags().StringVar(&opts.CacheDir, "cache-dir", "", "persistent result cache directory (enables caching)")
	cmd.PersistentFlags().StringVarP(&opts.Input, "input", "i", "", "input JSON document (default stdin)")

	cmd.AddCommand(NewSyncCommand(opts))
	cmd.AddCommand(NewDownsampleCommand(opts))
	cmd.AddCommand(NewDistanceCommand(opts))

	return cmd
}

// newLogger writes diagnostics to w: debug level when verbose, warnings
// otherwise, JSON lines when the output format is json.
func newLogger(w io.Writer, opts *RootOptions) *slog.Logger {
	level := slog.LevelWarn
	if opts.Verbose {
		level = slog.LevelDebug
	}
	ho := &slog.HandlerOptions{Level: level}
	if opts.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, ho))
	}

	return slog.New(slog.NewTextHandler(w, ho))
}
