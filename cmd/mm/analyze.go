package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/suykerbuyk/manuscript-match/internal/session"
	"github.com/suykerbuyk/manuscript-match/internal/watch"
)

type analyzeFlags struct {
	dryRun  bool
	quiet   bool
	formats []string
}

func (f *analyzeFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "print the report without writing files, archive or history")
	cmd.Flags().BoolVarP(&f.quiet, "quiet", "q", false, "do not print the terminal report")
	cmd.Flags().StringSliceVarP(&f.formats, "format", "f", nil, "report formats: json, yaml, markdown (overrides report.formats)")
}

func newAnalyzeCmd(a *app) *cobra.Command {
	var f analyzeFlags
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Match every fragment against the main texts and write reports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.analyze(cmd.Context(), cmd.OutOrStdout(), f)
		},
	}
	f.register(cmd)
	return cmd
}

func newWatchCmd(a *app) *cobra.Command {
	var f analyzeFlags
	var debounce time.Duration
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-run the analysis whenever manuscript files change",
		Long: `watch runs one analysis, then re-runs it each time Markdown or YAML
files under the manuscript directory settle after a change. The output
directory is ignored so written reports do not retrigger a run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			run := func(ctx context.Context) error {
				return a.analyze(ctx, out, f)
			}
			if err := run(ctx); err != nil {
				a.logger.Error("initial analysis failed", zap.Error(err))
			}
			return watch.Run(ctx, a.cfg.ManuscriptDir, watch.Options{
				Debounce: debounce,
				Ignore:   []string{a.cfg.OutputDir},
				Logger:   a.logger,
			}, run)
		},
	}
	f.register(cmd)
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "quiet period before re-running")
	return cmd
}

func (a *app) analyze(ctx context.Context, out io.Writer, f analyzeFlags) error {
	opts := session.Options{
		DryRun:  f.dryRun,
		Logger:  a.logger,
		Formats: f.formats,
	}
	if !f.quiet {
		opts.Out = out
	}

	res, err := session.Run(ctx, a.cfg, opts)
	if err != nil {
		return err
	}
	if res.Skipped {
		fmt.Fprintf(out, "skipped: %s\n", res.Reason)
		return nil
	}
	for _, p := range res.Reports {
		fmt.Fprintf(out, "created: %s\n", p)
	}
	if res.ArchivePath != "" {
		fmt.Fprintf(out, "archived: %s\n", res.ArchivePath)
	}
	return nil
}
