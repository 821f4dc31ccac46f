package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/suykerbuyk/manuscript-match/internal/config"
	"github.com/suykerbuyk/manuscript-match/internal/logging"
)

const version = "0.1.0"

// skipConfig marks commands that run without loading config.
const skipConfig = "skip-config"

// app is the state shared by every subcommand once the root pre-run has
// loaded config and built the logger.
type app struct {
	configPath    string
	manuscriptDir string
	outputDir     string
	logLevel      string

	cfg      config.Config
	logger   *zap.Logger
	closeLog func() error
}

func newApp() *app {
	return &app{logger: logging.Nop(), closeLog: func() error { return nil }}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "mm",
		Short: "manuscript-match: match manuscript fragments to main-text chapters",
		Long: `mm profiles the fragments and main-text chapters of a manuscript
(dialogue, speakers, keywords, locations, emotional tone) and ranks,
for every fragment, the chapters it most plausibly belongs to.

Configuration: ~/.config/manuscript-match/config.toml`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations[skipConfig] != "" {
				return nil
			}
			return a.load()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "config file (default $XDG_CONFIG_HOME/manuscript-match/config.toml)")
	flags.StringVarP(&a.manuscriptDir, "manuscript", "m", "", "manuscript directory (overrides manuscript_dir)")
	flags.StringVarP(&a.outputDir, "output", "o", "", "report directory (overrides output_dir)")
	flags.StringVar(&a.logLevel, "log-level", "", "debug, info, warn or error (overrides logging.level)")

	root.AddCommand(
		newAnalyzeCmd(a),
		newWatchCmd(a),
		newCheckCmd(a),
		newHistoryCmd(a),
		newInitCmd(),
		newVersionCmd(),
		newManCmd(),
	)
	return root
}

// load reads config, applies flag overrides and builds the logger.
func (a *app) load() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if a.manuscriptDir != "" {
		cfg.ManuscriptDir = a.manuscriptDir
	}
	if a.outputDir != "" {
		cfg.OutputDir = a.outputDir
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}

	logger, closeLog, err := logging.New(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	a.cfg = cfg
	a.logger = logger
	a.closeLog = closeLog
	return nil
}

// close flushes the logger and releases its log file.
func (a *app) close() error {
	_ = a.logger.Sync()
	closeLog := a.closeLog
	a.closeLog = func() error { return nil }
	return closeLog()
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print version",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipConfig: "true"},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "mm v%s (manuscript-match)\n", version)
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := execute(ctx, newApp(), os.Args[1:], os.Stdout)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "mm: %v\n", err)
		os.Exit(1)
	}
}

// execute runs the command line against a and closes its logger whether or
// not the command succeeded.
func execute(ctx context.Context, a *app, args []string, out io.Writer) error {
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(out)
	err := root.ExecuteContext(ctx)
	if cerr := a.close(); err == nil && cerr != nil {
		err = fmt.Errorf("close log: %w", cerr)
	}
	return err
}
