// Package session runs one end-to-end analysis of a manuscript: load,
// profile, match, then write reports, archive and history.
package session

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/suykerbuyk/manuscript-match/internal/analyze"
	"github.com/suykerbuyk/manuscript-match/internal/archive"
	"github.com/suykerbuyk/manuscript-match/internal/config"
	"github.com/suykerbuyk/manuscript-match/internal/history"
	"github.com/suykerbuyk/manuscript-match/internal/manifest"
	"github.com/suykerbuyk/manuscript-match/internal/report"
)

// Result holds the output of one run.
type Result struct {
	RunID       string
	Analysis    *analyze.Result
	Document    report.Document
	Reports     []string // written report paths
	ArchivePath string
	Skipped     bool
	Reason      string
}

// Options tunes Run. A nil Out suppresses the terminal report.
type Options struct {
	Out     io.Writer
	DryRun  bool // analyze and print only; write nothing
	Now     func() time.Time
	Logger  *zap.Logger
	Formats []string // overrides cfg.Report.Formats when set
}

// Run analyzes the manuscript described by cfg. Configuration and input
// errors abort the run; failures writing the archive or history are logged
// and the run still succeeds.
func Run(ctx context.Context, cfg config.Config, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	started := now()

	engine, err := analyze.New(cfg, logger)
	if err != nil {
		return nil, err
	}

	docs, err := manifest.Documents(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("load manuscript: %w", err)
	}
	if len(docs) == 0 {
		return &Result{Skipped: true, Reason: "no fragment or main-text documents found"}, nil
	}
	logger.Debug("documents loaded", zap.Int("count", len(docs)), zap.String("dir", cfg.ManuscriptDir))

	fragments, mainTexts := engine.BuildProfiles(docs)
	res := engine.AnalyzeAll(fragments, mainTexts)

	run := history.NewRun(res, cfg.ManuscriptDir, started)
	doc := report.Build(res, run.ID, started)
	out := &Result{RunID: run.ID, Analysis: res, Document: doc}

	if opts.Out != nil {
		report.Text(opts.Out, doc, now())
	}
	if opts.DryRun {
		return out, nil
	}

	formats := cfg.Report.Formats
	if len(opts.Formats) > 0 {
		formats = opts.Formats
	}
	out.Reports, err = report.Write(cfg.OutputDir, doc, formats)
	if err != nil {
		return out, fmt.Errorf("write reports: %w", err)
	}
	for _, p := range out.Reports {
		logger.Info("report written", zap.String("path", p))
	}

	if cfg.Report.Archive {
		if data, err := report.JSON(doc); err != nil {
			logger.Warn("encode archive snapshot", zap.Error(err))
		} else if out.ArchivePath, err = archive.Archive(data, cfg.ArchiveDir(), run.ID); err != nil {
			logger.Warn("archive report", zap.Error(err))
		}
	}
	run.ArchivePath = out.ArchivePath

	if cfg.Report.History {
		if err := record(ctx, cfg.HistoryPath(), run); err != nil {
			logger.Warn("record history", zap.Error(err))
		}
	}

	return out, nil
}

func record(ctx context.Context, path string, run history.Run) error {
	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.Record(ctx, run)
}
