package check

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/suykerbuyk/manuscript-match/internal/archive"
	"github.com/suykerbuyk/manuscript-match/internal/config"
	"github.com/suykerbuyk/manuscript-match/internal/history"
	"github.com/suykerbuyk/manuscript-match/internal/manifest"
	"github.com/suykerbuyk/manuscript-match/internal/profile"
)

// Status represents the outcome of a single check.
type Status int

const (
	Pass Status = iota
	Warn
	Fail
)

func (s Status) String() string {
	switch s {
	case Pass:
		return "pass"
	case Warn:
		return "warn"
	case Fail:
		return "FAIL"
	default:
		return "unknown"
	}
}

// Result holds the outcome of a single check.
type Result struct {
	Name   string
	Status Status
	Detail string
}

// Report aggregates all check results.
type Report struct {
	Results []Result
}

// HasFailures returns true if any result has Fail status.
func (r Report) HasFailures() bool {
	for _, res := range r.Results {
		if res.Status == Fail {
			return true
		}
	}
	return false
}

// Format returns the human-readable report string.
func (r Report) Format() string {
	if len(r.Results) == 0 {
		return "mm check\n\n  no checks ran\n"
	}

	// Find max name length for alignment.
	maxName := 0
	for _, res := range r.Results {
		if len(res.Name) > maxName {
			maxName = len(res.Name)
		}
	}

	var b strings.Builder
	b.WriteString("mm check\n\n")

	var passed, warnings, failures int
	for _, res := range r.Results {
		switch res.Status {
		case Pass:
			passed++
		case Warn:
			warnings++
		case Fail:
			failures++
		}
		fmt.Fprintf(&b, "  %-4s  %-*s  %s\n", res.Status, maxName, res.Name, res.Detail)
	}

	fmt.Fprintf(&b, "\n%d passed, %d warning, %d failure\n", passed, warnings, failures)
	return b.String()
}

// CheckConfig reports the config file in effect. Broken TOML never gets
// here: loading fails first.
func CheckConfig(explicit string) Result {
	path := explicit
	if path == "" {
		path = os.Getenv("MM_CONFIG")
	}
	if path == "" {
		path = filepath.Join(config.ConfigDir(), "config.toml")
	}
	if _, err := os.Stat(path); err != nil {
		return Result{Name: "config", Status: Warn, Detail: config.CompressHome(path) + " not found (using defaults)"}
	}
	return Result{Name: "config", Status: Pass, Detail: config.CompressHome(path)}
}

// CheckManuscriptDir checks whether the manuscript directory exists.
func CheckManuscriptDir(path string) Result {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return Result{Name: "manuscript", Status: Pass, Detail: config.CompressHome(path)}
	}
	return Result{Name: "manuscript", Status: Fail, Detail: path + " not found"}
}

// CheckManifest resolves the table of contents and reports how many
// fragments and main texts it classifies.
func CheckManifest(cfg config.Config) (Result, *manifest.TOC) {
	source := filepath.Base(cfg.ManifestPath())
	if _, err := os.Stat(cfg.ManifestPath()); err != nil {
		source = "part directories"
	}

	toc, err := manifest.Resolve(cfg)
	if err != nil {
		return Result{Name: "manifest", Status: Fail, Detail: err.Error()}, nil
	}

	frags, mains := toc.Count(profile.Fragment), toc.Count(profile.MainText)
	detail := fmt.Sprintf("%s (%d fragments, %d main texts)", source, frags, mains)
	switch {
	case frags == 0 && mains == 0:
		return Result{Name: "manifest", Status: Warn, Detail: detail + ": nothing to analyze"}, toc
	case frags == 0 || mains == 0:
		return Result{Name: "manifest", Status: Warn, Detail: detail}, toc
	}
	return Result{Name: "manifest", Status: Pass, Detail: detail}, toc
}

// CheckDocuments reports manifest entries whose file is missing.
func CheckDocuments(dir string, toc *manifest.TOC) Result {
	if toc == nil {
		return Result{Name: "documents", Status: Warn, Detail: "skipped (no manifest)"}
	}

	var missing []string
	for _, e := range toc.Entries {
		if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(e.File))); err != nil {
			missing = append(missing, e.File)
		}
	}
	if len(missing) == 0 {
		return Result{Name: "documents", Status: Pass, Detail: fmt.Sprintf("%d files present", len(toc.Entries))}
	}

	detail := fmt.Sprintf("%d of %d missing: %s", len(missing), len(toc.Entries), strings.Join(first(missing, 3), ", "))
	if len(missing) > 3 {
		detail += ", ..."
	}
	return Result{Name: "documents", Status: Warn, Detail: detail}
}

func first(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

// CheckWeights reports the composite-score weights.
func CheckWeights(cfg config.Config) Result {
	w := cfg.Weights
	detail := fmt.Sprintf("keyword %.2f, dialogue %.2f, location %.2f, theme %.2f, emotion %.2f",
		w.Keyword, w.Dialogue, w.Location, w.Theme, w.Emotion)
	if err := cfg.Validate(); err != nil {
		return Result{Name: "weights", Status: Fail, Detail: err.Error()}
	}
	return Result{Name: "weights", Status: Pass, Detail: detail}
}

// CheckOutputDir checks that reports can be written to dir.
func CheckOutputDir(dir string) Result {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Result{Name: "output", Status: Fail, Detail: "cannot create " + dir}
	}
	f, err := os.CreateTemp(dir, ".mm-check-*")
	if err != nil {
		return Result{Name: "output", Status: Fail, Detail: config.CompressHome(dir) + " not writable"}
	}
	f.Close()
	os.Remove(f.Name())
	return Result{Name: "output", Status: Pass, Detail: config.CompressHome(dir)}
}

// CheckHistory reports whether the run history database exists yet.
func CheckHistory(path string, enabled bool) Result {
	if !enabled {
		return Result{Name: "history", Status: Pass, Detail: "disabled"}
	}
	if _, err := os.Stat(path); err != nil {
		return Result{Name: "history", Status: Warn, Detail: "no runs recorded yet"}
	}
	return Result{Name: "history", Status: Pass, Detail: config.CompressHome(path)}
}

// CheckArchive counts report snapshots and warns about recorded runs whose
// snapshot is gone.
func CheckArchive(archiveDir, historyPath string, enabled bool) Result {
	if !enabled {
		return Result{Name: "archive", Status: Pass, Detail: "disabled"}
	}
	ids, err := archive.List(archiveDir)
	if err != nil {
		return Result{Name: "archive", Status: Fail, Detail: err.Error()}
	}
	detail := fmt.Sprintf("%d snapshots in %s", len(ids), config.CompressHome(archiveDir))

	if _, err := os.Stat(historyPath); err != nil {
		return Result{Name: "archive", Status: Pass, Detail: detail}
	}
	store, err := history.Open(historyPath)
	if err != nil {
		return Result{Name: "archive", Status: Warn, Detail: detail + " (history unreadable)"}
	}
	defer store.Close()
	runs, err := store.List(context.Background(), 0)
	if err != nil {
		return Result{Name: "archive", Status: Warn, Detail: detail + " (history unreadable)"}
	}

	missing := 0
	for _, r := range runs {
		if r.ArchivePath != "" && !archive.IsArchived(r.ID, filepath.Dir(r.ArchivePath)) {
			missing++
		}
	}
	if missing > 0 {
		return Result{Name: "archive", Status: Warn, Detail: fmt.Sprintf("%s, %d recorded runs missing theirs", detail, missing)}
	}
	return Result{Name: "archive", Status: Pass, Detail: detail}
}

// Run executes all checks against the given config and returns a report.
func Run(cfg config.Config, configPath string) Report {
	var results []Result

	results = append(results, CheckConfig(configPath))
	results = append(results, CheckManuscriptDir(cfg.ManuscriptDir))
	manifestResult, toc := CheckManifest(cfg)
	results = append(results, manifestResult)
	results = append(results, CheckDocuments(cfg.ManuscriptDir, toc))
	results = append(results, CheckWeights(cfg))
	results = append(results, CheckOutputDir(cfg.OutputDir))
	results = append(results, CheckArchive(cfg.ArchiveDir(), cfg.HistoryPath(), cfg.Report.Archive))
	results = append(results, CheckHistory(cfg.HistoryPath(), cfg.Report.History))

	return Report{Results: results}
}
