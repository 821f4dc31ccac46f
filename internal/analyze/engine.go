// Package analyze is the entry point to the matching engine: it builds
// profiles, ranks main-text candidates for each fragment and aggregates the
// organization patterns.
package analyze

import (
	"fmt"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"

	"github.com/suykerbuyk/manuscript-match/internal/config"
	"github.com/suykerbuyk/manuscript-match/internal/dialogue"
	"github.com/suykerbuyk/manuscript-match/internal/match"
	"github.com/suykerbuyk/manuscript-match/internal/organize"
	"github.com/suykerbuyk/manuscript-match/internal/profile"
)

// Engine holds the validated configuration and the extractors built from
// it. Profiles it returns are read-only and may be shared across goroutines.
type Engine struct {
	cfg     config.Config
	builder *profile.Builder
	matcher *match.Matcher
	logger  *zap.Logger
}

// New validates cfg and builds an Engine. Misconfiguration is reported as a
// *config.ConfigError before any document is processed.
func New(cfg config.Config, logger *zap.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine config: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	builder, err := profile.NewBuilder(cfg)
	if err != nil {
		return nil, err
	}

	return &Engine{
		cfg:     cfg,
		builder: builder,
		matcher: match.New(cfg.Weights),
		logger:  logger,
	}, nil
}

// BuildProfile profiles one document.
func (e *Engine) BuildProfile(title, text string, category profile.Category) *profile.Profile {
	return e.build(profile.Document{Title: title, Text: text, Category: category})
}

func (e *Engine) build(doc profile.Document) *profile.Profile {
	p := e.builder.Build(doc)
	e.logger.Debug("profile built",
		zap.String("title", p.Title),
		zap.String("category", string(p.Category)),
		zap.Int("words", p.WordCount),
		zap.Int("paragraphs", p.ParagraphCount),
		zap.Int("candidates", p.CandidateCount),
		zap.Int("dialogues", p.ValidDialogueCount),
	)
	return p
}

// BuildProfiles profiles docs on the worker pool and splits them by
// category, keeping input order within each.
func (e *Engine) BuildProfiles(docs []profile.Document) (fragments, mainTexts []*profile.Profile) {
	profiles := make([]*profile.Profile, len(docs))

	p := pool.New().WithMaxGoroutines(e.cfg.Analysis.Workers)
	for i, doc := range docs {
		p.Go(func() {
			profiles[i] = e.build(doc)
		})
	}
	p.Wait()

	for _, prof := range profiles {
		switch prof.Category {
		case profile.Fragment:
			fragments = append(fragments, prof)
		case profile.MainText:
			mainTexts = append(mainTexts, prof)
		}
	}

	e.logger.Info("profiles built",
		zap.Int("fragments", len(fragments)),
		zap.Int("main_texts", len(mainTexts)),
	)
	return fragments, mainTexts
}

// FindBestMatches ranks candidates against fragment. An empty candidate
// set yields an empty result, not an error.
func (e *Engine) FindBestMatches(fragment *profile.Profile, candidates []*profile.Profile, topN int) []match.Score {
	return e.matcher.FindBest(fragment, candidates, topN)
}

// AnalyzeAll matches every fragment against every main text. Fragments are
// scored in parallel; results keep fragment order.
func (e *Engine) AnalyzeAll(fragments, mainTexts []*profile.Profile) *Result {
	if len(mainTexts) == 0 && len(fragments) > 0 {
		e.logger.Debug("no main texts to match against", zap.Int("fragments", len(fragments)))
	}

	results := make([]FragmentResult, len(fragments))

	p := pool.New().WithMaxGoroutines(e.cfg.Analysis.Workers)
	for i, frag := range fragments {
		p.Go(func() {
			results[i] = e.analyzeFragment(frag, mainTexts)
		})
	}
	p.Wait()

	var best []match.Score
	for _, r := range results {
		if s, ok := r.Best(); ok {
			best = append(best, s)
		}
	}

	e.logger.Info("analysis complete",
		zap.Int("fragments", len(fragments)),
		zap.Int("main_texts", len(mainTexts)),
		zap.Int("matched", len(best)),
	)

	return &Result{
		Summary: Summary{
			FragmentCount:  len(fragments),
			MainTextCount:  len(mainTexts),
			TotalDocuments: len(fragments) + len(mainTexts),
		},
		Fragments: results,
		Patterns:  organize.Summarize(best),
	}
}

func (e *Engine) analyzeFragment(frag *profile.Profile, mainTexts []*profile.Profile) FragmentResult {
	a := e.cfg.Analysis

	keywords := frag.Keywords
	if a.ReportKeywordTopN > a.KeywordTopN {
		keywords = e.builder.Lexicon().Keywords(frag.Text, a.ReportKeywordTopN)
	} else if len(keywords) > a.ReportKeywordTopN {
		keywords = keywords[:a.ReportKeywordTopN]
	}

	var samples []dialogue.Span
	if n := min(a.ReportDialogueSamples, len(frag.Dialogues)); n > 0 {
		samples = frag.Dialogues[:n]
	}

	return FragmentResult{
		Profile:  frag,
		Keywords: keywords,
		Samples:  samples,
		Speakers: frag.SpeakerCounts(),
		Matches:  e.FindBestMatches(frag, mainTexts, a.MatchTopN),
	}
}
