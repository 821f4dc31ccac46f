package analyze

import (
	"github.com/suykerbuyk/manuscript-match/internal/dialogue"
	"github.com/suykerbuyk/manuscript-match/internal/match"
	"github.com/suykerbuyk/manuscript-match/internal/organize"
	"github.com/suykerbuyk/manuscript-match/internal/profile"
)

// Summary counts the documents in one analysis.
type Summary struct {
	FragmentCount  int
	MainTextCount  int
	TotalDocuments int
}

// FragmentResult is the per-fragment section of an analysis.
type FragmentResult struct {
	Profile  *profile.Profile
	Keywords []string                 // report-sized keyword list
	Samples  []dialogue.Span          // leading dialogue spans
	Speakers map[dialogue.Speaker]int // valid dialogues per speaker
	Matches  []match.Score            // best first, nonzero only
}

// Best returns the top match, if any.
func (r FragmentResult) Best() (match.Score, bool) {
	if len(r.Matches) == 0 {
		return match.Score{}, false
	}
	return r.Matches[0], true
}

// Result is everything AnalyzeAll produces.
type Result struct {
	Summary   Summary
	Fragments []FragmentResult
	Patterns  []organize.Pattern
}
