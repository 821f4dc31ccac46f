// Package match scores a fragment profile against main-text profiles and
// ranks the candidates.
package match

import (
	"sort"

	"github.com/suykerbuyk/manuscript-match/internal/config"
	"github.com/suykerbuyk/manuscript-match/internal/profile"
)

// Signals holds the per-signal similarities, each in [0, 1].
type Signals struct {
	Keyword  float64 `json:"keyword" yaml:"keyword"`
	Dialogue float64 `json:"dialogue" yaml:"dialogue"`
	Location float64 `json:"location" yaml:"location"`
	Theme    float64 `json:"theme" yaml:"theme"`
	Emotion  float64 `json:"emotion" yaml:"emotion"`
}

// Score is one candidate's similarity to a fragment.
type Score struct {
	Target  *profile.Profile
	Signals Signals
	Total   float64
}

// Matcher applies a fixed weight set. It is safe for concurrent use.
type Matcher struct {
	weights config.WeightsConfig
}

// New returns a Matcher using weights, which are assumed validated.
func New(weights config.WeightsConfig) *Matcher {
	return &Matcher{weights: weights}
}

// Compare scores b against a. Every signal is symmetric, so
// Compare(a, b) and Compare(b, a) carry the same Signals and Total.
func (m *Matcher) Compare(a, b *profile.Profile) Score {
	keyword := Jaccard(a.Keywords, b.Keywords)
	s := Signals{
		Keyword:  keyword,
		Dialogue: DialogueSimilarity(a, b),
		Location: Jaccard(a.Locations, b.Locations),
		// Theme reuses keyword overlap until a separate theme extractor exists.
		Theme:   keyword,
		Emotion: EmotionSimilarity(a.Tone, b.Tone),
	}
	return Score{Target: b, Signals: s, Total: m.total(s)}
}

func (m *Matcher) total(s Signals) float64 {
	w := m.weights
	raw := s.Keyword*w.Keyword +
		s.Dialogue*w.Dialogue +
		s.Location*w.Location +
		s.Theme*w.Theme +
		s.Emotion*w.Emotion
	return clamp(raw)
}

// FindBest returns up to topN candidates by descending total. Candidates
// that score exactly 0 are dropped and ties keep input order. A topN of 0
// or less returns every nonzero candidate.
func (m *Matcher) FindBest(fragment *profile.Profile, candidates []*profile.Profile, topN int) []Score {
	var results []Score
	for _, c := range candidates {
		if c == nil {
			continue
		}
		s := m.Compare(fragment, c)
		if s.Total > 0 {
			results = append(results, s)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Total > results[j].Total
	})

	if topN > 0 && len(results) > topN {
		results = results[:topN]
	}
	return results
}
