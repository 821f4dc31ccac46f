// Package report renders analysis results as JSON, YAML, Markdown and
// terminal text, and writes report files.
package report

import (
	"math"
	"time"

	"github.com/suykerbuyk/manuscript-match/internal/analyze"
	"github.com/suykerbuyk/manuscript-match/internal/organize"
)

// Document is the serialized form of an analysis. Scores are rounded to
// three decimal places.
type Document struct {
	RunID       string             `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	GeneratedAt time.Time          `json:"generated_at" yaml:"generated_at"`
	Summary     Summary            `json:"summary" yaml:"summary"`
	Fragments   []Fragment         `json:"fragment_analysis" yaml:"fragment_analysis"`
	Patterns    []organize.Pattern `json:"organization_patterns" yaml:"organization_patterns"`
}

// Summary counts the documents the run analyzed.
type Summary struct {
	TotalDocuments int `json:"total_documents" yaml:"total_documents"`
	FragmentCount  int `json:"fragment_count" yaml:"fragment_count"`
	MainTextCount  int `json:"main_text_count" yaml:"main_text_count"`
}

// Fragment is one fragment's profile and its ranked main-text candidates.
// CandidateCount counts quoted runs seen before dialogue validation.
type Fragment struct {
	Title               string             `json:"title" yaml:"title"`
	WordCount           int                `json:"word_count" yaml:"word_count"`
	ParagraphCount      int                `json:"paragraph_count" yaml:"paragraph_count"`
	DialogueCount       int                `json:"dialogue_count" yaml:"dialogue_count"`
	CandidateCount      int                `json:"candidate_count" yaml:"candidate_count"`
	Keywords            []string           `json:"keywords" yaml:"keywords"`
	Locations           []string           `json:"locations" yaml:"locations"`
	EmotionalTone       map[string]float64 `json:"emotional_tone" yaml:"emotional_tone"`
	SpeakerDistribution map[string]int     `json:"speaker_distribution" yaml:"speaker_distribution"`
	Dialogues           []Dialogue         `json:"dialogues" yaml:"dialogues"`
	BestMatches         []Match            `json:"best_matches" yaml:"best_matches"`
}

// Dialogue is a sampled quote; Position is its rune offset in the fragment.
type Dialogue struct {
	Text     string `json:"text" yaml:"text"`
	Speaker  string `json:"speaker" yaml:"speaker"`
	Position int    `json:"position" yaml:"position"`
}

// Match is one main-text candidate with its weighted score and the
// per-signal similarities behind it.
type Match struct {
	Title              string  `json:"title" yaml:"title"`
	Score              float64 `json:"score" yaml:"score"`
	KeywordOverlap     float64 `json:"keyword_overlap" yaml:"keyword_overlap"`
	DialogueSimilarity float64 `json:"dialogue_similarity" yaml:"dialogue_similarity"`
	LocationMatch      float64 `json:"location_match" yaml:"location_match"`
	ThemeSimilarity    float64 `json:"theme_similarity" yaml:"theme_similarity"`
	EmotionSimilarity  float64 `json:"emotion_similarity" yaml:"emotion_similarity"`
}

// Build converts res into a Document. Empty lists serialize as [] rather
// than null.
func Build(res *analyze.Result, runID string, at time.Time) Document {
	doc := Document{
		RunID:       runID,
		GeneratedAt: at.UTC().Truncate(time.Second),
		Summary: Summary{
			TotalDocuments: res.Summary.TotalDocuments,
			FragmentCount:  res.Summary.FragmentCount,
			MainTextCount:  res.Summary.MainTextCount,
		},
		Fragments: make([]Fragment, 0, len(res.Fragments)),
		Patterns:  res.Patterns,
	}
	if doc.Patterns == nil {
		doc.Patterns = []organize.Pattern{}
	}

	for _, fr := range res.Fragments {
		p := fr.Profile
		f := Fragment{
			Title:               p.Title,
			WordCount:           p.WordCount,
			ParagraphCount:      p.ParagraphCount,
			DialogueCount:       p.ValidDialogueCount,
			CandidateCount:      p.CandidateCount,
			Keywords:            nonNil(fr.Keywords),
			Locations:           nonNil(p.Locations),
			EmotionalTone:       make(map[string]float64, len(p.Tone)),
			SpeakerDistribution: make(map[string]int, len(fr.Speakers)),
			Dialogues:           make([]Dialogue, 0, len(fr.Samples)),
			BestMatches:         make([]Match, 0, len(fr.Matches)),
		}
		for cat, v := range p.Tone {
			f.EmotionalTone[cat] = round3(v)
		}
		for sp, n := range fr.Speakers {
			f.SpeakerDistribution[string(sp)] = n
		}
		for _, d := range fr.Samples {
			f.Dialogues = append(f.Dialogues, Dialogue{Text: d.Text, Speaker: string(d.Speaker), Position: d.Position})
		}
		for _, m := range fr.Matches {
			f.BestMatches = append(f.BestMatches, Match{
				Title:              m.Target.Title,
				Score:              round3(m.Total),
				KeywordOverlap:     round3(m.Signals.Keyword),
				DialogueSimilarity: round3(m.Signals.Dialogue),
				LocationMatch:      round3(m.Signals.Location),
				ThemeSimilarity:    round3(m.Signals.Theme),
				EmotionSimilarity:  round3(m.Signals.Emotion),
			})
		}
		doc.Fragments = append(doc.Fragments, f)
	}

	return doc
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
