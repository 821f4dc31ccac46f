// Package profile turns a titled document into the feature summary the
// matcher compares.
package profile

import (
	"github.com/suykerbuyk/manuscript-match/internal/dialogue"
	"github.com/suykerbuyk/manuscript-match/internal/lexical"
)

// Category says whether a document is a fragment to place or main text to
// place it against.
type Category string

const (
	Fragment Category = "fragment"
	MainText Category = "main_text"
)

// Document is a titled text loaded from the manuscript.
type Document struct {
	Title    string
	Path     string
	Text     string
	Category Category
}

// Profile is the immutable feature summary of one document.
type Profile struct {
	Title              string
	Path               string
	Category           Category
	Text               string
	WordCount          int
	ParagraphCount     int
	Dialogues          []dialogue.Span // valid spans only, in text order
	CandidateCount     int             // quoted runs seen before validation
	ValidDialogueCount int
	Keywords           []string
	Locations          []string
	Tone               lexical.Tone
}

// DialogueDensity returns valid dialogues per paragraph, or 0 for a
// document with no paragraphs.
func (p *Profile) DialogueDensity() float64 {
	if p.ParagraphCount == 0 {
		return 0
	}
	return float64(p.ValidDialogueCount) / float64(p.ParagraphCount)
}

// SpeakerCounts tallies valid dialogues by speaker.
func (p *Profile) SpeakerCounts() map[dialogue.Speaker]int {
	counts := make(map[dialogue.Speaker]int)
	for _, d := range p.Dialogues {
		counts[d.Speaker]++
	}
	return counts
}
