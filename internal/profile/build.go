package profile

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/suykerbuyk/manuscript-match/internal/config"
	"github.com/suykerbuyk/manuscript-match/internal/dialogue"
	"github.com/suykerbuyk/manuscript-match/internal/lexical"
)

var paragraphBreak = regexp.MustCompile(`\n\s*\n`)

// Builder derives profiles. It is safe for concurrent use.
type Builder struct {
	inferencer  *dialogue.Inferencer
	validator   *dialogue.Validator
	lexicon     *lexical.Extractor
	keywordTopN int
}

// NewBuilder wires the dialogue and lexical extractors from cfg.
func NewBuilder(cfg config.Config) (*Builder, error) {
	validator, err := dialogue.NewValidator(cfg.Dialogue)
	if err != nil {
		return nil, fmt.Errorf("build dialogue validator: %w", err)
	}
	return &Builder{
		inferencer:  dialogue.NewInferencer(cfg.Speaker),
		validator:   validator,
		lexicon:     lexical.New(cfg.Lexicon),
		keywordTopN: cfg.Analysis.KeywordTopN,
	}, nil
}

// Lexicon returns the extractor used for keywords, locations and tone.
func (b *Builder) Lexicon() *lexical.Extractor {
	return b.lexicon
}

// Build profiles doc. Empty text yields a zero-valued profile with an
// all-zero tone.
func (b *Builder) Build(doc Document) *Profile {
	text := strings.ReplaceAll(doc.Text, "\r\n", "\n")

	p := &Profile{
		Title:    doc.Title,
		Path:     doc.Path,
		Category: doc.Category,
		Text:     text,
	}

	p.WordCount = countWords(text)
	p.ParagraphCount = countParagraphs(text)

	candidates := dialogue.Scan(text)
	p.CandidateCount = len(candidates)
	if len(candidates) > 0 {
		runes := []rune(text)
		for _, c := range candidates {
			if !b.validator.Valid(c.Text) {
				continue
			}
			p.Dialogues = append(p.Dialogues, dialogue.Span{
				Text:     c.Text,
				Speaker:  b.inferencer.InferRunes(c.Text, c.Position, runes),
				Position: c.Position,
				Valid:    true,
			})
		}
	}
	p.ValidDialogueCount = len(p.Dialogues)

	p.Keywords = b.lexicon.Keywords(text, b.keywordTopN)
	p.Locations = b.lexicon.Locations(text)
	p.Tone = b.lexicon.EmotionalTone(text)

	return p
}

// countWords counts non-whitespace characters.
func countWords(text string) int {
	n := 0
	for _, r := range text {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}

// countParagraphs counts non-blank blocks separated by blank lines.
func countParagraphs(text string) int {
	n := 0
	for _, block := range paragraphBreak.Split(text, -1) {
		if strings.TrimSpace(block) != "" {
			n++
		}
	}
	return n
}
