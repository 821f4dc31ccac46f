// Package lexical extracts keywords, location mentions and emotional tone
// from Chinese prose using configured vocabularies.
package lexical

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/suykerbuyk/manuscript-match/internal/config"
)

var hanRun = regexp.MustCompile(`[\x{4e00}-\x{9fff}]+`)

// Tone maps an emotion category to an intensity in [0, 1].
type Tone map[string]float64

// Extractor runs the three lexical extractors against one vocabulary set.
// It holds no mutable state and is safe for concurrent use.
type Extractor struct {
	stopwords  map[string]bool
	locations  []string
	categories []string
	emotions   map[string][]string
	saturation float64
}

// New builds an Extractor from validated lexicon config.
func New(cfg config.LexiconConfig) *Extractor {
	e := &Extractor{
		stopwords:  make(map[string]bool, len(cfg.Stopwords)),
		categories: cfg.EmotionCategories,
		emotions:   make(map[string][]string, len(cfg.Emotions)),
		saturation: cfg.EmotionSaturation,
	}
	for _, w := range cfg.Stopwords {
		e.stopwords[fold(w)] = true
	}
	for _, loc := range cfg.Locations {
		e.locations = append(e.locations, fold(loc))
	}
	for cat, words := range cfg.Emotions {
		for _, w := range words {
			e.emotions[cat] = append(e.emotions[cat], fold(w))
		}
	}
	return e
}

// fold normalizes compatibility forms so full-width and variant characters
// compare equal to their canonical spelling.
func fold(s string) string {
	return norm.NFKC.String(s)
}

// Keywords returns up to topN two-character terms by descending frequency.
// Ties keep first-occurrence order. Stopwords are excluded.
func (e *Extractor) Keywords(text string, topN int) []string {
	if topN <= 0 {
		return nil
	}

	counts := make(map[string]int)
	var order []string
	for _, run := range hanRun.FindAllString(fold(text), -1) {
		runes := []rune(run)
		for i := 0; i+1 < len(runes); i++ {
			term := string(runes[i : i+2])
			if e.stopwords[term] {
				continue
			}
			if counts[term] == 0 {
				order = append(order, term)
			}
			counts[term]++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > topN {
		order = order[:topN]
	}
	return order
}

// Locations returns every configured location that occurs in text, in
// vocabulary order.
func (e *Extractor) Locations(text string) []string {
	text = fold(text)
	var found []string
	seen := make(map[string]bool)
	for _, loc := range e.locations {
		if loc == "" || seen[loc] {
			continue
		}
		if strings.Contains(text, loc) {
			found = append(found, loc)
			seen[loc] = true
		}
	}
	return found
}

// EmotionalTone scores each configured category by the number of its
// distinct keywords present in text, divided by the saturation count and
// clamped to 1. Every configured category appears in the result.
func (e *Extractor) EmotionalTone(text string) Tone {
	text = fold(text)
	tone := make(Tone, len(e.categories))
	for _, cat := range e.categories {
		distinct := make(map[string]bool)
		for _, w := range e.emotions[cat] {
			if w != "" && strings.Contains(text, w) {
				distinct[w] = true
			}
		}
		score := float64(len(distinct)) / e.saturation
		if score > 1 {
			score = 1
		}
		tone[cat] = score
	}
	return tone
}
