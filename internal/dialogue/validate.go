package dialogue

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/suykerbuyk/manuscript-match/internal/config"
)

// Rejection reasons returned by Validator.Reject.
const (
	RejectTooShort    = "too_short"
	RejectLyric       = "lyric"
	RejectPhrase      = "non_dialogue_phrase"
	RejectPrefix      = "non_dialogue_prefix"
	RejectMonologue   = "monologue"
	RejectSymbolsOnly = "symbols_only"
)

// Validator rejects quoted runs that are not genuine dialogue.
type Validator struct {
	minLength int
	lyrics    []*regexp.Regexp
	phrases   map[string]bool
	prefixes  []string
	monologue []string
}

// NewValidator compiles the denylists in cfg.
func NewValidator(cfg config.DialogueConfig) (*Validator, error) {
	v := &Validator{
		minLength: cfg.MinLength,
		phrases:   make(map[string]bool, len(cfg.NonDialoguePhrases)),
		prefixes:  cfg.NonDialoguePrefixes,
		monologue: cfg.MonologueMarkers,
	}
	for _, p := range cfg.LyricPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compile lyric pattern %q: %w", p, err)
		}
		v.lyrics = append(v.lyrics, re)
	}
	for _, p := range cfg.NonDialoguePhrases {
		v.phrases[p] = true
	}
	return v, nil
}

// Valid reports whether text reads as dialogue.
func (v *Validator) Valid(text string) bool {
	return v.Reject(text) == ""
}

// Reject returns why text is not dialogue, or "" when it is.
func (v *Validator) Reject(text string) string {
	text = strings.TrimSpace(text)

	if utf8.RuneCountInString(text) < v.minLength {
		return RejectTooShort
	}
	for _, re := range v.lyrics {
		if re.MatchString(text) {
			return RejectLyric
		}
	}
	if v.phrases[text] {
		return RejectPhrase
	}
	for _, p := range v.prefixes {
		if p != "" && strings.HasPrefix(text, p) {
			return RejectPrefix
		}
	}
	for _, m := range v.monologue {
		if m != "" && strings.Contains(text, m) {
			return RejectMonologue
		}
	}
	if !hasWordChar(text) {
		return RejectSymbolsOnly
	}
	return ""
}

// hasWordChar reports whether s holds any letter or digit. Han characters
// are letters.
func hasWordChar(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
