package config

import (
	"fmt"
	"math"
	"regexp"
)

const weightTolerance = 1e-6

// ConfigError reports a configuration problem detected before any document
// is processed.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...any) *ConfigError {
	return &ConfigError{Field: field, Message: fmt.Sprintf(format, args...)}
}

var speakerLabels = map[string]bool{"male": true, "female": true, "other": true}

var reportFormats = map[string]bool{"json": true, "yaml": true, "markdown": true}

// Validate checks weights, vocabularies and limits. It returns a *ConfigError.
func (c Config) Validate() error {
	if err := c.Weights.validate(); err != nil {
		return err
	}

	a := c.Analysis
	switch {
	case a.MatchTopN < 1:
		return invalid("analysis.match_top_n", "must be >= 1, got %d", a.MatchTopN)
	case a.KeywordTopN < 1:
		return invalid("analysis.keyword_top_n", "must be >= 1, got %d", a.KeywordTopN)
	case a.ReportKeywordTopN < 0:
		return invalid("analysis.report_keyword_top_n", "must be >= 0, got %d", a.ReportKeywordTopN)
	case a.ReportDialogueSamples < 0:
		return invalid("analysis.report_dialogue_samples", "must be >= 0, got %d", a.ReportDialogueSamples)
	case a.Workers < 1:
		return invalid("analysis.workers", "must be >= 1, got %d", a.Workers)
	}

	if err := c.Speaker.validate(); err != nil {
		return err
	}
	if err := c.Dialogue.validate(); err != nil {
		return err
	}
	if err := c.Lexicon.validate(); err != nil {
		return err
	}

	if c.Parts.Fragment == "" || c.Parts.MainText == "" {
		return invalid("manifest_parts", "fragment and main_text part names are required")
	}
	if c.Parts.Fragment == c.Parts.MainText {
		return invalid("manifest_parts", "fragment and main_text must differ")
	}

	for _, f := range c.Report.Formats {
		if !reportFormats[f] {
			return invalid("report.formats", "unknown format %q", f)
		}
	}

	return nil
}

func (w WeightsConfig) validate() error {
	named := []struct {
		name string
		v    float64
	}{
		{"keyword", w.Keyword},
		{"dialogue", w.Dialogue},
		{"location", w.Location},
		{"theme", w.Theme},
		{"emotion", w.Emotion},
	}
	for _, n := range named {
		if n.v < 0 || math.IsNaN(n.v) {
			return invalid("weights."+n.name, "must be >= 0, got %v", n.v)
		}
	}
	if sum := w.Sum(); math.Abs(sum-1.0) > weightTolerance {
		return invalid("weights", "must sum to 1.0, got %.6f", sum)
	}
	return nil
}

func (s SpeakerConfig) validate() error {
	if s.Window < 1 {
		return invalid("speaker.window", "must be >= 1, got %d", s.Window)
	}
	if s.SpeechVerbGap < 0 {
		return invalid("speaker.speech_verb_gap", "must be >= 0, got %d", s.SpeechVerbGap)
	}
	if s.MalePronoun == "" || s.FemalePronoun == "" {
		return invalid("speaker", "male_pronoun and female_pronoun are required")
	}
	if len(s.SpeechVerbs) == 0 {
		return invalid("speaker.speech_verbs", "vocabulary is missing")
	}
	for label := range s.Endearments {
		if !speakerLabels[label] {
			return invalid("speaker.endearments", "unknown speaker %q", label)
		}
	}
	for label := range s.Topics {
		if !speakerLabels[label] {
			return invalid("speaker.topics", "unknown speaker %q", label)
		}
	}
	return nil
}

func (d DialogueConfig) validate() error {
	if d.MinLength < 0 {
		return invalid("dialogue.min_length", "must be >= 0, got %d", d.MinLength)
	}
	for _, p := range d.LyricPatterns {
		if _, err := regexp.Compile(p); err != nil {
			return invalid("dialogue.lyric_patterns", "bad pattern %q: %v", p, err)
		}
	}
	return nil
}

func (l LexiconConfig) validate() error {
	if len(l.Stopwords) == 0 {
		return invalid("lexicon.stopwords", "vocabulary is missing")
	}
	if len(l.Locations) == 0 {
		return invalid("lexicon.locations", "vocabulary is missing")
	}
	if len(l.EmotionCategories) == 0 {
		return invalid("lexicon.emotion_categories", "vocabulary is missing")
	}
	seen := make(map[string]bool, len(l.EmotionCategories))
	for _, cat := range l.EmotionCategories {
		if seen[cat] {
			return invalid("lexicon.emotion_categories", "duplicate category %q", cat)
		}
		seen[cat] = true
		if len(l.Emotions[cat]) == 0 {
			return invalid("lexicon.emotions", "category %q has no keywords", cat)
		}
	}
	if l.EmotionSaturation <= 0 {
		return invalid("lexicon.emotion_saturation", "must be > 0, got %v", l.EmotionSaturation)
	}
	return nil
}
