package dialogue

import (
	"strings"
	"unicode"

	"github.com/suykerbuyk/manuscript-match/internal/config"
)

// Inferencer attributes a quote to a speaker from the characters that
// precede it and from vocabulary inside the quote itself.
type Inferencer struct {
	window      int
	gap         int
	male        []rune
	female      []rune
	plural      []rune
	verbs       []speechVerb
	terminators string
	endearments []labeledTerms
	topics      []labeledTerms
}

// speechVerb carries the compounds that contain the verb without being
// speech, with the verb's offset inside each.
type speechVerb struct {
	verb      []rune
	compounds []compound
}

type compound struct {
	word   []rune
	offset int
}

type labeledTerms struct {
	speaker Speaker
	terms   []string
}

// NewInferencer builds an Inferencer from validated speaker config.
func NewInferencer(cfg config.SpeakerConfig) *Inferencer {
	in := &Inferencer{
		window:      cfg.Window,
		gap:         cfg.SpeechVerbGap,
		male:        []rune(cfg.MalePronoun),
		female:      []rune(cfg.FemalePronoun),
		plural:      []rune(cfg.PluralMarker),
		terminators: cfg.SentenceTerminators,
		endearments: labeled(cfg.Endearments),
		topics:      labeled(cfg.Topics),
	}
	for _, v := range cfg.SpeechVerbs {
		if v == "" {
			continue
		}
		sv := speechVerb{verb: []rune(v)}
		for _, c := range cfg.NonSpeechCompounds {
			word := []rune(c)
			for k := 0; k+len(sv.verb) <= len(word); k++ {
				if hasPrefixAt(word, k, sv.verb) {
					sv.compounds = append(sv.compounds, compound{word: word, offset: k})
				}
			}
		}
		in.verbs = append(in.verbs, sv)
	}
	return in
}

func labeled(m map[string][]string) []labeledTerms {
	var out []labeledTerms
	for _, sp := range labelOrder {
		if terms := m[string(sp)]; len(terms) > 0 {
			out = append(out, labeledTerms{speaker: sp, terms: terms})
		}
	}
	return out
}

// Infer labels quote, whose opening delimiter sits at character offset pos
// in source.
func (in *Inferencer) Infer(quote string, pos int, source string) Speaker {
	return in.InferRunes(quote, pos, []rune(source))
}

// InferRunes is Infer for callers that already hold the source as runes.
// Rules are tried in order and the first that fires wins:
//
//  1. a singular pronoun followed by a speech verb in the preceding window;
//     the cue nearest the quote decides
//  2. a singular pronoun in the last sentence of the preceding window
//  3. an endearment inside the quote
//  4. a topic word inside the quote
func (in *Inferencer) InferRunes(quote string, pos int, source []rune) Speaker {
	if pos > len(source) {
		pos = len(source)
	}
	if pos < 0 {
		pos = 0
	}
	start := pos - in.window
	if start < 0 {
		start = 0
	}
	context := source[start:pos]

	if sp := in.bySpeechVerb(context); sp != SpeakerUnknown {
		return sp
	}
	if sp := in.byLastSentence(context); sp != SpeakerUnknown {
		return sp
	}
	if sp := matchTerms(quote, in.endearments); sp != SpeakerUnknown {
		return sp
	}
	return matchTerms(quote, in.topics)
}

func (in *Inferencer) bySpeechVerb(context []rune) Speaker {
	male := in.lastSpeechCue(context, in.male)
	female := in.lastSpeechCue(context, in.female)
	switch {
	case male < 0 && female < 0:
		return SpeakerUnknown
	case male > female:
		return SpeakerMale
	}
	return SpeakerFemale
}

// lastSpeechCue returns the offset of the last singular occurrence of
// pronoun that is followed by a speech verb, or -1. Up to gap filler
// characters may sit between them; filler stops at punctuation, sentence
// terminators and the other pronoun.
func (in *Inferencer) lastSpeechCue(context, pronoun []rune) int {
	last := -1
	for _, i := range in.singularAt(context, pronoun) {
		j := i + len(pronoun)
		for skipped := 0; skipped <= in.gap && j <= len(context); skipped++ {
			if in.verbAt(context, j) {
				last = i
				break
			}
			if j == len(context) || !in.filler(context[j]) {
				break
			}
			j++
		}
	}
	return last
}

func (in *Inferencer) filler(r rune) bool {
	if unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r) {
		return false
	}
	if strings.ContainsRune(in.terminators, r) {
		return false
	}
	return !hasPrefixAt([]rune{r}, 0, in.male) && !hasPrefixAt([]rune{r}, 0, in.female)
}

// verbAt reports whether a speech verb starts at i and is not part of a
// non-speech compound such as 知道.
func (in *Inferencer) verbAt(context []rune, i int) bool {
	for _, v := range in.verbs {
		if hasPrefixAt(context, i, v.verb) && !v.inCompound(context, i) {
			return true
		}
	}
	return false
}

func (v speechVerb) inCompound(context []rune, i int) bool {
	for _, c := range v.compounds {
		if hasPrefixAt(context, i-c.offset, c.word) {
			return true
		}
	}
	return false
}

// singularAt returns the offsets of pronoun in context that are not followed
// by the plural marker.
func (in *Inferencer) singularAt(context, pronoun []rune) []int {
	if len(pronoun) == 0 {
		return nil
	}
	var out []int
	for i := 0; i+len(pronoun) <= len(context); i++ {
		if !hasPrefixAt(context, i, pronoun) {
			continue
		}
		if len(in.plural) > 0 && hasPrefixAt(context, i+len(pronoun), in.plural) {
			continue
		}
		out = append(out, i)
	}
	return out
}

func (in *Inferencer) byLastSentence(context []rune) Speaker {
	sentence := in.lastSentence(context)
	if len(sentence) == 0 {
		return SpeakerUnknown
	}
	hasMale := len(in.singularAt(sentence, in.male)) > 0
	hasFemale := len(in.singularAt(sentence, in.female)) > 0
	switch {
	case hasMale && !hasFemale:
		return SpeakerMale
	case hasFemale && !hasMale:
		return SpeakerFemale
	}
	return SpeakerUnknown
}

// lastSentence returns the last non-blank run between sentence terminators.
func (in *Inferencer) lastSentence(context []rune) []rune {
	end := len(context)
	for end > 0 {
		start := end
		for start > 0 && !strings.ContainsRune(in.terminators, context[start-1]) {
			start--
		}
		if s := strings.TrimSpace(string(context[start:end])); s != "" {
			return []rune(s)
		}
		end = start - 1
	}
	return nil
}

func matchTerms(quote string, sets []labeledTerms) Speaker {
	for _, set := range sets {
		for _, term := range set.terms {
			if term != "" && strings.Contains(quote, term) {
				return set.speaker
			}
		}
	}
	return SpeakerUnknown
}

func hasPrefixAt(s []rune, i int, prefix []rune) bool {
	if len(prefix) == 0 || i < 0 || i+len(prefix) > len(s) {
		return false
	}
	for k, r := range prefix {
		if s[i+k] != r {
			return false
		}
	}
	return true
}
