// Package organize summarizes why fragments matched the main text they did.
package organize

import "github.com/suykerbuyk/manuscript-match/internal/match"

// Pattern is a named reason fragments connect to main text, with the number
// of fragments whose best match shows it.
type Pattern struct {
	Name        string `json:"name" yaml:"name"`
	Count       int    `json:"count" yaml:"count"`
	Description string `json:"description" yaml:"description"`
}

// emotionResonance is the emotion similarity above which a best match
// counts as emotional resonance.
const emotionResonance = 0.5

type rule struct {
	name        string
	description string
	applies     func(match.Signals) bool
}

var rules = []rule{
	{
		name:        "地点关联",
		description: "片段与正文通过相同或相关地点连接",
		applies:     func(s match.Signals) bool { return s.Location > 0 },
	},
	{
		name:        "关键词关联",
		description: "片段与正文通过主题关键词关联",
		applies:     func(s match.Signals) bool { return s.Keyword > 0 },
	},
	{
		name:        "情感共鸣",
		description: "片段与正文的情感基调相近",
		applies:     func(s match.Signals) bool { return s.Emotion > emotionResonance },
	},
}

// Summarize counts, over each fragment's best match, how many show each
// pattern. Every pattern is reported, in a fixed order, even at zero.
func Summarize(best []match.Score) []Pattern {
	out := make([]Pattern, 0, len(rules))
	for _, r := range rules {
		n := 0
		for _, s := range best {
			if r.applies(s.Signals) {
				n++
			}
		}
		out = append(out, Pattern{Name: r.name, Count: n, Description: r.description})
	}
	return out
}
