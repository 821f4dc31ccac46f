package match

import (
	"math"
	"sort"

	"github.com/suykerbuyk/manuscript-match/internal/lexical"
	"github.com/suykerbuyk/manuscript-match/internal/profile"
)

// Jaccard returns |a∩b| / |a∪b| over the distinct members of a and b.
// Either side empty yields 0.
func Jaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	setA := make(map[string]bool, len(a))
	for _, s := range a {
		setA[s] = true
	}
	setB := make(map[string]bool, len(b))
	for _, s := range b {
		setB[s] = true
	}

	inter := 0
	for s := range setA {
		if setB[s] {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// DialogueSimilarity compares dialogue densities: 1 - |dA - dB|, floored at 0.
func DialogueSimilarity(a, b *profile.Profile) float64 {
	return clamp(1 - math.Abs(a.DialogueDensity()-b.DialogueDensity()))
}

// EmotionSimilarity averages 1 - |a[c] - b[c]| over the union of
// categories, treating a missing category as 0. An empty union yields 0.
func EmotionSimilarity(a, b lexical.Tone) float64 {
	seen := make(map[string]bool, len(a)+len(b))
	var cats []string
	for _, t := range []lexical.Tone{a, b} {
		for c := range t {
			if !seen[c] {
				seen[c] = true
				cats = append(cats, c)
			}
		}
	}
	if len(cats) == 0 {
		return 0
	}
	// Fixed summation order keeps the result bit-identical across runs.
	sort.Strings(cats)

	sum := 0.0
	for _, c := range cats {
		sum += 1 - math.Abs(a[c]-b[c])
	}
	return clamp(sum / float64(len(cats)))
}

// clamp limits a value to [0, 1].
func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
