package dialogue

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// quotePatterns are scanned independently. Each is non-greedy or excludes its
// own closing delimiter so adjacent quotes of one style never merge.
var quotePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?s)\x{201C}(.*?)\x{201D}`), // “ ”
	regexp.MustCompile(`(?s)\x{2018}(.*?)\x{2019}`), // ‘ ’
	regexp.MustCompile(`"([^"]*)"`),
	regexp.MustCompile(`'([^']*)'`),
	regexp.MustCompile(`「([^」]*)」`),
	regexp.MustCompile(`『([^』]*)』`),
}

// Scan finds quoted runs in text across all supported quotation styles.
// The result is sorted by position and has no duplicate (text, position) pairs.
func Scan(text string) []Candidate {
	if text == "" {
		return nil
	}

	offsets := newRuneOffsets(text)
	seen := make(map[Candidate]bool)
	var candidates []Candidate

	for _, re := range quotePatterns {
		for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
			inner := strings.TrimSpace(text[m[2]:m[3]])
			if inner == "" {
				continue
			}
			c := Candidate{Text: inner, Position: offsets.at(m[0])}
			if seen[c] {
				continue
			}
			seen[c] = true
			candidates = append(candidates, c)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Position < candidates[j].Position
	})

	return candidates
}

// runeOffsets maps byte offsets in a string to character offsets.
type runeOffsets []int

func newRuneOffsets(s string) runeOffsets {
	offsets := make(runeOffsets, len(s)+1)
	n := 0
	for i := 0; i < len(s); {
		_, size := utf8.DecodeRuneInString(s[i:])
		for k := 0; k < size; k++ {
			offsets[i+k] = n
		}
		i += size
		n++
	}
	offsets[len(s)] = n
	return offsets
}

func (o runeOffsets) at(byteOffset int) int {
	return o[byteOffset]
}
