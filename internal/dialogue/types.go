package dialogue

// Speaker labels who most plausibly uttered a dialogue span.
type Speaker string

const (
	SpeakerMale    Speaker = "male"
	SpeakerFemale  Speaker = "female"
	SpeakerOther   Speaker = "other"
	SpeakerUnknown Speaker = "unknown"
)

// labelOrder is the order vocabulary rules are consulted in.
var labelOrder = []Speaker{SpeakerMale, SpeakerFemale, SpeakerOther}

// Candidate is a raw quoted run found by Scan, before attribution.
type Candidate struct {
	Text     string // trimmed content between the delimiters
	Position int    // character offset of the opening delimiter
}

// Span is a dialogue span with speaker and validity resolved.
// Spans are values and are never modified after construction.
type Span struct {
	Text     string  `json:"text" yaml:"text"`
	Speaker  Speaker `json:"speaker" yaml:"speaker"`
	Position int     `json:"position" yaml:"position"`
	Valid    bool    `json:"valid" yaml:"valid"`
}
