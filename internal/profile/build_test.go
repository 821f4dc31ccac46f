package profile

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/suykerbuyk/manuscript-match/internal/config"
	"github.com/suykerbuyk/manuscript-match/internal/dialogue"
)

func newTestBuilder(t *testing.T) *Builder {
	t.Helper()
	b, err := NewBuilder(config.DefaultConfig())
	if err != nil {
		t.Fatalf("NewBuilder: %v", err)
	}
	return b
}

func TestBuild_Counts(t *testing.T) {
	b := newTestBuilder(t)

	text := "第一段 文字。\r\n\r\n第二段。\n  \n\n第三段"
	p := b.Build(Document{Title: "t", Text: text, Category: MainText})

	if p.ParagraphCount != 3 {
		t.Errorf("ParagraphCount = %d, want 3", p.ParagraphCount)
	}
	// 第一段文字。 6 + 第二段。 4 + 第三段 3
	if p.WordCount != 13 {
		t.Errorf("WordCount = %d, want 13", p.WordCount)
	}
	if p.Category != MainText {
		t.Errorf("Category = %q", p.Category)
	}
}

func TestBuild_Dialogues(t *testing.T) {
	b := newTestBuilder(t)

	text := "她问：「真的吗？」\n\n他笑着说：“我们走吧。”\n\n“嗯”\n\n“雨纷纷，旧故里草木深”"
	p := b.Build(Document{Title: "t", Text: text, Category: Fragment})

	if p.CandidateCount != 4 {
		t.Errorf("CandidateCount = %d, want 4", p.CandidateCount)
	}
	if p.ValidDialogueCount != 2 {
		t.Fatalf("ValidDialogueCount = %d, want 2", p.ValidDialogueCount)
	}

	want := []dialogue.Span{
		{Text: "真的吗？", Speaker: dialogue.SpeakerFemale, Position: 3, Valid: true},
		{Text: "我们走吧。", Speaker: dialogue.SpeakerMale, Position: 16, Valid: true},
	}
	if diff := cmp.Diff(want, p.Dialogues); diff != "" {
		t.Errorf("Dialogues mismatch (-want +got):\n%s", diff)
	}

	if got := p.DialogueDensity(); got != 0.5 {
		t.Errorf("DialogueDensity = %v, want 0.5", got)
	}
	counts := p.SpeakerCounts()
	if counts[dialogue.SpeakerMale] != 1 || counts[dialogue.SpeakerFemale] != 1 {
		t.Errorf("SpeakerCounts = %v", counts)
	}
}

func TestBuild_Lexical(t *testing.T) {
	b := newTestBuilder(t)

	p := b.Build(Document{Title: "t", Text: "咖啡店里很温暖。咖啡店的阳台。", Category: Fragment})

	if diff := cmp.Diff([]string{"咖啡店", "阳台"}, p.Locations); diff != "" {
		t.Errorf("Locations mismatch (-want +got):\n%s", diff)
	}
	if len(p.Keywords) == 0 || p.Keywords[0] != "咖啡" {
		t.Errorf("Keywords = %v, want 咖啡 first", p.Keywords)
	}
	if p.Tone["comfort"] != 0.2 {
		t.Errorf("comfort = %v, want 0.2", p.Tone["comfort"])
	}
}

func TestBuild_Empty(t *testing.T) {
	b := newTestBuilder(t)

	p := b.Build(Document{Title: "empty", Category: Fragment})

	if p.WordCount != 0 || p.ParagraphCount != 0 || p.ValidDialogueCount != 0 {
		t.Errorf("counts = %d/%d/%d, want zeros", p.WordCount, p.ParagraphCount, p.ValidDialogueCount)
	}
	if p.DialogueDensity() != 0 {
		t.Errorf("DialogueDensity = %v, want 0", p.DialogueDensity())
	}
	if len(p.Keywords) != 0 || len(p.Locations) != 0 {
		t.Errorf("Keywords = %v, Locations = %v", p.Keywords, p.Locations)
	}
	if len(p.Tone) != 5 {
		t.Fatalf("Tone has %d categories, want 5", len(p.Tone))
	}
	for cat, v := range p.Tone {
		if v != 0 {
			t.Errorf("Tone[%s] = %v, want 0", cat, v)
		}
	}
}

func TestBuild_Deterministic(t *testing.T) {
	b := newTestBuilder(t)
	doc := Document{Title: "t", Text: "他说：“明天见。”她沉默了。\n\n海边的风很大。", Category: Fragment}

	first := b.Build(doc)
	for i := 0; i < 5; i++ {
		if diff := cmp.Diff(first, b.Build(doc)); diff != "" {
			t.Fatalf("run %d differs (-first +got):\n%s", i, diff)
		}
	}
}
