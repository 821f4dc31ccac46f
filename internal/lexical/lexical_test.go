package lexical

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/suykerbuyk/manuscript-match/internal/config"
)

func newTestExtractor() *Extractor {
	return New(config.DefaultConfig().Lexicon)
}

func TestKeywords_FrequencyThenFirstOccurrence(t *testing.T) {
	e := newTestExtractor()

	// 咖啡 x3, 阳台 x2, then the remaining bigrams once each.
	text := "咖啡。阳台。咖啡，阳台，咖啡"
	got := e.Keywords(text, 2)
	want := []string{"咖啡", "阳台"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Keywords mismatch (-want +got):\n%s", diff)
	}
}

func TestKeywords_TiesKeepOrder(t *testing.T) {
	e := newTestExtractor()
	got := e.Keywords("海浪。夕阳。星空", 10)
	want := []string{"海浪", "夕阳", "星空"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Keywords mismatch (-want +got):\n%s", diff)
	}
}

func TestKeywords_Bigrams(t *testing.T) {
	e := newTestExtractor()
	got := e.Keywords("春夏秋", 10)
	want := []string{"春夏", "夏秋"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Keywords mismatch (-want +got):\n%s", diff)
	}
}

func TestKeywords_StopwordsAndNonHan(t *testing.T) {
	e := newTestExtractor()
	got := e.Keywords("这个 hello 123 那个", 10)
	if len(got) != 0 {
		t.Errorf("Keywords = %v, want none", got)
	}
}

func TestKeywords_Limit(t *testing.T) {
	e := newTestExtractor()
	text := strings.Repeat("甲乙丙丁戊己庚辛壬癸。", 3)
	if got := e.Keywords(text, 4); len(got) != 4 {
		t.Errorf("len = %d, want 4", len(got))
	}
	if got := e.Keywords(text, 0); got != nil {
		t.Errorf("Keywords(topN=0) = %v, want nil", got)
	}
}

func TestKeywords_CompatibilityFormsFolded(t *testing.T) {
	e := newTestExtractor()
	// U+F9DC is a compatibility ideograph for 隆.
	got := e.Keywords("\uF9DC冬。隆冬", 1)
	if diff := cmp.Diff([]string{"隆冬"}, got); diff != "" {
		t.Errorf("Keywords mismatch (-want +got):\n%s", diff)
	}
}

func TestLocations(t *testing.T) {
	e := newTestExtractor()

	tests := []struct {
		text string
		want []string
	}{
		{"我们在咖啡店见面，后来去了阳台。", []string{"咖啡店", "阳台"}},
		{"院子里的咖啡店很安静", []string{"咖啡店", "院子", "院子里的咖啡店"}},
		{"什么地方都没有", nil},
		{"", nil},
	}
	for _, tc := range tests {
		got := e.Locations(tc.text)
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("Locations(%q) mismatch (-want +got):\n%s", tc.text, diff)
		}
	}
}

func TestEmotionalTone(t *testing.T) {
	e := newTestExtractor()

	tone := e.EmotionalTone("我喜欢你，想念你，想念你的温柔。别怕。")
	if len(tone) != 5 {
		t.Fatalf("categories = %d, want 5", len(tone))
	}
	// 喜欢 想念 温柔 are distinct; repeats do not count twice.
	if got := tone["love"]; got != 0.6 {
		t.Errorf("love = %v, want 0.6", got)
	}
	if got := tone["comfort"]; got != 0.2 {
		t.Errorf("comfort = %v, want 0.2", got)
	}
	if got := tone["sad"]; got != 0 {
		t.Errorf("sad = %v, want 0", got)
	}
}

func TestEmotionalTone_Saturates(t *testing.T) {
	e := newTestExtractor()
	tone := e.EmotionalTone("喜欢 爱 心动 想念 拥抱 亲吻 暗恋 温柔")
	if got := tone["love"]; got != 1 {
		t.Errorf("love = %v, want 1", got)
	}
	for cat, v := range tone {
		if v < 0 || v > 1 {
			t.Errorf("%s = %v out of range", cat, v)
		}
	}
}
