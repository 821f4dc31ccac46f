package analyze

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/suykerbuyk/manuscript-match/internal/config"
	"github.com/suykerbuyk/manuscript-match/internal/dialogue"
	"github.com/suykerbuyk/manuscript-match/internal/profile"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := New(config.DefaultConfig(), zaptest.NewLogger(t))
	require.NoError(t, err)
	return e
}

const (
	cafeFragment = "他说：“明天还在咖啡店见吧。”\n\n她笑了，阳台上的风很温暖。"
	cafeMain     = "那家咖啡店在街角。\n\n他问：“你还记得阳台吗？”\n\n她说：“记得，很温暖。”"
	beachMain    = "海边的夜很安静。\n\n她一个人走在栈道上，眼泪掉下来。"
)

func TestNew_RejectsBadWeights(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Weights.Emotion = 0.5

	_, err := New(cfg, nil)
	require.Error(t, err)

	var ce *config.ConfigError
	require.True(t, errors.As(err, &ce), "error %v is not a *config.ConfigError", err)
	assert.Equal(t, "weights", ce.Field)
}

func TestNew_RejectsMissingVocabulary(t *testing.T) {
	cfg := config.DefaultConfig()
	delete(cfg.Lexicon.Emotions, "hope")

	_, err := New(cfg, nil)
	var ce *config.ConfigError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "lexicon.emotions", ce.Field)
}

func TestBuildProfile(t *testing.T) {
	e := newTestEngine(t)

	p := e.BuildProfile("咖啡店", cafeFragment, profile.Fragment)
	assert.Equal(t, "咖啡店", p.Title)
	assert.Equal(t, profile.Fragment, p.Category)
	assert.Equal(t, 2, p.ParagraphCount)
	assert.Equal(t, 1, p.ValidDialogueCount)
	assert.LessOrEqual(t, p.ValidDialogueCount, p.CandidateCount)
	assert.Contains(t, p.Locations, "咖啡店")
	assert.Contains(t, p.Locations, "阳台")

	again := e.BuildProfile("咖啡店", cafeFragment, profile.Fragment)
	assert.Equal(t, p, again, "profiles of identical input must be identical")
}

func TestBuildProfiles_SplitsByCategory(t *testing.T) {
	e := newTestEngine(t)

	docs := []profile.Document{
		{Title: "f1", Text: cafeFragment, Category: profile.Fragment},
		{Title: "m1", Text: cafeMain, Category: profile.MainText},
		{Title: "f2", Text: "海边", Category: profile.Fragment},
		{Title: "m2", Text: beachMain, Category: profile.MainText},
	}

	fragments, mainTexts := e.BuildProfiles(docs)
	require.Len(t, fragments, 2)
	require.Len(t, mainTexts, 2)
	assert.Equal(t, "f1", fragments[0].Title)
	assert.Equal(t, "f2", fragments[1].Title)
	assert.Equal(t, "m1", mainTexts[0].Title)
	assert.Equal(t, "m2", mainTexts[1].Title)
}

func TestFindBestMatches(t *testing.T) {
	e := newTestEngine(t)

	frag := e.BuildProfile("f", cafeFragment, profile.Fragment)
	cafe := e.BuildProfile("cafe", cafeMain, profile.MainText)
	beach := e.BuildProfile("beach", beachMain, profile.MainText)

	got := e.FindBestMatches(frag, []*profile.Profile{beach, cafe}, 3)
	require.NotEmpty(t, got)
	assert.Equal(t, "cafe", got[0].Target.Title)
	assert.Greater(t, got[0].Signals.Location, 0.0)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Total, got[i].Total)
	}

	assert.Empty(t, e.FindBestMatches(frag, nil, 3), "empty candidate set is not an error")
}

func TestAnalyzeAll(t *testing.T) {
	e := newTestEngine(t)

	fragments, mainTexts := e.BuildProfiles([]profile.Document{
		{Title: "f", Text: cafeFragment, Category: profile.Fragment},
		{Title: "cafe", Text: cafeMain, Category: profile.MainText},
		{Title: "beach", Text: beachMain, Category: profile.MainText},
	})

	res := e.AnalyzeAll(fragments, mainTexts)
	assert.Equal(t, Summary{FragmentCount: 1, MainTextCount: 2, TotalDocuments: 3}, res.Summary)
	require.Len(t, res.Fragments, 1)

	fr := res.Fragments[0]
	assert.LessOrEqual(t, len(fr.Keywords), 5)
	assert.LessOrEqual(t, len(fr.Matches), 3)
	require.Len(t, fr.Samples, 1)
	assert.Equal(t, dialogue.SpeakerMale, fr.Samples[0].Speaker)
	assert.Equal(t, 1, fr.Speakers[dialogue.SpeakerMale])

	best, ok := fr.Best()
	require.True(t, ok)
	assert.Equal(t, "cafe", best.Target.Title)

	require.Len(t, res.Patterns, 3)
	assert.Equal(t, "地点关联", res.Patterns[0].Name)
	assert.Equal(t, 1, res.Patterns[0].Count)
}

func TestAnalyzeAll_NoMainTexts(t *testing.T) {
	e := newTestEngine(t)
	frag := e.BuildProfile("f", cafeFragment, profile.Fragment)

	res := e.AnalyzeAll([]*profile.Profile{frag}, nil)
	require.Len(t, res.Fragments, 1)
	assert.Empty(t, res.Fragments[0].Matches)
	_, ok := res.Fragments[0].Best()
	assert.False(t, ok)
	for _, p := range res.Patterns {
		assert.Zero(t, p.Count)
	}
}

func TestAnalyzeAll_KeepsFragmentOrder(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Analysis.Workers = 3
	e, err := New(cfg, nil)
	require.NoError(t, err)

	var fragments []*profile.Profile
	for i := 0; i < 20; i++ {
		fragments = append(fragments, e.BuildProfile(fmt.Sprintf("f%02d", i), cafeFragment, profile.Fragment))
	}
	main := e.BuildProfile("cafe", cafeMain, profile.MainText)

	res := e.AnalyzeAll(fragments, []*profile.Profile{main})
	require.Len(t, res.Fragments, 20)
	for i, fr := range res.Fragments {
		assert.Equal(t, fmt.Sprintf("f%02d", i), fr.Profile.Title)
	}
	assert.Equal(t, 20, res.Patterns[0].Count)
}

func TestAnalyzeAll_Empty(t *testing.T) {
	e := newTestEngine(t)
	res := e.AnalyzeAll(nil, nil)
	assert.Equal(t, Summary{}, res.Summary)
	assert.Empty(t, res.Fragments)
	assert.Len(t, res.Patterns, 3)
}
