package session

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/suykerbuyk/manuscript-match/internal/archive"
	"github.com/suykerbuyk/manuscript-match/internal/config"
	"github.com/suykerbuyk/manuscript-match/internal/history"
)

const toc = `- part: 片段
  chapters:
    - file: 咖啡店
- part: 正文
  chapters:
    - file: 第一章
    - file: 第二章
`

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func setupManuscript(t *testing.T) config.Config {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"_toc.yml": toc,
		"咖啡店.md":   "他说：“明天还在咖啡店见吧。”\n\n她笑了，阳台上的风很温暖。",
		"第一章.md":   "那家咖啡店在街角。\n\n他问：“你还记得阳台吗？”\n\n她说：“记得，很温暖。”",
		"第二章.md":   "海边的夜很安静。\n\n她一个人走在栈道上，眼泪掉下来。",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	cfg := config.DefaultConfig()
	cfg.ManuscriptDir = dir
	cfg.OutputDir = filepath.Join(dir, "write_analysis")
	return cfg
}

func testOptions(t *testing.T, out *bytes.Buffer) Options {
	opts := Options{
		Now:    func() time.Time { return fixedNow },
		Logger: zaptest.NewLogger(t),
	}
	if out != nil {
		opts.Out = out
	}
	return opts
}

func TestRun(t *testing.T) {
	cfg := setupManuscript(t)
	var out bytes.Buffer

	res, err := Run(context.Background(), cfg, testOptions(t, &out))
	require.NoError(t, err)
	require.False(t, res.Skipped)

	assert.Equal(t, 1, res.Analysis.Summary.FragmentCount)
	assert.Equal(t, 2, res.Analysis.Summary.MainTextCount)
	require.Len(t, res.Document.Fragments, 1)
	require.NotEmpty(t, res.Document.Fragments[0].BestMatches)
	assert.Equal(t, "第一章", res.Document.Fragments[0].BestMatches[0].Title)

	assert.Contains(t, out.String(), "片段组织分析报告")
	assert.Contains(t, out.String(), "咖啡店")

	require.Len(t, res.Reports, 2)
	for _, p := range res.Reports {
		assert.FileExists(t, p)
	}
	assert.Equal(t, filepath.Join(cfg.OutputDir, "fragment_analysis_report.json"), res.Reports[0])

	// Archive holds the same document as the JSON report.
	require.NotEmpty(t, res.ArchivePath)
	data, err := archive.Read(res.ArchivePath)
	require.NoError(t, err)
	var archived map[string]any
	require.NoError(t, json.Unmarshal(data, &archived))
	assert.Equal(t, res.RunID, archived["run_id"])

	store, err := history.Open(cfg.HistoryPath())
	require.NoError(t, err)
	defer store.Close()
	run, err := store.Get(context.Background(), res.RunID)
	require.NoError(t, err)
	assert.Equal(t, res.ArchivePath, run.ArchivePath)
	assert.Equal(t, 1, run.MatchedCount)
	assert.True(t, fixedNow.Equal(run.StartedAt))
}

func TestRun_DryRunWritesNothing(t *testing.T) {
	cfg := setupManuscript(t)
	var out bytes.Buffer
	opts := testOptions(t, &out)
	opts.DryRun = true

	res, err := Run(context.Background(), cfg, opts)
	require.NoError(t, err)
	assert.Empty(t, res.Reports)
	assert.Empty(t, res.ArchivePath)
	assert.NotEmpty(t, out.String())
	assert.NoDirExists(t, cfg.OutputDir)
}

func TestRun_FormatsOverride(t *testing.T) {
	cfg := setupManuscript(t)
	cfg.Report.Archive = false
	cfg.Report.History = false
	opts := testOptions(t, nil)
	opts.Formats = []string{"markdown"}

	res, err := Run(context.Background(), cfg, opts)
	require.NoError(t, err)
	require.Len(t, res.Reports, 1)
	assert.Equal(t, ".md", filepath.Ext(res.Reports[0]))
	assert.Empty(t, res.ArchivePath)
	assert.NoFileExists(t, cfg.HistoryPath())
}

func TestRun_EmptyManuscriptSkipped(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ManuscriptDir = t.TempDir()
	cfg.OutputDir = filepath.Join(cfg.ManuscriptDir, "out")

	res, err := Run(context.Background(), cfg, Options{Logger: zaptest.NewLogger(t)})
	require.NoError(t, err)
	assert.True(t, res.Skipped)
	assert.NotEmpty(t, res.Reason)
}

func TestRun_InvalidConfig(t *testing.T) {
	cfg := setupManuscript(t)
	cfg.Weights.Keyword = 0.9

	_, err := Run(context.Background(), cfg, Options{})
	var ce *config.ConfigError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "weights", ce.Field)
}

func TestRun_HistoryFailureIsSoft(t *testing.T) {
	cfg := setupManuscript(t)
	// A file where the state directory should be makes the history DB unopenable.
	require.NoError(t, os.MkdirAll(cfg.OutputDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Dir(cfg.HistoryPath()), []byte("x"), 0o644))

	res, err := Run(context.Background(), cfg, testOptions(t, nil))
	require.NoError(t, err)
	assert.Len(t, res.Reports, 2)
}
