package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	for _, k := range []string{"MM_CONFIG", "MM_MANUSCRIPT_DIR", "MM_OUTPUT_DIR", "MM_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
}

func manuscript(t *testing.T) (dir, out string) {
	t.Helper()
	dir = t.TempDir()
	files := map[string]string{
		"_toc.yml": "- part: 片段\n  chapters:\n    - file: 咖啡店\n- part: 正文\n  chapters:\n    - file: 第一章\n",
		"咖啡店.md":   "他说：“明天还在咖啡店见吧。”",
		"第一章.md":   "那家咖啡店在街角。\n\n他问：“你还记得阳台吗？”",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir, filepath.Join(dir, "write_analysis")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := execute(context.Background(), newApp(), args, &out)
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "mm v"+version+" (manuscript-match)\n", out)
}

func TestInit(t *testing.T) {
	isolate(t)
	dir, _ := manuscript(t)

	out, err := run(t, "init", dir)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "config: "))
	assert.FileExists(t, filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "manuscript-match", "config.toml"))

	_, err = run(t, "init", filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestAnalyzeAndHistory(t *testing.T) {
	isolate(t)
	dir, outDir := manuscript(t)

	out, err := run(t, "analyze", "-m", dir, "-o", outDir, "--quiet", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "created: "+filepath.Join(outDir, "fragment_analysis_report.json"))
	assert.Contains(t, out, "archived: ")
	assert.NotContains(t, out, "片段组织分析报告")

	out, err = run(t, "history", "list", "-m", dir, "-o", outDir)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	id := strings.Fields(lines[1])[0]

	out, err = run(t, "history", "show", id, "-o", outDir)
	require.NoError(t, err)
	assert.Contains(t, out, "咖啡店")
	assert.Contains(t, out, "1. 第一章")

	out, err = run(t, "history", "show", id, "--json", "-o", outDir)
	require.NoError(t, err)
	assert.Contains(t, out, `"fragment_analysis"`)

	snapshots, err := filepath.Glob(filepath.Join(outDir, "archive", "*"))
	require.NoError(t, err)
	require.NotEmpty(t, snapshots)
	for _, p := range snapshots {
		require.NoError(t, os.Remove(p))
	}

	_, err = run(t, "history", "show", id, "--json", "-o", outDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is missing")

	out, err = run(t, "check", "-m", dir, "-o", outDir)
	require.NoError(t, err)
	assert.Contains(t, out, "1 recorded runs missing theirs")
}

func TestAnalyze_DryRun(t *testing.T) {
	isolate(t)
	dir, outDir := manuscript(t)

	out, err := run(t, "analyze", "--dry-run", "-m", dir, "-o", outDir, "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "片段组织分析报告")
	assert.NotContains(t, out, "created: ")
	assert.NoDirExists(t, outDir)
}

func TestHistory_NoDatabase(t *testing.T) {
	isolate(t)
	_, err := run(t, "history", "list", "-o", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mm analyze")
}

func TestCheck(t *testing.T) {
	isolate(t)
	dir, outDir := manuscript(t)

	out, err := run(t, "check", "-m", dir, "-o", outDir)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "mm check\n"))

	out, err = run(t, "check", "-m", filepath.Join(dir, "missing"), "-o", outDir)
	require.Error(t, err)
	assert.Contains(t, out, "FAIL")
}

func TestBadConfigFails(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[weights]\nkeyword = 0.9\n"), 0o644))

	_, err := run(t, "analyze", "--config", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "weights")
}

func TestLogFileClosedAfterFailure(t *testing.T) {
	isolate(t)
	dir, outDir := manuscript(t)
	logPath := filepath.Join(t.TempDir(), "mm.log")
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("[logging]\nfile = \""+logPath+"\"\n"), 0o644))

	a := newApp()
	var out bytes.Buffer
	err := execute(context.Background(), a, []string{"history", "show", "nope", "--config", cfgPath, "-m", dir, "-o", outDir}, &out)
	require.Error(t, err)
	assert.FileExists(t, logPath)

	a.logger.Warn("after close")
	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "after close")
}

func TestMan(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "man")
	out, err := run(t, "man", dir)
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(dir, "mm.1"))
	assert.FileExists(t, filepath.Join(dir, "mm-history-show.1"))
	assert.NoFileExists(t, filepath.Join(dir, "mm-man.1"))
}
