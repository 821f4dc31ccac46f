package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ConfigDir returns the manuscript-match config directory path.
// Uses $XDG_CONFIG_HOME/manuscript-match if set, otherwise ~/.config/manuscript-match.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "manuscript-match")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "manuscript-match")
}

// WriteDefault writes a default config.toml pointing to manuscriptDir.
// Returns the config file path. Skips if config.toml already exists.
// Vocabularies are left out so the built-in tables apply until overridden.
func WriteDefault(manuscriptDir string) (string, error) {
	dir := ConfigDir()
	path := filepath.Join(dir, "config.toml")

	if _, err := os.Stat(path); err == nil {
		return path, nil // already exists
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create config dir: %w", err)
	}

	portable := CompressHome(manuscriptDir)

	content := fmt.Sprintf(`manuscript_dir = %q
manifest = "_toc.yml"
output_dir = %q

[analysis]
match_top_n = 3
keyword_top_n = 10
report_keyword_top_n = 5
report_dialogue_samples = 5
workers = 4

# Must sum to 1.0.
[weights]
keyword = 0.25
dialogue = 0.15
location = 0.25
theme = 0.15
emotion = 0.20

[manifest_parts]
fragment = "片段"
main_text = "正文"

[report]
formats = ["json", "yaml"]
archive = true
history = true

[logging]
level = "info"
`, portable, portable+"/write_analysis")

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write config: %w", err)
	}

	return path, nil
}

// CompressHome replaces $HOME prefix with ~/ for portable config values.
func CompressHome(path string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if strings.HasPrefix(path, home+"/") {
		return "~/" + path[len(home)+1:]
	}
	if path == home {
		return "~"
	}
	return path
}
