package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteDefault_CreatesConfig(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	path, err := WriteDefault("/home/user/novel")
	if err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}

	want := filepath.Join(dir, "manuscript-match", "config.toml")
	if path != want {
		t.Errorf("path = %q, want %q", path, want)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}

	content := string(data)
	for _, section := range []string{"manuscript_dir", "[analysis]", "[weights]", "[manifest_parts]", "[report]"} {
		if !strings.Contains(content, section) {
			t.Errorf("config missing %s", section)
		}
	}
}

func TestWriteDefault_LoadsBack(t *testing.T) {
	isolate(t)
	xdg := os.Getenv("XDG_CONFIG_HOME")

	if _, err := WriteDefault("/home/user/novel"); err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}
	if _, err := os.Stat(filepath.Join(xdg, "manuscript-match", "config.toml")); err != nil {
		t.Fatalf("config not written: %v", err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load written default: %v", err)
	}
	if cfg.ManuscriptDir != "/home/user/novel" {
		t.Errorf("ManuscriptDir = %q", cfg.ManuscriptDir)
	}
	if cfg.OutputDir != "/home/user/novel/write_analysis" {
		t.Errorf("OutputDir = %q", cfg.OutputDir)
	}
}

func TestWriteDefault_SkipsExisting(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	configDir := filepath.Join(dir, "manuscript-match")
	os.MkdirAll(configDir, 0o755)
	existing := filepath.Join(configDir, "config.toml")
	original := "manuscript_dir = \"/mine\"\n"
	os.WriteFile(existing, []byte(original), 0o644)

	path, err := WriteDefault("/other")
	if err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}
	if path != existing {
		t.Errorf("path = %q, want %q", path, existing)
	}

	data, _ := os.ReadFile(existing)
	if string(data) != original {
		t.Error("existing config was modified")
	}
}

func TestCompressHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		in, want string
	}{
		{filepath.Join(home, "novel"), "~/novel"},
		{home, "~"},
		{"/opt/novel", "/opt/novel"},
	}
	for _, tc := range tests {
		if got := CompressHome(tc.in); got != tc.want {
			t.Errorf("CompressHome(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
