package manifest

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/suykerbuyk/manuscript-match/internal/config"
	"github.com/suykerbuyk/manuscript-match/internal/profile"
)

// Discover builds a table of contents without a manifest: Markdown files
// under <dir>/<parts.Fragment> are fragments and those under
// <dir>/<parts.MainText> main texts. Files are ordered by path. A missing
// part directory contributes nothing.
func Discover(dir string, parts config.PartsConfig) (*TOC, error) {
	var entries []Entry
	seen := make(map[string]bool)

	for _, p := range []struct {
		name     string
		category profile.Category
	}{
		{parts.Fragment, profile.Fragment},
		{parts.MainText, profile.MainText},
	} {
		files, err := markdownFiles(filepath.Join(dir, p.name))
		if err != nil {
			return nil, err
		}
		for _, rel := range files {
			file := filepath.ToSlash(filepath.Join(p.name, rel))
			title := titleFromFile(file)
			if title == "" || seen[title] {
				continue
			}
			seen[title] = true
			entries = append(entries, Entry{Title: title, File: file, Category: p.category})
		}
	}

	return &TOC{Entries: entries}, nil
}

// markdownFiles returns .md files under root, relative to it and sorted.
func markdownFiles(root string) ([]string, error) {
	if _, err := os.Stat(root); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip inaccessible entries
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}
