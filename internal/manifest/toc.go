// Package manifest classifies manuscript documents from a Jupyter Book
// table of contents and reads them from disk.
package manifest

import (
	"fmt"
	"os"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/suykerbuyk/manuscript-match/internal/config"
	"github.com/suykerbuyk/manuscript-match/internal/profile"
)

// Entry is one classified document in the table of contents.
type Entry struct {
	Title    string
	File     string // relative to the manuscript dir, always ending in .md
	Category profile.Category
}

// TOC lists classified documents, fragments first, each group in manifest
// order.
type TOC struct {
	Entries []Entry
}

// Count returns how many entries have category c.
func (t *TOC) Count(c profile.Category) int {
	n := 0
	for _, e := range t.Entries {
		if e.Category == c {
			n++
		}
	}
	return n
}

type tocPart struct {
	Part     string      `yaml:"part"`
	Caption  string      `yaml:"caption"`
	Chapters []yaml.Node `yaml:"chapters"`
}

type tocChapter struct {
	File string `yaml:"file"`
}

// LoadTOC parses the table of contents at tocPath. Both the flat list form
// (items carrying part and chapters) and the jb-book form (a root mapping
// with a parts list) are accepted. Chapters under parts.Fragment become
// fragments, those under parts.MainText main texts; everything else is
// ignored.
func LoadTOC(tocPath string, parts config.PartsConfig) (*TOC, error) {
	data, err := os.ReadFile(tocPath)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return ParseTOC(data, parts)
}

// ParseTOC is LoadTOC over in-memory YAML.
func ParseTOC(data []byte, parts config.PartsConfig) (*TOC, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}

	items, err := partItems(&root)
	if err != nil {
		return nil, err
	}

	var fragments, mainTexts []Entry
	seen := make(map[string]bool)

	for _, item := range items {
		if item.Kind != yaml.MappingNode {
			continue
		}
		var part tocPart
		if err := item.Decode(&part); err != nil {
			return nil, fmt.Errorf("parse manifest part at line %d: %w", item.Line, err)
		}

		name := part.Part
		if name == "" {
			name = part.Caption
		}

		var category profile.Category
		switch name {
		case parts.Fragment:
			category = profile.Fragment
		case parts.MainText:
			category = profile.MainText
		default:
			continue
		}

		for _, ch := range part.Chapters {
			file := chapterFile(&ch)
			title := titleFromFile(file)
			if title == "" || seen[title] {
				continue
			}
			seen[title] = true

			e := Entry{Title: title, File: withExt(file), Category: category}
			if category == profile.Fragment {
				fragments = append(fragments, e)
			} else {
				mainTexts = append(mainTexts, e)
			}
		}
	}

	return &TOC{Entries: append(fragments, mainTexts...)}, nil
}

// partItems returns the nodes that may describe parts.
func partItems(root *yaml.Node) ([]*yaml.Node, error) {
	if root.Kind == 0 {
		return nil, nil // empty document
	}
	doc := root
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		doc = doc.Content[0]
	}

	switch doc.Kind {
	case yaml.SequenceNode:
		return doc.Content, nil
	case yaml.MappingNode:
		for i := 0; i+1 < len(doc.Content); i += 2 {
			if doc.Content[i].Value == "parts" && doc.Content[i+1].Kind == yaml.SequenceNode {
				return doc.Content[i+1].Content, nil
			}
		}
		return nil, nil
	}
	return nil, fmt.Errorf("parse manifest: unexpected top-level YAML at line %d", doc.Line)
}

func chapterFile(n *yaml.Node) string {
	switch n.Kind {
	case yaml.ScalarNode:
		return n.Value
	case yaml.MappingNode:
		var ch tocChapter
		if err := n.Decode(&ch); err == nil {
			return ch.File
		}
	}
	return ""
}

// titleFromFile drops any directory and a trailing .md.
func titleFromFile(file string) string {
	file = strings.TrimSuffix(strings.TrimSpace(file), ".md")
	if file == "" {
		return ""
	}
	title := path.Base(file)
	if title == "." || title == "/" {
		return ""
	}
	return title
}

func withExt(file string) string {
	file = strings.TrimSpace(file)
	if strings.HasSuffix(file, ".md") {
		return file
	}
	return file + ".md"
}
