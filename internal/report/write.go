package report

import (
	"fmt"
	"os"
	"path/filepath"
)

// BaseName is the file name, without extension, of every written report.
const BaseName = "fragment_analysis_report"

var extensions = map[string]string{
	"json":     ".json",
	"yaml":     ".yaml",
	"markdown": ".md",
}

// Render returns doc in the named format.
func Render(doc Document, format string) ([]byte, error) {
	switch format {
	case "json":
		return JSON(doc)
	case "yaml":
		return YAML(doc)
	case "markdown":
		return []byte(Markdown(doc)), nil
	}
	return nil, fmt.Errorf("unknown report format %q", format)
}

// Write renders doc in each format into dir and returns the written paths.
// The first failure stops the write; doc is never modified.
func Write(dir string, doc Document, formats []string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	var written []string
	for _, format := range formats {
		data, err := Render(doc, format)
		if err != nil {
			return written, err
		}

		path := filepath.Join(dir, BaseName+extensions[format])
		if err := writeAtomic(path, data); err != nil {
			return written, fmt.Errorf("write %s report: %w", format, err)
		}
		written = append(written, path)
	}
	return written, nil
}

// writeAtomic writes through a temp file so readers never see a partial
// report.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
