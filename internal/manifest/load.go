package manifest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/suykerbuyk/manuscript-match/internal/config"
	"github.com/suykerbuyk/manuscript-match/internal/profile"
)

// ErrMalformedInput marks a document that is not valid UTF-8 text.
var ErrMalformedInput = errors.New("malformed input")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Load reads every entry of toc from dir, at most workers files at a time.
// Entries whose file does not exist are skipped. The result keeps toc
// order.
func Load(ctx context.Context, dir string, toc *TOC, workers int) ([]profile.Document, error) {
	if workers < 1 {
		workers = 1
	}

	docs := make([]*profile.Document, len(toc.Entries))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, e := range toc.Entries {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			doc, err := readDocument(filepath.Join(dir, filepath.FromSlash(e.File)), e)
			if err != nil {
				return err
			}
			docs[i] = doc
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]profile.Document, 0, len(docs))
	for _, d := range docs {
		if d != nil {
			out = append(out, *d)
		}
	}
	return out, nil
}

func readDocument(path string, e Entry) (*profile.Document, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read document %s: %w", path, err)
	}

	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("read document %s: %w", path, ErrMalformedInput)
	}

	return &profile.Document{
		Title:    e.Title,
		Path:     path,
		Text:     strings.ReplaceAll(string(data), "\r\n", "\n"),
		Category: e.Category,
	}, nil
}

// Documents resolves the documents for cfg: from the table of contents when
// it exists, otherwise by discovering part directories.
func Documents(ctx context.Context, cfg config.Config) ([]profile.Document, error) {
	toc, err := Resolve(cfg)
	if err != nil {
		return nil, err
	}
	return Load(ctx, cfg.ManuscriptDir, toc, cfg.Analysis.Workers)
}

// Resolve returns the table of contents for cfg, falling back to Discover
// when the manifest file is missing.
func Resolve(cfg config.Config) (*TOC, error) {
	tocPath := cfg.ManifestPath()
	if _, err := os.Stat(tocPath); errors.Is(err, fs.ErrNotExist) {
		return Discover(cfg.ManuscriptDir, cfg.Parts)
	}
	return LoadTOC(tocPath, cfg.Parts)
}
