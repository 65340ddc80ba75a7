package docs

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	derrors "github.com/mehdismh/econia/internal/foundation/errors"
	"github.com/mehdismh/econia/internal/frontmatter"
	"github.com/mehdismh/econia/internal/logfields"
)

// Source describes where the documents of one locale live.
type Source struct {
	// Root is the default docs directory.
	Root string
	// Overlay optionally holds translated files mirroring Root's layout.
	Overlay string
	Locale  string
}

// Options tune discovery.
type Options struct {
	IncludeDrafts bool
}

// Discover walks the docs directory and returns the documents of one
// locale, ordered by relative path. Translated files from the overlay
// replace their default-locale counterpart.
func Discover(ctx context.Context, src Source, opts Options) ([]*Document, error) {
	info, err := os.Stat(src.Root)
	if err != nil || !info.IsDir() {
		return nil, derrors.DocsError("docs directory not found").WithContext("path", src.Root).Build()
	}

	paths, err := walk(ctx, src.Root)
	if err != nil {
		return nil, err
	}
	translated := map[string]string{}
	if src.Overlay != "" {
		if info, err := os.Stat(src.Overlay); err == nil && info.IsDir() {
			overlay, err := walk(ctx, src.Overlay)
			if err != nil {
				return nil, err
			}
			known := make(map[string]bool, len(paths))
			for _, rel := range paths {
				known[rel] = true
			}
			for _, rel := range overlay {
				if !known[rel] {
					slog.Warn("Ignoring translation without a default-locale document",
						logfields.Locale(src.Locale), logfields.Path(rel))
					continue
				}
				translated[rel] = filepath.Join(src.Overlay, filepath.FromSlash(rel))
			}
		}
	}

	out := make([]*Document, 0, len(paths))
	for _, rel := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		abs := filepath.Join(src.Root, filepath.FromSlash(rel))
		overlaid := false
		if p, ok := translated[rel]; ok {
			abs, overlaid = p, true
		}
		doc, err := Load(abs, rel, src.Locale)
		if err != nil {
			return nil, err
		}
		doc.Translated = overlaid
		if doc.FrontMatter.Draft && !opts.IncludeDrafts {
			slog.Debug("Skipping draft", logfields.DocID(doc.ID), logfields.Path(rel))
			continue
		}
		out = append(out, doc)
	}
	slog.Debug("Documents discovered", logfields.Locale(src.Locale), logfields.Count(len(out)))
	return out, nil
}

// Load reads and parses one document.
func Load(abs, rel, locale string) (*Document, error) {
	content, err := os.ReadFile(abs)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryFileSystem, "read document").
			Fatal().WithContext("path", abs).Build()
	}
	parsed, err := frontmatter.Parse(content)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryDocs, "invalid document").
			Fatal().UserAction().WithContext("path", rel).Build()
	}
	if strings.Contains(parsed.FrontMatter.ID, "/") {
		return nil, derrors.DocsError("front matter id must not contain a slash").
			WithContext("path", rel).WithContext("id", parsed.FrontMatter.ID).Build()
	}
	_, _, prefix := SplitRel(rel)
	return &Document{
		ID:           DeriveID(rel, parsed.FrontMatter.ID),
		SourcePath:   abs,
		RelPath:      rel,
		Locale:       locale,
		FrontMatter:  parsed.FrontMatter,
		Fields:       parsed.Fields,
		Body:         parsed.Body,
		BodyLine:     parsed.BodyLine,
		Fingerprint:  parsed.Fingerprint(),
		NumberPrefix: prefix,
	}, nil
}

func walk(ctx context.Context, root string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if p == root {
			return nil
		}
		if Ignored(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !IsSource(d.Name()) {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, derrors.WrapError(err, derrors.CategoryFileSystem, "walk docs directory").
			Fatal().WithContext("path", root).Build()
	}
	return out, nil
}
