package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mehdismh/econia/internal/build"
	"github.com/mehdismh/econia/internal/config"
	derrors "github.com/mehdismh/econia/internal/foundation/errors"
	"github.com/mehdismh/econia/internal/manifest"
	"github.com/mehdismh/econia/internal/search"
)

// SearchCmd implements the 'search' command.
type SearchCmd struct {
	Query   string `arg:"" help:"Search terms"`
	Locale  string `short:"l" help:"Locale to search (defaults to the default locale)"`
	Limit   int    `short:"n" help:"Maximum number of results (0 = searchResultLimits)" default:"0"`
	Rebuild bool   `help:"Build the index in memory instead of reading the published one"`
}

func (s *SearchCmd) Run(g *Global, root *CLI) error {
	site, err := loadSite(root.Config, "")
	if err != nil {
		return err
	}
	if site.Search == nil || !site.Search.IndexDocs {
		return derrors.ConfigError("local search is not configured").WithContext("path", site.Path).Build()
	}
	locale := s.Locale
	if locale == "" {
		locale = site.I18n.DefaultLocale
	}

	var idx *search.Index
	if !s.Rebuild {
		idx, err = LoadPublishedIndex(site.OutDir, locale)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	if idx == nil {
		if idx, err = buildIndex(site, locale, root); err != nil {
			return err
		}
	}

	limit := s.Limit
	if limit <= 0 {
		limit = site.Search.SearchResultLimits
	}
	tok := search.NewTokenizer(site.Search.Language, site.Search.RemoveDefaultStopWordFilter)
	results := idx.Search(s.Query, tok, limit)
	w := out(g)
	if len(results) == 0 {
		fmt.Fprintf(w, "No results for %q\n", s.Query)
		return nil
	}
	for _, r := range results {
		fmt.Fprintf(w, "%3d  %-40s %s\n", r.Score, r.Route, r.Title)
	}
	return nil
}

// LoadPublishedIndex reads the search index of locale from a published
// site. It returns an error wrapping os.ErrNotExist when nothing has been
// published yet.
func LoadPublishedIndex(outDir, locale string) (*search.Index, error) {
	data, err := os.ReadFile(filepath.Join(outDir, manifest.Filename))
	if err != nil {
		return nil, err
	}
	m, err := manifest.Decode(data)
	if err != nil {
		return nil, err
	}
	l, ok := m.Locale(locale)
	if !ok {
		return nil, derrors.ValidationError(fmt.Sprintf("locale %q is not part of the published site", locale)).Build()
	}
	if l.Search == nil {
		return nil, fmt.Errorf("locale %s has no published search index: %w", locale, os.ErrNotExist)
	}
	raw, err := os.ReadFile(filepath.Join(outDir, filepath.FromSlash(l.Search.File)))
	if err != nil {
		return nil, err
	}
	return search.Decode(raw)
}

func buildIndex(site *config.Site, locale string, root *CLI) (*search.Index, error) {
	res, err := build.New(site, build.WithDryRun(true), build.WithLogger(root.Logger())).Run(context.Background())
	if err != nil {
		return nil, err
	}
	ls, ok := res.State.Locale(locale)
	if !ok {
		return nil, derrors.ValidationError(fmt.Sprintf("unknown locale %q", locale)).Build()
	}
	if ls.Index == nil {
		return nil, derrors.IndexBuildError("no search index was built").WithContext("locale", locale).Build()
	}
	return ls.Index, nil
}
