package build

import (
	"context"
	"log/slog"
	"path"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/mehdismh/econia/internal/docs"
	"github.com/mehdismh/econia/internal/logfields"
	"github.com/mehdismh/econia/internal/search"
)

// stageBuildIndex builds one search index per locale. Text extraction fans
// out over the documents; assembling the index is a single barrier.
func stageBuildIndex(ctx context.Context, bs *BuildState) error {
	opts := bs.Site.Search
	tok := search.NewTokenizer(opts.Language, opts.RemoveDefaultStopWordFilter)
	for _, ls := range bs.Locales {
		var pages []*docs.Document
		for _, d := range ls.Routes.Docs() {
			if d.Listed() && indexable(d.Route, bs.Site.BaseURL, ls.Locale.Prefix, opts.DocsRouteBasePath) {
				pages = append(pages, d)
			}
		}

		entries := make([]*search.Entry, len(pages))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(bs.opts.concurrency)
		for i, d := range pages {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				e, err := search.Extract(search.Page{ID: d.ID, Route: d.Route, Title: d.Title, HTML: d.HTML}, tok)
				if err != nil {
					return err
				}
				entries[i] = e
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		idx, err := search.Build(ls.Locale.Code, entries)
		if err != nil {
			return err
		}
		ls.Index = idx
		ls.IndexFile = idx.Filename(ls.Locale.ArtifactSuffix(), opts.Hashed)

		st := bs.Report.Locales[ls.Locale.Code]
		st.IndexedDocs, st.IndexTerms = len(idx.Docs), len(idx.Terms)
		bs.Report.Locales[ls.Locale.Code] = st
		slog.Info("Built search index",
			logfields.Locale(ls.Locale.Code),
			logfields.Count(len(idx.Docs)),
			slog.Int("terms", len(idx.Terms)),
			logfields.Path(ls.IndexFile))
	}
	return nil
}

// indexable reports whether route lies below one of the search base paths
// of the locale.
func indexable(route, baseURL, localePrefix string, bases []string) bool {
	for _, b := range bases {
		root := path.Join("/", baseURL, localePrefix, strings.Trim(b, "/"))
		if root == "/" || route == root || strings.HasPrefix(route, root+"/") {
			return true
		}
	}
	return false
}
