package build

import (
	"context"
	"log/slog"

	"github.com/mehdismh/econia/internal/docs"
	derrors "github.com/mehdismh/econia/internal/foundation/errors"
	"github.com/mehdismh/econia/internal/git"
	"github.com/mehdismh/econia/internal/logfields"
)

func stageDiscoverDocs(ctx context.Context, bs *BuildState) error {
	site := bs.Site
	for _, loc := range bs.Router.Locales() {
		src := docs.Source{Root: site.DocsDir(), Locale: loc.Code}
		if !loc.Default {
			src.Overlay = site.LocalizedDocsDir(loc.Code)
		}
		found, err := docs.Discover(ctx, src, docs.Options{IncludeDrafts: bs.opts.includeDrafts})
		if err != nil {
			return err
		}
		bs.Locales = append(bs.Locales, &LocaleState{Locale: loc, Docs: found})
		st := bs.Report.Locales[loc.Code]
		st.Documents = len(found)
		bs.Report.Locales[loc.Code] = st
		slog.Info("Discovered documents", logfields.Locale(loc.Code), logfields.Count(len(found)))
	}

	if site.Docs.ShowLastUpdateTime || site.Docs.ShowLastUpdateAuthor {
		h, err := git.OpenHistory(site.DocsDir())
		if err != nil {
			bs.diagnose(StageDiscoverDocs, "", []*derrors.ClassifiedError{
				derrors.GitError("last update information unavailable").
					WithCause(err).Warning().WithContext("path", site.DocsDir()).Build(),
			})
		}
		bs.History = h
	}
	return nil
}
