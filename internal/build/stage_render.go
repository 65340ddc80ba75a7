package build

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mehdismh/econia/internal/docs"
	derrors "github.com/mehdismh/econia/internal/foundation/errors"
	"github.com/mehdismh/econia/internal/logfields"
	"github.com/mehdismh/econia/internal/markdown"
)

func stageRenderDocs(ctx context.Context, bs *BuildState) error {
	for _, ls := range bs.Locales {
		if err := renderLocale(ctx, bs, ls); err != nil {
			return err
		}
		var warnings []*derrors.ClassifiedError
		for _, d := range ls.Routes.Docs() {
			warnings = append(warnings, d.Warnings...)
		}
		for _, w := range warnings {
			slog.Warn("Render warning", logfields.Locale(ls.Locale.Code), logfields.Error(w))
		}
		bs.diagnose(StageRenderDocs, ls.Locale.Code, warnings)
		bs.Report.RenderedPages += len(ls.Docs)
	}
	return nil
}

func renderLocale(ctx context.Context, bs *BuildState, ls *LocaleState) error {
	r, err := markdown.New(bs.Site.Docs.Transforms, ls.Routes)
	if err != nil {
		return err
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bs.opts.concurrency)
	for _, d := range ls.Docs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			t0 := time.Now()
			if err := r.Render(d); err != nil {
				return err
			}
			bs.recorder.ObserveRenderDuration(ls.Locale.Code, time.Since(t0))
			return bs.lastUpdate(d)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	// errgroup only reports worker errors; a cancellation between documents
	// must still fail the stage.
	return ctx.Err()
}

func (bs *BuildState) lastUpdate(d *docs.Document) error {
	if bs.History == nil {
		return nil
	}
	lu, err := bs.History.LastUpdate(d.SourcePath)
	if err != nil {
		return derrors.WrapError(err, derrors.CategoryGit, "read last update").
			Fatal().WithContext("path", d.RelPath).Build()
	}
	if lu == nil {
		return nil
	}
	out := *lu
	if !bs.Site.Docs.ShowLastUpdateAuthor {
		out.Author = ""
	}
	d.LastUpdate = &out
	return nil
}
