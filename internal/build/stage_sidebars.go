package build

import (
	"context"
	"log/slog"

	"github.com/mehdismh/econia/internal/logfields"
	"github.com/mehdismh/econia/internal/sidebar"
)

func stageBuildSidebars(_ context.Context, bs *BuildState) error {
	site := bs.Site
	if bs.Sidebars == nil {
		if site.Docs.SidebarPath == "" {
			bs.Sidebars = sidebar.DefaultManifest()
		} else {
			m, err := sidebar.LoadManifest(site.Abs(site.Docs.SidebarPath))
			if err != nil {
				return err
			}
			bs.Sidebars = m
		}
	}
	opts := sidebar.Options{
		Collapsible: site.Docs.SidebarCollapsible,
		Collapsed:   site.Docs.SidebarCollapsed,
		Breadcrumbs: site.Docs.Breadcrumbs,
		Policy:      site.OnBrokenLinks,
	}
	for _, ls := range bs.Locales {
		nav, issues, err := sidebar.Build(bs.Sidebars, ls.Routes, opts)
		if err != nil {
			return err
		}
		ls.Navigation = nav
		bs.diagnose(StageBuildSidebars, ls.Locale.Code, issues)
		slog.Debug("Built sidebars", logfields.Locale(ls.Locale.Code), logfields.Count(len(nav.Sidebars)))
	}
	return nil
}
