package build

import (
	"context"

	"github.com/mehdismh/econia/internal/linkverify"
)

// stageCheckLinks verifies the links of every rendered page against the
// routes of all locales, the static directories and the generated artifacts.
func stageCheckLinks(ctx context.Context, bs *BuildState) error {
	var routes []string
	for _, ls := range bs.Locales {
		routes = append(routes, ls.Routes.Routes()...)
	}
	extra := []string{}
	if bs.Site.Sitemap.Enabled {
		extra = append(extra, bs.Site.BaseURL+bs.Site.Sitemap.Filename)
	}
	checker := linkverify.NewChecker(bs.Site, routes, extra...)
	for _, ls := range bs.Locales {
		issues, err := checker.Check(ctx, ls.Routes.Docs())
		if err != nil {
			return err
		}
		bs.diagnose(StageCheckLinks, ls.Locale.Code, issues)
	}
	return nil
}
