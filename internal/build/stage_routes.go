package build

import (
	"context"
	"strings"

	"github.com/mehdismh/econia/internal/route"
)

func stageAssignRoutes(_ context.Context, bs *BuildState) error {
	site := bs.Site
	edit := ""
	if site.Docs.EditURL != "" {
		edit = site.Docs.EditURL + strings.Trim(site.Docs.Path, "/") + "/"
	}
	for _, ls := range bs.Locales {
		table, err := route.Assign(ls.Docs, route.Options{
			BaseURL:       site.BaseURL,
			LocalePrefix:  ls.Locale.Prefix,
			RouteBasePath: site.Docs.RouteBasePath,
			EditURL:       edit,
		})
		if err != nil {
			return err
		}
		ls.Routes = table
	}
	return nil
}
