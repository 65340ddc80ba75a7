package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/mehdismh/econia/internal/build"
)

// RoutesCmd implements the 'routes' command.
type RoutesCmd struct {
	Locale string `short:"l" help:"Only list routes of this locale"`
	Drafts bool   `help:"Include documents marked draft"`
	JSON   bool   `name:"json" help:"Print routes as JSON"`
}

// RouteEntry is one listed route.
type RouteEntry struct {
	Locale string `json:"locale"`
	Route  string `json:"route"`
	ID     string `json:"id"`
	Source string `json:"source"`
}

func (r *RoutesCmd) Run(g *Global, root *CLI) error {
	site, err := loadSite(root.Config, "")
	if err != nil {
		return err
	}
	res, runErr := build.New(site,
		build.WithDryRun(true),
		build.WithIncludeDrafts(r.Drafts),
		build.WithLogger(root.Logger()),
	).Run(context.Background())
	if res == nil || res.State == nil {
		return runErr
	}

	entries := CollectRoutes(res.State, r.Locale)
	if r.JSON {
		enc := json.NewEncoder(out(g))
		enc.SetIndent("", "  ")
		if err := enc.Encode(entries); err != nil {
			return err
		}
		return runErr
	}
	tw := tabwriter.NewWriter(out(g), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "LOCALE\tROUTE\tID\tSOURCE")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Locale, e.Route, e.ID, e.Source)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	return runErr
}

// CollectRoutes lists the assigned routes of a build, sorted per locale.
// Routes stay available when a later stage failed.
func CollectRoutes(bs *build.BuildState, locale string) []RouteEntry {
	var entries []RouteEntry
	for _, ls := range bs.Locales {
		if ls.Routes == nil || (locale != "" && ls.Locale.Code != locale) {
			continue
		}
		for _, route := range ls.Routes.Routes() {
			d, _ := ls.Routes.Lookup(route)
			entries = append(entries, RouteEntry{Locale: ls.Locale.Code, Route: route, ID: d.ID, Source: d.RelPath})
		}
	}
	return entries
}
