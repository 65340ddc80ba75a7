package build

import (
	"context"

	"github.com/mehdismh/econia/internal/manifest"
)

// stageAssembleManifest fills and seals the site manifest and encodes every
// artifact. Nothing touches the output directory yet.
func stageAssembleManifest(ctx context.Context, bs *BuildState) error {
	m := manifest.New(bs.Site)
	for _, ls := range bs.Locales {
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, d := range ls.Routes.Docs() {
			p := &manifest.Page{
				ID:          d.ID,
				Locale:      ls.Locale.Code,
				Title:       d.Title,
				Description: d.FrontMatter.Description,
				HTML:        d.HTML,
				TOC:         d.TOC,
				EditURL:     d.EditURL,
				LastUpdate:  d.LastUpdate,
				Unlisted:    !d.Listed(),
				Fingerprint: d.Fingerprint,
			}
			if nav, ok := ls.Navigation.Page(d.ID); ok {
				p.Nav = &nav
			}
			if err := m.AddPage(d.Route, p); err != nil {
				return err
			}
		}

		loc := &manifest.Locale{
			Code:       ls.Locale.Code,
			Label:      ls.Locale.Label,
			Direction:  ls.Locale.Direction,
			HTMLLang:   ls.Locale.HTMLLang,
			Prefix:     ls.Locale.Prefix,
			Navigation: ls.Navigation,
		}
		if ls.Index != nil {
			data, err := ls.Index.Encode()
			if err != nil {
				return err
			}
			bs.Artifacts = append(bs.Artifacts, Artifact{Name: ls.IndexFile, Data: data})
			loc.Search = &manifest.SearchRef{
				File:      ls.IndexFile,
				Hash:      ls.Index.Hash,
				Documents: len(ls.Index.Docs),
				Terms:     len(ls.Index.Terms),
			}
		}
		if err := m.AddLocale(loc); err != nil {
			return err
		}
		st := bs.Report.Locales[ls.Locale.Code]
		st.Pages = ls.Routes.Len()
		bs.Report.Locales[ls.Locale.Code] = st
	}
	if err := m.SetTheme(bs.Theme); err != nil {
		return err
	}
	if err := m.Seal(); err != nil {
		return err
	}
	data, err := m.Encode()
	if err != nil {
		return err
	}
	bs.Artifacts = append([]Artifact{{Name: manifest.Filename, Data: data}}, bs.Artifacts...)

	if bs.Site.Sitemap.Enabled {
		sm, err := manifest.Sitemap(m, bs.Site.Sitemap)
		if err != nil {
			return err
		}
		bs.Artifacts = append(bs.Artifacts, Artifact{Name: bs.Site.Sitemap.Filename, Data: sm})
	}

	bs.Manifest = m
	bs.Report.ContentHash = m.ContentHash
	bs.Report.BuildID = m.BuildID
	return nil
}
