package manifest

import (
	"path"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	derrors "github.com/mehdismh/econia/internal/foundation/errors"
	"github.com/mehdismh/econia/internal/plugin"
)

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

// Sitemap renders sitemap.xml for the listed pages of a sealed manifest.
// Routes matching one of opts.IgnorePatterns are left out. A pattern ending
// in "/**" matches everything below its prefix; other patterns use
// path.Match.
func Sitemap(m *SiteManifest, opts plugin.Sitemap) ([]byte, error) {
	for _, p := range opts.IgnorePatterns {
		if _, err := path.Match(strings.TrimSuffix(p, "/**"), "/"); err != nil {
			return nil, derrors.ConfigErrorf("invalid sitemap ignore pattern %q", p).Build()
		}
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	set := doc.CreateElement("urlset")
	set.CreateAttr("xmlns", sitemapNS)

	site := strings.TrimSuffix(m.URL, "/")
	for _, r := range m.Routes() {
		p := m.Pages[r]
		if p.Unlisted || ignored(r, opts.IgnorePatterns) {
			continue
		}
		u := set.CreateElement("url")
		u.CreateElement("loc").SetText(site + r)
		if p.LastUpdate != nil {
			u.CreateElement("lastmod").SetText(p.LastUpdate.Time.Format("2006-01-02"))
		}
		if opts.ChangeFreq != "" {
			u.CreateElement("changefreq").SetText(opts.ChangeFreq)
		}
		if opts.Priority > 0 {
			u.CreateElement("priority").SetText(strconv.FormatFloat(opts.Priority, 'f', 1, 64))
		}
	}

	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryInternal, "write sitemap").Fatal().Build()
	}
	return out, nil
}

func ignored(route string, patterns []string) bool {
	for _, p := range patterns {
		if prefix, ok := strings.CutSuffix(p, "/**"); ok {
			if route == prefix || strings.HasPrefix(route, prefix+"/") {
				return true
			}
			continue
		}
		if ok, _ := path.Match(p, route); ok {
			return true
		}
	}
	return false
}
