// Package theme merges the presentation settings of a site into the theme
// section of the site manifest.
package theme

import (
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/mehdismh/econia/internal/config"
	"github.com/mehdismh/econia/internal/docs"
	derrors "github.com/mehdismh/econia/internal/foundation/errors"
)

// Asset is a stylesheet linked from every page.
type Asset struct {
	Href        string `json:"href"`
	Type        string `json:"type,omitempty"`
	Integrity   string `json:"integrity,omitempty"`
	CrossOrigin string `json:"crossorigin,omitempty"`
	External    bool   `json:"external"`
	// Source is the file copied into the output for local assets.
	Source string `json:"-"`
}

// CodeThemes names the highlighting theme of each color mode.
type CodeThemes struct {
	Light string `json:"light"`
	Dark  string `json:"dark"`
}

// ColorMode describes the color modes shipped with the site. Both modes are
// always bundled; Switch says whether readers may toggle between them.
type ColorMode struct {
	Default                   string   `json:"default"`
	Modes                     []string `json:"modes"`
	Switch                    bool     `json:"switch"`
	RespectPrefersColorScheme bool     `json:"respectPrefersColorScheme"`
}

// Logo is the navbar logo with URLs resolved.
type Logo struct {
	Alt     string `json:"alt"`
	Src     string `json:"src"`
	SrcDark string `json:"srcDark"`
	Href    string `json:"href"`
	Width   string `json:"width,omitempty"`
	Height  string `json:"height,omitempty"`
}

// NavItem is a navbar entry with its target resolved to a URL.
type NavItem struct {
	Label    string `json:"label"`
	Href     string `json:"href"`
	Position string `json:"position"`
	External bool   `json:"external,omitempty"`
}

// Manifest is the composed theme.
type Manifest struct {
	Stylesheets []Asset        `json:"stylesheets"`
	Favicon     string         `json:"favicon,omitempty"`
	Title       string         `json:"title"`
	Logo        *Logo          `json:"logo,omitempty"`
	Navbar      []NavItem      `json:"navbar,omitempty"`
	CodeThemes  CodeThemes     `json:"codeThemes"`
	ColorMode   ColorMode      `json:"colorMode"`
	Footer      *config.Footer `json:"footer,omitempty"`
	Metadata    []config.Meta  `json:"metadata,omitempty"`
}

// DocRouter finds the route of a document id.
type DocRouter interface {
	Doc(id string) (*docs.Document, bool)
}

// Compose builds the theme manifest. Configured stylesheets come first in
// declared order, then the custom CSS files of the preset. Local files that
// cannot be found are reported as warnings; navbar items pointing at
// unknown documents follow the broken-link policy.
func Compose(site *config.Site, router DocRouter) (*Manifest, []*derrors.ClassifiedError, error) {
	c := &composer{site: site}
	tc := site.ThemeConfig
	m := &Manifest{
		Title:      tc.Navbar.Title,
		CodeThemes: CodeThemes{Light: tc.Prism.Theme, Dark: tc.Prism.DarkTheme},
		ColorMode: ColorMode{
			Default:                   tc.ColorMode.DefaultMode,
			Modes:                     []string{config.ModeLight, config.ModeDark},
			Switch:                    !tc.ColorMode.DisableSwitch,
			RespectPrefersColorScheme: tc.ColorMode.RespectPrefersColorScheme,
		},
		Footer:   tc.Footer,
		Metadata: tc.Metadata,
	}
	if m.Title == "" {
		m.Title = site.Title
	}

	for _, s := range site.Stylesheets {
		a := Asset{Href: s.Href, Type: s.Type, Integrity: s.Integrity, CrossOrigin: s.CrossOrigin, External: s.External()}
		if !a.External {
			a.Href = c.static(s.Href, "stylesheet")
		}
		m.Stylesheets = append(m.Stylesheets, a)
	}
	published := map[string]string{}
	for _, css := range site.CustomCSS {
		src := site.Abs(css)
		if !exists(src) {
			c.warn("custom CSS file not found", css)
		}
		name := path.Base(filepath.ToSlash(css))
		if prev, ok := published[name]; ok {
			if prev == src {
				continue
			}
			ext := path.Ext(name)
			stem := strings.TrimSuffix(name, ext)
			for i := 2; ok; i++ {
				name = fmt.Sprintf("%s-%d%s", stem, i, ext)
				_, ok = published[name]
			}
			c.warn("custom CSS file name already taken; published as css/"+name, css)
		}
		published[name] = src
		m.Stylesheets = append(m.Stylesheets, Asset{
			Href:   site.BaseURL + "css/" + name,
			Type:   "text/css",
			Source: src,
		})
	}

	if site.Favicon != "" {
		m.Favicon = c.static(site.Favicon, "favicon")
	}
	if l := tc.Navbar.Logo; l != nil {
		m.Logo = &Logo{
			Alt:    l.Alt,
			Src:    c.static(l.Src, "logo"),
			Href:   site.BaseURL,
			Width:  l.Width,
			Height: l.Height,
		}
		m.Logo.SrcDark = m.Logo.Src
		if l.SrcDark != "" {
			m.Logo.SrcDark = c.static(l.SrcDark, "logo")
		}
		if l.Href != "" {
			m.Logo.Href = c.link(l.Href)
		}
	}

	for _, item := range tc.Navbar.Items {
		nav := NavItem{Label: item.Label, Position: item.Position}
		switch {
		case item.DocID != "":
			d, ok := router.Doc(item.DocID)
			if !ok {
				issue := site.OnBrokenLinks.Classify(derrors.BrokenLinkError(
					fmt.Sprintf("navbar item %q references missing document %q", item.Label, item.DocID)).
					WithContext("doc_id", item.DocID))
				if issue != nil && issue.IsFatal() {
					return nil, nil, issue
				}
				if issue != nil {
					c.issues = append(c.issues, issue)
				}
				continue
			}
			nav.Href = d.Route
		case item.Href != "":
			nav.Href, nav.External = item.Href, isExternal(item.Href)
		default:
			nav.Href = c.link(item.To)
		}
		m.Navbar = append(m.Navbar, nav)
	}
	return m, c.issues, nil
}

type composer struct {
	site   *config.Site
	issues []*derrors.ClassifiedError
}

// static resolves a site-relative asset against the base URL and checks it
// exists in one of the static directories.
func (c *composer) static(ref, what string) string {
	if isExternal(ref) {
		return ref
	}
	rel := strings.TrimPrefix(path.Clean("/"+ref), "/")
	found := false
	for _, dir := range c.site.StaticDirectories {
		if exists(filepath.Join(c.site.Abs(dir), filepath.FromSlash(rel))) {
			found = true
			break
		}
	}
	if !found {
		c.warn(what+" not found in static directories", ref)
	}
	return c.site.BaseURL + rel
}

func (c *composer) link(to string) string {
	if isExternal(to) || strings.HasPrefix(to, c.site.BaseURL) {
		return to
	}
	return c.site.BaseURL + strings.TrimPrefix(to, "/")
}

func (c *composer) warn(msg, ref string) {
	c.issues = append(c.issues, derrors.NewError(derrors.CategoryFileSystem, msg).
		Warning().WithContext("path", ref).Build())
}

func isExternal(ref string) bool {
	u, err := url.Parse(ref)
	return err == nil && (u.Scheme != "" || u.Host != "")
}

func exists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}
