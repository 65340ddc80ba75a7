// Package linkverify checks the links of rendered pages against the routes
// and static files of the site.
package linkverify

import (
	"context"
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

// Checker resolves internal links. It only reads its inputs and may be
// shared between goroutines.
type Checker struct {
	siteURL  string
	baseURL  string
	routes   map[string]bool
	static   []string
	pagePol  config.LinkPolicy
	markdown config.LinkPolicy
}

// NewChecker builds a checker for site. routes holds every page route of
// every locale; extra holds generated artifact paths (sitemap, search
// index) that exist in the output without being pages.
func NewChecker(site *config.Site, routes []string, extra ...string) *Checker {
	c := &Checker{
		siteURL:  site.URL,
		baseURL:  site.BaseURL,
		routes:   make(map[string]bool, len(routes)+len(extra)),
		pagePol:  site.OnBrokenLinks,
		markdown: site.OnBrokenMarkdownLinks,
	}
	for _, r := range routes {
		c.routes[r] = true
	}
	for _, e := range extra {
		c.routes[e] = true
	}
	for _, dir := range site.StaticDirectories {
		c.static = append(c.static, site.Abs(dir))
	}
	return c
}

// Check verifies every document in order. Diagnostics that the policies
// downgrade are returned; the first violation under a throw policy is
// returned as the error.
func (c *Checker) Check(ctx context.Context, ds []*docs.Document) ([]*derrors.ClassifiedError, error) {
	var issues []*derrors.ClassifiedError
	for _, d := range ds {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		found, err := c.CheckDocument(d)
		if err != nil {
			return nil, err
		}
		for _, issue := range found {
			if issue.IsFatal() {
				return nil, issue
			}
			issues = append(issues, issue)
		}
	}
	return issues, nil
}

// CheckDocument returns the broken links of one document: unresolved
// markdown cross-references first, then page links, each classified by
// its policy.
func (c *Checker) CheckDocument(d *docs.Document) ([]*derrors.ClassifiedError, error) {
	var out []*derrors.ClassifiedError
	for _, ref := range d.Links {
		if ref.Resolved {
			continue
		}
		eb := derrors.BrokenLinkError(fmt.Sprintf("markdown link %q in %s does not resolve to a document", ref.Target, d.RelPath)).
			WithContext("path", d.RelPath).
			WithContext("target", ref.Target).
			WithContext("kind", "markdown")
		if ref.Line > 0 {
			eb = eb.WithContext("line", ref.Line)
		}
		if issue := c.markdown.Classify(eb); issue != nil {
			out = append(out, issue)
		}
	}

	links, err := ExtractLinksFromReader(strings.NewReader(d.HTML), c.siteURL)
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	for _, l := range links {
		if !ShouldVerifyLink(l) || seen[l.URL] || sourceReference(l.URL) {
			continue
		}
		seen[l.URL] = true
		if c.resolves(d.Route, l.URL) {
			continue
		}
		eb := derrors.BrokenLinkError(fmt.Sprintf("link %q on %s points to a missing page", l.URL, d.Route)).
			WithContext("path", d.RelPath).
			WithContext("route", d.Route).
			WithContext("target", l.URL).
			WithContext("kind", l.Tag)
		if issue := c.pagePol.Classify(eb); issue != nil {
			out = append(out, issue)
		}
	}
	return out, nil
}

// sourceReference reports whether href still names a .md/.mdx source.
// Resolved cross-references were rewritten to routes during rendering, so
// these are the unresolved ones, already judged by onBrokenMarkdownLinks.
func sourceReference(href string) bool {
	u, err := url.Parse(href)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return false
	}
	return docs.IsSource(u.Path)
}

// resolves reports whether href, found on the page at route, names a page
// or a static file.
func (c *Checker) resolves(route, href string) bool {
	target, err := url.Parse(href)
	if err != nil {
		return false
	}
	from, err := url.Parse(route)
	if err != nil {
		return false
	}
	p := from.ResolveReference(target).Path
	if p == "" {
		return true
	}
	if c.routes[p] {
		return true
	}
	if p != "/" && strings.HasSuffix(p, "/") && c.routes[strings.TrimSuffix(p, "/")] {
		return true
	}
	if strings.HasSuffix(p, "/index.html") && c.routes[strings.TrimSuffix(p, "index.html")] {
		return true
	}
	return c.staticFile(p)
}

func (c *Checker) staticFile(p string) bool {
	if !strings.HasPrefix(p, c.baseURL) {
		return false
	}
	rel := path.Clean(strings.TrimPrefix(p, c.baseURL))
	if rel == "." || strings.HasPrefix(rel, "..") {
		return false
	}
	for _, dir := range c.static {
		info, err := os.Stat(filepath.Join(dir, filepath.FromSlash(rel)))
		if err == nil && !info.IsDir() {
			return true
		}
	}
	return false
}
