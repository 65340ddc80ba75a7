// Package route assigns URL paths to documents.
//
// A route is baseUrl + locale prefix + routeBasePath + slug. Routes never end
// with a slash except the site root, and no two documents of a locale may
// share one.
package route

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/mehdismh/econia/internal/docs"
	derrors "github.com/mehdismh/econia/internal/foundation/errors"
)

// Options are the route settings of one locale.
type Options struct {
	BaseURL       string // starts and ends with "/"
	LocalePrefix  string // "" or "/<locale>"
	RouteBasePath string // without surrounding slashes; "" serves docs at the root
	// EditURL is the edit base including the docs directory, ending in "/". Empty disables edit links.
	EditURL string
}

// Join builds the route of slug.
func (o Options) Join(slug string) string {
	p := path.Join("/", o.LocalePrefix, o.RouteBasePath, slug)
	base := strings.TrimSuffix(o.BaseURL, "/")
	if p == "/" {
		return base + "/"
	}
	return base + p
}

// IsIndex reports whether a source file stands for its directory.
func IsIndex(rel string) bool {
	_, base, _ := docs.SplitRel(rel)
	switch strings.ToLower(base) {
	case "index", "readme":
		return true
	}
	return false
}

// Slug is the document path below the route base, always starting with "/".
func Slug(d *docs.Document) string {
	dirs, base, _ := docs.SplitRel(d.RelPath)
	dir := "/" + path.Join(dirs...)
	if s := d.FrontMatter.Slug; s != "" {
		if strings.HasPrefix(s, "/") {
			return path.Clean(s)
		}
		return path.Join(dir, s)
	}
	if IsIndex(d.RelPath) {
		return path.Clean(dir)
	}
	if d.FrontMatter.ID != "" {
		base = d.FrontMatter.ID
	}
	return path.Join(dir, base)
}

// editURL returns the edit link of d, honoring custom_edit_url.
func (o Options) editURL(d *docs.Document) string {
	if ov := d.FrontMatter.EditURL(); ov.Set {
		if ov.Disabled {
			return ""
		}
		return ov.Value
	}
	if o.EditURL == "" {
		return ""
	}
	return o.EditURL + d.RelPath
}

// Table is the route assignment of one locale. It is built once and only
// read afterwards.
type Table struct {
	byRoute  map[string]*docs.Document
	bySource map[string]*docs.Document
	byID     map[string]*docs.Document
	ordered  []*docs.Document
}

// Assign computes the route and edit URL of every document. Two documents
// with the same id or the same route are a RouteCollisionError naming both
// sources.
func Assign(ds []*docs.Document, opts Options) (*Table, error) {
	t := &Table{
		byRoute:  make(map[string]*docs.Document, len(ds)),
		bySource: make(map[string]*docs.Document, len(ds)),
		byID:     make(map[string]*docs.Document, len(ds)),
	}
	for _, d := range ds {
		if prev, dup := t.byID[d.ID]; dup {
			return nil, derrors.RouteCollisionError(
				fmt.Sprintf("document id %q is used by %s and %s", d.ID, prev.RelPath, d.RelPath)).
				WithContext("id", d.ID).
				WithContext("sources", []string{prev.RelPath, d.RelPath}).
				Build()
		}
		r := opts.Join(Slug(d))
		if prev, dup := t.byRoute[r]; dup {
			return nil, derrors.RouteCollisionError(
				fmt.Sprintf("route %s is claimed by %s and %s", r, prev.RelPath, d.RelPath)).
				WithContext("route", r).
				WithContext("sources", []string{prev.RelPath, d.RelPath}).
				Build()
		}
		d.Route = r
		d.EditURL = opts.editURL(d)
		t.byID[d.ID] = d
		t.byRoute[r] = d
		t.bySource[d.RelPath] = d
		t.ordered = append(t.ordered, d)
	}
	sort.Slice(t.ordered, func(i, j int) bool { return t.ordered[i].ID < t.ordered[j].ID })
	return t, nil
}

// RouteForSource resolves a docs-relative source path.
func (t *Table) RouteForSource(rel string) (string, bool) {
	d, ok := t.bySource[rel]
	if !ok {
		return "", false
	}
	return d.Route, true
}

// Doc returns the document with id.
func (t *Table) Doc(id string) (*docs.Document, bool) {
	d, ok := t.byID[id]
	return d, ok
}

// Lookup returns the document served at route.
func (t *Table) Lookup(route string) (*docs.Document, bool) {
	d, ok := t.byRoute[route]
	return d, ok
}

// Docs returns all documents ordered by id.
func (t *Table) Docs() []*docs.Document { return t.ordered }

// Routes returns every assigned route in lexical order.
func (t *Table) Routes() []string {
	out := make([]string, 0, len(t.byRoute))
	for r := range t.byRoute {
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}

// Len is the number of documents.
func (t *Table) Len() int { return len(t.ordered) }
