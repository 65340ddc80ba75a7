package sidebar

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/mehdismh/econia/internal/config"
	"github.com/mehdismh/econia/internal/docs"
	derrors "github.com/mehdismh/econia/internal/foundation/errors"
	"github.com/mehdismh/econia/internal/route"
)

// Options control how a manifest is resolved.
type Options struct {
	Collapsible bool
	Collapsed   bool
	Breadcrumbs bool
	// Policy handles references to documents that do not exist.
	Policy config.LinkPolicy
}

// Navigation is the resolved navigation of one locale.
type Navigation struct {
	Sidebars []*Sidebar `json:"sidebars"`
	pages    map[string]PageNav
}

// NavLink points at a page.
type NavLink struct {
	Label string `json:"label"`
	Href  string `json:"href,omitempty"`
}

// PageNav is the navigation context of one document.
type PageNav struct {
	Sidebar     string    `json:"sidebar"`
	Prev        *NavLink  `json:"prev,omitempty"`
	Next        *NavLink  `json:"next,omitempty"`
	Breadcrumbs []NavLink `json:"breadcrumbs,omitempty"`
}

// Page returns the navigation context of a document id. Documents that are
// in no sidebar have none.
func (n *Navigation) Page(id string) (PageNav, bool) {
	p, ok := n.pages[id]
	return p, ok
}

// Build resolves a manifest against the routed documents. Broken doc
// references are handled by opts.Policy: under throw the first one is
// returned as a fatal BrokenLinkError; otherwise the item is dropped and a
// diagnostic is collected unless the policy ignores it.
func Build(m *Manifest, table *route.Table, opts Options) (*Navigation, []*derrors.ClassifiedError, error) {
	b := &builder{table: table, opts: opts, tree: newDirTree(table.Docs())}
	nav := &Navigation{pages: map[string]PageNav{}}
	for _, sb := range m.Sidebars {
		items, err := b.resolve(sb.ID, sb.Items)
		if err != nil {
			return nil, nil, err
		}
		nav.Sidebars = append(nav.Sidebars, &Sidebar{ID: sb.ID, Items: items})
	}
	for _, sb := range nav.Sidebars {
		if err := b.paginate(nav, sb); err != nil {
			return nil, nil, err
		}
	}
	return nav, b.issues, nil
}

type builder struct {
	table  *route.Table
	opts   Options
	tree   *dirNode
	issues []*derrors.ClassifiedError
}

// broken applies the link policy to a reference that did not resolve.
func (b *builder) broken(sidebarID, id string, line int) error {
	eb := derrors.BrokenLinkError(fmt.Sprintf("sidebar %q references missing document %q", sidebarID, id)).
		WithContext("sidebar", sidebarID).
		WithContext("doc_id", id)
	if line > 0 {
		eb = eb.WithContext("line", line)
	}
	issue := b.opts.Policy.Classify(eb)
	switch {
	case issue == nil:
		return nil
	case issue.IsFatal():
		return issue
	}
	b.issues = append(b.issues, issue)
	return nil
}

func (b *builder) resolve(sidebarID string, items []*Item) ([]*Item, error) {
	out := make([]*Item, 0, len(items))
	for _, it := range items {
		switch it.Type {
		case KindDoc:
			d, ok := b.table.Doc(it.DocID)
			if !ok {
				if err := b.broken(sidebarID, it.DocID, it.Line); err != nil {
					return nil, err
				}
				continue
			}
			if !d.Listed() {
				continue
			}
			out = append(out, b.docItem(d, it.Label))
		case KindLink:
			out = append(out, &Item{Type: KindLink, Label: it.Label, Href: it.Href})
		case KindAutogenerated:
			dir := b.tree.find(it.DirName)
			if dir == nil {
				continue
			}
			out = append(out, b.generate(dir)...)
		case KindCategory:
			children, err := b.resolve(sidebarID, it.Items)
			if err != nil {
				return nil, err
			}
			cat := b.category(it.Label, it.Collapsible, it.Collapsed)
			cat.Items = children
			if it.DocID != "" {
				d, ok := b.table.Doc(it.DocID)
				if !ok {
					if err := b.broken(sidebarID, it.DocID, it.Line); err != nil {
						return nil, err
					}
				} else {
					cat.DocID, cat.Href = d.ID, d.Route
				}
			}
			if len(cat.Items) == 0 && cat.DocID == "" {
				continue
			}
			out = append(out, cat)
		default:
			return nil, derrors.InternalError(fmt.Sprintf("unexpected sidebar item type %q", it.Type)).Build()
		}
	}
	return out, nil
}

func (b *builder) docItem(d *docs.Document, label string) *Item {
	if label == "" {
		label = d.SidebarLabel()
	}
	return &Item{Type: KindDoc, Label: label, DocID: d.ID, Href: d.Route}
}

func (b *builder) category(label string, collapsible, collapsed *bool) *Item {
	c := b.opts.Collapsible
	if collapsible != nil {
		c = *collapsible
	}
	folded := b.opts.Collapsed
	if collapsed != nil {
		folded = *collapsed
	}
	if !c {
		folded = false
	}
	return &Item{Type: KindCategory, Label: label, Collapsible: &c, Collapsed: &folded}
}

// generate lists a directory: its documents and one category per
// subdirectory, ordered by position then name.
func (b *builder) generate(dir *dirNode) []*Item {
	type entry struct {
		item   *Item
		pos    float64
		hasPos bool
		key    string
	}
	var entries []entry
	for _, d := range dir.docs {
		if dir.index == d {
			continue
		}
		pos, ok := d.Position()
		entries = append(entries, entry{item: b.docItem(d, ""), pos: pos, hasPos: ok, key: d.RelPath})
	}
	for _, sub := range dir.dirs {
		cat := b.category(sub.name, nil, nil)
		cat.Items = b.generate(sub)
		if sub.index != nil {
			cat.DocID, cat.Href = sub.index.ID, sub.index.Route
		}
		if len(cat.Items) == 0 && cat.DocID == "" {
			continue
		}
		e := entry{item: cat, key: sub.rel}
		if sub.index != nil {
			e.pos, e.hasPos = sub.index.Position()
		}
		if !e.hasPos && sub.prefix >= 0 {
			e.pos, e.hasPos = float64(sub.prefix), true
		}
		entries = append(entries, e)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		a, c := entries[i], entries[j]
		if a.hasPos != c.hasPos {
			return a.hasPos
		}
		if a.hasPos && a.pos != c.pos {
			return a.pos < c.pos
		}
		return a.key < c.key
	})
	items := make([]*Item, len(entries))
	for i, e := range entries {
		items[i] = e.item
	}
	return items
}

// dirNode is a directory of the docs tree, keyed by unprefixed names.
type dirNode struct {
	name   string
	rel    string
	prefix int
	docs   []*docs.Document
	index  *docs.Document
	dirs   []*dirNode
}

func newDirTree(all []*docs.Document) *dirNode {
	root := &dirNode{name: ".", prefix: -1}
	sorted := make([]*docs.Document, 0, len(all))
	for _, d := range all {
		if d.Listed() {
			sorted = append(sorted, d)
		}
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].RelPath < sorted[j].RelPath })
	for _, d := range sorted {
		n := root
		dir := path.Dir(d.RelPath)
		if dir != "." {
			for _, seg := range strings.Split(dir, "/") {
				n = n.child(seg)
			}
		}
		n.docs = append(n.docs, d)
		if n != root && n.index == nil && route.IsIndex(d.RelPath) {
			n.index = d
		}
	}
	return root
}

func (n *dirNode) child(seg string) *dirNode {
	name, prefix := docs.StripNumberPrefix(seg)
	for _, c := range n.dirs {
		if c.name == name {
			return c
		}
	}
	c := &dirNode{name: name, rel: path.Join(n.rel, seg), prefix: prefix}
	n.dirs = append(n.dirs, c)
	return c
}

// find locates a directory by its on-disk or unprefixed path.
func (n *dirNode) find(dirName string) *dirNode {
	dirName = strings.Trim(path.Clean(dirName), "/")
	if dirName == "." || dirName == "" {
		return n
	}
	cur := n
	for _, seg := range strings.Split(dirName, "/") {
		name, _ := docs.StripNumberPrefix(seg)
		var next *dirNode
		for _, c := range cur.dirs {
			if c.name == name {
				next = c
				break
			}
		}
		if next == nil {
			return nil
		}
		cur = next
	}
	return cur
}
