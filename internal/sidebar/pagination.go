package sidebar

import (
	"github.com/mehdismh/econia/internal/docs"
	"github.com/mehdismh/econia/internal/frontmatter"
	"github.com/mehdismh/econia/internal/route"
)

type flatEntry struct {
	doc    *docs.Document
	crumbs []NavLink
}

// flatten lists the documents of a sidebar in reading order together with
// the categories above them. A category's own document comes before its
// children.
func flatten(items []*Item, table *route.Table, crumbs []NavLink) []flatEntry {
	var out []flatEntry
	for _, it := range items {
		switch it.Type {
		case KindDoc:
			if d, ok := table.Doc(it.DocID); ok {
				out = append(out, flatEntry{doc: d, crumbs: crumbs})
			}
		case KindCategory:
			here := append(append([]NavLink(nil), crumbs...), NavLink{Label: it.Label, Href: it.Href})
			if it.DocID != "" {
				if d, ok := table.Doc(it.DocID); ok {
					out = append(out, flatEntry{doc: d, crumbs: crumbs})
				}
			}
			out = append(out, flatten(it.Items, table, here)...)
		}
	}
	return out
}

// paginate records prev/next links and breadcrumbs for every document of
// sb not already placed by an earlier sidebar. Front matter
// pagination_prev/pagination_next override the neighbors; null removes them.
func (b *builder) paginate(nav *Navigation, sb *Sidebar) error {
	flat := flatten(sb.Items, b.table, nil)
	for i, e := range flat {
		if _, placed := nav.pages[e.doc.ID]; placed {
			continue
		}
		p := PageNav{Sidebar: sb.ID}
		if i > 0 {
			p.Prev = pageLink(flat[i-1].doc)
		}
		if i+1 < len(flat) {
			p.Next = pageLink(flat[i+1].doc)
		}

		var err error
		if p.Prev, err = b.override(sb.ID, e.doc.FrontMatter.Prev(), p.Prev); err != nil {
			return err
		}
		if p.Next, err = b.override(sb.ID, e.doc.FrontMatter.Next(), p.Next); err != nil {
			return err
		}

		if b.opts.Breadcrumbs {
			p.Breadcrumbs = append(append([]NavLink(nil), e.crumbs...), NavLink{Label: e.doc.SidebarLabel()})
		}
		nav.pages[e.doc.ID] = p
	}
	return nil
}

func (b *builder) override(sidebarID string, ov frontmatter.Override, def *NavLink) (*NavLink, error) {
	switch {
	case !ov.Set:
		return def, nil
	case ov.Disabled:
		return nil, nil
	}
	d, ok := b.table.Doc(ov.Value)
	if !ok {
		return def, b.broken(sidebarID, ov.Value, 0)
	}
	return pageLink(d), nil
}

func pageLink(d *docs.Document) *NavLink {
	label := d.FrontMatter.PaginationLabel
	if label == "" {
		label = d.SidebarLabel()
	}
	return &NavLink{Label: label, Href: d.Route}
}
