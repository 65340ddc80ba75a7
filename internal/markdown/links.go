package markdown

import (
	"net/url"
	"path"
	"strings"

	"github.com/yuin/goldmark/ast"

	"github.com/mehdismh/econia/internal/docs"
)

// LinkResolver maps a docs-relative source path to the route of the
// document it names.
type LinkResolver interface {
	RouteForSource(rel string) (string, bool)
}

// rewriteLinks replaces markdown links to .md/.mdx files with the target
// document's route and records every such reference on the document.
func rewriteLinks(root ast.Node, lines lineIndex, doc *docs.Document, resolver LinkResolver) {
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		link, ok := n.(*ast.Link)
		if !ok {
			return ast.WalkContinue, nil
		}
		dest := string(link.Destination)
		u, target, ok := docReference(dest, doc.RelPath)
		if !ok {
			return ast.WalkContinue, nil
		}
		ref := docs.LinkRef{Target: dest}
		if off := firstOffset(link); off >= 0 {
			ref.Line = lines.line(off)
		}
		if target != "" && resolver != nil {
			if route, found := resolver.RouteForSource(target); found {
				ref.Resolved = true
				out := route
				if u.RawQuery != "" {
					out += "?" + u.RawQuery
				}
				if u.Fragment != "" {
					out += "#" + u.Fragment
				}
				link.Destination = []byte(out)
			}
		}
		doc.Links = append(doc.Links, ref)
		return ast.WalkContinue, nil
	})
}

// docReference reports whether dest points at a document source and
// returns the docs-relative path it names. An empty target means the
// reference escapes the docs directory.
func docReference(dest, from string) (*url.URL, string, bool) {
	u, err := url.Parse(dest)
	if err != nil || u.Scheme != "" || u.Host != "" || u.Path == "" || !docs.IsSource(u.Path) {
		return nil, "", false
	}
	var joined string
	if strings.HasPrefix(u.Path, "/") {
		joined = path.Clean(strings.TrimPrefix(u.Path, "/"))
	} else {
		joined = path.Join(path.Dir(from), u.Path)
	}
	if joined == ".." || strings.HasPrefix(joined, "../") {
		return u, "", true
	}
	return u, joined, true
}
