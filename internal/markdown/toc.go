package markdown

import (
	"path"

	"github.com/yuin/goldmark/ast"

	"github.com/mehdismh/econia/internal/docs"
)

// extractHeadings fills the document title and table of contents.
func extractHeadings(root ast.Node, source []byte, doc *docs.Document) {
	var h1 string
	var toc []docs.Heading
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		text := plainText(h, source)
		switch {
		case h.Level == 1 && h1 == "":
			h1 = text
		case h.Level == 2 || h.Level == 3:
			var id string
			if v, ok := h.AttributeString("id"); ok {
				if b, ok := v.([]byte); ok {
					id = string(b)
				}
			}
			toc = append(toc, docs.Heading{Level: h.Level, ID: id, Text: text})
		}
		return ast.WalkSkipChildren, nil
	})

	switch {
	case doc.FrontMatter.Title != "":
		doc.Title = doc.FrontMatter.Title
	case h1 != "":
		doc.Title = h1
	default:
		doc.Title = path.Base(doc.ID)
	}
	if !doc.FrontMatter.HideTableOfContents {
		doc.TOC = toc
	}
}
