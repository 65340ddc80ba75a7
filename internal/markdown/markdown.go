// Package markdown renders documents to HTML.
//
// Rendering runs in two phases. Pre-parse transforms act on the goldmark
// syntax tree; post-parse transforms act on the rendered HTML tree. Both
// phases apply the configured transforms in declared order.
package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"

	"github.com/mehdismh/econia/internal/docs"
	derrors "github.com/mehdismh/econia/internal/foundation/errors"
	"github.com/mehdismh/econia/internal/plugin"
)

// Renderer turns documents into HTML fragments. It is safe for concurrent
// use once built; each Render call owns the document it is given.
type Renderer struct {
	md       goldmark.Markdown
	pre      []plugin.Transform
	post     []plugin.Transform
	resolver LinkResolver
}

// New builds a renderer for the given transforms. resolver rewrites
// cross-references between documents and may be nil.
func New(transforms []plugin.Transform, resolver LinkResolver) (*Renderer, error) {
	pre, post := plugin.Split(transforms)
	exts := []goldmark.Extender{extension.GFM, extension.Footnote}
	for _, t := range pre {
		switch t := t.(type) {
		case plugin.MathSyntax:
			exts = append(exts, Math{SingleDollar: t.SingleDollar})
		default:
			return nil, derrors.InternalError(fmt.Sprintf("unsupported pre-parse transform %q", t.Name())).Build()
		}
	}
	for _, t := range post {
		switch t.(type) {
		case plugin.MathRender:
		default:
			return nil, derrors.InternalError(fmt.Sprintf("unsupported post-parse transform %q", t.Name())).Build()
		}
	}
	md := goldmark.New(
		goldmark.WithExtensions(exts...),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	return &Renderer{md: md, pre: pre, post: post, resolver: resolver}, nil
}

// Render parses doc.Body, applies the transforms and stores the resulting
// HTML, title and table of contents on doc. Problems in the content become
// warnings on the document; the returned error is reserved for failures of
// the renderer itself.
func (r *Renderer) Render(doc *docs.Document) error {
	source := doc.Body
	lines := newLineIndex(source, doc.BodyLine)
	root := r.md.Parser().Parse(text.NewReader(source))

	for _, t := range r.pre {
		switch t.(type) {
		case plugin.MathSyntax:
			checkMathDelimiters(root, source, lines, doc)
		}
	}
	rewriteLinks(root, lines, doc, r.resolver)
	extractHeadings(root, source, doc)

	var buf bytes.Buffer
	if err := r.md.Renderer().Render(&buf, source, root); err != nil {
		return derrors.WrapError(err, derrors.CategoryRender, "render markdown").
			Fatal().WithContext("path", doc.RelPath).Build()
	}
	if len(r.post) == 0 {
		doc.HTML = buf.String()
		return nil
	}

	tree, err := goquery.NewDocumentFromReader(&buf)
	if err != nil {
		return derrors.WrapError(err, derrors.CategoryRender, "parse rendered html").
			Fatal().WithContext("path", doc.RelPath).Build()
	}
	body := tree.Find("body")
	for _, t := range r.post {
		switch t := t.(type) {
		case plugin.MathRender:
			renderMath(body, t, doc)
		}
	}
	out, err := body.Html()
	if err != nil {
		return derrors.WrapError(err, derrors.CategoryRender, "serialize html").
			Fatal().WithContext("path", doc.RelPath).Build()
	}
	doc.HTML = strings.TrimSpace(out) + "\n"
	return nil
}
