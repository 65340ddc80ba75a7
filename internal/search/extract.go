package search

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Page is a rendered page offered to the indexer.
type Page struct {
	ID    string
	Route string
	Title string
	HTML  string
}

// Section is a heading of a page that search results can link to.
type Section struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

var skipped = map[atom.Atom]bool{
	atom.Script:     true,
	atom.Style:      true,
	atom.Annotation: true,
	atom.Noscript:   true,
	atom.Template:   true,
}

// PlainText returns the visible text of an HTML fragment. Scripts, styles,
// TeX annotations and aria-hidden subtrees are left out.
func PlainText(fragment string) (string, error) {
	root, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return "", err
	}
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if s := strings.TrimSpace(n.Data); s != "" {
				parts = append(parts, s)
			}
			return
		case html.ElementNode:
			if skipped[n.DataAtom] || attr(n, "aria-hidden") == "true" {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return strings.Join(parts, " "), nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// Sections lists the h2/h3 headings that carry an id.
func Sections(fragment string) ([]Section, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return nil, err
	}
	var out []Section
	doc.Find("h2[id], h3[id]").Each(func(_ int, s *goquery.Selection) {
		id, _ := s.Attr("id")
		out = append(out, Section{ID: id, Title: strings.TrimSpace(s.Text())})
	})
	return out, nil
}
