package frontmatter

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/inful/mdfp"
	"gopkg.in/yaml.v3"
)

// FrontMatter holds the recognized document header fields.
type FrontMatter struct {
	ID                  string    `yaml:"id"`
	Title               string    `yaml:"title"`
	Slug                string    `yaml:"slug"`
	Description         string    `yaml:"description"`
	Keywords            []string  `yaml:"keywords"`
	Tags                []string  `yaml:"tags"`
	SidebarLabel        string    `yaml:"sidebar_label"`
	SidebarPosition     *float64  `yaml:"sidebar_position"`
	PaginationLabel     string    `yaml:"pagination_label"`
	PaginationPrev      yaml.Node `yaml:"pagination_prev"`
	PaginationNext      yaml.Node `yaml:"pagination_next"`
	CustomEditURL       yaml.Node `yaml:"custom_edit_url"`
	Draft               bool      `yaml:"draft"`
	Unlisted            bool      `yaml:"unlisted"`
	HideTitle           bool      `yaml:"hide_title"`
	HideTableOfContents bool      `yaml:"hide_table_of_contents"`
}

// Override is a front matter field that may be absent, explicitly null or set.
type Override struct {
	Set      bool
	Disabled bool
	Value    string
}

func override(n yaml.Node) Override {
	switch {
	case n.Kind == 0:
		return Override{}
	case n.Kind == yaml.ScalarNode && n.Tag == "!!null":
		return Override{Set: true, Disabled: true}
	default:
		return Override{Set: true, Value: n.Value}
	}
}

// Prev is the pagination_prev override.
func (f *FrontMatter) Prev() Override { return override(f.PaginationPrev) }

// Next is the pagination_next override.
func (f *FrontMatter) Next() Override { return override(f.PaginationNext) }

// EditURL is the custom_edit_url override.
func (f *FrontMatter) EditURL() Override { return override(f.CustomEditURL) }

// Parsed is a document split into its decoded header and markdown body.
type Parsed struct {
	FrontMatter FrontMatter
	Fields      map[string]any
	Raw         []byte
	Body        []byte
	// BodyLine is the 1-based source line the body starts on.
	BodyLine int
}

// Parse splits and decodes a document.
func Parse(content []byte) (*Parsed, error) {
	raw, body, had, err := Split(content)
	if err != nil {
		return nil, err
	}
	p := &Parsed{Raw: raw, Body: body, BodyLine: 1, Fields: map[string]any{}}
	if !had {
		return p, nil
	}
	p.BodyLine = bytes.Count(content[:len(content)-len(body)], []byte("\n")) + 1
	if len(bytes.TrimSpace(raw)) == 0 {
		return p, nil
	}
	if p.Fields, err = ParseYAML(raw); err != nil {
		return nil, fmt.Errorf("front matter: %w", err)
	}
	if err := yaml.Unmarshal(raw, &p.FrontMatter); err != nil {
		return nil, fmt.Errorf("front matter: %w", err)
	}
	for _, node := range []yaml.Node{p.FrontMatter.PaginationPrev, p.FrontMatter.PaginationNext, p.FrontMatter.CustomEditURL} {
		if node.Kind != 0 && node.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("front matter: line %d: expected a string or null", node.Line)
		}
	}
	return p, nil
}

// Fingerprint is the content fingerprint of the document: it changes
// whenever either the header or the body changes.
func (p *Parsed) Fingerprint() string {
	header := strings.TrimSuffix(strings.ReplaceAll(string(p.Raw), "\r\n", "\n"), "\n")
	return mdfp.CalculateFingerprintFromParts(header, string(p.Body))
}
