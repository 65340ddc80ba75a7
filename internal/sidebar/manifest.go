// Package sidebar builds navigation trees from a sidebar manifest and the
// routed documents.
package sidebar

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	derrors "github.com/mehdismh/econia/internal/foundation/errors"
)

// DefaultID names the sidebar generated when no manifest is configured.
const DefaultID = "defaultSidebar"

// Kind is the type of a sidebar item.
type Kind string

const (
	KindDoc           Kind = "doc"
	KindCategory      Kind = "category"
	KindLink          Kind = "link"
	KindAutogenerated Kind = "autogenerated"
)

// Item is a node of a navigation tree. Autogenerated items only appear in
// a parsed manifest; Build replaces them with the documents they stand for.
type Item struct {
	Type        Kind    `json:"type"`
	Label       string  `json:"label,omitempty"`
	DocID       string  `json:"docId,omitempty"`
	Href        string  `json:"href,omitempty"`
	Items       []*Item `json:"items,omitempty"`
	Collapsible *bool   `json:"collapsible,omitempty"`
	Collapsed   *bool   `json:"collapsed,omitempty"`
	DirName     string  `json:"-"`
	Line        int     `json:"-"`
}

// Sidebar is one named navigation tree.
type Sidebar struct {
	ID    string  `json:"id"`
	Items []*Item `json:"items"`
}

// Manifest is a parsed sidebar file: sidebars in declaration order.
type Manifest struct {
	Sidebars []*Sidebar
}

// DefaultManifest is used when no sidebar file is configured: one sidebar
// generated from the whole docs tree.
func DefaultManifest() *Manifest {
	return &Manifest{Sidebars: []*Sidebar{{
		ID:    DefaultID,
		Items: []*Item{{Type: KindAutogenerated, DirName: "."}},
	}}}
}

// LoadManifest reads a sidebar file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, derrors.ConfigError("sidebar file not found").WithContext("path", path).Build()
		}
		return nil, derrors.WrapError(err, derrors.CategoryConfig, "read sidebar file").
			Fatal().WithContext("path", path).Build()
	}
	m, err := ParseManifest(data)
	if err != nil {
		if ce, ok := derrors.AsClassified(err); ok {
			return nil, ce.WithContext("path", path)
		}
		return nil, err
	}
	return m, nil
}

// ParseManifest decodes a sidebar file. The document maps sidebar ids to
// either a list of items or a {label: [items]} shorthand.
func ParseManifest(data []byte) (*Manifest, error) {
	var root yaml.Node
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return &Manifest{}, nil
		}
		return nil, derrors.WrapError(err, derrors.CategoryConfig, "parse sidebar file").Fatal().Build()
	}
	if err := rejectRecursion(&root, nil); err != nil {
		return nil, err
	}
	doc := &root
	if doc.Kind == yaml.DocumentNode && len(doc.Content) == 1 {
		doc = doc.Content[0]
	}
	doc = resolveAlias(doc)
	if doc.Kind != yaml.MappingNode {
		return nil, manifestError(doc, "sidebar file must map sidebar ids to items")
	}

	m := &Manifest{}
	for i := 0; i+1 < len(doc.Content); i += 2 {
		key, val := doc.Content[i], resolveAlias(doc.Content[i+1])
		sb := &Sidebar{ID: key.Value}
		var err error
		switch val.Kind {
		case yaml.SequenceNode:
			sb.Items, err = parseItems(val)
		case yaml.MappingNode:
			sb.Items, err = parseShorthand(val)
		default:
			err = manifestError(val, fmt.Sprintf("sidebar %q must be a list or a mapping", key.Value))
		}
		if err != nil {
			return nil, err
		}
		m.Sidebars = append(m.Sidebars, sb)
	}
	return m, nil
}

type rawItem struct {
	Type        string      `yaml:"type"`
	ID          string      `yaml:"id"`
	Label       string      `yaml:"label"`
	Href        string      `yaml:"href"`
	DirName     string      `yaml:"dirName"`
	Items       yaml.Node   `yaml:"items"`
	Collapsed   *bool       `yaml:"collapsed"`
	Collapsible *bool       `yaml:"collapsible"`
	Link        *rawItemRef `yaml:"link"`
}

type rawItemRef struct {
	Type string `yaml:"type"`
	ID   string `yaml:"id"`
}

func parseItems(seq *yaml.Node) ([]*Item, error) {
	items := make([]*Item, 0, len(seq.Content))
	for _, n := range seq.Content {
		n = resolveAlias(n)
		switch n.Kind {
		case yaml.ScalarNode:
			items = append(items, &Item{Type: KindDoc, DocID: n.Value, Line: n.Line})
		case yaml.MappingNode:
			if !hasKey(n, "type") {
				cats, err := parseShorthand(n)
				if err != nil {
					return nil, err
				}
				items = append(items, cats...)
				continue
			}
			it, err := parseItem(n)
			if err != nil {
				return nil, err
			}
			items = append(items, it)
		default:
			return nil, manifestError(n, "sidebar item must be a doc id or a mapping")
		}
	}
	return items, nil
}

// parseShorthand turns {label: [items], ...} into categories.
func parseShorthand(m *yaml.Node) ([]*Item, error) {
	var out []*Item
	for i := 0; i+1 < len(m.Content); i += 2 {
		key, val := m.Content[i], resolveAlias(m.Content[i+1])
		if val.Kind != yaml.SequenceNode {
			return nil, manifestError(val, fmt.Sprintf("category %q must list its items", key.Value))
		}
		children, err := parseItems(val)
		if err != nil {
			return nil, err
		}
		out = append(out, &Item{Type: KindCategory, Label: key.Value, Items: children, Line: key.Line})
	}
	return out, nil
}

func parseItem(n *yaml.Node) (*Item, error) {
	var raw rawItem
	if err := n.Decode(&raw); err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryConfig, "invalid sidebar item").
			Fatal().WithContext("line", n.Line).Build()
	}
	it := &Item{Type: Kind(raw.Type), Label: raw.Label, Line: n.Line}
	switch it.Type {
	case KindDoc:
		if raw.ID == "" {
			return nil, manifestError(n, "doc item requires an id")
		}
		it.DocID = raw.ID
	case KindLink:
		if raw.Label == "" || raw.Href == "" {
			return nil, manifestError(n, "link item requires a label and an href")
		}
		it.Href = raw.Href
	case KindAutogenerated:
		it.DirName = raw.DirName
		if it.DirName == "" {
			it.DirName = "."
		}
	case KindCategory:
		if raw.Label == "" {
			return nil, manifestError(n, "category requires a label")
		}
		items := resolveAlias(&raw.Items)
		if items == nil || items.Kind != yaml.SequenceNode {
			return nil, manifestError(n, fmt.Sprintf("category %q must list its items", raw.Label))
		}
		children, err := parseItems(items)
		if err != nil {
			return nil, err
		}
		it.Items = children
		it.Collapsed = raw.Collapsed
		it.Collapsible = raw.Collapsible
		if raw.Link != nil {
			if raw.Link.Type != "doc" || raw.Link.ID == "" {
				return nil, manifestError(n, "category link must be {type: doc, id: <doc id>}")
			}
			it.DocID = raw.Link.ID
		}
	default:
		return nil, manifestError(n, fmt.Sprintf("unknown sidebar item type %q", raw.Type))
	}
	return it, nil
}

// rejectRecursion fails on aliases that refer to one of their own ancestors.
func rejectRecursion(n *yaml.Node, stack []*yaml.Node) error {
	for _, s := range stack {
		if s == n {
			return manifestError(n, "sidebar items must not contain themselves")
		}
	}
	stack = append(stack, n)
	if n.Kind == yaml.AliasNode && n.Alias != nil {
		return rejectRecursion(n.Alias, stack)
	}
	for _, c := range n.Content {
		if err := rejectRecursion(c, stack); err != nil {
			return err
		}
	}
	return nil
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

func hasKey(m *yaml.Node, key string) bool {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return true
		}
	}
	return false
}

func manifestError(n *yaml.Node, msg string) error {
	b := derrors.ConfigError(msg)
	if n != nil && n.Line > 0 {
		b = b.WithContext("line", n.Line)
	}
	return b.Build()
}

// DocIDs lists every doc id referenced by the manifest, sorted and unique.
func (m *Manifest) DocIDs() []string {
	seen := map[string]bool{}
	var walk func([]*Item)
	walk = func(items []*Item) {
		for _, it := range items {
			if it.DocID != "" {
				seen[it.DocID] = true
			}
			walk(it.Items)
		}
	}
	for _, sb := range m.Sidebars {
		walk(sb.Items)
	}
	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
