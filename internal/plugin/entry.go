package plugin

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Entry is a plugin declaration as written in the configuration: either a
// bare name or a [name, options] pair.
type Entry struct {
	Name    string
	Options *yaml.Node
	Line    int
}

// HasOptions reports whether the entry carries an options mapping.
func (e Entry) HasOptions() bool {
	return e.Options != nil && e.Options.Kind == yaml.MappingNode
}

// Decode unmarshals the entry options into v. Entries without options leave v untouched.
func (e Entry) Decode(v any) error {
	if !e.HasOptions() {
		return nil
	}
	if err := e.Options.Decode(v); err != nil {
		return fmt.Errorf("plugin %q options: %w", e.Name, err)
	}
	return nil
}

// ParseEntry reads one plugin declaration.
func ParseEntry(node *yaml.Node) (Entry, error) {
	if node == nil {
		return Entry{}, fmt.Errorf("empty plugin entry")
	}
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Value == "" {
			return Entry{}, fmt.Errorf("line %d: empty plugin name", node.Line)
		}
		return Entry{Name: node.Value, Line: node.Line}, nil
	case yaml.SequenceNode:
		if len(node.Content) == 0 || len(node.Content) > 2 {
			return Entry{}, fmt.Errorf("line %d: plugin entry must be a name or a [name, options] pair", node.Line)
		}
		name := node.Content[0]
		if name.Kind != yaml.ScalarNode || name.Value == "" {
			return Entry{}, fmt.Errorf("line %d: plugin name must be a string", node.Line)
		}
		e := Entry{Name: name.Value, Line: node.Line}
		if len(node.Content) == 2 {
			opts := node.Content[1]
			if opts.Kind == yaml.AliasNode {
				opts = opts.Alias
			}
			if opts.Kind != yaml.MappingNode {
				return Entry{}, fmt.Errorf("line %d: options of plugin %q must be a mapping", node.Line, e.Name)
			}
			e.Options = opts
		}
		return e, nil
	case yaml.AliasNode:
		return ParseEntry(node.Alias)
	default:
		return Entry{}, fmt.Errorf("line %d: plugin entry must be a name or a [name, options] pair", node.Line)
	}
}

// ParseEntries reads a list of plugin declarations.
func ParseEntries(nodes []yaml.Node) ([]Entry, error) {
	out := make([]Entry, 0, len(nodes))
	for i := range nodes {
		e, err := ParseEntry(&nodes[i])
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		out = append(out, e)
	}
	return out, nil
}
