package config

import (
	"net/url"

	"gopkg.in/yaml.v3"

	derrors "github.com/mehdismh/econia/internal/foundation/errors"
)

// Stylesheet is an extra stylesheet linked from every page.
type Stylesheet struct {
	Href        string `yaml:"href" json:"href"`
	Type        string `yaml:"type" json:"type,omitempty"`
	Integrity   string `yaml:"integrity" json:"integrity,omitempty"`
	CrossOrigin string `yaml:"crossorigin" json:"crossorigin,omitempty"`
}

// External reports whether the stylesheet is served from another origin.
func (s Stylesheet) External() bool {
	u, err := url.Parse(s.Href)
	return err == nil && (u.Scheme != "" || u.Host != "")
}

func parseStylesheets(nodes []yaml.Node) ([]Stylesheet, error) {
	out := make([]Stylesheet, 0, len(nodes))
	for i := range nodes {
		n := &nodes[i]
		var s Stylesheet
		switch n.Kind {
		case yaml.ScalarNode:
			s.Href = n.Value
		case yaml.MappingNode:
			if err := n.Decode(&s); err != nil {
				return nil, derrors.WrapError(err, derrors.CategoryConfig, "invalid stylesheet").
					Fatal().WithContext("index", i).Build()
			}
		default:
			return nil, derrors.ConfigErrorf("stylesheets[%d] must be a URL or an {href, type, integrity, crossorigin} mapping", i).Build()
		}
		if s.Href == "" {
			return nil, derrors.ConfigErrorf("stylesheets[%d].href is required", i).Build()
		}
		if _, err := url.Parse(s.Href); err != nil {
			return nil, derrors.ConfigErrorf("stylesheets[%d].href %q is not a valid URL", i, s.Href).Build()
		}
		switch s.CrossOrigin {
		case "", "anonymous", "use-credentials":
		default:
			return nil, derrors.ConfigErrorf("stylesheets[%d].crossorigin %q must be anonymous or use-credentials", i, s.CrossOrigin).Build()
		}
		out = append(out, s)
	}
	return out, nil
}
