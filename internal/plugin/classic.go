package plugin

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Classic is the resolved classic preset: the docs content plugin, custom
// CSS for the theme and sitemap generation.
type Classic struct {
	Docs      Docs     `json:"docs"`
	CustomCSS []string `json:"customCss,omitempty"`
	Sitemap   Sitemap  `json:"sitemap"`
}

// Docs holds the options of the docs content plugin.
type Docs struct {
	Path                 string      `json:"path"`
	SidebarPath          string      `json:"sidebarPath,omitempty"`
	SidebarCollapsible   bool        `json:"sidebarCollapsible"`
	SidebarCollapsed     bool        `json:"sidebarCollapsed"`
	RouteBasePath        string      `json:"routeBasePath"`
	EditURL              string      `json:"editUrl,omitempty"`
	Breadcrumbs          bool        `json:"breadcrumbs"`
	ShowLastUpdateAuthor bool        `json:"showLastUpdateAuthor"`
	ShowLastUpdateTime   bool        `json:"showLastUpdateTime"`
	Transforms           []Transform `json:"transforms,omitempty"`
}

// Sitemap holds the sitemap options of the classic preset.
type Sitemap struct {
	Enabled        bool     `json:"enabled"`
	ChangeFreq     string   `json:"changefreq,omitempty"`
	Priority       float64  `json:"priority,omitempty"`
	IgnorePatterns []string `json:"ignorePatterns,omitempty"`
	Filename       string   `json:"filename,omitempty"`
}

// DefaultClassic returns the preset options used when none are declared.
func DefaultClassic() Classic {
	return Classic{
		Docs: Docs{
			Path:               "docs",
			SidebarCollapsible: true,
			SidebarCollapsed:   true,
			RouteBasePath:      "",
			Breadcrumbs:        true,
		},
		Sitemap: Sitemap{Enabled: true, ChangeFreq: "weekly", Priority: 0.5, Filename: "sitemap.xml"},
	}
}

type rawClassic struct {
	Docs    yaml.Node `yaml:"docs"`
	Blog    yaml.Node `yaml:"blog"`
	Pages   yaml.Node `yaml:"pages"`
	Sitemap yaml.Node `yaml:"sitemap"`
	Theme   struct {
		CustomCSS yaml.Node `yaml:"customCss"`
	} `yaml:"theme"`
}

type rawDocs struct {
	Path                 string      `yaml:"path"`
	SidebarPath          yaml.Node   `yaml:"sidebarPath"`
	SidebarCollapsible   *bool       `yaml:"sidebarCollapsible"`
	SidebarCollapsed     *bool       `yaml:"sidebarCollapsed"`
	RouteBasePath        *string     `yaml:"routeBasePath"`
	EditURL              string      `yaml:"editUrl"`
	Breadcrumbs          *bool       `yaml:"breadcrumbs"`
	ShowLastUpdateAuthor bool        `yaml:"showLastUpdateAuthor"`
	ShowLastUpdateTime   bool        `yaml:"showLastUpdateTime"`
	RemarkPlugins        []yaml.Node `yaml:"remarkPlugins"`
	RehypePlugins        []yaml.Node `yaml:"rehypePlugins"`
}

type rawSitemap struct {
	ChangeFreq     string   `yaml:"changefreq"`
	Priority       *float64 `yaml:"priority"`
	IgnorePatterns []string `yaml:"ignorePatterns"`
	Filename       string   `yaml:"filename"`
}

var changeFreqs = map[string]bool{
	"always": true, "hourly": true, "daily": true, "weekly": true,
	"monthly": true, "yearly": true, "never": true,
}

// ResolveClassic resolves a preset declaration into the classic preset.
func ResolveClassic(e Entry) (Classic, error) {
	if _, err := checkKind(e, KindPreset); err != nil {
		return Classic{}, err
	}
	out := DefaultClassic()
	var raw rawClassic
	if err := e.Decode(&raw); err != nil {
		return Classic{}, err
	}

	if enabled, err := toggle(&raw.Blog, false); err != nil {
		return Classic{}, fmt.Errorf("classic blog: %w", err)
	} else if enabled {
		return Classic{}, fmt.Errorf("classic blog content is not supported; set blog: false")
	}

	if isFalse(&raw.Docs) {
		return Classic{}, fmt.Errorf("classic docs cannot be disabled")
	}
	if raw.Docs.Kind == yaml.MappingNode {
		if err := resolveDocs(&raw.Docs, &out.Docs); err != nil {
			return Classic{}, err
		}
	}

	css, err := StringList(&raw.Theme.CustomCSS)
	if err != nil {
		return Classic{}, fmt.Errorf("classic theme.customCss: %w", err)
	}
	out.CustomCSS = css

	if isFalse(&raw.Sitemap) {
		out.Sitemap = Sitemap{}
	} else if raw.Sitemap.Kind == yaml.MappingNode {
		var rs rawSitemap
		if err := raw.Sitemap.Decode(&rs); err != nil {
			return Classic{}, fmt.Errorf("classic sitemap: %w", err)
		}
		if rs.ChangeFreq != "" {
			if !changeFreqs[rs.ChangeFreq] {
				return Classic{}, fmt.Errorf("classic sitemap changefreq %q is invalid", rs.ChangeFreq)
			}
			out.Sitemap.ChangeFreq = rs.ChangeFreq
		}
		if rs.Priority != nil {
			if *rs.Priority < 0 || *rs.Priority > 1 {
				return Classic{}, fmt.Errorf("classic sitemap priority %s must be within [0,1]", strconv.FormatFloat(*rs.Priority, 'f', -1, 64))
			}
			out.Sitemap.Priority = *rs.Priority
		}
		if rs.Filename != "" {
			out.Sitemap.Filename = rs.Filename
		}
		out.Sitemap.IgnorePatterns = rs.IgnorePatterns
	}
	return out, nil
}

func resolveDocs(node *yaml.Node, docs *Docs) error {
	var rd rawDocs
	if err := node.Decode(&rd); err != nil {
		return fmt.Errorf("classic docs: %w", err)
	}
	if rd.Path != "" {
		docs.Path = rd.Path
	}
	if !isFalse(&rd.SidebarPath) && rd.SidebarPath.Kind == yaml.ScalarNode {
		docs.SidebarPath = rd.SidebarPath.Value
	}
	if rd.SidebarCollapsible != nil {
		docs.SidebarCollapsible = *rd.SidebarCollapsible
	}
	if rd.SidebarCollapsed != nil {
		docs.SidebarCollapsed = *rd.SidebarCollapsed
	}
	if rd.RouteBasePath != nil {
		docs.RouteBasePath = *rd.RouteBasePath
	}
	if rd.Breadcrumbs != nil {
		docs.Breadcrumbs = *rd.Breadcrumbs
	}
	docs.EditURL = rd.EditURL
	docs.ShowLastUpdateAuthor = rd.ShowLastUpdateAuthor
	docs.ShowLastUpdateTime = rd.ShowLastUpdateTime

	remark, err := ParseEntries(rd.RemarkPlugins)
	if err != nil {
		return fmt.Errorf("classic docs.remarkPlugins: %w", err)
	}
	rehype, err := ParseEntries(rd.RehypePlugins)
	if err != nil {
		return fmt.Errorf("classic docs.rehypePlugins: %w", err)
	}
	pre, err := ResolveTransforms(remark, KindRemark)
	if err != nil {
		return fmt.Errorf("classic docs.remarkPlugins: %w", err)
	}
	post, err := ResolveTransforms(rehype, KindRehype)
	if err != nil {
		return fmt.Errorf("classic docs.rehypePlugins: %w", err)
	}
	docs.Transforms = append(pre, post...)
	return nil
}

// isFalse reports whether node is the literal boolean false.
func isFalse(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.Tag == "!!bool" && node.Value == "false"
}

// toggle interprets an option that is either a boolean or a mapping
// (meaning enabled). Absent options yield def.
func toggle(node *yaml.Node, def bool) (bool, error) {
	switch node.Kind {
	case 0:
		return def, nil
	case yaml.MappingNode:
		return true, nil
	case yaml.ScalarNode:
		if node.Tag == "!!bool" {
			return strconv.ParseBool(node.Value)
		}
		if node.Tag == "!!null" {
			return def, nil
		}
	}
	return false, fmt.Errorf("line %d: expected a boolean or a mapping", node.Line)
}

// StringList decodes a string or a list of strings. Absent nodes yield nil.
func StringList(node *yaml.Node) ([]string, error) {
	switch node.Kind {
	case 0:
		return nil, nil
	case yaml.ScalarNode:
		if node.Tag == "!!null" || node.Value == "" {
			return nil, nil
		}
		return []string{node.Value}, nil
	case yaml.SequenceNode:
		var out []string
		if err := node.Decode(&out); err != nil {
			return nil, err
		}
		return out, nil
	}
	return nil, fmt.Errorf("line %d: expected a string or a list of strings", node.Line)
}
