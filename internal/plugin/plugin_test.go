package plugin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func parseNodes(t *testing.T, src string) []yaml.Node {
	t.Helper()
	var nodes []yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(src), &nodes))
	return nodes
}

func TestParseEntry(t *testing.T) {
	nodes := parseNodes(t, `
- remark-math
- [rehype-katex, {errorColor: "#ff0000"}]
- [search-local]
`)
	entries, err := ParseEntries(nodes)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "remark-math", entries[0].Name)
	assert.False(t, entries[0].HasOptions())
	assert.Equal(t, "rehype-katex", entries[1].Name)
	assert.True(t, entries[1].HasOptions())
	assert.False(t, entries[2].HasOptions())
}

func TestParseEntry_Malformed(t *testing.T) {
	cases := map[string]string{
		"mapping":        `- {name: remark-math}`,
		"triple":         `- [remark-math, {}, {}]`,
		"empty pair":     `- []`,
		"scalar options": `- [remark-math, true]`,
		"numeric name":   `- [[a], {}]`,
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseEntries(parseNodes(t, src))
			assert.Error(t, err)
		})
	}
}

func TestResolveTransforms(t *testing.T) {
	remark, err := ParseEntries(parseNodes(t, `[math]`))
	require.NoError(t, err)
	rehype, err := ParseEntries(parseNodes(t, `[[katex, {macros: {"\\RR": "\\mathbb{R}"}}]]`))
	require.NoError(t, err)

	pre, err := ResolveTransforms(remark, KindRemark)
	require.NoError(t, err)
	post, err := ResolveTransforms(rehype, KindRehype)
	require.NoError(t, err)

	require.Len(t, pre, 1)
	syntax, ok := pre[0].(MathSyntax)
	require.True(t, ok)
	assert.True(t, syntax.SingleDollar)
	assert.Equal(t, PhasePreParse, syntax.Phase())

	render, ok := post[0].(MathRender)
	require.True(t, ok)
	assert.Equal(t, "#cc0000", render.ErrorColor)
	assert.Equal(t, `\mathbb{R}`, render.Macros[`\RR`])

	gotPre, gotPost := Split(append(pre, post...))
	assert.Equal(t, pre, gotPre)
	assert.Equal(t, post, gotPost)
}

func TestResolveTransform_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		slot Kind
		want string
	}{
		{"unknown name", `[remark-emoji]`, KindRemark, "unknown remark plugin"},
		{"wrong phase", `[rehype-katex]`, KindRemark, "cannot be declared as a remark plugin"},
		{"bad color", `[[katex, {errorColor: red}]]`, KindRehype, "hex color"},
		{"bad output", `[[katex, {output: svg}]]`, KindRehype, "output"},
		{"duplicate", `[math, remark-math]`, KindRemark, "more than once"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := ParseEntries(parseNodes(t, tt.src))
			require.NoError(t, err)
			_, err = ResolveTransforms(entries, tt.slot)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestResolveClassic(t *testing.T) {
	nodes := parseNodes(t, `
- - classic
  - docs:
      sidebarPath: sidebars.yaml
      sidebarCollapsible: false
      sidebarCollapsed: false
      routeBasePath: /
      editUrl: https://github.com/econia-labs/econia/tree/main/doc/doc-site/
      breadcrumbs: false
      remarkPlugins: [math]
      rehypePlugins: [katex]
    blog: false
    theme:
      customCss: ./src/css/custom.css
`)
	entry, err := ParseEntry(&nodes[0])
	require.NoError(t, err)
	c, err := ResolveClassic(entry)
	require.NoError(t, err)

	assert.Equal(t, "docs", c.Docs.Path)
	assert.Equal(t, "sidebars.yaml", c.Docs.SidebarPath)
	assert.Equal(t, "/", c.Docs.RouteBasePath)
	assert.False(t, c.Docs.SidebarCollapsible)
	assert.False(t, c.Docs.Breadcrumbs)
	assert.Equal(t, []string{"./src/css/custom.css"}, c.CustomCSS)
	require.Len(t, c.Docs.Transforms, 2)
	assert.Equal(t, NameRemarkMath, c.Docs.Transforms[0].Name())
	assert.Equal(t, NameRehypeKatex, c.Docs.Transforms[1].Name())
	assert.True(t, c.Sitemap.Enabled)
}

func TestResolveClassic_Rejects(t *testing.T) {
	cases := map[string]string{
		"blog enabled":  `- [classic, {blog: {path: blog}}]`,
		"docs disabled": `- [classic, {docs: false}]`,
		"bad sitemap":   `- [classic, {sitemap: {changefreq: sometimes}}]`,
		"not a preset":  `- [search-local]`,
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			nodes := parseNodes(t, src)
			entry, err := ParseEntry(&nodes[0])
			require.NoError(t, err)
			_, err = ResolveClassic(entry)
			assert.Error(t, err)
		})
	}
}

func TestResolveSearchLocal(t *testing.T) {
	nodes := parseNodes(t, `- [search-local, {hashed: true, docsRouteBasePath: /}]`)
	entry, err := ParseEntry(&nodes[0])
	require.NoError(t, err)
	s, err := ResolveSearchLocal(entry)
	require.NoError(t, err)
	assert.True(t, s.Hashed)
	assert.True(t, s.IndexDocs)
	assert.Equal(t, []string{"/"}, s.DocsRouteBasePath)
	assert.Equal(t, []string{"en"}, s.Language)
	assert.Equal(t, 8, s.SearchResultLimits)
}

func TestDefaults_ServeDocsAtRoot(t *testing.T) {
	nodes := parseNodes(t, "- classic\n- search-local\n")
	entry, err := ParseEntry(&nodes[0])
	require.NoError(t, err)
	c, err := ResolveClassic(entry)
	require.NoError(t, err)
	assert.Equal(t, "", c.Docs.RouteBasePath)

	entry, err = ParseEntry(&nodes[1])
	require.NoError(t, err)
	s, err := ResolveSearchLocal(entry)
	require.NoError(t, err)
	assert.Equal(t, []string{"/"}, s.DocsRouteBasePath)
}
