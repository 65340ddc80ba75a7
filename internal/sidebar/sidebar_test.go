package sidebar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mehdismh/econia/internal/config"
	"github.com/mehdismh/econia/internal/docs"
	derrors "github.com/mehdismh/econia/internal/foundation/errors"
	"github.com/mehdismh/econia/internal/frontmatter"
	"github.com/mehdismh/econia/internal/route"
)

func newDoc(t *testing.T, rel, header string) *docs.Document {
	t.Helper()
	p, err := frontmatter.Parse([]byte("---\n" + header + "\n---\nbody\n"))
	require.NoError(t, err)
	_, _, prefix := docs.SplitRel(rel)
	d := &docs.Document{
		RelPath:      rel,
		ID:           docs.DeriveID(rel, p.FrontMatter.ID),
		FrontMatter:  p.FrontMatter,
		NumberPrefix: prefix,
	}
	d.Title = d.ID
	if p.FrontMatter.Title != "" {
		d.Title = p.FrontMatter.Title
	}
	return d
}

func routed(t *testing.T, ds ...*docs.Document) *route.Table {
	t.Helper()
	table, err := route.Assign(ds, route.Options{BaseURL: "/"})
	require.NoError(t, err)
	return table
}

func labels(items []*Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Label
	}
	return out
}

var throwOpts = Options{Collapsible: true, Collapsed: true, Policy: config.PolicyThrow}

func TestParseManifest_ItemForms(t *testing.T) {
	m, err := ParseManifest([]byte(`
docs:
  - intro
  - type: doc
    id: setup
    label: Setup guide
  - type: category
    label: Reference
    collapsed: false
    link: {type: doc, id: reference/index}
    items:
      - reference/api
  - Concepts:
      - concepts/orders
  - type: link
    label: GitHub
    href: https://github.com/econia-labs/econia
  - type: autogenerated
    dirName: extra
api:
  Overview: [reference/api]
`))
	require.NoError(t, err)
	require.Len(t, m.Sidebars, 2)
	sb := m.Sidebars[0]
	assert.Equal(t, "docs", sb.ID)
	require.Len(t, sb.Items, 6)
	assert.Equal(t, &Item{Type: KindDoc, DocID: "intro", Line: 3}, sb.Items[0])
	assert.Equal(t, "Setup guide", sb.Items[1].Label)
	assert.Equal(t, KindCategory, sb.Items[2].Type)
	assert.Equal(t, "reference/index", sb.Items[2].DocID)
	require.NotNil(t, sb.Items[2].Collapsed)
	assert.False(t, *sb.Items[2].Collapsed)
	assert.Equal(t, "Concepts", sb.Items[3].Label)
	assert.Equal(t, KindLink, sb.Items[4].Type)
	assert.Equal(t, "extra", sb.Items[5].DirName)

	assert.Equal(t, "api", m.Sidebars[1].ID)
	assert.Equal(t, "Overview", m.Sidebars[1].Items[0].Label)
	assert.Equal(t, []string{"concepts/orders", "intro", "reference/api", "reference/index", "setup"}, m.DocIDs())
}

func TestParseManifest_NestedCategories(t *testing.T) {
	m, err := ParseManifest([]byte(`
docs:
  - type: category
    label: Guides
    items:
      - intro
      - type: category
        label: Trading
        collapsible: false
        items:
          - guides/makers
          - Takers: [guides/takers]
`))
	require.NoError(t, err)
	require.Len(t, m.Sidebars[0].Items, 1)
	guides := m.Sidebars[0].Items[0]
	assert.Equal(t, KindCategory, guides.Type)
	assert.Equal(t, "Guides", guides.Label)
	require.Len(t, guides.Items, 2)
	assert.Equal(t, "intro", guides.Items[0].DocID)

	trading := guides.Items[1]
	assert.Equal(t, "Trading", trading.Label)
	require.NotNil(t, trading.Collapsible)
	assert.False(t, *trading.Collapsible)
	require.Len(t, trading.Items, 2)
	assert.Equal(t, "guides/makers", trading.Items[0].DocID)
	assert.Equal(t, "Takers", trading.Items[1].Label)
	assert.Equal(t, []string{"guides/makers", "guides/takers", "intro"}, m.DocIDs())
}

func TestParseManifest_Errors(t *testing.T) {
	tests := map[string]string{
		"not a mapping":    "- a\n- b\n",
		"unknown type":     "docs:\n  - type: html\n    value: x\n",
		"doc without id":   "docs:\n  - type: doc\n",
		"link without url": "docs:\n  - type: link\n    label: x\n",
		"category items":   "docs:\n  - type: category\n    label: x\n",
		"recursive alias":  "docs: &loop\n  - Cat: *loop\n",
		"bad item":         "docs:\n  - [a, b]\n",
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseManifest([]byte(src))
			require.Error(t, err)
			assert.True(t, derrors.HasCategory(err, derrors.CategoryConfig), err.Error())
		})
	}
}

func TestParseManifest_SharedAliasIsAllowed(t *testing.T) {
	m, err := ParseManifest([]byte("common: &c [intro]\ndocs:\n  - Shared: *c\n"))
	require.NoError(t, err)
	require.Len(t, m.Sidebars, 2)
	assert.Equal(t, "intro", m.Sidebars[1].Items[0].Items[0].DocID)
}

func TestBuild_ResolvesManifest(t *testing.T) {
	intro := newDoc(t, "intro.md", "title: Introduction\nsidebar_label: Intro")
	api := newDoc(t, "reference/api.md", "title: API")
	ref := newDoc(t, "reference/index.md", "title: Reference")
	table := routed(t, intro, api, ref)

	m, err := ParseManifest([]byte(`
docs:
  - intro
  - type: category
    label: Reference
    link: {type: doc, id: reference/index}
    items: [reference/api]
  - type: link
    label: Home
    href: https://econia.dev
`))
	require.NoError(t, err)

	nav, issues, err := Build(m, table, throwOpts)
	require.NoError(t, err)
	assert.Empty(t, issues)
	items := nav.Sidebars[0].Items
	assert.Equal(t, []string{"Intro", "Reference", "Home"}, labels(items))
	assert.Equal(t, "/intro", items[0].Href)
	assert.Equal(t, "/reference", items[1].Href)
	assert.True(t, *items[1].Collapsible)
	assert.True(t, *items[1].Collapsed)
	assert.Equal(t, "/reference/api", items[1].Items[0].Href)
}

func TestBuild_MissingDocumentThrows(t *testing.T) {
	table := routed(t, newDoc(t, "intro.md", "title: Intro"))
	m, err := ParseManifest([]byte("docs:\n  - intro\n  - missing-page\n"))
	require.NoError(t, err)

	_, _, err = Build(m, table, throwOpts)
	require.Error(t, err)
	assert.True(t, derrors.HasCategory(err, derrors.CategoryBrokenLink))
	assert.True(t, derrors.HasSeverity(err, derrors.SeverityFatal))
	assert.Contains(t, err.Error(), "missing-page")
}

func TestBuild_MissingDocumentWarns(t *testing.T) {
	table := routed(t, newDoc(t, "intro.md", "title: Intro"))
	m, err := ParseManifest([]byte("docs:\n  - intro\n  - missing-page\n  - Empty: [gone]\n"))
	require.NoError(t, err)

	opts := throwOpts
	opts.Policy = config.PolicyWarn
	nav, issues, err := Build(m, table, opts)
	require.NoError(t, err)
	require.Len(t, issues, 2)
	assert.True(t, issues[0].IsWarning())
	id, _ := issues[0].Context().GetString("doc_id")
	assert.Equal(t, "missing-page", id)
	assert.Equal(t, []string{"Intro"}, labels(nav.Sidebars[0].Items))

	opts.Policy = config.PolicyIgnore
	_, issues, err = Build(m, table, opts)
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestBuild_DefaultManifestAutogenerates(t *testing.T) {
	ds := []*docs.Document{
		newDoc(t, "intro.md", "title: Intro\nsidebar_position: 0"),
		newDoc(t, "faq.md", "title: FAQ"),
		newDoc(t, "02-guides/index.md", "title: Guides"),
		newDoc(t, "02-guides/02-advanced.md", "title: Advanced"),
		newDoc(t, "02-guides/01-basics.md", "title: Basics"),
		newDoc(t, "01-concepts/orders.md", "title: Orders"),
		newDoc(t, "hidden.md", "title: Hidden\nunlisted: true"),
	}
	table := routed(t, ds...)
	nav, _, err := Build(DefaultManifest(), table, Options{Collapsible: false, Collapsed: true, Policy: config.PolicyThrow})
	require.NoError(t, err)

	items := nav.Sidebars[0].Items
	assert.Equal(t, DefaultID, nav.Sidebars[0].ID)
	assert.Equal(t, []string{"Intro", "concepts", "guides", "FAQ"}, labels(items))
	guides := items[2]
	assert.Equal(t, "/guides", guides.Href)
	assert.Equal(t, []string{"Basics", "Advanced"}, labels(guides.Items))
	assert.False(t, *guides.Collapsible)
	assert.False(t, *guides.Collapsed)
}

func TestBuild_AutogeneratedSubdirectory(t *testing.T) {
	table := routed(t,
		newDoc(t, "intro.md", "title: Intro"),
		newDoc(t, "01-api/b.md", "title: B"),
		newDoc(t, "01-api/a.md", "title: A"),
	)
	m, err := ParseManifest([]byte("docs:\n  - type: autogenerated\n    dirName: 01-api\n  - type: autogenerated\n    dirName: nowhere\n"))
	require.NoError(t, err)
	nav, _, err := Build(m, table, throwOpts)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, labels(nav.Sidebars[0].Items))
}

func TestBuild_PaginationAndBreadcrumbs(t *testing.T) {
	intro := newDoc(t, "intro.md", "title: Intro")
	ref := newDoc(t, "reference/index.md", "title: Reference")
	api := newDoc(t, "reference/api.md", "title: API\npagination_label: The API")
	last := newDoc(t, "last.md", "title: Last\npagination_prev: intro\npagination_next: null")
	table := routed(t, intro, ref, api, last)

	m, err := ParseManifest([]byte(`
docs:
  - intro
  - type: category
    label: Reference
    link: {type: doc, id: reference/index}
    items: [reference/api]
  - last
other:
  - intro
`))
	require.NoError(t, err)
	opts := throwOpts
	opts.Breadcrumbs = true
	nav, _, err := Build(m, table, opts)
	require.NoError(t, err)

	p, ok := nav.Page("intro")
	require.True(t, ok)
	assert.Equal(t, "docs", p.Sidebar)
	assert.Nil(t, p.Prev)
	assert.Equal(t, &NavLink{Label: "Reference", Href: "/reference"}, p.Next)

	p, _ = nav.Page("reference/index")
	assert.Equal(t, "The API", p.Next.Label)

	p, _ = nav.Page("reference/api")
	assert.Equal(t, []NavLink{{Label: "Reference", Href: "/reference"}, {Label: "API"}}, p.Breadcrumbs)
	assert.Equal(t, "/last", p.Next.Href)

	p, _ = nav.Page("last")
	assert.Equal(t, "/intro", p.Prev.Href)
	assert.Nil(t, p.Next)
}
