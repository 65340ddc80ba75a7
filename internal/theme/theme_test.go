package theme

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mehdismh/econia/internal/config"
	"github.com/mehdismh/econia/internal/docs"
	derrors "github.com/mehdismh/econia/internal/foundation/errors"
)

type docMap map[string]*docs.Document

func (m docMap) Doc(id string) (*docs.Document, bool) {
	d, ok := m[id]
	return d, ok
}

func writeFile(t *testing.T, p string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
	require.NoError(t, os.WriteFile(p, []byte("x"), 0o600))
}

func loadSite(t *testing.T) *config.Site {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "static", "img", "favicon.ico"))
	writeFile(t, filepath.Join(dir, "static", "img", "EconiaHeader.svg"))
	writeFile(t, filepath.Join(dir, "src", "css", "custom.css"))
	site, err := config.Parse(config.ExampleConfig, filepath.Join(dir, config.DefaultFile))
	require.NoError(t, err)
	return site
}

func TestCompose_ExampleSite(t *testing.T) {
	site := loadSite(t)
	m, issues, err := Compose(site, docMap{})
	require.NoError(t, err)
	assert.Empty(t, issues)

	require.Len(t, m.Stylesheets, 3)
	assert.True(t, m.Stylesheets[0].External)
	assert.Contains(t, m.Stylesheets[0].Href, "fonts.googleapis.com")
	assert.Equal(t, "anonymous", m.Stylesheets[1].CrossOrigin)
	assert.NotEmpty(t, m.Stylesheets[1].Integrity)
	assert.Equal(t, "/css/custom.css", m.Stylesheets[2].Href)
	assert.Equal(t, site.Abs("src/css/custom.css"), m.Stylesheets[2].Source)

	assert.Equal(t, "/img/favicon.ico", m.Favicon)
	require.NotNil(t, m.Logo)
	assert.Equal(t, "/img/EconiaHeader.svg", m.Logo.Src)
	assert.Equal(t, m.Logo.Src, m.Logo.SrcDark)
	assert.Equal(t, "/", m.Logo.Href)

	assert.Equal(t, CodeThemes{Light: "github", Dark: "dracula"}, m.CodeThemes)
	assert.Equal(t, "dark", m.ColorMode.Default)
	assert.Equal(t, []string{"light", "dark"}, m.ColorMode.Modes)
	assert.False(t, m.ColorMode.Switch)
	assert.Equal(t, "Econia Docs", m.Title)
}

func TestCompose_MissingLocalFilesWarn(t *testing.T) {
	site, err := config.Parse(config.ExampleConfig, filepath.Join(t.TempDir(), config.DefaultFile))
	require.NoError(t, err)
	m, issues, err := Compose(site, docMap{})
	require.NoError(t, err)
	require.Len(t, issues, 3)
	for _, i := range issues {
		assert.True(t, i.IsWarning())
		assert.True(t, i.IsCategory(derrors.CategoryFileSystem))
	}
	assert.Equal(t, "/img/favicon.ico", m.Favicon)
}

func TestCompose_CustomCSSNameClash(t *testing.T) {
	site := loadSite(t)
	writeFile(t, site.Abs("src/theme/custom.css"))
	site.CustomCSS = []string{"./src/css/custom.css", "./src/theme/custom.css", "src/css/custom.css"}

	m, issues, err := Compose(site, docMap{})
	require.NoError(t, err)
	require.Len(t, m.Stylesheets, 4)
	assert.Equal(t, "/css/custom.css", m.Stylesheets[2].Href)
	assert.Equal(t, site.Abs("src/css/custom.css"), m.Stylesheets[2].Source)
	assert.Equal(t, "/css/custom-2.css", m.Stylesheets[3].Href)
	assert.Equal(t, site.Abs("src/theme/custom.css"), m.Stylesheets[3].Source)
	require.Len(t, issues, 1)
	assert.True(t, issues[0].IsWarning())
	assert.Contains(t, issues[0].Error(), "css/custom-2.css")
}

func TestCompose_NavbarItems(t *testing.T) {
	site := loadSite(t)
	site.BaseURL = "/site/"
	site.ThemeConfig.Navbar.Items = []config.NavbarItem{
		{Label: "Docs", DocID: "intro", Position: "left"},
		{Label: "GitHub", Href: "https://github.com/econia-labs/econia", Position: "right"},
		{Label: "Blog", To: "/blog", Position: "left"},
	}
	router := docMap{"intro": {ID: "intro", Route: "/site/intro"}}
	m, _, err := Compose(site, router)
	require.NoError(t, err)
	assert.Equal(t, []NavItem{
		{Label: "Docs", Href: "/site/intro", Position: "left"},
		{Label: "GitHub", Href: "https://github.com/econia-labs/econia", Position: "right", External: true},
		{Label: "Blog", Href: "/site/blog", Position: "left"},
	}, m.Navbar)
	assert.Equal(t, "/site/css/custom.css", m.Stylesheets[2].Href)

	site.ThemeConfig.Navbar.Items = []config.NavbarItem{{Label: "Gone", DocID: "missing-page"}}
	_, _, err = Compose(site, router)
	require.Error(t, err)
	assert.True(t, derrors.HasCategory(err, derrors.CategoryBrokenLink))

	site.OnBrokenLinks = config.PolicyWarn
	m, issues, err := Compose(site, router)
	require.NoError(t, err)
	assert.Empty(t, m.Navbar)
	require.Len(t, issues, 1)
}
