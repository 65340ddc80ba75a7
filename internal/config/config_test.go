package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	derrors "github.com/mehdismh/econia/internal/foundation/errors"
	"github.com/mehdismh/econia/internal/plugin"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, DefaultFile)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestLoad_ExampleConfig(t *testing.T) {
	p := writeConfig(t, ExampleConfig)
	site, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, "Econia Docs", site.Title)
	assert.Equal(t, "https://econia.dev", site.URL)
	assert.Equal(t, "/", site.BaseURL)
	assert.Equal(t, PolicyThrow, site.OnBrokenLinks)
	assert.Equal(t, PolicyWarn, site.OnBrokenMarkdownLinks)
	assert.Equal(t, "en", site.I18n.DefaultLocale)
	assert.Equal(t, []string{"en"}, site.I18n.Locales)
	assert.Equal(t, "English", site.I18n.LocaleConfigs["en"].Label)

	assert.Equal(t, "", site.Docs.RouteBasePath)
	assert.Equal(t, "sidebars.yaml", site.Docs.SidebarPath)
	assert.Equal(t, "https://github.com/econia-labs/econia/tree/main/doc/doc-site/", site.Docs.EditURL)
	require.Len(t, site.Docs.Transforms, 2)
	assert.IsType(t, plugin.MathSyntax{}, site.Docs.Transforms[0])
	assert.IsType(t, plugin.MathRender{}, site.Docs.Transforms[1])

	require.NotNil(t, site.Search)
	assert.True(t, site.Search.Hashed)

	require.Len(t, site.Stylesheets, 2)
	assert.Empty(t, site.Stylesheets[0].Type)
	assert.Equal(t, "anonymous", site.Stylesheets[1].CrossOrigin)
	assert.True(t, site.Stylesheets[1].External())

	assert.Equal(t, ModeDark, site.ThemeConfig.ColorMode.DefaultMode)
	assert.True(t, site.ThemeConfig.ColorMode.DisableSwitch)
	assert.Equal(t, "github", site.ThemeConfig.Prism.Theme)
	assert.Equal(t, "dracula", site.ThemeConfig.Prism.DarkTheme)
	assert.Equal(t, filepath.Join(filepath.Dir(p), "build"), site.OutDir)
	assert.Equal(t, filepath.Join(filepath.Dir(p), "docs"), site.DocsDir())
}

func TestLoad_DefaultLocaleNotInLocales(t *testing.T) {
	p := writeConfig(t, `
title: Docs
url: https://example.com
baseUrl: /
i18n:
  defaultLocale: fr
  locales: [en]
`)
	_, err := Load(p)
	require.Error(t, err)
	assert.True(t, derrors.HasCategory(err, derrors.CategoryConfig))
	assert.Contains(t, err.Error(), `"fr"`)
	ce, ok := derrors.AsClassified(err)
	require.True(t, ok)
	path, _ := ce.Context().GetString("path")
	assert.Equal(t, p, path)
}

const minimal = "title: T\nurl: https://example.com\nbaseUrl: /\ni18n: {defaultLocale: en, locales: [en]}\n"

func TestLoad_Rejects(t *testing.T) {
	const head = "title: T\nurl: https://example.com\n"
	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing title", "url: https://example.com\nbaseUrl: /\n", "title is required"},
		{"relative url", "title: T\nurl: example.com\n", "absolute"},
		{"url with path", "title: T\nurl: https://example.com/docs\n", "baseUrl"},
		{"missing base url", head + "i18n: {defaultLocale: en, locales: [en]}\n", "baseUrl is required"},
		{"base url slashes", head + "baseUrl: docs\n", "slash"},
		{"missing locales", head + "baseUrl: /\n", "i18n.locales is required"},
		{"missing default locale", head + "baseUrl: /\ni18n: {locales: [en]}\n", "i18n.defaultLocale is required"},
		{"bad policy", minimal + "onBrokenLinks: explode\n", "link policy"},
		{"unknown key", minimal + "future: true\n", "parse configuration"},
		{"unknown preset", minimal + "presets: [bootstrap]\n", "unknown preset"},
		{"malformed plugin", minimal + "themes: [{a: b}]\n", "themes"},
		{"rehype in remark", minimal + "presets: [[classic, {docs: {remarkPlugins: [katex]}}]]\n", "remark plugin"},
		{"bad locale tag", head + "baseUrl: /\ni18n: {defaultLocale: en, locales: [en, '12']}\n", "language tag"},
		{"bad color mode", minimal + "themeConfig: {colorMode: {defaultMode: sepia}}\n", "defaultMode"},
		{"unknown prism", minimal + "themeConfig: {prism: {theme: solarized}}\n", "prism"},
		{"stylesheet without href", minimal + "stylesheets: [{type: text/css}]\n", "href"},
		{"blog enabled", minimal + "presets: [[classic, {blog: true}]]\n", "blog"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.True(t, derrors.HasCategory(err, derrors.CategoryConfig), "got %v", err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	site, err := Load(writeConfig(t, "title: T\nurl: https://example.com/\nbaseUrl: /\ni18n: {defaultLocale: en, locales: [en]}\n"))
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", site.URL)
	assert.Equal(t, "/", site.BaseURL)
	assert.Equal(t, "", site.Docs.RouteBasePath)
	assert.True(t, site.Docs.SidebarCollapsible)
	assert.Empty(t, site.Docs.Transforms)
	assert.Nil(t, site.Search)
	assert.Equal(t, ModeLight, site.ThemeConfig.ColorMode.DefaultMode)
	assert.Equal(t, "palenight", site.ThemeConfig.Prism.DarkTheme)
	assert.Equal(t, []string{"static"}, site.StaticDirectories)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, derrors.HasCategory(err, derrors.CategoryConfig))
}

func TestLoad_EnvExpansion(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DOCSITE_TEST_TITLE=From Env\n"), 0o600))
	p := filepath.Join(dir, DefaultFile)
	body := "title: ${DOCSITE_TEST_TITLE}\ntagline: Costs $HOME and $1 \\$x$\n" + strings.TrimPrefix(minimal, "title: T\n")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	t.Cleanup(func() { os.Unsetenv("DOCSITE_TEST_TITLE") })

	site, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "From Env", site.Title)
	assert.Equal(t, `Costs $HOME and $1 \$x$`, site.Tagline)
}

func TestHash_Stable(t *testing.T) {
	a, err := Parse(ExampleConfig, "/a/docsite.yaml")
	require.NoError(t, err)
	b, err := Parse(ExampleConfig, "/b/docsite.yaml")
	require.NoError(t, err)
	assert.Equal(t, a.Hash(), b.Hash(), "hash must not depend on where the site lives")

	changed := strings.Replace(ExampleConfig, "defaultMode: dark", "defaultMode: light", 1)
	c, err := Parse(changed, "/a/docsite.yaml")
	require.NoError(t, err)
	assert.NotEqual(t, a.Hash(), c.Hash())
}

func TestInit(t *testing.T) {
	dir := t.TempDir()
	written, err := Init(dir, false)
	require.NoError(t, err)
	assert.Len(t, written, 4)

	again, err := Init(dir, false)
	require.NoError(t, err)
	assert.Empty(t, again, "existing files are kept")

	_, err = Load(filepath.Join(dir, DefaultFile))
	require.NoError(t, err)
}
