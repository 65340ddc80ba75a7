package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	derrors "github.com/mehdismh/econia/internal/foundation/errors"
	"github.com/mehdismh/econia/internal/plugin"
)

// DefaultFile is the configuration file name looked up when none is given.
const DefaultFile = "docsite.yaml"

// Site is the validated site configuration. It is produced once by Load and
// shared by pointer with every build stage; nothing mutates it afterwards.
type Site struct {
	Title                 string              `json:"title"`
	Tagline               string              `json:"tagline,omitempty"`
	URL                   string              `json:"url"`
	BaseURL               string              `json:"baseUrl"`
	Favicon               string              `json:"favicon,omitempty"`
	OnBrokenLinks         LinkPolicy          `json:"onBrokenLinks"`
	OnBrokenMarkdownLinks LinkPolicy          `json:"onBrokenMarkdownLinks"`
	I18n                  I18n                `json:"i18n"`
	Docs                  plugin.Docs         `json:"docs"`
	CustomCSS             []string            `json:"customCss,omitempty"`
	Sitemap               plugin.Sitemap      `json:"sitemap"`
	Search                *plugin.SearchLocal `json:"search,omitempty"`
	Stylesheets           []Stylesheet        `json:"stylesheets,omitempty"`
	ThemeConfig           ThemeConfig         `json:"themeConfig"`
	StaticDirectories     []string            `json:"staticDirectories"`

	// Root is the directory holding the configuration file; relative paths resolve against it.
	Root string `json:"-"`
	// Path is the configuration file that was loaded.
	Path string `json:"-"`
	// OutDir is the absolute output directory.
	OutDir string `json:"-"`
}

// Abs resolves a configuration-relative path.
func (s *Site) Abs(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(s.Root, filepath.FromSlash(p))
}

// DocsDir is the absolute directory of the default-locale documents.
func (s *Site) DocsDir() string {
	return s.Abs(s.Docs.Path)
}

// LocalizedDocsDir is the directory holding translated documents for locale.
func (s *Site) LocalizedDocsDir(locale string) string {
	return s.Abs(filepath.Join("i18n", locale, "docusaurus-plugin-content-docs", "current"))
}

// Load reads, normalizes and validates the configuration at path.
// Environment files next to the configuration are loaded first and
// ${VAR} references in the document are expanded.
func Load(path string) (*Site, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryConfig, "resolve configuration path").
			Fatal().WithContext("path", path).Build()
	}
	if err := loadEnvFiles(filepath.Dir(abs)); err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryConfig, "load environment file").
			Fatal().WithContext("path", filepath.Dir(abs)).Build()
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, derrors.ConfigError("configuration file not found").WithContext("path", abs).Build()
		}
		return nil, derrors.WrapError(err, derrors.CategoryConfig, "read configuration").
			Fatal().WithContext("path", abs).Build()
	}
	return Parse(expandEnv(string(data)), abs)
}

// Parse validates configuration text as if it had been read from path.
func Parse(text, path string) (*Site, error) {
	var file File
	dec := yaml.NewDecoder(bytes.NewReader([]byte(text)))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, derrors.WrapError(err, derrors.CategoryConfig, "parse configuration").
			Fatal().WithContext("path", path).Build()
	}
	site, err := build(&file, filepath.Dir(path))
	if err != nil {
		var ce *derrors.ClassifiedError
		if errors.As(err, &ce) {
			return nil, ce.WithContext("path", path)
		}
		return nil, derrors.WrapError(err, derrors.CategoryConfig, "invalid configuration").
			Fatal().WithContext("path", path).Build()
	}
	site.Path = path
	return site, nil
}

// build normalizes the raw file, applies defaults and validates the result.
func build(f *File, root string) (*Site, error) {
	s := &Site{
		Title:   f.Title,
		Tagline: f.Tagline,
		URL:     f.URL,
		BaseURL: f.BaseURL,
		Favicon: f.Favicon,
		Root:    root,
	}
	var err error
	if s.OnBrokenLinks, err = policies.Parse(orDefault(f.OnBrokenLinks, string(PolicyThrow))); err != nil {
		return nil, derrors.ConfigError(fmt.Sprintf("onBrokenLinks: %v", err)).Build()
	}
	if s.OnBrokenMarkdownLinks, err = policies.Parse(orDefault(f.OnBrokenMarkdownLinks, string(PolicyWarn))); err != nil {
		return nil, derrors.ConfigError(fmt.Sprintf("onBrokenMarkdownLinks: %v", err)).Build()
	}
	if err := validateSite(s); err != nil {
		return nil, err
	}
	if s.I18n, err = buildI18n(f.I18n); err != nil {
		return nil, err
	}
	if err := resolvePlugins(f, s); err != nil {
		return nil, err
	}
	if s.Stylesheets, err = parseStylesheets(f.Stylesheets); err != nil {
		return nil, err
	}
	s.ThemeConfig = f.ThemeConfig
	if err := normalizeTheme(&s.ThemeConfig); err != nil {
		return nil, err
	}

	s.StaticDirectories = f.StaticDirectories
	if len(s.StaticDirectories) == 0 {
		s.StaticDirectories = []string{"static"}
	}
	s.OutDir = s.Abs(orDefault(f.OutDir, "build"))
	return s, nil
}

func resolvePlugins(f *File, s *Site) error {
	presets, err := plugin.ParseEntries(f.Presets)
	if err != nil {
		return derrors.ConfigErrorf("presets: %v", err).Build()
	}
	classic := plugin.DefaultClassic()
	seenClassic := false
	for _, e := range presets {
		c, err := plugin.ResolveClassic(e)
		if err != nil {
			return derrors.ConfigErrorf("presets: %v", err).WithContext("line", e.Line).Build()
		}
		if seenClassic {
			return derrors.ConfigError("presets: classic declared more than once").WithContext("line", e.Line).Build()
		}
		seenClassic = true
		classic = c
	}
	if err := validateDocs(&classic.Docs); err != nil {
		return err
	}
	s.Docs = classic.Docs
	s.CustomCSS = classic.CustomCSS
	s.Sitemap = classic.Sitemap

	themes, err := plugin.ParseEntries(f.Themes)
	if err != nil {
		return derrors.ConfigErrorf("themes: %v", err).Build()
	}
	for _, e := range themes {
		search, err := plugin.ResolveSearchLocal(e)
		if err != nil {
			return derrors.ConfigErrorf("themes: %v", err).WithContext("line", e.Line).Build()
		}
		if s.Search != nil {
			return derrors.ConfigError("themes: search-local declared more than once").WithContext("line", e.Line).Build()
		}
		s.Search = &search
	}
	return nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
