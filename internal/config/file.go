package config

import "gopkg.in/yaml.v3"

// File is the on-disk configuration document (docsite.yaml). Keys follow
// the camelCase spelling of the Docusaurus configuration they mirror.
type File struct {
	Title                 string      `yaml:"title"`
	Tagline               string      `yaml:"tagline"`
	URL                   string      `yaml:"url"`
	BaseURL               string      `yaml:"baseUrl"`
	Favicon               string      `yaml:"favicon"`
	OnBrokenLinks         string      `yaml:"onBrokenLinks"`
	OnBrokenMarkdownLinks string      `yaml:"onBrokenMarkdownLinks"`
	StaticDirectories     []string    `yaml:"staticDirectories"`
	OutDir                string      `yaml:"outDir"`
	OrganizationName      string      `yaml:"organizationName"`
	ProjectName           string      `yaml:"projectName"`
	I18n                  FileI18n    `yaml:"i18n"`
	Presets               []yaml.Node `yaml:"presets"`
	Themes                []yaml.Node `yaml:"themes"`
	Stylesheets           []yaml.Node `yaml:"stylesheets"`
	ThemeConfig           ThemeConfig `yaml:"themeConfig"`
}

// FileI18n is the i18n block of the configuration file.
type FileI18n struct {
	DefaultLocale string                  `yaml:"defaultLocale"`
	Locales       []string                `yaml:"locales"`
	LocaleConfigs map[string]LocaleConfig `yaml:"localeConfigs"`
}
