package config

import (
	"strings"

	derrors "github.com/mehdismh/econia/internal/foundation/errors"
	"github.com/mehdismh/econia/internal/foundation/normalization"
)

// ThemeConfig is the presentation part of the configuration.
type ThemeConfig struct {
	Navbar    Navbar    `yaml:"navbar" json:"navbar"`
	Prism     Prism     `yaml:"prism" json:"prism"`
	ColorMode ColorMode `yaml:"colorMode" json:"colorMode"`
	Footer    *Footer   `yaml:"footer" json:"footer,omitempty"`
	Metadata  []Meta    `yaml:"metadata" json:"metadata,omitempty"`
}

type Navbar struct {
	Title        string       `yaml:"title" json:"title,omitempty"`
	HideOnScroll bool         `yaml:"hideOnScroll" json:"hideOnScroll,omitempty"`
	Logo         *Logo        `yaml:"logo" json:"logo,omitempty"`
	Items        []NavbarItem `yaml:"items" json:"items,omitempty"`
}

type Logo struct {
	Alt     string `yaml:"alt" json:"alt"`
	Src     string `yaml:"src" json:"src"`
	SrcDark string `yaml:"srcDark" json:"srcDark,omitempty"`
	Href    string `yaml:"href" json:"href,omitempty"`
	Width   string `yaml:"width" json:"width,omitempty"`
	Height  string `yaml:"height" json:"height,omitempty"`
}

// NavbarItem is a navbar entry pointing at a doc, an internal path or an external URL.
type NavbarItem struct {
	Type     string `yaml:"type" json:"type,omitempty"`
	Label    string `yaml:"label" json:"label"`
	DocID    string `yaml:"docId" json:"docId,omitempty"`
	To       string `yaml:"to" json:"to,omitempty"`
	Href     string `yaml:"href" json:"href,omitempty"`
	Position string `yaml:"position" json:"position,omitempty"`
}

type Footer struct {
	Style     string `yaml:"style" json:"style,omitempty"`
	Copyright string `yaml:"copyright" json:"copyright,omitempty"`
}

type Meta struct {
	Name    string `yaml:"name" json:"name"`
	Content string `yaml:"content" json:"content"`
}

// Prism names the code highlighting themes for the light and dark modes.
type Prism struct {
	Theme     string `yaml:"theme" json:"theme"`
	DarkTheme string `yaml:"darkTheme" json:"darkTheme"`
}

type ColorMode struct {
	DefaultMode               string `yaml:"defaultMode" json:"defaultMode"`
	DisableSwitch             bool   `yaml:"disableSwitch" json:"disableSwitch"`
	RespectPrefersColorScheme bool   `yaml:"respectPrefersColorScheme" json:"respectPrefersColorScheme"`
}

const (
	ModeLight = "light"
	ModeDark  = "dark"
)

var colorModes = normalization.NewNormalizer("colorMode.defaultMode", map[string]string{
	ModeLight: ModeLight,
	ModeDark:  ModeDark,
}, ModeLight)

// CodeThemes lists the code highlighting themes known to the theme runtime.
var CodeThemes = []string{
	"dracula", "duotoneDark", "duotoneLight", "github", "gruvboxMaterialDark",
	"gruvboxMaterialLight", "jettwaveDark", "jettwaveLight", "nightOwl",
	"nightOwlLight", "oceanicNext", "okaidia", "oneDark", "oneLight",
	"palenight", "shadesOfPurple", "synthwave84", "ultramin", "vsDark", "vsLight",
}

var codeThemes = func() *normalization.Normalizer[string] {
	m := make(map[string]string, len(CodeThemes))
	for _, name := range CodeThemes {
		m[name] = name
	}
	return normalization.NewNormalizer("prism theme", m, "palenight")
}()

var footerStyles = map[string]bool{"": true, "light": true, "dark": true}

func normalizeTheme(tc *ThemeConfig) error {
	mode, err := colorModes.Parse(tc.ColorMode.DefaultMode)
	if err != nil {
		return derrors.ConfigErrorf("themeConfig: %v", err).Build()
	}
	tc.ColorMode.DefaultMode = mode

	if tc.Prism.Theme, err = codeThemes.Parse(tc.Prism.Theme); err != nil {
		return derrors.ConfigErrorf("themeConfig.prism.theme: %v", err).Build()
	}
	if tc.Prism.DarkTheme == "" {
		tc.Prism.DarkTheme = tc.Prism.Theme
	} else if tc.Prism.DarkTheme, err = codeThemes.Parse(tc.Prism.DarkTheme); err != nil {
		return derrors.ConfigErrorf("themeConfig.prism.darkTheme: %v", err).Build()
	}

	if l := tc.Navbar.Logo; l != nil && strings.TrimSpace(l.Src) == "" {
		return derrors.ConfigError("themeConfig.navbar.logo.src is required").Build()
	}
	for i, item := range tc.Navbar.Items {
		if item.Label == "" {
			return derrors.ConfigErrorf("themeConfig.navbar.items[%d].label is required", i).Build()
		}
		switch item.Position {
		case "":
			tc.Navbar.Items[i].Position = "left"
		case "left", "right":
		default:
			return derrors.ConfigErrorf("themeConfig.navbar.items[%d].position %q must be left or right", i, item.Position).Build()
		}
		targets := 0
		for _, v := range []string{item.DocID, item.To, item.Href} {
			if v != "" {
				targets++
			}
		}
		if targets != 1 {
			return derrors.ConfigErrorf("themeConfig.navbar.items[%d] needs exactly one of docId, to, href", i).Build()
		}
	}
	if tc.Footer != nil && !footerStyles[tc.Footer.Style] {
		return derrors.ConfigErrorf("themeConfig.footer.style %q must be light or dark", tc.Footer.Style).Build()
	}
	return nil
}
