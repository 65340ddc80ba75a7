// Package i18n maps locales to route prefixes and content directories.
package i18n

import (
	"github.com/mehdismh/econia/internal/config"
	derrors "github.com/mehdismh/econia/internal/foundation/errors"
)

// Locale is one configured locale as seen by the build.
type Locale struct {
	Code      string `json:"code"`
	Label     string `json:"label"`
	Direction string `json:"direction"`
	HTMLLang  string `json:"htmlLang"`
	// Prefix is prepended to every route of the locale; empty for the default locale.
	Prefix  string `json:"prefix"`
	Default bool   `json:"default,omitempty"`
}

// Router resolves locale codes. The default locale is served at the site
// root and every other locale under /<code>.
type Router struct {
	locales []Locale
	index   map[string]int
	def     int
}

// NewRouter builds a router from validated configuration.
func NewRouter(cfg config.I18n) *Router {
	r := &Router{index: make(map[string]int, len(cfg.Locales))}
	for i, code := range cfg.Locales {
		lc := cfg.LocaleConfigs[code]
		loc := Locale{
			Code:      code,
			Label:     lc.Label,
			Direction: lc.Direction,
			HTMLLang:  lc.HTMLLang,
			Default:   code == cfg.DefaultLocale,
		}
		if !loc.Default {
			loc.Prefix = "/" + code
		} else {
			r.def = i
		}
		r.index[code] = i
		r.locales = append(r.locales, loc)
	}
	return r
}

// Locales returns the locales in declaration order.
func (r *Router) Locales() []Locale {
	out := make([]Locale, len(r.locales))
	copy(out, r.locales)
	return out
}

// Default returns the default locale.
func (r *Router) Default() Locale { return r.locales[r.def] }

// Lookup returns the locale for code.
func (r *Router) Lookup(code string) (Locale, error) {
	i, ok := r.index[code]
	if !ok {
		return Locale{}, derrors.ConfigErrorf("unknown locale %q", code).WithContext("locale", code).Build()
	}
	return r.locales[i], nil
}

// Prefix returns the route prefix of code.
func (r *Router) Prefix(code string) (string, error) {
	loc, err := r.Lookup(code)
	if err != nil {
		return "", err
	}
	return loc.Prefix, nil
}

// Single reports whether the site has only one locale, in which case
// routing is the identity.
func (r *Router) Single() bool { return len(r.locales) == 1 }

// ArtifactSuffix is appended to per-locale artifact names: empty for the
// default locale, "-<code>" otherwise.
func (l Locale) ArtifactSuffix() string {
	if l.Default {
		return ""
	}
	return "-" + l.Code
}
