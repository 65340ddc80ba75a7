package config

import (
	"slices"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	derrors "github.com/mehdismh/econia/internal/foundation/errors"
)

// I18n is the validated locale configuration.
type I18n struct {
	DefaultLocale string                  `json:"defaultLocale"`
	Locales       []string                `json:"locales"`
	LocaleConfigs map[string]LocaleConfig `json:"localeConfigs"`
}

// LocaleConfig holds per-locale presentation settings.
type LocaleConfig struct {
	Label     string `yaml:"label" json:"label"`
	Direction string `yaml:"direction" json:"direction"`
	HTMLLang  string `yaml:"htmlLang" json:"htmlLang"`
}

func buildI18n(f FileI18n) (I18n, error) {
	out := I18n{
		DefaultLocale: f.DefaultLocale,
		Locales:       slices.Clone(f.Locales),
		LocaleConfigs: make(map[string]LocaleConfig, len(f.Locales)),
	}
	if len(out.Locales) == 0 {
		return I18n{}, derrors.ConfigError("i18n.locales is required").Build()
	}
	if out.DefaultLocale == "" {
		return I18n{}, derrors.ConfigError("i18n.defaultLocale is required").Build()
	}

	seen := make(map[string]bool, len(out.Locales))
	for _, loc := range out.Locales {
		if seen[loc] {
			return I18n{}, derrors.ConfigErrorf("i18n.locales lists %q more than once", loc).Build()
		}
		seen[loc] = true
		tag, err := language.Parse(loc)
		if err != nil {
			return I18n{}, derrors.WrapError(err, derrors.CategoryConfig, "i18n.locales contains an invalid language tag").
				Fatal().WithContext("locale", loc).Build()
		}
		lc := f.LocaleConfigs[loc]
		if lc.Label == "" {
			lc.Label = display.Self.Name(tag)
			if lc.Label == "" {
				lc.Label = loc
			}
		}
		switch lc.Direction {
		case "":
			lc.Direction = "ltr"
		case "ltr", "rtl":
		default:
			return I18n{}, derrors.ConfigErrorf("i18n.localeConfigs.%s.direction %q must be ltr or rtl", loc, lc.Direction).Build()
		}
		if lc.HTMLLang == "" {
			lc.HTMLLang = tag.String()
		}
		out.LocaleConfigs[loc] = lc
	}
	for loc := range f.LocaleConfigs {
		if !seen[loc] {
			return I18n{}, derrors.ConfigErrorf("i18n.localeConfigs declares %q which is not in i18n.locales", loc).Build()
		}
	}
	if !seen[out.DefaultLocale] {
		return I18n{}, derrors.ConfigErrorf("i18n.defaultLocale %q is not listed in i18n.locales", out.DefaultLocale).
			WithContext("locales", out.Locales).Build()
	}
	return out, nil
}
