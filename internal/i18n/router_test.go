package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mehdismh/econia/internal/config"
	derrors "github.com/mehdismh/econia/internal/foundation/errors"
)

func TestRouter_SingleLocaleIsIdentity(t *testing.T) {
	r := NewRouter(config.I18n{
		DefaultLocale: "en",
		Locales:       []string{"en"},
		LocaleConfigs: map[string]config.LocaleConfig{"en": {Label: "English", Direction: "ltr", HTMLLang: "en"}},
	})
	assert.True(t, r.Single())
	p, err := r.Prefix("en")
	require.NoError(t, err)
	assert.Empty(t, p)
	assert.Equal(t, "English", r.Default().Label)
	assert.Empty(t, r.Default().ArtifactSuffix())
}

func TestRouter_NonDefaultLocalesArePrefixed(t *testing.T) {
	r := NewRouter(config.I18n{
		DefaultLocale: "en",
		Locales:       []string{"fr", "en", "ar"},
		LocaleConfigs: map[string]config.LocaleConfig{
			"ar": {Label: "العربية", Direction: "rtl", HTMLLang: "ar"},
		},
	})
	assert.False(t, r.Single())
	assert.Equal(t, "en", r.Default().Code)

	locales := r.Locales()
	require.Len(t, locales, 3)
	assert.Equal(t, "/fr", locales[0].Prefix)
	assert.Empty(t, locales[1].Prefix)
	assert.Equal(t, "/ar", locales[2].Prefix)
	assert.Equal(t, "rtl", locales[2].Direction)
	assert.Equal(t, "-fr", locales[0].ArtifactSuffix())

	_, err := r.Prefix("de")
	require.Error(t, err)
	assert.True(t, derrors.HasCategory(err, derrors.CategoryConfig))
}
