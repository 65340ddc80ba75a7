package build

import (
	"context"
	"os"
	"strings"

	"github.com/mehdismh/econia/internal/theme"
)

func stageComposeTheme(_ context.Context, bs *BuildState) error {
	m, issues, err := theme.Compose(bs.Site, bs.DefaultLocale().Routes)
	if err != nil {
		return err
	}
	bs.diagnose(StageComposeTheme, "", issues)
	bs.Theme = m
	for _, s := range m.Stylesheets {
		if s.Source == "" {
			continue
		}
		// Missing files were reported by the composer.
		if _, err := os.Stat(s.Source); err != nil {
			continue
		}
		bs.Assets = append(bs.Assets, Asset{Source: s.Source, Name: strings.TrimPrefix(s.Href, bs.Site.BaseURL)})
	}
	return nil
}
