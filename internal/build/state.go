package build

import (
	"github.com/mehdismh/econia/internal/config"
	"github.com/mehdismh/econia/internal/docs"
	derrors "github.com/mehdismh/econia/internal/foundation/errors"
	"github.com/mehdismh/econia/internal/git"
	"github.com/mehdismh/econia/internal/i18n"
	"github.com/mehdismh/econia/internal/manifest"
	"github.com/mehdismh/econia/internal/metrics"
	"github.com/mehdismh/econia/internal/route"
	"github.com/mehdismh/econia/internal/search"
	"github.com/mehdismh/econia/internal/sidebar"
	"github.com/mehdismh/econia/internal/theme"
)

// Artifact is a generated file of the published site.
type Artifact struct {
	Name string
	Data []byte
}

// Asset is a local file copied into the published site.
type Asset struct {
	Source string
	Name   string
}

// LocaleState carries the intermediate results of one locale.
type LocaleState struct {
	Locale     i18n.Locale
	Docs       []*docs.Document
	Routes     *route.Table
	Navigation *sidebar.Navigation
	Index      *search.Index
	IndexFile  string
}

// BuildState is shared by the stages of one build. Stages run one after
// another; only the render and index stages fan out, and their workers
// each own one document.
type BuildState struct {
	Site    *config.Site
	Router  *i18n.Router
	Locales []*LocaleState
	Report  *BuildReport

	Sidebars *sidebar.Manifest
	History  *git.History
	Theme    *theme.Manifest
	Manifest *manifest.SiteManifest

	Artifacts []Artifact
	Assets    []Asset

	opts     options
	recorder metrics.Recorder
	observer BuildObserver
}

// Locale returns the state of a locale code.
func (bs *BuildState) Locale(code string) (*LocaleState, bool) {
	for _, ls := range bs.Locales {
		if ls.Locale.Code == code {
			return ls, true
		}
	}
	return nil, false
}

// DefaultLocale is the state of the default locale.
func (bs *BuildState) DefaultLocale() *LocaleState {
	ls, _ := bs.Locale(bs.Router.Default().Code)
	return ls
}

func (bs *BuildState) diagnose(stage StageName, locale string, issues []*derrors.ClassifiedError) {
	for _, ce := range issues {
		if locale != "" {
			if _, ok := ce.Context().GetString("locale"); !ok {
				ce = ce.WithContext("locale", locale)
			}
		}
		bs.Report.AddDiagnostic(stage, ce)
	}
}
