package plugin

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// SearchLocal is the local search theme: an offline index shipped with the site.
type SearchLocal struct {
	// Hashed names the index artifact after its content hash so clients can
	// cache it indefinitely.
	Hashed                           bool     `json:"hashed"`
	IndexDocs                        bool     `json:"indexDocs"`
	DocsRouteBasePath                []string `json:"docsRouteBasePath"`
	Language                         []string `json:"language"`
	SearchResultLimits               int      `json:"searchResultLimits"`
	HighlightSearchTermsOnTargetPage bool     `json:"highlightSearchTermsOnTargetPage"`
	RemoveDefaultStopWordFilter      bool     `json:"removeDefaultStopWordFilter"`
}

type rawSearchLocal struct {
	Hashed                           bool      `yaml:"hashed"`
	IndexDocs                        *bool     `yaml:"indexDocs"`
	IndexBlog                        bool      `yaml:"indexBlog"`
	DocsRouteBasePath                yaml.Node `yaml:"docsRouteBasePath"`
	Language                         yaml.Node `yaml:"language"`
	SearchResultLimits               int       `yaml:"searchResultLimits"`
	HighlightSearchTermsOnTargetPage bool      `yaml:"highlightSearchTermsOnTargetPage"`
	RemoveDefaultStopWordFilter      bool      `yaml:"removeDefaultStopWordFilter"`
}

// ResolveSearchLocal resolves a theme declaration into the local search theme.
func ResolveSearchLocal(e Entry) (SearchLocal, error) {
	if _, err := checkKind(e, KindTheme); err != nil {
		return SearchLocal{}, err
	}
	var raw rawSearchLocal
	if err := e.Decode(&raw); err != nil {
		return SearchLocal{}, err
	}
	if raw.IndexBlog {
		return SearchLocal{}, fmt.Errorf("search-local indexBlog is not supported")
	}
	out := SearchLocal{
		Hashed:                           raw.Hashed,
		IndexDocs:                        true,
		SearchResultLimits:               8,
		HighlightSearchTermsOnTargetPage: raw.HighlightSearchTermsOnTargetPage,
		RemoveDefaultStopWordFilter:      raw.RemoveDefaultStopWordFilter,
	}
	if raw.IndexDocs != nil {
		out.IndexDocs = *raw.IndexDocs
	}
	if raw.SearchResultLimits < 0 {
		return SearchLocal{}, fmt.Errorf("search-local searchResultLimits must not be negative")
	}
	if raw.SearchResultLimits > 0 {
		out.SearchResultLimits = raw.SearchResultLimits
	}
	var err error
	if out.DocsRouteBasePath, err = StringList(&raw.DocsRouteBasePath); err != nil {
		return SearchLocal{}, fmt.Errorf("search-local docsRouteBasePath: %w", err)
	}
	if len(out.DocsRouteBasePath) == 0 {
		out.DocsRouteBasePath = []string{"/"}
	}
	if out.Language, err = StringList(&raw.Language); err != nil {
		return SearchLocal{}, fmt.Errorf("search-local language: %w", err)
	}
	if len(out.Language) == 0 {
		out.Language = []string{"en"}
	}
	return out, nil
}
