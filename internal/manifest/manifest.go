// Package manifest assembles the SiteManifest, the single artifact that
// describes a built site: every routed page, the navigation and search
// index of each locale and the composed theme.
//
// A manifest is filled once per build and sealed before publishing. Sealing
// fixes the content hash and derives the build id from it, so two builds of
// the same inputs serialize to the same bytes.
package manifest

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"

	"github.com/mehdismh/econia/internal/config"
	"github.com/mehdismh/econia/internal/docs"
	derrors "github.com/mehdismh/econia/internal/foundation/errors"
	"github.com/mehdismh/econia/internal/git"
	"github.com/mehdismh/econia/internal/sidebar"
	"github.com/mehdismh/econia/internal/theme"
)

// SchemaVersion is bumped whenever the manifest layout changes.
const SchemaVersion = 1

// Filename is the name of the manifest inside the output directory.
const Filename = "site-manifest.json"

// buildNamespace scopes build ids derived with uuid.NewSHA1.
var buildNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://econia.dev/docsite/build"))

// Page is one rendered document at its route.
type Page struct {
	ID          string           `json:"id"`
	Locale      string           `json:"locale"`
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	HTML        string           `json:"html"`
	TOC         []docs.Heading   `json:"toc,omitempty"`
	EditURL     string           `json:"editUrl,omitempty"`
	LastUpdate  *git.LastUpdate  `json:"lastUpdate,omitempty"`
	Nav         *sidebar.PageNav `json:"nav,omitempty"`
	Unlisted    bool             `json:"unlisted,omitempty"`
	Fingerprint string           `json:"fingerprint"`
}

// SearchRef points at the search artifact of a locale.
type SearchRef struct {
	File      string `json:"file"`
	Hash      string `json:"hash"`
	Documents int    `json:"documents"`
	Terms     int    `json:"terms"`
}

// Locale is the per-locale part of the manifest.
type Locale struct {
	Code       string              `json:"code"`
	Label      string              `json:"label"`
	Direction  string              `json:"direction"`
	HTMLLang   string              `json:"htmlLang"`
	Prefix     string              `json:"prefix"`
	Navigation *sidebar.Navigation `json:"navigation"`
	Search     *SearchRef          `json:"search,omitempty"`
}

// SiteManifest maps routes to pages and carries everything a page template
// needs to render the site.
type SiteManifest struct {
	Version       int              `json:"version"`
	BuildID       string           `json:"buildId"`
	Title         string           `json:"title"`
	Tagline       string           `json:"tagline,omitempty"`
	URL           string           `json:"url"`
	BaseURL       string           `json:"baseUrl"`
	DefaultLocale string           `json:"defaultLocale"`
	ConfigHash    string           `json:"configHash"`
	ContentHash   string           `json:"contentHash"`
	Locales       []*Locale        `json:"locales"`
	Pages         map[string]*Page `json:"pages"`
	Theme         *theme.Manifest  `json:"theme"`

	sealed bool
}

// New starts an empty manifest for site.
func New(site *config.Site) *SiteManifest {
	return &SiteManifest{
		Version:       SchemaVersion,
		Title:         site.Title,
		Tagline:       site.Tagline,
		URL:           site.URL,
		BaseURL:       site.BaseURL,
		DefaultLocale: site.I18n.DefaultLocale,
		ConfigHash:    site.Hash(),
		Pages:         map[string]*Page{},
	}
}

func (m *SiteManifest) checkOpen(op string) error {
	if m.sealed {
		return derrors.InternalError("manifest is sealed").WithContext("operation", op).Build()
	}
	return nil
}

// AddPage registers a page at route. A route can be claimed once.
func (m *SiteManifest) AddPage(route string, p *Page) error {
	if err := m.checkOpen("add_page"); err != nil {
		return err
	}
	if prev, ok := m.Pages[route]; ok {
		return derrors.RouteCollisionError(fmt.Sprintf("route %s is claimed by %s and %s", route, prev.ID, p.ID)).
			WithContext("route", route).
			WithContext("locale", p.Locale).
			Build()
	}
	m.Pages[route] = p
	return nil
}

// AddLocale appends the navigation and search reference of a locale.
func (m *SiteManifest) AddLocale(l *Locale) error {
	if err := m.checkOpen("add_locale"); err != nil {
		return err
	}
	for _, have := range m.Locales {
		if have.Code == l.Code {
			return derrors.InternalError("locale added twice").WithContext("locale", l.Code).Build()
		}
	}
	m.Locales = append(m.Locales, l)
	return nil
}

// SetTheme records the composed theme.
func (m *SiteManifest) SetTheme(t *theme.Manifest) error {
	if err := m.checkOpen("set_theme"); err != nil {
		return err
	}
	m.Theme = t
	return nil
}

// Locale returns the locale section for code.
func (m *SiteManifest) Locale(code string) (*Locale, bool) {
	for _, l := range m.Locales {
		if l.Code == code {
			return l, true
		}
	}
	return nil, false
}

// Routes lists the page routes in sorted order.
func (m *SiteManifest) Routes() []string {
	out := make([]string, 0, len(m.Pages))
	for r := range m.Pages {
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}

// Sealed reports whether Seal has run.
func (m *SiteManifest) Sealed() bool { return m.sealed }

// Seal computes the content hash and build id and makes the manifest
// read-only.
func (m *SiteManifest) Seal() error {
	if err := m.checkOpen("seal"); err != nil {
		return err
	}
	if m.Theme == nil {
		return derrors.InternalError("manifest has no theme").Build()
	}
	h := xxhash.New()
	for _, r := range m.Routes() {
		p := m.Pages[r]
		_, _ = fmt.Fprintf(h, "%s\x00%s\x00%s\x00%s\n", r, p.ID, p.Fingerprint, xxhashString(p.HTML))
	}
	for _, l := range m.Locales {
		if l.Search != nil {
			_, _ = fmt.Fprintf(h, "search\x00%s\x00%s\n", l.Code, l.Search.Hash)
		}
	}
	m.ContentHash = fmt.Sprintf("%016x", h.Sum64())
	m.BuildID = uuid.NewSHA1(buildNamespace, []byte(m.URL+m.BaseURL+"\x00"+m.ConfigHash+"\x00"+m.ContentHash)).String()
	m.sealed = true
	return nil
}

// Encode serializes a sealed manifest. Map keys are emitted in sorted order
// so the output only depends on the manifest's content.
func (m *SiteManifest) Encode() ([]byte, error) {
	if !m.sealed {
		return nil, derrors.InternalError("manifest must be sealed before encoding").Build()
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryInternal, "marshal manifest").Fatal().Build()
	}
	return append(data, '\n'), nil
}

// Decode parses a published manifest. The result is sealed.
func Decode(data []byte) (*SiteManifest, error) {
	var m SiteManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal manifest: %w", err)
	}
	if m.Version != SchemaVersion {
		return nil, fmt.Errorf("unsupported manifest version %d", m.Version)
	}
	if m.Pages == nil {
		m.Pages = map[string]*Page{}
	}
	m.sealed = true
	return &m, nil
}

func xxhashString(s string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(s))
}
