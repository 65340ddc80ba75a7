package docs

import (
	"github.com/mehdismh/econia/internal/foundation/errors"
	"github.com/mehdismh/econia/internal/frontmatter"
	"github.com/mehdismh/econia/internal/git"
)

// Document is one markdown source file moving through a build. Discovery
// fills the identity and content fields; later stages fill the rest. A
// document is owned by the goroutine processing it.
type Document struct {
	ID         string
	SourcePath string // absolute path on disk
	RelPath    string // slash-separated, relative to the docs root
	Locale     string
	Translated bool // content comes from the locale's translation directory

	FrontMatter frontmatter.FrontMatter
	Fields      map[string]any
	Body        []byte
	BodyLine    int
	Fingerprint string
	// NumberPrefix is the ordering prefix stripped from the file name, or -1.
	NumberPrefix int

	Title      string
	HTML       string
	TOC        []Heading
	Links      []LinkRef
	Warnings   []*errors.ClassifiedError
	Route      string
	EditURL    string
	LastUpdate *git.LastUpdate
}

// Heading is a table-of-contents entry.
type Heading struct {
	Level int    `json:"level"`
	ID    string `json:"id"`
	Text  string `json:"text"`
}

// LinkRef is a markdown cross-reference to another source file.
type LinkRef struct {
	Target   string // as written
	Line     int
	Resolved bool
}

// Dir is the directory part of the document id.
func (d *Document) Dir() string {
	for i := len(d.ID) - 1; i >= 0; i-- {
		if d.ID[i] == '/' {
			return d.ID[:i]
		}
	}
	return ""
}

// Position is the sidebar ordering key: front matter sidebar_position,
// else the file's number prefix.
func (d *Document) Position() (float64, bool) {
	if d.FrontMatter.SidebarPosition != nil {
		return *d.FrontMatter.SidebarPosition, true
	}
	if d.NumberPrefix >= 0 {
		return float64(d.NumberPrefix), true
	}
	return 0, false
}

// SidebarLabel is the label used in navigation.
func (d *Document) SidebarLabel() string {
	if d.FrontMatter.SidebarLabel != "" {
		return d.FrontMatter.SidebarLabel
	}
	return d.Title
}

// Listed reports whether the document appears in navigation, search and the sitemap.
func (d *Document) Listed() bool {
	return !d.FrontMatter.Unlisted
}

// Warn attaches a non-fatal diagnostic.
func (d *Document) Warn(err *errors.ClassifiedError) {
	d.Warnings = append(d.Warnings, err.WithContext("path", d.RelPath))
}
