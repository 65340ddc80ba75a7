// Package search builds the offline search index shipped with the site.
//
// The index is a pure function of the rendered pages: documents are sorted
// by id, postings by document, and the JSON encoding sorts map keys, so the
// same pages always serialize to the same bytes.
package search

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/cespare/xxhash/v2"

	derrors "github.com/mehdismh/econia/internal/foundation/errors"
)

// FormatVersion is bumped whenever the artifact layout changes.
const FormatVersion = 1

const bloomFalsePositiveRate = 0.01

// Entry is the indexed form of one page.
type Entry struct {
	ID       string    `json:"id"`
	Route    string    `json:"route"`
	Title    string    `json:"title"`
	Sections []Section `json:"sections,omitempty"`
	// Hash is the xxhash of the extracted text.
	Hash  string             `json:"hash"`
	Terms int                `json:"terms"`
	Bloom *bloom.BloomFilter `json:"bloom"`

	freq map[string]int
}

// Posting records that a term occurs Freq times in document Doc (an index
// into Index.Docs).
type Posting struct {
	Doc  int `json:"d"`
	Freq int `json:"f"`
}

// Index is the search artifact of one locale.
type Index struct {
	Version int                  `json:"version"`
	Locale  string               `json:"locale"`
	Docs    []*Entry             `json:"docs"`
	Terms   map[string][]Posting `json:"terms"`
	// Hash is the xxhash of the index encoded with an empty Hash.
	Hash string `json:"hash"`
}

// Extract turns one page into an entry. It only reads the page and may run
// concurrently for different pages.
func Extract(p Page, tok Tokenizer) (*Entry, error) {
	text, err := PlainText(p.HTML)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryIndexBuild, "extract page text").
			Fatal().WithContext("doc_id", p.ID).Build()
	}
	sections, err := Sections(p.HTML)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryIndexBuild, "extract page sections").
			Fatal().WithContext("doc_id", p.ID).Build()
	}
	tokens := tok.Tokens(p.Title + " " + text)
	e := &Entry{
		ID:       p.ID,
		Route:    p.Route,
		Title:    p.Title,
		Sections: sections,
		Hash:     fmt.Sprintf("%016x", xxhash.Sum64String(text)),
		freq:     make(map[string]int, len(tokens)),
	}
	for _, t := range tokens {
		e.freq[t]++
	}
	e.Terms = len(e.freq)
	e.Bloom = bloom.NewWithEstimates(uint(max(len(e.freq), 1)), bloomFalsePositiveRate)
	terms := make([]string, 0, len(e.freq))
	for t := range e.freq {
		terms = append(terms, t)
	}
	sort.Strings(terms)
	for _, t := range terms {
		e.Bloom.AddString(t)
	}
	return e, nil
}

// Build assembles entries into an index. Entries may arrive in any order.
// Duplicate ids, postings that point outside the document list, or an
// encoding that does not survive a round trip are IndexBuildErrors.
func Build(locale string, entries []*Entry) (*Index, error) {
	docs := make([]*Entry, len(entries))
	copy(docs, entries)
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	for i := 1; i < len(docs); i++ {
		if docs[i].ID == docs[i-1].ID {
			return nil, derrors.IndexBuildError(fmt.Sprintf("document %q indexed twice", docs[i].ID)).
				WithContext("doc_id", docs[i].ID).WithContext("locale", locale).Build()
		}
	}

	idx := &Index{Version: FormatVersion, Locale: locale, Docs: docs, Terms: map[string][]Posting{}}
	for i, d := range docs {
		for term, n := range d.freq {
			idx.Terms[term] = append(idx.Terms[term], Posting{Doc: i, Freq: n})
		}
	}
	for _, ps := range idx.Terms {
		sort.Slice(ps, func(i, j int) bool { return ps[i].Doc < ps[j].Doc })
	}
	if err := idx.validate(); err != nil {
		return nil, err
	}

	body, err := json.Marshal(idx)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryIndexBuild, "encode search index").
			Fatal().WithContext("locale", locale).Build()
	}
	idx.Hash = fmt.Sprintf("%016x", xxhash.Sum64(body))

	if err := idx.verifyRoundTrip(); err != nil {
		return nil, err
	}
	return idx, nil
}

func (idx *Index) validate() error {
	for term, ps := range idx.Terms {
		for _, p := range ps {
			if p.Doc < 0 || p.Doc >= len(idx.Docs) {
				return derrors.IndexBuildError(fmt.Sprintf("posting for %q references unknown document %d", term, p.Doc)).
					WithContext("locale", idx.Locale).Build()
			}
		}
	}
	return nil
}

// verifyRoundTrip decodes the encoded index and encodes it again; any
// difference means some part of the index does not serialize stably.
func (idx *Index) verifyRoundTrip() error {
	first, err := idx.Encode()
	if err != nil {
		return err
	}
	var back Index
	if err := json.Unmarshal(first, &back); err != nil {
		return derrors.WrapError(err, derrors.CategoryIndexBuild, "decode search index").
			Fatal().WithContext("locale", idx.Locale).Build()
	}
	second, err := back.Encode()
	if err != nil {
		return err
	}
	if !bytes.Equal(first, second) {
		return derrors.IndexBuildError("search index does not serialize deterministically").
			WithContext("locale", idx.Locale).Build()
	}
	return nil
}

// Encode serializes the index.
func (idx *Index) Encode() ([]byte, error) {
	body, err := json.Marshal(idx)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryIndexBuild, "encode search index").
			Fatal().WithContext("locale", idx.Locale).Build()
	}
	return body, nil
}

// Decode parses an encoded index and checks its postings.
func Decode(data []byte) (*Index, error) {
	var idx Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryIndexBuild, "decode search index").Fatal().Build()
	}
	if idx.Version != FormatVersion {
		return nil, derrors.IndexBuildError(fmt.Sprintf("unsupported search index version %d", idx.Version)).Build()
	}
	if err := idx.validate(); err != nil {
		return nil, err
	}
	return &idx, nil
}

// Filename is the artifact name of the index. suffix distinguishes
// non-default locales; hashed appends the content hash.
func (idx *Index) Filename(suffix string, hashed bool) string {
	name := "search-index" + suffix
	if hashed {
		name += "-" + idx.Hash[:8]
	}
	return name + ".json"
}
