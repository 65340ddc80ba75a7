package search

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	minTokenRunes = 2
	maxTokenRunes = 64
)

var englishStopWords = toSet(
	"a", "an", "and", "are", "as", "at", "be", "but", "by", "for", "if", "in",
	"into", "is", "it", "no", "not", "of", "on", "or", "such", "that", "the",
	"their", "then", "there", "these", "they", "this", "to", "was", "will", "with",
)

func toSet(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

// Tokenizer turns text into index terms. The zero value keeps stop words.
type Tokenizer struct {
	stop map[string]bool
}

// NewTokenizer returns the tokenizer for the configured search languages.
// English stop words are dropped unless disabled.
func NewTokenizer(languages []string, keepStopWords bool) Tokenizer {
	if keepStopWords {
		return Tokenizer{}
	}
	for _, l := range languages {
		if l == "en" || strings.HasPrefix(l, "en-") {
			return Tokenizer{stop: englishStopWords}
		}
	}
	return Tokenizer{}
}

// Tokens normalizes s (NFKD, diacritics removed, case folded) and splits it
// on anything that is not a letter or digit.
func (t Tokenizer) Tokens(s string) []string {
	folded := fold(s)
	fields := strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	out := fields[:0]
	for _, f := range fields {
		n := len([]rune(f))
		if n < minTokenRunes || n > maxTokenRunes || t.stop[f] {
			continue
		}
		out = append(out, f)
	}
	return out
}

func fold(s string) string {
	// Transformers carry state; build a chain per call.
	strip := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if out, _, err := transform.String(strip, s); err == nil {
		s = out
	}
	return cases.Fold().String(s)
}
