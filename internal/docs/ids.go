package docs

import (
	"path"
	"regexp"
	"strconv"
	"strings"
)

var (
	numberPrefix = regexp.MustCompile(`^(\d+)\s*[-_.]+\s*([^-_.\s].*)$`)
	dateLike     = regexp.MustCompile(`^\d{2,4}[-_.]\d{2}(?:[-_.]\d{2})?(?:[-_.\s]|$)`)
)

// StripNumberPrefix removes an ordering prefix such as "01-" from a file or
// directory name. Date-like names are kept. The returned number is -1 when
// nothing was stripped.
func StripNumberPrefix(name string) (string, int) {
	if dateLike.MatchString(name) {
		return name, -1
	}
	m := numberPrefix.FindStringSubmatch(name)
	if m == nil {
		return name, -1
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return name, -1
	}
	return m[2], n
}

// Extensions of document sources.
var Extensions = []string{".md", ".mdx"}

// IsSource reports whether name is a document source file.
func IsSource(name string) bool {
	ext := strings.ToLower(path.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Ignored reports whether a file or directory name is excluded from
// discovery: partials and hidden entries.
func Ignored(name string) bool {
	return strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")
}

// SplitRel returns the unprefixed directory segments and the base name
// without extension of a slash path relative to the docs root.
func SplitRel(rel string) (dirs []string, base string, prefix int) {
	dir, file := path.Split(rel)
	for _, seg := range strings.Split(strings.Trim(dir, "/"), "/") {
		if seg == "" {
			continue
		}
		s, _ := StripNumberPrefix(seg)
		dirs = append(dirs, s)
	}
	base, prefix = StripNumberPrefix(strings.TrimSuffix(file, path.Ext(file)))
	return dirs, base, prefix
}

// DeriveID computes a document id from its relative path and an optional
// front matter id.
func DeriveID(rel, fmID string) string {
	dirs, base, _ := SplitRel(rel)
	if fmID != "" {
		base = fmID
	}
	return path.Join(append(dirs, base)...)
}
