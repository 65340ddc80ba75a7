package plugin

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Canonical plugin names.
const (
	NamePresetClassic = "classic"
	NameSearchLocal   = "search-local"
	NameRemarkMath    = "remark-math"
	NameRehypeKatex   = "rehype-katex"
)

// Kind is the configuration slot a plugin is declared in.
type Kind string

const (
	KindPreset Kind = "preset"
	KindTheme  Kind = "theme"
	KindRemark Kind = "remark plugin"
	KindRehype Kind = "rehype plugin"
)

// aliases maps accepted spellings to canonical names.
var aliases = map[string]string{
	"classic":                             NamePresetClassic,
	"@docusaurus/preset-classic":          NamePresetClassic,
	"search-local":                        NameSearchLocal,
	"@easyops-cn/docusaurus-search-local": NameSearchLocal,
	"remark-math":                         NameRemarkMath,
	"math":                                NameRemarkMath,
	"rehype-katex":                        NameRehypeKatex,
	"katex":                               NameRehypeKatex,
}

var kinds = map[string]Kind{
	NamePresetClassic: KindPreset,
	NameSearchLocal:   KindTheme,
	NameRemarkMath:    KindRemark,
	NameRehypeKatex:   KindRehype,
}

// Canonical returns the canonical name of a plugin and the slot it belongs to.
func Canonical(name string) (string, Kind, bool) {
	canonical, ok := aliases[strings.TrimSpace(name)]
	if !ok {
		return "", "", false
	}
	return canonical, kinds[canonical], true
}

// Known lists the accepted names for a slot, sorted.
func Known(kind Kind) []string {
	var out []string
	for alias, canonical := range aliases {
		if kinds[canonical] == kind {
			out = append(out, alias)
		}
	}
	sort.Strings(out)
	return out
}

func checkKind(e Entry, want Kind) (string, error) {
	canonical, kind, ok := Canonical(e.Name)
	if !ok {
		return "", fmt.Errorf("unknown %s %q (known: %s)", want, e.Name, strings.Join(Known(want), ", "))
	}
	if kind != want {
		return "", fmt.Errorf("%q is a %s and cannot be declared as a %s", e.Name, kind, want)
	}
	return canonical, nil
}

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ResolveTransform turns a remark or rehype declaration into a Transform.
func ResolveTransform(e Entry, slot Kind) (Transform, error) {
	if slot != KindRemark && slot != KindRehype {
		return nil, fmt.Errorf("%s is not a transform slot", slot)
	}
	name, err := checkKind(e, slot)
	if err != nil {
		return nil, err
	}
	switch name {
	case NameRemarkMath:
		t := MathSyntax{SingleDollar: true}
		if err := e.Decode(&t); err != nil {
			return nil, err
		}
		return t, nil
	case NameRehypeKatex:
		t := MathRender{ErrorColor: "#cc0000", Output: "htmlAndMathml"}
		if err := e.Decode(&t); err != nil {
			return nil, err
		}
		if !hexColor.MatchString(t.ErrorColor) {
			return nil, fmt.Errorf("rehype-katex errorColor %q must be a hex color", t.ErrorColor)
		}
		switch t.Output {
		case "htmlAndMathml", "mathml", "html":
		default:
			return nil, fmt.Errorf("rehype-katex output %q must be one of htmlAndMathml, mathml, html", t.Output)
		}
		for macro := range t.Macros {
			if !strings.HasPrefix(macro, `\`) {
				return nil, fmt.Errorf("rehype-katex macro %q must start with a backslash", macro)
			}
		}
		return t, nil
	}
	return nil, fmt.Errorf("%s %q has no transform", slot, e.Name)
}

// ResolveTransforms resolves an ordered list of declarations for one slot.
func ResolveTransforms(entries []Entry, slot Kind) ([]Transform, error) {
	out := make([]Transform, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		t, err := ResolveTransform(e, slot)
		if err != nil {
			return nil, err
		}
		if seen[t.Name()] {
			return nil, fmt.Errorf("%s %q declared more than once", slot, t.Name())
		}
		seen[t.Name()] = true
		out = append(out, t)
	}
	return out, nil
}
