package markdown

import (
	"errors"
	"fmt"
	"html"
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/mehdismh/econia/internal/docs"
	derrors "github.com/mehdismh/econia/internal/foundation/errors"
	"github.com/mehdismh/econia/internal/plugin"
)

const mathMLNS = "http://www.w3.org/1998/Math/MathML"

// renderMath replaces math elements with KaTeX markup. TeX that cannot be
// typeset is shown as a KaTeX error span and reported as a warning.
func renderMath(sel *goquery.Selection, opts plugin.MathRender, doc *docs.Document) {
	sel.Find("span.math, div.math").Each(func(_ int, s *goquery.Selection) {
		if !s.HasClass("math-inline") && !s.HasClass("math-display") {
			return
		}
		display := s.HasClass("math-display")
		tex := expandMacros(s.Text(), opts.Macros)
		if err := checkTeX(tex); err != nil {
			doc.Warn(derrors.RenderWarning("invalid TeX: "+err.Error()).
				WithContext("transform", opts.Name()).
				WithContext("tex", s.Text()).
				Build())
			s.ReplaceWithHtml(fmt.Sprintf(`<span class="katex-error" title="%s" style="color:%s">%s</span>`,
				html.EscapeString("ParseError: "+err.Error()), opts.ErrorColor, html.EscapeString(s.Text())))
			return
		}
		s.ReplaceWithHtml(katexMarkup(tex, display, opts.Output))
	})
}

func katexMarkup(tex string, display bool, output string) string {
	escaped := html.EscapeString(tex)
	mathml := `<math xmlns="` + mathMLNS + `"`
	if display {
		mathml += ` display="block"`
	}
	mathml += `><semantics><mrow></mrow><annotation encoding="application/x-tex">` + escaped + `</annotation></semantics></math>`
	htmlPart := `<span class="katex-html" aria-hidden="true">` + escaped + `</span>`

	var inner string
	switch output {
	case "mathml":
		inner = mathml
	case "html":
		inner = htmlPart
	default:
		inner = `<span class="katex-mathml">` + mathml + `</span>` + htmlPart
	}
	out := `<span class="katex">` + inner + `</span>`
	if display {
		out = `<span class="katex-display">` + out + `</span>`
	}
	return out
}

// expandMacros substitutes argument-free macros. Expansion repeats so
// macros may refer to other macros, bounded to stop self-reference.
func expandMacros(tex string, macros map[string]string) string {
	if len(macros) == 0 {
		return tex
	}
	names := make([]string, 0, len(macros))
	for name := range macros {
		names = append(names, name)
	}
	// Longest first so \RR wins over \R.
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})
	for round := 0; round < 8; round++ {
		changed := false
		for _, name := range names {
			next := replaceMacro(tex, name, macros[name])
			if next != tex {
				tex, changed = next, true
			}
		}
		if !changed {
			break
		}
	}
	return tex
}

func replaceMacro(tex, name, body string) string {
	var b strings.Builder
	for {
		i := strings.Index(tex, name)
		if i < 0 {
			b.WriteString(tex)
			return b.String()
		}
		end := i + len(name)
		if end < len(tex) && isLetter(tex[end]) {
			b.WriteString(tex[:end])
			tex = tex[end:]
			continue
		}
		b.WriteString(tex[:i])
		b.WriteString(body)
		tex = tex[end:]
	}
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

var (
	envCommand = regexp.MustCompile(`\\(begin|end)\{([^}]*)\}`)
	leftRight  = regexp.MustCompile(`\\(left|right)[^a-zA-Z]`)
)

// checkTeX catches the structural errors KaTeX rejects: unbalanced braces,
// mismatched environments and \left without \right.
func checkTeX(tex string) error {
	depth := 0
	for i := 0; i < len(tex); i++ {
		switch tex[i] {
		case '\\':
			i++
		case '{':
			depth++
		case '}':
			depth--
			if depth < 0 {
				return errors.New("unexpected '}'")
			}
		}
	}
	if depth > 0 {
		return errors.New("expected '}' before end of input")
	}

	var stack []string
	for _, m := range envCommand.FindAllStringSubmatch(tex, -1) {
		if m[1] == "begin" {
			stack = append(stack, m[2])
			continue
		}
		if len(stack) == 0 {
			return fmt.Errorf(`\end{%s} without \begin`, m[2])
		}
		if top := stack[len(stack)-1]; top != m[2] {
			return fmt.Errorf(`mismatched \begin{%s} and \end{%s}`, top, m[2])
		}
		stack = stack[:len(stack)-1]
	}
	if len(stack) > 0 {
		return fmt.Errorf(`no \end for \begin{%s}`, stack[len(stack)-1])
	}

	balance := 0
	for _, m := range leftRight.FindAllStringSubmatch(tex+" ", -1) {
		if m[1] == "left" {
			balance++
		} else {
			balance--
		}
		if balance < 0 {
			return errors.New(`\right without matching \left`)
		}
	}
	if balance != 0 {
		return errors.New(`\left without matching \right`)
	}
	return nil
}
