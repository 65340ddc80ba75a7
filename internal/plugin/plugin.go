// Package plugin resolves the plugin declarations of a site configuration
// (presets, themes, remark and rehype plugins) into typed values.
//
// Resolution happens once, while the configuration is validated. The set of
// supported plugins is closed: every declaration becomes one of the variant
// types declared here, and consumers switch over them exhaustively instead of
// looking plugins up by name at build time.
package plugin

import "fmt"

// Phase identifies where in the markdown pipeline a transform runs.
type Phase int

const (
	// PhasePreParse transforms operate on the markdown syntax tree.
	PhasePreParse Phase = iota + 1
	// PhasePostParse transforms operate on the rendered HTML tree.
	PhasePostParse
)

func (p Phase) String() string {
	switch p {
	case PhasePreParse:
		return "pre-parse"
	case PhasePostParse:
		return "post-parse"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Transform is a configured content transform. Implementations are limited
// to the variants in this package.
type Transform interface {
	// Name is the canonical plugin name.
	Name() string
	Phase() Phase
	transform()
}

// MathSyntax recognizes TeX math delimiters in markdown ($…$, $$…$$ and
// fenced $$ blocks) and turns them into math nodes.
type MathSyntax struct {
	// SingleDollar enables inline math with single dollar delimiters.
	SingleDollar bool `json:"singleDollarTextMath" yaml:"singleDollarTextMath"`
}

func (MathSyntax) Name() string { return NameRemarkMath }
func (MathSyntax) Phase() Phase { return PhasePreParse }
func (MathSyntax) transform()   {}

// MathRender turns math nodes of the rendered HTML into KaTeX markup.
type MathRender struct {
	ErrorColor string            `json:"errorColor" yaml:"errorColor"`
	Macros     map[string]string `json:"macros,omitempty" yaml:"macros"`
	// Output is one of "htmlAndMathml", "mathml" or "html".
	Output string `json:"output" yaml:"output"`
}

func (MathRender) Name() string { return NameRehypeKatex }
func (MathRender) Phase() Phase { return PhasePostParse }
func (MathRender) transform()   {}

// Split partitions transforms by phase, keeping declared order within each.
func Split(ts []Transform) (pre, post []Transform) {
	for _, t := range ts {
		switch t.Phase() {
		case PhasePreParse:
			pre = append(pre, t)
		case PhasePostParse:
			post = append(post, t)
		}
	}
	return pre, post
}
