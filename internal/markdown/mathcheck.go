package markdown

import (
	"fmt"
	"sort"

	"github.com/yuin/goldmark/ast"

	"github.com/mehdismh/econia/internal/docs"
	derrors "github.com/mehdismh/econia/internal/foundation/errors"
)

// checkMathDelimiters reports dollar signs the math parser left as text and
// fences that were never closed. Each offending line produces one warning.
func checkMathDelimiters(root ast.Node, source []byte, lines lineIndex, doc *docs.Document) {
	bad := map[int]string{}
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *ast.CodeSpan, *ast.CodeBlock, *ast.FencedCodeBlock, *ast.HTMLBlock, *ast.RawHTML, *MathInline:
			return ast.WalkSkipChildren, nil
		case *MathBlock:
			if !t.Closed {
				l := lines.line(t.Offset)
				if _, seen := bad[l]; !seen {
					bad[l] = "unclosed $$ math block"
				}
			}
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			seg := t.Segment
			for i := seg.Start; i < seg.Stop; i++ {
				if source[i] != '$' || (i > 0 && source[i-1] == '\\') {
					continue
				}
				l := lines.line(i)
				if _, seen := bad[l]; !seen {
					bad[l] = "unmatched $ math delimiter"
				}
			}
		}
		return ast.WalkContinue, nil
	})

	ls := make([]int, 0, len(bad))
	for l := range bad {
		ls = append(ls, l)
	}
	sort.Ints(ls)
	for _, l := range ls {
		doc.Warn(derrors.RenderWarning(bad[l]).
			WithContext("line", l).
			WithContext("transform", "remark-math").
			WithContext("detail", fmt.Sprintf("%s:%d", doc.RelPath, l)).
			Build())
	}
}
