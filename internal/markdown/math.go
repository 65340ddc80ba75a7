package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// KindMathInline is the node kind of inline math.
var KindMathInline = ast.NewNodeKind("MathInline")

// MathInline is $…$ (or $$…$$ inside a paragraph, which renders in display mode).
type MathInline struct {
	ast.BaseInline
	Segment text.Segment
	Display bool
}

func (n *MathInline) Kind() ast.NodeKind { return KindMathInline }

func (n *MathInline) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"TeX": string(n.Segment.Value(source))}, nil)
}

// TeX returns the math source.
func (n *MathInline) TeX(source []byte) []byte { return n.Segment.Value(source) }

// KindMathBlock is the node kind of fenced display math.
var KindMathBlock = ast.NewNodeKind("MathBlock")

// MathBlock is a $$ fenced block. Closed is false when the document ended
// before the closing fence.
type MathBlock struct {
	ast.BaseBlock
	Offset int
	Closed bool
}

func (n *MathBlock) Kind() ast.NodeKind { return KindMathBlock }
func (n *MathBlock) IsRaw() bool        { return true }

func (n *MathBlock) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, nil, nil)
}

// TeX returns the block contents.
func (n *MathBlock) TeX(source []byte) []byte {
	var buf bytes.Buffer
	for i := 0; i < n.Lines().Len(); i++ {
		seg := n.Lines().At(i)
		buf.Write(seg.Value(source))
	}
	return bytes.TrimRight(buf.Bytes(), "\r\n")
}

type mathInlineParser struct {
	singleDollar bool
}

func (p *mathInlineParser) Trigger() []byte { return []byte{'$'} }

func (p *mathInlineParser) Parse(_ ast.Node, block text.Reader, _ parser.Context) ast.Node {
	line, seg := block.PeekLine()
	n := 0
	for n < len(line) && line[n] == '$' {
		n++
	}
	if n > 2 || (n == 1 && !p.singleDollar) {
		return nil
	}
	if n >= len(line) || util.IsSpace(line[n]) {
		return nil
	}
	for i := n; i < len(line); i++ {
		switch line[i] {
		case '\\':
			i++
		case '$':
			run := 1
			for i+run < len(line) && line[i+run] == '$' {
				run++
			}
			if run != n || util.IsSpace(line[i-1]) {
				i += run - 1
				continue
			}
			if n == 1 && i+1 < len(line) && line[i+1] >= '0' && line[i+1] <= '9' {
				continue
			}
			node := &MathInline{
				Segment: text.NewSegment(seg.Start+n, seg.Start+i),
				Display: n == 2,
			}
			block.Advance(i + n)
			return node
		}
	}
	return nil
}

type mathBlockParser struct{}

func (p *mathBlockParser) Trigger() []byte { return []byte{'$'} }

func (p *mathBlockParser) Open(_ ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	line, seg := reader.PeekLine()
	pos := pc.BlockOffset()
	if pos < 0 || !bytes.HasPrefix(line[pos:], []byte("$$")) || !util.IsBlank(line[pos+2:]) {
		return nil, parser.NoChildren
	}
	return &MathBlock{Offset: seg.Start + pos}, parser.NoChildren
}

func (p *mathBlockParser) Continue(node ast.Node, reader text.Reader, _ parser.Context) parser.State {
	line, segment := reader.PeekLine()
	if line == nil {
		return parser.Close
	}
	w, pos := util.IndentWidth(line, reader.LineOffset())
	if w < 4 && bytes.HasPrefix(line[pos:], []byte("$$")) && util.IsBlank(line[pos+2:]) {
		newline := 1
		if line[len(line)-1] != '\n' {
			newline = 0
		}
		node.(*MathBlock).Closed = true
		reader.Advance(segment.Stop - segment.Start - newline + segment.Padding)
		return parser.Close
	}
	seg := segment
	seg.ForceNewline = true
	node.Lines().Append(seg)
	// The parser moves to the next line itself.
	return parser.Continue | parser.NoChildren
}

func (p *mathBlockParser) Close(ast.Node, text.Reader, parser.Context) {}

func (p *mathBlockParser) CanInterruptParagraph() bool { return true }

func (p *mathBlockParser) CanAcceptIndentedLine() bool { return false }

type mathRenderer struct {
	html.Config
}

func (r *mathRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindMathInline, r.renderInline)
	reg.Register(KindMathBlock, r.renderBlock)
}

func (r *mathRenderer) renderInline(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	m := n.(*MathInline)
	class := "math math-inline"
	if m.Display {
		class = "math math-display"
	}
	_, _ = w.WriteString(`<span class="` + class + `">`)
	_, _ = w.Write(util.EscapeHTML(m.TeX(source)))
	_, _ = w.WriteString("</span>")
	return ast.WalkSkipChildren, nil
}

func (r *mathRenderer) renderBlock(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	m := n.(*MathBlock)
	if !m.Closed {
		// Unterminated fences are kept as literal text.
		_, _ = w.WriteString("<p>$$\n")
		_, _ = w.Write(util.EscapeHTML(m.TeX(source)))
		_, _ = w.WriteString("</p>\n")
		return ast.WalkSkipChildren, nil
	}
	_, _ = w.WriteString(`<div class="math math-display">`)
	_, _ = w.Write(util.EscapeHTML(m.TeX(source)))
	_, _ = w.WriteString("</div>\n")
	return ast.WalkSkipChildren, nil
}

// Math is the goldmark extension recognizing TeX math delimiters.
type Math struct {
	SingleDollar bool
}

func (e Math) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithInlineParsers(util.Prioritized(&mathInlineParser{singleDollar: e.SingleDollar}, 150)),
		parser.WithBlockParsers(util.Prioritized(&mathBlockParser{}, 850)),
	)
	m.Renderer().AddOptions(renderer.WithNodeRenderers(util.Prioritized(&mathRenderer{Config: html.NewConfig()}, 500)))
}
