package normalizer

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// markdownText renders markdown source to plain text by walking the parsed
// AST: text segments are kept, markup is dropped, and block boundaries become
// newlines.
func markdownText(src []byte) string {
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var buf strings.Builder
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if n.Type() == ast.TypeBlock {
				buf.WriteByte('\n')
			}
			return ast.WalkContinue, nil
		}

		switch v := n.(type) {
		case *ast.Text:
			buf.Write(v.Segment.Value(src))
			if v.SoftLineBreak() || v.HardLineBreak() {
				buf.WriteByte('\n')
			}
		case *ast.FencedCodeBlock:
			writeCodeLines(&buf, v.BaseBlock, src)
		case *ast.CodeBlock:
			writeCodeLines(&buf, v.BaseBlock, src)
		case *ast.AutoLink:
			buf.Write(v.URL(src))
		}
		return ast.WalkContinue, nil
	})

	return buf.String()
}

func writeCodeLines(buf *strings.Builder, block ast.BaseBlock, src []byte) {
	lines := block.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(src))
	}
}
