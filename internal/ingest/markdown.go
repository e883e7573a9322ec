package ingest

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// extractMarkdownText parses markdown and renders it back as plain text:
// inline formatting and link syntax are stripped, block boundaries become
// blank lines, and code block contents are kept verbatim.
func extractMarkdownText(source []byte) string {
	doc := goldmark.DefaultParser().Parse(text.NewReader(source))

	var buf strings.Builder
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if n.Type() == ast.TypeBlock {
				buf.WriteString("\n\n")
			}
			return ast.WalkContinue, nil
		}
		switch v := n.(type) {
		case *ast.Text:
			buf.Write(v.Segment.Value(source))
			if v.SoftLineBreak() || v.HardLineBreak() {
				buf.WriteByte('\n')
			}
		case *ast.String:
			buf.Write(v.Value)
		case *ast.FencedCodeBlock:
			writeBlockLines(&buf, source, v)
		case *ast.CodeBlock:
			writeBlockLines(&buf, source, v)
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

func writeBlockLines(buf *strings.Builder, source []byte, n ast.Node) {
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(source))
	}
}
