package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var inline = goldmark.New()

// PlainText renders inline heading markdown as plain text: emphasis and
// link markup are dropped, code spans keep their content.
func PlainText(raw string) string {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, "\n", " "))
	if raw == "" {
		return ""
	}
	// Parsing as an ATX heading keeps "1. Intro" or "- x" from becoming lists.
	src := []byte("# " + raw)
	doc := inline.Parser().Parse(text.NewReader(src))
	h, ok := doc.FirstChild().(*ast.Heading)
	if !ok {
		return raw
	}
	var buf bytes.Buffer
	writeText(&buf, h, src)
	return strings.Join(strings.Fields(buf.String()), " ")
}

func writeText(buf *bytes.Buffer, n ast.Node, src []byte) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Text:
			buf.Write(node.Segment.Value(src))
			if node.SoftLineBreak() || node.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(node.Value)
		case *ast.AutoLink:
			buf.Write(node.Label(src))
		case *ast.RawHTML:
			// dropped
		default:
			writeText(buf, c, src)
		}
	}
}
