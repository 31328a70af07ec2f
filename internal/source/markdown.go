package source

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/dgallion1/invoicegest/internal/layout"
)

// MarkdownReader handles Markdown files using goldmark. Pipe tables are
// flattened to one line per row with cells separated by spaces.
type MarkdownReader struct{}

func (p *MarkdownReader) Read(_ context.Context, r io.Reader, filename string) (*Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	doc := md.Parser().Parse(text.NewReader(src))

	var lines []string
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		lines = append(lines, blockLines(n, src)...)
	}

	return &Document{
		Name:  baseName(filename),
		Pages: []layout.Page{linesPage(1, lines)},
	}, nil
}

// blockLines renders one top-level block as text lines.
func blockLines(n ast.Node, src []byte) []string {
	switch node := n.(type) {
	case *east.Table:
		var rows []string
		for row := node.FirstChild(); row != nil; row = row.NextSibling() {
			var cells []string
			for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
				if t := strings.TrimSpace(inlineText(cell, src)); t != "" {
					cells = append(cells, t)
				}
			}
			rows = append(rows, strings.Join(cells, " "))
		}
		return rows
	case *ast.List:
		var out []string
		for item := node.FirstChild(); item != nil; item = item.NextSibling() {
			for c := item.FirstChild(); c != nil; c = c.NextSibling() {
				out = append(out, blockLines(c, src)...)
			}
		}
		return out
	case *ast.Blockquote:
		var out []string
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			out = append(out, blockLines(c, src)...)
		}
		return out
	case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock:
		var buf bytes.Buffer
		segs := n.Lines()
		for i := 0; i < segs.Len(); i++ {
			seg := segs.At(i)
			buf.Write(seg.Value(src))
		}
		return strings.Split(buf.String(), "\n")
	default:
		return strings.Split(inlineText(n, src), "\n")
	}
}

// inlineText concatenates the inline text below n, turning line breaks into
// newlines.
func inlineText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
		case *ast.String:
			buf.Write(t.Value)
		default:
			buf.WriteString(inlineText(c, src))
		}
	}
	return buf.String()
}
