package source

import (
	"context"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/dgallion1/invoicegest/internal/layout"
)

// HTMLReader handles HTML invoices. Table rows become one line each; other
// block elements contribute their text lines.
type HTMLReader struct{}

func (p *HTMLReader) Read(_ context.Context, r io.Reader, filename string) (*Document, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var lines []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "head", "template":
				return
			case "tr":
				var cells []string
				for c := n.FirstChild; c != nil; c = c.NextSibling {
					if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
						if t := collapse(textContent(c)); t != "" {
							cells = append(cells, t)
						}
					}
				}
				lines = append(lines, strings.Join(cells, " "))
				return
			case "p", "li", "h1", "h2", "h3", "h4", "h5", "h6",
				"blockquote", "dt", "dd", "caption", "address":
				lines = append(lines, collapse(textContent(n)))
				return
			case "pre":
				lines = append(lines, strings.Split(textContent(n), "\n")...)
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return &Document{
		Name:  baseName(filename),
		Pages: []layout.Page{linesPage(1, lines)},
	}, nil
}

// textContent returns the raw text below n. A <br> counts as a space.
func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			buf.WriteString(n.Data)
		case n.Type == html.ElementNode && n.Data == "br":
			buf.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return buf.String()
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
