package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fumiama/go-docx"

	"github.com/dgallion1/invoicegest/internal/layout"
)

// DOCXReader handles .docx files. Each body paragraph is one line.
type DOCXReader struct{}

func (p *DOCXReader) Read(_ context.Context, r io.Reader, filename string) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read docx: %w", err)
	}

	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	var lines []string
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		lines = append(lines, docxParagraphText(para))
	}

	return &Document{
		Name:  baseName(filename),
		Pages: []layout.Page{linesPage(1, lines)},
	}, nil
}

func docxParagraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
