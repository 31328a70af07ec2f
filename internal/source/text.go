package source

import (
	"context"
	"io"
)

// TextReader handles plain text, such as a saved pdftotext -layout dump.
// Form feeds separate pages.
type TextReader struct{}

func (p *TextReader) Read(_ context.Context, r io.Reader, filename string) (*Document, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return textPages(baseName(filename), string(b)), nil
}
