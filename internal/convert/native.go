// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/pdiddy/cardpress/internal/logging"
)

// NativeConverter extracts the embedded text layer in-process. Image-only
// pages produce no text.
type NativeConverter struct{}

// NewNativeConverter creates a pure Go converter.
func NewNativeConverter() *NativeConverter { return &NativeConverter{} }

// Convert returns the text of every page, pages separated by a blank line.
func (n *NativeConverter) Convert(ctx context.Context, pdfPath string) (string, error) {
	f, r, err := pdf.Open(pdfPath)
	if err != nil {
		return "", fmt.Errorf("opening PDF %s: %w", pdfPath, err)
	}
	defer f.Close()

	fonts := make(map[string]*pdf.Font)
	var pages []string
	for i := 1; i <= r.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		for _, name := range p.Fonts() {
			if _, ok := fonts[name]; !ok {
				font := p.Font(name)
				fonts[name] = &font
			}
		}
		text, err := p.GetPlainText(fonts)
		if err != nil {
			return "", fmt.Errorf("reading page %d of %s: %w", i, pdfPath, err)
		}
		if s := strings.TrimSpace(text); s != "" {
			pages = append(pages, s)
		}
	}

	logger := logging.GetLogger("convert")
	logger.Debug().
		Str("path", pdfPath).
		Int("pages", r.NumPage()).
		Int("text_pages", len(pages)).
		Msg("native conversion done")

	if len(pages) == 0 {
		return "", fmt.Errorf("%s: %w", pdfPath, ErrNoText)
	}
	return strings.Join(pages, "\n\n"), nil
}
