// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package items

import (
	"context"

	"github.com/pdiddy/cardpress/internal/docx"
)

// DocxSource reads one item per body paragraph of a DOCX file. Paragraphs
// inside tables are not items.
type DocxSource struct {
	Path string
}

// Items returns the trimmed, non-empty paragraph texts in order.
func (s *DocxSource) Items(_ context.Context) ([]string, error) {
	doc, err := docx.Open(s.Path)
	if err != nil {
		return nil, &ExtractionError{Source: s.Path, Reason: ReasonUnreadable, Err: err}
	}
	paras := doc.Paragraphs()
	raw := make([]string, 0, len(paras))
	for _, p := range paras {
		raw = append(raw, p.Text())
	}
	return Clean(raw)
}
