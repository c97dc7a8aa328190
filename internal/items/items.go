// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package items turns uploaded files into the ordered list of item names
// the card engine renders. A DOCX contributes its body paragraphs, a text
// file its lines, and a PDF whatever names the AI backend reads out of it.
package items

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pdiddy/cardpress/internal/cards"
	"github.com/pdiddy/cardpress/pkg/types"
)

// The card engine owns these sentinels; sources report them so callers can
// tell "nothing received" from "only blanks received".
var (
	ErrNoItems  = cards.ErrNoItems
	ErrAllBlank = cards.ErrAllBlank
)

// ErrUnsupported is returned for files no source can read.
var ErrUnsupported = errors.New("unsupported file type")

// Source produces item names in document order.
type Source interface {
	Items(ctx context.Context) ([]string, error)
}

// Reason classifies an ExtractionError.
type Reason string

const (
	ReasonNoNames    Reason = "no names"
	ReasonBackend    Reason = "backend"
	ReasonUnreadable Reason = "unreadable"
	ReasonTooLarge   Reason = "too large"
)

// ExtractionError reports why a source produced no usable names.
type ExtractionError struct {
	Source string
	Reason Reason
	Err    error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extracting items from %s (%s): %v", e.Source, e.Reason, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// Clean trims every entry and drops the blank ones, keeping order and
// duplicates. It returns ErrNoItems for an empty list and ErrAllBlank when
// nothing survives trimming.
func Clean(raw []string) ([]string, error) {
	if len(raw) == 0 {
		return nil, ErrNoItems
	}
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil, ErrAllBlank
	}
	return out, nil
}

// SplitLines splits newline-delimited text into lines, tolerating CRLF
// endings and a leading byte order mark. Blank lines are kept for Clean.
func SplitLines(text string) []string {
	text = strings.TrimPrefix(text, "\ufeff")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

// KindOf maps a file name to its source kind by extension.
func KindOf(name string) (types.SourceKind, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".docx":
		return types.SourceDocx, nil
	case ".pdf":
		return types.SourcePDF, nil
	case ".txt":
		return types.SourceList, nil
	}
	return "", fmt.Errorf("%s: %w", filepath.Base(name), ErrUnsupported)
}
