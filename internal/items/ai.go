// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package items

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/pdiddy/cardpress/internal/convert"
	"github.com/pdiddy/cardpress/internal/logging"
	"github.com/pdiddy/cardpress/pkg/types"
)

// DefaultMaxPages is the page limit for PDFs sent to the AI backend.
const DefaultMaxPages = 100

// AIBackend abstracts the Generative AI API so tests can supply a mock.
// Each implementation reads one menu and returns the model's raw reply,
// one item name per line.
type AIBackend interface {
	Extract(ctx context.Context, in AIInput) (string, error)
}

// AIInput is what the backend reads. Text is set in text mode; otherwise
// PDF holds the document bytes.
type AIInput struct {
	Name string
	PDF  []byte
	Text string
}

// pageCount is replaced in tests.
var pageCount = api.PageCountFile

// AISource extracts item names from a PDF with an AIBackend.
type AISource struct {
	Path    string
	Backend AIBackend

	// Mode selects whether the backend gets the PDF or its text.
	Mode types.AIMode

	// Converter produces the text in text mode (default native).
	Converter convert.Converter

	MaxRetries int
	MaxPages   int
}

// Items validates the PDF, sends it to the backend and parses the reply.
func (s *AISource) Items(ctx context.Context) ([]string, error) {
	logger := logging.GetLogger("items")
	start := time.Now()

	pages, err := pageCount(s.Path)
	if err != nil {
		return nil, &ExtractionError{Source: s.Path, Reason: ReasonUnreadable, Err: fmt.Errorf("validating PDF: %w", err)}
	}
	maxPages := s.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	if pages > maxPages {
		return nil, &ExtractionError{
			Source: s.Path,
			Reason: ReasonTooLarge,
			Err:    fmt.Errorf("%d pages exceeds the limit of %d", pages, maxPages),
		}
	}

	in := AIInput{Name: filepath.Base(s.Path)}
	switch s.Mode {
	case types.AIModeText:
		conv := s.Converter
		if conv == nil {
			conv = convert.NewNativeConverter()
		}
		text, err := conv.Convert(ctx, s.Path)
		if err != nil {
			return nil, &ExtractionError{Source: s.Path, Reason: ReasonUnreadable, Err: err}
		}
		in.Text = text
	case "", types.AIModeDocument:
		data, err := os.ReadFile(s.Path)
		if err != nil {
			return nil, &ExtractionError{Source: s.Path, Reason: ReasonUnreadable, Err: err}
		}
		in.PDF = data
	default:
		return nil, fmt.Errorf("unknown AI mode %q", s.Mode)
	}

	maxRetries := s.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	reply, err := callWithRetry(ctx, s.Backend, in, maxRetries)
	if err != nil {
		return nil, &ExtractionError{Source: s.Path, Reason: ReasonBackend, Err: err}
	}

	names, err := Clean(parseReply(reply))
	if err != nil {
		return nil, &ExtractionError{Source: s.Path, Reason: ReasonNoNames, Err: err}
	}

	logger.Info().
		Str("source", in.Name).
		Int("pages", pages).
		Int("items", len(names)).
		Dur("elapsed", time.Since(start)).
		Msg("items extracted")
	return names, nil
}

// parseReply splits the model reply into lines and drops list markers the
// model sometimes adds despite the prompt.
func parseReply(reply string) []string {
	lines := SplitLines(reply)
	for i, l := range lines {
		l = strings.TrimSpace(l)
		for _, marker := range []string{"- ", "* ", "• "} {
			l = strings.TrimPrefix(l, marker)
		}
		lines[i] = l
	}
	return lines
}

// backoffBase controls the base duration for exponential backoff. Tests
// override this to avoid real sleeps.
var backoffBase = time.Second

// callWithRetry calls the AI backend with exponential backoff.
func callWithRetry(ctx context.Context, backend AIBackend, in AIInput, maxRetries int) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * backoffBase
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		reply, err := backend.Extract(ctx, in)
		if err == nil {
			return reply, nil
		}
		lastErr = err
	}
	return "", fmt.Errorf("after %d retries: %w", maxRetries, lastErr)
}
