// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert implements PDF-to-text conversion with pluggable backends.
// The text feeds the AI extractor when it runs in text mode.
package convert

import (
	"context"
	"errors"
	"fmt"

	"github.com/pdiddy/cardpress/internal/container"
	"github.com/pdiddy/cardpress/pkg/types"
)

// ErrNoText is returned when a PDF has no extractable text layer, which
// is the case for scanned documents.
var ErrNoText = errors.New("no text layer in PDF")

// Converter transforms a PDF file into plain text. Different backends
// (pure Go, pdftotext) implement this interface.
type Converter interface {
	// Convert reads a PDF at pdfPath and returns its text.
	Convert(ctx context.Context, pdfPath string) (string, error)
}

// detectRuntime is replaced in tests.
var detectRuntime = container.DetectRuntime

// New returns the converter for backend. An empty backend selects the
// native converter. The pdftotext backend needs a container runtime and
// the poppler image.
func New(backend types.ConversionBackend) (Converter, error) {
	switch backend {
	case "", types.BackendNative:
		return NewNativeConverter(), nil
	case types.BackendPdftotext:
		rt, err := detectRuntime()
		if err != nil {
			return nil, err
		}
		return NewPdftotextConverter(rt)
	}
	return nil, fmt.Errorf("unknown conversion backend %q", backend)
}
