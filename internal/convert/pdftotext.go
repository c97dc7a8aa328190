// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pdiddy/cardpress/internal/container"
)

// ImagePoppler is the container image providing pdftotext.
var ImagePoppler = "minidocks/poppler:latest"

// PdftotextConverter converts PDFs by piping them through poppler's
// pdftotext in a container. It depends on a container.Runtime (docker or
// podman) injected at construction time.
type PdftotextConverter struct {
	runtime container.Runtime
}

// NewPdftotextConverter creates a converter that uses rt to run the poppler
// image. It verifies that the image exists locally before returning.
func NewPdftotextConverter(rt container.Runtime) (*PdftotextConverter, error) {
	if err := rt.ImageExists(ImagePoppler); err != nil {
		return nil, fmt.Errorf("poppler image not available in %s: %w", rt.Name(), err)
	}
	return &PdftotextConverter{runtime: rt}, nil
}

// Convert reads the PDF at pdfPath, pipes it through pdftotext and returns
// the text.
func (p *PdftotextConverter) Convert(ctx context.Context, pdfPath string) (string, error) {
	f, err := os.Open(pdfPath)
	if err != nil {
		return "", fmt.Errorf("opening PDF %s: %w", pdfPath, err)
	}
	defer f.Close()

	var out bytes.Buffer
	args := []string{"pdftotext", "-enc", "UTF-8", "-", "-"}
	if err := p.runtime.Run(ctx, ImagePoppler, args, f, &out); err != nil {
		return "", fmt.Errorf("converting %s with pdftotext: %w", pdfPath, err)
	}

	// pdftotext separates pages with form feeds.
	text := strings.TrimSpace(strings.ReplaceAll(out.String(), "\f", "\n\n"))
	if text == "" {
		return "", fmt.Errorf("%s: %w", pdfPath, ErrNoText)
	}
	return text, nil
}
