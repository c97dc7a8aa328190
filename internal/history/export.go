// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/cardpress/pkg/types"
)

// Format names an export encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Export is the document written by Store.Export.
type Export struct {
	Summary Summary     `json:"summary" yaml:"summary"`
	Jobs    []types.Job `json:"jobs" yaml:"jobs"`
}

const exportLimit = 100000

// Export writes the summary and the jobs matching opts to w. A zero
// opts.Limit exports everything.
func (s *Store) Export(ctx context.Context, w io.Writer, format Format, opts ListOptions) error {
	if opts.Limit <= 0 {
		opts.Limit = exportLimit
	}
	jobs, err := s.List(ctx, opts)
	if err != nil {
		return fmt.Errorf("querying for export: %w", err)
	}
	sum, err := s.Summarize(ctx)
	if err != nil {
		return err
	}
	doc := Export{Summary: sum, Jobs: jobs}
	if doc.Jobs == nil {
		doc.Jobs = []types.Job{}
	}

	switch format {
	case FormatYAML, "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		return nil
	}
	return fmt.Errorf("unknown export format %q", format)
}
