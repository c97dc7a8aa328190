// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package items

import (
	"github.com/pdiddy/cardpress/internal/convert"
	"github.com/pdiddy/cardpress/pkg/types"
)

// Options configures the sources ForFile builds.
type Options struct {
	AI types.AIConfig

	// Backend overrides the Claude backend built from AI.
	Backend AIBackend

	// Converter overrides the text-mode converter named by AI.Converter.
	Converter convert.Converter
}

// ForFile returns the source for path, chosen by its extension.
func ForFile(path string, opts Options) (Source, error) {
	kind, err := KindOf(path)
	if err != nil {
		return nil, err
	}
	switch kind {
	case types.SourceDocx:
		return &DocxSource{Path: path}, nil
	case types.SourceList:
		return &TextSource{Path: path}, nil
	}

	backend := opts.Backend
	if backend == nil {
		if opts.AI.APIKey == "" {
			return nil, ErrNoAPIKey
		}
		backend = NewClaudeBackend(opts.AI)
	}
	src := &AISource{
		Path:       path,
		Backend:    backend,
		Mode:       opts.AI.Mode,
		Converter:  opts.Converter,
		MaxRetries: opts.AI.MaxRetries,
		MaxPages:   opts.AI.MaxPages,
	}
	if src.Mode == types.AIModeText && src.Converter == nil {
		conv, err := convert.New(opts.AI.Converter)
		if err != nil {
			return nil, err
		}
		src.Converter = conv
	}
	return src, nil
}
