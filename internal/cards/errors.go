// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cards

import (
	"errors"
	"fmt"
)

// Sentinels for the two ways an item list can be unusable. Item sources
// return them; InvalidInputError unwraps to them.
var (
	ErrNoItems  = errors.New("no items")
	ErrAllBlank = errors.New("all items are blank")
)

// InvalidReason distinguishes an empty list from one whose entries were
// all blank.
type InvalidReason string

const (
	ReasonNoItems  InvalidReason = "no items"
	ReasonAllBlank InvalidReason = "all blank"
)

// InvalidInputError is returned before any document is created when the
// item list cannot produce a single card.
type InvalidInputError struct {
	Reason InvalidReason
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s", e.Reason)
}

func (e *InvalidInputError) Unwrap() error {
	if e.Reason == ReasonAllBlank {
		return ErrAllBlank
	}
	return ErrNoItems
}

// Render stages.
const (
	StageValidate = "validate"
	StageHeader   = "header"
	StageName     = "name"
	StageBorder   = "border"
)

// RenderError reports the card that failed and the stage it failed in.
// Index is 1-based; it is zero when the card was rendered outside an
// assembly.
type RenderError struct {
	Index int
	Name  string
	Stage string
	Err   error
}

func (e *RenderError) Error() string {
	if e.Index > 0 {
		return fmt.Sprintf("rendering card %d (%q), %s: %v", e.Index, e.Name, e.Stage, e.Err)
	}
	return fmt.Sprintf("rendering card %q, %s: %v", e.Name, e.Stage, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// SerializationError wraps a failure to write the finished document.
type SerializationError struct {
	Dest string
	Err  error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("writing document to %s: %v", e.Dest, e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }
