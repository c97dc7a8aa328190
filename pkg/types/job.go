// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// SourceKind identifies where a job's item names came from.
type SourceKind string

const (
	SourceDocx SourceKind = "docx"
	SourcePDF  SourceKind = "pdf"
	SourceList SourceKind = "list"
)

// JobStatus is the outcome of a processing run.
type JobStatus string

const (
	JobDone   JobStatus = "done"
	JobFailed JobStatus = "failed"
)

// Job records one processing run: an input file turned (or not) into a
// card document.
type Job struct {
	// ID is a random UUID.
	ID string `json:"id" yaml:"id"`

	// SourceName is the base name of the input file.
	SourceName string `json:"source_name" yaml:"source_name"`

	// SourceKind is docx, pdf or list.
	SourceKind SourceKind `json:"source_kind" yaml:"source_kind"`

	// ItemCount is the number of cards rendered.
	ItemCount int `json:"item_count" yaml:"item_count"`

	// OutputName is the generated document's name, or where it was published.
	OutputName string `json:"output_name,omitempty" yaml:"output_name,omitempty"`

	// Status is done or failed.
	Status JobStatus `json:"status" yaml:"status"`

	// Error holds the failure message of a failed job.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`

	// Duration is the wall time of the run.
	Duration time.Duration `json:"duration" yaml:"duration"`

	// CreatedAt is when the run started.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}
