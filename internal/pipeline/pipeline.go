// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs one input file through extraction, card assembly
// and publishing, and records the outcome. The CLI and the HTTP server
// share it.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/cardpress/internal/cards"
	"github.com/pdiddy/cardpress/internal/items"
	"github.com/pdiddy/cardpress/internal/logging"
	"github.com/pdiddy/cardpress/internal/metrics"
	"github.com/pdiddy/cardpress/internal/publish"
	"github.com/pdiddy/cardpress/pkg/types"
)

// Recorder stores finished jobs. *history.Store implements it.
type Recorder interface {
	Record(ctx context.Context, job types.Job) error
}

// Pipeline holds the collaborators of a run. Recorder and Publisher are
// optional.
type Pipeline struct {
	Assembler *cards.Assembler
	Sources   items.Options
	Recorder  Recorder
	Publisher publish.Publisher
}

// Request names the input and where the document goes.
type Request struct {
	// Input is the path of the file to read.
	Input string
	// Name is the client's name for the input; defaults to the base of Input.
	Name string
	// Output is the path the document is written to.
	Output string
}

// Result describes a successful run.
type Result struct {
	Job   types.Job
	Items []string
	Pages int
	// Output is the local document path.
	Output string
	// Location is where the publisher put the document; empty without one.
	Location string
}

// Run extracts the items of req.Input, writes the card document to
// req.Output and publishes it. Every run, failed or not, is recorded.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	name := req.Name
	if name == "" {
		name = filepath.Base(req.Input)
	}
	job := types.Job{
		ID:         uuid.NewString(),
		SourceName: name,
		OutputName: filepath.Base(req.Output),
		CreatedAt:  time.Now(),
	}
	logger := logging.GetLogger("pipeline").With().Str("job", job.ID).Str("source", name).Logger()

	res, err := p.run(ctx, req, name, &job)
	job.Duration = time.Since(job.CreatedAt)
	if err != nil {
		job.Status = types.JobFailed
		job.Error = err.Error()
		logger.Error().Err(err).Dur("elapsed", job.Duration).Msg("job failed")
	} else {
		job.Status = types.JobDone
		logger.Info().Int("items", job.ItemCount).Dur("elapsed", job.Duration).Msg("job done")
	}
	metrics.ObserveJob(string(job.SourceKind), string(job.Status), job.ItemCount, job.Duration)

	if p.Recorder != nil {
		if rerr := p.Recorder.Record(ctx, job); rerr != nil {
			logger.Warn().Err(rerr).Msg("recording job failed")
		}
	}
	if err != nil {
		return nil, err
	}
	res.Job = job
	return res, nil
}

func (p *Pipeline) run(ctx context.Context, req Request, name string, job *types.Job) (*Result, error) {
	kind, err := items.KindOf(name)
	if err != nil {
		return nil, err
	}
	job.SourceKind = kind

	src, err := items.ForFile(req.Input, p.Sources)
	if err != nil {
		return nil, err
	}
	list, err := src.Items(ctx)
	if err != nil {
		metrics.IncExtraction(string(kind), "failed")
		return nil, err
	}
	metrics.IncExtraction(string(kind), "ok")

	asm := p.Assembler
	if asm == nil {
		asm = cards.NewAssembler(types.DefaultRenderConfig())
	}
	if err := asm.AssembleFile(list, req.Output); err != nil {
		return nil, err
	}
	job.ItemCount = len(list)

	res := &Result{
		Items:  list,
		Pages:  cards.EstimatePages(len(list), asm.Config),
		Output: req.Output,
	}
	if p.Publisher != nil {
		loc, err := p.Publisher.Publish(ctx, req.Output, filepath.Base(req.Output))
		if err != nil {
			return nil, fmt.Errorf("publishing: %w", err)
		}
		res.Location = loc
		job.OutputName = loc
	}
	return res, nil
}
