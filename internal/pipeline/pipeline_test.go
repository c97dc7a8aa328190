package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/cardpress/internal/cards"
	"github.com/pdiddy/cardpress/internal/docx"
	"github.com/pdiddy/cardpress/internal/items"
	"github.com/pdiddy/cardpress/internal/publish"
	"github.com/pdiddy/cardpress/pkg/types"
)

type memRecorder struct {
	jobs []types.Job
	err  error
}

func (m *memRecorder) Record(_ context.Context, job types.Job) error {
	m.jobs = append(m.jobs, job)
	return m.err
}

type fakeBackend struct{ reply string }

func (f fakeBackend) Extract(context.Context, items.AIInput) (string, error) { return f.reply, nil }

func writeList(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "drinks.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunListToDocument(t *testing.T) {
	dir := t.TempDir()
	rec := &memRecorder{}
	p := &Pipeline{Assembler: cards.NewAssembler(types.DefaultRenderConfig()), Recorder: rec}

	out := filepath.Join(dir, "formatted_drinks.docx")
	res, err := p.Run(context.Background(), Request{Input: writeList(t, dir, "Masala Chai\nLassi\n\nFilter Coffee\n"), Output: out})
	require.NoError(t, err)

	assert.Equal(t, []string{"Masala Chai", "Lassi", "Filter Coffee"}, res.Items)
	assert.Equal(t, 3, res.Pages)
	assert.Equal(t, out, res.Output)
	assert.Empty(t, res.Location)

	doc, err := docx.Open(out)
	require.NoError(t, err)
	assert.Equal(t, res.Items, cards.ReadCards(doc))

	require.Len(t, rec.jobs, 1)
	job := rec.jobs[0]
	assert.Equal(t, res.Job, job)
	assert.Equal(t, types.JobDone, job.Status)
	assert.Equal(t, types.SourceList, job.SourceKind)
	assert.Equal(t, "drinks.txt", job.SourceName)
	assert.Equal(t, "formatted_drinks.docx", job.OutputName)
	assert.Equal(t, 3, job.ItemCount)
	assert.NotEmpty(t, job.ID)
}

func TestRunPublishes(t *testing.T) {
	dir := t.TempDir()
	pubDir := filepath.Join(dir, "site")
	p := &Pipeline{Publisher: &publish.DirPublisher{Dir: pubDir}}

	res, err := p.Run(context.Background(), Request{
		Input:  writeList(t, dir, "Samosa"),
		Output: filepath.Join(dir, "out.docx"),
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(pubDir, "out.docx"), res.Location)
	assert.Equal(t, res.Location, res.Job.OutputName)
	assert.FileExists(t, res.Location)
}

func TestRunUsesClientName(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "0b6f2c.pdf")
	require.NoError(t, os.WriteFile(input, []byte("%PDF"), 0o644))

	rec := &memRecorder{}
	p := &Pipeline{Recorder: rec, Sources: items.Options{Backend: fakeBackend{reply: "Idli"}}}
	_, err := p.Run(context.Background(), Request{Input: input, Name: "breakfast.pdf", Output: filepath.Join(dir, "out.docx")})

	// The stub PDF is rejected by validation before the backend is called.
	var ee *items.ExtractionError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, items.ReasonUnreadable, ee.Reason)
	require.Len(t, rec.jobs, 1)
	assert.Equal(t, "breakfast.pdf", rec.jobs[0].SourceName)
	assert.Equal(t, types.SourcePDF, rec.jobs[0].SourceKind)
}

func TestRunFailures(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{"empty list", "", items.ErrNoItems},
		{"blank list", "  \n\t\n", items.ErrAllBlank},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			rec := &memRecorder{}
			p := &Pipeline{Recorder: rec}
			out := filepath.Join(dir, "out.docx")

			res, err := p.Run(context.Background(), Request{Input: writeList(t, dir, tt.content), Output: out})
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, res)
			assert.NoFileExists(t, out)

			require.Len(t, rec.jobs, 1)
			assert.Equal(t, types.JobFailed, rec.jobs[0].Status)
			assert.NotEmpty(t, rec.jobs[0].Error)
		})
	}
}

func TestRunRenderFailure(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.docx")
	_, err := (&Pipeline{}).Run(context.Background(), Request{Input: writeList(t, dir, "Tea\nbad\x01name\n"), Output: out})

	var re *cards.RenderError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, 2, re.Index)
	assert.NoFileExists(t, out)
}

func TestRunRecorderFailureIsNotFatal(t *testing.T) {
	dir := t.TempDir()
	p := &Pipeline{Recorder: &memRecorder{err: errors.New("disk full")}}
	_, err := p.Run(context.Background(), Request{Input: writeList(t, dir, "Tea"), Output: filepath.Join(dir, "out.docx")})
	assert.NoError(t, err)
}

func TestRunUnsupported(t *testing.T) {
	dir := t.TempDir()
	_, err := (&Pipeline{}).Run(context.Background(), Request{Input: filepath.Join(dir, "menu.odt"), Output: filepath.Join(dir, "out.docx")})
	assert.ErrorIs(t, err, items.ErrUnsupported)
}
