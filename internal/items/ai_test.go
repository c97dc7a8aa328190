package items

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/cardpress/pkg/types"
)

// --- mock backend ---

type mockBackend struct {
	reply    string
	err      error
	failures int // fail this many calls before replying
	calls    int
	got      AIInput
}

func (m *mockBackend) Extract(_ context.Context, in AIInput) (string, error) {
	m.calls++
	m.got = in
	if m.err != nil {
		return "", m.err
	}
	if m.calls <= m.failures {
		return "", errors.New("transient error")
	}
	return m.reply, nil
}

type stubConverter struct {
	text string
	err  error
}

func (s *stubConverter) Convert(context.Context, string) (string, error) { return s.text, s.err }

func TestMain(m *testing.M) {
	// Override backoff to avoid real sleeps in retry tests.
	backoffBase = time.Millisecond
	os.Exit(m.Run())
}

func stubPages(t *testing.T, n int, err error) {
	t.Helper()
	old := pageCount
	pageCount = func(string) (int, error) { return n, err }
	t.Cleanup(func() { pageCount = old })
}

func writePDF(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "menu.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 menu"), 0o644))
	return path
}

func TestAISourceDocumentMode(t *testing.T) {
	stubPages(t, 2, nil)
	path := writePDF(t)
	backend := &mockBackend{reply: "Butter Chicken\n\n- Garlic Naan\n  Mango Lassi  \n"}

	got, err := (&AISource{Path: path, Backend: backend}).Items(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Butter Chicken", "Garlic Naan", "Mango Lassi"}, got)
	assert.Equal(t, "menu.pdf", backend.got.Name)
	assert.Equal(t, []byte("%PDF-1.4 menu"), backend.got.PDF)
	assert.Empty(t, backend.got.Text)
}

func TestAISourceTextMode(t *testing.T) {
	stubPages(t, 1, nil)
	backend := &mockBackend{reply: "Idli\nDosa"}
	src := &AISource{
		Path:      writePDF(t),
		Backend:   backend,
		Mode:      types.AIModeText,
		Converter: &stubConverter{text: "Idli ..... 40\nDosa ..... 60"},
	}

	got, err := src.Items(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Idli", "Dosa"}, got)
	assert.Equal(t, "Idli ..... 40\nDosa ..... 60", backend.got.Text)
	assert.Nil(t, backend.got.PDF)
}

func TestAISourceErrors(t *testing.T) {
	tests := []struct {
		name      string
		pages     int
		pageErr   error
		src       AISource
		want      Reason
		wantCalls int
	}{
		{
			name:    "invalid pdf",
			pageErr: errors.New("pdfcpu: no header"),
			src:     AISource{Backend: &mockBackend{reply: "x"}},
			want:    ReasonUnreadable,
		},
		{
			name:  "too many pages",
			pages: 101,
			src:   AISource{Backend: &mockBackend{reply: "x"}},
			want:  ReasonTooLarge,
		},
		{
			name:  "custom page limit",
			pages: 6,
			src:   AISource{Backend: &mockBackend{reply: "x"}, MaxPages: 5},
			want:  ReasonTooLarge,
		},
		{
			name:      "empty reply",
			pages:     1,
			src:       AISource{Backend: &mockBackend{reply: ""}},
			want:      ReasonNoNames,
			wantCalls: 1,
		},
		{
			name:      "backend keeps failing",
			pages:     1,
			src:       AISource{Backend: &mockBackend{err: errors.New("500")}, MaxRetries: 2},
			want:      ReasonBackend,
			wantCalls: 3,
		},
		{
			name:  "converter fails",
			pages: 1,
			src: AISource{
				Backend:   &mockBackend{reply: "x"},
				Mode:      types.AIModeText,
				Converter: &stubConverter{err: errors.New("no text layer")},
			},
			want: ReasonUnreadable,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubPages(t, tt.pages, tt.pageErr)
			src := tt.src
			src.Path = writePDF(t)

			_, err := src.Items(context.Background())
			var ee *ExtractionError
			require.True(t, errors.As(err, &ee), "got %v", err)
			assert.Equal(t, tt.want, ee.Reason)
			assert.Equal(t, tt.wantCalls, src.Backend.(*mockBackend).calls)
		})
	}
}

func TestAISourceNoNamesUnwrapsToSentinel(t *testing.T) {
	stubPages(t, 1, nil)
	_, err := (&AISource{Path: writePDF(t), Backend: &mockBackend{reply: "\n  \n"}}).Items(context.Background())
	assert.ErrorIs(t, err, ErrAllBlank)
}

func TestCallWithRetry(t *testing.T) {
	backend := &mockBackend{reply: "Tea", failures: 2}
	got, err := callWithRetry(context.Background(), backend, AIInput{}, 3)
	require.NoError(t, err)
	assert.Equal(t, "Tea", got)
	assert.Equal(t, 3, backend.calls)

	backend = &mockBackend{err: errors.New("down")}
	_, err = callWithRetry(context.Background(), backend, AIInput{}, 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 2 retries")
	assert.Equal(t, 3, backend.calls)
}

func TestCallWithRetryContextCancelled(t *testing.T) {
	old := backoffBase
	backoffBase = time.Second
	defer func() { backoffBase = old }()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := callWithRetry(ctx, &mockBackend{err: errors.New("down")}, AIInput{}, 3)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
