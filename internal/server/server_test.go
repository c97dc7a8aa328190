package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/cardpress/internal/cards"
	"github.com/pdiddy/cardpress/internal/docx"
	"github.com/pdiddy/cardpress/internal/intake"
	"github.com/pdiddy/cardpress/internal/items"
	"github.com/pdiddy/cardpress/internal/pipeline"
	"github.com/pdiddy/cardpress/pkg/types"
)

type testEnv struct {
	ts      *httptest.Server
	tempDir string
}

func newTestEnv(t *testing.T, cfg types.ServerConfig) *testEnv {
	t.Helper()
	s := New(cfg, &pipeline.Pipeline{Assembler: cards.NewAssembler(types.DefaultRenderConfig())})
	dir := t.TempDir()
	s.SetTempDir(dir)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return &testEnv{ts: ts, tempDir: dir}
}

func docxUpload(t *testing.T, paras ...string) []byte {
	t.Helper()
	doc := docx.New()
	for _, p := range paras {
		doc.AddParagraph().AddRun(p)
	}
	var buf bytes.Buffer
	require.NoError(t, doc.Save(&buf))
	return buf.Bytes()
}

func (e *testEnv) upload(t *testing.T, field, name string, content []byte) *http.Response {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile(field, name)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := http.Post(e.ts.URL+"/process", mw.FormDataContentType(), &body)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func detail(t *testing.T, resp *http.Response) string {
	t.Helper()
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	var b errorBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&b))
	return b.Detail
}

func TestProcessDocx(t *testing.T) {
	env := newTestEnv(t, types.ServerConfig{})
	resp := env.upload(t, "file", "lunch.docx", docxUpload(t, "Paneer Tikka", "", "Dal Makhani", "Jeera Rice"))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, docx.MediaType, resp.Header.Get("Content-Type"))
	assert.Equal(t, `attachment; filename=formatted_lunch.docx`, resp.Header.Get("Content-Disposition"))
	assert.Equal(t, "3", resp.Header.Get("X-Item-Count"))
	assert.NotEmpty(t, resp.Header.Get("X-Job-Id"))
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	doc, err := docx.Read(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	assert.Equal(t, []string{"Paneer Tikka", "Dal Makhani", "Jeera Rice"}, cards.ReadCards(doc))

	entries, err := os.ReadDir(env.tempDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "upload and output directories must be removed")
}

func TestProcessRejects(t *testing.T) {
	tests := []struct {
		name       string
		field      string
		file       string
		content    []byte
		wantStatus int
		wantDetail string
	}{
		{"text file", "file", "menu.txt", []byte("Samosa"), http.StatusBadRequest, msgNotAllowed},
		{"renamed text", "file", "menu.pdf", []byte("Samosa"), http.StatusBadRequest, msgNotAllowed},
		{"no items", "file", "menu.docx", nil, http.StatusBadRequest, msgNoItems},
		{"blank items", "file", "menu.docx", nil, http.StatusBadRequest, msgNoItems},
		{"wrong field", "upload", "menu.docx", nil, http.StatusBadRequest, `Missing upload field "file"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, types.ServerConfig{})
			content := tt.content
			if content == nil {
				if tt.name == "blank items" {
					content = docxUpload(t, "  ", "\t")
				} else {
					content = docxUpload(t)
				}
			}
			resp := env.upload(t, tt.field, tt.file, content)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantDetail, detail(t, resp))

			entries, err := os.ReadDir(env.tempDir)
			require.NoError(t, err)
			assert.Empty(t, entries)
		})
	}
}

func TestProcessTooLarge(t *testing.T) {
	env := newTestEnv(t, types.ServerConfig{MaxUploadMB: 1})
	// Over the 1 MiB upload limit but under the request body limit.
	big := append(docxUpload(t, "x"), bytes.Repeat([]byte{0}, 1<<20)...)
	resp := env.upload(t, "file", "menu.docx", big)
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t, types.ServerConfig{})
	resp, err := http.Get(env.ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, types.ServerConfig{})
	resp, err := http.Get(env.ts.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = http.Get(env.ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `route="/healthz"`)
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(t, types.ServerConfig{})
	req, err := http.NewRequest(http.MethodOptions, env.ts.URL+"/process", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "content-type")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "content-type", resp.Header.Get("Access-Control-Allow-Headers"))
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), "POST")
}

func TestStaticFiles(t *testing.T) {
	static := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(static, "index.html"), []byte("<h1>upload</h1>"), 0o644))
	env := newTestEnv(t, types.ServerConfig{StaticDir: static})

	resp, err := http.Get(env.ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "<h1>upload</h1>", string(body))
}

func TestMissingStaticDir(t *testing.T) {
	env := newTestEnv(t, types.ServerConfig{StaticDir: filepath.Join(t.TempDir(), "absent")})
	resp, err := http.Get(env.ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not allowed", fmt.Errorf("x: %w", intake.ErrNotAllowed), http.StatusBadRequest},
		{"mismatch", intake.ErrMismatch, http.StatusBadRequest},
		{"too large upload", intake.ErrTooLarge, http.StatusRequestEntityTooLarge},
		{"invalid input", &cards.InvalidInputError{Reason: cards.ReasonAllBlank}, http.StatusBadRequest},
		{"no names", &items.ExtractionError{Reason: items.ReasonNoNames, Err: items.ErrNoItems}, http.StatusBadRequest},
		{"backend", &items.ExtractionError{Reason: items.ReasonBackend, Err: errors.New("502")}, http.StatusBadGateway},
		{"unreadable", &items.ExtractionError{Reason: items.ReasonUnreadable, Err: errors.New("bad")}, http.StatusUnprocessableEntity},
		{"too many pages", &items.ExtractionError{Reason: items.ReasonTooLarge, Err: errors.New("101 pages")}, http.StatusRequestEntityTooLarge},
		{"no api key", items.ErrNoAPIKey, http.StatusServiceUnavailable},
		{"render", &cards.RenderError{Index: 3, Name: "x", Stage: cards.StageName, Err: errors.New("bad")}, http.StatusUnprocessableEntity},
		{"other", errors.New("disk full"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := classify(tt.err)
			assert.Equal(t, tt.status, status)
		})
	}
}

func TestServeShutsDownOnCancel(t *testing.T) {
	s := New(types.ServerConfig{ShutdownTimeout: time.Second}, &pipeline.Pipeline{})
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down")
	}
}
