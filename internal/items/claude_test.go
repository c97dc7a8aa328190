// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package items

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/cardpress/internal/httputil"
	"github.com/pdiddy/cardpress/pkg/types"
)

func claudeServer(t *testing.T, handler http.HandlerFunc) {
	t.Helper()
	ts := httptest.NewServer(handler)
	old := claudeAPIURL
	claudeAPIURL = ts.URL
	t.Cleanup(func() {
		claudeAPIURL = old
		ts.Close()
	})
}

func writeReply(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(claudeResponse{Content: []claudeContent{{Type: "text", Text: text}}})
}

func TestClaudeBackendDocumentMode(t *testing.T) {
	var got claudeRequest
	claudeServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeReply(w, "Masala Dosa\nFilter Coffee")
	})

	b := NewClaudeBackend(types.AIConfig{APIKey: "test-key"})
	reply, err := b.Extract(context.Background(), AIInput{Name: "menu.pdf", PDF: []byte("%PDF-1.4")})
	require.NoError(t, err)
	assert.Equal(t, "Masala Dosa\nFilter Coffee", reply)

	assert.Equal(t, DefaultModel, got.Model)
	require.Len(t, got.Messages, 1)
	blocks := got.Messages[0].Content
	require.Len(t, blocks, 2)
	assert.Equal(t, "document", blocks[0].Type)
	require.NotNil(t, blocks[0].Source)
	assert.Equal(t, "application/pdf", blocks[0].Source.MediaType)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("%PDF-1.4")), blocks[0].Source.Data)
	assert.Equal(t, "text", blocks[1].Type)
	assert.Contains(t, blocks[1].Text, "Extract ONLY the food item names from this PDF menu.")
}

func TestClaudeBackendTextMode(t *testing.T) {
	var got claudeRequest
	claudeServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeReply(w, "Upma")
	})

	b := NewClaudeBackend(types.AIConfig{APIKey: "k", Model: "claude-haiku-4-5"})
	reply, err := b.Extract(context.Background(), AIInput{Text: "Upma 50"})
	require.NoError(t, err)
	assert.Equal(t, "Upma", reply)

	assert.Equal(t, "claude-haiku-4-5", got.Model)
	blocks := got.Messages[0].Content
	require.Len(t, blocks, 1)
	assert.Contains(t, blocks[0].Text, "from this menu text.")
	assert.Contains(t, blocks[0].Text, "Menu text:\nUpma 50")
}

func TestClaudeBackendErrorStatus(t *testing.T) {
	claudeServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"bad document"}`))
	})

	_, err := NewClaudeBackend(types.AIConfig{APIKey: "k"}).Extract(context.Background(), AIInput{PDF: []byte("x")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
	assert.Contains(t, err.Error(), "bad document")
}

func TestClaudeBackendRetriesOverloaded(t *testing.T) {
	old := httputil.RetryBaseDelay
	httputil.RetryBaseDelay = time.Millisecond
	defer func() { httputil.RetryBaseDelay = old }()

	var calls int32
	claudeServer(t, func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(529)
			return
		}
		writeReply(w, "Kheer")
	})

	reply, err := NewClaudeBackend(types.AIConfig{APIKey: "k", MaxRetries: 2}).Extract(context.Background(), AIInput{PDF: []byte("x")})
	require.NoError(t, err)
	assert.Equal(t, "Kheer", reply)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestClaudeBackendNoText(t *testing.T) {
	claudeServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(claudeResponse{Content: []claudeContent{{Type: "tool_use"}}})
	})
	_, err := NewClaudeBackend(types.AIConfig{APIKey: "k"}).Extract(context.Background(), AIInput{PDF: []byte("x")})
	assert.Error(t, err)
}

func TestClaudeBackendNothingToSend(t *testing.T) {
	_, err := NewClaudeBackend(types.AIConfig{APIKey: "k"}).Extract(context.Background(), AIInput{})
	assert.Error(t, err)
}

func TestRenderPrompt(t *testing.T) {
	doc, err := renderPrompt("")
	require.NoError(t, err)
	assert.NotContains(t, doc, "Menu text:")
	assert.Contains(t, doc, "If there are no food items, return empty.")

	text, err := renderPrompt("Vada Pav 30")
	require.NoError(t, err)
	assert.Contains(t, text, "If there are no food items, return empty.\n\nMenu text:\nVada Pav 30\n")
}
