// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package items

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"text/template"
	"time"

	"github.com/pdiddy/cardpress/internal/httputil"
	"github.com/pdiddy/cardpress/pkg/types"
)

// DefaultModel is used when the configuration names none.
const DefaultModel = "claude-sonnet-4-5-20250929"

// ErrNoAPIKey is returned when a PDF needs the AI backend but no key is set.
var ErrNoAPIKey = errors.New("no Anthropic API key configured (set ANTHROPIC_API_KEY or .secrets/anthropic-api-key)")

// extractionPromptTmpl is sent with every menu. In text mode the converted
// text is appended; in document mode the PDF travels as a separate block.
var extractionPromptTmpl = template.Must(template.New("extraction").Parse(`Extract ONLY the food item names from this {{if .Text}}menu text{{else}}PDF menu{{end}}.
Return each item on a new line.
Do not include prices, descriptions, categories, or any other text.
Just the food item names, one per line.
If there are no food items, return empty.
{{- if .Text}}

Menu text:
{{.Text}}
{{- end}}
`))

// claudeAPIURL is the Claude API endpoint. Package-level var for test substitution.
var claudeAPIURL = "https://api.anthropic.com/v1/messages"

// ClaudeBackend calls the Claude API to read item names out of a menu.
type ClaudeBackend struct {
	APIKey string
	Model  string
	Client *http.Client

	// MaxRetries bounds retries of throttled requests.
	MaxRetries int
}

// NewClaudeBackend builds a backend from cfg. A zero timeout means two
// minutes.
func NewClaudeBackend(cfg types.AIConfig) *ClaudeBackend {
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &ClaudeBackend{
		APIKey:     cfg.APIKey,
		Model:      model,
		Client:     &http.Client{Timeout: timeout},
		MaxRetries: cfg.MaxRetries,
	}
}

// claudeRequest is the request body for the Claude Messages API.
type claudeRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	Messages  []claudeMessage `json:"messages"`
}

// claudeMessage is a single message in the Claude API conversation.
type claudeMessage struct {
	Role    string         `json:"role"`
	Content []contentBlock `json:"content"`
}

// contentBlock is a text or document block of a message.
type contentBlock struct {
	Type   string          `json:"type"`
	Text   string          `json:"text,omitempty"`
	Source *documentSource `json:"source,omitempty"`
}

type documentSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

// claudeResponse is the response body from the Claude Messages API.
type claudeResponse struct {
	Content []claudeContent `json:"content"`
}

// claudeContent is a content block in the Claude API response.
type claudeContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Extract sends the extraction prompt, plus the PDF in document mode, and
// returns the text of the reply.
func (c *ClaudeBackend) Extract(ctx context.Context, in AIInput) (string, error) {
	prompt, err := renderPrompt(in.Text)
	if err != nil {
		return "", fmt.Errorf("rendering prompt: %w", err)
	}

	var blocks []contentBlock
	if in.Text == "" {
		if len(in.PDF) == 0 {
			return "", errors.New("nothing to extract from: no text and no PDF")
		}
		blocks = append(blocks, contentBlock{
			Type: "document",
			Source: &documentSource{
				Type:      "base64",
				MediaType: "application/pdf",
				Data:      base64.StdEncoding.EncodeToString(in.PDF),
			},
		})
	}
	blocks = append(blocks, contentBlock{Type: "text", Text: prompt})

	reqBody := claudeRequest{
		Model:     c.Model,
		MaxTokens: 4096,
		Messages:  []claudeMessage{{Role: "user", Content: blocks}},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, claudeAPIURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.APIKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, c.MaxRetries)
	if err != nil {
		return "", fmt.Errorf("calling Claude API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("Claude API returned %d: %s", resp.StatusCode, string(body))
	}

	var cResp claudeResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return "", fmt.Errorf("decoding Claude response: %w", err)
	}

	var text []string
	for _, block := range cResp.Content {
		if block.Type == "text" {
			text = append(text, block.Text)
		}
	}
	if len(text) == 0 {
		return "", fmt.Errorf("no text content in Claude API response")
	}
	return strings.Join(text, "\n"), nil
}

// renderPrompt executes the extraction prompt template.
func renderPrompt(text string) (string, error) {
	var buf bytes.Buffer
	if err := extractionPromptTmpl.Execute(&buf, struct{ Text string }{Text: text}); err != nil {
		return "", err
	}
	return buf.String(), nil
}
