// Package llm talks to an OpenAI-compatible chat-completions endpoint.
//
// The default endpoint is DashScope's compatible mode. The client scores
// brand exposure in assistant answers and drafts brand articles.
package llm

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sugawarayuuta/sonnet"

	"github.com/geo-dev/geo/internal/errors"
)

// ErrMissingAPIKey is returned when no API key is configured.
var ErrMissingAPIKey = stderrors.New("llm: api key not configured")

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 4 << 20

// Config configures a Client.
type Config struct {
	BaseURL string
	Model   string
	APIKey  string
	Timeout time.Duration

	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client
}

// Client is a minimal chat-completions client.
type Client struct {
	baseURL string
	model   string
	apiKey  string
	http    *http.Client
	logger  *slog.Logger
}

// New creates a client. A zero Timeout means no client-side timeout.
func New(cfg Config) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		model:   cfg.Model,
		apiKey:  cfg.APIKey,
		http:    hc,
		logger:  slog.Default().With("component", "llm"),
	}
}

// Message is a single chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
}

// Complete sends messages and returns the content of the first choice.
// With jsonMode set the model is asked for a JSON object.
func (c *Client) Complete(ctx context.Context, messages []Message, jsonMode bool) (string, error) {
	if c.apiKey == "" {
		return "", errors.New("E301").
			WithSuggestion("Set llm.api_key in geo.yaml or export DASHSCOPE_API_KEY").
			Wrap(ErrMissingAPIKey)
	}

	req := chatRequest{Model: c.model, Messages: messages}
	if jsonMode {
		req.ResponseFormat = &responseFormat{Type: "json_object"}
	}
	body, err := sonnet.Marshal(req)
	if err != nil {
		return "", errors.New("E300").WithDetail("encode request").Wrap(err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", errors.New("E300").Wrap(err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", errors.New("E300").WithDetail(err.Error()).Wrap(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", errors.New("E300").WithDetail("read response").Wrap(err)
	}
	c.logger.Debug("chat completion",
		"model", c.model,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	var out chatResponse
	decodeErr := sonnet.Unmarshal(raw, &out)
	if resp.StatusCode != http.StatusOK {
		detail := fmt.Sprintf("status %d", resp.StatusCode)
		if decodeErr == nil && out.Error != nil && out.Error.Message != "" {
			detail += ": " + out.Error.Message
		}
		return "", errors.New("E300").WithDetail(detail)
	}
	if decodeErr != nil {
		return "", errors.New("E300").WithDetail("decode response").Wrap(decodeErr)
	}
	if len(out.Choices) == 0 {
		return "", errors.New("E300").WithDetail("empty response from model")
	}
	return out.Choices[0].Message.Content, nil
}

// completeJSON runs a JSON-mode completion and decodes the answer into v.
func (c *Client) completeJSON(ctx context.Context, system, user string, v any) error {
	content, err := c.Complete(ctx, []Message{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	}, true)
	if err != nil {
		return err
	}
	if err := sonnet.Unmarshal([]byte(stripFence(content)), v); err != nil {
		return errors.New("E300").WithDetail("model answer is not valid JSON").Wrap(err)
	}
	return nil
}

// stripFence removes a markdown code fence some models put around JSON.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}
