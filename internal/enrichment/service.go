// Package enrichment wraps the external text-analysis provider behind
// a single Analyze call.
package enrichment

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/noteforge/noteforge/pkg/models"
)

const (
	// httpTimeout bounds a single provider call. There are no retries;
	// a timed-out call is an upstream failure like any other.
	httpTimeout = 60 * time.Second
)

// Config holds enrichment client configuration.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

// Client calls an OpenAI-compatible chat-completions API to analyze
// raw note text.
type Client struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

// NewClient creates an enrichment client. The API key is required;
// base URL and model fall back to the usual defaults.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required for enrichment")
	}
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &Client{
		client:  &http.Client{Timeout: httpTimeout},
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
		model:   model,
	}, nil
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	ResponseFormat responseFormat `json:"response_format"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Analyze sends rawContent to the provider and returns the structured
// analysis. Any transport error, non-2xx status, unparsable payload,
// or payload missing refinedNote is returned as an error wrapping
// models.ErrUpstream.
func (c *Client) Analyze(ctx context.Context, rawContent string) (*models.AnalysisResult, error) {
	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: rawContent},
		},
		ResponseFormat: responseFormat{Type: "json_object"},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal analysis request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create analysis request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: send analysis request to %s: %v", models.ErrUpstream, c.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodySnippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: analysis API error (model=%s, status=%d): %s",
			models.ErrUpstream, c.model, resp.StatusCode, strings.TrimSpace(string(bodySnippet)))
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, fmt.Errorf("%w: decode analysis response: %v", models.ErrUpstream, err)
	}
	if len(chatResp.Choices) == 0 {
		return nil, fmt.Errorf("%w: analysis API returned no choices (model=%s)", models.ErrUpstream, c.model)
	}

	return ParseResult([]byte(chatResp.Choices[0].Message.Content))
}

// ParseResult decodes and validates a provider payload. Exposed
// separately so the validation contract is testable without HTTP.
func ParseResult(payload []byte) (*models.AnalysisResult, error) {
	var result models.AnalysisResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("%w: unparsable analysis payload: %v", models.ErrUpstream, err)
	}
	if result.RefinedNote == "" {
		return nil, fmt.Errorf("%w: analysis payload missing refinedNote", models.ErrUpstream)
	}
	return &result, nil
}
