// Package llm talks to OpenAI-compatible chat completion services, including
// Azure OpenAI deployments.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrUpstream wraps every failure of the completion service: transport errors,
// non-2xx answers (including rejected credentials) and malformed bodies.
var ErrUpstream = errors.New("completion service error")

const (
	RoleSystem = "system"
	RoleUser   = "user"

	defaultTimeout = 30 * time.Second
	maxErrorBody   = 4 << 10
)

// Client sends a chat conversation and returns the first completion text.
type Client interface {
	Chat(ctx context.Context, messages []Message, options ...ChatOption) (string, error)
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatOption tunes a single Chat call.
type ChatOption func(*chatRequest)

func WithTemperature(t float64) ChatOption {
	return func(r *chatRequest) {
		r.Temperature = &t
	}
}

func WithMaxTokens(n int) ChatOption {
	return func(r *chatRequest) {
		r.MaxTokens = n
	}
}

// OpenAIClient is safe for concurrent use.
type OpenAIClient struct {
	endpoint   string
	apiKey     string
	model      string
	azure      bool
	httpClient *http.Client
}

// ClientOption configures an OpenAIClient at construction time.
type ClientOption func(*OpenAIClient)

// WithTimeout sets the timeout on a copy of the current HTTP client, so a
// client passed through WithHTTPClient is never modified.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *OpenAIClient) {
		hc := *c.httpClient
		hc.Timeout = d
		c.httpClient = &hc
	}
}

// WithHTTPClient replaces the HTTP client. A nil client is ignored.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *OpenAIClient) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewOpenAIClient posts to endpoint as-is and authenticates with a bearer token.
func NewOpenAIClient(endpoint, apiKey, model string, opts ...ClientOption) *OpenAIClient {
	c := &OpenAIClient{
		endpoint:   endpoint,
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewAzureOpenAIClient targets the chat completions route of an Azure OpenAI
// deployment and authenticates with the api-key header.
func NewAzureOpenAIClient(endpoint, apiKey, deployment, apiVersion string, opts ...ClientOption) *OpenAIClient {
	u := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		strings.TrimRight(endpoint, "/"), url.PathEscape(deployment), url.QueryEscape(apiVersion))
	c := NewOpenAIClient(u, apiKey, "", opts...)
	c.azure = true
	return c
}

type chatRequest struct {
	Model       string    `json:"model,omitempty"`
	Messages    []Message `json:"messages"`
	Temperature *float64  `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

func (c *OpenAIClient) Chat(ctx context.Context, messages []Message, options ...ChatOption) (string, error) {
	reqBody := chatRequest{
		Model:    c.model,
		Messages: messages,
	}
	for _, opt := range options {
		opt(&reqBody)
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("%w: marshal request: %w", ErrUpstream, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("%w: create request: %w", ErrUpstream, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.azure {
		req.Header.Set("api-key", c.apiKey)
	} else {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: request failed: %w", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("%w: parse response: %w", ErrUpstream, err)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", ErrUpstream)
	}

	return chatResp.Choices[0].Message.Content, nil
}
