package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mergington/campus/pkg/api"
	"github.com/mergington/campus/pkg/debug"
	"github.com/mergington/campus/pkg/provider"
)

// DefaultBaseURL is the hosted OpenAI API endpoint.
const DefaultBaseURL = "https://api.openai.com"

// Config holds the connection settings for the OpenAI client.
type Config struct {
	// BaseURL is the backend root. Defaults to DefaultBaseURL.
	BaseURL string

	// APIKey is sent as a bearer token. Required by the hosted API;
	// mock backends may accept requests without it.
	APIKey string

	// Timeout bounds each Complete call. Defaults to 60 seconds.
	Timeout time.Duration
}

// Client performs HTTP requests against an OpenAI-compatible Chat
// Completions backend.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// Ensure Client implements provider.Completer at compile time.
var _ provider.Completer = (*Client)(nil)

// New creates a Client for an OpenAI-compatible backend.
func New(cfg Config) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
	}
}

// Complete performs one non-streaming inference call against the Chat
// Completions endpoint.
func (c *Client) Complete(ctx context.Context, req *provider.ChatRequest) (*provider.ChatResponse, error) {
	chatReq := translateRequest(req)

	body, err := json.Marshal(chatReq)
	if err != nil {
		return nil, api.NewServerError(fmt.Sprintf("failed to marshal request: %s", err.Error()))
	}

	url := c.baseURL + "/v1/chat/completions"
	debug.Log("provider", "request", "method", "POST", "url", url, "model", chatReq.Model)
	debug.Raw("provider", string(body))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, api.NewServerError(fmt.Sprintf("failed to create HTTP request: %s", err.Error()))
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, MapNetworkError(err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, MapHTTPError(httpResp)
	}

	var chatResp ChatCompletionResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&chatResp); err != nil {
		return nil, api.NewServerError(fmt.Sprintf("failed to parse backend response: %s", err.Error()))
	}

	return translateResponse(&chatResp)
}

// Close releases client resources.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// translateRequest maps the provider-neutral request onto the Chat
// Completions wire format.
func translateRequest(req *provider.ChatRequest) *ChatCompletionRequest {
	chatReq := &ChatCompletionRequest{
		Model:       req.Model,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	for _, m := range req.Messages {
		chatReq.Messages = append(chatReq.Messages, ChatMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}
	return chatReq
}

// translateResponse extracts the first choice from a backend response.
func translateResponse(resp *ChatCompletionResponse) (*provider.ChatResponse, error) {
	if len(resp.Choices) == 0 {
		return nil, api.NewServerError("backend returned no choices")
	}

	out := &provider.ChatResponse{
		Text:  resp.Choices[0].Message.Content,
		Model: resp.Model,
	}
	if resp.Usage != nil {
		out.Usage = &provider.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		}
	}
	return out, nil
}
