// Package lmstudio adapts the LM Studio OpenAI-compatible HTTP API to the
// sidekick Provider interface.
package lmstudio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ineyio/sidekick"
)

// Client talks to one LM Studio instance.
type Client struct {
	addr       string
	baseURL    string
	httpClient *http.Client
}

var _ sidekick.Provider = (*Client)(nil)

// Option configures the client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Client) { p.httpClient = c }
}

// WithBaseURL overrides the API base URL, for tests or reverse proxies.
func WithBaseURL(url string) Option {
	return func(p *Client) { p.baseURL = strings.TrimRight(url, "/") }
}

// New creates a client for the LM Studio instance at host:port.
func New(host string, port int, opts ...Option) *Client {
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	c := &Client{
		addr:       addr,
		baseURL:    "http://" + addr + "/v1",
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Name() string { return "lmstudio" }

// apiModels is the GET /models response format.
type apiModels struct {
	Data []struct {
		ID string `json:"id"`
	} `json:"data"`
}

// apiRequest is the chat completion request format.
type apiRequest struct {
	Model       string             `json:"model,omitempty"`
	Messages    []sidekick.Message `json:"messages"`
	Temperature *float64           `json:"temperature,omitempty"`
	MaxTokens   *int               `json:"max_tokens,omitempty"`
}

// apiResponse is the chat completion response format.
type apiResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index        int              `json:"index"`
		Message      sidekick.Message `json:"message"`
		FinishReason string           `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int64 `json:"prompt_tokens"`
		CompletionTokens int64 `json:"completion_tokens"`
		TotalTokens      int64 `json:"total_tokens"`
	} `json:"usage"`
}

// ListModels fetches the models the instance currently offers.
func (c *Client) ListModels(ctx context.Context) ([]sidekick.ModelInfo, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/models", nil)
	if err != nil {
		return nil, fmt.Errorf("sidekick: create request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, c.unavailable(err)
	}
	defer resp.Body.Close()

	if err := c.mapHTTPError(resp); err != nil {
		return nil, err
	}

	var models apiModels
	if err := json.NewDecoder(resp.Body).Decode(&models); err != nil {
		return nil, fmt.Errorf("sidekick: decode models: %w", err)
	}

	out := make([]sidekick.ModelInfo, len(models.Data))
	for i, m := range models.Data {
		out[i] = sidekick.ModelInfo{ID: m.ID}
	}
	return out, nil
}

// ChatCompletion performs a synchronous chat completion. An empty model
// means whatever model the instance has loaded.
func (c *Client) ChatCompletion(ctx context.Context, req sidekick.CompletionRequest) (sidekick.CompletionResponse, error) {
	body := apiRequest{
		Model:       req.Model,
		Messages:    req.Messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}

	httpResp, err := c.post(ctx, c.baseURL+"/chat/completions", body)
	if err != nil {
		return sidekick.CompletionResponse{}, err
	}
	defer httpResp.Body.Close()

	if err := c.mapHTTPError(httpResp); err != nil {
		return sidekick.CompletionResponse{}, err
	}

	var resp apiResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return sidekick.CompletionResponse{}, fmt.Errorf("sidekick: decode response: %w", err)
	}

	if len(resp.Choices) == 0 {
		return sidekick.CompletionResponse{}, fmt.Errorf("%w: empty choices in response", sidekick.ErrInvalidRequest)
	}

	return sidekick.CompletionResponse{
		ID:           resp.ID,
		Content:      resp.Choices[0].Message.Content,
		FinishReason: resp.Choices[0].FinishReason,
		Model:        resp.Model,
		Usage: sidekick.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

// LoadModel asks the instance to load a model. Instances older than the
// load endpoint answer 404, which maps to ErrUnsupportedOperation.
func (c *Client) LoadModel(ctx context.Context, model string) error {
	httpResp, err := c.post(ctx, c.baseURL+"/models/load", map[string]string{"model": model})
	if err != nil {
		return err
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode == http.StatusNotFound {
		return sidekick.ErrUnsupportedOperation
	}
	return c.mapHTTPError(httpResp)
}

func (c *Client) post(ctx context.Context, url string, body any) (*http.Response, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("sidekick: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("sidekick: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, c.unavailable(err)
	}
	return resp, nil
}

func (c *Client) unavailable(err error) error {
	return &sidekick.UpstreamError{
		Addr: c.addr,
		Err:  fmt.Errorf("%w: %v", sidekick.ErrUpstreamUnavailable, err),
	}
}

func (c *Client) mapHTTPError(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	// Read body for error context, but don't fail if we can't.
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return fmt.Errorf("%w: status %d: %s", sidekick.ErrInvalidRequest, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return &sidekick.UpstreamError{
		Addr: c.addr,
		Err:  fmt.Errorf("%w: status %d", sidekick.ErrUpstreamUnavailable, resp.StatusCode),
	}
}
