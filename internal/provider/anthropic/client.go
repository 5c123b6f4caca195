package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/ferndale-io/textgate/internal/config"
	"github.com/ferndale-io/textgate/pkg/models"
)

const (
	apiVersion       = "2023-06-01"
	contentTypeJSON  = "application/json"
	defaultMaxTokens = 1024
)

// Client is a minimal HTTP client for the Anthropic REST API. It covers
// exactly the two calls the provider needs: model listing and message
// creation. No retries, no streaming.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewClient creates an API client from provider configuration. The request
// timeout comes from the transport config (a generous multi-minute ceiling
// by default).
func NewClient(cfg config.AnthropicConfig) *Client {
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

// modelEntry is one entry of the /v1/models listing.
type modelEntry struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
	Type        string `json:"type"`
}

type modelListResponse struct {
	Data    []modelEntry `json:"data"`
	HasMore bool         `json:"has_more"`
}

// message is one chat turn. Content is a plain string on the request side.
type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// messageRequest is the body of POST /v1/messages. Optional sampling fields
// are omitted entirely when unset so upstream defaults apply.
type messageRequest struct {
	Model         string    `json:"model"`
	MaxTokens     int       `json:"max_tokens"`
	Messages      []message `json:"messages"`
	Temperature   *float64  `json:"temperature,omitempty"`
	TopP          *float64  `json:"top_p,omitempty"`
	StopSequences []string  `json:"stop_sequences,omitempty"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type messageResponse struct {
	ID           string         `json:"id"`
	Type         string         `json:"type"`
	Role         string         `json:"role"`
	Content      []contentBlock `json:"content"`
	Model        string         `json:"model"`
	StopReason   string         `json:"stop_reason"`
	StopSequence string         `json:"stop_sequence"`
}

type apiErrorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// ListModels performs one GET /v1/models call and returns the raw entries.
func (c *Client) ListModels(ctx context.Context) ([]modelEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/models", nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, classifyError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(resp)
	}

	var listing modelListResponse
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("%w: decoding model listing: %v", models.ErrUpstream, err)
	}

	return listing.Data, nil
}

// CreateMessage performs one POST /v1/messages call.
func (c *Client) CreateMessage(ctx context.Context, body messageRequest) (*messageResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", contentTypeJSON)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, classifyError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(resp)
	}

	var msg messageResponse
	if err := json.NewDecoder(resp.Body).Decode(&msg); err != nil {
		return nil, fmt.Errorf("%w: decoding message response: %v", models.ErrUpstream, err)
	}

	return &msg, nil
}

// Ping checks reachability of the listing endpoint without parsing the body.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/models", nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return classifyError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", apiVersion)
	req.Header.Set("Accept", contentTypeJSON)
}

// statusError turns a non-2xx response into an upstream error, preserving the
// API error message when the body carries one.
func statusError(resp *http.Response) error {
	var apiErr apiErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error.Message != "" {
		return fmt.Errorf("%w: status %d (%s): %s",
			models.ErrUpstream, resp.StatusCode, apiErr.Error.Type, apiErr.Error.Message)
	}
	return fmt.Errorf("%w: status %d", models.ErrUpstream, resp.StatusCode)
}

// classifyError maps transport-level errors to the upstream sentinel.
func classifyError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: request cancelled: %w", models.ErrUpstream, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: request timed out: %v", models.ErrUpstream, err)
	}

	return fmt.Errorf("%w: %v", models.ErrUpstream, err)
}
