package rag

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// Client is the interface to the retrieval-augmented generation webhook
type Client interface {
	Query(ctx context.Context, req QueryRequest) (*QueryResponse, error)
	Ingest(ctx context.Context, req IngestRequest) (*IngestResponse, error)
	Translate(ctx context.Context, req TranslateRequest) (*TranslateResponse, error)
	TranslateBatch(ctx context.Context, req BatchTranslateRequest) (*BatchTranslateResponse, error)
	Detect(ctx context.Context, req DetectRequest) (*DetectResponse, error)
	Simplify(ctx context.Context, req SimplifyRequest) (*SimplifyResponse, error)
}

// HTTPClient implements the Client interface using HTTP requests
type HTTPClient struct {
	webhookURL string
	apiKey     string
	httpClient *http.Client
}

// Ensure HTTPClient implements Client
var _ Client = (*HTTPClient)(nil)

// Config holds configuration for the webhook client
type Config struct {
	WebhookURL string
	APIKey     string
	Timeout    time.Duration // Default: 30s
}

// NewHTTPClient creates a new webhook HTTP client
func NewHTTPClient(config Config) *HTTPClient {
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	// Optimized transport for high throughput and connection reuse
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ForceAttemptHTTP2:     true,
	}

	return &HTTPClient{
		webhookURL: config.WebhookURL,
		apiKey:     config.APIKey,
		httpClient: &http.Client{
			Timeout:   config.Timeout,
			Transport: transport,
		},
	}
}

func (c *HTTPClient) post(ctx context.Context, path string, reqBody, respBody interface{}) error {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.webhookURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, string(raw))
	}

	if err := json.NewDecoder(resp.Body).Decode(respBody); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Query implements Client.Query
func (c *HTTPClient) Query(ctx context.Context, req QueryRequest) (*QueryResponse, error) {
	var resp QueryResponse
	if err := c.post(ctx, "/query", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Ingest implements Client.Ingest
func (c *HTTPClient) Ingest(ctx context.Context, req IngestRequest) (*IngestResponse, error) {
	var resp IngestResponse
	if err := c.post(ctx, "/ingest", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Translate implements Client.Translate
func (c *HTTPClient) Translate(ctx context.Context, req TranslateRequest) (*TranslateResponse, error) {
	var resp TranslateResponse
	if err := c.post(ctx, "/translate", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TranslateBatch implements Client.TranslateBatch
func (c *HTTPClient) TranslateBatch(ctx context.Context, req BatchTranslateRequest) (*BatchTranslateResponse, error) {
	var resp BatchTranslateResponse
	if err := c.post(ctx, "/translate-batch", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Detect implements Client.Detect
func (c *HTTPClient) Detect(ctx context.Context, req DetectRequest) (*DetectResponse, error) {
	var resp DetectResponse
	if err := c.post(ctx, "/detect", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Simplify implements Client.Simplify
func (c *HTTPClient) Simplify(ctx context.Context, req SimplifyRequest) (*SimplifyResponse, error) {
	var resp SimplifyResponse
	if err := c.post(ctx, "/simplify", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
