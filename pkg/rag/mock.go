package rag

import (
	"context"
	"sync"
)

// MockClient implements the Client interface for testing
type MockClient struct {
	mu sync.Mutex

	// Per-method hooks for customizing behavior
	QueryFunc          func(context.Context, QueryRequest) (*QueryResponse, error)
	IngestFunc         func(context.Context, IngestRequest) (*IngestResponse, error)
	TranslateFunc      func(context.Context, TranslateRequest) (*TranslateResponse, error)
	TranslateBatchFunc func(context.Context, BatchTranslateRequest) (*BatchTranslateResponse, error)
	DetectFunc         func(context.Context, DetectRequest) (*DetectResponse, error)
	SimplifyFunc       func(context.Context, SimplifyRequest) (*SimplifyResponse, error)

	// Tracking for assertions
	QueryCalls          []QueryRequest
	IngestCalls         []IngestRequest
	TranslateCalls      []TranslateRequest
	TranslateBatchCalls []BatchTranslateRequest
	DetectCalls         []DetectRequest
	SimplifyCalls       []SimplifyRequest
}

var _ Client = (*MockClient)(nil)

// NewMockClient creates a new mock client with default behavior
func NewMockClient() *MockClient {
	return &MockClient{}
}

// Query implements Client.Query
func (m *MockClient) Query(ctx context.Context, req QueryRequest) (*QueryResponse, error) {
	m.mu.Lock()
	m.QueryCalls = append(m.QueryCalls, req)
	m.mu.Unlock()

	if m.QueryFunc != nil {
		return m.QueryFunc(ctx, req)
	}
	return &QueryResponse{
		Answer:   "This is a mock answer.",
		Language: req.Language,
	}, nil
}

// Ingest implements Client.Ingest
func (m *MockClient) Ingest(ctx context.Context, req IngestRequest) (*IngestResponse, error) {
	m.mu.Lock()
	m.IngestCalls = append(m.IngestCalls, req)
	m.mu.Unlock()

	if m.IngestFunc != nil {
		return m.IngestFunc(ctx, req)
	}
	return &IngestResponse{DocumentID: req.DocumentID, Chunks: 1}, nil
}

// Translate implements Client.Translate. The default behavior prefixes
// the target language so tests can tell translated text from echoes.
func (m *MockClient) Translate(ctx context.Context, req TranslateRequest) (*TranslateResponse, error) {
	m.mu.Lock()
	m.TranslateCalls = append(m.TranslateCalls, req)
	m.mu.Unlock()

	if m.TranslateFunc != nil {
		return m.TranslateFunc(ctx, req)
	}
	return &TranslateResponse{
		TranslatedText: "[" + req.TargetLanguage + "] " + req.Text,
	}, nil
}

// TranslateBatch implements Client.TranslateBatch
func (m *MockClient) TranslateBatch(ctx context.Context, req BatchTranslateRequest) (*BatchTranslateResponse, error) {
	m.mu.Lock()
	m.TranslateBatchCalls = append(m.TranslateBatchCalls, req)
	m.mu.Unlock()

	if m.TranslateBatchFunc != nil {
		return m.TranslateBatchFunc(ctx, req)
	}
	translations := make([]string, len(req.Texts))
	for i, text := range req.Texts {
		translations[i] = "[" + req.TargetLanguage + "] " + text
	}
	return &BatchTranslateResponse{Translations: translations}, nil
}

// Detect implements Client.Detect
func (m *MockClient) Detect(ctx context.Context, req DetectRequest) (*DetectResponse, error) {
	m.mu.Lock()
	m.DetectCalls = append(m.DetectCalls, req)
	m.mu.Unlock()

	if m.DetectFunc != nil {
		return m.DetectFunc(ctx, req)
	}
	return &DetectResponse{Language: "english", Confidence: 0.9}, nil
}

// Simplify implements Client.Simplify
func (m *MockClient) Simplify(ctx context.Context, req SimplifyRequest) (*SimplifyResponse, error) {
	m.mu.Lock()
	m.SimplifyCalls = append(m.SimplifyCalls, req)
	m.mu.Unlock()

	if m.SimplifyFunc != nil {
		return m.SimplifyFunc(ctx, req)
	}
	return &SimplifyResponse{SimplifiedText: "In plain terms: " + req.Text}, nil
}

// Reset clears the call history
func (m *MockClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.QueryCalls = nil
	m.IngestCalls = nil
	m.TranslateCalls = nil
	m.TranslateBatchCalls = nil
	m.DetectCalls = nil
	m.SimplifyCalls = nil
}

// TranslateCallCount returns the number of single-translate calls made
func (m *MockClient) TranslateCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.TranslateCalls)
}

// TranslateBatchCallCount returns the number of batch-translate calls made
func (m *MockClient) TranslateBatchCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.TranslateBatchCalls)
}

// QueryCallCount returns the number of query calls made
func (m *MockClient) QueryCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.QueryCalls)
}
