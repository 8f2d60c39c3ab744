package rag

import (
	"context"
	"errors"
)

// ErrDisabled is returned by the Disabled client for every call
var ErrDisabled = errors.New("rag webhook not configured")

// Disabled is a no-op client for environments without a webhook URL.
// Callers treat its errors like any provider failure and fall back.
type Disabled struct{}

var _ Client = Disabled{}

// NewDisabled creates a disabled client
func NewDisabled() Disabled {
	return Disabled{}
}

func (Disabled) Query(ctx context.Context, req QueryRequest) (*QueryResponse, error) {
	return nil, ErrDisabled
}

func (Disabled) Ingest(ctx context.Context, req IngestRequest) (*IngestResponse, error) {
	return nil, ErrDisabled
}

func (Disabled) Translate(ctx context.Context, req TranslateRequest) (*TranslateResponse, error) {
	return nil, ErrDisabled
}

func (Disabled) TranslateBatch(ctx context.Context, req BatchTranslateRequest) (*BatchTranslateResponse, error) {
	return nil, ErrDisabled
}

func (Disabled) Detect(ctx context.Context, req DetectRequest) (*DetectResponse, error) {
	return nil, ErrDisabled
}

func (Disabled) Simplify(ctx context.Context, req SimplifyRequest) (*SimplifyResponse, error) {
	return nil, ErrDisabled
}
