package rag

import (
	"context"
	"errors"
	"testing"
)

func TestMockClient_Defaults(t *testing.T) {
	mock := NewMockClient()
	ctx := context.Background()

	resp, err := mock.Translate(ctx, TranslateRequest{Text: "hello", TargetLanguage: "hindi"})
	if err != nil {
		t.Fatalf("Translate error = %v", err)
	}
	if resp.TranslatedText != "[hindi] hello" {
		t.Errorf("TranslatedText = %q", resp.TranslatedText)
	}

	batch, err := mock.TranslateBatch(ctx, BatchTranslateRequest{
		Texts:          []string{"one", "two"},
		TargetLanguage: "spanish",
	})
	if err != nil {
		t.Fatalf("TranslateBatch error = %v", err)
	}
	if len(batch.Translations) != 2 || batch.Translations[1] != "[spanish] two" {
		t.Errorf("Translations = %v", batch.Translations)
	}

	det, err := mock.Detect(ctx, DetectRequest{Text: "hello"})
	if err != nil || det.Language != "english" {
		t.Errorf("Detect = %+v, err = %v", det, err)
	}
}

func TestMockClient_HooksAndTracking(t *testing.T) {
	mock := NewMockClient()
	mock.TranslateFunc = func(ctx context.Context, req TranslateRequest) (*TranslateResponse, error) {
		return nil, errors.New("provider down")
	}

	_, err := mock.Translate(context.Background(), TranslateRequest{Text: "x", TargetLanguage: "tamil"})
	if err == nil {
		t.Fatal("expected hook error")
	}

	if mock.TranslateCallCount() != 1 {
		t.Errorf("TranslateCallCount = %d, want 1", mock.TranslateCallCount())
	}
	if mock.TranslateCalls[0].TargetLanguage != "tamil" {
		t.Errorf("recorded target = %q", mock.TranslateCalls[0].TargetLanguage)
	}

	mock.Reset()
	if mock.TranslateCallCount() != 0 {
		t.Errorf("TranslateCallCount after Reset = %d", mock.TranslateCallCount())
	}
}

func TestDisabled_AlwaysErrors(t *testing.T) {
	client := NewDisabled()
	ctx := context.Background()

	if _, err := client.Query(ctx, QueryRequest{}); !errors.Is(err, ErrDisabled) {
		t.Errorf("Query error = %v, want ErrDisabled", err)
	}
	if _, err := client.Translate(ctx, TranslateRequest{}); !errors.Is(err, ErrDisabled) {
		t.Errorf("Translate error = %v, want ErrDisabled", err)
	}
	if _, err := client.Simplify(ctx, SimplifyRequest{}); !errors.Is(err, ErrDisabled) {
		t.Errorf("Simplify error = %v, want ErrDisabled", err)
	}
}
