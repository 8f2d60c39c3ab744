package translation

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/simplymedi/simplymedi-be/internal/circuitbreaker"
	"github.com/simplymedi/simplymedi-be/internal/language"
	"github.com/simplymedi/simplymedi-be/pkg/rag"
)

// Result is what every translation-shaped call returns. The service never
// fails outright: when the provider is down, slow, or returns garbage, Text
// carries the original input and UsedFallback is set.
type Result struct {
	Text         string `json:"text"`
	UsedFallback bool   `json:"used_fallback"`
	Cached       bool   `json:"cached"`
}

// Detection is the outcome of language detection.
type Detection struct {
	Language     string  `json:"language"`
	Confidence   float64 `json:"confidence"`
	UsedFallback bool    `json:"used_fallback"`
}

// Catalog reports which target languages translations may resolve to.
type Catalog interface {
	IsSupported(code string) bool
}

// Service fronts the RAG provider's translation endpoints with the policies
// the rest of the server relies on: identity fast paths, a shared bounded
// cache for UI strings, a circuit breaker, and echo-on-failure everywhere.
type Service struct {
	provider rag.Client
	catalog  Catalog
	cache    *Cache
	breaker  *circuitbreaker.Breaker
	logger   zerolog.Logger
	timeout  time.Duration
}

// NewService wires the translation façade. The breaker trips after five
// consecutive provider failures and probes again after thirty seconds.
func NewService(provider rag.Client, catalog Catalog, logger zerolog.Logger) *Service {
	return &Service{
		provider: provider,
		catalog:  catalog,
		cache:    NewCache(DefaultCacheSize),
		breaker:  circuitbreaker.New(5, 30*time.Second),
		logger:   logger.With().Str("component", "translation").Logger(),
		timeout:  15 * time.Second,
	}
}

// Translate converts text into the target language. Empty text, a target
// equal to the source, or a target outside the catalog all short-circuit to
// an echo without touching the provider.
func (s *Service) Translate(ctx context.Context, text, source, target, quality string) Result {
	if text == "" || target == source {
		return Result{Text: text}
	}
	if !s.catalog.IsSupported(target) {
		return Result{Text: text, UsedFallback: true}
	}

	var resp *rag.TranslateResponse
	err := s.callProvider(ctx, func(callCtx context.Context) error {
		var callErr error
		resp, callErr = s.provider.Translate(callCtx, rag.TranslateRequest{
			Text:           text,
			SourceLanguage: source,
			TargetLanguage: target,
			Quality:        quality,
		})
		return callErr
	})
	if err != nil || resp.TranslatedText == "" {
		s.logSoftFail("translate", target, err)
		return Result{Text: text, UsedFallback: true}
	}
	return Result{Text: resp.TranslatedText}
}

// TranslateUI translates an interface string through the shared cache.
// Successful translations are cached; failure echoes are not, so the next
// request retries once the provider recovers.
func (s *Service) TranslateUI(ctx context.Context, text, target, uiContext string) Result {
	if text == "" || target == language.BaseLanguage {
		return Result{Text: text}
	}
	if !s.catalog.IsSupported(target) {
		return Result{Text: text, UsedFallback: true}
	}

	if cached, ok := s.cache.Get(text, target, uiContext); ok {
		return Result{Text: cached, Cached: true}
	}

	var resp *rag.TranslateResponse
	err := s.callProvider(ctx, func(callCtx context.Context) error {
		var callErr error
		resp, callErr = s.provider.Translate(callCtx, rag.TranslateRequest{
			Text:           text,
			SourceLanguage: language.BaseLanguage,
			TargetLanguage: target,
			Context:        uiContext,
		})
		return callErr
	})
	if err != nil || resp.TranslatedText == "" {
		s.logSoftFail("translate_ui", target, err)
		return Result{Text: text, UsedFallback: true}
	}

	s.cache.Put(text, target, uiContext, resp.TranslatedText)
	return Result{Text: resp.TranslatedText}
}

// TranslateBatch translates a slice of UI strings in one provider round trip.
// Cache hits are served locally and only the misses travel. The returned
// slice is index-aligned with the input; any position the provider fails to
// cover echoes its input with the fallback flag set.
func (s *Service) TranslateBatch(ctx context.Context, texts []string, target, uiContext string) []Result {
	results := make([]Result, len(texts))
	if len(texts) == 0 {
		return results
	}
	if target == language.BaseLanguage || !s.catalog.IsSupported(target) {
		fallback := target != language.BaseLanguage
		for i, text := range texts {
			results[i] = Result{Text: text, UsedFallback: fallback}
		}
		return results
	}

	var misses []string
	var missIndex []int
	for i, text := range texts {
		if text == "" {
			results[i] = Result{Text: ""}
			continue
		}
		if cached, ok := s.cache.Get(text, target, uiContext); ok {
			results[i] = Result{Text: cached, Cached: true}
			continue
		}
		misses = append(misses, text)
		missIndex = append(missIndex, i)
	}
	if len(misses) == 0 {
		return results
	}

	var resp *rag.BatchTranslateResponse
	err := s.callProvider(ctx, func(callCtx context.Context) error {
		var callErr error
		resp, callErr = s.provider.TranslateBatch(callCtx, rag.BatchTranslateRequest{
			Texts:          misses,
			TargetLanguage: target,
			Context:        uiContext,
		})
		return callErr
	})
	if err != nil {
		s.logSoftFail("translate_batch", target, err)
		for _, i := range missIndex {
			results[i] = Result{Text: texts[i], UsedFallback: true}
		}
		return results
	}

	for n, i := range missIndex {
		if n >= len(resp.Translations) || resp.Translations[n] == "" {
			results[i] = Result{Text: texts[i], UsedFallback: true}
			continue
		}
		translated := resp.Translations[n]
		s.cache.Put(texts[i], target, uiContext, translated)
		results[i] = Result{Text: translated}
	}
	return results
}

// Detect identifies the language of a piece of text. When the provider
// cannot answer, the base language is assumed so downstream code always has
// a usable value.
func (s *Service) Detect(ctx context.Context, text string) Detection {
	if text == "" {
		return Detection{Language: language.BaseLanguage, UsedFallback: true}
	}

	var resp *rag.DetectResponse
	err := s.callProvider(ctx, func(callCtx context.Context) error {
		var callErr error
		resp, callErr = s.provider.Detect(callCtx, rag.DetectRequest{Text: text})
		return callErr
	})
	if err != nil || resp.Language == "" {
		s.logSoftFail("detect", "", err)
		return Detection{Language: language.BaseLanguage, UsedFallback: true}
	}
	return Detection{Language: resp.Language, Confidence: resp.Confidence}
}

// Simplify rewrites medical text in plain language. An empty target defaults
// to the base language; an unknown one falls back to it with the flag set.
// Provider failure echoes the input untouched.
func (s *Service) Simplify(ctx context.Context, text, target, quality string) Result {
	if text == "" {
		return Result{}
	}

	usedFallback := false
	switch {
	case target == "":
		target = language.BaseLanguage
	case !s.catalog.IsSupported(target):
		target = language.BaseLanguage
		usedFallback = true
	}

	var resp *rag.SimplifyResponse
	err := s.callProvider(ctx, func(callCtx context.Context) error {
		var callErr error
		resp, callErr = s.provider.Simplify(callCtx, rag.SimplifyRequest{
			Text:           text,
			TargetLanguage: target,
			Quality:        quality,
		})
		return callErr
	})
	if err != nil || resp.SimplifiedText == "" {
		s.logSoftFail("simplify", target, err)
		return Result{Text: text, UsedFallback: true}
	}
	return Result{Text: resp.SimplifiedText, UsedFallback: usedFallback}
}

// CacheSize reports how many translations are currently cached.
func (s *Service) CacheSize() int {
	return s.cache.Len()
}

func (s *Service) callProvider(ctx context.Context, fn func(context.Context) error) error {
	return s.breaker.Call(func() error {
		callCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()
		return fn(callCtx)
	})
}

func (s *Service) logSoftFail(op, target string, err error) {
	evt := s.logger.Warn().Str("op", op)
	if target != "" {
		evt = evt.Str("target", target)
	}
	if err != nil {
		evt = evt.Err(err)
	}
	evt.Msg("provider unavailable, echoing input")
}
