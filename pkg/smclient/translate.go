package smclient

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// TranslationResult is a translation outcome plus the path that produced
// it. UsedFallback means the caller is looking at echoed input; Cached
// means the local cache answered without a network call.
type TranslationResult struct {
	Text         string
	UsedFallback bool
	Cached       bool
}

// DetectionResult is a language-detection outcome.
type DetectionResult struct {
	Language     string
	Confidence   float64
	UsedFallback bool
}

const defaultCacheSize = 512

type uiCacheKey struct {
	text     string
	language string
	context  string
}

// Translator is the translation facade over the client and store. The
// server is an optional enhancement: every method degrades to the
// original text rather than returning an error, so rendering never
// blocks on translation availability.
type Translator struct {
	client *Client
	store  *Store
	log    zerolog.Logger

	mu    sync.Mutex
	cache map[uiCacheKey]string
	order []uiCacheKey
	limit int
}

func NewTranslator(client *Client, store *Store) *Translator {
	return &Translator{
		client: client,
		store:  store,
		log:    client.log,
		cache:  make(map[uiCacheKey]string),
		limit:  defaultCacheSize,
	}
}

// TranslateText translates text into the target language, defaulting to
// the current language. With auto-translate off, or a base-language
// target, the input comes back untouched.
func (t *Translator) TranslateText(ctx context.Context, text, target string) TranslationResult {
	prefs := t.store.Preferences()
	if target == "" {
		target = t.store.Language()
	}
	if !prefs.AutoTranslate || target == BaseLanguage || strings.TrimSpace(text) == "" {
		return TranslationResult{Text: text}
	}

	resp, err := t.client.Translate(ctx, TranslateRequest{
		Text:           text,
		TargetLanguage: target,
		Quality:        prefs.TranslationQuality,
	})
	if err != nil {
		t.log.Debug().Err(err).Msg("translation failed, echoing original")
		return TranslationResult{Text: text, UsedFallback: true}
	}
	return TranslationResult{Text: resp.Text, UsedFallback: resp.UsedFallback}
}

// TranslateUI translates an interface string through a read-through
// cache keyed by (text, current language, context). A hit skips the
// network entirely. Only real translations are cached, so a degraded
// answer is retried next time.
func (t *Translator) TranslateUI(ctx context.Context, text, uiContext string) TranslationResult {
	prefs := t.store.Preferences()
	code := t.store.Language()
	if !prefs.AutoTranslate || code == BaseLanguage || strings.TrimSpace(text) == "" {
		return TranslationResult{Text: text}
	}

	key := uiCacheKey{text: text, language: code, context: uiContext}
	if cached, ok := t.lookup(key); ok {
		return TranslationResult{Text: cached, Cached: true}
	}

	resp, err := t.client.TranslateUI(ctx, TranslateUIRequest{
		Text:           text,
		TargetLanguage: code,
		Context:        uiContext,
	})
	if err != nil {
		t.log.Debug().Err(err).Msg("ui translation failed, echoing original")
		return TranslationResult{Text: text, UsedFallback: true}
	}
	if resp.UsedFallback {
		return TranslationResult{Text: resp.Text, UsedFallback: true}
	}

	t.remember(key, resp.Text)
	return TranslationResult{Text: resp.Text}
}

// TranslateUIBatch resolves several interface strings with at most one
// remote call for whatever the cache is missing. Results keep input
// order. A failed call, or a reply shorter than the request, degrades
// the affected entries to their original text.
func (t *Translator) TranslateUIBatch(ctx context.Context, texts []string, uiContext string) []TranslationResult {
	results := make([]TranslationResult, len(texts))

	prefs := t.store.Preferences()
	code := t.store.Language()
	if !prefs.AutoTranslate || code == BaseLanguage {
		for i, text := range texts {
			results[i] = TranslationResult{Text: text}
		}
		return results
	}

	var missing []string
	var missingIdx []int
	for i, text := range texts {
		if strings.TrimSpace(text) == "" {
			results[i] = TranslationResult{Text: text}
			continue
		}
		key := uiCacheKey{text: text, language: code, context: uiContext}
		if cached, ok := t.lookup(key); ok {
			results[i] = TranslationResult{Text: cached, Cached: true}
			continue
		}
		missing = append(missing, text)
		missingIdx = append(missingIdx, i)
	}
	if len(missing) == 0 {
		return results
	}

	resp, err := t.client.TranslateBatch(ctx, TranslateBatchRequest{
		Texts:          missing,
		TargetLanguage: code,
		Context:        uiContext,
	})
	if err != nil {
		t.log.Debug().Err(err).Int("texts", len(missing)).Msg("batch translation failed, echoing originals")
		for _, i := range missingIdx {
			results[i] = TranslationResult{Text: texts[i], UsedFallback: true}
		}
		return results
	}

	for n, i := range missingIdx {
		if n >= len(resp) {
			results[i] = TranslationResult{Text: texts[i], UsedFallback: true}
			continue
		}
		if resp[n].UsedFallback {
			results[i] = TranslationResult{Text: resp[n].Text, UsedFallback: true}
			continue
		}
		results[i] = TranslationResult{Text: resp[n].Text}
		t.remember(uiCacheKey{text: texts[i], language: code, context: uiContext}, resp[n].Text)
	}
	return results
}

// DetectLanguage asks the server which language the text is written in.
// Failure answers with the base language.
func (t *Translator) DetectLanguage(ctx context.Context, text string) DetectionResult {
	resp, err := t.client.Detect(ctx, text)
	if err != nil {
		t.log.Debug().Err(err).Msg("language detection failed, assuming base language")
		return DetectionResult{Language: BaseLanguage, UsedFallback: true}
	}
	return DetectionResult{
		Language:     resp.Language,
		Confidence:   resp.Confidence,
		UsedFallback: resp.UsedFallback,
	}
}

// SimplifyMedicalText rewrites medical text in plain terms in the
// current language. Failure returns the original text.
func (t *Translator) SimplifyMedicalText(ctx context.Context, text string) TranslationResult {
	resp, err := t.client.Simplify(ctx, SimplifyRequest{
		Text:           text,
		TargetLanguage: t.store.Language(),
		Quality:        t.store.Preferences().TranslationQuality,
	})
	if err != nil {
		t.log.Debug().Err(err).Msg("simplification failed, echoing original")
		return TranslationResult{Text: text, UsedFallback: true}
	}
	return TranslationResult{Text: resp.Text, UsedFallback: resp.UsedFallback}
}

func (t *Translator) lookup(key uiCacheKey) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	text, ok := t.cache[key]
	return text, ok
}

// remember stores a translation, evicting oldest-first once full.
// Switching language leaves other languages' entries in place; the keys
// embed the code.
func (t *Translator) remember(key uiCacheKey, text string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.cache[key]; !exists {
		for len(t.order) >= t.limit {
			oldest := t.order[0]
			t.order = t.order[1:]
			delete(t.cache, oldest)
		}
		t.order = append(t.order, key)
	}
	t.cache[key] = text
}
