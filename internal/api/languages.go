package api

import (
	"net/http"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/simplymedi/simplymedi-be/internal/language"
	"github.com/simplymedi/simplymedi-be/internal/translation"
)

// maxTranslateInput bounds how much text a single translation-shaped request
// may carry, in runes.
const maxTranslateInput = 10000

// maxBatchTexts bounds how many strings one batch request may carry.
const maxBatchTexts = 100

// LanguagesHandler serves the language catalog, locale formatting rules, and
// the translation endpoints backed by the shared translation service.
type LanguagesHandler struct {
	languages  *language.Manager
	translator *translation.Service
}

func NewLanguagesHandler(languages *language.Manager, translator *translation.Service) *LanguagesHandler {
	return &LanguagesHandler{languages: languages, translator: translator}
}

// Supported lists the enabled catalog entries.
func (h *LanguagesHandler) Supported(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"languages": h.languages.List()})
}

// FormattingRules returns the locale rules for a language code. Unknown
// codes get the base language's rules with the fallback flag set.
func (h *LanguagesHandler) FormattingRules(c *gin.Context) {
	rules, usedFallback := language.RulesFor(c.Param("code"))
	c.JSON(http.StatusOK, gin.H{"rules": rules, "used_fallback": usedFallback})
}

type TranslateRequest struct {
	Text           string `json:"text" binding:"required"`
	SourceLanguage string `json:"source_language"`
	TargetLanguage string `json:"target_language" binding:"required"`
	Quality        string `json:"quality"`
}

// Translate converts text into the target language. Degradation never
// errors: unknown targets and provider failures echo the input with
// used_fallback set.
func (h *LanguagesHandler) Translate(c *gin.Context) {
	var req TranslateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text and target_language are required"})
		return
	}
	if utf8.RuneCountInString(req.Text) > maxTranslateInput {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is too long"})
		return
	}

	source := req.SourceLanguage
	if source == "" {
		source = language.BaseLanguage
	}

	c.JSON(http.StatusOK, h.translator.Translate(c.Request.Context(), req.Text, source, req.TargetLanguage, req.Quality))
}

type TranslateUIRequest struct {
	Text           string `json:"text" binding:"required"`
	TargetLanguage string `json:"target_language" binding:"required"`
	Context        string `json:"context"`
}

// TranslateUI translates an interface string through the server-side cache.
func (h *LanguagesHandler) TranslateUI(c *gin.Context) {
	var req TranslateUIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text and target_language are required"})
		return
	}
	if utf8.RuneCountInString(req.Text) > maxTranslateInput {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is too long"})
		return
	}

	c.JSON(http.StatusOK, h.translator.TranslateUI(c.Request.Context(), req.Text, req.TargetLanguage, req.Context))
}

type TranslateBatchRequest struct {
	Texts          []string `json:"texts" binding:"required"`
	TargetLanguage string   `json:"target_language" binding:"required"`
	Context        string   `json:"context"`
}

// TranslateBatch translates a batch of interface strings. Cache misses take
// one provider round trip; any position the provider cannot cover echoes
// its input.
func (h *LanguagesHandler) TranslateBatch(c *gin.Context) {
	var req TranslateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "texts and target_language are required"})
		return
	}
	if len(req.Texts) > maxBatchTexts {
		c.JSON(http.StatusBadRequest, gin.H{"error": "too many texts in one batch"})
		return
	}
	for _, text := range req.Texts {
		if utf8.RuneCountInString(text) > maxTranslateInput {
			c.JSON(http.StatusBadRequest, gin.H{"error": "text is too long"})
			return
		}
	}

	results := h.translator.TranslateBatch(c.Request.Context(), req.Texts, req.TargetLanguage, req.Context)
	c.JSON(http.StatusOK, gin.H{"results": results})
}

type DetectRequest struct {
	Text string `json:"text" binding:"required"`
}

// Detect identifies the language of a piece of text. Provider failure
// resolves to the base language rather than an error.
func (h *LanguagesHandler) Detect(c *gin.Context) {
	var req DetectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}
	if utf8.RuneCountInString(req.Text) > maxTranslateInput {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is too long"})
		return
	}

	c.JSON(http.StatusOK, h.translator.Detect(c.Request.Context(), req.Text))
}

type SimplifyTextRequest struct {
	Text           string `json:"text" binding:"required"`
	TargetLanguage string `json:"target_language"`
	Quality        string `json:"quality"`
}

// Simplify rewrites medical text in plain language. Provider failure echoes
// the input with used_fallback set.
func (h *LanguagesHandler) Simplify(c *gin.Context) {
	var req SimplifyTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}
	if utf8.RuneCountInString(req.Text) > maxTranslateInput {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is too long"})
		return
	}

	c.JSON(http.StatusOK, h.translator.Simplify(c.Request.Context(), req.Text, req.TargetLanguage, req.Quality))
}
