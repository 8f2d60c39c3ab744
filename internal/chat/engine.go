package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/simplymedi/simplymedi-be/internal/appointments"
	"github.com/simplymedi/simplymedi-be/internal/circuitbreaker"
	"github.com/simplymedi/simplymedi-be/internal/classifier"
	"github.com/simplymedi/simplymedi-be/internal/db"
	"github.com/simplymedi/simplymedi-be/internal/fallback"
	"github.com/simplymedi/simplymedi-be/internal/language"
	"github.com/simplymedi/simplymedi-be/internal/memory"
	"github.com/simplymedi/simplymedi-be/internal/privacy"
	"github.com/simplymedi/simplymedi-be/pkg/rag"
)

// historyDepth is how many prior turns travel with each provider query.
const historyDepth = 10

// reportContextLimit caps how many recent reports are summarized into the
// provider query for report and medical questions.
const reportContextLimit = 3

// Responder defines the interface for sending responses to any transport
type Responder interface {
	SendMessage(content string) error
	SendSuggestion(suggestion appointments.Suggestion) error
	SendError(message string) error
	SendDone() error
	SetConversationID(id string)
}

// ProcessRequest contains all data needed to process a message
type ProcessRequest struct {
	UserID         string
	ConversationID string
	Message        string
	Language       string
	Responder      Responder
}

// Engine handles core conversation logic independent of transport
type Engine struct {
	classifier     ClassifierInterface
	memoryManager  MemoryInterface
	historyLoader  HistoryLoader
	ragClient      rag.Client
	apptSuggester  SuggesterInterface
	langManager    LanguageInterface
	db             DBInterface
	circuitBreaker *circuitbreaker.Breaker
	logger         zerolog.Logger
	ragTimeout     time.Duration
}

// Interfaces for dependencies
type ClassifierInterface interface {
	Classify(text string) classifier.Result
}

type MemoryInterface interface {
	Append(conversationID string, msg memory.Message)
	History(conversationID string) []memory.Message
	Has(conversationID string) bool
	Hydrate(conversationID string, msgs []memory.Message)
}

type HistoryLoader interface {
	RecentMessages(ctx context.Context, conversationID string, limit int) ([]memory.Message, error)
}

type SuggesterInterface interface {
	ShouldSuggest(intent classifier.Intent, message string) appointments.SuggestionResult
	BuildSuggestion(intent classifier.Intent, message string, result appointments.SuggestionResult) appointments.Suggestion
}

type LanguageInterface interface {
	Validate(code string) language.ValidationResult
}

type DBInterface interface {
	CreateConversation(ctx context.Context, userID string, title *string) (*db.Conversation, error)
	GetConversation(ctx context.Context, id string) (*db.Conversation, error)
	SaveConversationMessage(ctx context.Context, msg *db.Message) error
	GetUserReports(ctx context.Context, userID string, limit, offset int) ([]db.Report, error)
}

// NewEngine creates a new transport-agnostic chat engine
func NewEngine(
	cls ClassifierInterface,
	mem MemoryInterface,
	hist HistoryLoader,
	client rag.Client,
	sug SuggesterInterface,
	lm LanguageInterface,
	database DBInterface,
	logger zerolog.Logger,
) *Engine {
	return &Engine{
		classifier:     cls,
		memoryManager:  mem,
		historyLoader:  hist,
		ragClient:      client,
		apptSuggester:  sug,
		langManager:    lm,
		db:             database,
		circuitBreaker: circuitbreaker.New(5, 2*time.Minute),
		logger:         logger.With().Str("component", "chat").Logger(),
		ragTimeout:     30 * time.Second,
	}
}

// ProcessMessage processes a chat message and sends responses via the
// provided responder. It returns the conversation ID, which may have been
// created here.
func (e *Engine) ProcessMessage(ctx context.Context, req ProcessRequest) (string, error) {
	lang := e.langManager.Validate(req.Language).Code

	conversationID, err := e.resolveConversation(ctx, req)
	if err != nil {
		req.Responder.SendError("conversation not found")
		return "", err
	}
	req.Responder.SetConversationID(conversationID)

	if privacy.ContainsPII(req.Message) {
		e.logger.Warn().Str("user_id", req.UserID).Msg("potential PII detected in message")
	}

	result := e.classifier.Classify(req.Message)
	e.logger.Debug().
		Str("conversation_id", conversationID).
		Str("intent", string(result.Intent)).
		Float64("confidence", result.Confidence).
		Msg("intent classified")

	// Hydrate the rolling window from the database before this turn joins
	// it, so the provider sees prior turns after a restart too.
	if !e.memoryManager.Has(conversationID) {
		msgs, err := e.historyLoader.RecentMessages(ctx, conversationID, historyDepth)
		if err != nil {
			e.logger.Warn().Err(err).Str("conversation_id", conversationID).Msg("failed to load history")
		} else {
			e.memoryManager.Hydrate(conversationID, msgs)
		}
	}
	window := e.memoryManager.History(conversationID)

	userMsg := &db.Message{
		ConversationID: conversationID,
		UserID:         req.UserID,
		Role:           db.RoleUser,
		Content:        req.Message,
		Language:       lang,
	}
	if err := e.db.SaveConversationMessage(ctx, userMsg); err != nil {
		return conversationID, fmt.Errorf("failed to save message: %w", err)
	}
	e.memoryManager.Append(conversationID, memory.Message{
		Role:      db.RoleUser,
		Content:   req.Message,
		Language:  lang,
		Timestamp: time.Now(),
	})

	if result.Intent == classifier.IntentSmallTalk || result.Intent == classifier.IntentGratitude {
		canned := cannedResponse(result.Intent, lang)
		if err := e.respond(ctx, req, conversationID, lang, canned); err != nil {
			return conversationID, err
		}
		return conversationID, req.Responder.SendDone()
	}

	answer, askErr := e.askProvider(ctx, req, conversationID, lang, result.Intent, window)
	if askErr != nil {
		answer = e.degradedAnswer(askErr, result.Intent, lang)
	}

	if err := e.respond(ctx, req, conversationID, lang, answer); err != nil {
		return conversationID, err
	}

	if sres := e.apptSuggester.ShouldSuggest(result.Intent, req.Message); sres.ShouldSuggest {
		suggestion := e.apptSuggester.BuildSuggestion(result.Intent, req.Message, sres)
		if err := req.Responder.SendSuggestion(suggestion); err != nil {
			return conversationID, err
		}
	}

	return conversationID, req.Responder.SendDone()
}

// resolveConversation finds or creates the conversation for this turn. A
// conversation named by the client must belong to the requesting user.
func (e *Engine) resolveConversation(ctx context.Context, req ProcessRequest) (string, error) {
	if req.ConversationID == "" {
		title := conversationTitle(req.Message)
		conv, err := e.db.CreateConversation(ctx, req.UserID, &title)
		if err != nil {
			return "", fmt.Errorf("failed to create conversation: %w", err)
		}
		// A fresh conversation has no persisted history to hydrate.
		e.memoryManager.Hydrate(conv.ID, nil)
		e.logger.Debug().Str("conversation_id", conv.ID).Msg("created conversation")
		return conv.ID, nil
	}

	conv, err := e.db.GetConversation(ctx, req.ConversationID)
	if err != nil {
		return "", err
	}
	if conv.UserID != req.UserID {
		return "", db.ErrNotFound
	}
	return conv.ID, nil
}

// askProvider sends the redacted question plus conversation context to the
// RAG service through the circuit breaker.
func (e *Engine) askProvider(ctx context.Context, req ProcessRequest, conversationID, lang string, intent classifier.Intent, window []memory.Message) (string, error) {
	history := make([]rag.Turn, 0, len(window))
	for _, msg := range window {
		history = append(history, rag.Turn{
			Role:    msg.Role,
			Content: privacy.RedactSensitiveData(msg.Content),
		})
	}

	query := rag.QueryRequest{
		Query:          privacy.RedactSensitiveData(req.Message),
		UserID:         req.UserID,
		ConversationID: conversationID,
		Language:       lang,
		History:        history,
	}
	if intent == classifier.IntentReportQ || intent == classifier.IntentMedicalQ {
		query.ReportContext = e.reportContext(ctx, req.UserID)
	}

	var answer string
	err := e.circuitBreaker.Call(func() error {
		callCtx, cancel := context.WithTimeout(ctx, e.ragTimeout)
		defer cancel()

		resp, err := e.ragClient.Query(callCtx, query)
		if err != nil {
			return err
		}
		if resp.Answer == "" {
			return fmt.Errorf("empty answer from provider")
		}
		answer = resp.Answer
		return nil
	})
	return answer, err
}

// reportContext summarizes the user's most recent reports for grounding.
// Best effort. Chat works without it.
func (e *Engine) reportContext(ctx context.Context, userID string) []string {
	reports, err := e.db.GetUserReports(ctx, userID, reportContextLimit, 0)
	if err != nil {
		e.logger.Warn().Err(err).Msg("failed to load report context")
		return nil
	}

	var entries []string
	for _, rep := range reports {
		entry := rep.Title
		if rep.SimplifiedText != nil {
			entry += ": " + truncateRunes(*rep.SimplifiedText, 280)
		}
		entries = append(entries, privacy.RedactSensitiveData(entry))
	}
	return entries
}

// degradedAnswer picks the canned reply matching how the provider failed.
func (e *Engine) degradedAnswer(err error, intent classifier.Intent, lang string) string {
	e.logger.Warn().Err(err).Str("intent", string(intent)).Msg("provider query failed, using fallback")

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fallback.GetTimeoutResponse(lang).Content
	case errors.Is(err, circuitbreaker.ErrCircuitOpen):
		return fallback.GetCircuitOpenResponse(lang).Content
	default:
		return fallback.GetFallbackResponse(intent, lang).Content
	}
}

// respond sends the assistant's reply and records it in the database and the
// rolling window.
func (e *Engine) respond(ctx context.Context, req ProcessRequest, conversationID, lang, content string) error {
	if err := req.Responder.SendMessage(content); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	msg := &db.Message{
		ConversationID: conversationID,
		UserID:         req.UserID,
		Role:           db.RoleAssistant,
		Content:        content,
		Language:       lang,
	}
	if err := e.db.SaveConversationMessage(ctx, msg); err != nil {
		e.logger.Warn().Err(err).Str("conversation_id", conversationID).Msg("failed to save assistant message")
	}
	e.memoryManager.Append(conversationID, memory.Message{
		Role:      db.RoleAssistant,
		Content:   content,
		Language:  lang,
		Timestamp: time.Now(),
	})
	return nil
}

var smallTalkResponses = map[string]string{
	"english": "Hello! I'm here to help with your health questions, reports, and appointments. What can I do for you today?",
	"hindi":   "नमस्ते! मैं आपके स्वास्थ्य संबंधी सवालों, रिपोर्ट और अपॉइंटमेंट में मदद के लिए यहाँ हूँ। आज मैं आपके लिए क्या कर सकता हूँ?",
	"spanish": "¡Hola! Estoy aquí para ayudarte con tus preguntas de salud, informes y citas. ¿Qué puedo hacer por ti hoy?",
	"french":  "Bonjour ! Je suis là pour vous aider avec vos questions de santé, vos comptes rendus et vos rendez-vous. Que puis-je faire pour vous ?",
	"arabic":  "مرحباً! أنا هنا لمساعدتك في أسئلتك الصحية وتقاريرك ومواعيدك. كيف يمكنني خدمتك اليوم؟",
}

var gratitudeResponses = map[string]string{
	"english": "You're very welcome! I'm glad I could help. Take care of yourself.",
	"hindi":   "आपका बहुत स्वागत है! खुशी हुई कि मैं मदद कर सका। अपना ध्यान रखें।",
	"spanish": "¡De nada! Me alegra haber podido ayudar. Cuídate mucho.",
	"french":  "Avec plaisir ! Ravi d'avoir pu vous aider. Prenez soin de vous.",
	"arabic":  "على الرحب والسعة! يسعدني أنني استطعت المساعدة. اعتنِ بنفسك.",
}

// cannedResponse answers small talk and thanks without a provider round
// trip.
func cannedResponse(intent classifier.Intent, language string) string {
	table := smallTalkResponses
	if intent == classifier.IntentGratitude {
		table = gratitudeResponses
	}
	if resp, ok := table[language]; ok {
		return resp
	}
	return table["english"]
}

// conversationTitle derives a short title from the first message.
func conversationTitle(message string) string {
	runes := []rune(strings.TrimSpace(message))
	if len(runes) > 60 {
		return string(runes[:57]) + "..."
	}
	return string(runes)
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
