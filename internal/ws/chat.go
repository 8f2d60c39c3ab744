package ws

import (
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/simplymedi/simplymedi-be/internal/api/middleware"
	"github.com/simplymedi/simplymedi-be/internal/appointments"
	"github.com/simplymedi/simplymedi-be/internal/chat"
	"github.com/simplymedi/simplymedi-be/internal/db"
)

// messagesPerMinute caps chat throughput per connection
const messagesPerMinute = 20

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Auth happens via JWT, not origin
	},
}

// ChatHandler handles WebSocket chat connections
type ChatHandler struct {
	engine    *chat.Engine
	db        *db.DB
	jwtSecret string
	logger    zerolog.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(engine *chat.Engine, database *db.DB, jwtSecret string, logger zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		engine:    engine,
		db:        database,
		jwtSecret: jwtSecret,
		logger:    logger.With().Str("component", "ws").Logger(),
	}
}

// IncomingMessage represents a message from the client
type IncomingMessage struct {
	Type           string `json:"type"`
	Content        string `json:"content"`
	ConversationID string `json:"conversation_id,omitempty"`
	Language       string `json:"language,omitempty"`
}

// OutgoingMessage represents a frame sent to the client
type OutgoingMessage struct {
	Type           string      `json:"type"` // "message", "suggestion", "error", "done"
	Content        string      `json:"content,omitempty"`
	ConversationID string      `json:"conversation_id,omitempty"`
	Data           interface{} `json:"data,omitempty"`
}

// HandleChat authenticates the request and runs the connection's read loop
func (h *ChatHandler) HandleChat(c *gin.Context) {
	// Browsers cannot set headers on WebSocket dials, so the token may
	// arrive as a query parameter instead.
	token := c.Query("token")
	if token == "" {
		header := c.GetHeader("Authorization")
		token = strings.TrimPrefix(header, "Bearer ")
	}
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing token"})
		return
	}

	claims, err := middleware.ParseToken(token, h.jwtSecret)
	if err != nil || claims.TokenType == middleware.TokenTypeRefresh {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}
	userID := claims.UserID

	user, err := h.db.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unknown user"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	h.logger.Info().Str("user_id", userID).Str("language", user.Language).Msg("websocket connected")

	limiter := middleware.NewWebSocketLimiter(messagesPerMinute)
	responder := &wsResponder{conn: conn}

	for {
		var msg IncomingMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				h.logger.Warn().Err(err).Str("user_id", userID).Msg("websocket read error")
			}
			break
		}

		if msg.Type != "" && msg.Type != "message" {
			responder.SendError("unsupported message type")
			continue
		}
		if strings.TrimSpace(msg.Content) == "" {
			responder.SendError("message content is empty")
			continue
		}
		if !limiter.Allow() {
			responder.SendError("You're sending messages too quickly. Please wait a moment.")
			continue
		}

		lang := msg.Language
		if lang == "" {
			lang = user.Language
		}

		responder.reset(msg.ConversationID)
		_, err := h.engine.ProcessMessage(c.Request.Context(), chat.ProcessRequest{
			UserID:         userID,
			ConversationID: msg.ConversationID,
			Message:        msg.Content,
			Language:       lang,
			Responder:      responder,
		})
		if err != nil {
			h.logger.Warn().Err(err).Str("user_id", userID).Msg("failed to process chat message")
			if !responder.errored() {
				responder.SendError("failed to process message")
			}
		}
	}
}

// wsResponder adapts a WebSocket connection to the engine's responder
// interface. Writes are serialized; gorilla connections allow only one
// concurrent writer.
type wsResponder struct {
	conn *websocket.Conn

	mu             sync.Mutex
	conversationID string
	sentError      bool
}

func (r *wsResponder) reset(conversationID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conversationID = conversationID
	r.sentError = false
}

func (r *wsResponder) errored() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sentError
}

func (r *wsResponder) SetConversationID(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conversationID = id
}

func (r *wsResponder) SendMessage(content string) error {
	return r.write(OutgoingMessage{Type: "message", Content: content})
}

func (r *wsResponder) SendSuggestion(suggestion appointments.Suggestion) error {
	return r.write(OutgoingMessage{Type: "suggestion", Data: suggestion})
}

func (r *wsResponder) SendError(message string) error {
	r.mu.Lock()
	r.sentError = true
	r.mu.Unlock()
	return r.write(OutgoingMessage{Type: "error", Content: message})
}

func (r *wsResponder) SendDone() error {
	return r.write(OutgoingMessage{Type: "done"})
}

func (r *wsResponder) write(msg OutgoingMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg.ConversationID = r.conversationID
	return r.conn.WriteJSON(msg)
}
