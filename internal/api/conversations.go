package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/simplymedi/simplymedi-be/internal/db"
)

const (
	defaultConversationPageSize = 20
	maxConversationPageSize     = 100
	defaultMessagePageSize      = 50
	maxMessagePageSize          = 200
)

// ConversationView is the wire shape of a chat conversation.
type ConversationView struct {
	ID        string    `json:"id"`
	Title     *string   `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func conversationToView(c *db.Conversation) ConversationView {
	return ConversationView{
		ID:        c.ID,
		Title:     c.Title,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// MessageView is the wire shape of a chat message.
type MessageView struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Language  string    `json:"language"`
	CreatedAt time.Time `json:"created_at"`
}

func messageToView(m *db.Message) MessageView {
	return MessageView{
		ID:        m.ID,
		Role:      m.Role,
		Content:   m.Content,
		Language:  m.Language,
		CreatedAt: m.CreatedAt,
	}
}

// ConversationsHandler manages the chat history REST surface. Live
// messaging happens over the WebSocket; these endpoints only read and
// organize what the chat engine has persisted.
type ConversationsHandler struct {
	db *db.DB
}

func NewConversationsHandler(database *db.DB) *ConversationsHandler {
	return &ConversationsHandler{db: database}
}

// CreateConversationRequest is the optional body for starting a
// conversation ahead of the first message.
type CreateConversationRequest struct {
	Title *string `json:"title"`
}

// Create starts an empty conversation. Title is optional; most
// conversations are created implicitly by the WebSocket engine.
func (h *ConversationsHandler) Create(c *gin.Context) {
	userID := c.GetString("user_id")

	var req CreateConversationRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
	}

	title := req.Title
	if title != nil {
		trimmed := strings.TrimSpace(*title)
		if trimmed == "" {
			title = nil
		} else {
			title = &trimmed
		}
	}

	conv, err := h.db.CreateConversation(c.Request.Context(), userID, title)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create conversation"})
		return
	}

	c.JSON(http.StatusCreated, conversationToView(conv))
}

// List returns the user's conversations, most recently active first.
func (h *ConversationsHandler) List(c *gin.Context) {
	userID := c.GetString("user_id")

	limit := defaultConversationPageSize
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxConversationPageSize {
		limit = maxConversationPageSize
	}

	offset := 0
	if v := c.Query("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}

	conversations, err := h.db.GetConversations(c.Request.Context(), userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list conversations"})
		return
	}

	views := make([]ConversationView, 0, len(conversations))
	for i := range conversations {
		views = append(views, conversationToView(&conversations[i]))
	}

	c.JSON(http.StatusOK, gin.H{"conversations": views})
}

// Get returns a single conversation.
func (h *ConversationsHandler) Get(c *gin.Context) {
	conv, ok := h.ownedConversation(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, conversationToView(conv))
}

// UpdateConversationRequest renames a conversation.
type UpdateConversationRequest struct {
	Title string `json:"title" binding:"required"`
}

// Update renames a conversation.
func (h *ConversationsHandler) Update(c *gin.Context) {
	var req UpdateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}

	conv, ok := h.ownedConversation(c)
	if !ok {
		return
	}

	updated, err := h.db.UpdateConversationTitle(c.Request.Context(), conv.ID, title)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update conversation"})
		return
	}

	c.JSON(http.StatusOK, conversationToView(updated))
}

// Delete removes a conversation and its messages.
func (h *ConversationsHandler) Delete(c *gin.Context) {
	conv, ok := h.ownedConversation(c)
	if !ok {
		return
	}

	if err := h.db.DeleteConversation(c.Request.Context(), conv.ID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete conversation"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Conversation deleted"})
}

// Messages returns a conversation's messages in chronological order.
func (h *ConversationsHandler) Messages(c *gin.Context) {
	conv, ok := h.ownedConversation(c)
	if !ok {
		return
	}

	limit := defaultMessagePageSize
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxMessagePageSize {
		limit = maxMessagePageSize
	}

	offset := 0
	if v := c.Query("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}

	messages, err := h.db.GetMessagesByConversation(c.Request.Context(), conv.ID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list messages"})
		return
	}

	views := make([]MessageView, 0, len(messages))
	for i := range messages {
		views = append(views, messageToView(&messages[i]))
	}

	c.JSON(http.StatusOK, gin.H{"messages": views})
}

// ownedConversation loads the conversation from the :id route param and
// enforces ownership. A conversation belonging to someone else reads as
// not found so the endpoint does not leak which IDs exist.
func (h *ConversationsHandler) ownedConversation(c *gin.Context) (*db.Conversation, bool) {
	userID := c.GetString("user_id")

	conv, err := h.db.GetConversation(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found"})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load conversation"})
		return nil, false
	}
	if conv.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found"})
		return nil, false
	}
	return conv, true
}
