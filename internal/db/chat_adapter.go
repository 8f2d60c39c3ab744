package db

import (
	"context"

	"github.com/simplymedi/simplymedi-be/internal/memory"
)

// ChatHistoryAdapter adapts DB to the chat engine's history loader
type ChatHistoryAdapter struct {
	db *DB
}

// NewChatHistoryAdapter creates a new adapter
func NewChatHistoryAdapter(db *DB) *ChatHistoryAdapter {
	return &ChatHistoryAdapter{db: db}
}

// RecentMessages implements chat.HistoryLoader
func (a *ChatHistoryAdapter) RecentMessages(ctx context.Context, conversationID string, limit int) ([]memory.Message, error) {
	dbMessages, err := a.db.GetRecentConversationMessages(ctx, conversationID, limit)
	if err != nil {
		return nil, err
	}

	messages := make([]memory.Message, len(dbMessages))
	for i, msg := range dbMessages {
		messages[i] = memory.Message{
			Role:      msg.Role,
			Content:   msg.Content,
			Language:  msg.Language,
			Timestamp: msg.CreatedAt,
		}
	}
	return messages, nil
}
