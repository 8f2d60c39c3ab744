package api

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"

	"github.com/simplymedi/simplymedi-be/internal/db"
)

func newConversationsRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	handler := NewConversationsHandler(&db.DB{DB: conn})

	r := gin.New()
	authed := r.Group("/api/chat", func(c *gin.Context) { c.Set("user_id", "u1") })
	authed.GET("/conversations", handler.List)
	authed.POST("/conversations", handler.Create)
	authed.GET("/conversations/:id", handler.Get)
	authed.PATCH("/conversations/:id", handler.Update)
	authed.DELETE("/conversations/:id", handler.Delete)
	authed.GET("/conversations/:id/messages", handler.Messages)
	return r, mock
}

func conversationRow(id, userID string, title interface{}) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "user_id", "title", "created_at", "updated_at"}).
		AddRow(id, userID, title, now, now)
}

func TestCreateConversation(t *testing.T) {
	t.Run("with title", func(t *testing.T) {
		r, mock := newConversationsRouter(t)

		mock.ExpectQuery("INSERT INTO conversations").
			WithArgs("u1", "Morning questions").
			WillReturnRows(conversationRow("c1", "u1", "Morning questions"))

		w := postJSON(r, "/api/chat/conversations", `{"title":"  Morning questions  "}`)
		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusCreated, w.Body.String())
		}

		var resp ConversationView
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.ID != "c1" || resp.Title == nil || *resp.Title != "Morning questions" {
			t.Errorf("conversation = %+v, want c1 titled from the trimmed request", resp)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
	})

	t.Run("empty body starts an untitled conversation", func(t *testing.T) {
		r, mock := newConversationsRouter(t)

		mock.ExpectQuery("INSERT INTO conversations").
			WithArgs("u1", nil).
			WillReturnRows(conversationRow("c2", "u1", nil))

		req := httptest.NewRequest(http.MethodPost, "/api/chat/conversations", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusCreated, w.Body.String())
		}

		var resp ConversationView
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.Title != nil {
			t.Errorf("title = %q, want null", *resp.Title)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
	})
}

func TestListConversations(t *testing.T) {
	r, mock := newConversationsRouter(t)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "user_id", "title", "created_at", "updated_at"}).
		AddRow("c2", "u1", "Newer chat", now, now).
		AddRow("c1", "u1", nil, now.Add(-time.Hour), now.Add(-time.Hour))
	mock.ExpectQuery("SELECT (.+) FROM conversations WHERE user_id = \\$1").
		WithArgs("u1", defaultConversationPageSize, 0).
		WillReturnRows(rows)

	req := httptest.NewRequest(http.MethodGet, "/api/chat/conversations", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp struct {
		Conversations []ConversationView `json:"conversations"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Conversations) != 2 || resp.Conversations[0].ID != "c2" {
		t.Errorf("conversations = %+v, want c2 then c1", resp.Conversations)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestListConversations_CapsLimit(t *testing.T) {
	r, mock := newConversationsRouter(t)

	mock.ExpectQuery("SELECT (.+) FROM conversations WHERE user_id = \\$1").
		WithArgs("u1", maxConversationPageSize, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title", "created_at", "updated_at"}))

	req := httptest.NewRequest(http.MethodGet, "/api/chat/conversations?limit=5000", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestGetConversation(t *testing.T) {
	t.Run("owned", func(t *testing.T) {
		r, mock := newConversationsRouter(t)

		mock.ExpectQuery("SELECT (.+) FROM conversations WHERE id = \\$1").
			WithArgs("c1").
			WillReturnRows(conversationRow("c1", "u1", "Lab results"))

		req := httptest.NewRequest(http.MethodGet, "/api/chat/conversations/c1", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
	})

	t.Run("someone else's conversation reads as missing", func(t *testing.T) {
		r, mock := newConversationsRouter(t)

		mock.ExpectQuery("SELECT (.+) FROM conversations WHERE id = \\$1").
			WithArgs("c9").
			WillReturnRows(conversationRow("c9", "other-user", "Private"))

		req := httptest.NewRequest(http.MethodGet, "/api/chat/conversations/c9", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusNotFound)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
	})

	t.Run("missing", func(t *testing.T) {
		r, mock := newConversationsRouter(t)

		mock.ExpectQuery("SELECT (.+) FROM conversations WHERE id = \\$1").
			WithArgs("nope").
			WillReturnError(sql.ErrNoRows)

		req := httptest.NewRequest(http.MethodGet, "/api/chat/conversations/nope", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusNotFound)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
	})
}

func TestUpdateConversation(t *testing.T) {
	t.Run("rename", func(t *testing.T) {
		r, mock := newConversationsRouter(t)

		mock.ExpectQuery("SELECT (.+) FROM conversations WHERE id = \\$1").
			WithArgs("c1").
			WillReturnRows(conversationRow("c1", "u1", "Old title"))
		mock.ExpectQuery("UPDATE conversations SET title = \\$2").
			WithArgs("c1", "Medication questions").
			WillReturnRows(conversationRow("c1", "u1", "Medication questions"))

		req := httptest.NewRequest(http.MethodPatch, "/api/chat/conversations/c1",
			jsonBody(`{"title":"Medication questions"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
		}

		var resp ConversationView
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.Title == nil || *resp.Title != "Medication questions" {
			t.Errorf("title = %v, want the new title", resp.Title)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
	})

	t.Run("blank title is rejected", func(t *testing.T) {
		r, _ := newConversationsRouter(t)

		req := httptest.NewRequest(http.MethodPatch, "/api/chat/conversations/c1",
			jsonBody(`{"title":"   "}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})
}

func TestDeleteConversation(t *testing.T) {
	r, mock := newConversationsRouter(t)

	mock.ExpectQuery("SELECT (.+) FROM conversations WHERE id = \\$1").
		WithArgs("c1").
		WillReturnRows(conversationRow("c1", "u1", nil))
	mock.ExpectExec("DELETE FROM conversations WHERE id = \\$1").
		WithArgs("c1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	req := httptest.NewRequest(http.MethodDelete, "/api/chat/conversations/c1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestConversationMessages(t *testing.T) {
	r, mock := newConversationsRouter(t)

	mock.ExpectQuery("SELECT (.+) FROM conversations WHERE id = \\$1").
		WithArgs("c1").
		WillReturnRows(conversationRow("c1", "u1", "Lab results"))

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "conversation_id", "user_id", "role", "content", "language", "created_at",
	}).
		AddRow("m1", "c1", "u1", db.RoleUser, "What does CBC mean?", "english", now.Add(-time.Minute)).
		AddRow("m2", "c1", "u1", db.RoleAssistant, "CBC stands for complete blood count.", "english", now)
	mock.ExpectQuery("SELECT (.+) FROM messages WHERE conversation_id = \\$1").
		WithArgs("c1", defaultMessagePageSize, 0).
		WillReturnRows(rows)

	req := httptest.NewRequest(http.MethodGet, "/api/chat/conversations/c1/messages", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp struct {
		Messages []MessageView `json:"messages"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Messages) != 2 {
		t.Fatalf("messages = %d, want 2", len(resp.Messages))
	}
	if resp.Messages[0].Role != db.RoleUser || resp.Messages[1].Role != db.RoleAssistant {
		t.Errorf("roles = %q then %q, want user then assistant",
			resp.Messages[0].Role, resp.Messages[1].Role)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
