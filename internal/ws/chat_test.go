package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/simplymedi/simplymedi-be/internal/api/middleware"
	"github.com/simplymedi/simplymedi-be/internal/appointments"
	"github.com/simplymedi/simplymedi-be/internal/chat"
	"github.com/simplymedi/simplymedi-be/internal/classifier"
	"github.com/simplymedi/simplymedi-be/internal/db"
	"github.com/simplymedi/simplymedi-be/internal/language"
	"github.com/simplymedi/simplymedi-be/internal/memory"
	"github.com/simplymedi/simplymedi-be/pkg/rag"
)

const testSecret = "ws-test-secret"

func signToken(t *testing.T, tokenType string) string {
	t.Helper()

	claims := &middleware.JWTClaims{
		UserID:    "u1",
		Email:     "pat@example.com",
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func newTestServer(t *testing.T) (*httptest.Server, sqlmock.Sqlmock, *rag.MockClient) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	database := &db.DB{DB: conn}
	provider := rag.NewMockClient()
	engine := chat.NewEngine(
		classifier.New(),
		memory.NewManager(10),
		db.NewChatHistoryAdapter(database),
		provider,
		appointments.NewSuggester(),
		language.NewManager(),
		database,
		zerolog.Nop(),
	)
	handler := NewChatHandler(engine, database, testSecret, zerolog.Nop())

	r := gin.New()
	r.GET("/ws", handler.HandleChat)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, mock, provider
}

func wsURL(srv *httptest.Server, query string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws" + query
}

func expectUserLookup(mock sqlmock.Sqlmock) {
	rows := sqlmock.NewRows([]string{
		"id", "email", "password_hash", "display_name", "google_id",
		"preferred_language", "language_preferences", "is_admin", "created_at", "updated_at",
	}).AddRow("u1", "pat@example.com", "", nil, nil, "english", []byte("{}"), false, time.Now(), time.Now())
	mock.ExpectQuery("SELECT (.+) FROM users WHERE id = \\$1").WithArgs("u1").WillReturnRows(rows)
}

func expectSavedMessage(mock sqlmock.Sqlmock, id string) {
	mock.ExpectQuery("INSERT INTO messages").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(id, time.Now()))
	mock.ExpectExec("UPDATE conversations SET updated_at").
		WillReturnResult(sqlmock.NewResult(0, 1))
}

func TestHandleChat_RejectsMissingToken(t *testing.T) {
	srv, _, _ := newTestServer(t)

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, ""), nil)
	if err == nil {
		t.Fatal("expected the handshake to fail without a token")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("handshake response = %+v, want 401", resp)
	}
}

func TestHandleChat_RejectsInvalidToken(t *testing.T) {
	srv, _, _ := newTestServer(t)

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "?token=not-a-jwt"), nil)
	if err == nil {
		t.Fatal("expected the handshake to fail with a bad token")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("handshake response = %+v, want 401", resp)
	}
}

func TestHandleChat_RejectsRefreshToken(t *testing.T) {
	srv, _, _ := newTestServer(t)

	token := signToken(t, middleware.TokenTypeRefresh)
	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "?token="+token), nil)
	if err == nil {
		t.Fatal("expected the handshake to reject a refresh token")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("handshake response = %+v, want 401", resp)
	}
}

func TestHandleChat_SmallTalkRoundTrip(t *testing.T) {
	srv, mock, provider := newTestServer(t)

	expectUserLookup(mock)
	mock.ExpectQuery("INSERT INTO conversations").
		WithArgs("u1", "hello").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title", "created_at", "updated_at"}).
			AddRow("c1", "u1", "hello", time.Now(), time.Now()))
	expectSavedMessage(mock, "m1")
	expectSavedMessage(mock, "m2")

	token := signToken(t, middleware.TokenTypeAccess)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "?token="+token), nil)
	if err != nil {
		t.Fatalf("failed to dial: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	if err := conn.WriteJSON(IncomingMessage{Type: "message", Content: "hello"}); err != nil {
		t.Fatalf("failed to send message: %v", err)
	}

	var reply OutgoingMessage
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("failed to read reply: %v", err)
	}
	if reply.Type != "message" || !strings.Contains(reply.Content, "here to help") {
		t.Errorf("reply = %+v, want the canned greeting", reply)
	}
	if reply.ConversationID != "c1" {
		t.Errorf("conversation_id = %q, want c1", reply.ConversationID)
	}

	var done OutgoingMessage
	if err := conn.ReadJSON(&done); err != nil {
		t.Fatalf("failed to read done frame: %v", err)
	}
	if done.Type != "done" {
		t.Errorf("final frame = %+v, want done", done)
	}

	if provider.QueryCallCount() != 0 {
		t.Errorf("provider called %d times, want 0 for small talk", provider.QueryCallCount())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestHandleChat_EmptyMessageSendsError(t *testing.T) {
	srv, mock, _ := newTestServer(t)
	expectUserLookup(mock)

	token := signToken(t, middleware.TokenTypeAccess)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "?token="+token), nil)
	if err != nil {
		t.Fatalf("failed to dial: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	if err := conn.WriteJSON(IncomingMessage{Type: "message", Content: "   "}); err != nil {
		t.Fatalf("failed to send message: %v", err)
	}

	var reply OutgoingMessage
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("failed to read reply: %v", err)
	}
	if reply.Type != "error" {
		t.Errorf("reply = %+v, want an error frame", reply)
	}
}

func TestHandleChat_UnsupportedFrameType(t *testing.T) {
	srv, mock, _ := newTestServer(t)
	expectUserLookup(mock)

	token := signToken(t, middleware.TokenTypeAccess)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "?token="+token), nil)
	if err != nil {
		t.Fatalf("failed to dial: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	if err := conn.WriteJSON(IncomingMessage{Type: "ping", Content: "hi"}); err != nil {
		t.Fatalf("failed to send message: %v", err)
	}

	var reply OutgoingMessage
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("failed to read reply: %v", err)
	}
	if reply.Type != "error" || !strings.Contains(reply.Content, "unsupported") {
		t.Errorf("reply = %+v, want an unsupported-type error", reply)
	}
}
