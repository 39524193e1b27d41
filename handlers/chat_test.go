package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pizzabot-api/chatbot"
	"pizzabot-api/middleware"
	"pizzabot-api/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func newChatRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	bot := chatbot.New(store.NewMemory(), zap.NewNop())
	InitChat(bot, zap.NewNop())

	r := gin.New()
	chat := r.Group("/api/chat")
	chat.Use(middleware.AuthOptional())
	chat.POST("", Chat)
	chat.GET("/history", ChatHistory)
	chat.DELETE("", EndChat)
	return r
}

type chatResponse struct {
	SessionID string `json:"session_id"`
	Replies   []struct {
		Text string `json:"text"`
	} `json:"replies"`
}

func postChat(t *testing.T, r *gin.Engine, sessionID, message string) (int, chatResponse) {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"message": message})
	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if sessionID != "" {
		req.Header.Set("X-Session-ID", sessionID)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp chatResponse
	if w.Code == http.StatusOK {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("bad response body: %v", err)
		}
	}
	return w.Code, resp
}

func TestChatAnonymousTurn(t *testing.T) {
	r := newChatRouter(t)

	code, resp := postChat(t, r, "", "hello")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if resp.SessionID == "" {
		t.Error("anonymous turn must return a session ID")
	}
	if len(resp.Replies) != 1 || !strings.Contains(resp.Replies[0].Text, "Welcome back to PizzaBot") {
		t.Errorf("unexpected replies %+v", resp.Replies)
	}
}

func TestChatSessionContinuity(t *testing.T) {
	r := newChatRouter(t)

	_, first := postChat(t, r, "", "hello")
	code, second := postChat(t, r, first.SessionID, "help")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if second.SessionID != first.SessionID {
		t.Errorf("session ID changed: %q then %q", first.SessionID, second.SessionID)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/chat/history", nil)
	req.Header.Set("X-Session-ID", first.SessionID)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("history status = %d", w.Code)
	}
	var hist struct {
		Count    int `json:"count"`
		Messages []struct {
			Text       string `json:"text"`
			IsFromUser bool   `json:"isFromUser"`
		} `json:"messages"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &hist); err != nil {
		t.Fatalf("bad history body: %v", err)
	}
	// welcome + 2 user turns with one reply each
	if hist.Count != 5 {
		t.Errorf("history count = %d, want 5", hist.Count)
	}
}

func TestChatRejectsEmptyMessage(t *testing.T) {
	r := newChatRouter(t)

	body := []byte(`{"message": ""}`)
	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestEndChat(t *testing.T) {
	r := newChatRouter(t)

	_, resp := postChat(t, r, "", "hello")

	req := httptest.NewRequest(http.MethodDelete, "/api/chat", nil)
	req.Header.Set("X-Session-ID", resp.SessionID)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("end status = %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/chat/history", nil)
	req.Header.Set("X-Session-ID", resp.SessionID)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("history after end = %d, want 404", w.Code)
	}
}
