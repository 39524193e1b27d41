package handlers

import (
	"context"
	"net/http"
	"sync"

	"pizzabot-api/chatbot"
	"pizzabot-api/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ChatHub owns the live chat sessions, keyed by session ID. One
// session per key means each conversation's turns are serialized by
// the session worker.
type ChatHub struct {
	bot *chatbot.Bot
	log *zap.Logger

	mu       sync.Mutex
	sessions map[string]*chatbot.Session
}

var chatHub *ChatHub

// InitChat wires the chatbot core into the HTTP surface
func InitChat(bot *chatbot.Bot, log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}
	chatHub = &ChatHub{
		bot:      bot,
		log:      log,
		sessions: make(map[string]*chatbot.Session),
	}
}

func (h *ChatHub) session(sessionID, userID string) *chatbot.Session {
	h.mu.Lock()
	defer h.mu.Unlock()
	if s, ok := h.sessions[sessionID]; ok {
		return s
	}
	s := h.bot.NewSession(userID)
	s.OnCartChanged(func() {
		// badge rendering is the client's job; the hook just signals it
		h.log.Info("cart changed", zap.String("session", sessionID))
	})
	h.sessions[sessionID] = s
	return s
}

func (h *ChatHub) lookup(sessionID string) (*chatbot.Session, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.sessions[sessionID]
	return s, ok
}

func (h *ChatHub) end(sessionID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.sessions[sessionID]
	if !ok {
		return false
	}
	s.Close()
	delete(h.sessions, sessionID)
	return true
}

// staticLocation adapts coordinates sent by the client into the
// chatbot's location capability.
type staticLocation struct {
	loc chatbot.LatLng
}

func (p staticLocation) Current(ctx context.Context) (chatbot.LatLng, error) {
	return p.loc, nil
}

type ChatRequest struct {
	Message   string   `json:"message" binding:"required"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// Chat runs one conversational turn. Anonymous callers get a fresh
// session ID to carry in the X-Session-ID header; authenticated
// callers default to one session per user.
func Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := middleware.GetUserID(c)
	sessionID := c.GetHeader("X-Session-ID")
	if sessionID == "" {
		if userID != "" {
			sessionID = userID
		} else {
			sessionID = uuid.NewString()
		}
	}

	sess := chatHub.session(sessionID, userID)
	if req.Latitude != nil && req.Longitude != nil {
		sess.SetLocation(staticLocation{chatbot.LatLng{
			Latitude:  *req.Latitude,
			Longitude: *req.Longitude,
		}})
	}

	replies, err := sess.Submit(c.Request.Context(), req.Message)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Chat session unavailable: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id": sessionID,
		"replies":    replies,
	})
}

// ChatHistory returns the full transcript of a session
func ChatHistory(c *gin.Context) {
	sessionID := c.GetHeader("X-Session-ID")
	if sessionID == "" {
		sessionID = middleware.GetUserID(c)
	}
	sess, ok := chatHub.lookup(sessionID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "No active session"})
		return
	}
	history := sess.History()
	c.JSON(http.StatusOK, gin.H{
		"session_id": sessionID,
		"count":      len(history),
		"messages":   history,
	})
}

// EndChat closes a session, cancelling any pending store work
func EndChat(c *gin.Context) {
	sessionID := c.GetHeader("X-Session-ID")
	if sessionID == "" {
		sessionID = middleware.GetUserID(c)
	}
	if !chatHub.end(sessionID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "No active session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Session ended"})
}
