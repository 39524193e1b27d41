package chatbot

import (
	"context"
	"errors"
	"strings"
	"sync"

	"pizzabot-api/models"
)

// ErrSessionClosed is returned by Submit after Close
var ErrSessionClosed = errors.New("chatbot: session closed")

// SessionState is the per-conversation context. The dispatcher is the
// only mutator. SelectedItem is only meaningful while SelectedBranch
// is set: an item is always scoped to a branch's catalog.
type SessionState struct {
	UserID         string
	SelectedBranch string
	SelectedItem   string
}

// LatLng is a geographic coordinate
type LatLng struct {
	Latitude  float64
	Longitude float64
}

// LocationProvider supplies the device position for nearest-branch
// lookup. A nil provider means the capability is unavailable and the
// user must select a branch manually.
type LocationProvider interface {
	Current(ctx context.Context) (LatLng, error)
}

type turn struct {
	text    string
	replies chan []models.Message
}

// Session is one conversation. Turns are consumed by a single worker
// goroutine, so store calls from one turn finish before the next turn
// is dispatched and transcript order stays deterministic even though
// the store itself gives no ordering guarantees.
type Session struct {
	bot    *Bot
	ctx    context.Context
	cancel context.CancelFunc
	turns  chan turn

	mu            sync.Mutex
	state         SessionState
	transcript    []models.Message
	location      LocationProvider
	onCartChanged func()
}

const welcomeText = "👋 Welcome to PizzaBot! 🍕\n" +
	"You can try commands like:\n" +
	"👉 'show menu'\n" +
	"👉 'track order'\n" +
	"👉 'update profile'\n" +
	"👉 'help'\n\n" +
	"Or just say hi to get started!"

// NewSession starts a conversation for the given user (empty for an
// anonymous session) and appends the welcome message.
func (b *Bot) NewSession(userID string) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		bot:    b,
		ctx:    ctx,
		cancel: cancel,
		turns:  make(chan turn),
	}
	s.state.UserID = userID
	s.transcript = append(s.transcript, models.Message{Text: welcomeText})
	go s.run()
	return s
}

func (s *Session) run() {
	for {
		select {
		case <-s.ctx.Done():
			return
		case t := <-s.turns:
			s.append(models.Message{Text: t.text, FromUser: true})
			replies := s.bot.dispatch(s, t.text)
			for _, m := range replies {
				s.append(m)
			}
			t.replies <- replies
		}
	}
}

// Submit runs one user turn: the raw utterance is appended to the
// transcript, dispatched, and the bot replies for this turn are
// returned in order. Store failures never surface here; they arrive
// as ordinary bot messages.
func (s *Session) Submit(ctx context.Context, text string) ([]models.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	t := turn{text: text, replies: make(chan []models.Message, 1)}
	select {
	case s.turns <- t:
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-s.ctx.Done():
		return nil, ErrSessionClosed
	}
	select {
	case replies := <-t.replies:
		return replies, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-s.ctx.Done():
		return nil, ErrSessionClosed
	}
}

// Close ends the session and cancels any in-flight store call or
// pending menu-fetch deadline.
func (s *Session) Close() {
	s.cancel()
}

// History returns a copy of the transcript
func (s *Session) History() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Message, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// State returns a copy of the current session state
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SetLocation installs the location capability for this session
func (s *Session) SetLocation(p LocationProvider) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.location = p
}

// OnCartChanged registers the UI badge hook fired after a successful
// cart write.
func (s *Session) OnCartChanged(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onCartChanged = fn
}

func (s *Session) append(m models.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcript = append(s.transcript, m)
}

func (s *Session) setBranch(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SelectedBranch = code
}

func (s *Session) setItem(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SelectedItem = name
}

func (s *Session) clearUser() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.UserID = ""
}

func (s *Session) locationProvider() LocationProvider {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.location
}

func (s *Session) notifyCartChanged() {
	s.mu.Lock()
	fn := s.onCartChanged
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}
