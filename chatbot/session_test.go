package chatbot

import (
	"context"
	"errors"
	"strings"
	"testing"

	"pizzabot-api/models"
	"pizzabot-api/store"
)

type fixedLocation struct {
	loc LatLng
	err error
}

func (f fixedLocation) Current(ctx context.Context) (LatLng, error) {
	return f.loc, f.err
}

func TestSessionStartsWithWelcome(t *testing.T) {
	s := newTestBot(store.NewMemory()).NewSession("u1")
	defer s.Close()

	history := s.History()
	if len(history) != 1 {
		t.Fatalf("expected only the welcome message, got %d", len(history))
	}
	if !strings.Contains(history[0].Text, "Welcome to PizzaBot!") {
		t.Errorf("unexpected first message %q", history[0].Text)
	}
	if history[0].FromUser {
		t.Error("welcome message must come from the bot")
	}
}

func TestSessionTranscriptOrder(t *testing.T) {
	s := newTestBot(store.NewMemory()).NewSession("")
	defer s.Close()

	mustSubmit(t, s, "hello")
	mustSubmit(t, s, "help")

	history := s.History()
	if len(history) != 5 {
		t.Fatalf("expected welcome + 2 user turns with 1 reply each, got %d", len(history))
	}
	wantFromUser := []bool{false, true, false, true, false}
	for i, m := range history {
		if m.FromUser != wantFromUser[i] {
			t.Errorf("history[%d].FromUser = %v, want %v (%q)", i, m.FromUser, wantFromUser[i], m.Text)
		}
	}
	if history[1].Text != "hello" || history[3].Text != "help" {
		t.Errorf("user turns out of order: %q, %q", history[1].Text, history[3].Text)
	}
}

func TestSessionSubmitBlankIsNoOp(t *testing.T) {
	s := newTestBot(store.NewMemory()).NewSession("")
	defer s.Close()

	replies, err := s.Submit(context.Background(), "   ")
	if err != nil || replies != nil {
		t.Errorf("blank input: replies=%v err=%v", replies, err)
	}
	if len(s.History()) != 1 {
		t.Error("blank input must not touch the transcript")
	}
}

func TestSessionSubmitAfterClose(t *testing.T) {
	s := newTestBot(store.NewMemory()).NewSession("")
	s.Close()

	_, err := s.Submit(context.Background(), "hello")
	if !errors.Is(err, ErrSessionClosed) {
		t.Errorf("expected ErrSessionClosed, got %v", err)
	}
}

func TestNearestBranchMenuFlow(t *testing.T) {
	st := store.NewMemory()
	seedBranch(t, st, models.Branch{Code: "b001", Name: "Colombo", Latitude: 6.9271, Longitude: 79.8612})
	seedBranch(t, st, models.Branch{Code: "b002", Name: "Galle", Latitude: 6.0535, Longitude: 80.2210})
	seedMenuItem(t, st, models.MenuItem{ID: "m001", Name: "Margherita", Price: 1200, Branches: []string{"b002"}})
	s := newTestBot(st).NewSession("")
	defer s.Close()
	s.SetLocation(fixedLocation{loc: LatLng{Latitude: 6.05, Longitude: 80.22}})

	replies := mustSubmit(t, s, "show menu")
	if s.State().SelectedBranch != "b002" {
		t.Fatalf("expected nearest branch b002 selected, got %q", s.State().SelectedBranch)
	}
	var texts []string
	for _, m := range replies {
		texts = append(texts, m.Text)
	}
	joined := strings.Join(texts, "\n")
	if !strings.Contains(joined, "Nearest branch: Galle. Showing menu...") {
		t.Errorf("missing nearest-branch confirmation in %q", joined)
	}
	if !strings.Contains(joined, "Margherita") {
		t.Errorf("missing menu line in %q", joined)
	}
}

func TestNearestBranchMenuWithoutProvider(t *testing.T) {
	s := newTestBot(store.NewMemory()).NewSession("")
	defer s.Close()

	replies := mustSubmit(t, s, "show menu")
	last := replies[len(replies)-1].Text
	if !strings.Contains(last, "Location permission is required") {
		t.Errorf("expected permission message, got %q", last)
	}
	if s.State().SelectedBranch != "" {
		t.Error("no branch must be selected without a location")
	}
}

func TestNearestBranchMenuLocationError(t *testing.T) {
	s := newTestBot(store.NewMemory()).NewSession("")
	defer s.Close()
	s.SetLocation(fixedLocation{err: errors.New("gps unavailable")})

	replies := mustSubmit(t, s, "show menu")
	last := replies[len(replies)-1].Text
	if !strings.Contains(last, "Error getting location: gps unavailable") {
		t.Errorf("unexpected reply %q", last)
	}
	if s.State().SelectedBranch != "" {
		t.Error("location failure must not select a branch")
	}
}
