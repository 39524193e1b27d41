package chatbot

import (
	"context"
	"errors"
	"testing"
	"time"

	"pizzabot-api/models"
	"pizzabot-api/store"

	"go.uber.org/zap"
)

func seedMenuItem(t *testing.T, st *store.MemoryStore, item models.MenuItem) {
	t.Helper()
	if err := st.Set(context.Background(), "menu/"+item.ID, item); err != nil {
		t.Fatalf("seeding menu item: %v", err)
	}
}

func seedBranch(t *testing.T, st *store.MemoryStore, branch models.Branch) {
	t.Helper()
	if err := st.Set(context.Background(), "branches/"+branch.Code, branch); err != nil {
		t.Fatalf("seeding branch: %v", err)
	}
}

func TestSelectBranchByName(t *testing.T) {
	r := NewResolver(store.NewMemory(), zap.NewNop())

	code, ok := r.SelectBranchByName("colombo")
	if !ok || code != "b001" {
		t.Errorf("SelectBranchByName(colombo) = %q, %v", code, ok)
	}
	code, ok = r.SelectBranchByName("MATARA")
	if !ok || code != "b005" {
		t.Errorf("SelectBranchByName(MATARA) = %q, %v", code, ok)
	}
	if _, ok := r.SelectBranchByName("atlantis"); ok {
		t.Error("expected atlantis to be unknown")
	}
	if _, ok := r.SelectBranchByName("colom"); ok {
		t.Error("matching must be exact, not prefix")
	}
}

func TestNearestBranch(t *testing.T) {
	st := store.NewMemory()
	seedBranch(t, st, models.Branch{Code: "b001", Name: "Colombo", Latitude: 6.9271, Longitude: 79.8612})
	seedBranch(t, st, models.Branch{Code: "b002", Name: "Galle", Latitude: 6.0535, Longitude: 80.2210})
	seedBranch(t, st, models.Branch{Code: "b003", Name: "Kandy", Latitude: 7.2906, Longitude: 80.6337})
	r := NewResolver(st, zap.NewNop())

	// a point just outside Galle
	code, err := r.NearestBranch(context.Background(), LatLng{Latitude: 6.05, Longitude: 80.22})
	if err != nil {
		t.Fatalf("NearestBranch failed: %v", err)
	}
	if code != "b002" {
		t.Errorf("expected b002 (Galle), got %s", code)
	}
}

func TestNearestBranchEmptyTable(t *testing.T) {
	r := NewResolver(store.NewMemory(), zap.NewNop())
	code, err := r.NearestBranch(context.Background(), LatLng{Latitude: 6.9, Longitude: 79.8})
	if err != nil {
		t.Fatalf("NearestBranch failed: %v", err)
	}
	if code != "" {
		t.Errorf("expected no branch, got %q", code)
	}
}

// fetchMenu must never return an item whose branch list does not
// contain the requested branch.
func TestFetchMenuScopedToBranch(t *testing.T) {
	st := store.NewMemory()
	seedMenuItem(t, st, models.MenuItem{ID: "m001", Name: "Margherita", Price: 1200, Branches: []string{"b001", "b002"}})
	seedMenuItem(t, st, models.MenuItem{ID: "m002", Name: "Chicken BBQ", Price: 1750, Branches: []string{"b002"}})
	seedMenuItem(t, st, models.MenuItem{ID: "m003", Name: "Veggie Supreme", Price: 1400, Branches: []string{"b001"}})
	r := NewResolver(st, zap.NewNop())

	items, total, err := r.FetchMenu(context.Background(), "b001", "")
	if err != nil {
		t.Fatalf("FetchMenu failed: %v", err)
	}
	if total != 3 {
		t.Errorf("expected catalog size 3, got %d", total)
	}
	for _, item := range items {
		if !item.SoldAt("b001") {
			t.Errorf("item %s leaked into branch b001", item.Name)
		}
	}
	if len(items) != 2 {
		t.Errorf("expected 2 items for b001, got %d", len(items))
	}
}

func TestFetchMenuCategoryFilter(t *testing.T) {
	st := store.NewMemory()
	seedMenuItem(t, st, models.MenuItem{ID: "m001", Name: "Margherita", Price: 1200, Category: models.CategoryVegetarian, Branches: []string{"b001"}})
	seedMenuItem(t, st, models.MenuItem{ID: "m002", Name: "Chicken BBQ", Price: 1750, Category: models.CategoryNonVegetarian, Branches: []string{"b001"}})
	r := NewResolver(st, zap.NewNop())

	items, total, err := r.FetchMenu(context.Background(), "b001", models.CategoryVegetarian)
	if err != nil {
		t.Fatalf("FetchMenu failed: %v", err)
	}
	if total != 1 || len(items) != 1 || items[0].Name != "Margherita" {
		t.Errorf("unexpected category result: total=%d items=%+v", total, items)
	}
}

// A fetch that exceeds the deadline is retried exactly once; the retry
// outcome is final.
func TestFetchMenuTimeoutRetriesOnce(t *testing.T) {
	st := store.NewMemory()
	st.DelayPath("menu", 200*time.Millisecond)
	r := NewResolver(st, zap.NewNop())
	r.menuTimeout = 20 * time.Millisecond

	_, _, err := r.FetchMenu(context.Background(), "b001", "")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
	if got := st.Reads("menu"); got != 2 {
		t.Errorf("expected exactly 2 reads (original + one retry), got %d", got)
	}
}

func TestFetchMenuTimeoutRetrySucceeds(t *testing.T) {
	st := store.NewMemory()
	seedMenuItem(t, st, models.MenuItem{ID: "m001", Name: "Margherita", Price: 1200, Branches: []string{"b001"}})
	st.DelayPath("menu", 50*time.Millisecond)
	r := NewResolver(st, zap.NewNop())
	r.menuTimeout = 80 * time.Millisecond

	items, _, err := r.FetchMenu(context.Background(), "b001", "")
	if err != nil {
		t.Fatalf("FetchMenu failed: %v", err)
	}
	if len(items) != 1 {
		t.Errorf("expected 1 item, got %d", len(items))
	}
	if got := st.Reads("menu"); got != 1 {
		t.Errorf("fast-enough read must not retry, got %d reads", got)
	}
}

func TestFetchMenuFastFailureNotRetried(t *testing.T) {
	st := store.NewMemory()
	st.FailWith("menu", errors.New("permission denied"))
	r := NewResolver(st, zap.NewNop())

	_, _, err := r.FetchMenu(context.Background(), "b001", "")
	if err == nil {
		t.Fatal("expected failure")
	}
	if got := st.Reads("menu"); got != 1 {
		t.Errorf("fast failure must not be retried, got %d reads", got)
	}
}

func TestFormatMenuLine(t *testing.T) {
	line := FormatMenuLine(models.MenuItem{Name: "Margherita", Price: 1200, Description: "Classic tomato and basil"})
	want := "• Margherita           ....... LKR 1200\n  - Classic tomato and basil"
	if line != want {
		t.Errorf("FormatMenuLine = %q, want %q", line, want)
	}

	line = FormatMenuLine(models.MenuItem{Name: "Plain", Price: 999.4})
	want = "• Plain                ....... LKR 999\n  - No description"
	if line != want {
		t.Errorf("FormatMenuLine = %q, want %q", line, want)
	}
}
