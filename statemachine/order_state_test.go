package statemachine

import (
	"strings"
	"testing"

	"pizzabot-api/models"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		name  string
		from  models.OrderStatus
		to    models.OrderStatus
		actor string
		ok    bool
	}{
		{"employee confirms", models.StatusPending, models.StatusConfirmed, "employee", true},
		{"customer confirms", models.StatusPending, models.StatusConfirmed, "customer", false},
		{"customer cancels pending", models.StatusPending, models.StatusCancelled, "customer", true},
		{"customer cancels confirmed", models.StatusConfirmed, models.StatusCancelled, "customer", true},
		{"customer cancels preparing", models.StatusPreparing, models.StatusCancelled, "customer", false},
		{"employee starts preparing", models.StatusConfirmed, models.StatusPreparing, "employee", true},
		{"employee dispatches", models.StatusPreparing, models.StatusOutForDelivery, "employee", true},
		{"deliveryman dispatches", models.StatusPreparing, models.StatusOutForDelivery, "deliveryman", false},
		{"deliveryman delivers", models.StatusOutForDelivery, models.StatusDelivered, "deliveryman", true},
		{"employee delivers", models.StatusOutForDelivery, models.StatusDelivered, "employee", false},
		{"skip confirmation", models.StatusPending, models.StatusPreparing, "employee", false},
		{"revive delivered", models.StatusDelivered, models.StatusPending, "employee", false},
		{"revive cancelled", models.StatusCancelled, models.StatusPending, "employee", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := CanTransition(tc.from, tc.to, tc.actor)
			if tc.ok && err != nil {
				t.Errorf("expected transition to be allowed, got %v", err)
			}
			if !tc.ok && err == nil {
				t.Error("expected transition to be rejected")
			}
		})
	}
}

func TestInvalidTransitionErrorListsAlternatives(t *testing.T) {
	err := CanTransition(models.StatusPending, models.StatusDelivered, "employee")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), string(models.StatusConfirmed)) {
		t.Errorf("error should list valid next states: %v", err)
	}
}

func TestTerminalStates(t *testing.T) {
	for _, status := range []models.OrderStatus{models.StatusDelivered, models.StatusCancelled} {
		if nexts := ValidTransitionsFrom(status); len(nexts) != 0 {
			t.Errorf("%s should be terminal, got transitions %v", status, nexts)
		}
	}
}

func TestValidTransitionsFromDeduplicates(t *testing.T) {
	nexts := ValidTransitionsFrom(models.StatusConfirmed)
	seen := map[models.OrderStatus]bool{}
	for _, s := range nexts {
		if seen[s] {
			t.Errorf("duplicate next state %s", s)
		}
		seen[s] = true
	}
	if !seen[models.StatusPreparing] || !seen[models.StatusCancelled] {
		t.Errorf("missing expected next states: %v", nexts)
	}
}
