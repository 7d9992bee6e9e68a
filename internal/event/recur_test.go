package event

import (
	"testing"
	"time"
)

func baseSession(t *testing.T) *Session {
	t.Helper()
	s, err := New("Morning standup", nil, "room-a",
		time.Date(2026, time.March, 9, 9, 0, 0, 0, time.UTC),
		time.Date(2026, time.March, 9, 9, 30, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("creating base session: %v", err)
	}
	return s
}

func TestExpandRecurring(t *testing.T) {
	base := baseSession(t)

	sessions, truncated, err := ExpandRecurring(base, "FREQ=DAILY;COUNT=5", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if truncated {
		t.Error("bounded rule should not truncate")
	}
	if len(sessions) != 5 {
		t.Fatalf("got %d sessions, want 5", len(sessions))
	}

	if sessions[0] != base {
		t.Error("first occurrence should be the base session itself")
	}

	for i, s := range sessions {
		wantStart := base.StartsAt.AddDate(0, 0, i)
		if !s.StartsAt.Equal(wantStart) {
			t.Errorf("occurrence %d starts at %v, want %v", i, s.StartsAt, wantStart)
		}
		if s.Duration() != base.Duration() {
			t.Errorf("occurrence %d duration = %v, want %v", i, s.Duration(), base.Duration())
		}
		if s.Title != base.Title || s.RoomID != base.RoomID {
			t.Errorf("occurrence %d does not carry the base fields", i)
		}
	}

	seen := map[string]bool{}
	for _, s := range sessions {
		if seen[s.ID] {
			t.Fatalf("duplicate session ID %s in expansion", s.ID)
		}
		seen[s.ID] = true
	}
}

func TestExpandRecurring_Weekly(t *testing.T) {
	base := baseSession(t)

	sessions, _, err := ExpandRecurring(base, "FREQ=WEEKLY;COUNT=3", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sessions) != 3 {
		t.Fatalf("got %d sessions, want 3", len(sessions))
	}
	if want := base.StartsAt.AddDate(0, 0, 14); !sessions[2].StartsAt.Equal(want) {
		t.Errorf("third occurrence starts at %v, want %v", sessions[2].StartsAt, want)
	}
}

func TestExpandRecurring_CapsUnboundedRules(t *testing.T) {
	base := baseSession(t)

	sessions, truncated, err := ExpandRecurring(base, "FREQ=DAILY", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !truncated {
		t.Error("unbounded rule should report truncation")
	}
	if len(sessions) != 10 {
		t.Errorf("got %d sessions, want the cap of 10", len(sessions))
	}
}

func TestExpandRecurring_Errors(t *testing.T) {
	base := baseSession(t)

	if _, _, err := ExpandRecurring(base, "FREQ=SOMETIMES", 0); err == nil {
		t.Error("expected error for malformed rule")
	}

	bad := &Session{ID: "x", Title: "Broken", StartsAt: base.EndsAt, EndsAt: base.StartsAt}
	if _, _, err := ExpandRecurring(bad, "FREQ=DAILY;COUNT=2", 0); err == nil {
		t.Error("expected error for invalid base session")
	}
}
