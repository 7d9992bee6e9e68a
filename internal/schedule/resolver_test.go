package schedule

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/fundingthecommons/impactful-events-sub003/internal/event"
)

func testResolver(inst Instrumentation) *Resolver {
	return NewResolver(refZone, inst)
}

// assertNoConflicts applies the plan and verifies no two scheduled sessions
// in the same room overlap afterwards.
func assertNoConflicts(t *testing.T, sessions []*event.Session, plan *event.ShiftPlan) {
	t.Helper()
	after := ApplyPlan(sessions, plan)
	for i := 0; i < len(after); i++ {
		for j := i + 1; j < len(after); j++ {
			if after[i].ConflictsWith(after[j]) {
				t.Errorf("conflict after plan: %s (%v-%v) vs %s (%v-%v)",
					after[i].ID, after[i].StartsAt, after[i].EndsAt,
					after[j].ID, after[j].StartsAt, after[j].EndsAt)
			}
		}
	}
}

func TestResolve_NoOp(t *testing.T) {
	a := sess("a", "r1", tm(10, 0), tm(11, 0))
	plan, err := testResolver(nil).Resolve(a, tm(10, 0), "r1", []*event.Session{a})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !plan.Empty() {
		t.Errorf("dropping on own start must produce an empty plan, got %d shifts", len(plan.Shifts))
	}
}

func TestResolve_SameStartDifferentRoomIsNotANoOp(t *testing.T) {
	a := sess("a", "r1", tm(10, 0), tm(11, 0))
	plan, err := testResolver(nil).Resolve(a, tm(10, 0), "r2", []*event.Session{a})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Empty() {
		t.Fatal("room change must not resolve to an empty plan")
	}
	if !plan.RoomMove() {
		t.Error("expected RoomMove()")
	}
	if plan.PrevRoomID != "r1" || plan.NewRoomID != "r2" {
		t.Errorf("room basis = %q -> %q, want r1 -> r2", plan.PrevRoomID, plan.NewRoomID)
	}
}

func TestResolve_MoveIntoOpenSpace(t *testing.T) {
	a := sess("a", "r1", tm(9, 0), tm(10, 0))
	b := sess("b", "r1", tm(14, 0), tm(15, 0))
	plan, err := testResolver(nil).Resolve(a, tm(11, 0), "r1", []*event.Session{a, b})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan.Shifts) != 1 {
		t.Fatalf("got %d shifts, want only the moved session", len(plan.Shifts))
	}
	sh := plan.Shifts[0]
	if !sh.NewStart.Equal(tm(11, 0)) || !sh.NewEnd.Equal(tm(12, 0)) {
		t.Errorf("moved to %v-%v, want 11:00-12:00", sh.NewStart, sh.NewEnd)
	}
	if !sh.PrevStart.Equal(tm(9, 0)) || !sh.PrevEnd.Equal(tm(10, 0)) {
		t.Errorf("basis = %v-%v, want 09:00-10:00", sh.PrevStart, sh.PrevEnd)
	}
}

func TestResolve_PushesOverlappedNeighbor(t *testing.T) {
	a := sess("a", "r1", tm(9, 0), tm(10, 0))
	b := sess("b", "r1", tm(11, 0), tm(12, 0))
	plan, err := testResolver(nil).Resolve(a, tm(10, 30), "r1", []*event.Session{a, b})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan.Shifts) != 2 {
		t.Fatalf("got %d shifts, want 2", len(plan.Shifts))
	}
	if got := plan.Shifts[0]; got.SessionID != "a" || !got.NewStart.Equal(tm(10, 30)) || !got.NewEnd.Equal(tm(11, 30)) {
		t.Errorf("primary shift = %s %v-%v, want a 10:30-11:30", got.SessionID, got.NewStart, got.NewEnd)
	}
	if got := plan.Shifts[1]; got.SessionID != "b" || !got.NewStart.Equal(tm(11, 30)) || !got.NewEnd.Equal(tm(12, 30)) {
		t.Errorf("cascaded shift = %s %v-%v, want b 11:30-12:30", got.SessionID, got.NewStart, got.NewEnd)
	}
	assertNoConflicts(t, []*event.Session{a, b}, plan)
}

func TestResolve_CascadeChain(t *testing.T) {
	a := sess("a", "r1", tm(10, 0), tm(11, 0))
	b := sess("b", "r1", tm(11, 0), tm(12, 0))
	c := sess("c", "r1", tm(12, 0), tm(13, 0))
	all := []*event.Session{a, b, c}

	rec := &recorder{}
	plan, err := testResolver(rec).Resolve(a, tm(10, 30), "r1", all)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan.Shifts) != 3 {
		t.Fatalf("got %d shifts, want 3", len(plan.Shifts))
	}
	wantStarts := []time.Time{tm(10, 30), tm(11, 30), tm(12, 30)}
	for i, sh := range plan.Shifts {
		if !sh.NewStart.Equal(wantStarts[i]) {
			t.Errorf("shift %d starts %v, want %v", i, sh.NewStart, wantStarts[i])
		}
		if got := sh.NewEnd.Sub(sh.NewStart); got != time.Hour {
			t.Errorf("shift %d duration = %v, want 1h", i, got)
		}
	}
	if len(rec.cascades) != 1 || rec.cascades[0] != 2 {
		t.Errorf("CascadeResolved recorded %v, want one call with 2", rec.cascades)
	}
	assertNoConflicts(t, all, plan)
}

func TestResolve_GapAbsorbsCascade(t *testing.T) {
	a := sess("a", "r1", tm(9, 0), tm(10, 0))
	b := sess("b", "r1", tm(10, 30), tm(11, 0))
	far := sess("far", "r1", tm(14, 0), tm(15, 0))

	plan, err := testResolver(nil).Resolve(a, tm(10, 0), "r1", []*event.Session{a, b, far})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan.Shifts) != 2 {
		t.Fatalf("got %d shifts, want 2 (far session must not move)", len(plan.Shifts))
	}
	for _, sh := range plan.Shifts {
		if sh.SessionID == "far" {
			t.Error("session beyond the gap was shifted")
		}
	}
}

func TestResolve_PushLaterOnly(t *testing.T) {
	// Moving a session earlier frees its old slot; later neighbors stay put.
	a := sess("a", "r1", tm(10, 0), tm(11, 0))
	b := sess("b", "r1", tm(11, 0), tm(12, 0))
	plan, err := testResolver(nil).Resolve(a, tm(8, 0), "r1", []*event.Session{a, b})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan.Shifts) != 1 {
		t.Fatalf("got %d shifts, want 1; gaps are never back-filled", len(plan.Shifts))
	}
}

func TestResolve_LeftOverlappingNeighborIsPushedForward(t *testing.T) {
	long := sess("long", "r1", tm(9, 0), tm(11, 0))
	a := sess("a", "r1", tm(13, 0), tm(14, 0))

	plan, err := testResolver(nil).Resolve(a, tm(10, 0), "r1", []*event.Session{a, long})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan.Shifts) != 2 {
		t.Fatalf("got %d shifts, want 2", len(plan.Shifts))
	}
	sh := plan.Shifts[1]
	if sh.SessionID != "long" || !sh.NewStart.Equal(tm(11, 0)) || !sh.NewEnd.Equal(tm(13, 0)) {
		t.Errorf("neighbor shifted to %v-%v, want 11:00-13:00", sh.NewStart, sh.NewEnd)
	}
}

func TestResolve_OutOfBounds(t *testing.T) {
	t.Run("moved session past midnight", func(t *testing.T) {
		a := sess("a", "r1", tm(9, 0), tm(11, 0))
		_, err := testResolver(nil).Resolve(a, tm(23, 0), "r1", []*event.Session{a})
		if !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("got %v, want ErrOutOfBounds", err)
		}
	})

	t.Run("cascade past midnight", func(t *testing.T) {
		a := sess("a", "r1", tm(9, 0), tm(10, 0))
		b := sess("b", "r1", tm(22, 0), tm(23, 45))
		plan, err := testResolver(nil).Resolve(a, tm(21, 30), "r1", []*event.Session{a, b})
		if !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("got %v, want ErrOutOfBounds", err)
		}
		if plan != nil {
			t.Error("a refused resolution must not return a partial plan")
		}
	})

	t.Run("fits exactly to midnight", func(t *testing.T) {
		a := sess("a", "r1", tm(9, 0), tm(10, 0))
		b := sess("b", "r1", tm(23, 0), tm(23, 30))
		plan, err := testResolver(nil).Resolve(a, tm(22, 30), "r1", []*event.Session{a, b})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := plan.Shifts[1].NewEnd; !got.Equal(tm(24, 0)) {
			t.Errorf("neighbor ends %v, want exactly midnight", got)
		}
	})
}

func TestResolve_IgnoresOtherRoomsAndDays(t *testing.T) {
	a := sess("a", "r1", tm(9, 0), tm(10, 0))
	other := sess("other-room", "r2", tm(10, 0), tm(11, 0))
	nextDay := sess("next-day", "r1", tm(24+10, 0), tm(24+11, 0))
	cancelled := sess("cancelled", "r1", tm(10, 0), tm(11, 0))
	cancelled.Status = event.StatusCancelled

	pool := []*event.Session{a, other, nextDay, cancelled}
	plan, err := testResolver(nil).Resolve(a, tm(10, 0), "r1", pool)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan.Shifts) != 1 {
		t.Fatalf("got %d shifts, want 1", len(plan.Shifts))
	}
}

func TestResolve_RoomMoveCascadesDestinationOnly(t *testing.T) {
	a := sess("a", "r1", tm(10, 0), tm(11, 0))
	src := sess("src-neighbor", "r1", tm(11, 0), tm(12, 0))
	dst := sess("dst-neighbor", "r2", tm(10, 30), tm(11, 30))
	pool := []*event.Session{a, src, dst}

	plan, err := testResolver(nil).Resolve(a, tm(10, 0), "r2", pool)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ids := map[string]bool{}
	for _, sh := range plan.Shifts {
		ids[sh.SessionID] = true
	}
	if !ids["a"] || !ids["dst-neighbor"] {
		t.Errorf("plan shifts %v, want a and dst-neighbor", ids)
	}
	if ids["src-neighbor"] {
		t.Error("source room neighbor must not move")
	}
	assertNoConflicts(t, pool, plan)
}

func TestResolve_ThirtySessionCascade(t *testing.T) {
	// 30 back-to-back 20-minute sessions from 08:00 to 18:00.
	var pool []*event.Session
	for i := 0; i < 30; i++ {
		start := tm(8, 0).Add(time.Duration(i) * 20 * time.Minute)
		pool = append(pool, sess(fmt.Sprintf("s%02d", i), "r1", start, start.Add(20*time.Minute)))
	}
	mover := sess("mover", "r1", tm(19, 0), tm(19, 20))
	pool = append(pool, mover)

	plan, err := testResolver(nil).Resolve(mover, tm(8, 0), "r1", pool)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan.Shifts) != 31 {
		t.Fatalf("got %d shifts, want 31", len(plan.Shifts))
	}
	for i := 1; i < len(plan.Shifts); i++ {
		prev, cur := plan.Shifts[i-1], plan.Shifts[i]
		if cur.NewStart.Before(prev.NewStart) {
			t.Fatalf("plan not ordered earliest first at %d", i)
		}
		if !cur.NewStart.Equal(prev.NewEnd) {
			t.Errorf("shift %d starts %v, want %v", i, cur.NewStart, prev.NewEnd)
		}
		if got := cur.NewEnd.Sub(cur.NewStart); got != 20*time.Minute {
			t.Errorf("shift %d duration = %v, want 20m", i, got)
		}
	}
	if last := plan.Shifts[30].NewEnd; !last.Equal(tm(18, 20)) {
		t.Errorf("cascade ends %v, want 18:20", last)
	}
	assertNoConflicts(t, pool, plan)
}

func TestResolve_RefusesUnmovableSessions(t *testing.T) {
	t.Run("cancelled", func(t *testing.T) {
		a := sess("a", "r1", tm(9, 0), tm(10, 0))
		a.Status = event.StatusCancelled
		if _, err := testResolver(nil).Resolve(a, tm(11, 0), "r1", nil); !errors.Is(err, event.ErrNotScheduled) {
			t.Errorf("got %v, want ErrNotScheduled", err)
		}
	})

	t.Run("degenerate interval", func(t *testing.T) {
		a := sess("a", "r1", tm(10, 0), tm(9, 0))
		if _, err := testResolver(nil).Resolve(a, tm(11, 0), "r1", nil); !errors.Is(err, event.ErrInvalidInterval) {
			t.Errorf("got %v, want ErrInvalidInterval", err)
		}
	})
}

func TestResolve_SkipsDegenerateNeighbors(t *testing.T) {
	rec := &recorder{}
	a := sess("a", "r1", tm(9, 0), tm(10, 0))
	broken := sess("broken", "r1", tm(11, 0), tm(10, 30))
	plan, err := testResolver(rec).Resolve(a, tm(10, 45), "r1", []*event.Session{a, broken})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan.Shifts) != 1 {
		t.Errorf("got %d shifts, want 1; degenerate neighbors sit out", len(plan.Shifts))
	}
	if len(rec.skipped) != 1 || rec.skipped[0] != "broken" {
		t.Errorf("SessionSkipped recorded %v, want [broken]", rec.skipped)
	}
}

func TestApplyPlan(t *testing.T) {
	a := sess("a", "r1", tm(9, 0), tm(10, 0))
	b := sess("b", "r1", tm(11, 0), tm(12, 0))
	pool := []*event.Session{a, b}

	plan, err := testResolver(nil).Resolve(a, tm(10, 30), "r2", pool)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	after := ApplyPlan(pool, plan)

	if !a.StartsAt.Equal(tm(9, 0)) || a.RoomID != "r1" {
		t.Error("ApplyPlan mutated the input sessions")
	}
	var movedA, movedB *event.Session
	for _, s := range after {
		switch s.ID {
		case "a":
			movedA = s
		case "b":
			movedB = s
		}
	}
	if movedA.RoomID != "r2" || !movedA.StartsAt.Equal(tm(10, 30)) {
		t.Errorf("a = %s %v, want r2 10:30", movedA.RoomID, movedA.StartsAt)
	}
	if movedB.RoomID != "r1" {
		t.Error("cascaded neighbor must keep its room")
	}
}
