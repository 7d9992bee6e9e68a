package tui

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fundingthecommons/impactful-events-sub003/internal/db"
	"github.com/fundingthecommons/impactful-events-sub003/internal/event"
	"github.com/fundingthecommons/impactful-events-sub003/internal/tui/commands"
)

// fakeRepo is an in-memory Repository for driving the model without SQLite.
type fakeRepo struct {
	commits   []*event.ShiftPlan
	commitErr error
}

func (f *fakeRepo) CreateSession(ctx context.Context, s *event.Session) error { return nil }
func (f *fakeRepo) CreateSessions(ctx context.Context, sessions []*event.Session) error {
	return nil
}
func (f *fakeRepo) GetSession(ctx context.Context, id string) (*event.Session, error) {
	return nil, nil
}
func (f *fakeRepo) UpdateSession(ctx context.Context, s *event.Session) error { return nil }
func (f *fakeRepo) CancelSession(ctx context.Context, id string) error        { return nil }
func (f *fakeRepo) ListSessionsBetween(ctx context.Context, from, to time.Time) ([]*event.Session, error) {
	return nil, nil
}
func (f *fakeRepo) CreateRoom(ctx context.Context, r *event.Room) error { return nil }
func (f *fakeRepo) GetRoom(ctx context.Context, id string) (*event.Room, error) {
	return nil, nil
}
func (f *fakeRepo) ListRooms(ctx context.Context) ([]*event.Room, error) { return nil, nil }
func (f *fakeRepo) CommitReschedule(ctx context.Context, plan *event.ShiftPlan) error {
	if f.commitErr != nil {
		return f.commitErr
	}
	f.commits = append(f.commits, plan)
	return nil
}
func (f *fakeRepo) Close() error { return nil }

func TestDayLoadedBuildsGrid(t *testing.T) {
	m := testModel(t)

	if m.loading {
		t.Error("expected loading to clear once the day arrives")
	}
	if m.grid == nil {
		t.Fatal("expected a grid after the day loads")
	}
	if got := m.grid.SlotCount(); got != 48 {
		t.Errorf("slot count = %d, want 48", got)
	}
	if got := len(m.grid.Columns); got != 2 {
		t.Fatalf("columns = %d, want 2", got)
	}
	if m.grid.Columns[0].RoomID != "main" {
		t.Errorf("first column = %q, want main (sort order)", m.grid.Columns[0].RoomID)
	}
}

func TestMoveCommittedUnlocksRoomsAndReloads(t *testing.T) {
	m := testModel(t)
	plan := &event.ShiftPlan{
		SessionID:  "s1",
		NewRoomID:  "main",
		PrevRoomID: "main",
		Shifts:     []event.Shift{{SessionID: "s1"}},
	}
	m.lockPlanRooms(plan)

	updated, cmd := m.Update(commands.MoveCommittedMsg{Plan: plan})
	m = updated.(Model)

	if m.roomLocked("main") {
		t.Error("expected the room lock to clear on commit")
	}
	if m.statusMsg != "Moved" {
		t.Errorf("status = %q, want %q", m.statusMsg, "Moved")
	}
	if cmd == nil {
		t.Error("expected a reload command after the commit")
	}
}

func TestMoveStatusCountsCascade(t *testing.T) {
	tests := []struct {
		name   string
		shifts int
		want   string
	}{
		{name: "no_plan", shifts: 0, want: "Moved"},
		{name: "single", shifts: 1, want: "Moved"},
		{name: "one_pushed", shifts: 2, want: "Moved, 1 session pushed later"},
		{name: "three_pushed", shifts: 4, want: "Moved, 3 sessions pushed later"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := &event.ShiftPlan{Shifts: make([]event.Shift, tt.shifts)}
			if got := moveStatus(plan); got != tt.want {
				t.Fatalf("moveStatus = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMoveFailedConflictAnnouncesReload(t *testing.T) {
	m := testModel(t)
	plan := &event.ShiftPlan{SessionID: "s1", NewRoomID: "main", PrevRoomID: "main"}
	m.lockPlanRooms(plan)

	updated, cmd := m.Update(commands.MoveFailedMsg{
		Plan: plan,
		Err:  fmt.Errorf("commit s1: %w", db.ErrCommitConflict),
	})
	m = updated.(Model)

	if m.roomLocked("main") {
		t.Error("expected the room lock to clear on failure")
	}
	if m.statusMsg != "Schedule changed underneath you, reloading" {
		t.Errorf("status = %q, want the conflict message", m.statusMsg)
	}
	if cmd == nil {
		t.Error("expected a reload command after the failure")
	}
}

func TestMoveFailedOtherErrorsShowTheCause(t *testing.T) {
	m := testModel(t)

	updated, _ := m.Update(commands.MoveFailedMsg{
		Plan: &event.ShiftPlan{},
		Err:  errors.New("disk full"),
	})
	m = updated.(Model)

	if m.statusMsg != "Save failed: disk full" {
		t.Errorf("status = %q, want %q", m.statusMsg, "Save failed: disk full")
	}
}

func TestReloadCancelsDragWhenSessionDisappears(t *testing.T) {
	m := testModel(t)
	m.cursor = Position{Col: 0, Slot: 4} // Opening Keynote, 09:00

	updated, _ := m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'m'}})
	m = updated.(Model)
	if m.mode != ModeDrag {
		t.Fatalf("mode = %d, want ModeDrag after grab", m.mode)
	}

	// Another operator cancelled it; the reload no longer carries s1.
	updated, _ = m.Update(testDayLoaded([]*event.Session{
		testSession("s2", "Intro Workshop", "workshop", 9, 0, 90),
	}))
	m = updated.(Model)

	if m.mode != ModeNormal {
		t.Errorf("mode = %d, want ModeNormal after the session vanished", m.mode)
	}
	if m.drag.Phase() != DragIdle {
		t.Errorf("drag phase = %d, want DragIdle", m.drag.Phase())
	}
}

func TestReloadKeepsDragWhenSessionSurvives(t *testing.T) {
	m := testModel(t)
	m.cursor = Position{Col: 0, Slot: 4}

	updated, _ := m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'m'}})
	m = updated.(Model)

	updated, _ = m.Update(testDayLoaded(testSessions()))
	m = updated.(Model)

	if m.mode != ModeDrag {
		t.Errorf("mode = %d, want ModeDrag to survive the reload", m.mode)
	}
	if m.drag.SessionID() != "s1" {
		t.Errorf("drag session = %q, want s1", m.drag.SessionID())
	}
}

func TestStatusClearsOnlyAfterItsTime(t *testing.T) {
	m := testModel(t)

	m.statusMsg = "Moved"
	m.statusTime = time.Now().Add(time.Hour)
	updated, _ := m.Update(commands.ClearStatusMsg{})
	m = updated.(Model)
	if m.statusMsg != "Moved" {
		t.Errorf("status cleared early, still had %v to live", time.Hour)
	}

	m.statusTime = time.Now().Add(-time.Second)
	updated, _ = m.Update(commands.ClearStatusMsg{})
	m = updated.(Model)
	if m.statusMsg != "" {
		t.Errorf("status = %q, want cleared after its time", m.statusMsg)
	}
}

func TestErrMsgSurfacesError(t *testing.T) {
	m := testModel(t)
	m.loading = true

	updated, _ := m.Update(commands.ErrMsg{Err: errors.New("boom")})
	m = updated.(Model)

	if m.err == nil {
		t.Error("expected err to be recorded")
	}
	if m.loading {
		t.Error("expected loading to clear on error")
	}
	if m.statusMsg != "Error: boom" {
		t.Errorf("status = %q, want %q", m.statusMsg, "Error: boom")
	}
}

func TestKeyboardMoveCommitsThroughRepository(t *testing.T) {
	repo := &fakeRepo{}
	m := New(repo, testConfig(), WithNowFunc(func() time.Time { return testNow }))
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = updated.(Model)
	updated, _ = m.Update(testDayLoaded(testSessions()))
	m = updated.(Model)

	// Grab the keynote and push it down two slots, onto the panel.
	m.cursor = Position{Col: 0, Slot: 4}
	for _, key := range []rune{'m', 'j', 'j'} {
		updated, _ = m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{key}})
		m = updated.(Model)
	}
	if m.previewGrid == nil {
		t.Fatal("expected a live preview grid during the drag")
	}

	updated, cmd := m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	if cmd == nil {
		t.Fatal("expected a commit command from the drop")
	}

	// The move is visible immediately, cascade included.
	if got := m.findSession("s1").StartsAt; !got.Equal(time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)) {
		t.Errorf("s1 starts at %v, want 09:30", got)
	}
	if got := m.findSession("s3").StartsAt; !got.Equal(time.Date(2026, 3, 10, 10, 30, 0, 0, time.UTC)) {
		t.Errorf("s3 starts at %v, want pushed to 10:30", got)
	}
	if !m.roomLocked("main") {
		t.Error("expected the room to lock while the commit is in flight")
	}
	if m.statusMsg != "Saving: Opening Keynote" {
		t.Errorf("status = %q, want %q", m.statusMsg, "Saving: Opening Keynote")
	}

	msg := cmd()
	committed, ok := msg.(commands.MoveCommittedMsg)
	if !ok {
		t.Fatalf("commit produced %T, want MoveCommittedMsg", msg)
	}
	if len(repo.commits) != 1 {
		t.Fatalf("repository saw %d commits, want 1", len(repo.commits))
	}
	if got := len(repo.commits[0].Shifts); got != 2 {
		t.Errorf("committed plan has %d shifts, want 2", got)
	}

	updated, _ = m.Update(committed)
	m = updated.(Model)
	if m.roomLocked("main") {
		t.Error("expected the room lock to clear once the commit lands")
	}
	if m.statusMsg != "Moved, 1 session pushed later" {
		t.Errorf("status = %q, want the cascade summary", m.statusMsg)
	}
}

func TestDropRejectedWhenCascadeRunsPastMidnight(t *testing.T) {
	m := testModel(t)

	// A 23:00 session stretches the grid to 63 slots. Dropping the hour-long
	// keynote on it would push it past midnight, so the drop must refuse.
	night := testSession("s5", "Night Owls", "main", 23, 0, 45)
	updated, _ := m.Update(testDayLoaded(append(testSessions(), night)))
	m = updated.(Model)
	if got := m.maxSlots(); got != 63 {
		t.Fatalf("slot count = %d, want 63 with the late session", got)
	}

	m.cursor = Position{Col: 0, Slot: 4}
	updated, _ = m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'m'}})
	m = updated.(Model)

	// Page and step the block down to slot 60, 23:00.
	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyPgDown},
		{Type: tea.KeyPgDown},
		{Type: tea.KeyPgDown},
		{Type: tea.KeyRunes, Runes: []rune{'j'}},
		{Type: tea.KeyRunes, Runes: []rune{'j'}},
	} {
		updated, _ = m.handleKeyMsg(key)
		m = updated.(Model)
	}
	if _, slot := m.drag.Target(); slot != 60 {
		t.Fatalf("drag target slot = %d, want 60", slot)
	}
	if m.previewErr == nil {
		t.Error("expected the preview to flag the undroppable target")
	}

	updated, cmd := m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	if cmd != nil {
		t.Error("expected no commit command from a rejected drop")
	}
	if want := "Does not fit: sessions would be pushed past the end of the day"; m.statusMsg != want {
		t.Errorf("status = %q, want %q", m.statusMsg, want)
	}
	if got := m.findSession("s1").StartsAt; !got.Equal(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)) {
		t.Errorf("s1 starts at %v, want untouched 09:00", got)
	}
	if got := m.findSession("s5").StartsAt; !got.Equal(time.Date(2026, 3, 10, 23, 0, 0, 0, time.UTC)) {
		t.Errorf("s5 starts at %v, want untouched 23:00", got)
	}
}

func TestEscCancelsDragWithoutMovingAnything(t *testing.T) {
	m := testModel(t)
	m.cursor = Position{Col: 0, Slot: 4}

	updated, _ := m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'m'}})
	m = updated.(Model)
	updated, _ = m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	m = updated.(Model)

	updated, _ = m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(Model)

	if m.mode != ModeNormal {
		t.Errorf("mode = %d, want ModeNormal after Esc", m.mode)
	}
	if m.statusMsg != "Move cancelled" {
		t.Errorf("status = %q, want %q", m.statusMsg, "Move cancelled")
	}
	if got := m.findSession("s1").StartsAt; !got.Equal(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)) {
		t.Errorf("s1 moved to %v on a cancelled drag", got)
	}
}
