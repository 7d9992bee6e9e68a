package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fundingthecommons/impactful-events-sub003/internal/config"
	"github.com/fundingthecommons/impactful-events-sub003/internal/event"
	"github.com/fundingthecommons/impactful-events-sub003/internal/tui/commands"
)

// Fixed clock for the model tests: Tuesday 2026-03-10, 09:10 venue time.
var testNow = time.Date(2026, 3, 10, 9, 10, 0, 0, time.UTC)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Venue.Name = "DevConf"
	cfg.Venue.Timezone = "UTC"
	return cfg
}

func testRooms() []*event.Room {
	return []*event.Room{
		{ID: "workshop", Name: "Workshop", SortOrder: 2},
		{ID: "main", Name: "Main Hall", SortOrder: 1},
	}
}

func testSession(id, title, roomID string, startHour, startMin, durMin int) *event.Session {
	start := time.Date(2026, 3, 10, startHour, startMin, 0, 0, time.UTC)
	return &event.Session{
		ID:       id,
		Title:    title,
		RoomID:   roomID,
		StartsAt: start,
		EndsAt:   start.Add(time.Duration(durMin) * time.Minute),
		Status:   event.StatusScheduled,
	}
}

func testSessions() []*event.Session {
	return []*event.Session{
		testSession("s1", "Opening Keynote", "main", 9, 0, 60),
		testSession("s2", "Intro Workshop", "workshop", 9, 0, 90),
		testSession("s3", "Panel Debate", "main", 10, 0, 60),
	}
}

func testDayLoaded(sessions []*event.Session) commands.DayLoadedMsg {
	return commands.DayLoadedMsg{
		Day:      time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		Sessions: sessions,
		Rooms:    testRooms(),
	}
}

// testModel builds a model sized 80x24 with the fixture day loaded. The grid
// spans 08:00-20:00 in 15-minute slots: 48 rows in two room columns, Main
// Hall first, 18 of them visible between the chrome.
func testModel(t *testing.T) Model {
	t.Helper()
	m := New(nil, testConfig(), WithNowFunc(func() time.Time { return testNow }))

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = updated.(Model)

	updated, _ = m.Update(testDayLoaded(testSessions()))
	return updated.(Model)
}

func TestNewModelDefaults(t *testing.T) {
	m := New(nil, testConfig(), WithNowFunc(func() time.Time { return testNow }))

	if m.mode != ModeNormal {
		t.Errorf("mode = %d, want ModeNormal", m.mode)
	}
	if !m.loading {
		t.Error("expected a fresh model to start loading")
	}
	if m.pending == nil {
		t.Error("expected the pending room set to be allocated")
	}
	if m.formDuration != defaultDurationIdx {
		t.Errorf("formDuration = %d, want %d", m.formDuration, defaultDurationIdx)
	}
	wantDay := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	if !m.day.Equal(wantDay) {
		t.Errorf("day = %v, want %v", m.day, wantDay)
	}
}

func TestWithDayOpensOnThatDay(t *testing.T) {
	m := New(nil, testConfig(), WithDay(time.Date(2026, 4, 2, 17, 45, 0, 0, time.UTC)))

	want := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)
	if !m.day.Equal(want) {
		t.Errorf("day = %v, want %v", m.day, want)
	}
}

func TestNewModelFallsBackToUTCOnBadTimezone(t *testing.T) {
	cfg := testConfig()
	cfg.Venue.Timezone = "Atlantis/Nowhere"

	m := New(nil, cfg)
	if m.zone != time.UTC {
		t.Errorf("zone = %v, want UTC fallback", m.zone)
	}
}

func TestNewModelAppliesModalInputStyles(t *testing.T) {
	m := New(nil, testConfig())

	if got, want := m.formTitle.TextStyle.Render("x"), m.styles.ModalInputTextStyle.Render("x"); got != want {
		t.Errorf("TextStyle mismatch: got %q, want %q", got, want)
	}
	if got, want := m.formTitle.PromptStyle.Render("x"), m.styles.ModalInputTextStyle.Render("x"); got != want {
		t.Errorf("PromptStyle mismatch: got %q, want %q", got, want)
	}
	if got, want := m.formTitle.Cursor.Style.Render("x"), m.styles.ModalInputCursorStyle.Render("x"); got != want {
		t.Errorf("Cursor style mismatch: got %q, want %q", got, want)
	}
}

func TestGridConfigFollowsVenueHours(t *testing.T) {
	cfg := testConfig()
	cfg.Venue.DayStart = "09:00"
	cfg.Venue.DayEnd = "17:00"
	cfg.Schedule.SlotMinutes = 30

	gc := gridConfig(cfg, time.UTC)
	if gc.DayStartMinutes != 9*60 {
		t.Errorf("DayStartMinutes = %d, want %d", gc.DayStartMinutes, 9*60)
	}
	if gc.DayEndMinutes != 17*60 {
		t.Errorf("DayEndMinutes = %d, want %d", gc.DayEndMinutes, 17*60)
	}
	if gc.SlotDuration != 30*time.Minute {
		t.Errorf("SlotDuration = %v, want 30m", gc.SlotDuration)
	}
}
