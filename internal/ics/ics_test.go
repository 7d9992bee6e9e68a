package ics

import (
	"strings"
	"testing"
	"time"

	"github.com/fundingthecommons/impactful-events-sub003/internal/event"
)

var testDay = time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)

func testRooms() []*event.Room {
	return []*event.Room{
		{ID: "r-main", Name: "Main Stage", SortOrder: 1, CreatedAt: testDay},
		{ID: "r-workshop", Name: "Workshop Room", SortOrder: 2, CreatedAt: testDay},
	}
}

func TestBuildCalendar(t *testing.T) {
	keynote := &event.Session{
		ID:        "s1",
		Title:     "Opening Keynote",
		Speakers:  []string{"Ada Lovelace"},
		RoomID:    "r-main",
		StartsAt:  testDay.Add(9 * time.Hour),
		EndsAt:    testDay.Add(10 * time.Hour),
		Status:    event.StatusScheduled,
		CreatedAt: testDay,
	}
	dropped := &event.Session{
		ID:        "s2",
		Title:     "Dropped Talk",
		StartsAt:  testDay.Add(10 * time.Hour),
		EndsAt:    testDay.Add(11 * time.Hour),
		Status:    event.StatusCancelled,
		CreatedAt: testDay,
	}

	out := BuildCalendar("FOSS Summit", []*event.Session{keynote, dropped}, testRooms())

	for _, want := range []string{
		"BEGIN:VCALENDAR",
		"METHOD:PUBLISH",
		"X-WR-CALNAME:FOSS Summit",
		"UID:s1@eventgrid",
		"SUMMARY:Opening Keynote",
		"DTSTART:20260310T090000Z",
		"DTEND:20260310T100000Z",
		"LOCATION:Main Stage",
		"X-SPEAKERS:Ada Lovelace",
		"STATUS:CONFIRMED",
		"STATUS:CANCELLED",
		"END:VCALENDAR",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("calendar is missing %q:\n%s", want, out)
		}
	}
}

func TestBuildAndParseRoundTrip(t *testing.T) {
	rooms := testRooms()
	keynote := &event.Session{
		ID:          "s1",
		Title:       "Opening Keynote",
		Speakers:    []string{"Ada Lovelace"},
		RoomID:      "r-main",
		StartsAt:    testDay.Add(9 * time.Hour),
		EndsAt:      testDay.Add(10*time.Hour + 30*time.Minute),
		Description: "Welcome and roadmap.",
		Status:      event.StatusScheduled,
		CreatedAt:   testDay,
	}
	dropped := &event.Session{
		ID:        "s2",
		Title:     "Dropped Talk",
		StartsAt:  testDay.Add(11 * time.Hour),
		EndsAt:    testDay.Add(12 * time.Hour),
		Status:    event.StatusCancelled,
		CreatedAt: testDay,
	}

	out := BuildCalendar("FOSS Summit", []*event.Session{keynote, dropped}, rooms)

	parsed, warnings, err := ParseSessions(strings.NewReader(out), rooms)
	if err != nil {
		t.Fatalf("ParseSessions failed: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if len(parsed) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(parsed))
	}

	got := parsed[0]
	if got.Title != keynote.Title {
		t.Errorf("Title: got %q, want %q", got.Title, keynote.Title)
	}
	if !got.StartsAt.Equal(keynote.StartsAt) || !got.EndsAt.Equal(keynote.EndsAt) {
		t.Errorf("interval: got %v - %v, want %v - %v", got.StartsAt, got.EndsAt, keynote.StartsAt, keynote.EndsAt)
	}
	if got.RoomID != "r-main" {
		t.Errorf("RoomID: got %q, want %q", got.RoomID, "r-main")
	}
	if len(got.Speakers) != 1 || got.Speakers[0] != "Ada Lovelace" {
		t.Errorf("Speakers: got %v, want [Ada Lovelace]", got.Speakers)
	}
	if got.Description != keynote.Description {
		t.Errorf("Description: got %q, want %q", got.Description, keynote.Description)
	}
	if got.ID == keynote.ID {
		t.Error("imported session reused the exported ID")
	}

	if parsed[1].Status != event.StatusCancelled {
		t.Errorf("Status: got %q, want %q", parsed[1].Status, event.StatusCancelled)
	}
	if parsed[1].RoomID != "" {
		t.Errorf("RoomID: got %q, want unassigned", parsed[1].RoomID)
	}
}

func TestParseSessions_SkipsUnusableEvents(t *testing.T) {
	payload := strings.Join([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//Conference//Program//EN",
		"BEGIN:VEVENT",
		"UID:talk-1@example.org",
		"DTSTAMP:20260301T120000Z",
		"DTSTART:20260310T140000Z",
		"DTEND:20260310T150000Z",
		"SUMMARY:Panel Discussion",
		"LOCATION:workshop room",
		"X-SPEAKERS:Ada Lovelace, Grace Hopper",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:allday-1@example.org",
		"DTSTAMP:20260301T120000Z",
		"DTSTART;VALUE=DATE:20260310",
		"DTEND;VALUE=DATE:20260311",
		"SUMMARY:Venue open",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:broken-1@example.org",
		"DTSTAMP:20260301T120000Z",
		"DTSTART:20260310T160000Z",
		"DTEND:20260310T170000Z",
		"END:VEVENT",
		"END:VCALENDAR",
	}, "\r\n")

	parsed, warnings, err := ParseSessions(strings.NewReader(payload), testRooms())
	if err != nil {
		t.Fatalf("ParseSessions failed: %v", err)
	}

	if len(parsed) != 1 {
		t.Fatalf("expected 1 session, got %d", len(parsed))
	}
	if len(warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %d: %v", len(warnings), warnings)
	}

	got := parsed[0]
	if got.Title != "Panel Discussion" {
		t.Errorf("Title: got %q, want %q", got.Title, "Panel Discussion")
	}
	// LOCATION matching ignores case
	if got.RoomID != "r-workshop" {
		t.Errorf("RoomID: got %q, want %q", got.RoomID, "r-workshop")
	}
	if len(got.Speakers) != 2 || got.Speakers[0] != "Ada Lovelace" || got.Speakers[1] != "Grace Hopper" {
		t.Errorf("Speakers: got %v, want 2 speakers", got.Speakers)
	}
}

func TestParseSessions_UnknownLocation(t *testing.T) {
	payload := strings.Join([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//Conference//Program//EN",
		"BEGIN:VEVENT",
		"UID:talk-1@example.org",
		"DTSTAMP:20260301T120000Z",
		"DTSTART:20260310T140000Z",
		"DTEND:20260310T150000Z",
		"SUMMARY:Hallway Track",
		"LOCATION:Cafeteria",
		"END:VEVENT",
		"END:VCALENDAR",
	}, "\r\n")

	parsed, warnings, err := ParseSessions(strings.NewReader(payload), testRooms())
	if err != nil {
		t.Fatalf("ParseSessions failed: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if len(parsed) != 1 {
		t.Fatalf("expected 1 session, got %d", len(parsed))
	}
	if parsed[0].RoomID != "" {
		t.Errorf("unknown location should leave the session unassigned, got %q", parsed[0].RoomID)
	}
}

func TestParseSessions_BadPayload(t *testing.T) {
	_, _, err := ParseSessions(strings.NewReader("not a calendar"), nil)
	if err == nil {
		t.Error("expected error for malformed payload")
	}
}
