package ui

import (
	"context"
	"strings"
	"testing"

	"github.com/fundingthecommons/impactful-events-sub003/internal/event"
	"github.com/fundingthecommons/impactful-events-sub003/internal/ics"
)

func TestImportSessionsRoundTrip(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()

	hall, err := event.NewRoom("Main Hall", 1)
	if err != nil {
		t.Fatalf("NewRoom failed: %v", err)
	}
	if err := repo.CreateRoom(ctx, hall); err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}

	talk := scheduled("src-1", "Opening Keynote", hall.ID, at(9, 0), at(10, 0))
	talk.Speakers = []string{"Ada Lovelace"}
	ghost := scheduled("src-2", "Cancelled Workshop", "", at(11, 0), at(12, 0))
	ghost.Status = event.StatusCancelled

	doc := ics.BuildCalendar("DevConf", []*event.Session{talk, ghost}, []*event.Room{hall})

	count, warnings, err := importSessions(ctx, repo, strings.NewReader(doc))
	if err != nil {
		t.Fatalf("importSessions failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 imported sessions, got %d", count)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}

	stored, err := repo.ListSessionsBetween(ctx, testDay, testDay.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("ListSessionsBetween failed: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("expected 2 sessions in repo, got %d", len(stored))
	}

	var keynote, workshop *event.Session
	for _, s := range stored {
		switch s.Title {
		case "Opening Keynote":
			keynote = s
		case "Cancelled Workshop":
			workshop = s
		}
	}
	if keynote == nil || workshop == nil {
		t.Fatalf("missing imported sessions: %v", stored)
	}

	// LOCATION maps back to the room through its name.
	if keynote.RoomID != hall.ID {
		t.Errorf("RoomID: got %q, want %q", keynote.RoomID, hall.ID)
	}
	if len(keynote.Speakers) != 1 || keynote.Speakers[0] != "Ada Lovelace" {
		t.Errorf("Speakers: got %v", keynote.Speakers)
	}
	if !keynote.StartsAt.Equal(at(9, 0)) || !keynote.EndsAt.Equal(at(10, 0)) {
		t.Errorf("interval: got %s-%s", keynote.StartsAt, keynote.EndsAt)
	}

	if !workshop.IsCancelled() {
		t.Errorf("Status: got %q, want cancelled", workshop.Status)
	}
	if workshop.RoomID != "" {
		t.Errorf("RoomID: got %q, want unassigned", workshop.RoomID)
	}

	// Imports mint new IDs instead of reusing the exporter's.
	if keynote.ID == talk.ID || workshop.ID == ghost.ID {
		t.Error("imported sessions should get fresh IDs")
	}
}

func TestImportSessionsSkipsUnusableEvents(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()

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
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:broken-1@example.org",
		"DTSTAMP:20260301T120000Z",
		"DTSTART:20260310T160000Z",
		"DTEND:20260310T170000Z",
		"END:VEVENT",
		"END:VCALENDAR",
	}, "\r\n")

	count, warnings, err := importSessions(ctx, repo, strings.NewReader(payload))
	if err != nil {
		t.Fatalf("importSessions failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 imported session, got %d", count)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "missing SUMMARY") {
		t.Fatalf("expected a missing SUMMARY warning, got %v", warnings)
	}

	stored, err := repo.ListSessionsBetween(ctx, testDay, testDay.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("ListSessionsBetween failed: %v", err)
	}
	if len(stored) != 1 || stored[0].Title != "Panel Discussion" {
		t.Fatalf("stored sessions wrong: %v", stored)
	}
}
