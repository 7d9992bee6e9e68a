// Package ics converts between sessions and iCalendar documents.
package ics

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"github.com/fundingthecommons/impactful-events-sub003/internal/event"
)

// propSpeakers carries the speaker list; iCalendar has no first-class field
// for it.
const propSpeakers = "X-SPEAKERS"

// BuildCalendar renders the program as an iCalendar document. Cancelled
// sessions are included with STATUS:CANCELLED so downstream calendars can
// drop them; room assignments become LOCATION lines.
func BuildCalendar(venueName string, sessions []*event.Session, rooms []*event.Room) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	if venueName != "" {
		cal.SetXWRCalName(venueName)
	}

	names := event.RoomNames(rooms)
	for _, s := range sessions {
		e := cal.AddEvent(s.ID + "@eventgrid")
		e.SetDtStampTime(s.CreatedAt.UTC())
		e.SetStartAt(s.StartsAt.UTC())
		e.SetEndAt(s.EndsAt.UTC())
		e.SetSummary(s.Title)
		if s.Description != "" {
			e.SetDescription(s.Description)
		}
		if name := names[s.RoomID]; name != "" {
			e.SetLocation(name)
		}
		if len(s.Speakers) > 0 {
			e.SetProperty(ical.ComponentProperty(propSpeakers), event.JoinSpeakers(s.Speakers))
		}
		if s.IsCancelled() {
			e.SetStatus(ical.ObjectStatusCancelled)
		} else {
			e.SetStatus(ical.ObjectStatusConfirmed)
		}
	}

	return cal.Serialize()
}

// ParseSessions reads an iCalendar payload into sessions. Events that cannot
// become sessions (no summary, all-day, unreadable times) are skipped and
// reported in the returned warnings; one bad event never sinks the import.
//
// LOCATION lines are matched against known room names, case-insensitively;
// events at unknown locations come back unassigned. Every imported session
// gets a fresh ID, so importing the same file twice duplicates the program
// rather than merging it.
func ParseSessions(r io.Reader, rooms []*event.Room) ([]*event.Session, []string, error) {
	cal, err := ical.ParseCalendar(r)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing calendar: %w", err)
	}

	byName := make(map[string]string, len(rooms))
	for _, room := range rooms {
		byName[normalizeRoomName(room.Name)] = room.ID
	}

	var (
		sessions []*event.Session
		warnings []string
	)
	for _, ve := range cal.Events() {
		s, err := parseVEvent(ve, byName)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("skipping %s: %v", eventIdent(ve), err))
			continue
		}
		sessions = append(sessions, s)
	}

	return sessions, warnings, nil
}

func parseVEvent(ve *ical.VEvent, roomsByName map[string]string) (*event.Session, error) {
	title := propValue(ve, ical.ComponentPropertySummary)
	if strings.TrimSpace(title) == "" {
		return nil, errors.New("missing SUMMARY")
	}
	if isAllDay(ve) {
		return nil, errors.New("all-day events have no time slot")
	}

	start, err := ve.GetStartAt()
	if err != nil {
		return nil, fmt.Errorf("unreadable DTSTART: %w", err)
	}
	end, err := ve.GetEndAt()
	if err != nil {
		return nil, fmt.Errorf("unreadable DTEND: %w", err)
	}

	s := &event.Session{
		ID:          uuid.NewString(),
		Title:       title,
		StartsAt:    start,
		EndsAt:      end,
		Description: propValue(ve, ical.ComponentPropertyDescription),
		Status:      event.StatusScheduled,
		CreatedAt:   time.Now(),
	}

	if speakers := propValue(ve, ical.ComponentProperty(propSpeakers)); speakers != "" {
		s.Speakers = event.SplitSpeakers(speakers)
	}
	if loc := propValue(ve, ical.ComponentPropertyLocation); loc != "" {
		s.RoomID = roomsByName[normalizeRoomName(loc)]
	}
	if status := propValue(ve, ical.ComponentPropertyStatus); strings.EqualFold(status, string(ical.ObjectStatusCancelled)) {
		s.Status = event.StatusCancelled
	}

	return s, nil
}

// isAllDay reports whether DTSTART is a date without a time, either by the
// VALUE=DATE parameter or by its bare YYYYMMDD form.
func isAllDay(ve *ical.VEvent) bool {
	p := ve.GetProperty(ical.ComponentPropertyDtStart)
	if p == nil {
		return false
	}
	if vs, ok := p.ICalParameters["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
		return true
	}
	return !strings.Contains(p.Value, "T")
}

func propValue(ve *ical.VEvent, prop ical.ComponentProperty) string {
	if p := ve.GetProperty(prop); p != nil {
		return p.Value
	}
	return ""
}

// eventIdent names an event for a warning message, best effort.
func eventIdent(ve *ical.VEvent) string {
	if summary := propValue(ve, ical.ComponentPropertySummary); summary != "" {
		return fmt.Sprintf("%q", summary)
	}
	if uid := propValue(ve, ical.ComponentPropertyUniqueId); uid != "" {
		return uid
	}
	return "unnamed event"
}

func normalizeRoomName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
