package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fundingthecommons/impactful-events-sub003/internal/event"
)

// endOfTime bounds "scan everything" queries. RFC3339 keeps it ordered
// after every real instant.
var endOfTime = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)

// lookupSession resolves a session reference: a full ID, or any ID prefix
// that matches exactly one session. Ambiguous prefixes fail with the list of
// candidates so the operator can pick one.
func lookupSession(ctx context.Context, repo event.Repository, ref string) (*event.Session, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("empty session reference")
	}

	s, err := repo.GetSession(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("looking up session: %w", err)
	}
	if s != nil {
		return s, nil
	}

	sessions, err := repo.ListSessionsBetween(ctx, time.Time{}, endOfTime)
	if err != nil {
		return nil, fmt.Errorf("scanning sessions: %w", err)
	}

	var matches []*event.Session
	for _, candidate := range sessions {
		if strings.HasPrefix(candidate.ID, ref) {
			matches = append(matches, candidate)
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %q", event.ErrSessionNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		var lines []string
		for _, m := range matches {
			lines = append(lines, fmt.Sprintf("  %s  %s", shortID(m.ID), m.Title))
		}
		return nil, fmt.Errorf("session reference %q is ambiguous, matches:\n%s", ref, strings.Join(lines, "\n"))
	}
}

// lookupRoom resolves a room by ID or case-insensitive name.
func lookupRoom(ctx context.Context, repo event.Repository, ref string) (*event.Room, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("empty room reference")
	}

	rooms, err := repo.ListRooms(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing rooms: %w", err)
	}

	for _, r := range rooms {
		if r.ID == ref {
			return r, nil
		}
	}
	for _, r := range rooms {
		if strings.EqualFold(r.Name, ref) {
			return r, nil
		}
	}

	names := make([]string, 0, len(rooms))
	for _, r := range rooms {
		names = append(names, r.Name)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: %q (no rooms yet, add one with 'eventgrid rooms add')", event.ErrRoomNotFound, ref)
	}
	return nil, fmt.Errorf("%w: %q (rooms: %s)", event.ErrRoomNotFound, ref, strings.Join(names, ", "))
}
