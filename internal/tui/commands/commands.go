// Package commands provides TUI command constructors and message types.
package commands

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fundingthecommons/impactful-events-sub003/internal/event"
	"github.com/fundingthecommons/impactful-events-sub003/internal/schedule"
)

// DayLoadedMsg is sent when a day's sessions and the room list are loaded.
type DayLoadedMsg struct {
	Day      time.Time
	Sessions []*event.Session
	Rooms    []*event.Room
}

// MoveCommittedMsg is sent when a reschedule plan was written to storage.
type MoveCommittedMsg struct {
	Plan *event.ShiftPlan
}

// MoveFailedMsg is sent when a reschedule plan was rejected by storage.
// The schedule on screen may be stale; the model reloads the day.
type MoveFailedMsg struct {
	Plan *event.ShiftPlan
	Err  error
}

// SessionSavedMsg is sent after a session is created from the form modal.
type SessionSavedMsg struct {
	Title string
}

// SessionCancelledMsg is sent after a session is cancelled.
type SessionCancelledMsg struct {
	Title string
}

// ErrMsg is sent when an error occurs.
type ErrMsg struct {
	Err error
}

// StatusMsgCmd is sent for temporary status messages.
type StatusMsgCmd struct {
	Msg string
}

// ClearStatusMsg is sent to clear the status message.
type ClearStatusMsg struct{}

// LoadDay loads everything needed to render one venue day: the sessions
// starting within it and the full room list.
func LoadDay(repo event.Repository, day time.Time, loc *time.Location) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		start := schedule.DayOf(day, loc)
		end := schedule.NextDay(start)

		sessions, err := repo.ListSessionsBetween(ctx, start, end)
		if err != nil {
			return ErrMsg{Err: err}
		}

		rooms, err := repo.ListRooms(ctx)
		if err != nil {
			return ErrMsg{Err: err}
		}

		return DayLoadedMsg{Day: start, Sessions: sessions, Rooms: rooms}
	}
}

// CommitMove writes a resolved shift plan through the persistence gateway.
func CommitMove(repo event.Repository, plan *event.ShiftPlan) tea.Cmd {
	return func() tea.Msg {
		if err := repo.CommitReschedule(context.Background(), plan); err != nil {
			return MoveFailedMsg{Plan: plan, Err: err}
		}
		return MoveCommittedMsg{Plan: plan}
	}
}

// CreateSession persists a new session.
func CreateSession(repo event.Repository, s *event.Session) tea.Cmd {
	return func() tea.Msg {
		if err := repo.CreateSession(context.Background(), s); err != nil {
			return ErrMsg{Err: err}
		}
		return SessionSavedMsg{Title: s.Title}
	}
}

// CancelSession marks a session cancelled.
func CancelSession(repo event.Repository, id, title string) tea.Cmd {
	return func() tea.Msg {
		if err := repo.CancelSession(context.Background(), id); err != nil {
			return ErrMsg{Err: err}
		}
		return SessionCancelledMsg{Title: title}
	}
}
