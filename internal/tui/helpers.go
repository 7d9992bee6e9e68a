package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fundingthecommons/impactful-events-sub003/internal/event"
	"github.com/fundingthecommons/impactful-events-sub003/internal/schedule"
	"github.com/fundingthecommons/impactful-events-sub003/internal/tui/commands"
)

// sessionAtCursor returns the session under the cursor, if any.
func (m Model) sessionAtCursor() *event.Session {
	if m.grid == nil {
		return nil
	}
	return m.grid.SessionAt(m.cursor.Col, m.cursor.Slot)
}

// placementAtCursor returns the placement under the cursor, if any.
func (m Model) placementAtCursor() *schedule.Placement {
	if m.grid == nil {
		return nil
	}
	return m.grid.PlacementAt(m.cursor.Col, m.cursor.Slot)
}

// placementOf finds a session's placement on the current grid.
func (m Model) placementOf(sessionID string) *schedule.Placement {
	if m.grid == nil {
		return nil
	}
	for i := range m.grid.Placements {
		if m.grid.Placements[i].Session.ID == sessionID {
			return &m.grid.Placements[i]
		}
	}
	return nil
}

// placementStartSlot converts a placement's first grid line to a slot index.
func (m Model) placementStartSlot(p *schedule.Placement) int {
	if m.grid == nil {
		return 0
	}
	return startSlotOf(m.grid, p)
}

// findSession finds a loaded session by ID.
func (m Model) findSession(id string) *event.Session {
	for _, s := range m.sessions {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// roomName resolves a room ID for display. The empty ID is the holding pen
// for sessions without a room.
func (m Model) roomName(roomID string) string {
	if roomID == "" {
		return "Unassigned"
	}
	for _, r := range m.rooms {
		if r.ID == roomID {
			return r.Name
		}
	}
	return roomID
}

// hasAnomalies reports whether the current grid clipped or skipped anything.
func (m Model) hasAnomalies() bool {
	return m.grid != nil && (m.grid.Truncated || len(m.grid.Skipped) > 0)
}

// jumpToDay loads another day into the grid.
func (m Model) jumpToDay(day time.Time) (tea.Model, tea.Cmd) {
	day = schedule.DayOf(day, m.zone)
	if day.Equal(m.day) && !m.loading {
		return m, nil
	}
	m.day = day
	m.loading = true
	m.scrollOffset = 0
	m.preview, m.previewGrid, m.previewErr = nil, nil, nil
	return m, commands.LoadDay(m.repo, m.day, m.zone)
}

// formatClock renders an instant on the venue wall clock.
func (m Model) formatClock(t time.Time) string {
	return t.In(m.zone).Format("15:04")
}

// sessionTimeRange renders "09:00-09:45" for a session.
func (m Model) sessionTimeRange(s *event.Session) string {
	return m.formatClock(s.StartsAt) + "-" + m.formatClock(s.EndsAt)
}

// sessionClipboardText renders one session as a single shareable line.
func (m Model) sessionClipboardText(s *event.Session) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s | %s | %s", s.Title, m.sessionTimeRange(s), m.roomName(s.RoomID))
	if len(s.Speakers) > 0 {
		fmt.Fprintf(&b, " | %s", event.JoinSpeakers(s.Speakers))
	}
	return b.String()
}

// truncateWithEllipsis shortens a string to width characters.
func truncateWithEllipsis(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if len(s) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return s[:width-1] + "…"
}

// padToWidth pads or clips a string to exactly width characters.
func padToWidth(s string, width int) string {
	s = truncateWithEllipsis(s, width)
	if len(s) < width {
		s += strings.Repeat(" ", width-len(s))
	}
	return s
}
