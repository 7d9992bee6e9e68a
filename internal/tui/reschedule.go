package tui

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fundingthecommons/impactful-events-sub003/internal/event"
	"github.com/fundingthecommons/impactful-events-sub003/internal/schedule"
	"github.com/fundingthecommons/impactful-events-sub003/internal/tui/commands"
)

// beginKeyboardDrag picks up a placed session with the move key. Unlike a
// mouse press there is no threshold to cross; the intent is unambiguous.
func (m Model) beginKeyboardDrag(p *schedule.Placement) (tea.Model, tea.Cmd) {
	s := p.Session
	if m.roomLocked(s.RoomID) {
		m.statusMsg = fmt.Sprintf("%s is saving a move, try again in a moment", m.roomName(s.RoomID))
		return m, nil
	}
	startSlot := m.placementStartSlot(p)
	if !m.drag.Grab(s.ID, p.Column, startSlot, 0) {
		return m, nil
	}
	LogModeChange(m.mode, ModeDrag, "grab_session")
	m.mode = ModeDrag
	m.cursor = Position{Col: p.Column, Slot: startSlot}
	m.ensureCursorVisible()
	m.recomputePreview()
	m.statusMsg = fmt.Sprintf("Moving: %s (hjkl to move, Enter to drop, Esc to cancel)", s.Title)
	return m, nil
}

// recomputePreview resolves the current drag target into a plan and builds
// the grid the drop would produce. On an undroppable target previewErr is
// set and the unchanged grid stays on screen.
func (m *Model) recomputePreview() {
	m.preview, m.previewGrid, m.previewErr = nil, nil, nil
	if m.grid == nil || !m.drag.Dragging() {
		return
	}
	s := m.findSession(m.drag.SessionID())
	if s == nil {
		return
	}
	col, slot := m.drag.Target()
	startSlot := clampInt(slot-m.drag.GrabOffset(), 0, m.maxSlots()-1)
	newStart := m.grid.SlotTime(startSlot)
	newRoom := m.grid.RoomIDAt(col)

	plan, err := m.resolver.Resolve(s, newStart, newRoom, m.sessions)
	if err != nil {
		m.previewErr = err
		LogDrag("preview_rejected", s.ID, col, startSlot, err)
		return
	}
	m.preview = plan
	if !plan.Empty() {
		m.previewGrid = m.builder.Build(m.day, schedule.ApplyPlan(m.sessions, plan), m.rooms)
	}
}

// finishDrop ends an interaction. A click opens the detail modal; a drop
// resolves the target and hands the plan to the persistence layer. The grid
// is redrawn from the applied plan right away so the move is visible while
// the commit is in flight.
func (m Model) finishDrop(res DragResult) (tea.Model, tea.Cmd) {
	m.mode = ModeNormal
	m.preview, m.previewGrid, m.previewErr = nil, nil, nil
	m.statusMsg = ""

	switch res.Kind {
	case DragClick:
		m.cursor = Position{Col: res.Col, Slot: res.Slot}
		if s := m.findSession(res.SessionID); s != nil {
			m.mode = ModeModal
			m.modalType = ModalSessionDetail
			m.modalSession = s
		}
		return m, nil

	case DragDropped:
		// handled below
	default:
		return m, nil
	}

	s := m.findSession(res.SessionID)
	if s == nil || m.grid == nil {
		return m, nil
	}
	startSlot := clampInt(res.Slot-res.Grab, 0, m.maxSlots()-1)
	newStart := m.grid.SlotTime(startSlot)
	newRoom := m.grid.RoomIDAt(res.Col)

	if m.roomLocked(newRoom) || m.roomLocked(s.RoomID) {
		m.statusMsg = fmt.Sprintf("%s is saving a move, try again in a moment", m.roomName(newRoom))
		return m, nil
	}

	plan, err := m.resolver.Resolve(s, newStart, newRoom, m.sessions)
	if err != nil {
		LogDrag("drop_rejected", s.ID, res.Col, startSlot, err)
		m.statusMsg = dropStatus(err)
		return m, nil
	}
	if plan.Empty() {
		// Dropped back on its own slot
		return m, nil
	}

	// Show the move immediately; the commit resolves in the background and
	// the day reloads either way.
	m.sessions = schedule.ApplyPlan(m.sessions, plan)
	m.grid = m.builder.Build(m.day, m.sessions, m.rooms)
	m.cursor = Position{Col: res.Col, Slot: startSlot}
	m.lockPlanRooms(plan)
	LogPlan(plan)
	m.statusMsg = fmt.Sprintf("Saving: %s", s.Title)
	return m, commands.CommitMove(m.repo, plan)
}

// abortDrag puts the dragged session back where it was.
func (m Model) abortDrag(status string) (tea.Model, tea.Cmd) {
	LogModeChange(m.mode, ModeNormal, "drag_cancelled")
	m.drag.Cancel()
	m.mode = ModeNormal
	m.preview, m.previewGrid, m.previewErr = nil, nil, nil
	m.statusMsg = status
	return m, nil
}

// dropStatus renders a resolver error for the status line.
func dropStatus(err error) string {
	switch {
	case errors.Is(err, schedule.ErrOutOfBounds):
		return "Does not fit: sessions would be pushed past the end of the day"
	case errors.Is(err, event.ErrInvalidInterval):
		return "Session has an invalid time range and cannot be moved"
	default:
		return fmt.Sprintf("Cannot move: %v", err)
	}
}

// roomLocked reports whether the room has a commit in flight. Drags and
// drops touching it are refused until the commit resolves.
func (m Model) roomLocked(roomID string) bool {
	return m.pending[roomID]
}

func (m Model) lockPlanRooms(plan *event.ShiftPlan) {
	m.pending[plan.NewRoomID] = true
	if plan.PrevRoomID != plan.NewRoomID {
		m.pending[plan.PrevRoomID] = true
	}
}

func (m Model) unlockPlanRooms(plan *event.ShiftPlan) {
	if plan == nil {
		return
	}
	delete(m.pending, plan.NewRoomID)
	delete(m.pending, plan.PrevRoomID)
}
