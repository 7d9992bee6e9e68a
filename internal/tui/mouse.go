package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Rows moved per wheel notch.
const wheelStep = 3

// handleMouseMsg handles pointer input. The wheel scrolls in every mode;
// press, drag, and release act on the grid in normal and drag modes only.
func (m Model) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	LogMouse(msg)

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.scrollBy(-wheelStep)
		return m, nil
	case tea.MouseButtonWheelDown:
		m.scrollBy(wheelStep)
		return m, nil
	}

	if m.mode == ModeModal || m.mode == ModePrompt {
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		return m.handleMousePress(msg.X, msg.Y)
	case tea.MouseActionMotion:
		return m.handleMouseMotion(msg.X, msg.Y)
	case tea.MouseActionRelease:
		return m.handleMouseRelease()
	}
	return m, nil
}

// handleMousePress arms a drag on a session cell. Nothing moves until the
// pointer travels past the threshold; a release before that is a click.
func (m Model) handleMousePress(x, y int) (tea.Model, tea.Cmd) {
	col, slot, ok := m.cellAt(x, y)
	if !ok {
		return m, nil
	}
	m.cursor = Position{Col: col, Slot: slot}

	p := m.grid.PlacementAt(col, slot)
	if p == nil {
		return m, nil
	}
	grab := slot - m.placementStartSlot(p)
	m.drag.Press(p.Session.ID, col, slot, x, y, grab)
	return m, nil
}

// handleMouseMotion advances a pending or active drag. The target is
// clamped to the grid so the block never escapes it mid-drag.
func (m Model) handleMouseMotion(x, y int) (tea.Model, tea.Cmd) {
	if m.drag.Phase() == DragIdle {
		return m, nil
	}
	if m.drag.Phase() == DragPending {
		// A press in a room with a commit in flight can only become a
		// click; promotion to a drag is refused.
		if s := m.findSession(m.drag.SessionID()); s != nil && m.roomLocked(s.RoomID) {
			return m, nil
		}
	}

	col, slot := m.cellAtClamped(x, y)
	if !m.drag.Move(col, slot, x, y) {
		return m, nil
	}
	if m.mode != ModeDrag {
		LogModeChange(m.mode, ModeDrag, "threshold_crossed")
		m.mode = ModeDrag
	}
	m.cursor = Position{Col: col, Slot: slot}
	m.ensureCursorVisible()
	m.recomputePreview()
	return m, nil
}

// handleMouseRelease ends the interaction: a click below the threshold
// opens the session, an active drag drops it.
func (m Model) handleMouseRelease() (tea.Model, tea.Cmd) {
	if m.drag.Phase() == DragIdle {
		return m, nil
	}
	return m.finishDrop(m.drag.Release())
}
