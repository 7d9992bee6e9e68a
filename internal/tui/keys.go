package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fundingthecommons/impactful-events-sub003/internal/event"
	"github.com/fundingthecommons/impactful-events-sub003/internal/schedule"
	"github.com/fundingthecommons/impactful-events-sub003/internal/tui/commands"
	"github.com/fundingthecommons/impactful-events-sub003/internal/tui/input"
)

// handleKeyMsg handles keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	LogKeyPress(msg)

	// Global keys (work in all modes)
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	// Mode-specific handling
	switch m.mode {
	case ModePrompt:
		return m.handlePromptKeys(msg)
	case ModeDrag:
		return m.handleDragKeys(msg)
	case ModeModal:
		return m.handleModalKeys(msg)
	default:
		return m.handleNormalKeys(msg)
	}
}

// handleNormalKeys handles keys in normal mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	// Navigation
	case "h", "left":
		if m.cursor.Col > 0 {
			m.cursor.Col--
		}
	case "l", "right":
		if m.cursor.Col < m.columnCount()-1 {
			m.cursor.Col++
		}
	case "j", "down":
		if m.cursor.Slot < m.maxSlots()-1 {
			m.cursor.Slot++
			m.ensureCursorVisible()
		}
	case "k", "up":
		if m.cursor.Slot > 0 {
			m.cursor.Slot--
			m.ensureCursorVisible()
		}

	// Page navigation
	case "pgdown", "ctrl+d":
		maxSlot := m.maxSlots() - 1
		m.cursor.Slot = min(maxSlot, m.cursor.Slot+m.visibleRows())
		m.ensureCursorVisible()
	case "pgup", "ctrl+u":
		m.cursor.Slot = max(0, m.cursor.Slot-m.visibleRows())
		m.ensureCursorVisible()
	case "g", "home":
		m.cursor.Slot = 0
		m.ensureCursorVisible()
	case "G", "end":
		m.cursor.Slot = max(0, m.maxSlots()-1)
		m.ensureCursorVisible()

	// Day navigation
	case "H", "shift+left", "[":
		return m.jumpToDay(m.day.AddDate(0, 0, -1))
	case "L", "shift+right", "]":
		return m.jumpToDay(m.day.AddDate(0, 0, 1))
	case "t":
		return m.jumpToDay(schedule.DayOf(m.nowFunc(), m.zone))
	case "/", ":":
		m.mode = ModePrompt
		m.prompt.SetValue("")
		m.prompt.Focus()
		return m, textinput.Blink

	// Actions
	case "enter":
		return m.handleEnter()

	case "m", " ":
		return m.handleGrab()

	case "x", "delete":
		return m.handleCancelRequest()

	case "y":
		return m.handleYank()

	case "r":
		m.loading = true
		return m, commands.LoadDay(m.repo, m.day, m.zone)

	case "!":
		if m.hasAnomalies() {
			m.mode = ModeModal
			m.modalType = ModalAnomalies
		} else {
			m.statusMsg = "No anomalies today"
		}

	case "?":
		m.mode = ModeModal
		m.modalType = ModalHelp
	}

	return m, nil
}

// handleDragKeys handles keys while a session is being moved. The block
// follows hjkl and the arrows; Enter drops it, Esc puts it back.
func (m Model) handleDragKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m.abortDrag("Move cancelled")

	case "enter", " ":
		return m.finishDrop(m.drag.Release())

	case "h", "left":
		return m.shiftDrag(-1, 0)
	case "l", "right":
		return m.shiftDrag(1, 0)
	case "k", "up":
		return m.shiftDrag(0, -1)
	case "j", "down":
		return m.shiftDrag(0, 1)

	case "pgdown", "ctrl+d":
		return m.shiftDrag(0, m.visibleRows())
	case "pgup", "ctrl+u":
		return m.shiftDrag(0, -m.visibleRows())
	}

	return m, nil
}

// shiftDrag moves the drag target by whole cells, clamped to the grid.
func (m Model) shiftDrag(dcol, dslot int) (tea.Model, tea.Cmd) {
	col, slot := m.drag.Target()
	ncol := clampInt(col+dcol, 0, m.columnCount()-1)
	nslot := clampInt(slot+dslot, 0, m.maxSlots()-1)
	if !m.drag.Shift(ncol-col, nslot-slot) {
		return m, nil
	}
	m.cursor = Position{Col: ncol, Slot: nslot}
	m.ensureCursorVisible()
	m.recomputePreview()
	return m, nil
}

// handlePromptKeys handles keys in the jump prompt.
func (m Model) handlePromptKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = ModeNormal
		m.prompt.Blur()
		m.prompt.SetValue("")
		return m, nil

	case "enter":
		value := m.prompt.Value()
		m.mode = ModeNormal
		m.prompt.Blur()
		m.prompt.SetValue("")
		day, err := input.ParseDay(value, m.nowFunc(), m.day, m.zone)
		if err != nil {
			m.statusMsg = fmt.Sprintf("Unrecognized day %q (try 2026-03-10, +2, fri)", value)
			return m, nil
		}
		return m.jumpToDay(day)
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

// handleModalKeys handles keys in modal mode.
func (m Model) handleModalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.modalType {
	case ModalSessionForm:
		return m.handleSessionFormKeys(msg)
	case ModalSessionDetail:
		return m.handleSessionDetailKeys(msg)
	case ModalConfirmCancel:
		return m.handleConfirmCancelKeys(msg)
	case ModalAnomalies, ModalHelp:
		switch msg.String() {
		case "esc", "enter", "q", "!", "?":
			return m.closeModal(), nil
		}
	default:
		if msg.String() == "esc" {
			return m.closeModal(), nil
		}
	}
	return m, nil
}

// handleSessionFormKeys handles keys in the new session form.
func (m Model) handleSessionFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m.closeModal(), nil

	case "tab", "down":
		m.formFocus = (m.formFocus + 1) % 3
		m.syncFormFocus()
		return m, textinput.Blink

	case "shift+tab", "up":
		m.formFocus = (m.formFocus + 2) % 3
		m.syncFormFocus()
		return m, textinput.Blink

	case "enter":
		if m.formFocus < 2 {
			m.formFocus++
			m.syncFormFocus()
			return m, textinput.Blink
		}
		return m.saveSessionFromForm()

	case "left", "h":
		if m.formFocus == 2 {
			if m.formDuration > 0 {
				m.formDuration--
			}
			return m, nil
		}

	case "right", "l":
		if m.formFocus == 2 {
			if m.formDuration < len(durationOptions)-1 {
				m.formDuration++
			}
			return m, nil
		}
	}

	// Route everything else to the focused text field.
	var cmd tea.Cmd
	switch m.formFocus {
	case 0:
		m.formTitle, cmd = m.formTitle.Update(msg)
	case 1:
		m.formSpeakers, cmd = m.formSpeakers.Update(msg)
	}
	return m, cmd
}

// handleSessionDetailKeys handles keys in the session detail modal.
func (m Model) handleSessionDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.modalSession
	switch msg.String() {
	case "esc", "enter", "q":
		return m.closeModal(), nil

	case "m":
		if s == nil {
			return m.closeModal(), nil
		}
		cm := m.closeModal()
		p := cm.placementOf(s.ID)
		if p == nil {
			cm.statusMsg = "Session is not on the grid"
			return cm, nil
		}
		return cm.beginKeyboardDrag(p)

	case "x":
		if s != nil {
			m.modalType = ModalConfirmCancel
			m.confirmMessage = fmt.Sprintf("Cancel session: %s?", s.Title)
		}
		return m, nil

	case "y":
		if s == nil {
			return m, nil
		}
		if err := clipboard.WriteAll(m.sessionClipboardText(s)); err != nil {
			m.statusMsg = fmt.Sprintf("Copy failed: %v", err)
			return m, nil
		}
		m.statusMsg = fmt.Sprintf("Copied: %s", s.Title)
		return m, nil
	}
	return m, nil
}

// handleConfirmCancelKeys handles keys in the cancel confirmation modal.
func (m Model) handleConfirmCancelKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "n":
		// Back to the detail modal when it was open underneath
		if m.modalSession != nil {
			m.modalType = ModalSessionDetail
			m.confirmMessage = ""
			return m, nil
		}
		return m.closeModal(), nil

	case "enter", "y":
		s := m.modalSession
		if s == nil {
			return m.closeModal(), nil
		}
		return m.closeModal(), commands.CancelSession(m.repo, s.ID, s.Title)
	}
	return m, nil
}

// handleEnter opens the detail modal on a session, or the creation form on
// an empty cell.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	if m.grid == nil || m.maxSlots() == 0 {
		return m, nil
	}
	if s := m.sessionAtCursor(); s != nil {
		m.mode = ModeModal
		m.modalType = ModalSessionDetail
		m.modalSession = s
		return m, nil
	}

	// Empty cell, open the new session form
	m.mode = ModeModal
	m.modalType = ModalSessionForm
	m.modalSession = nil
	m.formSlot = m.cursor
	m.formTitle.SetValue("")
	m.formSpeakers.SetValue("")
	m.formDuration = defaultDurationIdx
	m.formFocus = 0
	m.syncFormFocus()
	return m, textinput.Blink
}

// handleGrab picks up the session under the cursor for a keyboard move.
func (m Model) handleGrab() (tea.Model, tea.Cmd) {
	p := m.placementAtCursor()
	if p == nil {
		m.statusMsg = "No session under the cursor"
		return m, nil
	}
	return m.beginKeyboardDrag(p)
}

// handleCancelRequest opens the cancel confirmation for the session under
// the cursor.
func (m Model) handleCancelRequest() (tea.Model, tea.Cmd) {
	s := m.sessionAtCursor()
	if s == nil {
		m.statusMsg = "No session under the cursor"
		return m, nil
	}
	m.mode = ModeModal
	m.modalType = ModalConfirmCancel
	m.modalSession = s
	m.confirmMessage = fmt.Sprintf("Cancel session: %s?", s.Title)
	return m, nil
}

// handleYank copies the session under the cursor to the clipboard.
func (m Model) handleYank() (tea.Model, tea.Cmd) {
	s := m.sessionAtCursor()
	if s == nil {
		m.statusMsg = "No session under the cursor"
		return m, nil
	}
	if err := clipboard.WriteAll(m.sessionClipboardText(s)); err != nil {
		m.statusMsg = fmt.Sprintf("Copy failed: %v", err)
		return m, nil
	}
	m.statusMsg = fmt.Sprintf("Copied: %s", s.Title)
	return m, nil
}

// saveSessionFromForm creates a new session from the form data.
func (m Model) saveSessionFromForm() (tea.Model, tea.Cmd) {
	title := strings.TrimSpace(m.formTitle.Value())
	if title == "" {
		m.statusMsg = "Title is required"
		return m, nil
	}
	start := m.grid.SlotTime(m.formSlot.Slot)
	if start.IsZero() {
		m.statusMsg = "No slot selected"
		return m.closeModal(), nil
	}
	duration := time.Duration(durationOptions[m.formDuration]) * time.Minute
	roomID := m.grid.RoomIDAt(m.formSlot.Col)

	s, err := event.New(title, event.SplitSpeakers(m.formSpeakers.Value()), roomID, start, start.Add(duration))
	if err != nil {
		m.statusMsg = fmt.Sprintf("Error: %v", err)
		return m, nil
	}
	return m.closeModal(), commands.CreateSession(m.repo, s)
}

// closeModal returns to normal mode and clears modal state.
func (m Model) closeModal() Model {
	m.mode = ModeNormal
	m.modalType = ModalNone
	m.modalSession = nil
	m.confirmMessage = ""
	m.formTitle.Blur()
	m.formSpeakers.Blur()
	return m
}

// syncFormFocus focuses the text field matching formFocus.
func (m *Model) syncFormFocus() {
	m.formTitle.Blur()
	m.formSpeakers.Blur()
	switch m.formFocus {
	case 0:
		m.formTitle.Focus()
	case 1:
		m.formSpeakers.Focus()
	}
}
