package tui

import (
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fundingthecommons/impactful-events-sub003/internal/db"
	"github.com/fundingthecommons/impactful-events-sub003/internal/event"
	"github.com/fundingthecommons/impactful-events-sub003/internal/tui/commands"
)

// How long transient status messages stay on screen.
const statusTTL = 3 * time.Second

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.MouseMsg:
		return m.handleMouseMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.calculateLayout()
		m.ensureCursorVisible()
		return m, nil

	case commands.DayLoadedMsg:
		m.day = msg.Day
		m.sessions = msg.Sessions
		m.rooms = msg.Rooms
		m.grid = m.builder.Build(m.day, m.sessions, m.rooms)
		m.loading = false
		m.err = nil
		m.calculateLayout()
		m.clampCursor()
		m.ensureCursorVisible()
		if m.mode == ModeDrag {
			// The reload may have removed the session mid-drag
			if m.findSession(m.drag.SessionID()) == nil {
				m.drag.Cancel()
				m.mode = ModeNormal
				m.preview, m.previewGrid, m.previewErr = nil, nil, nil
			} else {
				m.recomputePreview()
			}
		}
		return m, nil

	case commands.MoveCommittedMsg:
		m.unlockPlanRooms(msg.Plan)
		LogCommit(msg.Plan, nil)
		m.statusMsg = moveStatus(msg.Plan)
		m.statusTime = time.Now().Add(statusTTL)
		return m, tea.Batch(commands.LoadDay(m.repo, m.day, m.zone), expireStatusCmd())

	case commands.MoveFailedMsg:
		m.unlockPlanRooms(msg.Plan)
		LogCommit(msg.Plan, msg.Err)
		if errors.Is(msg.Err, db.ErrCommitConflict) {
			m.statusMsg = "Schedule changed underneath you, reloading"
		} else {
			m.statusMsg = fmt.Sprintf("Save failed: %v", msg.Err)
		}
		m.statusTime = time.Now().Add(statusTTL)
		// The optimistic grid is stale either way; reload the day
		return m, tea.Batch(commands.LoadDay(m.repo, m.day, m.zone), expireStatusCmd())

	case commands.SessionSavedMsg:
		m.statusMsg = fmt.Sprintf("Created: %s", msg.Title)
		m.statusTime = time.Now().Add(statusTTL)
		return m, tea.Batch(commands.LoadDay(m.repo, m.day, m.zone), expireStatusCmd())

	case commands.SessionCancelledMsg:
		m.statusMsg = fmt.Sprintf("Cancelled: %s", msg.Title)
		m.statusTime = time.Now().Add(statusTTL)
		return m, tea.Batch(commands.LoadDay(m.repo, m.day, m.zone), expireStatusCmd())

	case commands.ErrMsg:
		m.err = msg.Err
		m.loading = false
		LogError("command", msg.Err)
		m.statusMsg = fmt.Sprintf("Error: %v", msg.Err)
		m.statusTime = time.Now().Add(5 * time.Second)
		return m, nil

	case commands.StatusMsgCmd:
		m.statusMsg = msg.Msg
		m.statusTime = time.Now().Add(statusTTL)
		return m, expireStatusCmd()

	case commands.ClearStatusMsg:
		if time.Now().After(m.statusTime) {
			m.statusMsg = ""
		}
		return m, nil
	}

	// Keep the focused text inputs ticking (cursor blink)
	if m.mode == ModePrompt {
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		cmds = append(cmds, cmd)
	}
	if m.mode == ModeModal && m.modalType == ModalSessionForm {
		var cmd tea.Cmd
		switch m.formFocus {
		case 0:
			m.formTitle, cmd = m.formTitle.Update(msg)
		case 1:
			m.formSpeakers, cmd = m.formSpeakers.Update(msg)
		}
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func expireStatusCmd() tea.Cmd {
	return tea.Tick(statusTTL, func(time.Time) tea.Msg {
		return commands.ClearStatusMsg{}
	})
}

// moveStatus summarizes a committed plan for the status line.
func moveStatus(plan *event.ShiftPlan) string {
	if plan == nil || len(plan.Shifts) <= 1 {
		return "Moved"
	}
	n := len(plan.Shifts) - 1
	if n == 1 {
		return "Moved, 1 session pushed later"
	}
	return fmt.Sprintf("Moved, %d sessions pushed later", n)
}
