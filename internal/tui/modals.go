package tui

import (
	"fmt"
	"strings"
)

// renderModalOverlay composites the active modal over the rendered screen.
func (m Model) renderModalOverlay(base string) string {
	box := m.renderModal()
	if box == "" {
		return base
	}
	return overlayCenter(base, box, m.width, m.height, m.styles.ModalBgColor)
}

// renderModal renders the current modal.
func (m Model) renderModal() string {
	switch m.modalType {
	case ModalSessionForm:
		return m.renderSessionFormModal()
	case ModalSessionDetail:
		return m.renderSessionDetailModal()
	case ModalConfirmCancel:
		return m.renderConfirmCancelModal()
	case ModalAnomalies:
		return m.renderAnomaliesModal()
	case ModalHelp:
		return m.renderHelpModal()
	default:
		return ""
	}
}

// renderSessionFormModal renders the session creation form.
func (m Model) renderSessionFormModal() string {
	var b strings.Builder

	b.WriteString(m.styles.ModalTitleStyle.Render("New session"))
	b.WriteString("\n")
	if m.grid != nil {
		start := m.grid.SlotTime(m.formSlot.Slot)
		where := m.roomName(m.grid.RoomIDAt(m.formSlot.Col))
		b.WriteString(m.styles.ModalMetaStyle.Render(fmt.Sprintf("%s %s in %s",
			start.In(m.zone).Format("Mon 02 Jan"), m.formatClock(start), where)))
	}
	b.WriteString("\n\n")

	titleInput := m.styles.ModalInputStyle
	speakersInput := m.styles.ModalInputStyle
	switch m.formFocus {
	case 0:
		titleInput = m.styles.ModalInputFocusedStyle
	case 1:
		speakersInput = m.styles.ModalInputFocusedStyle
	}

	b.WriteString(m.styles.ModalLabelStyle.Render("Title"))
	b.WriteString("\n")
	b.WriteString(titleInput.Render(m.formTitle.View()))
	b.WriteString("\n")
	b.WriteString(m.styles.ModalLabelStyle.Render("Speakers"))
	b.WriteString("\n")
	b.WriteString(speakersInput.Render(m.formSpeakers.View()))
	b.WriteString("\n\n")

	b.WriteString(m.styles.ModalLabelStyle.Render("Length"))
	b.WriteString("  ")
	for i, mins := range durationOptions {
		style := m.styles.DurationInactiveStyle
		if i == m.formDuration {
			style = m.styles.DurationActiveStyle
		}
		b.WriteString(style.Render(fmt.Sprintf("%dm", mins)))
		b.WriteString(" ")
	}
	if m.formFocus == 2 {
		b.WriteString(m.styles.ModalHintStyle.Render(" (h/l to change)"))
	}
	b.WriteString("\n\n")

	b.WriteString(m.styles.ModalHintStyle.Render("Tab: next field  Enter: save  Esc: discard"))

	return m.styles.ModalStyle.Render(b.String())
}

// renderSessionDetailModal renders the session detail popup.
func (m Model) renderSessionDetailModal() string {
	s := m.modalSession
	if s == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.styles.ModalTitleStyle.Render(s.Title))
	if s.IsCancelled() {
		b.WriteString("  ")
		b.WriteString(m.styles.ModalWarningStyle.Render("cancelled"))
	}
	b.WriteString("\n\n")

	b.WriteString(m.styles.ModalLabelStyle.Render("When"))
	b.WriteString(m.styles.ModalBodyStyle.Render(fmt.Sprintf("%s  %s",
		s.StartsAt.In(m.zone).Format("Mon, 02 Jan 2006"), m.sessionTimeRange(s))))
	b.WriteString("\n")

	b.WriteString(m.styles.ModalLabelStyle.Render("Room"))
	b.WriteString(m.styles.ModalBodyStyle.Render(m.roomName(s.RoomID)))
	b.WriteString("\n")

	if len(s.Speakers) > 0 {
		b.WriteString(m.styles.ModalLabelStyle.Render("Speakers"))
		b.WriteString(m.styles.ModalBodyStyle.Render(strings.Join(s.Speakers, ", ")))
		b.WriteString("\n")
	}

	if s.Description != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.ModalBodyStyle.Width(58).Render(s.Description))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.ModalHintStyle.Render("m: move  x: cancel  y: copy  Esc: close"))

	return m.styles.ModalStyle.Render(b.String())
}

// renderConfirmCancelModal renders the cancel confirmation.
func (m Model) renderConfirmCancelModal() string {
	var b strings.Builder
	b.WriteString(m.styles.ModalWarningStyle.Render(m.confirmMessage))
	b.WriteString("\n\n")
	if s := m.modalSession; s != nil {
		b.WriteString(m.styles.ModalMetaStyle.Render(fmt.Sprintf("%s in %s",
			m.sessionTimeRange(s), m.roomName(s.RoomID))))
		b.WriteString("\n\n")
	}
	b.WriteString(m.styles.ModalBodyStyle.Render("The session keeps its data and leaves the grid."))
	b.WriteString("\n\n")
	b.WriteString(m.styles.ModalHintStyle.Render("y: cancel it  n: keep it"))
	return m.styles.ModalStyle.Render(b.String())
}

// Most skipped sessions shown before the list is elided.
const maxAnomalyLines = 8

// renderAnomaliesModal lists what the grid could not place.
func (m Model) renderAnomaliesModal() string {
	var b strings.Builder
	b.WriteString(m.styles.ModalTitleStyle.Render("Anomalies"))
	b.WriteString("\n\n")

	if m.grid == nil || !m.hasAnomalies() {
		b.WriteString(m.styles.ModalBodyStyle.Render("Nothing to report."))
	} else {
		if m.grid.Truncated {
			b.WriteString(m.styles.ModalWarningStyle.Render(
				fmt.Sprintf("Day clipped at %d slots; later rows are off the grid.", m.grid.SlotCount())))
			b.WriteString("\n\n")
		}
		if len(m.grid.Skipped) > 0 {
			b.WriteString(m.styles.ModalBodyStyle.Render("Sessions with an invalid time range, left off the grid:"))
			b.WriteString("\n")
			for i, s := range m.grid.Skipped {
				if i == maxAnomalyLines {
					b.WriteString(m.styles.ModalMetaStyle.Render(
						fmt.Sprintf("  and %d more", len(m.grid.Skipped)-maxAnomalyLines)))
					b.WriteString("\n")
					break
				}
				b.WriteString(m.styles.ModalMetaStyle.Render(fmt.Sprintf("  %s  %s to %s",
					truncateWithEllipsis(s.Title, 32), m.formatClock(s.StartsAt), m.formatClock(s.EndsAt))))
				b.WriteString("\n")
			}
		}
	}

	b.WriteString("\n")
	b.WriteString(m.styles.ModalHintStyle.Render("Esc: close"))
	return m.styles.ModalStyle.Render(b.String())
}

// renderHelpModal renders the key reference.
func (m Model) renderHelpModal() string {
	rows := []struct{ key, what string }{
		{"hjkl / arrows", "move the cursor"},
		{"Enter", "open session, or create one on an empty cell"},
		{"m / Space", "grab the session under the cursor"},
		{"drag with mouse", "move a session; click opens it"},
		{"Esc", "put a grabbed session back"},
		{"x", "cancel the session under the cursor"},
		{"y", "copy session details"},
		{"[ / ]", "previous / next day"},
		{"t", "jump to today"},
		{"/", "jump to a day (2026-03-10, +2, fri)"},
		{"!", "show anomalies"},
		{"r", "reload the day"},
		{"q", "quit"},
	}

	var b strings.Builder
	b.WriteString(m.styles.ModalTitleStyle.Render("Keys"))
	b.WriteString("\n\n")
	for _, r := range rows {
		b.WriteString(m.styles.ModalLabelStyle.Width(16).Render(r.key))
		b.WriteString(m.styles.ModalBodyStyle.Render(r.what))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.styles.ModalHintStyle.Render("Esc: close"))
	return m.styles.ModalStyle.Render(b.String())
}
