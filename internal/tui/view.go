package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fundingthecommons/impactful-events-sub003/internal/event"
	"github.com/fundingthecommons/impactful-events-sub003/internal/schedule"
)

// View renders the full screen: title, room headers, the slot grid, and the
// footer. A modal, when open, is composited on top.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	g := m.activeGrid()

	lines := make([]string, 0, m.height)
	lines = append(lines, m.renderTitle(g))
	lines = append(lines, m.renderHeader(g)...)
	lines = append(lines, m.renderGridRows(g)...)
	lines = append(lines, m.renderFooter(g)...)

	out := strings.Join(lines, "\n")
	if m.mode == ModeModal {
		out = m.renderModalOverlay(out)
	}
	return out
}

// activeGrid is the grid on screen: the live drop preview while one is
// valid, otherwise the committed day grid.
func (m Model) activeGrid() *schedule.Grid {
	if m.mode == ModeDrag && m.previewGrid != nil {
		return m.previewGrid
	}
	return m.grid
}

func (m Model) renderTitle(g *schedule.Grid) string {
	venue := m.config.Venue.Name
	if venue == "" {
		venue = "eventgrid"
	}
	title := fmt.Sprintf(" %s  %s ", venue, m.day.Format("Monday, 02 Jan 2006"))
	line := m.styles.TitleStyle.Render(title)
	if m.loading {
		line += m.styles.HelpStyle.Render(" loading...")
	}
	if n := anomalyCount(g); n > 0 {
		line += m.styles.StatsWarningStyle.Render(fmt.Sprintf("  %d anomalies (!)", n))
	}
	return line
}

func (m Model) renderHeader(g *schedule.Grid) []string {
	if g == nil {
		return []string{""}
	}
	var b strings.Builder
	b.WriteString(m.styles.TimeColumnHeaderStyle.Render(""))
	for _, c := range g.Columns {
		name := c.Title
		style := m.styles.RoomHeaderStyleWidth(m.colWidth)
		if c.RoomID == "" {
			name = "Unassigned"
			style = m.styles.RoomHeaderHoldingPenWidth(m.colWidth)
		}
		b.WriteString(style.Render(truncateWithEllipsis(name, m.colWidth)))
	}
	lines := []string{b.String()}

	if g.HeaderRows == 2 {
		sep := strings.Repeat(" ", gutterWidth) + strings.Repeat("─", m.colWidth*len(g.Columns))
		lines = append(lines, m.styles.HeaderSeparatorStyle.Render(sep))
	}
	return lines
}

func (m Model) renderGridRows(g *schedule.Grid) []string {
	rows := m.visibleRows()
	lines := make([]string, 0, rows)
	if g == nil {
		lines = append(lines, m.styles.HelpStyle.Render("  Loading day..."))
		for len(lines) < rows {
			lines = append(lines, "")
		}
		return lines
	}

	parity := gridParity(g)
	shifted := m.previewShiftedIDs()
	nowSlot := g.SlotIndexOf(m.nowFunc())

	end := min(m.scrollOffset+rows, g.SlotCount())
	for i := m.scrollOffset; i < end; i++ {
		lines = append(lines, m.renderSlotRow(g, i, parity, shifted, nowSlot))
	}
	for len(lines) < rows {
		lines = append(lines, "")
	}
	return lines
}

func (m Model) renderSlotRow(g *schedule.Grid, slotIdx int, parity, shifted map[string]bool, nowSlot int) string {
	var b strings.Builder

	// Time gutter, labeled on the hour and half hour
	t := g.SlotTime(slotIdx)
	label := ""
	if t.Minute() == 0 || t.Minute() == 30 {
		label = fmt.Sprintf("%5s ", t.Format("15:04"))
	}
	gutter := m.styles.TimeColumnStyle
	if slotIdx == nowSlot {
		gutter = m.styles.TimeColumnNowStyle
	}
	b.WriteString(gutter.Render(label))

	for col := range g.Columns {
		b.WriteString(m.renderCell(g, col, slotIdx, parity, shifted))
	}
	return b.String()
}

func (m Model) renderCell(g *schedule.Grid, col, slotIdx int, parity, shifted map[string]bool) string {
	isCursor := m.mode != ModeModal && m.cursor.Col == col && m.cursor.Slot == slotIdx

	p := g.PlacementAt(col, slotIdx)
	if p == nil {
		if isCursor {
			return m.styles.CursorStyleWidth(m.colWidth).Render("")
		}
		return m.styles.EmptyCellStyleWidth(m.colWidth).Render("")
	}

	s := p.Session
	content := m.cellContent(g, p, slotIdx)

	switch {
	case m.mode == ModeDrag && s.ID == m.drag.SessionID():
		return m.styles.DragStyleWidth(m.colWidth).Render(content)
	case shifted[s.ID]:
		return m.styles.ShiftedStyleWidth(m.colWidth).Render(content)
	case isCursor:
		return m.styles.CursorStyleWidth(m.colWidth).Render(content)
	case m.roomLocked(g.RoomIDAt(col)):
		return m.styles.BlockedStyleWidth(m.colWidth).Render(content)
	case s.EndsAt.Before(m.nowFunc()):
		if parity[s.ID] {
			return m.styles.SessionPastAltStyleWidth(m.colWidth).Render(content)
		}
		return m.styles.SessionPastStyleWidth(m.colWidth).Render(content)
	default:
		if parity[s.ID] {
			return m.styles.SessionAltStyleWidth(m.colWidth).Render(content)
		}
		return m.styles.SessionStyleWidth(m.colWidth).Render(content)
	}
}

// cellContent renders one line of a session block: title on the first row,
// times on the second, speakers on the third.
func (m Model) cellContent(g *schedule.Grid, p *schedule.Placement, slotIdx int) string {
	rel := slotIdx - startSlotOf(g, p)
	w := m.colWidth - 1
	switch rel {
	case 0:
		return " " + truncateWithEllipsis(p.Session.Title, w)
	case 1:
		return " " + truncateWithEllipsis(m.sessionTimeRange(p.Session), w)
	case 2:
		if len(p.Session.Speakers) > 0 {
			return " " + truncateWithEllipsis(event.JoinSpeakers(p.Session.Speakers), w)
		}
	}
	return ""
}

func (m Model) renderFooter(g *schedule.Grid) []string {
	if m.mode == ModePrompt {
		return m.renderPromptFooter()
	}

	stats := m.renderStatsLine(g)

	var status string
	switch {
	case m.mode == ModeDrag && m.previewErr != nil:
		status = m.styles.WarningStyle.Render(" " + dropStatus(m.previewErr))
	case m.statusMsg != "":
		status = m.styles.StatusStyle.Render(" " + m.statusMsg)
	default:
		status = m.renderLegend()
	}

	return []string{stats, status, m.renderHelpLine()}
}

func (m Model) renderStatsLine(g *schedule.Grid) string {
	if g == nil {
		return ""
	}
	scheduled := 0
	for _, s := range m.sessions {
		if s.IsScheduled() {
			scheduled++
		}
	}
	line := m.styles.StatsBarStyle.Render(fmt.Sprintf(" %d sessions", scheduled)) +
		m.styles.StatsAccentStyle.Render(fmt.Sprintf("  %d rooms", len(m.rooms)))
	if n := anomalyCount(g); n > 0 {
		line += m.styles.StatsWarningStyle.Render(fmt.Sprintf("  %d off-grid", n))
	}
	return line
}

func (m Model) renderLegend() string {
	parts := []string{
		m.styles.LegendSessionStyle.Render("■ session"),
		m.styles.LegendDragStyle.Render("■ moving"),
		m.styles.LegendShiftedStyle.Render("■ pushed later"),
	}
	return " " + strings.Join(parts, "  ")
}

func (m Model) renderHelpLine() string {
	var help string
	switch m.mode {
	case ModeDrag:
		help = "hjkl: move block  Enter: drop  Esc: cancel"
	default:
		help = "hjkl: move  Enter: open/new  m: grab  x: cancel  y: copy  /: jump  [ ]: day  ?: help  q: quit"
	}
	return m.styles.HelpStyle.Render(" " + help)
}

// renderPromptFooter replaces the footer with the bordered jump prompt. The
// box is exactly footerLines tall, so the grid does not move.
func (m Model) renderPromptFooter() []string {
	w := min(m.width-4, 44)
	if w < 20 {
		w = 20
	}
	box := m.styles.PromptFocusedStyle.Width(w).Render("Jump to day: " + m.prompt.View())
	return strings.Split(box, "\n")
}

// gridParity assigns alternating shades to consecutive blocks per column so
// back-to-back sessions read as separate blocks.
func gridParity(g *schedule.Grid) map[string]bool {
	byCol := make(map[int][]*schedule.Placement)
	for i := range g.Placements {
		p := &g.Placements[i]
		byCol[p.Column] = append(byCol[p.Column], p)
	}
	alt := make(map[string]bool, len(g.Placements))
	for _, ps := range byCol {
		sort.Slice(ps, func(i, j int) bool { return ps[i].StartRow < ps[j].StartRow })
		for i, p := range ps {
			alt[p.Session.ID] = i%2 == 1
		}
	}
	return alt
}

// previewShiftedIDs collects the sessions the pending drop would push later.
func (m Model) previewShiftedIDs() map[string]bool {
	ids := make(map[string]bool)
	if m.mode != ModeDrag || m.preview == nil {
		return ids
	}
	for _, sh := range m.preview.Shifts {
		if sh.SessionID != m.preview.SessionID {
			ids[sh.SessionID] = true
		}
	}
	return ids
}

func anomalyCount(g *schedule.Grid) int {
	if g == nil {
		return 0
	}
	n := len(g.Skipped)
	if g.Truncated {
		n++
	}
	return n
}

// startSlotOf converts a placement's first grid line to a slot index.
func startSlotOf(g *schedule.Grid, p *schedule.Placement) int {
	return p.StartRow - g.HeaderRows - 1
}
