package tui

// Fixed chrome heights. The title sits above the grid; the footer carries
// the stats, status, and help lines.
const (
	titleLines  = 1
	footerLines = 3

	minColWidth = 10
	maxColWidth = 28
)

// headerLines is the number of terminal lines the grid header occupies:
// the room name row, plus a separator row when room sub-headers are shown.
func (m Model) headerLines() int {
	if m.grid == nil {
		return 1
	}
	return m.grid.HeaderRows
}

// gridTop is the screen row of the first slot row.
func (m Model) gridTop() int {
	return titleLines + m.headerLines()
}

// visibleRows is how many slot rows fit between the chrome.
func (m Model) visibleRows() int {
	rows := m.height - titleLines - m.headerLines() - footerLines
	if rows < 1 {
		rows = 1
	}
	return rows
}

// maxSlots is the slot count of the visible grid.
func (m Model) maxSlots() int {
	if m.grid == nil {
		return 0
	}
	return m.grid.SlotCount()
}

// columnCount is the number of room columns of the visible grid.
func (m Model) columnCount() int {
	if m.grid == nil || len(m.grid.Columns) == 0 {
		return 1
	}
	return len(m.grid.Columns)
}

// calculateLayout recomputes the column width from the terminal size.
func (m *Model) calculateLayout() {
	cols := m.columnCount()
	usable := m.width - gutterWidth
	if usable < cols*minColWidth {
		m.colWidth = minColWidth
		return
	}
	w := usable / cols
	if w > maxColWidth {
		w = maxColWidth
	}
	m.colWidth = w
}

// cellAt maps terminal coordinates to a grid cell. ok is false outside the
// grid area: the title, headers, footer, the time gutter, and anything past
// the last room column or the last visible slot row.
func (m Model) cellAt(x, y int) (col, slot int, ok bool) {
	if m.grid == nil {
		return 0, 0, false
	}
	if x < gutterWidth || m.colWidth <= 0 {
		return 0, 0, false
	}
	col = (x - gutterWidth) / m.colWidth
	if col >= m.columnCount() {
		return 0, 0, false
	}

	top := m.gridTop()
	if y < top || y >= top+m.visibleRows() {
		return 0, 0, false
	}
	slot = y - top + m.scrollOffset
	if slot < 0 || slot >= m.maxSlots() {
		return 0, 0, false
	}
	return col, slot, true
}

// cellAtClamped maps terminal coordinates to the nearest grid cell. Used
// while a drag is active so the target never escapes the grid.
func (m Model) cellAtClamped(x, y int) (col, slot int) {
	if m.grid == nil {
		return 0, 0
	}
	if m.colWidth > 0 {
		col = (x - gutterWidth) / m.colWidth
	}
	col = clampInt(col, 0, m.columnCount()-1)

	slot = y - m.gridTop() + m.scrollOffset
	slot = clampInt(slot, 0, m.maxSlots()-1)
	return col, slot
}

// ensureCursorVisible scrolls the grid so the cursor row is on screen.
func (m *Model) ensureCursorVisible() {
	visible := m.visibleRows()
	if m.cursor.Slot < m.scrollOffset {
		m.scrollOffset = m.cursor.Slot
	}
	if m.cursor.Slot >= m.scrollOffset+visible {
		m.scrollOffset = m.cursor.Slot - visible + 1
	}
	if m.scrollOffset < 0 {
		m.scrollOffset = 0
	}
}

// clampCursor keeps the cursor on the grid after a reload shrinks it.
func (m *Model) clampCursor() {
	maxCol := m.columnCount() - 1
	maxSlot := m.maxSlots() - 1
	if maxSlot < 0 {
		maxSlot = 0
	}
	m.cursor.Col = clampInt(m.cursor.Col, 0, maxCol)
	m.cursor.Slot = clampInt(m.cursor.Slot, 0, maxSlot)
}

// scrollBy moves the viewport by delta rows, clamped to the grid.
func (m *Model) scrollBy(delta int) {
	maxOffset := m.maxSlots() - m.visibleRows()
	if maxOffset < 0 {
		maxOffset = 0
	}
	m.scrollOffset = clampInt(m.scrollOffset+delta, 0, maxOffset)
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
