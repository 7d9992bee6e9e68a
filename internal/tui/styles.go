// Package tui provides the terminal user interface for eventgrid.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/fundingthecommons/impactful-events-sub003/internal/tui/theme"
)

// Default column width - recalculated dynamically from the terminal size.
const defaultColWidth = 18

// Width of the time gutter on the left edge of the grid.
const gutterWidth = 6

// Styles holds all lipgloss styles for the TUI, derived from a theme.
type Styles struct {
	// Theme colors as lipgloss colors
	colorBg          lipgloss.Color
	colorBgHighlight lipgloss.Color
	colorBgSelection lipgloss.Color
	colorFg          lipgloss.Color
	colorFgMuted     lipgloss.Color
	colorAccent      lipgloss.Color
	colorSession     lipgloss.Color
	colorDrag        lipgloss.Color
	colorShifted     lipgloss.Color
	colorCurrent     lipgloss.Color
	colorWarning     lipgloss.Color

	colorTextOnAccent  lipgloss.Color
	colorTextOnWarning lipgloss.Color
	colorTextOnCurrent lipgloss.Color
	colorTextOnDrag    lipgloss.Color

	// Derived block backgrounds
	colorSessionBg        lipgloss.Color
	colorSessionBgAlt     lipgloss.Color
	colorSessionPastBg    lipgloss.Color
	colorSessionPastBgAlt lipgloss.Color
	colorShiftedBg        lipgloss.Color

	// Title style
	TitleStyle lipgloss.Style

	// Header styles
	RoomHeaderStyle       lipgloss.Style
	RoomHeaderHoldingPen  lipgloss.Style
	HeaderSeparatorStyle  lipgloss.Style
	TimeColumnStyle       lipgloss.Style
	TimeColumnNowStyle    lipgloss.Style
	TimeColumnHeaderStyle lipgloss.Style

	// Session cell styles
	SessionCellStyle    lipgloss.Style
	SessionStyle        lipgloss.Style
	SessionAltStyle     lipgloss.Style // Alternate shade for adjacent blocks
	SessionPastStyle    lipgloss.Style // Sessions on days already over
	SessionPastAltStyle lipgloss.Style
	DragStyle           lipgloss.Style // Block riding the pointer
	ShiftedStyle        lipgloss.Style // Neighbors the drop would push later
	BlockedStyle        lipgloss.Style // Cells in a room with a commit in flight

	// Empty cell and cursor
	EmptyCellStyle lipgloss.Style
	CursorStyle    lipgloss.Style

	// Stats bar
	StatsBarStyle     lipgloss.Style
	StatsAccentStyle  lipgloss.Style
	StatsWarningStyle lipgloss.Style

	// Jump prompt box
	PromptFocusedStyle lipgloss.Style

	// Status message
	StatusStyle  lipgloss.Style
	WarningStyle lipgloss.Style

	// Help text
	HelpStyle lipgloss.Style

	// Legend swatches
	LegendSessionStyle lipgloss.Style
	LegendDragStyle    lipgloss.Style
	LegendShiftedStyle lipgloss.Style

	// Modal styles
	ModalStyle             lipgloss.Style
	ModalBgColor           lipgloss.Color
	ModalBackdropColor     lipgloss.Color
	ModalHeaderStyle       lipgloss.Style
	ModalTitleStyle        lipgloss.Style
	ModalBodyStyle         lipgloss.Style
	ModalMetaStyle         lipgloss.Style
	ModalTagStyle          lipgloss.Style
	ModalLabelStyle        lipgloss.Style
	ModalInputStyle        lipgloss.Style
	ModalInputFocusedStyle lipgloss.Style
	ModalInputTextStyle    lipgloss.Style
	ModalInputCursorStyle  lipgloss.Style
	ModalPlaceholderStyle  lipgloss.Style
	ModalHintStyle         lipgloss.Style
	ModalWarningStyle      lipgloss.Style

	// Duration option styles
	DurationActiveStyle   lipgloss.Style
	DurationInactiveStyle lipgloss.Style
}

// NewStyles creates a new Styles instance from a theme.
func NewStyles(t *theme.Theme) *Styles {
	s := &Styles{}
	palette := theme.NewPalette(t)

	s.colorBg = palette.Bg
	s.colorBgHighlight = palette.BgHighlight
	s.colorBgSelection = palette.BgSelection
	s.colorFg = palette.Fg
	s.colorFgMuted = palette.FgMuted
	s.colorAccent = palette.Accent
	s.colorSession = palette.Session
	s.colorDrag = palette.Drag
	s.colorShifted = palette.Shifted
	s.colorCurrent = palette.Current
	s.colorWarning = palette.Warning

	s.colorTextOnAccent = palette.TextOnAccent
	s.colorTextOnWarning = palette.TextOnWarning
	s.colorTextOnCurrent = palette.TextOnCurrent
	s.colorTextOnDrag = palette.TextOnDrag

	s.colorSessionBg = palette.SessionBg
	s.colorSessionBgAlt = palette.SessionBgAlt
	s.colorSessionPastBg = palette.SessionPastBg
	s.colorSessionPastBgAlt = palette.SessionPastBgAlt
	s.colorShiftedBg = palette.ShiftedBg

	// Title style
	s.TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(s.colorAccent).
		Background(s.colorBg)

	// Room column headers
	s.RoomHeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Align(lipgloss.Center).
		Foreground(s.colorFg).
		Background(s.colorBg).
		Width(defaultColWidth)

	// The unassigned column holds sessions without a room
	s.RoomHeaderHoldingPen = s.RoomHeaderStyle.
		Foreground(s.colorFgMuted).
		Italic(true)

	s.HeaderSeparatorStyle = lipgloss.NewStyle().
		Foreground(s.colorBgSelection).
		Background(s.colorBg)

	// Time gutter
	s.TimeColumnStyle = lipgloss.NewStyle().
		Foreground(s.colorAccent).
		Background(s.colorBg).
		Width(gutterWidth)

	s.TimeColumnNowStyle = s.TimeColumnStyle.
		Foreground(s.colorCurrent).
		Bold(true)

	s.TimeColumnHeaderStyle = lipgloss.NewStyle().
		Foreground(s.colorFgMuted).
		Background(s.colorBg).
		Width(gutterWidth)

	// Session cell styles
	s.SessionCellStyle = lipgloss.NewStyle().
		Width(defaultColWidth).
		Align(lipgloss.Left)

	s.SessionStyle = s.SessionCellStyle.
		Background(s.colorSessionBg).
		Foreground(s.colorFg).
		Bold(true)

	// Adjacent blocks in the same room alternate shades so back-to-back
	// sessions stay distinguishable without borders.
	s.SessionAltStyle = s.SessionCellStyle.
		Background(s.colorSessionBgAlt).
		Foreground(s.colorFg).
		Bold(true)

	s.SessionPastStyle = s.SessionCellStyle.
		Background(s.colorSessionPastBg).
		Foreground(s.colorFg)

	s.SessionPastAltStyle = s.SessionCellStyle.
		Background(s.colorSessionPastBgAlt).
		Foreground(s.colorFg)

	s.DragStyle = s.SessionCellStyle.
		Background(s.colorDrag).
		Foreground(s.colorTextOnDrag).
		Bold(true)

	s.ShiftedStyle = s.SessionCellStyle.
		Background(s.colorShiftedBg).
		Foreground(s.colorFg).
		Italic(true)

	s.BlockedStyle = s.SessionCellStyle.
		Background(s.colorBgHighlight).
		Foreground(s.colorFgMuted)

	// Empty cell
	s.EmptyCellStyle = lipgloss.NewStyle().
		Width(defaultColWidth).
		Foreground(s.colorFgMuted).
		Background(s.colorBg)

	// Cursor
	s.CursorStyle = lipgloss.NewStyle().
		Width(defaultColWidth).
		Background(s.colorBgSelection).
		Foreground(s.colorAccent).
		Bold(true)

	// Stats bar
	s.StatsBarStyle = lipgloss.NewStyle().
		Foreground(s.colorFg).
		Background(s.colorBg).
		Padding(0, 0)

	s.StatsAccentStyle = lipgloss.NewStyle().
		Foreground(s.colorAccent).
		Background(s.colorBg).
		Bold(true)

	s.StatsWarningStyle = lipgloss.NewStyle().
		Foreground(s.colorWarning).
		Background(s.colorBg).
		Bold(true)

	// Jump prompt box, replaces the footer while open
	s.PromptFocusedStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.colorAccent).
		BorderBackground(s.colorBg).
		Background(s.colorBgSelection).
		Foreground(s.colorFg).
		Bold(true).
		Padding(0, 1)

	// Status message
	s.StatusStyle = lipgloss.NewStyle().
		Foreground(s.colorCurrent).
		Background(s.colorBg).
		Bold(true)

	s.WarningStyle = lipgloss.NewStyle().
		Foreground(s.colorWarning).
		Background(s.colorBg).
		Bold(true)

	// Help text
	s.HelpStyle = lipgloss.NewStyle().
		Foreground(s.colorFgMuted).
		Background(s.colorBg)

	// Legend swatches
	s.LegendSessionStyle = lipgloss.NewStyle().
		Foreground(s.colorSession).
		Background(s.colorBg)

	s.LegendDragStyle = lipgloss.NewStyle().
		Foreground(s.colorDrag).
		Background(s.colorBg)

	s.LegendShiftedStyle = lipgloss.NewStyle().
		Foreground(s.colorShifted).
		Background(s.colorBg)

	// Modal styles
	modal := palette.Modal
	modalBg := modal.Bg
	modalBorder := modal.Border
	modalText := modal.Text
	modalMuted := modal.Muted
	modalHighlight := modal.Highlight
	modalPanel := modal.Panel
	modalReverseText := modal.ReverseText
	s.ModalBackdropColor = modal.Backdrop
	s.ModalBgColor = modalBg

	s.ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(modalBorder).
		Background(modalBg).
		Foreground(modalText).
		Padding(1, 1).
		Width(64).
		Align(lipgloss.Left)

	s.ModalHeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(modalText).
		Background(modalBg).
		Padding(0, 1).
		Align(lipgloss.Center)

	s.ModalTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(modalText).
		Background(modalBg)

	s.ModalBodyStyle = lipgloss.NewStyle().
		Foreground(modalText).
		Background(modalBg)

	s.ModalMetaStyle = lipgloss.NewStyle().
		Foreground(modalMuted).
		Background(modalBg)

	s.ModalTagStyle = lipgloss.NewStyle().
		Foreground(modalText).
		Background(modalPanel).
		Bold(true).
		Padding(0, 1)

	s.ModalLabelStyle = lipgloss.NewStyle().
		Foreground(modalText).
		Bold(true).
		Width(10).
		Background(modalBg)

	s.ModalInputStyle = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(modalBorder).
		Background(modalBg).
		Foreground(modalText).
		Padding(0, 1).
		Width(48)

	s.ModalInputFocusedStyle = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(modalHighlight).
		Background(modalPanel).
		Foreground(modalText).
		Padding(0, 1).
		Width(48)

	s.ModalInputTextStyle = lipgloss.NewStyle().
		Foreground(modalText).
		Background(modalBg)

	s.ModalInputCursorStyle = lipgloss.NewStyle().
		Foreground(modalReverseText).
		Background(modalHighlight)

	s.ModalPlaceholderStyle = lipgloss.NewStyle().
		Foreground(modalMuted).
		Background(modalBg)

	s.ModalHintStyle = lipgloss.NewStyle().
		Foreground(modalMuted).
		Background(modalBg)

	s.ModalWarningStyle = lipgloss.NewStyle().
		Foreground(s.colorWarning).
		Background(modalBg).
		Bold(true)

	// Duration option styles
	s.DurationActiveStyle = lipgloss.NewStyle().
		Background(modalHighlight).
		Foreground(modalReverseText).
		Bold(true).
		Padding(0, 1)

	s.DurationInactiveStyle = lipgloss.NewStyle().
		Background(modalBg).
		Foreground(modalMuted).
		Padding(0, 1)

	return s
}

// SessionStyleWidth returns the session block style with the specified width.
func (s *Styles) SessionStyleWidth(width int) lipgloss.Style {
	return s.SessionStyle.Width(width)
}

// SessionAltStyleWidth returns the alternate session style with the specified width.
func (s *Styles) SessionAltStyleWidth(width int) lipgloss.Style {
	return s.SessionAltStyle.Width(width)
}

// SessionPastStyleWidth returns the past session style with the specified width.
func (s *Styles) SessionPastStyleWidth(width int) lipgloss.Style {
	return s.SessionPastStyle.Width(width)
}

// SessionPastAltStyleWidth returns the alternate past session style with the specified width.
func (s *Styles) SessionPastAltStyleWidth(width int) lipgloss.Style {
	return s.SessionPastAltStyle.Width(width)
}

// DragStyleWidth returns the dragged block style with the specified width.
func (s *Styles) DragStyleWidth(width int) lipgloss.Style {
	return s.DragStyle.Width(width)
}

// ShiftedStyleWidth returns the pushed-neighbor style with the specified width.
func (s *Styles) ShiftedStyleWidth(width int) lipgloss.Style {
	return s.ShiftedStyle.Width(width)
}

// BlockedStyleWidth returns the commit-in-flight style with the specified width.
func (s *Styles) BlockedStyleWidth(width int) lipgloss.Style {
	return s.BlockedStyle.Width(width)
}

// EmptyCellStyleWidth returns the empty cell style with the specified width.
func (s *Styles) EmptyCellStyleWidth(width int) lipgloss.Style {
	return s.EmptyCellStyle.Width(width)
}

// CursorStyleWidth returns the cursor style with the specified width.
func (s *Styles) CursorStyleWidth(width int) lipgloss.Style {
	return s.CursorStyle.Width(width)
}

// RoomHeaderStyleWidth returns the room header style with the specified width.
func (s *Styles) RoomHeaderStyleWidth(width int) lipgloss.Style {
	return s.RoomHeaderStyle.Width(width)
}

// RoomHeaderHoldingPenWidth returns the unassigned column header style with the specified width.
func (s *Styles) RoomHeaderHoldingPenWidth(width int) lipgloss.Style {
	return s.RoomHeaderHoldingPen.Width(width)
}
