package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// overlayCenter composites a rendered box over the base screen, centered.
// Text inputs inside the box reset styling mid-line, which would let the
// terminal default bleed through; every reset is followed by the modal
// background so the box stays opaque.
func overlayCenter(base, box string, width, height int, bg lipgloss.Color) string {
	if width <= 0 || height <= 0 || box == "" {
		return base
	}

	boxLines := strings.Split(box, "\n")
	boxW := 0
	for _, l := range boxLines {
		if w := lipgloss.Width(l); w > boxW {
			boxW = w
		}
	}
	if boxW > width {
		boxW = width
	}
	if len(boxLines) > height {
		boxLines = boxLines[:height]
	}
	boxH := len(boxLines)

	top := (height - boxH) / 2
	left := (width - boxW) / 2

	bgSeq := ansi.Style{}.BackgroundColor(ansi.HexColor(string(bg))).String()
	baseLines := normalizeScreen(base, width, height)

	out := make([]string, 0, height)
	for row := 0; row < height; row++ {
		if row < top || row >= top+boxH {
			out = append(out, baseLines[row])
			continue
		}

		line := boxLines[row-top]
		lw := lipgloss.Width(line)
		if lw > boxW {
			line = ansi.Cut(line, 0, boxW)
			lw = boxW
		}
		if lw < boxW {
			line += bgSeq + strings.Repeat(" ", boxW-lw)
		}
		line = reinjectBackground(line, bgSeq)

		baseLine := baseLines[row]
		out = append(out, ansi.Cut(baseLine, 0, left)+line+ansi.ResetStyle+ansi.Cut(baseLine, left+boxW, width))
	}

	return strings.Join(out, "\n")
}

func reinjectBackground(line, bgSeq string) string {
	if bgSeq == "" || line == "" {
		return line
	}
	line = strings.ReplaceAll(line, ansi.ResetStyle, ansi.ResetStyle+bgSeq)
	line = strings.ReplaceAll(line, "\x1b[0m", "\x1b[0m"+bgSeq)
	line = strings.ReplaceAll(line, "\x1b[49m", "\x1b[49m"+bgSeq)
	return line
}

// normalizeScreen pads or clips rendered output to an exact width and
// height so overlay math can index into it by row and column.
func normalizeScreen(s string, width, height int) []string {
	lines := strings.Split(s, "\n")
	for len(lines) < height {
		lines = append(lines, "")
	}
	if len(lines) > height {
		lines = lines[:height]
	}

	for i, line := range lines {
		w := lipgloss.Width(line)
		if w > width {
			lines[i] = ansi.Cut(line, 0, width)
			continue
		}
		if w < width {
			lines[i] = line + strings.Repeat(" ", width-w)
		}
	}

	return lines
}
