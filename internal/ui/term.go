package ui

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Color definitions for consistent styling across the CLI.
var (
	// Session titles and counts: bold cyan
	colorSession = color.New(color.FgCyan, color.Bold)

	// Room tags: yellow so the column reads at a glance
	colorRoom = color.New(color.FgYellow)

	// Headers: bold
	colorHeader = color.New(color.Bold)

	// Stats and positive outcomes: green
	colorStats = color.New(color.FgGreen)

	// Muted: secondary information, cancelled sessions
	colorMuted = color.New(color.FgWhite, color.Faint)

	// Warnings: red
	colorWarn = color.New(color.FgRed, color.Bold)
)

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // sensible default
	}
	return width
}

// DisableColor disables all color output.
func DisableColor() {
	color.NoColor = true
}

// EnableColor enables color output (if terminal supports it).
func EnableColor() {
	color.NoColor = false
}

// formatSession formats text for session titles and totals.
func formatSession(s string) string {
	return colorSession.Sprint(s)
}

// formatRoom formats text for room names.
func formatRoom(s string) string {
	return colorRoom.Sprint(s)
}

// formatHeader formats text as a header.
func formatHeader(s string) string {
	return colorHeader.Sprint(s)
}

// formatStats formats text for statistics.
func formatStats(s string) string {
	return colorStats.Sprint(s)
}

// formatMuted formats text as secondary/muted.
func formatMuted(s string) string {
	return colorMuted.Sprint(s)
}

// formatWarn formats text for warnings.
func formatWarn(s string) string {
	return colorWarn.Sprint(s)
}
