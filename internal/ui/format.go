package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/fundingthecommons/impactful-events-sub003/internal/event"
)

// Stats holds aggregated numbers for a set of listed sessions.
type Stats struct {
	Scheduled        int
	Cancelled        int
	Anomalies        int // invalid intervals, off the grid
	ScheduledMinutes int
	RoomMinutes      map[string]int // scheduled minutes per room ID, "" for unassigned
}

// BusiestRoom returns the room carrying the most scheduled minutes. Ties
// break on room ID so output is stable.
func (s Stats) BusiestRoom() (roomID string, minutes int) {
	for id, m := range s.RoomMinutes {
		if m > minutes || (m == minutes && m > 0 && id < roomID) {
			roomID, minutes = id, m
		}
	}
	return roomID, minutes
}

// AccumulateStats updates stats based on a session.
func AccumulateStats(stats *Stats, s *event.Session) {
	if stats.RoomMinutes == nil {
		stats.RoomMinutes = make(map[string]int)
	}
	if s.IsCancelled() {
		stats.Cancelled++
		return
	}
	if s.InvalidInterval() {
		stats.Anomalies++
		return
	}
	minutes := int(s.Duration().Minutes())
	stats.Scheduled++
	stats.ScheduledMinutes += minutes
	stats.RoomMinutes[s.RoomID] += minutes
}

// PrintStats prints the stats summary for a listing.
func PrintStats(stats Stats, names map[string]string) {
	parts := []string{
		formatSession(fmt.Sprintf("%d scheduled (%s)", stats.Scheduled, FormatDuration(stats.ScheduledMinutes))),
	}
	if stats.Cancelled > 0 {
		parts = append(parts, formatMuted(fmt.Sprintf("%d cancelled", stats.Cancelled)))
	}
	if stats.Anomalies > 0 {
		parts = append(parts, formatWarn(fmt.Sprintf("%d with invalid times", stats.Anomalies)))
	}
	fmt.Println(strings.Join(parts, "  |  "))

	if id, minutes := stats.BusiestRoom(); minutes > 0 {
		fmt.Printf("Busiest room: %s (%s)\n", roomLabel(id, names), FormatDuration(minutes))
	}
}

// PrintOpts configures session row printing.
type PrintOpts struct {
	RoomWidth     int  // width of the room column
	ShowDuration  bool // append a duration column
	Verbose       bool // widen titles to the terminal instead of the default
	MaxTitleWidth int  // 0 = auto
}

// CalcMaxTitleWidth calculates the title column width based on options.
func (o PrintOpts) CalcMaxTitleWidth(defaultWidth int) int {
	if o.MaxTitleWidth > 0 {
		return o.MaxTitleWidth
	}
	if !o.Verbose {
		return defaultWidth
	}
	// Base: "  ○ 12345678  HH:MM-HH:MM  room  " plus the duration suffix.
	overhead := 28 + o.RoomWidth
	if o.ShowDuration {
		overhead += 8
	}
	if available := termWidth() - overhead; available > defaultWidth {
		return available
	}
	return defaultWidth
}

// PrintSessionRow prints a single session row with consistent formatting.
func PrintSessionRow(s *event.Session, names map[string]string, loc *time.Location, opts PrintOpts, maxTitleWidth int) {
	title := s.Title
	if maxTitleWidth > 3 && len(title) > maxTitleWidth {
		title = title[:maxTitleWidth-3] + "..."
	}

	tag := fmt.Sprintf("%-*s", opts.RoomWidth, roomLabel(s.RoomID, names))
	if s.RoomID == "" {
		tag = formatMuted(tag)
	} else {
		tag = formatRoom(tag)
	}

	line := fmt.Sprintf("  %s %s  %s  %s  ",
		statusSymbol(s.Status),
		formatMuted(shortID(s.ID)),
		FormatClockRange(s, loc),
		tag,
	)
	if opts.ShowDuration {
		line += fmt.Sprintf("%-*s  %s", maxTitleWidth, title, formatMuted(FormatDuration(int(s.Duration().Minutes()))))
	} else {
		line += title
	}
	if len(s.Speakers) > 0 {
		line += "  " + formatMuted(event.JoinSpeakers(s.Speakers))
	}
	fmt.Println(line)
}

// statusSymbol returns the status indicator for a session.
func statusSymbol(s event.Status) string {
	switch s {
	case event.StatusScheduled:
		return "○"
	case event.StatusCancelled:
		return "✗"
	default:
		return "?"
	}
}

// roomLabel resolves a room ID for display. Unassigned sessions read as
// such; a stale ID whose room is gone falls back to the raw handle.
func roomLabel(roomID string, names map[string]string) string {
	if roomID == "" {
		return "unassigned"
	}
	if name, ok := names[roomID]; ok {
		return name
	}
	return shortID(roomID)
}

// shortID returns the display form of an ID, enough of a UUID to be a
// usable handle in later commands.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// FormatClockRange renders a session's interval as wall clock times in the
// venue's reference zone.
func FormatClockRange(s *event.Session, loc *time.Location) string {
	return s.StartsAt.In(loc).Format("15:04") + "-" + s.EndsAt.In(loc).Format("15:04")
}

// FormatDuration formats minutes as a human-readable duration.
func FormatDuration(minutes int) string {
	if minutes == 0 {
		return "0m"
	}
	hours := minutes / 60
	mins := minutes % 60
	if hours == 0 {
		return fmt.Sprintf("%dm", mins)
	}
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh%dm", hours, mins)
}

// OccupancyBar creates an ASCII bar showing booked time against the venue's
// operating capacity. Overbooked days fill the bar and report past 100%.
func OccupancyBar(bookedMinutes, capacityMinutes, width int) string {
	if capacityMinutes <= 0 {
		return "[" + strings.Repeat("░", width) + "] (0% booked)"
	}

	pct := (bookedMinutes * 100) / capacityMinutes
	filled := (bookedMinutes * width) / capacityMinutes
	if filled > width {
		filled = width
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("[%s] %s", formatSession(bar), formatStats(fmt.Sprintf("(%d%% booked)", pct)))
}
