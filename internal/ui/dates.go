package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/fundingthecommons/impactful-events-sub003/internal/schedule"
	"github.com/fundingthecommons/impactful-events-sub003/internal/tui/input"
)

// dayFlag resolves a --day flag value to midnight of that day in the venue's
// reference zone. Empty means today. The flag accepts the same expressions
// as the board's jump prompt: 2026-03-10, today, tomorrow, +2, fri.
func (a *App) dayFlag(raw string) (time.Time, error) {
	loc, err := a.config.Location()
	if err != nil {
		return time.Time{}, err
	}

	now := time.Now()
	if strings.TrimSpace(raw) == "" {
		return schedule.DayOf(now, loc), nil
	}

	day, err := input.ParseDay(raw, now, now, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day %q: %w", raw, err)
	}
	return day, nil
}

// clockOn combines a day with an HH:MM wall clock reading in the day's zone.
func clockOn(day time.Time, clock string) (time.Time, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(clock))
	if err != nil {
		return time.Time{}, fmt.Errorf("time must be HH:MM, got %q", clock)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, day.Location()), nil
}
