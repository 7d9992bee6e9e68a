// Package input parses operator input for the TUI jump prompt.
package input

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// ErrUnknownDay is returned when a prompt value matches none of the
// accepted day expressions.
var ErrUnknownDay = errors.New("unrecognized day expression")

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "sunday": time.Sunday,
	"mon": time.Monday, "monday": time.Monday,
	"tue": time.Tuesday, "tuesday": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday,
	"thu": time.Thursday, "thursday": time.Thursday,
	"fri": time.Friday, "friday": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday,
}

// ParseDay interprets a day expression typed into the jump prompt and
// returns midnight of that day in loc.
//
// Accepted forms:
//
//	2026-03-10            an absolute date
//	today, tomorrow,      relative to now
//	yesterday
//	+2, -1                days relative to the visible day
//	fri, friday           the next such weekday after the visible day
//
// now anchors the named days; visible anchors the relative ones, so +1
// while paging through next month advances from where the operator is
// looking, not from the wall clock.
func ParseDay(raw string, now, visible time.Time, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return time.Time{}, ErrUnknownDay
	}

	switch s {
	case "today", "t", "now":
		return midnight(now, loc), nil
	case "tomorrow", "tom":
		return midnight(now, loc).AddDate(0, 0, 1), nil
	case "yesterday", "yest":
		return midnight(now, loc).AddDate(0, 0, -1), nil
	}

	if s[0] == '+' || s[0] == '-' {
		n, err := strconv.Atoi(s)
		if err != nil {
			return time.Time{}, ErrUnknownDay
		}
		return midnight(visible, loc).AddDate(0, 0, n), nil
	}

	if wd, ok := weekdayNames[s]; ok {
		d := midnight(visible, loc)
		offset := (int(wd) - int(d.Weekday()) + 6) % 7
		return d.AddDate(0, 0, offset+1), nil
	}

	if t, err := time.ParseInLocation("2006-01-02", s, loc); err == nil {
		return t, nil
	}
	return time.Time{}, ErrUnknownDay
}

func midnight(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
