// Package schedule implements the time-grid layout and reschedule core:
// partitioning sessions into venue days, laying a day out on a slot grid,
// and resolving drag-to-reschedule drops into cascading shift plans.
//
// Everything here is pure: no storage, no terminal, no clocks. All calendar
// arithmetic uses the venue's reference zone so two operators in different
// timezones always see the same grid.
package schedule

import (
	"sort"
	"time"

	"github.com/fundingthecommons/impactful-events-sub003/internal/event"
)

// DayOf returns midnight of t's calendar day in the reference zone.
func DayOf(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// NextDay returns midnight of the following calendar day. AddDate keeps it
// correct across DST transitions, where a day is 23 or 25 hours long.
func NextDay(day time.Time) time.Time {
	return day.AddDate(0, 0, 1)
}

// DaySessions groups the sessions of one calendar day.
type DaySessions struct {
	Day      time.Time
	Sessions []*event.Session
}

// PartitionByDay groups sessions by the calendar day of their start in the
// reference zone. Days come back sorted ascending; sessions within a day are
// sorted by start time with ID as the tie-break so layout is deterministic.
// Sessions with degenerate intervals still partition by their start so the
// grid builder can surface them as anomalies.
func PartitionByDay(sessions []*event.Session, loc *time.Location) []DaySessions {
	byDay := make(map[time.Time][]*event.Session)
	for _, s := range sessions {
		day := DayOf(s.StartsAt, loc)
		byDay[day] = append(byDay[day], s)
	}

	out := make([]DaySessions, 0, len(byDay))
	for day, group := range byDay {
		sortSessions(group)
		out = append(out, DaySessions{Day: day, Sessions: group})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out
}

// SessionsOn filters sessions to those starting on the given calendar day.
func SessionsOn(sessions []*event.Session, day time.Time, loc *time.Location) []*event.Session {
	day = DayOf(day, loc)
	var out []*event.Session
	for _, s := range sessions {
		if DayOf(s.StartsAt, loc).Equal(day) {
			out = append(out, s)
		}
	}
	sortSessions(out)
	return out
}

func sortSessions(sessions []*event.Session) {
	sort.SliceStable(sessions, func(i, j int) bool {
		a, b := sessions[i], sessions[j]
		if !a.StartsAt.Equal(b.StartsAt) {
			return a.StartsAt.Before(b.StartsAt)
		}
		return a.ID < b.ID
	})
}
