package schedule

import (
	"errors"
	"time"

	"github.com/fundingthecommons/impactful-events-sub003/internal/event"
)

// ErrOutOfBounds is returned when a reschedule would push a session past the
// end of its day. The schedule is left untouched; there is no partial plan.
var ErrOutOfBounds = errors.New("reschedule would push past the end of the day")

// Resolver turns a drop target into a ShiftPlan. Resolution is synchronous
// and pure: it reads the day's sessions, never mutates them, and either
// returns a complete plan or no plan at all.
type Resolver struct {
	loc  *time.Location
	inst Instrumentation
}

// NewResolver creates a resolver for the venue's reference zone. A nil inst
// defaults to Nop.
func NewResolver(loc *time.Location, inst Instrumentation) *Resolver {
	if loc == nil {
		loc = time.UTC
	}
	if inst == nil {
		inst = Nop{}
	}
	return &Resolver{loc: loc, inst: inst}
}

// Resolve computes the consequences of moving s to newStart in newRoomID.
//
// The moved session keeps its duration. Every other scheduled session of the
// destination room on newStart's day is considered in start order; any
// neighbor the moved interval now overlaps is pushed later, start set to the
// end of whatever pushed it, and the push cascades down the room until a gap
// absorbs it. Pushes only ever go forward; freed time earlier in the day is
// never back-filled.
//
// daySessions is the pool the cascade draws from, typically everything loaded
// for the day. Sessions in other rooms or on other days are never shifted.
//
// Dropping a session on its own start time in its own room is a no-op: the
// returned plan is Empty and the caller must not commit it.
func (r *Resolver) Resolve(s *event.Session, newStart time.Time, newRoomID string, daySessions []*event.Session) (*event.ShiftPlan, error) {
	if !s.IsScheduled() {
		return nil, event.ErrNotScheduled
	}
	if s.InvalidInterval() {
		return nil, event.ErrInvalidInterval
	}

	plan := &event.ShiftPlan{
		SessionID:  s.ID,
		NewStart:   newStart,
		NewRoomID:  newRoomID,
		PrevRoomID: s.RoomID,
	}
	if newStart.Equal(s.StartsAt) && newRoomID == s.RoomID {
		return plan, nil
	}

	day := DayOf(newStart, r.loc)
	dayEnd := NextDay(day)
	newEnd := newStart.Add(s.Duration())
	if newStart.Before(day) || newEnd.After(dayEnd) {
		return nil, ErrOutOfBounds
	}
	plan.Day, plan.DayEnd = day, dayEnd

	plan.Shifts = []event.Shift{{
		SessionID: s.ID,
		PrevStart: s.StartsAt,
		PrevEnd:   s.EndsAt,
		NewStart:  newStart,
		NewEnd:    newEnd,
	}}

	cursor := newEnd
	for _, n := range r.neighbors(s, newRoomID, day, daySessions) {
		if !n.EndsAt.After(newStart) {
			// ends before the moved session begins, untouched
			continue
		}
		if !n.StartsAt.Before(cursor) {
			// sorted by start, so the cascade has been absorbed by a gap
			break
		}
		shiftedEnd := cursor.Add(n.Duration())
		if shiftedEnd.After(dayEnd) {
			return nil, ErrOutOfBounds
		}
		plan.Shifts = append(plan.Shifts, event.Shift{
			SessionID: n.ID,
			PrevStart: n.StartsAt,
			PrevEnd:   n.EndsAt,
			NewStart:  cursor,
			NewEnd:    shiftedEnd,
		})
		cursor = shiftedEnd
	}

	r.inst.CascadeResolved(s.ID, len(plan.Shifts)-1)
	return plan, nil
}

// neighbors returns the destination room's other sessions on the target day,
// sorted by start. Cancelled sessions and degenerate intervals sit out of
// cascades; the latter are reported as skipped.
func (r *Resolver) neighbors(s *event.Session, roomID string, day time.Time, daySessions []*event.Session) []*event.Session {
	var out []*event.Session
	for _, n := range daySessions {
		if n.ID == s.ID || n.RoomID != roomID || !n.IsScheduled() {
			continue
		}
		if !DayOf(n.StartsAt, r.loc).Equal(day) {
			continue
		}
		if n.InvalidInterval() {
			r.inst.SessionSkipped(n.ID, event.ErrInvalidInterval)
			continue
		}
		out = append(out, n)
	}
	sortSessions(out)
	return out
}

// ApplyPlan returns a copy of sessions with the plan's shifts applied. The
// TUI uses it to render a move optimistically while the commit is in flight;
// the input is never mutated.
func ApplyPlan(sessions []*event.Session, plan *event.ShiftPlan) []*event.Session {
	if plan.Empty() {
		return sessions
	}
	byID := make(map[string]event.Shift, len(plan.Shifts))
	for _, sh := range plan.Shifts {
		byID[sh.SessionID] = sh
	}
	out := make([]*event.Session, len(sessions))
	for i, s := range sessions {
		sh, ok := byID[s.ID]
		if !ok {
			out[i] = s
			continue
		}
		c := s.Clone()
		c.StartsAt = sh.NewStart
		c.EndsAt = sh.NewEnd
		if s.ID == plan.SessionID {
			c.RoomID = plan.NewRoomID
		}
		out[i] = c
	}
	return out
}
