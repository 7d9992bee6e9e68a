package event

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/teambition/rrule-go"
)

// DefaultOccurrenceCap bounds recurrence expansion so an unbounded rule
// (FREQ=DAILY with no COUNT or UNTIL) cannot flood the schedule.
const DefaultOccurrenceCap = 90

// ExpandRecurring materializes a session at every occurrence of an RFC 5545
// recurrence rule, e.g. "FREQ=DAILY;COUNT=5". The rule's DTSTART is the base
// session's start, so the first occurrence is the base session itself; later
// occurrences are copies with fresh IDs and the duration preserved.
//
// Expansion stops at max occurrences (DefaultOccurrenceCap when max <= 0);
// the second return value reports whether the rule was truncated.
func ExpandRecurring(base *Session, rule string, max int) ([]*Session, bool, error) {
	if err := base.Validate(); err != nil {
		return nil, false, err
	}
	if max <= 0 {
		max = DefaultOccurrenceCap
	}

	r, err := rrule.StrToRRule(rule)
	if err != nil {
		return nil, false, fmt.Errorf("parsing recurrence rule: %w", err)
	}
	r.DTStart(base.StartsAt)

	dur := base.Duration()
	var out []*Session

	next := r.Iterator()
	for {
		occ, ok := next()
		if !ok {
			return out, false, nil
		}
		if len(out) >= max {
			return out, true, nil
		}
		out = append(out, sessionAt(base, occ, dur))
	}
}

// sessionAt returns the session occupying one occurrence. The base keeps its
// identity when the occurrence matches its own start.
func sessionAt(base *Session, start time.Time, dur time.Duration) *Session {
	if start.Equal(base.StartsAt) {
		return base
	}
	c := base.Clone()
	c.ID = uuid.NewString()
	c.StartsAt = start
	c.EndsAt = start.Add(dur)
	c.CreatedAt = time.Now()
	return c
}
