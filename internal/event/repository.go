package event

import (
	"context"
	"time"
)

// Shift is one session's interval change within a ShiftPlan. PrevStart and
// PrevEnd record the interval the plan was computed against; the gateway
// refuses the whole plan if any session no longer matches its basis.
type Shift struct {
	SessionID string
	PrevStart time.Time
	PrevEnd   time.Time
	NewStart  time.Time
	NewEnd    time.Time
}

// ShiftPlan is the complete set of interval changes produced by resolving a
// single reschedule. Shifts[0] is the moved session itself; cascaded
// neighbors follow in the order they must be written, earliest affected
// first, so a partially applied plan is still recoverable by inspection.
// Day and DayEnd bound the calendar day the plan was resolved within; the
// gateway re-validates that whole window after applying the shifts.
type ShiftPlan struct {
	SessionID  string // the session the operator moved
	NewStart   time.Time
	NewRoomID  string
	PrevRoomID string // room basis for the conflict check
	Day        time.Time
	DayEnd     time.Time
	Shifts     []Shift
}

// Empty reports whether the plan changes nothing. A drop on a session's own
// start time in its own room resolves to an empty plan and no commit.
func (p *ShiftPlan) Empty() bool {
	return p == nil || len(p.Shifts) == 0
}

// RoomMove reports whether the plan moves the session to a different room.
func (p *ShiftPlan) RoomMove() bool {
	return p != nil && p.NewRoomID != p.PrevRoomID
}

// Repository defines the storage interface for rooms and sessions.
type Repository interface {
	// CreateSession adds a new session.
	CreateSession(ctx context.Context, s *Session) error

	// CreateSessions adds multiple sessions atomically. Used by recurring
	// adds and ICS import.
	CreateSessions(ctx context.Context, sessions []*Session) error

	// GetSession retrieves a session by ID. Returns nil, nil when absent.
	GetSession(ctx context.Context, id string) (*Session, error)

	// UpdateSession rewrites a session's editable fields (title, speakers,
	// description, room, times) in place.
	UpdateSession(ctx context.Context, s *Session) error

	// CancelSession marks a session as cancelled. Cancelled sessions keep
	// their interval but leave the grid and all conflict checks.
	CancelSession(ctx context.Context, id string) error

	// ListSessionsBetween returns sessions with StartsAt in [from, to),
	// ordered by start time.
	ListSessionsBetween(ctx context.Context, from, to time.Time) ([]*Session, error)

	// CreateRoom adds a new room.
	CreateRoom(ctx context.Context, r *Room) error

	// GetRoom retrieves a room by ID. Returns nil, nil when absent.
	GetRoom(ctx context.Context, id string) (*Room, error)

	// ListRooms returns all rooms in display order.
	ListRooms(ctx context.Context) ([]*Room, error)

	// CommitReschedule applies a resolved plan atomically. Every shift must
	// still match its PrevStart/PrevEnd basis and the final state of the
	// destination room's day must be overlap-free, or nothing is applied.
	CommitReschedule(ctx context.Context, plan *ShiftPlan) error

	// Close releases any resources held by the repository.
	Close() error
}
