// Package event defines the core domain types for eventgrid.
package event

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Validation errors.
var (
	ErrEmptyTitle      = errors.New("title cannot be empty")
	ErrMissingTimes    = errors.New("session must have start and end times")
	ErrInvalidInterval = errors.New("session end must be after its start")
)

// Domain errors.
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrRoomNotFound    = errors.New("room not found")
	ErrNotScheduled    = errors.New("session is not scheduled")
)

// Status represents the state of a session.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCancelled Status = "cancelled"
)

// Session represents one program slot: a talk, workshop, or block of time
// assigned to a room. Times are absolute instants; all calendar-day grouping
// happens in the venue's reference zone, never in the machine-local zone.
type Session struct {
	ID          string
	Title       string
	Speakers    []string
	RoomID      string // empty means unassigned
	StartsAt    time.Time
	EndsAt      time.Time
	Description string
	Status      Status
	CreatedAt   time.Time
}

// New creates a new Session with validation and a fresh ID.
func New(title string, speakers []string, roomID string, startsAt, endsAt time.Time) (*Session, error) {
	s := &Session{
		ID:        uuid.NewString(),
		Title:     strings.TrimSpace(title),
		Speakers:  speakers,
		RoomID:    roomID,
		StartsAt:  startsAt,
		EndsAt:    endsAt,
		Status:    StatusScheduled,
		CreatedAt: time.Now(),
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks the session's own fields. It does not look at other
// sessions; overlap policy lives in the schedule and storage layers.
func (s *Session) Validate() error {
	if strings.TrimSpace(s.Title) == "" {
		return ErrEmptyTitle
	}
	if s.StartsAt.IsZero() || s.EndsAt.IsZero() {
		return ErrMissingTimes
	}
	if !s.EndsAt.After(s.StartsAt) {
		return ErrInvalidInterval
	}
	return nil
}

// InvalidInterval reports whether the stored interval is degenerate
// (end at or before start). Such sessions stay out of grids and cascades
// but are surfaced to the operator as anomalies rather than dropped.
func (s *Session) InvalidInterval() bool {
	return !s.EndsAt.After(s.StartsAt)
}

// Duration returns the session length. Derived, never stored.
func (s *Session) Duration() time.Duration {
	return s.EndsAt.Sub(s.StartsAt)
}

// Overlaps reports whether the two half-open intervals [StartsAt, EndsAt)
// intersect. Back-to-back sessions do not overlap.
func (s *Session) Overlaps(other *Session) bool {
	if other == nil {
		return false
	}
	return s.StartsAt.Before(other.EndsAt) && other.StartsAt.Before(s.EndsAt)
}

// ConflictsWith reports whether two sessions compete for the same room at
// the same time. Cancelled sessions never conflict.
func (s *Session) ConflictsWith(other *Session) bool {
	if other == nil || s.ID == other.ID {
		return false
	}
	if !s.IsScheduled() || !other.IsScheduled() {
		return false
	}
	if s.RoomID != other.RoomID {
		return false
	}
	return s.Overlaps(other)
}

// IsScheduled returns true if the session has scheduled status.
func (s *Session) IsScheduled() bool {
	return s.Status == StatusScheduled
}

// IsCancelled returns true if the session has cancelled status.
func (s *Session) IsCancelled() bool {
	return s.Status == StatusCancelled
}

// Clone returns a deep copy. Used when a plan is applied optimistically to
// an in-memory snapshot while the commit is still in flight.
func (s *Session) Clone() *Session {
	c := *s
	c.Speakers = append([]string(nil), s.Speakers...)
	return &c
}

// SplitSpeakers parses a comma-separated speaker list as entered on the
// command line or in the session form. Empty entries are dropped.
func SplitSpeakers(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// JoinSpeakers renders a speaker list for display.
func JoinSpeakers(speakers []string) string {
	return strings.Join(speakers, ", ")
}
