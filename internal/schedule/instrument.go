package schedule

import "time"

// Instrumentation receives diagnostics from the layout and resolution core.
// The core never logs on its own; hosts wire this to whatever sink they have
// (the TUI debug log, a test recorder) or leave the nop default.
type Instrumentation interface {
	// GridTruncated fires when a day needs more slots than the cap allows.
	GridTruncated(day time.Time, requested, limit int)

	// SessionSkipped fires when a session is left off the grid or out of a
	// cascade, typically because its stored interval is degenerate.
	SessionSkipped(sessionID string, reason error)

	// CascadeResolved fires after a successful resolution with the number
	// of neighbors that had to shift.
	CascadeResolved(sessionID string, shifted int)
}

// Nop is the default Instrumentation. It discards everything.
type Nop struct{}

func (Nop) GridTruncated(time.Time, int, int) {}
func (Nop) SessionSkipped(string, error)      {}
func (Nop) CascadeResolved(string, int)       {}
