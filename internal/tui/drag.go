package tui

// DragPhase is the lifecycle state of the drag controller.
type DragPhase int

const (
	// DragIdle means no pointer interaction is in progress.
	DragIdle DragPhase = iota
	// DragPending means the pointer is down on a session but has not yet
	// travelled far enough to count as a drag.
	DragPending
	// DragActive means the session is riding the pointer.
	DragActive
)

// DragResultKind classifies what a finished interaction amounted to.
type DragResultKind int

const (
	// DragNone means nothing happened (release with no press, cancel while idle).
	DragNone DragResultKind = iota
	// DragClick means the press never became a drag; the caller should open
	// the session's detail view.
	DragClick
	// DragDropped means an active drag ended on a target cell.
	DragDropped
	// DragCancelled means an active or pending drag was abandoned.
	DragCancelled
)

// DragResult is the outcome of a Release or Cancel.
type DragResult struct {
	Kind      DragResultKind
	SessionID string
	Col       int // target column for drops, pressed column for clicks
	Slot      int // slot under the pointer, not the session start
	Grab      int // slots between the session start and the grabbed cell
}

// DragState tracks one pointer interaction with the grid. It is a pure state
// machine: it knows nothing about sessions beyond an ID, and nothing about
// rendering. Exactly one interaction can be in flight at a time; Press and
// Grab refuse to start a second one.
type DragState struct {
	phase     DragPhase
	threshold int

	sessionID string
	grab      int

	pressCol  int
	pressSlot int
	pressX    int
	pressY    int

	col  int
	slot int
}

// NewDragState creates an idle controller. threshold is the Chebyshev
// distance in cells the pointer must travel before a press becomes a drag;
// values below zero are treated as zero, which promotes on the first motion.
func NewDragState(threshold int) DragState {
	if threshold < 0 {
		threshold = 0
	}
	return DragState{phase: DragIdle, threshold: threshold}
}

// Phase returns the current lifecycle state.
func (d DragState) Phase() DragPhase {
	return d.phase
}

// SessionID returns the session under interaction, empty when idle.
func (d DragState) SessionID() string {
	if d.phase == DragIdle {
		return ""
	}
	return d.sessionID
}

// Target returns the cell currently under the pointer.
func (d DragState) Target() (col, slot int) {
	return d.col, d.slot
}

// GrabOffset returns the slot offset between the session start and the
// grabbed cell. Dropping places the start that many slots above the pointer
// so the block moves with the part that was picked up.
func (d DragState) GrabOffset() int {
	return d.grab
}

// Dragging reports whether a drag is past the threshold.
func (d DragState) Dragging() bool {
	return d.phase == DragActive
}

// Press starts a pending interaction on a session block. x and y are
// terminal cell coordinates used only for threshold distance; col and slot
// are grid coordinates. Returns false when another interaction is already in
// flight.
func (d *DragState) Press(sessionID string, col, slot, x, y, grab int) bool {
	if d.phase != DragIdle || sessionID == "" {
		return false
	}
	d.phase = DragPending
	d.sessionID = sessionID
	d.pressCol, d.pressSlot = col, slot
	d.pressX, d.pressY = x, y
	d.col, d.slot = col, slot
	d.grab = grab
	return true
}

// Grab starts a drag directly in the active phase, bypassing the threshold.
// Keyboard moves use it: pressing the move key is already unambiguous intent.
func (d *DragState) Grab(sessionID string, col, slot, grab int) bool {
	if d.phase != DragIdle || sessionID == "" {
		return false
	}
	d.phase = DragActive
	d.sessionID = sessionID
	d.pressCol, d.pressSlot = col, slot
	d.col, d.slot = col, slot
	d.grab = grab
	return true
}

// Move tracks pointer motion. In the pending phase it promotes to active
// once the pointer has travelled threshold cells from the press point; in
// the active phase it retargets. Reports whether the visible state changed.
func (d *DragState) Move(col, slot, x, y int) bool {
	switch d.phase {
	case DragPending:
		if chebyshev(x-d.pressX, y-d.pressY) < d.threshold {
			return false
		}
		d.phase = DragActive
		d.col, d.slot = col, slot
		return true
	case DragActive:
		if col == d.col && slot == d.slot {
			return false
		}
		d.col, d.slot = col, slot
		return true
	default:
		return false
	}
}

// Shift retargets an active drag by a relative cell offset. Used by keyboard
// moves; no-op unless a drag is active.
func (d *DragState) Shift(dcol, dslot int) bool {
	if d.phase != DragActive {
		return false
	}
	d.col += dcol
	d.slot += dslot
	if d.slot < 0 {
		d.slot = 0
	}
	if d.col < 0 {
		d.col = 0
	}
	return true
}

// Release ends the interaction. A pending press resolves to a click on the
// original cell; an active drag resolves to a drop on the target cell.
func (d *DragState) Release() DragResult {
	switch d.phase {
	case DragPending:
		res := DragResult{
			Kind:      DragClick,
			SessionID: d.sessionID,
			Col:       d.pressCol,
			Slot:      d.pressSlot,
			Grab:      d.grab,
		}
		d.reset()
		return res
	case DragActive:
		res := DragResult{
			Kind:      DragDropped,
			SessionID: d.sessionID,
			Col:       d.col,
			Slot:      d.slot,
			Grab:      d.grab,
		}
		d.reset()
		return res
	default:
		return DragResult{Kind: DragNone}
	}
}

// Cancel abandons the interaction without any effect on the schedule.
func (d *DragState) Cancel() DragResult {
	if d.phase == DragIdle {
		return DragResult{Kind: DragNone}
	}
	res := DragResult{Kind: DragCancelled, SessionID: d.sessionID}
	d.reset()
	return res
}

func (d *DragState) reset() {
	threshold := d.threshold
	*d = DragState{phase: DragIdle, threshold: threshold}
}

func chebyshev(dx, dy int) int {
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	if dx > dy {
		return dx
	}
	return dy
}
