package schedule

import (
	"time"

	"github.com/fundingthecommons/impactful-events-sub003/internal/event"
)

// Grid defaults. A 15-minute slot over a worst-case 24-hour day gives the
// 96-slot cap; a day that would need more (a session spilling past midnight,
// corrupt data) is truncated rather than rendered unbounded.
const (
	DefaultSlotDuration = 15 * time.Minute
	DefaultMaxSlots     = 96
	DefaultDayStartMin  = 8 * 60
	DefaultDayEndMin    = 20 * 60
)

// GridConfig controls slot geometry for one venue.
type GridConfig struct {
	SlotDuration    time.Duration
	DayStartMinutes int // venue opening, minutes from midnight
	DayEndMinutes   int // venue closing, minutes from midnight
	MaxSlots        int
	Location        *time.Location // reference zone
}

// DefaultGridConfig returns the standard 15-minute, 08:00-20:00 grid in loc.
func DefaultGridConfig(loc *time.Location) GridConfig {
	return GridConfig{
		SlotDuration:    DefaultSlotDuration,
		DayStartMinutes: DefaultDayStartMin,
		DayEndMinutes:   DefaultDayEndMin,
		MaxSlots:        DefaultMaxSlots,
		Location:        loc,
	}
}

func (c GridConfig) normalized() GridConfig {
	if c.SlotDuration <= 0 {
		c.SlotDuration = DefaultSlotDuration
	}
	if c.MaxSlots <= 0 {
		c.MaxSlots = DefaultMaxSlots
	}
	if c.DayEndMinutes <= c.DayStartMinutes {
		c.DayStartMinutes = DefaultDayStartMin
		c.DayEndMinutes = DefaultDayEndMin
	}
	if c.Location == nil {
		c.Location = time.UTC
	}
	return c
}

// TimeSlot is one row of the time axis. Row counts from 1.
type TimeSlot struct {
	Start time.Time
	Row   int
}

// Column is one room column of the grid, in display order.
type Column struct {
	RoomID string
	Title  string
}

// Placement positions one session on the grid. StartRow and EndRow are grid
// LINE numbers in the CSS sense: a session occupying the first slot row of a
// two-header grid has StartRow 3 and EndRow 4, and EndRow is exclusive.
type Placement struct {
	Session  *event.Session
	Column   int
	StartRow int
	EndRow   int
}

// Grid is the computed layout of one venue day: the slot axis, the room
// columns, and a placement for every schedulable session. Renderers consume
// it as-is; nothing in here touches a terminal.
type Grid struct {
	Day        time.Time
	Slots      []TimeSlot
	Columns    []Column
	Placements []Placement
	HeaderRows int // 1, or 2 when room sub-headers are shown

	// Anomalies surfaced to the operator rather than silently dropped.
	Truncated bool
	Skipped   []*event.Session

	firstMin int // minutes from midnight of the first slot
	slotMin  int
}

// Builder lays out day grids. Safe for reuse across days.
type Builder struct {
	cfg  GridConfig
	inst Instrumentation
}

// NewBuilder creates a grid builder. A nil inst defaults to Nop.
func NewBuilder(cfg GridConfig, inst Instrumentation) *Builder {
	if inst == nil {
		inst = Nop{}
	}
	return &Builder{cfg: cfg.normalized(), inst: inst}
}

// Build lays out one day. Sessions are expected to start on that day (see
// PartitionByDay); cancelled sessions are left off the grid, sessions with
// degenerate intervals are collected in Skipped and reported.
//
// The slot axis covers at least the venue's operating hours and expands to
// fit out-of-hours sessions: the earlier of (earliest start, opening) rounded
// down to a slot boundary through the later of (latest end, closing) rounded
// up, truncated at MaxSlots.
func (b *Builder) Build(day time.Time, sessions []*event.Session, rooms []*event.Room) *Grid {
	cfg := b.cfg
	day = DayOf(day, cfg.Location)
	slotMin := int(cfg.SlotDuration / time.Minute)

	var valid []*event.Session
	var skipped []*event.Session
	for _, s := range sessions {
		switch {
		case s.IsCancelled():
			// cancelled sessions keep their data but leave the grid
		case s.InvalidInterval():
			skipped = append(skipped, s)
			b.inst.SessionSkipped(s.ID, event.ErrInvalidInterval)
		default:
			valid = append(valid, s)
		}
	}
	valid = append([]*event.Session(nil), valid...)
	sortSessions(valid)

	earliest, latest := cfg.DayStartMinutes, cfg.DayEndMinutes
	for _, s := range valid {
		if m := minutesSince(day, s.StartsAt); m < earliest {
			earliest = m
		}
		if m := minutesSince(day, s.EndsAt); m > latest {
			latest = m
		}
	}
	if earliest < 0 {
		earliest = 0
	}

	firstMin := floorDiv(earliest, slotMin) * slotMin
	lastMin := ceilDiv(latest, slotMin) * slotMin

	requested := (lastMin - firstMin) / slotMin
	count := requested
	if count > cfg.MaxSlots {
		count = cfg.MaxSlots
		b.inst.GridTruncated(day, requested, cfg.MaxSlots)
	}

	g := &Grid{
		Day:       day,
		Slots:     make([]TimeSlot, count),
		Truncated: requested > cfg.MaxSlots,
		Skipped:   skipped,
		firstMin:  firstMin,
		slotMin:   slotMin,
	}
	for i := range g.Slots {
		g.Slots[i] = TimeSlot{
			Start: day.Add(time.Duration(firstMin+i*slotMin) * time.Minute),
			Row:   i + 1,
		}
	}

	g.Columns = buildColumns(rooms)
	g.HeaderRows = 1
	if len(g.Columns) > 1 {
		g.HeaderRows = 2
	}

	lastLine := g.HeaderRows + count + 1
	for _, s := range valid {
		startRow := floorDiv(minutesSince(day, s.StartsAt)-firstMin, slotMin) + g.HeaderRows + 1
		endRow := ceilDiv(minutesSince(day, s.EndsAt)-firstMin, slotMin) + g.HeaderRows + 1
		if endRow < startRow+1 {
			endRow = startRow + 1
		}
		startRow = clamp(startRow, g.HeaderRows+1, lastLine-1)
		endRow = clamp(endRow, startRow+1, lastLine)

		g.Placements = append(g.Placements, Placement{
			Session:  s,
			Column:   g.ColumnIndex(s.RoomID),
			StartRow: startRow,
			EndRow:   endRow,
		})
	}

	return g
}

// buildColumns orders rooms for display. With no rooms the grid still has a
// single unnamed column so unassigned sessions have somewhere to land.
func buildColumns(rooms []*event.Room) []Column {
	if len(rooms) == 0 {
		return []Column{{}}
	}
	sorted := event.SortRooms(append([]*event.Room(nil), rooms...))
	cols := make([]Column, len(sorted))
	for i, r := range sorted {
		cols[i] = Column{RoomID: r.ID, Title: r.Name}
	}
	return cols
}

// SlotCount returns the number of slot rows.
func (g *Grid) SlotCount() int {
	return len(g.Slots)
}

// SlotTime returns the start instant of slot i (0-based), or the zero time
// when i is out of range.
func (g *Grid) SlotTime(i int) time.Time {
	if i < 0 || i >= len(g.Slots) {
		return time.Time{}
	}
	return g.Slots[i].Start
}

// SlotIndexOf returns the 0-based slot covering t, or -1 when t falls
// outside the grid.
func (g *Grid) SlotIndexOf(t time.Time) int {
	if len(g.Slots) == 0 {
		return -1
	}
	i := floorDiv(minutesSince(g.Day, t)-g.firstMin, g.slotMin)
	if i < 0 || i >= len(g.Slots) {
		return -1
	}
	return i
}

// ColumnIndex returns the column for a room ID. Unknown and empty room IDs
// fall back to column 0 so every session stays visible.
func (g *Grid) ColumnIndex(roomID string) int {
	for i, c := range g.Columns {
		if c.RoomID == roomID {
			return i
		}
	}
	return 0
}

// RoomIDAt returns the room ID of a column, empty for the fallback column.
func (g *Grid) RoomIDAt(col int) string {
	if col < 0 || col >= len(g.Columns) {
		return ""
	}
	return g.Columns[col].RoomID
}

// PlacementAt returns the placement covering a (column, slot) cell, if any.
func (g *Grid) PlacementAt(col, slotIdx int) *Placement {
	line := g.HeaderRows + slotIdx + 1
	for i := range g.Placements {
		p := &g.Placements[i]
		if p.Column == col && p.StartRow <= line && line < p.EndRow {
			return p
		}
	}
	return nil
}

// SessionAt returns the session covering a (column, slot) cell, if any.
func (g *Grid) SessionAt(col, slotIdx int) *event.Session {
	if p := g.PlacementAt(col, slotIdx); p != nil {
		return p.Session
	}
	return nil
}

// minutesSince returns whole minutes from the day's midnight to t. Using the
// instant difference rather than wall-clock fields keeps slot math monotonic
// across DST transitions and sessions spilling past midnight.
func minutesSince(day, t time.Time) int {
	return int(t.Sub(day) / time.Minute)
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func ceilDiv(a, b int) int {
	return floorDiv(a+b-1, b)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
