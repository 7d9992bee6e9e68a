package tui

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fundingthecommons/impactful-events-sub003/internal/event"
)

// DebugLogger logs TUI state, input, and reschedule activity to a file.
type DebugLogger struct {
	mu      sync.Mutex
	file    *os.File
	enabled bool
	seq     int
}

// Global debug logger instance
var debugLog *DebugLogger

// DebugLogPath is the fixed path for debug logs
const DebugLogPath = "eventgrid-debug.log"

// InitDebugLogger initializes the debug logger if debug mode is enabled.
func InitDebugLogger(enabled bool) error {
	if !enabled {
		debugLog = &DebugLogger{enabled: false}
		return nil
	}

	// Fixed name in the current directory, easy to tail
	f, err := os.Create(DebugLogPath)
	if err != nil {
		return fmt.Errorf("creating debug log: %w", err)
	}

	debugLog = &DebugLogger{
		file:    f,
		enabled: true,
	}

	debugLog.log("DEBUG_START", map[string]any{
		"log_file": DebugLogPath,
		"time":     time.Now().Format(time.RFC3339),
	})

	return nil
}

// CloseDebugLogger closes the debug log file.
func CloseDebugLogger() {
	if debugLog != nil && debugLog.file != nil {
		debugLog.log("DEBUG_END", map[string]any{
			"time": time.Now().Format(time.RFC3339),
		})
		_ = debugLog.file.Close()
	}
}

// log writes a structured log entry.
func (d *DebugLogger) log(event string, data map[string]any) {
	if d == nil || !d.enabled || d.file == nil {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.seq++
	entry := map[string]any{
		"seq":   d.seq,
		"ts":    time.Now().Format("15:04:05.000"),
		"event": event,
	}
	for k, v := range data {
		entry[k] = v
	}

	b, _ := json.Marshal(entry)
	_, _ = fmt.Fprintf(d.file, "%s\n", b)
}

// LogKeyPress logs a key press event.
func LogKeyPress(msg tea.KeyMsg) {
	if debugLog == nil || !debugLog.enabled {
		return
	}
	debugLog.log("KEY_PRESS", map[string]any{
		"key": msg.String(),
	})
}

// LogMouse logs a pointer event.
func LogMouse(msg tea.MouseMsg) {
	if debugLog == nil || !debugLog.enabled {
		return
	}
	debugLog.log("MOUSE", map[string]any{
		"x":      msg.X,
		"y":      msg.Y,
		"action": int(msg.Action),
		"button": int(msg.Button),
	})
}

// LogModeChange logs a mode change.
func LogModeChange(from, to Mode, reason string) {
	if debugLog == nil || !debugLog.enabled {
		return
	}
	debugLog.log("MODE_CHANGE", map[string]any{
		"from":   modeString(from),
		"to":     modeString(to),
		"reason": reason,
	})
}

// LogDrag logs a drag lifecycle event.
func LogDrag(stage, sessionID string, col, slot int, err error) {
	if debugLog == nil || !debugLog.enabled {
		return
	}
	data := map[string]any{
		"stage":   stage,
		"session": sessionID,
		"col":     col,
		"slot":    slot,
	}
	if err != nil {
		data["error"] = err.Error()
	}
	debugLog.log("DRAG", data)
}

// LogPlan logs a resolved shift plan before it is committed.
func LogPlan(plan *event.ShiftPlan) {
	if debugLog == nil || !debugLog.enabled || plan == nil {
		return
	}
	shifts := make([]map[string]any, 0, len(plan.Shifts))
	for _, sh := range plan.Shifts {
		shifts = append(shifts, map[string]any{
			"session":    sh.SessionID,
			"prev_start": sh.PrevStart.Format(time.RFC3339),
			"new_start":  sh.NewStart.Format(time.RFC3339),
		})
	}
	debugLog.log("PLAN", map[string]any{
		"session":   plan.SessionID,
		"new_room":  plan.NewRoomID,
		"prev_room": plan.PrevRoomID,
		"shifts":    shifts,
	})
}

// LogCommit logs the outcome of a commit.
func LogCommit(plan *event.ShiftPlan, err error) {
	if debugLog == nil || !debugLog.enabled {
		return
	}
	data := map[string]any{}
	if plan != nil {
		data["session"] = plan.SessionID
		data["shifts"] = len(plan.Shifts)
	}
	if err != nil {
		data["error"] = err.Error()
	}
	debugLog.log("COMMIT", data)
}

// LogError logs an error.
func LogError(context string, err error) {
	if debugLog == nil || !debugLog.enabled {
		return
	}
	debugLog.log("ERROR", map[string]any{
		"context": context,
		"error":   err.Error(),
	})
}

// modeString returns a string representation of a Mode.
func modeString(m Mode) string {
	switch m {
	case ModeNormal:
		return "Normal"
	case ModeDrag:
		return "Drag"
	case ModePrompt:
		return "Prompt"
	case ModeModal:
		return "Modal"
	default:
		return fmt.Sprintf("Unknown(%d)", m)
	}
}

// debugSink feeds layout and resolver diagnostics into the debug log. It is
// wired into the grid builder and resolver at model construction; with
// debugging off every call is a no-op.
type debugSink struct{}

func (debugSink) GridTruncated(day time.Time, requested, limit int) {
	if debugLog == nil || !debugLog.enabled {
		return
	}
	debugLog.log("GRID_TRUNCATED", map[string]any{
		"day":       day.Format("2006-01-02"),
		"requested": requested,
		"limit":     limit,
	})
}

func (debugSink) SessionSkipped(sessionID string, reason error) {
	if debugLog == nil || !debugLog.enabled {
		return
	}
	data := map[string]any{"session": sessionID}
	if reason != nil {
		data["reason"] = reason.Error()
	}
	debugLog.log("SESSION_SKIPPED", data)
}

func (debugSink) CascadeResolved(sessionID string, shifted int) {
	if debugLog == nil || !debugLog.enabled {
		return
	}
	debugLog.log("CASCADE", map[string]any{
		"session": sessionID,
		"shifted": shifted,
	})
}
