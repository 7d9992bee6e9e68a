// Package tui provides the terminal user interface for eventgrid.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fundingthecommons/impactful-events-sub003/internal/config"
	"github.com/fundingthecommons/impactful-events-sub003/internal/event"
	"github.com/fundingthecommons/impactful-events-sub003/internal/schedule"
	"github.com/fundingthecommons/impactful-events-sub003/internal/tui/commands"
	"github.com/fundingthecommons/impactful-events-sub003/internal/tui/theme"
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeDrag        // A session is riding the pointer or the move keys
	ModePrompt      // Jump-to-date prompt is focused
	ModeModal
)

// ModalType identifies the type of modal.
type ModalType int

const (
	ModalNone          ModalType = iota
	ModalSessionForm             // New session creation
	ModalSessionDetail           // View an existing session
	ModalConfirmCancel
	ModalAnomalies // Sessions the grid could not place
	ModalHelp
)

// Duration options for the session form, in minutes.
var durationOptions = []int{15, 30, 45, 60, 90, 120}

const defaultDurationIdx = 3 // 60 minutes

// Position represents a cursor position in the grid.
type Position struct {
	Col  int // Room column, 0 can be the unassigned column
	Slot int // 0-based slot row
}

// Model is the main TUI model.
type Model struct {
	// Dependencies
	repo   event.Repository
	config *config.Config

	// Theme and styles
	theme  *theme.Theme
	styles *Styles

	// Day state
	zone     *time.Location // venue reference zone
	day      time.Time      // reference-zone midnight of the visible day
	sessions []*event.Session
	rooms    []*event.Room
	grid     *schedule.Grid

	builder  *schedule.Builder
	resolver *schedule.Resolver

	// Interaction state
	mode    Mode
	drag    DragState
	cursor  Position
	loading bool

	// Live preview of the drag in flight: the plan the current target would
	// produce and a grid with that plan applied. previewErr is set instead
	// when the target is not droppable.
	preview     *event.ShiftPlan
	previewGrid *schedule.Grid
	previewErr  error

	// Rooms with a commit in flight. New drags touching one are refused
	// until the commit resolves.
	pending map[string]bool

	// Modal state
	modalType      ModalType
	modalSession   *event.Session  // Session being viewed (nil for new)
	confirmMessage string          // Message for confirm modal
	formTitle      textinput.Model // Title input
	formSpeakers   textinput.Model // Speakers input
	formFocus      int             // 0=title, 1=speakers, 2=duration
	formDuration   int             // Index into durationOptions
	formSlot       Position        // Grid cell the form will create into

	// Components
	prompt textinput.Model

	// Terminal dimensions and layout
	width        int
	height       int
	colWidth     int // Dynamic column width based on terminal width
	scrollOffset int // For scrolling the grid

	// Messages
	statusMsg  string    // Temporary status/error message
	statusTime time.Time // When to clear message

	// Error state
	err error

	ownsRepo bool
	nowFunc  func() time.Time
}

// ModelOption configures optional model behavior.
type ModelOption func(*Model)

// WithNowFunc overrides the clock, for tests.
func WithNowFunc(now func() time.Time) ModelOption {
	return func(m *Model) {
		m.nowFunc = now
		m.day = schedule.DayOf(now(), m.zone)
	}
}

// WithDay opens the board on a specific day instead of today.
func WithDay(day time.Time) ModelOption {
	return func(m *Model) {
		m.day = schedule.DayOf(day, m.zone)
	}
}

// New creates a new TUI model.
func New(repo event.Repository, cfg *config.Config, opts ...ModelOption) Model {
	// Load theme from config
	t, err := theme.Load(cfg.UI.Theme)
	if err != nil {
		// Fallback to mocha on error
		t, _ = theme.Load("mocha")
	}
	styles := NewStyles(t)

	zone, zerr := cfg.Location()
	if zerr != nil {
		zone = time.UTC
	}

	sink := debugSink{}

	formTitle := textinput.New()
	formTitle.Placeholder = "Session title"
	formTitle.CharLimit = 140
	formTitle.Width = 44
	formTitle.PlaceholderStyle = styles.ModalPlaceholderStyle
	formTitle.TextStyle = styles.ModalInputTextStyle
	formTitle.PromptStyle = styles.ModalInputTextStyle
	formTitle.Cursor.Style = styles.ModalInputCursorStyle

	formSpeakers := textinput.New()
	formSpeakers.Placeholder = "Speakers, comma separated"
	formSpeakers.CharLimit = 200
	formSpeakers.Width = 44
	formSpeakers.PlaceholderStyle = styles.ModalPlaceholderStyle
	formSpeakers.TextStyle = styles.ModalInputTextStyle
	formSpeakers.PromptStyle = styles.ModalInputTextStyle
	formSpeakers.Cursor.Style = styles.ModalInputCursorStyle

	prompt := textinput.New()
	prompt.Placeholder = "2026-03-10"
	prompt.CharLimit = 10
	prompt.Width = 16

	m := Model{
		repo:         repo,
		config:       cfg,
		theme:        t,
		styles:       styles,
		zone:         zone,
		builder:      schedule.NewBuilder(gridConfig(cfg, zone), sink),
		resolver:     schedule.NewResolver(zone, sink),
		mode:         ModeNormal,
		drag:         NewDragState(cfg.Schedule.DragThreshold),
		pending:      make(map[string]bool),
		formTitle:    formTitle,
		formSpeakers: formSpeakers,
		formDuration: defaultDurationIdx,
		prompt:       prompt,
		colWidth:     defaultColWidth,
		loading:      true,
		nowFunc:      time.Now,
	}

	for _, opt := range opts {
		opt(&m)
	}
	if m.day.IsZero() {
		m.day = schedule.DayOf(m.nowFunc(), m.zone)
	}

	return m
}

// Init loads the first day.
func (m Model) Init() tea.Cmd {
	return commands.LoadDay(m.repo, m.day, m.zone)
}

// Run starts the TUI.
func Run(repo event.Repository, cfg *config.Config) error {
	return RunWithDebug(repo, cfg, false)
}

// RunWithDebug starts the TUI with optional debug logging. With debug
// enabled, every keystroke, drag transition, and commit is logged to the
// debug file in the working directory.
func RunWithDebug(repo event.Repository, cfg *config.Config, debug bool) error {
	if err := InitDebugLogger(debug); err != nil {
		return err
	}
	defer CloseDebugLogger()

	ownsRepo := false
	if repo == nil {
		opened, err := openRepo(cfg.Storage.DBPath)
		if err != nil {
			return err
		}
		repo = opened
		ownsRepo = true
	}

	model := New(repo, cfg)
	model.ownsRepo = ownsRepo

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	finalModel, err := p.Run()
	if fm, ok := finalModel.(Model); ok && fm.ownsRepo && fm.repo != nil {
		_ = fm.repo.Close()
	}
	if err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}

// gridConfig translates the venue configuration into grid geometry.
func gridConfig(cfg *config.Config, zone *time.Location) schedule.GridConfig {
	gc := schedule.DefaultGridConfig(zone)
	if cfg.Schedule.SlotMinutes > 0 {
		gc.SlotDuration = time.Duration(cfg.Schedule.SlotMinutes) * time.Minute
	}
	if cfg.Schedule.MaxSlotsPerDay > 0 {
		gc.MaxSlots = cfg.Schedule.MaxSlotsPerDay
	}
	if start, end := cfg.DayStartMinutes(), cfg.DayEndMinutes(); end > start {
		gc.DayStartMinutes = start
		gc.DayEndMinutes = end
	}
	return gc
}
