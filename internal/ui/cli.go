// Package ui implements the eventgrid command line interface.
package ui

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fundingthecommons/impactful-events-sub003/internal/config"
	"github.com/fundingthecommons/impactful-events-sub003/internal/db"
	"github.com/fundingthecommons/impactful-events-sub003/internal/event"
	"github.com/fundingthecommons/impactful-events-sub003/internal/tui"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	repo     event.Repository
	config   *config.Config
	root     *cobra.Command
	debug    bool // Enable debug logging
	ownsRepo bool
}

// NewApp creates a new CLI application. A nil repo is opened lazily from the
// configured database path the first time a subcommand needs storage; the
// bare root command passes nil through to the TUI, which opens and owns its
// own connection.
func NewApp(repo event.Repository, cfg *config.Config) *App {
	a := &App{repo: repo, config: cfg}

	a.root = &cobra.Command{
		Use:   "eventgrid",
		Short: "A drag-to-reschedule day board for multi-room events",
		Long: `Eventgrid lays one day of a venue's program out on a time grid,
one column per room, and lets the operator drag sessions to new slots.
A drop pushes whatever it lands on later in the same room until a gap
absorbs the cascade; moves that would run past the end of the day are
refused.

Run it without a subcommand to open the interactive board. Subcommands
cover scripted use: adding and moving sessions, listing days, and
getting schedules in and out as iCalendar files.`,
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			return tui.RunWithDebug(a.repo, a.config, a.debug)
		},
	}

	// Add global flags
	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging (writes eventgrid-debug.log)")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.addCmd())
	a.root.AddCommand(a.listCmd())
	a.root.AddCommand(a.showCmd())
	a.root.AddCommand(a.moveCmd())
	a.root.AddCommand(a.cancelCmd())
	a.root.AddCommand(a.roomsCmd())
	a.root.AddCommand(a.exportCmd())
	a.root.AddCommand(a.importCmd())
	a.root.AddCommand(a.boardCmd())

	return a
}

// ensureRepo opens the configured database on first use, creating the data
// directory if needed.
func (a *App) ensureRepo() error {
	if a.repo != nil {
		return nil
	}

	path := a.config.Storage.DBPath
	if path == "" {
		return fmt.Errorf("db path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	repo, err := db.New(path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	a.repo = repo
	a.ownsRepo = true
	return nil
}

// Close releases the repository if this app opened it.
func (a *App) Close() error {
	if !a.ownsRepo || a.repo == nil {
		return nil
	}
	err := a.repo.Close()
	a.repo = nil
	a.ownsRepo = false
	return err
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("eventgrid %s (commit: %s)\n", Version, Commit)
		},
	}
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}
