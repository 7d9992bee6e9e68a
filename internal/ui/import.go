package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fundingthecommons/impactful-events-sub003/internal/event"
	"github.com/fundingthecommons/impactful-events-sub003/internal/ics"
)

func (a *App) importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [file.ics]",
		Short: "Import sessions from an iCalendar file",
		Long: `Import sessions from an iCalendar (.ics) file.

Events whose LOCATION matches a room name land in that room; everything
else comes in unassigned. Events without a summary or without concrete
start and end times are skipped with a warning.`,
		Example: `  eventgrid import schedule.ics`,
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}

			sourcePath, err := resolvePath(args[0])
			if err != nil {
				return err
			}

			info, err := os.Stat(sourcePath)
			if err != nil {
				if os.IsNotExist(err) {
					return fmt.Errorf("calendar file does not exist: %s", sourcePath)
				}
				return fmt.Errorf("checking calendar file: %w", err)
			}
			if info.IsDir() {
				return fmt.Errorf("calendar path is a directory: %s", sourcePath)
			}

			f, err := os.Open(sourcePath)
			if err != nil {
				return fmt.Errorf("opening calendar file: %w", err)
			}
			defer func() { _ = f.Close() }()

			count, warnings, err := importSessions(context.Background(), a.repo, f)
			if err != nil {
				return err
			}

			for _, w := range warnings {
				fmt.Fprintf(os.Stderr, "  ! %s\n", w)
			}
			fmt.Printf("Imported %d sessions from %s\n", count, sourcePath)
			if len(warnings) > 0 {
				fmt.Printf("Skipped %d events\n", len(warnings))
			}
			return nil
		},
	}

	return cmd
}

func importSessions(ctx context.Context, dest event.Repository, r io.Reader) (int, []string, error) {
	rooms, err := dest.ListRooms(ctx)
	if err != nil {
		return 0, nil, fmt.Errorf("listing rooms: %w", err)
	}

	sessions, warnings, err := ics.ParseSessions(r, rooms)
	if err != nil {
		return 0, warnings, fmt.Errorf("parsing calendar: %w", err)
	}
	if len(sessions) == 0 {
		return 0, warnings, nil
	}

	if err := dest.CreateSessions(ctx, sessions); err != nil {
		return 0, warnings, fmt.Errorf("storing sessions: %w", err)
	}
	return len(sessions), warnings, nil
}

func resolvePath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("empty path")
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	return absPath, nil
}
