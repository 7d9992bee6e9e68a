package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/fundingthecommons/impactful-events-sub003/internal/ics"
	"github.com/fundingthecommons/impactful-events-sub003/internal/schedule"
)

func (a *App) exportCmd() *cobra.Command {
	var (
		day    string
		all    bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export sessions as an iCalendar feed",
		Long: `Export sessions as an iCalendar (.ics) document.

By default only the selected day is exported; --all exports every
stored session. The document goes to stdout unless --output names a
file.`,
		Example: `  eventgrid export --day=2026-03-10 > day.ics
  eventgrid export --all --output=schedule.ics`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if day != "" && all {
				return errors.New("--day cannot be combined with --all")
			}
			if err := a.ensureRepo(); err != nil {
				return err
			}

			from, to := time.Time{}, endOfTime
			if !all {
				d, err := a.dayFlag(day)
				if err != nil {
					return err
				}
				from, to = d, schedule.NextDay(d)
			}

			ctx := context.Background()
			sessions, err := a.repo.ListSessionsBetween(ctx, from, to)
			if err != nil {
				return fmt.Errorf("listing sessions: %w", err)
			}
			if len(sessions) == 0 {
				return errors.New("no sessions in the selected range")
			}

			rooms, err := a.repo.ListRooms(ctx)
			if err != nil {
				return fmt.Errorf("listing rooms: %w", err)
			}

			doc := ics.BuildCalendar(a.config.Venue.Name, sessions, rooms)
			if output == "" {
				fmt.Print(doc)
				return nil
			}
			if err := os.WriteFile(output, []byte(doc), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}
			fmt.Printf("Wrote %d sessions to %s\n", len(sessions), output)
			return nil
		},
	}

	cmd.Flags().StringVar(&day, "day", "", "Day to export (defaults to today)")
	cmd.Flags().BoolVar(&all, "all", false, "Export every stored session")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")
	return cmd
}
