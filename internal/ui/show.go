package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fundingthecommons/impactful-events-sub003/internal/event"
)

func (a *App) showCmd() *cobra.Command {
	var noColor bool

	cmd := &cobra.Command{
		Use:   "show [session]",
		Short: "Show one session in full",
		Long: `Show every stored field of one session.

The session may be referenced by its full ID or by any unique prefix of
it, as printed by 'eventgrid list'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if noColor {
				DisableColor()
			}
			if err := a.ensureRepo(); err != nil {
				return err
			}

			ctx := context.Background()
			s, err := lookupSession(ctx, a.repo, args[0])
			if err != nil {
				return err
			}

			rooms, err := a.repo.ListRooms(ctx)
			if err != nil {
				return fmt.Errorf("listing rooms: %w", err)
			}

			loc, err := a.config.Location()
			if err != nil {
				return err
			}

			printSessionDetail(s, event.RoomNames(rooms), loc)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")
	return cmd
}

func printSessionDetail(s *event.Session, names map[string]string, loc *time.Location) {
	fmt.Println(formatHeader(s.Title))
	fmt.Printf("  ID        %s\n", s.ID)
	fmt.Printf("  Status    %s\n", statusLabel(s))
	fmt.Printf("  Day       %s\n", s.StartsAt.In(loc).Format("Monday, 2 Jan 2006"))
	fmt.Printf("  Time      %s (%s)\n", FormatClockRange(s, loc), FormatDuration(int(s.Duration().Minutes())))
	fmt.Printf("  Room      %s\n", roomLabel(s.RoomID, names))
	if len(s.Speakers) > 0 {
		fmt.Printf("  Speakers  %s\n", event.JoinSpeakers(s.Speakers))
	}
	if s.Description != "" {
		fmt.Printf("  Notes     %s\n", s.Description)
	}
	if s.InvalidInterval() {
		fmt.Printf("  %s\n", formatWarn("Stored interval is invalid (end not after start); session is off the grid"))
	}
}

func statusLabel(s *event.Session) string {
	if s.IsCancelled() {
		return formatMuted(string(s.Status))
	}
	return formatStats(string(s.Status))
}
