package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fundingthecommons/impactful-events-sub003/internal/event"
	"github.com/fundingthecommons/impactful-events-sub003/internal/schedule"
)

func (a *App) listCmd() *cobra.Command {
	var (
		day     string
		from    string
		to      string
		verbose bool
		noColor bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List sessions for a day or date range",
		Long: `List sessions grouped by day.

With no flags, lists today. --day accepts the same expressions as the
board's jump prompt; --from and --to select an inclusive range of days.`,
		Example: `  eventgrid list
  eventgrid list --day=tomorrow
  eventgrid list --from=2026-03-10 --to=2026-03-12`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if noColor {
				DisableColor()
			}
			if err := a.ensureRepo(); err != nil {
				return err
			}

			firstDay, lastDay, err := a.listRange(day, from, to)
			if err != nil {
				return err
			}

			ctx := context.Background()
			sessions, err := a.repo.ListSessionsBetween(ctx, firstDay, schedule.NextDay(lastDay))
			if err != nil {
				return fmt.Errorf("listing sessions: %w", err)
			}
			if len(sessions) == 0 {
				fmt.Println("No sessions in the selected days.")
				return nil
			}

			rooms, err := a.repo.ListRooms(ctx)
			if err != nil {
				return fmt.Errorf("listing rooms: %w", err)
			}
			names := event.RoomNames(rooms)

			loc, err := a.config.Location()
			if err != nil {
				return err
			}

			opts := PrintOpts{
				RoomWidth:    maxRoomWidth(sessions, names),
				ShowDuration: true,
				Verbose:      verbose,
			}
			maxTitleWidth := opts.CalcMaxTitleWidth(40)

			var stats Stats
			days := schedule.PartitionByDay(sessions, loc)
			for i, ds := range days {
				if i > 0 {
					fmt.Println()
				}
				fmt.Println(formatHeader(ds.Day.Format("Monday, 2 Jan 2006")))
				for _, s := range ds.Sessions {
					PrintSessionRow(s, names, loc, opts, maxTitleWidth)
					AccumulateStats(&stats, s)
				}
			}

			fmt.Println()
			PrintStats(stats, names)

			dayCount := int(lastDay.Sub(firstDay).Hours()/24) + 1
			capacity := a.operatingMinutes() * len(rooms) * dayCount
			if capacity > 0 && stats.ScheduledMinutes > 0 {
				fmt.Printf("Occupancy: %s\n", OccupancyBar(stats.ScheduledMinutes, capacity, 20))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&day, "day", "", "Single day to list (default: today)")
	cmd.Flags().StringVar(&from, "from", "", "First day of a range")
	cmd.Flags().StringVar(&to, "to", "", "Last day of a range (defaults to --from)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show full titles and speakers")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")

	return cmd
}

// listRange turns the day/from/to flags into an inclusive day range.
func (a *App) listRange(day, from, to string) (time.Time, time.Time, error) {
	if from == "" && to != "" {
		return time.Time{}, time.Time{}, fmt.Errorf("--to requires --from")
	}
	if from == "" {
		d, err := a.dayFlag(day)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		return d, d, nil
	}
	if day != "" {
		return time.Time{}, time.Time{}, fmt.Errorf("--day cannot be combined with --from/--to")
	}

	first, err := a.dayFlag(from)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	last := first
	if to != "" {
		if last, err = a.dayFlag(to); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if last.Before(first) {
		return time.Time{}, time.Time{}, fmt.Errorf("--to is before --from")
	}
	return first, last, nil
}

// operatingMinutes returns the venue's daily capacity per room.
func (a *App) operatingMinutes() int {
	return a.config.DayEndMinutes() - a.config.DayStartMinutes()
}

// maxRoomWidth sizes the room column to the widest label in the listing.
func maxRoomWidth(sessions []*event.Session, names map[string]string) int {
	w := 0
	for _, s := range sessions {
		if l := len(roomLabel(s.RoomID, names)); l > w {
			w = l
		}
	}
	return w
}
