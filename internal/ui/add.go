package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fundingthecommons/impactful-events-sub003/internal/event"
)

func (a *App) addCmd() *cobra.Command {
	var (
		day      string
		start    string
		end      string
		room     string
		speakers string
		desc     string
		recur    string
		count    int
	)

	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add a session to the schedule",
		Long: `Add a session to the schedule.

Times are wall clock readings in the venue's timezone. --recur takes an
RFC 5545 recurrence rule and materializes one session per occurrence,
all with the same clock times and duration.`,
		Example: `  eventgrid add "Opening Keynote" --day=2026-03-10 --start=09:00 --end=10:00 --room="Main Hall"
  eventgrid add "Standup" --start=09:00 --end=09:15 --recur="FREQ=DAILY;COUNT=5"`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}

			target, err := a.dayFlag(day)
			if err != nil {
				return err
			}
			startsAt, err := clockOn(target, start)
			if err != nil {
				return err
			}
			endsAt, err := clockOn(target, end)
			if err != nil {
				return err
			}

			ctx := context.Background()
			roomID := ""
			roomName := ""
			if room != "" {
				r, err := lookupRoom(ctx, a.repo, room)
				if err != nil {
					return err
				}
				roomID, roomName = r.ID, r.Name
			}

			s, err := event.New(args[0], event.SplitSpeakers(speakers), roomID, startsAt, endsAt)
			if err != nil {
				return err
			}
			s.Description = desc

			if recur == "" {
				if err := a.repo.CreateSession(ctx, s); err != nil {
					return fmt.Errorf("creating session: %w", err)
				}
				line := fmt.Sprintf("Created %s: %s  %s %s",
					shortID(s.ID), s.Title, target.Format("2006-01-02"), FormatClockRange(s, target.Location()))
				if roomName != "" {
					line += "  [" + roomName + "]"
				}
				fmt.Println(line)
				return nil
			}

			occurrences, truncated, err := event.ExpandRecurring(s, recur, count)
			if err != nil {
				return err
			}
			if err := a.repo.CreateSessions(ctx, occurrences); err != nil {
				return fmt.Errorf("creating sessions: %w", err)
			}

			first := occurrences[0]
			last := occurrences[len(occurrences)-1]
			fmt.Printf("Created %d sessions of %q, %s through %s\n",
				len(occurrences), s.Title,
				first.StartsAt.In(target.Location()).Format("2006-01-02"),
				last.StartsAt.In(target.Location()).Format("2006-01-02"))
			if truncated {
				fmt.Printf("Rule kept producing occurrences; expansion stopped at %d\n", len(occurrences))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&day, "day", "", "Day (YYYY-MM-DD or a jump expression, default: today)")
	cmd.Flags().StringVar(&start, "start", "", "Start time (HH:MM, required)")
	cmd.Flags().StringVar(&end, "end", "", "End time (HH:MM, required)")
	cmd.Flags().StringVar(&room, "room", "", "Room name or ID (default: unassigned)")
	cmd.Flags().StringVar(&speakers, "speakers", "", "Comma-separated speaker names")
	cmd.Flags().StringVar(&desc, "desc", "", "Description")
	cmd.Flags().StringVar(&recur, "recur", "", "RFC 5545 recurrence rule, e.g. FREQ=WEEKLY;COUNT=4")
	cmd.Flags().IntVar(&count, "count", 0, fmt.Sprintf("Occurrence cap for --recur (default %d)", event.DefaultOccurrenceCap))

	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}
