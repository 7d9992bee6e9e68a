package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fundingthecommons/impactful-events-sub003/internal/db"
	"github.com/fundingthecommons/impactful-events-sub003/internal/event"
	"github.com/fundingthecommons/impactful-events-sub003/internal/schedule"
)

func (a *App) moveCmd() *cobra.Command {
	var (
		to     string
		day    string
		room   string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "move [session]",
		Short: "Reschedule a session, pushing later sessions down as needed",
		Long: `Move a session to a new start time, keeping its duration.

Sessions already occupying the target room are pushed later, never
earlier, until everything fits again. The move is refused when the
cascade would push any session past the end of the day.

Without --day the session stays on its own day; without --room it stays
in its own room.`,
		Example: `  eventgrid move 3f2a --to=14:00
  eventgrid move 3f2a --to=09:30 --day=tomorrow --room="Main Hall"
  eventgrid move 3f2a --to=11:00 --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}

			ctx := context.Background()
			s, err := lookupSession(ctx, a.repo, args[0])
			if err != nil {
				return err
			}
			if !s.IsScheduled() {
				return fmt.Errorf("%q is cancelled, restore it before moving", s.Title)
			}

			loc, err := a.config.Location()
			if err != nil {
				return err
			}

			targetDay := schedule.DayOf(s.StartsAt.In(loc), loc)
			if day != "" {
				targetDay, err = a.dayFlag(day)
				if err != nil {
					return err
				}
			}
			newStart, err := clockOn(targetDay, to)
			if err != nil {
				return err
			}

			roomID := s.RoomID
			if room != "" {
				r, err := lookupRoom(ctx, a.repo, room)
				if err != nil {
					return err
				}
				roomID = r.ID
			}

			plan, daySessions, err := a.resolveMove(ctx, loc, s, newStart, roomID)
			if err != nil {
				return err
			}
			if plan.Empty() {
				fmt.Println("Session is already there; nothing to do.")
				return nil
			}

			titles := make(map[string]string, len(daySessions)+1)
			for _, ds := range daySessions {
				titles[ds.ID] = ds.Title
			}
			titles[s.ID] = s.Title

			for _, shift := range plan.Shifts {
				fmt.Printf("  %s -> %s  %s\n",
					shift.PrevStart.In(loc).Format("15:04"),
					shift.NewStart.In(loc).Format("15:04"),
					titles[shift.SessionID])
			}
			if plan.RoomMove() {
				rooms, err := a.repo.ListRooms(ctx)
				if err != nil {
					return fmt.Errorf("listing rooms: %w", err)
				}
				names := event.RoomNames(rooms)
				fmt.Printf("  moves to %s\n", roomLabel(plan.NewRoomID, names))
			}

			if dryRun {
				fmt.Println("(dry run - nothing saved)")
				return nil
			}

			if err := a.repo.CommitReschedule(ctx, plan); err != nil {
				if errors.Is(err, db.ErrCommitConflict) {
					return fmt.Errorf("schedule changed while resolving the move, rerun to retry: %w", err)
				}
				return fmt.Errorf("saving move: %w", err)
			}

			fmt.Printf("Moved %q to %s", s.Title, newStart.Format("15:04"))
			if pushed := len(plan.Shifts) - 1; pushed > 0 {
				fmt.Printf(", %d session(s) pushed later", pushed)
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "New start time as HH:MM (required)")
	cmd.Flags().StringVar(&day, "day", "", "Target day (2006-01-02, 'today', 'tomorrow', weekday, +N)")
	cmd.Flags().StringVar(&room, "room", "", "Target room name or ID")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the resulting shifts without saving")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

// resolveMove computes the shift plan for moving s to newStart in roomID,
// returning the plan together with the day's sessions so callers can label
// the shifted entries without another query.
func (a *App) resolveMove(ctx context.Context, loc *time.Location, s *event.Session, newStart time.Time, roomID string) (*event.ShiftPlan, []*event.Session, error) {
	day := schedule.DayOf(newStart, loc)
	daySessions, err := a.repo.ListSessionsBetween(ctx, day, schedule.NextDay(day))
	if err != nil {
		return nil, nil, fmt.Errorf("listing sessions: %w", err)
	}

	resolver := schedule.NewResolver(loc, nil)
	plan, err := resolver.Resolve(s, newStart, roomID, daySessions)
	if err != nil {
		if errors.Is(err, schedule.ErrOutOfBounds) {
			return nil, nil, fmt.Errorf("does not fit on %s: %w", day.Format("Monday, 2 Jan"), err)
		}
		return nil, nil, err
	}
	return plan, daySessions, nil
}
