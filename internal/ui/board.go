package ui

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/fundingthecommons/impactful-events-sub003/internal/config"
	"github.com/fundingthecommons/impactful-events-sub003/internal/event"
	"github.com/fundingthecommons/impactful-events-sub003/internal/schedule"
)

func (a *App) boardCmd() *cobra.Command {
	var (
		day     string
		refresh string
		once    bool
		noColor bool
	)

	cmd := &cobra.Command{
		Use:   "board",
		Short: "Show a read-only day board that refreshes itself",
		Long: `Show the day's schedule grouped by room and keep it fresh.

The board redraws on a schedule (cron expression or '@every' interval)
until interrupted. Useful on a hallway display next to the registration
desk.`,
		Example: `  eventgrid board
  eventgrid board --day=2026-03-10 --refresh="@every 30s"
  eventgrid board --once`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if noColor {
				DisableColor()
			}
			if err := a.ensureRepo(); err != nil {
				return err
			}

			d, err := a.dayFlag(day)
			if err != nil {
				return err
			}
			loc, err := a.config.Location()
			if err != nil {
				return err
			}

			render := func() error {
				ctx := context.Background()
				sessions, err := a.repo.ListSessionsBetween(ctx, d, schedule.NextDay(d))
				if err != nil {
					return fmt.Errorf("listing sessions: %w", err)
				}
				rooms, err := a.repo.ListRooms(ctx)
				if err != nil {
					return fmt.Errorf("listing rooms: %w", err)
				}
				fmt.Print("\x1b[2J\x1b[H")
				fmt.Print(boardView(a.config, d, rooms, sessions, termWidth(), time.Now().In(loc)))
				return nil
			}

			if err := render(); err != nil {
				return err
			}
			if once {
				return nil
			}

			c := cron.New()
			if _, err := c.AddFunc(refresh, func() {
				if err := render(); err != nil {
					fmt.Fprintf(os.Stderr, "refresh failed: %v\n", err)
				}
			}); err != nil {
				return fmt.Errorf("invalid refresh schedule %q: %w", refresh, err)
			}
			c.Start()
			defer c.Stop()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			<-ctx.Done()
			return nil
		},
	}

	cmd.Flags().StringVar(&day, "day", "", "Day to display (defaults to today)")
	cmd.Flags().StringVar(&refresh, "refresh", "@every 1m", "Redraw schedule, cron expression or '@every' interval")
	cmd.Flags().BoolVar(&once, "once", false, "Render once and exit")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")
	return cmd
}

// boardView renders the full board as a string. Cancelled sessions are
// skipped, sessions with invalid intervals are counted into a footer note
// instead of being placed.
func boardView(cfg *config.Config, day time.Time, rooms []*event.Room, sessions []*event.Session, width int, now time.Time) string {
	loc := day.Location()

	byRoom := make(map[string][]*event.Session)
	var unassigned []*event.Session
	anomalies := 0
	total := 0
	for _, s := range sessions {
		if !s.IsScheduled() {
			continue
		}
		if s.InvalidInterval() {
			anomalies++
			continue
		}
		total++
		if s.RoomID == "" {
			unassigned = append(unassigned, s)
			continue
		}
		byRoom[s.RoomID] = append(byRoom[s.RoomID], s)
	}

	venue := cfg.Venue.Name
	if venue == "" {
		venue = "Schedule"
	}
	separator := strings.Repeat("─", min(width, 74))

	var b strings.Builder
	b.WriteString(formatHeader(fmt.Sprintf("%s  %s", venue, day.Format("Monday, 2 Jan 2006"))))
	b.WriteString("\n")
	b.WriteString(separator)
	b.WriteString("\n")

	writeRow := func(s *event.Session) {
		marker := "  "
		if !now.Before(s.StartsAt) && now.Before(s.EndsAt) {
			marker = formatStats("▶ ")
		}
		line := fmt.Sprintf("  %s%s  %s", marker, FormatClockRange(s, loc), s.Title)
		if len(s.Speakers) > 0 {
			line += "  " + formatMuted(event.JoinSpeakers(s.Speakers))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	event.SortRooms(rooms)
	for _, r := range rooms {
		b.WriteString(formatRoom(r.Name))
		b.WriteString("\n")
		if len(byRoom[r.ID]) == 0 {
			b.WriteString(formatMuted("  no sessions"))
			b.WriteString("\n")
		}
		for _, s := range byRoom[r.ID] {
			writeRow(s)
		}
		b.WriteString("\n")
	}
	if len(unassigned) > 0 {
		b.WriteString(formatRoom("Unassigned"))
		b.WriteString("\n")
		for _, s := range unassigned {
			writeRow(s)
		}
		b.WriteString("\n")
	}

	b.WriteString(separator)
	b.WriteString("\n")
	b.WriteString(formatMuted(fmt.Sprintf("%d sessions  updated %s", total, now.Format("15:04:05"))))
	b.WriteString("\n")
	if anomalies > 0 {
		b.WriteString(formatWarn(fmt.Sprintf("%d sessions with invalid times are off the board", anomalies)))
		b.WriteString("\n")
	}
	return b.String()
}
