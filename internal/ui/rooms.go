package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fundingthecommons/impactful-events-sub003/internal/event"
)

func (a *App) roomsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rooms",
		Short: "List rooms",
		Long: `List the venue's rooms in display order.

Rooms become grid columns on the board, ordered by their sort order.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}

			ctx := context.Background()
			rooms, err := a.repo.ListRooms(ctx)
			if err != nil {
				return fmt.Errorf("listing rooms: %w", err)
			}
			if len(rooms) == 0 {
				fmt.Println("No rooms yet. Add one with 'eventgrid rooms add NAME'.")
				return nil
			}

			event.SortRooms(rooms)
			width := 0
			for _, r := range rooms {
				if len(r.Name) > width {
					width = len(r.Name)
				}
			}
			for _, r := range rooms {
				name := formatRoom(fmt.Sprintf("%-*s", width, r.Name))
				fmt.Printf("  %2d  %s  %s\n", r.SortOrder, name, shortID(r.ID))
			}
			return nil
		},
	}

	cmd.AddCommand(a.roomsAddCmd())
	return cmd
}

func (a *App) roomsAddCmd() *cobra.Command {
	var order int

	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Add a room",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}

			r, err := event.NewRoom(args[0], order)
			if err != nil {
				return err
			}
			if err := a.repo.CreateRoom(context.Background(), r); err != nil {
				return fmt.Errorf("creating room: %w", err)
			}

			fmt.Printf("Created room %s: %s\n", shortID(r.ID), r.Name)
			return nil
		},
	}

	cmd.Flags().IntVar(&order, "order", 0, "Sort order on the board, lowest first")
	return cmd
}
