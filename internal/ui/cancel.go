package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) cancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel [session]",
		Short: "Cancel a session",
		Long: `Cancel a session without deleting it.

Cancelled sessions keep their slot in the database but are skipped by
the board and by reschedule cascades.`,
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
			if s.IsCancelled() {
				fmt.Printf("%q is already cancelled\n", s.Title)
				return nil
			}

			if err := a.repo.CancelSession(ctx, s.ID); err != nil {
				return fmt.Errorf("cancelling session: %w", err)
			}

			fmt.Printf("Cancelled %s: %s\n", shortID(s.ID), s.Title)
			return nil
		},
	}
}
