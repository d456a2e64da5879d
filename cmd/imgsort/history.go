package main

import (
	"fmt"
	"path/filepath"
	"time"

	"imgsort/internal/errors"
	"imgsort/internal/journal"

	"github.com/spf13/cobra"
)

// NewHistoryCmd creates the history command
func NewHistoryCmd() *cobra.Command {
	var (
		limit int
		batch string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently moved images",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.DisableJournal {
				return errors.NewConfigError("the move journal is disabled", "disable_journal", errors.InvalidConfig, nil)
			}
			j, err := journal.Open(cfg.JournalPath)
			if err != nil {
				return err
			}
			defer j.Close()

			var entries []journal.Entry
			if batch != "" {
				entries, err = j.Batch(cmd.Context(), batch)
			} else {
				entries, err = j.Recent(cmd.Context(), limit)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				printWarning(out, "no moves recorded")
				return nil
			}
			for _, e := range entries {
				fmt.Fprintf(out, "%s  %s  %-7s %s -> %s\n",
					e.MovedAt.Format(time.DateTime),
					mutedStyle.Render(e.BatchID[:8]),
					e.Mode,
					filepath.Base(e.Source),
					labelStyle.Render(e.Group),
				)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of moves to show")
	cmd.Flags().StringVar(&batch, "batch", "", "show every move of one batch id")
	return cmd
}
